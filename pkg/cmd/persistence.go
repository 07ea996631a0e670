// Package cmd wires shared infrastructure for the newsdesk binaries.
package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/newsdesk/newsdesk/pkg/persistence"
	"github.com/newsdesk/newsdesk/pkg/persistence/file"
	"github.com/newsdesk/newsdesk/pkg/persistence/postgresql"
	"github.com/newsdesk/newsdesk/pkg/persistence/redisdb"
)

// NewPersistence selects a storage adapter from the database URL scheme:
// postgres://, redis://, or a plain path / file:// URL for local development.
func NewPersistence(ctx context.Context, logger *slog.Logger, databaseURL string) (persistence.Persistence, error) {
	switch parseProvider(databaseURL) {
	case "postgres", "postgresql":
		return postgresql.NewPersistence(ctx, logger, databaseURL)
	case "redis", "rediss":
		return redisdb.NewPersistence(ctx, databaseURL)
	case "file":
		return file.NewPersistence(databaseURL), nil
	default:
		return nil, fmt.Errorf("unsupported database URL %q", databaseURL)
	}
}

func parseProvider(databaseURL string) string {
	scheme, _, found := strings.Cut(databaseURL, "://")
	if !found {
		return "file"
	}

	return scheme
}
