package models

// Role is the closed set of authorization levels known to the newsroom.
type Role string

const (
	RoleCustomer    Role = "customer"
	RoleNewsAnchor  Role = "news_anchor"
	RoleChiefAuthor Role = "chief_author"
	RoleAdmin       Role = "admin"
)

// ValidRole reports whether r is one of the known roles.
func ValidRole(r Role) bool {
	switch r {
	case RoleCustomer, RoleNewsAnchor, RoleChiefAuthor, RoleAdmin:
		return true
	default:
		return false
	}
}

// Capability is an operation class checked before the workflow engine runs.
type Capability string

const (
	// CapabilityCreateStory allows submitting new stories into the pipeline.
	CapabilityCreateStory Capability = "create_story"
	// CapabilityReviewStory allows approve/reject/publish transitions on any story.
	CapabilityReviewStory Capability = "review_story"
	// CapabilityListAllStories allows listing stories regardless of authorship.
	CapabilityListAllStories Capability = "list_all_stories"
	// CapabilityDeleteStory allows removing a story record entirely.
	CapabilityDeleteStory Capability = "delete_story"
)

// Principal is the authenticated actor performing an operation. It is passed
// explicitly into every workflow operation; the engine never reads ambient
// session state.
type Principal struct {
	ID       string `json:"id"`
	Name     string `json:"name,omitempty"`
	Role     Role   `json:"role"`
	Verified bool   `json:"verified"`
}

// CanManageStories reports whether the principal may review any story.
func (p Principal) CanManageStories() bool {
	return p.Role == RoleAdmin || p.Role == RoleChiefAuthor
}

// Can reports whether the principal holds the given capability. An unverified
// news anchor has author privileges revoked until an admin verifies them.
func (p Principal) Can(c Capability) bool {
	switch c {
	case CapabilityCreateStory:
		return p.CanManageStories() || (p.Role == RoleNewsAnchor && p.Verified)
	case CapabilityReviewStory, CapabilityListAllStories:
		return p.CanManageStories()
	case CapabilityDeleteStory:
		return p.Role == RoleAdmin
	default:
		return false
	}
}
