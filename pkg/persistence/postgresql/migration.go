package postgresql

func migrations() map[int]string {
	return map[int]string{
		1: `
			-- Create stories table
			CREATE TABLE stories (
				id UUID PRIMARY KEY,
				title TEXT NOT NULL,
				content TEXT NOT NULL,
				excerpt TEXT,
				category VARCHAR(100) NOT NULL,
				author_id VARCHAR(255) NOT NULL,
				status VARCHAR(50) NOT NULL CHECK (status IN ('pending', 'approved', 'published', 'rejected')),
				image_url TEXT,
				slug VARCHAR(100),
				reviewed_by VARCHAR(255),
				reviewed_at TIMESTAMP WITH TIME ZONE,
				review_notes TEXT,
				created_at TIMESTAMP WITH TIME ZONE NOT NULL,
				updated_at TIMESTAMP WITH TIME ZONE NOT NULL
			);

			CREATE INDEX idx_stories_status ON stories(status);
			CREATE INDEX idx_stories_author_id ON stories(author_id);
			CREATE INDEX idx_stories_created_at ON stories(created_at);
		`,
		2: `
			-- Create articles table for the public reader surface
			CREATE TABLE articles (
				id UUID PRIMARY KEY,
				title TEXT NOT NULL,
				excerpt TEXT,
				content TEXT NOT NULL,
				image_url TEXT,
				category VARCHAR(100) NOT NULL,
				author_id VARCHAR(255) NOT NULL,
				author_name VARCHAR(255),
				author_email VARCHAR(255),
				published BOOLEAN NOT NULL DEFAULT false,
				featured BOOLEAN NOT NULL DEFAULT false,
				slug VARCHAR(100) NOT NULL,
				publication_date TIMESTAMP WITH TIME ZONE NOT NULL,
				created_at TIMESTAMP WITH TIME ZONE NOT NULL,
				updated_at TIMESTAMP WITH TIME ZONE NOT NULL,
				deleted_at TIMESTAMP WITH TIME ZONE
			);

			CREATE INDEX idx_articles_category ON articles(category);
			CREATE INDEX idx_articles_published ON articles(published);
			CREATE INDEX idx_articles_publication_date ON articles(publication_date);
			CREATE UNIQUE INDEX idx_articles_slug ON articles(slug) WHERE deleted_at IS NULL;
		`,
	}
}
