// Package sqlite is the companion backend's persistence layer, GORM over a
// single SQLite database.
package sqlite

import "time"

// User is an account row. Passwords are stored as bcrypt hashes only.
type User struct {
	ID           string `gorm:"primaryKey"`
	Name         string
	Email        string `gorm:"uniqueIndex"`
	PasswordHash string
	CreatedAt    time.Time
}

// Project is a board owned by a user.
type Project struct {
	ID          string `gorm:"primaryKey"`
	UserID      string `gorm:"index"`
	Title       string
	Subject     string
	Description string
	CreatedAt   time.Time
}

// ProjectState is the latest pushed snapshot for a project, stored as the raw
// JSON document. Latest-wins: each save replaces the row.
type ProjectState struct {
	ProjectID string `gorm:"primaryKey"`
	UserID    string `gorm:"index"`
	Payload   []byte
	UpdatedAt time.Time
}

// UploadedFile is an attached file's metadata and content.
type UploadedFile struct {
	ID        string `gorm:"primaryKey"`
	ProjectID string `gorm:"index"`
	UserID    string `gorm:"index"`
	Name      string
	FileType  string
	Size      int64
	Content   []byte
	CreatedAt time.Time
}

// FileImport is one ingested study material with its extraction results.
type FileImport struct {
	ID            int64  `gorm:"primaryKey;autoIncrement"`
	FileID        string `gorm:"uniqueIndex"`
	UserID        string `gorm:"index"`
	Name          string
	FileType      string
	ExtractedText string
	Terms         int
	Definitions   int
	Examples      int
	CreatedAt     time.Time
}

// Post is a feed entry.
type Post struct {
	ID        string `gorm:"primaryKey"`
	UserID    string `gorm:"index"`
	Author    string
	Content   string
	CreatedAt time.Time
}

// Like marks one user's like on a post. Liking twice removes the row.
type Like struct {
	PostID string `gorm:"primaryKey"`
	UserID string `gorm:"primaryKey"`
}

// Comment is a reply on a post.
type Comment struct {
	ID        string `gorm:"primaryKey"`
	PostID    string `gorm:"index"`
	UserID    string
	Author    string
	Content   string
	CreatedAt time.Time
}
