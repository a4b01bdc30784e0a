package models

import (
	"time"
)

// File is the metadata record for one stored object. FolderID is nil while
// the file sits in the owner's unsorted bucket.
type File struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	OriginalName string    `json:"original_name" gorm:"type:varchar(255);not null"`
	Size         int64     `json:"size"`
	MimeType     string    `json:"mime_type" gorm:"type:varchar(100)"`
	StorageKind  string    `json:"storage_kind" gorm:"type:varchar(10)"`
	StorageKey   string    `json:"storage_key" gorm:"type:varchar(500);uniqueIndex"`
	UserID       uint      `json:"user_id" gorm:"index;not null"`
	FolderID     *uint     `json:"folder_id" gorm:"index"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type MoveFileRequest struct {
	// nil moves the file back to the unsorted bucket
	FolderID *uint `json:"folder_id"`
}
