package models

import (
	"time"
)

type Folder struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"type:varchar(255);not null"`
	UserID    uint      `json:"user_id" gorm:"index;not null"`
	Files     []File    `json:"files,omitempty" gorm:"foreignKey:FolderID"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type CreateFolderRequest struct {
	Name string `json:"name" binding:"required"`
}

type RenameFolderRequest struct {
	Name string `json:"name" binding:"required"`
}
