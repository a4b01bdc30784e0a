package repository

import (
	"errors"

	"gorm.io/gorm"

	"filenest/models"
)

type FolderRepo struct {
	db *gorm.DB
}

func NewFolderRepo(db *gorm.DB) *FolderRepo {
	return &FolderRepo{db: db}
}

func (r *FolderRepo) Create(folder *models.Folder) error {
	return r.db.Create(folder).Error
}

func (r *FolderRepo) ByID(ownerID, id uint) (*models.Folder, error) {
	var folder models.Folder
	err := r.db.Where("id = ? AND user_id = ?", id, ownerID).First(&folder).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &folder, nil
}

func (r *FolderRepo) ByIDWithFiles(ownerID, id uint) (*models.Folder, error) {
	var folder models.Folder
	err := r.db.Preload("Files").Where("id = ? AND user_id = ?", id, ownerID).First(&folder).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &folder, nil
}

func (r *FolderRepo) ListWithFiles(ownerID uint) ([]models.Folder, error) {
	var folders []models.Folder
	err := r.db.Preload("Files").Where("user_id = ?", ownerID).
		Order("created_at DESC").Find(&folders).Error
	return folders, err
}

// Rename updates the folder name in one conditional statement; a missing
// or foreign folder reports ErrNotFound.
func (r *FolderRepo) Rename(ownerID, id uint, name string) error {
	res := r.db.Model(&models.Folder{}).
		Where("id = ? AND user_id = ?", id, ownerID).
		Update("name", name)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteTx removes the folder record inside the caller's transaction.
func (r *FolderRepo) DeleteTx(tx *gorm.DB, ownerID, id uint) error {
	res := tx.Where("id = ? AND user_id = ?", id, ownerID).Delete(&models.Folder{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
