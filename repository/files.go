package repository

import (
	"errors"

	"gorm.io/gorm"

	"filenest/models"
)

type FileRepo struct {
	db *gorm.DB
}

func NewFileRepo(db *gorm.DB) *FileRepo {
	return &FileRepo{db: db}
}

func (r *FileRepo) Create(file *models.File) error {
	return r.db.Create(file).Error
}

func (r *FileRepo) ByID(ownerID, id uint) (*models.File, error) {
	var file models.File
	err := r.db.Where("id = ? AND user_id = ?", id, ownerID).First(&file).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &file, nil
}

func (r *FileRepo) ListAll(ownerID uint) ([]models.File, error) {
	var files []models.File
	err := r.db.Where("user_id = ?", ownerID).
		Order("created_at DESC").Find(&files).Error
	return files, err
}

func (r *FileRepo) ListUnsorted(ownerID uint) ([]models.File, error) {
	var files []models.File
	err := r.db.Where("user_id = ? AND folder_id IS NULL", ownerID).
		Order("created_at DESC").Find(&files).Error
	return files, err
}

func (r *FileRepo) ListByFolder(ownerID, folderID uint) ([]models.File, error) {
	var files []models.File
	err := r.db.Where("user_id = ? AND folder_id = ?", ownerID, folderID).
		Order("created_at DESC").Find(&files).Error
	return files, err
}

// SetFolder reassigns the file in one conditional UPDATE. folderID nil
// moves the file to the unsorted bucket. A concurrent delete makes the
// update match zero rows, which reports ErrNotFound instead of touching
// anything.
func (r *FileRepo) SetFolder(ownerID, id uint, folderID *uint) error {
	res := r.db.Model(&models.File{}).
		Where("id = ? AND user_id = ?", id, ownerID).
		Update("folder_id", folderID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes the record in one conditional statement. The loser of a
// concurrent double-delete gets ErrNotFound.
func (r *FileRepo) Delete(ownerID, id uint) error {
	res := r.db.Where("id = ? AND user_id = ?", id, ownerID).Delete(&models.File{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteByFolderTx removes every file record in the folder inside the
// caller's transaction. Zero matches is fine: empty folders delete too.
func (r *FileRepo) DeleteByFolderTx(tx *gorm.DB, ownerID, folderID uint) error {
	return tx.Where("user_id = ? AND folder_id = ?", ownerID, folderID).
		Delete(&models.File{}).Error
}
