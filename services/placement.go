package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"

	"gorm.io/gorm"

	"filenest/models"
	"filenest/repository"
)

// PlacementService owns the file/folder placement rules: every file
// belongs to exactly one of {an owned folder, the unsorted bucket}, and
// stored objects and records are created and deleted together.
type PlacementService struct {
	db       *gorm.DB
	files    *repository.FileRepo
	folders  *repository.FolderRepo
	backend  StorageBackend
	activity *ActivityLogger
}

func NewPlacementService(db *gorm.DB, files *repository.FileRepo, folders *repository.FolderRepo, backend StorageBackend, activity *ActivityLogger) *PlacementService {
	return &PlacementService{
		db:       db,
		files:    files,
		folders:  folders,
		backend:  backend,
		activity: activity,
	}
}

// checkFolder validates that a non-nil target folder is owned by ownerID.
func (s *PlacementService) checkFolder(ownerID uint, folderID *uint) error {
	if folderID == nil {
		return nil
	}
	if _, err := s.folders.ByID(ownerID, *folderID); err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrInvalidFolder
		}
		return err
	}
	return nil
}

// Upload stores the object first and creates the record second; the
// upload is only acknowledged once both exist. If the record insert
// fails, the freshly stored object is deleted again so it cannot leak.
func (s *PlacementService) Upload(ctx context.Context, ownerID uint, r io.Reader, size int64, originalName, mimeType string, folderID *uint) (*models.File, error) {
	if err := s.checkFolder(ownerID, folderID); err != nil {
		return nil, err
	}

	ref, err := s.backend.Store(ctx, r, size, mimeType, originalName)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}

	file := &models.File{
		OriginalName: originalName,
		Size:         size,
		MimeType:     mimeType,
		StorageKind:  ref.Kind,
		StorageKey:   ref.Key,
		UserID:       ownerID,
		FolderID:     folderID,
	}

	if err := s.files.Create(file); err != nil {
		// compensating delete; the object is unreachable either way, so a
		// failure here is logged, not surfaced
		if derr := s.backend.Delete(ctx, ref); derr != nil {
			log.Printf("upload rollback: failed to delete object %s: %v", ref.Key, derr)
		}
		return nil, fmt.Errorf("failed to save file record: %w", err)
	}

	s.activity.Record(ownerID, file.ID, "upload", originalName)
	return file, nil
}

// Move reassigns the file to folderID, or to the unsorted bucket when
// folderID is nil. Moving to the current folder is a no-op success.
func (s *PlacementService) Move(ctx context.Context, ownerID, fileID uint, folderID *uint) (*models.File, error) {
	if err := s.checkFolder(ownerID, folderID); err != nil {
		return nil, err
	}

	if err := s.files.SetFolder(ownerID, fileID, folderID); err != nil {
		return nil, err
	}

	file, err := s.files.ByID(ownerID, fileID)
	if err != nil {
		return nil, err
	}

	s.activity.Record(ownerID, fileID, "move", file.OriginalName)
	return file, nil
}

// DeleteFile removes the stored object, then the record. A failed object
// delete does not block the record delete: a record pointing at a gone
// object beats a file the user can never get rid of.
func (s *PlacementService) DeleteFile(ctx context.Context, ownerID, fileID uint) error {
	file, err := s.files.ByID(ownerID, fileID)
	if err != nil {
		return err
	}

	s.deleteObject(ctx, file)

	// conditional delete; the loser of a concurrent double-delete sees
	// ErrNotFound here
	if err := s.files.Delete(ownerID, fileID); err != nil {
		return err
	}

	s.activity.Record(ownerID, fileID, "delete", file.OriginalName)
	return nil
}

// DeleteFolder deletes every contained file's stored object, then the
// file records and the folder record inside one transaction, so no
// listing ever sees the folder gone while its files still reference it.
func (s *PlacementService) DeleteFolder(ctx context.Context, ownerID, folderID uint) error {
	folder, err := s.folders.ByID(ownerID, folderID)
	if err != nil {
		return err
	}

	files, err := s.files.ListByFolder(ownerID, folderID)
	if err != nil {
		return err
	}
	for i := range files {
		s.deleteObject(ctx, &files[i])
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.files.DeleteByFolderTx(tx, ownerID, folderID); err != nil {
			return err
		}
		return s.folders.DeleteTx(tx, ownerID, folderID)
	})
	if err != nil {
		return err
	}

	s.activity.Record(ownerID, 0, "delete_folder", folder.Name)
	return nil
}

func (s *PlacementService) deleteObject(ctx context.Context, file *models.File) {
	ref := StorageRef{Kind: file.StorageKind, Key: file.StorageKey}
	if err := s.backend.Delete(ctx, ref); err != nil {
		log.Printf("failed to delete stored object %s: %v", file.StorageKey, err)
	}
}

func (s *PlacementService) ListAll(ownerID uint) ([]models.File, error) {
	return s.files.ListAll(ownerID)
}

func (s *PlacementService) ListUnsorted(ownerID uint) ([]models.File, error) {
	return s.files.ListUnsorted(ownerID)
}

// ListByFolder requires an owned folder; a foreign folder id reports
// ErrNotFound exactly like a missing one.
func (s *PlacementService) ListByFolder(ownerID, folderID uint) ([]models.File, error) {
	if _, err := s.folders.ByID(ownerID, folderID); err != nil {
		return nil, err
	}
	return s.files.ListByFolder(ownerID, folderID)
}

func (s *PlacementService) ListFolders(ownerID uint) ([]models.Folder, error) {
	return s.folders.ListWithFiles(ownerID)
}

func (s *PlacementService) GetFolder(ownerID, folderID uint) (*models.Folder, error) {
	return s.folders.ByIDWithFiles(ownerID, folderID)
}

func (s *PlacementService) CreateFolder(ownerID uint, name string) (*models.Folder, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrInvalidName
	}

	folder := &models.Folder{Name: name, UserID: ownerID}
	if err := s.folders.Create(folder); err != nil {
		return nil, err
	}
	return folder, nil
}

func (s *PlacementService) RenameFolder(ownerID, folderID uint, name string) (*models.Folder, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrInvalidName
	}

	if err := s.folders.Rename(ownerID, folderID, name); err != nil {
		return nil, err
	}
	return s.folders.ByID(ownerID, folderID)
}

// Download resolves the owned file to something the HTTP layer can serve:
// a local path to stream, or a presigned URL to redirect to.
func (s *PlacementService) Download(ctx context.Context, ownerID, fileID uint) (*models.File, string, error) {
	file, err := s.files.ByID(ownerID, fileID)
	if err != nil {
		return nil, "", err
	}

	location, err := s.backend.Resolve(ctx, StorageRef{Kind: file.StorageKind, Key: file.StorageKey})
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrStorage, err)
	}

	s.activity.Record(ownerID, fileID, "download", file.OriginalName)
	return file, location, nil
}
