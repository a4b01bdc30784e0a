package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"filenest/models"
	"filenest/services"
)

type FileHandler struct {
	placement *services.PlacementService
}

func NewFileHandler(placement *services.PlacementService) *FileHandler {
	return &FileHandler{placement: placement}
}

// UploadFile accepts a multipart upload with an optional folder_id form
// field; without it the file lands in the unsorted bucket.
func (h *FileHandler) UploadFile(c *gin.Context) {
	userID := c.GetUint("user_id")

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "no file uploaded",
		})
		return
	}
	defer file.Close()

	var folderID *uint
	if raw := c.PostForm("folder_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"message": "invalid folder id",
			})
			return
		}
		v := uint(id)
		folderID = &v
	}

	record, err := h.placement.Upload(
		c.Request.Context(),
		userID,
		file,
		header.Size,
		header.Filename,
		header.Header.Get("Content-Type"),
		folderID,
	)
	if err != nil {
		if errors.Is(err, services.ErrInvalidFolder) {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"message": "target folder does not exist",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "failed to upload file",
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "file uploaded successfully",
		"data":    record,
	})
}

// ListFiles returns all of the caller's files.
func (h *FileHandler) ListFiles(c *gin.Context) {
	userID := c.GetUint("user_id")

	files, err := h.placement.ListAll(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "failed to list files",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    files,
	})
}

// ListUnsorted returns the caller's files with no folder assignment.
func (h *FileHandler) ListUnsorted(c *gin.Context) {
	userID := c.GetUint("user_id")

	files, err := h.placement.ListUnsorted(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "failed to list files",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    files,
	})
}

// MoveFile reassigns a file to a folder, or to the unsorted bucket when
// folder_id is null.
func (h *FileHandler) MoveFile(c *gin.Context) {
	userID := c.GetUint("user_id")

	fileID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "invalid file id",
		})
		return
	}

	var req models.MoveFileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "invalid request",
		})
		return
	}

	file, err := h.placement.Move(c.Request.Context(), userID, uint(fileID), req.FolderID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidFolder):
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"message": "target folder does not exist",
			})
		case errors.Is(err, services.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"success": false,
				"message": "file not found",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"message": "failed to move file",
			})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "file moved successfully",
		"data":    file,
	})
}

// DeleteFile removes the stored object and the record.
func (h *FileHandler) DeleteFile(c *gin.Context) {
	userID := c.GetUint("user_id")

	fileID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "invalid file id",
		})
		return
	}

	if err := h.placement.DeleteFile(c.Request.Context(), userID, uint(fileID)); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"success": false,
				"message": "file not found",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "failed to delete file",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "file deleted successfully",
	})
}

// DownloadFile streams a locally stored file, or redirects to a presigned
// URL for object storage.
func (h *FileHandler) DownloadFile(c *gin.Context) {
	userID := c.GetUint("user_id")

	fileID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "invalid file id",
		})
		return
	}

	file, location, err := h.placement.Download(c.Request.Context(), userID, uint(fileID))
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"success": false,
				"message": "file not found",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "failed to resolve file",
		})
		return
	}

	if file.StorageKind == services.StorageKindPath {
		c.FileAttachment(location, file.OriginalName)
		return
	}
	c.Redirect(http.StatusFound, location)
}
