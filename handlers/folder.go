package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"filenest/models"
	"filenest/services"
)

type FolderHandler struct {
	placement *services.PlacementService
}

func NewFolderHandler(placement *services.PlacementService) *FolderHandler {
	return &FolderHandler{placement: placement}
}

func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "invalid folder id",
		})
		return 0, false
	}
	return uint(id), true
}

// CreateFolder creates a folder for the caller.
func (h *FolderHandler) CreateFolder(c *gin.Context) {
	userID := c.GetUint("user_id")

	var req models.CreateFolderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "folder name is required",
		})
		return
	}

	folder, err := h.placement.CreateFolder(userID, req.Name)
	if err != nil {
		if errors.Is(err, services.ErrInvalidName) {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"message": "folder name must not be empty",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "failed to create folder",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "folder created successfully",
		"data":    folder,
	})
}

// ListFolders returns the caller's folders with their files included.
func (h *FolderHandler) ListFolders(c *gin.Context) {
	userID := c.GetUint("user_id")

	folders, err := h.placement.ListFolders(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "failed to list folders",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    folders,
	})
}

// GetFolder returns one folder with its files.
func (h *FolderHandler) GetFolder(c *gin.Context) {
	userID := c.GetUint("user_id")

	folderID, ok := parseID(c)
	if !ok {
		return
	}

	folder, err := h.placement.GetFolder(userID, folderID)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"success": false,
				"message": "folder not found",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "failed to fetch folder",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    folder,
	})
}

// ListFolderFiles returns the files placed in one folder.
func (h *FolderHandler) ListFolderFiles(c *gin.Context) {
	userID := c.GetUint("user_id")

	folderID, ok := parseID(c)
	if !ok {
		return
	}

	files, err := h.placement.ListByFolder(userID, folderID)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"success": false,
				"message": "folder not found",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "failed to list folder files",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    files,
	})
}

// RenameFolder updates the folder name.
func (h *FolderHandler) RenameFolder(c *gin.Context) {
	userID := c.GetUint("user_id")

	folderID, ok := parseID(c)
	if !ok {
		return
	}

	var req models.RenameFolderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "folder name is required",
		})
		return
	}

	folder, err := h.placement.RenameFolder(userID, folderID, req.Name)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidName):
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"message": "folder name must not be empty",
			})
		case errors.Is(err, services.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"success": false,
				"message": "folder not found",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"message": "failed to rename folder",
			})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "folder renamed successfully",
		"data":    folder,
	})
}

// DeleteFolder removes the folder, its file records and their stored
// objects.
func (h *FolderHandler) DeleteFolder(c *gin.Context) {
	userID := c.GetUint("user_id")

	folderID, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.placement.DeleteFolder(c.Request.Context(), userID, folderID); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"success": false,
				"message": "folder not found",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "failed to delete folder",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "folder deleted successfully",
	})
}
