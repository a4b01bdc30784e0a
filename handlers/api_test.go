package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"filenest/middleware"
	"filenest/models"
	"filenest/repository"
	"filenest/services"
)

var testJWTSecret = []byte("handlers-test-secret")

func init() {
	gin.SetMode(gin.TestMode)
}

// setupAPI wires the full router the way main does, against an in-memory
// database and a temp-dir local storage backend.
func setupAPI(t *testing.T) (*gin.Engine, string) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Folder{}, &models.File{}))

	uploadDir := t.TempDir()
	backend, err := services.NewLocalStorage(uploadDir)
	require.NoError(t, err)

	users := repository.NewUserRepo(db)
	folders := repository.NewFolderRepo(db)
	files := repository.NewFileRepo(db)
	placement := services.NewPlacementService(db, files, folders, backend, nil)

	authHandler := NewAuthHandler(users, testJWTSecret)
	fileHandler := NewFileHandler(placement)
	folderHandler := NewFolderHandler(placement)

	r := gin.New()
	r.Use(sessions.Sessions("test_session", cookie.NewStore([]byte("test-session-secret"))))

	public := r.Group("/api/auth")
	{
		public.POST("/register", authHandler.Register)
		public.POST("/login", authHandler.Login)
	}
	authed := r.Group("/api/auth")
	authed.Use(middleware.Auth(testJWTSecret))
	{
		authed.POST("/logout", authHandler.Logout)
		authed.GET("/me", authHandler.Me)
	}

	filesGroup := r.Group("/api/files")
	filesGroup.Use(middleware.Auth(testJWTSecret))
	{
		filesGroup.POST("/upload", fileHandler.UploadFile)
		filesGroup.GET("", fileHandler.ListFiles)
		filesGroup.GET("/unsorted", fileHandler.ListUnsorted)
		filesGroup.PATCH("/:id/move", fileHandler.MoveFile)
		filesGroup.DELETE("/:id", fileHandler.DeleteFile)
		filesGroup.GET("/:id/download", fileHandler.DownloadFile)
	}

	foldersGroup := r.Group("/api/folders")
	foldersGroup.Use(middleware.Auth(testJWTSecret))
	{
		foldersGroup.POST("", folderHandler.CreateFolder)
		foldersGroup.GET("", folderHandler.ListFolders)
		foldersGroup.GET("/:id", folderHandler.GetFolder)
		foldersGroup.GET("/:id/files", folderHandler.ListFolderFiles)
		foldersGroup.PUT("/:id", folderHandler.RenameFolder)
		foldersGroup.DELETE("/:id", folderHandler.DeleteFolder)
	}

	return r, uploadDir
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func doJSON(t *testing.T, r *gin.Engine, method, path, token string, body any) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, _ := http.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	var env envelope
	if resp.Body.Len() > 0 {
		_ = json.Unmarshal(resp.Body.Bytes(), &env)
	}
	return resp, env
}

func registerAndLogin(t *testing.T, r *gin.Engine, email string) string {
	t.Helper()
	resp, _ := doJSON(t, r, "POST", "/api/auth/register", "", gin.H{"email": email, "password": "secret123"})
	require.Equal(t, http.StatusCreated, resp.Code)

	resp, env := doJSON(t, r, "POST", "/api/auth/login", "", gin.H{"email": email, "password": "secret123"})
	require.Equal(t, http.StatusOK, resp.Code)

	var login models.LoginResponse
	require.NoError(t, json.Unmarshal(env.Data, &login))
	require.NotEmpty(t, login.Token)
	return login.Token
}

func uploadFile(t *testing.T, r *gin.Engine, token, name, content, folderID string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", name)
	require.NoError(t, err)
	_, err = part.Write([]byte(content))
	require.NoError(t, err)
	if folderID != "" {
		require.NoError(t, w.WriteField("folder_id", folderID))
	}
	require.NoError(t, w.Close())

	req, _ := http.NewRequest("POST", "/api/files/upload", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	var env envelope
	_ = json.Unmarshal(resp.Body.Bytes(), &env)
	return resp, env
}

func TestRegisterLoginMe(t *testing.T) {
	r, _ := setupAPI(t)
	token := registerAndLogin(t, r, "alice@example.com")

	resp, env := doJSON(t, r, "GET", "/api/auth/me", token, nil)
	assert.Equal(t, http.StatusOK, resp.Code)

	var user models.User
	require.NoError(t, json.Unmarshal(env.Data, &user))
	assert.Equal(t, "alice@example.com", user.Email)

	// duplicate registration is rejected
	resp, _ = doJSON(t, r, "POST", "/api/auth/register", "", gin.H{"email": "alice@example.com", "password": "secret123"})
	assert.Equal(t, http.StatusConflict, resp.Code)

	// wrong password
	resp, _ = doJSON(t, r, "POST", "/api/auth/login", "", gin.H{"email": "alice@example.com", "password": "wrong-pass"})
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestUploadRequiresAuth(t *testing.T) {
	r, _ := setupAPI(t)

	req, _ := http.NewRequest("GET", "/api/files", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestUploadWithoutFile(t *testing.T) {
	r, _ := setupAPI(t)
	token := registerAndLogin(t, r, "alice@example.com")

	resp, _ := doJSON(t, r, "POST", "/api/files/upload", token, gin.H{})
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestUploadIntoRenamedFolder(t *testing.T) {
	r, _ := setupAPI(t)
	token := registerAndLogin(t, r, "alice@example.com")

	resp, env := doJSON(t, r, "POST", "/api/folders", token, gin.H{"name": "Photos"})
	require.Equal(t, http.StatusOK, resp.Code)
	var folder models.Folder
	require.NoError(t, json.Unmarshal(env.Data, &folder))

	resp, env = uploadFile(t, r, token, "cat.jpg", "meow", fmt.Sprint(folder.ID))
	require.Equal(t, http.StatusCreated, resp.Code)
	var file models.File
	require.NoError(t, json.Unmarshal(env.Data, &file))
	require.NotNil(t, file.FolderID)
	assert.Equal(t, folder.ID, *file.FolderID)

	resp, env = doJSON(t, r, "PUT", fmt.Sprintf("/api/folders/%d", folder.ID), token, gin.H{"name": "Pics"})
	require.Equal(t, http.StatusOK, resp.Code)
	var renamed models.Folder
	require.NoError(t, json.Unmarshal(env.Data, &renamed))
	assert.Equal(t, "Pics", renamed.Name)

	// the file is still listed under the renamed folder
	resp, env = doJSON(t, r, "GET", fmt.Sprintf("/api/folders/%d/files", folder.ID), token, nil)
	require.Equal(t, http.StatusOK, resp.Code)
	var files []models.File
	require.NoError(t, json.Unmarshal(env.Data, &files))
	require.Len(t, files, 1)
	assert.Equal(t, file.ID, files[0].ID)
}

func TestMoveFileFlow(t *testing.T) {
	r, _ := setupAPI(t)
	token := registerAndLogin(t, r, "alice@example.com")

	resp, env := doJSON(t, r, "POST", "/api/folders", token, gin.H{"name": "Docs"})
	require.Equal(t, http.StatusOK, resp.Code)
	var folder models.Folder
	require.NoError(t, json.Unmarshal(env.Data, &folder))

	resp, env = uploadFile(t, r, token, "a.txt", "abc", "")
	require.Equal(t, http.StatusCreated, resp.Code)
	var file models.File
	require.NoError(t, json.Unmarshal(env.Data, &file))
	assert.Nil(t, file.FolderID)

	// unsorted -> folder
	resp, env = doJSON(t, r, "PATCH", fmt.Sprintf("/api/files/%d/move", file.ID), token, gin.H{"folder_id": folder.ID})
	require.Equal(t, http.StatusOK, resp.Code)
	var moved models.File
	require.NoError(t, json.Unmarshal(env.Data, &moved))
	require.NotNil(t, moved.FolderID)
	assert.Equal(t, folder.ID, *moved.FolderID)

	resp, env = doJSON(t, r, "GET", "/api/files/unsorted", token, nil)
	require.Equal(t, http.StatusOK, resp.Code)
	var unsorted []models.File
	require.NoError(t, json.Unmarshal(env.Data, &unsorted))
	assert.Empty(t, unsorted)

	// folder -> unsorted via explicit null
	resp, env = doJSON(t, r, "PATCH", fmt.Sprintf("/api/files/%d/move", file.ID), token, gin.H{"folder_id": nil})
	require.Equal(t, http.StatusOK, resp.Code)
	require.NoError(t, json.Unmarshal(env.Data, &moved))
	assert.Nil(t, moved.FolderID)

	// moving a missing file 404s
	resp, _ = doJSON(t, r, "PATCH", "/api/files/99999/move", token, gin.H{"folder_id": nil})
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestMoveIntoForeignFolder(t *testing.T) {
	r, _ := setupAPI(t)
	aliceToken := registerAndLogin(t, r, "alice@example.com")
	bobToken := registerAndLogin(t, r, "bob@example.com")

	resp, env := doJSON(t, r, "POST", "/api/folders", aliceToken, gin.H{"name": "Private"})
	require.Equal(t, http.StatusOK, resp.Code)
	var folder models.Folder
	require.NoError(t, json.Unmarshal(env.Data, &folder))

	resp, env = uploadFile(t, r, bobToken, "b.txt", "data", "")
	require.Equal(t, http.StatusCreated, resp.Code)
	var file models.File
	require.NoError(t, json.Unmarshal(env.Data, &file))

	resp, _ = doJSON(t, r, "PATCH", fmt.Sprintf("/api/files/%d/move", file.ID), bobToken, gin.H{"folder_id": folder.ID})
	assert.Equal(t, http.StatusBadRequest, resp.Code)

	// bob cannot even see alice's folder
	resp, _ = doJSON(t, r, "GET", fmt.Sprintf("/api/folders/%d", folder.ID), bobToken, nil)
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestDeleteFolderCascade(t *testing.T) {
	r, uploadDir := setupAPI(t)
	token := registerAndLogin(t, r, "alice@example.com")

	resp, env := doJSON(t, r, "POST", "/api/folders", token, gin.H{"name": "Temp"})
	require.Equal(t, http.StatusOK, resp.Code)
	var folder models.Folder
	require.NoError(t, json.Unmarshal(env.Data, &folder))

	for i := 0; i < 2; i++ {
		resp, _ = uploadFile(t, r, token, fmt.Sprintf("f%d.txt", i), "data", fmt.Sprint(folder.ID))
		require.Equal(t, http.StatusCreated, resp.Code)
	}

	entries, err := os.ReadDir(uploadDir)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	resp, _ = doJSON(t, r, "DELETE", fmt.Sprintf("/api/folders/%d", folder.ID), token, nil)
	require.Equal(t, http.StatusOK, resp.Code)

	// folder, records and stored objects are all gone
	resp, _ = doJSON(t, r, "GET", fmt.Sprintf("/api/folders/%d/files", folder.ID), token, nil)
	assert.Equal(t, http.StatusNotFound, resp.Code)

	resp, env = doJSON(t, r, "GET", "/api/files", token, nil)
	require.Equal(t, http.StatusOK, resp.Code)
	var files []models.File
	require.NoError(t, json.Unmarshal(env.Data, &files))
	assert.Empty(t, files)

	entries, err = os.ReadDir(uploadDir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestDeleteFileTwice(t *testing.T) {
	r, _ := setupAPI(t)
	token := registerAndLogin(t, r, "alice@example.com")

	resp, env := uploadFile(t, r, token, "once.txt", "data", "")
	require.Equal(t, http.StatusCreated, resp.Code)
	var file models.File
	require.NoError(t, json.Unmarshal(env.Data, &file))

	resp, _ = doJSON(t, r, "DELETE", fmt.Sprintf("/api/files/%d", file.ID), token, nil)
	assert.Equal(t, http.StatusOK, resp.Code)

	resp, _ = doJSON(t, r, "DELETE", fmt.Sprintf("/api/files/%d", file.ID), token, nil)
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestDownloadLocalFile(t *testing.T) {
	r, _ := setupAPI(t)
	token := registerAndLogin(t, r, "alice@example.com")

	resp, env := uploadFile(t, r, token, "dl.txt", "download me", "")
	require.Equal(t, http.StatusCreated, resp.Code)
	var file models.File
	require.NoError(t, json.Unmarshal(env.Data, &file))

	req, _ := http.NewRequest("GET", fmt.Sprintf("/api/files/%d/download", file.ID), nil)
	req.Header.Set("Authorization", "Bearer "+token)
	dl := httptest.NewRecorder()
	r.ServeHTTP(dl, req)

	assert.Equal(t, http.StatusOK, dl.Code)
	assert.Equal(t, "download me", dl.Body.String())
	assert.Contains(t, dl.Header().Get("Content-Disposition"), "dl.txt")
}

func TestUnsortedIsolation(t *testing.T) {
	r, _ := setupAPI(t)
	aliceToken := registerAndLogin(t, r, "alice@example.com")
	bobToken := registerAndLogin(t, r, "bob@example.com")

	resp, _ := uploadFile(t, r, aliceToken, "mine.txt", "private", "")
	require.Equal(t, http.StatusCreated, resp.Code)

	resp, env := doJSON(t, r, "GET", "/api/files/unsorted", aliceToken, nil)
	require.Equal(t, http.StatusOK, resp.Code)
	var files []models.File
	require.NoError(t, json.Unmarshal(env.Data, &files))
	assert.Len(t, files, 1)

	resp, env = doJSON(t, r, "GET", "/api/files/unsorted", bobToken, nil)
	require.Equal(t, http.StatusOK, resp.Code)
	files = nil
	require.NoError(t, json.Unmarshal(env.Data, &files))
	assert.Empty(t, files)
}

func TestCreateFolderValidation(t *testing.T) {
	r, _ := setupAPI(t)
	token := registerAndLogin(t, r, "alice@example.com")

	resp, _ := doJSON(t, r, "POST", "/api/folders", token, gin.H{"name": ""})
	assert.Equal(t, http.StatusBadRequest, resp.Code)

	resp, _ = doJSON(t, r, "POST", "/api/folders", token, gin.H{"name": "   "})
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}
