package main

import (
	"log"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"filenest/config"
	"filenest/database"
	"filenest/handlers"
	"filenest/middleware"
	"filenest/repository"
	"filenest/services"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file loaded: %v", err)
	}

	cfg := config.GetConfig()

	database.InitDB()
	database.InitClickHouse()
	defer database.CloseClickHouse()

	storageCfg := config.LoadStorageConfig()
	if err := storageCfg.Validate(); err != nil {
		log.Fatal("Invalid storage config:", err)
	}

	var backend services.StorageBackend
	var err error
	if storageCfg.IsS3Enabled() {
		backend, err = services.NewS3Storage(storageCfg)
	} else {
		backend, err = services.NewLocalStorage(storageCfg.LocalDir)
	}
	if err != nil {
		log.Fatal("Failed to initialize storage backend:", err)
	}
	log.Printf("Storage backend: %s", storageCfg.Type)

	users := repository.NewUserRepo(database.DB)
	folders := repository.NewFolderRepo(database.DB)
	files := repository.NewFileRepo(database.DB)

	activity := services.NewActivityLogger(database.CHConn)
	defer activity.Close()

	placement := services.NewPlacementService(database.DB, files, folders, backend, activity)

	authHandler := handlers.NewAuthHandler(users, []byte(cfg.JWTSecret))
	fileHandler := handlers.NewFileHandler(placement)
	folderHandler := handlers.NewFolderHandler(placement)

	r := gin.New()
	r.Use(middleware.Logger())
	r.Use(gin.Recovery())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.FrontendURL},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	sessionStore := cookie.NewStore([]byte(cfg.SessionSecret))
	sessionStore.Options(sessions.Options{
		Path:     "/",
		MaxAge:   24 * 3600,
		HttpOnly: true,
	})
	r.Use(sessions.Sessions("filenest_session", sessionStore))

	// public auth routes, rate limited against brute force
	public := r.Group("/api/auth")
	public.Use(middleware.RateLimit(30))
	{
		public.POST("/register", authHandler.Register)
		public.POST("/login", authHandler.Login)
	}

	authed := r.Group("/api/auth")
	authed.Use(middleware.Auth([]byte(cfg.JWTSecret)))
	{
		authed.POST("/logout", authHandler.Logout)
		authed.GET("/me", authHandler.Me)
	}

	filesGroup := r.Group("/api/files")
	filesGroup.Use(middleware.Auth([]byte(cfg.JWTSecret)))
	{
		filesGroup.POST("/upload", fileHandler.UploadFile)
		filesGroup.GET("", fileHandler.ListFiles)
		filesGroup.GET("/unsorted", fileHandler.ListUnsorted)
		filesGroup.PATCH("/:id/move", fileHandler.MoveFile)
		filesGroup.DELETE("/:id", fileHandler.DeleteFile)
		filesGroup.GET("/:id/download", fileHandler.DownloadFile)
	}

	foldersGroup := r.Group("/api/folders")
	foldersGroup.Use(middleware.Auth([]byte(cfg.JWTSecret)))
	{
		foldersGroup.POST("", folderHandler.CreateFolder)
		foldersGroup.GET("", folderHandler.ListFolders)
		foldersGroup.GET("/:id", folderHandler.GetFolder)
		foldersGroup.GET("/:id/files", folderHandler.ListFolderFiles)
		foldersGroup.PUT("/:id", folderHandler.RenameFolder)
		foldersGroup.DELETE("/:id", folderHandler.DeleteFolder)
	}

	port := cfg.ServerPort
	log.Printf("Server starting on port %s", port)
	if err := r.Run("0.0.0.0:" + port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
