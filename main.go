package main

import (
	"flag"
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/Rahuman122003/blogify-module/internal/auth"
	"github.com/Rahuman122003/blogify-module/internal/config"
	"github.com/Rahuman122003/blogify-module/internal/db"
	"github.com/Rahuman122003/blogify-module/internal/logger"
	"github.com/Rahuman122003/blogify-module/internal/render"
	"github.com/Rahuman122003/blogify-module/internal/repository"
	"github.com/Rahuman122003/blogify-module/internal/server"
	"github.com/Rahuman122003/blogify-module/internal/storage"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Error loading .env file")
	}

	configPath := flag.String("config", "config.yaml", "path to the config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	l := logger.New(cfg.Logging.Level)
	config.SetLogger(l)
	db.SetLogger(l)
	repository.SetLogger(l)
	render.SetLogger(l)
	storage.SetLogger(l)

	database := db.NewSQLite(cfg.Database.Path)
	if err := database.InitDB(); err != nil {
		l.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer database.Close()

	posts := repository.NewDBPostRepository(database)

	uploader := storage.NewS3Uploader(
		os.Getenv("S3_ACCESS_KEY_ID"),
		os.Getenv("S3_ACCESS_KEY_SECRET"),
		cfg.Storage.Endpoint,
		cfg.Storage.Bucket,
		cfg.Storage.PublicBaseURL,
	)

	authProvider := auth.NewProvider(cfg.Admin.Email, os.Getenv("ADMIN_PASSWORD"))

	srv := server.New(cfg, posts, uploader, authProvider, l)
	if err := srv.ListenAndServe(); err != nil {
		l.Fatal().Err(err).Msg("Server stopped")
	}
}
