package main

import (
	"log"
	"os"

	"coldstore-api/config"
	"coldstore-api/internal/category"
	"coldstore-api/internal/estimate"
	"coldstore-api/internal/item"
	"coldstore-api/internal/logs"
	"coldstore-api/internal/provider"
	"coldstore-api/internal/storagefile"
	"coldstore-api/internal/tag"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := config.LoadConfig()
	if cfg.UploadDir == "" {
		cfg.UploadDir = "uploads"
	}

	dsn := "host=" + cfg.DBHost +
		" user=" + cfg.DBUser +
		" password=" + cfg.DBPassword +
		" dbname=" + cfg.DBName +
		" port=" + cfg.DBPort +
		" sslmode=disable"

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	if err := db.AutoMigrate(
		&category.Category{},
		&item.DataItem{},
		&tag.Tag{},
		&storagefile.StorageFile{},
		&provider.StorageProvider{},
		&estimate.CostEstimate{},
		&logs.SystemLog{},
	); err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	logService := &logs.LogService{DB: db}
	logs.RegisterRoutes(r, logService)

	categoryService := &category.CategoryService{DB: db}
	category.RegisterRoutes(r, categoryService)

	itemService := &item.ItemService{DB: db}
	item.RegisterRoutes(r, itemService, logService)

	tagService := &tag.TagService{DB: db}
	tag.RegisterRoutes(r, tagService)

	fileService := &storagefile.StorageFileService{DB: db, UploadDir: cfg.UploadDir}
	storagefile.RegisterRoutes(r, fileService, logService)

	providerService := &provider.ProviderService{DB: db}
	provider.RegisterRoutes(r, providerService)

	estimateService := &estimate.EstimateService{DB: db}
	estimate.RegisterRoutes(r, estimateService)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Printf("Starting server on 0.0.0.0:%s ...", port)
	log.Fatal(r.Run("0.0.0.0:" + port))
}
