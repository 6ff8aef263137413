package config

import (
	"os"
	"strconv"
)

// Config содержит все конфигурационные параметры приложения.
type Config struct {
	Server struct {
		Addr       string
		CORSOrigin string
	}
	Mongo struct {
		URI      string
		Database string
	}
	Post struct {
		DefaultTag       string
		PlaceholderImage string
		PageSize         int
	}
}

// Load загружает конфигурацию из переменных окружения или устанавливает значения по умолчанию.
func Load() *Config {
	cfg := &Config{}

	cfg.Server.Addr = getEnv("BLOG_ADDR", ":3001")
	cfg.Server.CORSOrigin = getEnv("BLOG_CORS_ORIGIN", "http://localhost:3000")

	cfg.Mongo.URI = getEnv("BLOG_MONGO_URI", "mongodb://127.0.0.1:27017")
	cfg.Mongo.Database = getEnv("BLOG_MONGO_DB", "blogDB")

	// Продуктовые значения по умолчанию для постов
	cfg.Post.DefaultTag = getEnv("BLOG_DEFAULT_TAG", "Newsy")
	cfg.Post.PlaceholderImage = getEnv("BLOG_PLACEHOLDER_IMAGE",
		"https://www.hostinger.com/tutorials/wp-content/uploads/sites/2/2021/09/how-to-write-a-blog-post.png")
	cfg.Post.PageSize = getEnvAsInt("BLOG_PAGE_SIZE", 12)

	return cfg
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil && value > 0 {
		return value
	}
	return defaultValue
}
