package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	HTTPAddr       string
	MongoURI       string
	DatabaseName   string
	JWTSecret      string
	JWTIssuer      string
	AccessTokenTTL time.Duration
	RedisAddr      string
	RedisPassword  string
}

func Load() Config {
	return Config{
		HTTPAddr:       getenv("HTTP_ADDR", ":8080"),
		MongoURI:       getenv("MONGODB_URI", "mongodb://127.0.0.1:27017"),
		DatabaseName:   getenv("DATABASE_NAME", "school_admin"),
		JWTSecret:      getenv("JWT_SECRET", ""),
		JWTIssuer:      getenv("JWT_ISSUER", "schoolhub"),
		AccessTokenTTL: getenvDuration("ACCESS_TOKEN_TTL", 30*time.Minute),
		RedisAddr:      getenv("REDIS_ADDR", ""),
		RedisPassword:  getenv("REDIS_PASSWORD", ""),
	}
}

func getenv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getenvDuration(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if parsed, err := time.ParseDuration(val); err == nil {
			return parsed
		}
	}
	if val := os.Getenv(key + "_SECONDS"); val != "" {
		if seconds, err := strconv.Atoi(val); err == nil {
			return time.Duration(seconds) * time.Second
		}
	}
	return fallback
}
