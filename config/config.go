package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server     ServerConfig
	Session    SessionConfig
	Location   LocationConfig
	Map        MapConfig
	Directory  DirectoryConfig
	Cloudinary CloudinaryConfig
	RateLimit  RateLimitConfig
}

type ServerConfig struct {
	Port         string
	Env          string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// SessionConfig signs the tokens that scope per-WebView state.
type SessionConfig struct {
	Secret string
	Expiry time.Duration
	Issuer string
}

type LocationConfig struct {
	DefaultRadiusKm float64
	MaxRadiusKm     float64
	FixTimeout      time.Duration
}

type MapConfig struct {
	DefaultWidth  int
	DefaultHeight int
	BaseRadiusPx  float64
	JitterRangePx float64
	HitRadiusPx   float64
	// StableMarkers keeps each user's ring radius fixed between redraws.
	StableMarkers bool
}

// DirectoryConfig selects the candidate directory. Empty DSN uses the built-in demo users.
type DirectoryConfig struct {
	DSN             string
	AutoMigrate     bool
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
}

type CloudinaryConfig struct {
	CloudName string
	APIKey    string
	APISecret string
}

type RateLimitConfig struct {
	Limit  int
	Window time.Duration
}

// Load reads .env (if present) and the environment on top of the defaults.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("[config] no .env file found (using environment variables)")
	}
	return &Config{
		Server: ServerConfig{
			Port:         getEnv("PORT", "8099"),
			Env:          getEnv("APP_ENV", "development"),
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 15 * time.Second,
		},
		Session: SessionConfig{
			Secret: getEnv("SESSION_SECRET", "change-me-in-production"),
			Expiry: getDuration("SESSION_EXPIRY", 24*time.Hour),
			Issuer: "nearby",
		},
		Location: LocationConfig{
			DefaultRadiusKm: getFloat("DEFAULT_RADIUS_KM", 10),
			MaxRadiusKm:     getFloat("MAX_RADIUS_KM", 25),
			FixTimeout:      getDuration("LOCATION_FIX_TIMEOUT", 10*time.Second),
		},
		Map: MapConfig{
			DefaultWidth:  getInt("MAP_WIDTH", 400),
			DefaultHeight: getInt("MAP_HEIGHT", 256),
			BaseRadiusPx:  50,
			JitterRangePx: 50,
			HitRadiusPx:   10,
			StableMarkers: getBool("MAP_STABLE_MARKERS", false),
		},
		Directory: DirectoryConfig{
			DSN:             os.Getenv("DIRECTORY_DSN"),
			AutoMigrate:     getBool("DIRECTORY_MIGRATE", false),
			MaxIdleConns:    5,
			MaxOpenConns:    20,
			ConnMaxLifetime: time.Hour,
		},
		Cloudinary: CloudinaryConfig{
			CloudName: os.Getenv("CLOUDINARY_CLOUD_NAME"),
			APIKey:    os.Getenv("CLOUDINARY_API_KEY"),
			APISecret: os.Getenv("CLOUDINARY_API_SECRET"),
		},
		RateLimit: RateLimitConfig{
			Limit:  getInt("RATE_LIMIT", 100),
			Window: 60 * time.Second,
		},
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if v, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return v
	}
	return fallback
}

func getFloat(key string, fallback float64) float64 {
	if v, err := strconv.ParseFloat(os.Getenv(key), 64); err == nil {
		return v
	}
	return fallback
}

func getBool(key string, fallback bool) bool {
	if v, err := strconv.ParseBool(os.Getenv(key)); err == nil {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if v, err := time.ParseDuration(os.Getenv(key)); err == nil {
		return v
	}
	return fallback
}
