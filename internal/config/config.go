package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port               int
	Password           string
	LogDirectory       string
	DatabasePath       string
	SnapshotDirectory  string
	SnapshotLimit      int // Max snapshots written per flush interval
	EventFlushInterval int // Seconds between event log flushes
	CameraDevice       string
	FaceCascadePath    string
	EyeCascadePath     string
	MouthCascadePath   string
	FrameInterval      time.Duration
	EyebrowCooldown    time.Duration
	EyebrowRaiseRatio  float64
}

// Load reads configuration from the environment. Values from a .env file in
// the working directory are applied first if the file exists.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Port:               getEnvAsInt("PORT", 8080),
		Password:           getEnv("PASSWORD", "facewatch"),
		LogDirectory:       getEnv("LOG_DIR", filepath.Join(".", "logs")),
		DatabasePath:       getEnv("DATABASE_PATH", filepath.Join(".", "data", "facewatch.db")),
		SnapshotDirectory:  getEnv("SNAPSHOT_DIR", filepath.Join(".", "snapshots")),
		SnapshotLimit:      getEnvAsInt("SNAPSHOT_LIMIT", 10),
		EventFlushInterval: getEnvAsInt("FLUSH_INTERVAL", 10),
		CameraDevice:       getEnv("CAMERA_DEVICE", "0"),
		FaceCascadePath:    getEnv("FACE_CASCADE", filepath.Join(".", "data", "haarcascade_frontalface_default.xml")),
		EyeCascadePath:     getEnv("EYE_CASCADE", filepath.Join(".", "data", "haarcascade_eye.xml")),
		MouthCascadePath:   getEnv("MOUTH_CASCADE", filepath.Join(".", "data", "haarcascade_mcs_mouth.xml")),
		FrameInterval:      getEnvAsMillis("FRAME_INTERVAL_MS", 33),
		EyebrowCooldown:    getEnvAsMillis("EYEBROW_COOLDOWN_MS", 1000),
		EyebrowRaiseRatio:  getEnvAsFloat("EYEBROW_RAISE_RATIO", 0.2),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvAsMillis(key string, defaultValue int) time.Duration {
	return time.Duration(getEnvAsInt(key, defaultValue)) * time.Millisecond
}
