package config

import (
	"log"
	"os"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/phambaophuc/image-transform/internal/models"
)

type Config struct {
	Server    ServerConfig
	Worker    WorkerConfig
	Processor ProcessorConfig
	Logging   LoggingConfig
	Tracing   TracingConfig
	CORS      CORSConfig
}

type ServerConfig struct {
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	MaxBodyBytes    int64
}

type WorkerConfig struct {
	PoolSize int
}

type ProcessorConfig struct {
	DefaultWidth  int
	DefaultHeight int
	JPEGQuality    int
	MaxDimension   int
	MaxInputPixels int64
}

type LoggingConfig struct {
	Level       string
	Development bool
}

type TracingConfig struct {
	ServiceName  string
	Exporter     string
	OTLPEndpoint string
	OTLPInsecure bool
}

type CORSConfig struct {
	AllowedOrigins []string
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:            getEnv("PORT", "9000"),
			ReadTimeout:     getDuration("READ_TIMEOUT", 30*time.Second),
			WriteTimeout:    getDuration("WRITE_TIMEOUT", 60*time.Second),
			ShutdownTimeout: getDuration("SHUTDOWN_TIMEOUT", 30*time.Second),
			MaxBodyBytes:    getEnvAsInt64("MAX_BODY_BYTES", 50<<20), // 50MiB
		},
		Worker: WorkerConfig{
			PoolSize: getEnvAsInt("WORKER_POOL_SIZE", runtime.NumCPU()),
		},
		Processor: ProcessorConfig{
			DefaultWidth:   getEnvAsInt("DEFAULT_WIDTH", models.DefaultResizeWidth),
			DefaultHeight:  getEnvAsInt("DEFAULT_HEIGHT", models.DefaultResizeHeight),
			JPEGQuality:    getEnvAsInt("JPEG_QUALITY", 90),
			MaxDimension:   getEnvAsInt("MAX_OUTPUT_DIMENSION", 16384),
			MaxInputPixels: getEnvAsInt64("MAX_INPUT_PIXELS", 64<<20), // 8192x8192
		},
		Logging: LoggingConfig{
			Level:       getEnv("LOG_LEVEL", "info"),
			Development: getEnvAsBool("LOG_DEVELOPMENT", false),
		},
		Tracing: TracingConfig{
			ServiceName:  getEnv("OTEL_SERVICE_NAME", "image-transform"),
			Exporter:     getEnv("TRACING_EXPORTER", "none"),
			OTLPEndpoint: getEnv("OTLP_ENDPOINT", ""),
			OTLPInsecure: getEnvAsBool("OTLP_INSECURE", false),
		},
		CORS: CORSConfig{
			AllowedOrigins: getEnvAsList("CORS_ALLOWED_ORIGINS", []string{"*"}),
		},
	}

	if cfg.Worker.PoolSize <= 0 {
		cfg.Worker.PoolSize = runtime.NumCPU()
	}
	if cfg.Server.MaxBodyBytes <= 0 {
		cfg.Server.MaxBodyBytes = 50 << 20
	}

	return cfg, nil
}

func getEnv(key, defaultVal string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultVal
}

func getEnvAsInt(key string, defaultVal int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultVal
}

func getEnvAsInt64(key string, defaultVal int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intVal
		}
	}
	return defaultVal
}

func getEnvAsBool(key string, defaultVal bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultVal
}

func getEnvAsList(key string, defaultVal []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultVal
	}

	var out []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	if len(out) == 0 {
		return defaultVal
	}
	return out
}

func getDuration(key string, defaultVal time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultVal
}
