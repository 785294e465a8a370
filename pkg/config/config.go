package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	NATS      NATSConfig
	Redis     RedisConfig
	Log       LogConfig
	CORS      CORSConfig
	Retention RetentionConfig
}

type AppConfig struct {
	Name string
	Port string
	Env  string
}

type DatabaseConfig struct {
	Driver     string // postgres, sqlite
	Host       string
	Port       string
	User       string
	Password   string
	DBName     string
	SSLMode    string
	SQLitePath string
}

// RedisConfig สำหรับ cache รายการ task (URL ว่าง = ปิด cache)
type RedisConfig struct {
	URL             string // redis://localhost:6379
	Password        string
	DB              int
	CacheTTLSeconds int
}

// NATSConfig สำหรับส่ง task events ข้าม instance (URL ว่าง = ใช้ in-process)
type NATSConfig struct {
	URL string // nats://localhost:4222
}

type LogConfig struct {
	Level      string // debug, info, warn, error
	Format     string // json, text
	Output     string // stdout, file, both
	FilePath   string // logs/app.log
	MaxSize    int    // MB
	MaxBackups int    // จำนวน backup files
	MaxAge     int    // วัน
	Compress   bool   // บีบอัด backup
}

type CORSConfig struct {
	AllowOrigins string
}

// RetentionConfig สำหรับลบ task ที่ถูก remove ออกถาวร
type RetentionConfig struct {
	Cron string // empty disables the job
	Days int
}

func LoadConfig() (*Config, error) {
	// ไม่มี .env ก็ได้ ใช้ environment แทน
	_ = godotenv.Load()

	logMaxSize, _ := strconv.Atoi(getEnv("LOG_MAX_SIZE", "100"))
	logMaxBackups, _ := strconv.Atoi(getEnv("LOG_MAX_BACKUPS", "5"))
	logMaxAge, _ := strconv.Atoi(getEnv("LOG_MAX_AGE", "30"))
	logCompress := getEnv("LOG_COMPRESS", "true") == "true"

	redisDB, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))
	cacheTTL, _ := strconv.Atoi(getEnv("CACHE_TTL_SECONDS", "60"))

	retentionDays, _ := strconv.Atoi(getEnv("RETENTION_DAYS", "30"))

	config := &Config{
		App: AppConfig{
			Name: getEnv("APP_NAME", "Tarefas API"),
			Port: getEnv("APP_PORT", "8080"),
			Env:  getEnv("APP_ENV", "development"),
		},
		Database: DatabaseConfig{
			Driver:     strings.ToLower(getEnv("DB_DRIVER", "postgres")),
			Host:       getEnv("DB_HOST", "localhost"),
			Port:       getEnv("DB_PORT", "5432"),
			User:       getEnv("DB_USER", "postgres"),
			Password:   getEnv("DB_PASSWORD", ""),
			DBName:     getEnv("DB_NAME", "tarefas"),
			SSLMode:    getEnv("DB_SSL_MODE", "disable"),
			SQLitePath: getEnv("DB_SQLITE_PATH", "tarefas.db"),
		},
		NATS: NATSConfig{
			URL: getEnv("NATS_URL", ""),
		},
		Redis: RedisConfig{
			URL:             getEnv("REDIS_URL", ""),
			Password:        getEnv("REDIS_PASSWORD", ""),
			DB:              redisDB,
			CacheTTLSeconds: cacheTTL,
		},
		Log: LogConfig{
			Level:      getEnv("LOG_LEVEL", "info"),
			Format:     getEnv("LOG_FORMAT", "json"),
			Output:     getEnv("LOG_OUTPUT", "stdout"),
			FilePath:   getEnv("LOG_FILE_PATH", "logs/app.log"),
			MaxSize:    logMaxSize,
			MaxBackups: logMaxBackups,
			MaxAge:     logMaxAge,
			Compress:   logCompress,
		},
		CORS: CORSConfig{
			AllowOrigins: getEnv("CORS_ALLOW_ORIGINS", "*"),
		},
		Retention: RetentionConfig{
			Cron: getEnv("RETENTION_CRON", "0 3 * * *"),
			Days: retentionDays,
		},
	}

	return config, nil
}

func (c *Config) IsProduction() bool {
	return c.App.Env == "production"
}

func getEnv(key, defaultValue string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return defaultValue
}
