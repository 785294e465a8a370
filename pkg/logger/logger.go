package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Config สำหรับ logger
type Config struct {
	Level      string // debug, info, warn, error
	Format     string // json, text
	Output     string // stdout, file, both, discard
	FilePath   string // logs/app.log
	MaxSize    int    // MB
	MaxBackups int    // จำนวน backup files
	MaxAge     int    // วัน
	Compress   bool   // บีบอัด backup
	AppName    string
}

// DefaultConfig ค่า default
func DefaultConfig() Config {
	return Config{
		Level:      "info",
		Format:     "json",
		Output:     "stdout",
		FilePath:   "logs/app.log",
		MaxSize:    100,
		MaxBackups: 5,
		MaxAge:     30,
		Compress:   true,
	}
}

// context key สำหรับ request ID
type contextKey string

const RequestIDKey contextKey = "request_id"

var (
	mu            sync.RWMutex
	defaultLogger *slog.Logger
	rotator       *lumberjack.Logger
)

// Init สร้าง logger จาก config และตั้งเป็น slog default
// เรียกซ้ำได้ จะปิดไฟล์ log ของตัวเดิม
func Init(cfg Config) error {
	writer, file, err := openOutput(cfg)
	if err != nil {
		return err
	}

	level := parseLevel(cfg.Level)
	opts := &slog.HandlerOptions{
		Level:     level,
		AddSource: level == slog.LevelDebug,
	}

	var handler slog.Handler
	if strings.EqualFold(cfg.Format, "json") {
		handler = slog.NewJSONHandler(writer, opts)
	} else {
		handler = slog.NewTextHandler(writer, opts)
	}

	l := slog.New(handler)
	if cfg.AppName != "" {
		l = l.With("app", cfg.AppName)
	}

	mu.Lock()
	previous := rotator
	defaultLogger, rotator = l, file
	mu.Unlock()

	if previous != nil {
		_ = previous.Close()
	}
	slog.SetDefault(l)
	return nil
}

// Close ปิดไฟล์ log ที่ rotate อยู่ (ถ้ามี)
func Close() error {
	mu.Lock()
	file := rotator
	rotator = nil
	mu.Unlock()

	if file == nil {
		return nil
	}
	return file.Close()
}

func openOutput(cfg Config) (io.Writer, *lumberjack.Logger, error) {
	output := strings.ToLower(cfg.Output)

	var writers []io.Writer
	if output == "stdout" || output == "both" {
		writers = append(writers, os.Stdout)
	}

	var file *lumberjack.Logger
	if output == "file" || output == "both" {
		if err := os.MkdirAll(filepath.Dir(cfg.FilePath), 0o755); err != nil {
			return nil, nil, fmt.Errorf("create log directory: %w", err)
		}
		file = &lumberjack.Logger{
			Filename:   cfg.FilePath,
			MaxSize:    cfg.MaxSize,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAge,
			Compress:   cfg.Compress,
		}
		writers = append(writers, file)
	}

	switch len(writers) {
	case 0:
		return io.Discard, nil, nil
	case 1:
		return writers[0], file, nil
	default:
		return io.MultiWriter(writers...), file, nil
	}
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func GetLogger() *slog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	if defaultLogger == nil {
		return slog.Default()
	}
	return defaultLogger
}

// Component tags every record with the subsystem that wrote it.
func Component(name string) *slog.Logger {
	return GetLogger().With("component", name)
}

// WithRequestID สร้าง logger ที่มี request ID จาก context
func WithRequestID(ctx context.Context) *slog.Logger {
	l := GetLogger()
	if id := GetRequestID(ctx); id != "" {
		return l.With("request_id", id)
	}
	return l
}

func ContextWithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, RequestIDKey, requestID)
}

func GetRequestID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(RequestIDKey).(string)
	return id
}

func Debug(msg string, args ...any) { GetLogger().Debug(msg, args...) }
func Info(msg string, args ...any)  { GetLogger().Info(msg, args...) }
func Warn(msg string, args ...any)  { GetLogger().Warn(msg, args...) }
func Error(msg string, args ...any) { GetLogger().Error(msg, args...) }

func DebugContext(ctx context.Context, msg string, args ...any) {
	WithRequestID(ctx).Debug(msg, args...)
}

func InfoContext(ctx context.Context, msg string, args ...any) {
	WithRequestID(ctx).Info(msg, args...)
}

func WarnContext(ctx context.Context, msg string, args ...any) {
	WithRequestID(ctx).Warn(msg, args...)
}

func ErrorContext(ctx context.Context, msg string, args ...any) {
	WithRequestID(ctx).Error(msg, args...)
}
