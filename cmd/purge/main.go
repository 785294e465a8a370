package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"todo-back/application/serviceimpl"
	natspkg "todo-back/infrastructure/nats"
	"todo-back/infrastructure/postgres"
	"todo-back/pkg/config"
	"todo-back/pkg/logger"
)

// Runs the retention purge once, outside the API's schedule.
func main() {
	days := flag.Int("days", 0, "purge tasks removed more than N days ago (default RETENTION_DAYS)")
	stream := flag.Bool("stream", false, "also purge retained events from the NATS stream")
	flag.Parse()

	fmt.Println("============================================")
	fmt.Println("  Tarefas - Purge removed tasks")
	fmt.Println("============================================")

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := logger.Init(logger.Config{Level: cfg.Log.Level, Format: "text", Output: "stdout", AppName: cfg.App.Name}); err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}

	maxAge := cfg.Retention.Days
	if *days > 0 {
		maxAge = *days
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	fmt.Printf("\n[1/2] Purging tasks removed more than %d days ago...\n", maxAge)
	db, err := postgres.NewDatabase(postgres.DatabaseConfig{
		Driver:     cfg.Database.Driver,
		Host:       cfg.Database.Host,
		Port:       cfg.Database.Port,
		User:       cfg.Database.User,
		Password:   cfg.Database.Password,
		DBName:     cfg.Database.DBName,
		SSLMode:    cfg.Database.SSLMode,
		SQLitePath: cfg.Database.SQLitePath,
		LogLevel:   cfg.Log.Level,
	})
	if err != nil {
		log.Fatalf("     Failed to connect to database: %v", err)
	}

	retention := serviceimpl.NewRetentionService(
		serviceimpl.RetentionConfig{MaxAge: time.Duration(maxAge) * 24 * time.Hour},
		postgres.NewTaskRepository(db),
		nil,
	)
	purged, err := retention.PurgeExpired(ctx)
	if err != nil {
		log.Fatalf("     Purge failed: %v", err)
	}
	fmt.Printf("     Removed %d rows\n", purged)

	fmt.Println("\n[2/2] NATS events stream...")
	if !*stream || cfg.NATS.URL == "" {
		fmt.Println("     Skipped")
	} else {
		client, err := natspkg.NewClient(natspkg.ClientConfig{URL: cfg.NATS.URL, Name: cfg.App.Name + "-purge"})
		if err != nil {
			log.Fatalf("     Failed to connect to NATS: %v", err)
		}
		defer client.Close()

		before, err := client.StreamMessages(ctx)
		if err != nil {
			log.Fatalf("     %v", err)
		}
		if err := client.PurgeStream(ctx); err != nil {
			log.Fatalf("     %v", err)
		}
		fmt.Printf("     Purged %d events from %s\n", before, natspkg.StreamName)
	}

	fmt.Println()
	fmt.Println("============================================")
	fmt.Println("  Done!")
	fmt.Println("============================================")
}
