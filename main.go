package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/example/learningremind/internal/config"
	"github.com/example/learningremind/internal/database"
	"github.com/example/learningremind/internal/excel"
	"github.com/example/learningremind/internal/notifier"
	"github.com/example/learningremind/internal/scheduler"
)

func main() {
	once := flag.Bool("once", false, "compute and dispatch due reminders immediately, then exit")
	exportID := flag.Int64("export", 0, "export the words of the given collection id, then exit")
	exportOut := flag.String("out", "words.xlsx", "destination file for -export (.xlsx or .csv)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	dsn := cfg.DatabasePath
	if cfg.DBType == "postgres" {
		dsn = cfg.DatabaseURL
	}
	if err := database.Connect(cfg.DBType, dsn); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close()

	if *exportID != 0 {
		if err := exportCollection(context.Background(), cfg, *exportID, *exportOut); err != nil {
			log.Fatalf("Failed to export collection: %v", err)
		}
		return
	}

	var n notifier.Notifier
	switch cfg.Channel {
	case "telegram":
		n, err = notifier.NewTelegramNotifier(cfg.TelegramToken, cfg.FrontendURL)
		if err != nil {
			log.Fatalf("Failed to create telegram notifier: %v", err)
		}
	default:
		n = notifier.NewEmailNotifier(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword, cfg.EmailFrom, cfg.FrontendURL)
	}

	taskRepo := database.NewReviewTaskRepository(cfg.Intervals, cfg.Timezone)
	sched := scheduler.New(taskRepo, n, cfg.Timezone, cfg.NotificationTime)

	if *once {
		if err := sched.RunOnce(context.Background()); err != nil {
			log.Fatalf("Failed to send reminders: %v", err)
		}
		return
	}

	if err := sched.Start(); err != nil {
		log.Fatalf("Failed to start scheduler: %v", err)
	}
	log.Printf("Reminder scheduler started, firing daily at %s (%s). Press Ctrl+C to stop.",
		cfg.NotificationTime, cfg.TimezoneName)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	sig := <-sigChan
	log.Printf("Received signal: %v", sig)

	sched.Stop()
	log.Println("Scheduler stopped")
}

func exportCollection(ctx context.Context, cfg *config.Config, collectionID int64, path string) error {
	collection, err := database.NewCollectionRepository(cfg.Timezone).GetByID(ctx, collectionID)
	if err != nil {
		return err
	}
	words, err := database.NewWordRepository().GetByCollectionID(ctx, collectionID)
	if err != nil {
		return err
	}
	result, err := excel.ExportWords(excel.DefaultExportConfig(path), collection, words)
	if err != nil {
		return err
	}
	log.Printf("Exported %d words from %q to %s", result.WordsExported, collection.Name, result.FilePath)
	return nil
}
