package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v3"

	metricssvc "meta_tourism/internal/api/metrics/service"
	"meta_tourism/internal/delivery"
	"meta_tourism/internal/global"
	"meta_tourism/internal/logger"
	"meta_tourism/internal/worker"
)

// initLogger khởi tạo và cấu hình logger cho toàn bộ ứng dụng
func initLogger() {
	// Logger tự đọc environment variables để cấu hình
	if err := logger.Init(nil); err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	logger.GetAppLogger().Info("Logger system initialized successfully")
}

// startPrewarmWorker khởi động worker tính trước snapshot metrics (nếu bật).
// Digest delivery được móc vào callback sau mỗi lượt prewarm.
func startPrewarmWorker(ctx context.Context) {
	cfg := global.ServerConfig
	log := logger.GetAppLogger()

	if !cfg.SnapshotPrewarmEnabled {
		log.Info("Snapshot prewarm worker disabled")
		return
	}

	prewarmWorker, err := worker.NewSnapshotPrewarmWorker(
		time.Duration(cfg.SnapshotPrewarmInterval)*time.Second,
		cfg.SnapshotPrewarmBatch,
	)
	if err != nil {
		log.WithError(err).Error("Failed to create snapshot prewarm worker, continuing without it")
		return
	}

	if cfg.DigestEnabled {
		sender := delivery.NewSender(delivery.DigestConfig{
			SMTPHost:   cfg.DigestSMTPHost,
			SMTPPort:   cfg.DigestSMTPPort,
			SMTPUser:   cfg.DigestSMTPUser,
			SMTPPass:   cfg.DigestSMTPPass,
			FromEmail:  cfg.DigestFromEmail,
			ToEmails:   splitEmails(cfg.DigestToEmails),
			WebhookURL: cfg.DigestWebhookURL,
		})
		prewarmWorker.OnRunDone(func(ctx context.Context, runID string, results []worker.GuideRunResult) {
			entries := make([]delivery.DigestEntry, 0, len(results))
			for _, r := range results {
				entries = append(entries, delivery.DigestEntry{
					GuideName: r.GuideName,
					BranchID:  r.BranchID,
					Score:     r.Score,
					Tier:      r.Tier,
				})
			}
			sender.Send(ctx, runID, entries)
		})
		log.Info("Performance digest delivery enabled")
	}

	go func() {
		defer func() {
			if r := recover(); r != nil {
				log.WithFields(map[string]interface{}{
					"panic": r,
				}).Error("Snapshot prewarm worker goroutine panic")
			}
		}()
		prewarmWorker.Start(ctx)
	}()
	log.Info("Snapshot prewarm worker started successfully")
}

func splitEmails(csv string) []string {
	var emails []string
	for _, e := range strings.Split(csv, ",") {
		if e = strings.TrimSpace(e); e != "" {
			emails = append(emails, e)
		}
	}
	return emails
}

// main_thread khởi tạo và chạy Fiber server
func main_thread() {
	app := InitFiberApp()

	address := global.ServerConfig.Address
	log := logger.GetAppLogger()
	log.WithFields(map[string]interface{}{
		"address":  address,
		"protocol": "HTTP",
	}).Info("Starting Fiber server...")

	if err := app.Listen(address, fiber.ListenConfig{}); err != nil {
		log.Fatalf("Error in Fiber Listen: %v", err)
	}
}

// Hàm main
func main() {
	// Khởi tạo logger
	initLogger()

	// Khởi tạo các biến toàn cục
	InitGlobal()

	// Khởi tạo registry
	InitRegistry()

	// Worker prewarm snapshot chạy nền, dừng theo context
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Resolve khả năng snapshot store MỘT LẦN sau khi registry sẵn sàng
	metricssvc.ResolveSnapshotStoreCapability(ctx)

	startPrewarmWorker(ctx)

	// Chạy Fiber server trên main thread
	main_thread()
}
