package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"schoolportal/internal/config"
	"schoolportal/internal/metrics"
	"schoolportal/internal/queue"
	"schoolportal/internal/result"
	"schoolportal/internal/store"
)

// Worker consumes result messages and refreshes cached student summaries so
// dashboard reads stay cheap.
func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Println("shutdown signal received")
		cancel()
	}()

	db, err := store.NewDB(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db connect failed: %v", err)
	}
	defer db.Close()

	redisClient := store.NewRedis(cfg.RedisAddr)

	var q queue.Queue
	if cfg.QueueBackend == "memory" {
		q = queue.NewInMemory(64)
	} else {
		q = queue.NewRedisQueue(redisClient.Client, "portal:results")
	}

	repo := result.NewRepository(db.Client)
	summaries := result.NewSummaryCache(redisClient.Client, cfg.SummaryTTL)

	messages, err := q.Consume(ctx)
	if err != nil {
		log.Fatalf("queue consume init failed: %v", err)
	}

	log.Println("worker started, waiting for messages...")
	for msg := range messages {
		if msg.Type != queue.TypeResultRecorded {
			continue
		}

		studentID := msg.Body
		history, err := repo.ListByStudent(ctx, studentID)
		if err != nil {
			log.Printf("load results for %s failed: %v", studentID, err)
			continue
		}

		summary := result.Summarize(history)
		if err := summaries.Refresh(ctx, studentID, summary); err != nil {
			log.Printf("summary refresh for %s failed: %v", studentID, err)
			continue
		}
		metrics.SummaryRefreshes.Inc()
		log.Printf("summary refreshed for student %s (count=%d)", studentID, summary.Count)
	}

	log.Println("worker stopped")
}
