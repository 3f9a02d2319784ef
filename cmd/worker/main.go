// Worker consumes auth events from Kafka and records token rejections in the audit log.
// Set KAFKA_BROKERS, AUTH_EVENTS_KAFKA_TOPIC, KAFKA_GROUP_ID, and DATABASE_URL. SITE_URL and JWT_SECRET
// are required by config but unused.
package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/segmentio/kafka-go"

	auditrepo "github.com/MohamedAliSmk/pos-app/internal/audit/repository"
	"github.com/MohamedAliSmk/pos-app/internal/config"
	"github.com/MohamedAliSmk/pos-app/internal/db"
	"github.com/MohamedAliSmk/pos-app/internal/telemetry/consumer"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	brokers := cfg.KafkaBrokersList()
	if len(brokers) == 0 {
		log.Fatal("worker: KAFKA_BROKERS is required")
	}

	conn, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer conn.Close()
	auditor := consumer.NewAuditor(auditrepo.NewPostgresRepository(conn))

	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        brokers,
		Topic:          cfg.AuthEventsTopic,
		GroupID:        cfg.KafkaGroupID,
		MinBytes:       1,
		MaxBytes:       10e6, // 10MB
		MaxWait:        1 * time.Second,
		CommitInterval: time.Second,
	})
	defer reader.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Printf("worker: consuming from %s (group %s)", cfg.AuthEventsTopic, cfg.KafkaGroupID)

	for {
		msg, err := reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Println("worker: stopped")
				return
			}
			log.Printf("worker: kafka read error: %v", err)
			continue
		}

		handleCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		if _, err := auditor.HandleMessage(handleCtx, msg.Value); err != nil {
			log.Printf("worker: offset %d: %v", msg.Offset, err)
		}
		cancel()
	}
}
