package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"strconv"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/clearpathlegal/growth-engine/internal/infra/chat"
	"github.com/clearpathlegal/growth-engine/internal/infra/database"
	"github.com/clearpathlegal/growth-engine/internal/infra/http/handlers"
	"github.com/clearpathlegal/growth-engine/internal/infra/http/middleware"
	"github.com/clearpathlegal/growth-engine/internal/infra/mail"
	"github.com/clearpathlegal/growth-engine/internal/infra/notification"
	"github.com/clearpathlegal/growth-engine/internal/infra/queue"
	"github.com/clearpathlegal/growth-engine/internal/infra/schedule"
	"github.com/clearpathlegal/growth-engine/internal/promo"
	"github.com/clearpathlegal/growth-engine/internal/trigger"
	"github.com/clearpathlegal/growth-engine/internal/usecase"
)

func main() {
	godotenv.Load()

	db, err := database.NewDBConnection(os.Getenv("DATABASE_URL"))
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	rdb := redis.NewClient(&redis.Options{
		Addr: envOr("REDIS_ADDR", "localhost:6379"),
	})
	defer rdb.Close()

	rabbitMQ, err := queue.NewRabbitMQ(
		envOr("RABBITMQ_USER", "user"),
		envOr("RABBITMQ_PASS", "password"),
		envOr("RABBITMQ_HOST", "localhost"),
		envOr("RABBITMQ_PORT", "5672"),
	)
	if err != nil {
		log.Fatal(err)
	}
	defer rabbitMQ.Conn.Close()
	defer rabbitMQ.Ch.Close()

	// 1. Stores
	leadRepo := database.NewLeadRepository(db)
	promoStore := promo.NewMemoryStore(promo.DefaultCatalog())

	// 2. Notification fan-out: producer publishes, worker delivers per channel
	producer := queue.NewProducer(rabbitMQ.Conn, rabbitMQ.Ch)
	fanout := notification.NewFanout(producer, []string{"email", "chat"})

	mailPort, _ := strconv.Atoi(envOr("MAIL_PORT", "587"))
	emailSender := mail.NewEmailSender(
		os.Getenv("MAIL_HOST"), mailPort, os.Getenv("MAIL_USER"), os.Getenv("MAIL_PASS"),
		envOr("MAIL_FROM", "no-reply@clearpathlegal.com"),
	)
	chatClient := chat.NewClient(os.Getenv("CHAT_WEBHOOK_URL"))

	worker := queue.NewWorker(rabbitMQ.Ch, map[string]queue.ChannelSender{
		"email": emailSender,
		"chat":  chatClient,
	})
	go worker.Start(queue.QueueName)

	// 3. Trigger engine + durable delay scheduler
	scheduler := schedule.NewRedisScheduler(rdb)
	orchestrator := trigger.NewOrchestrator(leadRepo, fanout, scheduler, trigger.DefaultConfig())
	go scheduler.Start(context.Background(), orchestrator)

	// 4. Use cases
	ledger := promo.NewLedger(promoStore)
	intakeUC := usecase.NewIntakeLeadUseCase(leadRepo)
	reportUC := usecase.NewReportBehaviorUseCase(orchestrator)
	promoUC := usecase.NewApplyPromoUseCase(ledger, orchestrator)

	// 5. Handlers
	intakeHandler := handlers.NewIntakeHandler(intakeUC)
	behaviorHandler := handlers.NewBehaviorHandler(reportUC)
	leadHandler := handlers.NewLeadHandler(leadRepo)
	promoHandler := handlers.NewPromoHandler(promoUC)
	checkoutHandler := handlers.NewCheckoutHandler(promoUC)
	healthHandler := handlers.NewHealthHandler(db, rabbitMQ.Conn, rdb)

	// 6. Router
	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(middleware.Metrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"http://localhost:5173", "*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
	}))

	r.Post("/leads/intake", intakeHandler.Handle)
	r.Post("/leads/{leadId}/behavior", behaviorHandler.Handle)
	r.Get("/leads/{leadId}", leadHandler.HandleGet)
	r.Post("/promo/validate", promoHandler.HandleValidate)
	r.Post("/checkout/confirm", checkoutHandler.HandleConfirm)
	r.Get("/health", healthHandler.Handle)
	r.Handle("/metrics", promhttp.Handler())

	port := ":" + envOr("PORT", "8080")
	log.Printf("🔥 growth engine listening on %s", port)
	http.ListenAndServe(port, r)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
