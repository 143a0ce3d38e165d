package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"brgyalert/backend/internal/account"
	"brgyalert/backend/internal/alert"
	"brgyalert/backend/internal/alerthub"
	"brgyalert/backend/internal/api"
	"brgyalert/backend/internal/api/handler"
	"brgyalert/backend/internal/audit"
	"brgyalert/backend/internal/chatbot"
	"brgyalert/backend/internal/config"
	"brgyalert/backend/internal/dashboard"
	"brgyalert/backend/internal/localization"
	"brgyalert/backend/internal/messaging"
	"brgyalert/backend/internal/ratelimit"
	"brgyalert/backend/internal/report"
	"brgyalert/backend/internal/session"
	"brgyalert/backend/internal/storage"
	"brgyalert/backend/internal/telegram"

	"github.com/gin-gonic/gin"
)

func main() {
	log.Println("INFO: starting BarangayAlert backend")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("ERROR: config: %v", err)
	}
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 1. Storage
	db, err := storage.OpenDatabase(cfg)
	if err != nil {
		log.Fatalf("ERROR: database: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("ERROR: database handle: %v", err)
	}
	defer sqlDB.Close()

	rdb, err := storage.OpenRedis(cfg)
	if err != nil {
		log.Fatalf("ERROR: redis: %v", err)
	}
	store := storage.NewStorageService(db, rdb)

	// 2. Live alert hub. With Redis every instance relays the shared channel;
	// without it alerts go straight to the local hub.
	hub := alerthub.NewManagerService()
	go hub.Run(ctx)
	if rdb != nil {
		defer rdb.Close()
		if err := hub.StartPubSubListener(ctx, store); err != nil {
			log.Fatalf("ERROR: redis subscribe: %v", err)
		}
	} else {
		store.LocalFanout = hub.Broadcast
	}

	// 3. Domain services
	var limitStore ratelimit.Store = ratelimit.NewMemoryStore()
	if rdb != nil {
		limitStore = ratelimit.NewRedisStore(rdb, config.AuthAttemptWindow)
	}
	limiter := ratelimit.New(limitStore, config.AuthAttemptLimit, config.AuthAttemptWindow)
	sessions := session.NewIssuer(cfg.JWTSecret, cfg.JWTIssuer)

	transitions, err := report.ParseTransitions(cfg.ReportTransitions)
	if err != nil {
		log.Fatalf("ERROR: %v", err)
	}
	localizer, err := localization.Bundled()
	if err != nil {
		log.Fatalf("ERROR: localization: %v", err)
	}

	alerts := alert.NewService(store)
	h := &handler.Handler{
		Accounts:  account.NewService(store, sessions, limiter),
		Alerts:    alerts,
		Reports:   report.NewService(store, transitions),
		Audit:     audit.NewService(store),
		Dashboard: dashboard.NewService(store),
		Chatbot:   chatbot.NewService(store, localizer),
		Hub:       hub,
	}

	// 4. Optional integrations
	if cfg.RabbitMQURL != "" {
		rmq, err := messaging.NewRabbitMQ(cfg.RabbitMQURL)
		if err != nil {
			log.Fatalf("ERROR: rabbitmq: %v", err)
		}
		defer rmq.Close()
		worker := messaging.NewOutboxWorker(store, rmq)
		worker.Start()
		defer worker.Stop()
	} else {
		log.Println("WARN: RABBITMQ_URL not set, outbox events stay in the database")
	}

	if cfg.TelegramBotToken != "" {
		bot, err := telegram.NewBotService(cfg.TelegramBotToken, alerts, localizer)
		if err != nil {
			log.Fatalf("ERROR: telegram: %v", err)
		}
		go bot.Run(ctx)
		if cfg.TelegramAlertChatID != 0 {
			tg := telegram.NewClient(bot.BotAPI, cfg.TelegramAlertChatID)
			hub.Register(tg)
			tg.Run()
		}
	}

	// 5. HTTP
	if err := handler.RegisterValidators(); err != nil {
		log.Fatalf("ERROR: validators: %v", err)
	}
	health := map[string]handler.Pinger{"database": sqlDB.PingContext}
	if rdb != nil {
		health["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
	}
	router := api.NewRouter(h, api.RouterConfig{Sessions: sessions, Users: store, Health: health})

	server := &http.Server{
		Addr:           cfg.HTTPAddr,
		Handler:        router,
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   10 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	go func() {
		log.Printf("INFO: listening on %s", cfg.HTTPAddr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("ERROR: http server: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("INFO: shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("ERROR: http shutdown: %v", err)
	}
}
