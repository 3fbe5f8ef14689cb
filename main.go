package main

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ordersbot/config"
	"ordersbot/db"
	"ordersbot/handlers"
	"ordersbot/parser"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

func main() {
	cfg := config.Load()

	logger, err := config.NewLogger(cfg.Env)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	if err := config.LoadLocales(); err != nil {
		logger.Fatal("loading locales", zap.Error(err))
	}

	globalStorage, err := db.Open(cfg.DBPath)
	if err != nil {
		logger.Fatal("opening the db", zap.String("path", cfg.DBPath), zap.Error(err))
	}
	defer globalStorage.Close()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	err = handlers.FillSessions(ctx, globalStorage)
	if err != nil {
		logger.Fatal("filling sessions", zap.Error(err))
	}

	extractor := parser.NewExtractorFromConfig(cfg.Extraction, logger)

	bot, err := tgbotapi.NewBotAPI(cfg.TelegramToken)
	if err != nil {
		logger.Fatal("connecting to telegram", zap.Error(err))
	}
	bot.Debug = false
	handlers.Setup(bot, extractor, parser.NewPdfReader(logger.Named("pdf")), logger)

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := bot.GetUpdatesChan(u)

	go handlers.ReceiveUpdates(ctx, updates, globalStorage)

	// /status reports the tagger registry
	port := os.Getenv("PORT")
	if port == "" {
		port = "8443"
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/status", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(extractor.Cities().Diagnostics(r.Context()))
	})
	server := &http.Server{Addr: ":" + port, Handler: mux, ReadHeaderTimeout: 10 * time.Second}

	go func() {
		<-ctx.Done()
		bot.StopReceivingUpdates()
		shutdownCtx, stop := context.WithTimeout(context.Background(), 5*time.Second)
		defer stop()
		server.Shutdown(shutdownCtx)
	}()

	logger.Info("bot started", zap.String("user", bot.Self.UserName), zap.String("port", port))
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatal("failed to start server", zap.Error(err))
	}
}
