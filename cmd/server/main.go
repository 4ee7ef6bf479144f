package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"astrotalk/internal/assistant"
	"astrotalk/internal/config"
	"astrotalk/internal/db"
	"astrotalk/internal/handlers"
	"astrotalk/internal/payments"
	"astrotalk/internal/services"
	"astrotalk/internal/store"
	"astrotalk/internal/websocket"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}
	database, err := db.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}
	defer database.Close()

	users := store.NewUserStore(database)
	astrologers := store.NewAstrologerStore(database)
	bookings := store.NewBookingStore(database)
	entries := store.NewWalletEntryStore(database)
	audit := store.NewAuditStore(database)
	txRunner := db.NewTxRunner(database)
	hub := websocket.NewHub()

	var orders payments.OrderCreator
	if cfg.PaymentMode == config.PaymentLive {
		orders = payments.NewClient(cfg.RazorpayKeyID, cfg.RazorpayKeySecret)
		log.Println("payments: razorpay live mode")
	} else {
		log.Println("payments: dummy order mode (no gateway keys)")
	}

	var chatter assistant.Chatter
	if cfg.AssistantMode == config.AssistantLive {
		chatter = assistant.NewOpenAIClient(cfg.OpenAIKey)
		log.Println("assistant: openai live mode")
	} else {
		chatter = assistant.NewEchoClient()
		log.Println("assistant: echo mode (no api key)")
	}

	service := services.NewBookingService(txRunner, astrologers, bookings, users, entries, audit, orders)
	handler := handlers.New(txRunner, cfg, users, astrologers, bookings, entries, audit, service, chatter, hub)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler.Routes(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("astrotalk API listening on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)
	<-shutdown

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("shutdown error: %v", err)
	}
}
