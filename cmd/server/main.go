package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/dapur-pos/checkout/internal/config"
	"github.com/dapur-pos/checkout/internal/router"
	"github.com/dapur-pos/checkout/internal/service"
	"github.com/dapur-pos/checkout/internal/ws"
	"github.com/dapur-pos/checkout/pkg/logging"
)

func main() {
	logging.Setup()
	cfg := config.Load()

	hub := ws.NewHub()
	go hub.Run()

	sessions := service.NewSessionService(hub, cfg.ProcessingDelay)
	r := router.New(cfg, sessions, hub)

	slog.Info("starting checkout server",
		"port", cfg.Port, "processing_delay", cfg.ProcessingDelay)
	if err := http.ListenAndServe(fmt.Sprintf(":%s", cfg.Port), r); err != nil {
		slog.Error("server exited", "error", err)
		os.Exit(1)
	}
}
