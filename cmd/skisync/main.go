package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"skikurs-sync/internal/config"
	"skikurs-sync/internal/notify"
	"skikurs-sync/internal/notify/smtp"
	"skikurs-sync/internal/notify/stub"
	"skikurs-sync/internal/server"
	"skikurs-sync/internal/sheets"
	syncengine "skikurs-sync/internal/sync"
	"skikurs-sync/internal/tgalert"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.FromEnv()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	store, err := sheets.New(cfg.GoogleServiceAccountJSON, map[string]string{
		sheets.KeySettings:      cfg.SheetIDSettings,
		sheets.KeyRegistrations: cfg.SheetIDRegistrations,
		sheets.KeyDB:            cfg.SheetIDDB,
	})
	if err != nil {
		log.Fatalf("sheets: %v", err)
	}

	settings, err := notify.LoadSettings(cfg.MailSettingsPath)
	if err != nil {
		log.Fatalf("mail settings: %v", err)
	}

	notifier, err := newNotifier(cfg.Notifier, settings)
	if err != nil {
		log.Fatalf("notifier: %v", err)
	}

	renderer, err := notify.NewRenderer(cfg.TemplateRegistrationPath, cfg.TemplatePaidPath, settings)
	if err != nil {
		log.Fatalf("templates: %v", err)
	}

	alerter, err := tgalert.New(cfg.TelegramToken, cfg.AdminTGIDs)
	if err != nil {
		log.Fatalf("telegram: %v", err)
	}

	engine := syncengine.New(store, notifier, renderer)
	httpSrv := server.New(cfg, engine, alerter)

	go func() {
		log.Printf("HTTP listening on %s (notifier: %s)", cfg.HTTPAddr, notifier.Name())
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("http server: %v", err)
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Println("shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = httpSrv.Shutdown(ctx)

	log.Println("bye")
}

func newNotifier(kind string, settings notify.Settings) (notify.Notifier, error) {
	switch kind {
	case "stub":
		return stub.New(), nil
	case "smtp":
		return smtp.New(settings)
	default:
		return nil, fmt.Errorf("unknown notifier: %s", kind)
	}
}
