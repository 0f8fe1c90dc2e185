package main

import (
	"flag"
	"log"
	"os"

	"Paratoner/internal/di"
	"Paratoner/pkg/config"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "config file path")
	flag.Parse()

	cfg, err := config.LoadWithEnv(*configPath)
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}

	log.Printf("env=%s port=%d telegram=%v whatsapp=%v",
		cfg.Environment, cfg.Server.Port, cfg.Telegram.Enabled, cfg.WhatsApp.Enabled)

	app, err := di.InitializeApp(cfg)
	if err != nil {
		log.Fatalf("app initialization failed: %v", err)
	}

	if err := app.Run(); err != nil {
		log.Printf("app error: %v", err)
		os.Exit(1)
	}
}
