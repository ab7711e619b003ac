package main

import (
	_ "payment_relay/docs"
	"payment_relay/internal/adapter/http/routes"
	"payment_relay/internal/config"
	"payment_relay/internal/infrastructure/logger"

	_ "github.com/joho/godotenv/autoload"
	log "github.com/sirupsen/logrus"
)

// @title           Payment Relay API
// @version         1.0
// @description     Relays storefront payments to Paystack and records the outcome on orders.

// @contact.name   API Support

// @host localhost:5000

// @BasePath  /

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}
	if err := logger.Setup(cfg.LogLevel, cfg.LogFormat, "payment-relay"); err != nil {
		log.Fatalf("invalid logger configuration: %v", err)
	}
	log.WithFields(cfg.LogFields()).Info("[app] configuration loaded")

	if err := routes.Run(cfg); err != nil {
		log.WithError(err).Fatal("[app] server exited")
	}
}
