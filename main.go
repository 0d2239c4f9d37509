package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"rx-vault/config"
	"rx-vault/logger"
	"rx-vault/web"

	"github.com/joho/godotenv"
	"github.com/op/go-logging"
)

func main() {
	// A missing .env is fine; the environment may already be populated.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	if cfg.Debug {
		logger.InitLogger(logging.DEBUG)
	} else {
		logger.InitLogger(logging.INFO)
	}

	server := web.NewServer(cfg)
	if err := server.Start(); err != nil {
		log.Fatal(err)
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, os.Interrupt)
	<-sigCh

	if err := server.Stop(); err != nil {
		logger.Warning("stop server err:", err)
	}
}
