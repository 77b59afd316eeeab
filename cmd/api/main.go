package main

import (
	"context"
	"errors"
	"log"
	"net/http"

	"taskflow/internal/app"
	"taskflow/internal/config"
)

func main() {
	cfg, err := config.Load("config.yml")
	if err != nil {
		log.Fatalf("конфигурация: %v", err)
	}

	application := app.New(cfg)

	ctx := context.Background()
	if err := application.Init(ctx); err != nil {
		log.Fatalf("инициализация: %v", err)
	}

	if err := application.Run(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("сервер: %v", err)
	}
}
