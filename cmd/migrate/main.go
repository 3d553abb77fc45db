// migrate aplica las migraciones goose embebidas sobre la base configurada.
//
// Uso: go run ./cmd/migrate [up|down|status|version|redo|reset] [args...]
// Sin argumentos ejecuta "up".
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/jhoicas/lotes-erp/internal/infrastructure/postgres"
	"github.com/jhoicas/lotes-erp/pkg/config"
	"github.com/jhoicas/lotes-erp/pkg/logger"
)

func main() {
	command := "up"
	var args []string
	if len(os.Args) > 1 {
		command = os.Args[1]
		args = os.Args[2:]
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cargar configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel}).Component("migrate")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	if err := postgres.Migrate(ctx, pool, command, args...); err != nil {
		log.Error().Err(err).Str("command", command).Msg("migración fallida")
		pool.Close()
		os.Exit(1)
	}
	log.Info().Str("command", command).Msg("migración completada")
}
