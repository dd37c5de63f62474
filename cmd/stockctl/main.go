// stockctl tareas operativas sobre la base de datos del inventario:
// migraciones, recálculo de existencias, reporte de reposición y alta de usuarios.
//
// Uso: go run ./cmd/stockctl <comando> [flags]
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/jhoicas/suestoque-api/internal/infrastructure/postgres"
	"github.com/jhoicas/suestoque-api/pkg/config"
	"github.com/jhoicas/suestoque-api/pkg/logger"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// env dependencias compartidas por los subcomandos.
type env struct {
	cfg  *config.Config
	log  *logger.Logger
	pool *pgxpool.Pool
}

func rootCmd() *cobra.Command {
	var logLevel string

	cmd := &cobra.Command{
		Use:           "stockctl",
		Short:         "Herramientas operativas del inventario",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Nivel de log (trace, debug, info, warn, error)")

	open := func(ctx context.Context) (*env, error) {
		cfg, err := config.Load()
		if err != nil {
			return nil, fmt.Errorf("cargar configuración: %w", err)
		}
		level := cfg.App.LogLevel
		if logLevel != "" {
			level = logLevel
		}
		log := logger.New(logger.Config{Env: cfg.App.Env, Level: level})
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			return nil, fmt.Errorf("conexión a PostgreSQL: %w", err)
		}
		return &env{cfg: cfg, log: log, pool: pool}, nil
	}

	cmd.AddCommand(
		migrateCmd(open),
		recalculateCmd(open),
		reorderCmd(open),
		userCmd(open),
	)
	return cmd
}

type opener func(ctx context.Context) (*env, error)
