// licenciactl tareas de operación fuera del servidor HTTP: migraciones y alta del primer super-admin.
//
// Uso:
//
//	licenciactl migrate up
//	licenciactl migrate down --steps 1
//	licenciactl migrate version
//	licenciactl bootstrap-admin --name "Ana" --phone 5550000000 --password ********
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/jhoicas/Licencia-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Licencia-api/pkg/config"
	"github.com/jhoicas/Licencia-api/pkg/logger"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "licenciactl",
		Short:         "Herramientas de operación de Licencia API",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newMigrateCmd(), newBootstrapAdminCmd())
	return root
}

// runtimeEnv configuración, logger y pool compartidos por los subcomandos.
type runtimeEnv struct {
	cfg  *config.Config
	log  *logger.Logger
	pool *pgxpool.Pool
}

func openRuntime(ctx context.Context) (*runtimeEnv, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("cargar configuración: %w", err)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, Output: os.Stderr})
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		return nil, fmt.Errorf("conexión a PostgreSQL: %w", err)
	}
	return &runtimeEnv{cfg: cfg, log: log, pool: pool}, nil
}

func (r *runtimeEnv) Close() {
	r.pool.Close()
}
