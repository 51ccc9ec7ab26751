package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jhoicas/Licencia-api/internal/application/dto"
	"github.com/jhoicas/Licencia-api/internal/application/usecase"
	"github.com/jhoicas/Licencia-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Licencia-api/pkg/clock"
)

// passwordEnv alternativa a --password para no dejarlo en el historial del shell.
const passwordEnv = "LICENCIA_BOOTSTRAP_PASSWORD"

func newBootstrapAdminCmd() *cobra.Command {
	var in dto.CreateAdminRequest
	cmd := &cobra.Command{
		Use:   "bootstrap-admin",
		Short: "Crea el primer super-admin",
		Long: `Crea el primer super-admin de una instalación vacía.

Falla si ya existe algún administrador; a partir de ahí las altas se hacen
desde la API con un super-admin.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if in.Password == "" {
				in.Password = os.Getenv(passwordEnv)
			}
			if in.Password == "" {
				return fmt.Errorf("password requerido (--password o %s)", passwordEnv)
			}
			rt, err := openRuntime(cmd.Context())
			if err != nil {
				return err
			}
			defer rt.Close()

			uc := usecase.NewAdminUseCase(
				postgres.NewAdminRepository(rt.pool),
				postgres.NewCompanyRepository(rt.pool),
				clock.Real{Location: rt.cfg.Licence.Location()},
				rt.log,
			)
			out, err := uc.Bootstrap(cmd.Context(), in)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "super-admin %s creado (%s)\n", out.Name, out.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&in.Name, "name", "", "nombre del administrador")
	cmd.Flags().StringVar(&in.Phone, "phone", "", "teléfono, usado como usuario de login")
	cmd.Flags().StringVar(&in.Password, "password", "", "password inicial")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("phone")
	return cmd
}
