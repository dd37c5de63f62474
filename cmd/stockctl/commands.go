package main

import (
	"fmt"
	"io"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/jhoicas/suestoque-api/internal/application/auth"
	"github.com/jhoicas/suestoque-api/internal/application/dto"
	"github.com/jhoicas/suestoque-api/internal/application/inventory"
	"github.com/jhoicas/suestoque-api/internal/infrastructure/postgres"
	"github.com/jhoicas/suestoque-api/internal/infrastructure/xlsx"
)

func migrateCmd(open opener) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Aplica las migraciones SQL pendientes",
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := open(cmd.Context())
			if err != nil {
				return err
			}
			defer e.pool.Close()

			applied, err := postgres.Migrate(cmd.Context(), e.pool)
			if err != nil {
				return err
			}
			if len(applied) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "Sin migraciones pendientes")
				return nil
			}
			for _, name := range applied {
				fmt.Fprintf(cmd.OutOrStdout(), "aplicada: %s\n", name)
			}
			return nil
		},
	}
}

func recalculateCmd(open opener) *cobra.Command {
	var dryRun bool
	cmd := &cobra.Command{
		Use:   "recalculate",
		Short: "Recalcula las existencias de todas las variantes desde el ledger",
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := open(cmd.Context())
			if err != nil {
				return err
			}
			defer e.pool.Close()

			uc := inventory.NewProjectorUseCase(
				postgres.NewTxRunner(e.pool),
				postgres.NewVariantRepository(e.pool),
				nil,
				e.log.Component("projector"),
			)
			report, err := uc.RecalculateAll(cmd.Context(), dryRun)
			if err != nil {
				return err
			}
			return printRepair(cmd.OutOrStdout(), report)
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Solo reporta las diferencias, no escribe")
	return cmd
}

func reorderCmd(open opener) *cobra.Command {
	var (
		all     bool
		xlsxOut string
	)
	cmd := &cobra.Command{
		Use:   "reorder",
		Short: "Muestra las sugerencias de reposición",
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := open(cmd.Context())
			if err != nil {
				return err
			}
			defer e.pool.Close()

			sheets := xlsx.NewExporter()
			uc := inventory.NewReorderUseCase(postgres.NewReorderRepository(e.pool), inventory.ReorderConfig{
				WindowDays:      e.cfg.Reorder.WindowDays,
				DefaultLeadDays: e.cfg.Reorder.DefaultLeadDays,
			}, sheets)

			report, err := uc.Suggestions(cmd.Context(), all)
			if err != nil {
				return err
			}
			if xlsxOut != "" {
				data, err := sheets.ReorderXLSX(report)
				if err != nil {
					return err
				}
				if err := os.WriteFile(xlsxOut, data, 0o644); err != nil {
					return fmt.Errorf("escribir %s: %w", xlsxOut, err)
				}
				e.log.Info().Str("file", xlsxOut).Int("items", len(report.Items)).Msg("hoja de reposición generada")
				return nil
			}
			return printReorder(cmd.OutOrStdout(), report)
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "Incluye variantes que no necesitan reposición")
	cmd.Flags().StringVar(&xlsxOut, "xlsx", "", "Escribe el reporte en un archivo .xlsx")
	return cmd
}

func userCmd(open opener) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Gestión de usuarios",
	}

	var in dto.RegisterRequest
	create := &cobra.Command{
		Use:   "create",
		Short: "Crea un usuario (útil para el primer administrador)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := open(cmd.Context())
			if err != nil {
				return err
			}
			defer e.pool.Close()

			uc := auth.NewAuthUseCase(postgres.NewUserRepository(e.pool), auth.JWTConfig{
				Secret:     e.cfg.JWT.Secret,
				ExpMinutes: e.cfg.JWT.Expiration,
				Issuer:     e.cfg.JWT.Issuer,
			})
			user, err := uc.RegisterUser(cmd.Context(), in)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "usuario %s (%s) creado con id %s\n", user.Email, user.Role, user.ID)
			return nil
		},
	}
	create.Flags().StringVar(&in.Email, "email", "", "Correo del usuario")
	create.Flags().StringVar(&in.Password, "password", "", "Contraseña (mínimo 8 caracteres)")
	create.Flags().StringVar(&in.Name, "name", "", "Nombre visible")
	create.Flags().StringVar(&in.Role, "role", "admin", "Rol: admin, bodeguero o vendedor")
	_ = create.MarkFlagRequired("email")
	_ = create.MarkFlagRequired("password")

	cmd.AddCommand(create)
	return cmd
}

func printRepair(w io.Writer, report *dto.RepairReportDTO) error {
	mode := "aplicado"
	if report.DryRun {
		mode = "simulación"
	}
	fmt.Fprintf(w, "Recálculo (%s): %d variantes, %d con diferencias\n", mode, report.Total, report.Corrected)
	if len(report.Entries) == 0 && len(report.Negative) == 0 {
		return nil
	}

	table := newTable(w, "Variante", "Antes", "Después", "Observación")
	for _, e := range report.Entries {
		table.Append([]string{e.Label, fmt.Sprint(e.Before), fmt.Sprint(e.After), ""})
	}
	for _, e := range report.Negative {
		table.Append([]string{e.Label, fmt.Sprint(e.Before), fmt.Sprint(e.After), "ledger negativo, requiere revisión"})
	}
	table.Render()
	return nil
}

func printReorder(w io.Writer, report *dto.ReorderReportDTO) error {
	if len(report.Items) == 0 {
		fmt.Fprintln(w, "Ninguna variante requiere reposición")
		return nil
	}
	table := newTable(w, "Producto", "Atributo", "Proveedor", "Existencia", "Punto", "Sugerido", "Días")
	for _, it := range report.Items {
		supplier := it.SupplierName
		if supplier == "" {
			supplier = "Sin proveedor"
		}
		days := "-"
		if it.DaysRemaining != nil {
			days = fmt.Sprint(*it.DaysRemaining)
		}
		table.Append([]string{
			it.ProductName, it.Attribute, supplier, fmt.Sprint(it.OnHand),
			it.ReorderPoint.StringFixed(1), fmt.Sprint(it.SuggestedQty), days,
		})
	}
	table.Render()
	return nil
}

func newTable(w io.Writer, header ...string) *tablewriter.Table {
	table := tablewriter.NewWriter(w)
	table.SetHeader(header)
	table.SetAutoWrapText(false)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	return table
}
