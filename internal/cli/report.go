package cli

import (
	"github.com/spf13/cobra"

	cliadapter "github.com/example/ordens/internal/adapters/cli"
	"github.com/example/ordens/internal/ports/primary"
	"github.com/example/ordens/internal/wire"
)

// ReportCmd returns the report command
func ReportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Read-only order reports",
		Long: `Reports over service orders. Consultants only ever see their own orders;
supervisors may filter by consultant.`,
	}

	cmd.PersistentFlags().String("format", "table", "Output format: table or yaml")

	cmd.AddCommand(reportOpenCmd())
	cmd.AddCommand(reportDashboardCmd())
	cmd.AddCommand(reportBilledCmd())
	cmd.AddCommand(reportInventoryCmd())

	return cmd
}

func formatFlag(cmd *cobra.Command) (cliadapter.Format, error) {
	raw, _ := cmd.Flags().GetString("format")
	return cliadapter.ParseFormat(raw)
}

func reportOpenCmd() *cobra.Command {
	var req primary.OpenOrdersRequest

	cmd := &cobra.Command{
		Use:   "open",
		Short: "List open service orders",
		Long: `List open service orders with the number of days each has been open.

Examples:
  ordens report open
  ordens report open --status "Aguardando Peças"
  ordens report open --stale --format yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := formatFlag(cmd)
			if err != nil {
				return err
			}
			return wire.ReportAdapter().OpenOrders(NewContext(), req, format)
		},
	}

	cmd.Flags().Int64Var(&req.ConsultantID, "consultant", 0, "Consultant id (supervisor)")
	cmd.Flags().StringVar(&req.StatusText, "status", "", "Only orders with this status")
	cmd.Flags().BoolVar(&req.OnlyStale, "stale", false, "Only orders open longer than the stale threshold")

	return cmd
}

func reportDashboardCmd() *cobra.Command {
	var req primary.OpenOrdersRequest

	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Totals of open service orders",
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := formatFlag(cmd)
			if err != nil {
				return err
			}
			return wire.ReportAdapter().Dashboard(NewContext(), req, format)
		},
	}

	cmd.Flags().Int64Var(&req.ConsultantID, "consultant", 0, "Consultant id (supervisor)")

	return cmd
}

func reportBilledCmd() *cobra.Command {
	var req primary.BilledReportRequest

	cmd := &cobra.Command{
		Use:   "billed",
		Short: "Billed service orders with monthly and yearly totals",
		Long: `Billed service orders with KPIs and monthly and yearly series.
The yearly series ignores --month.

Examples:
  ordens report billed --year 2024
  ordens report billed --year 2024 --month 3 --format yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := formatFlag(cmd)
			if err != nil {
				return err
			}
			return wire.ReportAdapter().Billed(NewContext(), req, format)
		},
	}

	cmd.Flags().Int64Var(&req.ConsultantID, "consultant", 0, "Consultant id (supervisor)")
	cmd.Flags().StringVar(&req.Year, "year", "", "Billed year (YYYY)")
	cmd.Flags().StringVar(&req.Month, "month", "", "Billed month (1-12)")

	return cmd
}

func reportInventoryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inventory",
		Short: "Machine inventory with model counts per type",
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := formatFlag(cmd)
			if err != nil {
				return err
			}
			return wire.ReferenceAdapter().Inventory(NewContext(), format)
		},
	}
}
