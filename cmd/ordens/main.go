package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/example/ordens/internal/cli"
	"github.com/example/ordens/internal/config"
	"github.com/example/ordens/internal/logger"
	"github.com/example/ordens/internal/version"
	"github.com/example/ordens/internal/wire"
)

func main() {
	// A missing .env is fine; the environment alone is enough.
	_ = godotenv.Load()

	var actorEmail string

	rootCmd := &cobra.Command{
		Use:     "ordens",
		Short:   "ordens - service order ledger for machine repair and warranty",
		Version: version.String(),
		Long: `ordens tracks warranty service orders for a machine repair shop: clients,
machines, consultants, and each order from opening to billing.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cmd.Context())
			if err != nil {
				return err
			}
			wire.Configure(cfg)
			logger.Init(logger.Options{Level: cfg.LogLevel, Pretty: cfg.LogPretty})

			return cli.ResolveActor(actorEmail)
		},
	}

	rootCmd.PersistentFlags().StringVar(&actorEmail, "as", "", "Email of the acting consultant (default $ORDENS_ACTOR)")

	rootCmd.AddCommand(cli.InitCmd())
	rootCmd.AddCommand(cli.LoginCmd())

	// Reference data
	rootCmd.AddCommand(cli.ClientCmd())
	rootCmd.AddCommand(cli.ConsultantCmd())
	rootCmd.AddCommand(cli.MachineTypeCmd())
	rootCmd.AddCommand(cli.ModelCmd())
	rootCmd.AddCommand(cli.StatusCmd())

	// Orders
	rootCmd.AddCommand(cli.OrderCmd())
	rootCmd.AddCommand(cli.ReportCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
