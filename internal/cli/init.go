package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/example/ordens/internal/db"
	"github.com/example/ordens/internal/ports/primary"
	"github.com/example/ordens/internal/wire"
)

// InitCmd returns the init command
func InitCmd() *cobra.Command {
	var name, email, password string
	var seed bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize the ordens database",
		Long: `Initialize the ordens database with the required schema and create the
first supervisor, or load demonstration data with --seed.

Examples:
  ordens init --name "Marta Ribeiro" --email marta@oficina.com.br --password segredo
  ordens init --seed`,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := wire.Config().DBPath
			fmt.Printf("Initializing ordens database at %s\n", path)
			database := wire.DB()
			fmt.Println("✓ Database initialized successfully")

			if seed {
				if err := db.SeedFixtures(database, time.Now()); err != nil {
					return fmt.Errorf("failed to seed database: %w", err)
				}
				fmt.Printf("✓ Demonstration data loaded (password for every consultant: %s)\n", db.SeedPassword)
				fmt.Println()
				fmt.Println("Next steps:")
				fmt.Println("  ordens --as marta@oficina.com.br report open")
				return nil
			}

			if email == "" {
				fmt.Println()
				fmt.Println("Next steps:")
				fmt.Println("  ordens init --name <name> --email <email> --password <password>")
				return nil
			}

			return wire.ConsultantAdapter().Bootstrap(NewContext(), primary.CreateConsultantRequest{
				Name:     name,
				Email:    email,
				Password: password,
			})
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Name of the first supervisor")
	cmd.Flags().StringVar(&email, "email", "", "Email of the first supervisor")
	cmd.Flags().StringVar(&password, "password", "", "Password of the first supervisor")
	cmd.Flags().BoolVar(&seed, "seed", false, "Load demonstration data into an empty database")
	cmd.MarkFlagsMutuallyExclusive("seed", "email")

	return cmd
}
