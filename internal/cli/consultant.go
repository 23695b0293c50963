package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/example/ordens/internal/ports/primary"
	"github.com/example/ordens/internal/wire"
)

// ConsultantCmd returns the consultant command
func ConsultantCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "consultant",
		Short: "Manage consultants",
	}

	cmd.AddCommand(consultantAddCmd())
	cmd.AddCommand(consultantListCmd())
	cmd.AddCommand(consultantProfileCmd())
	cmd.AddCommand(consultantDeleteCmd())

	return cmd
}

func consultantAddCmd() *cobra.Command {
	var req primary.CreateConsultantRequest

	cmd := &cobra.Command{
		Use:   "add [name]",
		Short: "Register a consultant (supervisor)",
		Long: `Register a consultant.

Examples:
  ordens consultant add "Paula Lima" --email paula@oficina.com.br --password segredo
  ordens consultant add "João Alves" --email joao@oficina.com.br --password segredo --role supervisor`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req.Name = args[0]
			return wire.ConsultantAdapter().Add(NewContext(), req)
		},
	}

	cmd.Flags().StringVar(&req.Email, "email", "", "Email address")
	cmd.Flags().StringVar(&req.Password, "password", "", "Initial password")
	cmd.Flags().StringVar(&req.Role, "role", "consultor", "Role: consultor or supervisor")

	return cmd
}

func consultantListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List consultants",
		RunE: func(cmd *cobra.Command, args []string) error {
			return wire.ConsultantAdapter().List(NewContext())
		},
	}
}

func consultantProfileCmd() *cobra.Command {
	var req primary.UpdateProfileRequest

	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Edit your own profile",
		Long: `Edit the acting consultant's name, email or password. Omitted values
are kept.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			actor := CurrentActor()
			if actor.IsZero() {
				return fmt.Errorf("profile requires --as or ORDENS_ACTOR")
			}
			req.ConsultantID = actor.UserID
			return wire.ConsultantAdapter().UpdateProfile(NewContext(), req)
		},
	}

	cmd.Flags().StringVar(&req.Name, "name", "", "New name")
	cmd.Flags().StringVar(&req.Email, "email", "", "New email")
	cmd.Flags().StringVar(&req.NewPassword, "password", "", "New password")
	cmd.Flags().StringVar(&req.ConfirmPassword, "confirm", "", "New password again")

	return cmd
}

func consultantDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete [consultant-id]",
		Short: "Delete a consultant (supervisor)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("consultant", args[0])
			if err != nil {
				return err
			}
			return wire.ConsultantAdapter().Delete(NewContext(), id)
		},
	}
}

// LoginCmd returns the login command
func LoginCmd() *cobra.Command {
	var password string

	cmd := &cobra.Command{
		Use:   "login [email]",
		Short: "Check a consultant's credentials",
		Long: `Check an email and password against the stored hash and print who they
belong to. Nothing is saved: later commands still take the acting
consultant from --as or ORDENS_ACTOR.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return wire.ConsultantAdapter().Login(NewContext(), args[0], password)
		},
	}

	cmd.Flags().StringVarP(&password, "password", "p", "", "Password")
	cmd.MarkFlagRequired("password")

	return cmd
}
