package cli

import (
	"github.com/spf13/cobra"

	"github.com/example/ordens/internal/ports/primary"
	"github.com/example/ordens/internal/wire"
)

// ClientCmd returns the client command
func ClientCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "client",
		Short: "Manage clients",
	}

	cmd.AddCommand(clientAddCmd())
	cmd.AddCommand(clientListCmd())
	cmd.AddCommand(clientUpdateCmd())
	cmd.AddCommand(clientDeleteCmd())

	return cmd
}

func clientAddCmd() *cobra.Command {
	var req primary.RegisterClientRequest

	cmd := &cobra.Command{
		Use:   "add [name]",
		Short: "Register a client",
		Long: `Register a client. Without --tax-id a placeholder is stored; a second
client with the same name and no tax id is refused.

Examples:
  ordens client add "Fazenda Boa Vista" --tax-id 12.345.678/0001-90 --phone "(34) 3333-1000"
  ordens client add "Sítio Santa Luzia"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req.Name = args[0]
			return wire.ClientAdapter().Add(NewContext(), req)
		},
	}

	cmd.Flags().StringVar(&req.TaxID, "tax-id", "", "CPF or CNPJ")
	cmd.Flags().StringVar(&req.Phone, "phone", "", "Phone number")

	return cmd
}

func clientListCmd() *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List clients",
		RunE: func(cmd *cobra.Command, args []string) error {
			return wire.ClientAdapter().List(NewContext(), name)
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Only clients whose name contains this text")

	return cmd
}

func clientUpdateCmd() *cobra.Command {
	var req primary.UpdateClientRequest

	cmd := &cobra.Command{
		Use:   "update [client-id]",
		Short: "Update a client",
		Long: `Update a client's name, tax id and phone. A blank --tax-id keeps an
existing tax id.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("client", args[0])
			if err != nil {
				return err
			}
			req.ClientID = id
			return wire.ClientAdapter().Update(NewContext(), req)
		},
	}

	cmd.Flags().StringVar(&req.Name, "name", "", "Client name")
	cmd.Flags().StringVar(&req.TaxID, "tax-id", "", "CPF or CNPJ")
	cmd.Flags().StringVar(&req.Phone, "phone", "", "Phone number")
	cmd.MarkFlagRequired("name")

	return cmd
}

func clientDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete [client-id]",
		Short: "Delete a client no order references (supervisor)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("client", args[0])
			if err != nil {
				return err
			}
			return wire.ClientAdapter().Delete(NewContext(), id)
		},
	}
}
