package cli

import (
	"github.com/spf13/cobra"

	"github.com/example/ordens/internal/ports/primary"
	"github.com/example/ordens/internal/wire"
)

// MachineTypeCmd returns the machine-type command
func MachineTypeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "machine-type",
		Short: "Manage machine types",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "add [description]",
		Short: "Register a machine type",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return wire.ReferenceAdapter().AddMachineType(NewContext(), args[0])
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List machine types",
		RunE: func(cmd *cobra.Command, args []string) error {
			return wire.ReferenceAdapter().ListMachineTypes(NewContext())
		},
	})

	return cmd
}

// ModelCmd returns the model command
func ModelCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "model",
		Short: "Manage machine models",
	}

	cmd.AddCommand(modelAddCmd())
	cmd.AddCommand(modelListCmd())

	return cmd
}

func modelAddCmd() *cobra.Command {
	var req primary.RegisterModelRequest

	cmd := &cobra.Command{
		Use:   "add [name]",
		Short: "Register a model under an existing machine type",
		Long: `Register a model.

Examples:
  ordens model add T7.245 --chassis CH-245-002 --type Trator`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req.Name = args[0]
			return wire.ReferenceAdapter().AddModel(NewContext(), req)
		},
	}

	cmd.Flags().StringVar(&req.ChassisID, "chassis", "", "Chassis number")
	cmd.Flags().StringVar(&req.MachineType, "type", "", "Machine type description")
	cmd.MarkFlagRequired("type")

	return cmd
}

func modelListCmd() *cobra.Command {
	var machineType string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List models",
		RunE: func(cmd *cobra.Command, args []string) error {
			return wire.ReferenceAdapter().ListModels(NewContext(), machineType)
		},
	}

	cmd.Flags().StringVar(&machineType, "type", "", "Only models of this machine type")

	return cmd
}

// StatusCmd returns the status command
func StatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Manage order statuses",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "add [description]",
		Short: "Register a status",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return wire.ReferenceAdapter().AddStatus(NewContext(), args[0])
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List statuses",
		RunE: func(cmd *cobra.Command, args []string) error {
			return wire.ReferenceAdapter().ListStatuses(NewContext())
		},
	})

	return cmd
}
