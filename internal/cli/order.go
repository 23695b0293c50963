package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/example/ordens/internal/ports/primary"
	"github.com/example/ordens/internal/wire"
)

// OrderCmd returns the order command
func OrderCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "order",
		Short: "Manage service orders",
		Long:  `Open, edit, bill and delete warranty service orders.`,
	}

	cmd.AddCommand(orderOpenCmd())
	cmd.AddCommand(orderEditCmd())
	cmd.AddCommand(orderDeleteCmd())
	cmd.AddCommand(orderShowCmd())
	cmd.AddCommand(orderHistoryCmd())

	return cmd
}

func orderOpenCmd() *cobra.Command {
	var req primary.OpenOrderRequest

	cmd := &cobra.Command{
		Use:   "open [order-number]",
		Short: "Open a new service order",
		Long: `Open a new warranty service order. Client, model, machine type and
status are created on first use; the consultant must already exist.

Examples:
  ordens order open OS-2000 --client "Fazenda Boa Vista" --consultant "Carlos Souza" \
    --model "Magnum 340" --chassis CH-340-001 --status Aberto
  ordens order open OS-2001 --client "Sítio Santa Luzia" --consultant "Paula Lima" \
    --model T7.245 --chassis CH-245-002 --status Aberto --opened 01/03/2024 --amount "2.500,00"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req.OrderNumber = args[0]
			return wire.OrderAdapter().Open(NewContext(), req)
		},
	}

	cmd.Flags().StringVar(&req.ClientName, "client", "", "Client name")
	cmd.Flags().StringVar(&req.ConsultantName, "consultant", "", "Responsible consultant name")
	cmd.Flags().StringVar(&req.ModelName, "model", "", "Machine model")
	cmd.Flags().StringVar(&req.ChassisID, "chassis", "", "Chassis number")
	cmd.Flags().StringVar(&req.StatusText, "status", "", "Initial status")
	cmd.Flags().StringVar(&req.ServiceDescription, "description", "", "Service description")
	cmd.Flags().StringVar(&req.OpenedDate, "opened", "", "Opened date DD/MM/YYYY (default today)")
	cmd.Flags().StringVar(&req.NetAmount, "amount", "", "Net amount, e.g. 1.234,56")

	return cmd
}

// editFlags maps order edit flags to request fields.
var editFlags = []struct {
	name, usage string
	field       func(*primary.EditOrderRequest) **string
}{
	{"status", "New status", func(r *primary.EditOrderRequest) **string { return &r.StatusText }},
	{"billed", "Billed date DD/MM/YYYY", func(r *primary.EditOrderRequest) **string { return &r.BilledDate }},
	{"factory-paid", "Factory payment date DD/MM/YYYY", func(r *primary.EditOrderRequest) **string { return &r.FactoryPaymentDate }},
	{"description", "Service description", func(r *primary.EditOrderRequest) **string { return &r.ServiceDescription }},
	{"type", "Order type: Garantia or Cliente (supervisor)", func(r *primary.EditOrderRequest) **string { return &r.OrderType }},
	{"amount", "Net amount (supervisor)", func(r *primary.EditOrderRequest) **string { return &r.NetAmount }},
}

func orderEditCmd() *cobra.Command {
	var batchFile string

	cmd := &cobra.Command{
		Use:   "edit [order-number]",
		Short: "Edit an open service order",
		Long: `Edit an open service order. Only the flags given are changed; pass an
empty value (--billed "") to clear a field. Setting the status to Faturada
together with a billed date files the order as billed; a billed date alone
does so when the stored status is already Faturada. A billed date with any
other status still takes the order out of the open list.
--type and --amount are supervisor-only.

With --file, a YAML list of edits is applied in one transaction. Keys left
out of an entry are not changed:

  - order: OS-1001
    status: Faturada
    billed: 18/03/2024
  - order: OS-1002
    status: Em Execução

Examples:
  ordens order edit OS-1001 --status Faturada --billed 18/03/2024
  ordens order edit OS-1002 --factory-paid 20/03/2024
  ordens order edit --file edits.yaml`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if batchFile != "" {
				reqs, err := loadEdits(batchFile)
				if err != nil {
					return err
				}
				return wire.OrderAdapter().Edit(NewContext(), reqs)
			}

			if len(args) == 0 {
				return fmt.Errorf("order number or --file is required")
			}
			req, err := editFromFlags(cmd, args[0])
			if err != nil {
				return err
			}
			return wire.OrderAdapter().Edit(NewContext(), []primary.EditOrderRequest{req})
		},
	}

	for _, f := range editFlags {
		cmd.Flags().String(f.name, "", f.usage)
	}
	cmd.Flags().StringVarP(&batchFile, "file", "f", "", "YAML file with a list of edits")

	return cmd
}

// editFromFlags builds an edit carrying only the flags set on cmd.
func editFromFlags(cmd *cobra.Command, number string) (primary.EditOrderRequest, error) {
	req := primary.EditOrderRequest{OrderNumber: number}
	for _, f := range editFlags {
		if !cmd.Flags().Changed(f.name) {
			continue
		}
		value, err := cmd.Flags().GetString(f.name)
		if err != nil {
			return req, err
		}
		*f.field(&req) = &value
	}
	return req, nil
}

// editEntry is one edit in a --file batch. Absent keys stay nil.
type editEntry struct {
	Order       string  `yaml:"order"`
	Status      *string `yaml:"status"`
	Billed      *string `yaml:"billed"`
	FactoryPaid *string `yaml:"factory_paid"`
	Description *string `yaml:"description"`
	Type        *string `yaml:"type"`
	Amount      *string `yaml:"amount"`
}

func loadEdits(path string) ([]primary.EditOrderRequest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read edits: %w", err)
	}

	var entries []editEntry
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to parse edits: %w", err)
	}

	reqs := make([]primary.EditOrderRequest, 0, len(entries))
	for _, e := range entries {
		reqs = append(reqs, primary.EditOrderRequest{
			OrderNumber:        e.Order,
			StatusText:         e.Status,
			BilledDate:         e.Billed,
			FactoryPaymentDate: e.FactoryPaid,
			ServiceDescription: e.Description,
			OrderType:          e.Type,
			NetAmount:          e.Amount,
		})
	}
	return reqs, nil
}

func orderDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete [order-number]",
		Short: "Delete an open service order (supervisor)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return wire.OrderAdapter().Delete(NewContext(), args[0])
		},
	}
}

func orderShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show [order-number]",
		Short: "Show service order details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := wire.OrderAdapter().Show(NewContext(), args[0])
			return err
		},
	}
}

func orderHistoryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "history [order-number]",
		Short: "Show the change history of a service order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return wire.OrderAdapter().History(NewContext(), args[0])
		},
	}
}
