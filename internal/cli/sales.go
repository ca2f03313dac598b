package cli

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/martijn/stockpoint/internal/api/handler"
	"github.com/martijn/stockpoint/internal/core/domain"
	"github.com/martijn/stockpoint/internal/core/repository"
	"github.com/martijn/stockpoint/internal/core/service"
	"github.com/spf13/cobra"
)

var salesCmd = &cobra.Command{
	Use:   "sales",
	Short: "Register and inspect sales",
}

var saleFlags struct {
	client   string
	items    []string
	discount string
	courier  string
	saleType string
}

// parseSaleItem reads "<product-id>:<quantity>"; the quantity defaults to 1.
func parseSaleItem(s string) (service.SaleOrderItem, error) {
	idPart, qtyPart, hasQty := strings.Cut(s, ":")
	id, err := strconv.ParseInt(idPart, 10, 64)
	if err != nil || id <= 0 {
		return service.SaleOrderItem{}, fmt.Errorf("invalid product id in %q", s)
	}
	qty := 1
	if hasQty {
		qty, err = strconv.Atoi(qtyPart)
		if err != nil || qty < 1 {
			return service.SaleOrderItem{}, fmt.Errorf("invalid quantity in %q", s)
		}
	}
	return service.SaleOrderItem{ProductID: id, Quantity: qty}, nil
}

var salesAddCmd = &cobra.Command{
	Use:     "add",
	Short:   "Register a sale",
	Example: `  stockpoint sales add --client 12345678 --item 3:2 --item 7 --discount 1,50`,
	RunE: func(cmd *cobra.Command, args []string) error {
		order := service.SaleOrder{
			Courier:  saleFlags.courier,
			SaleType: saleFlags.saleType,
		}
		for _, raw := range saleFlags.items {
			item, err := parseSaleItem(raw)
			if err != nil {
				return err
			}
			order.Items = append(order.Items, item)
		}
		if saleFlags.discount != "" {
			discount, err := domain.ParseCents(saleFlags.discount)
			if err != nil {
				return fmt.Errorf("invalid discount: %w", err)
			}
			order.Discount = discount
		}

		services, err := initServices(cmd.Context())
		if err != nil {
			return err
		}
		defer services.Close()

		if saleFlags.client != "" {
			client, err := services.ClientService.FindByNationalID(cmd.Context(), saleFlags.client)
			if err != nil {
				return err
			}
			order.ClientID = client.ID
		}

		cart, err := services.SaleService.BuildCart(cmd.Context(), order)
		if err != nil {
			return err
		}
		sale, err := services.SaleService.Register(cmd.Context(), cart)
		if err != nil {
			return fmt.Errorf("failed to register sale: %w", err)
		}

		fmt.Printf("Sale %s registered: %d items, total %s\n", sale.ID, cart.ItemCount(), sale.Total)
		return nil
	},
}

var salesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List sales",
	RunE: func(cmd *cobra.Command, args []string) error {
		lf, err := buildListFilter(handler.SaleFields)
		if err != nil {
			return err
		}

		services, err := initServices(cmd.Context())
		if err != nil {
			return err
		}
		defer services.Close()

		filter := repository.SaleFilter{ListFilter: lf}
		sales, err := services.SaleService.ListSales(cmd.Context(), filter)
		if err != nil {
			return fmt.Errorf("failed to list sales: %w", err)
		}
		total, err := services.SaleService.CountSales(cmd.Context(), filter)
		if err != nil {
			return fmt.Errorf("failed to count sales: %w", err)
		}

		if len(sales) == 0 {
			fmt.Println("No sales found")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tCLIENT\tTOTAL\tCREATED AT")
		for _, s := range sales {
			fmt.Fprintf(w, "%s\t%d\t%s\t%s\n", s.ID, s.ClientID, s.Total, s.CreatedAt.Format(timeLayout))
		}
		w.Flush()
		fmt.Printf("\nPage %d of %d (%d sales)\n", lf.Page, lf.TotalPages(total), total)
		return nil
	},
}

var salesShowCmd = &cobra.Command{
	Use:   "show <sale-id>",
	Short: "Show a sale with its items",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		services, err := initServices(cmd.Context())
		if err != nil {
			return err
		}
		defer services.Close()

		sale, err := services.SaleService.GetSale(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		fmt.Printf("Sale %s\n", sale.ID)
		fmt.Printf("Client:   %d\n", sale.ClientID)
		fmt.Printf("Date:     %s\n", sale.CreatedAt.Format(timeLayout))
		if sale.Courier != "" {
			fmt.Printf("Courier:  %s\n", sale.Courier)
		}
		if sale.SaleType != "" {
			fmt.Printf("Type:     %s\n", sale.SaleType)
		}
		fmt.Println()

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "PRODUCT\tQTY\tUNIT\tAMOUNT")
		for _, item := range sale.Items {
			fmt.Fprintf(w, "%d\t%d\t%s\t%s\n", item.ProductID, item.Quantity, item.UnitPrice, item.UnitPrice*domain.Cents(item.Quantity))
		}
		w.Flush()

		fmt.Printf("\nSubtotal: %s\nDiscount: %s\nTotal:    %s\n", sale.Subtotal, sale.Discount, sale.Total)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(salesCmd)
	salesCmd.AddCommand(salesAddCmd)
	salesCmd.AddCommand(salesListCmd)
	salesCmd.AddCommand(salesShowCmd)

	addListFlags(salesListCmd)

	f := salesAddCmd.Flags()
	f.StringVar(&saleFlags.client, "client", "", "national ID of the client")
	f.StringArrayVar(&saleFlags.items, "item", nil, "product to sell as <product-id>[:<quantity>], repeatable")
	f.StringVar(&saleFlags.discount, "discount", "", "discount amount")
	f.StringVar(&saleFlags.courier, "courier", "", "courier")
	f.StringVar(&saleFlags.saleType, "type", "", "sale type")
}
