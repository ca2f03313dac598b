package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/martijn/stockpoint/internal/api/handler"
	"github.com/martijn/stockpoint/internal/core/domain"
	"github.com/martijn/stockpoint/internal/core/repository"
	"github.com/martijn/stockpoint/internal/core/service"
	"github.com/spf13/cobra"
)

var productsCmd = &cobra.Command{
	Use:   "products",
	Short: "Manage products",
}

var productsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List products",
	RunE: func(cmd *cobra.Command, args []string) error {
		lf, err := buildListFilter(handler.ProductFields)
		if err != nil {
			return err
		}

		services, err := initServices(cmd.Context())
		if err != nil {
			return err
		}
		defer services.Close()

		filter := repository.ProductFilter{ListFilter: lf}
		products, err := services.ProductService.ListProducts(cmd.Context(), filter)
		if err != nil {
			return fmt.Errorf("failed to list products: %w", err)
		}
		total, err := services.ProductService.CountProducts(cmd.Context(), filter)
		if err != nil {
			return fmt.Errorf("failed to count products: %w", err)
		}

		if len(products) == 0 {
			fmt.Println("No products found")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tPRICE\tSTOCK\tEXPIRES\tCATEGORY")
		for _, p := range products {
			fmt.Fprintf(w, "%d\t%s\t%s\t%d\t%s\t%d\n", p.ID, p.Name, p.SalePrice, p.Quantity, p.ExpiryDate, p.CategoryID)
		}
		w.Flush()
		fmt.Printf("\nPage %d of %d (%d products)\n", lf.Page, lf.TotalPages(total), total)
		return nil
	},
}

// productFlags are overlaid on the stored draft, so a form can be filled in
// over several invocations.
var productFlags struct {
	name, description     string
	purchasePrice, price  string
	quantity              string
	entryDate, expiryDate string
	categoryID            int64
	image                 string
}

func applyProductFlags(cmd *cobra.Command, form *domain.ProductForm) {
	set := func(flag string, dst *string, value string) {
		if cmd.Flags().Changed(flag) {
			*dst = value
		}
	}
	set("name", &form.Name, productFlags.name)
	set("description", &form.Description, productFlags.description)
	set("purchase-price", &form.PurchasePrice, productFlags.purchasePrice)
	set("price", &form.SalePrice, productFlags.price)
	set("quantity", &form.Quantity, productFlags.quantity)
	set("entry-date", &form.EntryDate, productFlags.entryDate)
	set("expiry-date", &form.ExpiryDate, productFlags.expiryDate)
	if cmd.Flags().Changed("category") {
		id := productFlags.categoryID
		form.CategoryID = &id
	}
	if cmd.Flags().Changed("image") {
		image := productFlags.image
		form.Image = &image
	}
}

var productsRegisterCmd = &cobra.Command{
	Use:   "register",
	Short: "Register a product",
	Long: `Register a product from the saved registration form plus the given flags.
If the form is incomplete it is kept, and the missing fields are listed.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		services, err := initServices(cmd.Context())
		if err != nil {
			return err
		}
		defer services.Close()

		form, err := services.ProductService.LoadDraft(cmd.Context(), cfg.ProductDraftKey)
		if err != nil {
			return err
		}
		applyProductFlags(cmd, &form)

		if err := services.ProductService.SaveDraft(cmd.Context(), cfg.ProductDraftKey, form); err != nil {
			return fmt.Errorf("failed to save draft: %w", err)
		}

		product, err := services.ProductService.RegisterProduct(cmd.Context(), form, cfg.ProductDraftKey)
		if err != nil {
			var validationErr *service.ValidationError
			if errors.As(err, &validationErr) {
				return fmt.Errorf("%s: %s (draft kept)", validationErr.Message, strings.Join(validationErr.Fields, ", "))
			}
			return fmt.Errorf("failed to register product: %w", err)
		}

		fmt.Printf("Product '%s' registered (ID %d, %d in stock)\n", product.Name, product.ID, product.Quantity)
		return nil
	},
}

var productsDraftCmd = &cobra.Command{
	Use:   "draft",
	Short: "Show the saved registration form",
	RunE: func(cmd *cobra.Command, args []string) error {
		services, err := initServices(cmd.Context())
		if err != nil {
			return err
		}
		defer services.Close()

		form, err := services.ProductService.LoadDraft(cmd.Context(), cfg.ProductDraftKey)
		if err != nil {
			return err
		}
		if form.IsEmpty() {
			fmt.Println("No draft saved")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintf(w, "name\t%s\n", form.Name)
		fmt.Fprintf(w, "description\t%s\n", form.Description)
		fmt.Fprintf(w, "purchase price\t%s\n", form.PurchasePrice)
		fmt.Fprintf(w, "price\t%s\n", form.SalePrice)
		fmt.Fprintf(w, "quantity\t%s\n", form.Quantity)
		fmt.Fprintf(w, "entry date\t%s\n", form.EntryDate)
		fmt.Fprintf(w, "expiry date\t%s\n", form.ExpiryDate)
		if form.CategoryID != nil {
			fmt.Fprintf(w, "category\t%d\n", *form.CategoryID)
		}
		if form.Image != nil {
			fmt.Fprintf(w, "image\t%s\n", *form.Image)
		}
		w.Flush()
		return nil
	},
}

var productsDraftDiscardCmd = &cobra.Command{
	Use:   "discard",
	Short: "Discard the saved registration form",
	RunE: func(cmd *cobra.Command, args []string) error {
		services, err := initServices(cmd.Context())
		if err != nil {
			return err
		}
		defer services.Close()

		if err := services.ProductService.DiscardDraft(cmd.Context(), cfg.ProductDraftKey); err != nil {
			return fmt.Errorf("failed to discard draft: %w", err)
		}
		fmt.Println("Draft discarded")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(productsCmd)
	productsCmd.AddCommand(productsListCmd)
	productsCmd.AddCommand(productsRegisterCmd)
	productsCmd.AddCommand(productsDraftCmd)
	productsDraftCmd.AddCommand(productsDraftDiscardCmd)

	addListFlags(productsListCmd)

	f := productsRegisterCmd.Flags()
	f.StringVar(&productFlags.name, "name", "", "product name")
	f.StringVar(&productFlags.description, "description", "", "description")
	f.StringVar(&productFlags.purchasePrice, "purchase-price", "", "purchase price, e.g. 12.50")
	f.StringVar(&productFlags.price, "price", "", "sale price, e.g. 15,90")
	f.StringVar(&productFlags.quantity, "quantity", "", "units in stock")
	f.StringVar(&productFlags.entryDate, "entry-date", "", "entry date (YYYY-MM-DD)")
	f.StringVar(&productFlags.expiryDate, "expiry-date", "", "expiry date (YYYY-MM-DD)")
	f.Int64Var(&productFlags.categoryID, "category", 0, "category id")
	f.StringVar(&productFlags.image, "image", "", "image URI")
}
