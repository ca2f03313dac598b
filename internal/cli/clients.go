package cli

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/martijn/stockpoint/internal/adapter/notify"
	"github.com/martijn/stockpoint/internal/api/handler"
	"github.com/martijn/stockpoint/internal/api/util"
	"github.com/martijn/stockpoint/internal/core/domain"
	"github.com/martijn/stockpoint/internal/core/repository"
	"github.com/martijn/stockpoint/internal/core/resolver"
	"github.com/spf13/cobra"
)

const timeLayout = "2006-01-02 15:04:05"

var listFlags struct {
	query   string
	order   string
	page    int
	perPage int
}

func addListFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&listFlags.query, "query", "", "filter, e.g. national_id|like|123")
	cmd.Flags().StringVar(&listFlags.order, "order", "", "ordering, e.g. full_name|asc")
	cmd.Flags().IntVar(&listFlags.page, "page", 1, "page number")
	cmd.Flags().IntVar(&listFlags.perPage, "per-page", util.DefaultPerPage, "items per page")
}

func buildListFilter(fields util.FieldSet) (util.ListFilter, error) {
	return util.BuildListFilter(listFlags.query, listFlags.order, listFlags.page, listFlags.perPage, fields)
}

var clientsCmd = &cobra.Command{
	Use:   "clients",
	Short: "Manage clients",
	Long:  "Look up, register and list the shop's clients",
}

var clientsAddCmd = &cobra.Command{
	Use:   "add <national-id> <full name>",
	Short: "Register a client",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		services, err := initServices(cmd.Context())
		if err != nil {
			return err
		}
		defer services.Close()

		client, err := services.ClientService.CreateClient(cmd.Context(), strings.Join(args[1:], " "), args[0])
		if err != nil {
			return fmt.Errorf("failed to create client: %w", err)
		}

		fmt.Printf("Client created successfully (ID %d)\n", client.ID)
		return nil
	},
}

var clientsSearchCmd = &cobra.Command{
	Use:   "search <partial-national-id>",
	Short: "Find clients whose national ID contains the given digits",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		services, err := initServices(cmd.Context())
		if err != nil {
			return err
		}
		defer services.Close()

		clients, err := services.ClientService.SearchClients(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("failed to search clients: %w", err)
		}

		if len(clients) == 0 {
			fmt.Println("No clients found")
			return nil
		}
		printClients(clients)
		return nil
	},
}

var clientsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List clients",
	RunE: func(cmd *cobra.Command, args []string) error {
		lf, err := buildListFilter(handler.ClientFields)
		if err != nil {
			return err
		}

		services, err := initServices(cmd.Context())
		if err != nil {
			return err
		}
		defer services.Close()

		filter := repository.ClientFilter{ListFilter: lf}
		clients, err := services.ClientService.ListClients(cmd.Context(), filter)
		if err != nil {
			return fmt.Errorf("failed to list clients: %w", err)
		}
		total, err := services.ClientService.CountClients(cmd.Context(), filter)
		if err != nil {
			return fmt.Errorf("failed to count clients: %w", err)
		}

		if len(clients) == 0 {
			fmt.Println("No clients found")
			return nil
		}
		printClients(clients)
		fmt.Printf("\nPage %d of %d (%d clients)\n", lf.Page, lf.TotalPages(total), total)
		return nil
	},
}

var clientsResolveCmd = &cobra.Command{
	Use:   "resolve",
	Short: "Find or register a client interactively",
	Long: `Type digits of a national ID to see matching clients, then pick one.
When nothing matches the client can be registered on the spot.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		services, err := initServices(cmd.Context())
		if err != nil {
			return err
		}
		defer services.Close()

		r := resolver.New(
			services.ClientService,
			notify.Fanout{notify.NewWriter(os.Stdout), notify.NewLog(log)},
			nil,
			log.Named("resolver"),
		)

		client, err := runResolve(cmd.Context(), r, os.Stdin, os.Stdout)
		if err != nil {
			return err
		}
		if client == nil {
			fmt.Println("No client selected")
			return nil
		}

		fmt.Printf("Selected client %d: %s (%s)\n", client.ID, client.FullName, client.NationalID)
		return nil
	},
}

func printClients(clients []*domain.Client) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNATIONAL ID\tFULL NAME\tCREATED AT")
	for _, c := range clients {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", c.ID, c.NationalID, c.FullName, c.CreatedAt.Format(timeLayout))
	}
	w.Flush()
}

func init() {
	rootCmd.AddCommand(clientsCmd)
	clientsCmd.AddCommand(clientsAddCmd)
	clientsCmd.AddCommand(clientsSearchCmd)
	clientsCmd.AddCommand(clientsListCmd)
	clientsCmd.AddCommand(clientsResolveCmd)

	addListFlags(clientsListCmd)
}
