package cli

import (
	"context"
	"fmt"

	"github.com/martijn/stockpoint/internal/api/handler"
	"github.com/martijn/stockpoint/internal/core/service"
	"github.com/martijn/stockpoint/internal/infrastructure/sqlite"
	"github.com/martijn/stockpoint/pkg/config"
	"github.com/martijn/stockpoint/pkg/logger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	cfgFile string
	cfg     *config.Config
	log     = zap.NewNop()
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "stockpoint",
	Short: "Stockpoint - point of sale back office",
	Long: `Stockpoint keeps the clients, products and sales of a small shop.

It provides:
- Client lookup by partial national ID with inline registration
- Product registration with a persisted draft form
- Sales with stock bookkeeping
- REST API for terminals, with token authentication`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip config loading for commands that don't need it
		if cmd.Name() == "version" || cmd.Name() == "help" {
			return nil
		}

		var err error
		cfg, err = config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		log, err = logger.New(logger.Options{
			Level:  cfg.LogLevel,
			Format: cfg.LogFormat,
			Output: cfg.LogOutput,
		})
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = log.Sync()
	},
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is "+config.DefaultConfigPath+")")
}

// Services holds all initialized services
type Services struct {
	DB              *sqlite.DB
	AuthService     *service.AuthService
	ClientService   *service.ClientService
	ProductService  *service.ProductService
	SaleService     *service.SaleService
	ResolverSession *handler.ResolverSessions
}

// initServices opens the database and wires every service on top of it
func initServices(ctx context.Context) (*Services, error) {
	db, err := sqlite.New(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	clientRepo := sqlite.NewClientRepository(db)
	productRepo := sqlite.NewProductRepository(db)

	authService := service.NewAuthService(
		sqlite.NewOperatorRepository(db),
		sqlite.NewTerminalRepository(db),
		sqlite.NewAuthCodeRepository(db),
		cfg.JWTSecretKey,
		cfg.JWTAlgorithm,
		log.Named("auth"),
	)
	clientService := service.NewClientService(clientRepo, log.Named("clients"))
	productService := service.NewProductService(
		productRepo,
		sqlite.NewCategoryRepository(db),
		sqlite.NewDraftRepository(db),
		log.Named("products"),
	)
	saleService := service.NewSaleService(sqlite.NewSaleRepository(db), productRepo, clientRepo, log.Named("sales"))

	return &Services{
		DB:              db,
		AuthService:     authService,
		ClientService:   clientService,
		ProductService:  productService,
		SaleService:     saleService,
		ResolverSession: handler.NewResolverSessions(clientService, cfg.ResolverSessionTTL, log.Named("resolver")),
	}, nil
}

// Close closes all resources
func (s *Services) Close() {
	if s.DB != nil {
		s.DB.Close()
	}
}
