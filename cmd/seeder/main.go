// Command seeder loads the planet catalog into the ledger and creates
// operator accounts.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	driver "go.mongodb.org/mongo-driver/mongo"

	"github.com/orbital-exchange/trading-api/internal/core/domain"
	"github.com/orbital-exchange/trading-api/internal/core/ports"
	"github.com/orbital-exchange/trading-api/internal/core/service"
	"github.com/orbital-exchange/trading-api/internal/infrastructure/catalog"
	"github.com/orbital-exchange/trading-api/internal/infrastructure/config"
	"github.com/orbital-exchange/trading-api/internal/infrastructure/db/mongo"
	"github.com/orbital-exchange/trading-api/pkg/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var catalogPath string

	root := &cobra.Command{
		Use:          "seeder",
		Short:        "Seed the trading ledger",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&catalogPath, "catalog", "", "catalog YAML file (defaults to CATALOG_PATH, then the embedded catalog)")

	root.AddCommand(newSeedCmd(&catalogPath), newAdminCmd())
	return root
}

func newSeedCmd(catalogPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Insert missing planets and refresh reference data of existing ones",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			cfg, err := loadConfig(ctx)
			if err != nil {
				return err
			}

			path := *catalogPath
			if path == "" {
				path = cfg.CatalogPath
			}
			cat, err := catalog.Load(path)
			if err != nil {
				return err
			}

			return withLedger(ctx, cfg, func(db *driver.Database) error {
				ledger := mongo.NewLedgerRepository(db)
				if err := ledger.EnsureIndexes(ctx); err != nil {
					return err
				}
				res, err := service.NewCatalogService(ledger, cat, logger.Component("catalog")).Seed(ctx)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "planets added: %d, updated: %d\n", res.Added, res.Updated)
				return nil
			})
		},
	}
}

func newAdminCmd() *cobra.Command {
	var username, email, password string

	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Create an operator with the admin role",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			cfg, err := loadConfig(ctx)
			if err != nil {
				return err
			}

			return withLedger(ctx, cfg, func(db *driver.Database) error {
				ledger := mongo.NewLedgerRepository(db)
				authRepo := mongo.NewAuthRepository(db)
				if err := authRepo.EnsureIndexes(ctx); err != nil {
					return err
				}
				auth := service.NewAuthService(authRepo, ledger, nil, service.AuthConfig{
					JWTSecret:       cfg.JWTSecret,
					TokenTTL:        cfg.TokenTTL,
					StartingCredits: cfg.StartingCredits,
				}, logger.Component("auth"))

				user, err := auth.Register(ctx, ports.RegisterInput{
					Username: username,
					Email:    email,
					Password: password,
					Role:     domain.RoleAdmin,
				})
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "admin %s created with id %s\n", user.Email, user.ID)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&username, "username", "admin", "display name")
	cmd.Flags().StringVar(&email, "email", "", "login email")
	cmd.Flags().StringVar(&password, "password", "", "login password")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func loadConfig(ctx context.Context) (*config.Config, error) {
	cfg, err := config.Load(ctx)
	if err != nil {
		return nil, err
	}
	logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  true,
		Service: "seeder",
		Output:  os.Stderr,
	})
	return cfg, nil
}

func withLedger(ctx context.Context, cfg *config.Config, fn func(db *driver.Database) error) error {
	client, db, err := mongo.Connect(ctx, mongo.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		return err
	}
	defer func() { _ = client.Disconnect(context.WithoutCancel(ctx)) }()
	return fn(db)
}
