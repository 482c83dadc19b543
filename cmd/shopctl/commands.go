package main

import (
	"bytes"
	"context"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/ErlanBelekov/shop-api/config"
	"github.com/ErlanBelekov/shop-api/internal/domain"
	"github.com/ErlanBelekov/shop-api/internal/infrastructure/postgres"
	"github.com/ErlanBelekov/shop-api/internal/scheduler"
	"github.com/ErlanBelekov/shop-api/internal/security"
	"github.com/ErlanBelekov/shop-api/internal/usecase"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"
)

//go:embed sample_pricelist.yaml
var samplePriceList []byte

// env carries what every subcommand needs once the root pre-run has connected.
type env struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

func newRootCmd() *cobra.Command {
	e := &env{}

	root := &cobra.Command{
		Use:           "shopctl",
		Short:         "Operate the shop API database",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.LoadDatabase()
			if err != nil {
				return err
			}
			e.logger = slog.New(tint.NewHandler(cmd.ErrOrStderr(), &tint.Options{
				Level:      cfg.SlogLevel(),
				TimeFormat: time.Kitchen,
			}))

			pool, err := postgres.NewPool(cmd.Context(), cfg.DatabaseURL)
			if err != nil {
				return fmt.Errorf("db: %w", err)
			}
			e.pool = pool
			return nil
		},
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			if e.pool != nil {
				e.pool.Close()
			}
		},
	}

	root.AddCommand(
		newMigrateCmd(e),
		newSeedCmd(e),
		newImportCmd(e),
		newPurgeTokensCmd(e),
	)
	return root
}

func newMigrateCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending schema migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return postgres.Migrate(cmd.Context(), e.pool, e.logger)
		},
	}
}

func newSeedCmd(e *env) *cobra.Command {
	var emailAddr, password string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Create an active shop user and import the bundled sample price list",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if err := postgres.Migrate(ctx, e.pool, e.logger); err != nil {
				return err
			}

			user, err := ensureShopUser(ctx, e, emailAddr, password)
			if err != nil {
				return err
			}

			res, err := newPartner(e).ImportPriceList(ctx, user.ID, bytes.NewReader(samplePriceList))
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "Seed complete")
			fmt.Fprintf(out, "  User:       %s (id %d)\n", user.Email, user.ID)
			fmt.Fprintf(out, "  Shop ID:    %d\n", res.ShopID)
			fmt.Fprintf(out, "  Categories: %d\n", res.Categories)
			fmt.Fprintf(out, "  Products:   %d\n", res.Products)
			fmt.Fprintln(out)
			fmt.Fprintln(out, "Log in with:")
			fmt.Fprintf(out, "  curl -s -X POST http://localhost:8080/api/v1/user/login \\\n")
			fmt.Fprintf(out, "    -H 'Content-Type: application/json' \\\n")
			fmt.Fprintf(out, "    -d '{\"email\":\"%s\",\"password\":\"%s\"}'\n", user.Email, password)
			return nil
		},
	}
	cmd.Flags().StringVar(&emailAddr, "email", "shop@example.com", "shop user email")
	cmd.Flags().StringVar(&password, "password", "shop-password", "shop user password")
	return cmd
}

func newImportCmd(e *env) *cobra.Command {
	var owner string

	cmd := &cobra.Command{
		Use:   "import --owner EMAIL FILE",
		Short: "Import a YAML price list for a shop user (FILE may be - for stdin)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			user, err := postgres.NewUserRepository(e.pool).FindByEmail(ctx, usecase.NormalizeEmail(owner))
			if err != nil {
				return fmt.Errorf("owner %q: %w", owner, err)
			}

			var r io.Reader = cmd.InOrStdin()
			if args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return err
				}
				defer f.Close()
				r = f
			}

			res, err := newPartner(e).ImportPriceList(ctx, user.ID, r)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "imported %d products in %d categories into shop %d\n",
				res.Products, res.Categories, res.ShopID)
			return nil
		},
	}
	cmd.Flags().StringVar(&owner, "owner", "", "email of the shop user owning the price list")
	_ = cmd.MarkFlagRequired("owner")
	return cmd
}

func newPurgeTokensCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "purge-tokens",
		Short: "Delete expired email confirmation tokens once",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			n, err := scheduler.NewReaper(postgres.NewUserRepository(e.pool), e.logger).Reap(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "purged %d expired tokens\n", n)
			return nil
		},
	}
}

func newPartner(e *env) *usecase.PartnerUsecase {
	return usecase.NewPartnerUsecase(
		postgres.NewUserRepository(e.pool),
		postgres.NewCatalogRepository(e.pool, e.logger),
		nil, nil, e.logger,
	)
}

// ensureShopUser returns the user with emailAddr, creating an active shop
// account when none exists.
func ensureShopUser(ctx context.Context, e *env, emailAddr, password string) (*domain.User, error) {
	users := postgres.NewUserRepository(e.pool)
	emailAddr = usecase.NormalizeEmail(emailAddr)

	hash, err := security.NewPasswordHasher(security.DefaultParams).Hash(password)
	if err != nil {
		return nil, err
	}

	user, err := users.Create(ctx, &domain.User{
		FirstName:    "Demo",
		LastName:     "Shop",
		Email:        emailAddr,
		PasswordHash: hash,
		Company:      "Связной",
		Position:     "Manager",
		Type:         domain.UserTypeShop,
		IsActive:     true,
	})
	if errors.Is(err, domain.ErrEmailTaken) {
		user, err = users.FindByEmail(ctx, emailAddr)
		if err == nil && user.Type != domain.UserTypeShop {
			return nil, fmt.Errorf("%s exists but is not a shop account", emailAddr)
		}
	}
	if err != nil {
		return nil, fmt.Errorf("seed user: %w", err)
	}
	return user, nil
}
