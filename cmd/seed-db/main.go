// Command seed-db prepares a database for local development: it runs the
// migrations, creates an admin account, and loads a starter catalog.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"log/slog"
	"os"
	"os/signal"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"github.com/orderdesk/api/internal/domain/actor"
	"github.com/orderdesk/api/internal/domain/category"
	"github.com/orderdesk/api/internal/domain/product"
	"github.com/orderdesk/api/internal/domain/user"
	"github.com/orderdesk/api/internal/storage/postgres"
)

type catalogJSON struct {
	Categories []struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	} `json:"categories"`
	Products []struct {
		ID          string          `json:"id"`
		Name        string          `json:"name"`
		Description string          `json:"description"`
		Price       decimal.Decimal `json:"price"`
		CategoryIDs []string        `json:"categoryIds"`
	} `json:"products"`
}

func main() {
	var (
		databaseURL   string
		catalogFile   string
		adminEmail    string
		adminPassword string
	)

	flag.StringVar(&databaseURL, "database-url", "", "PostgreSQL connection URL (or DATABASE_URL env)")
	flag.StringVar(&catalogFile, "catalog-file", "db/seed/catalog.json", "path to catalog JSON file")
	flag.StringVar(&adminEmail, "admin-email", "admin@orderdesk.local", "admin account email")
	flag.StringVar(&adminPassword, "admin-password", "", "admin account password (or ORDERS_SEED_ADMIN_PASSWORD env)")
	flag.Parse()

	if databaseURL == "" {
		databaseURL = os.Getenv("DATABASE_URL")
	}
	if databaseURL == "" {
		slog.Error("database URL is required: set --database-url or DATABASE_URL")
		os.Exit(1)
	}
	if adminPassword == "" {
		adminPassword = os.Getenv("ORDERS_SEED_ADMIN_PASSWORD")
	}
	if adminPassword == "" {
		slog.Error("admin password is required: set --admin-password or ORDERS_SEED_ADMIN_PASSWORD")
		os.Exit(1)
	}
	if err := user.ValidatePassword(adminPassword); err != nil {
		slog.Error("admin password rejected by policy", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, databaseURL, catalogFile, adminEmail, adminPassword); err != nil {
		slog.Error("seed failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("seed completed successfully")
}

func run(ctx context.Context, databaseURL, catalogFile, adminEmail, adminPassword string) error {
	slog.Info("connecting to database")

	pool, err := postgres.NewPool(ctx, databaseURL)
	if err != nil {
		return errors.Wrap(err, "connect to database")
	}
	defer pool.Close()

	slog.Info("running migrations")

	if err := postgres.RunMigrations(ctx, pool); err != nil {
		return errors.Wrap(err, "run migrations")
	}

	if err := seedAdmin(ctx, postgres.NewUserRepository(pool), adminEmail, adminPassword); err != nil {
		return errors.Wrap(err, "seed admin")
	}

	if err := seedCatalog(ctx,
		postgres.NewCategoryRepository(pool),
		postgres.NewProductRepository(pool),
		catalogFile,
	); err != nil {
		return errors.Wrap(err, "seed catalog")
	}

	return nil
}

func seedAdmin(ctx context.Context, users *postgres.UserRepository, email, password string) error {
	if existing, err := users.FindByEmail(ctx, email); err == nil {
		slog.Info("admin already present", slog.String("id", existing.ID))
		return nil
	} else if !errors.Is(err, user.ErrNotFound) {
		return errors.Wrap(err, "check admin")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return errors.Wrap(err, "hash password")
	}

	admin := &user.User{
		ID:           uuid.New().String(),
		Name:         "Administrator",
		Email:        email,
		PasswordHash: string(hash),
		Role:         actor.RoleAdmin,
	}
	if err := users.Save(ctx, admin); err != nil {
		return errors.Wrap(err, "save admin")
	}

	slog.Info("created admin", slog.String("id", admin.ID), slog.String("email", email))
	return nil
}

func seedCatalog(
	ctx context.Context,
	categories *postgres.CategoryRepository,
	products *postgres.ProductRepository,
	catalogFile string,
) error {
	slog.Info("reading catalog file", slog.String("path", catalogFile))

	data, err := os.ReadFile(catalogFile)
	if err != nil {
		return errors.Wrap(err, "read catalog file")
	}

	var catalog catalogJSON
	if err := json.Unmarshal(data, &catalog); err != nil {
		return errors.Wrap(err, "parse catalog JSON")
	}

	slog.Info("upserting categories", slog.Int("count", len(catalog.Categories)))

	for _, c := range catalog.Categories {
		if err := categories.Save(ctx, &category.Category{ID: c.ID, Name: c.Name}); err != nil {
			return errors.Wrapf(err, "upsert category %s", c.ID)
		}
	}

	slog.Info("upserting products", slog.Int("count", len(catalog.Products)))

	for _, p := range catalog.Products {
		if !p.Price.IsPositive() {
			return errors.Errorf("product %s has non-positive price %s", p.ID, p.Price)
		}
		if err := products.Save(ctx, &product.Product{
			ID:          p.ID,
			Name:        p.Name,
			Description: p.Description,
			Price:       p.Price,
		}, p.CategoryIDs); err != nil {
			return errors.Wrapf(err, "upsert product %s", p.ID)
		}

		slog.Info("upserted product", slog.String("id", p.ID), slog.String("name", p.Name))
	}

	return nil
}
