package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"cartify/internal/catalog"
	"cartify/internal/config"
	"cartify/internal/db"
	"cartify/internal/logging"
	"cartify/internal/model"
	"cartify/internal/repository"
	"cartify/internal/service"
)

const defaultCatalog = "data/products.json"

func main() {
	source := flag.String("catalog", envOr("SEED_CATALOG", defaultCatalog), "product catalog JSON file path or http(s) URL")
	flag.Parse()

	cfg := config.Load()
	logger := logging.New(cfg.LogLevel)
	logger.Info("starting seed script")

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	if err := db.Migrate(gormDB, false); err != nil {
		logger.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}
	logger.Info("database migrations completed")

	ctx := context.Background()

	entries, err := catalog.Load(ctx, *source)
	if err != nil {
		logger.Error("failed to load catalog", "source", *source, "error", err)
		os.Exit(1)
	}
	logger.Info("catalog loaded", "source", *source, "products", len(entries))

	// Seeding writes straight to the database, so no cache is involved.
	products := service.NewProductService(repository.NewProductRepository(gormDB), nil, 0)
	result, err := products.Import(ctx, catalog.Inputs(entries))
	if err != nil {
		logger.Error("failed to seed products", "error", err)
		os.Exit(1)
	}
	logger.Info("products seeded", "created", result.Created, "updated", result.Updated)

	if _, err := seedAdmin(ctx, repository.NewUserRepository(gormDB), adminSeedFromEnv(), cfg.BcryptCost, logger); err != nil {
		logger.Error("failed to seed admin", "error", err)
		os.Exit(1)
	}
	logger.Info("seed completed")
}

type adminOutcome int

const (
	adminSkipped adminOutcome = iota
	adminCreated
	adminPresent
	// adminBlocked means the email or username belongs to a regular user.
	adminBlocked
)

// adminSeed is read from SEED_ADMIN_EMAIL, SEED_ADMIN_USERNAME and
// SEED_ADMIN_PASSWORD.
type adminSeed struct {
	Email    string
	Username string
	Password string
}

func adminSeedFromEnv() adminSeed {
	return adminSeed{
		Email:    strings.ToLower(strings.TrimSpace(os.Getenv("SEED_ADMIN_EMAIL"))),
		Username: strings.TrimSpace(os.Getenv("SEED_ADMIN_USERNAME")),
		Password: os.Getenv("SEED_ADMIN_PASSWORD"),
	}
}

// seedAdmin creates the admin account unless it is unset or already there.
// An existing non-admin account with the same email is left alone and
// reported, since promoting it silently would hand out catalog rights.
func seedAdmin(ctx context.Context, users repository.UserRepository, seed adminSeed, cost int, logger *slog.Logger) (adminOutcome, error) {
	if seed.Email == "" || seed.Password == "" {
		return adminSkipped, nil
	}
	if seed.Username == "" {
		seed.Username = strings.SplitN(seed.Email, "@", 2)[0]
	}

	existing, err := users.FindByEmail(ctx, seed.Email)
	switch {
	case err == nil && existing.IsAdmin():
		logger.Info("admin already present, skipping", "email", seed.Email)
		return adminPresent, nil
	case err == nil:
		logger.Warn("seed admin email belongs to a regular user, no admin was created",
			"email", seed.Email, "role", existing.Role)
		return adminBlocked, nil
	case !repository.IsNotFound(err):
		return adminSkipped, err
	}

	taken, err := users.ExistsByUsernameOrEmail(ctx, seed.Username, seed.Email)
	if err != nil {
		return adminSkipped, err
	}
	if taken {
		logger.Warn("seed admin username is taken, no admin was created", "username", seed.Username)
		return adminBlocked, nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(seed.Password), cost)
	if err != nil {
		return adminSkipped, err
	}
	if err := users.Create(ctx, &model.User{
		Username:     seed.Username,
		Email:        seed.Email,
		PasswordHash: string(hash),
		Role:         model.RoleAdmin,
	}); err != nil {
		return adminSkipped, err
	}
	logger.Info("admin created", "email", seed.Email)
	return adminCreated, nil
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
