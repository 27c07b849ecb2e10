package main

import (
	"context"
	"database/sql"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rentlens/rentlens"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

func main() {
	cfg, err := rentlens.LoadConfig()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	sqldb, err := sql.Open(sqliteshim.ShimName, cfg.DatabaseDSN)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}

	db := bun.NewDB(sqldb, sqlitedialect.New())
	defer db.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := ensureSchema(ctx, db); err != nil {
		log.Fatalf("schema: %v", err)
	}

	repos := rentlens.NewRepositoryManager(db)
	repos.MustValidate()

	verifier := rentlens.NewVerifier(repos.Users())
	registrar := rentlens.NewRegistrar(repos)
	store := rentlens.NewFileSessionStore(cfg.SessionPath)

	machine := rentlens.NewMachine(store, verifier,
		rentlens.WithRegistrar(registrar),
	)

	initCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	if err := machine.Initialize(initCtx); err != nil {
		log.Fatalf("initialize auth: %v", err)
	}
	cancel()

	buckets := rentlens.NewBucketClient(cfg.BackendURL, cfg.APIKey,
		rentlens.WithRateLimit(cfg.StorageRPS, cfg.StorageBurst),
	)

	admin := rentlens.NewAdminService(repos).WithMachine(machine)

	app := fiber.New(fiber.Config{
		AppName: "rentlensd",
	})

	app.Use(rentlens.GuardMiddleware(machine, rentlens.DefaultGuardRoutes()))
	rentlens.RegisterAuthRoutes(app, machine)
	rentlens.RegisterAdminRoutes(app, admin, repos)
	rentlens.RegisterResourceRoutes(app, machine, repos, buckets)

	go func() {
		<-ctx.Done()
		if err := app.ShutdownWithTimeout(5 * time.Second); err != nil {
			log.Printf("shutdown: %v", err)
		}
	}()

	if err := app.Listen(cfg.HTTPAddr); err != nil {
		log.Fatalf("listen: %v", err)
	}
}

func ensureSchema(ctx context.Context, db *bun.DB) error {
	models := []any{
		(*rentlens.User)(nil),
		(*rentlens.Product)(nil),
		(*rentlens.Booking)(nil),
		(*rentlens.Report)(nil),
	}

	for _, model := range models {
		if _, err := db.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
			return err
		}
	}

	return nil
}
