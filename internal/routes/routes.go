package routes

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/pulsewatch/pulsewatch/internal/authz"
	"github.com/pulsewatch/pulsewatch/internal/check"
	"github.com/pulsewatch/pulsewatch/internal/config"
	"github.com/pulsewatch/pulsewatch/internal/hashing"
	"github.com/pulsewatch/pulsewatch/internal/middleware"
	"github.com/pulsewatch/pulsewatch/internal/storage"
	"github.com/pulsewatch/pulsewatch/internal/token"
	"github.com/pulsewatch/pulsewatch/internal/user"
)

// Deps aggregates shared dependencies required to wire routes.
type Deps struct {
	Cfg    config.Config
	DB     *pgxpool.Pool
	Cache  *redis.Client
	Logger *slog.Logger
}

const idempotencyTTL = 24 * time.Hour

// Setup configures middlewares, selects the storage backend and wires all
// application routes.
func Setup(app *fiber.App, d Deps) error {
	app.Use(recover.New())
	app.Use(middleware.RequestID())
	app.Use(middleware.Audit(d.Logger))
	if d.Cache != nil {
		app.Use(middleware.Idempotency(d.Cache, idempotencyTTL, d.Logger))
	}

	store, err := selectStore(d)
	if err != nil {
		return err
	}

	hasher, err := hashing.New(d.Cfg.HashSecret)
	if err != nil {
		return err
	}

	directory := user.NewDirectory(store, hasher)
	authority := token.NewAuthority(store, directory, hasher, d.Cfg.TokenTTL)
	gate := authz.NewGate(authority)
	registry := check.NewRegistry(store, directory, gate, d.Cfg.MaxChecksPerUser)
	directory.UseCheckPurger(registry)

	userHandler := user.NewHandler(directory, gate)
	tokenHandler := token.NewHandler(authority)
	checkHandler := check.NewHandler(registry, authority)

	RegisterHealthRoutes(app, d)

	api := app.Group("/api/v1")
	api.Get("/ping", func(c *fiber.Ctx) error {
		reqID, _ := c.Locals("X-Request-ID").(string)
		return c.Status(http.StatusOK).JSON(fiber.Map{
			"status":     "ok",
			"request_id": reqID,
			"timestamp":  time.Now().UTC().Format(time.RFC3339Nano),
		})
	})

	RegisterUserRoutes(api, userHandler)
	rateLimiter := middleware.IssueRateLimit(d.Cache, 5)
	RegisterTokenRoutes(api, tokenHandler, rateLimiter)
	RegisterCheckRoutes(api, checkHandler)

	return nil
}

// selectStore picks the most durable backend the configuration offers:
// postgres, then redis, then the file store, then memory.
func selectStore(d Deps) (storage.Store, error) {
	switch {
	case d.DB != nil:
		pg := storage.NewPostgres(d.DB)
		if err := pg.EnsureSchema(context.Background()); err != nil {
			return nil, err
		}
		return pg, nil
	case d.Cache != nil:
		return storage.NewRedis(d.Cache), nil
	case d.Cfg.DataDir != "":
		return storage.NewFile(d.Cfg.DataDir)
	default:
		d.Logger.Warn("no storage backend configured, records are held in memory")
		return storage.NewMemory(), nil
	}
}
