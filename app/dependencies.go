// Package app wires the application dependencies. This is the central
// dependency-injection point; handlers and routes only see interfaces.
package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/lumosdigital/backoffice/auth"
	"github.com/lumosdigital/backoffice/config"
	"github.com/lumosdigital/backoffice/middleware"
	"github.com/lumosdigital/backoffice/services/account"
	"github.com/lumosdigital/backoffice/services/messages"
	"github.com/lumosdigital/backoffice/services/products"
	"github.com/lumosdigital/backoffice/session"
	"github.com/lumosdigital/backoffice/upstream"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Dependencies holds all application dependencies.
type Dependencies struct {
	// Infrastructure
	Config *config.Config
	logger *zap.Logger
	redis  *redis.Client

	// Upstream API
	Upstream *upstream.Client

	// Session
	sessions session.Store
	carrier  *session.Carrier

	// Services
	authService    *auth.Service
	productService *products.Service
	messageService *messages.Service
	accountService *account.Service

	// Middleware
	AuthMiddleware *middleware.AuthMiddleware
}

// NewDependencies creates and wires up all application dependencies.
func NewDependencies(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Dependencies, error) {
	deps := &Dependencies{
		Config: cfg,
		logger: logger,
	}

	deps.Upstream = upstream.NewClient(upstream.Config{
		BaseURL:   cfg.Upstream.BaseURL,
		LoginPath: cfg.Upstream.LoginPath,
		Timeout:   cfg.Upstream.Timeout,
	}, logger)

	if err := deps.initSessions(ctx, cfg); err != nil {
		return nil, fmt.Errorf("failed to initialize session store: %w", err)
	}

	deps.authService = auth.NewService(deps.Upstream, logger)
	deps.productService = products.NewService(deps.Upstream, logger)
	deps.messageService = messages.NewService(deps.Upstream, logger)
	deps.accountService = account.NewService(deps.Upstream, logger)

	deps.AuthMiddleware = middleware.NewAuthMiddleware(deps.carrier, deps.sessions, logger)

	logger.Info("all dependencies initialized",
		zap.String("upstream", cfg.Upstream.BaseURL),
		zap.Bool("redis_sessions", deps.redis != nil))
	return deps, nil
}

// initSessions selects the session store: Redis when configured, process
// memory otherwise.
func (d *Dependencies) initSessions(ctx context.Context, cfg *config.Config) error {
	d.carrier = session.NewCarrier(cfg.Session.Secret, cfg.Session.TTL)

	if cfg.Redis.Addr == "" {
		d.sessions = session.NewMemoryStore()
		d.logger.Info("using in-memory session store")
		return nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}

	d.redis = client
	d.sessions = session.NewRedisStore(client)
	d.logger.Info("using redis session store", zap.String("addr", cfg.Redis.Addr))
	return nil
}

// Close releases held resources.
func (d *Dependencies) Close() error {
	if d.redis != nil {
		return d.redis.Close()
	}
	return nil
}

// handlers.Deps implementation

// Logger returns the application logger.
func (d *Dependencies) Logger() *zap.Logger { return d.logger }

// Auth returns the authentication service.
func (d *Dependencies) Auth() *auth.Service { return d.authService }

// Products returns the product catalog service.
func (d *Dependencies) Products() *products.Service { return d.productService }

// Messages returns the contact message service.
func (d *Dependencies) Messages() *messages.Service { return d.messageService }

// Accounts returns the account management service.
func (d *Dependencies) Accounts() *account.Service { return d.accountService }

// Sessions returns the session store.
func (d *Dependencies) Sessions() session.Store { return d.sessions }

// Carrier returns the session-carrier signer.
func (d *Dependencies) Carrier() *session.Carrier { return d.carrier }

// Revoke tears down the session behind the request's carrier, if any.
func (d *Dependencies) Revoke(ctx context.Context, r *http.Request) error {
	return d.AuthMiddleware.Revoke(ctx, r)
}

// CookieSecure reports whether session cookies must be Secure.
func (d *Dependencies) CookieSecure() bool {
	return d.Config.Session.CookieSecure || d.Config.IsProduction()
}

// Ready reports whether the gateway can serve traffic.
func (d *Dependencies) Ready(ctx context.Context) error {
	if d.redis != nil {
		if err := d.redis.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("session store unreachable: %w", err)
		}
	}
	return nil
}
