package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"nutri-auth/config"
	"nutri-auth/internal/adapter/gateway"
	"nutri-auth/internal/adapter/handler"
	"nutri-auth/internal/domain"
	"nutri-auth/internal/infrastructure/cache"
	"nutri-auth/internal/usecase"
	appmiddleware "nutri-auth/middleware"
	"nutri-auth/utils/logger"
	"nutri-auth/utils/otel"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.opentelemetry.io/contrib/instrumentation/github.com/labstack/echo/otelecho"
	"golang.org/x/sync/errgroup"
)

func main() {
	// Handle healthcheck subcommand (for Docker healthcheck in distroless image)
	if len(os.Args) > 1 && os.Args[1] == "healthcheck" {
		if err := runHealthcheck(); err != nil {
			fmt.Fprintf(os.Stderr, "Healthcheck failed: %v\n", err)
			os.Exit(1)
		}
		os.Exit(0)
	}

	// Load a local .env when present; real deployments use the environment.
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	// Initialize OpenTelemetry
	otelCfg := otel.ConfigFromEnv()
	otelShutdown, err := otel.InitProvider(ctx, otelCfg)
	if err != nil {
		slog.Warn("failed to initialize OpenTelemetry, continuing without tracing", "error", err)
		otelCfg.Enabled = false
	}

	// Initialize structured logger
	logger.Init(otelCfg.Enabled)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.ErrorContext(ctx, "failed to load configuration", "error", err)
		os.Exit(1)
	}

	slog.InfoContext(ctx, "configuration loaded",
		"supabase_url", cfg.SupabaseURL,
		"port", cfg.Port,
		"upstream_timeout", cfg.UpstreamTimeout,
		"ref_cache_ttl", cfg.RefCacheTTL)

	// Gateways
	authGateway := gateway.NewAuthGateway(cfg.SupabaseURL, cfg.ServiceRoleKey, cfg.UpstreamTimeout)
	restGateway := gateway.NewRestGateway(cfg.SupabaseURL, cfg.ServiceRoleKey, cfg.UpstreamTimeout)

	// Reference lookups go through a TTL cache; the tables are near-static.
	resolver := cache.NewCachedResolver(restGateway, cache.NewCodeCache(cfg.RefCacheTTL))

	// Direct email lookup is an optional provider capability.
	var emailLookup domain.EmailLookup
	if cfg.EmailFilterLookup {
		emailLookup = authGateway
	}

	// Usecases
	registerUC := usecase.NewRegisterUser(authGateway, resolver, restGateway, slog.Default())
	loginUC := usecase.NewLoginUser(authGateway, slog.Default())
	checkEmailUC := usecase.NewCheckEmail(emailLookup, authGateway, slog.Default())

	// Handlers
	registerHandler := handler.NewRegisterHandler(registerUC)
	loginHandler := handler.NewLoginHandler(loginUC)
	checkEmailHandler := handler.NewCheckEmailHandler(checkEmailUC)
	meHandler := handler.NewMeHandler()
	healthHandler := handler.NewHealthHandler()

	// Setup Echo server
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = handler.ErrorHandler

	// Security middleware
	e.Use(appmiddleware.SecurityHeaders())
	e.Use(appmiddleware.CORS(cfg.FrontendURL))

	// OpenTelemetry tracing
	if otelCfg.Enabled {
		e.Use(otelecho.Middleware(otelCfg.ServiceName))
	}

	// Request logging
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		Skipper: func(c echo.Context) bool {
			return c.Request().URL.Path == "/health"
		},
		LogStatus:   true,
		LogURI:      true,
		LogError:    true,
		LogMethod:   true,
		LogLatency:  true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			rctx := c.Request().Context()
			if v.Error == nil {
				slog.InfoContext(rctx, "request completed",
					"method", v.Method,
					"uri", v.URI,
					"status", v.Status,
					"latency_ms", v.Latency.Milliseconds())
			} else {
				slog.ErrorContext(rctx, "request failed",
					"method", v.Method,
					"uri", v.URI,
					"status", v.Status,
					"latency_ms", v.Latency.Milliseconds(),
					"error", v.Error.Error())
			}
			return nil
		},
	}))

	e.Use(middleware.Recover())

	// Rate limiters per endpoint group
	registerRL := appmiddleware.NewRateLimiter(10.0/60.0, 3)  // 10 req/min
	loginRL := appmiddleware.NewRateLimiter(30.0/60.0, 5)     // 30 req/min
	checkEmailRL := appmiddleware.NewRateLimiter(60.0/60.0, 10) // 60 req/min
	meRL := appmiddleware.NewRateLimiter(60.0/60.0, 10)       // 60 req/min

	// Routes
	auth := e.Group("/api/auth")
	auth.POST("/register", registerHandler.Handle, registerRL.Middleware())
	auth.POST("/login", loginHandler.Handle, loginRL.Middleware())
	auth.POST("/check-email", checkEmailHandler.Handle, checkEmailRL.Middleware())
	if cfg.JWTSecret != "" {
		auth.GET("/me", meHandler.Handle, meRL.Middleware(), appmiddleware.RequireAuth(cfg.JWTSecret))
	} else {
		slog.InfoContext(ctx, "SUPABASE_JWT_SECRET not set, /api/auth/me disabled")
	}

	e.GET("/health", healthHandler.Handle)

	// Start server with errgroup for graceful shutdown
	address := fmt.Sprintf(":%s", cfg.Port)
	slog.InfoContext(ctx, "starting nutri-auth server", "address", address)

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := e.Start(address); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gCtx.Done()
		slog.Info("shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return e.Shutdown(shutdownCtx)
	})

	g.Go(func() error {
		<-gCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return otelShutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("shutdown error", "error", err)
		os.Exit(1)
	}

	slog.Info("server exited properly")
}

// runHealthcheck performs a health check against the local server.
func runHealthcheck() error {
	port := os.Getenv("PORT")
	if port == "" {
		port = "3000"
	}

	client := &http.Client{Timeout: 2 * time.Second}
	resp, err := client.Get(fmt.Sprintf("http://127.0.0.1:%s/health", port))
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health endpoint returned status: %d", resp.StatusCode)
	}
	return nil
}
