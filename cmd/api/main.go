package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/extra/redisotel/v9"
	redis "github.com/redis/go-redis/v9"

	"github.com/noah-isme/storefront/internal/cart"
	"github.com/noah-isme/storefront/internal/catalog"
	"github.com/noah-isme/storefront/internal/checkout"
	"github.com/noah-isme/storefront/internal/common"
	"github.com/noah-isme/storefront/internal/config"
	"github.com/noah-isme/storefront/internal/health"
	"github.com/noah-isme/storefront/internal/obs"
	"github.com/noah-isme/storefront/internal/order"
	"github.com/noah-isme/storefront/internal/pricing"
	"github.com/noah-isme/storefront/internal/ratelimit"
	"github.com/noah-isme/storefront/internal/session"
	"github.com/noah-isme/storefront/internal/store"
	"github.com/noah-isme/storefront/internal/wishlist"
)

func main() {
	cfg := config.MustLoad()

	logger := obs.NewLogger(cfg.LogFormat, cfg.LogLevel).With().Str("env", cfg.AppEnv).Logger()

	if cfg.MetricsEnabled {
		obs.MustRegisterDomainMetrics(cfg.MetricsNamespace, nil)
	}

	tracingEnabled := cfg.TracingEnabled
	if tracingEnabled {
		shutdown, err := obs.InitTracer(context.Background(), obs.TracingConfig{
			ServiceName:   "storefront-api",
			Endpoint:      cfg.TracingEndpoint,
			SamplingRatio: cfg.TracingSampling,
			Environment:   cfg.AppEnv,
		})
		if err != nil {
			logger.Error().Err(err).Msg("initialise tracing")
			tracingEnabled = false
		} else {
			defer func() {
				if err := shutdown(context.Background()); err != nil {
					logger.Error().Err(err).Msg("shutdown tracer")
				}
			}()
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var kv store.KV
	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			logger.Fatal().Err(err).Msg("parse redis url")
		}
		redisClient = redis.NewClient(opts)
		if tracingEnabled {
			if err := redisotel.InstrumentTracing(redisClient); err != nil {
				logger.Error().Err(err).Msg("instrument redis tracing")
			}
		}
		if cfg.MetricsEnabled {
			if err := redisotel.InstrumentMetrics(redisClient); err != nil {
				logger.Error().Err(err).Msg("instrument redis metrics")
			}
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				logger.Error().Err(err).Msg("close redis")
			}
		}()
		if err := redisClient.Ping(ctx).Err(); err != nil {
			logger.Fatal().Err(err).Msg("ping redis")
		}
		kv = &store.Redis{Client: redisClient}
	} else {
		logger.Warn().Msg("REDIS_URL not set, using in-memory store")
		kv = store.NewMemory()
	}

	catalogService, err := catalog.NewService(catalog.ServiceConfig{})
	if err != nil {
		logger.Fatal().Err(err).Msg("initialise catalog service")
	}
	catalogHandler := catalog.NewHandler(catalog.HandlerConfig{Service: catalogService})

	pricingCfg := pricing.Config{
		TaxBps:          cfg.TaxRateBps,
		FreeShippingMin: pricing.Money(cfg.FreeShippingMin),
		BaseShippingFee: pricing.Money(cfg.BaseShippingFee),
	}

	engine := cart.NewEngine(cart.EngineConfig{
		Store:             kv,
		StoreKey:          cfg.CartStoreKey,
		Logger:            logger.With().Str("component", "cart").Logger(),
		AllowZeroQtyLines: cfg.AllowZeroQtyLines,
	})
	engine.Hydrate(ctx)
	defer func() {
		flushCtx, flushCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer flushCancel()
		if err := engine.Flush(flushCtx); err != nil {
			logger.Error().Err(err).Msg("flush cart snapshot")
		}
		engine.Close()
	}()

	wishlistSvc := wishlist.NewService()
	wishlistHandler := &wishlist.Handler{Svc: wishlistSvc, Catalog: catalogService}

	cartHandler := &cart.Handler{
		Engine:   engine,
		Catalog:  catalogService,
		Wishlist: wishlistSvc,
		Pricing:  pricingCfg,
		Currency: cfg.CurrencyCode,
	}

	orderSvc := order.NewService()
	orderHandler := &order.Handler{Orders: orderSvc}

	checkoutSvc := checkout.NewService(engine, orderSvc, pricing.DefaultPromos(), pricingCfg, cfg.CurrencyCode)
	checkoutHandler := &checkout.Handler{Svc: checkoutSvc}

	sessionHandler := &session.Handler{Svc: session.NewService(kv)}

	idem := common.Idem{R: redisClient, TTL: cfg.IdempotencyTTL}
	limiter := ratelimit.Handler{
		Limiter: ratelimit.Limiter{Client: redisClient, Prefix: "ratelimit:"},
		Config: ratelimit.Config{
			Key:    func(r *http.Request) string { return r.RemoteAddr },
			Window: cfg.RateLimitWindow,
			Max:    cfg.RateLimitMax,
		},
		OnError: func(err error) {
			logger.Error().Err(err).Msg("rate limiter unavailable")
		},
	}

	var httpMetrics *obs.HTTPMetrics
	if cfg.MetricsEnabled {
		httpMetrics = obs.NewHTTPMetrics(cfg.MetricsNamespace, obs.ParseBucketsCSV(cfg.MetricsBuckets), nil)
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(obs.RoutePatternMiddleware)
	if tracingEnabled {
		r.Use(obs.TracingMiddleware)
	}
	if httpMetrics != nil {
		r.Use(obs.HTTPObs{Metrics: httpMetrics}.Middleware)
	}
	r.Use(obs.RequestLogger{Logger: logger}.Middleware)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins(cfg),
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "Idempotency-Key"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	if cfg.MetricsEnabled {
		r.Handle("/metrics", promhttp.Handler())
	}

	healthHandler := health.Handler{Checker: health.StoreChecker{KV: kv}}
	r.Get("/health/live", healthHandler.Live)
	r.Get("/health/ready", healthHandler.Ready)

	r.Route("/api/v1", func(v chi.Router) {
		v.Get("/categories", catalogHandler.Categories)
		v.Get("/products", catalogHandler.Products)
		v.Get("/products/{id}", catalogHandler.ProductDetail)

		v.Route("/cart", func(c chi.Router) {
			c.Get("/", cartHandler.Get)
			c.Group(func(g chi.Router) {
				g.Use(limiter.Middleware)
				g.Post("/items", cartHandler.AddItem)
				g.Patch("/items/{productId}", cartHandler.UpdateItem)
				g.Delete("/items/{productId}", cartHandler.RemoveItem)
				g.Post("/items/{productId}/wishlist", cartHandler.MoveToWishlist)
				g.Delete("/", cartHandler.Clear)
			})
		})

		v.Route("/wishlist", func(wl chi.Router) {
			wl.Get("/", wishlistHandler.List)
			wl.Post("/", wishlistHandler.Add)
			wl.Delete("/{productId}", wishlistHandler.Remove)
		})

		v.Post("/checkout/quote", checkoutHandler.Quote)
		v.With(limiter.Middleware, idem.Middleware).Post("/checkout", checkoutHandler.Place)

		v.Get("/orders", orderHandler.List)
		v.Get("/orders/{orderId}", orderHandler.Detail)
		v.With(idem.Middleware).Post("/orders/{orderId}/cancel", orderHandler.Cancel)

		v.Route("/session", func(s chi.Router) {
			s.Get("/", sessionHandler.State)
			s.Post("/login", sessionHandler.Login)
			s.Post("/logout", sessionHandler.Logout)
			s.Post("/onboarding", sessionHandler.FinishOnboarding)
		})
	})

	srv := &http.Server{
		Addr:    cfg.HTTPAddr(),
		Handler: r,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", srv.Addr).Msg("server starting")
		errCh <- srv.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("server exited unexpectedly")
		}
	case sig := <-stop:
		logger.Info().Str("signal", sig.String()).Msg("shutting down")
		health.SetReady(false)
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("graceful shutdown")
		}
	}
}

func allowedOrigins(cfg *config.Config) []string {
	if len(cfg.CORSAllowedOrigins) == 0 {
		return []string{"*"}
	}
	return cfg.CORSAllowedOrigins
}
