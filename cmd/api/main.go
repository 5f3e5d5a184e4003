package main

import (
	"context"
	"crypto/subtle"
	"errors"
	"net/http"
	"net/http/pprof"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	validator "github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/extra/redisotel/v9"
	redis "github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/voltmart/backend-volt/internal/auth"
	"github.com/voltmart/backend-volt/internal/cart"
	"github.com/voltmart/backend-volt/internal/checkout"
	"github.com/voltmart/backend-volt/internal/common"
	"github.com/voltmart/backend-volt/internal/config"
	"github.com/voltmart/backend-volt/internal/coupon"
	"github.com/voltmart/backend-volt/internal/db"
	"github.com/voltmart/backend-volt/internal/health"
	"github.com/voltmart/backend-volt/internal/lock"
	"github.com/voltmart/backend-volt/internal/obs"
	"github.com/voltmart/backend-volt/internal/queue"
	"github.com/voltmart/backend-volt/internal/ratelimit"
	"github.com/voltmart/backend-volt/internal/reviews"
)

func main() {
	cfg := config.MustLoad()

	logger := obs.NewLogger(envOrDefault("OBS_LOG_FORMAT", "json"), envOrDefault("OBS_LOG_LEVEL", "info")).
		With().Str("env", cfg.AppEnv).Logger()

	metricsNamespace := envOrDefault("OBS_METRICS_NAMESPACE", "voltmart")
	metricsEnabled := envBool("OBS_ENABLE_PROMETHEUS", true)

	tracingEnabled := envBool("OBS_ENABLE_TRACING", true)
	if tracingEnabled {
		shutdown, err := obs.InitTracer(context.Background(), obs.TracingConfig{
			ServiceName:   "volt-api",
			Endpoint:      envOrDefault("OBS_OTLP_ENDPOINT", ""),
			SamplingRatio: envFloat("OBS_TRACING_SAMPLING_RATIO", 1.0),
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

	if cfg.RunMigrations {
		if err := db.Migrate(cfg.DatabaseURL); err != nil {
			logger.Fatal().Err(err).Msg("run migrations")
		}
	}

	poolConfig, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("parse database config")
	}
	poolConfig.ConnConfig.Tracer = obs.PGXTracer{}
	if poolConfig.ConnConfig.RuntimeParams == nil {
		poolConfig.ConnConfig.RuntimeParams = map[string]string{}
	}
	poolConfig.ConnConfig.RuntimeParams["application_name"] = "volt-api"

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		logger.Fatal().Err(err).Msg("connect database")
	}
	defer pool.Close()
	if err := pool.Ping(ctx); err != nil {
		logger.Fatal().Err(err).Msg("ping database")
	}

	redisOpts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("parse redis url")
	}
	redisClient := redis.NewClient(redisOpts)
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Error().Err(err).Msg("close redis")
		}
	}()
	if err := redisotel.InstrumentTracing(redisClient); err != nil {
		logger.Error().Err(err).Msg("instrument redis tracing")
	}
	if metricsEnabled {
		if err := redisotel.InstrumentMetrics(redisClient); err != nil {
			logger.Error().Err(err).Msg("instrument redis metrics")
		}
	}
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Fatal().Err(err).Msg("ping redis")
	}

	verifier, err := auth.NewVerifier(cfg.JWTSecret, cfg.JWTIssuer)
	if err != nil {
		logger.Fatal().Err(err).Msg("initialise token verifier")
	}
	authMiddleware := auth.Middleware{Verifier: verifier}

	taskClient, err := queue.NewClient(cfg.RedisURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("initialise task queue")
	}
	defer func() {
		if err := taskClient.Close(); err != nil {
			logger.Error().Err(err).Msg("close task queue")
		}
	}()

	var storeMetrics *obs.StoreMetrics
	if metricsEnabled {
		storeMetrics = obs.NewStoreMetrics(metricsNamespace, nil)
	}

	cartSvc := &cart.Service{
		Store:   &cart.Store{R: redisClient, TTL: cfg.CartTTL},
		Locker:  &lock.Locker{R: redisClient},
		Coupons: coupon.DefaultTable(),
		Pricing: cfg.Pricing(),
		LockTTL: cfg.CartLockTTL,
	}
	cartHandler := &cart.Handler{Svc: cartSvc, Currency: cfg.CurrencyCode, Metrics: storeMetrics}

	reviewSvc := &reviews.Service{Store: &reviews.PGStore{Pool: pool}}
	reviewHandler := &reviews.Handler{Svc: reviewSvc, Metrics: storeMetrics}

	checkoutSvc := &checkout.Service{
		Carts:    cartSvc,
		Orders:   &checkout.OrderStore{R: redisClient},
		Queue:    taskClient,
		Validate: validator.New(),
		Logger:   logger,
		Currency: cfg.CurrencyCode,
	}
	checkoutHandler := &checkout.Handler{Svc: checkoutSvc, Metrics: storeMetrics}

	idem := common.Idem{R: redisClient, TTL: cfg.IdempotencyTTL}
	limiter := ratelimit.Limiter{Client: redisClient, Prefix: "rl:"}
	limitByIP := func(prefix string) func(http.Handler) http.Handler {
		return ratelimit.Handler{
			Limiter: limiter,
			Config: ratelimit.Config{
				Key:    func(r *http.Request) string { return prefix + ":" + common.ClientIP(r) },
				Window: cfg.RateLimitWindow,
				Max:    cfg.RateLimitMax,
			},
			OnError: func(err error) { logger.Error().Err(err).Msg("rate limiter") },
		}.Middleware
	}

	var httpMetrics *obs.HTTPMetrics
	if metricsEnabled {
		httpMetrics = obs.NewHTTPMetrics(metricsNamespace, nil, nil)
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(obs.RoutePatternMiddleware)
	if metricsEnabled && httpMetrics != nil {
		r.Use(obs.HTTPObs{Metrics: httpMetrics}.Middleware)
	}
	r.Use(obs.RequestLogger{Logger: logger}.Middleware)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSAllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "Idempotency-Key"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	if metricsEnabled {
		r.Handle("/metrics", promhttp.Handler())
	}
	if envBool("OBS_ENABLE_PPROF", true) {
		r.Mount("/debug/pprof", protectPprof(newPprofMux(),
			envOrDefault("SECURE_PPROF_BASIC_AUTH_USER", ""),
			envOrDefault("SECURE_PPROF_BASIC_AUTH_PASS", "")))
	}

	healthHandler := health.Handler{Checker: health.Probes{DB: pool, Redis: redisClient}}
	r.Get("/health/live", healthHandler.Live)
	r.Get("/health/ready", healthHandler.Ready)

	r.Route("/api/v1", func(v chi.Router) {
		v.Route("/carts", func(c chi.Router) {
			c.Get("/{id}", cartHandler.Get)
			c.Group(func(g chi.Router) {
				g.Use(idem.Middleware)
				g.Post("/", cartHandler.Create)
				g.Post("/{id}/items", cartHandler.AddItem)
				g.Patch("/{id}/items/{productId}", cartHandler.UpdateItem)
				g.Delete("/{id}/items/{productId}", cartHandler.RemoveItem)
				g.Delete("/{id}/items", cartHandler.Clear)
				g.With(limitByIP("coupon")).Post("/{id}/coupon", cartHandler.ApplyCoupon)
				g.Delete("/{id}/coupon", cartHandler.RemoveCoupon)
			})
		})

		v.Route("/products/{productId}/reviews", func(p chi.Router) {
			p.Get("/", reviewHandler.List)
			p.Get("/summary", reviewHandler.Summary)
			p.With(authMiddleware.RequireAuth).Get("/eligibility", reviewHandler.Eligibility)
			p.With(authMiddleware.RequireAuth, limitByIP("review")).Post("/", reviewHandler.Create)
		})
		v.With(limitByIP("helpful")).Post("/reviews/{reviewId}/helpful", reviewHandler.MarkHelpful)

		v.With(idem.Middleware, authMiddleware.RequireAuth).Post("/checkout", checkoutHandler.PlaceOrder)
		v.With(authMiddleware.RequireAuth).Get("/orders/{orderId}", checkoutHandler.GetOrder)
	})

	var handler http.Handler = r
	if tracingEnabled {
		handler = otelhttp.NewHandler(r, "http.server")
	}

	srv := &http.Server{
		Addr:    cfg.HTTPAddr(),
		Handler: handler,
	}

	go func() {
		stop := make(chan os.Signal, 1)
		signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
		<-stop
		health.SetReady(false)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("graceful shutdown")
		}
	}()

	logger.Info().Str("addr", srv.Addr).Msg("server starting")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal().Err(err).Msg("server exited unexpectedly")
	}
}

func newPprofMux() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", pprof.Index)
	mux.HandleFunc("/cmdline", pprof.Cmdline)
	mux.HandleFunc("/profile", pprof.Profile)
	mux.HandleFunc("/symbol", pprof.Symbol)
	mux.HandleFunc("/trace", pprof.Trace)
	mux.Handle("/allocs", pprof.Handler("allocs"))
	mux.Handle("/goroutine", pprof.Handler("goroutine"))
	mux.Handle("/heap", pprof.Handler("heap"))
	mux.Handle("/mutex", pprof.Handler("mutex"))
	return mux
}

func protectPprof(handler http.Handler, user, pass string) http.Handler {
	user = strings.TrimSpace(user)
	pass = strings.TrimSpace(pass)
	if user == "" {
		return handler
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u, p, ok := r.BasicAuth()
		if !ok || subtle.ConstantTimeCompare([]byte(u), []byte(user)) != 1 || subtle.ConstantTimeCompare([]byte(p), []byte(pass)) != 1 {
			w.Header().Set("WWW-Authenticate", "Basic realm=restricted")
			http.Error(w, "unauthorised", http.StatusUnauthorized)
			return
		}
		handler.ServeHTTP(w, r)
	})
}

func envOrDefault(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		if trimmed := strings.TrimSpace(val); trimmed != "" {
			return trimmed
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	val, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	parsed, err := strconv.ParseBool(strings.TrimSpace(val))
	if err != nil {
		return fallback
	}
	return parsed
}

func envFloat(key string, fallback float64) float64 {
	val, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	parsed, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
	if err != nil {
		return fallback
	}
	return parsed
}
