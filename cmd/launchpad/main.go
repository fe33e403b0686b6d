package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/amirhosseinghanipour/launchpad/internal/application/auth"
	"github.com/amirhosseinghanipour/launchpad/internal/application/billing"
	"github.com/amirhosseinghanipour/launchpad/internal/application/dashboard"
	"github.com/amirhosseinghanipour/launchpad/internal/application/ports"
	"github.com/amirhosseinghanipour/launchpad/internal/application/project"
	"github.com/amirhosseinghanipour/launchpad/internal/application/retention"
	"github.com/amirhosseinghanipour/launchpad/internal/config"
	infraauth "github.com/amirhosseinghanipour/launchpad/internal/infrastructure/auth"
	infrabilling "github.com/amirhosseinghanipour/launchpad/internal/infrastructure/billing"
	"github.com/amirhosseinghanipour/launchpad/internal/infrastructure/cache"
	httprouter "github.com/amirhosseinghanipour/launchpad/internal/infrastructure/http"
	"github.com/amirhosseinghanipour/launchpad/internal/infrastructure/http/handlers"
	"github.com/amirhosseinghanipour/launchpad/internal/infrastructure/http/middleware"
	"github.com/amirhosseinghanipour/launchpad/internal/infrastructure/persistence"
	"github.com/amirhosseinghanipour/launchpad/internal/infrastructure/queue"
	"github.com/amirhosseinghanipour/launchpad/internal/infrastructure/telemetry"
	"github.com/amirhosseinghanipour/launchpad/internal/infrastructure/webhook"
)

var version = "dev"

func main() {
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}
	if !cfg.Server.Development {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	ctx := context.Background()
	shutdownTracing, err := telemetry.Setup(ctx, cfg.Telemetry.Endpoint, cfg.Telemetry.ServiceName, version)
	if err != nil {
		log.Fatal().Err(err).Msg("set up tracing")
	}

	stores, err := persistence.Open(ctx, cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("open database")
	}
	defer stores.Close()

	purgeCtx, stopPurge := context.WithCancel(ctx)
	defer stopPurge()
	go retention.Run(purgeCtx, stores.MagicLinks, time.Hour, retention.DefaultMagicLinkRetention, log)

	var redisClient *redis.Client
	var redisOpt *redis.Options
	if cfg.Redis.URL != "" {
		redisOpt, err = redis.ParseURL(cfg.Redis.URL)
		if err != nil {
			log.Fatal().Err(err).Msg("parse REDIS_URL")
		}
		redisClient = redis.NewClient(redisOpt)
		defer redisClient.Close()
		if err := redisClient.Ping(ctx).Err(); err != nil {
			log.Warn().Err(err).Msg("redis ping failed; continuing without redis")
			redisClient = nil
		}
	}

	var emitter ports.WebhookEmitter = webhook.NewLogEmitter(log)
	if cfg.Webhook.URL != "" {
		var opts []webhook.HTTPEmitterOption
		if cfg.Webhook.HeaderName != "" {
			opts = append(opts, webhook.WithHeader(cfg.Webhook.HeaderName, cfg.Webhook.HeaderValue))
		}
		emitter = webhook.NewHTTPEmitter(cfg.Webhook.URL, opts...)
	}

	var taskEnqueuer ports.TaskEnqueuer
	var viewCache ports.ViewCache = cache.Noop{}
	var asynqWorker *queue.Worker
	if redisClient != nil {
		asynqOpt := asynq.RedisClientOpt{Addr: redisOpt.Addr, Password: redisOpt.Password, DB: redisOpt.DB}
		asynqEnq := queue.NewAsynqEnqueuer(asynqOpt, log)
		defer asynqEnq.Close()
		taskEnqueuer = asynqEnq
		asynqWorker = queue.NewWorker(asynqOpt, emitter, log)
		go func() {
			if err := asynqWorker.Run(); err != nil {
				log.Warn().Err(err).Msg("asynq worker stopped")
			}
		}()
		viewCache = cache.NewRedisViewCache(redisClient, cfg.Redis.ViewTTL)
	} else {
		taskEnqueuer = queue.NewInlineEnqueuer(emitter, log)
	}

	privateKey, ephemeral, err := infraauth.LoadOrGenerateKey(cfg.Session.PrivateKeyPath)
	if err != nil {
		log.Fatal().Err(err).Msg("load session signing key")
	}
	if ephemeral {
		log.Warn().Msg("SESSION_PRIVATE_KEY_PATH not set; sessions will not survive a restart")
	}
	issuer := infraauth.NewSessionIssuer(privateKey, cfg.Session.Issuer, cfg.Session.Audience)

	resolveUC := auth.NewResolveIdentity(issuer)
	sendMagicLinkUC := auth.NewSendMagicLink(stores.MagicLinks, taskEnqueuer, cfg.MagicLink.BaseURL, cfg.MagicLink.Expiry)
	verifyMagicLinkUC := auth.NewVerifyMagicLink(stores.MagicLinks, stores.Users, issuer, cfg.Session.Expiry)
	oauthCallbackUC := auth.NewOAuthCallback(stores.Users, issuer, cfg.Session.Expiry)
	seedUC := project.NewSeedDemoProjects(stores.Users, stores.Projects, viewCache)
	dash := dashboard.NewDashboard(resolveUC, stores.Users, stores.Projects, viewCache, taskEnqueuer, cfg.Session.SignInPath, log)

	var provider ports.BillingProvider
	if cfg.Billing.StripeSecretKey != "" {
		provider = infrabilling.NewStripeClient(cfg.Billing.StripeBaseURL, cfg.Billing.StripeSecretKey, cfg.Billing.Timeout, log)
	} else {
		log.Info().Msg("STRIPE_SECRET_KEY not set; billing routes disabled")
	}
	portalUC := billing.NewOpenPortal(stores.Users, provider)
	checkoutUC := billing.NewStartCheckout(stores.Users, provider, billing.CheckoutConfig{
		PriceID:    cfg.Billing.PriceID,
		SuccessURL: cfg.Billing.CheckoutSuccessURL,
		CancelURL:  cfg.Billing.CheckoutCancelURL,
	})

	cookieStore := middleware.NewCookieStore(cfg.Session.CookieSecret, !cfg.Server.Development)
	sessions := middleware.NewSessionReader(cookieStore, cfg.Session.CookieName, cfg.Session.SignInPath, resolveUC, log)

	authHandler := handlers.NewAuthHandler(sendMagicLinkUC, verifyMagicLinkUC, sessions, taskEnqueuer, cfg.Session.DashboardPath, log)
	var oauthCallback http.HandlerFunc
	if handlers.InitOAuthProviders(cfg.OAuth.CallbackBaseURL, cookieStore, cfg.OAuth.GoogleClientID, cfg.OAuth.GoogleClientSecret) {
		oauthCallback = authHandler.OAuthCallback(oauthCallbackUC)
	}

	ipLimit, err := middleware.NewIPRateLimiter(cfg.RateLimit.PerIP)
	if err != nil {
		log.Fatal().Err(err).Msg("create IP rate limiter")
	}
	userLimit, err := middleware.NewUserRateLimiter(cfg.RateLimit.PerUser)
	if err != nil {
		log.Fatal().Err(err).Msg("create user rate limiter")
	}

	router := httprouter.NewRouter(httprouter.RouterConfig{
		AuthHandler:      authHandler,
		HealthHandler:    handlers.NewHealthHandler(stores, redisClient),
		UsersHandler:     handlers.NewUsersHandler(stores.Users, log),
		DashboardHandler: handlers.NewDashboardHandler(dash, log),
		BillingHandler:   handlers.NewBillingHandler(portalUC, checkoutUC, taskEnqueuer, log),
		AdminHandler:     handlers.NewAdminHandler(seedUC, log),
		Sessions:         sessions,
		RequireAdmin:     middleware.RequireAdminSecret(cfg.Admin.Secret),
		OAuthCallback:    oauthCallback,
		Log:              log,
		Secure:           middleware.NewSecure(middleware.SecureOptions(cfg.Server.Development)),
		CORS:             middleware.CORS(cfg.Server.CORSOrigins, nil, nil),
		IPRateLimit:      ipLimit,
		UserRateLimit:    userLimit,
		RequestTimeout:   cfg.Server.RequestTimeout,
		Metrics:          true,
	})

	srv := &http.Server{
		Addr:         ":" + strings.TrimPrefix(cfg.Server.Port, ":"),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: cfg.Server.RequestTimeout + 5*time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.Server.Port).Str("driver", cfg.Database.Driver).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown")
	}
	if asynqWorker != nil {
		asynqWorker.Shutdown()
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("tracing shutdown")
	}
	log.Info().Msg("server stopped")
}
