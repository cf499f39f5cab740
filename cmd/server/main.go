package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/dmitrymomot/docvault/modules/auth"
	"github.com/dmitrymomot/docvault/modules/batch"
	"github.com/dmitrymomot/docvault/modules/record"
	"github.com/dmitrymomot/docvault/modules/tenants"
	"github.com/dmitrymomot/docvault/modules/user"
	"github.com/dmitrymomot/docvault/pkg/blob"
	"github.com/dmitrymomot/docvault/pkg/config"
	"github.com/dmitrymomot/docvault/pkg/email"
	"github.com/dmitrymomot/docvault/pkg/environment"
	"github.com/dmitrymomot/docvault/pkg/httpserver"
	"github.com/dmitrymomot/docvault/pkg/logger"
	"github.com/dmitrymomot/docvault/pkg/mongo"
	"github.com/dmitrymomot/docvault/pkg/tenant"
)

type appConfig struct {
	Env         string `env:"APP_ENV" envDefault:"development"`
	ServiceName string `env:"SERVICE_NAME" envDefault:"docvault"`
	EmailDevDir string `env:"EMAIL_DEV_DIR" envDefault:"./tmp/emails"`
}

func main() {
	ctx := context.Background()

	var (
		appCfg    appConfig
		mongoCfg  mongo.Config
		httpCfg   httpserver.Config
		tokenCfg  auth.TokenConfig
		blobCfg   blob.Config
		emailCfg  email.Config
		verifyCfg email.VerificationConfig
	)
	config.MustLoad(&appCfg)
	config.MustLoad(&mongoCfg)
	config.MustLoad(&httpCfg)
	config.MustLoad(&tokenCfg)
	config.MustLoad(&blobCfg)
	config.MustLoad(&emailCfg)
	config.MustLoad(&verifyCfg)

	log := logger.New(
		logger.WithEnvironment(appCfg.Env, appCfg.ServiceName),
		logger.WithContextExtractors(
			tenant.LoggerExtractor(),
			environment.LoggerExtractor(),
		),
	)
	logger.SetAsDefault(log)

	client, err := mongo.New(ctx, mongoCfg)
	if err != nil {
		log.Error("failed to connect to mongo", logger.Error(err))
		os.Exit(1)
	}
	defer func() { _ = client.Disconnect(ctx) }()

	// Tenant and domain records live in the shared control-plane database;
	// everything else is routed per tenant.
	registry := tenant.NewMongoRegistry(client.Database(mongoCfg.Database))
	databases := tenant.NewDatabases(client)

	users := user.NewMongoRepository(databases)
	batches := batch.NewMongoRepository(databases)
	records := record.NewMongoRepository(databases)

	storage, err := blob.NewS3Storage(ctx, blobCfg)
	if err != nil {
		log.Error("failed to init blob storage", logger.Error(err))
		os.Exit(1)
	}

	var sender email.EmailSender
	if appCfg.Env == string(environment.Production) || appCfg.Env == "prod" {
		sender = email.MustNewPostmarkClient(emailCfg)
	} else {
		sender = email.NewDevSender(appCfg.EmailDevDir)
	}
	mailer, err := email.NewVerificationMailer(sender, verifyCfg)
	if err != nil {
		log.Error("failed to init verification mailer", logger.Error(err))
		os.Exit(1)
	}

	tokens, err := auth.NewTokenService(tokenCfg)
	if err != nil {
		log.Error("failed to init token service", logger.Error(err))
		os.Exit(1)
	}

	tenantSvc := tenant.NewService(registry, log, tenant.WithActorResolver(auth.ActorFromContext))
	authSvc := auth.NewService(users, registry, tokens, mailer, log)
	batchSvc := batch.NewService(batches, log)
	recordSvc := record.NewService(records, storage, log)

	r := chi.NewRouter()
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(environment.Middleware(environment.Environment(appCfg.Env)))

	r.Get("/health", httpserver.HealthCheckHandler(ctx, log))
	r.Get("/ready", httpserver.HealthCheckHandler(ctx, log, mongo.Healthcheck(client)))

	r.Mount("/auth", auth.Router(authSvc))

	r.Group(func(protected chi.Router) {
		protected.Use(auth.Middleware(tokens, registry, users, log))

		protected.Mount("/me", auth.MeRouter(authSvc))
		protected.Mount("/batches", batch.Router(batchSvc))
		protected.Mount("/records", record.Router(recordSvc))

		protected.Group(func(admin chi.Router) {
			admin.Use(auth.RequireRole(user.RoleAdmin))
			admin.Mount("/tenants", tenants.Router(tenantSvc))
			admin.Mount("/users", auth.UsersRouter(authSvc))
		})
	})

	srv := httpserver.NewFromConfig(httpCfg,
		httpserver.WithLogger(log),
		httpserver.WithStartHook(func(l *slog.Logger) {
			l.Info("server started", "addr", httpCfg.Addr)
		}),
	)
	if err := srv.Run(ctx, r); err != nil {
		log.Error("server stopped with error", logger.Error(err))
		os.Exit(1)
	}
}
