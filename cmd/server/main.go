// @title Club Match API
// @version 1.0
// @description Post composer for club and enterprise sponsorship matching.
// @host localhost:8000
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/pllus/clubmatch/docs"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/pllus/clubmatch/bootstrap"
	"github.com/pllus/clubmatch/config"
	"github.com/pllus/clubmatch/database"
	"github.com/pllus/clubmatch/internal/controllers"
	"github.com/pllus/clubmatch/internal/logger"
	"github.com/pllus/clubmatch/internal/middleware"
	"github.com/pllus/clubmatch/internal/repository"
	"github.com/pllus/clubmatch/internal/routes"
	"github.com/pllus/clubmatch/internal/scheduler"
	"github.com/pllus/clubmatch/internal/services"
	"github.com/pllus/clubmatch/internal/session"
)

func main() {
	configPath := flag.String("config", "conf/app.yaml", "optional YAML config file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client, db, err := database.ConnectMongo(cfg.Mongo.URI, cfg.Mongo.DB, log)
	if err != nil {
		return err
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = client.Disconnect(ctx)
	}()

	idxCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	err = bootstrap.EnsureIndexes(idxCtx, db)
	cancel()
	if err != nil {
		return err
	}

	checks := map[string]controllers.Check{"mongo": database.Ping(client)}

	var sessions session.Store
	if cfg.Redis.Addr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("redis ping: %w", err)
		}
		sessions = session.NewRedisStore(rdb, cfg.Session.TTL, log)
		checks["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
		log.Info("composer sessions in redis", zap.String("addr", cfg.Redis.Addr))
	} else {
		sessions = session.NewMemoryStore(cfg.Session.TTL)
		log.Warn("redis not configured, composer sessions are kept in memory")
	}

	posts := repository.NewPostRepository(db)
	orgs := repository.NewOrganizationRepository(db)
	subs := repository.NewSubscriptionRepository(db)
	notis := repository.NewNotificationRepository(db)

	notifier := services.NewSubscriberNotifier(subs, orgs, notis.Notifications(), notis.Messages(), log)
	postSvc := services.NewPostService(posts, notifier, log)
	composerSvc := services.NewComposerService(sessions, postSvc, orgs, log, cfg.Composer.Redirect)

	sched := scheduler.New(cfg.Location(), log)
	if cfg.Reminder.Enabled {
		err := sched.Add(scheduler.Job{
			Name:    "deadline_reminder",
			Spec:    cfg.Reminder.Spec,
			Timeout: 5 * time.Minute,
			Run: func(ctx context.Context) error {
				n, err := services.RunDeadlineReminder(ctx, posts, notis.Notifications(), cfg.Location(), cfg.Reminder.Days)
				if err == nil {
					log.Info("deadline reminders sent", zap.Int("count", n))
				}
				return err
			},
		})
		if err != nil {
			return fmt.Errorf("schedule reminder: %w", err)
		}
	}
	sched.Start()

	app := fiber.New(fiber.Config{ErrorHandler: controllers.ErrorHandler(log)})
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PATCH,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))
	app.Use(middleware.RequestLog(log))

	routes.SetupRoutesSystem(app, checks)

	app.Use(middleware.JWTActor(cfg.Auth.JWTSecret))

	var limiter fiber.Handler
	if cfg.RateLimit.PerMinute > 0 {
		limiter = middleware.NewRateLimiter(cfg.RateLimit.PerMinute).Handler()
	}
	routes.SetupRoutesComposer(app, composerSvc, limiter)
	routes.SetupRoutesPost(app, posts)
	routes.NotificationRoutes(app, notis)

	errCh := make(chan error, 1)
	go func() {
		log.Info("http listening", zap.String("port", cfg.HTTP.Port))
		errCh <- app.Listen(":" + cfg.HTTP.Port)
	}()

	select {
	case err := <-errCh:
		sched.Stop(context.Background())
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	sched.Stop(shutdownCtx)
	return app.ShutdownWithContext(shutdownCtx)
}
