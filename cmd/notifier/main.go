package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/a4ad/notifier/pkg/broker"
	"github.com/a4ad/notifier/pkg/channels"
	"github.com/a4ad/notifier/pkg/config"
	"github.com/a4ad/notifier/pkg/dispatch"
	"github.com/a4ad/notifier/pkg/email"
	"github.com/a4ad/notifier/pkg/event"
	"github.com/a4ad/notifier/pkg/httpapi"
	"github.com/a4ad/notifier/pkg/httpserver"
	"github.com/a4ad/notifier/pkg/logger"
	"github.com/a4ad/notifier/pkg/notification"
	"github.com/a4ad/notifier/pkg/notifier"
	"github.com/a4ad/notifier/pkg/pg"
	"github.com/a4ad/notifier/pkg/push"
	"github.com/a4ad/notifier/pkg/ratelimit"
	"github.com/a4ad/notifier/pkg/redisconn"
	"github.com/a4ad/notifier/pkg/templates"
)

type appConfig struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
}

func main() {
	if err := run(); err != nil {
		slog.Error("notifier stopped", slog.Any("error", err))
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var appCfg appConfig
	config.MustLoad(&appCfg)

	log := logger.New(logger.WithEnvironment(appCfg.Environment, "notifier"))
	logger.SetAsDefault(log)

	// Shared stores.
	var redisCfg redisconn.Config
	config.MustLoad(&redisCfg)
	rdb, err := redisconn.Connect(ctx, redisCfg)
	if err != nil {
		return fmt.Errorf("connect redis: %w", err)
	}
	defer rdb.Close()

	var pgCfg pg.Config
	config.MustLoad(&pgCfg)
	pool, err := pg.Connect(ctx, pgCfg)
	if err != nil {
		return fmt.Errorf("connect postgres: %w", err)
	}
	defer pool.Close()

	if err := pg.Migrate(ctx, pool, pgCfg, log); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}

	// Broker.
	var brokerCfg broker.StreamConfig
	config.MustLoad(&brokerCfg)
	producer := broker.NewStreamProducer(rdb, brokerCfg)
	consumer := broker.NewStreamConsumer(rdb, brokerCfg, broker.WithStreamLogger(log))
	if err := consumer.Subscribe(event.ConsumedTopics()...); err != nil {
		return fmt.Errorf("subscribe consumer: %w", err)
	}

	// Delivery channels.
	var emailCfg email.Config
	config.MustLoad(&emailCfg)
	var sender email.EmailSender
	if emailCfg.PostmarkServerToken != "" {
		sender, err = email.NewPostmarkClient(emailCfg)
		if err != nil {
			return fmt.Errorf("configure postmark: %w", err)
		}
	} else {
		log.Warn("no postmark token, writing emails to disk",
			slog.String("dir", emailCfg.DevOutputDir))
		sender = email.NewDevSender(emailCfg.DevOutputDir)
	}

	var pushCfg push.Config
	config.MustLoad(&pushCfg)
	var pushSender push.PushSender
	if pushCfg.FirebaseCredentialsFile != "" {
		pushSender, err = push.NewFCMClient(ctx, pushCfg)
		if err != nil {
			return fmt.Errorf("configure fcm: %w", err)
		}
	} else {
		log.Warn("no firebase credentials, push delivery disabled")
		pushSender = push.NewNoopSender(log)
	}

	fanout := channels.NewFanout(log,
		channels.NewEmailChannel(sender),
		channels.NewInAppChannel(channels.NewRedisInAppStore(rdb)),
		channels.NewPushChannel(pushSender, log),
	)

	// Orchestration.
	limiter, err := ratelimit.NewSlidingWindow(
		ratelimit.NewRedisStore(rdb),
		ratelimit.WithLogger(log),
	)
	if err != nil {
		return fmt.Errorf("build rate limiter: %w", err)
	}

	var rates notifier.RateConfig
	config.MustLoad(&rates)

	svc, err := notifier.NewService(
		notification.NewPostgresStorage(pool),
		limiter,
		fanout,
		templates.Defaults(),
		rates,
		notifier.WithProducer(producer),
		notifier.WithServiceLogger(log),
	)
	if err != nil {
		return fmt.Errorf("build notifier service: %w", err)
	}

	// Intake.
	retryMgr := dispatch.NewRetryManager(producer, dispatch.WithRetryLogger(log))
	router := dispatch.NewRouter(dispatch.NewHandlers(svc, log).Table(), retryMgr, log)

	// HTTP API.
	var httpCfg httpserver.Config
	config.MustLoad(&httpCfg)
	api := httpapi.Router(httpapi.RouterOptions{
		Service: httpapi.NewHandlers(svc, log),
		Probes: map[string]httpapi.Probe{
			"postgres": pg.Healthcheck(pool),
			"redis":    redisconn.Healthcheck(rdb),
		},
		Logger: log,
	})
	srv := httpserver.NewFromConfig(httpCfg, httpserver.WithLogger(log))

	log.Info("notifier starting",
		slog.String("environment", appCfg.Environment),
		slog.String("http_addr", httpCfg.Addr))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return consumer.Run(gctx, router.AsBrokerHandler())
	})
	g.Go(func() error {
		return srv.Run(gctx, api)
	})

	if err := g.Wait(); err != nil && ctx.Err() == nil {
		return err
	}

	log.Info("notifier stopped cleanly")
	return nil
}
