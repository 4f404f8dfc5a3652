package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"

	"pizza-store/internal/cache"
	"pizza-store/internal/cli"
	"pizza-store/internal/config"
	"pizza-store/internal/connections/database"
	"pizza-store/internal/connections/rabbitmq"
	"pizza-store/internal/events"
	"pizza-store/internal/logger"
	"pizza-store/internal/migrations"
	"pizza-store/internal/repository"
	"pizza-store/internal/sequence"
	"pizza-store/internal/service"
)

func main() {
	cfgPath := flag.String("config", "config.yml", "path to YAML config")
	flag.Parse()

	lg := logger.New("pizza-store")

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		lg.Error("config_load_failed", err, map[string]any{"path": *cfgPath})
		os.Exit(1)
	}

	db, err := database.Connect(ctx, cfg.Database)
	if err != nil {
		lg.Error("db_connect_failed", err, nil)
		os.Exit(1)
	}
	defer db.Close()
	lg.Info("db_connected", map[string]any{
		"host": cfg.Database.Host, "port": cfg.Database.Port, "database": cfg.Database.Database,
	})

	if err := migrations.Apply(ctx, db); err != nil {
		lg.Error("migrations_failed", err, nil)
		os.Exit(1)
	}

	var pub events.Publisher = events.Noop{}
	if cfg.RabbitMQ.Host != "" {
		rmq, err := rabbitmq.Dial(cfg.RabbitMQ)
		if err != nil {
			lg.Error("rabbitmq_connect_failed", err, nil)
			os.Exit(1)
		}
		defer rmq.Close()
		pub, err = events.NewAMQP(rmq)
		if err != nil {
			lg.Error("rabbitmq_setup_failed", err, nil)
			os.Exit(1)
		}
		lg.Info("rabbitmq_connected", map[string]any{"host": cfg.RabbitMQ.Host})
	}

	var menuCache cache.MenuCache = cache.Noop{}
	if cfg.Redis.Addr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr})
		if err := rdb.Ping(ctx).Err(); err != nil {
			// the cache is an accelerator, not a dependency
			lg.Error("redis_unavailable", err, map[string]any{"addr": cfg.Redis.Addr})
		} else {
			menuCache = cache.NewRedis(rdb, time.Duration(cfg.Redis.TTLSeconds)*time.Second)
			defer rdb.Close()
			lg.Info("redis_connected", map[string]any{"addr": cfg.Redis.Addr})
		}
	}

	repo := repository.New(db)

	alloc, err := sequence.Seed(ctx, repo.Orders)
	if err != nil {
		lg.Error("allocator_seed_failed", err, nil)
		os.Exit(1)
	}

	svc := service.New(repo, alloc, pub, menuCache, lg)

	session := cli.New(svc, os.Stdin, os.Stdout, lg)
	if err := session.Run(ctx); err != nil && ctx.Err() == nil {
		lg.Error("session_failed", err, nil)
		os.Exit(1)
	}
	lg.Info("session_ended", nil)
}
