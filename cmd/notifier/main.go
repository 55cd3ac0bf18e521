package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"go.uber.org/multierr"

	"github.com/tmori/wishnote/internal/config"
	"github.com/tmori/wishnote/internal/database"
	"github.com/tmori/wishnote/internal/logging"
	"github.com/tmori/wishnote/internal/notify"
	"github.com/tmori/wishnote/internal/push"
	"github.com/tmori/wishnote/internal/store"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "notifier: %v\n", err)
		os.Exit(1)
	}
}

func run() (err error) {
	once := flag.Bool("once", false, "run a single sweep and exit, ignoring WISHNOTE_CRON_SPEC")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger := logging.Setup(cfg.LogLevel).With("component", "notifier")

	if err := cfg.ValidateNotifier(); err != nil {
		return err
	}

	db, err := database.Open(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer func() {
		err = multierr.Append(err, db.Close())
	}()

	sender := push.NewService(push.Config{
		VAPIDPublicKey:  cfg.VAPIDPublicKey,
		VAPIDPrivateKey: cfg.VAPIDPrivateKey,
		Subscriber:      cfg.VAPIDSubscriber,
	})

	pushStore := store.NewPushStore(db)
	engine := notify.NewEngine(
		store.NewItemStore(db),
		pushStore,
		store.NewBudgetStore(db),
		sender,
		notify.Config{
			DeadlineWindowDays: cfg.DeadlineWindowDays,
			SendConcurrency:    cfg.SendConcurrency,
			SendTimeout:        cfg.SendTimeout,
			TrashRetentionDays: cfg.TrashRetentionDays,
			Dedupe:             cfg.Dedupe,
		},
		logger,
	)

	if *once || cfg.CronSpec == "" {
		return sweep(context.Background(), engine, pushStore, logger)
	}

	c := cron.New()
	if _, err := c.AddFunc(cfg.CronSpec, func() {
		if err := sweep(context.Background(), engine, pushStore, logger); err != nil {
			logger.Error("scheduled sweep failed", "error", err)
		}
	}); err != nil {
		return fmt.Errorf("parse cron spec %q: %w", cfg.CronSpec, err)
	}
	c.Start()
	logger.Info("notifier running", "cron", cfg.CronSpec)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	<-c.Stop().Done()
	return nil
}

// sweep runs one full pass: the notification engine, then housekeeping.
// Housekeeping failures are logged but do not fail the run; only the
// engine's outcome decides the exit status cron sees.
func sweep(ctx context.Context, engine *notify.Engine, pushStore *store.PushStore, logger *slog.Logger) error {
	runLogger := logger.With("run_id", uuid.NewString())
	now := time.Now()

	res, err := engine.Run(ctx, now)
	if err != nil {
		return fmt.Errorf("notification sweep: %w", err)
	}
	runLogger.Info("notification sweep complete",
		"deadline_notices", res.DeadlineNotices,
		"budget_notices", res.BudgetNotices,
		"deduped", res.Deduped,
		"sent", res.Sent,
		"failed", res.Failed,
		"expired", res.Expired,
	)

	purged, err := engine.PurgeTrash(now)
	if err != nil {
		runLogger.Error("trash purge failed", "error", err)
	} else if purged > 0 {
		runLogger.Info("purged trashed items", "count", purged)
	}

	if err := pushStore.CleanupSent(now.AddDate(0, 0, -30)); err != nil {
		runLogger.Error("sent ledger cleanup failed", "error", err)
	}

	return nil
}
