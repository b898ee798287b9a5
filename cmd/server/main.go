package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/DoyleJ11/waitlist/internal/config"
	"github.com/DoyleJ11/waitlist/internal/httpapi"
	"github.com/DoyleJ11/waitlist/internal/hub"
	"github.com/DoyleJ11/waitlist/internal/logging"
	"github.com/DoyleJ11/waitlist/internal/mailer"
	"github.com/DoyleJ11/waitlist/internal/metrics"
	"github.com/DoyleJ11/waitlist/internal/store"
	"github.com/DoyleJ11/waitlist/internal/waitlist"
	"github.com/DoyleJ11/waitlist/internal/web"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, loaded, err := config.Load()
	if err != nil {
		return err
	}

	log, err := logging.New(cfg.Development())
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	if !loaded {
		log.Info(".env not found, using system env")
	}

	db, err := store.Open(cfg.DBDriver, cfg.DatabaseURL, log)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := metrics.New()
	h := hub.NewHub(ctx, hub.WithSubscriberGauge(m.SetSubscribers))

	var mail waitlist.Mailer = mailer.NewLog(log)
	if cfg.SMTPEnabled() {
		mail = mailer.NewSMTP(mailer.Config{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.SMTPUsername,
			Password: cfg.SMTPPassword,
			From:     cfg.MailFrom,
		}, log)
	} else {
		log.Warn("smtp not configured, coupons will only be logged")
	}

	svc := waitlist.NewService(store.NewRepo(db),
		waitlist.WithNotifier(h),
		waitlist.WithMailer(mail),
		waitlist.WithLogger(log),
		waitlist.WithTopLimit(cfg.TopLimit),
		waitlist.WithCouponThreshold(cfg.CouponThreshold),
	)

	pages, err := web.NewPages(httpapi.StaticPrefix)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr: cfg.Addr,
		Handler: httpapi.SetupRoutes(httpapi.Deps{
			Waitlist:  svc,
			Hub:       h,
			Pages:     pages,
			Metrics:   m,
			Log:       log,
			StaticDir: cfg.StaticDir,
		}),
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("listening", zap.String("addr", cfg.Addr), zap.String("db_driver", cfg.DBDriver))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
		return nil
	})

	return g.Wait()
}
