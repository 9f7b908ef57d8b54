package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/perbu/faqchat/pkg/assistant"
	"github.com/perbu/faqchat/pkg/chat"
	"github.com/perbu/faqchat/pkg/metrics"
	"github.com/perbu/faqchat/pkg/web"
)

// pruneInterval is how often idle conversations are looked for
const pruneInterval = time.Minute

// Run executes the serve command.
func (c *ServeCmd) Run(deps *Dependencies) error {
	ctx, stop := signal.NotifyContext(deps.Ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	rec := metrics.New(reg)

	a := deps.Assistant(assistant.WithMetrics(rec))
	if !a.FallbackEnabled() {
		deps.Logger.Warn("no API key configured, unmatched questions are referred to support", "support_email", a.SupportEmail())
	}

	srv := web.New(web.Config{
		Addr:          c.Addr,
		Title:         c.Title,
		SessionSecret: c.SessionSecret,
		AccessLog:     c.AccessLog,
	}, a, chat.NewSessions(), rec, reg, deps.Logger)

	go srv.PruneSessions(ctx, pruneInterval, c.SessionIdle)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	deps.Logger.Info("serving FAQ assistant", "addr", c.Addr, "faqs", len(deps.Records), "fallback", a.FallbackEnabled())

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	deps.Logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	deps.Logger.Info("server exited")
	return nil
}
