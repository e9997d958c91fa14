// Package main starts the orderflow gateway: the headless ordering agent for
// the gas and water-gallon delivery backend.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/gasgalon/orderflow/internal/api"
	"github.com/gasgalon/orderflow/internal/cart"
	"github.com/gasgalon/orderflow/internal/checkout"
	"github.com/gasgalon/orderflow/internal/config"
	"github.com/gasgalon/orderflow/internal/courier"
	"github.com/gasgalon/orderflow/internal/handler"
	"github.com/gasgalon/orderflow/internal/model"
	"github.com/gasgalon/orderflow/internal/poller"
	"github.com/gasgalon/orderflow/internal/session"
	"github.com/gasgalon/orderflow/internal/store"
)

func main() {
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	sugar := logger.Sugar()

	cfg, err := config.Parse()
	if err != nil {
		sugar.Fatalw("configuration error", "error", err.Error())
	}

	st, err := store.NewRedisStore(cfg.RedisAddr, cfg.StatePrefix)
	if err != nil {
		sugar.Fatalw("state store initialization error", "error", err.Error())
	}
	defer st.Close()

	client := api.NewClient(cfg.BackendURL, cfg.RequestTimeout)

	sessions := session.NewManager(st, client, logger)
	client.SetTokenSource(sessions)
	client.OnUnauthorized(sessions.Teardown)

	basket := cart.New(st, logger)

	startupCtx, cancelStartup := context.WithTimeout(context.Background(), 10*time.Second)
	sessions.Load(startupCtx)
	basket.Load(startupCtx)
	cancelStartup()

	flow := checkout.NewFlow(basket, sessions, client, cfg.ShippingFee, logger)
	kurir := courier.NewService(client, logger)

	// Only a logged-in customer has active orders to watch.
	customerActive := func() bool {
		sess := sessions.Current()
		return sess != nil && sess.User.Role == model.RoleCustomer
	}
	orders := poller.New(client, cfg.PollInterval, customerActive, logger)

	h := handler.NewHandler(basket, sessions, flow, kurir, orders, client, cfg.ShippingFee, logger)
	r := h.SetupRouter()

	server := &http.Server{
		Addr:    cfg.RunAddress,
		Handler: r,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		orders.Run(ctx)
		return nil
	})

	g.Go(func() error {
		sugar.Infow("starting orderflow gateway", "addr", cfg.RunAddress, "backend", cfg.BackendURL)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		sugar.Info("shutting down gateway...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown error: %w", err)
		}
		sugar.Info("gateway stopped gracefully")
		return nil
	})

	if err := g.Wait(); err != nil {
		sugar.Fatalw("application terminated with error", "error", err)
	}
}
