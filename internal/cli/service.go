package cli

import (
	"context"
	"fmt"
	"strings"

	"fintrack/internal/amqp"
	"fintrack/internal/backend"
	"fintrack/internal/config"
	"fintrack/internal/log"
	"fintrack/internal/services"
	"fintrack/internal/store"
)

// BuildService creates the configured store, connects the optional AMQP
// publisher and returns the transaction service. The cleanup function closes
// whatever was opened and is never nil.
func BuildService(ctx context.Context, cfg *config.Config, logger *log.Logger) (*services.TransactionService, func(), error) {
	var closers []func() error
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			if err := closers[i](); err != nil {
				logger.Warn("Cleanup failed", log.FieldError, err)
			}
		}
	}

	st, closeStore, err := OpenStore(ctx, cfg, logger, cfg.DataBackend)
	if err != nil {
		return nil, cleanup, err
	}
	closers = append(closers, func() error { closeStore(); return nil })

	opts := []services.Option{services.WithLogger(logger)}
	if cfg.AMQPURL != "" {
		client, err := amqp.NewClient(ctx, cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			// Events are optional; the store still works without a broker.
			logger.WithComponent(log.ComponentAMQP).Warn("AMQP unavailable, events disabled",
				log.FieldError, err, log.FieldErrorType, log.ErrorTypeNetwork)
		} else {
			closers = append(closers, client.Close)
			opts = append(opts, services.WithPublisher(client))
			logger.WithComponent(log.ComponentAMQP).Info("AMQP publisher connected",
				"exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
		}
	}

	svc := services.NewTransactionService(st, cfg.MonthlyBudget, opts...)
	return svc, cleanup, nil
}

// OpenStore builds the backend called name using the storage settings of
// cfg. The returned close function is never nil.
func OpenStore(ctx context.Context, cfg *config.Config, logger *log.Logger, name string) (store.Store, func(), error) {
	noop := func() {}
	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		return nil, noop, fmt.Errorf("backend config: %w", err)
	}
	backendCfg.Type = backend.BackendType(strings.ToLower(strings.TrimSpace(name)))

	result, err := backend.NewFactory(logger).CreateBackend(ctx, backendCfg)
	if err != nil {
		return nil, noop, fmt.Errorf("create %s backend: %w", backendCfg.Type, err)
	}
	if result.Cleanup == nil {
		return result.Store, noop, nil
	}
	return result.Store, func() {
		if err := result.Cleanup(); err != nil {
			logger.Warn("Closing backend failed", "backend", backendCfg.Type.String(), log.FieldError, err)
		}
	}, nil
}
