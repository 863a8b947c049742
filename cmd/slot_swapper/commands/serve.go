package commands

import (
	"context"
	"errors"
	"sync"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Freeeeeet/slot_swapper/internal/app"
	"github.com/Freeeeeet/slot_swapper/internal/controller/httpapi"
)

func serveCmd() *cobra.Command {
	var (
		migrate bool
		withBot bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API, background audit and (optionally) the Telegram bot",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signalContext()
			defer stop()

			svc, err := openServices(ctx, migrate)
			if err != nil {
				return err
			}
			defer svc.storage.Close()

			if len(cfg.AuthTokens) == 0 {
				logger.Warn("AUTH_TOKENS is empty, every API request will be rejected")
			}

			server := httpapi.NewServer(
				svc.slots,
				svc.exchanges,
				httpapi.NewStaticTokens(cfg.AuthTokens),
				logger,
				httpapi.WithHealthCheck(svc.storage.Ping),
				httpapi.WithRateLimit(cfg.RateRPS, cfg.RateBurst),
			)

			scheduler := app.NewScheduler(svc.audit, cfg.AuditInterval, logger)
			scheduler.Start(ctx)
			defer scheduler.Stop()

			runCtx, cancel := context.WithCancel(ctx)
			defer cancel()

			var (
				wg   sync.WaitGroup
				mu   sync.Mutex
				errs []error
			)
			run := func(name string, fn func(context.Context) error) {
				wg.Add(1)
				go func() {
					defer wg.Done()
					if err := fn(runCtx); err != nil {
						logger.Error("Component failed", zap.String("component", name), zap.Error(err))
						mu.Lock()
						errs = append(errs, err)
						mu.Unlock()
					}
					// Остановка любого компонента останавливает весь процесс
					cancel()
				}()
			}

			run("http", func(ctx context.Context) error { return server.Run(ctx, cfg.HTTPAddr) })

			if withBot {
				if cfg.TelegramToken == "" {
					logger.Info("TELEGRAM_TOKEN is not set, bot is disabled")
				} else {
					run("bot", func(ctx context.Context) error { return runBot(ctx, svc) })
				}
			}

			wg.Wait()
			logger.Info("Shutdown complete")
			return errors.Join(errs...)
		},
	}

	cmd.Flags().BoolVar(&migrate, "migrate", true, "apply PostgreSQL migrations before start")
	cmd.Flags().BoolVar(&withBot, "bot", true, "also run the Telegram bot when TELEGRAM_TOKEN is set")
	return cmd
}
