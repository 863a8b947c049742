package commands

import (
	"context"
	"fmt"

	"github.com/go-telegram/bot"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Freeeeeet/slot_swapper/internal/app"
	"github.com/Freeeeeet/slot_swapper/internal/controller"
)

func botCmd() *cobra.Command {
	var migrate bool

	cmd := &cobra.Command{
		Use:   "bot",
		Short: "Run only the Telegram bot",
		RunE: func(cmd *cobra.Command, args []string) error {
			if cfg.TelegramToken == "" {
				return fmt.Errorf("TELEGRAM_TOKEN is required")
			}

			ctx, stop := signalContext()
			defer stop()

			svc, err := openServices(ctx, migrate)
			if err != nil {
				return err
			}
			defer svc.storage.Close()

			scheduler := app.NewScheduler(svc.audit, cfg.AuditInterval, logger)
			scheduler.Start(ctx)
			defer scheduler.Stop()

			return runBot(ctx, svc)
		},
	}

	cmd.Flags().BoolVar(&migrate, "migrate", true, "apply PostgreSQL migrations before start")
	return cmd
}

// runBot запускает long polling до отмены ctx
func runBot(ctx context.Context, svc *services) error {
	b, err := bot.New(cfg.TelegramToken,
		bot.WithErrorsHandler(func(err error) {
			logger.Warn("Telegram API error", zap.Error(err))
		}),
	)
	if err != nil {
		return fmt.Errorf("create bot: %w", err)
	}

	logger.Info("Bot created", zap.Int("token_length", len(cfg.TelegramToken)))

	botController := controller.NewBotController(b, svc.slots, svc.exchanges, logger)
	if err := botController.RegisterHandlers(ctx); err != nil {
		// Меню команд не критично для работы бота
		logger.Warn("Bot commands menu is not set", zap.Error(err))
	}

	return botController.Start(ctx)
}
