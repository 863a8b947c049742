package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Freeeeeet/slot_swapper/internal/app"
	"github.com/Freeeeeet/slot_swapper/internal/clock"
	"github.com/Freeeeeet/slot_swapper/internal/config"
	"github.com/Freeeeeet/slot_swapper/internal/service"
)

var (
	cfg    *config.Config
	logger *zap.Logger

	storageDriver string
)

func Execute() error {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return err
	}
	return nil
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "slot_swapper",
		Short:         "Calendar slot exchange service",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			cfg, err = config.Load(map[string]string{"STORAGE_DRIVER": storageDriver})
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			if logger, err = app.NewLogger(cfg.Environment, cfg.LogLevel); err != nil {
				return fmt.Errorf("init logger: %w", err)
			}
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if logger != nil {
				_ = logger.Sync()
			}
		},
	}

	root.PersistentFlags().StringVar(&storageDriver, "storage", "", "storage driver: postgres, sqlite or memory (overrides STORAGE_DRIVER)")

	root.AddCommand(serveCmd(), botCmd(), migrateCmd(), auditCmd())
	return root
}

// signalContext отменяется по SIGINT/SIGTERM
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}

// services доменный слой поверх открытого хранилища
type services struct {
	storage   *app.Storage
	slots     *service.SlotService
	exchanges *service.ExchangeCoordinator
	audit     *service.AuditService
}

func openServices(ctx context.Context, migrate bool) (*services, error) {
	clk := clock.NewSystem()

	storage, err := app.OpenStorage(ctx, cfg, clk, migrate, logger)
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}

	return &services{
		storage:   storage,
		slots:     service.NewSlotService(storage.Slots, logger),
		exchanges: service.NewExchangeCoordinator(storage.Slots, storage.Exchanges, logger),
		audit:     service.NewAuditService(storage.Slots, storage.Exchanges, clk, logger),
	}, nil
}
