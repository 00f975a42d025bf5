package main

import (
	"context"
	"fmt"
	"math/rand/v2"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"employee-gateway/app"
	"employee-gateway/config"
	"employee-gateway/logging"
	"employee-gateway/mockapi"
	"employee-gateway/server"
)

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		cfgPath string
		listen  string
	)
	cmd := &cobra.Command{
		Use:          "mock-server",
		Short:        "API de funcionários em memória, protegida pelo controle de admissão",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(cfgPath, config.Defaults(":8112"))
			if err != nil {
				return fmt.Errorf("config error: %w", err)
			}
			if listen != "" {
				cfg.ListenAddr = listen
			}
			return run(cmd.Context(), cfg)
		},
	}
	cmd.Flags().StringVarP(&cfgPath, "config", "c", "", "arquivo YAML de configuração")
	cmd.Flags().StringVar(&listen, "listen", "", "endereço de escuta (sobrepõe config/LISTEN_ADDR)")
	return cmd
}

func run(ctx context.Context, cfg config.Config) error {
	log, closeLog, err := logging.New(cfg.Log, "mock-server")
	if err != nil {
		return err
	}
	defer func() { _ = closeLog() }()

	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	gate, err := app.NewGate(ctx, cfg, log)
	if err != nil {
		log.Error("startup failed", zap.Error(err))
		return err
	}
	defer func() { _ = gate.Close() }()

	r := rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	store := mockapi.NewStore(mockapi.SeedEmployees(r, cfg.Mock.SeedEmployees)...)
	h := gate.Router(mockapi.Handler{Store: store, Log: log}.Routes)

	log.Info("mock server starting", zap.Int("employees", store.Len()))

	if err := server.Run(ctx, server.New(cfg.ListenAddr, h), log); err != nil {
		log.Error("server error", zap.Error(err))
		return err
	}
	return nil
}
