package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"employee-gateway/app"
	"employee-gateway/config"
	"employee-gateway/employee"
	"employee-gateway/logging"
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
		Use:          "gateway",
		Short:        "Fachada HTTP da API de funcionários com controle de admissão",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			defaults := config.Defaults(":8080")
			cfg, err := config.Load(cfgPath, defaults)
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
	log, closeLog, err := logging.New(cfg.Log, "gateway")
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

	client := employee.NewClient(cfg.UpstreamURL, cfg.UpstreamTimeout, employee.WithLogger(log))
	h := gate.Router(employee.Handler{
		Service: employee.Service{Upstream: client},
		Log:     log,
	}.Routes)

	log.Info("gateway starting",
		zap.String("upstream", cfg.UpstreamURL),
		zap.Bool("admission", cfg.Admission.Enabled),
		zap.Bool("rate", cfg.Rate.Enabled),
		zap.Int("concurrency_max", cfg.Concurrency.Max))

	if err := server.Run(ctx, server.New(cfg.ListenAddr, h), log); err != nil {
		log.Error("server error", zap.Error(err))
		return err
	}
	return nil
}
