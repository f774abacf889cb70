package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/rudder-lab/rudder-trading/internal/bot"
	"github.com/rudder-lab/rudder-trading/internal/config"
	"github.com/rudder-lab/rudder-trading/internal/exchange"
	"github.com/rudder-lab/rudder-trading/internal/logger"
	"github.com/rudder-lab/rudder-trading/internal/server"
	"github.com/rudder-lab/rudder-trading/internal/trader"
	"github.com/rudder-lab/rudder-trading/internal/version"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
)

// runAction wires the configured gateway, trader, ops server and bot, then
// blocks on the bot until the context is cancelled.
func runAction(ctx context.Context, cmd *cli.Command) error {
	if envFile := cmd.String("env-file"); envFile != "" {
		if err := config.LoadEnvFile(envFile); err != nil {
			return err
		}
	}

	cfg, err := config.Load(cmd.String("config"))
	if err != nil {
		return err
	}

	// Flags override the file so a testnet or paper run never needs a
	// second config.
	if cmd.Bool("testnet") {
		cfg.Binance.Testnet = true
	}

	if logFile := cmd.String("log-file"); logFile != "" {
		cfg.Log.File = logFile
	}

	if listen := cmd.String("listen"); listen != "" {
		cfg.Server.Listen = listen
	}

	appLog, err := logger.NewLoggerWithConfig(cfg.Log)
	if err != nil {
		return err
	}

	defer func() {
		_ = appLog.Sync()
	}()

	var gateway exchange.Gateway

	if cmd.Bool("paper") {
		gateway = exchange.NewPaperGateway(cfg.Paper)

		appLog.Info("Paper trading mode enabled")
	} else {
		gateway, err = exchange.NewFuturesGateway(cfg.Binance)
		if err != nil {
			return err
		}

		appLog.Info("Binance futures gateway ready", zap.Bool("testnet", cfg.Binance.Testnet))
	}

	exec := trader.NewTrader(gateway, appLog)

	chatBot, err := bot.NewBot(cfg.Telegram, exec, appLog)
	if err != nil {
		return err
	}

	if cfg.Server.Listen != "" {
		opsServer := server.New(exec, appLog)
		if err := opsServer.Start(cfg.Server.Listen); err != nil {
			return err
		}

		defer func() {
			if err := opsServer.Stop(); err != nil {
				appLog.Error("Failed to stop ops server", zap.Error(err))
			}
		}()
	}

	appLog.Info("rudder started", zap.String("version", version.GetVersion()))

	return chatBot.Run(ctx)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cmd := &cli.Command{
		Name:    "rudder",
		Usage:   "Telegram driven trade execution for Binance USDT margined futures",
		Version: version.GetVersion(),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to the YAML config file",
				Value:   "config.yaml",
			},
			&cli.StringFlag{
				Name:  "env-file",
				Usage: "Dotenv file loaded before the config is read",
			},
			&cli.BoolFlag{
				Name:  "paper",
				Usage: "Trade against the in memory paper exchange instead of Binance",
			},
			&cli.BoolFlag{
				Name:  "testnet",
				Usage: "Use the Binance futures testnet",
			},
			&cli.StringFlag{
				Name:  "log-file",
				Usage: "Write logs to this file in addition to stdout",
			},
			&cli.StringFlag{
				Name:  "listen",
				Usage: "Serve the operational HTTP API on this address",
			},
		},
		Action: runAction,
	}

	if err := cmd.Run(ctx, os.Args); err != nil {
		log.Fatal(err)
	}
}
