package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"anchor-todo/go-client/internal/composition/daemonserver"
	"anchor-todo/go-client/internal/config"
	"anchor-todo/go-client/internal/platform/privacylog"
)

var (
	version   = "dev"
	commit    = "unknown"
	buildDate = "unknown"
)

func main() {
	showVersion := flag.Bool("version", false, "print version and exit")
	configPath := flag.String("config", "", "Path to config.yaml (optional)")
	listen := flag.String("listen", "", "JSON-RPC listen address, host:port or multiaddr (overrides config)")
	rpcToken := flag.String("rpc-token", "", "RPC token for Authorization/X-Anchor-RPC-Token (optional)")
	keypair := flag.String("keypair", "", "Wallet keypair or keystore path (overrides config)")
	flag.Parse()
	if *showVersion {
		fmt.Printf("anchor-daemon version=%s commit=%s build_date=%s\n", version, commit, buildDate)
		return
	}

	cfg, err := config.LoadFromPath(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "anchor-daemon: %v\n", err)
		os.Exit(1)
	}
	if *listen != "" {
		cfg.Daemon.Listen = *listen
	}
	if *keypair != "" {
		cfg.Keypair = *keypair
	}
	if *rpcToken != "" {
		_ = os.Setenv("ANCHOR_RPC_TOKEN", *rpcToken)
	}

	logger := privacylog.NewLogger(os.Stderr, cfg.LogLevel).With("service", "anchor-daemon")
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv, err := daemonserver.NewRPCServer(cfg, logger)
	if err != nil {
		logger.Error("failed to initialize", "error", err.Error())
		os.Exit(1)
	}

	logger.Info("starting", "version", version, "addr", srv.Addr())
	if err := srv.Run(ctx); err != nil {
		logger.Error("stopped with error", "error", err.Error())
		os.Exit(1)
	}
	logger.Info("stopped")
}
