// Package daemonserver wires the daemon service to its JSON-RPC surface.
package daemonserver

import (
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"anchor-todo/go-client/internal/adapters/rpc"
	"anchor-todo/go-client/internal/composition/daemon/servicefactory"
	"anchor-todo/go-client/internal/config"
	"anchor-todo/go-client/internal/metrics"
)

// NewRPCServer loads the wallet, connects to the cluster and returns a server
// ready to Run. The RPC token comes from the environment.
func NewRPCServer(cfg config.Config, logger *slog.Logger) (*rpc.Server, error) {
	addr, err := cfg.ListenAddress()
	if err != nil {
		return nil, err
	}
	token, required, err := rpc.TokenFromEnv()
	if err != nil {
		return nil, err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	svc, err := servicefactory.BuildDaemonService(cfg, logger, m)
	if err != nil {
		return nil, err
	}
	return rpc.NewServer(svc, rpc.Options{
		Addr:         addr,
		Token:        token,
		RequireToken: required,
		RPS:          cfg.Daemon.RateLimit.RPS,
		Burst:        cfg.Daemon.RateLimit.Burst,
		Metrics:      m,
		Gatherer:     reg,
		Logger:       logger,
	}), nil
}
