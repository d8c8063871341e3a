// Package servicefactory builds the wallet, transport and program clients
// described by a config.
package servicefactory

import (
	"fmt"
	"log/slog"
	"strings"

	"anchor-todo/go-client/internal/app"
	"anchor-todo/go-client/internal/config"
	"anchor-todo/go-client/internal/metrics"
	"anchor-todo/go-client/internal/todo"
	"anchor-todo/go-client/internal/transport/rpcnode"
	"anchor-todo/go-client/internal/vote"
	"anchor-todo/go-client/internal/wallet"
)

type Clients struct {
	Wallet *wallet.Keypair
	Node   *rpcnode.Node
	// Todos is nil when no todo program id is configured.
	Todos *todo.Client
	Polls *vote.Client
}

// BuildClients loads the wallet and connects both program clients to the
// configured cluster.
func BuildClients(cfg config.Config, logger *slog.Logger, m *metrics.Recorder) (*Clients, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	if strings.TrimSpace(cfg.Keypair) == "" {
		return nil, fmt.Errorf("%w: keypair path is not set", config.ErrInvalidConfig)
	}
	kp, err := wallet.Load(cfg.Keypair, cfg.Passphrase)
	if err != nil {
		return nil, fmt.Errorf("load wallet %s: %w", cfg.Keypair, err)
	}
	return NewClients(cfg, kp, rpcnode.New(cfg.Endpoint(), kp, nodeOptions(cfg, logger, m)...), logger)
}

// NewClients wires program clients around an existing wallet and node.
func NewClients(cfg config.Config, kp *wallet.Keypair, node *rpcnode.Node, logger *slog.Logger) (*Clients, error) {
	if logger == nil {
		logger = slog.Default()
	}
	out := &Clients{Wallet: kp, Node: node}
	if strings.TrimSpace(cfg.TodoProgramID) != "" {
		programID, err := cfg.TodoProgram()
		if err != nil {
			return nil, err
		}
		out.Todos = todo.NewClient(programID, kp, node, todo.WithLogger(logger))
	}
	voteProgram, err := cfg.VoteProgram()
	if err != nil {
		return nil, err
	}
	out.Polls = vote.NewClient(voteProgram, kp, node, vote.WithLogger(logger))
	logger.Info("clients ready", "component", "servicefactory", "endpoint", cfg.Endpoint(),
		"commitment", cfg.Commitment, "authority", kp.PublicKey().String(), "todo_enabled", out.Todos != nil)
	return out, nil
}

// BuildDaemonService composes the daemon use cases from config.
func BuildDaemonService(cfg config.Config, logger *slog.Logger, m *metrics.Recorder) (*app.Service, error) {
	clients, err := BuildClients(cfg, logger, m)
	if err != nil {
		return nil, err
	}
	return app.NewService(clients.Wallet, app.ServiceOptions{
		Todos: clients.Todos,
		Polls: clients.Polls,
	}), nil
}

func nodeOptions(cfg config.Config, logger *slog.Logger, m *metrics.Recorder) []rpcnode.Option {
	return []rpcnode.Option{
		rpcnode.WithCommitment(cfg.CommitmentType()),
		rpcnode.WithRateLimit(cfg.RPCRateLimit.RPS, cfg.RPCRateLimit.Burst),
		rpcnode.WithConfirmation(rpcnode.ConfirmConfig{
			Timeout:      cfg.Confirm.Timeout,
			PollInterval: cfg.Confirm.PollInterval,
		}),
		rpcnode.WithLogger(logger),
		rpcnode.WithMetrics(m),
	}
}
