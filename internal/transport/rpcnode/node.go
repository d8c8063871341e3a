// Package rpcnode implements transport.Transport against a Solana JSON-RPC
// endpoint.
package rpcnode

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"golang.org/x/time/rate"

	"anchor-todo/go-client/internal/metrics"
	"anchor-todo/go-client/internal/transport"
	"anchor-todo/go-client/internal/wallet"
)

var (
	ErrMissingSigner     = errors.New("no signer for required account")
	ErrNoInstruction     = errors.New("request has no instruction")
	ErrTransactionFailed = errors.New("transaction failed")
)

// ConfirmConfig controls how long Call waits for the signature to reach the
// node's commitment. A zero Timeout returns right after submission.
type ConfirmConfig struct {
	Timeout      time.Duration
	PollInterval time.Duration
}

type Node struct {
	client     *rpc.Client
	payer      wallet.Signer
	commitment rpc.CommitmentType
	limiter    *rate.Limiter
	confirm    ConfirmConfig
	logger     *slog.Logger
	metrics    *metrics.Recorder
}

type Option func(*Node)

func WithCommitment(c rpc.CommitmentType) Option {
	return func(n *Node) {
		if c != "" {
			n.commitment = c
		}
	}
}

// WithRateLimit throttles outgoing RPC requests. Public endpoints reject
// bursts, so every request waits for a token instead of failing.
func WithRateLimit(rps float64, burst int) Option {
	return func(n *Node) {
		if rps <= 0 || burst <= 0 {
			n.limiter = nil
			return
		}
		n.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

func WithConfirmation(cfg ConfirmConfig) Option {
	return func(n *Node) {
		if cfg.PollInterval <= 0 {
			cfg.PollInterval = 500 * time.Millisecond
		}
		n.confirm = cfg
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(n *Node) {
		if l != nil {
			n.logger = l
		}
	}
}

func WithMetrics(m *metrics.Recorder) Option {
	return func(n *Node) {
		n.metrics = m
	}
}

func New(endpoint string, payer wallet.Signer, opts ...Option) *Node {
	return NewWithClient(rpc.New(endpoint), payer, opts...)
}

func NewWithClient(client *rpc.Client, payer wallet.Signer, opts ...Option) *Node {
	n := &Node{
		client:     client,
		payer:      payer,
		commitment: rpc.CommitmentConfirmed,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Payer returns the fee payer that signs every transaction.
func (n *Node) Payer() wallet.Signer {
	return n.payer
}

func (n *Node) Call(ctx context.Context, req transport.Request) (sig solana.Signature, err error) {
	started := time.Now()
	defer func() {
		n.metrics.ObserveCall(req.Method, err, time.Since(started))
	}()
	if req.Instruction == nil {
		return sig, &transport.Error{Op: "call", Method: req.Method, Err: ErrNoInstruction}
	}

	if err := n.wait(ctx); err != nil {
		return sig, &transport.Error{Op: "call", Method: req.Method, Err: err}
	}
	latest, err := n.client.GetLatestBlockhash(ctx, n.commitment)
	if err != nil {
		return sig, wrapRPCError("blockhash", req.Method, err)
	}

	tx, err := solana.NewTransaction(
		[]solana.Instruction{req.Instruction},
		latest.Value.Blockhash,
		solana.TransactionPayer(n.payer.PublicKey()),
	)
	if err != nil {
		return sig, &transport.Error{Op: "build", Method: req.Method, Err: err}
	}
	signers := append([]wallet.Signer{n.payer}, req.Signers...)
	if err := signTransaction(tx, signers); err != nil {
		return sig, &transport.Error{Op: "sign", Method: req.Method, Err: err}
	}

	if err := n.wait(ctx); err != nil {
		return sig, &transport.Error{Op: "call", Method: req.Method, Err: err}
	}
	sig, err = n.client.SendTransactionWithOpts(ctx, tx, rpc.TransactionOpts{
		PreflightCommitment: n.commitment,
	})
	if err != nil {
		return solana.Signature{}, wrapRPCError("send", req.Method, err)
	}
	n.logger.Debug("transaction submitted", "component", "rpcnode", "method", req.Method, "signature", sig.String(), "payer", n.payer.PublicKey().String())

	if n.confirm.Timeout > 0 {
		if err := n.awaitConfirmation(ctx, req.Method, sig); err != nil {
			return sig, err
		}
	}
	return sig, nil
}

func (n *Node) Fetch(ctx context.Context, address solana.PublicKey) (data []byte, err error) {
	started := time.Now()
	defer func() {
		n.metrics.ObserveCall("fetch", err, time.Since(started))
	}()
	if err := n.wait(ctx); err != nil {
		return nil, &transport.Error{Op: "fetch", Err: err}
	}
	out, err := n.client.GetAccountInfoWithOpts(ctx, address, &rpc.GetAccountInfoOpts{
		Encoding:   solana.EncodingBase64,
		Commitment: n.commitment,
	})
	if errors.Is(err, rpc.ErrNotFound) {
		return nil, &transport.Error{Op: "fetch", Err: fmt.Errorf("%w: %s", transport.ErrNotFound, address)}
	}
	if err != nil {
		return nil, wrapRPCError("fetch", "", err)
	}
	if out == nil || out.Value == nil || out.Value.Data == nil {
		return nil, &transport.Error{Op: "fetch", Err: fmt.Errorf("%w: %s", transport.ErrNotFound, address)}
	}
	return out.Value.Data.GetBinary(), nil
}

func (n *Node) awaitConfirmation(ctx context.Context, method string, sig solana.Signature) error {
	ctx, cancel := context.WithTimeout(ctx, n.confirm.Timeout)
	defer cancel()
	ticker := time.NewTicker(n.confirm.PollInterval)
	defer ticker.Stop()

	for {
		if err := n.wait(ctx); err != nil {
			return &transport.Error{Op: "confirm", Method: method, Err: err}
		}
		out, err := n.client.GetSignatureStatuses(ctx, false, sig)
		switch {
		case err != nil:
			n.logger.Warn("signature status poll failed", "component", "rpcnode", "method", method, "signature", sig.String(), "error", err.Error())
		case len(out.Value) > 0 && out.Value[0] != nil:
			status := out.Value[0]
			if status.Err != nil {
				terr := &transport.Error{Op: "confirm", Method: method, Err: fmt.Errorf("%w: %v", ErrTransactionFailed, status.Err)}
				terr.Custom, terr.HasCustom = customErrorCode(status.Err)
				return terr
			}
			if reachedCommitment(status.ConfirmationStatus, n.commitment) {
				return nil
			}
		}
		select {
		case <-ctx.Done():
			return &transport.Error{Op: "confirm", Method: method, Err: ctx.Err()}
		case <-ticker.C:
		}
	}
}

func (n *Node) wait(ctx context.Context) error {
	if n.limiter == nil {
		return ctx.Err()
	}
	return n.limiter.Wait(ctx)
}

// signTransaction fills one signature per key in the message's signer list.
// Transaction.Sign needs raw private keys, so signing goes through the
// wallet.Signer each key belongs to.
func signTransaction(tx *solana.Transaction, signers []wallet.Signer) error {
	msg, err := tx.Message.MarshalBinary()
	if err != nil {
		return err
	}
	keys := tx.Message.Signers()
	tx.Signatures = make([]solana.Signature, 0, len(keys))
	for _, key := range keys {
		signer := findSigner(signers, key)
		if signer == nil {
			return fmt.Errorf("%w: %s", ErrMissingSigner, key)
		}
		s, err := signer.Sign(msg)
		if err != nil {
			return err
		}
		tx.Signatures = append(tx.Signatures, s)
	}
	return nil
}

func findSigner(signers []wallet.Signer, key solana.PublicKey) wallet.Signer {
	for _, s := range signers {
		if s != nil && s.PublicKey().Equals(key) {
			return s
		}
	}
	return nil
}

var commitmentRank = map[string]int{
	string(rpc.CommitmentProcessed): 1,
	string(rpc.CommitmentConfirmed): 2,
	string(rpc.CommitmentFinalized): 3,
}

func reachedCommitment(status rpc.ConfirmationStatusType, want rpc.CommitmentType) bool {
	got, ok := commitmentRank[string(status)]
	if !ok {
		return false
	}
	need, ok := commitmentRank[string(want)]
	if !ok {
		need = commitmentRank[string(rpc.CommitmentConfirmed)]
	}
	return got >= need
}
