// Package transporttest provides an in-memory transport for client tests.
package transporttest

import (
	"context"
	"crypto/sha256"
	"sync"

	"github.com/gagliardetto/solana-go"

	"anchor-todo/go-client/internal/transport"
)

// Recorder captures every Call and serves Fetch from an account map.
type Recorder struct {
	mu       sync.Mutex
	calls    []transport.Request
	fetches  int
	accounts map[solana.PublicKey][]byte

	// CallErr and FetchErr, when set, are returned instead of results.
	CallErr  error
	FetchErr error
	// OnCall runs after a successful Call is recorded.
	OnCall func(req transport.Request)
}

func NewRecorder() *Recorder {
	return &Recorder{accounts: make(map[solana.PublicKey][]byte)}
}

func (r *Recorder) SetAccount(address solana.PublicKey, data []byte) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.accounts[address] = append([]byte(nil), data...)
}

func (r *Recorder) DeleteAccount(address solana.PublicKey) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.accounts, address)
}

func (r *Recorder) Calls() []transport.Request {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]transport.Request(nil), r.calls...)
}

// Fetches counts Fetch invocations made with a live context.
func (r *Recorder) Fetches() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.fetches
}

func (r *Recorder) Call(ctx context.Context, req transport.Request) (solana.Signature, error) {
	if err := ctx.Err(); err != nil {
		return solana.Signature{}, err
	}
	r.mu.Lock()
	if r.CallErr != nil {
		err := r.CallErr
		r.mu.Unlock()
		return solana.Signature{}, err
	}
	r.calls = append(r.calls, req)
	n := len(r.calls)
	hook := r.OnCall
	r.mu.Unlock()

	if hook != nil {
		hook(req)
	}
	return SignatureFor(req.Method, n), nil
}

func (r *Recorder) Fetch(ctx context.Context, address solana.PublicKey) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fetches++
	if r.FetchErr != nil {
		return nil, r.FetchErr
	}
	data, ok := r.accounts[address]
	if !ok {
		return nil, &transport.Error{Op: "fetch", Err: transport.ErrNotFound}
	}
	return append([]byte(nil), data...), nil
}

// SignatureFor is the deterministic signature Recorder returns for the n-th
// call of method.
func SignatureFor(method string, n int) solana.Signature {
	a := sha256.Sum256([]byte{byte(n)})
	b := sha256.Sum256([]byte(method))
	var sig solana.Signature
	copy(sig[:32], a[:])
	copy(sig[32:], b[:])
	return sig
}
