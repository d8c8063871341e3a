// Package transport defines the boundary between program clients and the
// component that talks to the cluster.
package transport

import (
	"context"
	"errors"
	"fmt"

	"github.com/gagliardetto/solana-go"

	"anchor-todo/go-client/internal/wallet"
)

// ErrNotFound is returned by Fetch when no account exists at the address.
var ErrNotFound = errors.New("account not found")

// Request is one instruction ready for signing and submission. The payer is
// owned by the transport; Signers lists any additional co-signers.
type Request struct {
	Method      string
	Instruction solana.Instruction
	Signers     []wallet.Signer
}

type Transport interface {
	// Call submits the request and returns the transaction signature.
	Call(ctx context.Context, req Request) (solana.Signature, error)
	// Fetch returns raw account data.
	Fetch(ctx context.Context, address solana.PublicKey) ([]byte, error)
}

// Error wraps a failure reported by the cluster or the network path to it.
type Error struct {
	Op     string
	Method string
	// Custom is the program's custom error code when the failure was an
	// instruction error raised by the program itself.
	Custom    uint32
	HasCustom bool
	Err       error
}

func (e *Error) Error() string {
	prefix := e.Op
	if e.Method != "" {
		prefix += " " + e.Method
	}
	if e.HasCustom {
		return fmt.Sprintf("%s: custom program error 0x%x: %v", prefix, e.Custom, e.Err)
	}
	return fmt.Sprintf("%s: %v", prefix, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// CustomCode extracts a program error code from anywhere in err's chain.
func CustomCode(err error) (uint32, bool) {
	var terr *Error
	if errors.As(err, &terr) && terr.HasCustom {
		return terr.Custom, true
	}
	return 0, false
}
