package app

import (
	"context"

	"github.com/gagliardetto/solana-go"
)

// DaemonService is the surface the JSON-RPC adapter dispatches to.
type DaemonService interface {
	WalletAddress() solana.PublicKey
	DeriveAddress(programID solana.PublicKey, seeds [][]byte) (ProgramAddress, error)

	InitializeUser(ctx context.Context) (Submission, error)
	AddTodo(ctx context.Context, content string) (Submission, error)
	GetTodo(ctx context.Context, idx uint8) (TodoEntry, error)
	ListTodos(ctx context.Context) ([]TodoEntry, error)
	GetProfile(ctx context.Context) (Profile, error)

	CreatePoll(ctx context.Context, name, description string, options []string) (Submission, error)
	Vote(ctx context.Context, poll solana.PublicKey, optionID uint8) (Submission, error)
	GetPoll(ctx context.Context, poll solana.PublicKey) (PollState, error)
}
