package app

import (
	"errors"

	"github.com/gagliardetto/solana-go"

	"anchor-todo/go-client/internal/todo"
	"anchor-todo/go-client/internal/vote"
)

var (
	ErrTodoProgramNotConfigured = errors.New("todo program id is not configured")
	ErrVoteProgramNotConfigured = errors.New("vote program id is not configured")
)

type ProgramAddress struct {
	Address solana.PublicKey `json:"address"`
	Bump    uint8            `json:"bump"`
}

// Submission is the outcome of a sent transaction. Address names the
// account the instruction created or targeted, when there is one.
type Submission struct {
	Signature solana.Signature  `json:"signature"`
	Address   *solana.PublicKey `json:"address,omitempty"`
}

type Profile struct {
	Address solana.PublicKey `json:"address"`
	todo.UserProfile
}

type TodoEntry struct {
	Address solana.PublicKey `json:"address"`
	todo.Todo
}

type PollState struct {
	Address    solana.PublicKey `json:"address"`
	TotalVotes uint64           `json:"total_votes"`
	vote.Poll
}
