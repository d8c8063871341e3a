package vote

import (
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/gagliardetto/solana-go"

	"anchor-todo/go-client/internal/anchor"
	"anchor-todo/go-client/internal/transport"
)

// DefaultProgramID is the deployed voting program.
var DefaultProgramID = solana.MustPublicKeyFromBase58("FTeQEfu9uunWyM9EkETP2eJFaeSYY98UE8Y99Ma9zko8")

const (
	MaxNameLength        = 50
	MaxDescriptionLength = 200
	MaxOptions           = 5

	// AccountSize is the space allocated for a poll, discriminator included.
	AccountSize = anchor.DiscriminatorSize + 2170

	pollAccount = "Poll"

	instructionInitialize = "initialize"
	instructionVote       = "vote"
)

// Program errors in declaration order; Anchor numbers them from 6000.
var (
	ErrPollAlreadyFinished = errors.New("poll is already finished")
	ErrPollOptionNotFound  = errors.New("poll option not found")
	ErrUserAlreadyVoted    = errors.New("user has already voted")
	ErrNameTooLong         = errors.New("poll name exceeds 50 characters")
	ErrDescriptionTooLong  = errors.New("poll description exceeds 200 characters")
	ErrTooManyOptions      = errors.New("too many options provided (max 5)")
	ErrPollFull            = errors.New("poll account has no room for another voter")
)

const customErrorBase = 6000

var programErrors = []error{
	ErrPollAlreadyFinished,
	ErrPollOptionNotFound,
	ErrUserAlreadyVoted,
	ErrNameTooLong,
	ErrDescriptionTooLong,
	ErrTooManyOptions,
}

type PollOption struct {
	Label string `json:"label"`
	ID    uint8  `json:"id"`
	Votes uint32 `json:"votes"`
}

type Poll struct {
	Finished    bool               `json:"finished"`
	Name        string             `json:"name"`
	Description string             `json:"description"`
	Options     []PollOption       `json:"options"`
	Voters      []solana.PublicKey `json:"voters"`
}

func DecodePoll(data []byte) (*Poll, error) {
	var p Poll
	if err := anchor.DecodeAccount(pollAccount, data, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// ValidateNewPoll applies the limits the program enforces on initialize.
func ValidateNewPoll(name, description string, options []string) error {
	if len(name) > MaxNameLength {
		return ErrNameTooLong
	}
	if len(description) > MaxDescriptionLength {
		return ErrDescriptionTooLong
	}
	if len(options) > MaxOptions {
		return ErrTooManyOptions
	}
	for i, label := range options {
		if !utf8.ValidString(label) {
			return fmt.Errorf("option %d: label must be valid UTF-8", i)
		}
	}
	return nil
}

// CheckVote mirrors the program's vote preconditions and rejects a vote
// whose voter entry would overflow the poll account.
func (p *Poll) CheckVote(voter solana.PublicKey, optionID uint8) error {
	if p.Finished {
		return ErrPollAlreadyFinished
	}
	if _, ok := p.Option(optionID); !ok {
		return ErrPollOptionNotFound
	}
	if p.HasVoted(voter) {
		return ErrUserAlreadyVoted
	}
	return p.checkCapacity(voter)
}

// checkCapacity reports whether the poll still fits its allocated space once
// voter is appended. The program itself sets no voter limit.
func (p *Poll) checkCapacity(voter solana.PublicKey) error {
	next := *p
	next.Voters = append(append(make([]solana.PublicKey, 0, len(p.Voters)+1), p.Voters...), voter)
	data, err := anchor.EncodeAccount(pollAccount, next, 0)
	if err != nil {
		return err
	}
	if len(data) > AccountSize {
		return fmt.Errorf("%w: %d of %d bytes", ErrPollFull, len(data), AccountSize)
	}
	return nil
}

func (p *Poll) Option(id uint8) (PollOption, bool) {
	for _, o := range p.Options {
		if o.ID == id {
			return o, true
		}
	}
	return PollOption{}, false
}

func (p *Poll) HasVoted(voter solana.PublicKey) bool {
	for _, v := range p.Voters {
		if v.Equals(voter) {
			return true
		}
	}
	return false
}

// TotalVotes sums the option counters.
func (p *Poll) TotalVotes() uint64 {
	var n uint64
	for _, o := range p.Options {
		n += uint64(o.Votes)
	}
	return n
}

// ProgramError maps a custom program error code carried by err to the
// matching sentinel, keeping err in the chain.
func ProgramError(err error) error {
	code, ok := transport.CustomCode(err)
	if !ok || code < customErrorBase || int(code-customErrorBase) >= len(programErrors) {
		return err
	}
	return fmt.Errorf("%w: %w", programErrors[code-customErrorBase], err)
}
