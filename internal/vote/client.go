// Package vote is the client for the Anchor voting program.
package vote

import (
	"context"
	"log/slog"

	"github.com/gagliardetto/solana-go"

	"anchor-todo/go-client/internal/anchor"
	"anchor-todo/go-client/internal/transport"
	"anchor-todo/go-client/internal/wallet"
)

type Client struct {
	programID  solana.PublicKey
	signer     wallet.Signer
	transport  transport.Transport
	newAccount func() (wallet.Signer, error)
	logger     *slog.Logger
}

type Option func(*Client)

// WithAccountGenerator replaces the keypair source for new poll accounts.
func WithAccountGenerator(gen func() (wallet.Signer, error)) Option {
	return func(c *Client) {
		if gen != nil {
			c.newAccount = gen
		}
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

func NewClient(programID solana.PublicKey, signer wallet.Signer, tr transport.Transport, opts ...Option) *Client {
	c := &Client{
		programID: programID,
		signer:    signer,
		transport: tr,
		newAccount: func() (wallet.Signer, error) {
			return wallet.Generate()
		},
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func NewInitializeInstruction(programID, poll, owner solana.PublicKey, name, description string, options []string) (solana.Instruction, error) {
	if options == nil {
		options = []string{}
	}
	return anchor.NewInstruction(programID, instructionInitialize, solana.AccountMetaSlice{
		solana.NewAccountMeta(poll, true, true),
		solana.NewAccountMeta(owner, true, true),
		solana.NewAccountMeta(solana.SystemProgramID, false, false),
	}, name, description, options)
}

func NewVoteInstruction(programID, poll, voter solana.PublicKey, optionID uint8) (solana.Instruction, error) {
	return anchor.NewInstruction(programID, instructionVote, solana.AccountMetaSlice{
		solana.NewAccountMeta(poll, true, false),
		solana.NewAccountMeta(voter, true, true),
	}, optionID)
}

// CreatePoll allocates a fresh poll account co-signed by a generated keypair
// and returns its address.
func (c *Client) CreatePoll(ctx context.Context, name, description string, options []string) (solana.PublicKey, solana.Signature, error) {
	if err := ValidateNewPoll(name, description, options); err != nil {
		return solana.PublicKey{}, solana.Signature{}, err
	}
	account, err := c.newAccount()
	if err != nil {
		return solana.PublicKey{}, solana.Signature{}, err
	}
	poll := account.PublicKey()
	ix, err := NewInitializeInstruction(c.programID, poll, c.signer.PublicKey(), name, description, options)
	if err != nil {
		return solana.PublicKey{}, solana.Signature{}, err
	}
	sig, err := c.transport.Call(ctx, transport.Request{
		Method:      instructionInitialize,
		Instruction: ix,
		Signers:     []wallet.Signer{account},
	})
	if err != nil {
		return solana.PublicKey{}, solana.Signature{}, ProgramError(err)
	}
	c.logger.Info("poll created", "component", "vote", "operation", instructionInitialize,
		"poll", poll.String(), "options", len(options), "signature", sig.String())
	return poll, sig, nil
}

// Vote checks the poll state locally before submitting, so the common
// rejections do not cost a transaction fee.
func (c *Client) Vote(ctx context.Context, poll solana.PublicKey, optionID uint8) (solana.Signature, error) {
	p, err := c.FetchPoll(ctx, poll)
	if err != nil {
		return solana.Signature{}, err
	}
	if err := p.CheckVote(c.signer.PublicKey(), optionID); err != nil {
		return solana.Signature{}, err
	}
	ix, err := NewVoteInstruction(c.programID, poll, c.signer.PublicKey(), optionID)
	if err != nil {
		return solana.Signature{}, err
	}
	sig, err := c.transport.Call(ctx, transport.Request{Method: instructionVote, Instruction: ix})
	if err != nil {
		return solana.Signature{}, ProgramError(err)
	}
	c.logger.Info("vote cast", "component", "vote", "operation", instructionVote,
		"poll", poll.String(), "option", optionID, "signature", sig.String())
	return sig, nil
}

func (c *Client) FetchPoll(ctx context.Context, poll solana.PublicKey) (*Poll, error) {
	data, err := c.transport.Fetch(ctx, poll)
	if err != nil {
		return nil, err
	}
	return DecodePoll(data)
}
