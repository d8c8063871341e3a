// Package todo is the client for the Anchor todo program: user profile
// initialization, adding entries, and reading state back.
package todo

import (
	"context"
	"errors"
	"log/slog"

	"github.com/gagliardetto/solana-go"

	"anchor-todo/go-client/internal/pda"
	"anchor-todo/go-client/internal/transport"
	"anchor-todo/go-client/internal/wallet"
)

type Client struct {
	programID solana.PublicKey
	signer    wallet.Signer
	transport transport.Transport
	deriver   *pda.Deriver
	logger    *slog.Logger
}

type Option func(*Client)

func WithDeriver(d *pda.Deriver) Option {
	return func(c *Client) {
		if d != nil {
			c.deriver = d
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
		deriver:   pda.NewDeriver(),
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) ProgramID() solana.PublicKey { return c.programID }

// Authority is the wallet that owns the profile.
func (c *Client) Authority() solana.PublicKey { return c.signer.PublicKey() }

func (c *Client) UserProfileAddress() (pda.Address, error) {
	return c.deriver.FindProgramAddress(UserProfileSeeds(c.Authority()), c.programID)
}

func (c *Client) TodoAddress(idx uint8) (pda.Address, error) {
	return c.deriver.FindProgramAddress(TodoSeeds(c.Authority(), idx), c.programID)
}

func (c *Client) InitializeUser(ctx context.Context) (solana.Signature, error) {
	profile, err := c.UserProfileAddress()
	if err != nil {
		return solana.Signature{}, err
	}
	ix, err := NewInitializeUserInstruction(c.programID, c.Authority(), profile)
	if err != nil {
		return solana.Signature{}, err
	}
	sig, err := c.transport.Call(ctx, transport.Request{Method: instructionInitializeUser, Instruction: ix})
	if err != nil {
		return solana.Signature{}, err
	}
	c.logger.Info("user initialized", "component", "todo", "operation", instructionInitializeUser,
		"authority", c.Authority().String(), "profile", profile.Key.String(), "signature", sig.String())
	return sig, nil
}

// AddTodo reads the profile to learn the next sequence number and then adds
// the entry at that index. It costs two transport calls, a Fetch and a Call;
// callers that already know last_todo should use AddTodoAt.
func (c *Client) AddTodo(ctx context.Context, content string) (solana.Signature, error) {
	profile, err := c.FetchUserProfile(ctx)
	if err != nil {
		return solana.Signature{}, err
	}
	return c.AddTodoAt(ctx, profile.LastTodo, content)
}

// AddTodoAt adds content at an explicit sequence number. The program rejects
// any index other than the profile's current last_todo.
func (c *Client) AddTodoAt(ctx context.Context, idx uint8, content string) (solana.Signature, error) {
	profile, err := c.UserProfileAddress()
	if err != nil {
		return solana.Signature{}, err
	}
	todo, err := c.TodoAddress(idx)
	if err != nil {
		return solana.Signature{}, err
	}
	ix, err := NewAddTodoInstruction(c.programID, c.Authority(), profile, todo, content)
	if err != nil {
		return solana.Signature{}, err
	}
	sig, err := c.transport.Call(ctx, transport.Request{Method: instructionAddTodo, Instruction: ix})
	if err != nil {
		return solana.Signature{}, err
	}
	c.logger.Info("todo added", "component", "todo", "operation", instructionAddTodo,
		"authority", c.Authority().String(), "idx", idx, "signature", sig.String())
	return sig, nil
}

// FetchUserProfile returns transport.ErrNotFound (wrapped) when the user has
// not been initialized.
func (c *Client) FetchUserProfile(ctx context.Context) (*UserProfile, error) {
	profile, err := c.UserProfileAddress()
	if err != nil {
		return nil, err
	}
	data, err := c.transport.Fetch(ctx, profile.Key)
	if err != nil {
		return nil, err
	}
	return DecodeUserProfile(data)
}

func (c *Client) FetchTodo(ctx context.Context, idx uint8) (*Todo, error) {
	addr, err := c.TodoAddress(idx)
	if err != nil {
		return nil, err
	}
	data, err := c.transport.Fetch(ctx, addr.Key)
	if err != nil {
		return nil, err
	}
	return DecodeTodo(data)
}

// ListTodos walks indexes below last_todo. Entries whose accounts were closed
// are skipped.
func (c *Client) ListTodos(ctx context.Context) ([]Todo, error) {
	profile, err := c.FetchUserProfile(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]Todo, 0, profile.TodoCount)
	for idx := 0; idx < int(profile.LastTodo); idx++ {
		t, err := c.FetchTodo(ctx, uint8(idx))
		if errors.Is(err, transport.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		out = append(out, *t)
	}
	return out, nil
}
