package app

import (
	"context"

	"github.com/gagliardetto/solana-go"

	"anchor-todo/go-client/internal/pda"
	"anchor-todo/go-client/internal/todo"
	"anchor-todo/go-client/internal/vote"
	"anchor-todo/go-client/internal/wallet"
)

// Service implements DaemonService. Either program client may be nil when
// its program id is not configured; the matching methods then fail with
// ErrTodoProgramNotConfigured or ErrVoteProgramNotConfigured.
type Service struct {
	signer  wallet.Signer
	todos   *todo.Client
	polls   *vote.Client
	deriver *pda.Deriver
}

type ServiceOptions struct {
	Todos   *todo.Client
	Polls   *vote.Client
	Deriver *pda.Deriver
}

func NewService(signer wallet.Signer, opts ServiceOptions) *Service {
	s := &Service{
		signer:  signer,
		todos:   opts.Todos,
		polls:   opts.Polls,
		deriver: opts.Deriver,
	}
	if s.deriver == nil {
		s.deriver = pda.NewDeriver()
	}
	return s
}

var _ DaemonService = (*Service)(nil)

func (s *Service) WalletAddress() solana.PublicKey {
	return s.signer.PublicKey()
}

func (s *Service) DeriveAddress(programID solana.PublicKey, seeds [][]byte) (ProgramAddress, error) {
	addr, err := s.deriver.FindProgramAddress(seeds, programID)
	if err != nil {
		return ProgramAddress{}, err
	}
	return ProgramAddress{Address: addr.Key, Bump: addr.Bump}, nil
}

func (s *Service) InitializeUser(ctx context.Context) (Submission, error) {
	if s.todos == nil {
		return Submission{}, ErrTodoProgramNotConfigured
	}
	profile, err := s.todos.UserProfileAddress()
	if err != nil {
		return Submission{}, err
	}
	sig, err := s.todos.InitializeUser(ctx)
	if err != nil {
		return Submission{}, err
	}
	return Submission{Signature: sig, Address: &profile.Key}, nil
}

func (s *Service) AddTodo(ctx context.Context, content string) (Submission, error) {
	if s.todos == nil {
		return Submission{}, ErrTodoProgramNotConfigured
	}
	sig, err := s.todos.AddTodo(ctx, content)
	if err != nil {
		return Submission{}, err
	}
	return Submission{Signature: sig}, nil
}

func (s *Service) GetTodo(ctx context.Context, idx uint8) (TodoEntry, error) {
	if s.todos == nil {
		return TodoEntry{}, ErrTodoProgramNotConfigured
	}
	addr, err := s.todos.TodoAddress(idx)
	if err != nil {
		return TodoEntry{}, err
	}
	t, err := s.todos.FetchTodo(ctx, idx)
	if err != nil {
		return TodoEntry{}, err
	}
	return TodoEntry{Address: addr.Key, Todo: *t}, nil
}

func (s *Service) ListTodos(ctx context.Context) ([]TodoEntry, error) {
	if s.todos == nil {
		return nil, ErrTodoProgramNotConfigured
	}
	todos, err := s.todos.ListTodos(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]TodoEntry, 0, len(todos))
	for _, t := range todos {
		addr, err := s.todos.TodoAddress(t.Idx)
		if err != nil {
			return nil, err
		}
		out = append(out, TodoEntry{Address: addr.Key, Todo: t})
	}
	return out, nil
}

func (s *Service) GetProfile(ctx context.Context) (Profile, error) {
	if s.todos == nil {
		return Profile{}, ErrTodoProgramNotConfigured
	}
	addr, err := s.todos.UserProfileAddress()
	if err != nil {
		return Profile{}, err
	}
	p, err := s.todos.FetchUserProfile(ctx)
	if err != nil {
		return Profile{}, err
	}
	return Profile{Address: addr.Key, UserProfile: *p}, nil
}

func (s *Service) CreatePoll(ctx context.Context, name, description string, options []string) (Submission, error) {
	if s.polls == nil {
		return Submission{}, ErrVoteProgramNotConfigured
	}
	poll, sig, err := s.polls.CreatePoll(ctx, name, description, options)
	if err != nil {
		return Submission{}, err
	}
	return Submission{Signature: sig, Address: &poll}, nil
}

func (s *Service) Vote(ctx context.Context, poll solana.PublicKey, optionID uint8) (Submission, error) {
	if s.polls == nil {
		return Submission{}, ErrVoteProgramNotConfigured
	}
	sig, err := s.polls.Vote(ctx, poll, optionID)
	if err != nil {
		return Submission{}, err
	}
	return Submission{Signature: sig, Address: &poll}, nil
}

func (s *Service) GetPoll(ctx context.Context, poll solana.PublicKey) (PollState, error) {
	if s.polls == nil {
		return PollState{}, ErrVoteProgramNotConfigured
	}
	p, err := s.polls.FetchPoll(ctx, poll)
	if err != nil {
		return PollState{}, err
	}
	return PollState{Address: poll, TotalVotes: p.TotalVotes(), Poll: *p}, nil
}
