package todo

import (
	"github.com/gagliardetto/solana-go"

	"anchor-todo/go-client/internal/anchor"
	"anchor-todo/go-client/internal/pda"
)

const (
	UserSeed = "USER_STATE"
	TodoSeed = "TODO_STATE"

	userProfileAccount = "UserProfile"
	todoAccount        = "TodoAccount"

	instructionInitializeUser = "initialize_user"
	instructionAddTodo        = "add_todo"
)

// UserProfile is the per-authority counter account.
type UserProfile struct {
	Authority solana.PublicKey `json:"authority"`
	LastTodo  uint8            `json:"last_todo"`
	TodoCount uint8            `json:"todo_count"`
}

// Todo is one entry, addressed by its index under the authority.
type Todo struct {
	Authority solana.PublicKey `json:"authority"`
	Idx       uint8            `json:"idx"`
	Content   string           `json:"content"`
	Marked    bool             `json:"marked"`
}

func UserProfileSeeds(authority solana.PublicKey) [][]byte {
	return [][]byte{[]byte(UserSeed), authority.Bytes()}
}

// TodoSeeds appends the profile's sequence counter so that each todo gets its
// own address.
func TodoSeeds(authority solana.PublicKey, idx uint8) [][]byte {
	return [][]byte{[]byte(TodoSeed), authority.Bytes(), {idx}}
}

func DecodeUserProfile(data []byte) (*UserProfile, error) {
	var p UserProfile
	if err := anchor.DecodeAccount(userProfileAccount, data, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func DecodeTodo(data []byte) (*Todo, error) {
	var t Todo
	if err := anchor.DecodeAccount(todoAccount, data, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

func NewInitializeUserInstruction(programID, authority solana.PublicKey, profile pda.Address) (solana.Instruction, error) {
	return anchor.NewInstruction(programID, instructionInitializeUser, solana.AccountMetaSlice{
		solana.NewAccountMeta(authority, true, true),
		solana.NewAccountMeta(profile.Key, true, false),
		solana.NewAccountMeta(solana.SystemProgramID, false, false),
	})
}

func NewAddTodoInstruction(programID, authority solana.PublicKey, profile, todo pda.Address, content string) (solana.Instruction, error) {
	return anchor.NewInstruction(programID, instructionAddTodo, solana.AccountMetaSlice{
		solana.NewAccountMeta(profile.Key, true, false),
		solana.NewAccountMeta(todo.Key, true, false),
		solana.NewAccountMeta(authority, true, true),
		solana.NewAccountMeta(solana.SystemProgramID, false, false),
	}, content)
}
