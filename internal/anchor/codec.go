package anchor

import (
	"bytes"
	"crypto/sha256"
	"errors"
	"fmt"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
)

const DiscriminatorSize = 8

var (
	ErrAccountTooShort       = errors.New("account data shorter than discriminator")
	ErrDiscriminatorMismatch = errors.New("account discriminator mismatch")
)

type Discriminator [DiscriminatorSize]byte

func InstructionDiscriminator(name string) Discriminator {
	return discriminator("global:" + name)
}

func AccountDiscriminator(name string) Discriminator {
	return discriminator("account:" + name)
}

func discriminator(preimage string) Discriminator {
	sum := sha256.Sum256([]byte(preimage))
	var d Discriminator
	copy(d[:], sum[:DiscriminatorSize])
	return d
}

// EncodeInstructionData prefixes the Borsh-encoded args with the
// discriminator of the named instruction.
func EncodeInstructionData(name string, args ...any) ([]byte, error) {
	d := InstructionDiscriminator(name)
	buf := bytes.NewBuffer(append([]byte(nil), d[:]...))
	enc := bin.NewBorshEncoder(buf)
	for i, arg := range args {
		if err := enc.Encode(arg); err != nil {
			return nil, fmt.Errorf("encode %s arg %d: %w", name, i, err)
		}
	}
	return buf.Bytes(), nil
}

// NewInstruction builds a ready-to-send instruction for the named handler.
func NewInstruction(programID solana.PublicKey, name string, accounts solana.AccountMetaSlice, args ...any) (solana.Instruction, error) {
	data, err := EncodeInstructionData(name, args...)
	if err != nil {
		return nil, err
	}
	return solana.NewInstruction(programID, accounts, data), nil
}

// DecodeAccount checks the discriminator of the named account type and
// decodes the remainder into v.
func DecodeAccount(name string, data []byte, v any) error {
	if len(data) < DiscriminatorSize {
		return ErrAccountTooShort
	}
	want := AccountDiscriminator(name)
	if !bytes.Equal(data[:DiscriminatorSize], want[:]) {
		return fmt.Errorf("%w: expected %s", ErrDiscriminatorMismatch, name)
	}
	if err := bin.NewBorshDecoder(data[DiscriminatorSize:]).Decode(v); err != nil {
		return fmt.Errorf("decode %s: %w", name, err)
	}
	return nil
}

// EncodeAccount is the inverse of DecodeAccount. On-chain accounts are
// zero-padded to their allocated space; pad reserves that many bytes.
func EncodeAccount(name string, v any, pad int) ([]byte, error) {
	d := AccountDiscriminator(name)
	buf := bytes.NewBuffer(append([]byte(nil), d[:]...))
	if err := bin.NewBorshEncoder(buf).Encode(v); err != nil {
		return nil, fmt.Errorf("encode %s: %w", name, err)
	}
	out := buf.Bytes()
	if pad > len(out) {
		out = append(out, make([]byte, pad-len(out))...)
	}
	return out, nil
}
