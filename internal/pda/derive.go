// Package pda derives Solana program-derived addresses and the bump seeds
// that keep them off the ed25519 curve.
package pda

import (
	"crypto/sha256"
	"errors"
	"fmt"

	"filippo.io/edwards25519"
	"github.com/gagliardetto/solana-go"
)

const (
	// MaxSeeds is the number of seeds accepted by the runtime, bump included.
	MaxSeeds = 16
	// MaxSeedLength is the byte limit of a single seed.
	MaxSeedLength = 32

	addressMarker = "ProgramDerivedAddress"
	keyLength     = 32
)

var (
	ErrMaxSeedLengthExceeded = errors.New("max seed length exceeded")
	ErrInvalidSeeds          = errors.New("provided seeds do not result in a valid address")
	ErrExhaustedBumpSeed     = errors.New("unable to find a viable program address bump seed")
)

// Address is a program-derived address together with the bump that pushed it
// off the curve.
type Address struct {
	Key  solana.PublicKey
	Bump uint8
}

func (a Address) String() string {
	return fmt.Sprintf("%s (bump %d)", a.Key, a.Bump)
}

// Deriver computes program-derived addresses. The zero value is not usable;
// construct one with NewDeriver.
type Deriver struct {
	onCurve func([]byte) bool
}

// Option configures a Deriver.
type Option func(*Deriver)

// WithCurveCheck replaces the curve membership predicate.
func WithCurveCheck(onCurve func([]byte) bool) Option {
	return func(d *Deriver) {
		if onCurve != nil {
			d.onCurve = onCurve
		}
	}
}

// NewDeriver returns a Deriver that uses IsOnCurve unless an option
// replaces it.
func NewDeriver(opts ...Option) *Deriver {
	d := &Deriver{onCurve: IsOnCurve}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

var defaultDeriver = NewDeriver()

// CreateProgramAddress hashes the seeds with the program id and rejects
// results that land on the ed25519 curve.
func (d *Deriver) CreateProgramAddress(seeds [][]byte, programID solana.PublicKey) (solana.PublicKey, error) {
	if len(seeds) > MaxSeeds {
		return solana.PublicKey{}, ErrMaxSeedLengthExceeded
	}
	for _, seed := range seeds {
		if len(seed) > MaxSeedLength {
			return solana.PublicKey{}, ErrMaxSeedLengthExceeded
		}
	}

	h := sha256.New()
	for _, seed := range seeds {
		h.Write(seed)
	}
	h.Write(programID[:])
	h.Write([]byte(addressMarker))

	var out solana.PublicKey
	copy(out[:], h.Sum(nil))
	if d.onCurve(out[:]) {
		return solana.PublicKey{}, ErrInvalidSeeds
	}
	return out, nil
}

// FindProgramAddress searches bumps from 255 down to 0 and returns the first
// off-curve address.
func (d *Deriver) FindProgramAddress(seeds [][]byte, programID solana.PublicKey) (Address, error) {
	if len(seeds) >= MaxSeeds {
		return Address{}, ErrMaxSeedLengthExceeded
	}
	withBump := make([][]byte, len(seeds)+1)
	copy(withBump, seeds)
	bump := []byte{0}
	withBump[len(seeds)] = bump

	for b := 255; b >= 0; b-- {
		bump[0] = uint8(b)
		key, err := d.CreateProgramAddress(withBump, programID)
		switch {
		case err == nil:
			return Address{Key: key, Bump: uint8(b)}, nil
		case errors.Is(err, ErrInvalidSeeds):
			continue
		default:
			return Address{}, err
		}
	}
	return Address{}, ErrExhaustedBumpSeed
}

// CreateProgramAddress calls Deriver.CreateProgramAddress on the default
// deriver.
func CreateProgramAddress(seeds [][]byte, programID solana.PublicKey) (solana.PublicKey, error) {
	return defaultDeriver.CreateProgramAddress(seeds, programID)
}

// FindProgramAddress calls Deriver.FindProgramAddress on the default deriver.
func FindProgramAddress(seeds [][]byte, programID solana.PublicKey) (Address, error) {
	return defaultDeriver.FindProgramAddress(seeds, programID)
}

// IsOnCurve reports whether b decodes to a point on edwards25519.
func IsOnCurve(b []byte) bool {
	if len(b) != keyLength {
		return false
	}
	_, err := new(edwards25519.Point).SetBytes(b)
	return err == nil
}
