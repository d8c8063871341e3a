package wallet

import (
	"errors"
	"fmt"
	"strings"

	"github.com/anyproto/go-slip10"
	"github.com/tyler-smith/go-bip39"
)

// DefaultDerivationPath is the account path used by Solana wallets.
const DefaultDerivationPath = "m/44'/501'/0'/0'"

var (
	ErrInvalidMnemonic       = errors.New("invalid mnemonic")
	ErrMnemonicRequired      = errors.New("mnemonic is required")
	ErrInvalidDerivationPath = errors.New("invalid derivation path")
)

// NewMnemonic returns a fresh 24-word BIP-39 phrase.
func NewMnemonic() (string, error) {
	entropy, err := bip39.NewEntropy(256)
	if err != nil {
		return "", err
	}
	return bip39.NewMnemonic(entropy)
}

// KeypairFromMnemonic recovers a keypair from a BIP-39 phrase. An empty path
// uses the first 32 bytes of the seed, matching solana-keygen recover;
// otherwise the SLIP-0010 ed25519 path is walked.
func KeypairFromMnemonic(mnemonic, passphrase, path string) (*Keypair, error) {
	mnemonic = strings.Join(strings.Fields(mnemonic), " ")
	if mnemonic == "" {
		return nil, ErrMnemonicRequired
	}
	if !bip39.IsMnemonicValid(mnemonic) {
		return nil, ErrInvalidMnemonic
	}
	seed := bip39.NewSeed(mnemonic, passphrase)
	defer zeroBytes(seed)

	path = strings.TrimSpace(path)
	if path == "" {
		return KeypairFromSeed(seed[:32])
	}
	key, err := deriveSLIP10(seed, path)
	if err != nil {
		return nil, err
	}
	defer zeroBytes(key)
	return KeypairFromSeed(key)
}

// deriveSLIP10 walks a hardened-only path; ed25519 has no public child
// derivation.
func deriveSLIP10(seed []byte, path string) ([]byte, error) {
	node, err := slip10.DeriveForPath(path, seed)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrInvalidDerivationPath, path, err)
	}
	return append([]byte(nil), node.RawSeed()...), nil
}

func zeroBytes(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
