package wallet

import (
	"crypto/ed25519"
	"errors"
	"fmt"
	"strings"

	"github.com/gagliardetto/solana-go"
)

var (
	ErrInvalidSecretKey = errors.New("invalid secret key")
	ErrSecretMismatch   = errors.New("secret key does not match its public half")
)

// Signer is the wallet capability the program clients depend on.
type Signer interface {
	PublicKey() solana.PublicKey
	Sign(message []byte) (solana.Signature, error)
}

// Keypair is an in-memory ed25519 signer backed by a solana.PrivateKey.
type Keypair struct {
	priv solana.PrivateKey
	pub  solana.PublicKey
}

// Generate returns a fresh random keypair.
func Generate() (*Keypair, error) {
	priv, err := solana.NewRandomPrivateKey()
	if err != nil {
		return nil, err
	}
	return newKeypair(priv), nil
}

// KeypairFromSeed builds a keypair from a 32-byte ed25519 seed.
func KeypairFromSeed(seed []byte) (*Keypair, error) {
	if len(seed) != ed25519.SeedSize {
		return nil, fmt.Errorf("%w: seed must be %d bytes, got %d", ErrInvalidSecretKey, ed25519.SeedSize, len(seed))
	}
	return newKeypair(solana.PrivateKey(ed25519.NewKeyFromSeed(seed))), nil
}

// KeypairFromSecretKey accepts the 64-byte seed||public layout used by
// Solana tooling and checks that both halves agree.
func KeypairFromSecretKey(secret []byte) (*Keypair, error) {
	if len(secret) != ed25519.PrivateKeySize {
		return nil, fmt.Errorf("%w: expected %d bytes, got %d", ErrInvalidSecretKey, ed25519.PrivateKeySize, len(secret))
	}
	kp, err := KeypairFromSeed(secret[:ed25519.SeedSize])
	if err != nil {
		return nil, err
	}
	if !kp.pub.Equals(solana.PrivateKey(secret).PublicKey()) {
		return nil, ErrSecretMismatch
	}
	return kp, nil
}

// KeypairFromBase58 parses a base58 secret key as exported by browser wallets.
func KeypairFromBase58(encoded string) (*Keypair, error) {
	priv, err := solana.PrivateKeyFromBase58(strings.TrimSpace(encoded))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSecretKey, err)
	}
	return KeypairFromSecretKey(priv)
}

func newKeypair(priv solana.PrivateKey) *Keypair {
	priv = append(solana.PrivateKey(nil), priv...)
	return &Keypair{priv: priv, pub: priv.PublicKey()}
}

func (k *Keypair) PublicKey() solana.PublicKey {
	return k.pub
}

func (k *Keypair) Sign(message []byte) (solana.Signature, error) {
	return k.priv.Sign(message)
}

// SecretKey returns a copy of the 64-byte secret.
func (k *Keypair) SecretKey() []byte {
	return append([]byte(nil), k.priv...)
}

// Base58 encodes the secret key in the browser wallet export format.
func (k *Keypair) Base58() string {
	return k.priv.String()
}
