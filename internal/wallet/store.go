package wallet

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/gagliardetto/solana-go"

	"anchor-todo/go-client/internal/securestore"
)

// LoadKeypairFile reads a Solana CLI keypair file (a JSON array of 64 bytes).
func LoadKeypairFile(path string) (*Keypair, error) {
	priv, err := solana.PrivateKeyFromSolanaKeygenFile(path)
	if err != nil {
		var pathErr *fs.PathError
		if errors.As(err, &pathErr) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidSecretKey, err)
	}
	defer zeroBytes(priv)
	return KeypairFromSecretKey(priv)
}

// SaveKeypairFile writes kp in the Solana CLI format with owner-only access.
func SaveKeypairFile(path string, kp *Keypair) error {
	secret := kp.SecretKey()
	defer zeroBytes(secret)
	ints := make([]int, len(secret))
	for i, b := range secret {
		ints[i] = int(b)
	}
	raw, err := json.Marshal(ints)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}
	return os.WriteFile(path, raw, 0o600)
}

// SaveKeystore writes kp encrypted under passphrase.
func SaveKeystore(path, passphrase string, kp *Keypair) error {
	secret := kp.SecretKey()
	defer zeroBytes(secret)
	return securestore.WriteEncryptedFile(path, passphrase, secret)
}

// LoadKeystore reads a keystore written by SaveKeystore.
func LoadKeystore(path, passphrase string) (*Keypair, error) {
	secret, err := securestore.ReadDecryptedFile(path, passphrase)
	if err != nil {
		return nil, err
	}
	defer zeroBytes(secret)
	return KeypairFromSecretKey(secret)
}

// Load picks the format from the file content: encrypted keystores need a
// passphrase, plain keypair files ignore it.
func Load(path, passphrase string) (*Keypair, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if securestore.IsEncrypted(raw) {
		secret, err := securestore.Decrypt(passphrase, raw)
		if err != nil {
			return nil, fmt.Errorf("open keystore %s: %w", path, err)
		}
		defer zeroBytes(secret)
		return KeypairFromSecretKey(secret)
	}
	return LoadKeypairFile(path)
}
