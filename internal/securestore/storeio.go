package securestore

import (
	"os"
	"path/filepath"
)

// ReadDecryptedFile reads and decrypts file content with the provided passphrase.
func ReadDecryptedFile(path, passphrase string) ([]byte, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Decrypt(passphrase, raw)
}

// WriteEncryptedFile encrypts payload and replaces path through a temp file
// in the same directory.
func WriteEncryptedFile(path, passphrase string, payload []byte) error {
	encrypted, err := Encrypt(passphrase, payload)
	if err != nil {
		return err
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, ".keystore-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.Write(encrypted); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Chmod(0o600); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}
