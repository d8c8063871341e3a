package wallet

import (
	"bytes"
	"crypto/ed25519"
	"encoding/hex"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/tyler-smith/go-bip39"

	"anchor-todo/go-client/internal/securestore"
	"anchor-todo/go-client/internal/testutil/fsperm"
)

func mustGenerate(t *testing.T) *Keypair {
	t.Helper()
	kp, err := Generate()
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	return kp
}

func TestKeypairSignVerifies(t *testing.T) {
	kp := mustGenerate(t)
	msg := []byte("initialize_user")
	sig, err := kp.Sign(msg)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	pub := kp.PublicKey()
	if !ed25519.Verify(ed25519.PublicKey(pub[:]), msg, sig[:]) {
		t.Fatal("signature does not verify")
	}
}

func TestKeypairAgreesWithSolanaPrivateKey(t *testing.T) {
	priv, err := solana.NewRandomPrivateKey()
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	kp, err := KeypairFromBase58(priv.String())
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if !kp.PublicKey().Equals(priv.PublicKey()) {
		t.Fatalf("expected %s, got %s", priv.PublicKey(), kp.PublicKey())
	}
	if kp.Base58() != priv.String() {
		t.Fatal("base58 export differs from solana-go")
	}
	msg := []byte("add_todo")
	sig, err := kp.Sign(msg)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if !sig.Verify(priv.PublicKey(), msg) {
		t.Fatal("signature does not verify against the solana-go public key")
	}
}

func TestKeypairFileRoundtrip(t *testing.T) {
	kp := mustGenerate(t)
	path := filepath.Join(t.TempDir(), "solana", "id.json")
	if err := SaveKeypairFile(path, kp); err != nil {
		t.Fatalf("save: %v", err)
	}
	fsperm.AssertPrivateFile(t, path)
	fsperm.AssertPrivateDir(t, filepath.Dir(path))
	loaded, err := LoadKeypairFile(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !loaded.PublicKey().Equals(kp.PublicKey()) {
		t.Fatalf("expected %s, got %s", kp.PublicKey(), loaded.PublicKey())
	}
}

func TestLoadKeypairFileRejectsOutOfRangeBytes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "id.json")
	if err := os.WriteFile(path, []byte("[256]"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := LoadKeypairFile(path); !errors.Is(err, ErrInvalidSecretKey) {
		t.Fatalf("expected ErrInvalidSecretKey, got %v", err)
	}
}

func TestLoadKeypairFileKeepsMissingFileError(t *testing.T) {
	_, err := LoadKeypairFile(filepath.Join(t.TempDir(), "missing.json"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected os.ErrNotExist, got %v", err)
	}
}

func TestKeypairBase58Roundtrip(t *testing.T) {
	kp := mustGenerate(t)
	parsed, err := KeypairFromBase58(kp.Base58())
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if !parsed.PublicKey().Equals(kp.PublicKey()) {
		t.Fatal("base58 roundtrip changed the key")
	}
}

func TestKeypairFromSecretKeyDetectsMismatch(t *testing.T) {
	a := mustGenerate(t)
	b := mustGenerate(t)
	secret := append(a.SecretKey()[:32], b.PublicKey().Bytes()...)
	if _, err := KeypairFromSecretKey(secret); !errors.Is(err, ErrSecretMismatch) {
		t.Fatalf("expected ErrSecretMismatch, got %v", err)
	}
}

func TestDeriveSLIP10MatchesReferenceVector(t *testing.T) {
	seed, _ := hex.DecodeString("000102030405060708090a0b0c0d0e0f")
	key, err := deriveSLIP10(seed, "m/0'")
	if err != nil {
		t.Fatalf("derive: %v", err)
	}
	want := "68e0fe46dfb67e368c75379acec591dad19df3cde26e63b93a8e704f1dade7a3"
	if got := hex.EncodeToString(key); got != want {
		t.Fatalf("expected %s, got %s", want, got)
	}
}

func TestKeypairFromMnemonic(t *testing.T) {
	mnemonic, err := NewMnemonic()
	if err != nil {
		t.Fatalf("mnemonic: %v", err)
	}

	plain, err := KeypairFromMnemonic(mnemonic, "", "")
	if err != nil {
		t.Fatalf("recover without path: %v", err)
	}
	direct, err := KeypairFromSeed(bip39.NewSeed(mnemonic, "")[:32])
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	if !plain.PublicKey().Equals(direct.PublicKey()) {
		t.Fatal("empty path should use the first 32 seed bytes")
	}

	first, err := KeypairFromMnemonic(mnemonic, "", DefaultDerivationPath)
	if err != nil {
		t.Fatalf("recover with path: %v", err)
	}
	again, err := KeypairFromMnemonic("  "+mnemonic+"\n", "", DefaultDerivationPath)
	if err != nil {
		t.Fatalf("recover with whitespace: %v", err)
	}
	if !first.PublicKey().Equals(again.PublicKey()) {
		t.Fatal("derivation is not deterministic")
	}
	second, err := KeypairFromMnemonic(mnemonic, "", "m/44'/501'/1'/0'")
	if err != nil {
		t.Fatalf("recover second account: %v", err)
	}
	if first.PublicKey().Equals(second.PublicKey()) {
		t.Fatal("distinct accounts derived the same key")
	}
}

func TestKeypairFromMnemonicValidation(t *testing.T) {
	if _, err := KeypairFromMnemonic(" ", "", ""); !errors.Is(err, ErrMnemonicRequired) {
		t.Fatalf("expected ErrMnemonicRequired, got %v", err)
	}
	if _, err := KeypairFromMnemonic("not a real phrase", "", ""); !errors.Is(err, ErrInvalidMnemonic) {
		t.Fatalf("expected ErrInvalidMnemonic, got %v", err)
	}
	mnemonic, err := NewMnemonic()
	if err != nil {
		t.Fatalf("mnemonic: %v", err)
	}
	for _, path := range []string{"44'/501'", "m/44/501'", "m/x'"} {
		if _, err := KeypairFromMnemonic(mnemonic, "", path); !errors.Is(err, ErrInvalidDerivationPath) {
			t.Fatalf("path %q: expected ErrInvalidDerivationPath, got %v", path, err)
		}
	}
}

func TestLoadDetectsFormat(t *testing.T) {
	kp := mustGenerate(t)
	dir := t.TempDir()

	plainPath := filepath.Join(dir, "id.json")
	if err := SaveKeypairFile(plainPath, kp); err != nil {
		t.Fatalf("save plain: %v", err)
	}
	encPath := filepath.Join(dir, "id.enc")
	if err := SaveKeystore(encPath, "correct horse", kp); err != nil {
		t.Fatalf("save keystore: %v", err)
	}

	for _, path := range []string{plainPath, encPath} {
		loaded, err := Load(path, "correct horse")
		if err != nil {
			t.Fatalf("load %s: %v", path, err)
		}
		if !bytes.Equal(loaded.SecretKey(), kp.SecretKey()) {
			t.Fatalf("load %s returned a different key", path)
		}
	}

	if _, err := Load(encPath, "wrong"); !errors.Is(err, securestore.ErrAuthFailed) {
		t.Fatalf("expected ErrAuthFailed, got %v", err)
	}
}
