package securestore

import (
	"errors"
	"path/filepath"
	"testing"

	"anchor-todo/go-client/internal/testutil/fsperm"
)

var fastParams = KDFParams{Time: 1, MemoryKB: 1024, Threads: 1}

func TestEncryptDecryptRoundtrip(t *testing.T) {
	data, err := EncryptWithParams("pass", []byte("secret"), fastParams)
	if err != nil {
		t.Fatalf("encrypt failed: %v", err)
	}
	plain, err := Decrypt("pass", data)
	if err != nil {
		t.Fatalf("decrypt failed: %v", err)
	}
	if string(plain) != "secret" {
		t.Fatalf("unexpected plaintext: %q", string(plain))
	}
}

func TestDecryptWithWrongPassphraseFails(t *testing.T) {
	data, err := EncryptWithParams("pass", []byte("secret"), fastParams)
	if err != nil {
		t.Fatalf("encrypt failed: %v", err)
	}
	if _, err := Decrypt("other", data); !errors.Is(err, ErrAuthFailed) {
		t.Fatalf("expected ErrAuthFailed, got %v", err)
	}
}

func TestDecryptTamperedFailsDeterministically(t *testing.T) {
	data, err := EncryptWithParams("pass", []byte("secret"), fastParams)
	if err != nil {
		t.Fatalf("encrypt failed: %v", err)
	}
	data[len(data)-2] ^= 0xFF
	_, err = Decrypt("pass", data)
	if !errors.Is(err, ErrAuthFailed) && !errors.Is(err, ErrInvalid) {
		t.Fatalf("expected ErrAuthFailed or ErrInvalid, got %v", err)
	}
}

func TestDecryptRejectsPlainData(t *testing.T) {
	if _, err := Decrypt("pass", []byte("[1,2,3]")); !errors.Is(err, ErrNotEncrypted) {
		t.Fatalf("expected ErrNotEncrypted, got %v", err)
	}
}

func TestSealRequiresPassphrase(t *testing.T) {
	if _, err := Seal("  ", []byte("secret"), fastParams); !errors.Is(err, ErrPassphraseRequired) {
		t.Fatalf("expected ErrPassphraseRequired, got %v", err)
	}
}

func TestOpenHonoursRecordedParams(t *testing.T) {
	env, err := Seal("pass", []byte("secret"), fastParams)
	if err != nil {
		t.Fatalf("seal failed: %v", err)
	}
	if env.KDFMemoryKB != fastParams.MemoryKB || env.KDFTime != fastParams.Time {
		t.Fatalf("unexpected recorded params: %+v", env)
	}
	plain, err := Open("pass", env)
	if err != nil {
		t.Fatalf("open failed: %v", err)
	}
	if string(plain) != "secret" {
		t.Fatalf("unexpected plaintext: %q", string(plain))
	}

	env.KDFTime = 0
	if _, err := Open("pass", env); !errors.Is(err, ErrInvalid) {
		t.Fatalf("expected ErrInvalid for zero cost, got %v", err)
	}
}

func TestWriteEncryptedFileRoundtrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keys", "id.enc")
	if err := WriteEncryptedFile(path, "pass", []byte("payload")); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	fsperm.AssertPrivateFile(t, path)
	fsperm.AssertPrivateDir(t, filepath.Dir(path))
	plain, err := ReadDecryptedFile(path, "pass")
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if string(plain) != "payload" {
		t.Fatalf("unexpected plaintext: %q", string(plain))
	}
}
