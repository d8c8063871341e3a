package privacylog

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/gagliardetto/solana-go"
)

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var payload map[string]any
	if err := json.Unmarshal(buf.Bytes(), &payload); err != nil {
		t.Fatalf("decode log json: %v", err)
	}
	return payload
}

func TestHandlerRedactsKeyMaterial(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(WrapHandler(slog.NewJSONHandler(&buf, nil)))
	logger.Info("wallet loaded",
		"keystore_passphrase", "hunter2",
		"mnemonic", "abandon abandon about",
		"private_key", "5J3mBbAH58CpQ3Y5RNJpUKPE62SQ5tfcvU2JpbnkeyhfsYB1Jcn",
		"rpc_token", "t0k3n",
		"status", "ok",
	)

	payload := decodeLine(t, &buf)
	for _, key := range []string{"keystore_passphrase", "mnemonic", "private_key", "rpc_token"} {
		if got, _ := payload[key].(string); got != redactedValue {
			t.Fatalf("expected %s redacted, got %q", key, got)
		}
	}
	if payload["status"] != "ok" {
		t.Fatalf("expected status untouched, got %v", payload["status"])
	}
}

func TestHandlerFingerprintsWalletAddresses(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(WrapHandler(slog.NewJSONHandler(&buf, nil)))
	authority := solana.MustPublicKeyFromBase58("FTeQEfu9uunWyM9EkETP2eJFaeSYY98UE8Y99Ma9zko8")
	logger.Info("call", "authority", authority, "profile", authority.String())

	payload := decodeLine(t, &buf)
	if _, ok := payload["authority"]; ok {
		t.Fatal("authority should not be logged in plain form")
	}
	fp, _ := payload["authority_fp"].(string)
	if fp != Fingerprint(authority.String()) {
		t.Fatalf("expected fingerprint of the address, got %q", fp)
	}
	if payload["profile"] != authority.String() {
		t.Fatal("derived addresses should stay readable")
	}
}

func TestHandlerSanitizesPreboundAndGroupedAttrs(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(WrapHandler(slog.NewJSONHandler(&buf, nil))).
		With("payer", "9xQeWvG816bUx9EPjHmaT23yvVM2ZWbrrpZb9PusVFin")
	logger.Info("send", slog.Group("request", "method", "add_todo", "secret", "x"))

	out := buf.String()
	if strings.Contains(out, "9xQeWvG816bUx9EPjHmaT23yvVM2ZWbrrpZb9PusVFin") {
		t.Fatalf("payer leaked: %s", out)
	}
	payload := decodeLine(t, &buf)
	group, ok := payload["request"].(map[string]any)
	if !ok {
		t.Fatalf("expected request group, got %v", payload["request"])
	}
	if group["secret"] != redactedValue || group["method"] != "add_todo" {
		t.Fatalf("unexpected group %v", group)
	}
}

func TestSanitizingHandlerImplementsSlogHandlerContract(t *testing.T) {
	var buf bytes.Buffer
	h := WrapHandler(slog.NewJSONHandler(&buf, nil))
	if !h.Enabled(context.Background(), slog.LevelInfo) {
		t.Fatal("expected handler enabled for info")
	}
	rec := slog.NewRecord(time.Now().UTC(), slog.LevelInfo, "msg", 0)
	rec.AddAttrs(slog.String("signer", "abc"))
	if err := h.Handle(context.Background(), rec); err != nil {
		t.Fatalf("handle failed: %v", err)
	}
	if !strings.Contains(buf.String(), "signer_fp") {
		t.Fatalf("expected fingerprinted signer key, got %s", buf.String())
	}
	if WrapHandler(nil) != nil {
		t.Fatal("expected nil for nil handler")
	}
}

func TestFingerprintIsStableWithinProcess(t *testing.T) {
	if Fingerprint(" abc ") != Fingerprint("abc") {
		t.Fatal("expected whitespace-insensitive fingerprint")
	}
	if Fingerprint("") != "" {
		t.Fatal("expected empty fingerprint for empty input")
	}
}

func TestNewLoggerHonoursLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, "warn")
	logger.Info("dropped")
	if buf.Len() != 0 {
		t.Fatalf("info should be filtered at warn level: %s", buf.String())
	}
	logger.Warn("kept", "passphrase", "x")
	if !strings.Contains(buf.String(), redactedValue) {
		t.Fatalf("expected sanitized output, got %s", buf.String())
	}

	buf.Reset()
	NewLogger(&buf, "chatty").Info("fallback")
	if !strings.Contains(buf.String(), "fallback") {
		t.Fatal("unknown level should fall back to info")
	}
}
