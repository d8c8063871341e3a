package pda

import (
	"bytes"
	"crypto/ed25519"
	"errors"
	"testing"

	"github.com/gagliardetto/solana-go"
)

var testProgramID = solana.MustPublicKeyFromBase58("FTeQEfu9uunWyM9EkETP2eJFaeSYY98UE8Y99Ma9zko8")

func userSeeds(authority []byte) [][]byte {
	return [][]byte{[]byte("USER_STATE"), authority}
}

func testAuthority(b byte) []byte {
	seed := bytes.Repeat([]byte{b}, ed25519.SeedSize)
	return ed25519.NewKeyFromSeed(seed).Public().(ed25519.PublicKey)
}

func TestFindProgramAddressIsDeterministic(t *testing.T) {
	seeds := userSeeds(testAuthority(7))

	first, err := FindProgramAddress(seeds, testProgramID)
	if err != nil {
		t.Fatalf("derive: %v", err)
	}
	second, err := NewDeriver().FindProgramAddress(seeds, testProgramID)
	if err != nil {
		t.Fatalf("derive with fresh deriver: %v", err)
	}
	if first != second {
		t.Fatalf("expected identical results, got %s and %s", first, second)
	}
}

func TestFindProgramAddressMatchesSolanaGo(t *testing.T) {
	cases := [][][]byte{
		userSeeds(testAuthority(1)),
		userSeeds(testAuthority(2)),
		{[]byte("TODO_STATE"), testAuthority(1), {0}},
		{[]byte("TODO_STATE"), testAuthority(1), {9}},
		{},
		{[]byte("")},
	}
	for i, seeds := range cases {
		got, err := FindProgramAddress(seeds, testProgramID)
		if err != nil {
			t.Fatalf("case %d: derive: %v", i, err)
		}
		wantKey, wantBump, err := solana.FindProgramAddress(seeds, testProgramID)
		if err != nil {
			t.Fatalf("case %d: reference derive: %v", i, err)
		}
		if got.Key != wantKey || got.Bump != wantBump {
			t.Fatalf("case %d: expected %s/%d, got %s/%d", i, wantKey, wantBump, got.Key, got.Bump)
		}
	}
}

func TestFindProgramAddressIsOffCurve(t *testing.T) {
	for b := byte(0); b < 32; b++ {
		addr, err := FindProgramAddress(userSeeds(testAuthority(b)), testProgramID)
		if err != nil {
			t.Fatalf("derive: %v", err)
		}
		if IsOnCurve(addr.Key[:]) {
			t.Fatalf("derived address %s is on curve", addr.Key)
		}
	}
}

func TestFindProgramAddressIsSensitiveToEveryInput(t *testing.T) {
	a, err := FindProgramAddress(userSeeds(testAuthority(1)), testProgramID)
	if err != nil {
		t.Fatalf("derive a: %v", err)
	}
	b, err := FindProgramAddress(userSeeds(testAuthority(2)), testProgramID)
	if err != nil {
		t.Fatalf("derive b: %v", err)
	}
	if a.Key == b.Key {
		t.Fatalf("distinct authorities produced the same address %s", a.Key)
	}

	otherProgram := testProgramID
	otherProgram[31] ^= 0x01
	c, err := FindProgramAddress(userSeeds(testAuthority(1)), otherProgram)
	if err != nil {
		t.Fatalf("derive c: %v", err)
	}
	if a.Key == c.Key {
		t.Fatal("changing the program id did not change the address")
	}
}

func TestFindProgramAddressStopsAtFirstOffCurveBump(t *testing.T) {
	d := NewDeriver(WithCurveCheck(func([]byte) bool { return false }))
	seeds := userSeeds(testAuthority(3))

	addr, err := d.FindProgramAddress(seeds, testProgramID)
	if err != nil {
		t.Fatalf("derive: %v", err)
	}
	if addr.Bump != 255 {
		t.Fatalf("expected bump 255, got %d", addr.Bump)
	}
	want, err := d.CreateProgramAddress(append(seeds, []byte{255}), testProgramID)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if addr.Key != want {
		t.Fatalf("expected %s, got %s", want, addr.Key)
	}
}

func TestFindProgramAddressSkipsOnCurveBumps(t *testing.T) {
	calls := 0
	d := NewDeriver(WithCurveCheck(func([]byte) bool {
		calls++
		return calls <= 3
	}))

	addr, err := d.FindProgramAddress(userSeeds(testAuthority(4)), testProgramID)
	if err != nil {
		t.Fatalf("derive: %v", err)
	}
	if addr.Bump != 252 {
		t.Fatalf("expected bump 252, got %d", addr.Bump)
	}
	if calls != 4 {
		t.Fatalf("expected 4 curve checks, got %d", calls)
	}
}

func TestFindProgramAddressReportsExhaustion(t *testing.T) {
	calls := 0
	d := NewDeriver(WithCurveCheck(func([]byte) bool {
		calls++
		return true
	}))

	_, err := d.FindProgramAddress(userSeeds(testAuthority(5)), testProgramID)
	if !errors.Is(err, ErrExhaustedBumpSeed) {
		t.Fatalf("expected ErrExhaustedBumpSeed, got %v", err)
	}
	if calls != 256 {
		t.Fatalf("expected every bump to be tried once, got %d checks", calls)
	}
}

func TestFindProgramAddressDoesNotMutateSeeds(t *testing.T) {
	seeds := make([][]byte, 2, 4)
	seeds[0] = []byte("USER_STATE")
	seeds[1] = testAuthority(6)

	if _, err := FindProgramAddress(seeds, testProgramID); err != nil {
		t.Fatalf("derive: %v", err)
	}
	if len(seeds) != 2 || string(seeds[0]) != "USER_STATE" {
		t.Fatalf("seeds were modified: %q", seeds)
	}
	if extended := seeds[:cap(seeds)]; extended[2] != nil {
		t.Fatal("derive wrote into the caller's backing array")
	}
}

func TestCreateProgramAddressRejectsOversizedSeeds(t *testing.T) {
	_, err := CreateProgramAddress([][]byte{bytes.Repeat([]byte{1}, MaxSeedLength+1)}, testProgramID)
	if !errors.Is(err, ErrMaxSeedLengthExceeded) {
		t.Fatalf("expected ErrMaxSeedLengthExceeded, got %v", err)
	}

	tooMany := make([][]byte, MaxSeeds)
	for i := range tooMany {
		tooMany[i] = []byte{byte(i)}
	}
	if _, err := FindProgramAddress(tooMany, testProgramID); !errors.Is(err, ErrMaxSeedLengthExceeded) {
		t.Fatalf("expected ErrMaxSeedLengthExceeded for %d seeds, got %v", MaxSeeds, err)
	}
}

func TestCreateProgramAddressRejectsOnCurveResult(t *testing.T) {
	d := NewDeriver(WithCurveCheck(func([]byte) bool { return true }))
	if _, err := d.CreateProgramAddress(userSeeds(testAuthority(8)), testProgramID); !errors.Is(err, ErrInvalidSeeds) {
		t.Fatalf("expected ErrInvalidSeeds, got %v", err)
	}
}

func TestIsOnCurve(t *testing.T) {
	if !IsOnCurve(testAuthority(9)) {
		t.Fatal("expected an ed25519 public key to be on curve")
	}
	if IsOnCurve([]byte{1, 2, 3}) {
		t.Fatal("expected short input to be rejected")
	}
}
