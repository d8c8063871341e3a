package ratelimiter

import (
	"testing"
	"time"
)

func TestNilLimiterAdmitsEverything(t *testing.T) {
	l := New(0, 10, time.Minute)
	if l != nil {
		t.Fatal("expected nil limiter for zero rps")
	}
	for i := 0; i < 100; i++ {
		if ok, _ := l.Allow("client", time.Now()); !ok {
			t.Fatal("nil limiter rejected a request")
		}
	}
}

func TestAllowExhaustsBurstPerKey(t *testing.T) {
	l := New(1, 2, time.Minute)
	now := time.Unix(1_700_000_000, 0)

	for i := 0; i < 2; i++ {
		if ok, _ := l.Allow("a", now); !ok {
			t.Fatalf("request %d rejected within burst", i)
		}
	}
	ok, wait := l.Allow("a", now)
	if ok {
		t.Fatal("expected third request to be rejected")
	}
	if wait <= 0 || wait > time.Second {
		t.Fatalf("unexpected retry delay %s", wait)
	}
	if ok, _ := l.Allow("b", now); !ok {
		t.Fatal("other keys must have their own bucket")
	}
	if ok, _ := l.Allow("a", now.Add(time.Second)); !ok {
		t.Fatal("expected a token after one second")
	}
}

func TestRejectedRequestDoesNotConsumeFutureTokens(t *testing.T) {
	l := New(1, 1, time.Minute)
	now := time.Unix(1_700_000_000, 0)
	l.Allow("a", now)
	for i := 0; i < 5; i++ {
		l.Allow("a", now)
	}
	if ok, _ := l.Allow("a", now.Add(time.Second)); !ok {
		t.Fatal("rejected requests should not push the next token further out")
	}
}

func TestSweepEvictsIdleBuckets(t *testing.T) {
	l := New(5, 5, time.Minute)
	now := time.Unix(1_700_000_000, 0)
	l.Allow("old", now)
	l.Allow("fresh", now.Add(2*time.Minute))

	l.Sweep(now.Add(2 * time.Minute))
	if n := l.Len(); n != 1 {
		t.Fatalf("expected 1 bucket after sweep, got %d", n)
	}
	if ok, _ := l.Allow("", now); !ok {
		t.Fatal("blank keys are not throttled")
	}
}
