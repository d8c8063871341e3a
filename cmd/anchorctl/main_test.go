package main

import (
	"errors"
	"flag"
	"fmt"
	"testing"

	"anchor-todo/go-client/internal/pda"
	"anchor-todo/go-client/internal/transport"
	"anchor-todo/go-client/internal/vote"
)

func TestExitCodeFor(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{&transport.Error{Op: "fetch", Err: transport.ErrNotFound}, exitNotFound},
		{pda.ErrExhaustedBumpSeed, exitInvalidInput},
		{fmt.Errorf("%w: %w", vote.ErrUserAlreadyVoted, errors.New("rpc")), exitRejected},
		{&transport.Error{Op: "call", Custom: 6001, HasCustom: true, Err: errors.New("program")}, exitRejected},
		{&transport.Error{Op: "call", Err: errors.New("connection refused")}, exitNetworkFailed},
	}
	for _, tc := range cases {
		if got := exitCodeFor(tc.err); got != tc.want {
			t.Fatalf("%v: expected exit %d, got %d", tc.err, tc.want, got)
		}
	}
}

func TestStringListCollectsRepeatedFlags(t *testing.T) {
	fs := flag.NewFlagSet("t", flag.ContinueOnError)
	var seeds stringList
	fs.Var(&seeds, "seed", "")
	if err := fs.Parse([]string{"--seed", "str:USER_STATE", "--seed", "hex:01"}); err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(seeds) != 2 || seeds.String() != "str:USER_STATE,hex:01" {
		t.Fatalf("unexpected seeds %v", seeds)
	}
}
