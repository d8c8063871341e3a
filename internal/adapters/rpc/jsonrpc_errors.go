package rpc

import (
	"errors"

	"anchor-todo/go-client/internal/app"
	"anchor-todo/go-client/internal/pda"
	"anchor-todo/go-client/internal/transport"
	"anchor-todo/go-client/internal/vote"
)

const (
	codeParseError     = -32700
	codeInvalidRequest = -32600
	codeMethodNotFound = -32601
	codeInvalidParams  = -32602

	codeServiceError       = -32000
	codeNotFound           = -32004
	codeTransport          = -32010
	codeDerivation         = -32011
	codeRejected           = -32020
	codeServiceUnavailable = -32099
)

var pollRuleErrors = []error{
	vote.ErrPollAlreadyFinished,
	vote.ErrPollOptionNotFound,
	vote.ErrUserAlreadyVoted,
	vote.ErrNameTooLong,
	vote.ErrDescriptionTooLong,
	vote.ErrTooManyOptions,
	vote.ErrPollFull,
}

func rpcInvalidParams() *rpcError {
	return &rpcError{Code: codeInvalidParams, Message: "invalid params"}
}

// mapServiceError picks the most specific code. Poll rule violations win over
// the transport failure that carried them.
func mapServiceError(err error) *rpcError {
	switch {
	case errors.Is(err, transport.ErrNotFound):
		return &rpcError{Code: codeNotFound, Message: err.Error()}
	case errors.Is(err, app.ErrTodoProgramNotConfigured), errors.Is(err, app.ErrVoteProgramNotConfigured):
		return &rpcError{Code: codeServiceUnavailable, Message: err.Error()}
	case errors.Is(err, pda.ErrExhaustedBumpSeed),
		errors.Is(err, pda.ErrMaxSeedLengthExceeded),
		errors.Is(err, pda.ErrInvalidSeeds):
		return &rpcError{Code: codeDerivation, Message: err.Error()}
	}
	for _, rule := range pollRuleErrors {
		if errors.Is(err, rule) {
			return withCustomCode(&rpcError{Code: codeRejected, Message: err.Error()}, err)
		}
	}
	var terr *transport.Error
	if errors.As(err, &terr) {
		return withCustomCode(&rpcError{Code: codeTransport, Message: err.Error()}, err)
	}
	return &rpcError{Code: codeServiceError, Message: err.Error()}
}

func withCustomCode(e *rpcError, err error) *rpcError {
	if code, ok := transport.CustomCode(err); ok {
		e.Data = map[string]uint32{"custom": code}
	}
	return e
}
