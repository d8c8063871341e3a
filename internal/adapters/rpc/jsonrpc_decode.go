package rpc

import (
	"encoding/json"
	"errors"
	"math"
	"strings"

	"github.com/gagliardetto/solana-go"

	"anchor-todo/go-client/internal/pda"
)

var errInvalidParams = errors.New("invalid params")

func decodeNoParams(raw json.RawMessage) error {
	trimmed := strings.TrimSpace(string(raw))
	switch trimmed {
	case "", "null", "[]", "{}":
		return nil
	default:
		return errInvalidParams
	}
}

func decodeParamArray(raw json.RawMessage, n int) ([]json.RawMessage, error) {
	var arr []json.RawMessage
	if err := json.Unmarshal(raw, &arr); err != nil || len(arr) != n {
		return nil, errInvalidParams
	}
	return arr, nil
}

func decodeString(raw json.RawMessage, allowEmpty bool) (string, error) {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", errInvalidParams
	}
	if !allowEmpty && strings.TrimSpace(s) == "" {
		return "", errInvalidParams
	}
	return s, nil
}

func decodeUint8(raw json.RawMessage) (uint8, error) {
	var f float64
	if err := json.Unmarshal(raw, &f); err != nil {
		return 0, errInvalidParams
	}
	if f < 0 || f > math.MaxUint8 || f != math.Trunc(f) {
		return 0, errInvalidParams
	}
	return uint8(f), nil
}

func decodePublicKey(raw json.RawMessage) (solana.PublicKey, error) {
	s, err := decodeString(raw, false)
	if err != nil {
		return solana.PublicKey{}, err
	}
	key, err := solana.PublicKeyFromBase58(strings.TrimSpace(s))
	if err != nil {
		return solana.PublicKey{}, errInvalidParams
	}
	return key, nil
}

func decodeDeriveParams(raw json.RawMessage) (solana.PublicKey, [][]byte, error) {
	arr, err := decodeParamArray(raw, 2)
	if err != nil {
		return solana.PublicKey{}, nil, err
	}
	programID, err := decodePublicKey(arr[0])
	if err != nil {
		return solana.PublicKey{}, nil, err
	}
	var values []string
	if err := json.Unmarshal(arr[1], &values); err != nil {
		return solana.PublicKey{}, nil, errInvalidParams
	}
	seeds, err := pda.ParseSeeds(values)
	if err != nil {
		return solana.PublicKey{}, nil, errInvalidParams
	}
	return programID, seeds, nil
}

func decodePollCreateParams(raw json.RawMessage) (name, description string, options []string, err error) {
	arr, err := decodeParamArray(raw, 3)
	if err != nil {
		return "", "", nil, err
	}
	if name, err = decodeString(arr[0], false); err != nil {
		return "", "", nil, err
	}
	if description, err = decodeString(arr[1], true); err != nil {
		return "", "", nil, err
	}
	if err := json.Unmarshal(arr[2], &options); err != nil || len(options) == 0 {
		return "", "", nil, errInvalidParams
	}
	return name, description, options, nil
}

func decodeVoteParams(raw json.RawMessage) (solana.PublicKey, uint8, error) {
	arr, err := decodeParamArray(raw, 2)
	if err != nil {
		return solana.PublicKey{}, 0, err
	}
	poll, err := decodePublicKey(arr[0])
	if err != nil {
		return solana.PublicKey{}, 0, err
	}
	optionID, err := decodeUint8(arr[1])
	if err != nil {
		return solana.PublicKey{}, 0, err
	}
	return poll, optionID, nil
}
