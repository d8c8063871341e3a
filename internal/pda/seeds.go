package pda

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/mr-tron/base58"
)

// ParseSeed decodes a textual seed. "str:", "b58:" and "hex:" select the
// encoding; anything else is taken as UTF-8 text.
func ParseSeed(value string) ([]byte, error) {
	prefix, body, found := strings.Cut(value, ":")
	if !found {
		return []byte(value), nil
	}
	switch prefix {
	case "str":
		return []byte(body), nil
	case "b58":
		b, err := base58.Decode(body)
		if err != nil {
			return nil, fmt.Errorf("seed %q: %w", value, err)
		}
		return b, nil
	case "hex":
		b, err := hex.DecodeString(body)
		if err != nil {
			return nil, fmt.Errorf("seed %q: %w", value, err)
		}
		return b, nil
	default:
		return []byte(value), nil
	}
}

func ParseSeeds(values []string) ([][]byte, error) {
	seeds := make([][]byte, 0, len(values))
	for _, v := range values {
		seed, err := ParseSeed(v)
		if err != nil {
			return nil, err
		}
		seeds = append(seeds, seed)
	}
	return seeds, nil
}
