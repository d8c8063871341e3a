package rpcnode

import (
	"encoding/json"
	"errors"
	"math"

	"github.com/gagliardetto/solana-go/rpc/jsonrpc"

	"anchor-todo/go-client/internal/transport"
)

func wrapRPCError(op, method string, err error) error {
	terr := &transport.Error{Op: op, Method: method, Err: err}
	var rpcErr *jsonrpc.RPCError
	if errors.As(err, &rpcErr) {
		terr.Custom, terr.HasCustom = customErrorCode(rpcErr.Data)
	}
	return terr
}

// customErrorCode finds {"InstructionError":[i,{"Custom":n}]} inside an RPC
// error payload or a transaction status error.
func customErrorCode(v any) (uint32, bool) {
	switch t := v.(type) {
	case map[string]any:
		if raw, ok := t["Custom"]; ok {
			return asUint32(raw)
		}
		for _, key := range []string{"err", "InstructionError"} {
			if inner, ok := t[key]; ok {
				if code, ok := customErrorCode(inner); ok {
					return code, true
				}
			}
		}
	case []any:
		for _, el := range t {
			if code, ok := customErrorCode(el); ok {
				return code, true
			}
		}
	case json.RawMessage:
		var decoded any
		if err := json.Unmarshal(t, &decoded); err == nil {
			return customErrorCode(decoded)
		}
	}
	return 0, false
}

func asUint32(v any) (uint32, bool) {
	switch n := v.(type) {
	case float64:
		if n < 0 || n > math.MaxUint32 || n != math.Trunc(n) {
			return 0, false
		}
		return uint32(n), true
	case json.Number:
		i, err := n.Int64()
		if err != nil || i < 0 || i > math.MaxUint32 {
			return 0, false
		}
		return uint32(i), true
	case int:
		if n < 0 || int64(n) > math.MaxUint32 {
			return 0, false
		}
		return uint32(n), true
	case uint32:
		return n, true
	}
	return 0, false
}
