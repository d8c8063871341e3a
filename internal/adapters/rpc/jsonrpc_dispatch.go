package rpc

import (
	"context"
	"encoding/json"
)

func (s *Server) methodTable() map[string]methodHandler {
	return map[string]methodHandler{
		"health_check":    s.rpcHealthCheck,
		"wallet.address":  s.rpcWalletAddress,
		"pda.derive":      s.rpcDeriveAddress,
		"user.initialize": s.rpcInitializeUser,
		"todo.add":        s.rpcAddTodo,
		"todo.get":        s.rpcGetTodo,
		"todo.list":       s.rpcListTodos,
		"profile.get":     s.rpcGetProfile,
		"poll.create":     s.rpcCreatePoll,
		"poll.vote":       s.rpcVote,
		"poll.get":        s.rpcGetPoll,
	}
}

func (s *Server) rpcHealthCheck(context.Context, json.RawMessage) (any, *rpcError) {
	return map[string]string{"status": "ok"}, nil
}

func (s *Server) rpcWalletAddress(_ context.Context, params json.RawMessage) (any, *rpcError) {
	if err := decodeNoParams(params); err != nil {
		return nil, rpcInvalidParams()
	}
	return map[string]string{"address": s.service.WalletAddress().String()}, nil
}

func (s *Server) rpcDeriveAddress(_ context.Context, params json.RawMessage) (any, *rpcError) {
	programID, seeds, err := decodeDeriveParams(params)
	if err != nil {
		return nil, rpcInvalidParams()
	}
	return serviceResult(s.service.DeriveAddress(programID, seeds))
}

func (s *Server) rpcInitializeUser(ctx context.Context, params json.RawMessage) (any, *rpcError) {
	if err := decodeNoParams(params); err != nil {
		return nil, rpcInvalidParams()
	}
	return serviceResult(s.service.InitializeUser(ctx))
}

func (s *Server) rpcAddTodo(ctx context.Context, params json.RawMessage) (any, *rpcError) {
	arr, err := decodeParamArray(params, 1)
	if err != nil {
		return nil, rpcInvalidParams()
	}
	content, err := decodeString(arr[0], true)
	if err != nil {
		return nil, rpcInvalidParams()
	}
	return serviceResult(s.service.AddTodo(ctx, content))
}

func (s *Server) rpcGetTodo(ctx context.Context, params json.RawMessage) (any, *rpcError) {
	arr, err := decodeParamArray(params, 1)
	if err != nil {
		return nil, rpcInvalidParams()
	}
	idx, err := decodeUint8(arr[0])
	if err != nil {
		return nil, rpcInvalidParams()
	}
	return serviceResult(s.service.GetTodo(ctx, idx))
}

func (s *Server) rpcListTodos(ctx context.Context, params json.RawMessage) (any, *rpcError) {
	if err := decodeNoParams(params); err != nil {
		return nil, rpcInvalidParams()
	}
	return serviceResult(s.service.ListTodos(ctx))
}

func (s *Server) rpcGetProfile(ctx context.Context, params json.RawMessage) (any, *rpcError) {
	if err := decodeNoParams(params); err != nil {
		return nil, rpcInvalidParams()
	}
	return serviceResult(s.service.GetProfile(ctx))
}

func (s *Server) rpcCreatePoll(ctx context.Context, params json.RawMessage) (any, *rpcError) {
	name, description, options, err := decodePollCreateParams(params)
	if err != nil {
		return nil, rpcInvalidParams()
	}
	return serviceResult(s.service.CreatePoll(ctx, name, description, options))
}

func (s *Server) rpcVote(ctx context.Context, params json.RawMessage) (any, *rpcError) {
	poll, optionID, err := decodeVoteParams(params)
	if err != nil {
		return nil, rpcInvalidParams()
	}
	return serviceResult(s.service.Vote(ctx, poll, optionID))
}

func (s *Server) rpcGetPoll(ctx context.Context, params json.RawMessage) (any, *rpcError) {
	arr, err := decodeParamArray(params, 1)
	if err != nil {
		return nil, rpcInvalidParams()
	}
	poll, err := decodePublicKey(arr[0])
	if err != nil {
		return nil, rpcInvalidParams()
	}
	return serviceResult(s.service.GetPoll(ctx, poll))
}

func serviceResult[T any](result T, err error) (any, *rpcError) {
	if err != nil {
		return nil, mapServiceError(err)
	}
	return result, nil
}
