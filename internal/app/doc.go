// Package app holds the use cases served by the daemon: it composes the
// wallet with the todo and vote program clients and shapes their results for
// transport-neutral callers.
//
// Non-responsibilities:
// - JSON-RPC/HTTP protocol handling and endpoint-level mapping.
// - Choosing or constructing the chain transport.
package app
