// Package config loads client settings from YAML with environment overrides.
package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	ma "github.com/multiformats/go-multiaddr"
)

const (
	ClusterLocalnet    = "localnet"
	ClusterDevnet      = "devnet"
	ClusterTestnet     = "testnet"
	ClusterMainnetBeta = "mainnet-beta"

	DefaultListen = "127.0.0.1:8787"
)

var ErrInvalidConfig = errors.New("invalid config")

var clusterEndpoints = map[string]string{
	ClusterLocalnet:    rpc.LocalNet_RPC,
	ClusterDevnet:      rpc.DevNet_RPC,
	ClusterTestnet:     rpc.TestNet_RPC,
	ClusterMainnetBeta: rpc.MainNetBeta_RPC,
}

type RateLimit struct {
	RPS   float64
	Burst int
}

type Confirm struct {
	Timeout      time.Duration
	PollInterval time.Duration
}

type Daemon struct {
	Listen    string
	RateLimit RateLimit
}

type Config struct {
	Cluster       string
	RPCURL        string
	Commitment    string
	TodoProgramID string
	VoteProgramID string
	Keypair       string
	// Passphrase unlocks an encrypted keystore. Only read from the environment.
	Passphrase   string
	RPCRateLimit RateLimit
	Confirm      Confirm
	Daemon       Daemon
	LogLevel     string
}

func DefaultConfig() Config {
	return Config{
		Cluster:       ClusterDevnet,
		Commitment:    string(rpc.CommitmentConfirmed),
		VoteProgramID: "FTeQEfu9uunWyM9EkETP2eJFaeSYY98UE8Y99Ma9zko8",
		Keypair:       defaultKeypairPath(),
		RPCRateLimit:  RateLimit{RPS: 10, Burst: 20},
		Confirm:       Confirm{Timeout: 60 * time.Second, PollInterval: 500 * time.Millisecond},
		Daemon: Daemon{
			Listen:    DefaultListen,
			RateLimit: RateLimit{RPS: 30, Burst: 60},
		},
		LogLevel: "info",
	}
}

func defaultKeypairPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "solana", "id.json")
}

// Endpoint is the explicit RPC URL or the cluster's public endpoint.
func (c Config) Endpoint() string {
	if strings.TrimSpace(c.RPCURL) != "" {
		return strings.TrimSpace(c.RPCURL)
	}
	return clusterEndpoints[c.Cluster]
}

func (c Config) CommitmentType() rpc.CommitmentType {
	return rpc.CommitmentType(c.Commitment)
}

// TodoProgram parses the todo program id; it has no default deployment.
func (c Config) TodoProgram() (solana.PublicKey, error) {
	if strings.TrimSpace(c.TodoProgramID) == "" {
		return solana.PublicKey{}, fmt.Errorf("%w: todoProgramID is not set", ErrInvalidConfig)
	}
	return parseProgramID("todoProgramID", c.TodoProgramID)
}

func (c Config) VoteProgram() (solana.PublicKey, error) {
	return parseProgramID("voteProgramID", c.VoteProgramID)
}

// ListenAddress returns a host:port for net.Listen, accepting either that
// form directly or a multiaddr such as /ip4/127.0.0.1/tcp/8787.
func (c Config) ListenAddress() (string, error) {
	raw := strings.TrimSpace(c.Daemon.Listen)
	if raw == "" {
		return DefaultListen, nil
	}
	if !strings.HasPrefix(raw, "/") {
		if _, _, err := net.SplitHostPort(raw); err != nil {
			return "", fmt.Errorf("%w: daemon.listen %q: %v", ErrInvalidConfig, raw, err)
		}
		return raw, nil
	}
	addr, err := ma.NewMultiaddr(raw)
	if err != nil {
		return "", fmt.Errorf("%w: daemon.listen %q: %v", ErrInvalidConfig, raw, err)
	}
	port, err := addr.ValueForProtocol(ma.P_TCP)
	if err != nil {
		return "", fmt.Errorf("%w: daemon.listen %q has no tcp component", ErrInvalidConfig, raw)
	}
	for _, proto := range []int{ma.P_IP4, ma.P_IP6, ma.P_DNS, ma.P_DNS4, ma.P_DNS6} {
		if host, err := addr.ValueForProtocol(proto); err == nil {
			return net.JoinHostPort(host, port), nil
		}
	}
	return "", fmt.Errorf("%w: daemon.listen %q has no host component", ErrInvalidConfig, raw)
}

func (c Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.RPCURL) == "" {
		if _, ok := clusterEndpoints[c.Cluster]; !ok {
			errs = append(errs, fmt.Errorf("%w: unknown cluster %q", ErrInvalidConfig, c.Cluster))
		}
	}
	switch rpc.CommitmentType(c.Commitment) {
	case rpc.CommitmentProcessed, rpc.CommitmentConfirmed, rpc.CommitmentFinalized:
	default:
		errs = append(errs, fmt.Errorf("%w: unknown commitment %q", ErrInvalidConfig, c.Commitment))
	}
	if strings.TrimSpace(c.TodoProgramID) != "" {
		if _, err := c.TodoProgram(); err != nil {
			errs = append(errs, err)
		}
	}
	if _, err := c.VoteProgram(); err != nil {
		errs = append(errs, err)
	}
	if c.Confirm.Timeout < 0 || c.Confirm.PollInterval < 0 {
		errs = append(errs, fmt.Errorf("%w: confirm durations must not be negative", ErrInvalidConfig))
	}
	if _, err := c.ListenAddress(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

func parseProgramID(field, raw string) (solana.PublicKey, error) {
	key, err := solana.PublicKeyFromBase58(strings.TrimSpace(raw))
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("%w: %s: %v", ErrInvalidConfig, field, err)
	}
	return key, nil
}
