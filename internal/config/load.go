package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type fileConfig struct {
	Cluster       string        `yaml:"cluster"`
	RPCURL        string        `yaml:"rpcURL"`
	Commitment    string        `yaml:"commitment"`
	TodoProgramID string        `yaml:"todoProgramID"`
	VoteProgramID string        `yaml:"voteProgramID"`
	Keypair       string        `yaml:"keypair"`
	RPCRateLimit  fileRateLimit `yaml:"rpcRateLimit"`
	Confirm       fileConfirm   `yaml:"confirm"`
	Daemon        fileDaemon    `yaml:"daemon"`
	LogLevel      string        `yaml:"logLevel"`
}

type fileRateLimit struct {
	RPS   *float64 `yaml:"rps"`
	Burst *int     `yaml:"burst"`
}

type fileConfirm struct {
	Timeout      *time.Duration `yaml:"timeout"`
	PollInterval time.Duration  `yaml:"pollInterval"`
}

type fileDaemon struct {
	Listen    string        `yaml:"listen"`
	RateLimit fileRateLimit `yaml:"rateLimit"`
}

// LoadFromPath reads configPath, or the first default location that exists,
// then applies ANCHOR_* environment overrides. A missing default file is not
// an error; an explicit path that cannot be read or parsed is.
func LoadFromPath(configPath string) (Config, error) {
	cfg := DefaultConfig()

	candidates := []string{"configs/config.yaml", "config.yaml"}
	explicit := strings.TrimSpace(configPath) != ""
	if explicit {
		candidates = []string{configPath}
	}

	for _, path := range candidates {
		data, err := os.ReadFile(path)
		if err != nil {
			if explicit {
				return Config{}, fmt.Errorf("read config: %w", err)
			}
			continue
		}
		var parsed fileConfig
		if err := yaml.Unmarshal(data, &parsed); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
		Merge(&cfg, parsed)
		break
	}

	ApplyEnvOverrides(&cfg)
	return cfg, nil
}

func Merge(dst *Config, src fileConfig) {
	if src.Cluster != "" {
		dst.Cluster = src.Cluster
	}
	if src.RPCURL != "" {
		dst.RPCURL = src.RPCURL
	}
	if src.Commitment != "" {
		dst.Commitment = src.Commitment
	}
	if src.TodoProgramID != "" {
		dst.TodoProgramID = src.TodoProgramID
	}
	if src.VoteProgramID != "" {
		dst.VoteProgramID = src.VoteProgramID
	}
	if src.Keypair != "" {
		dst.Keypair = expandHome(src.Keypair)
	}
	mergeRateLimit(&dst.RPCRateLimit, src.RPCRateLimit)
	if src.Confirm.Timeout != nil {
		dst.Confirm.Timeout = *src.Confirm.Timeout
	}
	if src.Confirm.PollInterval != 0 {
		dst.Confirm.PollInterval = src.Confirm.PollInterval
	}
	if src.Daemon.Listen != "" {
		dst.Daemon.Listen = src.Daemon.Listen
	}
	mergeRateLimit(&dst.Daemon.RateLimit, src.Daemon.RateLimit)
	if src.LogLevel != "" {
		dst.LogLevel = src.LogLevel
	}
}

// mergeRateLimit keeps explicit zeros so a file can disable throttling.
func mergeRateLimit(dst *RateLimit, src fileRateLimit) {
	if src.RPS != nil {
		dst.RPS = *src.RPS
	}
	if src.Burst != nil {
		dst.Burst = *src.Burst
	}
}

func ApplyEnvOverrides(cfg *Config) {
	setString := func(key string, dst *string) {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			*dst = v
		}
	}
	setString("ANCHOR_CLUSTER", &cfg.Cluster)
	setString("ANCHOR_RPC_URL", &cfg.RPCURL)
	setString("ANCHOR_COMMITMENT", &cfg.Commitment)
	setString("ANCHOR_TODO_PROGRAM_ID", &cfg.TodoProgramID)
	setString("ANCHOR_VOTE_PROGRAM_ID", &cfg.VoteProgramID)
	setString("ANCHOR_DAEMON_LISTEN", &cfg.Daemon.Listen)
	setString("ANCHOR_LOG_LEVEL", &cfg.LogLevel)
	if v := strings.TrimSpace(os.Getenv("ANCHOR_KEYPAIR")); v != "" {
		cfg.Keypair = expandHome(v)
	}
	if v := os.Getenv("ANCHOR_KEYSTORE_PASSPHRASE"); v != "" {
		cfg.Passphrase = v
	}

	if raw := strings.TrimSpace(os.Getenv("ANCHOR_RPC_RPS")); raw != "" {
		if v, err := strconv.ParseFloat(raw, 64); err == nil && v >= 0 {
			cfg.RPCRateLimit.RPS = v
		}
	}
	if raw := strings.TrimSpace(os.Getenv("ANCHOR_RPC_BURST")); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v >= 0 {
			cfg.RPCRateLimit.Burst = v
		}
	}
	if raw := strings.TrimSpace(os.Getenv("ANCHOR_CONFIRM_TIMEOUT")); raw != "" {
		if v, err := time.ParseDuration(raw); err == nil && v >= 0 {
			cfg.Confirm.Timeout = v
		}
	}
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return home + strings.TrimPrefix(path, "~")
}
