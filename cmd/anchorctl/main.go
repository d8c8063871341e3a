package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"anchor-todo/go-client/internal/composition/daemon/servicefactory"
	"anchor-todo/go-client/internal/config"
	"anchor-todo/go-client/internal/pda"
	"anchor-todo/go-client/internal/platform/privacylog"
	"anchor-todo/go-client/internal/transport"
	"anchor-todo/go-client/internal/vote"
)

const (
	exitOK            = 0
	exitInvalidInput  = 10
	exitNetworkFailed = 20
	exitNotFound      = 30
	exitRejected      = 40
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(exitInvalidInput)
	}

	commands := map[string]func([]string){
		"keygen":      runKeygen,
		"address":     runAddress,
		"derive":      runDerive,
		"init-user":   runInitUser,
		"add-todo":    runAddTodo,
		"profile":     runProfile,
		"todos":       runTodos,
		"poll-create": runPollCreate,
		"vote":        runVote,
		"poll":        runPoll,
	}
	run, ok := commands[os.Args[1]]
	if !ok {
		printUsage()
		os.Exit(exitInvalidInput)
	}
	run(os.Args[2:])
	os.Exit(exitOK)
}

// clusterFlags are shared by every command that talks to the cluster.
type clusterFlags struct {
	configPath *string
	keypair    *string
	rpcURL     *string
	timeout    *time.Duration
}

func addClusterFlags(fs *flag.FlagSet) clusterFlags {
	return clusterFlags{
		configPath: fs.String("config", "", "path to config.yaml"),
		keypair:    fs.String("keypair", "", "wallet keypair or keystore path (overrides config)"),
		rpcURL:     fs.String("rpc-url", "", "cluster RPC URL (overrides config)"),
		timeout:    fs.Duration("timeout", 90*time.Second, "overall command timeout"),
	}
}

func (f clusterFlags) load() (config.Config, *slog.Logger) {
	cfg, err := config.LoadFromPath(*f.configPath)
	if err != nil {
		fail(err, exitInvalidInput)
	}
	if *f.keypair != "" {
		cfg.Keypair = *f.keypair
	}
	if *f.rpcURL != "" {
		cfg.RPCURL = *f.rpcURL
	}
	return cfg, privacylog.NewLogger(os.Stderr, cfg.LogLevel).With("service", "anchorctl")
}

func (f clusterFlags) clients() (*servicefactory.Clients, context.Context, context.CancelFunc) {
	cfg, logger := f.load()
	clients, err := servicefactory.BuildClients(cfg, logger, nil)
	if err != nil {
		fail(err, exitInvalidInput)
	}
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	ctx, cancel := context.WithTimeout(ctx, *f.timeout)
	return clients, ctx, func() {
		cancel()
		stop()
	}
}

func parseFlags(fs *flag.FlagSet, args []string) {
	if err := fs.Parse(args); err != nil {
		writeStderrln(err.Error(), exitInvalidInput)
	}
}

// stringList collects a repeatable flag.
type stringList []string

func (l *stringList) String() string { return strings.Join(*l, ",") }

func (l *stringList) Set(v string) error {
	*l = append(*l, v)
	return nil
}

func exitCodeFor(err error) int {
	switch {
	case errors.Is(err, transport.ErrNotFound):
		return exitNotFound
	case errors.Is(err, pda.ErrExhaustedBumpSeed), errors.Is(err, pda.ErrMaxSeedLengthExceeded):
		return exitInvalidInput
	case errors.Is(err, vote.ErrPollAlreadyFinished),
		errors.Is(err, vote.ErrPollOptionNotFound),
		errors.Is(err, vote.ErrUserAlreadyVoted),
		errors.Is(err, vote.ErrNameTooLong),
		errors.Is(err, vote.ErrDescriptionTooLong),
		errors.Is(err, vote.ErrTooManyOptions),
		errors.Is(err, vote.ErrPollFull):
		return exitRejected
	}
	if _, ok := transport.CustomCode(err); ok {
		return exitRejected
	}
	return exitNetworkFailed
}

func fail(err error, exitCode int) {
	writeStderrln("anchorctl: "+err.Error(), exitCode)
}

func printJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		writeStderrln(err.Error(), exitNetworkFailed)
	}
}

func printUsage() {
	lines := []string{
		"anchorctl <command> [flags]",
		"commands:",
		"  keygen       --out <path> [--mnemonic] [--derivation-path m/44'/501'/0'/0'] [--encrypt]",
		"  address      [--config path] [--keypair path]",
		"  derive       --program <id> --seed <seed> [--seed ...]   (seed: str:|b58:|hex:)",
		"  init-user    [cluster flags]",
		"  add-todo     --content <text> [--idx n] [cluster flags]",
		"  profile      [cluster flags]",
		"  todos        [cluster flags]",
		"  poll-create  --name <n> [--description d] --option <label> [--option ...] [cluster flags]",
		"  vote         --poll <address> --option <id> [cluster flags]",
		"  poll         --poll <address> [cluster flags]",
		"cluster flags: --config path --keypair path --rpc-url url --timeout 90s",
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(os.Stdout, line); err != nil {
			os.Exit(exitInvalidInput)
		}
	}
}

func writeStderrln(line string, exitCode int) {
	_, _ = fmt.Fprintln(os.Stderr, line)
	os.Exit(exitCode)
}
