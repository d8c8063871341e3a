package main

import (
	"errors"
	"flag"
	"os"
	"strings"

	"github.com/gagliardetto/solana-go"

	"anchor-todo/go-client/internal/composition/daemon/servicefactory"
	"anchor-todo/go-client/internal/pda"
	"anchor-todo/go-client/internal/wallet"
)

func runKeygen(args []string) {
	fs := flag.NewFlagSet("keygen", flag.ExitOnError)
	out := fs.String("out", "", "output path")
	useMnemonic := fs.Bool("mnemonic", false, "derive the key from a fresh BIP-39 mnemonic and print it")
	derivationPath := fs.String("derivation-path", "", "SLIP-0010 path for --mnemonic; empty uses the seed directly")
	encrypt := fs.Bool("encrypt", false, "write an encrypted keystore using ANCHOR_KEYSTORE_PASSPHRASE")
	force := fs.Bool("force", false, "overwrite an existing file")
	parseFlags(fs, args)

	if strings.TrimSpace(*out) == "" {
		writeStderrln("--out is required", exitInvalidInput)
	}
	if _, err := os.Stat(*out); err == nil && !*force {
		writeStderrln(*out+" already exists; pass --force to overwrite", exitInvalidInput)
	}

	var (
		kp       *wallet.Keypair
		mnemonic string
		err      error
	)
	if *useMnemonic {
		mnemonic, err = wallet.NewMnemonic()
		if err == nil {
			kp, err = wallet.KeypairFromMnemonic(mnemonic, "", *derivationPath)
		}
	} else {
		kp, err = wallet.Generate()
	}
	if err != nil {
		fail(err, exitInvalidInput)
	}

	if *encrypt {
		passphrase := os.Getenv("ANCHOR_KEYSTORE_PASSPHRASE")
		if passphrase == "" {
			writeStderrln("ANCHOR_KEYSTORE_PASSPHRASE is required with --encrypt", exitInvalidInput)
		}
		err = wallet.SaveKeystore(*out, passphrase, kp)
	} else {
		err = wallet.SaveKeypairFile(*out, kp)
	}
	if err != nil {
		fail(err, exitInvalidInput)
	}

	result := map[string]any{"address": kp.PublicKey().String(), "path": *out, "encrypted": *encrypt}
	if mnemonic != "" {
		result["mnemonic"] = mnemonic
	}
	printJSON(result)
}

func runAddress(args []string) {
	fs := flag.NewFlagSet("address", flag.ExitOnError)
	cf := addClusterFlags(fs)
	parseFlags(fs, args)

	cfg, _ := cf.load()
	kp, err := wallet.Load(cfg.Keypair, cfg.Passphrase)
	if err != nil {
		fail(err, exitInvalidInput)
	}
	printJSON(map[string]string{"address": kp.PublicKey().String()})
}

func runDerive(args []string) {
	fs := flag.NewFlagSet("derive", flag.ExitOnError)
	program := fs.String("program", "", "program id")
	var seedValues stringList
	fs.Var(&seedValues, "seed", "seed (repeatable): str:<text>, b58:<base58>, hex:<hex>")
	parseFlags(fs, args)

	programID, err := solana.PublicKeyFromBase58(strings.TrimSpace(*program))
	if err != nil {
		fail(errors.New("--program must be a base58 program id"), exitInvalidInput)
	}
	seeds, err := pda.ParseSeeds(seedValues)
	if err != nil {
		fail(err, exitInvalidInput)
	}
	addr, err := pda.FindProgramAddress(seeds, programID)
	if err != nil {
		fail(err, exitCodeFor(err))
	}
	printJSON(map[string]any{"address": addr.Key.String(), "bump": addr.Bump})
}

func runInitUser(args []string) {
	fs := flag.NewFlagSet("init-user", flag.ExitOnError)
	cf := addClusterFlags(fs)
	parseFlags(fs, args)

	clients, ctx, done := cf.clients()
	defer done()
	requireTodos(clients)
	profile, err := clients.Todos.UserProfileAddress()
	if err != nil {
		fail(err, exitCodeFor(err))
	}
	sig, err := clients.Todos.InitializeUser(ctx)
	if err != nil {
		fail(err, exitCodeFor(err))
	}
	printJSON(map[string]string{"signature": sig.String(), "profile": profile.Key.String()})
}

func runAddTodo(args []string) {
	fs := flag.NewFlagSet("add-todo", flag.ExitOnError)
	cf := addClusterFlags(fs)
	content := fs.String("content", "", "todo text")
	idx := fs.Int("idx", -1, "explicit sequence number; default reads it from the profile")
	parseFlags(fs, args)

	if *idx > 255 {
		writeStderrln("--idx must be between 0 and 255", exitInvalidInput)
	}
	clients, ctx, done := cf.clients()
	defer done()
	requireTodos(clients)

	var (
		sig solana.Signature
		err error
	)
	if *idx >= 0 {
		sig, err = clients.Todos.AddTodoAt(ctx, uint8(*idx), *content)
	} else {
		sig, err = clients.Todos.AddTodo(ctx, *content)
	}
	if err != nil {
		fail(err, exitCodeFor(err))
	}
	printJSON(map[string]string{"signature": sig.String()})
}

func runProfile(args []string) {
	fs := flag.NewFlagSet("profile", flag.ExitOnError)
	cf := addClusterFlags(fs)
	parseFlags(fs, args)

	clients, ctx, done := cf.clients()
	defer done()
	requireTodos(clients)
	profile, err := clients.Todos.FetchUserProfile(ctx)
	if err != nil {
		fail(err, exitCodeFor(err))
	}
	printJSON(profile)
}

func runTodos(args []string) {
	fs := flag.NewFlagSet("todos", flag.ExitOnError)
	cf := addClusterFlags(fs)
	parseFlags(fs, args)

	clients, ctx, done := cf.clients()
	defer done()
	requireTodos(clients)
	todos, err := clients.Todos.ListTodos(ctx)
	if err != nil {
		fail(err, exitCodeFor(err))
	}
	printJSON(todos)
}

func runPollCreate(args []string) {
	fs := flag.NewFlagSet("poll-create", flag.ExitOnError)
	cf := addClusterFlags(fs)
	name := fs.String("name", "", "poll name")
	description := fs.String("description", "", "poll description")
	var options stringList
	fs.Var(&options, "option", "option label (repeatable)")
	parseFlags(fs, args)

	clients, ctx, done := cf.clients()
	defer done()
	poll, sig, err := clients.Polls.CreatePoll(ctx, *name, *description, options)
	if err != nil {
		fail(err, exitCodeFor(err))
	}
	printJSON(map[string]string{"poll": poll.String(), "signature": sig.String()})
}

func runVote(args []string) {
	fs := flag.NewFlagSet("vote", flag.ExitOnError)
	cf := addClusterFlags(fs)
	pollFlag := fs.String("poll", "", "poll account address")
	option := fs.Uint("option", 0, "option id")
	parseFlags(fs, args)

	poll := parsePoll(*pollFlag)
	if *option > 255 {
		writeStderrln("--option must be between 0 and 255", exitInvalidInput)
	}
	clients, ctx, done := cf.clients()
	defer done()
	sig, err := clients.Polls.Vote(ctx, poll, uint8(*option))
	if err != nil {
		fail(err, exitCodeFor(err))
	}
	printJSON(map[string]string{"signature": sig.String()})
}

func runPoll(args []string) {
	fs := flag.NewFlagSet("poll", flag.ExitOnError)
	cf := addClusterFlags(fs)
	pollFlag := fs.String("poll", "", "poll account address")
	parseFlags(fs, args)

	poll := parsePoll(*pollFlag)
	clients, ctx, done := cf.clients()
	defer done()
	p, err := clients.Polls.FetchPoll(ctx, poll)
	if err != nil {
		fail(err, exitCodeFor(err))
	}
	printJSON(map[string]any{"address": poll.String(), "total_votes": p.TotalVotes(), "poll": p})
}

func parsePoll(raw string) solana.PublicKey {
	poll, err := solana.PublicKeyFromBase58(strings.TrimSpace(raw))
	if err != nil {
		writeStderrln("--poll must be a base58 account address", exitInvalidInput)
	}
	return poll
}

func requireTodos(clients *servicefactory.Clients) {
	if clients.Todos == nil {
		writeStderrln("todoProgramID is not configured (set it in config.yaml or ANCHOR_TODO_PROGRAM_ID)", exitInvalidInput)
	}
}
