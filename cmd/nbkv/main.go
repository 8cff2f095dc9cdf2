package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"github.com/jessevdk/go-flags"
	"github.com/nbroyles/nbkv/pkg"
	log "github.com/sirupsen/logrus"
)

type Options struct {
	Backend     string `long:"backend" default:"skiplist" choice:"skiplist" choice:"sortedmap" description:"ordered structure backing the store"`
	Seed        int64  `long:"seed" description:"seed for skip list level generation (0 picks one from the clock)"`
	LogLevel    string `long:"log-level" default:"info" description:"logrus level: debug, info, warn, error"`
	AutoCompact int    `long:"auto-compact" default:"0" description:"compact once this many tombstones pile up (0 disables)"`
	HistoryFile string `long:"history-file" default:"/tmp/nbkv.history" description:"readline history file"`
}

func main() {
	var opts Options
	if _, err := flags.Parse(&opts); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	logger := log.New()
	level, err := log.ParseLevel(opts.LogLevel)
	if err != nil {
		logger.Fatalf("invalid log level: %v", err)
	}
	logger.SetLevel(level)

	db, err := openDB(opts, logger)
	if err != nil {
		logger.Fatalf("could not create database: %v", err)
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "nbkv> ",
		HistoryFile:     opts.HistoryFile,
		AutoComplete:    completer(),
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		logger.Fatalf("could not start readline: %v", err)
	}
	defer rl.Close()
	logger.SetOutput(rl.Stderr())

	fmt.Fprintln(rl.Stdout(), "nbkv in-memory store. type 'help' for commands")
	run(db, rl, rl.Stdout())
}

func openDB(opts Options, logger *log.Logger) (*pkg.DB, error) {
	backend, err := pkg.ParseBackend(opts.Backend)
	if err != nil {
		return nil, err
	}

	dbOpts := []pkg.Option{
		pkg.WithBackend(backend),
		pkg.WithLogger(logger),
		pkg.WithAutoCompact(opts.AutoCompact),
	}
	if opts.Seed != 0 {
		dbOpts = append(dbOpts, pkg.WithSeed(opts.Seed))
	}

	return pkg.New(dbOpts...)
}

func run(db *pkg.DB, rl *readline.Instance, out io.Writer) {
	for {
		line, err := rl.Readline()
		if err == readline.ErrInterrupt {
			if len(line) == 0 {
				return
			}
			continue
		} else if err == io.EOF {
			return
		} else if err != nil {
			fmt.Fprintf(out, "error: %v\n", err)
			return
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if err := handleCommand(db, line, out); err == errExit {
			return
		} else if err != nil {
			fmt.Fprintf(out, "error: %v\n", err)
		}
	}
}

func completer() *readline.PrefixCompleter {
	var items []readline.PrefixCompleterInterface
	for _, c := range commands {
		items = append(items, readline.PcItem(c.name))
	}

	return readline.NewPrefixCompleter(items...)
}
