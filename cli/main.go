package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"mindfultube/internal/config"

	"github.com/google/uuid"
	"github.com/jessevdk/go-flags"
)

const (
	exitOK      = 0
	exitFailure = 1
	exitUsage   = 2
)

// globalOptions come before the command verb.
type globalOptions struct {
	Config     string `short:"c" long:"config" value-name:"FILE" description:"YAML config file (default: ./mindfultube.yaml, then ~/.config/mindfultube/mindfultube.yaml)"`
	DataFile   string `long:"data-file" value-name:"FILE" description:"State file (overrides data_file and MINDFULTUBE_DATA_FILE)"`
	DailyLimit int    `long:"daily-limit" value-name:"N" description:"Videos released per daily feed"`
	LogLevel   string `long:"log-level" value-name:"LEVEL" description:"debug, info, warn or error"`
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	var opts globalOptions
	parser := flags.NewParser(&opts, flags.HelpFlag|flags.PassDoubleDash|flags.PassAfterNonOption)
	parser.Name = "mindfultube"
	parser.Usage = "[OPTIONS] <command> [args]"

	rest, err := parser.ParseArgs(args)
	if err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
			printUsage(stdout, parser)
			return exitOK
		}
		fmt.Fprintf(stderr, "Error: %v\n", err)
		printUsage(stderr, parser)
		return exitUsage
	}

	if len(rest) == 0 {
		printUsage(stderr, parser)
		return exitUsage
	}

	verb, cmdArgs := rest[0], rest[1:]
	if verb == "help" {
		printUsage(stdout, parser)
		return exitOK
	}

	cmd, ok := findCommand(verb)
	if !ok {
		fmt.Fprintf(stderr, "Error: unknown command %q\n", verb)
		printUsage(stderr, parser)
		return exitUsage
	}
	// Trailing arguments beyond the command's own are ignored.
	if len(cmdArgs) < len(cmd.args) {
		fmt.Fprintf(stderr, "Usage: mindfultube %s\n", cmd.usage())
		return exitUsage
	}
	cmdArgs = cmdArgs[:len(cmd.args)]

	cfg, err := config.Load(opts.Config, config.Overrides{
		DataFile:   opts.DataFile,
		DailyLimit: opts.DailyLimit,
		LogLevel:   opts.LogLevel,
	})
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitUsage
	}

	a := &app{
		cfg:    cfg,
		logger: newLogger(stderr, cfg, verb),
		out:    stdout,
		now:    time.Now,
	}
	if cfg.Source != "" {
		a.logger.Debug("loaded config file", "path", cfg.Source)
	}

	if err := cmd.run(context.Background(), a, cmdArgs); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitCode(err)
	}
	return exitOK
}

func exitCode(err error) int {
	if errors.Is(err, config.ErrMissingAPIKey) || errors.Is(err, config.ErrInvalidConfig) {
		return exitUsage
	}
	return exitFailure
}

func newLogger(w io.Writer, cfg *config.Config, command string) *slog.Logger {
	level, err := cfg.SlogLevel()
	if err != nil {
		level = slog.LevelInfo
	}
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
	return slog.New(handler).With("run_id", uuid.NewString(), "command", command)
}

func printUsage(w io.Writer, parser *flags.Parser) {
	fmt.Fprintf(w, "mindfultube - a mindful daily feed of your YouTube playlists\n\n")
	parser.WriteHelp(w)
	fmt.Fprintf(w, "\nCommands:\n")
	for _, c := range commands {
		fmt.Fprintf(w, "  %-44s %s\n", c.usage(), c.help)
	}
	fmt.Fprintf(w, "  %-44s %s\n", "help", "Show this help message")
}
