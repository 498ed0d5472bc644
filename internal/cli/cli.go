package cli

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/vk/keydeck/internal/app"
	"github.com/vk/keydeck/internal/deck"
)

// Exit codes.
const (
	ExitFailure = 1
	ExitUsage   = 2
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// stringList collects a repeatable flag.
type stringList []string

func (s *stringList) String() string { return strings.Join(*s, ",") }

func (s *stringList) Set(v string) error {
	*s = append(*s, v)
	return nil
}

// Parse processes command-line arguments. It returns a populated Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")
	flagSet := flag.NewFlagSet("keydeck", flag.ContinueOnError)
	flagSet.SetOutput(output)

	flagSet.Usage = func() {
		fmt.Fprint(output, `
keydeck - parse and query fixed-column keyword decks.

Usage:
  keydeck [options] [DECK_PATH]

Arguments:
  DECK_PATH
    Path to the keyword file, optionally compressed (.gz, .zst, .br).
    Use - to read standard input.

Examples:
  keydeck model.k
  keydeck -keyword PART -where PID=100 model.k
  keydeck -formats cards/ -export json -out model.json model.k.gz

Options:
`)
		flagSet.PrintDefaults()
	}

	var formatPaths, where stringList
	deckFlag := flagSet.String("deck", "", "Path to the keyword file.")
	dFlag := flagSet.String("d", "", "Path to the keyword file (shorthand).")
	flagSet.Var(&formatPaths, "formats", "User card definitions: a .hcl file or a directory. Repeatable.")
	logFormatFlag := flagSet.String("log-format", "text", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "warn", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")
	keywordFlag := flagSet.String("keyword", "", "Print the cards under this keyword.")
	flagSet.Var(&where, "where", "With -keyword, print the first card with FIELD=VALUE. Repeatable.")
	exportFlag := flagSet.String("export", "", "Export the deck. Options: 'json', 'yaml', 'msgpack'.")
	outFlag := flagSet.String("out", "", "Export destination file. Defaults to standard output.")
	summaryFlag := flagSet.Bool("summary", false, "Print card counts per keyword. The default when no other action is given.")
	shellFlag := flagSet.Bool("shell", false, "Start an interactive query shell after loading.")
	commentFlag := flagSet.String("comment", deck.DefaultCommentMarker, "Prefix of comment lines.")
	keywordMarkerFlag := flagSet.String("keyword-marker", deck.DefaultKeywordMarker, "Prefix of keyword lines.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: ExitUsage, Message: err.Error()}
	}
	slog.Debug("Arguments parsed successfully.")

	path := ""
	if *deckFlag != "" {
		path = *deckFlag
	} else if *dFlag != "" {
		path = *dFlag
	} else if flagSet.NArg() > 0 {
		path = flagSet.Arg(0)
	}
	if flagSet.NArg() > 1 {
		return nil, false, &ExitError{Code: ExitUsage, Message: fmt.Sprintf("only one deck path is accepted, got %d", flagSet.NArg())}
	}
	slog.Debug("Deck path determined.", "path", path)

	if path == "" {
		slog.Debug("No deck path provided, printing usage and exiting.")
		flagSet.Usage()
		return nil, true, nil
	}

	logFormat := strings.ToLower(*logFormatFlag)
	if logFormat != "text" && logFormat != "json" {
		return nil, false, &ExitError{Code: ExitUsage, Message: "invalid log-format: must be 'text' or 'json'"}
	}

	logLevel := strings.ToLower(*logLevelFlag)
	switch logLevel {
	case "debug", "info", "warn", "error":
		// valid
	default:
		return nil, false, &ExitError{Code: ExitUsage, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}
	slog.Debug("CLI parameter validation complete.")

	config, err := app.NewConfig(app.Config{
		DeckPath:      path,
		FormatPaths:   formatPaths,
		LogFormat:     logFormat,
		LogLevel:      logLevel,
		CommentMarker: *commentFlag,
		KeywordMarker: *keywordMarkerFlag,
		Keyword:       *keywordFlag,
		Where:         where,
		Export:        *exportFlag,
		OutPath:       *outFlag,
		Summary:       *summaryFlag,
		Shell:         *shellFlag,
		HistoryPath:   historyPath(),
	})
	if err != nil {
		return nil, false, &ExitError{Code: ExitUsage, Message: err.Error()}
	}

	slog.Debug("CLI parser finished successfully.", "config", config)
	return config, false, nil
}

// historyPath is the shell history file in the user's home directory, or
// empty when there is none.
func historyPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".keydeck_history")
}
