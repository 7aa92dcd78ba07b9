package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/rs/zerolog"

	"github.com/mcncl/jsonenv/internal/config"
	"github.com/mcncl/jsonenv/internal/errors"
	"github.com/mcncl/jsonenv/internal/flattener"
	"github.com/mcncl/jsonenv/internal/formatter"
	"github.com/mcncl/jsonenv/internal/models"
	"github.com/mcncl/jsonenv/internal/parser"
)

// CLI defines the command-line interface
var CLI struct {
	Input          string `help:"Path to input JSON file. If not specified, reads from stdin." short:"i" type:"path"`
	Output         string `help:"Path to output file. If not specified, writes to stdout." short:"o" type:"path"`
	KeySeparator   string `help:"Separator used when composing nested keys." short:"s" default:"__"`
	ArraySeparator string `help:"Separator used to join array elements." short:"S" default:","`
	EnumerateArray bool   `help:"Expand arrays into one variable per element, keyed by index." short:"e"`
	Format         string `help:"Output style." short:"f" enum:"raw,dotenv" default:"raw"`
	Rename         string `help:"Rename object key segments." short:"r" enum:"none,upper,lower,snake,screaming-snake" default:"none"`
	Prefix         string `help:"Prefix composed in front of every key." short:"p"`
	Config         string `help:"Path to config file. If not specified, searches for .jsonenv.yml upward from the working directory." short:"c" type:"path"`
	Interactive    bool   `help:"Run in interactive mode, allowing direct JSON input with Ctrl+D to process." short:"I"`
	Debug          bool   `help:"Enable debug logging." short:"d"`
	Version        bool   `help:"Show version information." short:"V"`
}

// Context holds the runtime context
type Context struct {
	Config *config.Config
	Log    zerolog.Logger
}

// Version information
const (
	Version = "0.1.0"
)

func main() {
	// Parse CLI arguments with Kong
	cliParser := kong.Must(&CLI,
		kong.Name("jsonenv"),
		kong.Description("A tool to flatten JSON into environment variable lines"),
		kong.UsageOnError(),
	)

	// Check if no arguments provided and set interactive mode by default.
	// Piped stdin still wins: interactive mode only engages on a terminal.
	if len(os.Args) == 1 {
		CLI.Interactive = true
	}

	// Parse the command line arguments
	if _, err := cliParser.Parse(os.Args[1:]); err != nil {
		// If there's an error parsing arguments, the usage will already be shown by kong.UsageOnError()
		os.Exit(1)
	}

	// Show version and exit if requested
	if CLI.Version {
		fmt.Printf("jsonenv version %s\n", Version)
		return
	}

	logger := newLogger(CLI.Debug)

	cfg, err := config.LoadConfigWithCLI(
		CLI.Config,
		CLI.KeySeparator,
		CLI.ArraySeparator,
		CLI.Format,
		CLI.Rename,
		CLI.Prefix,
		CLI.EnumerateArray,
	)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", errors.UserFriendlyError(err))
		os.Exit(1)
	}

	if err := run(&Context{Config: cfg, Log: logger}); err != nil {
		// Use our custom error handling to provide user-friendly error messages
		fmt.Fprintf(os.Stderr, "%s\n", errors.UserFriendlyError(err))

		// Show help on error
		fmt.Fprintf(os.Stderr, "\nFor help, run: jsonenv --help\n")

		os.Exit(1)
	}
}

// newLogger builds the stderr diagnostic logger; silent unless debug is on
func newLogger(debug bool) zerolog.Logger {
	level := zerolog.Disabled
	if debug {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level).With().Timestamp().Logger()
}

// run executes the main program logic
func run(ctx *Context) error {
	// 1. Parse JSON input
	doc, err := parseInput()
	if err != nil {
		// Error is already wrapped by parseInput
		return err
	}
	ctx.Log.Debug().Bool("root_is_array", doc.RootIsArray).Msg("parsed input document")

	// 2. Flatten the value tree
	entries := flattener.New(ctx.Config.Options()).Flatten(doc.Root)
	ctx.Log.Debug().Int("entries", len(entries)).Msg("flattened document")

	// 3. Render the entries
	output := formatter.New(ctx.Config.Format).Format(entries)
	ctx.Log.Debug().Str("style", ctx.Config.Format).Int("bytes", len(output)).Msg("rendered output")

	// 4. Write the result
	return writeOutput(output)
}

// parseInput reads JSON from file or stdin
func parseInput() (models.Document, error) {
	if CLI.Input != "" {
		// Parse from file
		return parser.ParseFile(CLI.Input)
	}

	// Check if stdin has data
	stdinInfo, err := os.Stdin.Stat()
	if err != nil {
		return models.Document{}, errors.NewInputError("failed to access stdin", err)
	}

	// Interactive mode or piped input
	if (stdinInfo.Mode() & os.ModeCharDevice) != 0 {
		// Terminal is interactive (not piped)
		if CLI.Interactive {
			// Interactive mode
			return readInteractiveInput()
		}
		// No data provided on stdin and not in interactive mode
		return models.Document{}, errors.NewInputError("no input provided", errors.ErrNoInput)
	}

	// Read from stdin (piped input)
	jsonData, err := io.ReadAll(os.Stdin)
	if err != nil {
		return models.Document{}, errors.NewInputError("failed to read from stdin", err)
	}

	if len(jsonData) == 0 {
		return models.Document{}, errors.NewInputError("empty input received from stdin", errors.ErrEmptyInput)
	}

	return parser.ParseString(string(jsonData))
}

// writeOutput writes the rendered lines to file or stdout
func writeOutput(output string) error {
	if CLI.Output != "" {
		// Write to file
		err := os.WriteFile(CLI.Output, []byte(output), 0644)
		if err != nil {
			return errors.NewOutputError(fmt.Sprintf("failed to write to file '%s'", CLI.Output), err)
		}
		fmt.Fprintf(os.Stderr, "Environment variables written to %s\n", CLI.Output)
		return nil
	}

	// Write to stdout
	if _, err := os.Stdout.WriteString(output); err != nil {
		return errors.NewOutputError("failed to write to stdout", err)
	}
	return nil
}

// readInteractiveInput provides an interactive mode for users to paste JSON
// and signal completion with Ctrl+D (EOF)
func readInteractiveInput() (models.Document, error) {
	fmt.Fprintln(os.Stderr, "jsonenv Interactive Mode")
	fmt.Fprintln(os.Stderr, "Paste your JSON below and press Ctrl+D (or Ctrl+Z on Windows) when done:")

	// Read all input until EOF (Ctrl+D)
	reader := bufio.NewReader(os.Stdin)
	var jsonBuilder strings.Builder

	for {
		line, err := reader.ReadString('\n')
		jsonBuilder.WriteString(line)
		if err == io.EOF {
			// End of input; the final line may arrive without a newline
			break
		}
		if err != nil {
			return models.Document{}, errors.NewInputError("error reading input", err)
		}
	}

	jsonData := jsonBuilder.String()
	if len(jsonData) == 0 {
		return models.Document{}, errors.NewInputError("empty input received", errors.ErrEmptyInput)
	}

	fmt.Fprintln(os.Stderr, "\nProcessing JSON...")
	return parser.ParseString(jsonData)
}
