// Package main is the entry point for gorp, the GCC output reading program.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/mzahniser/gorp/internal/app"
	"github.com/mzahniser/gorp/internal/config"
	"github.com/mzahniser/gorp/internal/renderer/backend"
)

const versionText = "gorp (GCC Output Reading Program) 0.9.0"

const helpText = `This program parses the output of a build command and displays any warnings or
errors in the terminal. Click on a message to jump to the file that produced it.
You can also select messages with the up/down keys and the enter key.
Command line arguments:
  -v/--version: Display the version number of the program, then exit.
  -h/--help: Display this help message, then exit.
  -c/--commands: Display the command strings, then exit.
  --settings <path>: Read settings from this TOML file.
  --log-file <path>: Write logs to this file.
  --log-level <level>: Log level (debug, info, warn, error).

To customize the build and clean commands, create a ".gorp" file either in the
current directory (for project-specific commands) or your home directory (to
define the default commands to use). The file should include three lines:
  build: <command>
  clean: <command>
  edit: <command>
The edit command should use "FILE", "LINE", and "COLUMN" as placeholders for the
file path, line index, and column index (if supported).

If no commands are given via a ".gorp" file, the defaults are:
  build: make
  clean: make clean
  edit: gedit FILE +LINE:COLUMN

Keys: up/down select, page up/down scroll, enter opens the selected message,
space rebuilds, backspace/delete runs the clean command, q quits.
`

// cliOptions holds the parsed command line.
type cliOptions struct {
	showVersion  bool
	showCommands bool
	settingsPath string
	logFile      string
	logLevel     string
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	var opts cliOptions
	code := 0

	cmd := &cobra.Command{
		Use:           "gorp",
		Short:         "GCC output reading program",
		Args:          cobra.ArbitraryArgs,
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(_ *cobra.Command, rest []string) error {
			switch {
			case opts.showVersion:
				printVersion(stdout)
			case len(rest) > 0:
				printHelp(stdout)
			default:
				code = execute(opts, stdout, stderr)
			}
			return nil
		},
	}

	flags := cmd.Flags()
	flags.BoolVarP(&opts.showVersion, "version", "v", false, "Display the version number, then exit")
	flags.BoolVarP(&opts.showVersion, "version-upper", "V", false, "Display the version number, then exit")
	_ = flags.MarkHidden("version-upper")
	flags.BoolVarP(&opts.showCommands, "commands", "c", false, "Display the command strings, then exit")
	flags.StringVar(&opts.settingsPath, "settings", config.SettingsPath(), "Settings file")
	flags.StringVar(&opts.logFile, "log-file", "", "Log file (overrides settings)")
	flags.StringVar(&opts.logLevel, "log-level", "", "Log level: debug, info, warn, error (overrides settings)")

	// Help, unknown flags and stray arguments all print the help text and
	// exit successfully.
	cmd.SetHelpFunc(func(*cobra.Command, []string) { printHelp(stdout) })
	cmd.SetFlagErrorFunc(func(*cobra.Command, error) error {
		printHelp(stdout)
		return nil
	})

	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return code
}

func printVersion(w io.Writer) {
	fmt.Fprintf(w, "%s\n\n", versionText)
}

func printHelp(w io.Writer) {
	fmt.Fprint(w, helpText)
}

// execute loads configuration and runs the interface.
func execute(opts cliOptions, stdout, stderr io.Writer) int {
	paths := config.CommandPaths()
	cmds, cmdErr := config.LoadCommands(paths...)

	if opts.showCommands {
		if cmdErr != nil {
			fmt.Fprintf(stderr, "Warning: %v\n", cmdErr)
		}
		if _, err := cmds.WriteTo(stdout); err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return 1
		}
		return 0
	}

	settings, err := config.LoadSettings(opts.settingsPath)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	if opts.logFile != "" {
		settings.Log.File = opts.logFile
	}
	if opts.logLevel != "" {
		settings.Log.Level = opts.logLevel
	}
	if err := settings.Validate(); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	logger, err := app.OpenLogFile(settings.Log.File, app.ParseLogLevel(settings.Log.Level))
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	defer logger.Close()
	app.SetLogger(logger)

	if cmdErr != nil {
		logger.WithComponent("config").Warn("using partial commands", "err", cmdErr)
	}

	if !isTerminal(stdout) {
		fmt.Fprintln(stderr, "Error: gorp must be run in a terminal")
		return 1
	}

	// Create application
	application, err := app.New(app.Options{
		Commands:     cmds,
		CommandPaths: paths,
		Settings:     settings,
		Logger:       logger,
	})
	if err != nil {
		fmt.Fprintf(stderr, "Error: failed to initialize: %v\n", err)
		return 1
	}

	// Create terminal backend
	terminal, err := backend.NewTerminal()
	if err != nil {
		fmt.Fprintf(stderr, "Error: failed to create terminal: %v\n", err)
		return 1
	}
	if err := application.SetBackend(terminal); err != nil {
		fmt.Fprintf(stderr, "Error: failed to set backend: %v\n", err)
		return 1
	}

	// Handle signals for graceful shutdown
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(signals)

	go func() {
		<-signals
		application.Shutdown()
	}()

	// Run the application
	if err := application.Run(); err != nil {
		if errors.Is(err, app.ErrQuit) {
			return 0
		}
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	return 0
}

// isTerminal reports whether both stdin and out are terminals.
func isTerminal(out io.Writer) bool {
	f, ok := out.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd())) && term.IsTerminal(int(os.Stdin.Fd()))
}
