// Package cli implements the func command line tool.
package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/funvibe/func/internal/config"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Run executes the command line and exits with status 1 on failure.
func Run() {
	os.Exit(Execute(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// Execute runs the command line args against the given streams and
// returns the exit status. Failures are reported on stderr as
// "Error: <message>".
func Execute(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	root := NewRootCommand()
	root.SetArgs(args)
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)
	if err := root.Execute(); err != nil {
		printError(stderr, err)
		return 1
	}
	return 0
}

// app is the state shared by every command of one invocation.
type app struct {
	v      *viper.Viper
	cfg    *config.Config
	logger zerolog.Logger
}

// NewRootCommand builds the command tree. Settings are read from flags,
// then FUNC_* environment variables, then the config file.
func NewRootCommand() *cobra.Command {
	a := &app{v: viper.New()}

	root := &cobra.Command{
		Use:           "func",
		Short:         "Compile and run func programs",
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd.ErrOrStderr())
		},
	}

	flags := root.PersistentFlags()
	flags.String("config", "", "config file (default ./"+config.ConfigFileName+" or ~/."+config.ConfigFileName+")")
	flags.String("log-level", "", "log level: trace, debug, info, warn, error")
	flags.String("typecheck", "", "type check mode: off, warn, strict")
	flags.Bool("trace", false, "log every executed instruction")
	flags.Bool("no-color", false, "disable colored output")

	a.v.SetEnvPrefix(config.EnvPrefix)
	a.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	a.v.AutomaticEnv()
	for _, name := range []string{"config", "log-level", "typecheck", "trace", "no-color"} {
		_ = a.v.BindPFlag(name, flags.Lookup(name))
	}

	root.AddCommand(
		a.runCommand(),
		a.replCommand(),
		a.tokensCommand(),
		a.astCommand(),
		a.disCommand(),
		a.checkCommand(),
	)
	return root
}

func (a *app) setup(stderr io.Writer) error {
	if a.v.GetBool("no-color") {
		color.NoColor = true
	}

	cfg, err := config.Load(a.v.GetString("config"))
	if err != nil {
		return err
	}
	if a.v.IsSet("log-level") {
		cfg.LogLevel = a.v.GetString("log-level")
	}
	if a.v.IsSet("typecheck") {
		cfg.TypeCheck = a.v.GetString("typecheck")
	}
	if a.v.IsSet("trace") {
		cfg.VM.Trace = a.v.GetBool("trace")
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if cfg.VM.Trace && level > zerolog.TraceLevel {
		level = zerolog.TraceLevel
	}
	zerolog.SetGlobalLevel(level)
	writer := zerolog.ConsoleWriter{Out: stderr, NoColor: color.NoColor}
	a.logger = zerolog.New(writer).Level(level).With().Timestamp().Logger()
	a.cfg = cfg
	return nil
}

// printError reports err as "Error: <message>" with the label in red on
// terminals.
func printError(w io.Writer, err error) {
	label := color.New(color.FgRed, color.Bold)
	if color.NoColor {
		label.DisableColor()
	}
	label.Fprint(w, "Error:")
	fmt.Fprintf(w, " %s\n", err)
}
