package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/funvibe/func/internal/bytecode"
	"github.com/funvibe/func/internal/diagnostics"
	"github.com/funvibe/func/internal/prettyprinter"
	"github.com/funvibe/func/internal/repl"
	"github.com/funvibe/func/pkg/embed"
	"github.com/hokaccha/go-prettyjson"
	"github.com/spf13/cobra"
)

// source reads the program named by args, or the --code flag.
func source(cmd *cobra.Command, args []string) (string, string, error) {
	if code, _ := cmd.Flags().GetString("code"); code != "" {
		if len(args) > 0 {
			return "", "", errors.New("multiple input sources specified")
		}
		return code, "<code>", nil
	}
	if len(args) == 0 {
		return "", "", errors.New("no input file")
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return "", "", err
	}
	return string(data), args[0], nil
}

// sourceCommand declares a command taking one file or --code.
func (a *app) sourceCommand(use, short string, run func(cmd *cobra.Command, vm *embed.VM, src, path string) error) *cobra.Command {
	cmd := &cobra.Command{
		Use:   use + " [file]",
		Short: short,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, path, err := source(cmd, args)
			if err == nil {
				vm := embed.New(
					embed.WithConfig(a.cfg),
					embed.WithLogger(a.logger),
					embed.WithOutput(cmd.OutOrStdout()),
				)
				err = run(cmd, vm, src, path)
			}
			if err != nil {
				a.logDetail(err)
			}
			return err
		},
	}
	cmd.Flags().StringP("code", "c", "", "program text to use instead of a file")
	return cmd
}

func (a *app) logDetail(err error) {
	var de *diagnostics.DiagnosticError
	if errors.As(err, &de) {
		a.logger.Debug().Str("code", string(de.Code)).Str("kind", de.Code.KindName()).Msg(de.Detailed())
	}
}

func (a *app) runCommand() *cobra.Command {
	return a.sourceCommand("run", "Run a program's main binding",
		func(_ *cobra.Command, vm *embed.VM, src, path string) error {
			return vm.Process(src, path, embed.StageRun).Err()
		})
}

func (a *app) tokensCommand() *cobra.Command {
	return a.sourceCommand("tokens", "Print the tokens of a program as JSON",
		func(cmd *cobra.Command, vm *embed.VM, src, path string) error {
			tokens, err := vm.Tokens(src, path)
			if err != nil {
				return err
			}
			return writeJSON(cmd, prettyprinter.TokenTree(tokens))
		})
}

func (a *app) astCommand() *cobra.Command {
	cmd := a.sourceCommand("ast", "Print the syntax tree of a program",
		func(cmd *cobra.Command, vm *embed.VM, src, path string) error {
			module, err := vm.Parse(src, path)
			if err != nil {
				return err
			}
			if asSource, _ := cmd.Flags().GetBool("source"); asSource {
				fmt.Fprintln(cmd.OutOrStdout(), prettyprinter.PrintModule(module))
				return nil
			}
			return writeJSON(cmd, prettyprinter.ModuleTree(module))
		})
	cmd.Flags().Bool("source", false, "print reconstructed source instead of JSON")
	return cmd
}

func (a *app) disCommand() *cobra.Command {
	return a.sourceCommand("dis", "Disassemble the compiled main binding",
		func(cmd *cobra.Command, vm *embed.VM, src, path string) error {
			program, err := vm.Compile(src, path)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), bytecode.Disassemble(program, path))
			return nil
		})
}

func (a *app) checkCommand() *cobra.Command {
	return a.sourceCommand("check", "Type check every binding",
		func(cmd *cobra.Command, vm *embed.VM, src, path string) error {
			types, err := vm.Check(src, path)
			if err != nil {
				return err
			}
			module, err := vm.Parse(src, path)
			if err != nil {
				return err
			}
			for _, b := range module.Bindings {
				fmt.Fprintf(cmd.OutOrStdout(), "%s : %s\n", b.Name, types[b.Name])
			}
			return nil
		})
}

func (a *app) replCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Start an interactive session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !isTerminalIO() {
				session := repl.NewSession(a.cfg, cmd.OutOrStdout(), a.logger)
				return repl.Loop(session, newLineScanner(cmd.InOrStdin()), "", !color.NoColor)
			}
			return repl.RunTerminal(a.cfg, a.logger)
		},
	}
}

func writeJSON(cmd *cobra.Command, v interface{}) error {
	f := prettyjson.NewFormatter()
	f.DisabledColor = color.NoColor
	data, err := f.Marshal(v)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return nil
}
