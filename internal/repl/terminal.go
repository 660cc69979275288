package repl

import (
	"errors"
	"os"

	"github.com/funvibe/func/internal/config"
	"github.com/mattn/go-isatty"
	"github.com/peterh/liner"
	"github.com/rs/zerolog"
)

func isAbort(err error) bool {
	return errors.Is(err, liner.ErrPromptAborted)
}

// RunTerminal runs an interactive session on the process terminal with
// line editing and persistent history.
func RunTerminal(cfg *config.Config, logger zerolog.Logger) error {
	state := liner.NewLiner()
	defer state.Close()
	state.SetCtrlCAborts(true)

	history := cfg.REPL.HistoryFile
	if history != "" {
		if f, err := os.Open(history); err == nil {
			if _, err := state.ReadHistory(f); err != nil {
				logger.Debug().Err(err).Str("file", history).Msg("reading history")
			}
			f.Close()
		}
	}

	session := NewSession(cfg, os.Stdout, logger)
	colour := isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
	loopErr := Loop(session, state, cfg.REPL.Prompt, colour)

	if history != "" {
		f, err := os.Create(history)
		if err != nil {
			logger.Warn().Err(err).Str("file", history).Msg("saving history")
			return loopErr
		}
		defer f.Close()
		if _, err := state.WriteHistory(f); err != nil {
			logger.Warn().Err(err).Str("file", history).Msg("saving history")
		}
	}
	return loopErr
}
