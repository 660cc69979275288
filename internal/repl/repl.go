package repl

import (
	"errors"
	"io"

	"github.com/fatih/color"
)

// LineReader supplies input lines. *liner.State implements it.
type LineReader interface {
	Prompt(prompt string) (string, error)
}

// Loop reads lines until the reader is exhausted or :quit is entered.
// Errors never end the loop; they are written as "Error: <message>".
func Loop(s *Session, in LineReader, prompt string, colour bool) error {
	label := color.New(color.FgRed, color.Bold)
	if !colour {
		label.DisableColor()
	}
	for {
		line, err := in.Prompt(prompt)
		if err != nil {
			if errors.Is(err, io.EOF) || isAbort(err) {
				return nil
			}
			return err
		}
		if h, ok := in.(interface{ AppendHistory(string) }); ok && line != "" {
			h.AppendHistory(line)
		}
		if err := s.Eval(line); err != nil {
			if errors.Is(err, ErrQuit) {
				return nil
			}
			label.Fprint(s.out, "Error:")
			io.WriteString(s.out, " "+err.Error()+"\n")
		}
	}
}
