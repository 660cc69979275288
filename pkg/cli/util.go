package cli

import (
	"bufio"
	"io"
	"os"

	"github.com/mattn/go-isatty"
)

func isTerminalIO() bool {
	stdin := os.Stdin.Fd()
	stdout := os.Stdout.Fd()
	inTerm := isatty.IsTerminal(stdin) || isatty.IsCygwinTerminal(stdin)
	outTerm := isatty.IsTerminal(stdout) || isatty.IsCygwinTerminal(stdout)
	return inTerm && outTerm
}

// lineScanner feeds piped input to the REPL loop without prompting.
type lineScanner struct {
	s *bufio.Scanner
}

func newLineScanner(r io.Reader) *lineScanner {
	return &lineScanner{s: bufio.NewScanner(r)}
}

func (l *lineScanner) Prompt(string) (string, error) {
	if l.s.Scan() {
		return l.s.Text(), nil
	}
	if err := l.s.Err(); err != nil {
		return "", err
	}
	return "", io.EOF
}
