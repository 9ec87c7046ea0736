package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// readPassword is swapped out in tests
var readPassword = term.ReadPassword

// stdinIsTerminal is swapped out in tests
var stdinIsTerminal = func() bool { return isTerminal(os.Stdin) }

// promptLine prints prompt and reads one trimmed line
func promptLine(in *bufio.Reader, out io.Writer, prompt string) (string, error) {
	fmt.Fprint(out, prompt)
	line, err := in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// promptPassword reads a password without echo on a terminal, and as a
// plain line otherwise so it can be piped in
func promptPassword(in *bufio.Reader, out io.Writer, prompt string) (string, error) {
	if !stdinIsTerminal() {
		return promptLine(in, out, prompt)
	}

	fmt.Fprint(out, prompt)
	pw, err := readPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(out)
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return string(pw), nil
}

// confirm asks a yes/no question; only y or yes count as yes
func confirm(in *bufio.Reader, out io.Writer, prompt string) bool {
	answer, err := promptLine(in, out, prompt+" [y/N]: ")
	if err != nil {
		return false
	}
	answer = strings.ToLower(answer)
	return answer == "y" || answer == "yes"
}
