package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/term"
)

// readPassword is swapped out in tests to avoid touching the terminal.
var readPassword = term.ReadPassword

// readLine prints prompt and reads one trimmed line. A partial line before
// EOF is returned as is.
func readLine(r *bufio.Reader, w io.Writer, prompt string) (string, error) {
	if _, err := fmt.Fprint(w, prompt+": "); err != nil {
		return "", err
	}
	line, err := r.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && len(line) > 0 {
			return strings.TrimSpace(line), nil
		}
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// readLineDefault is readLine that falls back to current on empty input.
func readLineDefault(r *bufio.Reader, w io.Writer, prompt, current string) (string, error) {
	value, err := readLine(r, w, fmt.Sprintf("%s [%s]", prompt, current))
	if err != nil {
		return "", err
	}
	if value == "" {
		return current, nil
	}
	return value, nil
}

func (a *App) readSecret(prompt string) (string, error) {
	if _, err := fmt.Fprint(a.out, prompt+": "); err != nil {
		return "", err
	}
	pw, err := readPassword(a.passwordFd)
	fmt.Fprintln(a.out)
	if err != nil {
		return "", err
	}
	return string(pw), nil
}

func confirm(r *bufio.Reader, w io.Writer, prompt string) (bool, error) {
	answer, err := readLine(r, w, prompt+" [y/N]")
	if err != nil {
		return false, err
	}
	answer = strings.ToLower(answer)
	return answer == "y" || answer == "yes", nil
}
