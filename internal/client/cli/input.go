package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"golang.org/x/term"
)

// readPassword is a test seam for term.ReadPassword.
var readPassword = term.ReadPassword

// GetSimpleText prints a prompt to w and reads a single line of input from
// reader. The trailing newline is trimmed. If EOF occurs after some input
// was read, the partial line is returned.
func GetSimpleText(reader *bufio.Reader, prompt string, w io.Writer) (string, error) {
	if _, err := fmt.Fprint(w, prompt+"\n> "); err != nil {
		return "", err
	}
	line, err := reader.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && len(line) > 0 {
			return strings.TrimSpace(line), nil
		}
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// GetPassword reads a password from the terminal without echo.
//
// The returned byte slice should be wiped by the caller when no longer needed.
func GetPassword(w io.Writer) ([]byte, error) {
	if _, err := fmt.Fprint(w, "Enter password: "); err != nil {
		return nil, err
	}
	pw, err := readPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(w)
	if err != nil {
		return nil, err
	}
	return pw, nil
}

// GetChoice shows a numbered picker and returns the chosen index. An empty
// answer returns -1.
func GetChoice(reader *bufio.Reader, title string, options []string, w io.Writer) (int, error) {
	if _, err := fmt.Fprintln(w, renderPicker(title, options)); err != nil {
		return -1, err
	}
	for {
		answer, err := GetSimpleText(reader, "Pick a number (Enter to cancel)", w)
		if err != nil {
			return -1, err
		}
		if answer == "" {
			return -1, nil
		}
		n, err := strconv.Atoi(answer)
		if err == nil && n >= 1 && n <= len(options) {
			return n - 1, nil
		}
		fmt.Fprintf(w, "Enter a number between 1 and %d\n", len(options))
	}
}

// confirm asks a yes/no question. def is returned for an empty answer.
func confirm(reader *bufio.Reader, question string, def bool, w io.Writer) (bool, error) {
	hint := "(y/N)"
	if def {
		hint = "(Y/n)"
	}
	answer, err := getSimpleText(reader, question+" "+hint, w)
	if err != nil {
		return false, err
	}
	switch strings.ToLower(answer) {
	case "":
		return def, nil
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}
