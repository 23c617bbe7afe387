package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// readPassword and isTerminal are test seams for the terminal.
var (
	readPassword = term.ReadPassword
	isTerminal   = term.IsTerminal
)

// PromptToken asks for a GitHub token without echo. It returns "" without
// prompting when stdin is not a terminal; an empty answer means anonymous
// access.
func PromptToken(w io.Writer) (string, error) {
	fd := int(os.Stdin.Fd())
	if !isTerminal(fd) {
		return "", nil
	}
	if _, err := fmt.Fprint(w, "GitHub token (Enter for anonymous access): "); err != nil {
		return "", err
	}
	tok, err := readPassword(fd)
	fmt.Fprintln(w)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(tok)), nil
}
