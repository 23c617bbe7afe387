package cli

import (
	"bufio"
	"context"
	"fmt"
	"strconv"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	List(ctx context.Context) error
	More(ctx context.Context) error
	Refresh(ctx context.Context) error
	Show(ctx context.Context, n int) error
	DetailRefresh(ctx context.Context) error
	Validate(ctx context.Context) error
}

const helpText = `Available commands:
  list             show the first page (cached when fresh)
  more             load the next page
  refresh          reload the first page from GitHub
  show <n>         open the profile of user #n
  detail-refresh   reload the open profile
  validate         drop a stale cache
  exit | quit      leave the program`

// runREPL reads commands from scanner and dispatches them to a until EOF,
// "exit" or "quit", or until ctx is done. Errors returned by handlers are
// ignored here; handlers report them to the user themselves.
func runREPL(ctx context.Context, a execIface, scanner *bufio.Scanner) {
	for {
		if ctx.Err() != nil {
			return
		}
		printlnFn("ghbrowse> ")
		if !scanner.Scan() {
			return
		}
		parts := strings.Fields(scanner.Text())
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		switch cmd {
		case "help":
			printlnFn(helpText)

		case "l", "list":
			_ = a.List(ctx)

		case "m", "more":
			_ = a.More(ctx)

		case "r", "refresh":
			_ = a.Refresh(ctx)

		case "show":
			if len(args) != 1 {
				printlnFn("Usage: show <n>")
				continue
			}
			n, err := strconv.Atoi(args[0])
			if err != nil {
				printlnFn("Usage: show <n>")
				continue
			}
			_ = a.Show(ctx, n)

		case "detail-refresh":
			_ = a.DetailRefresh(ctx)

		case "validate":
			_ = a.Validate(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
