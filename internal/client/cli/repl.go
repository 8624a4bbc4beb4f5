package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// printlnFn is a test seam for user-facing output.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a stub.
type execIface interface {
	isLoggedIn() bool
	Login(ctx context.Context) error
	OTPLogin(ctx context.Context) error
	Logout(ctx context.Context) error
	WhoAmI(ctx context.Context) error
	Host(ctx context.Context, url string) error
	Queue(ctx context.Context, tag string) error
	Filter(ctx context.Context, args []string) error
	Others(ctx context.Context, category, search string) error
	Stats(ctx context.Context, period string) error
	Export(ctx context.Context, email, period string) error
	Assign(ctx context.Context) error
	States(ctx context.Context) error
}

const (
	helpLoggedOut = "Available commands: login, otp, host [url], help, exit"
	helpLoggedIn  = "Available commands: queue [unregistered|matched|incomplete], filter [clear], " +
		"others <category> [search], stats [today|all], export <email> [today|all], assign, states, " +
		"whoami, host [url], logout, help, exit"
)

// needsLogin lists the commands that talk to authorized endpoints.
var needsLogin = map[string]bool{
	"queue": true, "q": true, "filter": true, "others": true, "stats": true,
	"export": true, "assign": true, "states": true, "whoami": true,
}

// runREPL reads one command per line from reader and dispatches it to a.
// Handler errors are already shown as toasts by the handlers; the loop only
// ends on EOF or "exit".
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		prompt := "calldash>"
		if s := statusFn(); s != "" {
			prompt = fmt.Sprintf("calldash (%s)>", s)
		}
		printlnFn(prompt)

		line, err := reader.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || strings.TrimSpace(line) == "") {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := strings.ToLower(parts[0]), parts[1:]

		if needsLogin[cmd] && !a.isLoggedIn() {
			printlnFn("Please log in first.")
			continue
		}

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn(helpLoggedIn)
			} else {
				printlnFn(helpLoggedOut)
			}

		case "login":
			_ = a.Login(ctx)

		case "otp":
			_ = a.OTPLogin(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "whoami":
			_ = a.WhoAmI(ctx)

		case "host":
			_ = a.Host(ctx, arg(args, 0))

		case "queue", "q":
			_ = a.Queue(ctx, arg(args, 0))

		case "filter":
			_ = a.Filter(ctx, args)

		case "others":
			_ = a.Others(ctx, arg(args, 0), strings.Join(rest(args, 1), " "))

		case "stats":
			_ = a.Stats(ctx, arg(args, 0))

		case "export":
			_ = a.Export(ctx, arg(args, 0), arg(args, 1))

		case "assign":
			_ = a.Assign(ctx)

		case "states":
			_ = a.States(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}

func arg(args []string, i int) string {
	if i < len(args) {
		return args[i]
	}
	return ""
}

func rest(args []string, i int) []string {
	if i < len(args) {
		return args[i:]
	}
	return nil
}
