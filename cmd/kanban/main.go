// kanban is a terminal client for the kanban server. It keeps the login
// token in a file and renders the board as three swimlanes.
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/pflag"
	"golang.org/x/term"

	"kanban_backend/internal/client/api"
	"kanban_backend/internal/client/session"
)

const defaultServer = "http://localhost:3001"

const usage = `Usage: kanban [--server URL] [--token-file PATH] <command> [args]

Commands:
  login [username]      log in and store the token
  logout                remove the stored token
  board                 show the board (--sort, --user)
  show <id>             show one ticket
  create                create a ticket (--name, --description, --status, --assignee)
  edit <id>             edit a ticket (same flags as create)
  delete <id>           delete a ticket
  users                 list users
`

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdin, os.Stdout); err != nil {
		if !errors.Is(err, pflag.ErrHelp) {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
		}
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdin *os.File, stdout io.Writer) error {
	flags := pflag.NewFlagSet("kanban", pflag.ContinueOnError)
	flags.SetInterspersed(false)
	server := flags.String("server", envOr("KANBAN_SERVER", defaultServer), "kanban server base URL (env KANBAN_SERVER)")
	tokenFile := flags.String("token-file", "", "file holding the login token (default: user config dir)")
	flags.Usage = func() { fmt.Fprint(stdout, usage) }

	if err := flags.Parse(args); err != nil {
		return err
	}
	if flags.NArg() == 0 {
		fmt.Fprint(stdout, usage)
		return pflag.ErrHelp
	}

	path := *tokenFile
	if path == "" {
		p, err := session.DefaultPath()
		if err != nil {
			return err
		}
		path = p
	}

	a := newApp(*server, session.NewTokenStore(path), stdin, stdout, func() ([]byte, error) {
		return term.ReadPassword(int(stdin.Fd()))
	})
	return a.dispatch(ctx, flags.Arg(0), flags.Args()[1:])
}

func newApp(server string, store *session.TokenStore, in io.Reader, out io.Writer, readPassword func() ([]byte, error)) *app {
	return &app{
		out:          out,
		in:           bufio.NewReader(in),
		store:        store,
		client:       api.New(server, store, nil),
		readPassword: readPassword,
	}
}

func envOr(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}
