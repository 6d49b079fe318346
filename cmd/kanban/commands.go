package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/pflag"

	"kanban_backend/internal/client/api"
	"kanban_backend/internal/client/board"
	"kanban_backend/internal/client/form"
	"kanban_backend/internal/client/session"
)

var errUsage = errors.New("invalid usage")

type app struct {
	out          io.Writer
	in           *bufio.Reader
	store        *session.TokenStore
	client       *api.Client
	readPassword func() ([]byte, error)
}

func (a *app) dispatch(ctx context.Context, cmd string, args []string) error {
	switch cmd {
	case "login":
		return a.login(ctx, args)
	case "logout":
		return a.logout()
	case "board":
		return a.board(ctx, args)
	case "show":
		return a.show(ctx, args)
	case "create":
		return a.create(ctx, args)
	case "edit":
		return a.edit(ctx, args)
	case "delete":
		return a.delete(ctx, args)
	case "users":
		return a.users(ctx)
	}
	fmt.Fprint(a.out, usage)
	return fmt.Errorf("%w: unknown command %q", errUsage, cmd)
}

func (a *app) login(ctx context.Context, args []string) error {
	username := ""
	if len(args) > 0 {
		username = strings.TrimSpace(args[0])
	}
	if username == "" {
		fmt.Fprint(a.out, "Username: ")
		line, err := a.in.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return err
		}
		username = strings.TrimSpace(line)
	}

	fmt.Fprint(a.out, "Password: ")
	pw, err := a.readPassword()
	fmt.Fprintln(a.out)
	if err != nil {
		return fmt.Errorf("failed to read password: %w", err)
	}

	token, err := a.client.Login(ctx, username, string(pw))
	if err != nil {
		return err
	}
	if err := a.store.Save(token); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Logged in as %s\n", username)
	return nil
}

func (a *app) logout() error {
	if err := a.store.Clear(); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Logged out")
	return nil
}

func (a *app) board(ctx context.Context, args []string) error {
	fs := pflag.NewFlagSet("board", pflag.ContinueOnError)
	sortBy := fs.String("sort", board.SortCreatedAt, "sort key: createdAt, updatedAt or name")
	user := fs.String("user", api.FilterAll, "user filter: All, unassigned or a user id")
	if err := fs.Parse(args); err != nil {
		return err
	}

	b := board.New(a.client, a.store)
	b.Select(*sortBy, *user)
	err := b.Load(ctx)
	if errors.Is(err, board.ErrNotLoggedIn) {
		fmt.Fprintln(a.out, "Login to create & view tickets (kanban login)")
		return err
	}
	a.printBoard(b)
	return err
}

func (a *app) printBoard(b *board.Board) {
	if msg := b.Err(); msg != "" {
		fmt.Fprintln(a.out, errorStyle.Render(msg))
	}
	fmt.Fprintln(a.out, renderBoard(b.Swimlanes()))
}

func (a *app) show(ctx context.Context, args []string) error {
	id, err := idArg(args)
	if err != nil {
		return err
	}
	t, err := a.client.GetTicket(ctx, id)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, renderTicket(t))
	return nil
}

func ticketFlags(name string) *pflag.FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.String("name", "", "ticket name")
	fs.String("description", "", "ticket description")
	fs.String("status", "", "Todo, In Progress or Done")
	fs.String("assignee", "", "user id, or \"unassigned\"")
	return fs
}

// applyFlags copies explicitly set flags into the draft.
func applyFlags(fs *pflag.FlagSet, d *form.Draft) error {
	if fs.Changed("name") {
		d.Input.Name, _ = fs.GetString("name")
	}
	if fs.Changed("description") {
		d.Input.Description, _ = fs.GetString("description")
	}
	if fs.Changed("status") {
		d.Input.Status, _ = fs.GetString("status")
	}
	if fs.Changed("assignee") {
		v, _ := fs.GetString("assignee")
		if v == "" || strings.EqualFold(v, api.FilterUnassigned) {
			d.Input.AssignedUserID = nil
			return nil
		}
		id, err := strconv.ParseUint(v, 10, 32)
		if err != nil {
			return fmt.Errorf("%w: --assignee must be a user id or \"unassigned\"", errUsage)
		}
		uid := uint(id)
		d.Input.AssignedUserID = &uid
	}
	return nil
}

func (a *app) create(ctx context.Context, args []string) error {
	fs := ticketFlags("create")
	if err := fs.Parse(args); err != nil {
		return err
	}
	d := form.NewDraft()
	if err := applyFlags(fs, d); err != nil {
		return err
	}
	return a.submit(ctx, d)
}

func (a *app) edit(ctx context.Context, args []string) error {
	fs := ticketFlags("edit")
	if err := fs.Parse(args); err != nil {
		return err
	}
	id, err := idArg(fs.Args())
	if err != nil {
		return err
	}
	d, err := form.LoadDraft(ctx, a.client, id)
	if err != nil {
		fmt.Fprintln(a.out, errorStyle.Render(form.ErrLoadTicket.Error()))
		return err
	}
	if err := applyFlags(fs, d); err != nil {
		return err
	}
	return a.submit(ctx, d)
}

func (a *app) submit(ctx context.Context, d *form.Draft) error {
	created := d.IsNew()
	t, err := d.Submit(ctx, a.client)
	if err != nil {
		fmt.Fprintln(a.out, errorStyle.Render(d.Err))
		return err
	}
	verb := "Updated"
	if created {
		verb = "Created"
	}
	fmt.Fprintf(a.out, "%s ticket #%d\n", verb, t.ID)
	return nil
}

func (a *app) delete(ctx context.Context, args []string) error {
	id, err := idArg(args)
	if err != nil {
		return err
	}
	b := board.New(a.client, a.store)
	if err := b.Delete(ctx, id); err != nil {
		if msg := b.Err(); msg != "" {
			fmt.Fprintln(a.out, errorStyle.Render(msg))
		}
		return err
	}
	fmt.Fprintf(a.out, "Deleted ticket #%d\n", id)
	a.printBoard(b)
	return nil
}

func (a *app) users(ctx context.Context) error {
	users, err := a.client.ListUsers(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, renderUsers(users))
	return nil
}

func idArg(args []string) (uint, error) {
	if len(args) != 1 {
		return 0, fmt.Errorf("%w: expected exactly one ticket id", errUsage)
	}
	id, err := strconv.ParseUint(args[0], 10, 32)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("%w: invalid ticket id %q", errUsage, args[0])
	}
	return uint(id), nil
}
