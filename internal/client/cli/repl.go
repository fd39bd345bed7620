package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output.
var printlnFn = fmt.Println

// execIface is the command surface the REPL drives. App satisfies it;
// tests use a stub.
type execIface interface {
	isLoggedIn() bool
	Go(ctx context.Context, path string) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	New(ctx context.Context) error
	Close(ctx context.Context) error
	Set(ctx context.Context, field, value string) error
	Generate(ctx context.Context) error
	Submit(ctx context.Context) error
	Destroy(ctx context.Context) error
	Photo(ctx context.Context, file string) error
	Unphoto(ctx context.Context) error
	Table(ctx context.Context, cmd string, args []string) error
}

const (
	guestHelp = "Available commands: home, ads [id], carousel, users [id], login, " +
		"sort, filter, page, rows, dense, exit"
	adminHelp = "Available commands: home, ads [id], carousel, users [id], logout, " +
		"new, close, set <field> <value>, generate, submit, destroy, photo <file>, unphoto, " +
		"sort <field>, filter on|off|<field> <text>, page <n>, rows <n>|all, " +
		"select <n>|all|none, dense on|off, exit"
)

// runREPL reads commands from scanner until EOF, "exit" or "quit" and
// dispatches them to a. Errors the managers already notified are not
// printed again.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("donadmin %s > ", statusFn()))
		if !scanner.Scan() {
			return
		}
		line := strings.TrimSpace(scanner.Text())
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		var err error
		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn(adminHelp)
			} else {
				printlnFn(guestHelp)
			}

		case "home":
			err = a.Go(ctx, "/")

		case "ads", "users":
			path := "/" + cmd
			if len(args) > 0 {
				path += "/" + args[0]
			}
			err = a.Go(ctx, path)

		case "carousel":
			err = a.Go(ctx, CarouselPath)

		case "login":
			err = a.Login(ctx)

		case "logout":
			err = a.Logout(ctx)

		case "new":
			err = a.New(ctx)

		case "close":
			err = a.Close(ctx)

		case "set":
			// the value keeps its inner spaces
			_, rest, _ := strings.Cut(line, " ")
			field, value, _ := strings.Cut(strings.TrimSpace(rest), " ")
			err = a.Set(ctx, field, strings.TrimSpace(value))

		case "generate":
			err = a.Generate(ctx)

		case "submit":
			err = a.Submit(ctx)

		case "destroy", "delete":
			err = a.Destroy(ctx)

		case "photo":
			err = a.Photo(ctx, joinFrom(args, 0))

		case "unphoto":
			err = a.Unphoto(ctx)

		case "sort", "filter", "page", "rows", "select", "dense":
			err = a.Table(ctx, cmd, args)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}

		if err != nil && !reported(err) {
			printlnFn("Error:", err)
		}
	}
}
