package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/adminpanel/internal/client/store"
)

// printlnFn and printFn are test seams for user-facing output. In tests,
// replace them with a stub.
var (
	printlnFn = fmt.Println
	printFn   = fmt.Print
)

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	signedIn() bool
	navigate(r store.Route)
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	Home(ctx context.Context) error
	Users(ctx context.Context, args []string) error
	Page(ctx context.Context, args []string) error
	Size(ctx context.Context, args []string) error
	Add(ctx context.Context) error
	Edit(ctx context.Context, args []string) error
	Delete(ctx context.Context, args []string) error
	Sort(ctx context.Context, args []string) error
	Show(ctx context.Context) error
}

const (
	helpSignedOut = "Available commands: login, help, exit"
	helpSignedIn  = "Available commands: home, users [page] [size], page <n>, size <n>, add, edit <id>, delete <id>, sort name|email|off [desc], show, logout, help, exit"
)

// guarded lists the commands that need a signed-in session.
var guarded = map[string]bool{
	"home": true, "users": true, "page": true, "size": true,
	"add": true, "edit": true, "delete": true, "sort": true, "show": true,
}

// runREPL starts a simple read-eval-print loop for the admin CLI.
//
// It reads a line from reader, parses the first token as the command and
// dispatches to methods on 'a'. The loop exits on EOF or when the user types
// "exit" or "quit".
//
// Prompt & Commands
//
// The prompt shows the current status (from statusFn) and accepts commands:
//
//	Any time:
//	  - help                  show available commands
//	  - login                 authenticate
//	  - exit | quit           leave the program
//
//	Signed in:
//	  - home                  dashboard
//	  - users [page] [size]   list a page of users
//	  - page <n>, size <n>    move to another page or change the page size
//	  - add                   create a user
//	  - edit <id>             edit a user on the current page
//	  - delete <id>           delete a user
//	  - sort <field> [desc]   order the table by name or email, "off" resets
//	  - show                  redraw the current screen
//	  - logout                forget the session
//
// Signed-in commands issued without a session print "Please login first" and
// move to the login screen. Handler errors are printed and the loop goes on.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printFn(fmt.Sprintf("admin (%s)> ", statusFn()))
		line, err := readLine(reader)
		if err != nil {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		if guarded[cmd] && !a.signedIn() {
			printlnFn("Please login first")
			a.navigate(store.RouteLogin)
			continue
		}

		switch cmd {
		case "help":
			if a.signedIn() {
				printlnFn(helpSignedIn)
			} else {
				printlnFn(helpSignedOut)
			}
		case "login":
			err = a.Login(ctx)
		case "logout":
			err = a.Logout(ctx)
		case "home":
			err = a.Home(ctx)
		case "users":
			err = a.Users(ctx, args)
		case "page":
			err = a.Page(ctx, args)
		case "size":
			err = a.Size(ctx, args)
		case "add":
			err = a.Add(ctx)
		case "edit":
			err = a.Edit(ctx, args)
		case "delete":
			err = a.Delete(ctx, args)
		case "sort":
			err = a.Sort(ctx, args)
		case "show":
			err = a.Show(ctx)
		case "exit", "quit":
			printlnFn("Bye!")
			return
		default:
			printlnFn("Unknown command:", cmd)
		}

		if err != nil {
			printlnFn("Error:", err)
		}
	}
}
