package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
)

func (a *App) getStatus() string {
	if u := a.session.CurrentUser(); u != nil {
		if a.privacy.Unlocked() {
			return fmt.Sprintf("(%s, private open)", u.Email)
		}
		return fmt.Sprintf("(%s)", u.Email)
	}
	return ""
}

// Root runs the REPL until EOF or an exit command.
func (a *App) Root(ctx context.Context) {
	fmt.Println("Welcome to Ayra CLI (type 'help' for commands)")
	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Printf("ayra %s> ", a.getStatus())
		if !scanner.Scan() {
			break
		}
		line := scanner.Text()
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}

		cmd := parts[0]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				fmt.Println("Available commands: (l)ist, categories, addnote, addlink, status, setpass, unlock, lock, changepass, logout, exit")
			} else {
				fmt.Println("Available commands: register, login, exit")
			}

		case "register":
			a.register(ctx)
		case "login":
			a.login(ctx)
		case "logout":
			a.logout(ctx)
		case "l", "list":
			a.list(ctx)
		case "categories":
			a.categories(ctx)
		case "addnote":
			a.addNote(ctx)
		case "addlink":
			a.addLink(ctx)
		case "status":
			a.status(ctx)
		case "setpass":
			a.setPrivatePassword(ctx)
		case "unlock":
			a.unlockPrivate(ctx)
		case "lock":
			a.lockPrivate()
		case "changepass":
			a.changePrivatePassword(ctx)
		case "exit", "quit":
			fmt.Println("Bye!")
			return
		default:
			fmt.Println("Unknown command:", cmd)
		}
	}
}
