package cmd

import (
	"fmt"
	"io"

	"github.com/s0up4200/myflix/views"
)

// consoleUI prints notifications and turns navigation into command hints
type consoleUI struct {
	out io.Writer
}

func newConsoleUI(out io.Writer) *consoleUI {
	return &consoleUI{out: out}
}

// Notify implements views.Notifier
func (u *consoleUI) Notify(message string) {
	fmt.Fprintln(u.out, message)
}

// Navigate implements views.Navigator
func (u *consoleUI) Navigate(route views.Route) {
	switch route {
	case views.RouteMovies:
		fmt.Fprintln(u.out, "Run 'myflix movies' to browse the catalogue.")
	case views.RouteProfile:
		fmt.Fprintln(u.out, "Run 'myflix profile' to see your profile.")
	case views.RouteWelcome:
		fmt.Fprintln(u.out, "Run 'myflix login' or 'myflix register' to get started.")
	}
}
