package views

import (
	"github.com/rs/zerolog"

	"github.com/s0up4200/myflix/myflix"
	"github.com/s0up4200/myflix/session"
)

// Route names a top-level view
type Route string

const (
	// RouteWelcome is the anonymous landing view
	RouteWelcome Route = "welcome"
	// RouteMovies is the movie listing
	RouteMovies Route = "movies"
	// RouteProfile is the user profile
	RouteProfile Route = "profile"
)

// Notification texts shown to the user
const (
	MsgGenericFailure     = "Something went wrong. Please try again."
	MsgLoginSuccess       = "You have logged in"
	MsgLoginFailure       = "Ups! something went wrong. Please try again"
	MsgRegisterSuccess    = "Successfully registered! Please login"
	MsgRegisterFailure    = "Registration failed. Please try again."
	MsgProfileUpdated     = "User has been updated"
	MsgAccountDeleted     = "You have successfully deleted your account"
	MsgFavoriteAdded      = "Movie added to favorites"
	MsgFavoriteRemoved    = "Movie removed from favorites"
	MsgConfirmAccountLoss = "Are you sure you want to delete your account?"
)

// Notifier shows a transient message
type Notifier interface {
	Notify(message string)
}

// NotifierFunc adapts a function to Notifier
type NotifierFunc func(message string)

// Notify implements Notifier
func (f NotifierFunc) Notify(message string) { f(message) }

// Navigator switches to another view
type Navigator interface {
	Navigate(route Route)
}

// NavigatorFunc adapts a function to Navigator
type NavigatorFunc func(route Route)

// Navigate implements Navigator
func (f NavigatorFunc) Navigate(route Route) { f(route) }

// Confirmer asks the user a yes/no question
type Confirmer interface {
	Confirm(prompt string) bool
}

// ConfirmFunc adapts a function to Confirmer
type ConfirmFunc func(prompt string) bool

// Confirm implements Confirmer
func (f ConfirmFunc) Confirm(prompt string) bool { return f(prompt) }

// Service drives the views. It talks to the API through api and keeps all
// persisted state behind the session manager.
type Service struct {
	api       myflix.API
	session   *session.Manager
	notifier  Notifier
	navigator Navigator
	logger    zerolog.Logger
}

// NewService creates a view service. A nil notifier or navigator discards events.
func NewService(api myflix.API, sess *session.Manager, notifier Notifier, navigator Navigator, logger zerolog.Logger) *Service {
	if notifier == nil {
		notifier = NotifierFunc(func(string) {})
	}
	if navigator == nil {
		navigator = NavigatorFunc(func(Route) {})
	}
	return &Service{
		api:       api,
		session:   sess,
		notifier:  notifier,
		navigator: navigator,
		logger:    logger,
	}
}

// Session returns the session manager the service writes through
func (s *Service) Session() *session.Manager {
	return s.session
}

// CurrentUser returns the cached user without a network call
func (s *Service) CurrentUser() myflix.User {
	return s.session.CurrentUser()
}
