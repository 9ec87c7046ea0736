package views

import (
	"context"

	"github.com/s0up4200/myflix/myflix"
)

// Login authenticates and persists the session. On failure the session is
// left untouched and no navigation happens.
func (s *Service) Login(ctx context.Context, creds myflix.Credentials) (*myflix.User, error) {
	resp, err := s.api.Login(ctx, creds)
	if err != nil {
		s.notifier.Notify(MsgLoginFailure)
		return nil, err
	}

	if err := s.session.Begin(resp.User, resp.Token); err != nil {
		s.logger.Error().Err(err).Msg("Failed to persist session")
		s.notifier.Notify(MsgLoginFailure)
		return nil, err
	}

	s.logger.Info().Str("username", resp.User.Username).Msg("Logged in")
	s.notifier.Notify(MsgLoginSuccess)
	s.navigator.Navigate(RouteMovies)
	return &resp.User, nil
}

// Register creates an account. The user still has to log in afterwards.
func (s *Service) Register(ctx context.Context, user myflix.User) (*myflix.User, error) {
	created, err := s.api.Register(ctx, user)
	if err != nil {
		s.notifier.Notify(MsgRegisterFailure)
		return nil, err
	}

	s.notifier.Notify(MsgRegisterSuccess)
	return created, nil
}

// Logout clears the session and returns to the welcome view
func (s *Service) Logout() error {
	if err := s.session.Clear(); err != nil {
		s.notifier.Notify(MsgGenericFailure)
		return err
	}

	s.navigator.Navigate(RouteWelcome)
	return nil
}

// ToMovies navigates to the movie listing
func (s *Service) ToMovies() {
	s.navigator.Navigate(RouteMovies)
}

// ToProfile navigates to the profile view
func (s *Service) ToProfile() {
	s.navigator.Navigate(RouteProfile)
}
