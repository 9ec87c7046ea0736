package views

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"golang.org/x/sync/errgroup"

	"github.com/s0up4200/myflix/myflix"
)

// BirthdayLayout is the form representation of a birthday
const BirthdayLayout = "2006-01-02"

// ErrInvalidBirthday indicates a birthday in no recognised calendar format
var ErrInvalidBirthday = errors.New("invalid birthday")

// birthdayLayouts are tried in order; month-first wins for ambiguous slashes
var birthdayLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	BirthdayLayout,
	"2006-1-2",
	"2006/01/02",
	"2006/1/2",
	"01/02/2006",
	"1/2/2006",
	"02.01.2006",
	"2.1.2006",
	"January 2, 2006",
	"Jan 2, 2006",
	"2 January 2006",
	"2 Jan 2006",
	time.RFC1123,
	time.RFC1123Z,
	"Mon Jan 02 2006 15:04:05 GMT-0700",
}

// jsDateSuffix matches the "(Central European Summer Time)" tail of a JS Date string
var jsDateSuffix = regexp.MustCompile(`\s*\([^)]*\)$`)

// NormalizeBirthday converts a date in any accepted layout to YYYY-MM-DD in UTC,
// falling back to dateparse for anything the fixed layouts miss.
// An empty value stays empty.
func NormalizeBirthday(value string) (string, error) {
	value = strings.TrimSpace(jsDateSuffix.ReplaceAllString(strings.TrimSpace(value), ""))
	if value == "" {
		return "", nil
	}

	for _, layout := range birthdayLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UTC().Format(BirthdayLayout), nil
		}
	}
	if t, err := dateparse.ParseIn(value, time.UTC); err == nil {
		return t.UTC().Format(BirthdayLayout), nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidBirthday, value)
}

// ProfileForm is the editable projection of the user record
type ProfileForm struct {
	Username string
	Password string
	Email    string
	Birthday string
}

// Profile is what the profile view shows
type Profile struct {
	User      myflix.User
	Form      ProfileForm
	Favorites []MovieItem
}

// formFromUser maps server field names onto the form
func (s *Service) formFromUser(user myflix.User) ProfileForm {
	form := ProfileForm{
		Username: user.Username,
		Email:    user.Email,
	}
	if user.Birthday != "" {
		birthday, err := NormalizeBirthday(user.Birthday)
		if err != nil {
			s.logger.Warn().Err(err).Msg("Leaving unreadable birthday out of the form")
		}
		form.Birthday = birthday
	}
	return form
}

// LoadProfile fetches the server's user record and the catalogue in parallel,
// refreshes the cached user and resolves the favorites.
func (s *Service) LoadProfile(ctx context.Context) (*Profile, error) {
	username, err := s.session.Username()
	if err != nil {
		s.notifier.Notify(MsgGenericFailure)
		return nil, err
	}

	var (
		user   *myflix.User
		movies []myflix.Movie
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		user, err = s.api.GetUser(gctx, username)
		return err
	})
	g.Go(func() error {
		var err error
		movies, err = s.api.GetMovies(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		s.notifier.Notify(MsgGenericFailure)
		return nil, err
	}

	if err := s.session.ReplaceUser(*user); err != nil {
		s.logger.Warn().Err(err).Msg("Failed to refresh cached user")
	}

	return &Profile{
		User:      *user,
		Form:      s.formFromUser(*user),
		Favorites: favoriteItems(movies, user.UniqueFavorites()),
	}, nil
}

// EditProfile submits form for the session user. On success the cached user
// is replaced by the record the server returns.
func (s *Service) EditProfile(ctx context.Context, form ProfileForm) (*myflix.User, error) {
	birthday, err := NormalizeBirthday(form.Birthday)
	if err != nil {
		s.notifier.Notify(MsgGenericFailure)
		return nil, err
	}

	username, err := s.session.Username()
	if err != nil {
		s.notifier.Notify(MsgGenericFailure)
		return nil, err
	}

	update := myflix.UserUpdate{
		Username: form.Username,
		Password: form.Password,
		Email:    form.Email,
		Birthday: birthday,
	}
	if update.Username == "" {
		update.Username = username
	}

	updated, err := s.api.EditUser(ctx, username, update)
	if err != nil {
		s.notifier.Notify(MsgGenericFailure)
		return nil, err
	}

	if err := s.session.ReplaceUser(*updated); err != nil {
		s.notifier.Notify(MsgGenericFailure)
		return nil, fmt.Errorf("profile updated remotely but not saved locally: %w", err)
	}

	s.notifier.Notify(MsgProfileUpdated)
	return updated, nil
}

// DeleteAccount deletes the session user after confirmation. The order is
// fixed: remote delete, clear session, notify, navigate to welcome. It
// reports whether the account was deleted.
func (s *Service) DeleteAccount(ctx context.Context, confirm Confirmer) (bool, error) {
	if confirm == nil || !confirm.Confirm(MsgConfirmAccountLoss) {
		s.logger.Info().Msg("Account deletion cancelled")
		return false, nil
	}

	username, err := s.session.Username()
	if err != nil {
		s.notifier.Notify(MsgGenericFailure)
		return false, err
	}

	if err := s.api.DeleteUser(ctx, username); err != nil {
		s.notifier.Notify(MsgGenericFailure)
		return false, err
	}

	if err := s.session.Clear(); err != nil {
		s.notifier.Notify(MsgGenericFailure)
		return true, fmt.Errorf("account deleted but local session not cleared: %w", err)
	}

	s.notifier.Notify(MsgAccountDeleted)
	s.navigator.Navigate(RouteWelcome)
	return true, nil
}
