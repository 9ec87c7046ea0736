package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/s0up4200/myflix/myflix"
)

var (
	// ErrNoSession indicates nobody is logged in
	ErrNoSession = errors.New("not logged in")
	// ErrMalformedSession indicates the persisted session could not be decoded
	ErrMalformedSession = errors.New("malformed session")
)

// Session is the persisted proof of authentication plus the cached user
type Session struct {
	User  myflix.User
	Token string
}

// Manager is the single owner of the persisted session. Every read goes to
// the store and every mutation is one Store.Update, so concurrent writers
// cannot drop each other's changes.
type Manager struct {
	store  Store
	logger zerolog.Logger
	now    func() time.Time
}

var _ myflix.TokenSource = (*Manager)(nil)

// NewManager creates a session manager over store
func NewManager(store Store, logger zerolog.Logger) *Manager {
	return &Manager{
		store:  store,
		logger: logger,
		now:    time.Now,
	}
}

// Begin persists a freshly authenticated session
func (m *Manager) Begin(user myflix.User, token string) error {
	if token == "" {
		return errors.New("session token is required")
	}
	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("failed to encode user: %w", err)
	}

	err = m.store.Update(func(values map[string]string) error {
		values[KeyUser] = string(data)
		values[KeyToken] = token
		values[KeyUsername] = user.Username
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}

	m.logger.Debug().Str("username", user.Username).Msg("Session started")
	return nil
}

// Session returns the persisted session or ErrNoSession
func (m *Manager) Session() (Session, error) {
	values, err := m.store.Load()
	if err != nil {
		return Session{}, err
	}

	token := values[KeyToken]
	if token == "" {
		return Session{}, ErrNoSession
	}
	user, err := decodeUser(values)
	if err != nil {
		return Session{}, err
	}
	return Session{User: user, Token: token}, nil
}

// CurrentUser returns the cached user record, or the zero User when there is none
func (m *Manager) CurrentUser() myflix.User {
	values, err := m.store.Load()
	if err != nil {
		m.logger.Warn().Err(err).Msg("Failed to load session")
		return myflix.User{}
	}

	user, err := decodeUser(values)
	if err != nil {
		if !errors.Is(err, ErrNoSession) {
			m.logger.Warn().Err(err).Msg("Ignoring unreadable session user")
		}
		return myflix.User{}
	}
	return user
}

// Username returns the identity requests are issued for
func (m *Manager) Username() (string, error) {
	values, err := m.store.Load()
	if err != nil {
		return "", err
	}

	user, err := decodeUser(values)
	if err == nil && user.Username != "" {
		return user.Username, nil
	}
	if name := values[KeyUsername]; name != "" {
		return name, nil
	}
	if err != nil {
		return "", err
	}
	return "", ErrNoSession
}

// BearerToken implements myflix.TokenSource
func (m *Manager) BearerToken() string {
	values, err := m.store.Load()
	if err != nil {
		m.logger.Warn().Err(err).Msg("Failed to load session token")
		return ""
	}

	token := values[KeyToken]
	if token != "" && m.expired(token) {
		m.logger.Warn().Msg("Session token has expired, please log in again")
	}
	return token
}

// IsAuthenticated reports whether a token is persisted
func (m *Manager) IsAuthenticated() bool {
	_, err := m.Session()
	return err == nil
}

// ReplaceUser overwrites the cached user with the server's representation
func (m *Manager) ReplaceUser(user myflix.User) error {
	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("failed to encode user: %w", err)
	}

	return m.store.Update(func(values map[string]string) error {
		values[KeyUser] = string(data)
		values[KeyUsername] = user.Username
		return nil
	})
}

// UpdateUser applies fn to the cached user inside one read-modify-write cycle
func (m *Manager) UpdateUser(fn func(user *myflix.User) error) error {
	return m.store.Update(func(values map[string]string) error {
		user, err := decodeUser(values)
		if err != nil {
			return err
		}
		if err := fn(&user); err != nil {
			return err
		}

		data, err := json.Marshal(user)
		if err != nil {
			return fmt.Errorf("failed to encode user: %w", err)
		}
		values[KeyUser] = string(data)
		values[KeyUsername] = user.Username
		return nil
	})
}

// IsFavorite reports whether movieID is in the cached favorites
func (m *Manager) IsFavorite(movieID string) bool {
	user := m.CurrentUser()
	return user.HasFavorite(movieID)
}

// AddFavorite records movieID as a favorite; existing entries are kept once
func (m *Manager) AddFavorite(movieID string) error {
	return m.UpdateUser(func(user *myflix.User) error {
		user.AddFavorite(movieID)
		return nil
	})
}

// RemoveFavorite drops movieID from the favorites
func (m *Manager) RemoveFavorite(movieID string) error {
	return m.UpdateUser(func(user *myflix.User) error {
		user.RemoveFavorite(movieID)
		return nil
	})
}

// Clear removes every persisted key
func (m *Manager) Clear() error {
	err := m.store.Update(func(values map[string]string) error {
		clear(values)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}

	m.logger.Debug().Msg("Session cleared")
	return nil
}

// Expiry returns the token's exp claim, if it has one
func (m *Manager) Expiry() (time.Time, bool) {
	values, err := m.store.Load()
	if err != nil || values[KeyToken] == "" {
		return time.Time{}, false
	}
	return tokenExpiry(values[KeyToken])
}

// Expired reports whether the token carries an exp claim in the past
func (m *Manager) Expired() bool {
	exp, ok := m.Expiry()
	return ok && !m.now().Before(exp)
}

func (m *Manager) expired(token string) bool {
	exp, ok := tokenExpiry(token)
	return ok && !m.now().Before(exp)
}

// tokenExpiry reads exp without verifying the signature; the server owns the key
func tokenExpiry(token string) (time.Time, bool) {
	parsed, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		return time.Time{}, false
	}
	exp, err := parsed.Claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}

func decodeUser(values map[string]string) (myflix.User, error) {
	raw, ok := values[KeyUser]
	if !ok || raw == "" {
		return myflix.User{}, ErrNoSession
	}

	var user myflix.User
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		return myflix.User{}, fmt.Errorf("%w: %v", ErrMalformedSession, err)
	}
	return user, nil
}
