package myflix

import (
	"context"
)

// API defines the myFlix operations the views depend on
type API interface {
	// Register creates a new account
	Register(ctx context.Context, user User) (*User, error)

	// Login exchanges credentials for a user record and bearer token
	Login(ctx context.Context, creds Credentials) (*LoginResponse, error)

	// GetMovies retrieves the whole catalogue
	GetMovies(ctx context.Context) ([]Movie, error)

	// GetMovie retrieves a movie by title
	GetMovie(ctx context.Context, title string) (*Movie, error)

	// GetGenre retrieves a genre by name
	GetGenre(ctx context.Context, name string) (*Genre, error)

	// GetDirector retrieves a director by name
	GetDirector(ctx context.Context, name string) (*Director, error)

	// GetUser retrieves the server copy of a user
	GetUser(ctx context.Context, username string) (*User, error)

	// EditUser updates a user and returns the stored record
	EditUser(ctx context.Context, username string, update UserUpdate) (*User, error)

	// DeleteUser removes the account
	DeleteUser(ctx context.Context, username string) error

	// AddFavorite adds a movie to the user's favorites
	AddFavorite(ctx context.Context, username, movieID string) error

	// RemoveFavorite removes a movie from the user's favorites
	RemoveFavorite(ctx context.Context, username, movieID string) error
}

// TokenSource supplies the bearer token for authenticated requests.
// An empty string means no token is available.
type TokenSource interface {
	BearerToken() string
}

// TokenFunc adapts a function to TokenSource
type TokenFunc func() string

// BearerToken implements TokenSource
func (f TokenFunc) BearerToken() string {
	return f()
}
