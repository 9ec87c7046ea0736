package myflix

import (
	"slices"
	"strings"
)

// Genre is the genre record embedded in a Movie
type Genre struct {
	Name        string `json:"Name"`
	Description string `json:"Description"`
}

// Director is the director record embedded in a Movie
type Director struct {
	Name  string `json:"Name"`
	Bio   string `json:"Bio"`
	Birth string `json:"Birth,omitempty"`
	Death string `json:"Death,omitempty"`
}

// Movie represents a movie in the catalogue
type Movie struct {
	ID          string   `json:"_id"`
	Title       string   `json:"Title"`
	Description string   `json:"Description"`
	Genre       Genre    `json:"Genre"`
	Director    Director `json:"Director"`
	ImagePath   string   `json:"ImagePath,omitempty"`
	Featured    bool     `json:"Featured,omitempty"`
}

// User is the user record as stored by the API and cached in the session
type User struct {
	ID             string   `json:"_id,omitempty"`
	Username       string   `json:"Username"`
	Password       string   `json:"Password,omitempty"`
	Email          string   `json:"Email,omitempty"`
	Birthday       string   `json:"Birthday,omitempty"`
	FavoriteMovies []string `json:"FavoriteMovies"`
}

// IsZero reports whether the record is empty
func (u User) IsZero() bool {
	return u.ID == "" && u.Username == "" && u.Email == "" && len(u.FavoriteMovies) == 0
}

// HasFavorite reports whether movieID is in the favorites list
func (u User) HasFavorite(movieID string) bool {
	return slices.Contains(u.FavoriteMovies, movieID)
}

// AddFavorite appends movieID unless it is already present
func (u *User) AddFavorite(movieID string) bool {
	if u.HasFavorite(movieID) {
		return false
	}
	u.FavoriteMovies = append(u.FavoriteMovies, movieID)
	return true
}

// RemoveFavorite drops every occurrence of movieID
func (u *User) RemoveFavorite(movieID string) bool {
	n := len(u.FavoriteMovies)
	u.FavoriteMovies = slices.DeleteFunc(u.FavoriteMovies, func(id string) bool {
		return id == movieID
	})
	return len(u.FavoriteMovies) != n
}

// UniqueFavorites returns the favorites list with duplicates removed, first occurrence wins
func (u User) UniqueFavorites() []string {
	seen := make(map[string]bool, len(u.FavoriteMovies))
	out := make([]string, 0, len(u.FavoriteMovies))
	for _, id := range u.FavoriteMovies {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

// GetDisplayName returns the best available name for the user
func (u User) GetDisplayName() string {
	if u.Username != "" {
		return u.Username
	}
	return u.Email
}

// Credentials are the login form fields
type Credentials struct {
	Username string `json:"Username"`
	Password string `json:"Password"`
}

// Validate checks that both fields are present
func (c Credentials) Validate() error {
	if strings.TrimSpace(c.Username) == "" {
		return ErrMissingUsername
	}
	if c.Password == "" {
		return ErrMissingPassword
	}
	return nil
}

// LoginResponse is returned by a successful login
type LoginResponse struct {
	User  User   `json:"user"`
	Token string `json:"token"`
}

// UserUpdate is the payload sent when editing a user
type UserUpdate struct {
	Username string `json:"Username"`
	Password string `json:"Password,omitempty"`
	Email    string `json:"Email"`
	Birthday string `json:"Birthday,omitempty"`
}

// validationErrors is the body shape the API uses for rejected input
type validationErrors struct {
	Errors []struct {
		Msg   string `json:"msg"`
		Param string `json:"param,omitempty"`
	} `json:"errors"`
}
