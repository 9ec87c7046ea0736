package views

import (
	"context"
	"errors"
	"sync"

	"github.com/s0up4200/myflix/myflix"
)

var errFake = &myflix.OperationError{Op: "fake", Kind: myflix.KindNetwork, Err: errors.New("connection refused")}

// fakeAPI implements myflix.API for testing
type fakeAPI struct {
	mu sync.Mutex

	movies    []myflix.Movie
	genres    map[string]myflix.Genre
	directors map[string]myflix.Director
	users     map[string]myflix.User
	passwords map[string]string
	token     string

	failFavorites bool
	failMovies    bool
	failEdit      bool
	failDelete    bool

	// Track calls for verification
	calls []string
	edits []myflix.UserUpdate
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{
		genres:    make(map[string]myflix.Genre),
		directors: make(map[string]myflix.Director),
		users:     make(map[string]myflix.User),
		passwords: make(map[string]string),
		token:     "T",
	}
}

func (f *fakeAPI) record(call string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
}

func (f *fakeAPI) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeAPI) Register(ctx context.Context, user myflix.User) (*myflix.User, error) {
	f.record("register")
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, exists := f.users[user.Username]; exists || user.Username == "" {
		return nil, errFake
	}
	f.passwords[user.Username] = user.Password
	user.Password = ""
	f.users[user.Username] = user
	return &user, nil
}

func (f *fakeAPI) Login(ctx context.Context, creds myflix.Credentials) (*myflix.LoginResponse, error) {
	f.record("login")
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.users[creds.Username]
	if !ok || f.passwords[creds.Username] != creds.Password {
		return nil, errFake
	}
	return &myflix.LoginResponse{User: user, Token: f.token}, nil
}

func (f *fakeAPI) GetMovies(ctx context.Context) ([]myflix.Movie, error) {
	f.record("movies")
	if f.failMovies {
		return nil, errFake
	}
	return f.movies, nil
}

func (f *fakeAPI) GetMovie(ctx context.Context, title string) (*myflix.Movie, error) {
	f.record("movie " + title)
	for _, m := range f.movies {
		if m.Title == title {
			return &m, nil
		}
	}
	return nil, errFake
}

func (f *fakeAPI) GetGenre(ctx context.Context, name string) (*myflix.Genre, error) {
	f.record("genre " + name)
	if g, ok := f.genres[name]; ok {
		return &g, nil
	}
	return nil, errFake
}

func (f *fakeAPI) GetDirector(ctx context.Context, name string) (*myflix.Director, error) {
	f.record("director " + name)
	if d, ok := f.directors[name]; ok {
		return &d, nil
	}
	return nil, errFake
}

func (f *fakeAPI) GetUser(ctx context.Context, username string) (*myflix.User, error) {
	f.record("user " + username)
	f.mu.Lock()
	defer f.mu.Unlock()
	if u, ok := f.users[username]; ok {
		return &u, nil
	}
	return nil, errFake
}

func (f *fakeAPI) EditUser(ctx context.Context, username string, update myflix.UserUpdate) (*myflix.User, error) {
	f.record("edit " + username)
	f.mu.Lock()
	defer f.mu.Unlock()
	f.edits = append(f.edits, update)
	if f.failEdit {
		return nil, errFake
	}
	u := f.users[username]
	delete(f.users, username)
	u.Username = update.Username
	u.Email = update.Email
	u.Birthday = update.Birthday + "T00:00:00.000Z"
	f.users[u.Username] = u
	return &u, nil
}

func (f *fakeAPI) DeleteUser(ctx context.Context, username string) error {
	f.record("delete " + username)
	if f.failDelete {
		return errFake
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.users, username)
	return nil
}

func (f *fakeAPI) AddFavorite(ctx context.Context, username, movieID string) error {
	f.record("add " + movieID)
	if f.failFavorites {
		return errFake
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	u := f.users[username]
	u.AddFavorite(movieID)
	f.users[username] = u
	return nil
}

func (f *fakeAPI) RemoveFavorite(ctx context.Context, username, movieID string) error {
	f.record("remove " + movieID)
	if f.failFavorites {
		return errFake
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	u := f.users[username]
	u.RemoveFavorite(movieID)
	f.users[username] = u
	return nil
}

// recorder captures notifications and navigation in order
type recorder struct {
	mu     sync.Mutex
	events []string
}

func (r *recorder) Notify(message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, "notify: "+message)
}

func (r *recorder) Navigate(route Route) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, "navigate: "+string(route))
}

func (r *recorder) Events() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.events...)
}
