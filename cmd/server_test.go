package cmd

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"slices"
	"sync"
	"testing"

	"github.com/s0up4200/myflix/myflix"
)

// apiServer is an in-memory myFlix API
type apiServer struct {
	mu        sync.Mutex
	movies    []myflix.Movie
	users     map[string]myflix.User
	passwords map[string]string
	edits     []myflix.UserUpdate
	deleted   []string
}

func newAPIServer(t *testing.T) (*apiServer, *httptest.Server) {
	t.Helper()
	s := &apiServer{
		movies: []myflix.Movie{
			{ID: "a", Title: "Inception", Genre: myflix.Genre{Name: "Sci-Fi"}, Director: myflix.Director{Name: "Christopher Nolan"}},
			{ID: "b", Title: "Heat", Genre: myflix.Genre{Name: "Crime"}, Director: myflix.Director{Name: "Michael Mann"}},
		},
		users: map[string]myflix.User{
			"u": {ID: "1", Username: "u", Email: "u@example.com", FavoriteMovies: []string{}},
		},
		passwords: map[string]string{"u": "p"},
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /login", s.login)
	mux.HandleFunc("POST /users", s.register)
	mux.HandleFunc("GET /movies", s.authed(s.listMovies))
	mux.HandleFunc("GET /movies/{title}", s.authed(s.getMovie))
	mux.HandleFunc("GET /movies/genre/{name}", s.authed(s.getGenre))
	mux.HandleFunc("GET /movies/director/{name}", s.authed(s.getDirector))
	mux.HandleFunc("GET /users/{username}", s.authed(s.getUser))
	mux.HandleFunc("PUT /users/{username}", s.authed(s.editUser))
	mux.HandleFunc("DELETE /users/{username}", s.authed(s.deleteUser))
	mux.HandleFunc("POST /users/{username}/movies/{id}", s.authed(s.favorite(true)))
	mux.HandleFunc("DELETE /users/{username}/movies/{id}", s.authed(s.favorite(false)))

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return s, srv
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *apiServer) authed(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer T" {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		s.mu.Lock()
		defer s.mu.Unlock()
		next(w, r)
	}
}

func (s *apiServer) login(w http.ResponseWriter, r *http.Request) {
	var creds myflix.Credentials
	_ = json.NewDecoder(r.Body).Decode(&creds)

	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[creds.Username]
	if !ok || s.passwords[creds.Username] != creds.Password {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Something is not right"})
		return
	}
	writeJSON(w, http.StatusOK, myflix.LoginResponse{User: user, Token: "T"})
}

func (s *apiServer) register(w http.ResponseWriter, r *http.Request) {
	var user myflix.User
	_ = json.NewDecoder(r.Body).Decode(&user)

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.users[user.Username]; exists {
		http.Error(w, user.Username+" already exists", http.StatusBadRequest)
		return
	}
	s.passwords[user.Username] = user.Password
	user.Password = ""
	user.FavoriteMovies = []string{}
	s.users[user.Username] = user
	writeJSON(w, http.StatusCreated, user)
}

func (s *apiServer) listMovies(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.movies)
}

func (s *apiServer) getMovie(w http.ResponseWriter, r *http.Request) {
	for _, m := range s.movies {
		if m.Title == r.PathValue("title") {
			writeJSON(w, http.StatusOK, m)
			return
		}
	}
	http.NotFound(w, r)
}

func (s *apiServer) getGenre(w http.ResponseWriter, r *http.Request) {
	for _, m := range s.movies {
		if m.Genre.Name == r.PathValue("name") {
			writeJSON(w, http.StatusOK, myflix.Genre{Name: m.Genre.Name, Description: "All about " + m.Genre.Name})
			return
		}
	}
	http.NotFound(w, r)
}

func (s *apiServer) getDirector(w http.ResponseWriter, r *http.Request) {
	for _, m := range s.movies {
		if m.Director.Name == r.PathValue("name") {
			writeJSON(w, http.StatusOK, myflix.Director{Name: m.Director.Name, Bio: "Film maker", Birth: "1970-01-01"})
			return
		}
	}
	http.NotFound(w, r)
}

func (s *apiServer) getUser(w http.ResponseWriter, r *http.Request) {
	user, ok := s.users[r.PathValue("username")]
	if !ok {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (s *apiServer) editUser(w http.ResponseWriter, r *http.Request) {
	var update myflix.UserUpdate
	_ = json.NewDecoder(r.Body).Decode(&update)
	s.edits = append(s.edits, update)

	name := r.PathValue("username")
	user, ok := s.users[name]
	if !ok {
		http.NotFound(w, r)
		return
	}
	delete(s.users, name)
	user.Username = update.Username
	user.Email = update.Email
	if update.Birthday != "" {
		user.Birthday = update.Birthday + "T00:00:00.000Z"
	}
	s.users[user.Username] = user
	writeJSON(w, http.StatusOK, user)
}

func (s *apiServer) deleteUser(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("username")
	delete(s.users, name)
	s.deleted = append(s.deleted, name)
	w.Header().Set("Content-Type", "text/plain")
	_, _ = w.Write([]byte(name + " was deleted."))
}

func (s *apiServer) favorite(add bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name, id := r.PathValue("username"), r.PathValue("id")
		user, ok := s.users[name]
		if !ok {
			http.NotFound(w, r)
			return
		}
		if add {
			if !slices.Contains(user.FavoriteMovies, id) {
				user.FavoriteMovies = append(user.FavoriteMovies, id)
			}
		} else {
			user.FavoriteMovies = slices.DeleteFunc(user.FavoriteMovies, func(m string) bool { return m == id })
		}
		s.users[name] = user
		writeJSON(w, http.StatusOK, user)
	}
}

func (s *apiServer) user(name string) (myflix.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[name]
	return u, ok
}
