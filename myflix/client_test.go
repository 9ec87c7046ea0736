package myflix

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc, token string, opts ...Option) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient(server.URL, TokenFunc(func() string { return token }), zerolog.Nop(), opts...)
	require.NoError(t, err)
	return client
}

func TestNewClient(t *testing.T) {
	tests := []struct {
		name    string
		baseURL string
		wantErr bool
		errMsg  string
	}{
		{
			name:    "valid config",
			baseURL: "http://localhost:8080",
		},
		{
			name:    "trailing slash trimmed",
			baseURL: "http://localhost:8080/",
		},
		{
			name:    "missing URL",
			baseURL: "",
			wantErr: true,
			errMsg:  "URL is required",
		},
		{
			name:    "no scheme",
			baseURL: "localhost",
			wantErr: true,
			errMsg:  "invalid myflix URL",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := NewClient(tt.baseURL, nil, zerolog.Nop())
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidConfig)
				assert.Contains(t, err.Error(), tt.errMsg)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "http://localhost:8080", client.BaseURL())
		})
	}
}

func TestClientOptions(t *testing.T) {
	t.Run("with timeout", func(t *testing.T) {
		client, err := NewClient("http://localhost", nil, zerolog.Nop(), WithTimeout(5*time.Second))
		require.NoError(t, err)
		assert.Equal(t, 5*time.Second, client.httpClient.Timeout)
	})

	t.Run("with custom http client", func(t *testing.T) {
		custom := &http.Client{Timeout: 10 * time.Second}
		client, err := NewClient("http://localhost", nil, zerolog.Nop(), WithHTTPClient(custom))
		require.NoError(t, err)
		assert.Same(t, custom, client.httpClient)
	})

	t.Run("timeout survives a later http client", func(t *testing.T) {
		custom := &http.Client{Timeout: 10 * time.Second}
		tests := []struct {
			name string
			opts []Option
		}{
			{name: "timeout first", opts: []Option{WithTimeout(5 * time.Second), WithHTTPClient(custom)}},
			{name: "client first", opts: []Option{WithHTTPClient(custom), WithTimeout(5 * time.Second)}},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				client, err := NewClient("http://localhost", nil, zerolog.Nop(), tt.opts...)
				require.NoError(t, err)
				assert.Equal(t, 5*time.Second, client.httpClient.Timeout)
				assert.Equal(t, 10*time.Second, custom.Timeout, "caller's client is not mutated")
			})
		}
	})

	t.Run("with rate limit", func(t *testing.T) {
		client, err := NewClient("http://localhost", nil, zerolog.Nop(), WithRateLimit(2, 0))
		require.NoError(t, err)
		require.NotNil(t, client.limiter)
		assert.Equal(t, 1, client.limiter.Burst())

		client, err = NewClient("http://localhost", nil, zerolog.Nop(), WithRateLimit(0, 5))
		require.NoError(t, err)
		assert.Nil(t, client.limiter)
	})
}

func TestClient_Login(t *testing.T) {
	t.Run("valid credentials", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/login", r.URL.Path)
			assert.Empty(t, r.Header.Get("Authorization"))
			assert.NotEmpty(t, r.Header.Get("X-Request-ID"))

			var creds Credentials
			require.NoError(t, json.NewDecoder(r.Body).Decode(&creds))
			assert.Equal(t, Credentials{Username: "u", Password: "p"}, creds)

			json.NewEncoder(w).Encode(map[string]any{
				"user":  map[string]any{"Username": "u", "FavoriteMovies": []string{}},
				"token": "T",
			})
		}, "stale-token")

		resp, err := client.Login(context.Background(), Credentials{Username: "u", Password: "p"})
		require.NoError(t, err)
		assert.Equal(t, "u", resp.User.Username)
		assert.Equal(t, "T", resp.Token)
	})

	t.Run("rejected credentials", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(map[string]any{"message": "Something is not right"})
		}, "")

		_, err := client.Login(context.Background(), Credentials{Username: "u", Password: "bad"})
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrOperationFailed)
		assert.Equal(t, ErrOperationFailed.Error(), err.Error())

		var opErr *OperationError
		require.ErrorAs(t, err, &opErr)
		assert.Equal(t, "login", opErr.Op)
		assert.Equal(t, KindApplication, opErr.Kind)
		assert.Equal(t, "Something is not right", opErr.ServerMessage())
	})

	t.Run("missing password never hits the network", func(t *testing.T) {
		called := false
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			called = true
		}, "")

		_, err := client.Login(context.Background(), Credentials{Username: "u"})
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrMissingPassword)
		assert.False(t, called)
	})

	t.Run("response without token", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(map[string]any{"user": map[string]any{"Username": "u"}})
		}, "")

		_, err := client.Login(context.Background(), Credentials{Username: "u", Password: "p"})
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrOperationFailed)
	})
}

func TestClient_Register(t *testing.T) {
	t.Run("validation message is kept", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/users", r.URL.Path)
			w.WriteHeader(http.StatusUnprocessableEntity)
			w.Write([]byte(`{"errors":[{"msg":"Username contains non alphanumeric characters - not allowed.","param":"Username"}]}`))
		}, "")

		_, err := client.Register(context.Background(), User{Username: "bad name", Password: "p"})
		var opErr *OperationError
		require.ErrorAs(t, err, &opErr)
		assert.Equal(t, KindApplication, opErr.Kind)
		assert.Equal(t, "Username contains non alphanumeric characters - not allowed.", opErr.ServerMessage())
	})

	t.Run("created", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			var u User
			require.NoError(t, json.NewDecoder(r.Body).Decode(&u))
			u.ID = "abc"
			u.Password = ""
			w.WriteHeader(http.StatusCreated)
			json.NewEncoder(w).Encode(u)
		}, "")

		created, err := client.Register(context.Background(), User{Username: "new", Password: "pw", Email: "n@example.com"})
		require.NoError(t, err)
		assert.Equal(t, "abc", created.ID)
		assert.Equal(t, "n@example.com", created.Email)
	})
}

func TestClient_AuthenticatedEndpoints(t *testing.T) {
	movie := Movie{
		ID:          "m1",
		Title:       "The Dark Knight",
		Description: "Batman",
		Genre:       Genre{Name: "Action", Description: "Fast"},
		Director:    Director{Name: "Christopher Nolan", Bio: "British", Birth: "1970"},
	}

	tests := []struct {
		name       string
		call       func(c *Client) error
		wantMethod string
		wantPath   string
		response   any
	}{
		{
			name: "list movies",
			call: func(c *Client) error {
				movies, err := c.GetMovies(context.Background())
				if err == nil {
					assert.Len(t, movies, 1)
				}
				return err
			},
			wantMethod: http.MethodGet,
			wantPath:   "/movies",
			response:   []Movie{movie},
		},
		{
			name: "get movie escapes title",
			call: func(c *Client) error {
				m, err := c.GetMovie(context.Background(), "The Dark Knight")
				if err == nil {
					assert.Equal(t, "m1", m.ID)
				}
				return err
			},
			wantMethod: http.MethodGet,
			wantPath:   "/movies/The Dark Knight",
			response:   movie,
		},
		{
			name: "get genre",
			call: func(c *Client) error {
				g, err := c.GetGenre(context.Background(), "Action")
				if err == nil {
					assert.Equal(t, "Fast", g.Description)
				}
				return err
			},
			wantMethod: http.MethodGet,
			wantPath:   "/movies/genre/Action",
			response:   movie.Genre,
		},
		{
			name: "get director",
			call: func(c *Client) error {
				d, err := c.GetDirector(context.Background(), "Christopher Nolan")
				if err == nil {
					assert.Equal(t, "British", d.Bio)
				}
				return err
			},
			wantMethod: http.MethodGet,
			wantPath:   "/movies/director/Christopher Nolan",
			response:   movie.Director,
		},
		{
			name: "get user",
			call: func(c *Client) error {
				_, err := c.GetUser(context.Background(), "u")
				return err
			},
			wantMethod: http.MethodGet,
			wantPath:   "/users/u",
			response:   User{Username: "u"},
		},
		{
			name: "edit user",
			call: func(c *Client) error {
				u, err := c.EditUser(context.Background(), "u", UserUpdate{Username: "u2", Email: "e"})
				if err == nil {
					assert.Equal(t, "u2", u.Username)
				}
				return err
			},
			wantMethod: http.MethodPut,
			wantPath:   "/users/u",
			response:   User{Username: "u2"},
		},
		{
			name: "delete user",
			call: func(c *Client) error {
				return c.DeleteUser(context.Background(), "u")
			},
			wantMethod: http.MethodDelete,
			wantPath:   "/users/u",
			response:   "u was deleted.",
		},
		{
			name: "add favorite",
			call: func(c *Client) error {
				return c.AddFavorite(context.Background(), "u", "m1")
			},
			wantMethod: http.MethodPost,
			wantPath:   "/users/u/movies/m1",
		},
		{
			name: "remove favorite",
			call: func(c *Client) error {
				return c.RemoveFavorite(context.Background(), "u", "m1")
			},
			wantMethod: http.MethodDelete,
			wantPath:   "/users/u/movies/m1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, tt.wantMethod, r.Method)
				assert.Equal(t, tt.wantPath, r.URL.Path)
				assert.Equal(t, "Bearer T", r.Header.Get("Authorization"))

				switch resp := tt.response.(type) {
				case nil:
				case string:
					io.WriteString(w, resp)
				default:
					json.NewEncoder(w).Encode(resp)
				}
			}, "T")

			require.NoError(t, tt.call(client))
		})
	}
}

func TestClient_NoTokenOmitsHeader(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusUnauthorized)
		io.WriteString(w, "Unauthorized")
	}, "")

	_, err := client.GetMovies(context.Background())
	var opErr *OperationError
	require.ErrorAs(t, err, &opErr)
	assert.Equal(t, KindAuth, opErr.Kind)
	assert.Equal(t, "list movies", opErr.Op)
}

func TestClient_NotFoundIsGeneric(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}, "T")

	_, err := client.GetMovie(context.Background(), "Missing")
	require.Error(t, err)
	assert.Equal(t, ErrOperationFailed.Error(), err.Error())

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.True(t, apiErr.IsNotFound())
}

func TestClient_NetworkFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	client, err := NewClient(url, nil, zerolog.Nop())
	require.NoError(t, err)

	_, err = client.GetMovies(context.Background())
	var opErr *OperationError
	require.ErrorAs(t, err, &opErr)
	assert.Equal(t, KindNetwork, opErr.Kind)
}

func TestClient_CancelledContext(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("request should not reach the server")
	}, "T")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.GetMovies(ctx)
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestAPIError(t *testing.T) {
	t.Run("Error message", func(t *testing.T) {
		err := &APIError{StatusCode: 404, Message: "Not Found"}
		assert.Equal(t, "myflix API error: status 404: Not Found", err.Error())
	})

	t.Run("IsUnauthorized", func(t *testing.T) {
		tests := []struct {
			code     int
			expected bool
		}{
			{401, true},
			{403, true},
			{404, false},
			{500, false},
		}

		for _, tt := range tests {
			err := &APIError{StatusCode: tt.code}
			assert.Equal(t, tt.expected, err.IsUnauthorized())
		}
	})

	t.Run("plain text body becomes message", func(t *testing.T) {
		err := newAPIError(400, []byte("u already exists"))
		assert.Equal(t, "u already exists", err.Message)

		err = newAPIError(500, nil)
		assert.Equal(t, "Internal Server Error", err.Message)
	})
}

func TestErrorKind(t *testing.T) {
	tests := []struct {
		kind     ErrorKind
		expected string
	}{
		{KindNetwork, "network"},
		{KindAuth, "auth"},
		{KindApplication, "application"},
		{KindLocal, "local"},
		{KindUnknown, "unknown"},
		{ErrorKind(42), "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.kind.String())
		})
	}
}
