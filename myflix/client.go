package myflix

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

// DefaultBaseURL is the public myFlix API
const DefaultBaseURL = "https://cp-movies-api-41b2d280c95b.herokuapp.com"

// Client represents a myFlix API client
type Client struct {
	baseURL    string
	tokens     TokenSource
	httpClient *http.Client
	limiter    *rate.Limiter
	timeout    time.Duration
	userAgent  string
	logger     zerolog.Logger
}

var _ API = (*Client)(nil)

// NewClient creates a new myFlix client. tokens may be nil for a client that
// only registers and logs in.
func NewClient(baseURL string, tokens TokenSource, logger zerolog.Logger, opts ...Option) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, fmt.Errorf("%w: myflix URL is required", ErrInvalidConfig)
	}
	u, err := url.Parse(baseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("%w: invalid myflix URL %q", ErrInvalidConfig, baseURL)
	}
	if tokens == nil {
		tokens = TokenFunc(func() string { return "" })
	}

	client := &Client{
		baseURL: baseURL,
		tokens:  tokens,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		userAgent: "myflix-cli",
		logger:    logger,
	}
	for _, opt := range opts {
		opt(client)
	}
	if client.timeout > 0 && client.httpClient.Timeout != client.timeout {
		httpClient := *client.httpClient
		httpClient.Timeout = client.timeout
		client.httpClient = &httpClient
	}

	return client, nil
}

// BaseURL returns the API origin the client talks to
func (c *Client) BaseURL() string {
	return c.baseURL
}

// doRequest performs a single API call. A nil out discards the response body.
func (c *Client) doRequest(ctx context.Context, method, endpoint string, payload any, auth bool, out any) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return &transportError{err: err}
		}
	}

	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("X-Request-ID", requestID)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if auth {
		if token := c.tokens.BearerToken(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	c.logger.Debug().
		Str("method", method).
		Str("endpoint", endpoint).
		Str("request_id", requestID).
		Msg("Making myFlix API request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &transportError{err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return &transportError{err: fmt.Errorf("failed to read response body: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return newAPIError(resp.StatusCode, data)
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}

func newAPIError(status int, body []byte) *APIError {
	apiErr := &APIError{
		StatusCode: status,
		Message:    http.StatusText(status),
		Body:       string(body),
	}

	var ve validationErrors
	if err := json.Unmarshal(body, &ve); err == nil && len(ve.Errors) > 0 && ve.Errors[0].Msg != "" {
		apiErr.Message = ve.Errors[0].Msg
		return apiErr
	}

	var msg struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &msg); err == nil && msg.Message != "" {
		apiErr.Message = msg.Message
		return apiErr
	}

	if text := strings.TrimSpace(string(body)); text != "" && !strings.HasPrefix(text, "{") && len(text) < 200 {
		apiErr.Message = text
	}
	return apiErr
}

// fail logs the failure detail and returns the normalized error
func (c *Client) fail(op string, err error) error {
	kind := classify(err)
	event := c.logger.Error().Err(err).Str("op", op).Str("kind", kind.String())

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		event = event.Int("status", apiErr.StatusCode)
	}
	event.Msg("myFlix operation failed")

	return &OperationError{Op: op, Kind: kind, Err: err}
}

// Register creates a new user account
func (c *Client) Register(ctx context.Context, user User) (*User, error) {
	if err := (Credentials{Username: user.Username, Password: user.Password}).Validate(); err != nil {
		return nil, c.fail("register", err)
	}

	var created User
	if err := c.doRequest(ctx, http.MethodPost, "/users", user, false, &created); err != nil {
		return nil, c.fail("register", err)
	}

	c.logger.Info().Str("username", created.Username).Msg("Registered user")
	return &created, nil
}

// Login exchanges credentials for a user record and token
func (c *Client) Login(ctx context.Context, creds Credentials) (*LoginResponse, error) {
	if err := creds.Validate(); err != nil {
		return nil, c.fail("login", err)
	}

	var resp LoginResponse
	if err := c.doRequest(ctx, http.MethodPost, "/login", creds, false, &resp); err != nil {
		return nil, c.fail("login", err)
	}
	if resp.Token == "" {
		return nil, c.fail("login", errors.New("login response carried no token"))
	}

	c.logger.Debug().Str("username", resp.User.Username).Msg("Logged in")
	return &resp, nil
}

// GetMovies retrieves all movies
func (c *Client) GetMovies(ctx context.Context) ([]Movie, error) {
	var movies []Movie
	if err := c.doRequest(ctx, http.MethodGet, "/movies", nil, true, &movies); err != nil {
		return nil, c.fail("list movies", err)
	}

	c.logger.Debug().Msgf("Retrieved %d movies from myFlix", len(movies))
	return movies, nil
}

// GetMovie retrieves a single movie by title
func (c *Client) GetMovie(ctx context.Context, title string) (*Movie, error) {
	var movie Movie
	if err := c.doRequest(ctx, http.MethodGet, "/movies/"+url.PathEscape(title), nil, true, &movie); err != nil {
		return nil, c.fail("get movie", err)
	}
	return &movie, nil
}

// GetGenre retrieves a genre by name
func (c *Client) GetGenre(ctx context.Context, name string) (*Genre, error) {
	var genre Genre
	if err := c.doRequest(ctx, http.MethodGet, "/movies/genre/"+url.PathEscape(name), nil, true, &genre); err != nil {
		return nil, c.fail("get genre", err)
	}
	return &genre, nil
}

// GetDirector retrieves a director by name
func (c *Client) GetDirector(ctx context.Context, name string) (*Director, error) {
	var director Director
	if err := c.doRequest(ctx, http.MethodGet, "/movies/director/"+url.PathEscape(name), nil, true, &director); err != nil {
		return nil, c.fail("get director", err)
	}
	return &director, nil
}

// GetUser retrieves the server copy of a user
func (c *Client) GetUser(ctx context.Context, username string) (*User, error) {
	if username == "" {
		return nil, c.fail("get user", ErrMissingUsername)
	}

	var user User
	if err := c.doRequest(ctx, http.MethodGet, userPath(username), nil, true, &user); err != nil {
		return nil, c.fail("get user", err)
	}
	return &user, nil
}

// EditUser updates the user and returns the stored record
func (c *Client) EditUser(ctx context.Context, username string, update UserUpdate) (*User, error) {
	if username == "" {
		return nil, c.fail("edit user", ErrMissingUsername)
	}

	var user User
	if err := c.doRequest(ctx, http.MethodPut, userPath(username), update, true, &user); err != nil {
		return nil, c.fail("edit user", err)
	}

	c.logger.Info().Str("username", user.Username).Msg("Updated user")
	return &user, nil
}

// DeleteUser removes the account
func (c *Client) DeleteUser(ctx context.Context, username string) error {
	if username == "" {
		return c.fail("delete user", ErrMissingUsername)
	}
	if err := c.doRequest(ctx, http.MethodDelete, userPath(username), nil, true, nil); err != nil {
		return c.fail("delete user", err)
	}

	c.logger.Info().Str("username", username).Msg("Deleted user")
	return nil
}

// AddFavorite adds movieID to the user's favorites
func (c *Client) AddFavorite(ctx context.Context, username, movieID string) error {
	if username == "" {
		return c.fail("add favorite", ErrMissingUsername)
	}
	if err := c.doRequest(ctx, http.MethodPost, favoritePath(username, movieID), nil, true, nil); err != nil {
		return c.fail("add favorite", err)
	}

	c.logger.Debug().Str("movie_id", movieID).Msg("Added favorite")
	return nil
}

// RemoveFavorite removes movieID from the user's favorites
func (c *Client) RemoveFavorite(ctx context.Context, username, movieID string) error {
	if username == "" {
		return c.fail("remove favorite", ErrMissingUsername)
	}
	if err := c.doRequest(ctx, http.MethodDelete, favoritePath(username, movieID), nil, true, nil); err != nil {
		return c.fail("remove favorite", err)
	}

	c.logger.Debug().Str("movie_id", movieID).Msg("Removed favorite")
	return nil
}

func userPath(username string) string {
	return "/users/" + url.PathEscape(username)
}

func favoritePath(username, movieID string) string {
	return userPath(username) + "/movies/" + url.PathEscape(movieID)
}
