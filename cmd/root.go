package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/s0up4200/myflix/config"
	"github.com/s0up4200/myflix/myflix"
	"github.com/s0up4200/myflix/session"
	"github.com/s0up4200/myflix/views"
)

var (
	cfgFile   string
	logLevel  string
	cfg       *config.Config
	logger    zerolog.Logger
	sessions  *session.Manager
	service   *views.Service
	formatter = views.NewConsoleFormatter()
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "myflix",
	Short: "Browse the myFlix movie catalogue from the terminal",
	Long: `myflix is a client for the myFlix movie API. Log in, browse movies,
genres and directors, keep a list of favorites and manage your profile.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: initializeApp,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, errorMessage(err))
		stop()
		os.Exit(1)
	}
}

// errorMessage appends the server's explanation to the generic failure text
func errorMessage(err error) string {
	var opErr *myflix.OperationError
	if errors.As(err, &opErr) {
		if msg := opErr.ServerMessage(); msg != "" {
			return fmt.Sprintf("%v (%s)", err, msg)
		}
	}
	return err.Error()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "override logging.level (debug, info, warn, error)")

	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(registerCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(moviesCmd)
	rootCmd.AddCommand(favoritesCmd)
	rootCmd.AddCommand(profileCmd)
}

// initializeApp initializes the configuration, session and API client
func initializeApp(cmd *cobra.Command, args []string) error {
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if cmd.Flags().Changed("log-level") {
		cfg.Logging.Level = logLevel
	}

	// Color only makes sense on a terminal
	if cfg.Logging.Color && !isTerminal(os.Stderr) {
		cfg.Logging.Color = false
	}
	logger = setupLogger(cfg.Logging, cmd.ErrOrStderr())

	store, err := session.NewFileStore(cfg.Session.Path)
	if err != nil {
		return err
	}
	sessions = session.NewManager(store, logger)

	client, err := myflix.NewClient(cfg.API.URL, sessions, logger,
		myflix.WithTimeout(cfg.API.Timeout),
		myflix.WithRateLimit(cfg.API.RateLimit, cfg.API.Burst),
		myflix.WithUserAgent("myflix-cli/"+appVersion),
	)
	if err != nil {
		return fmt.Errorf("failed to create API client: %w", err)
	}

	ui := newConsoleUI(cmd.OutOrStdout())
	service = views.NewService(client, sessions, ui, ui, logger)

	logger.Debug().
		Str("api", client.BaseURL()).
		Str("session", cfg.Session.Path).
		Msg("Initialized")
	return nil
}

// setupLogger configures the zerolog logger
func setupLogger(cfg config.LoggingConfig, out io.Writer) zerolog.Logger {
	level := zerolog.InfoLevel
	switch strings.ToLower(cfg.Level) {
	case "debug":
		level = zerolog.DebugLevel
	case "warn":
		level = zerolog.WarnLevel
	case "error":
		level = zerolog.ErrorLevel
	}

	zerolog.SetGlobalLevel(level)

	if cfg.Format == "json" {
		return zerolog.New(out).With().Timestamp().Logger()
	}

	output := zerolog.ConsoleWriter{
		Out:        out,
		TimeFormat: time.RFC3339,
		NoColor:    !cfg.Color,
	}

	return zerolog.New(output).With().Timestamp().Logger()
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// requireSession fails early for commands that need a logged in user
func requireSession() error {
	if !sessions.IsAuthenticated() {
		return fmt.Errorf("%w: run 'myflix login' first", session.ErrNoSession)
	}
	if sessions.Expired() {
		logger.Warn().Msg("Session token has expired, requests will likely be rejected")
	}
	return nil
}
