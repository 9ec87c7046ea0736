package cmd

import (
	"bufio"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/s0up4200/myflix/myflix"
	"github.com/s0up4200/myflix/views"
)

var (
	authUsername string
	authPassword string
	authEmail    string
	authBirthday string
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in and store the session",
	Args:  cobra.NoArgs,
	RunE:  runLogin,
}

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create a new account",
	Args:  cobra.NoArgs,
	RunE:  runRegister,
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the stored session",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return service.Logout()
	},
}

func init() {
	for _, c := range []*cobra.Command{loginCmd, registerCmd} {
		c.Flags().StringVarP(&authUsername, "username", "u", "", "username (prompted when empty)")
		c.Flags().StringVarP(&authPassword, "password", "p", "", "password (prompted without echo when empty)")
	}
	registerCmd.Flags().StringVar(&authEmail, "email", "", "email address")
	registerCmd.Flags().StringVar(&authBirthday, "birthday", "", "birthday, e.g. 1990-05-15")
}

// readCredentials fills in whatever was not given by flag
func readCredentials(cmd *cobra.Command) (myflix.Credentials, error) {
	in := bufio.NewReader(cmd.InOrStdin())
	out := cmd.OutOrStdout()

	creds := myflix.Credentials{Username: authUsername, Password: authPassword}
	var err error
	if creds.Username == "" {
		if creds.Username, err = promptLine(in, out, "Username: "); err != nil {
			return creds, err
		}
	}
	if creds.Password == "" {
		if creds.Password, err = promptPassword(in, out, "Password: "); err != nil {
			return creds, err
		}
	}
	return creds, creds.Validate()
}

func runLogin(cmd *cobra.Command, args []string) error {
	creds, err := readCredentials(cmd)
	if err != nil {
		return err
	}

	if _, err := service.Login(cmd.Context(), creds); err != nil {
		return fmt.Errorf("login failed: %w", err)
	}
	return nil
}

func runRegister(cmd *cobra.Command, args []string) error {
	creds, err := readCredentials(cmd)
	if err != nil {
		return err
	}

	birthday, err := views.NormalizeBirthday(authBirthday)
	if err != nil {
		return err
	}

	user := myflix.User{
		Username: creds.Username,
		Password: creds.Password,
		Email:    authEmail,
		Birthday: birthday,
	}
	if _, err := service.Register(cmd.Context(), user); err != nil {
		return fmt.Errorf("registration failed: %w", err)
	}
	return nil
}
