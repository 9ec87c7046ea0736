package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/s0up4200/myflix/views"
)

// errBirthdayRequired rejects --birthday "", which the server would ignore
var errBirthdayRequired = errors.New("birthday cannot be cleared, pass a date with --birthday")

var (
	editUsername string
	editPassword string
	editEmail    string
	editBirthday string
	assumeYes    bool
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Show or change your profile",
	Args:  cobra.NoArgs,
	RunE:  runProfileShow,
}

var profileShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show your profile and favorites",
	Args:  cobra.NoArgs,
	RunE:  runProfileShow,
}

var profileEditCmd = &cobra.Command{
	Use:   "edit",
	Short: "Change username, password, email or birthday",
	Long: `Change profile fields. Fields without a flag keep their current value.
The birthday accepts most common date formats and is stored as YYYY-MM-DD.`,
	Args: cobra.NoArgs,
	RunE: runProfileEdit,
}

var profileDeleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Delete your account",
	Args:  cobra.NoArgs,
	RunE:  runProfileDelete,
}

func init() {
	profileEditCmd.Flags().StringVar(&editUsername, "username", "", "new username")
	profileEditCmd.Flags().StringVar(&editPassword, "password", "", "new password")
	profileEditCmd.Flags().StringVar(&editEmail, "email", "", "new email address")
	profileEditCmd.Flags().StringVar(&editBirthday, "birthday", "", "new birthday")

	profileDeleteCmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "do not ask for confirmation")

	profileCmd.AddCommand(profileShowCmd)
	profileCmd.AddCommand(profileEditCmd)
	profileCmd.AddCommand(profileDeleteCmd)
}

func runProfileShow(cmd *cobra.Command, args []string) error {
	if err := requireSession(); err != nil {
		return err
	}

	profile, err := service.LoadProfile(cmd.Context())
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), formatter.FormatProfile(profile))
	return nil
}

func runProfileEdit(cmd *cobra.Command, args []string) error {
	if err := requireSession(); err != nil {
		return err
	}

	flags := cmd.Flags()
	if !flags.Changed("username") && !flags.Changed("password") && !flags.Changed("email") && !flags.Changed("birthday") {
		return errors.New("nothing to change, pass at least one of --username, --password, --email, --birthday")
	}
	if flags.Changed("birthday") && strings.TrimSpace(editBirthday) == "" {
		return errBirthdayRequired
	}

	// Start from the server's view so untouched fields survive
	profile, err := service.LoadProfile(cmd.Context())
	if err != nil {
		return err
	}

	form := profile.Form
	if flags.Changed("username") {
		form.Username = editUsername
	}
	if flags.Changed("password") {
		form.Password = editPassword
	}
	if flags.Changed("email") {
		form.Email = editEmail
	}
	if flags.Changed("birthday") {
		form.Birthday = editBirthday
	}

	_, err = service.EditProfile(cmd.Context(), form)
	return err
}

func runProfileDelete(cmd *cobra.Command, args []string) error {
	if err := requireSession(); err != nil {
		return err
	}

	var confirmer views.Confirmer
	switch {
	case assumeYes:
		confirmer = views.ConfirmFunc(func(string) bool { return true })
	case stdinIsTerminal():
		in := bufio.NewReader(cmd.InOrStdin())
		confirmer = views.ConfirmFunc(func(prompt string) bool {
			return confirm(in, cmd.OutOrStdout(), prompt)
		})
	default:
		return errors.New("refusing to delete the account without a terminal, pass --yes to confirm")
	}

	deleted, err := service.DeleteAccount(cmd.Context(), confirmer)
	if err != nil {
		return err
	}
	if !deleted {
		fmt.Fprintln(cmd.OutOrStdout(), "Account kept.")
	}
	return nil
}
