package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newRegisterCmd(app func() *App) *cobra.Command {
	return &cobra.Command{
		Use:   "register",
		Short: "Create an account and log in",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app().Register(cmd)
		},
	}
}

func newLoginCmd(app func() *App) *cobra.Command {
	return &cobra.Command{
		Use:   "login",
		Short: "Log in and store the access token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app().Login(cmd)
		},
	}
}

func newLogoutCmd(app func() *App) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored access token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app().Logout()
		},
	}
}

// Register prompts for a username, a password and its confirmation, creates
// the account and saves the returned token.
func (a *App) Register(cmd *cobra.Command) error {
	username, err := GetSimpleText(a.reader, "Username", a.out)
	if err != nil {
		return err
	}
	password, err := GetPassword(a.stdinFd, "Password", a.out)
	if err != nil {
		return err
	}
	confirmation, err := GetPassword(a.stdinFd, "Confirm password", a.out)
	if err != nil {
		return err
	}

	token, err := a.client.Register(cmd.Context(), username, password, confirmation)
	if err != nil {
		return err
	}
	if err := a.tokens.Save(token); err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Registered as %s\n", username)
	return nil
}

// Login prompts for credentials and saves the returned token.
func (a *App) Login(cmd *cobra.Command) error {
	username, err := GetSimpleText(a.reader, "Username", a.out)
	if err != nil {
		return err
	}
	password, err := GetPassword(a.stdinFd, "Password", a.out)
	if err != nil {
		return err
	}

	token, err := a.client.Login(cmd.Context(), username, password)
	if err != nil {
		return err
	}
	if err := a.tokens.Save(token); err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Logged in as %s\n", username)
	return nil
}

func (a *App) Logout() error {
	if err := a.tokens.Clear(); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Logged out")
	return nil
}
