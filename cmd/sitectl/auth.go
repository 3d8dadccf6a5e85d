package main

import (
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/sitekit/sitekit/pkg/auth"
)

func newLoginCmd() *cobra.Command {
	var (
		email    string
		password string
		useOAuth bool
	)

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in with email/password or through the browser (--oauth)",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := appFromCmd(cmd)
			if err != nil {
				return err
			}
			defer a.close()

			if useOAuth {
				flow, err := auth.NewOAuthFlow(&auth.OAuthConfig{
					ClientID:     a.cfg.OAuth.ClientID,
					AuthURL:      a.cfg.OAuth.AuthURL,
					TokenURL:     a.cfg.OAuth.TokenURL,
					Scopes:       a.cfg.OAuth.Scopes,
					RedirectPort: a.cfg.OAuth.RedirectPort,
				}, nil)
				if err != nil {
					return err
				}
				if err := a.auth.LoginWithOAuth(cmd.Context(), flow); err != nil {
					return err
				}
			} else {
				if email == "" {
					email, err = pterm.DefaultInteractiveTextInput.Show("Email")
					if err != nil {
						return err
					}
				}
				if password == "" {
					password, err = pterm.DefaultInteractiveTextInput.WithMask("*").Show("Password")
					if err != nil {
						return err
					}
				}
				if err := a.auth.Login(cmd.Context(), email, password); err != nil {
					return err
				}
			}

			user := a.session.User()
			pterm.Success.Printfln("Logged in as %s", user.Email)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Account email")
	cmd.Flags().StringVar(&password, "password", "", "Account password (prompted when omitted)")
	cmd.Flags().BoolVar(&useOAuth, "oauth", false, "Sign in through the browser instead")

	return cmd
}

func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "End the session and clear stored credentials",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := appFromCmd(cmd)
			if err != nil {
				return err
			}
			defer a.close()

			if err := a.auth.Logout(cmd.Context()); err != nil {
				// Local state is already cleared; the server call failing is
				// worth a warning, not a failed command.
				pterm.Warning.Printfln("Server logout failed: %v", err)
			}
			pterm.Success.Println("Logged out")
			return nil
		},
	}
}

func newRegisterCmd() *cobra.Command {
	var (
		email    string
		name     string
		password string
	)

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create a new account",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := appFromCmd(cmd)
			if err != nil {
				return err
			}
			defer a.close()

			if email == "" {
				email, err = pterm.DefaultInteractiveTextInput.Show("Email")
				if err != nil {
					return err
				}
			}
			if password == "" {
				password, err = pterm.DefaultInteractiveTextInput.WithMask("*").Show("Password")
				if err != nil {
					return err
				}
			}

			if err := a.auth.Register(cmd.Context(), email, name, password); err != nil {
				return err
			}
			pterm.Success.Println("Account created. It may need admin approval before login works.")
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Account email")
	cmd.Flags().StringVar(&name, "name", "", "Display name")
	cmd.Flags().StringVar(&password, "password", "", "Account password (prompted when omitted)")

	return cmd
}

func newWhoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the current session",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := appFromCmd(cmd)
			if err != nil {
				return err
			}
			defer a.close()

			if err := a.session.Fetch(cmd.Context()); err != nil {
				return err
			}
			if !a.session.LoggedIn() {
				pterm.Info.Println("Not logged in")
				return nil
			}

			user := a.session.User()
			rows := pterm.TableData{
				{"Email", user.Email},
				{"Name", user.Name},
				{"Admin", fmt.Sprintf("%t", user.Admin)},
				{"Email verified", fmt.Sprintf("%t", user.EmailVerified)},
			}
			return pterm.DefaultTable.WithData(rows).Render()
		},
	}
}

func newSessionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "session",
		Short: "Manage the server session",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "refresh",
		Short: "Rotate the server session",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := appFromCmd(cmd)
			if err != nil {
				return err
			}
			defer a.close()

			if err := a.auth.RefreshSession(cmd.Context()); err != nil {
				return err
			}
			pterm.Success.Println("Session refreshed")
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "revoke-all",
		Short: "Invalidate every session for this account",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := appFromCmd(cmd)
			if err != nil {
				return err
			}
			defer a.close()

			if err := a.auth.RevokeAllSessions(cmd.Context()); err != nil {
				return err
			}
			pterm.Success.Println("All sessions revoked")
			return nil
		},
	})

	return cmd
}

func newVerifyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Email verification",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "send",
		Short: "Send a verification email to the logged-in user",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := appFromCmd(cmd)
			if err != nil {
				return err
			}
			defer a.close()

			if err := a.auth.SendVerificationEmail(cmd.Context()); err != nil {
				return err
			}
			pterm.Success.Println("Verification email sent")
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "confirm <token>",
		Short: "Confirm an email address with the token from the email",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := appFromCmd(cmd)
			if err != nil {
				return err
			}
			defer a.close()

			if err := a.auth.VerifyEmail(cmd.Context(), args[0]); err != nil {
				return err
			}
			pterm.Success.Println("Email verified")
			return nil
		},
	})

	return cmd
}
