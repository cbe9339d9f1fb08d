package cli

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/nhle/project-dashboard/internal/api"
	"github.com/nhle/project-dashboard/internal/credential"
)

// WhoamiResult is the JSON shape of the whoami command.
type WhoamiResult struct {
	LoggedIn  bool       `json:"loggedIn"`
	User      string     `json:"user,omitempty"`
	ExpiresAt *time.Time `json:"expiresAt,omitempty"`
}

// NewLoginCommand creates the login command.
func NewLoginCommand(rootOpts *RootOptions) *cobra.Command {
	var username, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and store the access token",
		Long: `Exchange a username and password for an access token and keep it in the
system keyring. Missing credentials are prompted for.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if username == "" || password == "" {
				if err := promptCredentials(&username, &password); err != nil {
					return err
				}
			}
			return runLogin(cmd, rootOpts, strings.TrimSpace(username), password)
		},
	}

	cmd.Flags().StringVarP(&username, "username", "u", "", "username")
	cmd.Flags().StringVarP(&password, "password", "p", "", "password")

	return cmd
}

func promptCredentials(username, password *string) error {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Username").Value(username),
			huh.NewInput().Title("Password").EchoMode(huh.EchoModePassword).Value(password),
		),
	).Run()
}

func runLogin(cmd *cobra.Command, opts *RootOptions, username, password string) error {
	out := newFormatter(opts, cmd.OutOrStdout(), cmd.ErrOrStderr())

	ring, err := opts.deps.openKeyring(opts.Config)
	if err != nil {
		return err
	}

	client := api.NewClient(opts.Config.API.BaseURL, time.Duration(opts.Config.API.TimeoutSec)*time.Second)
	token, err := client.Login(cmd.Context(), username, password)
	if err != nil {
		return err
	}
	if err := ring.SaveToken(*token); err != nil {
		return fmt.Errorf("saving token: %w", err)
	}

	res := describeToken(token.Access, opts.deps.now())
	if res.User == "" {
		res.User = username
	}
	if out.JSON() {
		return out.WriteJSON(res)
	}
	out.Printf("Logged in as %s\n", res.User)
	return nil
}

// NewLogoutCommand creates the logout command.
func NewLogoutCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored access token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := newFormatter(rootOpts, cmd.OutOrStdout(), cmd.ErrOrStderr())
			ring, err := rootOpts.deps.openKeyring(rootOpts.Config)
			if err != nil {
				return err
			}
			if err := ring.ClearToken(); err != nil {
				return err
			}
			if out.JSON() {
				return out.WriteJSON(WhoamiResult{LoggedIn: false})
			}
			out.Printf("Logged out\n")
			return nil
		},
	}
}

// NewWhoamiCommand creates the whoami command.
func NewWhoamiCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := newFormatter(rootOpts, cmd.OutOrStdout(), cmd.ErrOrStderr())
			ring, err := rootOpts.deps.openKeyring(rootOpts.Config)
			if err != nil {
				return err
			}

			var res WhoamiResult
			token, err := ring.LoadToken()
			switch {
			case errors.Is(err, credential.ErrNoToken):
			case err != nil:
				return err
			default:
				res = describeToken(token.Access, rootOpts.deps.now())
			}

			if out.JSON() {
				return out.WriteJSON(res)
			}
			if !res.LoggedIn {
				out.Printf("Not logged in\n")
				return nil
			}
			user := res.User
			if user == "" {
				user = "unknown user"
			}
			out.Printf("Logged in as %s\n", user)
			if res.ExpiresAt != nil {
				out.Printf("Token expires %s\n", res.ExpiresAt.Format(time.RFC3339))
			}
			return nil
		},
	}
}

// describeToken summarises an access token without verifying it.
func describeToken(access string, now time.Time) WhoamiResult {
	res := WhoamiResult{LoggedIn: credential.LoggedIn(access, now)}
	if exp, ok := credential.TokenExpiry(access); ok {
		exp = exp.UTC()
		res.ExpiresAt = &exp
	}
	if claims, err := credential.ParseClaims(access); err == nil {
		switch {
		case claims.Subject != "":
			res.User = claims.Subject
		case claims.UserID != nil:
			res.User = fmt.Sprintf("user %v", claims.UserID)
		}
	}
	return res
}
