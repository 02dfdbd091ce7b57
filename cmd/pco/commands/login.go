package commands

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/fivetwenty-io/pco-client/internal/auth"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"
)

// NewLoginCommand creates the login command
func NewLoginCommand() *cobra.Command {
	var (
		appID       string
		secret      string
		token       string
		sessionName string
	)

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Login to Planning Center Online",
		Long: `Store credentials for the Planning Center Online API.

Provide either a Personal Access Token pair (--app-id plus --secret), an
OAuth access token (--token), or a Church Center organization name
(--session-name). The credentials are verified against the API and
saved to the CLI configuration.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			config := loadConfig()

			switch {
			case token != "":
				config.AppID = ""
				config.Secret = ""
				config.Token = token
				config.SessionName = ""
			case sessionName != "":
				config.AppID = ""
				config.Secret = ""
				config.Token = ""
				config.SessionName = sessionName
			default:
				// Personal Access Token flow
				if appID == "" {
					reader := bufio.NewReader(os.Stdin)
					fmt.Print("Application ID: ")
					appID, _ = reader.ReadString('\n')
					appID = strings.TrimSpace(appID)
				}

				if appID == "" {
					return ErrAppIDRequired
				}

				if secret == "" {
					fmt.Print("Secret: ")
					byteSecret, err := term.ReadPassword(int(syscall.Stdin))
					if err != nil {
						return fmt.Errorf("failed to read secret: %w", err)
					}
					secret = string(byteSecret)
					fmt.Println()
				}

				config.AppID = appID
				config.Secret = secret
				config.Token = ""
				config.SessionName = ""
			}

			viper.Set("app_id", config.AppID)
			viper.Set("secret", config.Secret)
			viper.Set("token", config.Token)
			viper.Set("session_name", config.SessionName)

			client, err := createClient()
			if err != nil {
				return err
			}

			// Test the credentials with a minimal request
			ctx := context.Background()
			if _, err := client.GetJSON(ctx, "/people/v2", nil); err != nil {
				return fmt.Errorf("failed to connect to API: %w", err)
			}

			if err := saveConfig(config); err != nil {
				return err
			}

			cmd.Println("Logged in successfully")

			return nil
		},
	}

	cmd.Flags().StringVar(&appID, "app-id", "", "Personal Access Token application id")
	cmd.Flags().StringVar(&secret, "secret", "", "Personal Access Token secret")
	cmd.Flags().StringVar(&token, "token", "", "OAuth access token")
	cmd.Flags().StringVar(&sessionName, "session-name", "", "Church Center organization name")

	cmd.AddCommand(newLoginURLCommand())
	cmd.AddCommand(newLoginExchangeCommand())
	cmd.AddCommand(newLoginRefreshCommand())

	return cmd
}

// NewLogoutCommand creates the logout command
func NewLogoutCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Remove stored credentials",
		RunE: func(cmd *cobra.Command, args []string) error {
			config := loadConfig()
			config.AppID = ""
			config.Secret = ""
			config.Token = ""
			config.SessionName = ""

			if err := saveConfig(config); err != nil {
				return err
			}

			cmd.Println("Logged out")

			return nil
		},
	}
}

func newLoginURLCommand() *cobra.Command {
	var (
		clientID    string
		redirectURI string
		scopes      []string
	)

	cmd := &cobra.Command{
		Use:   "oauth-url",
		Short: "Print the browser URL that starts the OAuth flow",
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.Println(auth.BrowserRedirectURL(clientID, redirectURI, scopes))

			return nil
		},
	}

	cmd.Flags().StringVar(&clientID, "client-id", "", "OAuth application client id")
	cmd.Flags().StringVar(&redirectURI, "redirect-uri", "", "registered redirect URI")
	cmd.Flags().StringSliceVar(&scopes, "scope", []string{"people"}, "requested scopes")
	_ = cmd.MarkFlagRequired("client-id")
	_ = cmd.MarkFlagRequired("redirect-uri")

	return cmd
}

func newLoginExchangeCommand() *cobra.Command {
	var (
		clientID     string
		clientSecret string
		code         string
		redirectURI  string
	)

	cmd := &cobra.Command{
		Use:   "exchange-code",
		Short: "Exchange an authorization code for an access token",
		RunE: func(cmd *cobra.Command, args []string) error {
			exchanger := auth.NewOAuthExchanger()

			token, err := exchanger.ExchangeCode(cmd.Context(), clientID, clientSecret, code, redirectURI)
			if err != nil {
				return fmt.Errorf("exchanging code: %w", err)
			}

			config := loadConfig()
			config.AppID = ""
			config.Secret = ""
			config.Token = token.AccessToken
			config.SessionName = ""

			if err := saveConfig(config); err != nil {
				return err
			}

			cmd.Println("Access token saved")
			if token.RefreshToken != "" {
				cmd.Printf("Refresh token: %s\n", token.RefreshToken)
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&clientID, "client-id", "", "OAuth application client id")
	cmd.Flags().StringVar(&clientSecret, "client-secret", "", "OAuth application client secret")
	cmd.Flags().StringVar(&code, "code", "", "authorization code from the redirect")
	cmd.Flags().StringVar(&redirectURI, "redirect-uri", "", "registered redirect URI")
	_ = cmd.MarkFlagRequired("client-id")
	_ = cmd.MarkFlagRequired("client-secret")
	_ = cmd.MarkFlagRequired("code")
	_ = cmd.MarkFlagRequired("redirect-uri")

	return cmd
}

func newLoginRefreshCommand() *cobra.Command {
	var (
		clientID     string
		clientSecret string
		refreshToken string
	)

	cmd := &cobra.Command{
		Use:   "refresh-token",
		Short: "Refresh an expired OAuth access token",
		RunE: func(cmd *cobra.Command, args []string) error {
			exchanger := auth.NewOAuthExchanger()

			token, err := exchanger.RefreshAccessToken(cmd.Context(), clientID, clientSecret, refreshToken)
			if err != nil {
				return fmt.Errorf("refreshing token: %w", err)
			}

			config := loadConfig()
			config.Token = token.AccessToken

			if err := saveConfig(config); err != nil {
				return err
			}

			cmd.Println("Access token refreshed")

			return nil
		},
	}

	cmd.Flags().StringVar(&clientID, "client-id", "", "OAuth application client id")
	cmd.Flags().StringVar(&clientSecret, "client-secret", "", "OAuth application client secret")
	cmd.Flags().StringVar(&refreshToken, "refresh-token", "", "refresh token from a previous exchange")
	_ = cmd.MarkFlagRequired("client-id")
	_ = cmd.MarkFlagRequired("client-secret")
	_ = cmd.MarkFlagRequired("refresh-token")

	return cmd
}
