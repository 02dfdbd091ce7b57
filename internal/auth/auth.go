// Package auth implements credential handling for the PCO API: scheme
// resolution, Authorization header computation, Church Center session
// tokens, and OAuth exchange helpers.
package auth

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/fivetwenty-io/pco-client/pkg/pco"
)

// Type identifies an authentication scheme.
type Type int

const (
	// TypePAT authenticates with a Personal Access Token pair (HTTP Basic).
	TypePAT Type = iota + 1
	// TypeOAuth authenticates with an OAuth access token (Bearer).
	TypeOAuth
	// TypeSession authenticates with an ephemeral Church Center
	// organization token.
	TypeSession
)

// Config holds one credential scheme and produces the wire-level
// Authorization header. Validation is lazy: an invalid field combination
// only fails when the header (or scheme) is computed.
type Config struct {
	AppID       string
	Secret      string
	Token       string
	SessionName string

	sessions *SessionTokenManager
}

// NewConfig creates an auth config. sessions may be nil when the
// session scheme is not in use.
func NewConfig(appID, secret, token, sessionName string, sessions *SessionTokenManager) *Config {
	return &Config{
		AppID:       appID,
		Secret:      secret,
		Token:       token,
		SessionName: sessionName,
		sessions:    sessions,
	}
}

// AuthType resolves the scheme from the populated fields. Exactly one
// scheme's required field set must be present.
func (c *Config) AuthType() (Type, error) {
	switch {
	case c.AppID != "" && c.Secret != "" && c.Token == "" && c.SessionName == "":
		return TypePAT, nil
	case c.Token != "" && c.AppID == "" && c.Secret == "" && c.SessionName == "":
		return TypeOAuth, nil
	case c.SessionName != "" && c.AppID == "" && c.Secret == "" && c.Token == "":
		return TypeSession, nil
	default:
		return 0, &pco.CredentialsError{
			Message: "specify either an application id and secret (PAT), an OAuth token, or a Church Center session name",
		}
	}
}

// AuthHeader computes the Authorization header value for the configured
// scheme. The session scheme may perform a network exchange.
func (c *Config) AuthHeader(ctx context.Context) (string, error) {
	authType, err := c.AuthType()
	if err != nil {
		return "", err
	}

	switch authType {
	case TypePAT:
		pair := base64.StdEncoding.EncodeToString([]byte(c.AppID + ":" + c.Secret))

		return "Basic " + pair, nil
	case TypeOAuth:
		return "Bearer " + c.Token, nil
	case TypeSession:
		if c.sessions == nil {
			return "", fmt.Errorf("computing session header: %w", pco.ErrSessionNameRequired)
		}

		token, err := c.sessions.Token(ctx)
		if err != nil {
			return "", fmt.Errorf("computing session header: %w", err)
		}

		return "OrganizationToken " + token, nil
	}

	return "", &pco.CredentialsError{Message: "unresolvable authentication scheme"}
}
