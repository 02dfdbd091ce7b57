// Package pcoclient provides the main entry point for creating Planning Center API clients
package pcoclient

import (
	"github.com/fivetwenty-io/pco-client/internal/client"
	"github.com/fivetwenty-io/pco-client/pkg/pco"
)

// New creates a new Planning Center API client from a configuration.
func New(config *pco.Config) (pco.Client, error) {
	if config == nil {
		return nil, pco.ErrConfigRequired
	}

	return client.New(config)
}

// NewWithPAT creates a new client authenticating with a Personal Access
// Token pair.
func NewWithPAT(appID, secret string) (pco.Client, error) {
	return New(&pco.Config{
		AppID:  appID,
		Secret: secret,
	})
}

// NewWithToken creates a new client authenticating with an OAuth access
// token.
func NewWithToken(token string) (pco.Client, error) {
	return New(&pco.Config{
		Token: token,
	})
}

// NewWithSession creates a new client authenticating with an ephemeral
// Church Center organization token. sessionName is the <name> part of
// the <name>.churchcenter.com URL.
func NewWithSession(sessionName string) (pco.Client, error) {
	return New(&pco.Config{
		SessionName: sessionName,
	})
}
