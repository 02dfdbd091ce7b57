//go:build integration
// +build integration

package integration

import (
	"os"
	"testing"

	"github.com/fivetwenty-io/pco-client/pkg/pco"
	"github.com/fivetwenty-io/pco-client/pkg/pcoclient"
)

// TestConfig holds configuration for integration tests
type TestConfig struct {
	AppID   string
	Secret  string
	Token   string
	Verbose bool
}

// LoadTestConfig loads configuration from environment variables
func LoadTestConfig() *TestConfig {
	return &TestConfig{
		AppID:   os.Getenv("PCO_APP_ID"),
		Secret:  os.Getenv("PCO_SECRET"),
		Token:   os.Getenv("PCO_TOKEN"),
		Verbose: os.Getenv("PCO_VERBOSE") == "true",
	}
}

// SkipIfMissingConfig skips the test when no credentials are configured
func (c *TestConfig) SkipIfMissingConfig(t *testing.T) {
	t.Helper()

	if c.Token == "" && (c.AppID == "" || c.Secret == "") {
		t.Skip("Skipping integration test: set PCO_APP_ID/PCO_SECRET or PCO_TOKEN")
	}
}

// NewClient builds a client from the test configuration
func (c *TestConfig) NewClient(t *testing.T) pco.Client {
	t.Helper()

	client, err := pcoclient.New(&pco.Config{
		AppID:  c.AppID,
		Secret: c.Secret,
		Token:  c.Token,
	})
	if err != nil {
		t.Fatalf("Failed to create client: %v", err)
	}

	return client
}
