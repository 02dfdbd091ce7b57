// Package client provides the concrete implementation of the PCO API
// client, wiring authentication, transport, and per-product endpoint
// clients together behind the pco.Client interface.
package client

import (
	"context"

	"github.com/fivetwenty-io/pco-client/internal/auth"
	"github.com/fivetwenty-io/pco-client/internal/constants"
	"github.com/fivetwenty-io/pco-client/internal/http"
	"github.com/fivetwenty-io/pco-client/pkg/pco"
)

// Client is the top-level implementation of pco.Client.
type Client struct {
	httpClient *http.Client
	authConfig *auth.Config
	products   map[string]*Product
}

// New creates a fully wired client from a configuration.
func New(config *pco.Config) (*Client, error) {
	if config == nil {
		return nil, pco.ErrConfigRequired
	}

	var sessions *auth.SessionTokenManager
	if config.SessionName != "" {
		var sessionOpts []auth.SessionOption
		if config.SessionTokenTTL != 0 {
			// Negative means no caching, the manager treats a zero TTL
			// as always-refetch.
			ttl := max(config.SessionTokenTTL, 0)
			sessionOpts = append(sessionOpts, auth.WithSessionTTL(ttl))
		}

		if config.SessionTokenURL != "" {
			sessionOpts = append(sessionOpts, auth.WithSessionTokenURL(config.SessionTokenURL))
		}

		sessions = auth.NewSessionTokenManager(config.SessionName, sessionOpts...)
	}

	authConfig := auth.NewConfig(config.AppID, config.Secret, config.Token, config.SessionName, sessions)

	httpClient := http.NewClient(baseURL(config), authConfig, httpOptions(config)...)

	return NewWithHTTPClient(httpClient, authConfig), nil
}

// NewWithHTTPClient creates a client around an existing transport. Used
// by tests to point the client at a local server.
func NewWithHTTPClient(httpClient *http.Client, authConfig *auth.Config) *Client {
	c := &Client{
		httpClient: httpClient,
		authConfig: authConfig,
	}
	c.initializeProducts()

	return c
}

func baseURL(config *pco.Config) string {
	if config.APIBase != "" {
		return config.APIBase
	}

	return constants.DefaultAPIBase
}

func httpOptions(config *pco.Config) []http.Option {
	var opts []http.Option

	if config.Logger != nil {
		opts = append(opts, http.WithLogger(config.Logger))
	}

	if config.Debug {
		opts = append(opts, http.WithDebug(true))
	}

	if config.UserAgent != "" {
		opts = append(opts, http.WithUserAgent(config.UserAgent))
	}

	if config.Timeout > 0 {
		opts = append(opts, http.WithTimeout(config.Timeout))
	}

	if config.UploadTimeout > 0 {
		opts = append(opts, http.WithUploadTimeout(config.UploadTimeout))
	}

	if config.UploadURL != "" {
		opts = append(opts, http.WithUploadURL(config.UploadURL))
	}

	if config.TimeoutRetries > 0 {
		opts = append(opts, http.WithTimeoutRetries(config.TimeoutRetries))
	}

	return opts
}

func (c *Client) initializeProducts() {
	c.products = make(map[string]*Product, len(productRoutes))

	for name, route := range productRoutes {
		c.products[name] = &Product{
			httpClient:  c.httpClient,
			name:        name,
			segment:     route.segment,
			collections: route.collections,
		}
	}
}

// AuthConfig exposes the resolved authentication configuration.
func (c *Client) AuthConfig() *auth.Config {
	return c.authConfig
}

// Product implements pco.ProductClients.Product.
func (c *Client) Product(name string) (pco.ProductClient, error) {
	product, ok := c.products[name]
	if !ok {
		return nil, pco.ErrUnknownProduct
	}

	return product, nil
}

// People implements pco.ProductClients.People.
func (c *Client) People() pco.ProductClient { return c.products["people"] }

// Services implements pco.ProductClients.Services.
func (c *Client) Services() pco.ProductClient { return c.products["services"] }

// CheckIns implements pco.ProductClients.CheckIns.
func (c *Client) CheckIns() pco.ProductClient { return c.products["check_ins"] }

// Giving implements pco.ProductClients.Giving.
func (c *Client) Giving() pco.ProductClient { return c.products["giving"] }

// Calendar implements pco.ProductClients.Calendar.
func (c *Client) Calendar() pco.ProductClient { return c.products["calendar"] }

// Groups implements pco.ProductClients.Groups.
func (c *Client) Groups() pco.ProductClient { return c.products["groups"] }

// Webhooks implements pco.ProductClients.Webhooks.
func (c *Client) Webhooks() pco.ProductClient { return c.products["webhooks"] }

// Publishing implements pco.ProductClients.Publishing.
func (c *Client) Publishing() pco.ProductClient { return c.products["publishing"] }

// GetJSON implements pco.RawClient.GetJSON.
func (c *Client) GetJSON(ctx context.Context, path string, params *pco.QueryParams) (map[string]interface{}, error) {
	resp, err := c.httpClient.Get(ctx, path, params.ToValues())
	if err != nil {
		return nil, err
	}

	return resp.JSON()
}

// PostJSON implements pco.RawClient.PostJSON.
func (c *Client) PostJSON(ctx context.Context, path string, body interface{}) (map[string]interface{}, error) {
	resp, err := c.httpClient.Post(ctx, path, body)
	if err != nil {
		return nil, err
	}

	return resp.JSON()
}

// PatchJSON implements pco.RawClient.PatchJSON.
func (c *Client) PatchJSON(ctx context.Context, path string, body interface{}) (map[string]interface{}, error) {
	resp, err := c.httpClient.Patch(ctx, path, body)
	if err != nil {
		return nil, err
	}

	return resp.JSON()
}

// Delete implements pco.RawClient.Delete.
func (c *Client) Delete(ctx context.Context, path string) error {
	_, err := c.httpClient.Delete(ctx, path)

	return err
}

// Iterate implements pco.RawClient.Iterate: a collection iterator over
// an arbitrary URL, outside any registered product.
func (c *Client) Iterate(ctx context.Context, path string, params *pco.QueryParams) *pco.CollectionIterator {
	lister := &Collection{httpClient: c.httpClient, url: path}

	return pco.NewCollectionIterator(ctx, lister, path, params)
}

// Upload implements pco.RawClient.Upload.
func (c *Client) Upload(ctx context.Context, filePath string) (map[string]interface{}, error) {
	if filePath == "" {
		return nil, pco.ErrUploadPathRequired
	}

	resp, err := c.httpClient.Upload(ctx, filePath, nil)
	if err != nil {
		return nil, err
	}

	return resp.JSON()
}
