package pco

import (
	"context"
	"time"
)

// Endpoint is the network surface a Resource uses for its lazy
// operations. Concrete implementations live in internal/client.
type Endpoint interface {
	// URL returns the endpoint's collection URL, used for create.
	URL() string
	// Document fetches a single-object document by URL.
	Document(ctx context.Context, url string) (*SingleDocument, error)
	// CreateDocument POSTs a document to the given URL.
	CreateDocument(ctx context.Context, url string, payload *SingleDocument) (*SingleDocument, error)
	// UpdateDocument PATCHes a document at the given URL.
	UpdateDocument(ctx context.Context, url string, payload *SingleDocument) (*SingleDocument, error)
	// DeleteDocument issues a DELETE against the given URL.
	DeleteDocument(ctx context.Context, url string) error
	// Resolve fetches the resource a reference points at.
	Resolve(ctx context.Context, ref ResourceRef) (*Resource, error)
}

// CollectionClient addresses one named collection within a product.
type CollectionClient interface {
	Endpoint

	// Get fetches one resource by id.
	Get(ctx context.Context, id string) (*Resource, error)
	// GetByURL fetches one resource by its full URL.
	GetByURL(ctx context.Context, url string) (*Resource, error)
	// List iterates the collection, handling pagination.
	List(ctx context.Context, params *QueryParams) *CollectionIterator
	// New allocates an empty, user-created resource bound to this
	// collection. It must be Create()d before update/delete are valid.
	New(objectType string) *Resource
	// Delete removes one resource by id.
	Delete(ctx context.Context, id string) error
}

// ProductClient addresses one PCO product application.
type ProductClient interface {
	// Collection addresses a named collection (e.g. "people",
	// "addresses"). Names absent from the registration table still
	// resolve; the table only drives discovery.
	Collection(name string) CollectionClient
	// Collections lists the registered collection names.
	Collections() []string
	// URL returns the product root path (e.g. "/people/v2").
	URL() string
}

// ProductClients provides access to the per-product clients.
type ProductClients interface {
	People() ProductClient
	Services() ProductClient
	CheckIns() ProductClient
	Giving() ProductClient
	Calendar() ProductClient
	Groups() ProductClient
	Webhooks() ProductClient
	Publishing() ProductClient

	// Product resolves a product by its registered name.
	Product(name string) (ProductClient, error)
}

// RawClient exposes fully managed raw verbs against arbitrary API URLs.
// URLs may be absolute or relative to the configured API base.
type RawClient interface {
	// GetJSON performs a GET and returns the parsed body, nil for 204.
	GetJSON(ctx context.Context, url string, params *QueryParams) (map[string]interface{}, error)
	// PostJSON performs a POST with a JSON payload.
	PostJSON(ctx context.Context, url string, payload interface{}) (map[string]interface{}, error)
	// PatchJSON performs a PATCH with a JSON payload.
	PatchJSON(ctx context.Context, url string, payload interface{}) (map[string]interface{}, error)
	// Delete performs a DELETE.
	Delete(ctx context.Context, url string) error
	// Iterate walks a collection URL page by page, yielding enriched
	// records.
	Iterate(ctx context.Context, url string, params *QueryParams) *CollectionIterator
	// Upload streams the file at path to the upload endpoint and
	// returns the resulting file document.
	Upload(ctx context.Context, path string) (map[string]interface{}, error)
}

// Client is the entry point to the PCO API.
type Client interface {
	ProductClients
	RawClient
}

// Logger interface for logging.
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
}

// Config represents client configuration for building a pco.Client.
//
// # Authentication
//
// Exactly one of the following field sets must be populated:
//  1. AppID + Secret: Personal Access Token pair, sent as HTTP Basic.
//  2. Token: OAuth access token, sent as Bearer.
//  3. SessionName: Church Center organization name; an ephemeral
//     organization token is exchanged at <name>.churchcenter.com and sent
//     as OrganizationToken.
//
// Any other combination fails with *CredentialsError when the first
// request computes its Authorization header (validation is lazy).
type Config struct {
	// AppID is the application id of a Personal Access Token pair.
	AppID string
	// Secret is the secret of a Personal Access Token pair.
	Secret string
	// Token is an OAuth access token.
	Token string
	// SessionName is the organization name part of the
	// <name>.churchcenter.com URL for session-token auth.
	SessionName string

	// APIBase is the base URL for REST calls. Defaults to the
	// production host.
	APIBase string
	// UploadURL is the file upload endpoint. Defaults to the production
	// upload host.
	UploadURL string
	// Timeout is the per-request timeout. Default 60s.
	Timeout time.Duration
	// UploadTimeout is the per-request timeout for uploads. Default 300s.
	UploadTimeout time.Duration
	// TimeoutRetries is how many times a timed-out request is retried
	// before giving up. Default 3.
	TimeoutRetries int
	// SessionTokenTTL controls how long a fetched organization token is
	// reused. Zero uses the default of 50 minutes; a negative value
	// disables caching and exchanges a fresh token on every request.
	SessionTokenTTL time.Duration
	// SessionTokenURL overrides the organization token exchange
	// endpoint. Defaults to the Church Center host derived from
	// SessionName.
	SessionTokenURL string

	// UserAgent overrides the default User-Agent header.
	UserAgent string
	// Debug enables verbose request/response logging when a Logger is
	// provided.
	Debug bool
	// Logger is an optional structured logger used by the HTTP layer.
	Logger Logger
}
