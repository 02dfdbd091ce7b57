package constants

import "time"

// Production endpoints.
const (
	// DefaultAPIBase is the production PCO API host.
	DefaultAPIBase = "https://api.planningcenteronline.com"

	// DefaultUploadURL is the production file upload endpoint.
	DefaultUploadURL = "https://upload.planningcenteronline.com/v2/files"

	// DefaultTokenURL is the production OAuth token endpoint.
	DefaultTokenURL = "https://api.planningcenteronline.com/oauth/token"

	// DefaultAuthorizeURL is the browser-redirect OAuth endpoint.
	DefaultAuthorizeURL = "https://api.planningcenteronline.com/oauth/authorize"
)

// HTTP and network timeouts.
const (
	// DefaultHTTPTimeout is the default timeout for API requests.
	DefaultHTTPTimeout = 60 * time.Second

	// UploadHTTPTimeout is used for file uploads.
	UploadHTTPTimeout = 300 * time.Second

	// OAuthHTTPTimeout is used for token exchange requests.
	OAuthHTTPTimeout = 30 * time.Second
)

// Retry limits.
const (
	// DefaultTimeoutRetries is how many times a timed-out request is retried.
	DefaultTimeoutRetries = 3
)

// Pagination defaults.
const (
	// DefaultPerPage is the PCO default page size.
	DefaultPerPage = 25

	// MaxPerPage is the largest page size the API accepts.
	MaxPerPage = 100
)

// Session token handling.
const (
	// DefaultSessionTokenTTL is how long a fetched Church Center
	// organization token is reused before a new one is requested.
	DefaultSessionTokenTTL = 50 * time.Minute
)

// File and directory permissions.
const (
	// ConfigDirPerm is the permission for configuration directories.
	ConfigDirPerm = 0750

	// ConfigFilePerm is the permission for configuration files.
	ConfigFilePerm = 0600
)

// DefaultUserAgent identifies the client on the wire.
const DefaultUserAgent = "pco-client/go"
