package auth

import (
	"context"
	"encoding/json"
	"fmt"
	nethttp "net/http"
	"sync"
	"time"

	"github.com/fivetwenty-io/pco-client/internal/constants"
	"github.com/fivetwenty-io/pco-client/pkg/pco"
)

// SessionTokenManager exchanges a Church Center organization name for an
// ephemeral organization token. Tokens are cached for a configurable TTL;
// a zero TTL refetches on every call, matching the upstream client.
type SessionTokenManager struct {
	sessionName string
	tokenURL    string
	ttl         time.Duration

	httpClient *nethttp.Client
	now        func() time.Time

	mu        sync.Mutex
	token     string
	fetchedAt time.Time
}

// SessionOption configures a SessionTokenManager.
type SessionOption func(*SessionTokenManager)

// WithSessionTTL sets how long a fetched token is reused.
func WithSessionTTL(ttl time.Duration) SessionOption {
	return func(m *SessionTokenManager) {
		m.ttl = ttl
	}
}

// WithSessionTokenURL overrides the exchange endpoint.
func WithSessionTokenURL(url string) SessionOption {
	return func(m *SessionTokenManager) {
		m.tokenURL = url
	}
}

// WithSessionClock overrides the time source, used by tests.
func WithSessionClock(now func() time.Time) SessionOption {
	return func(m *SessionTokenManager) {
		m.now = now
	}
}

// NewSessionTokenManager creates a manager for the given organization
// name (the <name> part of <name>.churchcenter.com).
func NewSessionTokenManager(sessionName string, opts ...SessionOption) *SessionTokenManager {
	manager := &SessionTokenManager{
		sessionName: sessionName,
		tokenURL:    fmt.Sprintf("https://%s.churchcenter.com/sessions/tokens", sessionName),
		ttl:         constants.DefaultSessionTokenTTL,
		httpClient:  &nethttp.Client{Timeout: constants.OAuthHTTPTimeout},
		now:         time.Now,
	}

	for _, opt := range opts {
		opt(manager)
	}

	return manager
}

// Token returns a valid organization token, exchanging a new one when
// the cached token is missing or stale.
func (m *SessionTokenManager) Token(ctx context.Context) (string, error) {
	if m.sessionName == "" {
		return "", pco.ErrSessionNameRequired
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.token != "" && m.ttl > 0 && m.now().Sub(m.fetchedAt) < m.ttl {
		return m.token, nil
	}

	token, err := m.exchange(ctx)
	if err != nil {
		return "", err
	}

	m.token = token
	m.fetchedAt = m.now()

	return token, nil
}

func (m *SessionTokenManager) exchange(ctx context.Context) (string, error) {
	resp, err := doPost(ctx, m.httpClient, m.tokenURL, nil)
	if err != nil {
		return "", err
	}

	var reply struct {
		Data struct {
			Attributes struct {
				Token string `json:"token"`
			} `json:"attributes"`
		} `json:"data"`
	}

	if err := json.Unmarshal(resp, &reply); err != nil {
		return "", fmt.Errorf("%w: %s", pco.ErrMalformedTokenReply, err)
	}

	if reply.Data.Attributes.Token == "" {
		return "", pco.ErrMalformedTokenReply
	}

	return reply.Data.Attributes.Token, nil
}
