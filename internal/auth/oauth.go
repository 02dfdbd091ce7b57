package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	nethttp "net/http"
	"net/url"
	"strings"

	"github.com/fivetwenty-io/pco-client/internal/constants"
	"github.com/fivetwenty-io/pco-client/pkg/pco"
)

// Token is the payload returned by the OAuth token endpoint.
type Token struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
	RefreshToken string `json:"refresh_token"`
	Scope        string `json:"scope"`
	CreatedAt    int64  `json:"created_at"`
}

// OAuthExchanger performs token exchanges against an OAuth token
// endpoint.
type OAuthExchanger struct {
	TokenURL   string
	HTTPClient *nethttp.Client
}

// NewOAuthExchanger creates an exchanger against the production token
// endpoint.
func NewOAuthExchanger() *OAuthExchanger {
	return &OAuthExchanger{
		TokenURL:   constants.DefaultTokenURL,
		HTTPClient: &nethttp.Client{Timeout: constants.OAuthHTTPTimeout},
	}
}

// BrowserRedirectURL builds the URL to which a user's browser should be
// redirected to begin the OAuth flow.
func BrowserRedirectURL(clientID, redirectURI string, scopes []string) string {
	params := url.Values{}
	params.Set("client_id", clientID)
	params.Set("redirect_uri", redirectURI)
	params.Set("response_type", "code")
	params.Set("scope", strings.Join(scopes, " "))

	return constants.DefaultAuthorizeURL + "?" + params.Encode()
}

// ExchangeCode trades an authorization code for an access token.
func (e *OAuthExchanger) ExchangeCode(ctx context.Context, clientID, clientSecret, code, redirectURI string) (*Token, error) {
	return e.tokenRequest(ctx, url.Values{
		"client_id":     {clientID},
		"client_secret": {clientSecret},
		"code":          {code},
		"redirect_uri":  {redirectURI},
		"grant_type":    {"authorization_code"},
	})
}

// RefreshAccessToken trades a refresh token for a fresh access token.
func (e *OAuthExchanger) RefreshAccessToken(ctx context.Context, clientID, clientSecret, refreshToken string) (*Token, error) {
	return e.tokenRequest(ctx, url.Values{
		"client_id":     {clientID},
		"client_secret": {clientSecret},
		"refresh_token": {refreshToken},
		"grant_type":    {"refresh_token"},
	})
}

func (e *OAuthExchanger) tokenRequest(ctx context.Context, form url.Values) (*Token, error) {
	body, err := doPost(ctx, e.HTTPClient, e.TokenURL, form)
	if err != nil {
		return nil, err
	}

	var token Token
	if err := json.Unmarshal(body, &token); err != nil {
		return nil, fmt.Errorf("parsing token response: %w", err)
	}

	return &token, nil
}

// doPost issues one POST (form-encoded when form is non-nil) and funnels
// failures through the transport error taxonomy.
func doPost(ctx context.Context, client *nethttp.Client, postURL string, form url.Values) ([]byte, error) {
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}

	req, err := nethttp.NewRequestWithContext(ctx, nethttp.MethodPost, postURL, body)
	if err != nil {
		return nil, &pco.UnexpectedRequestError{Message: err.Error()}
	}

	req.Header.Set("User-Agent", constants.DefaultUserAgent)

	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	resp, err := client.Do(req)
	if err != nil {
		var netErr net.Error
		if errors.As(err, &netErr) && netErr.Timeout() {
			return nil, &pco.RequestTimeoutError{URL: postURL, Attempts: 1}
		}

		return nil, &pco.UnexpectedRequestError{Message: err.Error()}
	}

	defer func() {
		_ = resp.Body.Close()
	}()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &pco.UnexpectedRequestError{Message: err.Error()}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &pco.RequestFailedError{
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("POST %s returned %s", postURL, nethttp.StatusText(resp.StatusCode)),
			Body:       string(respBody),
		}
	}

	return respBody, nil
}
