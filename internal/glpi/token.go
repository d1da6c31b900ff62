package glpi

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"golang.org/x/oauth2"
)

// DefaultScope is the OAuth2 scope requested when the credential leaves it empty.
const DefaultScope = "api"

// APIBasePath is the path prefix of the GLPI high-level REST API.
const APIBasePath = "/api.php"

// Credential holds the connection settings for a GLPI deployment. Owned by
// the caller; read-only to the adapter.
type Credential struct {
	BaseURL       string `json:"baseUrl"`
	Username      string `json:"username"`
	Password      string `json:"password"`
	ClientID      string `json:"clientId,omitempty"`
	ClientSecret  string `json:"clientSecret,omitempty"`
	Scope         string `json:"scope,omitempty"`
	SkipTLSVerify bool   `json:"skipTlsVerify,omitempty"`
}

// TokenURL returns the OAuth2 token endpoint for the deployment.
func (c Credential) TokenURL() string {
	return strings.TrimRight(c.BaseURL, "/") + APIBasePath + "/token"
}

// HTTPClient returns a client honoring the credential's TLS toggle.
// Self-signed deployments are common for on-prem GLPI, so certificate
// verification is togglable per credential.
func (c Credential) HTTPClient() *http.Client {
	if !c.SkipTLSVerify {
		return http.DefaultClient
	}
	return &http.Client{
		Transport: &http.Transport{
			TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
		},
	}
}

// tokenResponse is the token endpoint's JSON answer.
type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
	ExpiresAt   int64  `json:"expires_at"` // unix seconds, when provided
}

// AcquireToken performs the OAuth2 password-grant exchange against the GLPI
// token endpoint. Client credentials are written to the form only when
// non-empty: public-client configurations must not receive empty client_id /
// client_secret fields. The response must carry an access_token; anything
// else is an authentication error.
func AcquireToken(ctx context.Context, cred Credential) (*oauth2.Token, error) {
	form := url.Values{}
	form.Set("grant_type", "password")
	form.Set("username", cred.Username)
	form.Set("password", cred.Password)
	scope := cred.Scope
	if scope == "" {
		scope = DefaultScope
	}
	form.Set("scope", scope)
	if cred.ClientID != "" {
		form.Set("client_id", cred.ClientID)
	}
	if cred.ClientSecret != "" {
		form.Set("client_secret", cred.ClientSecret)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, cred.TokenURL(), strings.NewReader(form.Encode()))
	if err != nil {
		return nil, Errorf(CodeAuthFailed, "build token request: %v", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := cred.HTTPClient().Do(req)
	if err != nil {
		return nil, Errorf(CodeAuthFailed, "token endpoint: %v", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, Errorf(CodeAuthFailed, "read token response: %v", err)
	}
	if resp.StatusCode >= 400 {
		return nil, Errorf(CodeAuthFailed, "token endpoint returned HTTP %d: %s",
			resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var tr tokenResponse
	if err := json.Unmarshal(body, &tr); err != nil {
		return nil, Errorf(CodeAuthFailed, "parse token response: %v", err)
	}
	if tr.AccessToken == "" {
		return nil, Errorf(CodeNoAccessToken, "token endpoint response contains no access_token")
	}

	tok := &oauth2.Token{
		AccessToken: tr.AccessToken,
		TokenType:   tr.TokenType,
	}
	switch {
	case tr.ExpiresAt > 0:
		tok.Expiry = time.Unix(tr.ExpiresAt, 0)
	case tr.ExpiresIn > 0:
		tok.Expiry = time.Now().Add(time.Duration(tr.ExpiresIn) * time.Second)
	}
	return tok, nil
}

// TokenSource acquires and caches a bearer token for a credential. The first
// caller in a batch triggers the exchange; later items reuse the token while
// oauth2 still considers it valid (tokens without an expiry hint stay valid
// for the life of the source). Safe for concurrent use.
type TokenSource struct {
	cred Credential

	mu  sync.Mutex
	tok *oauth2.Token
}

// NewTokenSource builds a token source for the credential.
func NewTokenSource(cred Credential) *TokenSource {
	return &TokenSource{cred: cred}
}

// Token returns a valid bearer token string, acquiring one if needed.
func (ts *TokenSource) Token(ctx context.Context) (string, error) {
	ts.mu.Lock()
	defer ts.mu.Unlock()

	if ts.tok.Valid() {
		return ts.tok.AccessToken, nil
	}
	tok, err := AcquireToken(ctx, ts.cred)
	if err != nil {
		return "", err
	}
	ts.tok = tok
	return tok.AccessToken, nil
}

// Expiry reports the cached token's expiry, if one is held.
func (ts *TokenSource) Expiry() (time.Time, bool) {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	if ts.tok == nil {
		return time.Time{}, false
	}
	return ts.tok.Expiry, !ts.tok.Expiry.IsZero()
}
