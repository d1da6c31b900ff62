package glpi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"sync/atomic"
	"testing"
	"time"
)

// tokenHandler answers the GLPI token endpoint, recording the last form body.
func tokenHandler(t *testing.T, lastForm *url.Values, token string) http.HandlerFunc {
	t.Helper()
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "POST" || r.URL.Path != "/api.php/token" {
			t.Errorf("unexpected token request: %s %s", r.Method, r.URL.Path)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/x-www-form-urlencoded" {
			t.Errorf("content type: got %q", ct)
		}
		if err := r.ParseForm(); err != nil {
			t.Fatalf("parse form: %v", err)
		}
		*lastForm = r.PostForm
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"access_token":"` + token + `","token_type":"Bearer","expires_in":3600}`))
	}
}

func TestAcquireTokenPublicClient(t *testing.T) {
	var form url.Values
	server := httptest.NewServer(tokenHandler(t, &form, "tok-1"))
	defer server.Close()

	tok, err := AcquireToken(context.Background(), Credential{
		BaseURL:  server.URL,
		Username: "glpi",
		Password: "secret",
	})
	if err != nil {
		t.Fatalf("AcquireToken: %v", err)
	}
	if tok.AccessToken != "tok-1" {
		t.Errorf("token: got %q", tok.AccessToken)
	}
	if !tok.Valid() {
		t.Error("token with expires_in should be valid")
	}

	if form.Get("grant_type") != "password" {
		t.Errorf("grant_type: got %q", form.Get("grant_type"))
	}
	if form.Get("username") != "glpi" || form.Get("password") != "secret" {
		t.Errorf("credentials not in form: %v", form)
	}
	if form.Get("scope") != DefaultScope {
		t.Errorf("scope should default to %q, got %q", DefaultScope, form.Get("scope"))
	}
	// public client: the fields must be wholly absent, not empty strings
	if _, ok := form["client_id"]; ok {
		t.Error("client_id must be omitted for public clients")
	}
	if _, ok := form["client_secret"]; ok {
		t.Error("client_secret must be omitted for public clients")
	}
}

func TestAcquireTokenConfidentialClient(t *testing.T) {
	var form url.Values
	server := httptest.NewServer(tokenHandler(t, &form, "tok-2"))
	defer server.Close()

	_, err := AcquireToken(context.Background(), Credential{
		BaseURL:      server.URL,
		Username:     "glpi",
		Password:     "secret",
		ClientID:     "client-1",
		ClientSecret: "shhh",
		Scope:        "api inventory",
	})
	if err != nil {
		t.Fatalf("AcquireToken: %v", err)
	}
	if form.Get("client_id") != "client-1" || form.Get("client_secret") != "shhh" {
		t.Errorf("client credentials missing from form: %v", form)
	}
	if form.Get("scope") != "api inventory" {
		t.Errorf("scope: got %q", form.Get("scope"))
	}
}

func TestAcquireTokenNoAccessToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"token_type":"Bearer"}`))
	}))
	defer server.Close()

	_, err := AcquireToken(context.Background(), Credential{BaseURL: server.URL})
	glpiErr, ok := err.(*Error)
	if !ok || glpiErr.Code != CodeNoAccessToken {
		t.Fatalf("expected %s error, got %v", CodeNoAccessToken, err)
	}
}

func TestAcquireTokenEndpointError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"invalid_grant"}`, http.StatusUnauthorized)
	}))
	defer server.Close()

	_, err := AcquireToken(context.Background(), Credential{BaseURL: server.URL})
	glpiErr, ok := err.(*Error)
	if !ok || glpiErr.Code != CodeAuthFailed {
		t.Fatalf("expected %s error, got %v", CodeAuthFailed, err)
	}
}

func TestAcquireTokenSkipTLSVerify(t *testing.T) {
	var form url.Values
	server := httptest.NewTLSServer(tokenHandler(t, &form, "tok-tls"))
	defer server.Close()

	cred := Credential{BaseURL: server.URL, Username: "u", Password: "p"}

	// default client rejects the self-signed certificate
	if _, err := AcquireToken(context.Background(), cred); err == nil {
		t.Fatal("expected TLS verification failure against self-signed server")
	}

	cred.SkipTLSVerify = true
	tok, err := AcquireToken(context.Background(), cred)
	if err != nil {
		t.Fatalf("AcquireToken with SkipTLSVerify: %v", err)
	}
	if tok.AccessToken != "tok-tls" {
		t.Errorf("token: got %q", tok.AccessToken)
	}
}

func TestTokenSourceCachesWhileValid(t *testing.T) {
	var calls atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"access_token":"tok","expires_in":3600}`))
	}))
	defer server.Close()

	ts := NewTokenSource(Credential{BaseURL: server.URL, Username: "u", Password: "p"})
	for i := 0; i < 5; i++ {
		if _, err := ts.Token(context.Background()); err != nil {
			t.Fatalf("Token: %v", err)
		}
	}
	if got := calls.Load(); got != 1 {
		t.Errorf("token endpoint called %d times, want 1", got)
	}

	exp, ok := ts.Expiry()
	if !ok {
		t.Fatal("expected a cached expiry")
	}
	if until := time.Until(exp); until < 50*time.Minute || until > 61*time.Minute {
		t.Errorf("expiry out of range: %v", until)
	}
}

func TestAcquireTokenUsesExpiresAt(t *testing.T) {
	at := time.Now().Add(2 * time.Hour).Unix()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"access_token":"tok","expires_at":` + strconv.FormatInt(at, 10) + `}`))
	}))
	defer server.Close()

	tok, err := AcquireToken(context.Background(), Credential{BaseURL: server.URL})
	if err != nil {
		t.Fatalf("AcquireToken: %v", err)
	}
	if got := tok.Expiry.Unix(); got != at {
		t.Errorf("expiry: got %d, want %d", got, at)
	}
}
