package rightscale

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"

	"github.com/Niarfe/scripts-r-us/internal/logging"
	"github.com/Niarfe/scripts-r-us/internal/models"
)

// mockAPI is a minimal RightScale API 1.5 server
type mockAPI struct {
	mu          sync.Mutex
	oauthCalls  int
	filters     []string
	sources     map[string]string
	description map[string]string
	headers     []http.Header
}

func newMockAPI(t *testing.T) (*mockAPI, *httptest.Server) {
	t.Helper()
	api := &mockAPI{
		sources:     map[string]string{"11": "#!/bin/bash\necho hi\n"},
		description: map[string]string{},
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/oauth2", func(w http.ResponseWriter, r *http.Request) {
		api.mu.Lock()
		api.oauthCalls++
		api.mu.Unlock()

		r.ParseForm()
		if r.Method != http.MethodPost || r.Form.Get("grant_type") != "refresh_token" || r.Form.Get("refresh_token") != "refresh" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		json.NewEncoder(w).Encode(tokenResponse{AccessToken: "token", ExpiresIn: 7200})
	})
	mux.HandleFunc("/api/right_scripts", func(w http.ResponseWriter, r *http.Request) {
		api.record(r)
		api.mu.Lock()
		api.filters = append(api.filters, r.URL.Query()["filter[]"]...)
		api.mu.Unlock()

		json.NewEncoder(w).Encode([]rightScript{
			{Name: "deploy", Revision: 0, Links: []link{{Rel: "self", Href: "/api/right_scripts/11"}}},
			{Name: "deploy", Revision: 3, Links: []link{{Rel: "self", Href: "/api/right_scripts/12"}}},
		})
	})
	mux.HandleFunc("/api/right_scripts/11", func(w http.ResponseWriter, r *http.Request) {
		api.record(r)
		switch r.Method {
		case http.MethodGet:
			json.NewEncoder(w).Encode(rightScript{
				Name:        "deploy",
				Description: "Deploys",
				Links:       []link{{Rel: "self", Href: "/api/right_scripts/11"}},
			})
		case http.MethodPut:
			r.ParseForm()
			api.mu.Lock()
			api.description["11"] = r.PostForm.Get("right_script[description]")
			api.mu.Unlock()
			w.WriteHeader(http.StatusNoContent)
		}
	})
	mux.HandleFunc("/api/right_scripts/11/source", func(w http.ResponseWriter, r *http.Request) {
		api.record(r)
		switch r.Method {
		case http.MethodGet:
			w.Header().Set("Content-Type", "text/plain")
			io.WriteString(w, api.sources["11"])
		case http.MethodPut:
			body, _ := io.ReadAll(r.Body)
			api.mu.Lock()
			api.sources["11"] = string(body)
			api.mu.Unlock()
			w.WriteHeader(http.StatusNoContent)
		}
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return api, server
}

func (m *mockAPI) record(r *http.Request) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.headers = append(m.headers, r.Header.Clone())
}

func newTestClient(t *testing.T, serverURL string) *Client {
	t.Helper()
	client, err := NewClient(Options{
		APIURL:       serverURL,
		AccountID:    "42",
		RefreshToken: "refresh",
		Logger:       logging.Discard(),
	})
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}
	return client
}

func TestNewClient(t *testing.T) {
	tests := []struct {
		name    string
		opts    Options
		wantURL string
		wantErr bool
	}{
		{
			name:    "with custom url",
			opts:    Options{APIURL: "https://us-4.rightscale.com/", AccountID: "1", RefreshToken: "r"},
			wantURL: "https://us-4.rightscale.com",
		},
		{
			name:    "with default url",
			opts:    Options{AccountID: "1", RefreshToken: "r"},
			wantURL: DefaultURL,
		},
		{
			name:    "missing account",
			opts:    Options{RefreshToken: "r"},
			wantErr: true,
		},
		{
			name:    "missing refresh token",
			opts:    Options{AccountID: "1"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := NewClient(tt.opts)

			if tt.wantErr {
				if !errors.Is(err, models.ErrInvalidArguments) {
					t.Errorf("expected ErrInvalidArguments, got %v", err)
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			want := tt.wantURL + "/acct/1/right_scripts/5"
			if got := client.PublicURL("/api/right_scripts/5"); got != want {
				t.Errorf("expected public url %s, got %s", want, got)
			}
		})
	}
}

func TestPublicURL(t *testing.T) {
	got := PublicURL("https://my.rightscale.com/", "42", "/api/right_scripts/11")
	want := "https://my.rightscale.com/acct/42/right_scripts/11"
	if got != want {
		t.Errorf("expected %s, got %s", want, got)
	}
}

func TestIndex(t *testing.T) {
	api, server := newMockAPI(t)
	client := newTestClient(t, server.URL)

	scripts, err := client.Index(context.Background(), "deploy")
	if err != nil {
		t.Fatalf("Index failed: %v", err)
	}

	if len(scripts) != 2 {
		t.Fatalf("expected 2 scripts, got %d", len(scripts))
	}
	if scripts[0].ID != "11" || scripts[0].Href != "/api/right_scripts/11" || scripts[0].Revision != 0 {
		t.Errorf("unexpected first script: %+v", scripts[0])
	}
	if scripts[1].Revision != 3 {
		t.Errorf("expected revision 3, got %d", scripts[1].Revision)
	}
	if len(api.filters) != 1 || api.filters[0] != "name==deploy" {
		t.Errorf("expected name filter, got %v", api.filters)
	}

	h := api.headers[0]
	if h.Get("X-API-Version") != APIVersion || h.Get("X-Account") != "42" || h.Get("Authorization") != "Bearer token" {
		t.Errorf("missing api headers: %v", h)
	}
	if h.Get("X-Request-Id") == "" {
		t.Error("expected a request id header")
	}
}

func TestIndexWithoutFilter(t *testing.T) {
	api, server := newMockAPI(t)
	client := newTestClient(t, server.URL)

	if _, err := client.Index(context.Background(), ""); err != nil {
		t.Fatalf("Index failed: %v", err)
	}
	if len(api.filters) != 0 {
		t.Errorf("expected no filter, got %v", api.filters)
	}
}

func TestGet(t *testing.T) {
	_, server := newMockAPI(t)
	client := newTestClient(t, server.URL)

	script, err := client.Get(context.Background(), "11")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if script.Name != "deploy" || script.Description != "Deploys" || script.ID != "11" {
		t.Errorf("unexpected script: %+v", script)
	}
	if script.Source != "#!/bin/bash\necho hi\n" {
		t.Errorf("unexpected source: %q", script.Source)
	}
}

func TestGetNotFound(t *testing.T) {
	_, server := newMockAPI(t)
	client := newTestClient(t, server.URL)

	_, err := client.Get(context.Background(), "99")
	if !errors.Is(err, models.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}

	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.StatusCode != http.StatusNotFound {
		t.Errorf("expected 404 APIError, got %v", err)
	}
}

func TestIndexNotFoundIsNotMissingScript(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/oauth2", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(tokenResponse{AccessToken: "token"})
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	client := newTestClient(t, server.URL)
	_, err := client.Index(context.Background(), "deploy")

	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 APIError, got %v", err)
	}
	if errors.Is(err, models.ErrNotFound) {
		t.Errorf("collection 404 must not read as a missing script: %v", err)
	}
}

func TestAPIErrorUnwrap(t *testing.T) {
	tests := []struct {
		name     string
		err      *APIError
		notFound bool
	}{
		{"single script", &APIError{StatusCode: http.StatusNotFound, Path: "/api/right_scripts/11"}, true},
		{"script source", &APIError{StatusCode: http.StatusNotFound, Path: "/api/right_scripts/11/source"}, true},
		{"collection", &APIError{StatusCode: http.StatusNotFound, Path: "/api/right_scripts"}, false},
		{"oauth", &APIError{StatusCode: http.StatusNotFound, Path: "/api/oauth2"}, false},
		{"server error", &APIError{StatusCode: http.StatusInternalServerError, Path: "/api/right_scripts/11"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := errors.Is(tt.err, models.ErrNotFound); got != tt.notFound {
				t.Errorf("errors.Is(ErrNotFound) = %v, want %v", got, tt.notFound)
			}
		})
	}
}

func TestUpdates(t *testing.T) {
	api, server := newMockAPI(t)
	client := newTestClient(t, server.URL)
	ctx := context.Background()

	if err := client.UpdateSource(ctx, "11", "echo new\n"); err != nil {
		t.Fatalf("UpdateSource failed: %v", err)
	}
	if err := client.UpdateDescription(ctx, "11", "new description"); err != nil {
		t.Fatalf("UpdateDescription failed: %v", err)
	}

	if api.sources["11"] != "echo new\n" {
		t.Errorf("source not updated: %q", api.sources["11"])
	}
	if api.description["11"] != "new description" {
		t.Errorf("description not updated: %q", api.description["11"])
	}
	if api.oauthCalls != 1 {
		t.Errorf("expected token to be cached, got %d oauth calls", api.oauthCalls)
	}
}

func TestAuthenticationFailure(t *testing.T) {
	_, server := newMockAPI(t)
	client, _ := NewClient(Options{APIURL: server.URL, AccountID: "42", RefreshToken: "wrong", Logger: logging.Discard()})

	_, err := client.Index(context.Background(), "")
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.StatusCode != http.StatusUnauthorized {
		t.Errorf("expected 401 APIError, got %v", err)
	}
}

func TestScriptPathEscapes(t *testing.T) {
	got := scriptPath("a/b")
	if got != "/api/right_scripts/"+url.PathEscape("a/b") {
		t.Errorf("unexpected path: %s", got)
	}
}
