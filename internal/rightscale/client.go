package rightscale

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Niarfe/scripts-r-us/internal/logging"
	"github.com/Niarfe/scripts-r-us/internal/models"
)

const (
	// DefaultURL is the default RightScale API endpoint
	DefaultURL = "https://my.rightscale.com"
	// APIVersion is sent as X-API-Version on every request
	APIVersion = "1.5"
	// DefaultTimeout bounds a single API request
	DefaultTimeout = 60 * time.Second

	scriptsPath = "/api/right_scripts"
)

// APIError is returned for any non-2xx API response
type APIError struct {
	StatusCode int
	Method     string
	Path       string
	Body       string
}

func (e *APIError) Error() string {
	body := strings.TrimSpace(e.Body)
	if body == "" {
		return fmt.Sprintf("%s %s: %d %s", e.Method, e.Path, e.StatusCode, http.StatusText(e.StatusCode))
	}
	return fmt.Sprintf("%s %s: %d %s: %s", e.Method, e.Path, e.StatusCode, http.StatusText(e.StatusCode), body)
}

// Unwrap maps a 404 on a single right script onto models.ErrNotFound.
// A 404 on the collection or on the oauth endpoint means the API itself is
// unreachable at that URL and stays a plain APIError.
func (e *APIError) Unwrap() error {
	if e.StatusCode == http.StatusNotFound && strings.Contains(e.Path, scriptsPath+"/") {
		return models.ErrNotFound
	}
	return nil
}

// Options configures a Client
type Options struct {
	APIURL       string
	AccountID    string
	RefreshToken string
	// HTTPClient defaults to a client with DefaultTimeout.
	HTTPClient *http.Client
	Logger     *slog.Logger
}

// Client talks to the RightScale API 1.5 right_scripts resource
type Client struct {
	baseURL      string
	accountID    string
	refreshToken string
	http         *http.Client
	logger       *slog.Logger

	accessToken string
}

// NewClient creates a new RightScale client
func NewClient(opts Options) (*Client, error) {
	if opts.AccountID == "" {
		return nil, fmt.Errorf("account id is required: %w", models.ErrInvalidArguments)
	}
	if opts.RefreshToken == "" {
		return nil, fmt.Errorf("refresh token is required: %w", models.ErrInvalidArguments)
	}
	if opts.APIURL == "" {
		opts.APIURL = DefaultURL
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{Timeout: DefaultTimeout}
	}
	if opts.Logger == nil {
		opts.Logger = logging.Default()
	}

	return &Client{
		baseURL:      strings.TrimRight(opts.APIURL, "/"),
		accountID:    opts.AccountID,
		refreshToken: opts.RefreshToken,
		http:         opts.HTTPClient,
		logger:       opts.Logger,
	}, nil
}

// PublicURL turns an API href into its dashboard link
func (c *Client) PublicURL(href string) string {
	return PublicURL(c.baseURL, c.accountID, href)
}

// PublicURL builds {baseURL}/acct/{accountID}/{href without the /api/ prefix}
func PublicURL(baseURL, accountID, href string) string {
	return fmt.Sprintf("%s/acct/%s/%s", strings.TrimRight(baseURL, "/"), accountID, strings.Replace(href, "/api/", "", 1))
}

type link struct {
	Rel  string `json:"rel"`
	Href string `json:"href"`
}

type rightScript struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Revision    int    `json:"revision"`
	Links       []link `json:"links"`
}

func (r rightScript) toModel() models.RemoteScript {
	var href string
	for _, l := range r.Links {
		if l.Rel == "self" {
			href = l.Href
			break
		}
	}
	return models.RemoteScript{
		ID:          path.Base(href),
		Name:        r.Name,
		Revision:    r.Revision,
		Href:        href,
		Description: r.Description,
	}
}

// Index lists right scripts, filtered server-side by name when non-empty.
// The API filter is a partial match.
func (c *Client) Index(ctx context.Context, name string) ([]models.RemoteScript, error) {
	query := url.Values{}
	if name != "" {
		query.Add("filter[]", "name=="+name)
	}

	var scripts []rightScript
	if err := c.doJSON(ctx, http.MethodGet, scriptsPath, query, &scripts); err != nil {
		return nil, err
	}

	out := make([]models.RemoteScript, 0, len(scripts))
	for _, s := range scripts {
		out = append(out, s.toModel())
	}
	return out, nil
}

// Get fetches a right script and its source text
func (c *Client) Get(ctx context.Context, id string) (*models.RemoteScript, error) {
	if id == "" {
		return nil, fmt.Errorf("id cannot be empty: %w", models.ErrInvalidArguments)
	}

	var script rightScript
	if err := c.doJSON(ctx, http.MethodGet, scriptPath(id), nil, &script); err != nil {
		return nil, err
	}

	resp, err := c.do(ctx, http.MethodGet, scriptPath(id)+"/source", nil, nil, "")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	source, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read source of %s: %w", id, err)
	}

	model := script.toModel()
	if model.ID == "." || model.ID == "" {
		model.ID = id
	}
	model.Source = string(source)
	return &model, nil
}

// UpdateSource replaces the script's source text
func (c *Client) UpdateSource(ctx context.Context, id, text string) error {
	resp, err := c.do(ctx, http.MethodPut, scriptPath(id)+"/source", nil, strings.NewReader(text), "text/plain")
	if err != nil {
		return err
	}
	resp.Body.Close()
	return nil
}

// UpdateDescription replaces the script's description
func (c *Client) UpdateDescription(ctx context.Context, id, text string) error {
	form := url.Values{}
	form.Set("right_script[description]", text)

	resp, err := c.do(ctx, http.MethodPut, scriptPath(id), nil, strings.NewReader(form.Encode()), "application/x-www-form-urlencoded")
	if err != nil {
		return err
	}
	resp.Body.Close()
	return nil
}

func scriptPath(id string) string {
	return scriptsPath + "/" + url.PathEscape(id)
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
}

// authenticate exchanges the refresh token for an access token once per client
func (c *Client) authenticate(ctx context.Context) error {
	if c.accessToken != "" {
		return nil
	}

	form := url.Values{}
	form.Set("grant_type", "refresh_token")
	form.Set("refresh_token", c.refreshToken)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/oauth2", strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("failed to build oauth request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-API-Version", APIVersion)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("failed to authenticate: %w", err)
	}
	defer resp.Body.Close()

	if err := checkResponse(resp); err != nil {
		return fmt.Errorf("failed to authenticate: %w", err)
	}

	var token tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&token); err != nil {
		return fmt.Errorf("failed to decode oauth response: %w", err)
	}
	if token.AccessToken == "" {
		return errors.New("oauth response carried no access token")
	}

	c.accessToken = token.AccessToken
	c.logger.Debug("authenticated", "account", c.accountID, "expires_in", time.Duration(token.ExpiresIn)*time.Second)
	return nil
}

// do sends an authenticated request. The caller closes the body on success.
func (c *Client) do(ctx context.Context, method, p string, query url.Values, body io.Reader, contentType string) (*http.Response, error) {
	if err := c.authenticate(ctx); err != nil {
		return nil, err
	}

	target := c.baseURL + p
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	requestID := uuid.NewString()
	req.Header.Set("X-API-Version", APIVersion)
	req.Header.Set("X-Account", c.accountID)
	req.Header.Set("X-Request-Id", requestID)
	req.Header.Set("Authorization", "Bearer "+c.accessToken)
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	c.logger.Debug("api request", "method", method, "path", p, logging.KeyRequest, requestID)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, p, err)
	}

	if err := checkResponse(resp); err != nil {
		resp.Body.Close()
		return nil, err
	}
	return resp, nil
}

func (c *Client) doJSON(ctx context.Context, method, p string, query url.Values, out any) error {
	resp, err := c.do(ctx, method, p, query, nil, "")
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", p, err)
	}
	return nil
}

func checkResponse(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	return &APIError{
		StatusCode: resp.StatusCode,
		Method:     resp.Request.Method,
		Path:       resp.Request.URL.Path,
		Body:       string(body),
	}
}
