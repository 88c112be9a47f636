package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/niyam-ai/compliance-os-backend/pkg/config"
	"github.com/niyam-ai/compliance-os-backend/pkg/logger"
)

// ErrNotFound signals an empty result set from a single-row select.
var ErrNotFound = errors.New("supabase: row not found")

// APIError carries the status and message returned by the hosted backend.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("supabase: %d %s", e.StatusCode, e.Message)
}

// Client is a single-key handle to the hosted backend: GoTrue for
// credentials, PostgREST for table access. The privilege level is decided by
// the key it was built with.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

// Pair bundles the two handles the auth flows need: the anon-key client for
// sign-in and row-level-secured reads, and the service-role client used only
// for the bootstrap inserts during registration.
type Pair struct {
	Anon    *Client
	Service *Client
}

// NewPair initializes both handles. It returns an error instead of panicking
// when the backend is unconfigured; the caller treats that as fallback mode.
func NewPair(ctx context.Context, cfg config.SupabaseConfig, logg *logger.Logger) (*Pair, error) {
	if !cfg.Configured() {
		return nil, errors.New("supabase url and keys are required")
	}

	anon, err := NewClient(cfg.URL, cfg.AnonKey, cfg.Timeout)
	if err != nil {
		return nil, fmt.Errorf("anon client: %w", err)
	}
	service, err := NewClient(cfg.URL, cfg.ServiceRoleKey, cfg.Timeout)
	if err != nil {
		return nil, fmt.Errorf("service role client: %w", err)
	}

	if logg != nil {
		logg.Info(ctx, "supabase clients initialized")
	}
	return &Pair{Anon: anon, Service: service}, nil
}

// NewClient builds a handle for one API key.
func NewClient(baseURL, apiKey string, timeout time.Duration) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, errors.New("supabase url is required")
	}
	if _, err := url.ParseRequestURI(baseURL); err != nil {
		return nil, fmt.Errorf("invalid supabase url: %w", err)
	}
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("supabase api key is required")
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		http:    &http.Client{Timeout: timeout},
	}, nil
}

type credentialsBody struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	ID   string `json:"id"`
	User *struct {
		ID string `json:"id"`
	} `json:"user"`
}

func (a authResponse) userID() string {
	if a.User != nil && a.User.ID != "" {
		return a.User.ID
	}
	return a.ID
}

// SignUp registers credentials with GoTrue and returns the backend-assigned
// user id. Duplicate emails surface as an *APIError from the backend's own
// uniqueness check.
func (c *Client) SignUp(ctx context.Context, email, password string) (string, error) {
	var resp authResponse
	err := c.do(ctx, http.MethodPost, "/auth/v1/signup", nil, credentialsBody{Email: email, Password: password}, &resp)
	if err != nil {
		return "", err
	}
	if resp.userID() == "" {
		return "", &APIError{StatusCode: http.StatusBadGateway, Message: "signup returned no user id"}
	}
	return resp.userID(), nil
}

// SignInWithPassword validates credentials against GoTrue and returns the
// user id on success.
func (c *Client) SignInWithPassword(ctx context.Context, email, password string) (string, error) {
	var resp authResponse
	err := c.do(ctx, http.MethodPost, "/auth/v1/token", url.Values{"grant_type": {"password"}}, credentialsBody{Email: email, Password: password}, &resp)
	if err != nil {
		return "", err
	}
	if resp.userID() == "" {
		return "", &APIError{StatusCode: http.StatusBadGateway, Message: "token grant returned no user id"}
	}
	return resp.userID(), nil
}

// Insert writes a row through PostgREST and decodes the returned
// representation into out when non-nil.
func (c *Client) Insert(ctx context.Context, table string, row any, out any) error {
	return c.rest(ctx, http.MethodPost, table, nil, row, out)
}

// SelectOne fetches the first row matching column=value, or ErrNotFound.
func (c *Client) SelectOne(ctx context.Context, table, column, value string, out any) error {
	filter := url.Values{}
	filter.Set(column, "eq."+value)
	filter.Set("limit", "1")
	return c.rest(ctx, http.MethodGet, table, filter, nil, out)
}

// UpdateByID patches the row with the given id.
func (c *Client) UpdateByID(ctx context.Context, table, id string, patch any) error {
	filter := url.Values{}
	filter.Set("id", "eq."+id)
	return c.rest(ctx, http.MethodPatch, table, filter, patch, nil)
}

func (c *Client) rest(ctx context.Context, method, table string, query url.Values, body, out any) error {
	raw, err := c.doRaw(ctx, method, "/rest/v1/"+table, query, body)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}

	// PostgREST always answers with a row array.
	var rows []json.RawMessage
	if err := json.Unmarshal(raw, &rows); err != nil {
		return fmt.Errorf("decoding %s response: %w", table, err)
	}
	if len(rows) == 0 {
		return ErrNotFound
	}
	if err := json.Unmarshal(rows[0], out); err != nil {
		return fmt.Errorf("decoding %s row: %w", table, err)
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	raw, err := c.doRaw(ctx, method, path, query, body)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	return json.Unmarshal(raw, out)
}

func (c *Client) doRaw(ctx context.Context, method, path string, query url.Values, body any) ([]byte, error) {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encoding request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if strings.HasPrefix(path, "/rest/") && method != http.MethodGet {
		req.Header.Set("Prefer", "return=representation")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("supabase request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode >= 400 {
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Message:    apiMessage(raw),
		}
	}
	return raw, nil
}

func apiMessage(raw []byte) string {
	var body struct {
		Message          string `json:"message"`
		Msg              string `json:"msg"`
		ErrorDescription string `json:"error_description"`
	}
	if err := json.Unmarshal(raw, &body); err == nil {
		for _, candidate := range []string{body.Message, body.Msg, body.ErrorDescription} {
			if candidate != "" {
				return candidate
			}
		}
	}
	return strings.TrimSpace(string(raw))
}
