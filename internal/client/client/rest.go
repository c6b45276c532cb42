package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/dmitrijs2005/adminpanel/internal/client/models"
	"github.com/dmitrijs2005/adminpanel/internal/netx"
)

var errNoAccessToken = errors.New("login response has no access_token")

type HTTPClient struct {
	base *url.URL
	hc   *http.Client
}

var _ Client = (*HTTPClient)(nil)

// NewHTTPClient returns a client for the API rooted at baseURL. tokens may be
// nil for anonymous use; base may be nil to use http.DefaultTransport.
func NewHTTPClient(baseURL string, tokens TokenSource, base http.RoundTripper) (*HTTPClient, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid api url %q: %w", baseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid api url %q: scheme must be http or https", baseURL)
	}

	tr := &netx.BearerTransport{Base: base}
	if tokens != nil {
		tr.Token = tokens.Token
	}

	return &HTTPClient{base: u, hc: &http.Client{Transport: tr}}, nil
}

func (c *HTTPClient) Close() error {
	c.hc.CloseIdleConnections()
	return nil
}

func (c *HTTPClient) Login(ctx context.Context, creds models.Credentials) (string, error) {
	body, err := c.do(ctx, http.MethodPost, "auth/login", nil, creds)
	if err != nil {
		return "", err
	}
	tok := gjson.GetBytes(body, "access_token").String()
	if tok == "" {
		return "", errNoAccessToken
	}
	return tok, nil
}

func (c *HTTPClient) ListUsers(ctx context.Context, offset, limit int) ([]models.User, error) {
	q := url.Values{}
	q.Set("offset", strconv.Itoa(offset))
	q.Set("limit", strconv.Itoa(limit))

	body, err := c.do(ctx, http.MethodGet, "users", q, nil)
	if err != nil {
		return nil, err
	}

	users := []models.User{}
	if err := json.Unmarshal(body, &users); err != nil {
		return nil, fmt.Errorf("decode users: %w", err)
	}
	return users, nil
}

func (c *HTTPClient) CreateUser(ctx context.Context, u models.NewUser) (models.User, error) {
	body, err := c.do(ctx, http.MethodPost, "users/", nil, u)
	if err != nil {
		return models.User{}, err
	}
	return decodeUser(body)
}

func (c *HTTPClient) UpdateUser(ctx context.Context, id int, patch models.UserPatch) (models.User, error) {
	body, err := c.do(ctx, http.MethodPut, "users/"+strconv.Itoa(id), nil, patch)
	if err != nil {
		return models.User{}, err
	}
	return decodeUser(body)
}

// DeleteUser expects the API to answer with a JSON true.
func (c *HTTPClient) DeleteUser(ctx context.Context, id int) error {
	body, err := c.do(ctx, http.MethodDelete, "users/"+strconv.Itoa(id), nil, nil)
	if err != nil {
		return err
	}
	if r := gjson.ParseBytes(body); r.Type == gjson.False {
		return fmt.Errorf("delete of user %d was not confirmed", id)
	}
	return nil
}

func decodeUser(body []byte) (models.User, error) {
	var u models.User
	if err := json.Unmarshal(body, &u); err != nil {
		return models.User{}, fmt.Errorf("decode user: %w", err)
	}
	return u, nil
}

// do performs one request and returns the body of a 2xx answer.
func (c *HTTPClient) do(ctx context.Context, method, path string, q url.Values, in any) ([]byte, error) {
	u := c.base.JoinPath(path)
	if len(q) > 0 {
		u.RawQuery = q.Encode()
	}

	req, err := netx.NewJSONRequest(ctx, method, u.String(), in)
	if err != nil {
		return nil, err
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}

	body, err := netx.ReadBody(resp)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &APIError{StatusCode: resp.StatusCode, Message: errorMessage(body)}
	}
	return body, nil
}

// errorMessage extracts "message" from an error body. The API sends it either
// as a string or as a list of validation messages.
func errorMessage(body []byte) string {
	if !gjson.ValidBytes(body) {
		return ""
	}
	m := gjson.GetBytes(body, "message")
	if m.IsArray() {
		var parts []string
		for _, p := range m.Array() {
			parts = append(parts, p.String())
		}
		return strings.Join(parts, "; ")
	}
	return m.String()
}
