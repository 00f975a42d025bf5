package employee

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
)

const DefaultBaseURL = "http://localhost:8112/api/v1/employee"

// Client fala com o upstream. Nenhum método devolve erro: falha de rede,
// status não-2xx ou JSON inválido viram resultado vazio e um log.
type Client struct {
	base string
	hc   *http.Client
	log  *zap.Logger
}

type ClientOption func(*Client)

func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		if hc != nil {
			c.hc = hc
		}
	}
}

func WithLogger(log *zap.Logger) ClientOption {
	return func(c *Client) {
		if log != nil {
			c.log = log
		}
	}
}

func NewClient(baseURL string, timeout time.Duration, opts ...ClientOption) *Client {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		base: strings.TrimRight(baseURL, "/"),
		hc:   &http.Client{Timeout: timeout},
		log:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) ListAll(ctx context.Context) []Employee {
	var out Response[[]Employee]
	if err := c.do(ctx, http.MethodGet, c.base, nil, &out); err != nil {
		c.log.Error("fetch employees failed", zap.Error(err))
		return []Employee{}
	}
	if out.Data == nil {
		return []Employee{}
	}
	return out.Data
}

func (c *Client) GetByID(ctx context.Context, id string) (Employee, bool) {
	var out Response[*Employee]
	if err := c.do(ctx, http.MethodGet, c.base+"/"+url.PathEscape(id), nil, &out); err != nil {
		c.log.Warn("employee not found", zap.String("id", id), zap.Error(err))
		return Employee{}, false
	}
	if out.Data == nil {
		return Employee{}, false
	}
	return *out.Data, true
}

func (c *Client) Create(ctx context.Context, in CreateInput) (Employee, bool) {
	var out Response[*Employee]
	if err := c.do(ctx, http.MethodPost, c.base, in, &out); err != nil {
		c.log.Error("create employee failed", zap.String("name", in.Name), zap.Error(err))
		return Employee{}, false
	}
	if out.Data == nil {
		return Employee{}, false
	}
	return *out.Data, true
}

// DeleteByName remove pelo nome (o upstream não aceita id no DELETE).
func (c *Client) DeleteByName(ctx context.Context, name string) (string, bool) {
	if err := c.do(ctx, http.MethodDelete, c.base, DeleteInput{Name: name}, nil); err != nil {
		c.log.Error("delete employee failed", zap.String("name", name), zap.Error(err))
		return "", false
	}
	return fmt.Sprintf("Employee with name %s deleted successfully.", name), true
}

func (c *Client) do(ctx context.Context, method, target string, body, out any) error {
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode body: %w", err)
		}
		rd = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, rd)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return fmt.Errorf("%s %s: status %d", method, target, resp.StatusCode)
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
