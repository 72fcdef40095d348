package gateway

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	liveHost    = "https://www.payfast.co.za"
	sandboxHost = "https://sandbox.payfast.co.za"

	processPath  = "/eng/process"
	validatePath = "/eng/query/validate"

	// confirmBody is the only response that counts as corroboration.
	confirmBody = "VALID"

	DefaultValidateTimeout = 10 * time.Second
)

// Client talks to the payment processor: it knows the redirect endpoint
// for outgoing payment requests and performs the server-to-server
// validate call that corroborates inbound webhooks beyond the signature
// match. All failures report unconfirmed.
type Client struct {
	host    string
	timeout time.Duration
	client  *http.Client
}

func NewClient(sandbox bool, timeout time.Duration) *Client {
	host := liveHost
	if sandbox {
		host = sandboxHost
	}
	if timeout <= 0 {
		timeout = DefaultValidateTimeout
	}
	return &Client{
		host:    host,
		timeout: timeout,
		client:  &http.Client{Timeout: timeout},
	}
}

// NewClientWithHost points the client at an explicit host. Used by
// tests to stand in for the processor.
func NewClientWithHost(host string, timeout time.Duration) *Client {
	c := NewClient(false, timeout)
	c.host = host
	return c
}

// ProcessURL is the endpoint the browser is redirected to with the
// signed field set.
func (c *Client) ProcessURL() string {
	return c.host + processPath
}

// Confirm re-posts the exact received notification fields to the
// processor's validate endpoint. Only the literal body "VALID"
// confirms; a transport error, timeout or any other body is a negative
// answer, never an implicit confirmation.
func (c *Client) Confirm(ctx context.Context, fields map[string]string) (bool, error) {
	form := url.Values{}
	for k, v := range fields {
		form.Set(k, v)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.host+validatePath, strings.NewReader(form.Encode()))
	if err != nil {
		return false, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.client.Do(req)
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return false, nil
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1024))
	if err != nil {
		return false, err
	}

	return strings.TrimSpace(string(body)) == confirmBody, nil
}
