// Package adminclient drives the admin API of a running storefront. It
// keeps quick edits in a pending set and saves them in one concurrent
// flush, one PATCH per product.
package adminclient

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/aircon-store/storefront/pkg/batch"
	khttp "github.com/aircon-store/storefront/pkg/http"
)

// Patch is a quick edit. Nil fields are left unchanged.
type Patch struct {
	Status   *string `json:"status,omitempty"`
	Featured *bool   `json:"featured,omitempty"`
}

// Client is not safe for concurrent Login calls; staging and saving are.
type Client struct {
	api      *khttp.Client
	httpOpts []khttp.ClientOption
	workers  int
	pending  *batch.Pending[Patch]
}

type Option func(*Client)

// WithWorkers bounds the concurrent PATCH requests of a Save.
func WithWorkers(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.workers = n
		}
	}
}

// WithHTTP passes options to the underlying API client. Requests are sent
// once unless khttp.WithRetry is among them.
func WithHTTP(opts ...khttp.ClientOption) Option {
	return func(c *Client) { c.httpOpts = append(c.httpOpts, opts...) }
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		workers: 4,
		pending: batch.NewPending[Patch](),
	}
	for _, o := range opts {
		o(c)
	}
	c.api = khttp.NewClient(baseURL, c.httpOpts...)
	return c
}

// Login exchanges admin credentials for a bearer token used by later calls.
func (c *Client) Login(ctx context.Context, email, password string) error {
	resp, err := c.api.Post("/api/auth/login").
		Body(map[string]string{"email": email, "password": password}).
		Send(ctx)
	if err != nil {
		return err
	}
	if err := resp.Throw(); err != nil {
		return fmt.Errorf("login: %w", err)
	}
	var out struct {
		Token string `json:"token"`
	}
	if err := resp.Data(&out); err != nil {
		return fmt.Errorf("login: %w", err)
	}
	if out.Token == "" {
		return errors.New("login: no token in response")
	}
	c.api.SetToken(out.Token)
	return nil
}

// Stage merges p into the pending edit for id.
func (c *Client) Stage(id string, p Patch) {
	c.pending.Update(id, func(cur *Patch) {
		if p.Status != nil {
			cur.Status = p.Status
		}
		if p.Featured != nil {
			cur.Featured = p.Featured
		}
	})
}

// Discard drops the pending edit for id.
func (c *Client) Discard(id string) { c.pending.Discard(id) }

// Pending returns the ids with unsaved edits.
func (c *Client) Pending() []string { return c.pending.IDs() }

// Save sends every pending edit. Saved rows leave the pending set; failed
// rows stay so a later Save retries them.
func (c *Client) Save(ctx context.Context) batch.Result {
	return c.pending.Flush(ctx, c.workers, c.patch)
}

func (c *Client) patch(ctx context.Context, id string, p Patch) error {
	resp, err := c.api.Patch("/api/admin/products/" + url.PathEscape(id)).Body(p).Send(ctx)
	if err != nil {
		return err
	}
	return resp.Throw()
}
