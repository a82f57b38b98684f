// Package cms talks to the content-management backend that owns products and
// receives orders, and normalizes its records into domain products.
package cms

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"megastore/internal/domain"
)

var (
	ErrNotFound         = errors.New("cms: not found")
	ErrUnexpectedStatus = errors.New("cms: unexpected status")
)

const defaultTimeout = 10 * time.Second

type Client struct {
	baseURL string
	timeout time.Duration
	http    *fiber.Client
	norm    Normalizer
}

func New(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	base := strings.TrimRight(baseURL, "/")
	return &Client{
		baseURL: base,
		timeout: timeout,
		http:    &fiber.Client{UserAgent: "megastore"},
		norm:    NewNormalizer(base),
	}
}

// ListProducts fetches the whole catalog; the CMS does not paginate it.
func (c *Client) ListProducts(ctx context.Context) ([]domain.Product, error) {
	const op = "cms.ListProducts"

	var env listEnvelope
	if err := c.getJSON(ctx, "/api/products?populate=*", &env); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return c.norm.NormalizeAll(env.Data), nil
}

// GetProduct fetches one product by its document id.
func (c *Client) GetProduct(ctx context.Context, documentID string) (domain.Product, error) {
	const op = "cms.GetProduct"

	var env itemEnvelope
	path := "/api/products/" + url.PathEscape(documentID) + "?populate=*"
	if err := c.getJSON(ctx, path, &env); err != nil {
		return domain.Product{}, fmt.Errorf("%s: %w", op, err)
	}
	if env.Data == nil {
		return domain.Product{}, fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	return c.norm.Normalize(*env.Data), nil
}

// SubmitOrder posts the order; any non-2xx answer is a failure.
func (c *Client) SubmitOrder(ctx context.Context, o domain.Order) error {
	const op = "cms.SubmitOrder"

	a := c.http.Post(c.baseURL + "/api/orders")
	a.JSON(orderEnvelope{Data: o})
	code, _, err := c.do(ctx, a)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if code < 200 || code > 299 {
		return fmt.Errorf("%s: %w: %d", op, ErrUnexpectedStatus, code)
	}
	return nil
}

func (c *Client) getJSON(ctx context.Context, path string, v any) error {
	a := c.http.Get(c.baseURL + path)
	a.Set(fiber.HeaderAccept, fiber.MIMEApplicationJSON)
	code, body, err := c.do(ctx, a)
	if err != nil {
		return err
	}
	switch {
	case code == fiber.StatusNotFound:
		return ErrNotFound
	case code < 200 || code > 299:
		return fmt.Errorf("%w: %d", ErrUnexpectedStatus, code)
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// do sends the request. The agent is released in every path.
func (c *Client) do(ctx context.Context, a *fiber.Agent) (int, []byte, error) {
	if err := ctx.Err(); err != nil {
		fiber.ReleaseAgent(a)
		return 0, nil, err
	}
	timeout := c.timeout
	if dl, ok := ctx.Deadline(); ok {
		if left := time.Until(dl); left < timeout {
			timeout = left
		}
	}
	a.Timeout(timeout)
	code, body, errs := a.Bytes()
	if len(errs) > 0 {
		return 0, nil, errors.Join(errs...)
	}
	return code, body, nil
}
