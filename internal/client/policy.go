package client

import (
	"context"

	"github.com/frahmantamala/legal-practice/internal/policy"
)

type Policy struct{}

func (Policy) ViewAny(context.Context) bool { return true }
func (Policy) Create(context.Context) bool  { return true }

func (Policy) View(ctx context.Context, c *Client) bool {
	return policy.Authorize(ctx, policy.ActionView, c.Target())
}

func (Policy) Update(ctx context.Context, c *Client) bool {
	return policy.Authorize(ctx, policy.ActionUpdate, c.Target())
}

func (Policy) Delete(ctx context.Context, c *Client) bool {
	return policy.Authorize(ctx, policy.ActionDelete, c.Target())
}
