package invoice

import (
	"context"

	"github.com/frahmantamala/legal-practice/internal/policy"
)

type Policy struct{}

func (Policy) ViewAny(context.Context) bool { return true }
func (Policy) Create(context.Context) bool  { return true }

func (Policy) View(ctx context.Context, i *Invoice) bool {
	return policy.Authorize(ctx, policy.ActionView, i.Target())
}

func (Policy) Update(ctx context.Context, i *Invoice) bool {
	return policy.Authorize(ctx, policy.ActionUpdate, i.Target())
}

func (Policy) Delete(ctx context.Context, i *Invoice) bool {
	return policy.Authorize(ctx, policy.ActionDelete, i.Target())
}
