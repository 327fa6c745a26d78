package user

import (
	"context"

	"github.com/frahmantamala/legal-practice/internal/policy"
)

type Policy struct{}

func (Policy) View(ctx context.Context, u *User) bool {
	return policy.Authorize(ctx, policy.ActionView, u.Target())
}

func (Policy) Update(ctx context.Context, u *User) bool {
	return policy.Authorize(ctx, policy.ActionUpdate, u.Target())
}
