package service

import (
	"context"

	"github.com/lessonhub/lessonhub/internal/apperr"
	"github.com/lessonhub/lessonhub/internal/model"
)

type actorKey struct{}

// WithActor attaches the authenticated actor to the context. The outer
// request layer calls this after authentication.
func WithActor(ctx context.Context, id int64, role model.Role) context.Context {
	return context.WithValue(ctx, actorKey{}, actor{id: id, role: role})
}

type actor struct {
	id   int64
	role model.Role
}

// ContextIdentity resolves the actor placed on the context by WithActor.
type ContextIdentity struct{}

func (ContextIdentity) Actor(ctx context.Context) (int64, model.Role, error) {
	a, ok := ctx.Value(actorKey{}).(actor)
	if !ok {
		return 0, "", apperr.AccessDenied("no authenticated actor on context")
	}
	return a.id, a.role, nil
}
