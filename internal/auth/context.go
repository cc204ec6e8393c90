package auth

import "context"

type contextKey struct{}

// OwnerContext identifies the signed-in restaurant owner. OwnerID is also
// the id of the owner's menu.
type OwnerContext struct {
	OwnerID string
	Email   string
}

func WithOwner(ctx context.Context, oc OwnerContext) context.Context {
	return context.WithValue(ctx, contextKey{}, oc)
}

func FromContext(ctx context.Context) (OwnerContext, bool) {
	oc, ok := ctx.Value(contextKey{}).(OwnerContext)
	return oc, ok
}

func OwnerID(ctx context.Context) string {
	oc, ok := FromContext(ctx)
	if !ok {
		return ""
	}
	return oc.OwnerID
}
