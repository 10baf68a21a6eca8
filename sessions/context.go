package sessions

import "context"

type contextKey struct{}

// NewContext returns a copy of ctx carrying view.
func NewContext(ctx context.Context, view *View) context.Context {
	return context.WithValue(ctx, contextKey{}, view)
}

// FromContext returns the View stored by NewContext, if any.
func FromContext(ctx context.Context) (*View, bool) {
	v, ok := ctx.Value(contextKey{}).(*View)
	return v, ok && v != nil
}
