package screener

import "context"

type refreshKey struct{}

// WithRefresh marks ctx as a cache refresh: cached entries are ignored on read
// but fresh results are still written, restarting their TTL.
func WithRefresh(ctx context.Context) context.Context {
	return context.WithValue(ctx, refreshKey{}, true)
}

// IsRefresh reports whether ctx was marked by WithRefresh
func IsRefresh(ctx context.Context) bool {
	v, _ := ctx.Value(refreshKey{}).(bool)
	return v
}
