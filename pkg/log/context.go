package log

import "context"

type exchangeKey struct{}

// WithExchangeID returns a context carrying the exchange ID of the peer a
// request came from.
func WithExchangeID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, exchangeKey{}, id)
}

// ExchangeIDFromContext returns the exchange ID stored by WithExchangeID,
// or "".
func ExchangeIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(exchangeKey{}).(string)
	return id
}
