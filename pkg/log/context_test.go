package log

import (
	"context"
	"testing"
)

func TestExchangeIDContext(t *testing.T) {
	ctx := context.Background()
	if got := ExchangeIDFromContext(ctx); got != "" {
		t.Errorf("ExchangeIDFromContext(empty) = %q", got)
	}

	ctx = WithExchangeID(ctx, "ex-1")
	if got := ExchangeIDFromContext(ctx); got != "ex-1" {
		t.Errorf("ExchangeIDFromContext = %q, want ex-1", got)
	}
}
