package operatorctx

import "context"

type ctxKeyOperator struct{}

// DevOperator is used when a dev request carries no bearer token.
const DevOperator = "dev"

func WithOperator(ctx context.Context, subject string) context.Context {
	return context.WithValue(ctx, ctxKeyOperator{}, subject)
}

func Operator(ctx context.Context) string {
	if v, ok := ctx.Value(ctxKeyOperator{}).(string); ok && v != "" {
		return v
	}
	return DevOperator
}
