package execute

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"

	"github.com/Sagarkrsahu2005/Soumya-Furnishing-sub000/internal/ingest"
	"github.com/Sagarkrsahu2005/Soumya-Furnishing-sub000/internal/shopify"
)

// ErrConfig is returned before any network call when upstream credentials
// are missing.
var ErrConfig = errors.New("shopify store domain and storefront token are required")

type Stage string

const (
	StageConfig    Stage = "config"
	StageFetch     Stage = "fetch"
	StageReconcile Stage = "reconcile"
	StageClassify  Stage = "classify"
)

type Kind string

const (
	KindConfig    Kind = "config"
	KindTimeout   Kind = "timeout"
	KindCanceled  Kind = "canceled"
	KindTransport Kind = "transport"
	KindUpstream  Kind = "upstream"
	KindStorage   Kind = "storage"
)

// RunError is a fatal sync failure.
type RunError struct {
	Stage Stage
	Kind  Kind
	Err   error
}

func (e *RunError) Error() string {
	return fmt.Sprintf("sync failed during %s (%s): %v", e.Stage, e.Kind, e.Err)
}

func (e *RunError) Unwrap() error { return e.Err }

func newRunError(stage Stage, err error) *RunError {
	return &RunError{Stage: stage, Kind: kindOf(stage, err), Err: err}
}

func kindOf(stage Stage, err error) Kind {
	switch {
	case stage == StageConfig, errors.Is(err, ErrConfig):
		return KindConfig
	case errors.Is(err, context.DeadlineExceeded):
		return KindTimeout
	case errors.Is(err, context.Canceled):
		return KindCanceled
	}

	var (
		httpErr   *shopify.HTTPStatusError
		gqlErr    *shopify.GraphQLError
		netErr    net.Error
		syntaxErr *json.SyntaxError
		typeErr   *json.UnmarshalTypeError
	)
	switch {
	case errors.As(err, &gqlErr),
		errors.Is(err, shopify.ErrMissingData),
		errors.Is(err, ingest.ErrMissingCursor),
		errors.As(err, &syntaxErr),
		errors.As(err, &typeErr):
		return KindUpstream
	case errors.As(err, &httpErr), errors.As(err, &netErr):
		return KindTransport
	}

	if stage == StageFetch {
		return KindTransport
	}
	return KindStorage
}
