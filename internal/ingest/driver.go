package ingest

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Sagarkrsahu2005/Soumya-Furnishing-sub000/internal/domain"
	"github.com/Sagarkrsahu2005/Soumya-Furnishing-sub000/internal/metrics"
	"github.com/Sagarkrsahu2005/Soumya-Furnishing-sub000/internal/tags"
)

// PageSize is the number of products requested per upstream page.
const PageSize = 50

var ErrMissingCursor = errors.New("upstream reported a next page without a cursor")

// Source is a paginated upstream catalog.
type Source interface {
	FetchProducts(ctx context.Context, after string, first int) (domain.UpstreamPage, error)
}

// FetchError wraps a failed page read.
type FetchError struct {
	Page   int
	Cursor string
	Err    error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch page %d: %v", e.Page, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

type DriveResult struct {
	Pages     int `json:"pages"`
	Processed int `json:"processed"`
	Imported  int `json:"imported"`
	Created   int `json:"created"`
	Updated   int `json:"updated"`
	Failed    int `json:"failed"`

	Failures []domain.ProductFailure `json:"failures,omitempty"`
}

type Driver struct {
	Source      Source
	Reconciler  Reconciler
	PageTimeout time.Duration
	Log         *logrus.Entry
}

// Drive walks the whole upstream catalog, one page and one product at a
// time. Products with bad prices are recorded and skipped; any other error
// stops the walk and is returned with the partial result.
func (d Driver) Drive(ctx context.Context) (DriveResult, error) {
	var res DriveResult
	log := d.Log
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}

	cursor := ""
	for {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		page, err := d.fetch(ctx, cursor)
		if err != nil {
			return res, &FetchError{Page: res.Pages + 1, Cursor: cursor, Err: err}
		}
		res.Pages++

		log.WithFields(logrus.Fields{
			"page":     res.Pages,
			"products": len(page.Products),
		}).Debug("fetched catalog page")

		for _, up := range page.Products {
			res.Processed++

			if len(up.Truncated) > 0 {
				log.WithFields(logrus.Fields{
					"slug":      up.Handle,
					"truncated": up.Truncated,
				}).Warn("product mirrored partially; upstream lists exceed query caps")
			}

			// Writes for one product are never interrupted halfway.
			rr, err := d.Reconciler.Reconcile(context.WithoutCancel(ctx), up, tags.Decode(up.Tags))
			if err != nil {
				var pe *PriceError
				if !errors.As(err, &pe) {
					return res, err
				}

				res.Failed++
				res.Failures = append(res.Failures, domain.ProductFailure{
					Slug:       up.Handle,
					UpstreamID: up.ID,
					Stage:      domain.FailureStageParse,
					Message:    pe.Error(),
				})
				metrics.RecordProduct("failed")
				log.WithField("slug", up.Handle).WithError(err).Warn("skipping product")
				continue
			}

			res.Imported++
			if rr.Created {
				res.Created++
				metrics.RecordProduct("created")
			} else {
				res.Updated++
				metrics.RecordProduct("updated")
			}
		}

		if !page.HasNextPage {
			return res, nil
		}
		if page.EndCursor == "" {
			return res, &FetchError{Page: res.Pages, Cursor: cursor, Err: ErrMissingCursor}
		}
		cursor = page.EndCursor
	}
}

func (d Driver) fetch(ctx context.Context, cursor string) (domain.UpstreamPage, error) {
	if d.PageTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.PageTimeout)
		defer cancel()
	}
	return d.Source.FetchProducts(ctx, cursor, PageSize)
}
