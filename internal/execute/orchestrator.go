package execute

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/Sagarkrsahu2005/Soumya-Furnishing-sub000/internal/config"
	"github.com/Sagarkrsahu2005/Soumya-Furnishing-sub000/internal/domain"
	"github.com/Sagarkrsahu2005/Soumya-Furnishing-sub000/internal/ingest"
	"github.com/Sagarkrsahu2005/Soumya-Furnishing-sub000/internal/metrics"
	"github.com/Sagarkrsahu2005/Soumya-Furnishing-sub000/internal/state"
	"github.com/Sagarkrsahu2005/Soumya-Furnishing-sub000/internal/taxonomy"
)

type Result struct {
	RunID       string           `json:"run_id,omitempty"`
	Status      domain.RunStatus `json:"status"`
	Pages       int              `json:"pages"`
	Imported    int              `json:"imported"`
	Created     int              `json:"created"`
	Updated     int              `json:"updated"`
	Categorized int              `json:"categorized"`
	Failed      int              `json:"failed"`

	Failures []domain.ProductFailure `json:"failures"`
}

// Outcome is the tally persisted on the run record.
func (r Result) Outcome() state.RunOutcome {
	return state.RunOutcome{
		Status:      r.Status,
		Imported:    r.Imported,
		Categorized: r.Categorized,
		Failed:      r.Failed,
	}
}

// Orchestrator runs one full sync: walk the upstream catalog, then classify
// every product still missing a category.
type Orchestrator struct {
	Shopify    config.ShopifyConfig
	Source     ingest.Source
	Store      state.CatalogStore
	Classifier *taxonomy.Classifier
	Log        *logrus.Entry
}

func (o Orchestrator) Sync(ctx context.Context) (Result, error) {
	res := Result{Status: domain.RunStatusFailed, Failures: []domain.ProductFailure{}}

	if !o.Shopify.Complete() {
		return res, newRunError(StageConfig, ErrConfig)
	}
	if o.Source == nil || o.Store == nil || o.Classifier == nil {
		return res, newRunError(StageConfig, errors.New("orchestrator is not fully wired"))
	}

	log := o.Log
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}

	driver := ingest.Driver{
		Source:      o.Source,
		Reconciler:  ingest.NewReconciler(o.Store),
		PageTimeout: o.Shopify.PageTimeout,
		Log:         log,
	}

	dr, err := driver.Drive(ctx)
	res.Pages = dr.Pages
	res.Imported = dr.Imported
	res.Created = dr.Created
	res.Updated = dr.Updated
	res.Failed = dr.Failed
	if dr.Failures != nil {
		res.Failures = dr.Failures
	}
	if err != nil {
		var fe *ingest.FetchError
		if errors.As(err, &fe) {
			return res, newRunError(StageFetch, err)
		}
		return res, newRunError(StageReconcile, err)
	}

	log.WithFields(logrus.Fields{
		"pages":    dr.Pages,
		"imported": dr.Imported,
		"failed":   dr.Failed,
	}).Info("catalog reconciled")

	n, err := o.classify(ctx, log)
	res.Categorized = n
	if err != nil {
		return res, newRunError(StageClassify, err)
	}

	switch {
	case dr.Processed == 0:
		res.Status = domain.RunStatusEmpty
	case dr.Failed > 0:
		res.Status = domain.RunStatusPartial
	default:
		res.Status = domain.RunStatusCompleted
	}
	return res, nil
}

// classify assigns a category to every product that has none. A product the
// classifier has no signal for stays uncategorized.
func (o Orchestrator) classify(ctx context.Context, log *logrus.Entry) (int, error) {
	products, err := o.Store.ListUncategorized(ctx)
	if err != nil {
		return 0, err
	}

	n := 0
	for _, p := range products {
		category, ok := o.Classifier.Classify(p.Title, taxonomy.StripHTML(p.Description))
		if !ok {
			log.WithField("slug", p.Slug).Debug("no category signal")
			continue
		}
		if err := o.Store.SetCategory(ctx, p.ID, category); err != nil {
			return n, err
		}
		n++
	}

	metrics.RecordCategorized(n)
	return n, nil
}
