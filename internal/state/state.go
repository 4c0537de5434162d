package state

import (
	"context"
	"errors"
	"time"

	"github.com/Sagarkrsahu2005/Soumya-Furnishing-sub000/internal/domain"
)

var (
	// ErrRunActive is returned when a run is requested while another one is
	// still queued or running.
	ErrRunActive = errors.New("a sync run is already queued or running")

	ErrRunNotFound = errors.New("run not found")
)

type RunRecord struct {
	RunID       string
	Status      domain.RunStatus
	TriggeredBy string

	Imported    int
	Categorized int
	Failed      int

	Error string

	CreatedAt  time.Time
	StartedAt  *time.Time
	FinishedAt *time.Time
}

type RunClaim struct {
	RunID       string
	TriggeredBy string
}

// RunOutcome is the final tally written when a run leaves the running state.
type RunOutcome struct {
	Status      domain.RunStatus
	Imported    int
	Categorized int
	Failed      int
}

type CatalogStore interface {
	// UpsertProduct inserts or fully overwrites the product with p.Slug.
	UpsertProduct(ctx context.Context, p domain.Product) (id int64, created bool, err error)
	ReplaceImages(ctx context.Context, productID int64, images []domain.Image) error
	ReplaceVariants(ctx context.Context, productID int64, variants []domain.Variant) error

	UpsertCollection(ctx context.Context, c domain.Collection) (int64, error)
	EnsureMembership(ctx context.Context, productID, collectionID int64) (created bool, err error)

	GetProductBySlug(ctx context.Context, slug string) (domain.Product, bool, error)
	ListImages(ctx context.Context, productID int64) ([]domain.Image, error)
	ListVariants(ctx context.Context, productID int64) ([]domain.Variant, error)
	ListProductCollections(ctx context.Context, productID int64) ([]domain.Collection, error)

	ListUncategorized(ctx context.Context) ([]domain.Product, error)
	SetCategory(ctx context.Context, productID int64, category string) error
}

type RunStore interface {
	// InsertRun records a new run. It fails with ErrRunActive when another
	// run is queued or running.
	InsertRun(ctx context.Context, run RunRecord) error
	// ClaimRun moves the oldest queued run to running. Nothing is claimed
	// while a run is already running.
	ClaimRun(ctx context.Context) (RunClaim, bool, error)
	StartRun(ctx context.Context, runID string) error
	CompleteRun(ctx context.Context, runID string, out RunOutcome) error
	FailRun(ctx context.Context, runID string, out RunOutcome, message string) error

	GetRun(ctx context.Context, runID string) (RunRecord, bool, error)
	ListRuns(ctx context.Context, limit int) ([]RunRecord, error)

	InsertRunFailures(ctx context.Context, runID string, failures []domain.ProductFailure) error
	ListRunFailures(ctx context.Context, runID string) ([]domain.ProductFailure, error)
}

type Store interface {
	CatalogStore
	RunStore
}
