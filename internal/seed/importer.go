package seed

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"

	"github.com/goliatone/go-content-bot/internal/fields"
	"github.com/goliatone/go-content-bot/internal/identity"
	"github.com/goliatone/go-content-bot/internal/logging"
	recordsvc "github.com/goliatone/go-content-bot/internal/records"
	"github.com/goliatone/go-content-bot/pkg/interfaces"
)

// ErrStoreRequired is returned when the importer has no record store.
var ErrStoreRequired = errors.New("seed: record store required")

// DocumentError ties an import failure to its source file.
type DocumentError struct {
	Path string
	Err  error
}

func (e DocumentError) Error() string {
	return fmt.Sprintf("seed: %s: %v", e.Path, e.Err)
}

func (e DocumentError) Unwrap() error {
	return e.Err
}

// Result summarises an import run.
type Result struct {
	Created []uuid.UUID
	Skipped []string
	Errors  []DocumentError
}

// Err joins the per-document failures.
func (r *Result) Err() error {
	if r == nil || len(r.Errors) == 0 {
		return nil
	}
	errs := make([]error, 0, len(r.Errors))
	for _, docErr := range r.Errors {
		errs = append(errs, docErr)
	}
	return errors.Join(errs...)
}

// Option configures an Importer.
type Option func(*Importer)

// WithLogger sets the importer logger.
func WithLogger(logger interfaces.Logger) Option {
	return func(i *Importer) {
		if logger != nil {
			i.logger = logger
		}
	}
}

// WithActorID records the operator id stamped on imported records.
func WithActorID(id int64) Option {
	return func(i *Importer) {
		i.actorID = id
	}
}

// WithLoaderConfig overrides file discovery.
func WithLoaderConfig(cfg LoaderConfig) Option {
	return func(i *Importer) {
		i.loader = cfg
	}
}

// Importer loads seed documents into the record store. Existing names are
// left untouched so imports can be repeated.
type Importer struct {
	store   interfaces.RecordStore
	logger  interfaces.Logger
	actorID int64
	loader  LoaderConfig
}

// NewImporter builds an importer over store.
func NewImporter(store interfaces.RecordStore, opts ...Option) (*Importer, error) {
	if store == nil {
		return nil, ErrStoreRequired
	}
	i := &Importer{store: store, logger: logging.NoOp()}
	for _, opt := range opts {
		if opt != nil {
			opt(i)
		}
	}
	return i, nil
}

// ImportDir imports every seed file found under dir.
func (i *Importer) ImportDir(ctx context.Context, dir string) (*Result, error) {
	if strings.TrimSpace(dir) == "" {
		dir = "."
	}
	if _, err := os.Stat(dir); err != nil {
		return nil, fmt.Errorf("seed: stat %s: %w", dir, err)
	}
	docs, err := NewLoader(os.DirFS(dir), i.loader).LoadDirectory(ctx, ".")
	if err != nil {
		return nil, err
	}
	return i.Import(ctx, docs)
}

// Import stores the documents, skipping names that already exist.
func (i *Importer) Import(ctx context.Context, docs []Document) (*Result, error) {
	result := &Result{}
	for _, doc := range docs {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		contentType := fields.NormalizeCode(doc.ContentType)
		logger := logging.WithFields(i.logger, map[string]any{
			"path":         doc.Path,
			"content_type": contentType,
			"name":         doc.Name,
		})

		_, err := i.store.GetByNameOrID(ctx, contentType, doc.Scope, doc.Name)
		switch {
		case err == nil:
			logger.Debug("seed.import.skipped")
			result.Skipped = append(result.Skipped, doc.Path)
			continue
		case !recordsvc.IsNotFound(err):
			logger.Warn("seed.import.lookup_failed", "error", err)
			result.Errors = append(result.Errors, DocumentError{Path: doc.Path, Err: err})
			continue
		}

		record, err := i.store.Create(ctx, interfaces.CreateRecordRequest{
			ID:          identity.RecordUUID(contentType, doc.Scope, doc.Name),
			ContentType: contentType,
			Scope:       doc.Scope,
			Fields:      doc.Fields(),
			ActorID:     i.actorID,
		})
		if err != nil {
			logger.Warn("seed.import.failed", "error", err)
			result.Errors = append(result.Errors, DocumentError{Path: doc.Path, Err: err})
			continue
		}
		logger.Info("seed.import.created", "record_id", record.ID)
		result.Created = append(result.Created, record.ID)
	}
	return result, nil
}

// DefaultPortfolio is the portfolio link the bot ships with.
func DefaultPortfolio() []Document {
	return []Document{{
		Path:        "default/portfolio",
		ContentType: fields.PortfolioProject,
		Name:        "Портфолио",
		URL:         "https://scid.ru/cases",
	}}
}
