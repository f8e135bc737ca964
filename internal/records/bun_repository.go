package records

import (
	"context"
	"fmt"

	goerrors "github.com/goliatone/go-errors"
	repository "github.com/goliatone/go-repository-bun"
	cache "github.com/goliatone/go-repository-cache/cache"
	repositorycache "github.com/goliatone/go-repository-cache/repositorycache"
	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-content-bot/records"
)

const recordNamespace = "record"

// BunRepository implements Repository with optional caching.
type BunRepository struct {
	repo         repository.Repository[*records.Record]
	cacheService cache.CacheService
	cachePrefix  string
}

// NewRecordRepository builds the go-repository-bun handlers for records.
func NewRecordRepository(db *bun.DB) repository.Repository[*records.Record] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*records.Record]{
		NewRecord: func() *records.Record { return &records.Record{} },
		GetID: func(r *records.Record) uuid.UUID {
			return r.ID
		},
		SetID: func(r *records.Record, id uuid.UUID) {
			r.ID = id
		},
		GetIdentifier: func() string {
			return "name"
		},
		GetIdentifierValue: func(r *records.Record) string {
			return r.Name
		},
	})
}

// NewBunRepository creates a record repository without caching.
func NewBunRepository(db *bun.DB) *BunRepository {
	return NewBunRepositoryWithCache(db, nil, nil)
}

// NewBunRepositoryWithCache creates a record repository with caching services.
func NewBunRepositoryWithCache(db *bun.DB, cacheService cache.CacheService, serializer cache.KeySerializer) *BunRepository {
	base := NewRecordRepository(db)
	var svc cache.CacheService
	if cacheService != nil && serializer != nil {
		base = repositorycache.New(base, cacheService, serializer)
		svc = cacheService
	}
	prefix := ""
	if svc != nil {
		prefix = cachePrefix(recordNamespace)
	}
	return &BunRepository{
		repo:         base,
		cacheService: svc,
		cachePrefix:  prefix,
	}
}

func (r *BunRepository) Create(ctx context.Context, record *records.Record) (*records.Record, error) {
	created, err := r.repo.Create(ctx, record)
	if err != nil {
		return nil, err
	}
	return created, r.InvalidateCache(ctx)
}

func (r *BunRepository) GetByID(ctx context.Context, id uuid.UUID) (*records.Record, error) {
	record, err := r.repo.GetByID(ctx, id.String())
	if err != nil {
		return nil, mapRepositoryError(err, "record", id.String())
	}
	return record, nil
}

func (r *BunRepository) GetByName(ctx context.Context, contentType, scope, name string) (*records.Record, error) {
	found, _, err := r.repo.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("?TableAlias.content_type = ?", contentType).
				Where("?TableAlias.scope = ?", scope).
				Where("?TableAlias.name = ?", name)
		}),
		repository.SelectPaginate(1, 0),
	)
	if err != nil {
		return nil, mapRepositoryError(err, "record", name)
	}
	if len(found) == 0 {
		return nil, &NotFoundError{Resource: "record", Key: name}
	}
	return found[0], nil
}

func (r *BunRepository) List(ctx context.Context, contentType, scope string) ([]*records.Record, error) {
	found, _, err := r.repo.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("?TableAlias.content_type = ?", contentType).
				Where("?TableAlias.scope = ?", scope).
				OrderExpr("?TableAlias.name ASC")
		}),
	)
	return found, err
}

func (r *BunRepository) Update(ctx context.Context, record *records.Record) (*records.Record, error) {
	updated, err := r.repo.Update(ctx, record)
	if err != nil {
		return nil, mapRepositoryError(err, "record", record.ID.String())
	}
	return updated, r.InvalidateCache(ctx)
}

func (r *BunRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if err := r.repo.Delete(ctx, &records.Record{ID: id}); err != nil {
		return mapRepositoryError(err, "record", id.String())
	}
	return r.InvalidateCache(ctx)
}

// InvalidateCache drops cached reads after a mutation.
func (r *BunRepository) InvalidateCache(ctx context.Context) error {
	if r.cacheService == nil || r.cachePrefix == "" {
		return nil
	}
	return r.cacheService.DeleteByPrefix(ctx, r.cachePrefix)
}

func mapRepositoryError(err error, resource, key string) error {
	if err == nil {
		return nil
	}
	if goerrors.IsCategory(err, repository.CategoryDatabaseNotFound) {
		return &NotFoundError{
			Resource: resource,
			Key:      key,
		}
	}
	return fmt.Errorf("%s repository error: %w", resource, err)
}

func cachePrefix(namespace string) string {
	if namespace == "" {
		return ""
	}
	return namespace + cache.KeySeparator
}
