// Package repository translates typed CRUD intents into gorm queries.
//
// Absence is never an error: Get style methods return (nil, nil) and Delete
// returns false when no row matched. Callers decide whether absence matters.
package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/vigil-vms/vigil/internal/pagination"
)

var (
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
	// ErrUnknownColumn is returned by GetByAttribute for a column the entity does not have.
	ErrUnknownColumn = errors.New("unknown column")
)

// Entity is the capability set shared by every persisted model.
type Entity interface {
	TableName() string
}

// Filters are equality conditions keyed by column name.
// Keys that are not columns of the entity are ignored.
type Filters map[string]any

// Repository implements generic CRUD for one entity kind.
type Repository[T Entity] struct {
	db *gorm.DB
}

// New returns a repository bound to db.
func New[T Entity](db *gorm.DB) Repository[T] {
	return Repository[T]{db: db}
}

// WithTx returns a copy bound to a transaction.
func (r Repository[T]) WithTx(tx *gorm.DB) Repository[T] {
	return Repository[T]{db: tx}
}

func (r Repository[T]) conn(ctx context.Context) (*gorm.DB, error) {
	if r.db == nil {
		return nil, ErrDBNil
	}

	return r.db.WithContext(ctx), nil
}

// columns returns the set of database column names of T.
func (r Repository[T]) columns() (map[string]struct{}, error) {
	if r.db == nil {
		return nil, ErrDBNil
	}

	stmt := &gorm.Statement{DB: r.db}
	if err := stmt.Parse(new(T)); err != nil {
		return nil, fmt.Errorf("parse schema of %s: %w", (*new(T)).TableName(), err)
	}

	cols := make(map[string]struct{}, len(stmt.Schema.DBNames))
	for _, name := range stmt.Schema.DBNames {
		cols[name] = struct{}{}
	}

	return cols, nil
}

// where applies the known filters to db.
func (r Repository[T]) where(db *gorm.DB, filters Filters) (*gorm.DB, error) {
	if len(filters) == 0 {
		return db, nil
	}

	cols, err := r.columns()
	if err != nil {
		return nil, err
	}

	exprs := make([]clause.Expression, 0, len(filters))
	for name, value := range filters {
		if _, ok := cols[name]; !ok {
			continue
		}

		exprs = append(exprs, clause.Eq{
			Column: clause.Column{Table: clause.CurrentTable, Name: name},
			Value:  value,
		})
	}

	if len(exprs) == 0 {
		return db, nil
	}

	return db.Clauses(clause.Where{Exprs: exprs}), nil
}

func first[T Entity](db *gorm.DB, conds ...any) (*T, error) {
	var entity T
	if err := db.First(&entity, conds...).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil //nolint:nilnil
		}

		return nil, err
	}

	return &entity, nil
}

func preload(db *gorm.DB, relations []string) *gorm.DB {
	for _, rel := range relations {
		db = db.Preload(rel)
	}

	return db
}

// Get returns the entity with the given id or nil.
func (r Repository[T]) Get(ctx context.Context, id uint, relations ...string) (*T, error) {
	db, err := r.conn(ctx)
	if err != nil {
		return nil, err
	}

	return first[T](preload(db, relations), id)
}

// GetByAttribute returns the first entity whose column equals value or nil.
func (r Repository[T]) GetByAttribute(ctx context.Context, column string, value any) (*T, error) {
	db, err := r.conn(ctx)
	if err != nil {
		return nil, err
	}

	cols, err := r.columns()
	if err != nil {
		return nil, err
	}

	if _, ok := cols[column]; !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownColumn, column)
	}

	return first[T](db.Where(clause.Eq{
		Column: clause.Column{Table: clause.CurrentTable, Name: column},
		Value:  value,
	}).Order(clause.OrderByColumn{Column: clause.Column{Table: clause.CurrentTable, Name: "id"}}))
}

// List returns a page of entities matching filters in insertion order.
func (r Repository[T]) List(ctx context.Context, p pagination.Params, filters Filters, relations ...string) ([]T, error) {
	return r.list(ctx, p, filters, "id", relations...)
}

// ListOrdered is List with an explicit ORDER BY expression.
func (r Repository[T]) ListOrdered(ctx context.Context, p pagination.Params, filters Filters, order string, relations ...string) ([]T, error) {
	return r.list(ctx, p, filters, order, relations...)
}

func (r Repository[T]) list(ctx context.Context, p pagination.Params, filters Filters, order string, relations ...string) ([]T, error) {
	db, err := r.conn(ctx)
	if err != nil {
		return nil, err
	}

	db, err = r.where(db.Model(new(T)), filters)
	if err != nil {
		return nil, err
	}

	p = p.Normalize()

	var items []T
	err = preload(db, relations).
		Order(order).
		Offset(p.Skip).
		Limit(p.Limit).
		Find(&items).Error

	return items, err
}

// Count returns the number of entities matching filters.
func (r Repository[T]) Count(ctx context.Context, filters Filters) (int64, error) {
	db, err := r.conn(ctx)
	if err != nil {
		return 0, err
	}

	db, err = r.where(db.Model(new(T)), filters)
	if err != nil {
		return 0, err
	}

	var total int64
	err = db.Count(&total).Error

	return total, err
}

// Create persists entity and fills its id and timestamps.
// Associations set on entity are not written.
func (r Repository[T]) Create(ctx context.Context, entity *T) error {
	db, err := r.conn(ctx)
	if err != nil {
		return err
	}

	return db.Omit(clause.Associations).Create(entity).Error
}

// Update writes only the supplied columns and reloads entity.
// Keys that are not columns are dropped, time values lose their zone.
func (r Repository[T]) Update(ctx context.Context, entity *T, changes map[string]any) error {
	db, err := r.conn(ctx)
	if err != nil {
		return err
	}

	cols, err := r.columns()
	if err != nil {
		return err
	}

	clean := make(map[string]any, len(changes))
	for name, value := range changes {
		if _, ok := cols[name]; !ok || name == "id" || name == "created_at" {
			continue
		}

		clean[name] = naiveValue(value)
	}

	if len(clean) == 0 {
		return nil
	}

	if err = db.Model(entity).Omit(clause.Associations).Updates(clean).Error; err != nil {
		return err
	}

	return db.First(entity).Error
}

// UpdateByID loads the entity and applies Update. It returns nil when absent.
func (r Repository[T]) UpdateByID(ctx context.Context, id uint, changes map[string]any) (*T, error) {
	entity, err := r.Get(ctx, id)
	if err != nil || entity == nil {
		return nil, err
	}

	if err = r.Update(ctx, entity, changes); err != nil {
		return nil, err
	}

	return entity, nil
}

// Delete removes the entity physically and reports whether a row was removed.
func (r Repository[T]) Delete(ctx context.Context, id uint) (bool, error) {
	db, err := r.conn(ctx)
	if err != nil {
		return false, err
	}

	res := db.Delete(new(T), id)
	if res.Error != nil {
		return false, res.Error
	}

	return res.RowsAffected > 0, nil
}

// Naive drops the zone of t and keeps its wall clock, labelled UTC.
func Naive(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC)
}

// NaivePtr is Naive for optional timestamps.
func NaivePtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}

	n := Naive(*t)

	return &n
}

func naiveValue(v any) any {
	switch t := v.(type) {
	case time.Time:
		return Naive(t)
	case *time.Time:
		return NaivePtr(t)
	default:
		return v
	}
}
