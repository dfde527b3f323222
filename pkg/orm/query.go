// Package orm is a thin query builder over gorm that times every terminal
// call into metrics.DBQueryDuration and translates not-found errors.
package orm

import (
	"context"
	"errors"
	"math"
	"time"

	"gorm.io/gorm"

	"github.com/aircon-store/storefront/pkg/database"
	"github.com/aircon-store/storefront/pkg/metrics"
)

// ErrNotFound is returned by First when no row matches.
var ErrNotFound = errors.New("orm: record not found")

type Query struct {
	db *gorm.DB
}

// DB starts a query on the global connection.
func DB() *Query {
	return &Query{db: database.DB}
}

// Use starts a query on db, typically a repository's connection or a
// transaction handle.
func Use(db *gorm.DB) *Query {
	return &Query{db: db}
}

func (q *Query) WithContext(ctx context.Context) *Query {
	return &Query{db: q.db.WithContext(ctx)}
}

func (q *Query) Model(v interface{}) *Query {
	return &Query{db: q.db.Model(v)}
}

func (q *Query) Where(query interface{}, args ...interface{}) *Query {
	return &Query{db: q.db.Where(query, args...)}
}

// Scopes applies gorm scopes, used for conditional filter fragments.
func (q *Query) Scopes(fns ...func(*gorm.DB) *gorm.DB) *Query {
	return &Query{db: q.db.Scopes(fns...)}
}

func (q *Query) Order(value interface{}) *Query {
	return &Query{db: q.db.Order(value)}
}

func (q *Query) Limit(n int) *Query {
	return &Query{db: q.db.Limit(n)}
}

func (q *Query) Get(dest interface{}) error {
	defer metrics.ObserveDBQuery("select", time.Now())
	return q.db.Find(dest).Error
}

func (q *Query) First(dest interface{}) error {
	defer metrics.ObserveDBQuery("select", time.Now())
	err := q.db.First(dest).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

// Pluck selects one column's distinct values into dest.
func (q *Query) Pluck(column string, dest interface{}) error {
	defer metrics.ObserveDBQuery("select", time.Now())
	return q.db.Distinct(column).Order(column+" ASC").Pluck(column, dest).Error
}

func (q *Query) Count() (int64, error) {
	defer metrics.ObserveDBQuery("select", time.Now())
	var n int64
	err := q.db.Session(&gorm.Session{}).Count(&n).Error
	return n, err
}

func (q *Query) Exists() (bool, error) {
	n, err := q.Limit(1).Count()
	return n > 0, err
}

func (q *Query) Create(v interface{}) error {
	defer metrics.ObserveDBQuery("insert", time.Now())
	return q.db.Create(v).Error
}

func (q *Query) Save(v interface{}) error {
	defer metrics.ObserveDBQuery("update", time.Now())
	return q.db.Save(v).Error
}

// Updates applies a column map to the model's row and reports whether a row
// matched.
func (q *Query) Updates(values map[string]interface{}) (int64, error) {
	defer metrics.ObserveDBQuery("update", time.Now())
	res := q.db.Updates(values)
	return res.RowsAffected, res.Error
}

// Delete removes matching rows and reports how many went.
func (q *Query) Delete(v interface{}) (int64, error) {
	defer metrics.ObserveDBQuery("delete", time.Now())
	res := q.db.Delete(v)
	return res.RowsAffected, res.Error
}

// Pagination describes one offset page of results.
type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
}

// GetWithPagination loads page (1-based) of at most limit rows into dest.
func (q *Query) GetWithPagination(dest interface{}, page, limit int) (Pagination, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	total, err := q.Count()
	if err != nil {
		return Pagination{}, err
	}

	p := Pagination{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: int(math.Ceil(float64(total) / float64(limit))),
	}

	defer metrics.ObserveDBQuery("select", time.Now())
	err = q.db.Offset((page - 1) * limit).Limit(limit).Find(dest).Error
	return p, err
}

// Transaction runs fn inside a database transaction on q's connection.
func (q *Query) Transaction(fn func(tx *Query) error) error {
	return q.db.Transaction(func(tx *gorm.DB) error {
		return fn(Use(tx))
	})
}

// Raw exposes the underlying handle for the rare query the builder cannot
// express.
func (q *Query) Raw() *gorm.DB {
	return q.db
}
