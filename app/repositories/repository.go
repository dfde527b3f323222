// Package repositories wraps every table behind a small typed API. Reads
// always hit the database; nothing is cached in process.
package repositories

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/aircon-store/storefront/app/models"
	"github.com/aircon-store/storefront/pkg/orm"
)

// ErrNotFound is returned when a lookup matches no row.
var ErrNotFound = orm.ErrNotFound

// table is the shared by-id CRUD for models keyed by a string "id".
type table[T any] struct {
	db *gorm.DB
}

func (t table[T]) q(ctx context.Context) *orm.Query {
	return orm.Use(t.db).WithContext(ctx)
}

func (t table[T]) find(ctx context.Context, id string) (T, error) {
	var v T
	err := t.q(ctx).Model(new(T)).Where("id = ?", id).First(&v)
	return v, err
}

func (t table[T]) create(ctx context.Context, v *T) error {
	return t.q(ctx).Create(v)
}

func (t table[T]) save(ctx context.Context, v *T) error {
	return t.q(ctx).Save(v)
}

func (t table[T]) delete(ctx context.Context, id string) error {
	n, err := t.q(ctx).Where("id = ?", id).Delete(new(T))
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (t table[T]) exists(ctx context.Context, column, value, exceptID string) (bool, error) {
	q := t.q(ctx).Model(new(T)).Where(column+" = ?", value)
	if exceptID != "" {
		q = q.Where("id <> ?", exceptID)
	}
	return q.Exists()
}

// likePattern builds a folded substring pattern for LIKE ... ESCAPE '!',
// matched against the models.FoldSearch columns.
func likePattern(s string) string {
	r := strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")
	return "%" + r.Replace(models.FoldSearch(s)) + "%"
}
