package repositories

import (
	"context"
	"encoding/base64"
	"errors"
	"strconv"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/aircon-store/storefront/app/models"
	"github.com/aircon-store/storefront/pkg/orm"
)

// ProductFilter narrows the public catalogue. Nil and empty fields are
// ignored; set fields are ANDed.
type ProductFilter struct {
	Brand      string
	Horsepower string
	Inverter   *bool
	MinPrice   *int64
	MaxPrice   *int64
	Search     string
	IDs        []string
	Limit      int
	Cursor     *Cursor
}

// Cursor marks the last row of a page in created_at DESC, id DESC order.
type Cursor struct {
	CreatedAt time.Time
	ID        string
}

var ErrBadCursor = errors.New("repositories: malformed cursor")

func (c Cursor) Encode() string {
	raw := strconv.FormatInt(c.CreatedAt.UnixNano(), 10) + "|" + c.ID
	return base64.RawURLEncoding.EncodeToString([]byte(raw))
}

func DecodeCursor(s string) (Cursor, error) {
	raw, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil {
		return Cursor{}, ErrBadCursor
	}
	ts, id, ok := strings.Cut(string(raw), "|")
	if !ok || id == "" {
		return Cursor{}, ErrBadCursor
	}
	ns, err := strconv.ParseInt(ts, 10, 64)
	if err != nil {
		return Cursor{}, ErrBadCursor
	}
	return Cursor{CreatedAt: time.Unix(0, ns).UTC(), ID: id}, nil
}

// ProductRepository reads and writes products.
type ProductRepository struct {
	table[models.Product]
}

func NewProductRepository(db *gorm.DB) *ProductRepository {
	return &ProductRepository{table[models.Product]{db: db}}
}

func activeOnly(db *gorm.DB) *gorm.DB {
	return db.Where("status = ?", models.StatusActive)
}

func newestFirst(db *gorm.DB) *gorm.DB {
	return db.Order("created_at DESC").Order("id DESC")
}

func (f ProductFilter) scope(db *gorm.DB) *gorm.DB {
	if f.Brand != "" {
		db = db.Where("brand = ?", f.Brand)
	}
	if f.Horsepower != "" {
		db = db.Where("horsepower = ?", f.Horsepower)
	}
	if f.Inverter != nil {
		db = db.Where("inverter = ?", *f.Inverter)
	}
	if f.MinPrice != nil {
		db = db.Where("price >= ?", *f.MinPrice)
	}
	if f.MaxPrice != nil {
		db = db.Where("price <= ?", *f.MaxPrice)
	}
	if f.Search != "" {
		p := likePattern(f.Search)
		db = db.Where("(search_name LIKE ? ESCAPE '!' OR search_text LIKE ? ESCAPE '!')", p, p)
	}
	if len(f.IDs) > 0 {
		db = db.Where("id IN ?", f.IDs)
	}
	if f.Cursor != nil {
		db = db.Where("(created_at < ? OR (created_at = ? AND id < ?))",
			f.Cursor.CreatedAt, f.Cursor.CreatedAt, f.Cursor.ID)
	}
	return db
}

// Active lists active products matching f, newest first. When f.Limit is
// set at most Limit rows are returned.
func (r *ProductRepository) Active(ctx context.Context, f ProductFilter) ([]models.Product, error) {
	q := r.q(ctx).Model(&models.Product{}).Scopes(activeOnly, f.scope, newestFirst)
	if f.Limit > 0 {
		q = q.Limit(f.Limit)
	}
	out := []models.Product{}
	err := q.Get(&out)
	return out, err
}

// Featured lists active featured products, newest first.
func (r *ProductRepository) Featured(ctx context.Context, limit int) ([]models.Product, error) {
	out := []models.Product{}
	err := r.q(ctx).Model(&models.Product{}).
		Scopes(activeOnly, newestFirst).
		Where("featured = ?", true).
		Limit(limit).
		Get(&out)
	return out, err
}

// All pages through every product regardless of status.
func (r *ProductRepository) All(ctx context.Context, page, limit int, status, search string) ([]models.Product, orm.Pagination, error) {
	q := r.q(ctx).Model(&models.Product{}).Scopes(newestFirst)
	if status != "" {
		q = q.Where("status = ?", status)
	}
	if search != "" {
		p := likePattern(search)
		q = q.Where("(search_name LIKE ? ESCAPE '!' OR slug LIKE ? ESCAPE '!')", p, p)
	}
	out := []models.Product{}
	pg, err := q.GetWithPagination(&out, page, limit)
	return out, pg, err
}

func (r *ProductRepository) FindByID(ctx context.Context, id string) (models.Product, error) {
	return r.find(ctx, id)
}

// FindBySlug looks a product up by slug. With active set, non-active
// products are reported as not found.
func (r *ProductRepository) FindBySlug(ctx context.Context, slug string, active bool) (models.Product, error) {
	q := r.q(ctx).Model(&models.Product{}).Where("slug = ?", slug)
	if active {
		q = q.Scopes(activeOnly)
	}
	var p models.Product
	err := q.First(&p)
	return p, err
}

// FindActiveByIDs returns the active products among ids, in the order of
// ids.
func (r *ProductRepository) FindActiveByIDs(ctx context.Context, ids []string) ([]models.Product, error) {
	if len(ids) == 0 {
		return []models.Product{}, nil
	}
	var rows []models.Product
	if err := r.q(ctx).Model(&models.Product{}).Scopes(activeOnly).Where("id IN ?", ids).Get(&rows); err != nil {
		return nil, err
	}
	byID := make(map[string]models.Product, len(rows))
	for _, p := range rows {
		byID[p.ID] = p
	}
	out := make([]models.Product, 0, len(rows))
	for _, id := range ids {
		if p, ok := byID[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

// DistinctActive returns the sorted distinct values of column across active
// products.
func (r *ProductRepository) DistinctActive(ctx context.Context, column string) ([]string, error) {
	out := []string{}
	err := r.q(ctx).Model(&models.Product{}).Scopes(activeOnly).Pluck(column, &out)
	return out, err
}

func (r *ProductRepository) SlugTaken(ctx context.Context, slug, exceptID string) (bool, error) {
	return r.exists(ctx, "slug", slug, exceptID)
}

func (r *ProductRepository) Create(ctx context.Context, p *models.Product) error {
	return r.create(ctx, p)
}

func (r *ProductRepository) Save(ctx context.Context, p *models.Product) error {
	return r.save(ctx, p)
}

// Patch updates the given columns of one product.
func (r *ProductRepository) Patch(ctx context.Context, id string, values map[string]interface{}) error {
	if _, err := r.find(ctx, id); err != nil {
		return err
	}
	_, err := r.q(ctx).Model(&models.Product{}).Where("id = ?", id).Updates(values)
	return err
}

func (r *ProductRepository) Delete(ctx context.Context, id string) error {
	return r.delete(ctx, id)
}
