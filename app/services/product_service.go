package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/datatypes"

	"github.com/aircon-store/storefront/app/models"
	"github.com/aircon-store/storefront/app/repositories"
	"github.com/aircon-store/storefront/pkg/batch"
	"github.com/aircon-store/storefront/pkg/metrics"
	"github.com/aircon-store/storefront/pkg/orm"
	"github.com/aircon-store/storefront/pkg/slug"
	"github.com/aircon-store/storefront/pkg/validate"
)

// ProductInput is the full editable shape of a product.
type ProductInput struct {
	Name           string       `json:"name" validate:"required,max=255"`
	Description    string       `json:"description"`
	Price          *int64       `json:"price" validate:"gte=0"`
	OriginalPrice  *int64       `json:"originalPrice" validate:"nullable,gte=0"`
	Brand          string       `json:"brand" validate:"required,max=100"`
	Horsepower     string       `json:"horsepower" validate:"required,max=20"`
	Inverter       bool         `json:"inverter"`
	Images         []string     `json:"images"`
	Specifications models.Specs `json:"specifications"`
	Benefits       []string     `json:"benefits"`
	Status         string       `json:"status" validate:"nullable,in=active|inactive|out_of_stock"`
	Featured       bool         `json:"featured"`
	// KeepSlug holds the current slug across a rename.
	KeepSlug bool `json:"keepSlug"`
}

func (in *ProductInput) validate() error {
	errs := map[string]string{}
	if err := check(in, ""); err != nil {
		errs = err.(*ValidationError).Fields
	}
	if in.Price == nil {
		errs["price"] = "The price field is required."
	}
	if len(errs) > 0 {
		return invalid("", errs)
	}
	if slug.Make(in.Name) == "" {
		return invalid("", map[string]string{"name": "The name must contain letters or digits."})
	}
	return nil
}

func (in *ProductInput) apply(p *models.Product) {
	p.Name = strings.TrimSpace(in.Name)
	p.Description = in.Description
	p.Price = *in.Price
	p.OriginalPrice = in.OriginalPrice
	p.Brand = strings.TrimSpace(in.Brand)
	p.Horsepower = strings.TrimSpace(in.Horsepower)
	p.Inverter = in.Inverter
	p.Images = datatypes.JSONSlice[string](compact(in.Images))
	p.Benefits = datatypes.JSONSlice[string](compact(in.Benefits))
	specs := make(models.Specs, 0, len(in.Specifications))
	for _, sp := range in.Specifications {
		if k := strings.TrimSpace(sp.Key); k != "" {
			specs = specs.Set(k, strings.TrimSpace(sp.Value))
		}
	}
	p.Specifications = specs
	p.Featured = in.Featured
	if in.Status != "" {
		p.Status = in.Status
	}
	p.Normalize()
}

func compact(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// ProductPatch is the quick-edit shape: only status and featured.
type ProductPatch struct {
	Status   *string `json:"status,omitempty" validate:"nullable,in=active|inactive|out_of_stock"`
	Featured *bool   `json:"featured,omitempty"`
}

// Empty reports whether the patch changes nothing.
func (p ProductPatch) Empty() bool { return p.Status == nil && p.Featured == nil }

// check validates the patch. A status that is present must name one of the
// known states; blank is not a way to clear it.
func (p ProductPatch) check() error {
	errs := validate.Struct(p)
	if p.Status != nil && strings.TrimSpace(*p.Status) == "" {
		errs["status"] = "The selected status is invalid."
	}
	if validate.HasErrors(errs) {
		return invalid("", errs)
	}
	return nil
}

func (p ProductPatch) values() map[string]interface{} {
	v := map[string]interface{}{}
	if p.Status != nil {
		v["status"] = *p.Status
	}
	if p.Featured != nil {
		v["featured"] = *p.Featured
	}
	return v
}

// ProductService resolves single products and runs the admin mutations.
type ProductService struct {
	products *repositories.ProductRepository
	workers  int
}

func NewProductService(products *repositories.ProductRepository, batchWorkers int) *ProductService {
	if batchWorkers <= 0 {
		batchWorkers = 1
	}
	return &ProductService{products: products, workers: batchWorkers}
}

// Resolve looks idOrSlug up as an id first, then as a slug, regardless of
// status.
func (s *ProductService) Resolve(ctx context.Context, idOrSlug string) (models.Product, error) {
	p, err := s.products.FindByID(ctx, idOrSlug)
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, repositories.ErrNotFound) {
		return models.Product{}, err
	}
	p, err = s.products.FindBySlug(ctx, idOrSlug, false)
	return p, notFound(err, "product", idOrSlug)
}

// BySlug finds an active product by slug. Inactive products are not found.
func (s *ProductService) BySlug(ctx context.Context, sl string) (models.Product, error) {
	p, err := s.products.FindBySlug(ctx, sl, true)
	return p, notFound(err, "product", sl)
}

// ByID finds a product by id regardless of status.
func (s *ProductService) ByID(ctx context.Context, id string) (models.Product, error) {
	p, err := s.products.FindByID(ctx, id)
	return p, notFound(err, "product", id)
}

// List pages through every product for the back office.
func (s *ProductService) List(ctx context.Context, page, limit int, status, search string) ([]models.Product, orm.Pagination, error) {
	return s.products.All(ctx, page, limit, status, strings.TrimSpace(search))
}

func (s *ProductService) uniqueSlug(ctx context.Context, name, exceptID string) (string, error) {
	return slug.Unique(slug.Make(name), func(candidate string) (bool, error) {
		return s.products.SlugTaken(ctx, candidate, exceptID)
	})
}

func (s *ProductService) Create(ctx context.Context, in ProductInput) (models.Product, error) {
	if err := in.validate(); err != nil {
		return models.Product{}, err
	}
	var p models.Product
	in.apply(&p)
	if p.Status == "" {
		p.Status = models.StatusActive
	}

	sl, err := s.uniqueSlug(ctx, p.Name, "")
	if err != nil {
		return models.Product{}, fmt.Errorf("product slug: %w", err)
	}
	p.Slug = sl

	if err := s.products.Create(ctx, &p); err != nil {
		return models.Product{}, fmt.Errorf("create product: %w", err)
	}
	return p, nil
}

// Update replaces every editable field. The slug follows the name unless
// KeepSlug is set.
func (s *ProductService) Update(ctx context.Context, id string, in ProductInput) (models.Product, error) {
	if err := in.validate(); err != nil {
		return models.Product{}, err
	}
	p, err := s.ByID(ctx, id)
	if err != nil {
		return models.Product{}, err
	}

	renamed := strings.TrimSpace(in.Name) != p.Name
	in.apply(&p)
	if renamed && !in.KeepSlug {
		sl, err := s.uniqueSlug(ctx, p.Name, p.ID)
		if err != nil {
			return models.Product{}, fmt.Errorf("product slug: %w", err)
		}
		p.Slug = sl
	}

	if err := s.products.Save(ctx, &p); err != nil {
		return models.Product{}, fmt.Errorf("update product: %w", err)
	}
	return p, nil
}

// Patch applies a quick edit and returns the updated product.
func (s *ProductService) Patch(ctx context.Context, id string, patch ProductPatch) (models.Product, error) {
	if err := patch.check(); err != nil {
		return models.Product{}, err
	}
	if !patch.Empty() {
		if err := s.products.Patch(ctx, id, patch.values()); err != nil {
			return models.Product{}, notFound(err, "product", id)
		}
	}
	return s.ByID(ctx, id)
}

// BatchPatch fires one Patch per entry concurrently. Rows succeed or fail
// independently.
func (s *ProductService) BatchPatch(ctx context.Context, patches map[string]ProductPatch) batch.Result {
	res := batch.Run(ctx, s.workers, patches, func(ctx context.Context, id string, p ProductPatch) error {
		_, err := s.Patch(ctx, id, p)
		return err
	})
	metrics.BatchPatches.WithLabelValues("succeeded").Add(float64(len(res.Succeeded)))
	metrics.BatchPatches.WithLabelValues("failed").Add(float64(len(res.Failed)))
	return res
}

func (s *ProductService) Delete(ctx context.Context, id string) error {
	return notFound(s.products.Delete(ctx, id), "product", id)
}
