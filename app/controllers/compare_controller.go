package controllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/aircon-store/storefront/app/services"
	"github.com/aircon-store/storefront/pkg/compare"
	"github.com/aircon-store/storefront/pkg/ctx"
)

// CompareController owns the visitor's comparison list. The cookie is the
// only place the list is written; share URLs are read-only snapshots.
type CompareController struct {
	compare *services.CompareService
	store   *compare.CookieStore
}

func NewCompareController(svc *services.CompareService, store *compare.CookieStore) *CompareController {
	return &CompareController{compare: svc, store: store}
}

type selectionView struct {
	Items    []compare.Item `json:"items"`
	Count    int            `json:"count"`
	Max      int            `json:"max"`
	ShareURL string         `json:"shareUrl"`
}

func viewOf(sel *compare.Selection) selectionView {
	return selectionView{Items: sel.Items(), Count: sel.Len(), Max: compare.MaxItems, ShareURL: sel.ShareURL()}
}

// save persists sel; it must run before the body is written.
func (cc *CompareController) save(c *ctx.Context, sel *compare.Selection) bool {
	if err := cc.store.Save(c.W, sel); err != nil {
		fail(c, err)
		return false
	}
	return true
}

// Show handles GET /api/compare.
func (cc *CompareController) Show(c *ctx.Context) {
	c.Success(viewOf(cc.store.Load(c.R)))
}

// Add handles POST /api/compare/items {"id": "..."}.
func (cc *CompareController) Add(c *ctx.Context) {
	var body struct {
		ID string `json:"id"`
	}
	if !c.DecodeJSON(&body) {
		return
	}
	id := strings.TrimSpace(body.ID)
	if id == "" {
		c.ValidationError("The id field is required.", map[string]string{"id": "The id field is required."})
		return
	}

	sel := cc.store.Load(c.R)
	_, err := cc.compare.Add(c.Context(), sel, id)
	switch {
	case errors.Is(err, compare.ErrDuplicate):
		c.JSON(http.StatusOK, envelope(http.StatusOK, err.Error(), viewOf(sel)))
	case errors.Is(err, compare.ErrFull):
		c.JSON(http.StatusConflict, envelope(http.StatusConflict, err.Error(), viewOf(sel)))
	case err != nil:
		fail(c, err)
	default:
		if cc.save(c, sel) {
			c.Success(viewOf(sel))
		}
	}
}

// Remove handles DELETE /api/compare/items/{id}. Removing an id that is not
// in the list changes nothing.
func (cc *CompareController) Remove(c *ctx.Context) {
	sel := cc.store.Load(c.R)
	if sel.Remove(c.Param("id")) && !cc.save(c, sel) {
		return
	}
	c.Success(viewOf(sel))
}

// Clear handles DELETE /api/compare.
func (cc *CompareController) Clear(c *ctx.Context) {
	sel := cc.store.Load(c.R)
	sel.Clear()
	if cc.save(c, sel) {
		c.Success(viewOf(sel))
	}
}

// Matrix handles GET /api/compare/matrix. ids in the query win over the
// stored list and are never written back.
func (cc *CompareController) Matrix(c *ctx.Context) {
	ids := compare.ParseIDs(c.Query("ids"))
	if len(ids) == 0 {
		ids = cc.store.Load(c.R).IDs()
	}
	m, err := cc.compare.Matrix(c.Context(), ids)
	if err != nil {
		fail(c, err)
		return
	}
	c.Success(m)
}
