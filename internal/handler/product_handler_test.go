package handler_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"storefront/internal/domain/model"
	"storefront/internal/handler"
	infraRepo "storefront/internal/infra/repository"
	"storefront/internal/usecase"
)

// =====================
// Fakes（サイドバー用リポジトリ）
// =====================

type categoryRepoFake struct{}

func (f categoryRepoFake) ListActiveWithCounts(ctx context.Context) ([]model.CategoryWithCount, error) {
	return []model.CategoryWithCount{}, nil
}

func (f categoryRepoFake) FindActiveBySlug(ctx context.Context, slug string) (model.Category, error) {
	return model.Category{ID: 1, Name: "Kitchen", Slug: slug, IsActive: true}, nil
}

type brandRepoFake struct{}

func (f brandRepoFake) ListActive(ctx context.Context) ([]model.Brand, error) {
	return []model.Brand{}, nil
}

func (f brandRepoFake) ListActiveByCategory(ctx context.Context, categoryID int64) ([]model.Brand, error) {
	return []model.Brand{}, nil
}

func newCatalogServer(seed ...model.Product) *echo.Echo {
	pRepo := infraRepo.NewProductMemoryRepository(seed...)
	uc := usecase.NewCatalogUsecase(pRepo, categoryRepoFake{}, brandRepoFake{})

	e := echo.New()
	handler.NewProductHandler(uc).RegisterRoutes(e)
	return e
}

func seedCatalog(n int) []model.Product {
	out := make([]model.Product, 0, n)
	for i := 1; i <= n; i++ {
		out = append(out, model.Product{
			ID:         int64(i),
			Name:       fmt.Sprintf("Product %03d", i),
			SKU:        fmt.Sprintf("SKU-%03d", i),
			CategoryID: i64(1),
			Price:      decimal.NewFromInt(int64(i * 10)),
			Stock:      5,
			IsActive:   true,
		})
	}
	return out
}

// =====================
// GET /products
// =====================

func TestProductHandler_List_Pagination(t *testing.T) {
	e := newCatalogServer(seedCatalog(25)...)

	req := httptest.NewRequest(http.MethodGet, "/products?sort=price_low&page=2", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var out usecase.ProductListOutput
	assert.NoError(t, json.NewDecoder(rec.Body).Decode(&out))

	assert.Equal(t, 2, out.Page.Number)
	assert.Equal(t, 25, out.Page.TotalItems)
	assert.Equal(t, 3, out.Page.TotalPages)
	assert.Len(t, out.Items, 12)
	assert.Equal(t, int64(13), out.Items[0].ID)
}

func TestProductHandler_List_SearchNotice(t *testing.T) {
	e := newCatalogServer(seedCatalog(3)...)

	req := httptest.NewRequest(http.MethodGet, "/products?q=zzz-nothing", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "no products found for")
}

// =====================
// GET /products/:id
// =====================

func TestProductHandler_Detail_OK(t *testing.T) {
	e := newCatalogServer(seedCatalog(5)...)

	req := httptest.NewRequest(http.MethodGet, "/products/1", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var out usecase.ProductDetailOutput
	assert.NoError(t, json.NewDecoder(rec.Body).Decode(&out))
	assert.Equal(t, int64(1), out.Product.ID)
	assert.NotContains(t, relatedIDs(out), int64(1))
}

func relatedIDs(out usecase.ProductDetailOutput) []int64 {
	ids := make([]int64, 0, len(out.Related))
	for _, p := range out.Related {
		ids = append(ids, p.ID)
	}
	return ids
}

func TestProductHandler_Detail_InactiveIsNotFound(t *testing.T) {
	products := seedCatalog(2)
	products[1].IsActive = false
	e := newCatalogServer(products...)

	req := httptest.NewRequest(http.MethodGet, "/products/2", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestProductHandler_Detail_InvalidID(t *testing.T) {
	e := newCatalogServer(seedCatalog(1)...)

	req := httptest.NewRequest(http.MethodGet, "/products/abc", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// =====================
// GET /（注目商品）
// =====================

func TestProductHandler_Index_FeaturedOnly(t *testing.T) {
	products := seedCatalog(3)
	products[0].IsFeatured = true

	e := newCatalogServer(products...)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var out handler.IndexResponse
	assert.NoError(t, json.NewDecoder(rec.Body).Decode(&out))
	if assert.Len(t, out.FeaturedProducts, 1) {
		assert.Equal(t, int64(1), out.FeaturedProducts[0].ID)
	}
}
