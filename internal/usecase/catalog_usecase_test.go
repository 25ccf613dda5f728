package usecase_test

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"storefront/internal/catalog"
	"storefront/internal/domain/model"
	infraRepo "storefront/internal/infra/repository"
	repo "storefront/internal/repository"
	"storefront/internal/usecase"
)

// =====================
// Mocks
// =====================

type CategoryRepoMock struct{ mock.Mock }

func (m *CategoryRepoMock) ListActiveWithCounts(ctx context.Context) ([]model.CategoryWithCount, error) {
	args := m.Called(ctx)
	items, _ := args.Get(0).([]model.CategoryWithCount)
	return items, args.Error(1)
}

func (m *CategoryRepoMock) FindActiveBySlug(ctx context.Context, slug string) (model.Category, error) {
	args := m.Called(ctx, slug)
	c, _ := args.Get(0).(model.Category)
	return c, args.Error(1)
}

type BrandRepoMock struct{ mock.Mock }

func (m *BrandRepoMock) ListActive(ctx context.Context) ([]model.Brand, error) {
	args := m.Called(ctx)
	items, _ := args.Get(0).([]model.Brand)
	return items, args.Error(1)
}

func (m *BrandRepoMock) ListActiveByCategory(ctx context.Context, categoryID int64) ([]model.Brand, error) {
	args := m.Called(ctx, categoryID)
	items, _ := args.Get(0).([]model.Brand)
	return items, args.Error(1)
}

func i64(v int64) *int64 { return &v }

// 価格がid×10の公開商品をn件作る。
func seedProducts(n int) []model.Product {
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

func newCatalogUsecase(products []model.Product) (*usecase.CatalogUsecase, *CategoryRepoMock, *BrandRepoMock) {
	cRepo := new(CategoryRepoMock)
	bRepo := new(BrandRepoMock)
	pRepo := infraRepo.NewProductMemoryRepository(products...)
	return usecase.NewCatalogUsecase(pRepo, cRepo, bRepo), cRepo, bRepo
}

// =====================
// ListProducts
// =====================

func TestListProducts_SecondPagePriceLow(t *testing.T) {
	ctx := context.Background()
	uc, cRepo, bRepo := newCatalogUsecase(seedProducts(25))

	cRepo.On("ListActiveWithCounts", mock.Anything).Return([]model.CategoryWithCount{}, nil)
	bRepo.On("ListActive", mock.Anything).Return([]model.Brand{}, nil)

	values := url.Values{"sort": {"price_low"}, "page": {"2"}}
	out, err := uc.ListProducts(ctx, values)
	assert.NoError(t, err)

	assert.Equal(t, 2, out.Page.Number)
	assert.Equal(t, 25, out.Page.TotalItems)
	assert.Equal(t, 3, out.Page.TotalPages)
	assert.Equal(t, catalog.SortPriceLow, out.Sort)

	//2ページ目は13〜24番目（価格昇順＝ID昇順）
	assert.Len(t, out.Items, 12)
	assert.Equal(t, int64(13), out.Items[0].ID)
	assert.Equal(t, int64(24), out.Items[11].ID)

	//価格帯は全公開商品のmin/max
	assert.True(t, out.PriceRange.Min.Equal(decimal.NewFromInt(10)))
	assert.True(t, out.PriceRange.Max.Equal(decimal.NewFromInt(250)))
}

func TestListProducts_InvalidPageFallsBackToFirst(t *testing.T) {
	ctx := context.Background()
	uc, cRepo, bRepo := newCatalogUsecase(seedProducts(25))

	cRepo.On("ListActiveWithCounts", mock.Anything).Return([]model.CategoryWithCount{}, nil)
	bRepo.On("ListActive", mock.Anything).Return([]model.Brand{}, nil)

	out, err := uc.ListProducts(ctx, url.Values{"page": {"abc"}})
	assert.NoError(t, err)
	assert.Equal(t, 1, out.Page.Number)
	assert.Len(t, out.Items, 12)
}

func TestListProducts_SearchWithNoResultsReturnsNotice(t *testing.T) {
	ctx := context.Background()
	uc, cRepo, bRepo := newCatalogUsecase(seedProducts(5))

	cRepo.On("ListActiveWithCounts", mock.Anything).Return([]model.CategoryWithCount{}, nil)
	bRepo.On("ListActive", mock.Anything).Return([]model.Brand{}, nil)

	out, err := uc.ListProducts(ctx, url.Values{"q": {"zzz-nothing"}})
	assert.NoError(t, err)
	assert.Empty(t, out.Items)
	assert.Contains(t, out.Notice, "zzz-nothing")

	//検索語なしの0件はお知らせなし
	uc2, cRepo2, bRepo2 := newCatalogUsecase(nil)
	cRepo2.On("ListActiveWithCounts", mock.Anything).Return([]model.CategoryWithCount{}, nil)
	bRepo2.On("ListActive", mock.Anything).Return([]model.Brand{}, nil)

	out2, err := uc2.ListProducts(ctx, url.Values{})
	assert.NoError(t, err)
	assert.Empty(t, out2.Notice)
}

// =====================
// ProductDetail
// =====================

func TestProductDetail_InactiveIsNotFound(t *testing.T) {
	products := seedProducts(2)
	products[1].IsActive = false

	uc, _, _ := newCatalogUsecase(products)

	_, err := uc.ProductDetail(context.Background(), 2)
	assertHTTPError(t, err, http.StatusNotFound, "not found")
}

func TestProductDetail_UnknownIDIsNotFound(t *testing.T) {
	uc, _, _ := newCatalogUsecase(seedProducts(1))

	_, err := uc.ProductDetail(context.Background(), 99)
	assertHTTPError(t, err, http.StatusNotFound, "not found")
}

func TestProductDetail_SavingsOnlyWhenOnSale(t *testing.T) {
	products := seedProducts(2)
	sale := decimal.NewFromInt(15)
	products[1].SalePrice = &sale // 通常20

	uc, _, _ := newCatalogUsecase(products)

	out, err := uc.ProductDetail(context.Background(), 2)
	assert.NoError(t, err)
	if assert.NotNil(t, out.Savings) {
		assert.True(t, out.Savings.Equal(decimal.NewFromInt(5)))
	}

	out, err = uc.ProductDetail(context.Background(), 1)
	assert.NoError(t, err)
	assert.Nil(t, out.Savings)
}

func TestProductDetail_RelatedExcludesSelfAndOtherCategories(t *testing.T) {
	products := seedProducts(6)
	products[4].CategoryID = i64(2) // ID5は別カテゴリ
	products[5].IsActive = false    // ID6は非公開

	uc, _, _ := newCatalogUsecase(products)

	out, err := uc.ProductDetail(context.Background(), 1)
	assert.NoError(t, err)

	ids := make([]int64, 0, len(out.Related))
	for _, p := range out.Related {
		ids = append(ids, p.ID)
	}
	assert.NotContains(t, ids, int64(1))
	assert.NotContains(t, ids, int64(5))
	assert.NotContains(t, ids, int64(6))
	assert.LessOrEqual(t, len(ids), 4)
}

// =====================
// Categories
// =====================

func TestListCategories(t *testing.T) {
	uc, cRepo, _ := newCatalogUsecase(nil)

	want := []model.CategoryWithCount{
		{Category: model.Category{ID: 1, Name: "Kitchen", Slug: "kitchen", IsActive: true}, ProductCount: 3},
	}
	cRepo.On("ListActiveWithCounts", mock.Anything).Return(want, nil)

	got, err := uc.ListCategories(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestCategoryDetail_UnknownSlug(t *testing.T) {
	uc, cRepo, _ := newCatalogUsecase(nil)
	cRepo.On("FindActiveBySlug", mock.Anything, "nope").Return(model.Category{}, repo.ErrNotFound)

	_, err := uc.CategoryDetail(context.Background(), "nope", url.Values{})
	assertHTTPError(t, err, http.StatusNotFound, "not found")
}

// カテゴリ詳細ではqとcategoryパラメータを無視してカテゴリ固定になる
func TestCategoryDetail_PinsCategoryAndIgnoresSearch(t *testing.T) {
	products := seedProducts(4)
	products[2].CategoryID = i64(2)
	products[3].CategoryID = i64(2)

	uc, cRepo, bRepo := newCatalogUsecase(products)

	c := model.Category{ID: 2, Name: "Office", Slug: "office", IsActive: true}
	cRepo.On("FindActiveBySlug", mock.Anything, "office").Return(c, nil)
	bRepo.On("ListActiveByCategory", mock.Anything, int64(2)).Return([]model.Brand{}, nil)

	values := url.Values{
		"q":        {"Product 001"}, // 無視される
		"category": {"1"},           // 無視される
	}
	out, err := uc.CategoryDetail(context.Background(), "office", values)
	assert.NoError(t, err)

	assert.Equal(t, c, out.Category)
	assert.Len(t, out.Items, 2)
	for _, p := range out.Items {
		assert.Equal(t, int64(2), *p.CategoryID)
	}

	//価格帯もカテゴリ内に絞られる（30,40）
	assert.True(t, out.PriceRange.Min.Equal(decimal.NewFromInt(30)))
	assert.True(t, out.PriceRange.Max.Equal(decimal.NewFromInt(40)))
}
