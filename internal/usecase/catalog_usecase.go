package usecase

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/shopspring/decimal"

	"storefront/internal/catalog"
	"storefront/internal/domain/model"
	repo "storefront/internal/repository"
)

// トップの注目商品は最大8件、関連商品は最大4件。
const (
	featuredLimit = 8
	relatedLimit  = 4
)

// CatalogUsecase は公開側の商品一覧・詳細・カテゴリ閲覧。
type CatalogUsecase struct {
	productRepo  repo.ProductRepository
	categoryRepo repo.CategoryRepository
	brandRepo    repo.BrandRepository
}

func NewCatalogUsecase(
	productRepo repo.ProductRepository,
	categoryRepo repo.CategoryRepository,
	brandRepo repo.BrandRepository,
) *CatalogUsecase {
	return &CatalogUsecase{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		brandRepo:    brandRepo,
	}
}

// 一覧のレスポンス。サイドバー用のカテゴリ・ブランド・価格帯も同梱する。
type ProductListOutput struct {
	Items      []model.Product           `json:"items"`
	Page       catalog.Page              `json:"pagination"`
	Sort       catalog.SortKey           `json:"sort"`
	Categories []model.CategoryWithCount `json:"categories"`
	Brands     []model.Brand             `json:"brands"`
	PriceRange repo.PriceRange           `json:"price_range"`

	// 検索語ありで0件のときのお知らせ（エラーではない）
	Notice string `json:"notice,omitempty"`
}

// ListProducts は検索・絞り込み・並び替え・ページングの一覧パイプライン。
// パラメータの解釈はcatalog側、ここは組み立てだけ。
func (u *CatalogUsecase) ListProducts(ctx context.Context, values url.Values) (ProductListOutput, error) {
	f := catalog.ParseFilter(values)
	key := catalog.ParseSort(values.Get("sort"))

	products, err := u.productRepo.ListFiltered(ctx, f, key)
	if err != nil {
		return ProductListOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	page := catalog.Paginate(len(products), catalog.DefaultPageSize, values.Get("page"))
	start, end := page.Bounds()

	categories, err := u.categoryRepo.ListActiveWithCounts(ctx)
	if err != nil {
		return ProductListOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	brands, err := u.brandRepo.ListActive(ctx)
	if err != nil {
		return ProductListOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	priceRange, err := u.productRepo.PriceRange(ctx, nil)
	if err != nil {
		return ProductListOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	notice := ""
	if f.Query != "" && len(products) == 0 {
		notice = fmt.Sprintf("no products found for %q", f.Query)
	}

	return ProductListOutput{
		Items:      products[start:end],
		Page:       page,
		Sort:       key,
		Categories: categories,
		Brands:     brands,
		PriceRange: priceRange,
		Notice:     notice,
	}, nil
}

// FeaturedProducts はトップページ用の注目商品。
func (u *CatalogUsecase) FeaturedProducts(ctx context.Context) ([]model.Product, error) {
	products, err := u.productRepo.ListFeatured(ctx, featuredLimit)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return products, nil
}

type ProductDetailOutput struct {
	Product model.Product `json:"product"`

	// セール中のみ（通常価格との差額）
	Savings *decimal.Decimal `json:"savings,omitempty"`

	// 同カテゴリの関連商品
	Related []model.Product `json:"related_products"`
}

// ProductDetail は公開商品の詳細。非公開はNotFound扱い。
func (u *CatalogUsecase) ProductDetail(ctx context.Context, productID int64) (ProductDetailOutput, error) {
	if productID <= 0 {
		return ProductDetailOutput{}, NewHTTPError(http.StatusBadRequest, "invalid product id")
	}

	p, err := u.productRepo.FindByID(ctx, productID)
	if err == repo.ErrNotFound {
		return ProductDetailOutput{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return ProductDetailOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if !p.IsActive {
		return ProductDetailOutput{}, NewHTTPError(http.StatusNotFound, "not found")
	}

	out := ProductDetailOutput{
		Product: p,
		Related: []model.Product{},
	}

	if p.OnSale() {
		savings := p.Savings()
		out.Savings = &savings
	}

	if p.CategoryID != nil {
		related, err := u.productRepo.ListRelated(ctx, *p.CategoryID, p.ID, relatedLimit)
		if err != nil {
			return ProductDetailOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
		}
		out.Related = related
	}

	return out, nil
}

// ListCategories は有効カテゴリを公開商品の件数付きで返す。
func (u *CatalogUsecase) ListCategories(ctx context.Context) ([]model.CategoryWithCount, error) {
	categories, err := u.categoryRepo.ListActiveWithCounts(ctx)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return categories, nil
}

type CategoryDetailOutput struct {
	Category   model.Category  `json:"category"`
	Items      []model.Product `json:"items"`
	Page       catalog.Page    `json:"pagination"`
	Sort       catalog.SortKey `json:"sort"`
	Brands     []model.Brand   `json:"brands"`
	PriceRange repo.PriceRange `json:"price_range"`
}

// CategoryDetail はカテゴリ固定の一覧。
// ブランド・価格帯・フラグの絞り込みと並び替え・ページングは一覧と同じ経路。
func (u *CatalogUsecase) CategoryDetail(ctx context.Context, slug string, values url.Values) (CategoryDetailOutput, error) {
	c, err := u.categoryRepo.FindActiveBySlug(ctx, slug)
	if err == repo.ErrNotFound {
		return CategoryDetailOutput{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return CategoryDetailOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	f := catalog.ParseFilter(values)
	//カテゴリ詳細はテキスト検索なし、カテゴリは固定
	f.Query = ""
	f.CategoryIDs = []int64{c.ID}

	key := catalog.ParseSort(values.Get("sort"))

	products, err := u.productRepo.ListFiltered(ctx, f, key)
	if err != nil {
		return CategoryDetailOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	page := catalog.Paginate(len(products), catalog.DefaultPageSize, values.Get("page"))
	start, end := page.Bounds()

	//このカテゴリに公開商品を持つブランドだけ
	brands, err := u.brandRepo.ListActiveByCategory(ctx, c.ID)
	if err != nil {
		return CategoryDetailOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	priceRange, err := u.productRepo.PriceRange(ctx, &c.ID)
	if err != nil {
		return CategoryDetailOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return CategoryDetailOutput{
		Category:   c,
		Items:      products[start:end],
		Page:       page,
		Sort:       key,
		Brands:     brands,
		PriceRange: priceRange,
	}, nil
}
