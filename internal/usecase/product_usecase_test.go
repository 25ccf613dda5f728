package usecase_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"storefront/internal/domain/model"
	infraRepo "storefront/internal/infra/repository"
	repo "storefront/internal/repository"
	"storefront/internal/usecase"
)

// =====================
// Fakes（Tx＋監査ログ）
// =====================

// 監査ログを貯めるだけのリポジトリ。
type auditRecorder struct {
	logs []model.AuditLog
}

func (r *auditRecorder) Create(ctx context.Context, log model.AuditLog) error {
	r.logs = append(r.logs, log)
	return nil
}

func (r *auditRecorder) List(ctx context.Context, filter repo.AuditLogFilter) ([]model.AuditLog, error) {
	return r.logs, nil
}

type txReposFake struct {
	products repo.ProductRepository
	audits   repo.AuditLogRepository
}

func (r txReposFake) Products() repo.ProductRepository   { return r.products }
func (r txReposFake) AuditLogs() repo.AuditLogRepository { return r.audits }

// Txの開始/commit/rollbackはせず、そのままfnを実行する。
type txManagerFake struct {
	repos txReposFake
	err   error
}

func (m txManagerFake) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	if m.err != nil {
		return m.err
	}
	return fn(m.repos)
}

func newProductUsecase(seed ...model.Product) (*usecase.ProductUsecase, *infraRepo.ProductMemoryRepository, *auditRecorder) {
	pRepo := infraRepo.NewProductMemoryRepository(seed...)
	audits := &auditRecorder{}
	tx := txManagerFake{repos: txReposFake{products: pRepo, audits: audits}}
	return usecase.NewProductUsecase(tx, pRepo, audits), pRepo, audits
}

func staffInput(name, sku string) usecase.StaffProductInput {
	return usecase.StaffProductInput{
		Name:     name,
		SKU:      sku,
		Price:    decimal.RequireFromString("12.00"),
		Stock:    10,
		IsActive: true,
	}
}

// =====================
// Create
// =====================

func TestStaffCreateProduct_OK(t *testing.T) {
	ctx := context.Background()
	uc, pRepo, audits := newProductUsecase()

	created, err := uc.StaffCreateProduct(ctx, 42, staffInput("Mug", "MUG-001"))
	assert.NoError(t, err)
	assert.NotZero(t, created.ID)
	assert.Equal(t, "Mug", created.Name)

	stored, err := pRepo.FindByID(ctx, created.ID)
	assert.NoError(t, err)
	assert.Equal(t, "MUG-001", stored.SKU)

	//同じTxで監査ログが残る
	if assert.Len(t, audits.logs, 1) {
		log := audits.logs[0]
		assert.Equal(t, int64(42), log.ActorUserID)
		assert.Equal(t, model.AuditActionCreateProduct, log.Action)
		assert.Equal(t, created.ID, log.ResourceID)
		assert.Contains(t, log.AfterJSON, "MUG-001")
	}
}

func TestStaffCreateProduct_Unauthorized(t *testing.T) {
	uc, _, _ := newProductUsecase()

	_, err := uc.StaffCreateProduct(context.Background(), 0, staffInput("Mug", "MUG-001"))
	assertHTTPError(t, err, http.StatusUnauthorized, "unauthorized")
}

func TestStaffCreateProduct_ValidationError(t *testing.T) {
	uc, _, audits := newProductUsecase()

	_, err := uc.StaffCreateProduct(context.Background(), 42, staffInput("", "MUG-001"))
	assertHTTPError(t, err, http.StatusBadRequest, "name required")
	assert.Empty(t, audits.logs)
}

func TestStaffCreateProduct_DuplicateSKU(t *testing.T) {
	ctx := context.Background()
	uc, _, audits := newProductUsecase(model.Product{
		ID: 1, Name: "Mug", SKU: "MUG-001", Price: decimal.NewFromInt(5), IsActive: true,
	})

	_, err := uc.StaffCreateProduct(ctx, 42, staffInput("Another Mug", "MUG-001"))
	assertHTTPError(t, err, http.StatusConflict, "could not create product")
	assert.Empty(t, audits.logs)
}

func TestStaffCreateProduct_TxError(t *testing.T) {
	pRepo := infraRepo.NewProductMemoryRepository()
	tx := txManagerFake{err: errors.New("tx failed")}
	uc := usecase.NewProductUsecase(tx, pRepo, &auditRecorder{})

	_, err := uc.StaffCreateProduct(context.Background(), 42, staffInput("Mug", "MUG-001"))
	assertHTTPError(t, err, http.StatusInternalServerError, "db error")
}

// =====================
// Update
// =====================

func TestStaffUpdateProduct_OK(t *testing.T) {
	ctx := context.Background()
	uc, pRepo, audits := newProductUsecase(model.Product{
		ID: 1, Name: "Mug", SKU: "MUG-001", Price: decimal.NewFromInt(5), Stock: 3, IsActive: true,
	})

	in := staffInput("Big Mug", "MUG-001")
	in.Stock = 7

	err := uc.StaffUpdateProduct(ctx, 42, 1, in)
	assert.NoError(t, err)

	stored, err := pRepo.FindByID(ctx, 1)
	assert.NoError(t, err)
	assert.Equal(t, "Big Mug", stored.Name)
	assert.Equal(t, int64(7), stored.Stock)

	//before/after両方のスナップショット付き
	if assert.Len(t, audits.logs, 1) {
		log := audits.logs[0]
		assert.Equal(t, model.AuditActionUpdateProduct, log.Action)
		assert.Contains(t, log.BeforeJSON, "Mug")
		assert.Contains(t, log.AfterJSON, "Big Mug")
	}
}

// 公開停止もUpdate経由（is_active=false）
func TestStaffUpdateProduct_Deactivate(t *testing.T) {
	ctx := context.Background()
	uc, pRepo, _ := newProductUsecase(model.Product{
		ID: 1, Name: "Mug", SKU: "MUG-001", Price: decimal.NewFromInt(5), IsActive: true,
	})

	in := staffInput("Mug", "MUG-001")
	in.IsActive = false

	err := uc.StaffUpdateProduct(ctx, 42, 1, in)
	assert.NoError(t, err)

	stored, _ := pRepo.FindByID(ctx, 1)
	assert.False(t, stored.IsActive)
}

func TestStaffUpdateProduct_NotFound(t *testing.T) {
	uc, _, audits := newProductUsecase()

	err := uc.StaffUpdateProduct(context.Background(), 42, 99, staffInput("Mug", "MUG-001"))
	assertHTTPError(t, err, http.StatusNotFound, "not found")
	assert.Empty(t, audits.logs)
}

func TestStaffUpdateProduct_DuplicateSKU(t *testing.T) {
	ctx := context.Background()
	uc, _, _ := newProductUsecase(
		model.Product{ID: 1, Name: "Mug", SKU: "MUG-001", Price: decimal.NewFromInt(5), IsActive: true},
		model.Product{ID: 2, Name: "Cup", SKU: "CUP-001", Price: decimal.NewFromInt(5), IsActive: true},
	)

	err := uc.StaffUpdateProduct(ctx, 42, 2, staffInput("Cup", "MUG-001"))
	assertHTTPError(t, err, http.StatusConflict, "could not update product")
}

// =====================
// Delete
// =====================

func TestStaffDeleteProduct_OK(t *testing.T) {
	ctx := context.Background()
	uc, pRepo, audits := newProductUsecase(model.Product{
		ID: 1, Name: "Mug", SKU: "MUG-001", Price: decimal.NewFromInt(5), IsActive: true,
	})

	err := uc.StaffDeleteProduct(ctx, 42, 1)
	assert.NoError(t, err)

	_, err = pRepo.FindByID(ctx, 1)
	assert.ErrorIs(t, err, repo.ErrNotFound)

	if assert.Len(t, audits.logs, 1) {
		log := audits.logs[0]
		assert.Equal(t, model.AuditActionDeleteProduct, log.Action)
		assert.Contains(t, log.BeforeJSON, "MUG-001")
		assert.Empty(t, log.AfterJSON)
	}
}

func TestStaffDeleteProduct_NotFound(t *testing.T) {
	uc, _, _ := newProductUsecase()

	err := uc.StaffDeleteProduct(context.Background(), 42, 99)
	assertHTTPError(t, err, http.StatusNotFound, "not found")
}

func TestStaffDeleteProduct_InvalidID(t *testing.T) {
	uc, _, _ := newProductUsecase()

	err := uc.StaffDeleteProduct(context.Background(), 42, 0)
	assertHTTPError(t, err, http.StatusBadRequest, "invalid product id")
}

// =====================
// 監査ログ一覧
// =====================

func TestStaffListAuditLogs_OK(t *testing.T) {
	ctx := context.Background()
	uc, _, _ := newProductUsecase()

	_, err := uc.StaffCreateProduct(ctx, 42, staffInput("Mug", "MUG-001"))
	assert.NoError(t, err)

	logs, err := uc.StaffListAuditLogs(ctx, 42, usecase.AuditLogListInput{})
	assert.NoError(t, err)
	if assert.Len(t, logs, 1) {
		assert.Equal(t, model.AuditActionCreateProduct, logs[0].Action)
	}
}

func TestStaffListAuditLogs_InvalidAction(t *testing.T) {
	uc, _, _ := newProductUsecase()

	_, err := uc.StaffListAuditLogs(context.Background(), 42, usecase.AuditLogListInput{Action: "DROP_TABLE"})
	assertHTTPError(t, err, http.StatusBadRequest, "invalid action")
}

func TestStaffListAuditLogs_Unauthorized(t *testing.T) {
	uc, _, _ := newProductUsecase()

	_, err := uc.StaffListAuditLogs(context.Background(), 0, usecase.AuditLogListInput{})
	assertHTTPError(t, err, http.StatusUnauthorized, "unauthorized")
}
