package usecase

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"
	"storefront/internal/validator"
)

// ProductUsecase はスタッフ向けの商品CRUD。
// 書き込みは必ずトランザクション内で行い、監査ログも同じTxで残す。
type ProductUsecase struct {
	tx          repo.TransactionManager
	productRepo repo.ProductRepository
	auditRepo   repo.AuditLogRepository
}

// DI
func NewProductUsecase(tx repo.TransactionManager, productRepo repo.ProductRepository, auditRepo repo.AuditLogRepository) *ProductUsecase {
	return &ProductUsecase{
		tx:          tx,
		productRepo: productRepo,
		auditRepo:   auditRepo,
	}
}

// スタッフ向け商品フォームの入力DTO。
type StaffProductInput struct {
	Name        string
	Description string
	SKU         string
	CategoryID  *int64
	BrandID     *int64
	Price       decimal.Decimal
	SalePrice   *decimal.Decimal
	Stock       int64
	IsActive    bool
	IsFeatured  bool
}

func (in StaffProductInput) validate() error {
	return validator.ValidateProduct(validator.ProductInput{
		Name:      in.Name,
		SKU:       in.SKU,
		Price:     in.Price,
		SalePrice: in.SalePrice,
		Stock:     in.Stock,
	})
}

// 監査ログ用のスナップショット。
func productJSON(p model.Product) string {
	b, err := json.Marshal(p)
	if err != nil {
		return "{}"
	}
	return string(b)
}

// StaffCreateProduct は商品作成。SKU重複はTxごとロールバックして409。
func (u *ProductUsecase) StaffCreateProduct(ctx context.Context, staffUserID int64, in StaffProductInput) (model.Product, error) {
	if staffUserID <= 0 {
		return model.Product{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if err := in.validate(); err != nil {
		return model.Product{}, NewHTTPError(http.StatusBadRequest, err.Error())
	}

	now := time.Now()
	p := model.Product{
		Name:        strings.TrimSpace(in.Name),
		Description: in.Description,
		SKU:         strings.TrimSpace(in.SKU),
		CategoryID:  in.CategoryID,
		BrandID:     in.BrandID,
		Price:       in.Price,
		SalePrice:   in.SalePrice,
		Stock:       in.Stock,
		IsActive:    in.IsActive,
		IsFeatured:  in.IsFeatured,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	var created model.Product
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		var err error
		created, err = r.Products().Create(ctx, p)
		if err != nil {
			return err
		}

		return r.AuditLogs().Create(ctx, model.AuditLog{
			ActorUserID:  staffUserID,
			Action:       model.AuditActionCreateProduct,
			ResourceType: model.AuditResourceProduct,
			ResourceID:   created.ID,
			AfterJSON:    productJSON(created),
			CreatedAt:    now,
		})
	})
	if err == repo.ErrConflict {
		return model.Product{}, NewHTTPError(http.StatusConflict, "could not create product, please try again")
	}
	if err != nil {
		return model.Product{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return created, nil
}

// StaffUpdateProduct は商品更新。is_activeをfalseにする公開停止もこの経路。
func (u *ProductUsecase) StaffUpdateProduct(ctx context.Context, staffUserID int64, productID int64, in StaffProductInput) error {
	if staffUserID <= 0 {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if productID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid product id")
	}
	if err := in.validate(); err != nil {
		return NewHTTPError(http.StatusBadRequest, err.Error())
	}

	now := time.Now()
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		//変更前のスナップショット
		before, err := r.Products().FindByID(ctx, productID)
		if err != nil {
			return err
		}

		updated := model.Product{
			ID:          productID,
			Name:        strings.TrimSpace(in.Name),
			Description: in.Description,
			SKU:         strings.TrimSpace(in.SKU),
			CategoryID:  in.CategoryID,
			BrandID:     in.BrandID,
			Price:       in.Price,
			SalePrice:   in.SalePrice,
			Stock:       in.Stock,
			IsActive:    in.IsActive,
			IsFeatured:  in.IsFeatured,
			UpdatedAt:   now,
		}

		if err := r.Products().Update(ctx, updated); err != nil {
			return err
		}

		return r.AuditLogs().Create(ctx, model.AuditLog{
			ActorUserID:  staffUserID,
			Action:       model.AuditActionUpdateProduct,
			ResourceType: model.AuditResourceProduct,
			ResourceID:   productID,
			BeforeJSON:   productJSON(before),
			AfterJSON:    productJSON(updated),
			CreatedAt:    now,
		})
	})
	if err == repo.ErrNotFound {
		return NewHTTPError(http.StatusNotFound, "not found")
	}
	if err == repo.ErrConflict {
		return NewHTTPError(http.StatusConflict, "could not update product, please try again")
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}

// 監査ログ一覧の絞り込み入力。
type AuditLogListInput struct {
	ActorUserID *int64
	Action      string
	ResourceID  *int64
	Limit       int
	Offset      int
}

// StaffListAuditLogs はスタッフ操作の履歴を新しい順で返す。
func (u *ProductUsecase) StaffListAuditLogs(ctx context.Context, staffUserID int64, in AuditLogListInput) ([]model.AuditLog, error) {
	if staffUserID <= 0 {
		return nil, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	filter := repo.AuditLogFilter{
		ActorUserID: in.ActorUserID,
		ResourceID:  in.ResourceID,
		Limit:       in.Limit,
		Offset:      in.Offset,
	}

	if in.Action != "" {
		switch action := model.AuditAction(in.Action); action {
		case model.AuditActionCreateProduct, model.AuditActionUpdateProduct, model.AuditActionDeleteProduct:
			filter.Action = &action
		default:
			return nil, NewHTTPError(http.StatusBadRequest, "invalid action")
		}
	}

	logs, err := u.auditRepo.List(ctx, filter)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return logs, nil
}

// StaffDeleteProduct は物理削除。
func (u *ProductUsecase) StaffDeleteProduct(ctx context.Context, staffUserID int64, productID int64) error {
	if staffUserID <= 0 {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if productID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid product id")
	}

	now := time.Now()
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		before, err := r.Products().FindByID(ctx, productID)
		if err != nil {
			return err
		}

		if err := r.Products().Delete(ctx, productID); err != nil {
			return err
		}

		return r.AuditLogs().Create(ctx, model.AuditLog{
			ActorUserID:  staffUserID,
			Action:       model.AuditActionDeleteProduct,
			ResourceType: model.AuditResourceProduct,
			ResourceID:   productID,
			BeforeJSON:   productJSON(before),
			CreatedAt:    now,
		})
	})
	if err == repo.ErrNotFound {
		return NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}
