package model

import "time"

// スタッフ操作の種類。
type AuditAction string

const (
	//商品を作成した操作。
	AuditActionCreateProduct AuditAction = "CREATE_PRODUCT"
	//商品を更新した操作。
	AuditActionUpdateProduct AuditAction = "UPDATE_PRODUCT"
	//商品を削除した操作。
	AuditActionDeleteProduct AuditAction = "DELETE_PRODUCT"
)

// 何に対する操作か
type AuditResourceType string

const (
	//商品に対する操作。
	AuditResourceProduct AuditResourceType = "product"
)

// 監査ログ（スタッフ操作ログ）。
// 「誰が」「何を」「どの対象に」「どう変えたか」を残す。
type AuditLog struct {
	ID int64 `gorm:"primaryKey;autoIncrement" json:"id"`

	//操作したスタッフのユーザーID。
	ActorUserID int64 `gorm:"not null;index" json:"actor_user_id"`

	Action AuditAction `gorm:"type:varchar(50);not null;index" json:"action"`

	ResourceType AuditResourceType `gorm:"type:varchar(50);not null;index" json:"resource_type"`

	ResourceID int64 `gorm:"not null;index" json:"resource_id"`

	//JSON文字列で保存する。
	BeforeJSON string `gorm:"type:text" json:"before_json"`

	//JSON文字列で保存する。
	AfterJSON string `gorm:"type:text" json:"after_json"`

	CreatedAt time.Time `gorm:"not null;index" json:"created_at"`
}
