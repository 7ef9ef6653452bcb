package models

import (
	"time"

	"gorm.io/gorm"
)

// Earning 收益流水表
// sub_order_id 唯一索引保证同一子订单只结算一次
type Earning struct {
	ID         uint           `gorm:"primarykey" json:"id"`                             // 主键
	UserID     uint           `gorm:"index;not null" json:"user_id"`                    // 收益归属用户ID（评论员）
	SubOrderID uint           `gorm:"uniqueIndex;not null" json:"sub_order_id"`         // 关联子订单ID
	TaskID     uint           `gorm:"index;not null" json:"task_id"`                    // 关联任务ID
	TaskLabel  string         `gorm:"type:varchar(200)" json:"task_label"`              // 任务标题快照
	TaskType   string         `gorm:"type:varchar(32);index;not null" json:"task_type"` // 任务类型
	Amount     Money          `gorm:"type:decimal(20,2);not null;default:0" json:"amount"` // 结算金额
	Status     string         `gorm:"index;not null" json:"status"`                     // 结算状态
	CreatedAt  time.Time      `gorm:"index" json:"created_at"`                          // 创建时间
	UpdatedAt  time.Time      `gorm:"index" json:"updated_at"`                          // 更新时间
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`                                   // 软删除时间
}

// TableName 指定表名
func (Earning) TableName() string {
	return "earnings"
}
