package models

import (
	"time"

	"gorm.io/gorm"
)

// Task 任务表（父单）
type Task struct {
	ID                uint           `gorm:"primarykey" json:"id"`                                    // 主键
	TaskNo            string         `gorm:"uniqueIndex;not null" json:"task_no"`                     // 任务编号
	OwnerID           uint           `gorm:"index;not null" json:"owner_id"`                          // 发布者用户ID
	Title             string         `gorm:"type:varchar(200);not null" json:"title"`                 // 任务标题
	TaskType          string         `gorm:"type:varchar(32);index;not null" json:"task_type"`        // 任务类型
	VideoURL          string         `gorm:"type:varchar(500);not null" json:"video_url"`             // 目标视频链接
	Mention           string         `gorm:"type:varchar(100)" json:"mention,omitempty"`              // @提及账号
	Requirements      string         `gorm:"type:text" json:"requirements,omitempty"`                 // 任务要求说明
	UnitPrice         Money          `gorm:"type:decimal(20,2);not null;default:0" json:"unit_price"` // 单条佣金
	Quantity          int            `gorm:"not null" json:"quantity"`                                // 子订单总数
	CompletedQuantity int            `gorm:"not null;default:0" json:"completed_quantity"`            // 已完成数（由子订单推导）
	Status            string         `gorm:"index;not null" json:"status"`                            // 任务状态
	PublishedAt       time.Time      `gorm:"index" json:"published_at"`                               // 发布时间
	Deadline          *time.Time     `gorm:"index" json:"deadline"`                                   // 截止时间
	CreatedAt         time.Time      `gorm:"index" json:"created_at"`                                 // 创建时间
	UpdatedAt         time.Time      `gorm:"index" json:"updated_at"`                                 // 更新时间
	DeletedAt         gorm.DeletedAt `gorm:"index" json:"-"`                                          // 软删除时间

	// 关联
	SubOrders []SubOrder `gorm:"foreignKey:TaskID" json:"sub_orders,omitempty"` // 子订单
}

// TableName 指定表名
func (Task) TableName() string {
	return "tasks"
}
