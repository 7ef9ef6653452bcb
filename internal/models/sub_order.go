package models

import (
	"time"

	"gorm.io/gorm"
)

// SubOrder 子订单表
// 状态只落库规范值：pending / claimed / pending_review / completed
type SubOrder struct {
	ID             uint           `gorm:"primarykey" json:"id"`                              // 主键
	SubOrderNo     string         `gorm:"uniqueIndex;not null" json:"sub_order_no"`          // 子订单编号
	TaskID         uint           `gorm:"index;not null" json:"task_id"`                     // 所属任务ID
	Seq            int            `gorm:"not null" json:"seq"`                               // 任务内序号（从 1 开始）
	Status         string         `gorm:"index;not null" json:"status"`                      // 子订单状态
	CommenterID    *uint          `gorm:"index" json:"commenter_id,omitempty"`               // 领取者用户ID
	CommenterName  string         `gorm:"type:varchar(100)" json:"commenter_name,omitempty"` // 领取者昵称快照
	ClaimedAt      *time.Time     `gorm:"index" json:"claimed_at"`                           // 领取时间（超时释放依据）
	CommentContent string         `gorm:"type:text" json:"comment_content,omitempty"`        // 评论内容
	CommentTime    *time.Time     `json:"comment_time"`                                      // 提交时间
	ScreenshotURL  string         `gorm:"type:varchar(500)" json:"screenshot_url,omitempty"` // 截图凭证URL
	ReviewNote     string         `gorm:"type:varchar(500)" json:"review_note,omitempty"`    // 审核备注（驳回原因）
	CreatedAt      time.Time      `gorm:"index" json:"created_at"`                           // 创建时间
	UpdatedAt      time.Time      `gorm:"index" json:"updated_at"`                           // 更新时间
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`                                    // 软删除时间

	// 关联
	Task *Task `gorm:"foreignKey:TaskID" json:"task,omitempty"` // 所属任务
}

// TableName 指定表名
func (SubOrder) TableName() string {
	return "sub_orders"
}
