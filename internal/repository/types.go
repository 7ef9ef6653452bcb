package repository

import "time"

// TaskListFilter 查询任务列表的过滤条件
type TaskListFilter struct {
	Page        int
	PageSize    int
	OwnerID     uint
	Status      string
	TaskType    string
	TaskNo      string
	Keyword     string
	CreatedFrom *time.Time
	CreatedTo   *time.Time
}

// SubOrderListFilter 查询子订单列表的过滤条件
type SubOrderListFilter struct {
	Page        int
	PageSize    int
	TaskID      uint
	CommenterID uint
	Status      string
	TaskType    string
	CreatedFrom *time.Time
	CreatedTo   *time.Time
}

// EarningListFilter 查询收益流水的过滤条件
type EarningListFilter struct {
	Page        int
	PageSize    int
	UserID      uint
	TaskType    string
	CreatedFrom *time.Time
	CreatedTo   *time.Time
}

// UserListFilter 查询用户列表的过滤条件
type UserListFilter struct {
	Page        int
	PageSize    int
	Keyword     string
	Role        string
	Status      string
	CreatedFrom *time.Time
	CreatedTo   *time.Time
}
