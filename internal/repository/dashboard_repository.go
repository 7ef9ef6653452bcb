package repository

import (
	"fmt"
	"time"

	"github.com/microtask-next/internal/constants"
	"github.com/microtask-next/internal/models"

	"gorm.io/gorm"
)

// DashboardRepository 仪表盘聚合查询接口
// 说明：仅聚合统计数据，不承载业务规则。
type DashboardRepository interface {
	GetOverview(startAt, endAt time.Time) (DashboardOverviewRow, error)
	GetTaskTrends(startAt, endAt time.Time) ([]DashboardTaskTrendRow, error)
	CountStaleClaims(before time.Time) (int64, error)
}

// DashboardOverviewRow 仪表盘总览原始统计结果
type DashboardOverviewRow struct {
	TasksTotal         int64
	TasksCompleted     int64
	SubOrdersTotal     int64
	SubOrdersPending   int64
	SubOrdersClaimed   int64
	SubOrdersInReview  int64
	SubOrdersCompleted int64
	EarningsSettled    float64
	EarningsCount      int64
	NewUsers           int64
	ActivePublishers   int64
}

// DashboardTaskTrendRow 任务趋势统计
type DashboardTaskTrendRow struct {
	Day            string
	TasksCreated   int64
	TasksCompleted int64
}

// GormDashboardRepository GORM 仪表盘聚合实现
type GormDashboardRepository struct {
	db *gorm.DB
}

// NewDashboardRepository 创建仪表盘仓库
func NewDashboardRepository(db *gorm.DB) *GormDashboardRepository {
	return &GormDashboardRepository{db: db}
}

// GetOverview 获取总览统计
func (r *GormDashboardRepository) GetOverview(startAt, endAt time.Time) (DashboardOverviewRow, error) {
	result := DashboardOverviewRow{}

	taskBase := func() *gorm.DB {
		return r.db.Model(&models.Task{}).
			Where("created_at >= ? AND created_at < ?", startAt, endAt)
	}
	subBase := func() *gorm.DB {
		return r.db.Model(&models.SubOrder{}).
			Where("created_at >= ? AND created_at < ?", startAt, endAt)
	}

	if err := taskBase().Count(&result.TasksTotal).Error; err != nil {
		return result, err
	}
	if err := taskBase().Where("status = ?", constants.TaskStatusMainCompleted).
		Count(&result.TasksCompleted).Error; err != nil {
		return result, err
	}

	if err := subBase().Count(&result.SubOrdersTotal).Error; err != nil {
		return result, err
	}
	statusCounts := map[string]*int64{
		constants.SubOrderStatusPending:       &result.SubOrdersPending,
		constants.SubOrderStatusClaimed:       &result.SubOrdersClaimed,
		constants.SubOrderStatusPendingReview: &result.SubOrdersInReview,
		constants.SubOrderStatusCompleted:     &result.SubOrdersCompleted,
	}
	for status, target := range statusCounts {
		if err := subBase().Where("status = ?", status).Count(target).Error; err != nil {
			return result, err
		}
	}

	var earningRow struct {
		Total float64
		Count int64
	}
	if err := r.db.Model(&models.Earning{}).
		Select("COALESCE(SUM(amount), 0) as total, COUNT(*) as count").
		Where("created_at >= ? AND created_at < ?", startAt, endAt).
		Scan(&earningRow).Error; err != nil {
		return result, err
	}
	result.EarningsSettled = earningRow.Total
	result.EarningsCount = earningRow.Count

	if err := r.db.Model(&models.User{}).
		Where("created_at >= ? AND created_at < ?", startAt, endAt).
		Count(&result.NewUsers).Error; err != nil {
		return result, err
	}
	if err := r.db.Model(&models.Task{}).
		Where("created_at >= ? AND created_at < ?", startAt, endAt).
		Distinct("owner_id").
		Count(&result.ActivePublishers).Error; err != nil {
		return result, err
	}

	return result, nil
}

// GetTaskTrends 获取任务趋势（按天）
func (r *GormDashboardRepository) GetTaskTrends(startAt, endAt time.Time) ([]DashboardTaskTrendRow, error) {
	type createdRow struct {
		Day   string
		Total int64
	}
	type completedRow struct {
		Day   string
		Total int64
	}

	dayExpr := "CAST(date(created_at) AS TEXT)"

	var created []createdRow
	if err := r.db.Model(&models.Task{}).
		Select(fmt.Sprintf("%s as day, COUNT(*) as total", dayExpr)).
		Where("created_at >= ? AND created_at < ?", startAt, endAt).
		Group(dayExpr).
		Order("day asc").
		Scan(&created).Error; err != nil {
		return nil, err
	}

	var completed []completedRow
	if err := r.db.Model(&models.Task{}).
		Select(fmt.Sprintf("%s as day, COUNT(*) as total", dayExpr)).
		Where("created_at >= ? AND created_at < ? AND status = ?", startAt, endAt, constants.TaskStatusMainCompleted).
		Group(dayExpr).
		Order("day asc").
		Scan(&completed).Error; err != nil {
		return nil, err
	}

	merged := make(map[string]*DashboardTaskTrendRow)
	days := make([]string, 0, len(created))
	for _, row := range created {
		merged[row.Day] = &DashboardTaskTrendRow{Day: row.Day, TasksCreated: row.Total}
		days = append(days, row.Day)
	}
	for _, row := range completed {
		if item, ok := merged[row.Day]; ok {
			item.TasksCompleted = row.Total
			continue
		}
		merged[row.Day] = &DashboardTaskTrendRow{Day: row.Day, TasksCompleted: row.Total}
		days = append(days, row.Day)
	}

	result := make([]DashboardTaskTrendRow, 0, len(days))
	for _, day := range days {
		result = append(result, *merged[day])
	}
	return result, nil
}

// CountStaleClaims 统计超时未提交的领取数
func (r *GormDashboardRepository) CountStaleClaims(before time.Time) (int64, error) {
	var count int64
	if err := r.db.Model(&models.SubOrder{}).
		Where("status = ? AND claimed_at IS NOT NULL AND claimed_at <= ?", constants.SubOrderStatusClaimed, before).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
