package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/microtask-next/internal/cache"
	"github.com/microtask-next/internal/repository"
)

const (
	dashboardCacheTTL      = 45 * time.Second
	dashboardCustomMaxDays = 90
)

// DashboardService 仪表盘服务
// 说明：聚合后台首页核心运营数据。
type DashboardService struct {
	repo       repository.DashboardRepository
	subService *SubOrderService
}

// NewDashboardService 创建仪表盘服务
func NewDashboardService(repo repository.DashboardRepository, subService *SubOrderService) *DashboardService {
	return &DashboardService{repo: repo, subService: subService}
}

// DashboardQueryInput 仪表盘查询输入
type DashboardQueryInput struct {
	Range        string
	From         *time.Time
	To           *time.Time
	Timezone     string
	ForceRefresh bool
}

// DashboardOverviewResponse 仪表盘总览响应
type DashboardOverviewResponse struct {
	Range    string               `json:"range"`
	From     string               `json:"from"`
	To       string               `json:"to"`
	Timezone string               `json:"timezone"`
	KPI      DashboardKPI         `json:"kpi"`
	Funnel   DashboardFunnel      `json:"funnel"`
	Alerts   []DashboardAlertItem `json:"alerts"`
}

// DashboardKPI 仪表盘核心指标
type DashboardKPI struct {
	TasksTotal         int64  `json:"tasks_total"`
	TasksCompleted     int64  `json:"tasks_completed"`
	SubOrdersTotal     int64  `json:"sub_orders_total"`
	SubOrdersPending   int64  `json:"sub_orders_pending"`
	SubOrdersClaimed   int64  `json:"sub_orders_claimed"`
	SubOrdersInReview  int64  `json:"sub_orders_in_review"`
	SubOrdersCompleted int64  `json:"sub_orders_completed"`
	EarningsSettled    string `json:"earnings_settled"`
	EarningsCount      int64  `json:"earnings_count"`
	NewUsers           int64  `json:"new_users"`
	ActivePublishers   int64  `json:"active_publishers"`
	StaleClaims        int64  `json:"stale_claims"`
}

// DashboardFunnel 子订单转化漏斗
type DashboardFunnel struct {
	SubOrdersCreated   int64  `json:"sub_orders_created"`
	SubOrdersClaimed   int64  `json:"sub_orders_claimed"`
	SubOrdersSubmitted int64  `json:"sub_orders_submitted"`
	SubOrdersCompleted int64  `json:"sub_orders_completed"`
	ClaimRate          string `json:"claim_rate"`
	CompletionRate     string `json:"completion_rate"`
}

// DashboardAlertItem 仪表盘告警项
type DashboardAlertItem struct {
	Type  string `json:"type"`
	Level string `json:"level"`
	Value int64  `json:"value"`
}

// DashboardTrendResponse 仪表盘趋势响应
type DashboardTrendResponse struct {
	Range    string                `json:"range"`
	From     string                `json:"from"`
	To       string                `json:"to"`
	Timezone string                `json:"timezone"`
	Points   []DashboardTrendPoint `json:"points"`
}

// DashboardTrendPoint 趋势点
type DashboardTrendPoint struct {
	Date           string `json:"date"`
	TasksCreated   int64  `json:"tasks_created"`
	TasksCompleted int64  `json:"tasks_completed"`
}

type dashboardWindow struct {
	rangeKey string
	startAt  time.Time
	endAt    time.Time
	timezone string
}

// GetOverview 获取仪表盘总览
func (s *DashboardService) GetOverview(ctx context.Context, input DashboardQueryInput) (*DashboardOverviewResponse, error) {
	if s == nil || s.repo == nil {
		return &DashboardOverviewResponse{}, nil
	}

	window, err := resolveDashboardWindow(input, time.Now())
	if err != nil {
		return nil, err
	}

	cacheKey := fmt.Sprintf("dashboard:overview:%s:%d:%d:%s",
		window.rangeKey, window.startAt.Unix(), window.endAt.Unix(), window.timezone)
	if !input.ForceRefresh {
		var cached DashboardOverviewResponse
		hit, cacheErr := cache.GetJSON(ctx, cacheKey, &cached)
		if cacheErr == nil && hit {
			return &cached, nil
		}
	}

	overview, err := s.repo.GetOverview(window.startAt, window.endAt)
	if err != nil {
		return nil, err
	}

	staleBefore := time.Now().Add(-s.claimTimeout())
	staleClaims, err := s.repo.CountStaleClaims(staleBefore)
	if err != nil {
		return nil, err
	}

	claimed := overview.SubOrdersClaimed + overview.SubOrdersInReview + overview.SubOrdersCompleted
	claimRate := 0.0
	if overview.SubOrdersTotal > 0 {
		claimRate = float64(claimed) / float64(overview.SubOrdersTotal) * 100
	}
	completionRate := 0.0
	if overview.SubOrdersTotal > 0 {
		completionRate = float64(overview.SubOrdersCompleted) / float64(overview.SubOrdersTotal) * 100
	}

	response := &DashboardOverviewResponse{
		Range:    window.rangeKey,
		From:     window.startAt.Format(time.RFC3339),
		To:       window.endAt.Add(-time.Second).Format(time.RFC3339),
		Timezone: window.timezone,
		KPI: DashboardKPI{
			TasksTotal:         overview.TasksTotal,
			TasksCompleted:     overview.TasksCompleted,
			SubOrdersTotal:     overview.SubOrdersTotal,
			SubOrdersPending:   overview.SubOrdersPending,
			SubOrdersClaimed:   overview.SubOrdersClaimed,
			SubOrdersInReview:  overview.SubOrdersInReview,
			SubOrdersCompleted: overview.SubOrdersCompleted,
			EarningsSettled:    formatMoneyValue(overview.EarningsSettled),
			EarningsCount:      overview.EarningsCount,
			NewUsers:           overview.NewUsers,
			ActivePublishers:   overview.ActivePublishers,
			StaleClaims:        staleClaims,
		},
		Funnel: DashboardFunnel{
			SubOrdersCreated:   overview.SubOrdersTotal,
			SubOrdersClaimed:   claimed,
			SubOrdersSubmitted: overview.SubOrdersInReview + overview.SubOrdersCompleted,
			SubOrdersCompleted: overview.SubOrdersCompleted,
			ClaimRate:          formatPercentValue(claimRate),
			CompletionRate:     formatPercentValue(completionRate),
		},
		Alerts: buildDashboardAlerts(overview, staleClaims),
	}

	_ = cache.SetJSON(ctx, cacheKey, response, dashboardCacheTTL)
	return response, nil
}

// GetTrends 获取任务趋势
func (s *DashboardService) GetTrends(ctx context.Context, input DashboardQueryInput) (*DashboardTrendResponse, error) {
	if s == nil || s.repo == nil {
		return &DashboardTrendResponse{}, nil
	}

	window, err := resolveDashboardWindow(input, time.Now())
	if err != nil {
		return nil, err
	}

	cacheKey := fmt.Sprintf("dashboard:trends:%s:%d:%d:%s",
		window.rangeKey, window.startAt.Unix(), window.endAt.Unix(), window.timezone)
	if !input.ForceRefresh {
		var cached DashboardTrendResponse
		hit, cacheErr := cache.GetJSON(ctx, cacheKey, &cached)
		if cacheErr == nil && hit {
			return &cached, nil
		}
	}

	rows, err := s.repo.GetTaskTrends(window.startAt, window.endAt)
	if err != nil {
		return nil, err
	}

	rowMap := make(map[string]repository.DashboardTaskTrendRow, len(rows))
	for _, item := range rows {
		rowMap[item.Day] = item
	}

	points := make([]DashboardTrendPoint, 0)
	dayStart := time.Date(window.startAt.Year(), window.startAt.Month(), window.startAt.Day(), 0, 0, 0, 0, window.startAt.Location())
	for cursor := dayStart; cursor.Before(window.endAt); cursor = cursor.AddDate(0, 0, 1) {
		day := cursor.Format("2006-01-02")
		point := DashboardTrendPoint{Date: day}
		if row, ok := rowMap[day]; ok {
			point.TasksCreated = row.TasksCreated
			point.TasksCompleted = row.TasksCompleted
		}
		points = append(points, point)
	}

	response := &DashboardTrendResponse{
		Range:    window.rangeKey,
		From:     window.startAt.Format(time.RFC3339),
		To:       window.endAt.Add(-time.Second).Format(time.RFC3339),
		Timezone: window.timezone,
		Points:   points,
	}

	_ = cache.SetJSON(ctx, cacheKey, response, dashboardCacheTTL)
	return response, nil
}

func (s *DashboardService) claimTimeout() time.Duration {
	if s.subService != nil {
		return s.subService.ClaimTimeout()
	}
	return 3 * time.Minute
}

func resolveDashboardWindow(input DashboardQueryInput, now time.Time) (dashboardWindow, error) {
	rangeKey := strings.ToLower(strings.TrimSpace(input.Range))
	if rangeKey == "" {
		rangeKey = "7d"
	}

	timezone := strings.TrimSpace(input.Timezone)
	location := time.Local
	if timezone != "" {
		if parsed, err := time.LoadLocation(timezone); err == nil {
			location = parsed
		} else {
			timezone = ""
		}
	}
	if timezone == "" {
		timezone = location.String()
	}

	localNow := now.In(location)
	todayStart := time.Date(localNow.Year(), localNow.Month(), localNow.Day(), 0, 0, 0, 0, location)
	window := dashboardWindow{rangeKey: rangeKey, timezone: timezone}

	switch rangeKey {
	case "today":
		window.startAt = todayStart
		window.endAt = todayStart.AddDate(0, 0, 1)
	case "7d":
		window.startAt = todayStart.AddDate(0, 0, -6)
		window.endAt = todayStart.AddDate(0, 0, 1)
	case "30d":
		window.startAt = todayStart.AddDate(0, 0, -29)
		window.endAt = todayStart.AddDate(0, 0, 1)
	case "custom":
		if input.From == nil || input.To == nil {
			return dashboardWindow{}, ErrDashboardRangeInvalid
		}
		startAt := input.From.In(location)
		endAt := input.To.In(location)
		if endAt.Before(startAt) {
			return dashboardWindow{}, ErrDashboardRangeInvalid
		}
		if endAt.Sub(startAt) > time.Hour*24*dashboardCustomMaxDays {
			return dashboardWindow{}, ErrDashboardRangeInvalid
		}
		window.startAt = startAt
		window.endAt = endAt.Add(time.Second)
	default:
		return dashboardWindow{}, ErrDashboardRangeInvalid
	}

	if !window.endAt.After(window.startAt) {
		return dashboardWindow{}, ErrDashboardRangeInvalid
	}
	return window, nil
}

func formatMoneyValue(value float64) string {
	return fmt.Sprintf("%.2f", value)
}

func formatPercentValue(value float64) string {
	return fmt.Sprintf("%.2f", value)
}

func buildDashboardAlerts(overview repository.DashboardOverviewRow, staleClaims int64) []DashboardAlertItem {
	alerts := make([]DashboardAlertItem, 0, 2)
	if staleClaims > 0 {
		alerts = append(alerts, DashboardAlertItem{Type: "stale_claims", Level: "warning", Value: staleClaims})
	}
	if overview.SubOrdersInReview > 0 {
		alerts = append(alerts, DashboardAlertItem{Type: "pending_reviews", Level: "info", Value: overview.SubOrdersInReview})
	}
	return alerts
}
