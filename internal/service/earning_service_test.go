package service

import (
	"testing"

	"github.com/microtask-next/internal/constants"
	"github.com/microtask-next/internal/models"
	"github.com/microtask-next/internal/repository"

	"github.com/shopspring/decimal"
)

func TestSettleSubOrderIsIdempotent(t *testing.T) {
	env := setupDispatchServiceTest(t)
	commenter := createDispatchTestUser(t, env.db, "commenter@example.com", constants.UserRoleCommenter)

	input := SettleEarningInput{
		SubOrderID:  11,
		TaskID:      7,
		CommenterID: commenter.ID,
		TaskLabel:   "评论任务",
		TaskType:    constants.TaskTypeComment,
		Amount:      models.NewMoneyFromDecimal(decimal.NewFromFloat(2.50)),
	}
	if err := env.earningSvc.SettleSubOrder(input); err != nil {
		t.Fatalf("settle failed: %v", err)
	}
	if err := env.earningSvc.SettleSubOrder(input); err != nil {
		t.Fatalf("repeat settle failed: %v", err)
	}

	var count int64
	if err := env.db.Model(&models.Earning{}).Where("sub_order_id = ?", input.SubOrderID).Count(&count).Error; err != nil {
		t.Fatalf("count earnings failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 earning, got %d", count)
	}
}

func TestEarningSummaryByUser(t *testing.T) {
	env := setupDispatchServiceTest(t)
	commenter := createDispatchTestUser(t, env.db, "commenter@example.com", constants.UserRoleCommenter)
	other := createDispatchTestUser(t, env.db, "other@example.com", constants.UserRoleCommenter)

	amounts := []float64{1.50, 2.00, 0.80}
	for i, amount := range amounts {
		if err := env.earningSvc.SettleSubOrder(SettleEarningInput{
			SubOrderID:  uint(100 + i),
			TaskID:      1,
			CommenterID: commenter.ID,
			TaskLabel:   "评论任务",
			TaskType:    constants.TaskTypeComment,
			Amount:      models.NewMoneyFromDecimal(decimal.NewFromFloat(amount)),
		}); err != nil {
			t.Fatalf("settle failed: %v", err)
		}
	}
	if err := env.earningSvc.SettleSubOrder(SettleEarningInput{
		SubOrderID:  200,
		TaskID:      2,
		CommenterID: other.ID,
		TaskLabel:   "视频任务",
		TaskType:    constants.TaskTypeVideo,
		Amount:      models.NewMoneyFromDecimal(decimal.NewFromInt(5)),
	}); err != nil {
		t.Fatalf("settle failed: %v", err)
	}

	summary, err := env.earningSvc.SummaryByUser(commenter.ID)
	if err != nil {
		t.Fatalf("summary failed: %v", err)
	}
	if summary.TotalCount != 3 {
		t.Fatalf("expected 3 earnings, got %d", summary.TotalCount)
	}
	want := decimal.NewFromFloat(4.30)
	if !summary.TotalAmount.Equal(want) {
		t.Fatalf("expected total %s, got %s", want, summary.TotalAmount)
	}

	items, total, err := env.earningSvc.ListByUser(commenter.ID, repository.EarningListFilter{Page: 1, PageSize: 10})
	if err != nil {
		t.Fatalf("list earnings failed: %v", err)
	}
	if total != 3 || len(items) != 3 {
		t.Fatalf("expected 3 items, got total=%d len=%d", total, len(items))
	}
	for _, item := range items {
		if item.UserID != commenter.ID {
			t.Fatalf("list leaked earning of user %d", item.UserID)
		}
	}

	adminItems, adminTotal, err := env.earningSvc.ListAdmin(repository.EarningListFilter{Page: 1, PageSize: 10})
	if err != nil {
		t.Fatalf("admin list failed: %v", err)
	}
	if adminTotal != 4 || len(adminItems) != 4 {
		t.Fatalf("expected 4 items platform wide, got total=%d len=%d", adminTotal, len(adminItems))
	}
}
