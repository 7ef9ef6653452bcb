package service

import (
	"errors"
	"testing"

	"github.com/microtask-next/internal/constants"
	"github.com/microtask-next/internal/models"
	"github.com/microtask-next/internal/repository"
)

// flakyEarningSink 可控失败的结算落账，透传给真实收益服务
type flakyEarningSink struct {
	inner *EarningService
	fail  bool
	calls int
}

func (f *flakyEarningSink) SettleSubOrder(input SettleEarningInput) error {
	f.calls++
	if f.fail {
		return errors.New("台账暂不可用")
	}
	return f.inner.SettleSubOrder(input)
}

func (f *flakyEarningSink) HasSettlement(subOrderID uint) (bool, error) {
	return f.inner.HasSettlement(subOrderID)
}

func submitDispatchTestSubOrder(t *testing.T, env *dispatchTestEnv, subID, commenterID uint) {
	t.Helper()
	if _, err := env.subSvc.Claim(subID, commenterID); err != nil {
		t.Fatalf("claim failed: %v", err)
	}
	if _, err := env.subSvc.Submit(subID, commenterID, "评论已完成", "https://img.example.com/shot.png"); err != nil {
		t.Fatalf("submit failed: %v", err)
	}
}

func TestApproveSettlesEarningOnce(t *testing.T) {
	env := setupDispatchServiceTest(t)
	owner := createDispatchTestUser(t, env.db, "owner@example.com", constants.UserRolePublisher)
	commenter := createDispatchTestUser(t, env.db, "commenter@example.com", constants.UserRoleCommenter)
	task := createDispatchTestTask(t, env, owner.ID, 2)
	subID := firstSubOrderID(t, env, task.ID)
	submitDispatchTestSubOrder(t, env, subID, commenter.ID)

	sub, err := env.reviewSvc.Approve(subID, owner.ID)
	if err != nil {
		t.Fatalf("approve failed: %v", err)
	}
	if sub.Status != constants.SubOrderStatusCompleted {
		t.Fatalf("expected completed, got %s", sub.Status)
	}

	var earnings []models.Earning
	if err := env.db.Where("sub_order_id = ?", subID).Find(&earnings).Error; err != nil {
		t.Fatalf("load earnings failed: %v", err)
	}
	if len(earnings) != 1 {
		t.Fatalf("expected exactly 1 earning, got %d", len(earnings))
	}
	earning := earnings[0]
	if earning.UserID != commenter.ID {
		t.Fatalf("earning belongs to %d, expected %d", earning.UserID, commenter.ID)
	}
	if earning.TaskID != task.ID || earning.TaskLabel != task.Title || earning.TaskType != task.TaskType {
		t.Fatalf("earning snapshot mismatch: %+v", earning)
	}
	if earning.Status != constants.EarningStatusSettled {
		t.Fatalf("expected settled earning, got %s", earning.Status)
	}
	if !earning.Amount.Equal(task.UnitPrice.Decimal) {
		t.Fatalf("expected amount %s, got %s", task.UnitPrice, earning.Amount)
	}

	// completed 为终态，重复审核被拒绝且不会二次落账
	if _, err := env.reviewSvc.Approve(subID, owner.ID); err != ErrSubOrderAlreadyReviewed {
		t.Fatalf("expected %v, got %v", ErrSubOrderAlreadyReviewed, err)
	}
	var count int64
	if err := env.db.Model(&models.Earning{}).Where("sub_order_id = ?", subID).Count(&count).Error; err != nil {
		t.Fatalf("count earnings failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 earning after double approve, got %d", count)
	}
}

func TestApproveSettleFailureSyncsAggregateAndAllowsRetry(t *testing.T) {
	env := setupDispatchServiceTest(t)
	owner := createDispatchTestUser(t, env.db, "owner@example.com", constants.UserRolePublisher)
	commenter := createDispatchTestUser(t, env.db, "commenter@example.com", constants.UserRoleCommenter)
	task := createDispatchTestTask(t, env, owner.ID, 1)
	subID := firstSubOrderID(t, env, task.ID)
	submitDispatchTestSubOrder(t, env, subID, commenter.ID)

	sink := &flakyEarningSink{inner: env.earningSvc, fail: true}
	reviewSvc := NewReviewService(env.taskRepo, env.subRepo, sink)

	if _, err := reviewSvc.Approve(subID, owner.ID); err != ErrEarningSettleFailed {
		t.Fatalf("expected %v, got %v", ErrEarningSettleFailed, err)
	}

	// 结算失败不能破坏终态与任务聚合
	var sub models.SubOrder
	if err := env.db.First(&sub, subID).Error; err != nil {
		t.Fatalf("reload sub order failed: %v", err)
	}
	if sub.Status != constants.SubOrderStatusCompleted {
		t.Fatalf("expected completed, got %s", sub.Status)
	}
	var reloaded models.Task
	if err := env.db.First(&reloaded, task.ID).Error; err != nil {
		t.Fatalf("reload task failed: %v", err)
	}
	if reloaded.CompletedQuantity != 1 {
		t.Fatalf("expected completed_quantity 1, got %d", reloaded.CompletedQuantity)
	}
	if reloaded.Status != constants.TaskStatusMainCompleted {
		t.Fatalf("expected main_completed, got %s", reloaded.Status)
	}

	// 台账恢复后重试审核补上缺失的结算
	sink.fail = false
	recovered, err := reviewSvc.Approve(subID, owner.ID)
	if err != nil {
		t.Fatalf("retry approve failed: %v", err)
	}
	if recovered.Status != constants.SubOrderStatusCompleted {
		t.Fatalf("expected completed, got %s", recovered.Status)
	}
	if sink.calls != 2 {
		t.Fatalf("expected 2 settle attempts, got %d", sink.calls)
	}
	var count int64
	if err := env.db.Model(&models.Earning{}).Where("sub_order_id = ?", subID).Count(&count).Error; err != nil {
		t.Fatalf("count earnings failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 earning after retry, got %d", count)
	}

	// 补齐之后的再次审核回到重复审核错误
	if _, err := reviewSvc.Approve(subID, owner.ID); err != ErrSubOrderAlreadyReviewed {
		t.Fatalf("expected %v, got %v", ErrSubOrderAlreadyReviewed, err)
	}
	if err := env.db.Model(&models.Earning{}).Where("sub_order_id = ?", subID).Count(&count).Error; err != nil {
		t.Fatalf("count earnings failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 earning, got %d", count)
	}
}

func TestApproveRequiresTaskOwner(t *testing.T) {
	env := setupDispatchServiceTest(t)
	owner := createDispatchTestUser(t, env.db, "owner@example.com", constants.UserRolePublisher)
	other := createDispatchTestUser(t, env.db, "other@example.com", constants.UserRolePublisher)
	commenter := createDispatchTestUser(t, env.db, "commenter@example.com", constants.UserRoleCommenter)
	task := createDispatchTestTask(t, env, owner.ID, 1)
	subID := firstSubOrderID(t, env, task.ID)
	submitDispatchTestSubOrder(t, env, subID, commenter.ID)

	if _, err := env.reviewSvc.Approve(subID, other.ID); err != ErrNotTaskOwner {
		t.Fatalf("expected %v, got %v", ErrNotTaskOwner, err)
	}
}

func TestApproveRejectsWrongState(t *testing.T) {
	env := setupDispatchServiceTest(t)
	owner := createDispatchTestUser(t, env.db, "owner@example.com", constants.UserRolePublisher)
	commenter := createDispatchTestUser(t, env.db, "commenter@example.com", constants.UserRoleCommenter)
	task := createDispatchTestTask(t, env, owner.ID, 1)
	subID := firstSubOrderID(t, env, task.ID)

	// pending 不可审核
	if _, err := env.reviewSvc.Approve(subID, owner.ID); err != ErrSubOrderStateInvalid {
		t.Fatalf("expected %v, got %v", ErrSubOrderStateInvalid, err)
	}
	// claimed 亦不可审核
	if _, err := env.subSvc.Claim(subID, commenter.ID); err != nil {
		t.Fatalf("claim failed: %v", err)
	}
	if _, err := env.reviewSvc.Approve(subID, owner.ID); err != ErrSubOrderStateInvalid {
		t.Fatalf("expected %v, got %v", ErrSubOrderStateInvalid, err)
	}
}

func TestRejectReturnsSubOrderToPool(t *testing.T) {
	env := setupDispatchServiceTest(t)
	owner := createDispatchTestUser(t, env.db, "owner@example.com", constants.UserRolePublisher)
	commenter := createDispatchTestUser(t, env.db, "commenter@example.com", constants.UserRoleCommenter)
	next := createDispatchTestUser(t, env.db, "next@example.com", constants.UserRoleCommenter)
	task := createDispatchTestTask(t, env, owner.ID, 1)
	subID := firstSubOrderID(t, env, task.ID)
	submitDispatchTestSubOrder(t, env, subID, commenter.ID)

	// 驳回说明必填
	if _, err := env.reviewSvc.Reject(subID, owner.ID, "  "); err != ErrReviewNoteRequired {
		t.Fatalf("expected %v, got %v", ErrReviewNoteRequired, err)
	}

	sub, err := env.reviewSvc.Reject(subID, owner.ID, "评论与视频内容无关")
	if err != nil {
		t.Fatalf("reject failed: %v", err)
	}
	if sub.Status != constants.SubOrderStatusPending {
		t.Fatalf("expected pending after reject, got %s", sub.Status)
	}
	if sub.CommenterID != nil || sub.ClaimedAt != nil || sub.CommentContent != "" || sub.ScreenshotURL != "" {
		t.Fatalf("expected claim and submission fields cleared, got %+v", sub)
	}
	if sub.ReviewNote != "评论与视频内容无关" {
		t.Fatalf("expected review note kept, got %q", sub.ReviewNote)
	}

	// 驳回不产生收益
	var count int64
	if err := env.db.Model(&models.Earning{}).Where("sub_order_id = ?", subID).Count(&count).Error; err != nil {
		t.Fatalf("count earnings failed: %v", err)
	}
	if count != 0 {
		t.Fatalf("reject must not settle earnings, got %d", count)
	}

	// 回池后可被其他人领取，领取时清掉上一轮的驳回说明
	reclaimed, err := env.subSvc.Claim(subID, next.ID)
	if err != nil {
		t.Fatalf("reclaim after reject failed: %v", err)
	}
	if reclaimed.ReviewNote != "" {
		t.Fatalf("expected review note cleared on reclaim, got %q", reclaimed.ReviewNote)
	}
}

func TestApproveAllSubOrdersCompletesTask(t *testing.T) {
	env := setupDispatchServiceTest(t)
	owner := createDispatchTestUser(t, env.db, "owner@example.com", constants.UserRolePublisher)
	commenter := createDispatchTestUser(t, env.db, "commenter@example.com", constants.UserRoleCommenter)
	task := createDispatchTestTask(t, env, owner.ID, 2)

	var subs []models.SubOrder
	if err := env.db.Where("task_id = ?", task.ID).Order("seq ASC").Find(&subs).Error; err != nil {
		t.Fatalf("load sub orders failed: %v", err)
	}

	for i, sub := range subs {
		submitDispatchTestSubOrder(t, env, sub.ID, commenter.ID)
		if _, err := env.reviewSvc.Approve(sub.ID, owner.ID); err != nil {
			t.Fatalf("approve %d failed: %v", sub.ID, err)
		}

		var reloaded models.Task
		if err := env.db.First(&reloaded, task.ID).Error; err != nil {
			t.Fatalf("reload task failed: %v", err)
		}
		if reloaded.CompletedQuantity != i+1 {
			t.Fatalf("expected completed_quantity %d, got %d", i+1, reloaded.CompletedQuantity)
		}
		wantStatus := constants.TaskStatusInProgress
		if i == len(subs)-1 {
			wantStatus = constants.TaskStatusMainCompleted
		}
		if reloaded.Status != wantStatus {
			t.Fatalf("expected task status %s, got %s", wantStatus, reloaded.Status)
		}
	}
}

func TestListPendingReviewsScopedToOwner(t *testing.T) {
	env := setupDispatchServiceTest(t)
	owner := createDispatchTestUser(t, env.db, "owner@example.com", constants.UserRolePublisher)
	other := createDispatchTestUser(t, env.db, "other@example.com", constants.UserRolePublisher)
	commenter := createDispatchTestUser(t, env.db, "commenter@example.com", constants.UserRoleCommenter)
	task := createDispatchTestTask(t, env, owner.ID, 1)
	subID := firstSubOrderID(t, env, task.ID)
	submitDispatchTestSubOrder(t, env, subID, commenter.ID)

	items, total, err := env.reviewSvc.ListPendingReviews(owner.ID, repository.SubOrderListFilter{Page: 1, PageSize: 10})
	if err != nil {
		t.Fatalf("list pending reviews failed: %v", err)
	}
	if total != 1 || len(items) != 1 {
		t.Fatalf("expected 1 pending review, got total=%d len=%d", total, len(items))
	}

	_, total, err = env.reviewSvc.ListPendingReviews(other.ID, repository.SubOrderListFilter{Page: 1, PageSize: 10})
	if err != nil {
		t.Fatalf("list pending reviews failed: %v", err)
	}
	if total != 0 {
		t.Fatalf("other publisher must not see pending reviews, got %d", total)
	}
}
