package service

import (
	"errors"
	"testing"
	"time"

	"github.com/microtask-next/internal/constants"
	"github.com/microtask-next/internal/models"
	"github.com/microtask-next/internal/repository"
)

func firstSubOrderID(t *testing.T, env *dispatchTestEnv, taskID uint) uint {
	t.Helper()
	var sub models.SubOrder
	if err := env.db.Where("task_id = ?", taskID).Order("seq ASC").First(&sub).Error; err != nil {
		t.Fatalf("load first sub order failed: %v", err)
	}
	return sub.ID
}

func TestNormalizeSubOrderStatus(t *testing.T) {
	cases := map[string]string{
		"pending":        constants.SubOrderStatusPending,
		"claimed":        constants.SubOrderStatusClaimed,
		"pending_review": constants.SubOrderStatusPendingReview,
		"completed":      constants.SubOrderStatusCompleted,
		"in_progress":    constants.SubOrderStatusClaimed,
		"inProgress":     constants.SubOrderStatusClaimed,
		"sub_progress":   constants.SubOrderStatusClaimed,
		" claimed ":      constants.SubOrderStatusClaimed,
		"bogus":          "bogus",
	}
	for raw, want := range cases {
		if got := normalizeSubOrderStatus(raw); got != want {
			t.Fatalf("normalize %q: expected %q, got %q", raw, want, got)
		}
	}
}

func TestClaimSubOrder(t *testing.T) {
	env := setupDispatchServiceTest(t)
	owner := createDispatchTestUser(t, env.db, "owner@example.com", constants.UserRolePublisher)
	commenter := createDispatchTestUser(t, env.db, "commenter@example.com", constants.UserRoleCommenter)
	task := createDispatchTestTask(t, env, owner.ID, 2)
	subID := firstSubOrderID(t, env, task.ID)

	sub, err := env.subSvc.Claim(subID, commenter.ID)
	if err != nil {
		t.Fatalf("claim failed: %v", err)
	}
	if sub.Status != constants.SubOrderStatusClaimed {
		t.Fatalf("expected claimed, got %s", sub.Status)
	}
	if sub.CommenterID == nil || *sub.CommenterID != commenter.ID {
		t.Fatalf("expected commenter %d, got %+v", commenter.ID, sub.CommenterID)
	}
	if sub.CommenterName != commenter.DisplayName {
		t.Fatalf("expected commenter name snapshot %q, got %q", commenter.DisplayName, sub.CommenterName)
	}
	if sub.ClaimedAt == nil {
		t.Fatalf("expected claimed_at to be set")
	}
}

func TestClaimSubOrderLoserGetsAlreadyClaimed(t *testing.T) {
	env := setupDispatchServiceTest(t)
	owner := createDispatchTestUser(t, env.db, "owner@example.com", constants.UserRolePublisher)
	first := createDispatchTestUser(t, env.db, "first@example.com", constants.UserRoleCommenter)
	second := createDispatchTestUser(t, env.db, "second@example.com", constants.UserRoleCommenter)
	task := createDispatchTestTask(t, env, owner.ID, 1)
	subID := firstSubOrderID(t, env, task.ID)

	if _, err := env.subSvc.Claim(subID, first.ID); err != nil {
		t.Fatalf("first claim failed: %v", err)
	}
	if _, err := env.subSvc.Claim(subID, second.ID); err != ErrSubOrderAlreadyClaimed {
		t.Fatalf("expected %v, got %v", ErrSubOrderAlreadyClaimed, err)
	}
}

func TestClaimSubOrderConcurrentSingleWinner(t *testing.T) {
	env := setupDispatchServiceTest(t)
	owner := createDispatchTestUser(t, env.db, "owner@example.com", constants.UserRolePublisher)
	first := createDispatchTestUser(t, env.db, "first@example.com", constants.UserRoleCommenter)
	second := createDispatchTestUser(t, env.db, "second@example.com", constants.UserRoleCommenter)
	task := createDispatchTestTask(t, env, owner.ID, 1)
	subID := firstSubOrderID(t, env, task.ID)

	start := make(chan struct{})
	results := make(chan error, 2)
	for _, uid := range []uint{first.ID, second.ID} {
		uid := uid
		go func() {
			<-start
			_, err := env.subSvc.Claim(subID, uid)
			results <- err
		}()
	}
	close(start)

	var wins, losses int
	for i := 0; i < 2; i++ {
		switch err := <-results; {
		case err == nil:
			wins++
		case errors.Is(err, ErrSubOrderAlreadyClaimed):
			losses++
		default:
			t.Fatalf("unexpected claim error: %v", err)
		}
	}
	if wins != 1 || losses != 1 {
		t.Fatalf("expected exactly one winner, got wins=%d losses=%d", wins, losses)
	}

	var sub models.SubOrder
	if err := env.db.First(&sub, subID).Error; err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if sub.Status != constants.SubOrderStatusClaimed || sub.CommenterID == nil {
		t.Fatalf("expected single claimed winner, got %+v", sub)
	}
}

func TestClaimSubOrderRejectsDisabledUser(t *testing.T) {
	env := setupDispatchServiceTest(t)
	owner := createDispatchTestUser(t, env.db, "owner@example.com", constants.UserRolePublisher)
	commenter := createDispatchTestUser(t, env.db, "banned@example.com", constants.UserRoleCommenter)
	task := createDispatchTestTask(t, env, owner.ID, 1)
	subID := firstSubOrderID(t, env, task.ID)

	if err := env.db.Model(&models.User{}).Where("id = ?", commenter.ID).
		Update("status", constants.UserStatusDisabled).Error; err != nil {
		t.Fatalf("disable user failed: %v", err)
	}
	if _, err := env.subSvc.Claim(subID, commenter.ID); err != ErrUserDisabled {
		t.Fatalf("expected %v, got %v", ErrUserDisabled, err)
	}
}

func TestClaimSubOrderNotFound(t *testing.T) {
	env := setupDispatchServiceTest(t)
	commenter := createDispatchTestUser(t, env.db, "commenter@example.com", constants.UserRoleCommenter)

	if _, err := env.subSvc.Claim(9999, commenter.ID); err != ErrSubOrderNotFound {
		t.Fatalf("expected %v, got %v", ErrSubOrderNotFound, err)
	}
}

func TestSubmitSubOrder(t *testing.T) {
	env := setupDispatchServiceTest(t)
	owner := createDispatchTestUser(t, env.db, "owner@example.com", constants.UserRolePublisher)
	commenter := createDispatchTestUser(t, env.db, "commenter@example.com", constants.UserRoleCommenter)
	task := createDispatchTestTask(t, env, owner.ID, 1)
	subID := firstSubOrderID(t, env, task.ID)

	if _, err := env.subSvc.Claim(subID, commenter.ID); err != nil {
		t.Fatalf("claim failed: %v", err)
	}
	sub, err := env.subSvc.Submit(subID, commenter.ID, "视频里的开箱环节很真实", "https://img.example.com/shot.png")
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if sub.Status != constants.SubOrderStatusPendingReview {
		t.Fatalf("expected pending_review, got %s", sub.Status)
	}
	if sub.CommentContent != "视频里的开箱环节很真实" {
		t.Fatalf("unexpected comment content: %q", sub.CommentContent)
	}
	if sub.CommentTime == nil {
		t.Fatalf("expected comment_time to be set")
	}
	if sub.ScreenshotURL != "https://img.example.com/shot.png" {
		t.Fatalf("unexpected screenshot url: %q", sub.ScreenshotURL)
	}
}

func TestSubmitSubOrderWithScreenshotOnly(t *testing.T) {
	env := setupDispatchServiceTest(t)
	owner := createDispatchTestUser(t, env.db, "owner@example.com", constants.UserRolePublisher)
	commenter := createDispatchTestUser(t, env.db, "commenter@example.com", constants.UserRoleCommenter)
	task := createDispatchTestTask(t, env, owner.ID, 1)
	subID := firstSubOrderID(t, env, task.ID)

	if _, err := env.subSvc.Claim(subID, commenter.ID); err != nil {
		t.Fatalf("claim failed: %v", err)
	}
	// 只带截图不带评论内容同样进入待审核
	sub, err := env.subSvc.Submit(subID, commenter.ID, "", "https://img.example.com/only-shot.png")
	if err != nil {
		t.Fatalf("screenshot-only submit failed: %v", err)
	}
	if sub.Status != constants.SubOrderStatusPendingReview {
		t.Fatalf("expected pending_review, got %s", sub.Status)
	}
	if sub.ScreenshotURL != "https://img.example.com/only-shot.png" {
		t.Fatalf("unexpected screenshot url: %q", sub.ScreenshotURL)
	}
	if sub.CommentContent != "" {
		t.Fatalf("expected empty comment content, got %q", sub.CommentContent)
	}
}

func TestSubmitSubOrderGuards(t *testing.T) {
	env := setupDispatchServiceTest(t)
	owner := createDispatchTestUser(t, env.db, "owner@example.com", constants.UserRolePublisher)
	commenter := createDispatchTestUser(t, env.db, "commenter@example.com", constants.UserRoleCommenter)
	stranger := createDispatchTestUser(t, env.db, "stranger@example.com", constants.UserRoleCommenter)
	task := createDispatchTestTask(t, env, owner.ID, 1)
	subID := firstSubOrderID(t, env, task.ID)

	// 未领取时提交
	if _, err := env.subSvc.Submit(subID, commenter.ID, "内容", ""); err != ErrNotClaimOwner {
		t.Fatalf("expected %v, got %v", ErrNotClaimOwner, err)
	}

	if _, err := env.subSvc.Claim(subID, commenter.ID); err != nil {
		t.Fatalf("claim failed: %v", err)
	}

	if _, err := env.subSvc.Submit(subID, commenter.ID, "   ", "  "); err != ErrSubmitEvidenceRequired {
		t.Fatalf("expected %v, got %v", ErrSubmitEvidenceRequired, err)
	}
	if _, err := env.subSvc.Submit(subID, stranger.ID, "内容", ""); err != ErrNotClaimOwner {
		t.Fatalf("expected %v, got %v", ErrNotClaimOwner, err)
	}

	// 已进入待审核后重复提交
	if _, err := env.subSvc.Submit(subID, commenter.ID, "内容", ""); err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if _, err := env.subSvc.Submit(subID, commenter.ID, "再次提交", ""); err != ErrSubOrderStateInvalid {
		t.Fatalf("expected %v, got %v", ErrSubOrderStateInvalid, err)
	}
}

func TestSubmitSubOrderAcceptsLegacyClaimedStatus(t *testing.T) {
	env := setupDispatchServiceTest(t)
	owner := createDispatchTestUser(t, env.db, "owner@example.com", constants.UserRolePublisher)
	commenter := createDispatchTestUser(t, env.db, "commenter@example.com", constants.UserRoleCommenter)
	task := createDispatchTestTask(t, env, owner.ID, 1)
	subID := firstSubOrderID(t, env, task.ID)

	// 模拟存量数据里的历史状态别名
	now := time.Now()
	if err := env.db.Model(&models.SubOrder{}).Where("id = ?", subID).
		Updates(map[string]interface{}{
			"status":       constants.SubOrderLegacyInProgress,
			"commenter_id": commenter.ID,
			"claimed_at":   now,
		}).Error; err != nil {
		t.Fatalf("seed legacy status failed: %v", err)
	}

	sub, err := env.subSvc.Submit(subID, commenter.ID, "历史客户端提交的评论", "")
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if sub.Status != constants.SubOrderStatusPendingReview {
		t.Fatalf("expected pending_review, got %s", sub.Status)
	}
}

func TestReleaseStaleClaims(t *testing.T) {
	env := setupDispatchServiceTest(t)
	owner := createDispatchTestUser(t, env.db, "owner@example.com", constants.UserRolePublisher)
	slow := createDispatchTestUser(t, env.db, "slow@example.com", constants.UserRoleCommenter)
	fast := createDispatchTestUser(t, env.db, "fast@example.com", constants.UserRoleCommenter)
	task := createDispatchTestTask(t, env, owner.ID, 2)

	var subs []models.SubOrder
	if err := env.db.Where("task_id = ?", task.ID).Order("seq ASC").Find(&subs).Error; err != nil {
		t.Fatalf("load sub orders failed: %v", err)
	}
	if _, err := env.subSvc.Claim(subs[0].ID, slow.ID); err != nil {
		t.Fatalf("claim failed: %v", err)
	}
	if _, err := env.subSvc.Claim(subs[1].ID, fast.ID); err != nil {
		t.Fatalf("claim failed: %v", err)
	}

	// 第一单领取时间回拨到阈值之外
	stale := time.Now().Add(-env.subSvc.ClaimTimeout() - time.Minute)
	if err := env.db.Model(&models.SubOrder{}).Where("id = ?", subs[0].ID).
		Update("claimed_at", stale).Error; err != nil {
		t.Fatalf("backdate claim failed: %v", err)
	}

	released, err := env.subSvc.ReleaseStaleClaims(task.ID)
	if err != nil {
		t.Fatalf("release failed: %v", err)
	}
	if released != 1 {
		t.Fatalf("expected 1 released, got %d", released)
	}

	var releasedSub models.SubOrder
	if err := env.db.First(&releasedSub, subs[0].ID).Error; err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if releasedSub.Status != constants.SubOrderStatusPending {
		t.Fatalf("expected pending after release, got %s", releasedSub.Status)
	}
	if releasedSub.CommenterID != nil || releasedSub.ClaimedAt != nil {
		t.Fatalf("expected claim fields cleared, got %+v", releasedSub)
	}

	var freshSub models.SubOrder
	if err := env.db.First(&freshSub, subs[1].ID).Error; err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if freshSub.Status != constants.SubOrderStatusClaimed {
		t.Fatalf("fresh claim must survive, got %s", freshSub.Status)
	}

	// 已释放的子订单可以被重新领取
	if _, err := env.subSvc.Claim(subs[0].ID, fast.ID); err != nil {
		t.Fatalf("reclaim after release failed: %v", err)
	}
}

func TestReleaseOneSkipsFreshClaim(t *testing.T) {
	env := setupDispatchServiceTest(t)
	owner := createDispatchTestUser(t, env.db, "owner@example.com", constants.UserRolePublisher)
	commenter := createDispatchTestUser(t, env.db, "commenter@example.com", constants.UserRoleCommenter)
	task := createDispatchTestTask(t, env, owner.ID, 1)
	subID := firstSubOrderID(t, env, task.ID)

	if _, err := env.subSvc.Claim(subID, commenter.ID); err != nil {
		t.Fatalf("claim failed: %v", err)
	}
	released, err := env.subSvc.ReleaseOne(subID)
	if err != nil {
		t.Fatalf("release one failed: %v", err)
	}
	if released {
		t.Fatalf("fresh claim must not be released")
	}

	stale := time.Now().Add(-env.subSvc.ClaimTimeout() - time.Minute)
	if err := env.db.Model(&models.SubOrder{}).Where("id = ?", subID).
		Update("claimed_at", stale).Error; err != nil {
		t.Fatalf("backdate claim failed: %v", err)
	}
	released, err = env.subSvc.ReleaseOne(subID)
	if err != nil {
		t.Fatalf("release one failed: %v", err)
	}
	if !released {
		t.Fatalf("stale claim should be released")
	}
}

func TestListClaimableExcludesClaimed(t *testing.T) {
	env := setupDispatchServiceTest(t)
	owner := createDispatchTestUser(t, env.db, "owner@example.com", constants.UserRolePublisher)
	commenter := createDispatchTestUser(t, env.db, "commenter@example.com", constants.UserRoleCommenter)
	task := createDispatchTestTask(t, env, owner.ID, 3)
	subID := firstSubOrderID(t, env, task.ID)

	if _, err := env.subSvc.Claim(subID, commenter.ID); err != nil {
		t.Fatalf("claim failed: %v", err)
	}

	items, total, err := env.subSvc.ListClaimable(repository.SubOrderListFilter{TaskID: task.ID, Page: 1, PageSize: 10})
	if err != nil {
		t.Fatalf("list claimable failed: %v", err)
	}
	if total != 2 || len(items) != 2 {
		t.Fatalf("expected 2 claimable, got total=%d len=%d", total, len(items))
	}
	for _, item := range items {
		if item.Status != constants.SubOrderStatusPending {
			t.Fatalf("claimable list must only contain pending, got %s", item.Status)
		}
	}
}
