package public

import (
	"errors"

	"github.com/microtask-next/internal/http/response"
	"github.com/microtask-next/internal/service"

	"github.com/gin-gonic/gin"
)

// mappedHandlerError 定义业务错误到接口错误响应的映射关系。
type mappedHandlerError struct {
	target error
	code   int
	key    string
}

func respondWithMappedError(c *gin.Context, err error, rules []mappedHandlerError, fallbackCode int, fallbackKey string) {
	for _, rule := range rules {
		if errors.Is(err, rule.target) {
			respondError(c, rule.code, rule.key, nil)
			return
		}
	}
	respondError(c, fallbackCode, fallbackKey, err)
}

var taskCreateErrorRules = []mappedHandlerError{
	{target: service.ErrTaskTitleRequired, code: response.CodeBadRequest, key: "error.task_title_required"},
	{target: service.ErrVideoURLRequired, code: response.CodeBadRequest, key: "error.task_video_url_required"},
	{target: service.ErrTaskTypeInvalid, code: response.CodeBadRequest, key: "error.task_type_invalid"},
	{target: service.ErrTaskQuantityInvalid, code: response.CodeBadRequest, key: "error.task_quantity_invalid"},
	{target: service.ErrTaskPriceInvalid, code: response.CodeBadRequest, key: "error.task_price_invalid"},
	{target: service.ErrTaskDeadlineInvalid, code: response.CodeBadRequest, key: "error.task_deadline_invalid"},
}

var subOrderClaimErrorRules = []mappedHandlerError{
	{target: service.ErrSubOrderNotFound, code: response.CodeNotFound, key: "error.sub_order_not_found"},
	{target: service.ErrSubOrderAlreadyClaimed, code: response.CodeConflict, key: "error.sub_order_already_claimed"},
	{target: service.ErrUserDisabled, code: response.CodeForbidden, key: "error.user_disabled"},
	{target: service.ErrNotFound, code: response.CodeNotFound, key: "error.not_found"},
}

var subOrderSubmitErrorRules = []mappedHandlerError{
	{target: service.ErrSubOrderNotFound, code: response.CodeNotFound, key: "error.sub_order_not_found"},
	{target: service.ErrSubmitEvidenceRequired, code: response.CodeBadRequest, key: "error.submit_evidence_required"},
	{target: service.ErrNotClaimOwner, code: response.CodeForbidden, key: "error.not_claim_owner"},
	{target: service.ErrSubOrderStateInvalid, code: response.CodeConflict, key: "error.sub_order_state_invalid"},
}

var subOrderReviewErrorRules = []mappedHandlerError{
	{target: service.ErrSubOrderNotFound, code: response.CodeNotFound, key: "error.sub_order_not_found"},
	{target: service.ErrNotTaskOwner, code: response.CodeForbidden, key: "error.not_task_owner"},
	{target: service.ErrReviewNoteRequired, code: response.CodeBadRequest, key: "error.review_note_required"},
	{target: service.ErrSubOrderAlreadyReviewed, code: response.CodeConflict, key: "error.sub_order_already_reviewed"},
	{target: service.ErrSubOrderStateInvalid, code: response.CodeConflict, key: "error.sub_order_state_invalid"},
	{target: service.ErrEarningSettleFailed, code: response.CodeInternal, key: "error.earning_settle_failed"},
}

func respondTaskCreateError(c *gin.Context, err error) {
	respondWithMappedError(c, err, taskCreateErrorRules, response.CodeInternal, "error.task_create_failed")
}

func respondSubOrderClaimError(c *gin.Context, err error) {
	respondWithMappedError(c, err, subOrderClaimErrorRules, response.CodeInternal, "error.claim_failed")
}

func respondSubOrderSubmitError(c *gin.Context, err error) {
	respondWithMappedError(c, err, subOrderSubmitErrorRules, response.CodeInternal, "error.submit_failed")
}

func respondSubOrderReviewError(c *gin.Context, err error) {
	respondWithMappedError(c, err, subOrderReviewErrorRules, response.CodeInternal, "error.review_failed")
}
