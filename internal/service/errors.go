package service

import "errors"

// 认证与账号
var (
	ErrInvalidCredentials = errors.New("账号或密码错误")
	ErrInvalidPassword    = errors.New("原密码错误")
	ErrWeakPassword       = errors.New("密码强度不足")
	ErrUserDisabled       = errors.New("账号已被禁用")
	ErrEmailTaken         = errors.New("邮箱已注册")
	ErrInvalidEmail       = errors.New("邮箱格式无效")
	ErrRoleInvalid        = errors.New("用户角色无效")
	ErrNotFound           = errors.New("记录不存在")
)

// 任务
var (
	ErrTaskNotFound        = errors.New("任务不存在")
	ErrTaskTitleRequired   = errors.New("任务标题不能为空")
	ErrVideoURLRequired    = errors.New("视频链接不能为空")
	ErrTaskTypeInvalid     = errors.New("任务类型无效")
	ErrTaskQuantityInvalid = errors.New("任务数量超出允许范围")
	ErrTaskPriceInvalid    = errors.New("任务单价必须大于 0")
	ErrTaskDeadlineInvalid = errors.New("任务截止时间必须晚于当前时间")
	ErrNotTaskOwner        = errors.New("只有任务发布者可以执行该操作")
)

// 子订单生命周期
var (
	ErrSubOrderNotFound        = errors.New("子订单不存在")
	ErrSubOrderAlreadyClaimed  = errors.New("子订单已被领取")
	ErrSubOrderStateInvalid    = errors.New("子订单状态不允许该操作")
	ErrSubOrderAlreadyReviewed = errors.New("子订单已审核完成")
	ErrReviewNoteRequired      = errors.New("驳回时必须填写审核备注")
	ErrSubmitEvidenceRequired  = errors.New("评论内容与截图至少填写一项")
	ErrNotClaimOwner           = errors.New("只有领取人可以提交该子订单")
)

// 收益结算
var (
	ErrEarningSettleFailed = errors.New("收益结算失败")
)

// 验证码
var (
	ErrCaptchaRequired      = errors.New("需要验证码")
	ErrCaptchaInvalid       = errors.New("验证码错误或已过期")
	ErrCaptchaConfigInvalid = errors.New("验证码配置无效")
)

// 文件上传
var (
	ErrUploadTypeInvalid = errors.New("不支持的图片类型")
	ErrUploadTooLarge    = errors.New("图片超出大小限制")
)

// 队列
var (
	ErrQueueUnavailable = errors.New("队列服务不可用")
)

// 仪表盘
var (
	ErrDashboardRangeInvalid = errors.New("统计时间范围无效")
)
