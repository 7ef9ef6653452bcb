package constants

// 任务状态常量（父单）
const (
	TaskStatusInProgress    = "in_progress"
	TaskStatusMainCompleted = "main_completed"
)

// 子订单状态常量（规范值）
const (
	SubOrderStatusPending       = "pending"
	SubOrderStatusClaimed       = "claimed"
	SubOrderStatusPendingReview = "pending_review"
	SubOrderStatusCompleted     = "completed"
)

// 子订单历史别名常量
// 旧版客户端用这些值表示“已领取”，入口处统一归一为 claimed
const (
	SubOrderLegacyInProgress  = "in_progress"
	SubOrderLegacyInProgress2 = "inProgress"
	SubOrderLegacySubProgress = "sub_progress"
)

// 任务类型常量
const (
	TaskTypeComment       = "comment"
	TaskTypeVideo         = "video"
	TaskTypeAccountRental = "account_rental"
)

// 收益状态常量
const (
	EarningStatusSettled = "settled"
)

// 用户角色常量
const (
	UserRolePublisher = "publisher"
	UserRoleCommenter = "commenter"
)

// 用户状态常量
const (
	UserStatusActive   = "active"
	UserStatusDisabled = "disabled"
)

// 任务编号前缀常量
const (
	TaskNoPrefix = "MT"
)

// 队列常量
const (
	QueueDefault         = "default"
	TaskSubOrderRelease  = "suborder:release_check"
	TaskTaskStatusResync = "task:status_resync"
)

// 缓存默认配置常量
const (
	RedisPrefixDefault = "mt"
)

// 验证码提供方常量
const (
	CaptchaProviderNone  = "none"
	CaptchaProviderImage = "image"
)

// 验证码校验场景常量
const (
	CaptchaSceneLogin = "login"
)

// 站点语言常量
const (
	LocaleZhCN = "zh-CN"
	LocaleEnUS = "en-US"
)

// 支持的站点语言顺序（含回退顺序）
var SupportedLocales = []string{LocaleZhCN, LocaleEnUS}
