package i18n

// messages 文案表，按语言分组
var messages = map[string]map[string]string{
	LocaleZH: {
		"error.bad_request":                 "请求参数有误",
		"error.unauthorized":                "请先登录",
		"error.forbidden":                   "没有权限执行该操作",
		"error.not_found":                   "资源不存在",
		"error.internal":                    "服务器开小差了，请稍后再试",
		"error.too_many_requests":           "请求过于频繁，请稍后再试",
		"error.rate_limited":                "操作过于频繁，请 %d 秒后再试",
		"error.rate_limit_unavailable":      "限流服务暂不可用，请稍后再试",
		"error.token_missing":               "缺少登录凭证",
		"error.token_invalid":               "登录凭证无效，请重新登录",
		"error.token_revoked":               "登录状态已失效，请重新登录",
		"error.auth_header_missing":         "缺少 Authorization 请求头",
		"error.auth_header_invalid":         "Authorization 请求头格式错误",
		"error.jwt_secret_missing":          "服务端未配置签名密钥",
		"error.invalid_credentials":         "账号或密码错误",
		"error.invalid_password":            "原密码错误",
		"error.user_disabled":               "账号已被禁用",
		"error.email_taken":                 "该邮箱已注册",
		"error.weak_password":               "密码强度不足",
		"error.role_invalid":                "用户角色无效",
		"error.captcha_required":            "请完成验证码",
		"error.captcha_invalid":             "验证码错误或已过期",
		"error.task_not_found":              "任务不存在",
		"error.task_title_required":         "任务标题不能为空",
		"error.task_video_url_required":     "视频链接不能为空",
		"error.task_type_invalid":           "任务类型无效",
		"error.task_quantity_invalid":       "任务数量超出允许范围",
		"error.task_price_invalid":          "单价必须大于 0",
		"error.task_deadline_invalid":       "截止时间必须晚于当前时间",
		"error.task_create_failed":          "任务创建失败",
		"error.sub_order_not_found":         "子订单不存在",
		"error.sub_order_already_claimed":   "该子订单已被领取",
		"error.sub_order_state_invalid":     "子订单当前状态不允许该操作",
		"error.sub_order_already_reviewed":  "该子订单已审核完成",
		"error.review_note_required":        "驳回时必须填写审核备注",
		"error.submit_evidence_required":    "评论内容与截图至少填写一项",
		"error.not_task_owner":              "只有任务发布者可以执行该操作",
		"error.not_claim_owner":             "只有领取人可以提交该子订单",
		"error.earning_settle_failed":       "收益结算失败",
		"error.upload_type_invalid":         "不支持的图片类型",
		"error.upload_too_large":            "图片超出大小限制",
		"error.upload_failed":               "上传失败，请重试",
		"error.invalid_email":               "邮箱格式无效",
		"error.captcha_config_invalid":      "验证码配置无效",
		"error.queue_unavailable":           "队列服务不可用",
		"error.dashboard_range_invalid":     "统计时间范围无效",
		"error.password_min_length":         "密码长度至少 %d 位",
		"error.password_require_upper":      "密码需要包含大写字母",
		"error.password_require_lower":      "密码需要包含小写字母",
		"error.password_require_number":     "密码需要包含数字",
		"error.password_require_special":    "密码需要包含特殊字符",
		"error.user_id_invalid":             "用户身份缺失，请重新登录",
		"error.user_id_type_invalid":        "用户身份异常，请重新登录",
		"error.admin_id_invalid":            "管理员身份缺失，请重新登录",
		"error.admin_id_type_invalid":       "管理员身份异常，请重新登录",
		"error.user_not_found":              "用户不存在",
		"error.user_fetch_failed":           "获取用户信息失败",
		"error.user_update_failed":          "更新用户信息失败",
		"error.user_status_invalid":         "用户状态无效",
		"error.register_failed":             "注册失败，请稍后再试",
		"error.login_failed":                "登录失败，请稍后再试",
		"error.login_too_many":              "登录尝试过于频繁，请稍后再试",
		"error.save_failed":                 "保存失败，请稍后再试",
		"error.task_fetch_failed":           "获取任务失败",
		"error.sub_order_fetch_failed":      "获取子订单失败",
		"error.claim_failed":                "领取失败，请稍后再试",
		"error.submit_failed":               "提交失败，请稍后再试",
		"error.review_failed":               "审核操作失败",
		"error.release_failed":              "释放超时领取失败",
		"error.earning_fetch_failed":        "获取收益记录失败",
		"error.dashboard_fetch_failed":      "获取统计数据失败",
		"error.config_fetch_failed":         "获取站点配置失败",
		"error.captcha_unavailable":         "验证码服务未启用",
		"error.captcha_generate_failed":     "验证码生成失败",
		"error.file_missing":                "请选择要上传的文件",
		"error.admin_username_invalid":      "管理员用户名格式无效",
		"error.admin_username_exists":       "该管理员用户名已存在",
		"error.admin_create_failed":         "创建管理员失败",
		"error.admin_update_failed":         "更新管理员失败",
		"error.admin_delete_failed":         "删除管理员失败",
		"error.admin_delete_self_forbidden": "不能删除当前登录的管理员",
		"error.admin_delete_protected":      "不能删除受保护的超级管理员",
		"error.admin_delete_last_forbidden": "至少需要保留一个管理员",
	},
	LocaleEN: {
		"error.bad_request":                 "Invalid request parameters",
		"error.unauthorized":                "Please sign in first",
		"error.forbidden":                   "You are not allowed to perform this action",
		"error.not_found":                   "Resource not found",
		"error.internal":                    "Something went wrong, please try again later",
		"error.too_many_requests":           "Too many requests, please slow down",
		"error.rate_limited":                "Too many attempts, please retry in %d seconds",
		"error.rate_limit_unavailable":      "Rate limiting is temporarily unavailable, please retry later",
		"error.token_missing":               "Missing credentials",
		"error.token_invalid":               "Invalid credentials, please sign in again",
		"error.token_revoked":               "Session expired, please sign in again",
		"error.auth_header_missing":         "Missing Authorization header",
		"error.auth_header_invalid":         "Malformed Authorization header",
		"error.jwt_secret_missing":          "Server signing key is not configured",
		"error.invalid_credentials":         "Incorrect account or password",
		"error.invalid_password":            "Current password is incorrect",
		"error.user_disabled":               "This account has been disabled",
		"error.email_taken":                 "This email is already registered",
		"error.weak_password":               "Password is too weak",
		"error.role_invalid":                "Invalid user role",
		"error.captcha_required":            "Please complete the captcha",
		"error.captcha_invalid":             "Captcha is wrong or expired",
		"error.task_not_found":              "Task not found",
		"error.task_title_required":         "Task title is required",
		"error.task_video_url_required":     "Video URL is required",
		"error.task_type_invalid":           "Invalid task type",
		"error.task_quantity_invalid":       "Task quantity is out of range",
		"error.task_price_invalid":          "Unit price must be greater than 0",
		"error.task_deadline_invalid":       "Deadline must be in the future",
		"error.task_create_failed":          "Failed to create task",
		"error.sub_order_not_found":         "Sub-order not found",
		"error.sub_order_already_claimed":   "This sub-order has already been claimed",
		"error.sub_order_state_invalid":     "Sub-order state does not allow this operation",
		"error.sub_order_already_reviewed":  "This sub-order has already been reviewed",
		"error.review_note_required":        "A review note is required when rejecting",
		"error.submit_evidence_required":    "Provide comment content or a screenshot",
		"error.not_task_owner":              "Only the task owner can perform this action",
		"error.not_claim_owner":             "Only the claimer can submit this sub-order",
		"error.earning_settle_failed":       "Failed to settle the earning",
		"error.upload_type_invalid":         "Unsupported image type",
		"error.upload_too_large":            "Image exceeds the size limit",
		"error.upload_failed":               "Upload failed, please retry",
		"error.invalid_email":               "Invalid email address",
		"error.captcha_config_invalid":      "Captcha is not configured correctly",
		"error.queue_unavailable":           "Queue service is unavailable",
		"error.dashboard_range_invalid":     "Invalid statistics time range",
		"error.password_min_length":         "Password must be at least %d characters",
		"error.password_require_upper":      "Password must contain an uppercase letter",
		"error.password_require_lower":      "Password must contain a lowercase letter",
		"error.password_require_number":     "Password must contain a number",
		"error.password_require_special":    "Password must contain a special character",
		"error.user_id_invalid":             "Missing user identity, please sign in again",
		"error.user_id_type_invalid":        "Invalid user identity, please sign in again",
		"error.admin_id_invalid":            "Missing admin identity, please sign in again",
		"error.admin_id_type_invalid":       "Invalid admin identity, please sign in again",
		"error.user_not_found":              "User not found",
		"error.user_fetch_failed":           "Failed to fetch user",
		"error.user_update_failed":          "Failed to update user",
		"error.user_status_invalid":         "Invalid user status",
		"error.register_failed":             "Registration failed, please retry later",
		"error.login_failed":                "Login failed, please retry later",
		"error.login_too_many":              "Too many login attempts, please retry later",
		"error.save_failed":                 "Failed to save, please retry later",
		"error.task_fetch_failed":           "Failed to fetch tasks",
		"error.sub_order_fetch_failed":      "Failed to fetch sub-orders",
		"error.claim_failed":                "Failed to claim, please retry later",
		"error.submit_failed":               "Failed to submit, please retry later",
		"error.review_failed":               "Review operation failed",
		"error.release_failed":              "Failed to release stale claims",
		"error.earning_fetch_failed":        "Failed to fetch earnings",
		"error.dashboard_fetch_failed":      "Failed to fetch statistics",
		"error.config_fetch_failed":         "Failed to fetch site config",
		"error.captcha_unavailable":         "Captcha service is not enabled",
		"error.captcha_generate_failed":     "Failed to generate captcha",
		"error.file_missing":                "Please choose a file to upload",
		"error.admin_username_invalid":      "Invalid admin username",
		"error.admin_username_exists":       "This admin username already exists",
		"error.admin_create_failed":         "Failed to create admin",
		"error.admin_update_failed":         "Failed to update admin",
		"error.admin_delete_failed":         "Failed to delete admin",
		"error.admin_delete_self_forbidden": "You cannot delete your own account",
		"error.admin_delete_protected":      "The protected super admin cannot be deleted",
		"error.admin_delete_last_forbidden": "At least one admin must remain",
	},
}
