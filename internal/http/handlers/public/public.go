package public

import (
	"strings"
	"time"

	"github.com/microtask-next/internal/cache"
	"github.com/microtask-next/internal/constants"
	"github.com/microtask-next/internal/http/response"

	"github.com/gin-gonic/gin"
)

const (
	publicConfigCacheKey = "public:config"
	publicConfigCacheTTL = 60 * time.Second
)

// GetConfig 获取平台公开配置
func (h *Handler) GetConfig(c *gin.Context) {
	var cached map[string]interface{}
	if hit, err := cache.GetJSON(c.Request.Context(), publicConfigCacheKey, &cached); err == nil && hit {
		response.Success(c, cached)
		return
	}

	claimTimeoutMinutes := 3
	maxQuantity := 200
	if h.Config != nil {
		if h.Config.Task.ClaimTimeoutMinutes > 0 {
			claimTimeoutMinutes = h.Config.Task.ClaimTimeoutMinutes
		}
		if h.Config.Task.MaxQuantity > 0 {
			maxQuantity = h.Config.Task.MaxQuantity
		}
	}

	captchaProvider := constants.CaptchaProviderNone
	captchaLoginEnabled := false
	if h.Config != nil {
		if provider := strings.TrimSpace(h.Config.Captcha.Provider); provider != "" {
			captchaProvider = strings.ToLower(provider)
		}
		captchaLoginEnabled = h.Config.Captcha.Scenes.Login
	}

	data := map[string]interface{}{
		"languages": constants.SupportedLocales,
		"task_types": []string{
			constants.TaskTypeComment,
			constants.TaskTypeVideo,
			constants.TaskTypeAccountRental,
		},
		"user_roles": []string{
			constants.UserRolePublisher,
			constants.UserRoleCommenter,
		},
		"claim_timeout_minutes": claimTimeoutMinutes,
		"task_max_quantity":     maxQuantity,
		"captcha": map[string]interface{}{
			"provider": captchaProvider,
			"scenes": map[string]bool{
				constants.CaptchaSceneLogin: captchaLoginEnabled,
			},
		},
	}

	_ = cache.SetJSON(c.Request.Context(), publicConfigCacheKey, data, publicConfigCacheTTL)
	response.Success(c, data)
}
