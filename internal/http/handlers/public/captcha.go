package public

import (
	"github.com/logiroute/internal/http/response"

	"github.com/gin-gonic/gin"
)

type captchaChallengeResponse struct {
	CaptchaID   string `json:"captcha_id"`
	ImageBase64 string `json:"image_base64"`
}

// GetImageCaptcha 下发图片验证码，登录与注册按场景配置校验
func (h *Handler) GetImageCaptcha(c *gin.Context) {
	challenge, err := h.CaptchaService.GenerateImageChallenge()
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.Success(c, captchaChallengeResponse{
		CaptchaID:   challenge.CaptchaID,
		ImageBase64: challenge.ImageBase64,
	})
}
