package admin

import (
	"github.com/logiroute/internal/authz"
	handlershared "github.com/logiroute/internal/http/handlers/shared"
	"github.com/logiroute/internal/http/response"

	"github.com/gin-gonic/gin"
)

func requireCaller(c *gin.Context) (authz.Caller, bool) {
	return handlershared.RequireCaller(c)
}

func parseID(c *gin.Context) (uint, bool) {
	return handlershared.ParseIDParam(c, "id")
}

func respondError(c *gin.Context, code int, key string, err error) {
	handlershared.RespondError(c, code, key, err)
}

func respondServiceError(c *gin.Context, err error) {
	handlershared.RespondServiceError(c, err)
}

func bindJSON(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return false
	}
	return true
}
