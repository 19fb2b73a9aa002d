package admin

import (
	"errors"
	"strconv"

	handlershared "github.com/restock-next/internal/http/handlers/shared"
	"github.com/restock-next/internal/http/response"
	"github.com/restock-next/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func requestLog(c *gin.Context) *zap.SugaredLogger {
	return handlershared.RequestLog(c)
}

func respondError(c *gin.Context, code int, msg string, err error) {
	handlershared.RespondError(c, code, msg, err)
}

// respondServiceError 把业务错误映射为统一的响应码
func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		respondError(c, response.CodeNotFound, "resource not found", nil)
	case errors.Is(err, service.ErrInvalidInput):
		respondError(c, response.CodeBadRequest, "invalid input", nil)
	case errors.Is(err, service.ErrHandleExists):
		respondError(c, response.CodeConflict, "product handle already exists", nil)
	case errors.Is(err, service.ErrMetafieldKeyExists):
		respondError(c, response.CodeConflict, "metafield key already exists", nil)
	case errors.Is(err, service.ErrOptionLimitReached):
		respondError(c, response.CodeBadRequest, "product option limit reached", nil)
	case errors.Is(err, service.ErrOptionTitleExists):
		respondError(c, response.CodeConflict, "option title already exists", nil)
	case errors.Is(err, service.ErrOptionValueTitleExists):
		respondError(c, response.CodeConflict, "option value already exists", nil)
	case errors.Is(err, service.ErrVariantExists):
		respondError(c, response.CodeConflict, "variant already exists", nil)
	case errors.Is(err, service.ErrFeatureTitleExists):
		respondError(c, response.CodeConflict, "feature title already exists", nil)
	case errors.Is(err, service.ErrOfferTerminal):
		respondError(c, response.CodeBadRequest, "offer in terminal status is immutable", nil)
	case errors.Is(err, service.ErrOfferStatusWithoutVariant):
		respondError(c, response.CodeBadRequest, "status change requires a variant", nil)
	case errors.Is(err, service.ErrOfferVariantRequired):
		respondError(c, response.CodeBadRequest, "offer requires a variant", nil)
	case errors.Is(err, service.ErrNoDefaultDeliveryProfile):
		respondError(c, response.CodeInternal, "default delivery profile is missing", err)
	case errors.Is(err, service.ErrDeliveryProfileInUse):
		respondError(c, response.CodeConflict, "delivery profile is referenced by offers", nil)
	case errors.Is(err, service.ErrDefaultProfileUndeletable):
		respondError(c, response.CodeBadRequest, "default delivery profile cannot be deleted", nil)
	case errors.Is(err, service.ErrEmailExists):
		respondError(c, response.CodeConflict, "email already exists", nil)
	case errors.Is(err, service.ErrPriceSyncDisabled):
		respondError(c, response.CodeBadRequest, "price sync is disabled", nil)
	default:
		respondError(c, response.CodeInternal, "internal error", err)
	}
}

// parseIDParam 解析路径中的数字 ID
func parseIDParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		respondError(c, response.CodeBadRequest, "invalid id", err)
		return 0, false
	}
	return uint(id), true
}
