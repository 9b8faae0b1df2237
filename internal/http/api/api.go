package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vakit-app/vakit/internal/http/middleware"
	"github.com/vakit-app/vakit/internal/model"
)

type Error struct {
	Code    int
	Message string
}

// Controller is the gin group a Module attaches its endpoints to.
type Controller struct {
	Group *gin.RouterGroup
}

type HandlerFunc func(ctx *gin.Context) (any, *Error)
type HandlerFuncWithDevice func(ctx *gin.Context, device *model.Device) (any, *Error)

func ResolveEndpoint(h HandlerFunc) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		result, apiErr := h(ctx)
		if apiErr != nil {
			ctx.JSON(apiErr.Code, gin.H{"error": apiErr.Message})
			return
		}

		ctx.JSON(http.StatusOK, result)
	}
}

func ResolveEndpointWithDevice(h HandlerFuncWithDevice) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		device, ok := middleware.GetCurrentDevice(ctx)
		if !ok {
			ctx.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		result, apiErr := h(ctx, device)
		if apiErr != nil {
			ctx.JSON(apiErr.Code, gin.H{"error": apiErr.Message})
			return
		}

		ctx.JSON(http.StatusOK, result)
	}
}
