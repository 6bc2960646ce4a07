package employee

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes mounts /employees on r. createMiddleware runs before the
// POST handler only.
func RegisterRoutes(
	r gin.IRouter,
	handler *Handler,
	createMiddleware ...gin.HandlerFunc,
) {
	employees := r.Group("/employees")
	{
		employees.GET("", handler.GetAll)

		create := append(append([]gin.HandlerFunc{}, createMiddleware...), handler.Create)
		employees.POST("", create...)
	}
}
