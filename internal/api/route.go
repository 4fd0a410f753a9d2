package api

import (
	"Lighthouse/internal/api/middleware"
	"Lighthouse/internal/pkg/logger"
	"net/http"

	"github.com/gin-gonic/gin"
)

func SetupRouter(group *HandlersGroup) *gin.Engine {
	r := gin.New()
	_ = r.SetTrustedProxies([]string{"localhost"})

	// TraceId & Logger & CORS
	r.Use(middleware.TraceMiddleware())
	r.Use(middleware.AuditMiddleware())
	r.Use(middleware.CORSMiddleware())
	logger.SetupGin(r)

	apiGroup := r.Group("/api")
	{
		apiGroup.GET("/ping", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{
				"Code":    200,
				"Message": "pong",
				"Data":    nil,
			})
		})

		// WebSocket 长连接 (token 经 query 传递)
		apiGroup.GET("/notify", group.WSHandler.Connect)

		notificationGroup := apiGroup.Group("/notifications")
		notificationGroup.Use(middleware.AuthMiddleware())
		{
			notificationGroup.GET("/list", group.NotificationHandler.GetNotificationList)
			notificationGroup.GET("/unread", group.NotificationHandler.GetUnreadCount)
			notificationGroup.POST("/read", group.NotificationHandler.MarkRead)
			notificationGroup.POST("/read/all", group.NotificationHandler.MarkAllRead)

			notificationGroup.GET("/settings", group.NotificationHandler.GetSettings)
			notificationGroup.PUT("/settings", group.NotificationHandler.UpdateSettings)

			notificationGroup.GET("/summary/breakdown", group.SummaryHandler.GetBreakdown)
		}
	}

	return r
}
