package api

import "Lighthouse/internal/api/handler"

// HandlersGroup 封装了所有已初始化的 Handler 实例
type HandlersGroup struct {
	NotificationHandler *handler.NotificationHandler
	SummaryHandler      *handler.SummaryHandler
	WSHandler           *handler.WsHandler
}
