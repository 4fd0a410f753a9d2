package handler

import (
	"Lighthouse/internal/pkg/response"
	"Lighthouse/internal/service"
	"time"

	"github.com/gin-gonic/gin"
)

type SummaryHandler struct {
	summaryService service.SummaryService
}

func NewSummaryHandler(s service.SummaryService) *SummaryHandler {
	return &SummaryHandler{
		summaryService: s,
	}
}

// GetBreakdown 汇总回溯。
// 支持两种锚点：?since=<RFC3339> 指定窗口起点，
// 或 ?notification_id=<id> 回溯某条汇总通知覆盖的窗口。
func (h *SummaryHandler) GetBreakdown(c *gin.Context) {
	userID := c.GetUint64("user_id")

	if notificationID := c.Query("notification_id"); notificationID != "" {
		breakdown, err := h.summaryService.BreakdownByNotification(c.Request.Context(), userID, notificationID)
		if err != nil {
			response.Error(c, err)
			return
		}
		response.Success(c, breakdown)
		return
	}

	sinceStr := c.Query("since")
	if sinceStr == "" {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	since, err := time.Parse(time.RFC3339, sinceStr)
	if err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	breakdown, err := h.summaryService.Breakdown(c.Request.Context(), userID, since)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, breakdown)
}
