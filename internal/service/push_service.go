package service

import (
	"Lighthouse/internal/api/config"
	"Lighthouse/internal/pkg/consts"
	"Lighthouse/internal/pkg/mongo"
	"Lighthouse/internal/pkg/redis"
	"context"
	log "log/slog"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/goccy/go-json"
)

// PushService 实时推送。通知先落库，推送尽力而为，失败只记日志。
type PushService interface {
	PushNotification(ctx context.Context, notification *mongo.NotificationModel)
}

type pushServiceImpl struct {
	gateway config.PushGatewayConfig
	client  *resty.Client
}

func NewPushService(cfg *config.Config) PushService {
	client := resty.New().
		SetTimeout(5 * time.Second).
		SetRetryCount(2)
	return &pushServiceImpl{
		gateway: cfg.PushGateway,
		client:  client,
	}
}

// PushNotification 通过 Redis 频道广播给在线 WebSocket 连接，
// 并在开启推送网关时转发一份给移动端。
func (s *pushServiceImpl) PushNotification(ctx context.Context, notification *mongo.NotificationModel) {
	payload, err := json.Marshal(notification)
	if err != nil {
		log.ErrorContext(ctx, "marshal notification failed", "err", err)
		return
	}

	channel := consts.NotifyUserKey + strconv.FormatUint(notification.ReceiverID, 10)
	if err = redis.Publish(ctx, channel, payload); err != nil {
		log.ErrorContext(ctx, "publish notification failed", "channel", channel, "err", err)
	}

	if s.gateway.Enabled {
		go s.forwardToGateway(notification.ReceiverID, payload)
	}
}

func (s *pushServiceImpl) forwardToGateway(receiverID uint64, payload []byte) {
	resp, err := s.client.R().
		SetHeader("Content-Type", "application/json").
		SetHeader("Authorization", "Bearer "+s.gateway.Token).
		SetBody(payload).
		Post(s.gateway.URL)
	if err != nil {
		log.Error("push gateway request failed", "receiver", receiverID, "err", err)
		return
	}
	if resp.IsError() {
		log.Error("push gateway rejected", "receiver", receiverID, "status", resp.StatusCode())
	}
}
