package service

import (
	"Lighthouse/internal/api/dto"
	"Lighthouse/internal/model"
	"Lighthouse/internal/pkg/consts"
	"Lighthouse/internal/pkg/mongo"
	"Lighthouse/internal/repository"
	"context"
	"errors"
	"time"

	"github.com/jinzhu/copier"
	"go.mongodb.org/mongo-driver/bson/primitive"
	mongoDB "go.mongodb.org/mongo-driver/mongo"
)

type NotificationService interface {
	GetNotificationList(ctx context.Context, userID uint64, page, pageSize int) ([]*dto.NotificationDTO, error)
	GetUnreadCount(ctx context.Context, userID uint64) (*dto.NotificationUnreadDTO, error)
	MarkRead(ctx context.Context, userID uint64, msgID string) error
	MarkAllRead(ctx context.Context, userID uint64) error
	GetSettings(ctx context.Context, userID uint64) (*dto.NotificationSettingDTO, error)
	UpdateSettings(ctx context.Context, userID uint64, req *dto.UpdateSettingReq) (*dto.NotificationSettingDTO, error)
}

type notificationServiceImpl struct {
	notificationRepo mongo.NotificationRepo
	userRepo         repository.UserRepo
}

func NewNotificationService(notification mongo.NotificationRepo, user repository.UserRepo) NotificationService {
	return &notificationServiceImpl{
		notificationRepo: notification,
		userRepo:         user,
	}
}

// GetNotificationList 分页获取通知列表
func (s *notificationServiceImpl) GetNotificationList(ctx context.Context, userID uint64, page, pageSize int) ([]*dto.NotificationDTO, error) {
	limit := int64(pageSize)
	offset := int64((page - 1) * pageSize)

	list, err := s.notificationRepo.GetNotificationList(ctx, userID, limit, offset)
	if err != nil {
		return nil, err
	}

	res := make([]*dto.NotificationDTO, 0, len(list))
	for _, m := range list {
		res = append(res, toNotificationDTO(m))
	}
	return res, nil
}

// GetUnreadCount 获取未读数
func (s *notificationServiceImpl) GetUnreadCount(ctx context.Context, userID uint64) (*dto.NotificationUnreadDTO, error) {
	count, err := s.notificationRepo.GetUnreadCount(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &dto.NotificationUnreadDTO{UnreadCount: count}, nil
}

// MarkRead 标记单条已读
func (s *notificationServiceImpl) MarkRead(ctx context.Context, userID uint64, msgID string) error {
	objectID, err := primitive.ObjectIDFromHex(msgID)
	if err != nil {
		return ErrParamInvalid
	}

	notice, err := s.notificationRepo.GetByID(ctx, objectID)
	if err != nil {
		if errors.Is(err, mongoDB.ErrNoDocuments) {
			return ErrNotificationNotFound
		}
		return err
	}

	if notice.ReceiverID != userID {
		return UnauthorizedError
	}

	if notice.IsRead {
		return nil
	}

	return s.notificationRepo.MarkAsRead(ctx, userID, msgID)
}

// MarkAllRead 一键已读
func (s *notificationServiceImpl) MarkAllRead(ctx context.Context, userID uint64) error {
	return s.notificationRepo.MarkAllAsRead(ctx, userID)
}

// GetSettings 获取通知偏好，无记录时返回默认值
func (s *notificationServiceImpl) GetSettings(ctx context.Context, userID uint64) (*dto.NotificationSettingDTO, error) {
	setting, err := s.userRepo.GetSetting(ctx, userID)
	if err != nil {
		return nil, err
	}
	if setting == nil {
		return defaultSettingDTO(), nil
	}
	return toSettingDTO(setting), nil
}

// UpdateSettings 部分更新通知偏好，summary_time 规范化为 "HH:MM"
func (s *notificationServiceImpl) UpdateSettings(ctx context.Context, userID uint64, req *dto.UpdateSettingReq) (*dto.NotificationSettingDTO, error) {
	setting, err := s.userRepo.GetSetting(ctx, userID)
	if err != nil {
		return nil, err
	}
	if setting == nil {
		setting = &model.NotificationSetting{
			UserID:           userID,
			Enabled:          true,
			Summarized:       false,
			SummaryTime:      consts.DefaultSummaryTime,
			DMEnabled:        true,
			JobFairEnabled:   true,
			CommunityEnabled: true,
		}
	}

	if req.Enabled != nil {
		setting.Enabled = *req.Enabled
	}
	if req.Summarized != nil {
		setting.Summarized = *req.Summarized
	}
	if req.SummaryTime != nil {
		parsed, err := time.Parse("15:04", *req.SummaryTime)
		if err != nil {
			return nil, ErrParamInvalid
		}
		setting.SummaryTime = parsed.Format("15:04")
	}
	if req.DMEnabled != nil {
		setting.DMEnabled = *req.DMEnabled
	}
	if req.JobFairEnabled != nil {
		setting.JobFairEnabled = *req.JobFairEnabled
	}
	if req.CommunityEnabled != nil {
		setting.CommunityEnabled = *req.CommunityEnabled
	}

	if err = s.userRepo.UpdateSetting(ctx, setting); err != nil {
		return nil, err
	}
	return toSettingDTO(setting), nil
}

func defaultSettingDTO() *dto.NotificationSettingDTO {
	return &dto.NotificationSettingDTO{
		Enabled:          true,
		Summarized:       false,
		SummaryTime:      consts.DefaultSummaryTime,
		DMEnabled:        true,
		JobFairEnabled:   true,
		CommunityEnabled: true,
	}
}

func toSettingDTO(setting *model.NotificationSetting) *dto.NotificationSettingDTO {
	d := &dto.NotificationSettingDTO{}
	_ = copier.Copy(d, setting)
	return d
}

// toNotificationDTO 通知模型转响应对象
func toNotificationDTO(m *mongo.NotificationModel) *dto.NotificationDTO {
	d := &dto.NotificationDTO{}
	_ = copier.Copy(d, m)
	d.ID = m.ID.Hex()
	d.CreatedAt = m.CreatedAt.UTC().Format(time.RFC3339)
	if m.Counts != nil {
		d.Counts = &dto.SummaryCountsDTO{}
		_ = copier.Copy(d.Counts, m.Counts)
	}
	return d
}
