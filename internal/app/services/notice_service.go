package services

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/yigit/scholaris/internal/app/models"
	"github.com/yigit/scholaris/internal/app/models/dto"
	"github.com/yigit/scholaris/internal/pkg/websocket"
)

// NoticeStore is the persistence surface the notice service needs.
// *repositories.NoticeRepository satisfies it.
type NoticeStore interface {
	Create(ctx context.Context, notice *models.Notice) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.Notice, error)
	List(ctx context.Context, page, pageSize int) ([]models.Notice, int64, error)
	Delete(ctx context.Context, id int64) error
}

// NoticeBroadcaster pushes notice events to live subscribers.
// *websocket.Hub satisfies it.
type NoticeBroadcaster interface {
	Broadcast(event *websocket.Event)
}

// NoticeService publishes announcements and fans them out over the live feed
type NoticeService struct {
	notices     NoticeStore
	broadcaster NoticeBroadcaster
	logger      zerolog.Logger
}

// NewNoticeService creates a new NoticeService
func NewNoticeService(notices NoticeStore, broadcaster NoticeBroadcaster, logger zerolog.Logger) *NoticeService {
	return &NoticeService{
		notices:     notices,
		broadcaster: broadcaster,
		logger:      logger,
	}
}

// Publish stores a new notice and broadcasts it to feed subscribers
func (s *NoticeService) Publish(ctx context.Context, authorID int64, req *dto.CreateNoticeRequest) (*models.Notice, error) {
	notice := &models.Notice{
		Title:    strings.TrimSpace(req.Title),
		Body:     req.Body,
		AuthorID: authorID,
	}

	id, err := s.notices.Create(ctx, notice)
	if err != nil {
		return nil, err
	}

	// Re-read to pick up the author for the feed payload
	stored, err := s.notices.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	event := &websocket.Event{
		Type:      websocket.EventNoticePublished,
		NoticeID:  stored.ID,
		Title:     stored.Title,
		Body:      stored.Body,
		Timestamp: stored.CreatedAt,
	}
	if stored.Author != nil {
		event.AuthorName = stored.Author.FirstName + " " + stored.Author.LastName
	}
	s.broadcaster.Broadcast(event)

	s.logger.Info().Int64("noticeID", id).Int64("authorID", authorID).Msg("Notice published")

	return stored, nil
}

// GetByID retrieves one notice
func (s *NoticeService) GetByID(ctx context.Context, id int64) (*models.Notice, error) {
	return s.notices.GetByID(ctx, id)
}

// List retrieves notices newest first
func (s *NoticeService) List(ctx context.Context, page, pageSize int) ([]models.Notice, int64, error) {
	return s.notices.List(ctx, page, pageSize)
}

// Remove deletes a notice and notifies feed subscribers
func (s *NoticeService) Remove(ctx context.Context, id int64) error {
	if err := s.notices.Delete(ctx, id); err != nil {
		return err
	}

	s.broadcaster.Broadcast(&websocket.Event{
		Type:      websocket.EventNoticeRemoved,
		NoticeID:  id,
		Timestamp: time.Now(),
	})

	s.logger.Info().Int64("noticeID", id).Msg("Notice removed")
	return nil
}
