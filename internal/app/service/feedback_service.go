package service

import (
	"errors"
	"strings"

	"github.com/ikkim/clientbook-backend/internal/app/model"
	"github.com/ikkim/clientbook-backend/internal/app/repository"
	"github.com/ikkim/clientbook-backend/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrFeedbackNotFound = errors.New("feedback not found")
	ErrSubjectRequired  = errors.New("subject is required")
)

type FeedbackInput struct {
	Type        model.Optional[model.FeedbackType]   `json:"type"`
	Subject     model.Optional[string]               `json:"subject"`
	Description model.Optional[string]               `json:"description"`
	Status      model.Optional[model.FeedbackStatus] `json:"status"`
}

type FeedbackService interface {
	ListFeedback(status string) ([]model.Feedback, error)
	GetFeedback(id uint) (*model.Feedback, error)
	CreateFeedback(input FeedbackInput) (*model.Feedback, error)
	UpdateFeedback(id uint, input FeedbackInput) (*model.Feedback, error)
	DeleteFeedback(id uint) error
}

type feedbackService struct {
	feedbackRepo repository.FeedbackRepository
	notifier     Notifier
}

func NewFeedbackService(feedbackRepo repository.FeedbackRepository, notifier Notifier) FeedbackService {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	return &feedbackService{feedbackRepo: feedbackRepo, notifier: notifier}
}

func (s *feedbackService) ListFeedback(status string) ([]model.Feedback, error) {
	return s.feedbackRepo.FindAll(strings.TrimSpace(status))
}

func (s *feedbackService) GetFeedback(id uint) (*model.Feedback, error) {
	item, err := s.feedbackRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrFeedbackNotFound
		}
		return nil, err
	}
	return item, nil
}

func (s *feedbackService) CreateFeedback(input FeedbackInput) (*model.Feedback, error) {
	subject := strings.TrimSpace(input.Subject.Get(""))
	if subject == "" {
		return nil, ErrSubjectRequired
	}

	item := &model.Feedback{
		Type:    input.Type.Get(model.FeedbackBug),
		Subject: subject,
		Status:  input.Status.Get(model.FeedbackNew),
	}
	input.Description.Apply(&item.Description)

	if err := s.feedbackRepo.Create(item); err != nil {
		return nil, err
	}

	logger.Info("Feedback submitted", map[string]interface{}{
		"feedback_id": item.ID,
		"type":        item.Type,
	})
	s.notifier.Notify(EntityFeedback, ActionCreated)
	return item, nil
}

func (s *feedbackService) UpdateFeedback(id uint, input FeedbackInput) (*model.Feedback, error) {
	item, err := s.GetFeedback(id)
	if err != nil {
		return nil, err
	}

	if input.Subject.Present {
		subject := strings.TrimSpace(input.Subject.Get(""))
		if subject == "" {
			return nil, ErrSubjectRequired
		}
		item.Subject = subject
	}
	input.Type.ApplyValue(&item.Type)
	input.Status.ApplyValue(&item.Status)
	input.Description.Apply(&item.Description)

	if err := s.feedbackRepo.Update(item); err != nil {
		return nil, err
	}

	logger.Info("Feedback updated", map[string]interface{}{
		"feedback_id": id,
		"status":      item.Status,
	})
	s.notifier.Notify(EntityFeedback, ActionUpdated)
	return item, nil
}

func (s *feedbackService) DeleteFeedback(id uint) error {
	if _, err := s.GetFeedback(id); err != nil {
		return err
	}
	if err := s.feedbackRepo.Delete(id); err != nil {
		return err
	}
	s.notifier.Notify(EntityFeedback, ActionDeleted)
	return nil
}
