package repository

import (
	"github.com/ikkim/clientbook-backend/internal/app/model"
	"github.com/ikkim/clientbook-backend/pkg/logger"
	"gorm.io/gorm"
)

type FeedbackRepository interface {
	Create(feedback *model.Feedback) error
	FindAll(status string) ([]model.Feedback, error)
	FindByID(id uint) (*model.Feedback, error)
	Update(feedback *model.Feedback) error
	Delete(id uint) error
}

type feedbackRepository struct {
	db *gorm.DB
}

func NewFeedbackRepository(db *gorm.DB) FeedbackRepository {
	return &feedbackRepository{db: db}
}

func (r *feedbackRepository) Create(feedback *model.Feedback) error {
	if err := r.db.Create(feedback).Error; err != nil {
		logger.Error("Failed to create feedback", err, map[string]interface{}{
			"type": feedback.Type,
		})
		return err
	}
	logger.Debug("Feedback created", map[string]interface{}{
		"feedback_id": feedback.ID,
	})
	return nil
}

// FindAll returns feedback newest first, optionally filtered by status.
func (r *feedbackRepository) FindAll(status string) ([]model.Feedback, error) {
	query := r.db.Model(&model.Feedback{})
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var items []model.Feedback
	if err := query.Order("created_at DESC, id DESC").Find(&items).Error; err != nil {
		logger.Error("Failed to find feedback", err)
		return nil, err
	}
	return items, nil
}

func (r *feedbackRepository) FindByID(id uint) (*model.Feedback, error) {
	var item model.Feedback
	if err := r.db.First(&item, id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *feedbackRepository) Update(feedback *model.Feedback) error {
	if err := r.db.Save(feedback).Error; err != nil {
		logger.Error("Failed to update feedback", err, map[string]interface{}{
			"feedback_id": feedback.ID,
		})
		return err
	}
	return nil
}

func (r *feedbackRepository) Delete(id uint) error {
	if err := r.db.Delete(&model.Feedback{}, id).Error; err != nil {
		logger.Error("Failed to delete feedback", err, map[string]interface{}{
			"feedback_id": id,
		})
		return err
	}
	return nil
}
