package model

import "time"

type FeedbackType string

const (
	FeedbackBug     FeedbackType = "Bug"
	FeedbackFeature FeedbackType = "Feature"
	FeedbackOther   FeedbackType = "Other"
)

type FeedbackStatus string

const (
	FeedbackNew        FeedbackStatus = "New"
	FeedbackInProgress FeedbackStatus = "In Progress"
	FeedbackResolved   FeedbackStatus = "Resolved"
	FeedbackClosed     FeedbackStatus = "Closed"
)

// Feedback is a bug report or feature request from a portal user.
type Feedback struct {
	ID          uint           `gorm:"primarykey" json:"id"`
	Type        FeedbackType   `gorm:"type:varchar(50);not null;default:'Bug'" json:"type"`
	Subject     string         `gorm:"type:varchar(255);not null" json:"subject"`
	Description *string        `gorm:"type:text" json:"description"`
	Status      FeedbackStatus `gorm:"type:varchar(50);not null;default:'New';index" json:"status"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

func (Feedback) TableName() string {
	return "feedback"
}
