package models

import "time"

// Feedback is an append-only customer note, not tied to any order.
type Feedback struct {
	ID           uint      `gorm:"column:id;primaryKey"`
	CustomerID   uint      `gorm:"column:customer_id;not null;index"`
	Rating       *int      `gorm:"column:rating"`
	Content      string    `gorm:"column:content;size:350"`
	FeedbackTime time.Time `gorm:"column:feedback_time;not null"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
}
