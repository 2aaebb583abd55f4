package training

import (
	"time"

	"github.com/viant/reviewflow/model"
)

// Signal marks a human approved item as a positive training example.
type Signal struct {
	ContentID     string        `json:"contentId"`
	Content       model.Content `json:"content"`
	QualityRating int           `json:"qualityRating"`
	AdminApproved bool          `json:"adminApproved"`
	ApprovedBy    string        `json:"approvedBy"`
	ApprovedAt    time.Time     `json:"approvedAt"`
}

// NewSignal builds the signal for an approved item.
func NewSignal(item *model.ReviewItem, rating int, approvedBy string, approvedAt time.Time) *Signal {
	return &Signal{
		ContentID:     item.ContentID,
		Content:       item.Content.Clone(),
		QualityRating: rating,
		AdminApproved: true,
		ApprovedBy:    approvedBy,
		ApprovedAt:    approvedAt,
	}
}
