package model

import "time"

// QualityScore is the composite score breakdown, each bucket worth up to 25.
type QualityScore struct {
	Length     float64   `json:"length"`
	Structure  float64   `json:"structure"`
	SEO        float64   `json:"seo"`
	Uniqueness float64   `json:"uniqueness"`
	Overall    int       `json:"overall"` // 0-100
	ComputedAt time.Time `json:"computedAt"`
}

// ContentEdit is one audited field change.
type ContentEdit struct {
	Field     string      `json:"field"`
	OldValue  interface{} `json:"oldValue"`
	NewValue  interface{} `json:"newValue"`
	Timestamp time.Time   `json:"timestamp"`
	AdminID   string      `json:"adminId"`
}

// ReviewItem is a content candidate plus its review metadata and status.
type ReviewItem struct {
	ID                string        `json:"id"`
	ContentID         string        `json:"contentId"`
	BatchJobID        string        `json:"batchJobId,omitempty"`
	Content           Content       `json:"content"`
	QualityScore      QualityScore  `json:"qualityScore"`
	Priority          int           `json:"priority"`
	Status            Status        `json:"status"`
	Preview           string        `json:"preview"`
	EstimatedReadTime int           `json:"estimatedReadTime"`
	CreatedAt         time.Time     `json:"createdAt"`
	ReviewedAt        *time.Time    `json:"reviewedAt,omitempty"`
	ReviewedBy        string        `json:"reviewedBy,omitempty"`
	AdminNotes        string        `json:"adminNotes,omitempty"`
	QualityRating     *int          `json:"qualityRating,omitempty"`
	LastEditedBy      string        `json:"lastEditedBy,omitempty"`
	LastEditedAt      *time.Time    `json:"lastEditedAt,omitempty"`
	EditHistory       []ContentEdit `json:"editHistory,omitempty"`
}

// Bucket returns the priority bucket.
func (r *ReviewItem) Bucket() PriorityBucket {
	return BucketOf(r.Priority)
}

// Clone returns a deep copy of the item.
func (r *ReviewItem) Clone() *ReviewItem {
	if r == nil {
		return nil
	}
	ret := *r
	ret.Content = r.Content.Clone()
	ret.ReviewedAt = cloneTime(r.ReviewedAt)
	ret.LastEditedAt = cloneTime(r.LastEditedAt)
	if r.QualityRating != nil {
		rating := *r.QualityRating
		ret.QualityRating = &rating
	}
	if r.EditHistory != nil {
		ret.EditHistory = make([]ContentEdit, len(r.EditHistory))
		for i, edit := range r.EditHistory {
			edit.OldValue = cloneValue(edit.OldValue)
			edit.NewValue = cloneValue(edit.NewValue)
			ret.EditHistory[i] = edit
		}
	}
	return &ret
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}

func cloneValue(v interface{}) interface{} {
	if values, ok := v.([]string); ok {
		return cloneStrings(values)
	}
	return v
}
