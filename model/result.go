package model

import "time"

// ApprovalResult is returned by approve and reject.
type ApprovalResult struct {
	Success                bool      `json:"success"`
	ContentID              string    `json:"contentId"`
	Status                 Status    `json:"status"`
	ReviewedBy             string    `json:"reviewedBy"`
	ReviewedAt             time.Time `json:"reviewedAt"`
	QualityRating          int       `json:"qualityRating,omitempty"`
	QueuedForPublishing    bool      `json:"queuedForPublishing"`
	AddedToTrainingDataset bool      `json:"addedToTrainingDataset"`
	RegenerationRequested  bool      `json:"regenerationRequested,omitempty"`
}

// BulkError describes one failed id of a bulk run.
type BulkError struct {
	ContentID string `json:"contentId"`
	Error     string `json:"error"`
}

// BulkResult aggregates a bulk run. The run itself succeeds even when some
// ids fail.
type BulkResult struct {
	SuccessCount int               `json:"successCount"`
	ErrorCount   int               `json:"errorCount"`
	Results      []*ApprovalResult `json:"results"`
	Errors       []BulkError       `json:"errors"`
}

// EditResult is returned by edit.
type EditResult struct {
	Success bool        `json:"success"`
	Content *ReviewItem `json:"content"`
}

// PriorityCounts counts items per priority bucket.
type PriorityCounts struct {
	High   int `json:"high"`
	Medium int `json:"medium"`
	Low    int `json:"low"`
}

// ReviewMetrics summarises a set of review items.
type ReviewMetrics struct {
	Total               int            `json:"total"`
	TotalPending        int            `json:"totalPending"`
	TotalApproved       int            `json:"totalApproved"`
	TotalAutoApproved   int            `json:"totalAutoApproved"`
	TotalRejected       int            `json:"totalRejected"`
	TotalEditing        int            `json:"totalEditing"`
	AverageQualityScore int            `json:"averageQualityScore"`
	ApprovalRate        int            `json:"approvalRate"` // percent
	PriorityCounts      PriorityCounts `json:"priorityCounts"`
	AverageReadTime     int            `json:"averageReadTime"` // minutes
}

// Filter narrows a queue listing. Nil fields do not filter.
type Filter struct {
	Status     *Status `json:"status,omitempty"`
	BatchJobID string  `json:"batchJobId,omitempty"`
	Priority   *int    `json:"priority,omitempty"` // minimum bucket
	Limit      int     `json:"limit,omitempty"`
	Offset     int     `json:"offset,omitempty"`
}

// Pagination describes the page returned by a listing.
type Pagination struct {
	Total   int  `json:"total"`
	Limit   int  `json:"limit"`
	Offset  int  `json:"offset"`
	HasNext bool `json:"hasNext"`
}

// ListResult is a page of review items plus a summary of the filtered set.
type ListResult struct {
	Items      []*ReviewItem `json:"reviewItems"`
	Summary    ReviewMetrics `json:"summary"`
	Pagination Pagination    `json:"pagination"`
}
