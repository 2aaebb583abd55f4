// Package metrics summarises review items into queue statistics.
package metrics

import (
	"math"

	"github.com/viant/reviewflow/model"
)

// Compute aggregates items. Rates and averages are rounded to the nearest
// integer and are 0 for an empty set.
func Compute(items []*model.ReviewItem) model.ReviewMetrics {
	ret := model.ReviewMetrics{}
	var qualitySum, readTimeSum int
	for _, item := range items {
		if item == nil {
			continue
		}
		ret.Total++
		switch item.Status {
		case model.StatusPending:
			ret.TotalPending++
		case model.StatusApproved:
			ret.TotalApproved++
		case model.StatusAutoApproved:
			ret.TotalAutoApproved++
		case model.StatusRejected:
			ret.TotalRejected++
		case model.StatusEditing:
			ret.TotalEditing++
		}
		switch item.Bucket() {
		case model.PriorityHigh:
			ret.PriorityCounts.High++
		case model.PriorityMedium:
			ret.PriorityCounts.Medium++
		default:
			ret.PriorityCounts.Low++
		}
		qualitySum += item.QualityScore.Overall
		readTimeSum += item.EstimatedReadTime
	}
	if ret.Total == 0 {
		return ret
	}
	total := float64(ret.Total)
	ret.ApprovalRate = int(math.Round(float64(ret.TotalApproved+ret.TotalAutoApproved) / total * 100))
	ret.AverageQualityScore = int(math.Round(float64(qualitySum) / total))
	ret.AverageReadTime = int(math.Round(float64(readTimeSum) / total))
	return ret
}
