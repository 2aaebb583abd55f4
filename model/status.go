package model

// Status is the review state of an item.
type Status string

const (
	StatusPending      Status = "pending"
	StatusAutoApproved Status = "auto_approved"
	StatusApproved     Status = "approved"
	StatusRejected     Status = "rejected"
	StatusEditing      Status = "editing"
)

// IsValid reports whether s is one of the known statuses.
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusAutoApproved, StatusApproved, StatusRejected, StatusEditing:
		return true
	}
	return false
}

// IsAccepted reports whether the item reached an accepted state, either by
// human review or at ingestion.
func (s Status) IsAccepted() bool {
	return s == StatusApproved || s == StatusAutoApproved
}

// IsTerminal reports whether no further transition is allowed.
func (s Status) IsTerminal() bool {
	return s.IsAccepted() || s == StatusRejected
}

// PriorityBucket groups integer priorities.
type PriorityBucket string

const (
	PriorityHigh   PriorityBucket = "high"
	PriorityMedium PriorityBucket = "medium"
	PriorityLow    PriorityBucket = "low"
)

// DefaultPriority is assigned when the caller does not specify one.
const DefaultPriority = 1

// BucketOf maps an integer priority to its bucket: high >= 3, medium == 2,
// low <= 1.
func BucketOf(priority int) PriorityBucket {
	switch {
	case priority >= 3:
		return PriorityHigh
	case priority == 2:
		return PriorityMedium
	default:
		return PriorityLow
	}
}

// Rank orders buckets, higher is more urgent.
func (b PriorityBucket) Rank() int {
	switch b {
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	default:
		return 1
	}
}
