package memory

import (
	"github.com/viant/reviewflow/model"
	"github.com/viant/reviewflow/service/dao"
	"github.com/viant/reviewflow/service/dao/criteria"
	"github.com/viant/reviewflow/service/dao/review"
	"github.com/viant/reviewflow/service/dao/store"
)

// Service keeps review items in memory. Values are cloned on every read
// and write.
type Service struct {
	*store.MemoryStore[string, model.ReviewItem]
}

var _ dao.Service[string, model.ReviewItem] = (*Service)(nil)

// New creates an in-memory review store.
func New() *Service {
	return &Service{
		MemoryStore: store.NewMemoryStore[string, model.ReviewItem](review.Key,
			store.WithClone[string, model.ReviewItem]((*model.ReviewItem).Clone),
			store.WithFilter[string, model.ReviewItem](criteria.MatchReview),
		),
	}
}
