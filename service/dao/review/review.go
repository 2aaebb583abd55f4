// Package review holds the review item store implementations: memory, afs
// backed files and Postgres. Every store is keyed by content id.
package review

import (
	"github.com/viant/reviewflow/model"
	"github.com/viant/reviewflow/service/dao"
)

// Store is the storage contract for review items.
type Store = dao.Service[string, model.ReviewItem]

// Key returns the store key of item.
func Key(item *model.ReviewItem) string { return item.ContentID }
