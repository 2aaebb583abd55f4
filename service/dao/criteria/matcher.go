package criteria

import (
	"github.com/viant/reviewflow/model"
	"github.com/viant/reviewflow/service/dao"
)

// MatchReview reports whether item satisfies every parameter. Unknown
// parameter names are ignored.
func MatchReview(item *model.ReviewItem, parameters []*dao.Parameter) bool {
	for _, param := range parameters {
		if param == nil {
			continue
		}
		var actual string
		switch param.Name {
		case dao.ParamStatus:
			actual = string(item.Status)
		case dao.ParamBatchJobID:
			actual = item.BatchJobID
		case dao.ParamID:
			actual = item.ID
		default:
			continue
		}
		if !contains(param.Values(), actual) {
			return false
		}
	}
	return true
}

func contains(values []string, candidate string) bool {
	for _, v := range values {
		if v == candidate {
			return true
		}
	}
	return false
}
