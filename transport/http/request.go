package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"reflect"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/viant/reviewflow/errs"
	"github.com/viant/reviewflow/model"
	"github.com/viant/reviewflow/service/approval"
	"github.com/viant/reviewflow/service/bulk"
)

const maxBodySize = 4 << 20

var validate = validator.New(validator.WithRequiredStructEnabled())

type enqueueRequest struct {
	model.Candidate
	BatchJobID string `json:"batchJobId,omitempty"`
	Priority   *int   `json:"priority,omitempty" validate:"omitempty,min=0"`
}

type approveRequest struct {
	Notes         string         `json:"notes,omitempty"`
	QualityRating *int           `json:"qualityRating,omitempty" validate:"omitempty,min=1,max=10"`
	Edits         map[string]any `json:"edits,omitempty"`
	AutoPublish   bool           `json:"autoPublish,omitempty"`
}

func (r *approveRequest) options() (approval.ApproveOptions, error) {
	ret := approval.ApproveOptions{Notes: r.Notes, QualityRating: r.QualityRating, AutoPublish: r.AutoPublish}
	if len(r.Edits) > 0 {
		edits, err := approval.ParseEdits(r.Edits)
		if err != nil {
			return ret, err
		}
		ret.Edits = edits
	}
	return ret, nil
}

type rejectRequest struct {
	Reason     string `json:"reason" validate:"required"`
	Regenerate bool   `json:"regenerate,omitempty"`
}

type bulkApproveRequest struct {
	ContentIDs []string        `json:"contentIds" validate:"required,min=1,dive,required"`
	Options    *approveRequest `json:"options,omitempty"`
}

func (r *bulkApproveRequest) options() bulk.Options {
	ret := bulk.Options{}
	if r.Options != nil {
		ret.AdminNotes = r.Options.Notes
		ret.AutoPublish = r.Options.AutoPublish
		ret.DefaultQualityRating = r.Options.QualityRating
	}
	return ret
}

type bulkRejectRequest struct {
	ContentIDs []string `json:"contentIds" validate:"required,min=1,dive,required"`
	Reason     string   `json:"reason"`
}

// decode reads a JSON body into target and validates its tags when target is
// a struct.
func decode(r *http.Request, op string, target any) error {
	decoder := json.NewDecoder(io.LimitReader(r.Body, maxBodySize))
	if err := decoder.Decode(target); err != nil {
		if errors.Is(err, io.EOF) {
			return errs.Validation(op, "request body is required")
		}
		return errs.Validation(op, "malformed request body: %v", err)
	}
	if reflect.Indirect(reflect.ValueOf(target)).Kind() != reflect.Struct {
		return nil
	}
	if err := validate.Struct(target); err != nil {
		var fieldErrors validator.ValidationErrors
		if errors.As(err, &fieldErrors) && len(fieldErrors) > 0 {
			fe := fieldErrors[0]
			return errs.Validation(op, "%s failed on %s", fe.Namespace(), fe.Tag())
		}
		return errs.Validation(op, "%v", err)
	}
	return nil
}

// filterFrom parses the listing query string.
func filterFrom(r *http.Request) (model.Filter, error) {
	const op = "list"
	query := r.URL.Query()
	filter := model.Filter{BatchJobID: query.Get("batchJobId")}
	if value := query.Get("status"); value != "" {
		status := model.Status(value)
		filter.Status = &status
	}
	ints := []struct {
		name   string
		target func(int)
	}{
		{"priority", func(v int) { filter.Priority = &v }},
		{"limit", func(v int) { filter.Limit = v }},
		{"offset", func(v int) { filter.Offset = v }},
	}
	for _, param := range ints {
		value := query.Get(param.name)
		if value == "" {
			continue
		}
		n, err := strconv.Atoi(value)
		if err != nil || n < 0 {
			return filter, errs.Validation(op, "%s must be a non-negative integer", param.name)
		}
		param.target(n)
	}
	return filter, nil
}
