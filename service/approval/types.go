package approval

import (
	"fmt"
	"sort"
	"strings"

	"github.com/viant/reviewflow/errs"
)

// ApproveOptions customises an approval.
type ApproveOptions struct {
	Notes         string `json:"notes,omitempty"`
	QualityRating *int   `json:"qualityRating,omitempty"` // 1-10, derived from the score when nil
	Edits         *Edits `json:"edits,omitempty"`         // applied before approving
	AutoPublish   bool   `json:"autoPublish,omitempty"`
}

// RejectOptions customises a rejection.
type RejectOptions struct {
	Regenerate bool `json:"regenerate,omitempty"`
}

// Edits lists the editable content fields; nil fields are left untouched.
type Edits struct {
	Title          *string   `json:"title,omitempty"`
	Body           *string   `json:"body,omitempty"`
	Excerpt        *string   `json:"excerpt,omitempty"`
	Keywords       *[]string `json:"keywords,omitempty"`
	SEOTitle       *string   `json:"seoTitle,omitempty"`
	SEODescription *string   `json:"seoDescription,omitempty"`
}

// Editable field names as recorded in the edit history.
const (
	FieldTitle          = "title"
	FieldBody           = "body"
	FieldExcerpt        = "excerpt"
	FieldKeywords       = "keywords"
	FieldSEOTitle       = "seoTitle"
	FieldSEODescription = "seoDescription"
)

// IsEmpty reports whether no field is set.
func (e *Edits) IsEmpty() bool {
	return e == nil || (e.Title == nil && e.Body == nil && e.Excerpt == nil &&
		e.Keywords == nil && e.SEOTitle == nil && e.SEODescription == nil)
}

func (e *Edits) validate(op string) error {
	if e.IsEmpty() {
		return errs.Validation(op, "at least one editable field is required")
	}
	if e.Title != nil && strings.TrimSpace(*e.Title) == "" {
		return errs.Validation(op, "title cannot be blank")
	}
	if e.Body != nil && strings.TrimSpace(*e.Body) == "" {
		return errs.Validation(op, "body cannot be blank")
	}
	return nil
}

// ParseEdits converts a loosely typed payload into Edits. Unknown keys and
// values of the wrong type are rejected.
func ParseEdits(values map[string]any) (*Edits, error) {
	const op = "edit"
	ret := &Edits{}
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, key := range keys {
		value := values[key]
		var target **string
		switch key {
		case FieldTitle:
			target = &ret.Title
		case FieldBody:
			target = &ret.Body
		case FieldExcerpt:
			target = &ret.Excerpt
		case FieldSEOTitle:
			target = &ret.SEOTitle
		case FieldSEODescription:
			target = &ret.SEODescription
		case FieldKeywords:
			keywords, err := asStrings(value)
			if err != nil {
				return nil, errs.Validation(op, "%s: %v", key, err)
			}
			ret.Keywords = &keywords
			continue
		default:
			return nil, errs.Validation(op, "field %q is not editable", key)
		}
		text, ok := value.(string)
		if !ok {
			return nil, errs.Validation(op, "%s: expected string, got %T", key, value)
		}
		*target = &text
	}
	return ret, nil
}

func asStrings(value any) ([]string, error) {
	switch actual := value.(type) {
	case []string:
		return append([]string{}, actual...), nil
	case []any:
		ret := make([]string, 0, len(actual))
		for i, v := range actual {
			s, ok := v.(string)
			if !ok {
				return nil, fmt.Errorf("element %d: expected string, got %T", i, v)
			}
			ret = append(ret, s)
		}
		return ret, nil
	}
	return nil, fmt.Errorf("expected list of strings, got %T", value)
}
