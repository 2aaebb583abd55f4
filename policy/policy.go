package policy

import (
	"context"
	"fmt"
	"strings"

	"github.com/viant/reviewflow/model"
)

// Auto approval modes.
const (
	ModeAsk  = "ask"  // every item waits for a human
	ModeAuto = "auto" // items at or above the threshold are approved (default)
)

// RuleFunc is an additional veto evaluated in ModeAuto once the threshold and
// the type lists have passed. Returning false keeps the item pending.
type RuleFunc func(ctx context.Context, item *model.ReviewItem) bool

// Policy represents the auto approval settings.
//
//   - Mode controls the high-level behaviour (ask / auto).
//   - AllowTypes, BlockTypes restrict auto approval by content type.
//   - Rule is optional and only used when Mode==auto.
type Policy struct {
	Mode       string
	AllowTypes []string // empty => all
	BlockTypes []string
	Rule       RuleFunc
}

// Config represents the declarative, serialisable part of a Policy.
type Config struct {
	Mode       string   `json:"mode,omitempty" yaml:"mode,omitempty"`
	AllowTypes []string `json:"allowTypes,omitempty" yaml:"allowTypes,omitempty"`
	BlockTypes []string `json:"blockTypes,omitempty" yaml:"blockTypes,omitempty"`
}

// Validate checks the mode.
func (c *Config) Validate() error {
	if c == nil {
		return nil
	}
	switch strings.ToLower(c.Mode) {
	case "", ModeAuto, ModeAsk:
		return nil
	}
	return fmt.Errorf("policy: unsupported mode %q, expected %q or %q", c.Mode, ModeAuto, ModeAsk)
}

// ToConfig converts a runtime Policy into a persistable Config.
func ToConfig(p *Policy) *Config {
	if p == nil {
		return nil
	}
	return &Config{
		Mode:       p.Mode,
		AllowTypes: append([]string(nil), p.AllowTypes...),
		BlockTypes: append([]string(nil), p.BlockTypes...),
	}
}

// FromConfig converts a stored Config back to a runtime Policy (without
// Rule).
func FromConfig(c *Config) *Policy {
	if c == nil {
		return nil
	}
	return &Policy{
		Mode:       strings.ToLower(c.Mode),
		AllowTypes: append([]string(nil), c.AllowTypes...),
		BlockTypes: append([]string(nil), c.BlockTypes...),
	}
}

// IsAllowed evaluates AllowTypes / BlockTypes by case-insensitive comparison
// of the content type. BlockTypes has priority.
func (p *Policy) IsAllowed(contentType string) bool {
	if p == nil {
		return true
	}
	normalized := strings.ToLower(contentType)
	for _, b := range p.BlockTypes {
		if normalized == strings.ToLower(b) {
			return false
		}
	}
	if len(p.AllowTypes) == 0 {
		return true
	}
	for _, a := range p.AllowTypes {
		if normalized == strings.ToLower(a) {
			return true
		}
	}
	return false
}

// AutoApprove reports whether item, already scored, skips human review.
func (p *Policy) AutoApprove(ctx context.Context, item *model.ReviewItem, threshold int) bool {
	if item == nil || item.QualityScore.Overall < threshold {
		return false
	}
	if p == nil {
		return true
	}
	if p.Mode == ModeAsk {
		return false
	}
	if !p.IsAllowed(item.Content.Type) {
		return false
	}
	if p.Rule != nil {
		return p.Rule(ctx, item)
	}
	return true
}

type ctxKeyT struct{}

var ctxKey ctxKeyT

// WithPolicy embeds policy in ctx.
func WithPolicy(ctx context.Context, p *Policy) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxKey, p)
}

// FromContext extracts the policy embedded with WithPolicy.
func FromContext(ctx context.Context) *Policy {
	if ctx == nil {
		return nil
	}
	if v, ok := ctx.Value(ctxKey).(*Policy); ok {
		return v
	}
	return nil
}
