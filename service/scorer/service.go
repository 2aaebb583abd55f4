package scorer

import (
	"math"
	"strings"

	"github.com/viant/reviewflow/internal/clock"
	"github.com/viant/reviewflow/internal/text"
	"github.com/viant/reviewflow/model"
)

// MaxBucket is the upper bound of every score bucket.
const MaxBucket = 25.0

// MaxOverall is the upper bound of the overall score.
const MaxOverall = 100

var (
	defaultIntroMarkers = []string{
		"introduction", "in this article", "in this guide", "in this post",
		"this article", "overview", "let's explore", "we will explore",
	}
	defaultConclusionMarkers = []string{
		"conclusion", "in summary", "to summarize", "to sum up", "final thoughts",
		"wrapping up", "key takeaways", "in closing",
	}
)

// Service scores content. It holds no mutable state and is safe for
// concurrent use.
type Service struct {
	now               clock.Func
	introMarkers      []string
	conclusionMarkers []string
}

// Score computes the quality score of content. Only ComputedAt depends on
// the clock.
func (s *Service) Score(content *model.Content) model.QualityScore {
	if content == nil {
		content = &model.Content{}
	}
	ret := model.QualityScore{
		Length:     LengthBucket(text.WordCount(content.Body)),
		Structure:  s.structureBucket(content.Body),
		SEO:        SEOBucket(content.Metadata.SEOScore),
		Uniqueness: UniquenessBucket(content.Metadata.UniquenessScore),
		ComputedAt: s.now(),
	}
	ret.Overall = Overall(ret.Length, ret.Structure, ret.SEO, ret.Uniqueness)
	return ret
}

// LengthBucket scores body length in words.
func LengthBucket(words int) float64 {
	switch {
	case words >= 1000:
		return 25
	case words >= 500:
		return 20
	case words >= 300:
		return 15
	default:
		return 10
	}
}

// StructureBucket scores body structure with the default markers.
func StructureBucket(body string) float64 {
	return New().structureBucket(body)
}

func (s *Service) structureBucket(body string) float64 {
	heading := text.HasHeading(body)
	paragraphs := text.Paragraphs(body) >= 3
	switch {
	case heading && paragraphs && s.hasIntroAndConclusion(body):
		return 25
	case heading && paragraphs:
		return 20
	case paragraphs:
		return 15
	default:
		return 10
	}
}

func (s *Service) hasIntroAndConclusion(body string) bool {
	plain := strings.ToLower(text.PlainText(body))
	return containsAny(plain, s.introMarkers) && containsAny(plain, s.conclusionMarkers)
}

// SEOBucket maps a 0-100 seo score onto 0-25.
func SEOBucket(seoScore float64) float64 {
	return clamp(seoScore/4, 0, MaxBucket)
}

// UniquenessBucket maps a 0-1 uniqueness score onto 0-25.
func UniquenessBucket(uniqueness float64) float64 {
	return clamp(uniqueness, 0, 1) * MaxBucket
}

// Overall sums buckets, rounding half to even, capped at MaxOverall.
func Overall(buckets ...float64) int {
	sum := 0.0
	for _, b := range buckets {
		sum += b
	}
	ret := int(math.RoundToEven(sum))
	if ret > MaxOverall {
		return MaxOverall
	}
	if ret < 0 {
		return 0
	}
	return ret
}

func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) || v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func containsAny(s string, markers []string) bool {
	for _, m := range markers {
		if strings.Contains(s, m) {
			return true
		}
	}
	return false
}

func lower(values []string) []string {
	ret := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.ToLower(strings.TrimSpace(v)); v != "" {
			ret = append(ret, v)
		}
	}
	return ret
}

// New creates a scorer.
func New(options ...Option) *Service {
	ret := &Service{
		now:               clock.Now,
		introMarkers:      defaultIntroMarkers,
		conclusionMarkers: defaultConclusionMarkers,
	}
	for _, opt := range options {
		opt(ret)
	}
	return ret
}
