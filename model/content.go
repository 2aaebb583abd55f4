package model

// Metadata carries SEO attributes supplied by the generator and values
// derived from the body at ingestion and after every edit.
type Metadata struct {
	Keywords        []string `json:"keywords,omitempty" yaml:"keywords,omitempty"`
	SEOTitle        string   `json:"seoTitle,omitempty" yaml:"seoTitle,omitempty"`
	SEODescription  string   `json:"seoDescription,omitempty" yaml:"seoDescription,omitempty"`
	SEOScore        float64  `json:"seoScore,omitempty" yaml:"seoScore,omitempty"`               // 0-100, external
	UniquenessScore float64  `json:"uniquenessScore,omitempty" yaml:"uniquenessScore,omitempty"` // 0-1, external
	WordCount       int      `json:"wordCount" yaml:"wordCount"`                                 // derived
	ReadingTime     int      `json:"readingTime" yaml:"readingTime"`                             // derived, minutes
}

// Content is the snapshot of generated content under review.
type Content struct {
	Title            string   `json:"title" yaml:"title"`
	Body             string   `json:"body" yaml:"body"`
	Excerpt          string   `json:"excerpt,omitempty" yaml:"excerpt,omitempty"`
	Type             string   `json:"type,omitempty" yaml:"type,omitempty"`
	Metadata         Metadata `json:"metadata" yaml:"metadata"`
	AIProvider       string   `json:"aiProvider,omitempty" yaml:"aiProvider,omitempty"`
	SourceReferences []string `json:"sourceReferences,omitempty" yaml:"sourceReferences,omitempty"`
}

// Clone returns a deep copy.
func (c Content) Clone() Content {
	ret := c
	ret.Metadata.Keywords = cloneStrings(c.Metadata.Keywords)
	ret.SourceReferences = cloneStrings(c.SourceReferences)
	return ret
}

// Candidate is what the generation pipeline hands over for review.
type Candidate struct {
	ContentID string `json:"contentId" yaml:"contentId"`
	Content   `yaml:",inline"`
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	return append([]string(nil), in...)
}
