package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/viant/afs"
	"github.com/viant/reviewflow/internal/text"
	"github.com/viant/reviewflow/model"
	"github.com/viant/reviewflow/policy"
	"github.com/viant/reviewflow/service/scorer"
)

// scoreReport is printed by the score command.
type scoreReport struct {
	ContentID    string             `json:"contentId"`
	QualityScore model.QualityScore `json:"qualityScore"`
	WordCount    int                `json:"wordCount"`
	ReadingTime  int                `json:"readingTime"`
	Threshold    int                `json:"threshold"`
	AutoApprove  bool               `json:"autoApprove"`
}

func newScoreCommand(v *viper.Viper) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "score <candidate.json|->",
		Short: "Score a candidate document and report whether it would be auto approved",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readSource(cmd.Context(), cmd.InOrStdin(), args[0])
			if err != nil {
				return err
			}
			report, err := score(cmd.Context(), v, data)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if asJSON {
				encoder := json.NewEncoder(out)
				encoder.SetIndent("", "  ")
				return encoder.Encode(report)
			}
			printReport(out, report)
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the report as JSON")
	return cmd
}

func readSource(ctx context.Context, stdin io.Reader, location string) ([]byte, error) {
	if location == "-" {
		return io.ReadAll(stdin)
	}
	if _, err := os.Stat(location); err == nil {
		return os.ReadFile(location)
	}
	return afs.New().DownloadWithURL(ctx, location)
}

func score(ctx context.Context, v *viper.Viper, data []byte) (*scoreReport, error) {
	cfg, err := loadConfig(ctx, v)
	if err != nil {
		return nil, err
	}
	candidate := &model.Candidate{}
	if err = json.Unmarshal(data, candidate); err != nil {
		return nil, fmt.Errorf("invalid candidate: %w", err)
	}
	item := &model.ReviewItem{ContentID: candidate.ContentID, Content: candidate.Content}
	item.QualityScore = scorer.New().Score(&item.Content)
	words := text.WordCount(item.Content.Body)
	threshold := cfg.Queue.AutoApprovalThreshold
	return &scoreReport{
		ContentID:    candidate.ContentID,
		QualityScore: item.QualityScore,
		WordCount:    words,
		ReadingTime:  text.ReadingTime(words),
		Threshold:    threshold,
		AutoApprove:  policy.FromConfig(&cfg.Policy).AutoApprove(ctx, item, threshold),
	}, nil
}

func printReport(w io.Writer, r *scoreReport) {
	fmt.Fprintf(w, "content:     %s\n", r.ContentID)
	fmt.Fprintf(w, "length:      %g\n", r.QualityScore.Length)
	fmt.Fprintf(w, "structure:   %g\n", r.QualityScore.Structure)
	fmt.Fprintf(w, "seo:         %g\n", r.QualityScore.SEO)
	fmt.Fprintf(w, "uniqueness:  %g\n", r.QualityScore.Uniqueness)
	fmt.Fprintf(w, "overall:     %d/100 (threshold %d)\n", r.QualityScore.Overall, r.Threshold)
	fmt.Fprintf(w, "words:       %d (%d min read)\n", r.WordCount, r.ReadingTime)
	fmt.Fprintf(w, "auto approve: %t\n", r.AutoApprove)
}
