package main

import (
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/sells-group/notice-eval/internal/evaluate"
	"github.com/sells-group/notice-eval/internal/model"
	"github.com/sells-group/notice-eval/internal/workbook"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Print every accuracy metric for every model",
	RunE: func(cmd *cobra.Command, args []string) error {
		agg := evaluate.NewAggregator(workbook.New(cfg.Workbook.Path))
		return writeReport(cmd.OutOrStdout(), agg)
	},
}

func init() {
	rootCmd.AddCommand(reportCmd)
}

func writeReport(out io.Writer, agg *evaluate.Aggregator) error {
	p := message.NewPrinter(language.English)
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	defer tw.Flush()

	overall, err := agg.Overall()
	if err != nil {
		return err
	}
	p.Fprintln(tw, "Overall accuracy")
	for _, id := range model.ModelIDs {
		p.Fprintf(tw, "  %s\t%.1f%%\n", id.DisplayName(), overall[id])
	}

	categories, err := agg.ByCategory()
	if err != nil {
		return err
	}
	p.Fprintln(tw, "\nCategory accuracy")
	p.Fprint(tw, "  Category")
	for _, id := range model.ModelIDs {
		p.Fprintf(tw, "\t%s", id.DisplayName())
	}
	p.Fprintln(tw)
	for i, cat := range categories.Categories {
		p.Fprintf(tw, "  %s", cat)
		for _, id := range model.ModelIDs {
			p.Fprintf(tw, "\t%.1f%%", categories.Scores[id][i])
		}
		p.Fprintln(tw)
	}

	rawMetrics := []struct {
		name string
		fn   func() (map[model.ModelID]float64, error)
	}{
		{"Impact amount accuracy", agg.ImpactAmount},
		{"Impact date accuracy", agg.ImpactDate},
		{"Notice date accuracy", agg.NoticeDate},
	}
	for _, m := range rawMetrics {
		scores, err := m.fn()
		if err != nil {
			return err
		}
		p.Fprintf(tw, "\n%s\n", m.name)
		for _, id := range model.ModelIDs {
			p.Fprintf(tw, "  %s\t%.1f%%\n", id.DisplayName(), scores[id])
		}
	}

	perfect, err := agg.PerfectRows()
	if err != nil {
		return err
	}
	p.Fprintln(tw, "\nPerfect rows")
	for _, id := range model.ModelIDs {
		rc := perfect[id]
		p.Fprintf(tw, "  %s\t%d of %d\n", id.DisplayName(), rc.Correct, rc.Total)
	}

	return nil
}
