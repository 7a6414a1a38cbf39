package main

import (
	"fmt"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/kailas-cloud/movierec/internal/config"
	"github.com/kailas-cloud/movierec/internal/usecase/recommend"
)

type recommendFlags struct {
	policy string
	limit  int
	json   bool
}

// recommendOutput is the --json shape.
type recommendOutput struct {
	Query           string               `json:"query"`
	Outcome         string               `json:"outcome"`
	ResolvedTitle   string               `json:"resolved_title,omitempty"`
	Confidence      int                  `json:"confidence"`
	Recommendations []recommendationJSON `json:"recommendations"`
}

type recommendationJSON struct {
	Title string  `json:"title"`
	Score float64 `json:"score"`
}

func newRecommendCmd(flags *globalFlags) *cobra.Command {
	rf := &recommendFlags{}

	cmd := &cobra.Command{
		Use:   "recommend [movie]",
		Short: "Print movies similar to a title",
		Long: `Build the engine from the configured catalog and print the titles most
similar to the given movie, one per line. Nothing is printed when the title
does not resolve.

Examples:
  movierec recommend "The Matrix"
  movierec recommend matricks --policy fuzzy --json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := flags.bootstrap(cmd.Context(), func(c *config.Config) {
				if rf.policy != "" {
					c.Engine.Policy = rf.policy
				}
				if rf.limit > 0 {
					c.Engine.SubstringLimit = rf.limit
					c.Engine.FuzzyLimit = rf.limit
				}
			})
			if err != nil {
				return err
			}
			defer a.Close()
			defer func() { _ = a.logger.Sync() }()

			query := strings.Join(args, " ")
			res, err := a.rec.Recommend(cmd.Context(), query)
			if err != nil {
				return fmt.Errorf("recommend: %w", err)
			}

			if rf.json {
				return printRecommendJSON(cmd, query, res)
			}
			for _, title := range res.Titles() {
				fmt.Fprintln(cmd.OutOrStdout(), title)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&rf.policy, "policy", "", "resolution policy: substring or fuzzy (overrides config)")
	cmd.Flags().IntVarP(&rf.limit, "limit", "n", 0, "maximum number of recommendations (overrides config)")
	cmd.Flags().BoolVar(&rf.json, "json", false, "output the detailed result as JSON")
	return cmd
}

func printRecommendJSON(cmd *cobra.Command, query string, res recommend.Result) error {
	out := recommendOutput{
		Query:           query,
		Outcome:         string(res.Resolution.Outcome()),
		ResolvedTitle:   res.ResolvedTitle,
		Confidence:      res.Resolution.Confidence(),
		Recommendations: make([]recommendationJSON, len(res.Items)),
	}
	for i, it := range res.Items {
		out.Recommendations[i] = recommendationJSON{Title: it.Title, Score: it.Score}
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return nil
}
