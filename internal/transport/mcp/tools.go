package mcp

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// RecommendInput is the input schema for the recommend tool.
type RecommendInput struct {
	Movie string `json:"movie" jsonschema:"a movie title, possibly partial or misspelled"`
}

// RecommendOutput is the output schema for the recommend tool.
type RecommendOutput struct {
	Outcome         string                 `json:"outcome"`
	ResolvedTitle   string                 `json:"resolved_title,omitempty"`
	Confidence      int                    `json:"confidence"`
	Recommendations []RecommendationOutput `json:"recommendations"`
}

// RecommendationOutput is one recommended title.
type RecommendationOutput struct {
	Title string  `json:"title"`
	Score float64 `json:"score"`
}

func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "recommend",
		Description: "Recommend movies similar to the given title from the catalog",
	}, s.handleRecommend)
}

// handleRecommend handles the recommend tool invocation. An unmatched or
// empty title is a normal result with no recommendations.
func (s *Server) handleRecommend(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input RecommendInput,
) (*mcp.CallToolResult, RecommendOutput, error) {
	res, err := s.ports.Recommender.Recommend(ctx, input.Movie)
	if err != nil {
		return nil, RecommendOutput{}, fmt.Errorf("recommend: %w", err)
	}

	out := RecommendOutput{
		Outcome:         string(res.Resolution.Outcome()),
		ResolvedTitle:   res.ResolvedTitle,
		Confidence:      res.Resolution.Confidence(),
		Recommendations: make([]RecommendationOutput, len(res.Items)),
	}
	for i, it := range res.Items {
		out.Recommendations[i] = RecommendationOutput{Title: it.Title, Score: it.Score}
	}
	return nil, out, nil
}
