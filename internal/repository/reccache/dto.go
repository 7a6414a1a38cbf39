package reccache

import (
	"fmt"

	json "github.com/goccy/go-json"

	"github.com/kailas-cloud/movierec/internal/domain/resolution"
	"github.com/kailas-cloud/movierec/internal/usecase/recommend"
)

// entry is the stored form of a recommend.Result.
type entry struct {
	Outcome       string      `json:"outcome"`
	Index         int         `json:"index"`
	Confidence    int         `json:"confidence"`
	ResolvedTitle string      `json:"resolved_title,omitempty"`
	Items         []entryItem `json:"items"`
}

type entryItem struct {
	Title string  `json:"title"`
	Score float64 `json:"score"`
}

func encode(res recommend.Result) ([]byte, error) {
	e := entry{
		Outcome:       string(res.Resolution.Outcome()),
		Index:         res.Resolution.Index(),
		Confidence:    res.Resolution.Confidence(),
		ResolvedTitle: res.ResolvedTitle,
		Items:         make([]entryItem, len(res.Items)),
	}
	for i, it := range res.Items {
		e.Items[i] = entryItem{Title: it.Title, Score: it.Score}
	}
	data, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("marshal cache entry: %w", err)
	}
	return data, nil
}

func decode(data []byte) (recommend.Result, error) {
	var e entry
	if err := json.Unmarshal(data, &e); err != nil {
		return recommend.Result{}, fmt.Errorf("unmarshal cache entry: %w", err)
	}

	var r resolution.Resolution
	switch resolution.Outcome(e.Outcome) {
	case resolution.Matched:
		r = resolution.Match(e.Index, e.Confidence)
	case resolution.NoMatch:
		r = resolution.None()
	case resolution.EmptyQuery:
		r = resolution.Empty()
	default:
		return recommend.Result{}, fmt.Errorf("unknown cached outcome %q", e.Outcome)
	}

	items := make([]recommend.Recommendation, len(e.Items))
	for i, it := range e.Items {
		items[i] = recommend.Recommendation{Title: it.Title, Score: it.Score}
	}
	return recommend.Result{Resolution: r, ResolvedTitle: e.ResolvedTitle, Items: items}, nil
}
