// Package mcp exposes the recommendation engine as a Model Context Protocol tool server.
package mcp

import "errors"

// ErrMissingRecommender is returned when no recommender is provided.
var ErrMissingRecommender = errors.New("mcp: recommender is required")
