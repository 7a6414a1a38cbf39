package mcp

import (
	"context"
	"fmt"

	json "github.com/goccy/go-json"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const uriScheme = "movierec://"

// catalogInfo describes the loaded catalog.
type catalogInfo struct {
	Items           int    `json:"items"`
	VocabularyTerms int    `json:"vocabulary_terms"`
	Fingerprint     string `json:"fingerprint"`
	Policy          string `json:"policy"`
}

func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "catalog",
		Name:        "catalog",
		Description: "Size, vocabulary and fingerprint of the loaded movie catalog",
		MIMEType:    "application/json",
	}, s.handleCatalogResource)

	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "titles",
		Name:        "titles",
		Description: "Every movie title in catalog order",
		MIMEType:    "application/json",
	}, s.handleTitlesResource)
}

func (s *Server) handleCatalogResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	info := catalogInfo{}
	if c := s.ports.Catalog; c != nil {
		info = catalogInfo{
			Items:           c.Catalog().Len(),
			VocabularyTerms: c.Vocabulary().Len(),
			Fingerprint:     c.Catalog().Fingerprint(),
			Policy:          string(c.Policy().Name()),
		}
	}
	return jsonResource(req.Params.URI, info)
}

func (s *Server) handleTitlesResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	titles := []string{}
	if c := s.ports.Catalog; c != nil {
		cat := c.Catalog()
		titles = make([]string, cat.Len())
		for i := range titles {
			titles[i] = cat.Title(i)
		}
	}
	return jsonResource(req.Params.URI, titles)
}

func jsonResource(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshal resource: %w", err)
	}
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}
