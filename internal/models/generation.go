package models

import "encoding/json"

// GenerationRequest is the POST body of the generation endpoint.
// It is consumed by a single request and never persisted.
type GenerationRequest struct {
	URLs  []string `json:"urls"`
	Title string   `json:"title"`
	Slug  string   `json:"slug,omitempty"`
	Lead  string   `json:"lead,omitempty"`
}

// GenerationResult is the success response of the generation endpoint.
// Article is the article object exactly as the platform returned it.
type GenerationResult struct {
	OK         bool            `json:"ok"`
	Article    json.RawMessage `json:"article"`
	PreviewURL string          `json:"preview_url"`
}
