package model

type GenerationRequest struct {
	Prompt  string
	Size    string
	Quality Quality
}

// GenerateBody is the JSON payload of POST /images/:type/:slug.
type GenerateBody struct {
	Prompt  string  `json:"prompt"`
	Size    string  `json:"size"`
	Quality Quality `json:"quality"`
}

type GenerateResult struct {
	Path     string `json:"path"`
	Format   string `json:"format"`
	Bytes    int64  `json:"bytes"`
	Location string `json:"location,omitempty"`
}
