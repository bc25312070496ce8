package responses

// ErrorResponse is the envelope for every failed request.
type ErrorResponse struct {
	Code  string `json:"code"`
	Error string `json:"error"`
}

// RenderResponse carries the opaque cache ID returned by the store and
// render endpoints.
type RenderResponse struct {
	ID string `json:"id"`
}

// PumlResponse carries PlantUML source text.
type PumlResponse struct {
	Puml string `json:"puml"`
}

// GenerateResponse is the non-streaming generate payload.
type GenerateResponse struct {
	Puml           string `json:"puml"`
	ConversationID string `json:"conversationId"`
}

// ExplainResponse is the non-streaming explain payload.
type ExplainResponse struct {
	Explanation string `json:"explanation"`
}

// DeleteConversationResponse confirms a conversation removal.
type DeleteConversationResponse struct {
	Message        string `json:"message"`
	ConversationID string `json:"conversationId"`
}
