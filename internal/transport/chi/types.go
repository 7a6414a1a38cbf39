package chi

// ErrorCode is the machine-readable error kind in error responses.
type ErrorCode string

// Error codes.
const (
	CodeBadRequest    ErrorCode = "bad_request"
	CodeUnauthorized  ErrorCode = "unauthorized"
	CodeRateLimited   ErrorCode = "rate_limited"
	CodeNotReady      ErrorCode = "not_ready"
	CodeInternalError ErrorCode = "internal_error"
)

// ErrorResponse is the body of every non-2xx JSON response.
type ErrorResponse struct {
	Code  ErrorCode `json:"code"`
	Error string    `json:"error"`
}

// RecommendRequest is the POST /recommend body.
type RecommendRequest struct {
	Movie string `json:"movie"`
}

// RecommendResponse is the POST /recommend result. The detail fields are
// filled only when the request asks for ?detail=true.
type RecommendResponse struct {
	Recommendations []string            `json:"recommendations"`
	Outcome         string              `json:"outcome,omitempty"`
	ResolvedTitle   string              `json:"resolved_title,omitempty"`
	Confidence      *int                `json:"confidence,omitempty"`
	Items           []RecommendationDTO `json:"items,omitempty"`
}

// RecommendationDTO is one ranked title with its similarity score.
type RecommendationDTO struct {
	Title string  `json:"title"`
	Score float64 `json:"score"`
}

// HealthResponse is the GET /health body.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}
