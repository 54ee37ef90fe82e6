package transport

// Tasks, drafts, patches, credentials and sessions travel as their domain
// types. Only the error envelope needs its own shape.

// errorResponse matches the server's {"error":{"message","type"}} body.
type errorResponse struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}
