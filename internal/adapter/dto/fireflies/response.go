package fireflies

// TestConnectionResponse reports the outcome of a credential check
type TestConnectionResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Email   string `json:"email,omitempty"`
	Name    string `json:"name,omitempty"`
}
