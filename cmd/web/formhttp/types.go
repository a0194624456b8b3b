package formhttp

import "errors"

var (
	ErrMissingBody            = errors.New("missing body")
	ErrInvalidRequest         = errors.New("request is invalid")
	ErrBodyTooLarge           = errors.New("request body too large")
	ErrUnsupportedContentType = errors.New("unsupported content-type")
)

// ContactRequest is the payload of POST /contact
type ContactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

// ContactResponse is the uniform response shape of every endpoint. Alternative carries a
// suggested address when the submitted one was rejected as non-existent.
type ContactResponse struct {
	Success     bool   `json:"success"`
	Message     string `json:"message"`
	Alternative string `json:"alternative,omitempty"`
}
