package upstream

import (
	"errors"

	"github.com/sashabaranov/go-openai"
)

// FromOpenAI maps a go-openai client error onto the domain classification.
// Errors that carry no HTTP status are treated as transport failures.
func FromOpenAI(provider string, err error) error {
	if err == nil {
		return nil
	}
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) && apiErr.HTTPStatusCode != 0 {
		return &StatusError{Provider: provider, StatusCode: apiErr.HTTPStatusCode, Body: apiErr.Message}
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) && reqErr.HTTPStatusCode != 0 {
		return &StatusError{Provider: provider, StatusCode: reqErr.HTTPStatusCode, Body: string(reqErr.Body)}
	}
	return FromTransport(provider, err)
}
