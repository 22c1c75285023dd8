// Package apierror maps every failure reaching the HTTP boundary to the
// single contract error envelope, so clients can branch on error.code
// alone.
package apierror

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/textlens/textlens-api/internal/analysis"
	"github.com/textlens/textlens-api/internal/token"
)

const (
	TypeAuthentication = "AuthenticationError"
	TypeValidation     = "validation_error"
	TypeProcessing     = "processing_error"
)

const (
	CodeMissingToken = "MISSING_TOKEN"
	CodeInvalidToken = "INVALID_TOKEN"
	CodeInvalidText  = "INVALID_TEXT"
	CodeInvalidURL   = "INVALID_URL"
	CodeTextTooLong  = "TEXT_TOO_LONG"
)

// genericMessage replaces internal failure detail on 500 responses.
const genericMessage = "text processing failed"

// ContractError is the fixed error shape for every 4xx/5xx response.
type ContractError struct {
	Type    string         `json:"type"`
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details"`
}

// Envelope wraps a ContractError under the error key.
type Envelope struct {
	Error ContractError `json:"error"`
}

func contractError(errType, code, message string) ContractError {
	return ContractError{
		Type:    errType,
		Code:    code,
		Message: message,
		Details: map[string]any{},
	}
}

// Normalize maps an internal failure to an HTTP status and a ContractError.
// Unrecognized errors become a generic 500 whose message never carries
// internal detail; its code stays INVALID_TEXT for contract compatibility.
func Normalize(err error) (int, ContractError) {
	var providerErr *analysis.ProviderError

	switch {
	case errors.Is(err, token.ErrMissingToken):
		return http.StatusUnauthorized, contractError(TypeAuthentication, CodeMissingToken, token.ErrMissingToken.Error())
	case errors.Is(err, token.ErrTokenExpired),
		errors.Is(err, token.ErrTokenInvalid),
		errors.Is(err, token.ErrTokenRevoked):
		return http.StatusUnauthorized, contractError(TypeAuthentication, CodeInvalidToken, err.Error())

	case errors.Is(err, analysis.ErrURLScheme):
		return http.StatusBadRequest, contractError(TypeValidation, CodeInvalidURL, err.Error())
	case errors.Is(err, analysis.ErrMalformedBody),
		errors.Is(err, analysis.ErrEmptyInput),
		errors.Is(err, analysis.ErrBothProvided),
		errors.Is(err, analysis.ErrEmptyText),
		errors.Is(err, analysis.ErrSummarizeV1):
		return http.StatusBadRequest, contractError(TypeValidation, CodeInvalidText, err.Error())

	case errors.As(err, &providerErr):
		switch providerErr.Kind {
		case analysis.KindLength:
			return http.StatusBadRequest, contractError(TypeProcessing, CodeTextTooLong, providerErr.Message)
		case analysis.KindURL:
			return http.StatusBadRequest, contractError(TypeProcessing, CodeInvalidURL, providerErr.Message)
		case analysis.KindText:
			return http.StatusBadRequest, contractError(TypeProcessing, CodeInvalidText, providerErr.Message)
		}
	}

	return http.StatusInternalServerError, contractError(TypeProcessing, CodeInvalidText, genericMessage)
}

// Respond writes the normalized error response for err.
func Respond(c *gin.Context, err error) {
	status, contractErr := Normalize(err)
	c.JSON(status, Envelope{Error: contractErr})
}

// Abort writes the normalized error response and stops the handler chain.
func Abort(c *gin.Context, err error) {
	status, contractErr := Normalize(err)
	c.AbortWithStatusJSON(status, Envelope{Error: contractErr})
}
