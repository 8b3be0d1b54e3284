package infolib

import (
	"encoding/json"
	"errors"
	"net/http"
)

var (
	ErrResolverShutdown     = errors.New("resolver instance was shutdown")
	ErrContextIsClosed      = errors.New("context is closed")
	ErrNoProviders          = errors.New("no providers are given")
	ErrDuplicateProvider    = errors.New("provider is duplicated")
	ErrEmptyQuery           = errors.New("query is empty")
	ErrInvalidQuery         = errors.New("query is neither ip address nor domain name")
	ErrInvalidAddress       = errors.New("invalid ip address")
	ErrCircuitBreakerOpened = errors.New("circuit breaker is opened")
	ErrCircuitBreakerIgnore = errors.New("this error should be ignored by circuit breaker")

	errCircuitBreakerPass = errors.New("netloc has answered with client error")
)

// apiError is rendered by HTTP API as
//
//    {"error": {"message": "Cannot get IP info", "context": "..."}}
//
// message is for humans, context is an underlying error if any.
type apiError struct {
	status  int
	message string
	cause   error
}

// Status returns HTTP status code, 500 if nothing specific was set.
func (a *apiError) Status() int {
	if a.status == 0 {
		return http.StatusInternalServerError
	}

	return a.status
}

func (a *apiError) Error() string {
	if a.cause == nil {
		return a.message
	}

	return a.message + ": " + a.cause.Error()
}

func (a *apiError) Unwrap() error {
	return a.cause
}

func (a *apiError) MarshalJSON() ([]byte, error) {
	envelope := struct {
		Error struct {
			Message string `json:"message"`
			Context string `json:"context"`
		} `json:"error"`
	}{}

	envelope.Error.Message = a.message

	if a.cause != nil {
		envelope.Error.Context = a.cause.Error()
	}

	return json.Marshal(&envelope)
}

func newAPIError(status int, message string, cause error) *apiError {
	return &apiError{
		status:  status,
		message: message,
		cause:   cause,
	}
}
