package httpapi

import (
	"errors"
	"net/http"

	"github.com/korylprince/twin-client/chatbot"
)

//ErrorResponse represents an HTTP error
type ErrorResponse struct {
	Code  int    `json:"code"`
	Error string `json:"error"`
}

//handleError returns a handlerResponse response for the given code
func handleError(code int, err error) *handlerResponse {
	return &handlerResponse{Code: code, Body: &ErrorResponse{Code: code, Error: http.StatusText(code)}, Err: err}
}

//notFoundHandler returns a 404 handlerResponse
func notFoundHandler(w http.ResponseWriter, r *http.Request) *handlerResponse {
	return handleError(http.StatusNotFound, errors.New("Could not find handler"))
}

//methodNotAllowedHandler returns a 405 handlerResponse
func methodNotAllowedHandler(w http.ResponseWriter, r *http.Request) *handlerResponse {
	return handleError(http.StatusMethodNotAllowed, errors.New("Method not allowed"))
}

//checkSubmitError returns a handlerResponse for a rejected submission, or nil if err is nil.
//The error text is passed through since it's meant for the visitor.
func checkSubmitError(err error) *handlerResponse {
	if err == nil {
		return nil
	}

	code := http.StatusInternalServerError
	switch {
	case errors.Is(err, chatbot.ErrEmptyInput):
		code = http.StatusBadRequest
	case errors.Is(err, chatbot.ErrPending):
		code = http.StatusConflict
	}

	return &handlerResponse{Code: code, Body: &ErrorResponse{Code: code, Error: err.Error()}, Err: err}
}
