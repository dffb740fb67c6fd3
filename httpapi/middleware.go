package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"net/http"

	"github.com/sirupsen/logrus"
)

type handlerResponse struct {
	Code int
	Body interface{}
	Err  error
}

type returnHandler func(http.ResponseWriter, *http.Request) *handlerResponse

func logMiddleware(next returnHandler, log logrus.FieldLogger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		resp := next(w, r)

		entry := log.WithFields(logrus.Fields{
			"method": r.Method,
			"path":   r.URL.Path,
			"code":   resp.Code,
			"status": http.StatusText(resp.Code),
		})
		if r.URL.RawQuery != "" {
			entry = entry.WithField("query", r.URL.RawQuery)
		}

		if resp.Err != nil {
			entry.WithError(resp.Err).Warn("request failed")
			return
		}
		entry.Info("request")
	})
}

//jsonMiddleware rejects non-GET requests that don't carry a JSON body, then writes the response as JSON
func jsonMiddleware(next returnHandler) returnHandler {
	return jsonWriter(func(w http.ResponseWriter, r *http.Request) *handlerResponse {
		if r.Method != "GET" {
			mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
			if err != nil {
				return handleError(http.StatusBadRequest, errors.New("Could not parse Content-Type"))
			}
			if mediaType != "application/json" {
				return handleError(http.StatusBadRequest, errors.New("Content-Type not application/json"))
			}
		}

		return next(w, r)
	})
}

//jsonWriter writes the handlerResponse body as JSON
func jsonWriter(next returnHandler) returnHandler {
	return func(w http.ResponseWriter, r *http.Request) *handlerResponse {
		resp := next(w, r)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(resp.Code)
		e := json.NewEncoder(w)
		err := e.Encode(resp.Body)
		if err != nil {
			return handleError(http.StatusInternalServerError, fmt.Errorf("Could not encode json: %v", err))
		}
		return resp
	}
}
