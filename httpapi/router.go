package httpapi

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/korylprince/twin-client/chatbot"
	"github.com/sirupsen/logrus"
)

//NewRouter returns an HTTP router for the panel API over sess.
//allowedOrigins restricts websocket clients; if empty any origin is accepted.
func NewRouter(log logrus.FieldLogger, sess *chatbot.Session, allowedOrigins []string) http.Handler {

	//construct middleware
	var m = func(h returnHandler) http.Handler {
		return logMiddleware(jsonMiddleware(h), log)
	}

	r := mux.NewRouter()

	r.Path("/messages/").Methods("GET").Handler(m(handleReadMessages(sess)))
	r.Path("/messages/").Methods("POST").Handler(m(handleCreateMessage(sess)))

	r.Path("/status").Methods("GET").Handler(m(handleReadStatus(sess)))

	r.Path("/prompts/").Methods("GET").Handler(m(handleReadPrompts))

	r.Path("/health").Methods("GET").Handler(m(handleHealth))

	// Events WebSocket endpoint (no JSON middleware)
	r.Path("/events").Handler(newEventsHandler(sess, log, allowedOrigins))

	//unmatched requests skip the Content-Type check so they get 404 or 405, not 400
	r.NotFoundHandler = logMiddleware(jsonWriter(notFoundHandler), log)
	r.MethodNotAllowedHandler = logMiddleware(jsonWriter(methodNotAllowedHandler), log)

	return http.StripPrefix("/api/1.0", r)
}
