package httpapi

import (
	"net/http"

	"github.com/korylprince/twin-client/chatbot"
	"github.com/korylprince/twin-client/twin"
)

//GET /status
func handleReadStatus(sess *chatbot.Session) returnHandler {
	return func(w http.ResponseWriter, r *http.Request) *handlerResponse {
		s := sess.Status.Current()
		return &handlerResponse{Code: http.StatusOK, Body: &ReadStatusResponse{Status: s, Panel: twin.DescribeStatus(s)}}
	}
}

//GET /health
func handleHealth(w http.ResponseWriter, r *http.Request) *handlerResponse {
	return &handlerResponse{Code: http.StatusOK, Body: &HealthResponse{Status: "ok"}}
}
