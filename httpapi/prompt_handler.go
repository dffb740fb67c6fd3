package httpapi

import (
	"net/http"

	"github.com/korylprince/twin-client/chatbot"
)

//GET /prompts/
func handleReadPrompts(w http.ResponseWriter, r *http.Request) *handlerResponse {
	return &handlerResponse{Code: http.StatusOK, Body: &ReadPromptsResponse{Prompts: chatbot.SuggestedPrompts()}}
}
