package httpapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/korylprince/twin-client/chatbot"
)

//GET /messages/
func handleReadMessages(sess *chatbot.Session) returnHandler {
	return func(w http.ResponseWriter, r *http.Request) *handlerResponse {
		return &handlerResponse{Code: http.StatusOK, Body: &ReadMessagesResponse{
			Messages: sess.Thread.Messages(),
			Pending:  sess.Orchestrator.Pending(),
		}}
	}
}

//POST /messages/
func handleCreateMessage(sess *chatbot.Session) returnHandler {
	return func(w http.ResponseWriter, r *http.Request) *handlerResponse {
		var req *MessageRequest
		d := json.NewDecoder(r.Body)

		err := d.Decode(&req)
		if err != nil || req == nil {
			return handleError(http.StatusBadRequest, fmt.Errorf("Could not decode JSON: %v", err))
		}

		//a visitor leaving doesn't cancel an answer already on its way
		ctx := context.WithoutCancel(r.Context())

		turn, err := sess.Orchestrator.Submit(ctx, req.Message)
		if resp := checkSubmitError(err); resp != nil {
			return resp
		}

		return &handlerResponse{Code: http.StatusOK, Body: &CreateMessageResponse{User: &turn.User, Reply: turn.Reply}}
	}
}
