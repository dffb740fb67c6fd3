package httpapi

import "github.com/korylprince/twin-client/twin"

//ReadMessagesResponse is the whole conversation and whether an answer is on its way
type ReadMessagesResponse struct {
	Messages []twin.Message `json:"messages"`
	Pending  bool           `json:"pending"`
}

//CreateMessageResponse contains the visitor's message and the assistant's reply to it
type CreateMessageResponse struct {
	User  *twin.Message `json:"user"`
	Reply *twin.Message `json:"reply"`
}

//ReadStatusResponse contains the raw status snapshot, null until one has been fetched, and its rendering
type ReadStatusResponse struct {
	Status *twin.StatusSnapshot `json:"status"`
	Panel  twin.Panel           `json:"panel"`
}

//ReadPromptsResponse contains a list of suggested questions
type ReadPromptsResponse struct {
	Prompts []string `json:"prompts"`
}

//HealthResponse reports that the panel API is up
type HealthResponse struct {
	Status string `json:"status"`
}
