package httpapi

//MessageRequest is a visitor's message encapsulated in a JSON object
type MessageRequest struct {
	Message string `json:"message"`
}
