package chatbot

var suggestedPrompts = []string{
	"What's your background?",
	"What projects are you working on right now?",
	"What are your strongest technical skills?",
	"What kind of roles are you looking for?",
	"Is now a good time to reach you?",
}

// SuggestedPrompts returns the questions offered to a visitor who doesn't know what to ask
func SuggestedPrompts() []string {
	prompts := make([]string, len(suggestedPrompts))
	copy(prompts, suggestedPrompts)
	return prompts
}
