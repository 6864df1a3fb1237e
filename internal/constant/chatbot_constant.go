package constant

const (
	WelcomeMessageId      = "welcome-message"
	WelcomeMessageContent = "Hello! I'm your BioEZ assistant. I can help you understand protein predictions and answer any questions about molecular biology."

	// AssistantErrorMessage replaces the loading placeholder when the completion call fails.
	AssistantErrorMessage = "Sorry, I encountered an error while processing your request. Please try again."

	// DevAssistantFallback is the canned reply used by the development fixture provider.
	DevAssistantFallback = "I'm your BioEZ assistant. I can help you understand protein predictions and answer questions about molecular biology. What would you like to know?"

	ChatDefaultModel       = "gpt-4-turbo"
	ChatDefaultTemperature = 0.7
	ChatDefaultMaxTokens   = 1000

	// MaxPersistedMessages is how many trailing messages survive a reload.
	MaxPersistedMessages = 50

	OllamaDefaultBaseURL = "http://localhost:11434"
)
