package relay

// Fixed reply texts. None of them contains a status code or text taken
// from the backend.
const (
	MessageSetupRequired = "The AI assistant is currently initializing. Please try again in a moment or run: python run_rag.py"

	MessageNoResults = "No relevant data found in the current dataset. Try asking about properties in Mumbai, Pune, Delhi, or other major cities."

	MessageRateLimited = "The service is experiencing high demand. Please try again in a few seconds."

	MessageFallback = "No relevant data found in the current dataset. Try asking about properties in Mumbai, Pune, or Delhi."

	MessageTimeout = "The request is taking longer than expected. Try a simpler query like:\n" +
		"• \"mumbai\"\n" +
		"• \"locations in pune\"\n" +
		"• \"average price in delhi\""

	MessageConnection = "Unable to connect to the server. Please ensure the application is running."

	MessageCancelled = "Request cancelled. Ask again whenever you are ready."
)
