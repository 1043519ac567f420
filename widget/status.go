package widget

import "github.com/mrsingh-rishi/voice-chat/model"

var (
	idleStatus       = model.Status{Message: "Ask me anything.", Kind: model.StatusIdle}
	processingStatus = model.Status{Message: "🤔 Processing your question...", Kind: model.StatusProcessing}
	readyStatus      = model.Status{Message: "✅ Response ready! Ask another question.", Kind: model.StatusReady}
	errorStatus      = model.Status{Message: "⚠️ Error occurred. Please try again.", Kind: model.StatusError}
)
