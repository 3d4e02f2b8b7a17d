package agents

import (
	"context"
	"fmt"

	"github.com/buddyagent/buddy/pkg/config"
	"github.com/buddyagent/buddy/pkg/memory"
	"github.com/buddyagent/buddy/pkg/providers"
)

const emailAgentPrompt = `You are an email specialist agent. Help compose professional emails,
analyze email requests, and provide email management assistance. Focus on clear communication and proper formatting.`

// EmailAgent gives composition guidance. It never sends mail itself:
// actual delivery happens through the router's exact-format handler.
type EmailAgent struct {
	name            string
	llm             *LLMAgent
	emailConfigured func() bool
}

func NewEmailAgent(provider providers.LLMProvider, cfg *config.Config, emailConfigured func() bool) *EmailAgent {
	return &EmailAgent{
		name:            "EmailBot",
		llm:             NewLLMAgent(provider, cfg.LLM.Model, emailAgentPrompt, nil, cfg.LLM),
		emailConfigured: emailConfigured,
	}
}

func (a *EmailAgent) Name() string { return a.name }

// ProcessEmailRequest asks the model for composition guidance with a
// digest of stored context (topic names and counts, never payloads).
func (a *EmailAgent) ProcessEmailRequest(ctx context.Context, request string, mem *memory.ContextMemory) string {
	contextInfo := ""
	if mem != nil {
		if digest := mem.Digest(); digest != "No context stored yet." {
			contextInfo = "Recent context: " + digest
		}
	}

	query := fmt.Sprintf(`Analyze this email request and provide assistance:

Request: %s
Context: %s

Help with:
- Email composition
- Subject line suggestions
- Professional formatting
- Recipient analysis

Provide clear guidance for sending the email.`, request, contextInfo)

	guidance, err := a.llm.Ask(ctx, query)
	if err != nil {
		return fmt.Sprintf("❌ Email processing error: %v", err)
	}

	if a.emailConfigured() {
		return guidance + "\n\n💡 To send an email, use format: 'Send email to [email] with subject [subject] and message [message]'"
	}
	return guidance + "\n\n❌ Email service not configured. Please set GMAIL_EMAIL and GMAIL_APP_PASSWORD."
}
