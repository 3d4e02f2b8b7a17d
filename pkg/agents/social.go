package agents

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/buddyagent/buddy/pkg/config"
	"github.com/buddyagent/buddy/pkg/memory"
	"github.com/buddyagent/buddy/pkg/providers"
	"github.com/buddyagent/buddy/pkg/tools"
)

const socialAgentPrompt = `You are a social media specialist agent with X (Twitter) posting capabilities.
You can get Bible verses, post to X, and check X account info. Help with content creation,
trend analysis, and social media strategy.`

// SocialAgent covers trend analysis, content generation and the
// Bible-verse posting flow.
type SocialAgent struct {
	name  string
	llm   *LLMAgent
	bible *tools.BibleTool
	x     *tools.XTool
	mem   *memory.ContextMemory
	now   func() time.Time
}

func NewSocialAgent(provider providers.LLMProvider, cfg *config.Config, bible *tools.BibleTool, x *tools.XTool, mem *memory.ContextMemory) *SocialAgent {
	registry := tools.NewRegistry()
	registry.Register(tools.NewCalculatorTool())
	registry.Register(bible)
	registry.Register(x)

	return &SocialAgent{
		name:  "SocialBot",
		llm:   NewLLMAgent(provider, cfg.LLM.Model, socialAgentPrompt, registry, cfg.LLM),
		bible: bible,
		x:     x,
		mem:   mem,
		now:   time.Now,
	}
}

func (a *SocialAgent) Name() string { return a.name }

// PostBibleVerse fetches the verse of the day and posts it to X,
// reporting both steps.
func (a *SocialAgent) PostBibleVerse(ctx context.Context) string {
	post := a.bible.VerseForPosting(ctx)
	if strings.Contains(post, "❌") {
		return "❌ Unable to fetch Bible verse:\n" + post
	}

	postResult := a.x.Post(ctx, post)

	return fmt.Sprintf("📖 Bible Verse Retrieved:\n%s\n\n📱 X Posting Result:\n%s", post, postResult)
}

// AnalyzeTrends asks the model for a trend summary and records it on
// success.
func (a *SocialAgent) AnalyzeTrends(ctx context.Context) string {
	analysis, err := a.llm.Ask(ctx, "Search for current trending topics and provide a summary of what's popular right now")
	if err != nil {
		return fmt.Sprintf("❌ Trends analysis error: %v", err)
	}

	a.mem.Append(memory.TopicSocialTrends, a.name, map[string]any{
		"analysis":  analysis,
		"timestamp": timestamp(a.now()),
	})
	return "📱 Current Trends Analysis:\n" + analysis
}

// GenerateContent drafts social media posts about a topic.
func (a *SocialAgent) GenerateContent(ctx context.Context, topic string) string {
	query := "Create engaging social media content about: " + topic + ". Provide multiple options with different tones (professional, casual, inspirational)."

	content, err := a.llm.Ask(ctx, query)
	if err != nil {
		return fmt.Sprintf("❌ Content generation error: %v", err)
	}
	return "📝 Content Suggestions:\n" + content
}

// CheckXStatus verifies the connected X account.
func (a *SocialAgent) CheckXStatus(ctx context.Context) string {
	return a.x.AccountInfo(ctx)
}
