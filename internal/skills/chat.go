package skills

import (
	"context"

	"voxie/internal/llm"
)

// Chatter is the chat completion dependency; the llm client satisfies it.
type Chatter interface {
	Chat(ctx context.Context, system, userText string) (llm.Reply, error)
}

const chatSystemPrompt = "Rispondi in italiano, stile voce. Massimo 80 parole. " +
	"Una sola domanda finale. Niente elenchi lunghi."

// Chat is the default conversational path when nothing else claimed the
// utterance.
func Chat(ctx context.Context, c Chatter, userText string) Result {
	r, err := c.Chat(ctx, chatSystemPrompt, userText)
	if err != nil {
		return Fail("LLM_FAIL: " + err.Error())
	}
	return Result{OK: true, Text: r.Text, LLMMs: r.Ms}
}
