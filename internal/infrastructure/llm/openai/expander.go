package openai

import (
	"context"
	"fmt"

	goopenai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"narrated-slideshow/internal/config"
	"narrated-slideshow/internal/domain/pipeline"
	"narrated-slideshow/internal/logging"
)

const promptTemplate = "Create a detailed video narration script based on this text:\n%s"

// Expander implements script.Expander with a single chat completion.
type Expander struct {
	client      *goopenai.Client
	model       string
	temperature float32
	log         *zap.SugaredLogger
}

func NewExpander(client *goopenai.Client, ttsConfig *config.TTSConfig, log *zap.SugaredLogger) *Expander {
	if ttsConfig == nil {
		ttsConfig = config.DefaultTTSConfig()
	}
	return &Expander{
		client:      client,
		model:       ttsConfig.ScriptModel,
		temperature: ttsConfig.ScriptTemperature,
		log:         logging.OrNop(log),
	}
}

// Expand returns the narration text produced for sourceText. A blank answer is
// returned as is; the caller decides whether that is an error.
func (e *Expander) Expand(ctx context.Context, sourceText string) (string, error) {
	resp, err := e.client.CreateChatCompletion(ctx, goopenai.ChatCompletionRequest{
		Model:       e.model,
		Temperature: e.temperature,
		Messages: []goopenai.ChatCompletionMessage{
			{Role: goopenai.ChatMessageRoleUser, Content: fmt.Sprintf(promptTemplate, sourceText)},
		},
	})
	if err != nil {
		return "", fmt.Errorf("openai chat completion: %v: %w", err, pipeline.ErrRemoteService)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no choices in response: %w", pipeline.ErrRemoteService)
	}
	content := resp.Choices[0].Message.Content
	e.log.Infof("[script] generated %d chars (finish=%s)", len(content), resp.Choices[0].FinishReason)
	return content, nil
}
