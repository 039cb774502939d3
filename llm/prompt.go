package llm

import (
	"context"
	"fmt"
	"strings"
)

// generatorMetaPrompt instructs the model on how to author a system
// prompt from a plain-language task description.
func generatorMetaPrompt() string {
	return `You are an expert prompt engineer. Given a task, goal, or draft prompt,
write a production-quality system prompt that accomplishes it.

The system prompt you write should:
- Open with a clear role and objective for the assistant
- State constraints, tone, and output format explicitly
- Cover predictable edge cases without padding
- Avoid meta-commentary about being an AI

Respond ONLY with the system prompt text. No preamble, no markdown fences.`
}

// editorMetaPrompt instructs the model on how to revise an existing
// system prompt according to a requested change.
func editorMetaPrompt() string {
	return `You are an expert prompt engineer. You will receive an existing system
prompt and a requested change. Apply the change while preserving the
prompt's working structure and intent; rewrite only what the change
requires.

Respond ONLY with the revised system prompt text. No preamble, no
markdown fences.`
}

// generatorCall runs a meta-prompt call through the configured generator
// model, without a token ceiling so the output is never truncated.
func (c *Client) generatorCall(ctx context.Context, metaPrompt, userContent string) (string, error) {
	apiName, ok := c.registry.APIName(c.generatorModel)
	if !ok {
		return "", &UnknownModelError{Name: c.generatorModel}
	}

	resp, err := c.provider.Complete(ctx, Request{
		Model: apiName,
		Messages: []Message{
			{Role: RoleSystem, Content: metaPrompt},
			{Role: RoleUser, Content: userContent},
		},
	})
	if err != nil {
		return "", &TransportError{Model: c.generatorModel, Err: err}
	}

	return strings.TrimSpace(resp.Content), nil
}

// GenerateSystemPrompt authors a system prompt from a plain-language
// description of the task.
func (c *Client) GenerateSystemPrompt(ctx context.Context, description string) (string, error) {
	content := "Task, Goal, or Current Prompt:\n" + description
	return c.generatorCall(ctx, generatorMetaPrompt(), content)
}

// EditSystemPrompt revises an existing system prompt according to the
// requested change.
func (c *Client) EditSystemPrompt(ctx context.Context, existing, change string) (string, error) {
	content := fmt.Sprintf("Existing System Prompt:\n%s\n\nRequested Change:\n%s", existing, change)
	return c.generatorCall(ctx, editorMetaPrompt(), content)
}
