package chat

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"chathub/internal/domain"
)

// fallbackTemplates each interpolate the model display name and the most
// recent user message, in that order.
var fallbackTemplates = []string{
	"我是%s，您好！我收到了您的问题：\"%s\"。",
	"作为%s，我很高兴为您服务。关于您提到的\"%s\"，我建议...",
	"%s为您分析：您提到的\"%s\"是一个很有意思的话题。",
	"感谢您选择%s！我理解您想了解关于\"%s\"的信息。",
}

const fallbackNotice = "\n\n注意：这是演示回复。要使用真实AI模型，请配置相应的API密钥。"

// MockResponder produces canned replies when no real provider call can be
// made. The artificial delay keeps demo environments feeling like production
// ones; the reply shape is deterministic apart from the template choice.
type MockResponder struct {
	minDelay time.Duration
	maxDelay time.Duration
}

// NewMockResponder returns a responder with the production 1–3s delay.
func NewMockResponder() *MockResponder {
	return &MockResponder{minDelay: time.Second, maxDelay: 3 * time.Second}
}

// Respond builds a fallback reply for the model and history.
func (m *MockResponder) Respond(ctx context.Context, model domain.ChatModel, history []Message) Response {
	template := fallbackTemplates[rand.Intn(len(fallbackTemplates))]
	content := fmt.Sprintf(template, model.DisplayName, lastUserContent(history)) + fallbackNotice

	m.sleep(ctx)

	return Response{
		Content:  content,
		Model:    model.Name,
		Fallback: true,
	}
}

func (m *MockResponder) sleep(ctx context.Context) {
	delay := m.minDelay
	if m.maxDelay > m.minDelay {
		delay += time.Duration(rand.Int63n(int64(m.maxDelay - m.minDelay)))
	}
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-timer.C:
	case <-ctx.Done():
	}
}

func lastUserContent(history []Message) string {
	for i := len(history) - 1; i >= 0; i-- {
		if history[i].Role == RoleUser {
			return history[i].Content
		}
	}
	if len(history) > 0 {
		return history[len(history)-1].Content
	}
	return ""
}
