package domain

import "time"

// ChatModel describes an AI model offered to end users. Rows are reference
// data: immutable after creation except for the active flag.
type ChatModel struct {
	ID          int64
	Name        string
	DisplayName string
	Provider    string
	Description string
	Accuracy    int
	Speed       string
	Category    string
	IsActive    bool
	RequiresVIP bool
	CreatedAt   time.Time
}

// DefaultChatModels is the catalog seeded on first startup.
var DefaultChatModels = []ChatModel{
	{Name: "gpt-4", DisplayName: "龙神GPT-4", Provider: "OpenAI", Description: "最强大的语言理解与生成模型，擅长复杂推理、创意写作和代码生成", Accuracy: 95, Speed: "fast", Category: "text", IsActive: true, RequiresVIP: false},
	{Name: "claude", DisplayName: "凤凰Claude", Provider: "Anthropic", Description: "注重安全性和有用性的AI助手，擅长深度分析、学术研究和安全对话", Accuracy: 93, Speed: "medium", Category: "text", IsActive: true, RequiresVIP: false},
	{Name: "gemini", DisplayName: "麒麟Gemini", Provider: "Google", Description: "支持文本、图像、音频多模态处理的先进AI模型，适合综合性任务处理", Accuracy: 91, Speed: "fast", Category: "multimodal", IsActive: true, RequiresVIP: true},
	{Name: "dall-e", DisplayName: "神笔DALL-E", Provider: "OpenAI", Description: "革命性的文本到图像生成模型，能够创造出惊人的艺术作品和概念图像", Accuracy: 88, Speed: "medium", Category: "image", IsActive: true, RequiresVIP: true},
	{Name: "midjourney", DisplayName: "幻境Midjourney", Provider: "Midjourney", Description: "专业级艺术图像生成工具，特别擅长创造富有想象力的艺术作品", Accuracy: 92, Speed: "slow", Category: "image", IsActive: true, RequiresVIP: true},
	{Name: "codex", DisplayName: "文曲星CodeX", Provider: "OpenAI", Description: "专门优化的代码生成和理解模型，支持多种编程语言和框架", Accuracy: 96, Speed: "fast", Category: "code", IsActive: true, RequiresVIP: false},
}
