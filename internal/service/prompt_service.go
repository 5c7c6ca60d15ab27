package service

import (
	"course_assistant_backend/internal/model"
	"fmt"
)

// 实例未配置系统提示词时的兜底
const defaultSystemPrompt = "你是一个专业的课程助教，请结合课程内容认真回答学生的问题。"

// PromptService 把系统提示词、页面上下文、历史对话和当前问题
// 组装成一次补全调用的消息列表。
type PromptService struct{}

func NewPromptService() *PromptService {
	return &PromptService{}
}

// Assemble 组装顺序固定：system（含上下文）→ 历史问答 → 当前问题。
// 上下文为空则不注入该段；历史为空或实例关闭多轮则只带当前问题。
func (s *PromptService) Assemble(instance *model.AssistantInstance, context string, history []model.ConversationTurn, question string) []AIChatMessage {
	systemContent := instance.SystemPrompt
	if systemContent == "" {
		systemContent = defaultSystemPrompt
	}
	if context != "" {
		systemContent = fmt.Sprintf("%s\n\n当前课程内容：\n%s\n\n请结合以上课程内容回答，必要时引用其中的具体部分。", systemContent, context)
	}

	messages := []AIChatMessage{{
		Role:    "system",
		Content: systemContent,
	}}

	if instance.EnableMultiTurn {
		for _, turn := range history {
			messages = append(messages,
				AIChatMessage{Role: "user", Content: turn.Question},
				AIChatMessage{Role: "assistant", Content: turn.Answer},
			)
		}
	}

	messages = append(messages, AIChatMessage{
		Role:    "user",
		Content: question,
	})

	return messages
}
