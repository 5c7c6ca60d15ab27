package service

import (
	"course_assistant_backend/internal/model"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssembleMessageOrder(t *testing.T) {
	svc := NewPromptService()
	instance := &model.AssistantInstance{
		SystemPrompt:    "你是课程助教。",
		EnableMultiTurn: true,
	}
	history := []model.ConversationTurn{
		{Question: "什么是指针？", Answer: "指针保存变量的地址。"},
		{Question: "怎么取地址？", Answer: "使用取地址运算符。"},
	}

	messages := svc.Assemble(instance, "指针章节内容", history, "指针可以相减吗？")

	require.Len(t, messages, 6)
	assert.Equal(t, "system", messages[0].Role)
	assert.Contains(t, messages[0].Content, "你是课程助教。")
	assert.Contains(t, messages[0].Content, "当前课程内容：\n指针章节内容")

	assert.Equal(t, "user", messages[1].Role)
	assert.Equal(t, "什么是指针？", messages[1].Content)
	assert.Equal(t, "assistant", messages[2].Role)
	assert.Equal(t, "指针保存变量的地址。", messages[2].Content)
	assert.Equal(t, "user", messages[3].Role)
	assert.Equal(t, "assistant", messages[4].Role)

	assert.Equal(t, "user", messages[5].Role)
	assert.Equal(t, "指针可以相减吗？", messages[5].Content)
}

func TestAssembleOmitsEmptyContext(t *testing.T) {
	svc := NewPromptService()
	instance := &model.AssistantInstance{
		SystemPrompt:    "你是课程助教。",
		EnableMultiTurn: true,
	}

	messages := svc.Assemble(instance, "", nil, "你好")

	require.Len(t, messages, 2)
	assert.Equal(t, "你是课程助教。", messages[0].Content)
	assert.NotContains(t, messages[0].Content, "当前课程内容")
}

func TestAssembleSkipsHistoryWhenMultiTurnDisabled(t *testing.T) {
	svc := NewPromptService()
	instance := &model.AssistantInstance{
		SystemPrompt:    "你是课程助教。",
		EnableMultiTurn: false,
	}
	history := []model.ConversationTurn{
		{Question: "什么是指针？", Answer: "指针保存变量的地址。"},
	}

	messages := svc.Assemble(instance, "", history, "怎么取地址？")

	require.Len(t, messages, 2)
	assert.Equal(t, "system", messages[0].Role)
	assert.Equal(t, "怎么取地址？", messages[1].Content)
}

func TestAssembleFallsBackToDefaultSystemPrompt(t *testing.T) {
	svc := NewPromptService()
	instance := &model.AssistantInstance{EnableMultiTurn: true}

	messages := svc.Assemble(instance, "", nil, "你好")

	require.NotEmpty(t, messages)
	assert.Equal(t, defaultSystemPrompt, messages[0].Content)
}
