package service

import (
	"course_assistant_backend/internal/config"
	"course_assistant_backend/internal/repository"
	"course_assistant_backend/internal/util"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newInstanceFixture(t *testing.T) *InstanceService {
	db := newTestDB(t)
	cfg := &config.Config{
		AI: config.AIConfig{Model: "gpt-3.5-turbo"},
		Assistant: config.AssistantConfig{
			SystemPrompt:    "你是一个专业的课程助教，请结合课程内容认真回答学生的问题。",
			Temperature:     0.3,
			MaxTokens:       300,
			MaxTurns:        6,
			MaxContentChars: 2000,
		},
	}
	return NewInstanceService(repository.NewInstanceRepository(db), cfg)
}

func TestCreateInstanceAppliesDefaults(t *testing.T) {
	svc := newInstanceFixture(t)

	instance, err := svc.Create(&CreateInstanceRequest{UnitID: "unit-1"}, 1)
	require.NoError(t, err)

	assert.Equal(t, "AI 课程助教", instance.DisplayName)
	assert.Equal(t, "gpt-3.5-turbo", instance.ModelName)
	assert.Equal(t, "你是一个专业的课程助教，请结合课程内容认真回答学生的问题。", instance.SystemPrompt)
	assert.Equal(t, 0.3, instance.Temperature)
	assert.Equal(t, 300, instance.MaxTokens)
	assert.Equal(t, 6, instance.MaxTurns)
	assert.Equal(t, 2000, instance.MaxContentChars)
	assert.True(t, instance.EnableMultiTurn)
	assert.True(t, instance.IncludePageContent)
	assert.True(t, instance.IncludeTranscripts)
	assert.True(t, instance.EnableModeration)
	assert.False(t, instance.EnableReflection)
}

func TestCreateInstanceOverrides(t *testing.T) {
	svc := newInstanceFixture(t)

	maxTurns := 2
	enableReflection := true
	enableModeration := false
	instance, err := svc.Create(&CreateInstanceRequest{
		UnitID:           "unit-1",
		DisplayName:      "数据结构助教",
		MaxTurns:         &maxTurns,
		EnableReflection: &enableReflection,
		EnableModeration: &enableModeration,
	}, 1)
	require.NoError(t, err)

	assert.Equal(t, "数据结构助教", instance.DisplayName)
	assert.Equal(t, 2, instance.MaxTurns)
	assert.True(t, instance.EnableReflection)
	assert.False(t, instance.EnableModeration)
}

func TestUpdateInstancePartialFields(t *testing.T) {
	svc := newInstanceFixture(t)

	instance, err := svc.Create(&CreateInstanceRequest{UnitID: "unit-1"}, 1)
	require.NoError(t, err)

	prompt := "换一个提示词"
	updated, err := svc.Update(instance.ID, &UpdateInstanceRequest{SystemPrompt: &prompt})
	require.NoError(t, err)

	assert.Equal(t, "换一个提示词", updated.SystemPrompt)
	// 未指定的字段保持原值
	assert.Equal(t, 6, updated.MaxTurns)
	assert.Equal(t, "AI 课程助教", updated.DisplayName)
}

func TestGetStudentViewHidesSecrets(t *testing.T) {
	svc := newInstanceFixture(t)

	instance, err := svc.Create(&CreateInstanceRequest{UnitID: "unit-1", APIKey: "sk-secret"}, 1)
	require.NoError(t, err)

	view, err := svc.GetStudentView(instance.ID)
	require.NoError(t, err)
	assert.Equal(t, instance.ID, view.ID)
	assert.Equal(t, "AI 课程助教", view.DisplayName)
}

func TestDeleteInstance(t *testing.T) {
	svc := newInstanceFixture(t)

	instance, err := svc.Create(&CreateInstanceRequest{UnitID: "unit-1"}, 1)
	require.NoError(t, err)

	require.NoError(t, svc.Delete(instance.ID))

	_, err = svc.Get(instance.ID)
	assert.ErrorIs(t, err, util.ErrInstanceNotFound)
}
