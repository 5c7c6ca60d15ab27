package service

import (
	"course_assistant_backend/internal/util"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionHubStateTransitions(t *testing.T) {
	hub := NewSessionHub()

	// 没有任何记录时视为空闲
	assert.Equal(t, StateIdle, hub.State("inst-1", 1))

	require.NoError(t, hub.Begin("inst-1", 1))
	assert.Equal(t, StateAwaiting, hub.State("inst-1", 1))

	hub.Finish("inst-1", 1, false)
	assert.Equal(t, StateIdle, hub.State("inst-1", 1))
}

func TestSessionHubRejectsConcurrentAsk(t *testing.T) {
	hub := NewSessionHub()

	require.NoError(t, hub.Begin("inst-1", 1))
	err := hub.Begin("inst-1", 1)
	assert.ErrorIs(t, err, util.ErrRequestInFlight)

	// 其他学生、其他实例互不影响
	assert.NoError(t, hub.Begin("inst-1", 2))
	assert.NoError(t, hub.Begin("inst-2", 1))
}

func TestSessionHubReflectionFlow(t *testing.T) {
	hub := NewSessionHub()

	require.NoError(t, hub.Begin("inst-1", 1))
	hub.Finish("inst-1", 1, true)
	assert.Equal(t, StateReflection, hub.State("inst-1", 1))

	// 反思态不阻止下一次提问
	require.NoError(t, hub.Begin("inst-1", 1))
	hub.Finish("inst-1", 1, true)

	hub.ClearReflection("inst-1", 1)
	assert.Equal(t, StateIdle, hub.State("inst-1", 1))
}

func TestSessionHubClearReflectionOnlyInReflectionState(t *testing.T) {
	hub := NewSessionHub()

	require.NoError(t, hub.Begin("inst-1", 1))
	hub.ClearReflection("inst-1", 1)

	// 在途状态不受反思清理影响
	assert.Equal(t, StateAwaiting, hub.State("inst-1", 1))
}
