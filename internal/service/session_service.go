package service

import (
	"course_assistant_backend/internal/util"
	"sync"
	"time"
)

// WidgetState 组件会话状态，前端据此决定输入框和反思区的显隐
type WidgetState string

const (
	StateIdle       WidgetState = "idle"
	StateAwaiting   WidgetState = "awaiting-response"
	StateReflection WidgetState = "reflection-visible"
)

// 长时间无动作的会话由清理协程回收
const sessionIdleExpiry = 30 * time.Minute

type sessionKey struct {
	instanceID string
	userID     uint
}

type widgetSession struct {
	state    WidgetState
	lastSeen time.Time
}

// SessionHub 维护每个 (学生, 实例) 的组件会话状态，
// 保证同一组件同一时刻只有一个在途提问。
type SessionHub struct {
	mu       sync.Mutex
	sessions map[sessionKey]*widgetSession
	stop     chan struct{}
}

func NewSessionHub() *SessionHub {
	return &SessionHub{
		sessions: make(map[sessionKey]*widgetSession),
		stop:     make(chan struct{}),
	}
}

// Run 周期清理长期闲置的会话条目，随应用启动在后台运行
func (h *SessionHub) Run() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			h.sweep()
		case <-h.stop:
			return
		}
	}
}

func (h *SessionHub) Stop() {
	close(h.stop)
}

func (h *SessionHub) sweep() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for key, s := range h.sessions {
		// 在途状态不回收，避免请求完成后状态凭空消失
		if s.state != StateAwaiting && time.Since(s.lastSeen) > sessionIdleExpiry {
			delete(h.sessions, key)
		}
	}
}

// State 查询当前会话状态，没有记录时视为空闲
func (h *SessionHub) State(instanceID string, userID uint) WidgetState {
	h.mu.Lock()
	defer h.mu.Unlock()

	if s, ok := h.sessions[sessionKey{instanceID, userID}]; ok {
		return s.state
	}
	return StateIdle
}

// Begin 提问进入在途状态；前一个问题还没回来时拒绝
func (h *SessionHub) Begin(instanceID string, userID uint) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	key := sessionKey{instanceID, userID}
	if s, ok := h.sessions[key]; ok && s.state == StateAwaiting {
		return util.ErrRequestInFlight
	}

	h.sessions[key] = &widgetSession{state: StateAwaiting, lastSeen: time.Now()}
	return nil
}

// Finish 一次提问结束：成功且实例开启反思时进入反思态，否则回到空闲
func (h *SessionHub) Finish(instanceID string, userID uint, showReflection bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	state := StateIdle
	if showReflection {
		state = StateReflection
	}
	h.sessions[sessionKey{instanceID, userID}] = &widgetSession{state: state, lastSeen: time.Now()}
}

// ClearReflection 反思提交（或放弃）后回到空闲
func (h *SessionHub) ClearReflection(instanceID string, userID uint) {
	h.mu.Lock()
	defer h.mu.Unlock()

	key := sessionKey{instanceID, userID}
	if s, ok := h.sessions[key]; ok && s.state == StateReflection {
		s.state = StateIdle
		s.lastSeen = time.Now()
	}
}
