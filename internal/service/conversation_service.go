package service

import (
	"course_assistant_backend/internal/model"
	"course_assistant_backend/internal/repository"
)

// ConversationService 管理学生与助教实例之间的有界对话历史。
// 不变量：每个 (学生, 实例) 最多保留实例配置的 MaxTurns 轮，先进先出。
type ConversationService struct {
	repo *repository.ConversationRepository
}

func NewConversationService(repo *repository.ConversationRepository) *ConversationService {
	return &ConversationService{repo: repo}
}

// RecentTurns 返回组装提示词用的历史窗口（最多 maxTurns 轮，时间升序）
func (s *ConversationService) RecentTurns(instanceID string, userID uint, maxTurns int) ([]model.ConversationTurn, error) {
	return s.repo.ListRecent(instanceID, userID, maxTurns)
}

// AppendTurn 补全成功后追加一轮问答并收缩到上限。
// 失败的请求不会走到这里，历史保持原样。
func (s *ConversationService) AppendTurn(instanceID string, userID uint, question, answer string, maxTurns int) (*model.ConversationTurn, error) {
	turn := &model.ConversationTurn{
		UserID:     userID,
		InstanceID: instanceID,
		Question:   question,
		Answer:     answer,
	}

	if err := s.repo.Append(turn); err != nil {
		return nil, err
	}

	if err := s.repo.TrimToMax(instanceID, userID, maxTurns); err != nil {
		return nil, err
	}

	return turn, nil
}

// Reset 学生主动清空会话
func (s *ConversationService) Reset(instanceID string, userID uint) error {
	return s.repo.Reset(instanceID, userID)
}
