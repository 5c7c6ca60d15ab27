package service

import (
	"context"
	"course_assistant_backend/internal/model"
	"course_assistant_backend/internal/repository"
	"course_assistant_backend/internal/util"
	"course_assistant_backend/pkg/logger"
	"errors"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	// 审核命中时的安全回复，直接作为回答返回，不算技术错误
	moderationRefusal = "您的问题可能包含不当内容，请修改后重新提问。"
	// 补全返回空文本时的兜底回答
	emptyAnswerFallback = "抱歉，我暂时没能生成回答，请稍后再试。"
)

// AssistantService 串起一次完整的提问流程：
// 校验 → 会话占用 → 内容审核 → 上下文抽取 → 提示词组装 → 补全 → 落历史。
// 任何一步失败都不会改动已有对话历史。
type AssistantService struct {
	instanceRepo *repository.InstanceRepository
	extract      *ExtractService
	prompt       *PromptService
	ai           *AIService
	conversation *ConversationService
	hub          *SessionHub
}

func NewAssistantService(
	instanceRepo *repository.InstanceRepository,
	extract *ExtractService,
	prompt *PromptService,
	ai *AIService,
	conversation *ConversationService,
	hub *SessionHub,
) *AssistantService {
	return &AssistantService{
		instanceRepo: instanceRepo,
		extract:      extract,
		prompt:       prompt,
		ai:           ai,
		conversation: conversation,
		hub:          hub,
	}
}

// AskResult 一次提问的结果与结束后的组件状态
type AskResult struct {
	Answer string      `json:"answer"`
	State  WidgetState `json:"state"`
}

func (s *AssistantService) Ask(ctx context.Context, instanceID string, userID uint, question string) (*AskResult, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		// 空问题就地拒绝，不发起任何外部调用
		return nil, util.ErrEmptyQuestion
	}

	instance, err := s.instanceRepo.FindByID(instanceID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrInstanceNotFound
		}
		return nil, err
	}

	// 同一组件同一时刻只允许一个在途提问
	if err := s.hub.Begin(instanceID, userID); err != nil {
		return nil, err
	}

	answered := false
	defer func() {
		s.hub.Finish(instanceID, userID, answered && instance.EnableReflection)
	}()

	// 1. 内容审核：命中直接返回安全回复，补全端点不会被调用
	if instance.EnableModeration {
		flagged, err := s.ai.Moderate(ctx, instance.APIKey, question)
		if err != nil {
			logger.Log.Error("moderation call failed",
				zap.String("instanceId", instanceID),
				zap.Uint("userId", userID),
				zap.Error(err))
			return nil, util.ErrUpstreamUnavailable
		}
		if flagged {
			answered = true
			return &AskResult{
				Answer: moderationRefusal,
				State:  s.finalState(instance),
			}, nil
		}
	}

	// 2. 抽取页面上下文；抽取失败只降级为无上下文，不中断提问
	pageContext, err := s.extract.UnitContext(instance)
	if err != nil {
		logger.Log.Warn("context extraction failed, continuing without it",
			zap.String("instanceId", instanceID),
			zap.Error(err))
		pageContext = ""
	}

	// 3. 取历史窗口
	var history []model.ConversationTurn
	if instance.EnableMultiTurn {
		history, err = s.conversation.RecentTurns(instanceID, userID, instance.MaxTurns)
		if err != nil {
			return nil, err
		}
	}

	// 4. 组装并调用补全
	messages := s.prompt.Assemble(instance, pageContext, history, question)
	answer, err := s.ai.Complete(ctx, CompletionParams{
		Model:       instance.ModelName,
		APIKey:      instance.APIKey,
		Messages:    messages,
		MaxTokens:   instance.MaxTokens,
		Temperature: instance.Temperature,
	})
	if err != nil {
		logger.Log.Error("completion call failed",
			zap.String("instanceId", instanceID),
			zap.Uint("userId", userID),
			zap.Error(err))
		return nil, util.ErrUpstreamUnavailable
	}

	answer = strings.TrimSpace(answer)
	if answer == "" {
		answer = emptyAnswerFallback
	}

	// 5. 成功后才落一轮历史并收缩到上限。
	// 写入失败对提问方必须可见，否则历史会悄悄偏离上限约束
	if instance.EnableMultiTurn {
		if _, err := s.conversation.AppendTurn(instanceID, userID, question, answer, instance.MaxTurns); err != nil {
			logger.Log.Error("failed to persist conversation turn",
				zap.String("instanceId", instanceID),
				zap.Uint("userId", userID),
				zap.Error(err))
			return nil, util.ErrHistoryPersist
		}
	}

	answered = true
	return &AskResult{
		Answer: answer,
		State:  s.finalState(instance),
	}, nil
}

func (s *AssistantService) finalState(instance *model.AssistantInstance) WidgetState {
	if instance.EnableReflection {
		return StateReflection
	}
	return StateIdle
}

// History 组件重新加载时回放的历史窗口
func (s *AssistantService) History(instanceID string, userID uint) ([]model.ConversationTurn, error) {
	instance, err := s.instanceRepo.FindByID(instanceID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrInstanceNotFound
		}
		return nil, err
	}
	return s.conversation.RecentTurns(instanceID, userID, instance.MaxTurns)
}

// ResetHistory 学生主动清空会话
func (s *AssistantService) ResetHistory(instanceID string, userID uint) error {
	return s.conversation.Reset(instanceID, userID)
}
