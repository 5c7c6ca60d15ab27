package service

import (
	"course_assistant_backend/internal/config"
	"course_assistant_backend/internal/model"
	"course_assistant_backend/internal/repository"
	"course_assistant_backend/internal/util"
	"errors"
	"strings"

	"gorm.io/gorm"
)

// InstanceService 助教实例的配置管理
type InstanceService struct {
	repo     *repository.InstanceRepository
	defaults config.AssistantConfig
	aiModel  string
}

func NewInstanceService(repo *repository.InstanceRepository, cfg *config.Config) *InstanceService {
	return &InstanceService{
		repo:     repo,
		defaults: cfg.Assistant,
		aiModel:  cfg.AI.Model,
	}
}

// CreateInstanceRequest 创建助教实例的请求体，未填字段取系统默认值
type CreateInstanceRequest struct {
	UnitID             string   `json:"unitId" binding:"required"`
	DisplayName        string   `json:"displayName"`
	Description        string   `json:"description"`
	ModelName          string   `json:"modelName"`
	APIKey             string   `json:"apiKey"`
	SystemPrompt       string   `json:"systemPrompt"`
	Temperature        *float64 `json:"temperature"`
	MaxTokens          *int     `json:"maxTokens"`
	MaxTurns           *int     `json:"maxTurns"`
	MaxContentChars    *int     `json:"maxContentChars"`
	EnableReflection   *bool    `json:"enableReflection"`
	EnableMultiTurn    *bool    `json:"enableMultiTurn"`
	IncludePageContent *bool    `json:"includePageContent"`
	IncludeTranscripts *bool    `json:"includeTranscripts"`
	EnableModeration   *bool    `json:"enableModeration"`
}

// UpdateInstanceRequest 更新助教实例，指针字段为 nil 表示不修改
type UpdateInstanceRequest struct {
	DisplayName        *string  `json:"displayName"`
	Description        *string  `json:"description"`
	ModelName          *string  `json:"modelName"`
	APIKey             *string  `json:"apiKey"`
	SystemPrompt       *string  `json:"systemPrompt"`
	Temperature        *float64 `json:"temperature"`
	MaxTokens          *int     `json:"maxTokens"`
	MaxTurns           *int     `json:"maxTurns"`
	MaxContentChars    *int     `json:"maxContentChars"`
	EnableReflection   *bool    `json:"enableReflection"`
	EnableMultiTurn    *bool    `json:"enableMultiTurn"`
	IncludePageContent *bool    `json:"includePageContent"`
	IncludeTranscripts *bool    `json:"includeTranscripts"`
	EnableModeration   *bool    `json:"enableModeration"`
}

func (s *InstanceService) Create(req *CreateInstanceRequest, createdBy uint) (*model.AssistantInstance, error) {
	instance := &model.AssistantInstance{
		UnitID:             strings.TrimSpace(req.UnitID),
		DisplayName:        req.DisplayName,
		Description:        req.Description,
		ModelName:          req.ModelName,
		APIKey:             req.APIKey,
		SystemPrompt:       req.SystemPrompt,
		Temperature:        s.defaults.Temperature,
		MaxTokens:          s.defaults.MaxTokens,
		MaxTurns:           s.defaults.MaxTurns,
		MaxContentChars:    s.defaults.MaxContentChars,
		EnableMultiTurn:    true,
		IncludePageContent: true,
		IncludeTranscripts: true,
		EnableModeration:   true,
		CreatedBy:          createdBy,
	}
	if instance.DisplayName == "" {
		instance.DisplayName = "AI 课程助教"
	}
	if instance.ModelName == "" {
		instance.ModelName = s.aiModel
	}
	if instance.SystemPrompt == "" {
		instance.SystemPrompt = s.defaults.SystemPrompt
	}
	if req.Temperature != nil {
		instance.Temperature = *req.Temperature
	}
	if req.MaxTokens != nil {
		instance.MaxTokens = *req.MaxTokens
	}
	if req.MaxTurns != nil {
		instance.MaxTurns = *req.MaxTurns
	}
	if req.MaxContentChars != nil {
		instance.MaxContentChars = *req.MaxContentChars
	}
	if req.EnableReflection != nil {
		instance.EnableReflection = *req.EnableReflection
	}
	if req.EnableMultiTurn != nil {
		instance.EnableMultiTurn = *req.EnableMultiTurn
	}
	if req.IncludePageContent != nil {
		instance.IncludePageContent = *req.IncludePageContent
	}
	if req.IncludeTranscripts != nil {
		instance.IncludeTranscripts = *req.IncludeTranscripts
	}
	if req.EnableModeration != nil {
		instance.EnableModeration = *req.EnableModeration
	}

	if err := s.repo.Create(instance); err != nil {
		return nil, err
	}
	return instance, nil
}

func (s *InstanceService) Get(id string) (*model.AssistantInstance, error) {
	instance, err := s.repo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrInstanceNotFound
		}
		return nil, err
	}
	return instance, nil
}

// List 分页列出实例；unitID 非空时只看该课程单元下的实例
func (s *InstanceService) List(unitID string, page, pageSize int) ([]model.AssistantInstance, int64, error) {
	if unitID != "" {
		instances, err := s.repo.FindByUnitID(unitID)
		if err != nil {
			return nil, 0, err
		}
		return instances, int64(len(instances)), nil
	}

	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	return s.repo.List(page, pageSize)
}

func (s *InstanceService) Update(id string, req *UpdateInstanceRequest) (*model.AssistantInstance, error) {
	instance, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	if req.DisplayName != nil {
		instance.DisplayName = *req.DisplayName
	}
	if req.Description != nil {
		instance.Description = *req.Description
	}
	if req.ModelName != nil {
		instance.ModelName = *req.ModelName
	}
	if req.APIKey != nil {
		instance.APIKey = *req.APIKey
	}
	if req.SystemPrompt != nil {
		instance.SystemPrompt = *req.SystemPrompt
	}
	if req.Temperature != nil {
		instance.Temperature = *req.Temperature
	}
	if req.MaxTokens != nil {
		instance.MaxTokens = *req.MaxTokens
	}
	if req.MaxTurns != nil {
		instance.MaxTurns = *req.MaxTurns
	}
	if req.MaxContentChars != nil {
		instance.MaxContentChars = *req.MaxContentChars
	}
	if req.EnableReflection != nil {
		instance.EnableReflection = *req.EnableReflection
	}
	if req.EnableMultiTurn != nil {
		instance.EnableMultiTurn = *req.EnableMultiTurn
	}
	if req.IncludePageContent != nil {
		instance.IncludePageContent = *req.IncludePageContent
	}
	if req.IncludeTranscripts != nil {
		instance.IncludeTranscripts = *req.IncludeTranscripts
	}
	if req.EnableModeration != nil {
		instance.EnableModeration = *req.EnableModeration
	}

	if err := s.repo.Update(instance); err != nil {
		return nil, err
	}
	return instance, nil
}

func (s *InstanceService) Delete(id string) error {
	if _, err := s.Get(id); err != nil {
		return err
	}
	return s.repo.Delete(id)
}

// StudentView 学生端可见的实例信息，不暴露密钥和模型参数
type StudentView struct {
	ID               string `json:"id"`
	UnitID           string `json:"unitId"`
	DisplayName      string `json:"displayName"`
	Description      string `json:"description"`
	MaxTurns         int    `json:"maxTurns"`
	EnableReflection bool   `json:"enableReflection"`
	EnableMultiTurn  bool   `json:"enableMultiTurn"`
}

func (s *InstanceService) GetStudentView(id string) (*StudentView, error) {
	instance, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	return &StudentView{
		ID:               instance.ID,
		UnitID:           instance.UnitID,
		DisplayName:      instance.DisplayName,
		Description:      instance.Description,
		MaxTurns:         instance.MaxTurns,
		EnableReflection: instance.EnableReflection,
		EnableMultiTurn:  instance.EnableMultiTurn,
	}, nil
}
