package service

import (
	"course_assistant_backend/internal/model"
	"course_assistant_backend/internal/repository"
	"course_assistant_backend/internal/util"
	"errors"
	"strings"

	"gorm.io/gorm"
)

// ReflectionService 学习反思的提交与查询
type ReflectionService struct {
	repo         *repository.ReflectionRepository
	instanceRepo *repository.InstanceRepository
	hub          *SessionHub
}

func NewReflectionService(repo *repository.ReflectionRepository, instanceRepo *repository.InstanceRepository, hub *SessionHub) *ReflectionService {
	return &ReflectionService{repo: repo, instanceRepo: instanceRepo, hub: hub}
}

// Submit 记录一条反思，反思只追加不修改
func (s *ReflectionService) Submit(instanceID string, userID uint, content string) (*model.Reflection, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, util.ErrEmptyReflection
	}

	if _, err := s.instanceRepo.FindByID(instanceID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrInstanceNotFound
		}
		return nil, err
	}

	reflection := &model.Reflection{
		UserID:     userID,
		InstanceID: instanceID,
		Content:    content,
	}
	if err := s.repo.Create(reflection); err != nil {
		return nil, err
	}

	// 提交成功后反思面板收起，组件回到空闲
	s.hub.ClearReflection(instanceID, userID)
	return reflection, nil
}

// ListMine 学生查看自己在某个助教下提交过的反思
func (s *ReflectionService) ListMine(instanceID string, userID uint) ([]model.Reflection, error) {
	return s.repo.ListByUser(instanceID, userID)
}

// ListAll 教师按实例分页查看全部反思，可按学生姓名/邮箱过滤
func (s *ReflectionService) ListAll(instanceID, name string, page, pageSize int) ([]model.Reflection, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	return s.repo.ListAll(instanceID, name, page, pageSize)
}
