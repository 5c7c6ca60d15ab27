package repository

import (
	"course_assistant_backend/internal/model"

	"gorm.io/gorm"
)

type ReflectionRepository struct {
	DB *gorm.DB
}

func NewReflectionRepository(db *gorm.DB) *ReflectionRepository {
	return &ReflectionRepository{DB: db}
}

func (r *ReflectionRepository) Create(reflection *model.Reflection) error {
	return r.DB.Create(reflection).Error
}

// ListByUser 学生查看自己在某实例下提交过的反思
func (r *ReflectionRepository) ListByUser(instanceID string, userID uint) ([]model.Reflection, error) {
	var reflections []model.Reflection
	err := r.DB.Where("instance_id = ? AND user_id = ?", instanceID, userID).
		Order("created_at DESC").
		Find(&reflections).Error
	return reflections, err
}

// ListAll 教师/管理员分页查看反思，可按学生姓名/邮箱过滤
func (r *ReflectionRepository) ListAll(instanceID, name string, page, pageSize int) ([]model.Reflection, int64, error) {
	var reflections []model.Reflection
	var total int64

	query := r.DB.Model(&model.Reflection{}).
		Joins("JOIN users ON users.id = reflections.user_id")
	if instanceID != "" {
		query = query.Where("reflections.instance_id = ?", instanceID)
	}
	if name != "" {
		query = query.Where("(users.name LIKE ? OR users.email LIKE ?)", "%"+name+"%", "%"+name+"%")
	}
	query.Count(&total)

	offset := (page - 1) * pageSize
	err := query.Preload("User").
		Order("reflections.created_at DESC").
		Offset(offset).Limit(pageSize).
		Find(&reflections).Error
	if err != nil {
		return nil, 0, err
	}

	return reflections, total, nil
}
