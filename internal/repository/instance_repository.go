package repository

import (
	"course_assistant_backend/internal/model"

	"gorm.io/gorm"
)

type InstanceRepository struct {
	DB *gorm.DB
}

func NewInstanceRepository(db *gorm.DB) *InstanceRepository {
	return &InstanceRepository{DB: db}
}

func (r *InstanceRepository) Create(instance *model.AssistantInstance) error {
	return r.DB.Create(instance).Error
}

func (r *InstanceRepository) FindByID(id string) (*model.AssistantInstance, error) {
	var instance model.AssistantInstance
	err := r.DB.First(&instance, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &instance, nil
}

func (r *InstanceRepository) FindByUnitID(unitID string) ([]model.AssistantInstance, error) {
	var instances []model.AssistantInstance
	err := r.DB.Where("unit_id = ?", unitID).Order("created_at ASC").Find(&instances).Error
	return instances, err
}

func (r *InstanceRepository) List(page, pageSize int) ([]model.AssistantInstance, int64, error) {
	var instances []model.AssistantInstance
	var total int64

	query := r.DB.Model(&model.AssistantInstance{})
	query.Count(&total)

	offset := (page - 1) * pageSize
	if err := query.Order("created_at DESC").Offset(offset).Limit(pageSize).Find(&instances).Error; err != nil {
		return nil, 0, err
	}

	return instances, total, nil
}

func (r *InstanceRepository) Update(instance *model.AssistantInstance) error {
	return r.DB.Save(instance).Error
}

func (r *InstanceRepository) Delete(id string) error {
	return r.DB.Delete(&model.AssistantInstance{}, "id = ?", id).Error
}
