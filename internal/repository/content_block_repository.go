package repository

import (
	"course_assistant_backend/internal/model"

	"gorm.io/gorm"
)

type ContentBlockRepository struct {
	DB *gorm.DB
}

func NewContentBlockRepository(db *gorm.DB) *ContentBlockRepository {
	return &ContentBlockRepository{DB: db}
}

func (r *ContentBlockRepository) Create(block *model.ContentBlock) error {
	return r.DB.Create(block).Error
}

func (r *ContentBlockRepository) FindByID(id string) (*model.ContentBlock, error) {
	var block model.ContentBlock
	err := r.DB.First(&block, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &block, nil
}

// FindByUnitID 按单元内排序返回内容块，上下文抽取按这个顺序拼接
func (r *ContentBlockRepository) FindByUnitID(unitID string) ([]model.ContentBlock, error) {
	var blocks []model.ContentBlock
	err := r.DB.Where("unit_id = ?", unitID).
		Order("position ASC, created_at ASC").
		Find(&blocks).Error
	return blocks, err
}

func (r *ContentBlockRepository) Update(block *model.ContentBlock) error {
	return r.DB.Save(block).Error
}

func (r *ContentBlockRepository) Delete(id string) error {
	return r.DB.Delete(&model.ContentBlock{}, "id = ?", id).Error
}
