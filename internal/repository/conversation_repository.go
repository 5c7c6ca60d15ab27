package repository

import (
	"context"
	"course_assistant_backend/internal/model"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
)

// 历史窗口的 Redis 缓存时长，页面反复刷新时避免重复查库
const historyCacheTTL = 10 * time.Minute

type ConversationRepository struct {
	DB  *gorm.DB
	RDB *redis.Client
}

func NewConversationRepository(db *gorm.DB, rdb *redis.Client) *ConversationRepository {
	return &ConversationRepository{DB: db, RDB: rdb}
}

func historyCacheKey(instanceID string, userID uint) string {
	return fmt.Sprintf("assistant:history:%s:%d", instanceID, userID)
}

// ListRecent 返回 (学生, 实例) 最近的 limit 轮问答，时间升序
func (r *ConversationRepository) ListRecent(instanceID string, userID uint, limit int) ([]model.ConversationTurn, error) {
	if limit <= 0 {
		return []model.ConversationTurn{}, nil
	}

	ctx := context.Background()
	key := historyCacheKey(instanceID, userID)

	if r.RDB != nil {
		if cached, err := r.RDB.Get(ctx, key).Result(); err == nil {
			var turns []model.ConversationTurn
			if json.Unmarshal([]byte(cached), &turns) == nil && len(turns) <= limit {
				return turns, nil
			}
		}
	}

	var turns []model.ConversationTurn
	err := r.DB.Where("instance_id = ? AND user_id = ?", instanceID, userID).
		Order("id DESC").
		Limit(limit).
		Find(&turns).Error
	if err != nil {
		return nil, err
	}

	// 倒序查询结果翻转成时间升序
	for i, j := 0, len(turns)-1; i < j; i, j = i+1, j-1 {
		turns[i], turns[j] = turns[j], turns[i]
	}

	if r.RDB != nil {
		if data, err := json.Marshal(turns); err == nil {
			r.RDB.Set(ctx, key, data, historyCacheTTL)
		}
	}

	return turns, nil
}

func (r *ConversationRepository) Append(turn *model.ConversationTurn) error {
	if err := r.DB.Create(turn).Error; err != nil {
		return err
	}
	r.invalidate(turn.InstanceID, turn.UserID)
	return nil
}

// TrimToMax 只保留最近 max 轮，更早的先进先出淘汰
func (r *ConversationRepository) TrimToMax(instanceID string, userID uint, max int) error {
	if max <= 0 {
		return r.Reset(instanceID, userID)
	}

	// 先定位第 max 新的一轮作为分界，再删掉比它更早的。
	// MySQL 不接受没有 LIMIT 的 OFFSET，窗口查询必须成对生成
	var cutoff []uint
	err := r.DB.Model(&model.ConversationTurn{}).
		Where("instance_id = ? AND user_id = ?", instanceID, userID).
		Order("id DESC").
		Limit(1).
		Offset(max - 1).
		Pluck("id", &cutoff).Error
	if err != nil {
		return err
	}

	if len(cutoff) == 0 {
		return nil
	}

	res := r.DB.Where("instance_id = ? AND user_id = ? AND id < ?", instanceID, userID, cutoff[0]).
		Delete(&model.ConversationTurn{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected > 0 {
		r.invalidate(instanceID, userID)
	}
	return nil
}

// Reset 清空 (学生, 实例) 的全部历史，对应前端的重置会话动作
func (r *ConversationRepository) Reset(instanceID string, userID uint) error {
	err := r.DB.Where("instance_id = ? AND user_id = ?", instanceID, userID).
		Delete(&model.ConversationTurn{}).Error
	if err != nil {
		return err
	}
	r.invalidate(instanceID, userID)
	return nil
}

func (r *ConversationRepository) invalidate(instanceID string, userID uint) {
	if r.RDB == nil {
		return
	}
	r.RDB.Del(context.Background(), historyCacheKey(instanceID, userID))
}
