package model

import (
	"time"
)

// ConversationTurn 存储一轮问答（学生提问 + 助教回答），按 (学生, 实例) 维度隔离。
// 每个学生在每个实例下最多保留实例配置的 MaxTurns 轮，超出后先进先出淘汰。
type ConversationTurn struct {
	ID         uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID     uint      `gorm:"index:idx_instance_user" json:"userId"`
	InstanceID string    `gorm:"size:36;index:idx_instance_user" json:"instanceId"`
	Question   string    `gorm:"type:text;not null" json:"question"`
	Answer     string    `gorm:"type:text;not null" json:"answer"`
	CreatedAt  time.Time `gorm:"index" json:"createdAt"`
}

func (ConversationTurn) TableName() string {
	return "conversation_turns"
}
