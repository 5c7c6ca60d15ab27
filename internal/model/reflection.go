package model

// Reflection 学生收到回答后提交的反思笔记，一次提交一条，不做更新。
// swagger:model
type Reflection struct {
	UUIDBase
	UserID     uint   `gorm:"index;comment:用户ID" json:"userId"`
	InstanceID string `gorm:"size:36;index;comment:助教实例ID" json:"instanceId"`
	Content    string `gorm:"type:text;comment:反思内容" json:"content"`

	// 关联用户
	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (Reflection) TableName() string {
	return "reflections"
}
