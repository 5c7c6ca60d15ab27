package model

// AssistantInstance 课程页面上一个 AI 助教组件的配置，由教师在后台编辑，
// 学生提问时只读。
// swagger:model
type AssistantInstance struct {
	UUIDBase
	UnitID      string `gorm:"size:64;index;comment:所属课程单元" json:"unitId"`
	DisplayName string `gorm:"size:100" json:"displayName"`
	Description string `gorm:"type:text;comment:展示给学生的说明" json:"description"`

	// 大模型参数。默认值由创建逻辑填充，不放在列定义上，
	// 否则显式写入的 false/0 会被列默认值覆盖
	ModelName    string  `gorm:"size:50" json:"modelName"`
	APIKey       string  `gorm:"size:128" json:"-"` // 为空时回退到服务端全局密钥
	SystemPrompt string  `gorm:"type:text" json:"systemPrompt"`
	Temperature  float64 `json:"temperature"`
	MaxTokens    int     `json:"maxTokens"`

	// 对话与上下文限额
	MaxTurns        int `gorm:"comment:保留的问答对数量上限" json:"maxTurns"`
	MaxContentChars int `gorm:"comment:注入提示词的页面内容字符上限" json:"maxContentChars"`

	// 功能开关
	EnableReflection   bool `gorm:"comment:回答后展示反思输入框" json:"enableReflection"`
	EnableMultiTurn    bool `gorm:"comment:携带历史对话" json:"enableMultiTurn"`
	IncludePageContent bool `gorm:"comment:提示词注入页面文本" json:"includePageContent"`
	IncludeTranscripts bool `gorm:"comment:提示词注入视频字幕" json:"includeTranscripts"`
	EnableModeration   bool `gorm:"comment:提问先过内容审核" json:"enableModeration"`

	CreatedBy uint `gorm:"index" json:"createdBy"`
}

func (AssistantInstance) TableName() string {
	return "assistant_instances"
}
