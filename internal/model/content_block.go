package model

// 内容块类型
const (
	BlockHTML    = "html"
	BlockVideo   = "video"
	BlockProblem = "problem"
)

// ContentBlock 课程单元内的兄弟内容块，助教提问时从中抽取上下文文本。
// swagger:model
type ContentBlock struct {
	UUIDBase
	UnitID   string `gorm:"size:64;index:idx_unit_position;comment:所属课程单元" json:"unitId"`
	Position int    `gorm:"index:idx_unit_position;comment:单元内排序" json:"position"`
	Kind     string `gorm:"size:20;not null;comment:html/video/problem" json:"kind"`
	Title    string `gorm:"size:200" json:"title"`

	// html 与 problem 块的原始标记文本
	Data string `gorm:"type:text" json:"data"`

	// video 块：字幕原文（SRT/VTT）与视频文件信息
	Transcript   string  `gorm:"type:text" json:"transcript"`
	VideoURL     string  `gorm:"size:255" json:"videoUrl"`
	ThumbnailURL string  `gorm:"size:255" json:"thumbnailUrl"`
	Duration     float64 `gorm:"default:0;comment:视频时长（秒）" json:"duration"`

	CreatedBy uint `gorm:"index" json:"createdBy"`
}

func (ContentBlock) TableName() string {
	return "content_blocks"
}
