package service

import (
	"course_assistant_backend/internal/model"
	"course_assistant_backend/internal/repository"
	"course_assistant_backend/internal/util"
	"fmt"
	"regexp"
	"strings"
)

var (
	tagPattern    = regexp.MustCompile(`<[^>]+>`)
	spacePattern  = regexp.MustCompile(`\s+`)
	scriptPattern = regexp.MustCompile(`(?is)<script[^>]*>.*?</script>`)
	stylePattern  = regexp.MustCompile(`(?is)<style[^>]*>.*?</style>`)
	srtStyling    = regexp.MustCompile(`\{[^}]+\}`)
)

// 过滤掉导航残渣之类的零碎文本
const minBlockTextLen = 20

// ExtractService 在提问时从实例所属单元的兄弟内容块里抽取上下文文本。
// 抽取结果不落库，每次请求重算。
type ExtractService struct {
	blockRepo *repository.ContentBlockRepository
}

func NewExtractService(blockRepo *repository.ContentBlockRepository) *ExtractService {
	return &ExtractService{blockRepo: blockRepo}
}

// UnitContext 按单元内排序拼接各内容块的文本，并硬截断到实例配置的字符上限。
// 单元没有可用文本时返回空串，调用方静默省略该段。
func (s *ExtractService) UnitContext(instance *model.AssistantInstance) (string, error) {
	if !instance.IncludePageContent {
		return "", nil
	}

	blocks, err := s.blockRepo.FindByUnitID(instance.UnitID)
	if err != nil {
		return "", err
	}

	var parts []string
	for _, block := range blocks {
		if text := extractBlockText(&block, instance.IncludeTranscripts); text != "" {
			parts = append(parts, text)
		}
	}

	combined := strings.Join(parts, "\n\n")
	return util.TruncateRunes(combined, instance.MaxContentChars), nil
}

// extractBlockText 按内容块类型抽取纯文本，太短的碎片直接丢弃
func extractBlockText(block *model.ContentBlock, includeTranscripts bool) string {
	switch block.Kind {
	case model.BlockHTML:
		text := stripHTML(block.Data)
		if len([]rune(text)) <= minBlockTextLen {
			return ""
		}
		return fmt.Sprintf("[页面内容] %s", text)

	case model.BlockVideo:
		if !includeTranscripts {
			return ""
		}
		text := parseTranscript(block.Transcript)
		if text == "" {
			return ""
		}
		return fmt.Sprintf("[视频字幕] %s", text)

	case model.BlockProblem:
		text := stripProblemMarkup(block.Data)
		if len([]rune(text)) <= minBlockTextLen {
			return ""
		}
		return fmt.Sprintf("[练习题] %s", text)
	}

	return ""
}

// stripHTML 去掉标签并压缩空白
func stripHTML(html string) string {
	text := tagPattern.ReplaceAllString(html, " ")
	return strings.TrimSpace(spacePattern.ReplaceAllString(text, " "))
}

// stripProblemMarkup 题目文本先剔除 script/style 再去标签
func stripProblemMarkup(html string) string {
	html = scriptPattern.ReplaceAllString(html, "")
	html = stylePattern.ReplaceAllString(html, "")
	return stripHTML(html)
}

// parseTranscript 从 SRT/VTT 字幕中抽出台词文本，
// 跳过序号行、时间轴行和 WEBVTT/NOTE 头
func parseTranscript(content string) string {
	if content == "" {
		return ""
	}

	var textLines []string
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" ||
			isDigits(line) ||
			strings.Contains(line, "-->") ||
			strings.HasPrefix(line, "WEBVTT") ||
			strings.HasPrefix(line, "NOTE") {
			continue
		}

		line = tagPattern.ReplaceAllString(line, "")
		line = srtStyling.ReplaceAllString(line, "")
		line = strings.TrimSpace(line)
		if line != "" {
			textLines = append(textLines, line)
		}
	}

	return strings.TrimSpace(spacePattern.ReplaceAllString(strings.Join(textLines, " "), " "))
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
