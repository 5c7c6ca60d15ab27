package service

import (
	"course_assistant_backend/internal/model"
	"course_assistant_backend/internal/repository"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newExtractFixture(t *testing.T) (*ExtractService, *gorm.DB) {
	db := newTestDB(t)
	return NewExtractService(repository.NewContentBlockRepository(db)), db
}

func createBlock(t *testing.T, db *gorm.DB, block *model.ContentBlock) {
	t.Helper()
	if block.UnitID == "" {
		block.UnitID = "unit-1"
	}
	require.NoError(t, db.Create(block).Error)
}

func TestUnitContextStripsHTMLTags(t *testing.T) {
	svc, db := newExtractFixture(t)
	instance := newTestInstance(t, db, nil)

	createBlock(t, db, &model.ContentBlock{
		Kind: model.BlockHTML,
		Data: "<h1>指针入门</h1><p>指针保存的是另一个变量的内存地址，通过取地址符可以获得变量的地址。</p>",
	})

	got, err := svc.UnitContext(instance)
	require.NoError(t, err)
	assert.NotContains(t, got, "<h1>")
	assert.NotContains(t, got, "</p>")
	assert.Contains(t, got, "[页面内容]")
	assert.Contains(t, got, "指针保存的是另一个变量的内存地址")
}

func TestUnitContextDropsShortFragments(t *testing.T) {
	svc, db := newExtractFixture(t)
	instance := newTestInstance(t, db, nil)

	// 短碎片（导航残渣之类）不应进入上下文
	createBlock(t, db, &model.ContentBlock{Kind: model.BlockHTML, Data: "<nav>首页 | 课程</nav>"})

	got, err := svc.UnitContext(instance)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestUnitContextParsesSRTTranscript(t *testing.T) {
	svc, db := newExtractFixture(t)
	instance := newTestInstance(t, db, nil)

	createBlock(t, db, &model.ContentBlock{
		Kind: model.BlockVideo,
		Transcript: "1\n00:00:01,000 --> 00:00:04,000\n这节课我们演示指针的基本操作。\n\n" +
			"2\n00:00:04,500 --> 00:00:08,000\n首先声明一个整型变量并打印它的地址。\n",
	})

	got, err := svc.UnitContext(instance)
	require.NoError(t, err)
	assert.Contains(t, got, "[视频字幕]")
	assert.Contains(t, got, "这节课我们演示指针的基本操作。 首先声明一个整型变量并打印它的地址。")
	assert.NotContains(t, got, "-->")
	assert.NotContains(t, got, "00:00:01")
}

func TestUnitContextParsesVTTTranscript(t *testing.T) {
	svc, db := newExtractFixture(t)
	instance := newTestInstance(t, db, nil)

	createBlock(t, db, &model.ContentBlock{
		Kind: model.BlockVideo,
		Transcript: "WEBVTT\n\nNOTE 本段由机器生成\n\n" +
			"00:00:01.000 --> 00:00:04.000\n<v 老师>欢迎来到本节课。</v>\n\n" +
			"00:00:04.500 --> 00:00:08.000\n{\\an8}我们先复习上节课的内容。\n",
	})

	got, err := svc.UnitContext(instance)
	require.NoError(t, err)
	assert.Contains(t, got, "欢迎来到本节课。")
	assert.Contains(t, got, "我们先复习上节课的内容。")
	assert.NotContains(t, got, "WEBVTT")
	assert.NotContains(t, got, "NOTE")
	assert.NotContains(t, got, "{\\an8}")
}

func TestUnitContextStripsProblemScripts(t *testing.T) {
	svc, db := newExtractFixture(t)
	instance := newTestInstance(t, db, nil)

	createBlock(t, db, &model.ContentBlock{
		Kind: model.BlockProblem,
		Data: "<problem><script type=\"loncapa/python\">secret = 42</script>" +
			"<style>.q{color:red}</style>" +
			"<p>写出交换两个整数的函数，要求使用指针作为参数。</p></problem>",
	})

	got, err := svc.UnitContext(instance)
	require.NoError(t, err)
	assert.Contains(t, got, "[练习题]")
	assert.Contains(t, got, "写出交换两个整数的函数")
	assert.NotContains(t, got, "secret = 42")
	assert.NotContains(t, got, "color:red")
}

func TestUnitContextTruncatesToExactLimit(t *testing.T) {
	svc, db := newExtractFixture(t)
	instance := newTestInstance(t, db, func(i *model.AssistantInstance) {
		i.MaxContentChars = 50
	})

	createBlock(t, db, &model.ContentBlock{
		Kind: model.BlockHTML,
		Data: "<p>" + strings.Repeat("内容很长", 100) + "</p>",
	})

	got, err := svc.UnitContext(instance)
	require.NoError(t, err)
	// 硬截断到恰好上限，不加省略号
	assert.Equal(t, 50, len([]rune(got)))
	assert.False(t, strings.HasSuffix(got, "..."))
}

func TestUnitContextRespectsToggles(t *testing.T) {
	svc, db := newExtractFixture(t)

	createBlock(t, db, &model.ContentBlock{
		Kind: model.BlockHTML,
		Data: "<p>指针保存的是另一个变量的内存地址，通过取地址符可以获得变量的地址。</p>",
	})
	createBlock(t, db, &model.ContentBlock{
		Kind:       model.BlockVideo,
		Transcript: "1\n00:00:01,000 --> 00:00:04,000\n这节课我们演示指针的基本操作。\n",
	})

	noPage := newTestInstance(t, db, func(i *model.AssistantInstance) {
		i.IncludePageContent = false
	})
	got, err := svc.UnitContext(noPage)
	require.NoError(t, err)
	assert.Empty(t, got)

	noTranscripts := newTestInstance(t, db, func(i *model.AssistantInstance) {
		i.IncludeTranscripts = false
	})
	got, err = svc.UnitContext(noTranscripts)
	require.NoError(t, err)
	assert.Contains(t, got, "[页面内容]")
	assert.NotContains(t, got, "[视频字幕]")
}

func TestUnitContextKeepsBlockOrder(t *testing.T) {
	svc, db := newExtractFixture(t)
	instance := newTestInstance(t, db, nil)

	createBlock(t, db, &model.ContentBlock{
		Kind:     model.BlockHTML,
		Position: 2,
		Data:     "<p>第二块：指针的算术运算需要格外小心越界问题。</p>",
	})
	createBlock(t, db, &model.ContentBlock{
		Kind:     model.BlockHTML,
		Position: 1,
		Data:     "<p>第一块：指针保存的是另一个变量的内存地址。</p>",
	})

	got, err := svc.UnitContext(instance)
	require.NoError(t, err)
	first := strings.Index(got, "第一块")
	second := strings.Index(got, "第二块")
	require.NotEqual(t, -1, first)
	require.NotEqual(t, -1, second)
	assert.Less(t, first, second)
}
