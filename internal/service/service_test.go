package service

import (
	"course_assistant_backend/internal/model"
	"course_assistant_backend/pkg/database"
	"course_assistant_backend/pkg/logger"
	"os"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func TestMain(m *testing.M) {
	logger.Log = zap.NewNop()
	os.Exit(m.Run())
}

// newTestDB 每个测试一个独立的 sqlite 内存库
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

// newTestInstance 建一个开启全部功能的助教实例，mutate 可按用例调整配置
func newTestInstance(t *testing.T, db *gorm.DB, mutate func(*model.AssistantInstance)) *model.AssistantInstance {
	t.Helper()

	instance := &model.AssistantInstance{
		UnitID:             "unit-1",
		DisplayName:        "AI 课程助教",
		ModelName:          "gpt-3.5-turbo",
		SystemPrompt:       "你是一个专业的课程助教，请结合课程内容认真回答学生的问题。",
		Temperature:        0.3,
		MaxTokens:          300,
		MaxTurns:           6,
		MaxContentChars:    2000,
		EnableReflection:   false,
		EnableMultiTurn:    true,
		IncludePageContent: true,
		IncludeTranscripts: true,
		EnableModeration:   true,
		CreatedBy:          1,
	}
	if mutate != nil {
		mutate(instance)
	}
	require.NoError(t, db.Create(instance).Error)
	return instance
}
