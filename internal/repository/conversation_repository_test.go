package repository

import (
	"context"
	"course_assistant_backend/internal/model"
	"course_assistant_backend/pkg/database"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

func seedTurns(t *testing.T, repo *ConversationRepository, instanceID string, userID uint, n int) {
	t.Helper()
	for i := 1; i <= n; i++ {
		require.NoError(t, repo.Append(&model.ConversationTurn{
			UserID:     userID,
			InstanceID: instanceID,
			Question:   fmt.Sprintf("Q%d", i),
			Answer:     fmt.Sprintf("A%d", i),
		}))
	}
}

func TestTrimToMaxKeepsNewestTurns(t *testing.T) {
	repo := NewConversationRepository(newTestDB(t), nil)

	seedTurns(t, repo, "inst-1", 1, 5)
	require.NoError(t, repo.TrimToMax("inst-1", 1, 3))

	turns, err := repo.ListRecent("inst-1", 1, 10)
	require.NoError(t, err)
	require.Len(t, turns, 3)
	assert.Equal(t, "Q3", turns[0].Question)
	assert.Equal(t, "Q5", turns[2].Question)
}

func TestTrimToMaxNoopUnderLimit(t *testing.T) {
	repo := NewConversationRepository(newTestDB(t), nil)

	seedTurns(t, repo, "inst-1", 1, 2)
	require.NoError(t, repo.TrimToMax("inst-1", 1, 6))

	turns, err := repo.ListRecent("inst-1", 1, 10)
	require.NoError(t, err)
	assert.Len(t, turns, 2)
}

func TestTrimToMaxIsolatedPerUser(t *testing.T) {
	repo := NewConversationRepository(newTestDB(t), nil)

	seedTurns(t, repo, "inst-1", 1, 4)
	seedTurns(t, repo, "inst-1", 2, 4)
	require.NoError(t, repo.TrimToMax("inst-1", 1, 2))

	mine, err := repo.ListRecent("inst-1", 1, 10)
	require.NoError(t, err)
	assert.Len(t, mine, 2)

	theirs, err := repo.ListRecent("inst-1", 2, 10)
	require.NoError(t, err)
	assert.Len(t, theirs, 4)
}

// sqlRecorder 收集 gorm 生成的 SQL 语句
type sqlRecorder struct {
	stmts []string
}

func (r *sqlRecorder) LogMode(gormlogger.LogLevel) gormlogger.Interface { return r }
func (r *sqlRecorder) Info(context.Context, string, ...interface{})    {}
func (r *sqlRecorder) Warn(context.Context, string, ...interface{})    {}
func (r *sqlRecorder) Error(context.Context, string, ...interface{})   {}
func (r *sqlRecorder) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	sql, _ := fc()
	r.stmts = append(r.stmts, sql)
}

// MySQL 方言里单独的 OFFSET 是非法语法，收缩历史的窗口查询
// 生成的 SQL 中 OFFSET 必须和 LIMIT 成对出现
func TestTrimToMaxPairsLimitWithOffsetOnMySQL(t *testing.T) {
	recorder := &sqlRecorder{}
	db, err := gorm.Open(mysql.New(mysql.Config{
		DSN:                       "root:root@tcp(127.0.0.1:3306)/course_assistant?charset=utf8mb4&parseTime=true",
		SkipInitializeWithVersion: true,
	}), &gorm.Config{DryRun: true, DisableAutomaticPing: true, Logger: recorder})
	require.NoError(t, err)

	repo := NewConversationRepository(db, nil)
	require.NoError(t, repo.TrimToMax("inst-1", 1, 6))

	require.NotEmpty(t, recorder.stmts)
	for _, stmt := range recorder.stmts {
		if strings.Contains(stmt, "OFFSET") {
			assert.Contains(t, stmt, "LIMIT", "生成的 SQL: %s", stmt)
		}
	}
}
