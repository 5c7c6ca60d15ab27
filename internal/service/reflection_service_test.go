package service

import (
	"course_assistant_backend/internal/model"
	"course_assistant_backend/internal/repository"
	"course_assistant_backend/internal/util"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newReflectionFixture(t *testing.T) (*ReflectionService, *SessionHub, *model.AssistantInstance, *gorm.DB) {
	db := newTestDB(t)
	instance := newTestInstance(t, db, func(i *model.AssistantInstance) {
		i.EnableReflection = true
	})
	hub := NewSessionHub()
	svc := NewReflectionService(repository.NewReflectionRepository(db), repository.NewInstanceRepository(db), hub)
	return svc, hub, instance, db
}

func TestSubmitReflectionPersists(t *testing.T) {
	svc, hub, instance, _ := newReflectionFixture(t)

	require.NoError(t, hub.Begin(instance.ID, 1))
	hub.Finish(instance.ID, 1, true)

	reflection, err := svc.Submit(instance.ID, 1, "  这节课我学会了指针的基本用法。 ")
	require.NoError(t, err)
	assert.NotEmpty(t, reflection.ID)
	assert.Equal(t, "这节课我学会了指针的基本用法。", reflection.Content)

	// 提交后反思面板收起
	assert.Equal(t, StateIdle, hub.State(instance.ID, 1))

	mine, err := svc.ListMine(instance.ID, 1)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "这节课我学会了指针的基本用法。", mine[0].Content)
}

func TestSubmitBlankReflectionRejected(t *testing.T) {
	svc, _, instance, _ := newReflectionFixture(t)

	_, err := svc.Submit(instance.ID, 1, "   \n ")
	assert.ErrorIs(t, err, util.ErrEmptyReflection)

	mine, err := svc.ListMine(instance.ID, 1)
	require.NoError(t, err)
	assert.Empty(t, mine)
}

func TestSubmitReflectionUnknownInstance(t *testing.T) {
	svc, _, _, _ := newReflectionFixture(t)

	_, err := svc.Submit("no-such-instance", 1, "内容")
	assert.ErrorIs(t, err, util.ErrInstanceNotFound)
}

func TestReflectionsAppendOnly(t *testing.T) {
	svc, _, instance, _ := newReflectionFixture(t)

	_, err := svc.Submit(instance.ID, 1, "第一条反思")
	require.NoError(t, err)
	_, err = svc.Submit(instance.ID, 1, "第二条反思")
	require.NoError(t, err)

	mine, err := svc.ListMine(instance.ID, 1)
	require.NoError(t, err)
	assert.Len(t, mine, 2)
}

func TestListAllFiltersByStudentName(t *testing.T) {
	svc, _, instance, db := newReflectionFixture(t)

	require.NoError(t, db.Create(&model.User{Name: "张三", Email: "zhangsan@example.com", Password: "x", Role: model.Student}).Error)
	require.NoError(t, db.Create(&model.User{Name: "李四", Email: "lisi@example.com", Password: "x", Role: model.Student}).Error)

	var zhangsan, lisi model.User
	require.NoError(t, db.First(&zhangsan, "email = ?", "zhangsan@example.com").Error)
	require.NoError(t, db.First(&lisi, "email = ?", "lisi@example.com").Error)

	_, err := svc.Submit(instance.ID, zhangsan.ID, "张三的反思")
	require.NoError(t, err)
	_, err = svc.Submit(instance.ID, lisi.ID, "李四的反思")
	require.NoError(t, err)

	all, total, err := svc.ListAll(instance.ID, "", 1, 20)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, all, 2)

	filtered, total, err := svc.ListAll(instance.ID, "张三", 1, 20)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, filtered, 1)
	assert.Equal(t, "张三的反思", filtered[0].Content)
}
