package controller

import (
	"course_assistant_backend/internal/config"
	"course_assistant_backend/internal/model"
	"course_assistant_backend/internal/repository"
	"course_assistant_backend/internal/service"
	"course_assistant_backend/internal/util"
	"course_assistant_backend/pkg/database"
	"course_assistant_backend/pkg/logger"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	logger.Log = zap.NewNop()
	os.Exit(m.Run())
}

// fakeAI 固定应答的大模型桩：审核永不命中，补全返回固定文本
func newFakeAIServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/moderations", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"results":[{"flagged":false}]}`))
	})
	mux.HandleFunc("/chat/completions", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"指针保存变量的地址。"}}]}`))
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

type widgetFixture struct {
	router   *gin.Engine
	hub      *service.SessionHub
	instance *model.AssistantInstance
}

func newWidgetFixture(t *testing.T) *widgetFixture {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	instance := &model.AssistantInstance{
		UnitID:             "unit-1",
		DisplayName:        "AI 课程助教",
		ModelName:          "gpt-3.5-turbo",
		SystemPrompt:       "你是课程助教。",
		Temperature:        0.3,
		MaxTokens:          300,
		MaxTurns:           6,
		MaxContentChars:    2000,
		EnableReflection:   true,
		EnableMultiTurn:    true,
		IncludePageContent: true,
		IncludeTranscripts: true,
		EnableModeration:   true,
	}
	require.NoError(t, db.Create(instance).Error)

	upstream := newFakeAIServer(t)

	instanceRepo := repository.NewInstanceRepository(db)
	blockRepo := repository.NewContentBlockRepository(db)
	conversationRepo := repository.NewConversationRepository(db, nil)
	reflectionRepo := repository.NewReflectionRepository(db)

	ai := service.NewAIService(config.AIConfig{BaseURL: upstream.URL, APIKey: "k", Model: "gpt-3.5-turbo"})
	hub := service.NewSessionHub()
	assistantSvc := service.NewAssistantService(
		instanceRepo,
		service.NewExtractService(blockRepo),
		service.NewPromptService(),
		ai,
		service.NewConversationService(conversationRepo),
		hub,
	)
	reflectionSvc := service.NewReflectionService(reflectionRepo, instanceRepo, hub)
	ctrl := NewAssistantController(assistantSvc, reflectionSvc, hub)

	router := gin.New()
	// 测试里直接注入已登录学生的凭证
	router.Use(func(c *gin.Context) {
		c.Set("user", &util.Claims{UserID: 1, Role: model.Student, Email: "student@example.com"})
	})
	group := router.Group("/api/assistant/instances/:id")
	group.POST("/ask", ctrl.Ask)
	group.GET("/history", ctrl.GetHistory)
	group.DELETE("/history", ctrl.ResetHistory)
	group.GET("/state", ctrl.GetState)
	group.POST("/reflection", ctrl.SubmitReflection)

	return &widgetFixture{router: router, hub: hub, instance: instance}
}

func (f *widgetFixture) do(method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func TestAskEndpointReturnsAnswer(t *testing.T) {
	f := newWidgetFixture(t)

	w := f.do("POST", "/api/assistant/instances/"+f.instance.ID+"/ask", `{"question":"什么是指针？"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "指针保存变量的地址。", resp["answer"])
	assert.Equal(t, "reflection-visible", resp["state"])
}

func TestAskEndpointBlankQuestion(t *testing.T) {
	f := newWidgetFixture(t)

	w := f.do("POST", "/api/assistant/instances/"+f.instance.ID+"/ask", `{"question":"  "}`)
	require.Equal(t, http.StatusBadRequest, w.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp["error"])
}

func TestAskEndpointConflictWhenInFlight(t *testing.T) {
	f := newWidgetFixture(t)

	require.NoError(t, f.hub.Begin(f.instance.ID, 1))

	w := f.do("POST", "/api/assistant/instances/"+f.instance.ID+"/ask", `{"question":"第二个问题"}`)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestAskEndpointUnknownInstance(t *testing.T) {
	f := newWidgetFixture(t)

	w := f.do("POST", "/api/assistant/instances/no-such/ask", `{"question":"问题"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHistoryRoundTrip(t *testing.T) {
	f := newWidgetFixture(t)

	w := f.do("POST", "/api/assistant/instances/"+f.instance.ID+"/ask", `{"question":"什么是指针？"}`)
	require.Equal(t, http.StatusOK, w.Code)

	w = f.do("GET", "/api/assistant/instances/"+f.instance.ID+"/history", "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data []model.ConversationTurn `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Data, 1)
	assert.Equal(t, "什么是指针？", resp.Data[0].Question)

	w = f.do("DELETE", "/api/assistant/instances/"+f.instance.ID+"/history", "")
	require.Equal(t, http.StatusOK, w.Code)

	w = f.do("GET", "/api/assistant/instances/"+f.instance.ID+"/history", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Empty(t, resp.Data)
}

func TestReflectionEndpointStatusMessage(t *testing.T) {
	f := newWidgetFixture(t)

	w := f.do("POST", "/api/assistant/instances/"+f.instance.ID+"/reflection", `{"reflection":"这节课学会了指针。"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "success", resp["status"])
	assert.NotEmpty(t, resp["message"])

	w = f.do("POST", "/api/assistant/instances/"+f.instance.ID+"/reflection", `{"reflection":"  "}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "error", resp["status"])
}

func TestStateEndpoint(t *testing.T) {
	f := newWidgetFixture(t)

	w := f.do("GET", "/api/assistant/instances/"+f.instance.ID+"/state", "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data struct {
			State string `json:"state"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "idle", resp.Data.State)
}
