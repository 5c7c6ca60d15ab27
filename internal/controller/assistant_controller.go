package controller

import (
	"course_assistant_backend/internal/service"
	"course_assistant_backend/internal/util"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

// AssistantController 学生端问答组件的接口：
// 提问、历史回放、会话重置、组件状态与学习反思。
type AssistantController struct {
	assistantService  *service.AssistantService
	reflectionService *service.ReflectionService
	hub               *service.SessionHub
}

func NewAssistantController(assistantService *service.AssistantService, reflectionService *service.ReflectionService, hub *service.SessionHub) *AssistantController {
	return &AssistantController{
		assistantService:  assistantService,
		reflectionService: reflectionService,
		hub:               hub,
	}
}

// AskRequest 学生提问
type AskRequest struct {
	Question string `json:"question"`
}

// Ask 处理学生提问
// @Summary 向课程助教提问
// @Description 审核通过后结合课程内容与对话历史调用大模型，同步返回回答
// @Tags 助教
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "助教实例 ID"
// @Param request body AskRequest true "问题内容"
// @Success 200 {object} object{answer=string,state=string}
// @Failure 400 {object} object{error=string} "问题为空"
// @Failure 404 {object} object{error=string} "实例不存在"
// @Failure 409 {object} object{error=string} "上一个问题尚未回答完成"
// @Failure 500 {object} object{error=string} "回答成功但历史保存失败"
// @Failure 502 {object} object{error=string} "AI 服务不可用"
// @Router /api/assistant/instances/{id}/ask [post]
func (c *AssistantController) Ask(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req AskRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := c.assistantService.Ask(ctx.Request.Context(), ctx.Param("id"), claims.UserID, req.Question)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrEmptyQuestion):
			ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, util.ErrInstanceNotFound):
			ctx.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, util.ErrRequestInFlight):
			ctx.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		case errors.Is(err, util.ErrUpstreamUnavailable):
			ctx.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		case errors.Is(err, util.ErrHistoryPersist):
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		default:
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "服务器内部错误"})
		}
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"answer": result.Answer,
		"state":  result.State,
	})
}

// GetHistory godoc
// @Summary 获取当前学生的对话历史窗口
// @Tags 助教
// @Produce json
// @Security BearerAuth
// @Param id path string true "助教实例 ID"
// @Success 200 {object} util.Response{data=[]model.ConversationTurn}
// @Failure 404 {object} util.Response "实例不存在"
// @Router /api/assistant/instances/{id}/history [get]
func (c *AssistantController) GetHistory(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	turns, err := c.assistantService.History(ctx.Param("id"), claims.UserID)
	if err != nil {
		if errors.Is(err, util.ErrInstanceNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, turns)
}

// ResetHistory godoc
// @Summary 清空当前学生的对话历史
// @Tags 助教
// @Produce json
// @Security BearerAuth
// @Param id path string true "助教实例 ID"
// @Success 200 {object} util.Response
// @Router /api/assistant/instances/{id}/history [delete]
func (c *AssistantController) ResetHistory(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	if err := c.assistantService.ResetHistory(ctx.Param("id"), claims.UserID); err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// GetState godoc
// @Summary 获取当前学生在该组件上的会话状态
// @Description 返回 idle / awaiting-response / reflection-visible
// @Tags 助教
// @Produce json
// @Security BearerAuth
// @Param id path string true "助教实例 ID"
// @Success 200 {object} util.Response{data=object}
// @Router /api/assistant/instances/{id}/state [get]
func (c *AssistantController) GetState(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	state := c.hub.State(ctx.Param("id"), claims.UserID)
	util.Success(ctx, gin.H{"state": state})
}

// ReflectionRequest 学习反思提交
type ReflectionRequest struct {
	Reflection string `json:"reflection"`
}

// SubmitReflection 记录学习反思
// @Summary 提交学习反思
// @Tags 助教
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "助教实例 ID"
// @Param request body ReflectionRequest true "反思内容"
// @Success 200 {object} object{status=string,message=string}
// @Failure 400 {object} object{status=string,message=string} "反思内容为空"
// @Failure 404 {object} object{status=string,message=string} "实例不存在"
// @Router /api/assistant/instances/{id}/reflection [post]
func (c *AssistantController) SubmitReflection(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req ReflectionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": err.Error()})
		return
	}

	if _, err := c.reflectionService.Submit(ctx.Param("id"), claims.UserID, req.Reflection); err != nil {
		switch {
		case errors.Is(err, util.ErrEmptyReflection):
			ctx.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": err.Error()})
		case errors.Is(err, util.ErrInstanceNotFound):
			ctx.JSON(http.StatusNotFound, gin.H{"status": "error", "message": err.Error()})
		default:
			ctx.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "服务器内部错误"})
		}
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"status": "success", "message": "反思已记录"})
}

// ListMyReflections godoc
// @Summary 查看自己提交过的反思
// @Tags 助教
// @Produce json
// @Security BearerAuth
// @Param id path string true "助教实例 ID"
// @Success 200 {object} util.Response{data=[]model.Reflection}
// @Router /api/assistant/instances/{id}/reflections/mine [get]
func (c *AssistantController) ListMyReflections(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	reflections, err := c.reflectionService.ListMine(ctx.Param("id"), claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, reflections)
}
