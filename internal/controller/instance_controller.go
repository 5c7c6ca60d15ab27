package controller

import (
	"course_assistant_backend/internal/service"
	"course_assistant_backend/internal/util"
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
)

// InstanceController 助教实例的配置管理，教师端接口
type InstanceController struct {
	instanceService *service.InstanceService
}

func NewInstanceController(instanceService *service.InstanceService) *InstanceController {
	return &InstanceController{instanceService: instanceService}
}

// Create godoc
// @Summary 创建助教实例
// @Description 为课程单元挂载一个 AI 助教，未填字段取系统默认值
// @Tags 助教管理
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body service.CreateInstanceRequest true "实例配置"
// @Success 201 {object} util.Response{data=model.AssistantInstance}
// @Failure 400 {object} util.Response "请求参数错误"
// @Router /api/teacher/instances [post]
func (c *InstanceController) Create(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.CreateInstanceRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	instance, err := c.instanceService.Create(&req, claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Created(ctx, instance)
}

// List godoc
// @Summary 分页查看助教实例
// @Tags 助教管理
// @Produce json
// @Security BearerAuth
// @Param unitId query string false "按课程单元过滤"
// @Param page query int false "页码"
// @Param pageSize query int false "每页条数"
// @Success 200 {object} util.Response{data=util.PageResponse}
// @Router /api/teacher/instances [get]
func (c *InstanceController) List(ctx *gin.Context) {
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(ctx.DefaultQuery("pageSize", "20"))

	instances, total, err := c.instanceService.List(ctx.Query("unitId"), page, pageSize)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, util.PageResponse{
		List:  instances,
		Total: total,
		Page:  page,
		Limit: pageSize,
	})
}

// Get godoc
// @Summary 查看助教实例完整配置
// @Tags 助教管理
// @Produce json
// @Security BearerAuth
// @Param id path string true "实例 ID"
// @Success 200 {object} util.Response{data=model.AssistantInstance}
// @Failure 404 {object} util.Response "实例不存在"
// @Router /api/teacher/instances/{id} [get]
func (c *InstanceController) Get(ctx *gin.Context) {
	instance, err := c.instanceService.Get(ctx.Param("id"))
	if err != nil {
		if errors.Is(err, util.ErrInstanceNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, instance)
}

// Update godoc
// @Summary 更新助教实例配置
// @Tags 助教管理
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "实例 ID"
// @Param request body service.UpdateInstanceRequest true "要修改的字段"
// @Success 200 {object} util.Response{data=model.AssistantInstance}
// @Failure 404 {object} util.Response "实例不存在"
// @Router /api/teacher/instances/{id} [put]
func (c *InstanceController) Update(ctx *gin.Context) {
	var req service.UpdateInstanceRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	instance, err := c.instanceService.Update(ctx.Param("id"), &req)
	if err != nil {
		if errors.Is(err, util.ErrInstanceNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, instance)
}

// Delete godoc
// @Summary 删除助教实例
// @Tags 助教管理
// @Produce json
// @Security BearerAuth
// @Param id path string true "实例 ID"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response "实例不存在"
// @Router /api/teacher/instances/{id} [delete]
func (c *InstanceController) Delete(ctx *gin.Context) {
	if err := c.instanceService.Delete(ctx.Param("id")); err != nil {
		if errors.Is(err, util.ErrInstanceNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, nil)
}

// GetStudentView godoc
// @Summary 学生端查看助教实例信息
// @Description 只返回展示所需字段，不暴露密钥与模型参数
// @Tags 助教
// @Produce json
// @Security BearerAuth
// @Param id path string true "实例 ID"
// @Success 200 {object} util.Response{data=service.StudentView}
// @Failure 404 {object} util.Response "实例不存在"
// @Router /api/assistant/instances/{id} [get]
func (c *InstanceController) GetStudentView(ctx *gin.Context) {
	view, err := c.instanceService.GetStudentView(ctx.Param("id"))
	if err != nil {
		if errors.Is(err, util.ErrInstanceNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, view)
}
