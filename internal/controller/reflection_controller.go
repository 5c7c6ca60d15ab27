package controller

import (
	"course_assistant_backend/internal/service"
	"course_assistant_backend/internal/util"
	"strconv"

	"github.com/gin-gonic/gin"
)

// ReflectionController 教师端查看学生学习反思
type ReflectionController struct {
	reflectionService *service.ReflectionService
}

func NewReflectionController(reflectionService *service.ReflectionService) *ReflectionController {
	return &ReflectionController{reflectionService: reflectionService}
}

// ListAll godoc
// @Summary 分页查看某个助教实例下的全部学生反思
// @Description 可按学生姓名或邮箱模糊过滤
// @Tags 助教管理
// @Produce json
// @Security BearerAuth
// @Param id path string true "实例 ID"
// @Param name query string false "学生姓名/邮箱过滤"
// @Param page query int false "页码"
// @Param pageSize query int false "每页条数"
// @Success 200 {object} util.Response{data=util.PageResponse}
// @Router /api/teacher/instances/{id}/reflections [get]
func (c *ReflectionController) ListAll(ctx *gin.Context) {
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(ctx.DefaultQuery("pageSize", "20"))
	name := ctx.Query("name")

	reflections, total, err := c.reflectionService.ListAll(ctx.Param("id"), name, page, pageSize)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, util.PageResponse{
		List:  reflections,
		Total: total,
		Page:  page,
		Limit: pageSize,
	})
}
