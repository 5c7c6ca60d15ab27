package controller

import (
	"course_assistant_backend/internal/service"
	"course_assistant_backend/internal/util"
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
)

// ContentController 课程单元内容块管理，教师端接口
type ContentController struct {
	contentService *service.ContentService
}

func NewContentController(contentService *service.ContentService) *ContentController {
	return &ContentController{contentService: contentService}
}

// CreateBlock godoc
// @Summary 创建 html/problem 内容块
// @Tags 内容管理
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body service.CreateBlockRequest true "内容块"
// @Success 201 {object} util.Response{data=model.ContentBlock}
// @Failure 400 {object} util.Response "请求参数错误"
// @Router /api/teacher/blocks [post]
func (c *ContentController) CreateBlock(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.CreateBlockRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	block, err := c.contentService.CreateBlock(&req, claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Created(ctx, block)
}

// ListByUnit godoc
// @Summary 按课程单元查看内容块
// @Tags 内容管理
// @Produce json
// @Security BearerAuth
// @Param unitId query string true "课程单元 ID"
// @Success 200 {object} util.Response{data=[]model.ContentBlock}
// @Router /api/teacher/blocks [get]
func (c *ContentController) ListByUnit(ctx *gin.Context) {
	unitID := ctx.Query("unitId")
	if unitID == "" {
		util.BadRequest(ctx, "unitId 不能为空")
		return
	}

	blocks, err := c.contentService.ListByUnit(unitID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, blocks)
}

// GetBlock godoc
// @Summary 查看内容块详情
// @Tags 内容管理
// @Produce json
// @Security BearerAuth
// @Param id path string true "内容块 ID"
// @Success 200 {object} util.Response{data=model.ContentBlock}
// @Failure 404 {object} util.Response "内容块不存在"
// @Router /api/teacher/blocks/{id} [get]
func (c *ContentController) GetBlock(ctx *gin.Context) {
	block, err := c.contentService.GetBlock(ctx.Param("id"))
	if err != nil {
		if errors.Is(err, util.ErrBlockNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, block)
}

// UpdateBlock godoc
// @Summary 更新内容块
// @Tags 内容管理
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "内容块 ID"
// @Param request body service.UpdateBlockRequest true "要修改的字段"
// @Success 200 {object} util.Response{data=model.ContentBlock}
// @Failure 404 {object} util.Response "内容块不存在"
// @Router /api/teacher/blocks/{id} [put]
func (c *ContentController) UpdateBlock(ctx *gin.Context) {
	var req service.UpdateBlockRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	block, err := c.contentService.UpdateBlock(ctx.Param("id"), &req)
	if err != nil {
		if errors.Is(err, util.ErrBlockNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, block)
}

// DeleteBlock godoc
// @Summary 删除内容块
// @Tags 内容管理
// @Produce json
// @Security BearerAuth
// @Param id path string true "内容块 ID"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response "内容块不存在"
// @Router /api/teacher/blocks/{id} [delete]
func (c *ContentController) DeleteBlock(ctx *gin.Context) {
	if err := c.contentService.DeleteBlock(ctx.Param("id")); err != nil {
		if errors.Is(err, util.ErrBlockNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, nil)
}

// UploadVideo godoc
// @Summary 上传视频并创建视频块
// @Description 上传后自动探测时长并生成缩略图
// @Tags 内容管理
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param file formData file true "视频文件"
// @Param unitId formData string true "课程单元 ID"
// @Param title formData string false "标题"
// @Param position formData int false "单元内排序"
// @Success 201 {object} util.Response{data=model.ContentBlock}
// @Failure 400 {object} util.Response "文件格式不支持"
// @Router /api/teacher/blocks/video [post]
func (c *ContentController) UploadVideo(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	file, err := ctx.FormFile("file")
	if err != nil {
		util.BadRequest(ctx, "未找到上传文件")
		return
	}

	unitID := ctx.PostForm("unitId")
	if unitID == "" {
		util.BadRequest(ctx, "unitId 不能为空")
		return
	}
	title := ctx.PostForm("title")
	position, _ := strconv.Atoi(ctx.DefaultPostForm("position", "0"))

	block, err := c.contentService.UploadVideo(ctx.Request.Context(), file, unitID, title, position, claims.UserID)
	if err != nil {
		if errors.Is(err, util.ErrInvalidVideoExt) {
			util.BadRequest(ctx, err.Error())
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Created(ctx, block)
}

// UploadTranscript godoc
// @Summary 为视频块上传字幕文件
// @Tags 内容管理
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param id path string true "视频块 ID"
// @Param file formData file true "字幕文件（srt/vtt/txt）"
// @Success 200 {object} util.Response{data=model.ContentBlock}
// @Failure 400 {object} util.Response "字幕格式不支持"
// @Failure 404 {object} util.Response "内容块不存在"
// @Router /api/teacher/blocks/{id}/transcript [post]
func (c *ContentController) UploadTranscript(ctx *gin.Context) {
	file, err := ctx.FormFile("file")
	if err != nil {
		util.BadRequest(ctx, "未找到上传文件")
		return
	}

	block, err := c.contentService.UploadTranscript(ctx.Param("id"), file)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrBlockNotFound):
			util.NotFound(ctx)
		case errors.Is(err, util.ErrInvalidTranscriptExt), errors.Is(err, util.ErrNotVideoBlock):
			util.BadRequest(ctx, err.Error())
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, block)
}
