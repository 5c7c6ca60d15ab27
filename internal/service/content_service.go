package service

import (
	"context"
	"course_assistant_backend/internal/config"
	"course_assistant_backend/internal/model"
	"course_assistant_backend/internal/repository"
	"course_assistant_backend/internal/util"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"

	"course_assistant_backend/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// 字幕文件大小上限 2MB
const maxTranscriptSize = 2 << 20

// ContentService 课程单元内容块的维护：页面/练习题块的增删改，
// 视频块的文件上传、缩略图生成与字幕挂载。
type ContentService struct {
	blockRepo *repository.ContentBlockRepository
	storage   *StorageService
	cfg       *config.Config
}

func NewContentService(blockRepo *repository.ContentBlockRepository, storage *StorageService, cfg *config.Config) *ContentService {
	return &ContentService{blockRepo: blockRepo, storage: storage, cfg: cfg}
}

// CreateBlockRequest 创建 html/problem 内容块
type CreateBlockRequest struct {
	UnitID   string `json:"unitId" binding:"required"`
	Position int    `json:"position"`
	Kind     string `json:"kind" binding:"required,oneof=html problem"`
	Title    string `json:"title"`
	Data     string `json:"data"`
}

// UpdateBlockRequest 更新内容块，nil 字段不修改
type UpdateBlockRequest struct {
	Position   *int    `json:"position"`
	Title      *string `json:"title"`
	Data       *string `json:"data"`
	Transcript *string `json:"transcript"`
}

func (s *ContentService) CreateBlock(req *CreateBlockRequest, createdBy uint) (*model.ContentBlock, error) {
	block := &model.ContentBlock{
		UnitID:    strings.TrimSpace(req.UnitID),
		Position:  req.Position,
		Kind:      req.Kind,
		Title:     req.Title,
		Data:      req.Data,
		CreatedBy: createdBy,
	}
	if err := s.blockRepo.Create(block); err != nil {
		return nil, err
	}
	return block, nil
}

func (s *ContentService) GetBlock(id string) (*model.ContentBlock, error) {
	block, err := s.blockRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrBlockNotFound
		}
		return nil, err
	}
	return block, nil
}

func (s *ContentService) ListByUnit(unitID string) ([]model.ContentBlock, error) {
	return s.blockRepo.FindByUnitID(unitID)
}

func (s *ContentService) UpdateBlock(id string, req *UpdateBlockRequest) (*model.ContentBlock, error) {
	block, err := s.GetBlock(id)
	if err != nil {
		return nil, err
	}
	if req.Position != nil {
		block.Position = *req.Position
	}
	if req.Title != nil {
		block.Title = *req.Title
	}
	if req.Data != nil {
		block.Data = *req.Data
	}
	if req.Transcript != nil {
		block.Transcript = *req.Transcript
	}
	if err := s.blockRepo.Update(block); err != nil {
		return nil, err
	}
	return block, nil
}

func (s *ContentService) DeleteBlock(id string) error {
	if _, err := s.GetBlock(id); err != nil {
		return err
	}
	return s.blockRepo.Delete(id)
}

// UploadVideo 上传视频并创建视频块：先落到本地临时文件做探测和截帧，再推到存储后端
func (s *ContentService) UploadVideo(ctx context.Context, file *multipart.FileHeader, unitID, title string, position int, createdBy uint) (*model.ContentBlock, error) {
	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !util.HasAllowedExtension(ext, util.AllowedVideoExtensions) {
		return nil, util.ErrInvalidVideoExt
	}

	videoFilename := "videos/" + time.Now().Format("20060102150405") + "-" +
		strings.ReplaceAll(file.Filename, " ", "-")

	tempDir := filepath.Join(s.cfg.Storage.LocalPath, "temp")
	if err := os.MkdirAll(tempDir, 0755); err != nil {
		return nil, err
	}

	videoPath := filepath.Join(tempDir, fmt.Sprintf("temp_video_%d%s", time.Now().UnixNano(), ext))
	defer os.Remove(videoPath)

	src, err := file.Open()
	if err != nil {
		return nil, err
	}
	defer src.Close()

	// 深度校验文件内容，扩展名不可信
	mimeType, err := util.ValidateMimeType(src, []string{util.MimeVideo, util.MimeOctetStream})
	if err != nil {
		return nil, fmt.Errorf("非法的文件内容，仅允许视频格式: %v", err)
	}
	if seeker, ok := src.(io.Seeker); ok {
		seeker.Seek(0, io.SeekStart)
	}

	dst, err := os.Create(videoPath)
	if err != nil {
		return nil, err
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		return nil, err
	}
	dst.Close()

	// 浏览器给的 Content-Type 不一定可靠，不是视频类型时退回嗅探结果
	contentType := file.Header.Get("Content-Type")
	if !util.IsVideo(contentType) {
		contentType = mimeType
	}

	videoURL, err := s.storage.UploadFile(ctx, videoFilename, videoPath, contentType)
	if err != nil {
		return nil, err
	}

	// 生成缩略图，失败不阻断上传
	thumbnailFilename := "thumbnails/" + time.Now().Format("20060102150405") + "-" +
		strings.ReplaceAll(strings.TrimSuffix(file.Filename, ext), " ", "-") + ".jpg"
	thumbnailPath := filepath.Join(tempDir, filepath.Base(thumbnailFilename))
	defer os.Remove(thumbnailPath)

	var thumbnailURL string
	if err := util.GenerateThumbnail(videoPath, thumbnailPath, "3"); err != nil {
		logger.Log.Error("生成缩略图失败", zap.String("video", videoFilename), zap.Error(err))
	} else {
		thumbnailURL, err = s.storage.UploadFile(ctx, thumbnailFilename, thumbnailPath, "image/jpeg")
		if err != nil {
			logger.Log.Error("上传缩略图失败", zap.Error(err))
			thumbnailURL = ""
		}
	}

	var duration float64
	if info, err := util.GetVideoInfo(videoPath); err == nil {
		duration = info.Duration
	} else {
		logger.Log.Warn("探测视频时长失败", zap.String("video", videoFilename), zap.Error(err))
	}

	block := &model.ContentBlock{
		UnitID:       strings.TrimSpace(unitID),
		Position:     position,
		Kind:         model.BlockVideo,
		Title:        title,
		VideoURL:     videoURL,
		ThumbnailURL: thumbnailURL,
		Duration:     duration,
		CreatedBy:    createdBy,
	}
	if err := s.blockRepo.Create(block); err != nil {
		return nil, err
	}
	return block, nil
}

// UploadTranscript 为视频块挂载字幕文件，字幕原文整体存入内容块
func (s *ContentService) UploadTranscript(blockID string, file *multipart.FileHeader) (*model.ContentBlock, error) {
	block, err := s.GetBlock(blockID)
	if err != nil {
		return nil, err
	}
	if block.Kind != model.BlockVideo {
		return nil, util.ErrNotVideoBlock
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !util.HasAllowedExtension(ext, util.AllowedTranscriptExtensions) {
		return nil, util.ErrInvalidTranscriptExt
	}
	if file.Size > maxTranscriptSize {
		return nil, fmt.Errorf("字幕文件过大，最大允许 %dMB", maxTranscriptSize>>20)
	}

	src, err := file.Open()
	if err != nil {
		return nil, err
	}
	defer src.Close()

	content, err := io.ReadAll(io.LimitReader(src, maxTranscriptSize))
	if err != nil {
		return nil, err
	}

	block.Transcript = string(content)
	if err := s.blockRepo.Update(block); err != nil {
		return nil, err
	}
	return block, nil
}
