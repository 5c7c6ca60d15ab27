package util

import "errors"

var (
	ErrEmailRegistered = errors.New("该邮箱已被注册")

	ErrInstanceNotFound = errors.New("助教实例不存在")
	ErrBlockNotFound    = errors.New("内容块不存在")

	ErrInvalidVideoExt      = errors.New("不支持的视频格式")
	ErrInvalidTranscriptExt = errors.New("不支持的字幕格式，仅支持 srt/vtt/txt")
	ErrNotVideoBlock        = errors.New("该内容块不是视频块")

	ErrEmptyQuestion   = errors.New("问题内容不能为空")
	ErrEmptyReflection = errors.New("反思内容不能为空")
	ErrRequestInFlight = errors.New("上一个问题尚未回答完成")
	ErrHistoryPersist  = errors.New("对话历史保存失败，请稍后重试")

	// 上游大模型调用失败时对外的统一错误，具体原因只进日志
	ErrUpstreamUnavailable = errors.New("AI 服务暂时不可用，请稍后再试")
)
