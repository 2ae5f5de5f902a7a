// Package handler 承载各领域的请求处理器，路由层只做参数绑定。
package handler

import (
	"context"
	"fmt"

	"resume-intel-go/internal/logger"
	"resume-intel-go/internal/parser"
	"resume-intel-go/internal/processor"
	"resume-intel-go/internal/storage"
	"resume-intel-go/internal/storage/models"
)

// ResumeHandler 简历解析处理器
type ResumeHandler struct {
	svc *processor.ResumeService
	pdf *parser.PDFExtractor
}

// NewResumeHandler 创建简历处理器。pdf可为nil，此时不支持PDF上传。
func NewResumeHandler(svc *processor.ResumeService, pdf *parser.PDFExtractor) *ResumeHandler {
	return &ResumeHandler{svc: svc, pdf: pdf}
}

// ParseText 解析一份纯文本简历
func (h *ResumeHandler) ParseText(ctx context.Context, text string) (*processor.ProcessOutcome, error) {
	return h.svc.ProcessText(ctx, text)
}

// ParsePDF 从PDF字节流提取文本后走解析流程
func (h *ResumeHandler) ParsePDF(ctx context.Context, data []byte, filename string) (*processor.ProcessOutcome, error) {
	if h.pdf == nil {
		return nil, fmt.Errorf("PDF提取器未初始化")
	}

	text, err := h.pdf.ExtractFromBytes(ctx, data, filename)
	if err != nil {
		logger.Warn().Err(err).Str("filename", filename).Msg("PDF文本提取失败")
		return nil, err
	}
	return h.svc.ProcessText(ctx, text)
}

// GetRecord 读取解析记录
func (h *ResumeHandler) GetRecord(ctx context.Context, resumeID string) (*models.ResumeRecord, error) {
	return h.svc.GetRecord(ctx, resumeID)
}

// Search 语义检索相似简历
func (h *ResumeHandler) Search(ctx context.Context, text string, limit int) ([]storage.SearchResult, error) {
	if limit <= 0 || limit > 50 {
		limit = 10
	}
	return h.svc.SearchSimilar(ctx, text, limit)
}
