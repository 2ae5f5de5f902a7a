package parser

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"resume-intel-go/internal/logger"

	"github.com/cloudwego/eino-ext/components/document/parser/pdf"
	einoParser "github.com/cloudwego/eino/components/document/parser"
)

// PDFExtractor 从PDF简历中提取纯文本，供混合解析器消费。
// 不按页面分割，整份文档作为一段连续文本返回。
type PDFExtractor struct {
	parser *pdf.PDFParser
}

// NewPDFExtractor 创建PDF文本提取器
func NewPDFExtractor(ctx context.Context) (*PDFExtractor, error) {
	p, err := pdf.NewPDFParser(ctx, &pdf.Config{
		ToPages: false,
	})
	if err != nil {
		return nil, fmt.Errorf("创建PDF解析器失败: %w", err)
	}
	return &PDFExtractor{parser: p}, nil
}

// ExtractText 从Reader中提取PDF全文
func (e *PDFExtractor) ExtractText(ctx context.Context, reader io.Reader, uri string) (string, error) {
	start := time.Now()

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	docs, err := e.parser.Parse(ctx, reader, einoParser.WithURI(uri))
	if err != nil {
		return "", fmt.Errorf("PDF解析失败: %w", err)
	}
	if len(docs) == 0 {
		return "", fmt.Errorf("PDF解析无结果: %s", uri)
	}

	var sb bytes.Buffer
	for i, doc := range docs {
		sb.WriteString(doc.Content)
		if i < len(docs)-1 {
			sb.WriteString("\n\n")
		}
	}

	logger.Debug().
		Str("uri", uri).
		Int("chars", sb.Len()).
		Dur("elapsed", time.Since(start)).
		Msg("PDF文本提取完成")

	return sb.String(), nil
}

// ExtractFromBytes 从字节数组提取PDF全文
func (e *PDFExtractor) ExtractFromBytes(ctx context.Context, data []byte, uri string) (string, error) {
	return e.ExtractText(ctx, bytes.NewReader(data), uri)
}
