// Package nlp 负责调用本地Python NLP工作脚本。
// 脚本通过stdout返回JSON，超时/进程失败/坏输出各自返回可区分的错误。
package nlp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"resume-intel-go/internal/config"
	"resume-intel-go/internal/logger"
)

// 工作脚本错误哨兵。调用方用errors.Is区分处理。
var (
	// ErrWorkerTimeout 工作进程超时被终止
	ErrWorkerTimeout = errors.New("nlp worker timed out")
	// ErrWorkerFailed 工作进程以非零状态退出或无法启动
	ErrWorkerFailed = errors.New("nlp worker failed")
	// ErrBadWorkerOutput 工作进程输出不是有效JSON
	ErrBadWorkerOutput = errors.New("nlp worker produced invalid output")
)

// 各任务对应的脚本文件名
const (
	scriptNER      = "ner_worker.py"
	scriptEmbed    = "embed_worker.py"
	scriptClassify = "classify_worker.py"
)

// Invoker 本地NLP工作进程调用器
type Invoker struct {
	pythonBin      string
	scriptDir      string
	tempDir        string
	spoolThreshold int
	nerTimeout     time.Duration
	embedTimeout   time.Duration
	classifyTime   time.Duration
}

// NewInvoker 根据配置创建调用器
func NewInvoker(cfg config.NLPWorkerConfig) *Invoker {
	return &Invoker{
		pythonBin:      cfg.PythonBin,
		scriptDir:      cfg.ScriptDir,
		tempDir:        cfg.TempDir,
		spoolThreshold: cfg.SpoolThresholdBytes,
		nerTimeout:     time.Duration(cfg.NERTimeoutSeconds) * time.Second,
		embedTimeout:   time.Duration(cfg.EmbedTimeoutSeconds) * time.Second,
		classifyTime:   time.Duration(cfg.ClassifyTimeoutSeconds) * time.Second,
	}
}

// nerOutput NER脚本的输出结构
type nerOutput struct {
	Entities []RawEntity `json:"entities"`
}

// RawEntity 工作脚本返回的原始实体，未经过滤
type RawEntity struct {
	Word        string  `json:"word"`
	EntityGroup string  `json:"entity_group"`
	Score       float64 `json:"score"`
}

// RunNER 执行命名实体识别
func (inv *Invoker) RunNER(ctx context.Context, text string) ([]RawEntity, error) {
	raw, err := inv.run(ctx, scriptNER, inv.nerTimeout, text, nil)
	if err != nil {
		return nil, err
	}

	var out nerOutput
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadWorkerOutput, err)
	}
	return out.Entities, nil
}

// embedOutput 向量化脚本的输出结构
type embedOutput struct {
	Embedding []float32 `json:"embedding"`
}

// RunEmbed 执行文本向量化，返回384维向量
func (inv *Invoker) RunEmbed(ctx context.Context, text string) ([]float32, error) {
	raw, err := inv.run(ctx, scriptEmbed, inv.embedTimeout, text, nil)
	if err != nil {
		return nil, err
	}

	var out embedOutput
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadWorkerOutput, err)
	}
	if len(out.Embedding) == 0 {
		return nil, fmt.Errorf("%w: 空向量", ErrBadWorkerOutput)
	}
	return out.Embedding, nil
}

// classifyOutput 分类脚本的输出结构
type classifyOutput struct {
	Labels []string  `json:"labels"`
	Scores []float64 `json:"scores"`
}

// RunClassify 执行零样本分类，返回标签到分数的映射
func (inv *Invoker) RunClassify(ctx context.Context, text string, labels []string) (map[string]float64, error) {
	raw, err := inv.run(ctx, scriptClassify, inv.classifyTime, text, labels)
	if err != nil {
		return nil, err
	}

	var out classifyOutput
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadWorkerOutput, err)
	}
	if len(out.Labels) != len(out.Scores) {
		return nil, fmt.Errorf("%w: 标签与分数数量不一致", ErrBadWorkerOutput)
	}

	result := make(map[string]float64, len(out.Labels))
	for i, label := range out.Labels {
		result[label] = out.Scores[i]
	}
	return result, nil
}

// run 执行一个工作脚本并返回其stdout。
// 超过落盘阈值的输入写入临时文件并以--input-file传递，结束后删除。
func (inv *Invoker) run(ctx context.Context, script string, timeout time.Duration, text string, labels []string) ([]byte, error) {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	args := []string{filepath.Join(inv.scriptDir, script)}

	threshold := inv.spoolThreshold
	if threshold <= 0 {
		threshold = 6000
	}

	if len(text) > threshold {
		tmpFile, err := os.CreateTemp(inv.tempDir, "nlp-input-*.txt")
		if err != nil {
			return nil, fmt.Errorf("%w: 创建临时输入文件失败: %v", ErrWorkerFailed, err)
		}
		tmpPath := tmpFile.Name()
		defer os.Remove(tmpPath)

		if _, err := tmpFile.WriteString(text); err != nil {
			tmpFile.Close()
			return nil, fmt.Errorf("%w: 写入临时输入文件失败: %v", ErrWorkerFailed, err)
		}
		if err := tmpFile.Close(); err != nil {
			return nil, fmt.Errorf("%w: 关闭临时输入文件失败: %v", ErrWorkerFailed, err)
		}

		args = append(args, "--input-file", tmpPath)
	} else {
		args = append(args, "--text", text)
	}

	for _, label := range labels {
		args = append(args, "--label", label)
	}

	cmd := exec.CommandContext(ctx, inv.pythonBin, args...)

	// 工作脚本可能派生子进程（模型加载器等），只杀直接子进程会留下孤儿
	// 继续占用stdout管道，导致Run阻塞到孤儿退出。放进独立进程组，
	// 超时时对整组发SIGKILL，并用WaitDelay兜底管道读取。
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.Cancel = func() error {
		return syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
	}
	cmd.WaitDelay = 2 * time.Second

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	err := cmd.Run()
	elapsed := time.Since(start)

	if ctx.Err() == context.DeadlineExceeded {
		logger.Warn().
			Str("script", script).
			Dur("elapsed", elapsed).
			Msg("NLP工作进程超时被终止")
		return nil, fmt.Errorf("%w: %s 超过 %s", ErrWorkerTimeout, script, timeout)
	}
	if err != nil {
		logger.Error().
			Str("script", script).
			Str("stderr", truncate(stderr.String(), 500)).
			Err(err).
			Msg("NLP工作进程执行失败")
		stderrMsg := truncate(strings.TrimSpace(stderr.String()), 500)
		if stderrMsg == "" {
			stderrMsg = err.Error()
		}
		return nil, fmt.Errorf("%w: %s: %s", ErrWorkerFailed, script, stderrMsg)
	}

	output := bytes.TrimSpace(stdout.Bytes())
	if len(output) == 0 {
		return nil, fmt.Errorf("%w: %s 输出为空", ErrBadWorkerOutput, script)
	}
	if !json.Valid(output) {
		return nil, fmt.Errorf("%w: %s 输出不是JSON", ErrBadWorkerOutput, script)
	}

	logger.Debug().
		Str("script", script).
		Dur("elapsed", elapsed).
		Int("output_bytes", len(output)).
		Msg("NLP工作进程完成")

	return output, nil
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
