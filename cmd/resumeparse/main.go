// resumeparse 本地解析一份简历并输出JSON结果，用于调试解析流水线。
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"resume-intel-go/internal/ai"
	"resume-intel-go/internal/config"
	appLogger "resume-intel-go/internal/logger"
	"resume-intel-go/internal/nlp"
	"resume-intel-go/internal/parser"
	"resume-intel-go/internal/vocab"

	"github.com/spf13/pflag"
)

func main() {
	var (
		configPath string
		filePath   string
		text       string
		useLLM     bool
	)
	pflag.StringVarP(&configPath, "config", "c", "", "配置文件路径")
	pflag.StringVarP(&filePath, "file", "f", "", "简历文本文件路径")
	pflag.StringVarP(&text, "text", "t", "", "直接传入的简历文本")
	pflag.BoolVar(&useLLM, "use-llm", false, "允许LLM补全缺口字段")
	pflag.Parse()

	if filePath == "" && text == "" {
		fmt.Fprintln(os.Stderr, "用法: resumeparse --file resume.txt 或 --text '...'")
		os.Exit(1)
	}

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		cfg = config.DefaultConfig()
	}
	cfg.Parser.UseLLM = useLLM
	appLogger.Init(cfg.Logger)

	if filePath != "" {
		data, err := os.ReadFile(filePath)
		if err != nil {
			appLogger.Fatal().Err(err).Str("file", filePath).Msg("读取简历文件失败")
		}
		text = string(data)
	}

	skillVocab, err := vocab.Load(cfg.Vocab)
	if err != nil {
		appLogger.Fatal().Err(err).Msg("加载技能词表失败")
	}

	local := ai.NewLocalNLPProvider(nlp.NewInvoker(cfg.NLPWorker))
	keyword := ai.NewKeywordProvider(skillVocab)

	hosted := ai.NewHostedLLMProvider(nil)
	hostedReady := false
	if useLLM && cfg.HasLLMCredentials() {
		chatModel, err := ai.NewWatsonxChatModel(cfg.HostedLLM)
		if err == nil {
			hosted = ai.NewHostedLLMProvider(chatModel)
			hostedReady = true
		}
	}

	router := ai.NewRouter(local, hosted, hostedReady, keyword, cfg.RateLimits)
	hybridParser := parser.NewHybridParser(router, skillVocab, cfg.Parser)

	result := hybridParser.Parse(context.Background(), text)

	output, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		appLogger.Fatal().Err(err).Msg("序列化解析结果失败")
	}
	fmt.Println(string(output))
}
