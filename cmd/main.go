package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"resume-intel-go/internal/ai"
	apihandler "resume-intel-go/internal/api/handler"
	apirouter "resume-intel-go/internal/api/router"
	"resume-intel-go/internal/config"
	appLogger "resume-intel-go/internal/logger"
	"resume-intel-go/internal/nlp"
	"resume-intel-go/internal/parser"
	"resume-intel-go/internal/processor"
	"resume-intel-go/internal/quiz"
	"resume-intel-go/internal/storage"
	"resume-intel-go/internal/tracing"
	"resume-intel-go/internal/vocab"

	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/common/hlog"
	hertzzerolog "github.com/hertz-contrib/logger/zerolog"
	hertztracing "github.com/hertz-contrib/obs-opentelemetry/tracing"
	"github.com/spf13/pflag"
)

func main() {
	var configPath string
	pflag.StringVarP(&configPath, "config", "c", "internal/config/config.yaml", "配置文件路径")
	pflag.Parse()

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		appLogger.Fatal().Err(err).Msg("加载配置失败")
	}

	appLogger.Init(cfg.Logger)
	hlog.SetLogger(hertzzerolog.From(appLogger.Logger))
	appLogger.Info().Str("config", configPath).Msg("配置加载成功")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	shutdownTracing, err := tracing.Init(ctx, cfg.Tracing)
	if err != nil {
		appLogger.Warn().Err(err).Msg("链路追踪初始化失败，追踪不可用")
		shutdownTracing = func(context.Context) error { return nil }
	}

	skillVocab, err := vocab.Load(cfg.Vocab)
	if err != nil {
		appLogger.Fatal().Err(err).Msg("加载技能词表失败")
	}

	storageManager := storage.NewStorage(cfg)
	defer storageManager.Close()

	invoker := nlp.NewInvoker(cfg.NLPWorker)
	local := ai.NewLocalNLPProvider(invoker)
	keyword := ai.NewKeywordProvider(skillVocab)

	hosted := ai.NewHostedLLMProvider(nil)
	hostedReady := false
	if cfg.HasLLMCredentials() {
		chatModel, err := ai.NewWatsonxChatModel(cfg.HostedLLM)
		if err != nil {
			appLogger.Warn().Err(err).Msg("托管LLM初始化失败，生成类任务将走降级")
		} else {
			hosted = ai.NewHostedLLMProvider(chatModel)
			hostedReady = true
			appLogger.Info().Str("model", cfg.HostedLLM.Model).Msg("托管LLM已就绪")
		}
	} else {
		appLogger.Warn().Msg("托管LLM凭据未配置，生成类任务将走降级")
	}

	router := ai.NewRouter(local, hosted, hostedReady, keyword, cfg.RateLimits)

	hybridParser := parser.NewHybridParser(router, skillVocab, cfg.Parser)

	pdfExtractor, err := parser.NewPDFExtractor(ctx)
	if err != nil {
		appLogger.Warn().Err(err).Msg("PDF提取器初始化失败，PDF上传不可用")
		pdfExtractor = nil
	}

	resumeService := processor.NewResumeService(hybridParser, router, storageManager)

	var quizService *quiz.Service
	if storageManager.Redis != nil {
		quizService = quiz.NewService(router, storageManager.Redis, storageManager.DB)
	} else {
		appLogger.Warn().Msg("Redis不可用，测验记录仅保存在进程内")
		quizService = quiz.NewService(router, quiz.NewMemoryStore(), storageManager.DB)
	}

	resumeHandler := apihandler.NewResumeHandler(resumeService, pdfExtractor)
	skillHandler := apihandler.NewSkillHandler(router)
	quizHandler := apihandler.NewQuizHandler(quizService)
	adminHandler := apihandler.NewAdminHandler(router, storageManager)

	tracer, tracerCfg := hertztracing.NewServerTracer()
	h := server.New(
		server.WithHostPorts(cfg.Server.Address),
		server.WithHandleMethodNotAllowed(true),
		tracer,
	)
	h.Use(hertztracing.ServerMiddleware(tracerCfg))

	apirouter.RegisterRoutes(h, resumeHandler, skillHandler, quizHandler, adminHandler, cfg.Server.AdminAPIKey)
	appLogger.Info().Str("address", cfg.Server.Address).Msg("HTTP路由注册完成，服务器启动中")

	go func() {
		if err := h.Run(); err != nil {
			appLogger.Fatal().Err(err).Msg("启动HTTP服务器失败")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLogger.Info().Msg("接收到终止信号，正在优雅退出")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()
	if err := h.Shutdown(shutdownCtx); err != nil {
		appLogger.Error().Err(err).Msg("HTTP服务器关闭失败")
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		appLogger.Warn().Err(err).Msg("链路追踪关闭失败")
	}
	appLogger.Info().Msg("优雅退出完成")
}
