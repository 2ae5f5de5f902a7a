// Package router 注册HTTP路由，参数绑定在此层完成。
package router

import (
	"context"
	"errors"
	"io"

	"resume-intel-go/internal/api/handler"
	"resume-intel-go/internal/quiz"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/common/utils"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
	"github.com/hertz-contrib/keyauth"
)

// parseTextRequest 文本简历解析请求
type parseTextRequest struct {
	Text string `json:"text"`
}

// searchRequest 语义检索请求
type searchRequest struct {
	Text  string `json:"text"`
	Limit int    `json:"limit"`
}

// classifyRequest 岗位技能分类请求
type classifyRequest struct {
	Description string   `json:"description"`
	Labels      []string `json:"labels"`
}

// resourcesRequest 学习资源请求
type resourcesRequest struct {
	Skills []string `json:"skills"`
}

// quizCreateRequest 测验创建请求。难度与题目数量可选，服务端有默认值。
type quizCreateRequest struct {
	Topic      string   `json:"topic"`
	Skills     []string `json:"skills"`
	Difficulty string   `json:"difficulty"`
	Count      int      `json:"count"`
}

// quizSubmitRequest 测验提交请求
type quizSubmitRequest struct {
	Answers []int `json:"answers"`
}

// RegisterRoutes 注册全部API路由
func RegisterRoutes(h *server.Hertz,
	resumeHandler *handler.ResumeHandler,
	skillHandler *handler.SkillHandler,
	quizHandler *handler.QuizHandler,
	adminHandler *handler.AdminHandler,
	adminAPIKey string) {

	api := h.Group("/api/v1")

	api.POST("/resume/parse", func(c context.Context, ctx *app.RequestContext) {
		var req parseTextRequest
		if err := ctx.BindAndValidate(&req); err != nil || req.Text == "" {
			ctx.JSON(consts.StatusBadRequest, utils.H{"error": "text字段缺失"})
			return
		}

		outcome, err := resumeHandler.ParseText(c, req.Text)
		if err != nil {
			ctx.JSON(consts.StatusInternalServerError, utils.H{"error": err.Error()})
			return
		}
		ctx.JSON(consts.StatusOK, outcome)
	})

	api.POST("/resume/upload", func(c context.Context, ctx *app.RequestContext) {
		fileHeader, err := ctx.FormFile("file")
		if err != nil {
			ctx.JSON(consts.StatusBadRequest, utils.H{"error": "文件未找到"})
			return
		}

		file, err := fileHeader.Open()
		if err != nil {
			ctx.JSON(consts.StatusInternalServerError, utils.H{"error": "打开文件失败"})
			return
		}
		defer file.Close()

		data, err := io.ReadAll(file)
		if err != nil {
			ctx.JSON(consts.StatusInternalServerError, utils.H{"error": "读取文件失败"})
			return
		}

		outcome, err := resumeHandler.ParsePDF(c, data, fileHeader.Filename)
		if err != nil {
			ctx.JSON(consts.StatusInternalServerError, utils.H{"error": err.Error()})
			return
		}
		ctx.JSON(consts.StatusOK, outcome)
	})

	api.GET("/resume/:id", func(c context.Context, ctx *app.RequestContext) {
		record, err := resumeHandler.GetRecord(c, ctx.Param("id"))
		if err != nil {
			ctx.JSON(consts.StatusNotFound, utils.H{"error": err.Error()})
			return
		}
		ctx.JSON(consts.StatusOK, record)
	})

	api.POST("/resume/search", func(c context.Context, ctx *app.RequestContext) {
		var req searchRequest
		if err := ctx.BindAndValidate(&req); err != nil || req.Text == "" {
			ctx.JSON(consts.StatusBadRequest, utils.H{"error": "text字段缺失"})
			return
		}

		results, err := resumeHandler.Search(c, req.Text, req.Limit)
		if err != nil {
			ctx.JSON(consts.StatusServiceUnavailable, utils.H{"error": err.Error()})
			return
		}
		ctx.JSON(consts.StatusOK, utils.H{"results": results})
	})

	api.POST("/job/skills/classify", func(c context.Context, ctx *app.RequestContext) {
		var req classifyRequest
		if err := ctx.BindAndValidate(&req); err != nil {
			ctx.JSON(consts.StatusBadRequest, utils.H{"error": "请求体解析失败"})
			return
		}

		result, err := skillHandler.ClassifyJobSkills(c, req.Description, req.Labels)
		if err != nil {
			ctx.JSON(consts.StatusBadRequest, utils.H{"error": err.Error()})
			return
		}
		ctx.JSON(consts.StatusOK, result)
	})

	api.POST("/skills/resources", func(c context.Context, ctx *app.RequestContext) {
		var req resourcesRequest
		if err := ctx.BindAndValidate(&req); err != nil {
			ctx.JSON(consts.StatusBadRequest, utils.H{"error": "请求体解析失败"})
			return
		}

		result, err := skillHandler.LearningResources(c, req.Skills)
		if err != nil {
			ctx.JSON(consts.StatusBadRequest, utils.H{"error": err.Error()})
			return
		}
		ctx.JSON(consts.StatusOK, result)
	})

	api.POST("/quiz", func(c context.Context, ctx *app.RequestContext) {
		var req quizCreateRequest
		if err := ctx.BindAndValidate(&req); err != nil {
			ctx.JSON(consts.StatusBadRequest, utils.H{"error": "请求体解析失败"})
			return
		}

		record, err := quizHandler.Generate(c, req.Topic, req.Skills, req.Difficulty, req.Count)
		if err != nil {
			ctx.JSON(consts.StatusBadRequest, utils.H{"error": err.Error()})
			return
		}
		ctx.JSON(consts.StatusOK, record)
	})

	api.GET("/quiz/:id", func(c context.Context, ctx *app.RequestContext) {
		record, err := quizHandler.Get(c, ctx.Param("id"))
		if err != nil {
			ctx.JSON(quizErrorStatus(err), utils.H{"error": err.Error()})
			return
		}
		ctx.JSON(consts.StatusOK, record)
	})

	api.POST("/quiz/:id/start", func(c context.Context, ctx *app.RequestContext) {
		record, err := quizHandler.Start(c, ctx.Param("id"))
		if err != nil {
			ctx.JSON(quizErrorStatus(err), utils.H{"error": err.Error()})
			return
		}
		ctx.JSON(consts.StatusOK, record)
	})

	api.POST("/quiz/:id/submit", func(c context.Context, ctx *app.RequestContext) {
		var req quizSubmitRequest
		if err := ctx.BindAndValidate(&req); err != nil {
			ctx.JSON(consts.StatusBadRequest, utils.H{"error": "请求体解析失败"})
			return
		}

		record, err := quizHandler.Submit(c, ctx.Param("id"), req.Answers)
		if err != nil {
			ctx.JSON(quizErrorStatus(err), utils.H{"error": err.Error()})
			return
		}
		ctx.JSON(consts.StatusOK, record)
	})

	api.GET("/health", func(c context.Context, ctx *app.RequestContext) {
		ctx.JSON(consts.StatusOK, utils.H{"status": "ok"})
	})

	admin := h.Group("/admin")
	if adminAPIKey != "" {
		admin.Use(keyauth.New(
			keyauth.WithKeyLookUp("header:X-Api-Key", ""),
			keyauth.WithValidator(func(c context.Context, ctx *app.RequestContext, key string) (bool, error) {
				return key == adminAPIKey, nil
			}),
		))
	}

	admin.GET("/providers/stats", func(c context.Context, ctx *app.RequestContext) {
		ctx.JSON(consts.StatusOK, utils.H{"providers": adminHandler.ProviderStats()})
	})

	admin.POST("/providers/reset", func(c context.Context, ctx *app.RequestContext) {
		name := ctx.Query("provider")
		if !adminHandler.ResetProvider(name) {
			ctx.JSON(consts.StatusNotFound, utils.H{"error": "未知提供方: " + name})
			return
		}
		ctx.JSON(consts.StatusOK, utils.H{"reset": true})
	})

	admin.GET("/storage/warnings", func(c context.Context, ctx *app.RequestContext) {
		ctx.JSON(consts.StatusOK, utils.H{"warnings": adminHandler.StorageWarnings()})
	})
}

// quizErrorStatus 将测验领域错误映射到HTTP状态码
func quizErrorStatus(err error) int {
	switch {
	case errors.Is(err, quiz.ErrNotFound):
		return consts.StatusNotFound
	case errors.Is(err, quiz.ErrAlreadyCompleted), errors.Is(err, quiz.ErrInvalidTransition):
		return consts.StatusConflict
	default:
		return consts.StatusInternalServerError
	}
}
