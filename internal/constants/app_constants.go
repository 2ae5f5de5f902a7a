package constants

import "time"

const (
	// 限流与健康统计参数
	RateLimitWindow      = 60 * time.Second // 每个提供方的固定限流窗口
	LatencyEMAWeight     = 0.3              // 最新延迟样本在指数平滑中的权重
	DegradedFailureRatio = 0.3              // 失败率达到该值即判定提供方降级

	// 解析置信度相关默认值
	DefaultMinConfidence      = 0.60 // 低于该置信度的抽取结果按"缺失"处理
	ReviewConfidenceThreshold = 0.65 // 整体置信度低于该值时标记人工复核
	MaxSkills                 = 60   // 技能列表上限

	// NER后置过滤：刻意低于模型自身的高精度阈值，偏向召回
	NEREntityScoreThreshold = 0.65

	// 子进程调用默认超时（本地模型首次加载较慢，NER/embedding放宽）
	DefaultNERTimeout      = 60 * time.Second
	DefaultEmbedTimeout    = 90 * time.Second
	DefaultClassifyTimeout = 30 * time.Second

	// 超过该字节数的输入落盘为临时文件传递，避免命令行参数长度限制
	WorkerSpoolThreshold = 6000

	// 托管LLM的IAM令牌缓存时长：令牌有效期60分钟，提前10分钟刷新避免边界竞争
	LLMTokenCacheDuration = 50 * time.Minute

	// 测验生成默认参数
	DefaultQuizDifficulty    = "medium" // 客户端未指定时的默认难度
	DefaultQuizQuestionCount = 5        // 默认出题数量
	MaxQuizQuestionCount     = 10       // 单次出题数量上限
)

// Redis键常量
const (
	RawTextMD5SetKey = "resumes:text_md5s" // 已解析简历文本MD5集合
	QuizKeyPrefix    = "quiz:"             // 测验记录键前缀
	QuizRecordExpire = 7 * 24 * time.Hour  // 测验记录过期时间
)
