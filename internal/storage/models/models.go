// Package models 定义持久化数据模型。
package models

import (
	"time"

	"gorm.io/datatypes"
)

// ResumeRecord 简历解析记录。
// 解析结果与元数据以JSON列存储，结构化查询字段单独拉出来建索引。
type ResumeRecord struct {
	ID                   string         `gorm:"type:char(36);primaryKey" json:"id"`
	TextMD5              string         `gorm:"type:char(32);uniqueIndex;not null" json:"text_md5"`
	RawTextObjectKey     string         `gorm:"type:varchar(512)" json:"raw_text_object_key"`
	ParsedData           datatypes.JSON `gorm:"type:json" json:"parsed_data"`
	Metadata             datatypes.JSON `gorm:"type:json" json:"metadata"`
	Name                 string         `gorm:"type:varchar(128);index" json:"name"`
	OverallConfidence    float64        `gorm:"type:decimal(4,3)" json:"overall_confidence"`
	AIUsed               bool           `json:"ai_used"`
	RequiresManualReview bool           `gorm:"index" json:"requires_manual_review"`
	CreatedAt            time.Time      `json:"created_at"`
	UpdatedAt            time.Time      `json:"updated_at"`
}

// TableName 指定表名
func (ResumeRecord) TableName() string {
	return "resume_records"
}

// QuizAttempt 测验归档记录，测验完成后从Redis落库
type QuizAttempt struct {
	ID           string         `gorm:"type:char(36);primaryKey" json:"id"`
	Topic        string         `gorm:"type:varchar(128)" json:"topic"`
	Difficulty   string         `gorm:"type:varchar(32)" json:"difficulty"`
	Questions    datatypes.JSON `gorm:"type:json" json:"questions"`
	Answers      datatypes.JSON `gorm:"type:json" json:"answers"`
	Score        int            `json:"score"`
	Total        int            `json:"total"`
	FromFallback bool           `json:"from_fallback"`
	CompletedAt  time.Time      `json:"completed_at"`
	CreatedAt    time.Time      `json:"created_at"`
}

// TableName 指定表名
func (QuizAttempt) TableName() string {
	return "quiz_attempts"
}
