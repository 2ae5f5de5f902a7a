package handler

import (
	"resume-intel-go/internal/ai"
	"resume-intel-go/internal/storage"
	"resume-intel-go/internal/types"
)

// AdminHandler 运维管理处理器：提供方健康度查询与重置
type AdminHandler struct {
	router  *ai.Router
	storage *storage.Storage
}

// NewAdminHandler 创建管理处理器
func NewAdminHandler(router *ai.Router, storage *storage.Storage) *AdminHandler {
	return &AdminHandler{router: router, storage: storage}
}

// ProviderStats 返回所有提供方的健康度快照
func (h *AdminHandler) ProviderStats() map[string]types.ProviderStats {
	return h.router.Stats()
}

// ResetProvider 清零提供方的健康度与限流窗口。
// name为空时清零全部，未知提供方返回false。
func (h *AdminHandler) ResetProvider(name string) bool {
	return h.router.Reset(name)
}

// StorageWarnings 返回存储初始化阶段的降级警告
func (h *AdminHandler) StorageWarnings() []string {
	return h.storage.Warnings()
}
