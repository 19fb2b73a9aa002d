package admin

import "github.com/restock-next/internal/provider"

// Handler 后台管理接口处理器入口，目录与 Offer 的全部写操作走这里。
type Handler struct {
	*provider.Container
}

// New 创建后台处理器
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}
