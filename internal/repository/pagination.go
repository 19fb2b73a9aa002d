package repository

import "gorm.io/gorm"

// applyPagination 应用分页参数。pageSize 不为正时视为不分页，
// 页码非法时回落到第一页。
func applyPagination(query *gorm.DB, page, pageSize int) *gorm.DB {
	if query == nil || pageSize <= 0 {
		return query
	}
	if page < 1 {
		page = 1
	}
	return query.Limit(pageSize).Offset((page - 1) * pageSize)
}
