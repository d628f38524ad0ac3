package service

import "Devflow/internal/pkg/consts"

// pageWindow 将页码转换为 skip / limit，非法值回退为默认值
func pageWindow(page, pageSize int) (skip, limit int64) {
	if page < 1 {
		page = consts.DefaultPage
	}
	if pageSize < 1 {
		pageSize = consts.DefaultPageSize
	}
	if pageSize > consts.MaxPageSize {
		pageSize = consts.MaxPageSize
	}
	return int64(page-1) * int64(pageSize), int64(pageSize)
}

// hasNext 是否还有下一页
func hasNext(total, skip int64, returned int) bool {
	return total > skip+int64(returned)
}
