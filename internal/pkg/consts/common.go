package consts

const (
	// PopularTagsLimit 热门标签默认数量
	PopularTagsLimit = 5
	// TopInteractedTagsLimit 用户卡片展示的常用标签数
	TopInteractedTagsLimit = 3
	// TopQuestionsLimit 热门问题数量
	TopQuestionsLimit = 5
	// SearchLimit 全局搜索每类结果数
	SearchLimit = 2
	// SearchFilteredLimit 指定类型时的结果数
	SearchFilteredLimit = 8
)

const (
	DefaultPage     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// ClerkIDKey gin.Context 中当前登录用户身份 ID 的键
const ClerkIDKey = "clerk_id"
