package project

// Redis键名常量
const (
	// CategoriesKey 缓存去重后的分类列表 (String, JSON数组)
	CategoriesKey = "portfolio:categories"
	// CategoriesGenKey 是分类缓存的代数 (String, 整数)。
	// 每次清理都会递增；回填时代数已变化说明期间发生过写入，放弃回填。
	CategoriesGenKey = "portfolio:categories:gen"
)
