package collector

// PerSourceLimit 按全局上限平均分配到每个数据源，至少为 1。
// 数据源多于上限时总和会超出，最终由 Aggregator 截断。
func PerSourceLimit(maxArticles, sourceCount int) int {
	if sourceCount < 1 {
		sourceCount = 1
	}
	limit := maxArticles / sourceCount
	if limit < 1 {
		return 1
	}
	return limit
}

// LimitFor 返回某类数据源实际请求的条目数；feed 多给 1 条余量，
// 弥补部分条目不可用的情况
func LimitFor(kind Kind, perSource int) int {
	switch kind {
	case KindFeed:
		return perSource + 1
	default:
		return perSource
	}
}
