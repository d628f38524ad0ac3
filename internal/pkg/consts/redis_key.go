package consts

import "time"

const (
	PopularTagsKey  = "tag:popular:"
	TopQuestionsKey = "question:top"
)

const (
	PopularTagsJobLock = "lock:job:popular_tags"
)

const (
	DefaultCacheTTL = 5 * time.Minute
)
