package api

import "Devflow/internal/api/handler"

// HandlersGroup 封装了所有已初始化的 Handler 实例
type HandlersGroup struct {
	UserHandler     *handler.UserHandler
	QuestionHandler *handler.QuestionHandler
	AnswerHandler   *handler.AnswerHandler
	TagHandler      *handler.TagHandler
	SearchHandler   *handler.SearchHandler
}
