package repository

import "context"

// TxManager 后端支持时以事务执行 fn，否则顺序执行
type TxManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// Store 同一后端的全部仓储
type Store struct {
	Users        UserRepo
	Questions    QuestionRepo
	Answers      AnswerRepo
	Tags         TagRepo
	Interactions InteractionRepo
	Tx           TxManager
}
