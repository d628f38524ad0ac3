package mongo

import (
	"Devflow/internal/api/config"
	"Devflow/internal/pkg/logger"
	"Devflow/internal/repository"
	"context"
	log "log/slog"
	"sync"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	colUsers        = "users"
	colQuestions    = "questions"
	colAnswers      = "answers"
	colTags         = "tags"
	colInteractions = "interactions"
)

// Store 持有 MongoDB 连接，Connect / Disconnect 可重复调用
type Store struct {
	cfg    config.MongoConfig
	mu     sync.Mutex
	client *mongo.Client
	db     *mongo.Database
}

func NewStore(cfg config.MongoConfig) *Store {
	return &Store{cfg: cfg}
}

// Connect 建立连接并初始化索引，已连接时直接返回
func (s *Store) Connect(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.client != nil {
		return nil
	}

	timeout := time.Duration(s.cfg.ConnectTimeout) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	// 建立连接
	client, err := mongo.Connect(ctx, options.Client().
		ApplyURI(s.cfg.URL).
		SetMonitor(logger.NewMongoMonitor(time.Duration(s.cfg.SlowThreshold)*time.Millisecond)),
	)
	if err != nil {
		return wrap("connect", err)
	}

	// 检查连通性
	if err = client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return wrap("ping", err)
	}

	db := client.Database(s.cfg.Database)
	if err = ensureIndexes(ctx, db); err != nil {
		_ = client.Disconnect(context.Background())
		return err
	}

	s.client, s.db = client, db
	log.Info("MongoDB initialized successfully", "db", s.cfg.Database)
	return nil
}

// Disconnect 断开连接，未连接时为空操作
func (s *Store) Disconnect(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.client == nil {
		return nil
	}
	err := s.client.Disconnect(ctx)
	s.client, s.db = nil, nil
	if err != nil {
		return wrap("disconnect", err)
	}
	log.Info("MongoDB disconnected")
	return nil
}

// Repositories 返回基于当前连接的仓储集合，必须在 Connect 之后调用
func (s *Store) Repositories() *repository.Store {
	s.mu.Lock()
	defer s.mu.Unlock()
	return NewRepositories(s.db, s.cfg.Transactions)
}

// NewRepositories 基于已有 Database 构建仓储集合
func NewRepositories(db *mongo.Database, transactions bool) *repository.Store {
	return &repository.Store{
		Users:        NewUserRepo(db),
		Questions:    NewQuestionRepo(db),
		Answers:      NewAnswerRepo(db),
		Tags:         NewTagRepo(db),
		Interactions: NewInteractionRepo(db),
		Tx:           &txManager{client: db.Client(), enabled: transactions},
	}
}

func ensureIndexes(ctx context.Context, db *mongo.Database) error {
	indexes := map[string][]mongo.IndexModel{
		colUsers: {
			{Keys: bson.D{{Key: "clerk_id", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		colTags: {
			{Keys: bson.D{{Key: "normalized_name", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		colQuestions: {
			{Keys: bson.D{{Key: "tags", Value: 1}}},
			{Keys: bson.D{{Key: "author", Value: 1}, {Key: "created_at", Value: -1}}},
		},
		colAnswers: {
			{Keys: bson.D{{Key: "question", Value: 1}}},
			{Keys: bson.D{{Key: "author", Value: 1}}},
		},
		colInteractions: {
			{Keys: bson.D{{Key: "user", Value: 1}, {Key: "action", Value: 1}, {Key: "question", Value: 1}}},
			{Keys: bson.D{{Key: "answer", Value: 1}}},
		},
	}
	for col, models := range indexes {
		if _, err := db.Collection(col).Indexes().CreateMany(ctx, models); err != nil {
			return wrap("create indexes "+col, err)
		}
	}
	return nil
}

// maxTxAttempts 唯一索引冲突时整个事务的最大执行次数
const maxTxAttempts = 3

type txManager struct {
	client  *mongo.Client
	enabled bool
}

// WithTransaction 开启事务时在同一会话中执行 fn，否则顺序执行
func (t *txManager) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if !t.enabled {
		return fn(ctx)
	}
	session, err := t.client.StartSession()
	if err != nil {
		return wrap("start session", err)
	}
	defer session.EndSession(ctx)

	for attempt := 1; ; attempt++ {
		_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
			return nil, fn(sc)
		})
		// 并发 upsert 撞上唯一索引时事务已被服务端中止，驱动不会自动重试
		if !mongo.IsDuplicateKeyError(err) || attempt >= maxTxAttempts {
			return err
		}
		log.WarnContext(ctx, "transaction retry on duplicate key", "attempt", attempt)
	}
}

// wrap 将驱动错误转换为仓储层错误
func wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, mongo.ErrNoDocuments) {
		return repository.ErrNotFound
	}
	return &repository.StoreError{Op: op, Err: errors.WithStack(err)}
}
