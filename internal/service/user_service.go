package service

import (
	"Devflow/internal/api/dto"
	"Devflow/internal/model"
	"Devflow/internal/pkg/badge"
	"Devflow/internal/pkg/consts"
	"Devflow/internal/repository"
	"context"
	log "log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/sync/errgroup"
)

type UserService interface {
	SyncUser(ctx context.Context, clerkID string, req *dto.SyncUserDTO) (*dto.UserDTO, error)
	GetByClerkID(ctx context.Context, clerkID string) (*model.User, error)
	UpdateUser(ctx context.Context, clerkID string, req *dto.UpdateUserDTO) (*dto.UserDTO, error)
	DeleteUser(ctx context.Context, clerkID string) error
	GetUserInfo(ctx context.Context, clerkID string) (*dto.UserInfoDTO, error)
	GetAllUsers(ctx context.Context, search, filter string, page, pageSize int) (*dto.UserListDTO, error)
	GetUserQuestions(ctx context.Context, clerkID string, page, pageSize int) (*dto.QuestionListDTO, error)
	GetUserAnswers(ctx context.Context, clerkID string, page, pageSize int) (*dto.AnswerListDTO, error)
	GetTopInteractedTags(ctx context.Context, clerkID string, limit int64) ([]*dto.InteractedTagDTO, error)
}

type userServiceImpl struct {
	userRepo        repository.UserRepo
	questionRepo    repository.QuestionRepo
	answerRepo      repository.AnswerRepo
	tagRepo         repository.TagRepo
	interactionRepo repository.InteractionRepo
	tx              repository.TxManager
	badges          badge.Table
	cascader
	populator
}

func NewUserService(store *repository.Store, badges badge.Table) UserService {
	if badges == nil {
		badges = badge.DefaultTable
	}
	return &userServiceImpl{
		userRepo:        store.Users,
		questionRepo:    store.Questions,
		answerRepo:      store.Answers,
		tagRepo:         store.Tags,
		interactionRepo: store.Interactions,
		tx:              store.Tx,
		badges:          badges,
		cascader:        newCascader(store),
		populator:       populator{userRepo: store.Users, tagRepo: store.Tags},
	}
}

// SyncUser 首次登录时创建用户，已存在则原样返回
func (s *userServiceImpl) SyncUser(ctx context.Context, clerkID string, req *dto.SyncUserDTO) (*dto.UserDTO, error) {
	if clerkID == "" {
		return nil, ErrParamInvalid
	}
	user, err := s.userRepo.CreateIfAbsent(ctx, &model.User{
		ClerkID:  clerkID,
		Name:     req.Name,
		Username: req.Username,
		Email:    req.Email,
		Picture:  req.Picture,
		Saved:    []primitive.ObjectID{},
		JoinedAt: time.Now(),
	})
	if err != nil {
		return nil, err
	}
	return toUserDTO(user)
}

func (s *userServiceImpl) GetByClerkID(ctx context.Context, clerkID string) (*model.User, error) {
	user, err := s.userRepo.GetByClerkID(ctx, clerkID)
	if err != nil {
		return nil, mapNotFound(err, ErrUserNotFound)
	}
	return user, nil
}

func (s *userServiceImpl) UpdateUser(ctx context.Context, clerkID string, req *dto.UpdateUserDTO) (*dto.UserDTO, error) {
	user, err := s.userRepo.Update(ctx, clerkID, repository.UserUpdate{
		Name:             req.Name,
		Username:         req.Username,
		Bio:              req.Bio,
		Location:         req.Location,
		PortfolioWebsite: req.PortfolioWebsite,
		Picture:          req.Picture,
	})
	if err != nil {
		return nil, mapNotFound(err, ErrUserNotFound)
	}
	return toUserDTO(user)
}

// DeleteUser 注销账号：删除其问题（级联）、回答、互动记录、投票与关注，最后删除用户
func (s *userServiceImpl) DeleteUser(ctx context.Context, clerkID string) error {
	user, err := s.GetByClerkID(ctx, clerkID)
	if err != nil {
		return err
	}
	uid := user.ID

	err = s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		questions, err := s.questionRepo.Find(ctx, repository.QuestionQuery{Author: &uid})
		if err != nil {
			return err
		}
		for _, q := range questions {
			if err = s.cascader.deleteQuestion(ctx, q.ID); err != nil && !isNotFound(err) {
				return err
			}
		}

		answers, err := s.answerRepo.Find(ctx, repository.AnswerQuery{Author: &uid})
		if err != nil {
			return err
		}
		for _, a := range answers {
			if err = s.cascader.deleteAnswer(ctx, a.ID, a.Question); err != nil && !isNotFound(err) {
				return err
			}
		}

		if err = s.interactionRepo.DeleteByUser(ctx, uid); err != nil {
			return err
		}
		if err = s.questionRepo.PullVoter(ctx, uid); err != nil {
			return err
		}
		if err = s.answerRepo.PullVoter(ctx, uid); err != nil {
			return err
		}
		if err = s.tagRepo.PullFollower(ctx, uid); err != nil {
			return err
		}
		return s.userRepo.Delete(ctx, uid)
	})
	if err != nil {
		return mapNotFound(err, ErrUserNotFound)
	}
	log.InfoContext(ctx, "user deleted", "user", uid.Hex())
	return nil
}

// GetUserInfo 并发统计五项指标并计算徽章
func (s *userServiceImpl) GetUserInfo(ctx context.Context, clerkID string) (*dto.UserInfoDTO, error) {
	user, err := s.GetByClerkID(ctx, clerkID)
	if err != nil {
		return nil, err
	}
	uid := user.ID

	var questionCount, answerCount, questionUpvotes, answerUpvotes, totalViews int64
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		questionCount, err = s.questionRepo.Count(gctx, repository.QuestionQuery{Author: &uid})
		return err
	})
	g.Go(func() (err error) {
		answerCount, err = s.answerRepo.Count(gctx, repository.AnswerQuery{Author: &uid})
		return err
	})
	g.Go(func() (err error) {
		questionUpvotes, err = s.questionRepo.SumUpvotesByAuthor(gctx, uid)
		return err
	})
	g.Go(func() (err error) {
		answerUpvotes, err = s.answerRepo.SumUpvotesByAuthor(gctx, uid)
		return err
	})
	g.Go(func() (err error) {
		totalViews, err = s.questionRepo.SumViewsByAuthor(gctx, uid)
		return err
	})
	if err = g.Wait(); err != nil {
		return nil, err
	}

	userDTO, err := toUserDTO(user)
	if err != nil {
		return nil, err
	}
	return &dto.UserInfoDTO{
		User:           userDTO,
		TotalQuestions: questionCount,
		TotalAnswers:   answerCount,
		BadgeCounts: s.badges.Assign([]badge.Criterion{
			{Kind: badge.QuestionCount, Count: questionCount},
			{Kind: badge.AnswerCount, Count: answerCount},
			{Kind: badge.QuestionUpvotes, Count: questionUpvotes},
			{Kind: badge.AnswerUpvotes, Count: answerUpvotes},
			{Kind: badge.TotalViews, Count: totalViews},
		}),
		Reputation: user.Reputation,
	}, nil
}

func userSortOf(filter string) repository.UserSort {
	switch filter {
	case "oldUsers":
		return repository.UserSortOldest
	case "topContributors":
		return repository.UserSortTopContributors
	default:
		return repository.UserSortNewest
	}
}

// GetAllUsers 社区用户列表，搜索匹配姓名或用户名
func (s *userServiceImpl) GetAllUsers(ctx context.Context, search, filter string, page, pageSize int) (*dto.UserListDTO, error) {
	skip, limit := pageWindow(page, pageSize)
	q := repository.UserQuery{Search: search, Sort: userSortOf(filter), Skip: skip, Limit: limit}
	users, err := s.userRepo.Find(ctx, q)
	if err != nil {
		return nil, err
	}
	total, err := s.userRepo.Count(ctx, q)
	if err != nil {
		return nil, err
	}
	out := &dto.UserListDTO{Users: make([]*dto.UserDTO, 0, len(users)), IsNext: hasNext(total, skip, len(users))}
	for _, u := range users {
		item, err := toUserDTO(u)
		if err != nil {
			return nil, err
		}
		out.Users = append(out.Users, item)
	}
	return out, nil
}

// GetUserQuestions 个人主页问题：最新优先，其次浏览量、点赞数
func (s *userServiceImpl) GetUserQuestions(ctx context.Context, clerkID string, page, pageSize int) (*dto.QuestionListDTO, error) {
	user, err := s.GetByClerkID(ctx, clerkID)
	if err != nil {
		return nil, err
	}
	skip, limit := pageWindow(page, pageSize)
	q := repository.QuestionQuery{Author: &user.ID, Sort: repository.QuestionSortProfile, Skip: skip, Limit: limit}
	questions, err := s.questionRepo.Find(ctx, q)
	if err != nil {
		return nil, err
	}
	total, err := s.questionRepo.Count(ctx, q)
	if err != nil {
		return nil, err
	}
	items, err := s.populator.questions(ctx, questions)
	if err != nil {
		return nil, err
	}
	return &dto.QuestionListDTO{Questions: items, Total: total, IsNext: hasNext(total, skip, len(questions))}, nil
}

// GetUserAnswers 个人主页回答：点赞数最多优先
func (s *userServiceImpl) GetUserAnswers(ctx context.Context, clerkID string, page, pageSize int) (*dto.AnswerListDTO, error) {
	user, err := s.GetByClerkID(ctx, clerkID)
	if err != nil {
		return nil, err
	}
	skip, limit := pageWindow(page, pageSize)
	q := repository.AnswerQuery{Author: &user.ID, Sort: repository.AnswerSortHighestUpvotes, Skip: skip, Limit: limit}
	answers, err := s.answerRepo.Find(ctx, q)
	if err != nil {
		return nil, err
	}
	total, err := s.answerRepo.Count(ctx, q)
	if err != nil {
		return nil, err
	}
	items, err := s.populator.answers(ctx, answers)
	if err != nil {
		return nil, err
	}
	return &dto.AnswerListDTO{Answers: items, Total: total, IsNext: hasNext(total, skip, len(answers))}, nil
}

// GetTopInteractedTags 统计用户互动记录中的标签快照，已删除的标签跳过
func (s *userServiceImpl) GetTopInteractedTags(ctx context.Context, clerkID string, limit int64) ([]*dto.InteractedTagDTO, error) {
	if limit <= 0 {
		limit = consts.TopInteractedTagsLimit
	}
	user, err := s.GetByClerkID(ctx, clerkID)
	if err != nil {
		return nil, err
	}

	usages, err := s.interactionRepo.TopTagsByUser(ctx, user.ID, limit)
	if err != nil {
		return nil, err
	}
	ids := make([]primitive.ObjectID, 0, len(usages))
	for _, u := range usages {
		ids = append(ids, u.TagID)
	}
	tags, err := s.tagRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	names := make(map[primitive.ObjectID]string, len(tags))
	for _, t := range tags {
		names[t.ID] = t.Name
	}

	out := make([]*dto.InteractedTagDTO, 0, len(usages))
	for _, u := range usages {
		name, ok := names[u.TagID]
		if !ok {
			continue
		}
		out = append(out, &dto.InteractedTagDTO{ID: u.TagID.Hex(), Name: name, Count: u.Count})
	}
	return out, nil
}
