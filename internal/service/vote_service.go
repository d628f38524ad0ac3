package service

import (
	"Devflow/internal/api/dto"
	"Devflow/internal/model"
	"Devflow/internal/pkg/consts"
	"Devflow/internal/pkg/redis"
	"Devflow/internal/repository"
	"context"
	"errors"
	log "log/slog"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	voterReputation  int64 = 1
	authorReputation int64 = 2
)

// VoteRequest 一次投票；HasUpVoted / HasDownVoted 为调用方看到的当前状态
type VoteRequest struct {
	Kind         model.TargetKind
	TargetID     primitive.ObjectID
	VoterID      primitive.ObjectID
	Direction    model.VoteDirection
	HasUpVoted   bool
	HasDownVoted bool
}

type VoteService interface {
	ApplyVote(ctx context.Context, req VoteRequest) (model.Votable, error)
	// Vote 处理 HTTP 投票请求，path 原样回传
	Vote(ctx context.Context, kind model.TargetKind, targetID, voterID primitive.ObjectID, direction model.VoteDirection, req *dto.VoteDTO) (*dto.VoteResultDTO, error)
}

type voteServiceImpl struct {
	questionRepo  repository.VotableRepo
	answerRepo    repository.VotableRepo
	userRepo      repository.UserRepo
	tx            repository.TxManager
	cache         redis.Cache
	reverseOnFlip bool
}

// NewVoteService reverseOnFlip 为 true 时改票会同时撤销原投票带来的声望
func NewVoteService(
	questionRepo repository.VotableRepo,
	answerRepo repository.VotableRepo,
	userRepo repository.UserRepo,
	tx repository.TxManager,
	cache redis.Cache,
	reverseOnFlip bool,
) VoteService {
	return &voteServiceImpl{
		questionRepo:  questionRepo,
		answerRepo:    answerRepo,
		userRepo:      userRepo,
		tx:            tx,
		cache:         cache,
		reverseOnFlip: reverseOnFlip,
	}
}

// transition 投票状态迁移：集合变更与声望变化
type transition struct {
	change      model.VoteChange
	voterDelta  int64
	authorDelta int64
}

// plan 根据当前状态与投票方向计算迁移；任何加入操作都会同时从另一集合移除
func (s *voteServiceImpl) plan(req VoteRequest) transition {
	t := transition{change: model.VoteChange{Voter: req.VoterID}}
	sign := int64(req.Direction)

	switch req.Direction {
	case model.VoteUp:
		switch {
		case req.HasUpVoted:
			t.change.PullUp = true
			sign = -1
		case req.HasDownVoted:
			t.change.PullDown, t.change.AddUp = true, true
		default:
			t.change.AddUp, t.change.PullDown = true, true
		}
	case model.VoteDown:
		switch {
		case req.HasDownVoted:
			t.change.PullDown = true
			sign = 1
		case req.HasUpVoted:
			t.change.PullUp, t.change.AddDown = true, true
		default:
			t.change.AddDown, t.change.PullUp = true, true
		}
	}

	t.voterDelta = sign * voterReputation
	t.authorDelta = sign * authorReputation

	flip := (req.Direction == model.VoteUp && !req.HasUpVoted && req.HasDownVoted) ||
		(req.Direction == model.VoteDown && !req.HasDownVoted && req.HasUpVoted)
	if flip && s.reverseOnFlip {
		t.voterDelta *= 2
		t.authorDelta *= 2
	}
	return t
}

func (s *voteServiceImpl) repoOf(kind model.TargetKind) (repository.VotableRepo, error) {
	switch kind {
	case model.TargetQuestion:
		return s.questionRepo, nil
	case model.TargetAnswer:
		return s.answerRepo, nil
	}
	return nil, ErrParamInvalid
}

// ApplyVote 先原子更新目标的投票集合，再分别调整投票人与作者的声望
func (s *voteServiceImpl) ApplyVote(ctx context.Context, req VoteRequest) (model.Votable, error) {
	if req.Direction != model.VoteUp && req.Direction != model.VoteDown {
		return nil, ErrParamInvalid
	}
	repo, err := s.repoOf(req.Kind)
	if err != nil {
		return nil, err
	}

	t := s.plan(req)
	var target model.Votable
	err = s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		target, err = repo.ApplyVoteChange(ctx, req.TargetID, t.change)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return notFoundOf(req.Kind)
			}
			return err
		}
		if err = s.userRepo.IncReputation(ctx, req.VoterID, t.voterDelta); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrUserNotFound
			}
			return err
		}
		if err = s.userRepo.IncReputation(ctx, target.GetAuthor(), t.authorDelta); err != nil && !errors.Is(err, repository.ErrNotFound) {
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// 热门问题按浏览数与赞成数排序，问题投票后失效
	if req.Kind == model.TargetQuestion {
		if err = s.cache.DeleteKey(ctx, consts.TopQuestionsKey); err != nil {
			log.WarnContext(ctx, "top questions cache invalidate error", "err", err)
		}
	}

	log.InfoContext(ctx, "vote applied",
		"kind", req.Kind, "target", req.TargetID.Hex(), "direction", req.Direction.String(),
		"voter_delta", t.voterDelta, "author_delta", t.authorDelta)
	return target, nil
}

func notFoundOf(kind model.TargetKind) error {
	if kind == model.TargetAnswer {
		return ErrAnswerNotFound
	}
	return ErrQuestionNotFound
}

func (s *voteServiceImpl) Vote(ctx context.Context, kind model.TargetKind, targetID, voterID primitive.ObjectID, direction model.VoteDirection, req *dto.VoteDTO) (*dto.VoteResultDTO, error) {
	target, err := s.ApplyVote(ctx, VoteRequest{
		Kind:         kind,
		TargetID:     targetID,
		VoterID:      voterID,
		Direction:    direction,
		HasUpVoted:   req.HasUpVoted,
		HasDownVoted: req.HasDownVoted,
	})
	if err != nil {
		return nil, err
	}
	up, down := target.GetVoteSets()
	state := model.VoteStateOf(target, voterID)
	return &dto.VoteResultDTO{
		Upvotes:      len(up),
		Downvotes:    len(down),
		HasUpVoted:   state == model.VoteUpvoted,
		HasDownVoted: state == model.VoteDownvoted,
		Revalidate:   req.Path,
	}, nil
}
