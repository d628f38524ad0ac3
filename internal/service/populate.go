package service

import (
	"Devflow/internal/api/dto"
	"Devflow/internal/model"
	"Devflow/internal/repository"
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// populator 批量解析问题与回答上的标签、作者引用
type populator struct {
	userRepo repository.UserRepo
	tagRepo  repository.TagRepo
}

func toAuthorDTO(u *model.User) *dto.AuthorDTO {
	if u == nil {
		return nil
	}
	return &dto.AuthorDTO{ID: u.ID.Hex(), ClerkID: u.ClerkID, Name: u.Name, Picture: u.Picture}
}

func toUserDTO(u *model.User) (*dto.UserDTO, error) {
	out := &dto.UserDTO{}
	if err := dto.Copy(out, u); err != nil {
		return nil, err
	}
	return out, nil
}

func toTagDTO(t *model.Tag) (*dto.TagDTO, error) {
	out := &dto.TagDTO{}
	if err := dto.Copy(out, t); err != nil {
		return nil, err
	}
	out.QuestionsCount = len(t.Questions)
	out.FollowersCount = len(t.Followers)
	return out, nil
}

func (p populator) authors(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]*model.User, error) {
	users, err := p.userRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	m := make(map[primitive.ObjectID]*model.User, len(users))
	for _, u := range users {
		m[u.ID] = u
	}
	return m, nil
}

// questions 转换为 DTO，标签保持问题上的顺序
func (p populator) questions(ctx context.Context, list []*model.Question) ([]*dto.QuestionDTO, error) {
	var authorIDs, tagIDs []primitive.ObjectID
	for _, q := range list {
		authorIDs = append(authorIDs, q.Author)
		tagIDs = append(tagIDs, q.Tags...)
	}
	authors, err := p.authors(ctx, authorIDs)
	if err != nil {
		return nil, err
	}
	tags, err := p.tagRepo.GetByIDs(ctx, tagIDs)
	if err != nil {
		return nil, err
	}
	tagByID := make(map[primitive.ObjectID]*model.Tag, len(tags))
	for _, t := range tags {
		tagByID[t.ID] = t
	}

	out := make([]*dto.QuestionDTO, 0, len(list))
	for _, q := range list {
		item := &dto.QuestionDTO{}
		if err = dto.Copy(item, q); err != nil {
			return nil, err
		}
		item.Author = toAuthorDTO(authors[q.Author])
		item.Tags = make([]*dto.TagBriefDTO, 0, len(q.Tags))
		for _, id := range q.Tags {
			if t, ok := tagByID[id]; ok {
				item.Tags = append(item.Tags, &dto.TagBriefDTO{ID: t.ID.Hex(), Name: t.Name})
			}
		}
		out = append(out, item)
	}
	return out, nil
}

func (p populator) question(ctx context.Context, q *model.Question) (*dto.QuestionDTO, error) {
	list, err := p.questions(ctx, []*model.Question{q})
	if err != nil {
		return nil, err
	}
	return list[0], nil
}

func (p populator) answers(ctx context.Context, list []*model.Answer) ([]*dto.AnswerDTO, error) {
	authorIDs := make([]primitive.ObjectID, 0, len(list))
	for _, a := range list {
		authorIDs = append(authorIDs, a.Author)
	}
	authors, err := p.authors(ctx, authorIDs)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.AnswerDTO, 0, len(list))
	for _, a := range list {
		item := &dto.AnswerDTO{}
		if err = dto.Copy(item, a); err != nil {
			return nil, err
		}
		item.Author = toAuthorDTO(authors[a.Author])
		out = append(out, item)
	}
	return out, nil
}
