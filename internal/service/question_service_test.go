package service

import (
	"Devflow/internal/api/dto"
	"Devflow/internal/model"
	"Devflow/internal/pkg/consts"
	"Devflow/internal/repository"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func askReq(title string, tags ...string) *dto.AskQuestionDTO {
	return &dto.AskQuestionDTO{
		Title:   title,
		Content: "a question body that is long enough",
		Tags:    tags,
	}
}

func TestAskQuestion(t *testing.T) {
	env := newTestEnv(t)
	author := env.newUser(t, "Asker")
	require.NoError(t, env.cache.SetJSON(env.ctx, consts.TopQuestionsKey, []string{}, 0))

	q, err := env.question.AskQuestion(env.ctx, author.ID, askReq("How do channels work?", "Go", "concurrency"))
	require.NoError(t, err)
	require.Len(t, q.Tags, 2)
	assert.Equal(t, "Go", q.Tags[0].Name)
	assert.Equal(t, "concurrency", q.Tags[1].Name)
	assert.Equal(t, author.ClerkID, q.Author.ClerkID)
	assert.False(t, env.cache.has(consts.TopQuestionsKey))

	qid, err := primitive.ObjectIDFromHex(q.ID)
	require.NoError(t, err)
	exists, err := env.store.Interactions.Exists(env.ctx, author.ID, model.ActionAskQuestion, qid)
	require.NoError(t, err)
	assert.True(t, exists)

	require.Len(t, env.publisher.events, 1)
	assert.Len(t, env.publisher.events[0].Tags, 2)
	assert.Zero(t, env.reputation(t, author.ID))
}

func TestAskQuestionRejectsBlankTags(t *testing.T) {
	env := newTestEnv(t)
	author := env.newUser(t, "Asker")

	_, err := env.question.AskQuestion(env.ctx, author.ID, askReq("How do channels work?", "   ", "\t"))
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "Tags", ve.Field)

	stored, err := env.store.Questions.Find(env.ctx, repository.QuestionQuery{Author: &author.ID})
	require.NoError(t, err)
	assert.Empty(t, stored)
	assert.Empty(t, env.publisher.events)

	q, err := env.question.AskQuestion(env.ctx, author.ID, askReq("How do channels work?", "  ", "go"))
	require.NoError(t, err)
	require.Len(t, q.Tags, 1)
	assert.Equal(t, "go", q.Tags[0].Name)
}

func TestEditQuestionOwnership(t *testing.T) {
	env := newTestEnv(t)
	author := env.newUser(t, "Author")
	stranger := env.newUser(t, "Stranger")
	q := env.newQuestion(t, author.ID, "original title", []primitive.ObjectID{primitive.NewObjectID()}, time.Now())

	edit := &dto.EditQuestionDTO{Title: "edited title", Content: "edited content that is long"}
	_, err := env.question.EditQuestion(env.ctx, stranger.ID, q.ID, edit)
	assert.ErrorIs(t, err, ErrForbidden)

	got, err := env.question.EditQuestion(env.ctx, author.ID, q.ID, edit)
	require.NoError(t, err)
	assert.Equal(t, "edited title", got.Title)

	stored, err := env.store.Questions.GetByID(env.ctx, q.ID)
	require.NoError(t, err)
	assert.Equal(t, q.Tags, stored.Tags)

	_, err = env.question.EditQuestion(env.ctx, author.ID, primitive.NewObjectID(), edit)
	assert.ErrorIs(t, err, ErrQuestionNotFound)
}

func TestDeleteQuestionCascade(t *testing.T) {
	env := newTestEnv(t)
	author := env.newUser(t, "Author")
	answerer := env.newUser(t, "Answerer")

	created, err := env.question.AskQuestion(env.ctx, author.ID, askReq("Cascade me please", "go"))
	require.NoError(t, err)
	qid, _ := primitive.ObjectIDFromHex(created.ID)
	tagID, _ := primitive.ObjectIDFromHex(created.Tags[0].ID)

	ans, err := env.answer.CreateAnswer(env.ctx, answerer.ID, qid, &dto.CreateAnswerDTO{Content: "an answer"})
	require.NoError(t, err)
	aid, _ := primitive.ObjectIDFromHex(ans.ID)
	_, err = env.question.ToggleSaveQuestion(env.ctx, answerer.ID, qid)
	require.NoError(t, err)
	_, err = env.question.ViewQuestion(env.ctx, &answerer.ID, qid)
	require.NoError(t, err)

	assert.ErrorIs(t, env.question.DeleteQuestion(env.ctx, answerer.ID, qid), ErrForbidden)
	require.NoError(t, env.question.DeleteQuestion(env.ctx, author.ID, qid))

	_, err = env.store.Questions.GetByID(env.ctx, qid)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	_, err = env.store.Answers.GetByID(env.ctx, aid)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	tag, err := env.store.Tags.GetByID(env.ctx, tagID)
	require.NoError(t, err)
	assert.NotContains(t, tag.Questions, qid)

	saver, err := env.store.Users.GetByID(env.ctx, answerer.ID)
	require.NoError(t, err)
	assert.False(t, saver.HasSaved(qid))

	for _, u := range []primitive.ObjectID{author.ID, answerer.ID} {
		tags, err := env.store.Interactions.DistinctTagsByUser(env.ctx, u)
		require.NoError(t, err)
		assert.Empty(t, tags)
	}

	assert.ErrorIs(t, env.question.DeleteQuestion(env.ctx, author.ID, qid), ErrQuestionNotFound)
}

func TestGetQuestionsFilters(t *testing.T) {
	env := newTestEnv(t)
	author := env.newUser(t, "Author")
	base := time.Now()
	old := env.newQuestion(t, author.ID, "old popular", nil, base.Add(-2*time.Hour))
	fresh := env.newQuestion(t, author.ID, "fresh quiet", nil, base)
	for i := 0; i < 3; i++ {
		_, err := env.store.Questions.IncViews(env.ctx, old.ID)
		require.NoError(t, err)
	}
	require.NoError(t, env.store.Questions.AddAnswer(env.ctx, old.ID, primitive.NewObjectID()))

	newest, err := env.question.GetQuestions(env.ctx, nil, "", "", 1, 10)
	require.NoError(t, err)
	require.Len(t, newest.Questions, 2)
	assert.Equal(t, fresh.ID.Hex(), newest.Questions[0].ID)

	frequent, err := env.question.GetQuestions(env.ctx, nil, "", "frequent", 1, 10)
	require.NoError(t, err)
	assert.Equal(t, old.ID.Hex(), frequent.Questions[0].ID)

	unanswered, err := env.question.GetQuestions(env.ctx, nil, "", "unanswered", 1, 10)
	require.NoError(t, err)
	require.Len(t, unanswered.Questions, 1)
	assert.Equal(t, fresh.ID.Hex(), unanswered.Questions[0].ID)

	searched, err := env.question.GetQuestions(env.ctx, nil, "POPULAR", "", 1, 10)
	require.NoError(t, err)
	require.Len(t, searched.Questions, 1)

	anonymous, err := env.question.GetQuestions(env.ctx, nil, "", "recommended", 1, 10)
	require.NoError(t, err)
	assert.Empty(t, anonymous.Questions)
}

func TestSavedQuestions(t *testing.T) {
	env := newTestEnv(t)
	author := env.newUser(t, "Author")
	reader := env.newUser(t, "Reader")
	base := time.Now()
	a := env.newQuestion(t, author.ID, "first saved", nil, base.Add(-time.Hour))
	b := env.newQuestion(t, author.ID, "second saved", nil, base)
	env.newQuestion(t, author.ID, "not saved", nil, base)

	empty, err := env.question.GetSavedQuestions(env.ctx, reader.ID, "", "", 1, 10)
	require.NoError(t, err)
	assert.Empty(t, empty.Questions)

	for _, id := range []primitive.ObjectID{a.ID, b.ID} {
		saved, err := env.question.ToggleSaveQuestion(env.ctx, reader.ID, id)
		require.NoError(t, err)
		assert.True(t, saved)
	}

	list, err := env.question.GetSavedQuestions(env.ctx, reader.ID, "", "oldest", 1, 10)
	require.NoError(t, err)
	require.Len(t, list.Questions, 2)
	assert.Equal(t, a.ID.Hex(), list.Questions[0].ID)

	saved, err := env.question.ToggleSaveQuestion(env.ctx, reader.ID, a.ID)
	require.NoError(t, err)
	assert.False(t, saved)

	list, err = env.question.GetSavedQuestions(env.ctx, reader.ID, "second", "", 1, 10)
	require.NoError(t, err)
	require.Len(t, list.Questions, 1)
	assert.Equal(t, b.ID.Hex(), list.Questions[0].ID)

	_, err = env.question.ToggleSaveQuestion(env.ctx, reader.ID, primitive.NewObjectID())
	assert.ErrorIs(t, err, ErrQuestionNotFound)
}

func TestTopQuestions(t *testing.T) {
	env := newTestEnv(t)
	author := env.newUser(t, "Author")
	voter := env.newUser(t, "Voter")
	now := time.Now()
	var qs []*model.Question
	for i := 0; i < 6; i++ {
		qs = append(qs, env.newQuestion(t, author.ID, "question", nil, now))
	}
	for i := 0; i < 2; i++ {
		_, err := env.store.Questions.IncViews(env.ctx, qs[5].ID)
		require.NoError(t, err)
	}
	_, err := env.store.Questions.IncViews(env.ctx, qs[3].ID)
	require.NoError(t, err)
	_, err = env.store.Questions.IncViews(env.ctx, qs[4].ID)
	require.NoError(t, err)
	_, err = env.vote.ApplyVote(env.ctx, VoteRequest{Kind: model.TargetQuestion, TargetID: qs[4].ID, VoterID: voter.ID, Direction: model.VoteUp})
	require.NoError(t, err)

	top, err := env.question.GetTopQuestions(env.ctx)
	require.NoError(t, err)
	require.Len(t, top, consts.TopQuestionsLimit)
	assert.Equal(t, qs[5].ID.Hex(), top[0].ID)
	assert.Equal(t, qs[4].ID.Hex(), top[1].ID)
	assert.Equal(t, qs[3].ID.Hex(), top[2].ID)
	assert.True(t, env.cache.has(consts.TopQuestionsKey))
}
