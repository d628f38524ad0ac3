package service

import (
	"Devflow/internal/api/dto"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestGlobalSearch(t *testing.T) {
	env := newTestEnv(t)
	gopher := env.newUser(t, "Gopher")
	for i := 0; i < 3; i++ {
		env.newQuestion(t, gopher.ID, "go question", nil, time.Now())
	}
	q := env.newQuestion(t, gopher.ID, "unrelated", nil, time.Now())
	_, err := env.answer.CreateAnswer(env.ctx, gopher.ID, q.ID, &dto.CreateAnswerDTO{Content: "try go modules"})
	require.NoError(t, err)
	_, err = env.tag.EnsureTags(env.ctx, []string{"golang"}, primitive.NewObjectID())
	require.NoError(t, err)

	all, err := env.search.GlobalSearch(env.ctx, "go", "")
	require.NoError(t, err)
	counts := map[string]int{}
	for _, r := range all {
		counts[r.Type]++
	}
	assert.Equal(t, map[string]int{"question": 2, "user": 1, "answer": 1, "tag": 1}, counts)

	for _, r := range all {
		switch r.Type {
		case "user":
			assert.Equal(t, gopher.ClerkID, r.ID)
		case "answer":
			assert.Equal(t, "Answers containing go", r.Title)
			assert.Equal(t, q.ID.Hex(), r.ID)
		}
	}

	onlyQuestions, err := env.search.GlobalSearch(env.ctx, "go", "question")
	require.NoError(t, err)
	assert.Len(t, onlyQuestions, 3)

	mixedCase, err := env.search.GlobalSearch(env.ctx, "go", "Question")
	require.NoError(t, err)
	assert.Len(t, mixedCase, 3)

	unknownType, err := env.search.GlobalSearch(env.ctx, "go", "comment")
	require.NoError(t, err)
	assert.Len(t, unknownType, len(all))
}

func TestGlobalSearchQuotesPattern(t *testing.T) {
	env := newTestEnv(t)
	user := env.newUser(t, "User")
	env.newQuestion(t, user.ID, "what is a.*b", nil, time.Now())
	env.newQuestion(t, user.ID, "what is axxb", nil, time.Now())

	res, err := env.search.GlobalSearch(env.ctx, "a.*b", "question")
	require.NoError(t, err)
	require.Len(t, res, 1)
	assert.Equal(t, "what is a.*b", res[0].Title)
}
