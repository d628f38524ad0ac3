package api_test

import (
	"Devflow/internal/api/config"
	"Devflow/internal/api/dto"
	"Devflow/internal/pkg/kafka"
	"Devflow/internal/pkg/redis"
	"Devflow/internal/pkg/security"
	"Devflow/internal/repository/memory"
	"Devflow/internal/wire"
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type client struct {
	t        *testing.T
	router   http.Handler
	verifier *security.Verifier
}

func newClient(t *testing.T) *client {
	t.Helper()
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{
		Auth: config.AuthConfig{JWTSecret: testSecret},
		Tag:  config.TagConfig{MatchMode: "exact"},
	}
	app, err := wire.BuildApplication(memory.NewStore(), redis.NopCache{}, kafka.NopPublisher{}, cfg)
	require.NoError(t, err)
	return &client{t: t, router: app.Router, verifier: security.NewVerifier(testSecret, "")}
}

func (c *client) do(method, path, clerkID string, body any) envelope {
	c.t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(c.t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if clerkID != "" {
		token, err := c.verifier.GenerateToken(clerkID, time.Hour)
		require.NoError(c.t, err)
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	c.router.ServeHTTP(w, req)
	require.Equal(c.t, http.StatusOK, w.Code, w.Body.String())

	var out envelope
	require.NoError(c.t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func decode[T any](t *testing.T, e envelope) T {
	t.Helper()
	require.Equal(t, 200, e.Code, e.Message)
	var v T
	require.NoError(t, json.Unmarshal(e.Data, &v))
	return v
}

func (c *client) sync(clerkID, name string) *dto.UserDTO {
	c.t.Helper()
	res := c.do(http.MethodPost, "/api/users/sync", clerkID, dto.SyncUserDTO{
		Name:     name,
		Username: name,
		Email:    name + "@example.com",
	})
	return decode[*dto.UserDTO](c.t, res)
}

func TestPing(t *testing.T) {
	c := newClient(t)
	res := c.do(http.MethodGet, "/api/ping", "", nil)
	assert.Equal(t, 200, res.Code)
	assert.Equal(t, "pong", res.Message)
}

func TestAuthRequired(t *testing.T) {
	c := newClient(t)
	res := c.do(http.MethodPost, "/api/questions", "", dto.AskQuestionDTO{})
	assert.Equal(t, 401, res.Code)

	req := httptest.NewRequest(http.MethodGet, "/api/questions/saved", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	w := httptest.NewRecorder()
	c.router.ServeHTTP(w, req)
	var out envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	assert.Equal(t, 401, out.Code)
}

func TestUnsyncedUserCannotAsk(t *testing.T) {
	c := newClient(t)
	res := c.do(http.MethodPost, "/api/questions", "ghost", dto.AskQuestionDTO{
		Title:   "How do channels work",
		Content: "Looking for an explanation of buffered channels.",
		Tags:    []string{"go"},
	})
	assert.Equal(t, 404, res.Code)
}

func TestValidationAndParams(t *testing.T) {
	c := newClient(t)
	c.sync("user_a", "alice")

	res := c.do(http.MethodPost, "/api/questions", "user_a", dto.AskQuestionDTO{
		Title:   "Hi",
		Content: "Looking for an explanation of buffered channels.",
		Tags:    []string{"go"},
	})
	assert.Equal(t, 400, res.Code)
	assert.Contains(t, res.Message, "Title")

	res = c.do(http.MethodPost, "/api/questions", "user_a", dto.AskQuestionDTO{
		Title:   "How do channels work",
		Content: "Looking for an explanation of buffered channels.",
		Tags:    []string{"   "},
	})
	assert.Equal(t, 400, res.Code)

	res = c.do(http.MethodGet, "/api/questions/not-an-id", "", nil)
	assert.Equal(t, 400, res.Code)

	res = c.do(http.MethodGet, "/api/questions/000000000000000000000000", "", nil)
	assert.Equal(t, 404, res.Code)

	res = c.do(http.MethodGet, "/api/search", "", nil)
	assert.Equal(t, 400, res.Code)
}

func TestQuestionLifecycle(t *testing.T) {
	c := newClient(t)
	c.sync("user_a", "alice")
	c.sync("user_b", "bob")

	question := decode[*dto.QuestionDTO](t, c.do(http.MethodPost, "/api/questions", "user_a", dto.AskQuestionDTO{
		Title:   "How do channels work",
		Content: "Looking for an explanation of buffered channels.",
		Tags:    []string{"go", "concurrency"},
	}))
	require.Len(t, question.Tags, 2)
	base := "/api/questions/" + question.ID

	view := decode[dto.ViewResultDTO](t, c.do(http.MethodPost, base+"/view", "user_b", nil))
	assert.Equal(t, int64(1), view.Views)

	vote := decode[dto.VoteResultDTO](t, c.do(http.MethodPost, base+"/upvote", "user_b", dto.VoteDTO{Path: "/question/" + question.ID}))
	assert.Equal(t, 1, vote.Upvotes)
	assert.True(t, vote.HasUpVoted)
	assert.Equal(t, "/question/"+question.ID, vote.Revalidate)

	saved := decode[dto.SaveResultDTO](t, c.do(http.MethodPost, base+"/save", "user_b", nil))
	assert.True(t, saved.Saved)
	savedList := decode[dto.QuestionListDTO](t, c.do(http.MethodGet, "/api/questions/saved", "user_b", nil))
	require.Len(t, savedList.Questions, 1)

	answer := decode[*dto.AnswerDTO](t, c.do(http.MethodPost, base+"/answers", "user_b", dto.CreateAnswerDTO{Content: "Use a buffered channel."}))
	answerVote := decode[dto.VoteResultDTO](t, c.do(http.MethodPost, "/api/answers/"+answer.ID+"/downvote", "user_a", nil))
	assert.Equal(t, 1, answerVote.Downvotes)

	answers := decode[dto.AnswerListDTO](t, c.do(http.MethodGet, base+"/answers", "", nil))
	require.Len(t, answers.Answers, 1)
	assert.Equal(t, "bob", answers.Answers[0].Author.Name)

	info := decode[dto.UserInfoDTO](t, c.do(http.MethodGet, "/api/users/user_a", "", nil))
	assert.Equal(t, int64(1), info.TotalQuestions)
	// 被点赞 +2，对回答点踩 -1
	assert.Equal(t, int64(1), info.Reputation)

	topTags := decode[[]*dto.InteractedTagDTO](t, c.do(http.MethodGet, "/api/users/user_b/tags", "", nil))
	require.Len(t, topTags, 2)
	assert.Equal(t, int64(2), topTags[0].Count)
	assert.Equal(t, 400, c.do(http.MethodGet, "/api/users/user_b/tags?limit=0", "", nil).Code)

	search := decode[[]*dto.SearchResultDTO](t, c.do(http.MethodGet, "/api/search?q=channel&type=Question", "", nil))
	require.Len(t, search, 1)
	assert.Equal(t, question.ID, search[0].ID)

	popular := decode[[]*dto.PopularTagDTO](t, c.do(http.MethodGet, "/api/tags/popular", "", nil))
	assert.Len(t, popular, 2)

	forbidden := c.do(http.MethodDelete, base, "user_b", nil)
	assert.Equal(t, 403, forbidden.Code)
	assert.Equal(t, 200, c.do(http.MethodDelete, base, "user_a", nil).Code)
	assert.Equal(t, 404, c.do(http.MethodGet, base, "", nil).Code)
}

func TestTagFollowAndUserDeletion(t *testing.T) {
	c := newClient(t)
	c.sync("user_a", "alice")
	question := decode[*dto.QuestionDTO](t, c.do(http.MethodPost, "/api/questions", "user_a", dto.AskQuestionDTO{
		Title:   "Mongo aggregation help",
		Content: "How do I group documents by a nested field?",
		Tags:    []string{"mongodb"},
	}))
	tagID := question.Tags[0].ID

	follow := decode[dto.FollowResultDTO](t, c.do(http.MethodPost, "/api/tags/"+tagID+"/follow", "user_a", nil))
	assert.True(t, follow.Following)

	byTag := decode[dto.TagQuestionsDTO](t, c.do(http.MethodGet, "/api/tags/"+tagID+"/questions", "", nil))
	assert.Equal(t, "mongodb", byTag.TagTitle)
	require.Len(t, byTag.Questions, 1)

	assert.Equal(t, 200, c.do(http.MethodDelete, "/api/users/me", "user_a", nil).Code)
	assert.Equal(t, 404, c.do(http.MethodGet, "/api/users/user_a", "", nil).Code)
	assert.Equal(t, 404, c.do(http.MethodGet, "/api/questions/"+question.ID, "", nil).Code)
}
