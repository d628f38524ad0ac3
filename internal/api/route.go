package api

import (
	"Devflow/internal/api/middleware"
	"Devflow/internal/pkg/logger"
	"Devflow/internal/pkg/security"
	"net/http"

	"github.com/gin-gonic/gin"
)

// RouterOptions 路由依赖的鉴权与跨域配置
type RouterOptions struct {
	Verifier       *security.Verifier
	AllowedOrigins []string
}

func SetupRouter(group *HandlersGroup, opts RouterOptions) *gin.Engine {
	r := gin.New()
	_ = r.SetTrustedProxies([]string{"localhost"})

	// TraceId & Logger & CORS
	r.Use(middleware.TraceMiddleware())
	r.Use(middleware.AuditMiddleware())
	r.Use(middleware.CORSMiddleware(opts.AllowedOrigins))
	logger.SetupGin(r)

	auth := middleware.AuthMiddleware(opts.Verifier)
	authOpt := middleware.AuthOptionalMiddleware(opts.Verifier)

	r.GET("/health", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	apiGroup := r.Group("/api")
	{
		apiGroup.GET("/ping", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{
				"code":    200,
				"message": "pong",
				"data":    nil,
			})
		})

		userGroup := apiGroup.Group("/users")
		{
			userGroup.GET("", group.UserHandler.GetAllUsers)
			userGroup.GET("/:clerk_id", group.UserHandler.GetUserInfo)
			userGroup.GET("/:clerk_id/questions", group.UserHandler.GetUserQuestions)
			userGroup.GET("/:clerk_id/answers", group.UserHandler.GetUserAnswers)
			userGroup.GET("/:clerk_id/tags", group.UserHandler.GetUserTopTags)

			authGroup := userGroup.Group("")
			authGroup.Use(auth)
			{
				authGroup.POST("/sync", group.UserHandler.SyncUser)
				authGroup.PUT("/me", group.UserHandler.UpdateMe)
				authGroup.DELETE("/me", group.UserHandler.DeleteMe)
			}
		}

		questionGroup := apiGroup.Group("/questions")
		{
			authOptGroup := questionGroup.Group("")
			authOptGroup.Use(authOpt)
			{
				authOptGroup.GET("", group.QuestionHandler.GetQuestions)
				authOptGroup.GET("/top", group.QuestionHandler.GetTopQuestions)
				authOptGroup.GET("/:id", group.QuestionHandler.GetQuestion)
				authOptGroup.POST("/:id/view", group.QuestionHandler.ViewQuestion)
				authOptGroup.GET("/:id/answers", group.QuestionHandler.GetAnswers)
			}

			authGroup := questionGroup.Group("")
			authGroup.Use(auth)
			{
				authGroup.GET("/recommended", group.QuestionHandler.GetRecommendedQuestions)
				authGroup.GET("/saved", group.QuestionHandler.GetSavedQuestions)
				authGroup.POST("", group.QuestionHandler.AskQuestion)
				authGroup.PUT("/:id", group.QuestionHandler.EditQuestion)
				authGroup.DELETE("/:id", group.QuestionHandler.DeleteQuestion)
				authGroup.POST("/:id/upvote", group.QuestionHandler.Upvote)
				authGroup.POST("/:id/downvote", group.QuestionHandler.Downvote)
				authGroup.POST("/:id/save", group.QuestionHandler.ToggleSave)
				authGroup.POST("/:id/answers", group.QuestionHandler.CreateAnswer)
			}
		}

		answerGroup := apiGroup.Group("/answers")
		answerGroup.Use(auth)
		{
			answerGroup.DELETE("/:id", group.AnswerHandler.DeleteAnswer)
			answerGroup.POST("/:id/upvote", group.AnswerHandler.Upvote)
			answerGroup.POST("/:id/downvote", group.AnswerHandler.Downvote)
		}

		tagGroup := apiGroup.Group("/tags")
		{
			tagGroup.GET("", group.TagHandler.GetAllTags)
			tagGroup.GET("/popular", group.TagHandler.GetPopularTags)
			tagGroup.GET("/:id/questions", group.TagHandler.GetQuestionsByTag)
			tagGroup.POST("/:id/follow", auth, group.TagHandler.ToggleFollow)
		}

		apiGroup.GET("/search", group.SearchHandler.GlobalSearch)
	}

	return r
}
