package services

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Gopher0727/Cario/internal/client"
	"github.com/Gopher0727/Cario/internal/models"
	"github.com/Gopher0727/Cario/internal/session"
)

func questionsPayload() []gin.H {
	return []gin.H{
		{"id": 1, "content": "Bạn thích gì?", "type": "science", "answers": []gin.H{
			{"id": 10, "content": "Toán"}, {"id": 11, "content": "Văn"},
		}},
		{"id": 2, "content": "Bạn giỏi gì?", "type": "science", "answers": []gin.H{
			{"id": 20, "content": "Vẽ"},
		}},
	}
}

func TestQuiz_Questions(t *testing.T) {
	c := fakeBackend(t, func(r *gin.Engine) {
		r.GET("/api/question/get", func(c *gin.Context) {
			if c.Query("type") == "stone" {
				c.JSON(http.StatusOK, gin.H{"unexpected": true})
				return
			}
			c.JSON(http.StatusOK, questionsPayload())
		})
	})
	svc := NewQuizService(c, newNormalizer(), session.NewMemoryStore(), nil)
	ctx := context.Background()

	qs, err := svc.Questions(ctx, "Science")
	require.NoError(t, err)
	require.Len(t, qs, 2)
	assert.Equal(t, "1", qs[0].ID)
	assert.Len(t, qs[0].Answers, 2)

	_, err = svc.Questions(ctx, "stone")
	assert.Equal(t, client.CodeInvalidPayload, client.CodeOf(err))

	_, err = svc.Questions(ctx, "history")
	assert.Equal(t, "Loại câu hỏi không hợp lệ", client.Message(err))

	_, err = svc.Questions(ctx, "")
	assert.Equal(t, "Vui lòng chọn loại câu hỏi", client.Message(err))
}

func TestBuildItems(t *testing.T) {
	qs := []models.Question{
		{ID: "1", Content: "Q1", Answers: []models.Answer{{ID: "10", Content: "A"}, {ID: "11", Content: "B"}}},
		{ID: "2", Content: "Q2", Answers: []models.Answer{{ID: "20", Content: "C"}}},
		{ID: "3", Content: "Q3", Answers: []models.Answer{{ID: "30", Content: "D"}}},
	}
	items := BuildItems(qs, map[string]string{"1": "11", "3": "99"})
	assert.Equal(t, []models.QuizItem{
		{Question: "Q1", Answer: "B"},
		{Question: "Q2", Answer: models.Unanswered},
		{Question: "Q3", Answer: models.Unanswered},
	}, items)
}

func TestQuiz_Submit(t *testing.T) {
	c := fakeBackend(t, func(r *gin.Engine) {
		r.GET("/api/question/get", func(c *gin.Context) { c.JSON(http.StatusOK, questionsPayload()) })
		r.POST("/ai/analyze-answers", func(c *gin.Context) {
			var body struct {
				Items []models.QuizItem `json:"items"`
			}
			_ = c.ShouldBindJSON(&body)
			if len(body.Items) != 2 || body.Items[1].Answer != models.Unanswered {
				c.Status(http.StatusBadRequest)
				return
			}
			c.String(http.StatusOK, `"Bạn phù hợp với ngành kỹ thuật"`)
		})
	})
	store := session.NewMemoryStore()
	svc := NewQuizService(c, newNormalizer(), store, nil)
	ctx := context.Background()

	sess := &session.Session{ID: "s", Username: "an", ExpiresAt: time.Now().Add(time.Hour)}
	require.NoError(t, store.Save(ctx, sess))

	res, err := svc.Submit(ctx, sess, SubmitRequest{Type: "science", Answers: map[string]string{"1": "10"}})
	require.NoError(t, err)
	assert.Equal(t, "Bạn phù hợp với ngành kỹ thuật", res.Analysis)
	assert.Equal(t, "Toán", res.Items[0].Answer)

	stored, err := store.Get(ctx, "s")
	require.NoError(t, err)
	assert.Equal(t, res.Items, stored.QuizResults)
	assert.Equal(t, res.Analysis, stored.Analysis)
	assert.Equal(t, res, LastResult(stored))
	assert.Nil(t, LastResult(nil))
}

func TestChat_Send(t *testing.T) {
	c := fakeBackend(t, func(r *gin.Engine) {
		r.POST("/bot/query", func(c *gin.Context) {
			var body map[string]string
			_ = c.ShouldBindJSON(&body)
			c.JSON(http.StatusOK, gin.H{"response": "xin chào " + body["user_id"]})
		})
	})
	svc := NewChatService(c)

	reply, err := svc.Send(context.Background(), "", ChatRequest{Message: "hi"})
	require.NoError(t, err)
	assert.Equal(t, "xin chào anonymous", reply)

	reply, err = svc.Send(context.Background(), "an", ChatRequest{Message: "hi"})
	require.NoError(t, err)
	assert.Equal(t, "xin chào an", reply)

	_, err = svc.Send(context.Background(), "an", ChatRequest{Message: "  "})
	assert.Equal(t, "Vui lòng nhập tin nhắn", client.Message(err))
}

func TestAdmin_QuestionValidation(t *testing.T) {
	svc := NewAdminService(nil, nil, nil)
	ctx := context.Background()
	four := []string{"a", "b", "c", "d"}

	err := svc.CreateQuestion(ctx, QuestionRequest{Content: " ", Type: "science", Answers: four})
	assert.Equal(t, "Vui lòng nhập câu hỏi", client.Message(err))

	err = svc.CreateQuestion(ctx, QuestionRequest{Content: "Q", Type: "science", Answers: four[:3]})
	assert.Equal(t, "Vui lòng nhập đầy đủ 4 lựa chọn", client.Message(err))

	err = svc.CreateQuestion(ctx, QuestionRequest{Content: "Q", Type: "science", Answers: []string{"a", "", "c", "d"}})
	assert.Equal(t, "Vui lòng nhập đầy đủ 4 lựa chọn", client.Message(err))

	err = svc.UpdateQuestion(ctx, "1", QuestionRequest{Content: "Q", Type: "poetry", Answers: four})
	assert.Equal(t, "Loại câu hỏi không hợp lệ", client.Message(err))

	err = svc.UpdateGroupStatus(ctx, 1, GroupStatusRequest{})
	assert.Equal(t, "Vui lòng chọn trạng thái", client.Message(err))
}

func TestAdmin_UpdateQuestion(t *testing.T) {
	var got map[string]any
	c := fakeBackend(t, func(r *gin.Engine) {
		r.PUT("/api/question/update", func(c *gin.Context) {
			_ = c.ShouldBindJSON(&got)
			c.Status(http.StatusOK)
		})
	})
	svc := NewAdminService(c, nil, nil)

	err := svc.UpdateQuestion(context.Background(), "5", QuestionRequest{
		Content: "Q", Type: "Fantasy",
		Answers: []string{"a", "b", "c", "d"}, AnswerIDs: []string{"1", "2", "3", "4"},
	})
	require.NoError(t, err)
	assert.EqualValues(t, 5, got["id"])
	assert.Equal(t, "fantasy", got["type"])
	assert.Len(t, got["answers"], 4)
}

func TestForum_PostsAndLike(t *testing.T) {
	c := fakeBackend(t, func(r *gin.Engine) {
		r.GET("/api/posts/get", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"success": true, "data": []gin.H{
				{"id": 1, "title": "A", "content": "x", "countLike": 2},
				{"title": "no id"},
			}})
		})
		r.GET("/api/posts/get/by-user", func(c *gin.Context) {
			c.JSON(http.StatusOK, []gin.H{{"id": 9, "title": c.Query("username")}})
		})
		r.PUT("/api/like", func(c *gin.Context) { c.Status(http.StatusOK) })
		r.POST("/api/posts/create", func(c *gin.Context) { c.String(http.StatusOK, "created") })
	})
	svc := NewForumService(c, newNormalizer(), nil, nil)
	ctx := context.Background()

	posts, err := svc.Posts(ctx, "")
	require.NoError(t, err)
	require.Len(t, posts, 1, "records without an id are dropped")
	assert.Equal(t, 2, posts[0].CountLike)

	mine, err := svc.Posts(ctx, "an")
	require.NoError(t, err)
	assert.Equal(t, "an", mine[0].Title)

	require.NoError(t, svc.ToggleLike(ctx, "an", "1"))

	created, err := svc.CreatePost(ctx, "an", PostRequest{Title: "T", Content: "C"})
	require.NoError(t, err)
	assert.Nil(t, created, "non-JSON reply means the caller re-fetches")

	_, err = svc.CreatePost(ctx, "an", PostRequest{Title: "", Content: "C"})
	assert.Equal(t, "Vui lòng nhập tiêu đề", client.Message(err))
}

func TestComments_Threads(t *testing.T) {
	c := fakeBackend(t, func(r *gin.Engine) {
		r.GET("/api/comment/get/by-posts/:id", func(c *gin.Context) {
			c.JSON(http.StatusOK, []gin.H{
				{"id": 1, "content": "root", "commentsChildren": []gin.H{{"id": 2, "content": "reply"}}},
				{"id": 3, "content": "second"},
			})
		})
		r.POST("/api/comment/create", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"id": 4, "content": "new", "parentId": 1})
		})
	})
	svc := NewCommentService(c, newNormalizer(), nil)
	ctx := context.Background()

	threads, err := svc.Threads(ctx, "7")
	require.NoError(t, err)
	require.Len(t, threads, 2)
	assert.Equal(t, "1", threads[0].ID)
	require.Len(t, threads[0].Replies, 1)
	assert.Equal(t, "2", threads[0].Replies[0].ID)

	created, err := svc.CreateComment(ctx, "an", "7", CommentRequest{Content: "new", ParentID: "1"})
	require.NoError(t, err)
	require.NotNil(t, created)
	assert.Equal(t, "1", created.ParentID)

	_, err = svc.CreateComment(ctx, "an", "7", CommentRequest{Content: " "})
	assert.Equal(t, "Vui lòng nhập nội dung", client.Message(err))
}
