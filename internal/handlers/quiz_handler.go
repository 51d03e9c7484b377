package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/Gopher0727/Cario/internal/models"
	"github.com/Gopher0727/Cario/internal/services"
	logger "github.com/Gopher0727/Cario/middleware/log"
)

// QuizHandler 答题与聊天处理器
type QuizHandler struct {
	quizService *services.QuizService
	chatService *services.ChatService
	log         *logger.Logger
}

func NewQuizHandler(quizService *services.QuizService, chatService *services.ChatService, log *logger.Logger) *QuizHandler {
	if log == nil {
		log = logger.Nop()
	}
	return &QuizHandler{quizService: quizService, chatService: chatService, log: log.Named("quiz")}
}

// Types 可选的题目类型
func (h *QuizHandler) Types(c *gin.Context) {
	success(c, models.QuestionTypes)
}

// Questions ?type= 获取题目
func (h *QuizHandler) Questions(c *gin.Context) {
	questions, err := h.quizService.Questions(c.Request.Context(), c.Query("type"))
	if err != nil {
		fail(c, h.log, err)
		return
	}
	success(c, questions)
}

// Submit 提交答卷并返回分析
func (h *QuizHandler) Submit(c *gin.Context) {
	var req services.SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Dữ liệu không hợp lệ")
		return
	}
	res, err := h.quizService.Submit(c.Request.Context(), currentSession(c), req)
	if err != nil {
		fail(c, h.log, err)
		return
	}
	success(c, res)
}

// Result 会话中最近一次的结果
func (h *QuizHandler) Result(c *gin.Context) {
	success(c, services.LastResult(currentSession(c)))
}

// Chat 与聊天机器人对话
func (h *QuizHandler) Chat(c *gin.Context) {
	var req services.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Vui lòng nhập tin nhắn")
		return
	}
	reply, err := h.chatService.Send(c.Request.Context(), viewer(c), req)
	if err != nil {
		fail(c, h.log, err)
		return
	}
	success(c, gin.H{"reply": reply})
}
