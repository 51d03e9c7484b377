package services

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/Gopher0727/Cario/internal/client"
	"github.com/Gopher0727/Cario/internal/models"
	"github.com/Gopher0727/Cario/internal/normalize"
	"github.com/Gopher0727/Cario/internal/session"
	logger "github.com/Gopher0727/Cario/middleware/log"
)

// QuizService 答题与结果分析
type QuizService struct {
	client *client.Client
	norm   *normalize.Normalizer
	store  session.Store
	log    *logger.Logger
}

func NewQuizService(c *client.Client, norm *normalize.Normalizer, store session.Store, log *logger.Logger) *QuizService {
	if log == nil {
		log = logger.Nop()
	}
	return &QuizService{client: c, norm: norm, store: store, log: log.Named("quiz")}
}

func parseQuestionType(op, raw string) (models.QuestionType, error) {
	if strings.TrimSpace(raw) == "" {
		return "", client.ValidationError(op, "Vui lòng chọn loại câu hỏi")
	}
	qt := models.QuestionType(strings.ToLower(strings.TrimSpace(raw)))
	if !qt.Valid() {
		return "", client.ValidationError(op, "Loại câu hỏi không hợp lệ")
	}
	return qt, nil
}

// Questions 按类型获取题目，响应结构无法识别时报错
func (s *QuizService) Questions(ctx context.Context, questionType string) ([]models.Question, error) {
	qt, err := parseQuestionType("Questions", questionType)
	if err != nil {
		return nil, err
	}
	raw, err := s.client.Questions(ctx, qt)
	if err != nil {
		return nil, err
	}
	questions, err := s.norm.Questions(raw)
	if errors.Is(err, normalize.ErrUnexpectedShape) {
		return nil, &client.Error{Kind: client.KindPayload, Op: "Questions", Code: client.CodeInvalidPayload, Message: "Cấu trúc response không hợp lệ", Err: err}
	}
	return questions, err
}

// BuildItems 把选中的答案 ID 转成分析请求的条目，未作答的题目记为 "Chưa trả lời"
func BuildItems(questions []models.Question, answers map[string]string) []models.QuizItem {
	items := make([]models.QuizItem, 0, len(questions))
	for _, q := range questions {
		answer := models.Unanswered
		if selected, ok := answers[q.ID]; ok {
			for _, a := range q.Answers {
				if a.ID == selected {
					answer = a.Content
					break
				}
			}
		}
		items = append(items, models.QuizItem{Question: q.Content, Answer: answer})
	}
	return items
}

// SubmitRequest 提交答卷，answers 为 题目ID -> 答案ID
type SubmitRequest struct {
	Type    string            `json:"type"`
	Answers map[string]string `json:"answers"`
}

// QuizResult 分析结果
type QuizResult struct {
	Items    []models.QuizItem `json:"items"`
	Analysis string            `json:"analysis"`
}

// Submit 重新获取题目，组装答卷，保存到会话后请求分析
func (s *QuizService) Submit(ctx context.Context, sess *session.Session, req SubmitRequest) (*QuizResult, error) {
	questions, err := s.Questions(ctx, req.Type)
	if err != nil {
		return nil, err
	}
	if len(questions) == 0 {
		return nil, client.ValidationError("Submit", "Không có câu hỏi cho loại này")
	}
	items := BuildItems(questions, req.Answers)

	if sess != nil {
		sess.QuizResults = items
		sess.Analysis = ""
		if err := s.store.Save(ctx, sess); err != nil {
			s.log.WarnContext(ctx, "failed to store quiz results", zap.Error(err))
		}
	}

	analysis, err := s.client.Analyze(ctx, items)
	if err != nil {
		return nil, err
	}
	if sess != nil {
		sess.Analysis = analysis
		if err := s.store.Save(ctx, sess); err != nil {
			s.log.WarnContext(ctx, "failed to store quiz analysis", zap.Error(err))
		}
	}
	return &QuizResult{Items: items, Analysis: analysis}, nil
}

// LastResult 会话中最近一次的答题结果
func LastResult(sess *session.Session) *QuizResult {
	if sess == nil || len(sess.QuizResults) == 0 {
		return nil
	}
	return &QuizResult{Items: sess.QuizResults, Analysis: sess.Analysis}
}
