package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/Gopher0727/Cario/internal/client"
	"github.com/Gopher0727/Cario/internal/models"
	"github.com/Gopher0727/Cario/utils/inflight"
)

// AdminService 管理后台：题库与群组状态
type AdminService struct {
	client   *client.Client
	quiz     *QuizService
	inflight *inflight.Guard
}

func NewAdminService(c *client.Client, quiz *QuizService, guard *inflight.Guard) *AdminService {
	if guard == nil {
		guard = &inflight.Guard{}
	}
	return &AdminService{client: c, quiz: quiz, inflight: guard}
}

// QuestionRequest 新建或编辑题目，固定 4 个选项
type QuestionRequest struct {
	Content   string   `json:"content" validate:"notblank"`
	Type      string   `json:"type" validate:"required,oneof=science stone fantasy ordinary"`
	Answers   []string `json:"answers" validate:"len=4,dive,notblank"`
	AnswerIDs []string `json:"answerIds"` // 编辑时与 Answers 一一对应
}

func (r QuestionRequest) question(id string) models.Question {
	q := models.Question{ID: id, Content: strings.TrimSpace(r.Content), Type: models.QuestionType(r.Type)}
	for i, content := range r.Answers {
		a := models.Answer{Content: strings.TrimSpace(content)}
		if i < len(r.AnswerIDs) {
			a.ID = r.AnswerIDs[i]
		}
		q.Answers = append(q.Answers, a)
	}
	return q
}

func (s *AdminService) Questions(ctx context.Context, questionType string) ([]models.Question, error) {
	return s.quiz.Questions(ctx, questionType)
}

func (s *AdminService) CreateQuestion(ctx context.Context, req QuestionRequest) error {
	req.Type = strings.ToLower(strings.TrimSpace(req.Type))
	if err := check("CreateQuestion", req); err != nil {
		return err
	}
	return s.inflight.Run("admin:create-question", func() error {
		_, err := s.client.CreateQuestion(ctx, req.question(""))
		return err
	})
}

func (s *AdminService) UpdateQuestion(ctx context.Context, id string, req QuestionRequest) error {
	req.Type = strings.ToLower(strings.TrimSpace(req.Type))
	if err := check("UpdateQuestion", req); err != nil {
		return err
	}
	return s.inflight.Run("admin:update-question:"+id, func() error {
		_, err := s.client.UpdateQuestion(ctx, req.question(id))
		return err
	})
}

func (s *AdminService) DeleteQuestion(ctx context.Context, id string) error {
	return s.inflight.Run("admin:delete-question:"+id, func() error {
		return s.client.DeleteQuestion(ctx, id)
	})
}

// GroupStatusRequest 修改群组状态或可见性
type GroupStatusRequest struct {
	Status    string `json:"status" validate:"notblank"`
	IsPrivate *bool  `json:"isPrivate"`
}

func (s *AdminService) UpdateGroupStatus(ctx context.Context, id int64, req GroupStatusRequest) error {
	if err := check("UpdateGroupStatus", req); err != nil {
		return err
	}
	return s.inflight.Run(fmt.Sprintf("admin:group-status:%d", id), func() error {
		_, err := s.client.UpdateGroup(ctx, client.GroupUpdate{ID: id, Status: strings.TrimSpace(req.Status), IsPrivate: req.IsPrivate})
		return err
	})
}
