package services

import (
	"context"
	"strings"

	"github.com/Gopher0727/Cario/internal/client"
	"github.com/Gopher0727/Cario/internal/community"
	"github.com/Gopher0727/Cario/internal/models"
	"github.com/Gopher0727/Cario/internal/normalize"
	"github.com/Gopher0727/Cario/utils/inflight"
)

// CommentService 评论服务
type CommentService struct {
	client   *client.Client
	norm     *normalize.Normalizer
	inflight *inflight.Guard
}

func NewCommentService(c *client.Client, norm *normalize.Normalizer, guard *inflight.Guard) *CommentService {
	if guard == nil {
		guard = &inflight.Guard{}
	}
	return &CommentService{client: c, norm: norm, inflight: guard}
}

// Comments 帖子下的评论（单层展开）
func (s *CommentService) Comments(ctx context.Context, postID string) ([]models.Comment, error) {
	raw, err := s.client.Comments(ctx, postID)
	if err != nil {
		return nil, err
	}
	return s.norm.Comments(raw).Items, nil
}

// Threads 按父评论分组的评论
func (s *CommentService) Threads(ctx context.Context, postID string) ([]models.CommentThread, error) {
	comments, err := s.Comments(ctx, postID)
	if err != nil {
		return nil, err
	}
	return community.Thread(comments), nil
}

// CommentRequest 新评论，ParentID 非空时为回复
type CommentRequest struct {
	Content  string `json:"content" validate:"notblank"`
	ParentID string `json:"parentId"`
}

// CreateComment 发表评论。返回的评论无法解析时为 nil
func (s *CommentService) CreateComment(ctx context.Context, viewer, postID string, req CommentRequest) (*models.Comment, error) {
	if err := check("CreateComment", req); err != nil {
		return nil, err
	}
	var created *models.Comment
	err := s.inflight.Run(viewer+":comment:"+postID, func() error {
		raw, err := s.client.CreateComment(ctx, client.CommentInput{
			PostID:   postID,
			Content:  strings.TrimSpace(req.Content),
			ParentID: req.ParentID,
		})
		if err != nil {
			return err
		}
		if res := s.norm.Comments(raw); len(res.Items) > 0 {
			created = &res.Items[0]
		}
		return nil
	})
	return created, err
}

func (s *CommentService) DeleteComment(ctx context.Context, viewer, id string) error {
	return s.inflight.Run(viewer+":delete-comment:"+id, func() error {
		return s.client.DeleteComment(ctx, id)
	})
}
