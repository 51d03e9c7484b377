package services

import (
	"context"
	"strings"

	"github.com/Gopher0727/Cario/internal/client"
	"github.com/Gopher0727/Cario/internal/models"
	"github.com/Gopher0727/Cario/internal/normalize"
	logger "github.com/Gopher0727/Cario/middleware/log"
	"github.com/Gopher0727/Cario/utils/inflight"
)

// ForumService 论坛帖子服务
type ForumService struct {
	client   *client.Client
	norm     *normalize.Normalizer
	log      *logger.Logger
	inflight *inflight.Guard
}

// NewForumService 创建论坛服务实例
func NewForumService(c *client.Client, norm *normalize.Normalizer, guard *inflight.Guard, log *logger.Logger) *ForumService {
	if log == nil {
		log = logger.Nop()
	}
	if guard == nil {
		guard = &inflight.Guard{}
	}
	return &ForumService{client: c, norm: norm, log: log.Named("forum"), inflight: guard}
}

// Posts 全部帖子；username 非空时只取该用户的帖子
func (s *ForumService) Posts(ctx context.Context, username string) ([]models.Post, error) {
	var (
		raw any
		err error
	)
	if username != "" {
		raw, err = s.client.PostsByUser(ctx, username)
	} else {
		raw, err = s.client.Posts(ctx)
	}
	if err != nil {
		return nil, err
	}
	return s.norm.Posts(raw).Items, nil
}

// Post 单个帖子
func (s *ForumService) Post(ctx context.Context, id string) (models.Post, error) {
	raw, err := s.client.Post(ctx, id)
	if err != nil {
		return models.Post{}, err
	}
	res := s.norm.Posts(raw)
	if len(res.Items) == 0 {
		return models.Post{}, &client.Error{Kind: client.KindPayload, Op: "Post", Code: client.CodeInvalidPayload, Message: "bài viết không hợp lệ"}
	}
	return res.Items[0], nil
}

// PostRequest 创建或编辑帖子
type PostRequest struct {
	Title   string `json:"title" validate:"notblank"`
	Content string `json:"content" validate:"notblank"`
	Type    string `json:"type"`
	GroupID int64  `json:"groupId"`
}

func (r PostRequest) input(id string) client.PostInput {
	return client.PostInput{
		ID:      id,
		Title:   strings.TrimSpace(r.Title),
		Content: strings.TrimSpace(r.Content),
		Type:    r.Type,
		GroupID: r.GroupID,
	}
}

// CreatePost 发帖。返回的帖子无法解析时为 nil，调用方应重新拉取列表
func (s *ForumService) CreatePost(ctx context.Context, viewer string, req PostRequest) (*models.Post, error) {
	if err := check("CreatePost", req); err != nil {
		return nil, err
	}
	var created *models.Post
	err := s.inflight.Run(viewer+":create-post", func() error {
		raw, err := s.client.CreatePost(ctx, req.input(""))
		if err != nil {
			return err
		}
		if res := s.norm.Posts(raw); len(res.Items) > 0 {
			created = &res.Items[0]
		}
		return nil
	})
	return created, err
}

// UpdatePost 编辑帖子
func (s *ForumService) UpdatePost(ctx context.Context, viewer, id string, req PostRequest) (*models.Post, error) {
	if err := check("UpdatePost", req); err != nil {
		return nil, err
	}
	var updated *models.Post
	err := s.inflight.Run(viewer+":update-post:"+id, func() error {
		raw, err := s.client.UpdatePost(ctx, req.input(id))
		if err != nil {
			return err
		}
		if res := s.norm.Posts(raw); len(res.Items) > 0 {
			updated = &res.Items[0]
		}
		return nil
	})
	return updated, err
}

func (s *ForumService) DeletePost(ctx context.Context, viewer, id string) error {
	return s.inflight.Run(viewer+":delete-post:"+id, func() error {
		return s.client.DeletePost(ctx, id)
	})
}

// ToggleLike 点赞/取消点赞
func (s *ForumService) ToggleLike(ctx context.Context, viewer, id string) error {
	return s.inflight.Run(viewer+":like:"+id, func() error {
		return s.client.ToggleLike(ctx, id)
	})
}
