package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/Gopher0727/Cario/config"
	"github.com/Gopher0727/Cario/internal/client"
	"github.com/Gopher0727/Cario/internal/models"
	"github.com/Gopher0727/Cario/internal/normalize"
	logger "github.com/Gopher0727/Cario/middleware/log"
	"github.com/Gopher0727/Cario/utils/inflight"
	"github.com/Gopher0727/Cario/utils/latest"
)

// fakeBackend 用 gin 模拟主 API、聊天机器人与分析服务
func fakeBackend(t *testing.T, setup func(r *gin.Engine)) *client.Client {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	setup(r)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	return client.New(config.BackendConfig{
		BaseURL:     srv.URL,
		ChatbotURL:  srv.URL + "/bot",
		AnalysisURL: srv.URL + "/ai",
		Timeout:     5 * time.Second,
	}, nil)
}

func newNormalizer() *normalize.Normalizer {
	return normalize.New(nil, normalize.Options{})
}

func TestCommunity_GroupsMerged(t *testing.T) {
	c := fakeBackend(t, func(r *gin.Engine) {
		r.GET("/group/get/all", func(c *gin.Context) {
			c.JSON(http.StatusOK, []gin.H{{"id": 1, "name": "A"}, {"id": 2, "name": "B"}})
		})
		r.GET("/group/get/by-user", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"groups": []gin.H{{"id": 1, "name": "A", "userRole": "admin"}}})
		})
	})
	svc := NewCommunityService(c, newNormalizer(), nil, nil)

	groups, err := svc.Groups(context.Background(), "an")
	require.NoError(t, err)
	require.Len(t, groups, 2)
	assert.Equal(t, int64(1), groups[0].ID)
	assert.Equal(t, models.RoleAdmin, groups[0].UserRole)
	assert.Equal(t, models.RoleNone, groups[1].UserRole)
}

func TestCommunity_GroupsPartialFailure(t *testing.T) {
	var userCalls atomic.Int32
	var failAll atomic.Bool
	c := fakeBackend(t, func(r *gin.Engine) {
		r.GET("/group/get/all", func(c *gin.Context) {
			if failAll.Load() {
				c.Status(http.StatusInternalServerError)
				return
			}
			c.JSON(http.StatusOK, []gin.H{{"id": 1, "name": "A"}})
		})
		r.GET("/group/get/by-user", func(c *gin.Context) {
			userCalls.Add(1)
			c.Status(http.StatusInternalServerError)
		})
	})
	svc := NewCommunityService(c, newNormalizer(), nil, nil)
	ctx := context.Background()

	groups, err := svc.Groups(ctx, "an")
	require.NoError(t, err, "one failing source is tolerated")
	assert.Len(t, groups, 1)

	_, err = svc.Groups(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, int32(1), userCalls.Load(), "anonymous viewers skip the user fetch")

	failAll.Store(true)
	_, err = svc.Groups(ctx, "an")
	require.Error(t, err)
	assert.Equal(t, client.CodeServerError, client.CodeOf(err))
}

func TestCommunity_SearchSuperseded(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	c := fakeBackend(t, func(r *gin.Engine) {
		r.GET("/group/get/all", func(c *gin.Context) {
			if c.Query("name") == "slow" {
				close(started)
				select {
				case <-release:
				case <-c.Request.Context().Done():
				}
			}
			c.JSON(http.StatusOK, []gin.H{{"id": 1, "name": c.Query("name")}})
		})
	})
	defer close(release)
	svc := NewCommunityService(c, newNormalizer(), nil, nil)

	errc := make(chan error, 1)
	go func() {
		_, err := svc.SearchGroups(context.Background(), "s1", "slow", "")
		errc <- err
	}()
	<-started

	groups, err := svc.SearchGroups(context.Background(), "s1", "fast", "")
	require.NoError(t, err)
	require.Len(t, groups, 1)
	assert.Equal(t, "fast", groups[0].Name)

	err = <-errc
	assert.ErrorIs(t, err, latest.ErrSuperseded)
	assert.Equal(t, client.CodeSuperseded, client.CodeOf(err))
}

func TestCommunity_GatedGroupPosts(t *testing.T) {
	c := fakeBackend(t, func(r *gin.Engine) {
		r.GET("/group/get/all", func(c *gin.Context) {
			c.JSON(http.StatusOK, []gin.H{
				{"id": 1, "name": "Open", "userRole": "member"},
				{"id": 2, "name": "Closed"},
			})
		})
		r.GET("/group/get/by-user", func(c *gin.Context) { c.JSON(http.StatusOK, []gin.H{}) })
		r.GET("/api/posts/get/by-group", func(c *gin.Context) {
			c.JSON(http.StatusOK, []gin.H{{"id": 7, "title": "Hi", "content": "x"}})
		})
	})
	svc := NewCommunityService(c, newNormalizer(), nil, nil)
	ctx := context.Background()

	posts, perms, err := svc.GatedGroupPosts(ctx, "an", 1, client.PostQuery{})
	require.NoError(t, err)
	assert.Len(t, posts, 1)
	assert.True(t, perms.CanPost)
	assert.False(t, perms.CanManage)

	_, perms, err = svc.GatedGroupPosts(ctx, "an", 2, client.PostQuery{})
	assert.Equal(t, client.CodeJoinRequired, client.CodeOf(err))
	assert.False(t, perms.CanView)
	assert.Equal(t, http.StatusForbidden, client.HTTPStatus(err))

	posts, _, err = svc.GatedGroupPosts(ctx, "an", 99, client.PostQuery{})
	require.NoError(t, err, "unknown groups are not gated")
	assert.Len(t, posts, 1)
}

func TestCommunity_ValidationBeforeRequest(t *testing.T) {
	var calls atomic.Int32
	c := fakeBackend(t, func(r *gin.Engine) {
		r.Use(func(c *gin.Context) { calls.Add(1) })
	})
	svc := NewCommunityService(c, newNormalizer(), nil, nil)
	ctx := context.Background()

	_, err := svc.CreateGroup(ctx, "an", CreateGroupRequest{Name: "   "})
	assert.Equal(t, "Vui lòng nhập tên nhóm", client.Message(err))

	err = svc.CreateGroupPost(ctx, "an", 1, GroupPostRequest{Title: "t", Content: " "})
	assert.Equal(t, "Vui lòng nhập nội dung", client.Message(err))

	err = svc.UpdateMemberRole(ctx, "an", MemberRoleRequest{GroupID: 1, UserID: 2, Role: "king"})
	assert.Equal(t, "Vai trò không hợp lệ", client.Message(err))

	assert.Zero(t, calls.Load())
}

func TestCommunity_CreateGroup(t *testing.T) {
	c := fakeBackend(t, func(r *gin.Engine) {
		r.POST("/group/create", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"id": 5, "name": "Go", "countUserJoin": 1})
		})
	})
	svc := NewCommunityService(c, newNormalizer(), nil, nil)

	g, err := svc.CreateGroup(context.Background(), "an", CreateGroupRequest{Name: " Go "})
	require.NoError(t, err)
	require.NotNil(t, g)
	assert.Equal(t, int64(5), g.ID)
	assert.Equal(t, models.RoleOwner, g.UserRole)
}

func TestCommunity_JoinBusy(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})
	c := fakeBackend(t, func(r *gin.Engine) {
		r.POST("/api/group-member/join/:id", func(c *gin.Context) {
			close(entered)
			<-release
			c.Status(http.StatusOK)
		})
	})
	guard := &inflight.Guard{}
	svc := NewCommunityService(c, newNormalizer(), guard, nil)

	errc := make(chan error, 1)
	go func() { errc <- svc.JoinGroup(context.Background(), "an", 3) }()
	<-entered

	err := svc.JoinGroup(context.Background(), "an", 3)
	assert.ErrorIs(t, err, inflight.ErrBusy)
	assert.Equal(t, http.StatusConflict, client.HTTPStatus(err))

	close(release)
	require.NoError(t, <-errc)
	assert.False(t, guard.Busy("an:join:3"))
}

func TestCommunity_Members(t *testing.T) {
	c := fakeBackend(t, func(r *gin.Engine) {
		r.GET("/api/group-member/get/by-group", func(c *gin.Context) {
			c.JSON(http.StatusOK, []gin.H{{"userId": 4, "username": "binh", "role": "ADMIN"}})
		})
		r.PUT("/api/group-member/update/role", func(c *gin.Context) { c.Status(http.StatusOK) })
	})
	svc := NewCommunityService(c, newNormalizer(), nil, nil)

	members, err := svc.Members(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, members, 1)
	assert.Equal(t, "binh", members[0].Username)
	assert.Equal(t, models.RoleAdmin, members[0].Role)

	require.NoError(t, svc.UpdateMemberRole(context.Background(), "an", MemberRoleRequest{GroupID: 1, UserID: 4, Role: "MEMBER"}))
}

func TestCommunity_GroupsReportsBadPayloads(t *testing.T) {
	c := fakeBackend(t, func(r *gin.Engine) {
		r.GET("/group/get/all", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"groups": "broken"})
		})
		r.GET("/group/get/by-user", func(c *gin.Context) {
			c.JSON(http.StatusOK, []gin.H{{"id": "abc"}, {"id": 3, "name": "C"}})
		})
	})
	core, logs := observer.New(zapcore.WarnLevel)
	norm := normalize.New(&logger.Logger{Logger: zap.New(core)}, normalize.Options{})
	svc := NewCommunityService(c, norm, nil, nil)

	groups, err := svc.Groups(context.Background(), "an")
	require.NoError(t, err)
	require.Len(t, groups, 1)
	assert.Equal(t, int64(3), groups[0].ID)

	assert.Equal(t, 1, logs.FilterMessage("unrecognized payload shape, treating as empty").Len())
	dropped := logs.FilterMessage("dropped records during normalization").All()
	require.Len(t, dropped, 1)
	fields := dropped[0].ContextMap()
	assert.Equal(t, "user group", fields["kind"])
	assert.EqualValues(t, 1, fields["dropped"])
	assert.EqualValues(t, 2, fields["total"])
}

func TestCommunity_CreateGroupPostRequiresRole(t *testing.T) {
	var creates atomic.Int32
	c := fakeBackend(t, func(r *gin.Engine) {
		r.GET("/group/get/all", func(c *gin.Context) {
			c.JSON(http.StatusOK, []gin.H{
				{"id": 1, "name": "Open", "userRole": "member"},
				{"id": 7, "name": "Closed"},
			})
		})
		r.GET("/group/get/by-user", func(c *gin.Context) { c.JSON(http.StatusOK, []gin.H{}) })
		r.POST("/api/posts/create", func(c *gin.Context) {
			creates.Add(1)
			c.Status(http.StatusOK)
		})
	})
	svc := NewCommunityService(c, newNormalizer(), nil, nil)
	ctx := context.Background()
	req := GroupPostRequest{Title: "t", Content: "c"}

	err := svc.CreateGroupPost(ctx, "an", 7, req)
	assert.Equal(t, client.CodeJoinRequired, client.CodeOf(err))
	assert.Equal(t, http.StatusForbidden, client.HTTPStatus(err))
	assert.Zero(t, creates.Load())

	require.NoError(t, svc.CreateGroupPost(ctx, "an", 1, req))
	require.NoError(t, svc.CreateGroupPost(ctx, "an", 99, req), "unknown groups are left to the backend")
	assert.Equal(t, int32(2), creates.Load())
}

func TestCommunity_DeleteGroupRequiresManage(t *testing.T) {
	var deletes atomic.Int32
	c := fakeBackend(t, func(r *gin.Engine) {
		r.GET("/group/get/all", func(c *gin.Context) {
			c.JSON(http.StatusOK, []gin.H{
				{"id": 1, "name": "Mine", "userRole": "owner"},
				{"id": 2, "name": "Theirs", "userRole": "member", "creator": "linh"},
			})
		})
		r.GET("/group/get/by-user", func(c *gin.Context) { c.JSON(http.StatusOK, []gin.H{}) })
		r.DELETE("/group/delete/:id", func(c *gin.Context) {
			deletes.Add(1)
			c.Status(http.StatusOK)
		})
	})
	svc := NewCommunityService(c, newNormalizer(), nil, nil)

	err := svc.DeleteGroup(context.Background(), "an", 2)
	assert.Equal(t, client.CodeForbidden, client.CodeOf(err))
	require.NoError(t, svc.DeleteGroup(context.Background(), "an", 1))
	assert.Equal(t, int32(1), deletes.Load())
}
