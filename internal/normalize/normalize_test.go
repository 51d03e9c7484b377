package normalize

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Gopher0727/Cario/internal/models"
)

func decode(t *testing.T, raw string) any {
	t.Helper()
	dec := json.NewDecoder(bytes.NewReader([]byte(raw)))
	dec.UseNumber()
	var v any
	require.NoError(t, dec.Decode(&v))
	return v
}

func TestRecords_Shapes(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		shape   Shape
		count   int
	}{
		{"bare array", `[{"id":1},{"id":2}]`, ShapeArray, 2},
		{"wrapped groups", `{"groups":[{"id":1}]}`, wrapped("groups"), 1},
		{"wrapped data", `{"data":[{"id":1}]}`, wrapped("data"), 1},
		{"data object holding groups", `{"data":{"groups":[{"id":1}]}}`, wrapped("groups"), 1},
		{"single object", `{"id":7,"name":"A"}`, ShapeSingle, 1},
		{"empty array", `[]`, ShapeEmpty, 0},
		{"empty object", `{}`, ShapeEmpty, 0},
		{"null", `null`, ShapeEmpty, 0},
		{"scalar", `"oops"`, ShapeUnknown, 0},
		{"wrapper key not a list", `{"groups":"none"}`, ShapeUnknown, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recs, shape, _ := Records(decode(t, tt.payload), "groups")
			assert.Equal(t, tt.shape, shape)
			assert.Len(t, recs, tt.count)
		})
	}
}

func TestRecords_SkipsNonObjects(t *testing.T) {
	recs, shape, skipped := Records(decode(t, `[{"id":1}, 3, "x", null]`))
	assert.Equal(t, ShapeArray, shape)
	assert.Len(t, recs, 1)
	assert.Equal(t, 3, skipped)
	assert.True(t, wrapped("posts").Wrapped())
	assert.False(t, ShapeArray.Wrapped())
}

func TestGroups_SameRecordAnyShape(t *testing.T) {
	n := New(nil, Options{})
	record := `{"id":1,"name":"A","description":"d","isPrivate":false,"userRole":"member","countUserJoin":3}`

	bare := n.Groups(decode(t, "["+record+"]"), "")
	inGroups := n.Groups(decode(t, `{"groups":[`+record+`]}`), "")
	inData := n.Groups(decode(t, `{"data":[`+record+`]}`), "")

	require.Len(t, bare.Items, 1)
	assert.Equal(t, bare.Items, inGroups.Items)
	assert.Equal(t, bare.Items, inData.Items)
	assert.Equal(t, int64(1), bare.Items[0].ID)
	assert.Equal(t, models.RoleMember, bare.Items[0].UserRole)
	assert.Equal(t, models.RoleFromServer, bare.Items[0].RoleSource)
}

func TestGroups_IDRules(t *testing.T) {
	n := New(nil, Options{})
	res := n.Groups(decode(t, `[
		{"id":"12","name":"numeric string"},
		{"_id":13,"name":"underscore"},
		{"groupId":" 14 ","name":"groupId padded"},
		{"id":"abc","name":"bad"},
		{"id":"","name":"blank"},
		{"id":1.5,"name":"fraction"},
		{"name":"missing"},
		{"id":"abc","_id":20,"name":"first present key decides"}
	]`), "")

	ids := make([]int64, 0, len(res.Items))
	for _, g := range res.Items {
		ids = append(ids, g.ID)
	}
	assert.Equal(t, []int64{12, 13, 14}, ids)
	assert.Equal(t, 5, res.Dropped)
}

func TestGroups_FieldFallbacks(t *testing.T) {
	n := New(nil, Options{})
	res := n.Groups(decode(t, `[{"id":3,"title":"T","desc":"D","private":1,"created_at":"2024-05-01T10:00:00Z","countUser":"9","creator":{"userName":"an"}}]`), "")
	require.Len(t, res.Items, 1)

	g := res.Items[0]
	assert.Equal(t, "T", g.Name)
	assert.Equal(t, "D", g.Description)
	assert.True(t, g.IsPrivate)
	assert.Equal(t, 9, g.CountUserJoin)
	assert.Equal(t, "an", g.Creator)
	assert.True(t, g.CreatedAt.Equal(time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)))
	assert.Equal(t, models.RoleNone, g.UserRole)
	assert.Equal(t, models.RoleFromNone, g.RoleSource)
}

func TestGroups_MissingCreatedAtStaysZero(t *testing.T) {
	res := New(nil, Options{}).Groups(decode(t, `[{"id":1,"name":"A"}]`), "")
	require.Len(t, res.Items, 1)
	assert.True(t, res.Items[0].CreatedAt.IsZero())
}

func TestGroups_NonNumericMembersCountIsZero(t *testing.T) {
	res := New(nil, Options{}).Groups(decode(t, `[{"id":1,"members":[{"id":1}]}]`), "")
	require.Len(t, res.Items, 1)
	assert.Equal(t, 0, res.Items[0].CountUserJoin)
}

func TestGroups_RoleInference(t *testing.T) {
	payload := `[
		{"id":1,"name":"mine","creator":{"username":"linh"}},
		{"id":2,"name":"theirs","createdBy":"other"},
		{"id":3,"name":"explicit","owner":"linh","userRole":"Owner"},
		{"id":4,"name":"null role","userRole":null,"role":"member"}
	]`

	t.Run("enabled", func(t *testing.T) {
		res := New(nil, Options{InferRoles: true}).Groups(decode(t, payload), "linh")
		require.Len(t, res.Items, 4)
		assert.Equal(t, models.RoleAdmin, res.Items[0].UserRole)
		assert.Equal(t, models.RoleFromInferred, res.Items[0].RoleSource)
		assert.Equal(t, models.RoleMember, res.Items[1].UserRole)
		assert.Equal(t, models.RoleOwner, res.Items[2].UserRole)
		assert.Equal(t, models.RoleFromServer, res.Items[2].RoleSource)
		assert.Equal(t, models.RoleMember, res.Items[3].UserRole)
	})

	t.Run("anonymous viewer never infers admin", func(t *testing.T) {
		res := New(nil, Options{InferRoles: true}).Groups(decode(t, `[{"id":1,"creator":""}]`), "")
		require.Len(t, res.Items, 1)
		assert.Equal(t, models.RoleMember, res.Items[0].UserRole)
	})

	t.Run("disabled", func(t *testing.T) {
		res := New(nil, Options{}).Groups(decode(t, payload), "linh")
		require.Len(t, res.Items, 4)
		assert.Equal(t, models.RoleNone, res.Items[0].UserRole)
		assert.Equal(t, models.RoleNone, res.Items[1].UserRole)
		assert.Equal(t, models.RoleOwner, res.Items[2].UserRole)
	})
}

func TestGroups_UnknownShapeIsEmpty(t *testing.T) {
	res := New(nil, Options{}).Groups(decode(t, `42`), "")
	assert.Empty(t, res.Items)
	assert.Equal(t, ShapeUnknown, res.Shape)
}

func TestPosts_BackendShape(t *testing.T) {
	res := New(nil, Options{}).Posts(decode(t, `[{
		"id": 10, "title": "Hello", "content": "World",
		"createdAt": "2024-05-01T10:30:00", "updatedAt": null,
		"userOfPost": {"id": 4, "username": "minh", "urlAvatar": "http://a/b.png"},
		"countLike": 3, "countComment": 2, "userIsLike": true
	}]`))
	require.Len(t, res.Items, 1)

	p := res.Items[0]
	assert.Equal(t, "10", p.ID)
	assert.Equal(t, "Hello", p.Title)
	assert.Equal(t, "minh", p.Author.Username)
	assert.Equal(t, "http://a/b.png", p.Author.AvatarURL)
	assert.Equal(t, 3, p.CountLike)
	assert.Equal(t, 2, p.CountComment)
	assert.True(t, p.UserIsLike)
	assert.Equal(t, 2024, p.CreatedAt.Year())
	assert.Equal(t, 30, p.CreatedAt.Minute())
	assert.Equal(t, p.CreatedAt, p.UpdatedAt)
	assert.Nil(t, p.Group)
}

func TestPosts_Fallbacks(t *testing.T) {
	res := New(nil, Options{}).Posts(decode(t, `{"posts":[
		{"_id":"p1","subject":"S","body":"B","timestamp":1714557600000,"authorName":"an","likes":[1,2],"likeCount":5,"comments":[{"id":1}],"isLiked":"true","group":{"id":"8","name":"G"}},
		{"postId":"p2","text":"T","user":{"fullName":"Full"},"groupId":9},
		{"title":"no id"},
		{"id":"p3"}
	]}`))
	require.Len(t, res.Items, 3)
	assert.Equal(t, 1, res.Dropped)

	p1 := res.Items[0]
	assert.Equal(t, "p1", p1.ID)
	assert.Equal(t, "S", p1.Title)
	assert.Equal(t, "B", p1.Content)
	assert.Equal(t, "an", p1.Author.Username)
	assert.Equal(t, 5, p1.CountLike)
	assert.Equal(t, 0, p1.CountComment)
	assert.True(t, p1.UserIsLike)
	assert.Equal(t, int64(1714557600), p1.CreatedAt.Unix())
	require.NotNil(t, p1.Group)
	assert.Equal(t, int64(8), p1.Group.ID)
	assert.Equal(t, "G", p1.Group.Name)

	p2 := res.Items[1]
	assert.Equal(t, "T", p2.Content)
	assert.Equal(t, "Full", p2.Author.Username)
	require.NotNil(t, p2.Group)
	assert.Equal(t, int64(9), p2.Group.ID)

	p3 := res.Items[2]
	assert.Equal(t, models.DefaultAuthor, p3.Author.Username)
	assert.True(t, p3.CreatedAt.IsZero())
}

func TestParseTime_LocalDateTimeArray(t *testing.T) {
	ts := parseTime(decode(t, `[2024,5,1,10,30,15,500]`))
	assert.Equal(t, 2024, ts.Year())
	assert.Equal(t, time.May, ts.Month())
	assert.Equal(t, 15, ts.Second())
	assert.Equal(t, 500, ts.Nanosecond())

	assert.True(t, parseTime(decode(t, `[2024]`)).IsZero())
	assert.True(t, parseTime("not a date").IsZero())
	assert.True(t, parseTime(decode(t, `-5`)).IsZero())
	assert.Equal(t, int64(1714557600), parseTime(decode(t, `1714557600`)).Unix())
}

func TestComments_FlattenChildren(t *testing.T) {
	res := New(nil, Options{}).Comments(decode(t, `[
		{"id":1,"content":"root","user":{"username":"a"},"commentsChildren":[
			{"id":2,"content":"reply","user":{"username":"b"},"commentsChildren":[
				{"id":3,"content":"deep"}
			]},
			{"content":"no id"}
		]},
		{"id":4,"content":"with prent","prentId":1},
		{"id":5,"content":"with parent object","parent":{"id":"1"}}
	]`))

	require.Len(t, res.Items, 5)
	assert.Equal(t, 1, res.Dropped)

	byID := map[string]models.Comment{}
	for _, c := range res.Items {
		byID[c.ID] = c
	}
	assert.Empty(t, byID["1"].ParentID)
	assert.Equal(t, "1", byID["2"].ParentID)
	assert.Equal(t, "1", byID["3"].ParentID)
	assert.Equal(t, "1", byID["4"].ParentID)
	assert.Equal(t, "1", byID["5"].ParentID)
	assert.Equal(t, "a", byID["1"].Author.Username)
	assert.Equal(t, models.DefaultAuthor, byID["3"].Author.Username)
}

func TestMembers(t *testing.T) {
	res := New(nil, Options{}).Members(decode(t, `[
		{"groupMember":{"id":7,"username":"an","urlAvatar":"x"},"joinAt":"2024-01-02T03:04:05","status":"ACTIVE","userRole":"ADMIN"},
		{"userId":"8","username":"binh","role":"member"},
		{"groupMember":{"id":9}}
	]`))
	require.Len(t, res.Items, 2)
	assert.Equal(t, 1, res.Dropped)

	assert.Equal(t, int64(7), res.Items[0].UserID)
	assert.Equal(t, "an", res.Items[0].Username)
	assert.Equal(t, models.RoleAdmin, res.Items[0].Role)
	assert.Equal(t, "ACTIVE", res.Items[0].Status)
	assert.Equal(t, 2024, res.Items[0].JoinedAt.Year())

	assert.Equal(t, int64(8), res.Items[1].UserID)
	assert.Equal(t, models.RoleMember, res.Items[1].Role)
}

func TestQuestions(t *testing.T) {
	n := New(nil, Options{})

	t.Run("accepted shapes", func(t *testing.T) {
		for _, payload := range []string{
			`[{"id":1,"content":"Q?","type":"science","answers":[{"id":11,"content":"A"},"B"]}]`,
			`{"questions":[{"id":1,"content":"Q?","type":"science","answers":[{"id":11,"content":"A"},"B"]}]}`,
			`{"data":[{"id":1,"content":"Q?","type":"SCIENCE","answers":[{"id":11,"content":"A"},"B"]}]}`,
		} {
			qs, err := n.Questions(decode(t, payload))
			require.NoError(t, err)
			require.Len(t, qs, 1)
			assert.Equal(t, "1", qs[0].ID)
			assert.Equal(t, models.QuestionScience, qs[0].Type)
			require.Len(t, qs[0].Answers, 2)
			assert.Equal(t, "11", qs[0].Answers[0].ID)
			assert.Equal(t, "B", qs[0].Answers[1].Content)
		}
	})

	t.Run("unknown shape is an error", func(t *testing.T) {
		_, err := n.Questions(decode(t, `{"id":1,"content":"single"}`))
		assert.ErrorIs(t, err, ErrUnexpectedShape)
		_, err = n.Questions(decode(t, `"text"`))
		assert.ErrorIs(t, err, ErrUnexpectedShape)
	})

	t.Run("blank content dropped", func(t *testing.T) {
		qs, err := n.Questions(decode(t, `[{"id":1,"content":"  "},{"id":2,"content":"ok"}]`))
		require.NoError(t, err)
		require.Len(t, qs, 1)
		assert.Equal(t, "2", qs[0].ID)
	})
}

func TestParseGroupID(t *testing.T) {
	tests := []struct {
		in   any
		want int64
		ok   bool
	}{
		{json.Number("42"), 42, true},
		{json.Number("42.0"), 42, true},
		{json.Number("4.2"), 0, false},
		{float64(7), 7, true},
		{"  19 ", 19, true},
		{"1e3", 1000, true},
		{"NaN", 0, false},
		{"Infinity", 0, false},
		{true, 0, false},
		{map[string]any{}, 0, false},
		{3, 3, true},
	}
	for _, tt := range tests {
		got, ok := ParseGroupID(tt.in)
		assert.Equal(t, tt.ok, ok, "%v", tt.in)
		assert.Equal(t, tt.want, got, "%v", tt.in)
	}
}
