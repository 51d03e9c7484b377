package client

import (
	"context"
	"net/http"
	"net/url"

	"github.com/Gopher0727/Cario/internal/models"
)

// Questions GET /api/question/get?type=
func (c *Client) Questions(ctx context.Context, qt models.QuestionType) (any, error) {
	q := url.Values{"type": {string(qt)}}
	return c.do(ctx, call{op: "Questions", method: http.MethodGet, path: "/api/question/get", query: q})
}

func questionBody(q models.Question) map[string]any {
	answers := make([]map[string]any, 0, len(q.Answers))
	for _, a := range q.Answers {
		ans := map[string]any{"content": a.Content}
		if a.ID != "" {
			ans["id"] = idValue(a.ID)
		}
		answers = append(answers, ans)
	}
	body := map[string]any{"content": q.Content, "type": string(q.Type), "answers": answers}
	if q.ID != "" {
		body["id"] = idValue(q.ID)
	}
	return body
}

func (c *Client) CreateQuestion(ctx context.Context, q models.Question) (any, error) {
	return c.do(ctx, call{op: "CreateQuestion", method: http.MethodPost, path: "/api/question/create", body: questionBody(q)})
}

func (c *Client) UpdateQuestion(ctx context.Context, q models.Question) (any, error) {
	return c.do(ctx, call{op: "UpdateQuestion", method: http.MethodPut, path: "/api/question/update", body: questionBody(q)})
}

func (c *Client) DeleteQuestion(ctx context.Context, id string) error {
	_, err := c.do(ctx, call{op: "DeleteQuestion", method: http.MethodDelete, path: "/api/question/delete/" + url.PathEscape(id)})
	return err
}
