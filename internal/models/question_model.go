package models

import "slices"

// QuestionType 测验类型
type QuestionType string

const (
	QuestionScience  QuestionType = "science"
	QuestionStone    QuestionType = "stone"
	QuestionFantasy  QuestionType = "fantasy"
	QuestionOrdinary QuestionType = "ordinary"
)

// QuestionTypes 所有合法的测验类型
var QuestionTypes = []QuestionType{QuestionScience, QuestionStone, QuestionFantasy, QuestionOrdinary}

func (t QuestionType) Valid() bool {
	return slices.Contains(QuestionTypes, t)
}

type Answer struct {
	ID      string `json:"id,omitempty"`
	Content string `json:"content"`
}

type Question struct {
	ID      string       `json:"id,omitempty"`
	Content string       `json:"content"`
	Type    QuestionType `json:"type"`
	Answers []Answer     `json:"answers"`
}

// Unanswered 未作答题目提交时使用的答案
const Unanswered = "Chưa trả lời"

// QuizItem 提交给分析服务的一道题
type QuizItem struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}
