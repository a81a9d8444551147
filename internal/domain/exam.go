package domain

import "time"

// ExamVersion is one generated exam paper.
type ExamVersion struct {
	Number    int        `json:"number"`
	Questions []Question `json:"questions"`
}

// ExamStats summarises the composition of an exam version.
type ExamStats struct {
	TotalQuestions int `json:"total_questions"`
	Easy           int `json:"easy"`
	Medium         int `json:"medium"`
	Hard           int `json:"hard"`
	Theory         int `json:"theory"`
	Practice       int `json:"practice"`
}

// Stats counts the version's questions per difficulty and topic.
func (v ExamVersion) Stats() ExamStats {
	s := ExamStats{TotalQuestions: len(v.Questions)}
	for _, q := range v.Questions {
		switch q.Difficulty {
		case Easy:
			s.Easy++
		case Medium:
			s.Medium++
		case Hard:
			s.Hard++
		}
		switch q.Topic {
		case Theory:
			s.Theory++
		case Practice:
			s.Practice++
		}
	}
	return s
}

// QuestionBank is the persisted set of questions extracted from one document.
// Listings leave Questions empty and report QuestionCount only.
type QuestionBank struct {
	ID            string     `json:"id"`
	SourceName    string     `json:"source_name"`
	QuestionCount int        `json:"question_count"`
	Questions     []Question `json:"questions,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

// NewQuestionBank creates a QuestionBank with the given source name and questions.
func NewQuestionBank(sourceName string, questions []Question) *QuestionBank {
	return &QuestionBank{
		SourceName:    sourceName,
		QuestionCount: len(questions),
		Questions:     questions,
		CreatedAt:     time.Now(),
	}
}

// Validate validates the question bank
func (b *QuestionBank) Validate() error {
	if b.SourceName == "" {
		return NewValidationError("source name is required")
	}
	if len(b.Questions) == 0 {
		return NewValidationError("at least one question is required")
	}
	return nil
}
