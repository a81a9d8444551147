package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"exam-mixer/internal/domain"
)

// QuestionList stores a question slice as a JSON text column.
type QuestionList []domain.Question

// Value implements the driver.Valuer interface
func (l QuestionList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	data, err := json.Marshal(l)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

// Scan implements the sql.Scanner interface
func (l *QuestionList) Scan(value interface{}) error {
	var data []byte
	switch v := value.(type) {
	case nil:
		*l = QuestionList{}
		return nil
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("QuestionList Scan: unsupported type %T", value)
	}

	if len(data) == 0 || string(data) == "null" {
		*l = QuestionList{}
		return nil
	}
	return json.Unmarshal(data, l)
}

// QuestionBank is the question_banks row.
type QuestionBank struct {
	ID            string       `db:"id"`
	SourceName    string       `db:"source_name"`
	QuestionCount int          `db:"question_count"`
	Questions     QuestionList `db:"questions_json"`
	CreatedAt     int64        `db:"created_at"`
}

// QuestionBankSummary is a question_banks row without the question payload.
type QuestionBankSummary struct {
	ID            string `db:"id"`
	SourceName    string `db:"source_name"`
	QuestionCount int    `db:"question_count"`
	CreatedAt     int64  `db:"created_at"`
}

func FromDomainQuestionBank(b *domain.QuestionBank) *QuestionBank {
	return &QuestionBank{
		ID:            b.ID,
		SourceName:    b.SourceName,
		QuestionCount: len(b.Questions),
		Questions:     QuestionList(b.Questions),
		CreatedAt:     b.CreatedAt.UnixMilli(),
	}
}

func (m *QuestionBank) ToDomain() *domain.QuestionBank {
	return &domain.QuestionBank{
		ID:            m.ID,
		SourceName:    m.SourceName,
		QuestionCount: m.QuestionCount,
		Questions:     []domain.Question(m.Questions),
		CreatedAt:     time.UnixMilli(m.CreatedAt),
	}
}

func (m *QuestionBankSummary) ToDomain() *domain.QuestionBank {
	return &domain.QuestionBank{
		ID:            m.ID,
		SourceName:    m.SourceName,
		QuestionCount: m.QuestionCount,
		CreatedAt:     time.UnixMilli(m.CreatedAt),
	}
}
