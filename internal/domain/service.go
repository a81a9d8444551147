package domain

import "context"

// QuestionBankRepository defines the interface for question bank persistence
type QuestionBankRepository interface {
	// Save persists a new bank and assigns its ID.
	Save(ctx context.Context, bank *QuestionBank) error

	// GetByID returns the bank with the given ID, or nil if none exists.
	GetByID(ctx context.Context, id string) (*QuestionBank, error)

	// List returns the most recent banks without their questions.
	List(ctx context.Context, limit int) ([]*QuestionBank, error)

	// Delete removes a bank. Deleting a missing bank is not an error.
	Delete(ctx context.Context, id string) error
}

// AnswerKeyFiller produces answers for a rendered exam using an external text-generation service.
type AnswerKeyFiller interface {
	// FillAnswers returns question number (1-based) -> option letter.
	// Questions the service could not answer are absent from the map.
	FillAnswers(ctx context.Context, examText string, questionCount int) (map[int]string, error)
}
