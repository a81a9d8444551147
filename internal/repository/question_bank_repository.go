package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"exam-mixer/internal/domain"
	"exam-mixer/internal/repository/models"
	"exam-mixer/internal/util"
)

const defaultListLimit = 50

// QuestionBankDatabaseAdapter persists question banks with sqlx. Queries use
// '?' placeholders and are rebound for the connected driver.
type QuestionBankDatabaseAdapter struct {
	db *sqlx.DB
}

// NewQuestionBankDatabaseAdapter creates a new instance of QuestionBankDatabaseAdapter
func NewQuestionBankDatabaseAdapter(db *sqlx.DB) domain.QuestionBankRepository {
	return &QuestionBankDatabaseAdapter{db: db}
}

// Save persists a new bank, assigning an ID and creation time when missing.
func (r *QuestionBankDatabaseAdapter) Save(ctx context.Context, bank *domain.QuestionBank) error {
	if bank.ID == "" {
		bank.ID = util.NewULID()
	}
	if bank.CreatedAt.IsZero() {
		bank.CreatedAt = time.Now()
	}
	bank.QuestionCount = len(bank.Questions)

	row := models.FromDomainQuestionBank(bank)
	query := r.db.Rebind(`INSERT INTO question_banks (id, source_name, question_count, questions_json, created_at)
		VALUES (?, ?, ?, ?, ?)`)
	if _, err := r.db.ExecContext(ctx, query, row.ID, row.SourceName, row.QuestionCount, row.Questions, row.CreatedAt); err != nil {
		return fmt.Errorf("failed to save question bank %s: %w", bank.ID, err)
	}
	return nil
}

// GetByID returns nil, nil when the bank does not exist.
func (r *QuestionBankDatabaseAdapter) GetByID(ctx context.Context, id string) (*domain.QuestionBank, error) {
	var row models.QuestionBank
	query := r.db.Rebind(`SELECT id, source_name, question_count, questions_json, created_at
		FROM question_banks WHERE id = ?`)
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get question bank %s: %w", id, err)
	}
	return row.ToDomain(), nil
}

// List returns the most recently imported banks first, without questions.
func (r *QuestionBankDatabaseAdapter) List(ctx context.Context, limit int) ([]*domain.QuestionBank, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}

	query := `SELECT id, source_name, question_count, created_at FROM question_banks ORDER BY created_at DESC`
	if r.db.DriverName() == "oracle" {
		query += ` FETCH FIRST ? ROWS ONLY`
	} else {
		query += ` LIMIT ?`
	}

	var rows []models.QuestionBankSummary
	if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(query), limit); err != nil {
		return nil, fmt.Errorf("failed to list question banks: %w", err)
	}

	banks := make([]*domain.QuestionBank, len(rows))
	for i := range rows {
		banks[i] = rows[i].ToDomain()
	}
	return banks, nil
}

func (r *QuestionBankDatabaseAdapter) Delete(ctx context.Context, id string) error {
	query := r.db.Rebind(`DELETE FROM question_banks WHERE id = ?`)
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("failed to delete question bank %s: %w", id, err)
	}
	return nil
}
