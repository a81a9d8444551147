package dto

import (
	"time"

	"exam-mixer/internal/assembler"
	"exam-mixer/internal/config"
	"exam-mixer/internal/domain"
)

// ExamSettings carries the generation knobs shared by every entry point.
// Nil numeric fields take the configured defaults.
// @Description Exam generation settings
type ExamSettings struct {
	NumVersions       *int     `json:"num_versions,omitempty" form:"num_versions"`
	NumQuestions      *int     `json:"num_questions,omitempty" form:"num_questions"`
	EasyPercent       *int     `json:"easy_percent,omitempty" form:"easy_percent"`
	MediumPercent     *int     `json:"medium_percent,omitempty" form:"medium_percent"`
	HardPercent       *int     `json:"hard_percent,omitempty" form:"hard_percent"`
	TheoryRatio       *float64 `json:"theory_ratio,omitempty" form:"theory_ratio"`
	Seed              *uint64  `json:"seed,omitempty" form:"seed"`
	IncludeAnswers    bool     `json:"include_answers" form:"include_answers"`
	AIAnswerKeys      bool     `json:"ai_answer_keys" form:"ai_answer_keys"`
	IncludeStatistics bool     `json:"include_statistics" form:"include_statistics"`
}

// ApplyDefaults fills unset fields from cfg.
func (s *ExamSettings) ApplyDefaults(cfg config.GenerationConfig) {
	setInt := func(p **int, v int) {
		if *p == nil {
			*p = &v
		}
	}
	setInt(&s.NumVersions, cfg.Versions)
	setInt(&s.NumQuestions, cfg.QuestionsPerVersion)
	setInt(&s.EasyPercent, cfg.EasyPercent)
	setInt(&s.MediumPercent, cfg.MediumPercent)
	setInt(&s.HardPercent, cfg.HardPercent)
	if s.TheoryRatio == nil {
		ratio := cfg.TheoryRatio
		s.TheoryRatio = &ratio
	}
	if s.Seed == nil {
		seed := cfg.Seed
		s.Seed = &seed
	}
}

// Request converts defaulted settings into an assembler request.
func (s ExamSettings) Request() assembler.Request {
	return assembler.RequestFromPercents(
		deref(s.NumVersions),
		deref(s.NumQuestions),
		deref(s.TheoryRatio),
		deref(s.EasyPercent),
		deref(s.MediumPercent),
		deref(s.HardPercent),
	)
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}

// GenerateExamRequest asks for exam versions drawn from a stored question bank.
// @Description Request body for generating exams
type GenerateExamRequest struct {
	BankID string `json:"bank_id"`
	ExamSettings
}

// TierCounts holds question counts per difficulty tier.
type TierCounts struct {
	Easy   int `json:"easy"`
	Medium int `json:"medium"`
	Hard   int `json:"hard"`
}

// BreakdownResponse reports how a bank's questions are categorized.
// @Description Question breakdown by topic and difficulty
type BreakdownResponse struct {
	Total         int        `json:"total"`
	Theory        TierCounts `json:"theory"`
	Practice      TierCounts `json:"practice"`
	Uncategorized int        `json:"uncategorized"`
}

// NewBreakdownResponse converts a domain breakdown.
func NewBreakdownResponse(b domain.Breakdown) BreakdownResponse {
	tiers := func(topic domain.Topic) TierCounts {
		return TierCounts{
			Easy:   b.Count(topic, domain.Easy),
			Medium: b.Count(topic, domain.Medium),
			Hard:   b.Count(topic, domain.Hard),
		}
	}
	return BreakdownResponse{
		Total:         b.Total,
		Theory:        tiers(domain.Theory),
		Practice:      tiers(domain.Practice),
		Uncategorized: b.Uncategorized,
	}
}

// QuestionBankResponse describes a stored question bank.
// @Description Question bank information
type QuestionBankResponse struct {
	ID            string             `json:"id"`
	SourceName    string             `json:"source_name"`
	QuestionCount int                `json:"question_count"`
	Breakdown     *BreakdownResponse `json:"breakdown,omitempty"`
	CreatedAt     time.Time          `json:"created_at"`
}

// NewQuestionBankResponse converts a bank. The breakdown is only reported
// when the bank's questions are loaded.
func NewQuestionBankResponse(bank *domain.QuestionBank) QuestionBankResponse {
	resp := QuestionBankResponse{
		ID:            bank.ID,
		SourceName:    bank.SourceName,
		QuestionCount: bank.QuestionCount,
		CreatedAt:     bank.CreatedAt,
	}
	if len(bank.Questions) > 0 {
		b := NewBreakdownResponse(domain.Categorize(bank.Questions))
		resp.Breakdown = &b
	}
	return resp
}

// QuestionBankListResponse lists recent question banks.
type QuestionBankListResponse struct {
	Banks []QuestionBankResponse `json:"banks"`
}

// ImportDocumentResponse is returned after a document upload.
// @Description Result of importing a question document
type ImportDocumentResponse struct {
	QuestionBankResponse
	Warnings []string `json:"warnings"`
}

// ExamVersionSummary reports the composition of one generated version.
type ExamVersionSummary struct {
	Number int              `json:"number"`
	Stats  domain.ExamStats `json:"stats"`
}

// GenerateExamResponse describes a generation run whose package can be
// downloaded from DownloadURL until ExpiresAt.
// @Description Result of generating exams
type GenerateExamResponse struct {
	RunID       string               `json:"run_id"`
	BankID      string               `json:"bank_id"`
	Versions    []ExamVersionSummary `json:"versions"`
	Files       []string             `json:"files"`
	DownloadURL string               `json:"download_url,omitempty"`
	CreatedAt   time.Time            `json:"created_at"`
	ExpiresAt   *time.Time           `json:"expires_at,omitempty"`
}

// OptionResponse is one lettered option.
type OptionResponse struct {
	Letter string `json:"letter"`
	Text   string `json:"text"`
}

// QuestionResponse is a numbered question in a previewed version.
type QuestionResponse struct {
	Number     int              `json:"number"`
	Text       string           `json:"text"`
	Options    []OptionResponse `json:"options"`
	Correct    string           `json:"correct,omitempty"`
	Difficulty string           `json:"difficulty"`
	Topic      string           `json:"topic"`
}

// PreviewExamResponse shows a single version in full.
// @Description A previewed exam version
type PreviewExamResponse struct {
	BankID    string             `json:"bank_id"`
	Questions []QuestionResponse `json:"questions"`
	Stats     domain.ExamStats   `json:"stats"`
}

// NewPreviewExamResponse converts a version. Correct letters are reported
// only when includeAnswers is set.
func NewPreviewExamResponse(bankID string, v domain.ExamVersion, includeAnswers bool) PreviewExamResponse {
	questions := make([]QuestionResponse, 0, len(v.Questions))
	for i, q := range v.Questions {
		options := make([]OptionResponse, 0, len(q.Options))
		for _, letter := range q.SortedLetters() {
			options = append(options, OptionResponse{Letter: letter, Text: q.Options[letter]})
		}
		qr := QuestionResponse{
			Number:     i + 1,
			Text:       q.Text,
			Options:    options,
			Difficulty: q.Difficulty.String(),
			Topic:      q.Topic.String(),
		}
		if includeAnswers {
			qr.Correct = q.Correct
		}
		questions = append(questions, qr)
	}
	return PreviewExamResponse{BankID: bankID, Questions: questions, Stats: v.Stats()}
}

// HealthResponse is returned by the health check.
type HealthResponse struct {
	Status string `json:"status"`
	Cache  string `json:"cache"`
}
