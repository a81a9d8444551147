package validation

import (
	"math"
	"strings"

	"exam-mixer/internal/domain"
	"exam-mixer/internal/dto"
	"exam-mixer/internal/util"
)

const (
	MaxVersions     = 50
	MaxQuestions    = 500
	MaxListLimit    = 200
	percentTotal    = 100
	fieldPercentSum = "difficulty_percent"
)

// Validator provides request validation functionality
type Validator struct{}

// NewValidator creates a new validator instance
func NewValidator() *Validator {
	return &Validator{}
}

// ValidateBankID validates a question bank identifier
func (v *Validator) ValidateBankID(bankID string) domain.ValidationErrors {
	var errors domain.ValidationErrors

	if strings.TrimSpace(bankID) == "" {
		errors = append(errors, domain.NewMissingFieldError("bank_id"))
	} else if !util.IsULID(bankID) {
		errors = append(errors, domain.NewInvalidFormatError("bank_id", bankID))
	}

	return errors
}

// ValidateExamSettings validates settings after defaults have been applied.
// Difficulty percentages must add up to exactly 100.
func (v *Validator) ValidateExamSettings(s dto.ExamSettings) domain.ValidationErrors {
	var errors domain.ValidationErrors

	checkInt := func(field string, p *int, min, max int) {
		if p == nil {
			errors = append(errors, domain.NewMissingFieldError(field))
			return
		}
		if *p < min || *p > max {
			errors = append(errors, domain.NewOutOfRangeError(field, *p, min, max))
		}
	}
	checkInt("num_versions", s.NumVersions, 1, MaxVersions)
	checkInt("num_questions", s.NumQuestions, 1, MaxQuestions)
	checkInt("easy_percent", s.EasyPercent, 0, percentTotal)
	checkInt("medium_percent", s.MediumPercent, 0, percentTotal)
	checkInt("hard_percent", s.HardPercent, 0, percentTotal)

	if s.EasyPercent != nil && s.MediumPercent != nil && s.HardPercent != nil {
		if sum := *s.EasyPercent + *s.MediumPercent + *s.HardPercent; sum != percentTotal {
			errors = append(errors, domain.ValidationError{
				Field:   fieldPercentSum,
				Code:    domain.CodeValidation,
				Message: "easy_percent, medium_percent and hard_percent must add up to 100",
				Value:   sum,
			})
		}
	}

	if s.TheoryRatio == nil {
		errors = append(errors, domain.NewMissingFieldError("theory_ratio"))
	} else if r := *s.TheoryRatio; math.IsNaN(r) || r < 0 || r > 1 {
		errors = append(errors, domain.NewOutOfRangeError("theory_ratio", r, 0, 1))
	}

	return errors
}

// ValidateGenerateExamRequest validates a generate or preview request
func (v *Validator) ValidateGenerateExamRequest(req *dto.GenerateExamRequest) domain.ValidationErrors {
	errors := v.ValidateBankID(req.BankID)
	return append(errors, v.ValidateExamSettings(req.ExamSettings)...)
}

// ValidateListLimit validates the page size of a listing
func (v *Validator) ValidateListLimit(limit int) domain.ValidationErrors {
	if limit < 1 || limit > MaxListLimit {
		return domain.ValidationErrors{domain.NewOutOfRangeError("limit", limit, 1, MaxListLimit)}
	}
	return nil
}
