// Package extractor turns decoded document lines into structured questions.
package extractor

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"exam-mixer/internal/domain"
)

// draft is the question currently being accumulated.
type draft struct {
	question domain.Question
}

func newDraft(header Line) *draft {
	return &draft{question: domain.Question{
		Text:       header.Text,
		Options:    make(map[string]string),
		Difficulty: header.Difficulty,
		Topic:      header.Topic,
	}}
}

func (d *draft) apply(l Line) {
	switch l.Kind {
	case Option:
		d.question.Options[l.Letter] = l.Text
		if l.Correct {
			d.question.Correct = l.Letter
		}
	case Answer:
		if l.Letter != "" {
			d.question.Correct = l.Letter
		}
	case Continuation:
		d.question.Text += " " + l.Text
	}
}

// Extract scans lines in order and returns the questions they describe.
//
// Lines are trimmed and blank lines skipped. Option, answer and continuation
// lines seen before the first question header have nothing to attach to and
// are discarded. A document without any header yields an empty result, which
// is not an error. A line that is not valid UTF-8 is rejected with an
// INVALID_ARGUMENT error.
func Extract(lines []string) ([]domain.Question, error) {
	questions := make([]domain.Question, 0)
	var current *draft

	finalize := func() {
		if current == nil {
			return
		}
		current.question.Text = strings.TrimSpace(current.question.Text)
		if current.question.Text != "" {
			questions = append(questions, current.question)
		}
		current = nil
	}

	for i, raw := range lines {
		if !utf8.ValidString(raw) {
			return nil, domain.NewInvalidArgumentError(fmt.Sprintf("line %d is not valid UTF-8 text", i+1)).
				WithContext("line", i+1)
		}
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}

		l := Classify(line)
		if l.Kind == Header {
			finalize()
			current = newDraft(l)
			continue
		}
		if current != nil {
			current.apply(l)
		}
	}
	finalize()

	return questions, nil
}
