package extractor

import (
	"regexp"
	"strings"
	"unicode"

	"exam-mixer/internal/domain"
)

// Kind is the classification of a single document line.
type Kind int

const (
	Continuation Kind = iota
	Header
	Option
	Answer
)

func (k Kind) String() string {
	switch k {
	case Header:
		return "header"
	case Option:
		return "option"
	case Answer:
		return "answer"
	default:
		return "continuation"
	}
}

// Line is a classified line with its extracted payload.
//
// Header lines carry Text, Difficulty and Topic. Option lines carry Letter,
// Text and Correct. Answer lines carry Letter, which is empty when the
// declared answer is not in the option alphabet. Continuation lines carry
// the whole line in Text.
type Line struct {
	Kind       Kind
	Text       string
	Letter     string
	Correct    bool
	Difficulty domain.Difficulty
	Topic      domain.Topic
}

// The English answer keyword needs a ':' or '.' so prose such as "Answer the
// following" stays continuation text.
var (
	headerPattern     = regexp.MustCompile(`(?i)^câu\s*\d+\s*[:.]?\s*(.*)$`)
	ordinalPattern    = regexp.MustCompile(`^\d+[.)]\s*`)
	difficultyPattern = regexp.MustCompile(`(?i)\[\s*(dễ|tb|khó|easy|medium|hard)\s*\]`)
	topicPattern      = regexp.MustCompile(`(?i)\[\s*(lt|tt|theory|practice)\s*\]`)
	optionPattern     = regexp.MustCompile(`^(\*?)([A-D])[.)]\s*(.*)$`)
	answerPattern     = regexp.MustCompile(`(?i)^(?:đáp\s*án\b\s*[:.]?|answer\s*[:.])\s*(.*)$`)
)

// Classify classifies one non-empty, trimmed line. Patterns are tried in
// priority order: header, option, answer; anything else is continuation text.
func Classify(line string) Line {
	if m := headerPattern.FindStringSubmatch(line); m != nil {
		return classifyHeader(m[1])
	}
	if m := optionPattern.FindStringSubmatch(line); m != nil {
		return Line{
			Kind:    Option,
			Letter:  m[2],
			Text:    strings.TrimSpace(m[3]),
			Correct: m[1] == "*",
		}
	}
	if m := answerPattern.FindStringSubmatch(line); m != nil {
		return Line{Kind: Answer, Letter: answerLetter(m[1])}
	}
	return Line{Kind: Continuation, Text: line}
}

func classifyHeader(payload string) Line {
	l := Line{Kind: Header}
	if m := difficultyPattern.FindStringSubmatch(payload); m != nil {
		l.Difficulty = domain.ParseDifficulty(m[1])
		payload = difficultyPattern.ReplaceAllString(payload, "")
	}
	if m := topicPattern.FindStringSubmatch(payload); m != nil {
		l.Topic = domain.ParseTopic(m[1])
		payload = topicPattern.ReplaceAllString(payload, "")
	}
	payload = ordinalPattern.ReplaceAllString(strings.TrimSpace(payload), "")
	l.Text = strings.TrimSpace(payload)
	return l
}

// answerLetter returns the first alphabetic rune of rest, upper-cased, if it
// is an option letter.
func answerLetter(rest string) string {
	for _, r := range rest {
		if !unicode.IsLetter(r) {
			continue
		}
		letter := strings.ToUpper(string(r))
		if domain.IsOptionLetter(letter) {
			return letter
		}
		return ""
	}
	return ""
}
