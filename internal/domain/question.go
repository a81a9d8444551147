package domain

import (
	"maps"
	"slices"
	"strconv"
	"strings"
)

// OptionLetters is the fixed option label alphabet, in rendering order.
var OptionLetters = []string{"A", "B", "C", "D"}

// IsOptionLetter reports whether s is one of OptionLetters.
func IsOptionLetter(s string) bool {
	return slices.Contains(OptionLetters, s)
}

// Difficulty is the difficulty tier of a question.
type Difficulty int

const (
	UnknownDifficulty Difficulty = iota
	Easy
	Medium
	Hard
)

// Tiers lists the categorized difficulties in quota order.
var Tiers = []Difficulty{Easy, Medium, Hard}

// ParseDifficulty maps a tag label (Dễ, TB, Khó or Easy, Medium, Hard) to a Difficulty.
func ParseDifficulty(label string) Difficulty {
	switch strings.ToLower(strings.TrimSpace(label)) {
	case "dễ", "easy":
		return Easy
	case "tb", "medium":
		return Medium
	case "khó", "hard":
		return Hard
	default:
		return UnknownDifficulty
	}
}

// Label returns the label used in documents and rendered output.
func (d Difficulty) Label() string {
	switch d {
	case Easy:
		return "Dễ"
	case Medium:
		return "TB"
	case Hard:
		return "Khó"
	default:
		return "Không rõ"
	}
}

func (d Difficulty) String() string {
	switch d {
	case Easy:
		return "easy"
	case Medium:
		return "medium"
	case Hard:
		return "hard"
	default:
		return "unknown"
	}
}

func (d Difficulty) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Difficulty) UnmarshalText(text []byte) error {
	*d = ParseDifficulty(string(text))
	return nil
}

// Topic is the topic type of a question.
type Topic int

const (
	UnknownTopic Topic = iota
	Theory
	Practice
)

// Topics lists the categorized topic types in quota order.
var Topics = []Topic{Theory, Practice}

// ParseTopic maps a tag label (LT, TT or Theory, Practice) to a Topic.
func ParseTopic(label string) Topic {
	switch strings.ToLower(strings.TrimSpace(label)) {
	case "lt", "theory":
		return Theory
	case "tt", "practice":
		return Practice
	default:
		return UnknownTopic
	}
}

// Label returns the label used in documents and rendered output.
func (t Topic) Label() string {
	switch t {
	case Theory:
		return "LT"
	case Practice:
		return "TT"
	default:
		return "Không rõ"
	}
}

func (t Topic) String() string {
	switch t {
	case Theory:
		return "theory"
	case Practice:
		return "practice"
	default:
		return "unknown"
	}
}

func (t Topic) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

func (t *Topic) UnmarshalText(text []byte) error {
	*t = ParseTopic(string(text))
	return nil
}

// Question is one structured question extracted from a document.
// A Question is read-only once the extractor has emitted it.
type Question struct {
	Text       string            `json:"text"`
	Options    map[string]string `json:"options"`
	Correct    string            `json:"correct,omitempty"`
	Difficulty Difficulty        `json:"difficulty"`
	Topic      Topic             `json:"topic"`
}

// IsCategorized reports whether the question carries both a known topic and a known difficulty.
func (q Question) IsCategorized() bool {
	return q.Topic != UnknownTopic && q.Difficulty != UnknownDifficulty
}

// Equal compares two questions by value.
func (q Question) Equal(other Question) bool {
	return q.Text == other.Text &&
		q.Correct == other.Correct &&
		q.Difficulty == other.Difficulty &&
		q.Topic == other.Topic &&
		maps.Equal(q.Options, other.Options)
}

// Key returns a canonical string that is equal for two questions iff Equal holds.
// Every variable-length part is length-prefixed.
func (q Question) Key() string {
	var b strings.Builder
	field := func(s string) {
		b.WriteString(strconv.Itoa(len(s)))
		b.WriteByte(':')
		b.WriteString(s)
	}

	field(q.Text)
	b.WriteString(strconv.Itoa(len(q.Options)))
	b.WriteByte('#')
	for _, letter := range q.SortedLetters() {
		field(letter)
		field(q.Options[letter])
	}
	field(q.Correct)
	b.WriteString(strconv.Itoa(int(q.Difficulty)))
	b.WriteByte('/')
	b.WriteString(strconv.Itoa(int(q.Topic)))
	return b.String()
}

// SortedLetters returns the question's option letters in alphabet order.
func (q Question) SortedLetters() []string {
	letters := make([]string, 0, len(q.Options))
	for letter := range q.Options {
		letters = append(letters, letter)
	}
	slices.Sort(letters)
	return letters
}

// Breakdown counts questions per (topic, difficulty) cell.
type Breakdown struct {
	Total         int                          `json:"total"`
	Cells         map[Topic]map[Difficulty]int `json:"-"`
	Uncategorized int                          `json:"uncategorized"`
}

// Count returns the number of questions in a cell.
func (b Breakdown) Count(topic Topic, difficulty Difficulty) int {
	return b.Cells[topic][difficulty]
}

// Categorize builds the source breakdown of a question set.
func Categorize(questions []Question) Breakdown {
	b := Breakdown{
		Total: len(questions),
		Cells: map[Topic]map[Difficulty]int{
			Theory:   {},
			Practice: {},
		},
	}
	for _, q := range questions {
		if !q.IsCategorized() {
			b.Uncategorized++
			continue
		}
		b.Cells[q.Topic][q.Difficulty]++
	}
	return b
}
