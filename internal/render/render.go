// Package render formats exam versions as plain text and bundles them into a
// downloadable zip package.
package render

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"time"

	"exam-mixer/internal/domain"
)

const (
	examRule   = "==================================================="
	answerRule = "==============================="
	statsRule  = "========================================="
	dateLayout = "02/01/2006"
)

// Options controls how a single exam version is written.
type Options struct {
	// IncludeAnswers marks the correct option of each question with '*'.
	IncludeAnswers bool
	// Header adds a title block with the version number and question count.
	Header bool
	// Date is printed in the title block when non-zero.
	Date time.Time
}

// WriteExam writes v as numbered questions, each followed by its options in
// alphabet order and a blank line.
func WriteExam(w io.Writer, v domain.ExamVersion, opts Options) error {
	var buf bytes.Buffer
	if opts.Header {
		fmt.Fprintf(&buf, "ĐỀ THI PHIÊN BẢN %d\n", v.Number)
		fmt.Fprintf(&buf, "Tổng số câu: %d\n", len(v.Questions))
		if !opts.Date.IsZero() {
			fmt.Fprintf(&buf, "Ngày tạo: %s\n", opts.Date.Format(dateLayout))
		}
		buf.WriteString(examRule + "\n\n")
	}

	for i, q := range v.Questions {
		fmt.Fprintf(&buf, "%d. %s\n", i+1, q.Text)
		for _, letter := range q.SortedLetters() {
			marker := ""
			if opts.IncludeAnswers && q.Correct == letter {
				marker = "*"
			}
			fmt.Fprintf(&buf, "%s%s. %s\n", marker, letter, q.Options[letter])
		}
		buf.WriteByte('\n')
	}

	_, err := buf.WriteTo(w)
	return err
}

// ExamText renders v into a string.
func ExamText(v domain.ExamVersion, opts Options) string {
	var sb strings.Builder
	_ = WriteExam(&sb, v, opts)
	return sb.String()
}

// SourceAnswers returns the answers recorded in the source document, keyed by
// 1-based question position. Questions without a known answer are omitted.
func SourceAnswers(v domain.ExamVersion) map[int]string {
	answers := make(map[int]string, len(v.Questions))
	for i, q := range v.Questions {
		if q.Correct != "" {
			answers[i+1] = q.Correct
		}
	}
	return answers
}

// WriteAnswerKey writes the answer sheet of v. Positions missing from answers
// are left blank. A per-letter distribution follows the list.
func WriteAnswerKey(w io.Writer, v domain.ExamVersion, answers map[int]string) error {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "Đáp án cho Đề %d\n", v.Number)
	buf.WriteString(answerRule + "\n")

	counts := make(map[string]int, len(domain.OptionLetters))
	for i := 1; i <= len(v.Questions); i++ {
		letter := answers[i]
		if letter == "" {
			fmt.Fprintf(&buf, "Câu %d: \n", i)
			continue
		}
		fmt.Fprintf(&buf, "Câu %d: %s\n", i, letter)
		counts[letter]++
	}

	if total := len(v.Questions); total > 0 {
		buf.WriteString("\nTHỐNG KÊ ĐÁP ÁN:\n")
		for _, letter := range domain.OptionLetters {
			pct := float64(counts[letter]) / float64(total) * 100
			fmt.Fprintf(&buf, "%s: %d câu (%.1f%%)\n", letter, counts[letter], pct)
		}
	}

	_, err := buf.WriteTo(w)
	return err
}

// WriteStatistics writes per-version difficulty and topic counts followed by
// the averages across all versions.
func WriteStatistics(w io.Writer, versions []domain.ExamVersion) error {
	var buf bytes.Buffer
	buf.WriteString("THỐNG KÊ TỔNG QUAN CÁC ĐỀ THI\n")
	fmt.Fprintf(&buf, "Số lượng đề: %d\n", len(versions))
	buf.WriteString(statsRule + "\n\n")

	var easy, medium, hard int
	for _, v := range versions {
		s := v.Stats()
		easy += s.Easy
		medium += s.Medium
		hard += s.Hard

		fmt.Fprintf(&buf, "ĐỀ %d:\n", v.Number)
		fmt.Fprintf(&buf, "  Tổng câu hỏi: %d\n", s.TotalQuestions)
		fmt.Fprintf(&buf, "  Độ khó - Dễ: %d, TB: %d, Khó: %d\n", s.Easy, s.Medium, s.Hard)
		fmt.Fprintf(&buf, "  Loại - LT: %d, TT: %d\n\n", s.Theory, s.Practice)
	}

	if n := float64(len(versions)); n > 0 {
		buf.WriteString("TRUNG BÌNH:\n")
		fmt.Fprintf(&buf, "  Câu dễ: %.1f\n", float64(easy)/n)
		fmt.Fprintf(&buf, "  Câu TB: %.1f\n", float64(medium)/n)
		fmt.Fprintf(&buf, "  Câu khó: %.1f\n", float64(hard)/n)
	}

	_, err := buf.WriteTo(w)
	return err
}
