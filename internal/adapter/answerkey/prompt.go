// Package answerkey asks a language model for the answer sheet of a rendered
// exam and parses its reply.
package answerkey

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

const promptTemplate = "Hãy đọc đề dưới đây và trả lời đáp án đúng cho từng câu, " +
	"chỉ trả về đúng định dạng 'Câu X: Đáp án Y', mỗi câu một dòng, không giải thích. " +
	"Đề có %d câu, đáp án là một trong các chữ cái A, B, C, D.\n\n%s"

var answerLinePattern = regexp.MustCompile(`(?im)câu\s*(\d+)\s*[:.\-]?\s*(?:đáp\s*án\s*[:.]?\s*)?\(?([A-D])\b`)

// BuildPrompt returns the instruction sent to the model for examText.
func BuildPrompt(examText string, questionCount int) string {
	return fmt.Sprintf(promptTemplate, questionCount, examText)
}

// ParseAnswers extracts "Câu <n>: [Đáp án] <letter>" pairs from a model reply.
// Question numbers outside 1..questionCount are ignored; when a number
// appears more than once the last occurrence wins.
func ParseAnswers(reply string, questionCount int) map[int]string {
	answers := make(map[int]string)
	for _, m := range answerLinePattern.FindAllStringSubmatch(stripThinking(reply), -1) {
		n, err := strconv.Atoi(m[1])
		if err != nil || n < 1 || n > questionCount {
			continue
		}
		answers[n] = strings.ToUpper(m[2])
	}
	return answers
}

// stripThinking drops a <think>...</think> block some local models emit
// before their answer.
func stripThinking(reply string) string {
	start := strings.Index(reply, "<think>")
	if start == -1 {
		return reply
	}
	end := strings.Index(reply, "</think>")
	if end == -1 || end < start {
		return reply
	}
	return reply[:start] + reply[end+len("</think>"):]
}
