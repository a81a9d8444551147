package document

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// MinContentLength is the rune count below which a document is reported as too short.
const MinContentLength = 100

const (
	WarningNoQuestions = "Không tìm thấy câu hỏi nào trong file"
	WarningNoOptions   = "Không tìm thấy các lựa chọn A, B, C, D"
	WarningTooShort    = "Nội dung file quá ngắn"
)

var (
	questionMarker = regexp.MustCompile(`(?i)câu\s*\d+`)
	optionMarker   = regexp.MustCompile(`[A-D][.)]`)
)

// Inspect reports structural problems that usually mean a document will not
// yield usable questions. An empty result means nothing looked wrong.
func Inspect(lines []string) []string {
	content := strings.TrimSpace(strings.Join(lines, "\n"))
	warnings := make([]string, 0, 3)

	if !questionMarker.MatchString(content) {
		warnings = append(warnings, WarningNoQuestions)
	}
	if !optionMarker.MatchString(content) {
		warnings = append(warnings, WarningNoOptions)
	}
	if utf8.RuneCountInString(content) < MinContentLength {
		warnings = append(warnings, WarningTooShort)
	}
	return warnings
}
