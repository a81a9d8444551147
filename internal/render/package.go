package render

import (
	"bytes"
	"fmt"
	"io"
	"slices"
	"time"

	"github.com/klauspost/compress/zip"

	"exam-mixer/internal/domain"
)

const (
	examDir        = "de-thi"
	answerDir      = "dap-an"
	statisticsFile = "ThongKe.txt"
	readmeFile     = "README.txt"
)

// PackageOptions controls the content of a zip package.
type PackageOptions struct {
	// AnswerKeys overrides the answer sheet of a version, keyed by version
	// number. Versions without an entry use SourceAnswers.
	AnswerKeys map[int]map[int]string
	// IncludeAnswers marks correct options inside the exam files.
	IncludeAnswers bool
	// Statistics adds ThongKe.txt.
	Statistics bool
	// CreatedAt stamps exam headers, the README and the zip entries.
	CreatedAt time.Time
}

// ExamFileName returns the package entry name of exam version n.
func ExamFileName(n int) string {
	return fmt.Sprintf("%s/De%02d.txt", examDir, n)
}

// AnswerFileName returns the package entry name of the answer sheet of version n.
func AnswerFileName(n int) string {
	return fmt.Sprintf("%s/DapAn%02d.txt", answerDir, n)
}

// PackageEntries lists, in sorted order, the entries WritePackage produces for
// versions numbered 1..n.
func PackageEntries(n int, opts PackageOptions) []string {
	entries := []string{readmeFile}
	for i := 1; i <= n; i++ {
		entries = append(entries, ExamFileName(i), AnswerFileName(i))
	}
	if opts.Statistics {
		entries = append(entries, statisticsFile)
	}
	slices.Sort(entries)
	return entries
}

// WritePackage writes a zip archive holding one exam file and one answer
// sheet per version, the optional statistics file and a README.
func WritePackage(w io.Writer, versions []domain.ExamVersion, opts PackageOptions) error {
	created := opts.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}

	zw := zip.NewWriter(w)
	add := func(name string, write func(io.Writer) error) error {
		f, err := zw.CreateHeader(&zip.FileHeader{
			Name:     name,
			Method:   zip.Deflate,
			Modified: created,
		})
		if err != nil {
			return fmt.Errorf("create %s: %w", name, err)
		}
		if err := write(f); err != nil {
			return fmt.Errorf("write %s: %w", name, err)
		}
		return nil
	}

	for _, v := range versions {
		err := add(ExamFileName(v.Number), func(f io.Writer) error {
			return WriteExam(f, v, Options{IncludeAnswers: opts.IncludeAnswers, Header: true, Date: created})
		})
		if err != nil {
			return err
		}

		answers, ok := opts.AnswerKeys[v.Number]
		if !ok {
			answers = SourceAnswers(v)
		}
		err = add(AnswerFileName(v.Number), func(f io.Writer) error {
			return WriteAnswerKey(f, v, answers)
		})
		if err != nil {
			return err
		}
	}

	if opts.Statistics {
		err := add(statisticsFile, func(f io.Writer) error {
			return WriteStatistics(f, versions)
		})
		if err != nil {
			return err
		}
	}

	err := add(readmeFile, func(f io.Writer) error {
		_, err := io.WriteString(f, readme(len(versions), opts.Statistics, created))
		return err
	})
	if err != nil {
		return err
	}

	return zw.Close()
}

// Package renders versions into an in-memory zip archive.
func Package(versions []domain.ExamVersion, opts PackageOptions) ([]byte, error) {
	var buf bytes.Buffer
	if err := WritePackage(&buf, versions, opts); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func readme(versions int, statistics bool, created time.Time) string {
	var buf bytes.Buffer
	buf.WriteString("HƯỚNG DẪN SỬ DỤNG\n\n")
	buf.WriteString("Gói đề thi này bao gồm:\n")
	fmt.Fprintf(&buf, "- %d đề thi (.txt) trong thư mục '%s/'\n", versions, examDir)
	fmt.Fprintf(&buf, "- Đáp án tương ứng (.txt) trong thư mục '%s/'\n", answerDir)
	if statistics {
		fmt.Fprintf(&buf, "- File thống kê '%s'\n", statisticsFile)
	}
	fmt.Fprintf(&buf, "\nNgày tạo: %s\n", created.Format("02/01/2006 15:04:05"))
	return buf.String()
}
