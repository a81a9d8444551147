// Package document decodes uploaded exam documents into ordered text lines.
package document

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zip"

	"exam-mixer/internal/domain"
)

const (
	wordNamespace = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"
	documentPart  = "word/document.xml"

	// DefaultMaxBodySize bounds the decompressed size of a .docx body.
	DefaultMaxBodySize int64 = 64 << 20
)

// Supported lists the accepted file extensions.
var Supported = []string{".docx", ".txt"}

// Decode returns the paragraphs of a document in reading order. The format is
// chosen from the extension of name. Lines are returned untrimmed.
func Decode(name string, content []byte) ([]string, error) {
	return DecodeWithLimit(name, content, DefaultMaxBodySize)
}

// DecodeWithLimit is Decode with a cap on the decompressed .docx body.
// A non-positive maxBody uses DefaultMaxBodySize.
func DecodeWithLimit(name string, content []byte, maxBody int64) ([]string, error) {
	if maxBody <= 0 {
		maxBody = DefaultMaxBodySize
	}
	switch ext := strings.ToLower(filepath.Ext(name)); ext {
	case ".docx":
		return decodeDocx(content, maxBody)
	case ".txt":
		return decodeText(content), nil
	default:
		return nil, domain.NewInvalidArgumentError(fmt.Sprintf("unsupported document type %q", ext)).
			WithContext("file", name).
			WithContext("supported", Supported)
	}
}

func decodeText(content []byte) []string {
	text := string(content)
	text = strings.TrimPrefix(text, "\ufeff")
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	if text == "" {
		return []string{}
	}
	return strings.Split(text, "\n")
}

func decodeDocx(content []byte, maxBody int64) ([]string, error) {
	zr, err := zip.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return nil, domain.NewError(domain.CodeInvalidFormat, "document is not a valid .docx archive", err)
	}

	for _, f := range zr.File {
		if f.Name != documentPart {
			continue
		}
		tooLarge := domain.NewError(domain.CodeInvalidFormat, "document body is too large", nil).
			WithContext("max_bytes", maxBody)
		if f.UncompressedSize64 > uint64(maxBody) {
			return nil, tooLarge
		}
		rc, err := f.Open()
		if err != nil {
			return nil, domain.NewError(domain.CodeInvalidFormat, "cannot open document body", err)
		}
		defer rc.Close()

		// The header size can lie; the reader enforces the cap.
		lr := &io.LimitedReader{R: rc, N: maxBody + 1}
		lines, err := paragraphs(lr)
		if lr.N <= 0 {
			return nil, tooLarge
		}
		return lines, err
	}
	return nil, domain.NewError(domain.CodeInvalidFormat, "document body "+documentPart+" not found", nil)
}

// paragraphs walks the WordprocessingML body. Each w:p becomes one line;
// a w:br inside a paragraph starts a new line and w:tab becomes a tab.
func paragraphs(r io.Reader) ([]string, error) {
	dec := xml.NewDecoder(r)
	lines := make([]string, 0, 64)

	var (
		current strings.Builder
		inPara  bool
		inText  bool
	)
	flush := func() {
		lines = append(lines, current.String())
		current.Reset()
	}

	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, domain.NewError(domain.CodeInvalidFormat, "malformed document body", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Space != wordNamespace {
				continue
			}
			switch t.Name.Local {
			case "p":
				inPara = true
				current.Reset()
			case "t":
				inText = true
			case "tab":
				if inPara {
					current.WriteByte('\t')
				}
			case "br", "cr":
				if inPara {
					flush()
				}
			}
		case xml.EndElement:
			if t.Name.Space != wordNamespace {
				continue
			}
			switch t.Name.Local {
			case "p":
				if inPara {
					flush()
				}
				inPara = false
			case "t":
				inText = false
			}
		case xml.CharData:
			if inText && inPara {
				current.Write(t)
			}
		}
	}
	return lines, nil
}
