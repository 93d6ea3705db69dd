// Package extract turns uploaded résumé files into plain text.
package extract

import (
	"bytes"
	"fmt"
	"html"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"

	recruiterErrors "github.com/Elm-as/ai-recruitment-score-sub000/internal/errors"
	"github.com/Elm-as/ai-recruitment-score-sub000/internal/utils"
)

var (
	paragraphEnd = regexp.MustCompile(`</w:p>|<w:br/>|<w:br />`)
	xmlTag       = regexp.MustCompile(`<[^>]+>`)
)

// Text extracts the text of a résumé, choosing the parser from the file name
func Text(filename string, data []byte) (string, error) {
	contentType := utils.ContentTypeFor(filename)
	if contentType == "" {
		return "", recruiterErrors.NewValidationError(recruiterErrors.ErrCodeUnsupportedFileType,
			fmt.Sprintf("unsupported file type: %s", utils.GetFileExtension(filename)), nil).
			WithContext("filename", filename)
	}
	return TextFromContentType(contentType, data)
}

// TextFromContentType extracts text from data of the given content type
func TextFromContentType(contentType string, data []byte) (string, error) {
	switch contentType {
	case utils.ContentTypeText:
		if !utf8.Valid(data) {
			return "", recruiterErrors.NewValidationError(recruiterErrors.ErrCodeInvalidFormat, "text file is not valid UTF-8", nil)
		}
		return string(data), nil
	case utils.ContentTypePDF:
		return extractPDFText(data)
	case utils.ContentTypeDocx:
		return extractDocxText(data)
	default:
		return "", recruiterErrors.NewValidationError(recruiterErrors.ErrCodeUnsupportedFileType,
			fmt.Sprintf("unsupported file type: %s", contentType), nil)
	}
}

func extractPDFText(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", recruiterErrors.NewIOError(recruiterErrors.ErrCodeInvalidFormat, "failed to read pdf", err)
	}

	var text strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		content, err := page.GetPlainText(nil)
		if err != nil {
			// one unreadable page should not discard the rest of the résumé
			continue
		}
		text.WriteString(content)
		text.WriteString("\n")
	}
	return text.String(), nil
}

func extractDocxText(data []byte) (string, error) {
	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", recruiterErrors.NewIOError(recruiterErrors.ErrCodeInvalidFormat, "failed to parse docx", err)
	}
	defer doc.Close()

	return StripDocumentXML(doc.Editable().GetContent()), nil
}

// StripDocumentXML reduces WordprocessingML to its text, one line per paragraph
func StripDocumentXML(content string) string {
	content = paragraphEnd.ReplaceAllString(content, "\n")
	content = xmlTag.ReplaceAllString(content, "")
	return strings.TrimSpace(html.UnescapeString(content))
}
