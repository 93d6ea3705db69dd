package extract_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	recruiterErrors "github.com/Elm-as/ai-recruitment-score-sub000/internal/errors"
	"github.com/Elm-as/ai-recruitment-score-sub000/internal/extract"
)

func TestText_PlainText(t *testing.T) {
	out, err := extract.Text("cv.md", []byte("# Jane Doe\nGo engineer"))
	require.NoError(t, err)
	assert.Equal(t, "# Jane Doe\nGo engineer", out)
}

func TestText_InvalidUTF8(t *testing.T) {
	_, err := extract.Text("cv.txt", []byte{0xff, 0xfe, 0xfd})
	require.Error(t, err)
	assert.Equal(t, recruiterErrors.ErrCodeInvalidFormat, recruiterErrors.CodeOf(err))
}

func TestText_UnsupportedType(t *testing.T) {
	_, err := extract.Text("photo.png", []byte{1, 2, 3})
	require.Error(t, err)
	assert.Equal(t, recruiterErrors.ErrorTypeValidation, recruiterErrors.TypeOf(err))
	assert.Equal(t, recruiterErrors.ErrCodeUnsupportedFileType, recruiterErrors.CodeOf(err))
}

func TestText_CorruptPDF(t *testing.T) {
	_, err := extract.Text("cv.pdf", []byte("definitely not a pdf"))
	require.Error(t, err)
	assert.Equal(t, recruiterErrors.ErrCodeInvalidFormat, recruiterErrors.CodeOf(err))
}

func TestText_CorruptDocx(t *testing.T) {
	_, err := extract.Text("cv.docx", []byte("not a zip archive"))
	require.Error(t, err)
	assert.Equal(t, recruiterErrors.ErrCodeInvalidFormat, recruiterErrors.CodeOf(err))
}

func TestStripDocumentXML(t *testing.T) {
	xml := `<w:document><w:body><w:p><w:r><w:t>Jane Doe</w:t></w:r></w:p>` +
		`<w:p><w:r><w:t>Skills: Go &amp; Rust</w:t></w:r><w:br/><w:r><w:t>Paris</w:t></w:r></w:p></w:body></w:document>`

	assert.Equal(t, "Jane Doe\nSkills: Go & Rust\nParis", extract.StripDocumentXML(xml))
}
