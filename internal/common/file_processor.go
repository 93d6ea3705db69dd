package common

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	recruiterErrors "github.com/Elm-as/ai-recruitment-score-sub000/internal/errors"
	"github.com/Elm-as/ai-recruitment-score-sub000/internal/extract"
	"github.com/Elm-as/ai-recruitment-score-sub000/internal/utils"
)

// FileProcessor handles common file operations
type FileProcessor struct {
	logger *recruiterErrors.Logger
}

// NewFileProcessor creates a new file processor instance
func NewFileProcessor(logger *recruiterErrors.Logger) *FileProcessor {
	return &FileProcessor{logger: logger}
}

// ReadFile reads raw bytes from a file with proper error handling
func (fp *FileProcessor) ReadFile(filename string) ([]byte, error) {
	file, err := os.Open(filename)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, recruiterErrors.NewIOError(recruiterErrors.ErrCodeFileNotFound,
				fmt.Sprintf("File not found: %s", filename), err)
		}
		return nil, recruiterErrors.NewIOError(recruiterErrors.ErrCodeFileNotReadable,
			fmt.Sprintf("Cannot read file: %s", filename), err)
	}
	defer func() {
		if err := file.Close(); err != nil && fp.logger != nil {
			fp.logger.Warn("Failed to close file", "filename", filename, "error", err)
		}
	}()

	content, err := io.ReadAll(file)
	if err != nil {
		return nil, recruiterErrors.NewIOError(recruiterErrors.ErrCodeFileNotReadable,
			fmt.Sprintf("Failed to read file content: %s", filename), err)
	}

	return content, nil
}

// WriteFile writes content to a file with directory creation
func (fp *FileProcessor) WriteFile(filename, content string) error {
	dir := filepath.Dir(filename)
	if dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return recruiterErrors.NewIOError("DIRECTORY_CREATE_FAILED",
				fmt.Sprintf("Cannot create directory: %s", dir), err)
		}
	}

	if err := os.WriteFile(filename, []byte(content), 0600); err != nil {
		return recruiterErrors.NewIOError("FILE_WRITE_FAILED",
			fmt.Sprintf("Cannot write file: %s", filename), err)
	}

	return nil
}

// ReadDocument validates a résumé or job description file and returns its
// text. PDF and DOCX files are converted; other files are read as plain text.
func (fp *FileProcessor) ReadDocument(filename string, maxSize int64) (string, []byte, error) {
	if err := utils.ValidateInputFile(filename, maxSize); err != nil {
		return "", nil, recruiterErrors.NewValidationError("INVALID_INPUT_FILE",
			fmt.Sprintf("Invalid file %s", filename), err)
	}

	data, err := fp.ReadFile(filename)
	if err != nil {
		return "", nil, err
	}

	if utils.ContentTypeFor(filename) == "" {
		if fp.logger != nil {
			fp.logger.Warn("File may not be a text file, reading as plain text", "filename", filename)
		} else {
			fmt.Fprintf(os.Stderr, "Warning: %s may not be a text file\n", filename)
		}
		return string(data), data, nil
	}

	text, err := extract.Text(filename, data)
	if err != nil {
		return "", nil, err
	}
	return text, data, nil
}

// ValidateOutputFile validates output file path
func (fp *FileProcessor) ValidateOutputFile(filename string) error {
	if filename == "" {
		return nil // stdout is valid
	}

	if err := utils.ValidateOutputFile(filename); err != nil {
		return recruiterErrors.NewValidationError("INVALID_OUTPUT_FILE",
			fmt.Sprintf("Invalid output file: %s", filename), err)
	}

	return nil
}
