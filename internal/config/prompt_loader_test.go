package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writePrompt(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestLoadPromptsFromFiles(t *testing.T) {
	tempDir := t.TempDir()
	systemFile := writePrompt(t, tempDir, "system.analyze.md", "  Test system prompt for analysis\n")
	userFile := writePrompt(t, tempDir, "user.email.md", "Draft a %s email")

	config := &Config{
		AI: AIConfig{
			Analyze: OperationAIConfig{Prompts: PromptConfig{SystemFile: systemFile}},
			Email:   OperationAIConfig{Prompts: PromptConfig{UserFile: userFile, User: "inline"}},
		},
	}

	require.NoError(t, config.loadPromptsFromFiles())

	assert.Equal(t, "Test system prompt for analysis", config.AI.Analyze.Prompts.LoadedSystem)
	assert.Equal(t, "Draft a %s email", config.AI.Email.Prompts.LoadedUser)
	assert.Equal(t, systemFile, config.AI.Analyze.Prompts.SystemFile, "file paths are preserved")

	// file content wins over the inline value
	assert.Equal(t, "Draft a %s email", config.GetOperationConfig(OperationEmail).Prompts.ResolvedUser())
	assert.Equal(t, "", config.GetOperationConfig(OperationInterview).Prompts.ResolvedSystem())
}

func TestResolvedPromptInlineFallback(t *testing.T) {
	p := PromptConfig{System: "inline system", User: "inline user"}
	assert.Equal(t, "inline system", p.ResolvedSystem())
	assert.Equal(t, "inline user", p.ResolvedUser())
}

func TestValidatePromptFiles(t *testing.T) {
	tempDir := t.TempDir()
	validFile := writePrompt(t, tempDir, "valid.md", "Valid content")

	config := &Config{
		AI: AIConfig{
			Interview: OperationAIConfig{Prompts: PromptConfig{SystemFile: validFile}},
		},
	}
	assert.NoError(t, config.validatePromptFiles())

	config.AI.Answer.Prompts.UserFile = filepath.Join(tempDir, "nonexistent.md")
	err := config.validatePromptFiles()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "user answer prompt file not found")
}

func TestLoadPromptFromFile(t *testing.T) {
	tempDir := t.TempDir()
	config := &Config{}

	content, err := config.loadPromptFromFile(writePrompt(t, tempDir, "test.md", "Test prompt content"), "system", OperationAnalyze)
	require.NoError(t, err)
	assert.Equal(t, "Test prompt content", content)

	_, err = config.loadPromptFromFile(writePrompt(t, tempDir, "empty.md", " \n"), "system", OperationAnalyze)
	assert.Error(t, err, "empty file")

	_, err = config.loadPromptFromFile(filepath.Join(tempDir, "nonexistent.md"), "system", OperationAnalyze)
	assert.Error(t, err, "missing file")
}
