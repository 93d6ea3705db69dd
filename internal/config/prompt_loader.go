package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
)

// loadPromptsFromFiles loads custom prompts from external files if file paths are specified
func (c *Config) loadPromptsFromFiles() error {
	log.Println("[CONFIG] Starting custom prompt loading from files")

	for _, op := range Operations {
		prompts := &c.operation(op).Prompts

		if prompts.SystemFile != "" {
			content, err := c.loadPromptFromFile(prompts.SystemFile, "system", op)
			if err != nil {
				return fmt.Errorf("failed to load %s system prompt: %w", op, err)
			}
			prompts.LoadedSystem = content
		}
		if prompts.UserFile != "" {
			content, err := c.loadPromptFromFile(prompts.UserFile, "user", op)
			if err != nil {
				return fmt.Errorf("failed to load %s user prompt: %w", op, err)
			}
			prompts.LoadedUser = content
		}
	}

	c.logPromptLoadingSummary()
	return nil
}

// loadPromptFromFile loads a prompt from a file with proper error handling and logging
func (c *Config) loadPromptFromFile(filePath, promptType, operation string) (string, error) {
	absPath, err := filepath.Abs(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to resolve absolute path for %s %s prompt file '%s': %w", promptType, operation, filePath, err)
	}

	if _, err := os.Stat(absPath); os.IsNotExist(err) {
		return "", fmt.Errorf("%s %s prompt file not found: %s", promptType, operation, absPath)
	}

	content, err := os.ReadFile(absPath)
	if err != nil {
		return "", fmt.Errorf("failed to read %s %s prompt file '%s': %w", promptType, operation, absPath, err)
	}

	trimmedContent := strings.TrimSpace(string(content))
	if trimmedContent == "" {
		return "", fmt.Errorf("%s %s prompt file '%s' is empty", promptType, operation, absPath)
	}

	log.Printf("[CONFIG] Successfully loaded %s %s prompt from file: %s (%d characters)",
		promptType, operation, absPath, len(trimmedContent))

	return trimmedContent, nil
}

// validatePromptFiles validates that prompt files exist and are readable before loading
func (c *Config) validatePromptFiles() error {
	var validationErrors []string

	validateFile := func(filePath, promptType, operation string) {
		if filePath == "" {
			return
		}

		absPath, err := filepath.Abs(filePath)
		if err != nil {
			validationErrors = append(validationErrors, fmt.Sprintf("invalid path for %s %s prompt: %s", promptType, operation, filePath))
			return
		}

		if _, err := os.Stat(absPath); os.IsNotExist(err) {
			validationErrors = append(validationErrors, fmt.Sprintf("%s %s prompt file not found: %s", promptType, operation, absPath))
		}
	}

	for _, op := range Operations {
		prompts := c.operation(op).Prompts
		validateFile(prompts.SystemFile, "system", op)
		validateFile(prompts.UserFile, "user", op)
	}

	if len(validationErrors) > 0 {
		return fmt.Errorf("prompt file validation failed:\n%s", strings.Join(validationErrors, "\n"))
	}

	return nil
}

// ResolvedSystem returns the system prompt override: file content first, then the inline value
func (p PromptConfig) ResolvedSystem() string {
	if p.LoadedSystem != "" {
		return p.LoadedSystem
	}
	return p.System
}

// ResolvedUser returns the user prompt override: file content first, then the inline value
func (p PromptConfig) ResolvedUser() string {
	if p.LoadedUser != "" {
		return p.LoadedUser
	}
	return p.User
}

// logPromptLoadingSummary logs a summary of loaded prompts
func (c *Config) logPromptLoadingSummary() {
	log.Println("[CONFIG] === Custom Prompt Loading Summary ===")

	promptCount := 0
	for _, op := range Operations {
		prompts := c.operation(op).Prompts
		if prompts.ResolvedSystem() != "" {
			log.Printf("[CONFIG] %s system prompt: loaded from config/file", op)
			promptCount++
		}
		if prompts.ResolvedUser() != "" {
			log.Printf("[CONFIG] %s user prompt: loaded from config/file", op)
			promptCount++
		}
	}

	if promptCount == 0 {
		log.Println("[CONFIG] No custom prompts loaded - using built-in defaults")
	} else {
		log.Printf("[CONFIG] Total custom prompts loaded: %d", promptCount)
	}

	log.Println("[CONFIG] ==========================================")
}
