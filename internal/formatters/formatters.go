package formatters

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

// Formatter interface for different output formats
type Formatter interface {
	Format(data any) (string, error)
	SupportedType() string
}

// FormatterRegistry manages all available formatters
type FormatterRegistry struct {
	formatters map[string]map[string]Formatter // format -> type -> formatter
}

// NewFormatterRegistry creates a new formatter registry with default formatters
func NewFormatterRegistry() *FormatterRegistry {
	registry := &FormatterRegistry{
		formatters: make(map[string]map[string]Formatter),
	}

	registry.RegisterFormatter("json", "any", &JSONFormatter{})
	registry.RegisterFormatter("yaml", "any", &YAMLFormatter{})
	// text and markdown fall back to YAML for types without a dedicated layout
	registry.RegisterFormatter("text", "any", &YAMLFormatter{})
	registry.RegisterFormatter("markdown", "any", &YAMLFormatter{})

	register(registry, rankedViewText, rankedViewMarkdown)
	register(registry, candidateText, candidateMarkdown)
	register(registry, positionsText, positionsMarkdown)
	register(registry, presetsText, presetsMarkdown)
	register(registry, optimizeText, optimizeMarkdown)
	register(registry, questionsText, questionsMarkdown)
	register(registry, answerText, answerMarkdown)
	register(registry, emailText, emailMarkdown)

	return registry
}

func register[T any](fr *FormatterRegistry, text, markdown func(T) string) {
	fr.RegisterFormatter("text", dataTypeOf[T](), typedFormatter[T]{render: text})
	fr.RegisterFormatter("markdown", dataTypeOf[T](), typedFormatter[T]{render: markdown})
}

// RegisterFormatter registers a new formatter for a specific format and data type
func (fr *FormatterRegistry) RegisterFormatter(format, dataType string, formatter Formatter) {
	if fr.formatters[format] == nil {
		fr.formatters[format] = make(map[string]Formatter)
	}
	fr.formatters[format][dataType] = formatter
}

// Format formats data using the appropriate formatter
func (fr *FormatterRegistry) Format(data any, format string) (string, error) {
	dataType := fmt.Sprintf("%T", data)

	if formatters, exists := fr.formatters[format]; exists {
		if formatter, exists := formatters[dataType]; exists {
			return formatter.Format(data)
		}
		if formatter, exists := formatters["any"]; exists {
			return formatter.Format(data)
		}
	}

	return "", fmt.Errorf("no formatter found for format '%s' and type '%s'", format, dataType)
}

// GetSupportedFormats returns all supported formats, sorted
func (fr *FormatterRegistry) GetSupportedFormats() []string {
	formats := make([]string, 0, len(fr.formatters))
	for format := range fr.formatters {
		formats = append(formats, format)
	}
	slices.Sort(formats)
	return formats
}

func dataTypeOf[T any]() string {
	var zero T
	return fmt.Sprintf("%T", zero)
}

// JSONFormatter handles JSON formatting for any data type
type JSONFormatter struct{}

func (jf *JSONFormatter) Format(data any) (string, error) {
	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return "", err
	}
	return string(jsonData), nil
}

func (jf *JSONFormatter) SupportedType() string {
	return "any"
}

// YAMLFormatter handles YAML formatting for any data type
type YAMLFormatter struct{}

func (yf *YAMLFormatter) Format(data any) (string, error) {
	var b strings.Builder
	enc := yaml.NewEncoder(&b)
	enc.SetIndent(2)
	if err := enc.Encode(data); err != nil {
		return "", err
	}
	if err := enc.Close(); err != nil {
		return "", err
	}
	return b.String(), nil
}

func (yf *YAMLFormatter) SupportedType() string {
	return "any"
}

// typedFormatter renders one concrete type
type typedFormatter[T any] struct {
	render func(T) string
}

func (tf typedFormatter[T]) Format(data any) (string, error) {
	v, ok := data.(T)
	if !ok {
		return "", fmt.Errorf("expected %s, got %T", dataTypeOf[T](), data)
	}
	return tf.render(v), nil
}

func (tf typedFormatter[T]) SupportedType() string {
	return dataTypeOf[T]()
}

// GlobalRegistry is the registry used by the CLI output handler
var GlobalRegistry = NewFormatterRegistry()
