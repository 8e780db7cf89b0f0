package config

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// ValidationError represents a configuration validation error with context
type ValidationError struct {
	FilePath string
	Line     int
	Column   int
	Message  string
	Field    string
}

func (e *ValidationError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s:%d:%d: %s", e.FilePath, e.Line, e.Column, e.Message)
	}
	if e.Field != "" {
		return fmt.Sprintf("field '%s': %s", e.Field, e.Message)
	}
	if e.FilePath != "" {
		return fmt.Sprintf("%s: %s", e.FilePath, e.Message)
	}
	return e.Message
}

// ValidateYAMLSyntax checks if the YAML file has valid syntax.
// Returns nil if valid, or a ValidationError with line/column information if invalid.
func ValidateYAMLSyntax(filePath string) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // Missing file is not an error - will use defaults
		}
		if os.IsPermission(err) {
			return &ValidationError{
				FilePath: filePath,
				Message:  "permission denied",
			}
		}
		return &ValidationError{
			FilePath: filePath,
			Message:  err.Error(),
		}
	}

	// Empty file is valid - will use defaults
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil
	}

	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		var typeError *yaml.TypeError
		if errors.As(err, &typeError) {
			return &ValidationError{
				FilePath: filePath,
				Message:  strings.Join(typeError.Errors, "; "),
			}
		}

		line, column := extractLineColumn(err.Error())
		return &ValidationError{
			FilePath: filePath,
			Line:     line,
			Column:   column,
			Message:  cleanYAMLError(err.Error()),
		}
	}

	return nil
}

// ownerRepoPattern matches the characters GitHub allows in owner and
// repository names.
var ownerRepoPattern = regexp.MustCompile(`^[\w.-]+$`)

// ValidateConfigValues validates the merged configuration against its
// constraints. Returns nil if valid, or a ValidationError naming the
// offending field.
func ValidateConfigValues(cfg *Configuration) error {
	validate := validator.New()
	validate.RegisterTagNameFunc(koanfFieldName)

	if err := validate.Struct(cfg); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			for _, fieldErr := range validationErrors {
				return &ValidationError{
					Field:   fieldPath(fieldErr),
					Message: formatValidationError(fieldErr),
				}
			}
		}
		return &ValidationError{Message: err.Error()}
	}

	if strings.ContainsAny(cfg.TagPrefix, " \t") {
		return &ValidationError{
			Field:   "tag_prefix",
			Message: "must not contain whitespace",
		}
	}

	if (cfg.Github.Owner == "") != (cfg.Github.Repo == "") {
		return &ValidationError{
			Field:   "github.owner",
			Message: "github.owner and github.repo must be set together",
		}
	}
	if cfg.Github.Owner != "" && !ownerRepoPattern.MatchString(cfg.Github.Owner) {
		return &ValidationError{
			Field:   "github.owner",
			Message: "contains characters not allowed in a GitHub owner name",
		}
	}
	if cfg.Github.Repo != "" && !ownerRepoPattern.MatchString(cfg.Github.Repo) {
		return &ValidationError{
			Field:   "github.repo",
			Message: "contains characters not allowed in a GitHub repository name",
		}
	}

	// The registry constructor enforces the table invariants: non-empty
	// prefixes and a section for every visible entry.
	if _, err := cfg.Registry(); err != nil {
		return &ValidationError{
			Field:   "categories",
			Message: err.Error(),
		}
	}

	return nil
}

// koanfFieldName reports a struct field by its koanf tag so validation
// errors use the same names the config file does.
func koanfFieldName(fld reflect.StructField) string {
	name := strings.SplitN(fld.Tag.Get("koanf"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	return name
}

// fieldPath strips the root struct name from a validation namespace,
// turning Configuration.github.api_base_url into github.api_base_url.
func fieldPath(fieldErr validator.FieldError) string {
	ns := fieldErr.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

// extractLineColumn attempts to extract line and column numbers from a YAML error message.
// Returns 0, 0 if unable to extract.
func extractLineColumn(errMsg string) (line, column int) {
	// yaml.v3 errors look like: "yaml: line 5: could not find expected ':'"
	var l, c int
	if n, _ := fmt.Sscanf(errMsg, "yaml: line %d: column %d:", &l, &c); n == 2 {
		return l, c
	}
	if n, _ := fmt.Sscanf(errMsg, "yaml: line %d:", &l); n == 1 {
		return l, 1
	}
	return 0, 0
}

// cleanYAMLError removes the "yaml: line X:" prefix from error messages for cleaner output.
func cleanYAMLError(errMsg string) string {
	if idx := strings.LastIndex(errMsg, ": "); idx > 0 {
		if strings.HasPrefix(errMsg, "yaml:") {
			return errMsg[idx+2:]
		}
	}
	return errMsg
}

// formatValidationError formats a validation error for a specific field.
func formatValidationError(fieldErr validator.FieldError) string {
	switch fieldErr.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("must be at least %s", fieldErr.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", fieldErr.Param())
	case "url":
		return "must be a valid URL"
	default:
		return fmt.Sprintf("failed validation: %s", fieldErr.Tag())
	}
}
