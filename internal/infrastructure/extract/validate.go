package extract

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// fieldChecks backs the email type rule; one validator instance is safe
// for concurrent use
var fieldChecks = validator.New()

// Validation error codes
const (
	ErrCodeValidation      = "ERR_VALIDATION"
	ErrCodeRequiredField   = "ERR_REQUIRED_FIELD"
	ErrCodeInvalidType     = "ERR_INVALID_TYPE"
	ErrCodeInvalidLength   = "ERR_INVALID_LENGTH"
	ErrCodeInvalidRange    = "ERR_INVALID_RANGE"
	ErrCodePatternMismatch = "ERR_PATTERN_MISMATCH"
)

// RowError represents an error in a specific row
type RowError struct {
	Row     int    `json:"row"`
	File    string `json:"file,omitempty"`
	Column  string `json:"column"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Value   string `json:"value,omitempty"`
}

// Error implements the error interface
func (e RowError) Error() string {
	if e.Column != "" {
		return fmt.Sprintf("row %d, column '%s': %s", e.Row, e.Column, e.Message)
	}
	return fmt.Sprintf("row %d: %s", e.Row, e.Message)
}

// NewRowError creates a new RowError
func NewRowError(row int, column, code, message string) RowError {
	return RowError{Row: row, Column: column, Code: code, Message: message}
}

// ErrorCollection accumulates row errors up to a cap. Errors past the cap
// are counted but not stored.
type ErrorCollection struct {
	errors     []RowError
	maxErrors  int
	totalCount int
}

// NewErrorCollection creates a collection with a maximum stored-error limit
func NewErrorCollection(maxErrors int) *ErrorCollection {
	if maxErrors <= 0 {
		maxErrors = 100
	}
	return &ErrorCollection{
		errors:    make([]RowError, 0, maxErrors),
		maxErrors: maxErrors,
	}
}

// Add adds an error to the collection
func (ec *ErrorCollection) Add(err RowError) {
	ec.totalCount++
	if len(ec.errors) < ec.maxErrors {
		ec.errors = append(ec.errors, err)
	}
}

// Errors returns the stored errors
func (ec *ErrorCollection) Errors() []RowError {
	return ec.errors
}

// TotalCount returns the total number of errors including uncollected ones
func (ec *ErrorCollection) TotalCount() int {
	return ec.totalCount
}

// HasErrors returns true if any error was added
func (ec *ErrorCollection) HasErrors() bool {
	return ec.totalCount > 0
}

// IsTruncated returns true if some errors were dropped due to the limit
func (ec *ErrorCollection) IsTruncated() bool {
	return ec.totalCount > ec.maxErrors
}

// FieldType represents the expected type of a field
type FieldType string

const (
	TypeRuleString  FieldType = "string"
	TypeRuleDecimal FieldType = "decimal"
	TypeRuleDate    FieldType = "date"
	TypeRuleEmail   FieldType = "email"
)

// FieldRule defines validation rules for one target field
type FieldRule struct {
	Column      string
	Type        FieldType
	Required    bool
	MinLength   int
	MaxLength   int
	MinValue    *decimal.Decimal
	Pattern     *regexp.Regexp
	PatternDesc string
	DateFormats []string
	CustomFunc  func(value string) error
}

// FieldRuleBuilder helps build field rules fluently
type FieldRuleBuilder struct {
	rule FieldRule
}

// Field creates a new field rule builder
func Field(column string) *FieldRuleBuilder {
	return &FieldRuleBuilder{
		rule: FieldRule{
			Column:      column,
			Type:        TypeRuleString,
			DateFormats: dateLayouts,
		},
	}
}

// Required marks the field as required
func (b *FieldRuleBuilder) Required() *FieldRuleBuilder {
	b.rule.Required = true
	return b
}

// String sets the field type to string
func (b *FieldRuleBuilder) String() *FieldRuleBuilder {
	b.rule.Type = TypeRuleString
	return b
}

// Decimal sets the field type to decimal
func (b *FieldRuleBuilder) Decimal() *FieldRuleBuilder {
	b.rule.Type = TypeRuleDecimal
	return b
}

// Date sets the field type to date
func (b *FieldRuleBuilder) Date() *FieldRuleBuilder {
	b.rule.Type = TypeRuleDate
	return b
}

// Email sets the field type to email
func (b *FieldRuleBuilder) Email() *FieldRuleBuilder {
	b.rule.Type = TypeRuleEmail
	return b
}

// MinLength sets the minimum length
func (b *FieldRuleBuilder) MinLength(n int) *FieldRuleBuilder {
	b.rule.MinLength = n
	return b
}

// MaxLength sets the maximum length
func (b *FieldRuleBuilder) MaxLength(n int) *FieldRuleBuilder {
	b.rule.MaxLength = n
	return b
}

// MinValue sets the minimum numeric value
func (b *FieldRuleBuilder) MinValue(v decimal.Decimal) *FieldRuleBuilder {
	b.rule.MinValue = &v
	return b
}

// Pattern sets a regex pattern for validation
func (b *FieldRuleBuilder) Pattern(pattern, description string) *FieldRuleBuilder {
	b.rule.Pattern = regexp.MustCompile(pattern)
	b.rule.PatternDesc = description
	return b
}

// Custom sets a custom validation function
func (b *FieldRuleBuilder) Custom(fn func(value string) error) *FieldRuleBuilder {
	b.rule.CustomFunc = fn
	return b
}

// Build returns the built field rule
func (b *FieldRuleBuilder) Build() FieldRule {
	return b.rule
}

// FieldValidator validates mapped row values according to rules
type FieldValidator struct {
	rules  []FieldRule
	errors *ErrorCollection
}

// NewFieldValidator creates a new field validator
func NewFieldValidator(rules []FieldRule, maxErrors int) *FieldValidator {
	return &FieldValidator{
		rules:  rules,
		errors: NewErrorCollection(maxErrors),
	}
}

// ValidateValues validates one row's mapped values against the rules.
// Returns true when the row passed.
func (v *FieldValidator) ValidateValues(line int, values map[string]string) bool {
	hasError := false

	for _, rule := range v.rules {
		value := values[rule.Column]

		if rule.Required && value == "" {
			v.errors.Add(NewRowError(line, rule.Column, ErrCodeRequiredField,
				fmt.Sprintf("field '%s' is required", rule.Column)))
			hasError = true
			continue
		}
		if value == "" {
			continue
		}

		if err := validateFieldType(value, rule); err != nil {
			v.errors.Add(RowError{Row: line, Column: rule.Column, Code: ErrCodeInvalidType,
				Message: fmt.Sprintf("expected %s", rule.Type), Value: value})
			hasError = true
			continue
		}

		if rule.MaxLength > 0 && len(value) > rule.MaxLength {
			v.errors.Add(NewRowError(line, rule.Column, ErrCodeInvalidLength,
				fmt.Sprintf("length must be at most %d", rule.MaxLength)))
			hasError = true
		}
		if rule.MinLength > 0 && len(value) < rule.MinLength {
			v.errors.Add(NewRowError(line, rule.Column, ErrCodeInvalidLength,
				fmt.Sprintf("length must be at least %d", rule.MinLength)))
			hasError = true
		}

		if rule.Type == TypeRuleDecimal && rule.MinValue != nil {
			if d, err := decimal.NewFromString(value); err == nil && d.LessThan(*rule.MinValue) {
				v.errors.Add(NewRowError(line, rule.Column, ErrCodeInvalidRange,
					fmt.Sprintf("value must be at least %s", rule.MinValue.String())))
				hasError = true
			}
		}

		if rule.Pattern != nil && !rule.Pattern.MatchString(value) {
			v.errors.Add(RowError{Row: line, Column: rule.Column, Code: ErrCodePatternMismatch,
				Message: fmt.Sprintf("value does not match pattern '%s'", rule.PatternDesc), Value: value})
			hasError = true
		}

		if rule.CustomFunc != nil {
			if err := rule.CustomFunc(value); err != nil {
				v.errors.Add(NewRowError(line, rule.Column, ErrCodeValidation, err.Error()))
				hasError = true
			}
		}
	}

	return !hasError
}

// Errors returns the error collection
func (v *FieldValidator) Errors() *ErrorCollection {
	return v.errors
}

func validateFieldType(value string, rule FieldRule) error {
	switch rule.Type {
	case TypeRuleString:
		return nil
	case TypeRuleDecimal:
		_, err := decimal.NewFromString(strings.ReplaceAll(value, ",", ""))
		return err
	case TypeRuleDate:
		for _, layout := range rule.DateFormats {
			if _, err := time.Parse(layout, value); err == nil {
				return nil
			}
		}
		return fmt.Errorf("unrecognized date: %s", value)
	case TypeRuleEmail:
		return fieldChecks.Var(value, "email")
	}
	return nil
}

// ParseDate parses a value with the layouts the validator accepts
func ParseDate(value string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date: %s", value)
}
