package models

// FieldType is the kind of input a form question expects.
type FieldType string

const (
	FieldText  FieldType = "text"
	FieldPhone FieldType = "phone"
	FieldEmail FieldType = "email"
	FieldDate  FieldType = "date"
)

// Valid reports whether f is one of the supported field types.
func (f FieldType) Valid() bool {
	switch f {
	case FieldText, FieldPhone, FieldEmail, FieldDate:
		return true
	}
	return false
}

// Question is a single form field rendered as something to ask the user.
type Question struct {
	ID        int       `json:"id"`        // 1-based, sequential within one extraction
	Question  string    `json:"question"`  // Canonical question text
	FieldType FieldType `json:"field_type"` // text, phone, email or date
	Required  bool      `json:"required"`
}

// ValidationResult is the verdict on a single answer.
type ValidationResult struct {
	IsValid    bool   `json:"is_valid"`
	Suggestion string `json:"suggestion"` // Empty when IsValid
}
