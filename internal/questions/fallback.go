package questions

import "formassist/pkg/models"

// Fallback returns the fixed question list used whenever nothing better can be extracted.
func Fallback() []models.Question {
	return []models.Question{
		{ID: 1, Question: "What is your full name?", FieldType: models.FieldText, Required: true},
		{ID: 2, Question: "Date of Birth (DD/MM/YYYY)", FieldType: models.FieldDate, Required: true},
		{ID: 3, Question: "Complete Address", FieldType: models.FieldText, Required: true},
		{ID: 4, Question: "Phone Number", FieldType: models.FieldPhone, Required: true},
		{ID: 5, Question: "Email Address", FieldType: models.FieldEmail, Required: false},
	}
}
