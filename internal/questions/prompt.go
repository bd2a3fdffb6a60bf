package questions

import "fmt"

const extractionPrompt = `Extract ALL field labels from this form and convert each one to a question.

FORM TEXT:
%s

RULES:
1. Look for field labels such as: Namo, Mobile, Emailid, Fathor's Namo, Gonder, Date of Bich, Marital Status, Religion, Languages Known, Qualitication, Experience, Addeoss, Place, Dat, Signature
2. Create one question for EVERY field label you find
3. Fix OCR spelling errors (Namo -> Name, Gonder -> Gender, Addeoss -> Address, Date of Bich -> Date of Birth)
4. field_type must be one of: text, phone, email, date
5. required is true for identity and contact fields, false otherwise

EXAMPLES:
"Namo" -> {"id": 1, "question": "Name", "field_type": "text", "required": true}
"Mobile" -> {"id": 2, "question": "Mobile Number", "field_type": "phone", "required": true}
"Emailid" -> {"id": 3, "question": "Email Address", "field_type": "email", "required": true}
"Fathor's Namo" -> {"id": 4, "question": "Father's Name", "field_type": "text", "required": true}
"Gonder" -> {"id": 5, "question": "Gender", "field_type": "text", "required": true}
"Date of Bich" -> {"id": 6, "question": "Date of Birth", "field_type": "date", "required": true}
"Marital Status" -> {"id": 7, "question": "Marital Status", "field_type": "text", "required": false}
"Qualitication" -> {"id": 8, "question": "Qualification", "field_type": "text", "required": false}
"Addeoss" -> {"id": 9, "question": "Address", "field_type": "text", "required": true}
"Dat" -> {"id": 10, "question": "Date", "field_type": "date", "required": false}

Return ONLY a JSON array, with no explanations before or after it:
[
  {"id": 1, "question": "Name", "field_type": "text", "required": true},
  {"id": 2, "question": "Mobile Number", "field_type": "phone", "required": true}
]`

func buildExtractionPrompt(formText string) string {
	return fmt.Sprintf(extractionPrompt, formText)
}
