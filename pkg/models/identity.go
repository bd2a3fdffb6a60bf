package models

// DocumentType classifies an identity document.
type DocumentType string

const (
	DocumentAadhaar        DocumentType = "Aadhaar Card"
	DocumentPAN            DocumentType = "PAN Card"
	DocumentVoterID        DocumentType = "Voter ID"
	DocumentDrivingLicense DocumentType = "Driving License"
	DocumentGenericID      DocumentType = "ID Card"
)

// IdentityData holds the fields pulled from one identity document scan.
// Nil fields were not found and serialize as JSON null.
type IdentityData struct {
	RawText      string       `json:"raw_text"`
	DocumentType DocumentType `json:"document_type"`
	Name         *string      `json:"name"`
	DOB          *string      `json:"dob"`
	IDNumber     *string      `json:"id_number"`
	Address      *string      `json:"address"`
	Phone        *string      `json:"phone"`
	Email        *string      `json:"email"`
	Gender       *string      `json:"gender"`
}
