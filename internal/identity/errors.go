package identity

// ExtractionError reports that no text could be read from the document image.
// Its message is the OCR error marker itself so it can be shown to the user as-is.
type ExtractionError struct {
	Marker string
}

func (e *ExtractionError) Error() string {
	return e.Marker
}
