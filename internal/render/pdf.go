// Package render produces the completed form as a PDF document.
package render

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/google/uuid"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"formassist/pkg/models"
)

// document mirrors the JSON page description consumed by pdfcpu's create command.
type document struct {
	Paper string           `json:"paper"`
	Pages map[string]*page `json:"pages"`
}

type page struct {
	Content content `json:"content"`
}

type content struct {
	Text []textBox `json:"text"`
}

type textBox struct {
	Value    string     `json:"value"`
	Position [2]float64 `json:"pos"`
	Font     font       `json:"font"`
}

type font struct {
	Name string `json:"name"`
	Size int    `json:"size"`
}

// Render builds the A4 PDF for req.
func Render(req models.FillRequest) ([]byte, error) {
	layout, err := json.Marshal(paginate(buildLines(req)))
	if err != nil {
		return nil, fmt.Errorf("encode page layout: %w", err)
	}

	var out bytes.Buffer
	if err := api.Create(nil, bytes.NewReader(layout), &out, model.NewDefaultConfiguration()); err != nil {
		return nil, fmt.Errorf("create pdf: %w", err)
	}
	return out.Bytes(), nil
}

// WriteFile renders req into dir under a unique name and returns the path.
func WriteFile(dir string, req models.FillRequest) (string, error) {
	data, err := Render(req)
	if err != nil {
		return "", err
	}
	return Save(dir, data)
}

// Save stores an already rendered PDF in dir as filled_form_<uuid>.pdf.
func Save(dir string, data []byte) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create output directory: %w", err)
	}

	path := filepath.Join(dir, fmt.Sprintf("filled_form_%s.pdf", uuid.NewString()))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write pdf: %w", err)
	}
	return path, nil
}

// paginate places lines top to bottom, starting a new page when the bottom
// margin is reached. Positions use the PDF lower-left origin.
func paginate(lines []line) document {
	doc := document{Paper: "A4", Pages: map[string]*page{}}

	pageNo := 1
	current := &page{}
	doc.Pages[strconv.Itoa(pageNo)] = current
	y := pageHeight - marginTop

	for i, l := range lines {
		if i > 0 {
			y -= l.height()
		}
		if y < marginBottom {
			pageNo++
			current = &page{}
			doc.Pages[strconv.Itoa(pageNo)] = current
			y = pageHeight - marginTop
		}
		current.Content.Text = append(current.Content.Text, textBox{
			Value:    l.text,
			Position: [2]float64{marginLeft + l.indent, y},
			Font:     font{Name: l.font, Size: l.size},
		})
	}
	return doc
}
