package questions_test

import (
	"context"
	"fmt"

	"formassist/internal/llm"
	"formassist/internal/questions"
)

// ExampleDetector_Detect shows a sparse form being completed by the model.
func ExampleDetector_Detect() {
	gen := llm.GeneratorFunc(func(ctx context.Context, prompt string) (string, error) {
		return "```json\n[{\"question\": \"Name\", \"field_type\": \"text\", \"required\": true}, {\"question\": \"Place\"}]\n```", nil
	})

	detector := questions.NewDetector(gen)
	for _, q := range detector.Detect(context.Background(), "Namo ______\nPlace ______") {
		fmt.Printf("%d. %s (%s, required=%t)\n", q.ID, q.Question, q.FieldType, q.Required)
	}
	// Output:
	// 1. Name (text, required=true)
	// 2. Place (text, required=false)
}

// ExampleFallback lists the questions used when a form cannot be read.
func ExampleFallback() {
	for _, q := range questions.Fallback() {
		fmt.Println(q.ID, q.Question)
	}
	// Output:
	// 1 What is your full name?
	// 2 Date of Birth (DD/MM/YYYY)
	// 3 Complete Address
	// 4 Phone Number
	// 5 Email Address
}
