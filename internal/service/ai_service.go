package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"vetcare/internal/port"
)

// Placeholder texts returned when no provider is configured or it fails.
const (
	summaryPlaceholder   = "AI summary is unavailable right now. Please review the patient history manually."
	diagnosisPlaceholder = "AI diagnosis suggestions are unavailable right now. Please rely on clinical judgement."
	identifyPlaceholder  = "AI identification is unavailable right now."
)

// SummaryInput is the DTO for patient-history summaries.
type SummaryInput struct {
	PatientName string `json:"patientName"`
	Species     string `json:"species"`
	History     string `json:"history" binding:"required"`
}

// DiagnosisInput is the DTO for differential-diagnosis suggestions.
type DiagnosisInput struct {
	Species  string `json:"species"`
	Breed    string `json:"breed"`
	Age      string `json:"age"`
	Symptoms string `json:"symptoms" binding:"required"`
	Vitals   string `json:"vitals"`
}

// IdentifyInput is an image of an animal to identify.
type IdentifyInput struct {
	Image       []byte
	ContentType string
}

// AIResult is the text produced for the caller. Fallback marks placeholder
// output.
type AIResult struct {
	Text     string `json:"text"`
	Fallback bool   `json:"fallback"`
}

// AIService is a thin pass-through to the configured text generator.
type AIService interface {
	Summary(ctx context.Context, input SummaryInput) *AIResult
	Diagnosis(ctx context.Context, input DiagnosisInput) *AIResult
	Identify(ctx context.Context, input IdentifyInput) *AIResult
}

type aiService struct {
	gen port.TextGenerator
}

// NewAIService creates a new AIService. A nil generator always yields the
// placeholders.
func NewAIService(gen port.TextGenerator) AIService {
	return &aiService{gen: gen}
}

func (s *aiService) Summary(ctx context.Context, input SummaryInput) *AIResult {
	prompt := fmt.Sprintf(
		"You are assisting a veterinarian. Summarize the clinical history of %s (%s) in a short paragraph, "+
			"highlighting chronic conditions, allergies and recent treatments.\n\nHistory:\n%s",
		orUnknown(input.PatientName), orUnknown(input.Species), input.History)
	return s.generate(ctx, "summary", port.GenerateInput{Prompt: prompt}, summaryPlaceholder)
}

func (s *aiService) Diagnosis(ctx context.Context, input DiagnosisInput) *AIResult {
	var b strings.Builder
	b.WriteString("You are assisting a veterinarian. List the most likely differential diagnoses ")
	b.WriteString("with a one-line rationale and suggested diagnostics for each.\n\n")
	fmt.Fprintf(&b, "Species: %s\nBreed: %s\nAge: %s\n", orUnknown(input.Species), orUnknown(input.Breed), orUnknown(input.Age))
	if input.Vitals != "" {
		fmt.Fprintf(&b, "Vitals: %s\n", input.Vitals)
	}
	fmt.Fprintf(&b, "Symptoms: %s\n", input.Symptoms)
	return s.generate(ctx, "diagnosis", port.GenerateInput{Prompt: b.String()}, diagnosisPlaceholder)
}

func (s *aiService) Identify(ctx context.Context, input IdentifyInput) *AIResult {
	return s.generate(ctx, "identify", port.GenerateInput{
		Prompt:      "Identify the species and most likely breed of the animal in this photo. Answer in one sentence.",
		Image:       input.Image,
		ContentType: input.ContentType,
	}, identifyPlaceholder)
}

func (s *aiService) generate(ctx context.Context, kind string, input port.GenerateInput, placeholder string) *AIResult {
	if s.gen == nil {
		return &AIResult{Text: placeholder, Fallback: true}
	}
	text, err := s.gen.Generate(ctx, input)
	if err != nil {
		zap.L().Warn("ai generation failed", zap.String("kind", kind), zap.Error(err))
		return &AIResult{Text: placeholder, Fallback: true}
	}
	return &AIResult{Text: text}
}

func orUnknown(s string) string {
	if strings.TrimSpace(s) == "" {
		return "unknown"
	}
	return s
}
