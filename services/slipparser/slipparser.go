// Package slipparser extracts sender/receiver fields from a photographed
// parcel address slip using the Gemini vision API, so agents can prefill
// shipment submissions instead of retyping handwriting.
package slipparser

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	parcelTypes "parcel-delivery/types/parcel"

	"google.golang.org/genai"
)

const visionModel = "gemini-2.5-flash-lite"

type Service struct {
	apiKey string
}

func NewService(apiKey string) *Service {
	return &Service{apiKey: apiKey}
}

// Parse runs vision extraction over the slip image and returns the
// structured fields. Missing or unreadable fields come back empty.
func (s *Service) Parse(ctx context.Context, imageBytes []byte, mimeType string) (*parcelTypes.ParsedSlip, error) {
	if s.apiKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY is not set")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  s.apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	prompt := `Analyze this parcel address slip image and extract the following information. Return ONLY valid JSON.

			Extract these fields from the image. If a field is missing or unclear, use an empty string.

			Required JSON format:
			{
			"senderName": string,        // Sender's full name
			"senderContact": string,     // Sender's phone number
			"senderRegion": string,      // Sender's district or region
			"receiverName": string,      // Receiver's full name
			"receiverContact": string,   // Receiver's phone number
			"receiverRegion": string,    // Receiver's district or region
			"receiverAddress": string    // Full delivery address combined into a single readable string
			}`

	content := &genai.Content{
		Parts: []*genai.Part{
			{Text: prompt},
			{InlineData: &genai.Blob{
				MIMEType: mimeType,
				Data:     imageBytes,
			}},
		},
	}

	result, err := client.Models.GenerateContent(
		ctx,
		visionModel,
		[]*genai.Content{content},
		&genai.GenerateContentConfig{
			Temperature: genai.Ptr(float32(0.1)),
		},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to generate content with OCR: %w", err)
	}

	if len(result.Candidates) == 0 || len(result.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("no content generated by OCR")
	}

	responseText := result.Candidates[0].Content.Parts[0].Text
	if responseText == "" {
		return nil, fmt.Errorf("empty response from OCR")
	}

	jsonText := ExtractJSONFromMarkdown(responseText)

	var parsed parcelTypes.ParsedSlip
	if err := json.Unmarshal([]byte(jsonText), &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse JSON response: %w, response: %s", err, jsonText)
	}

	return &parsed, nil
}

// ExtractJSONFromMarkdown strips the ```json fences Gemini sometimes wraps
// around its answer.
func ExtractJSONFromMarkdown(text string) string {
	text = strings.TrimSpace(text)

	if strings.HasPrefix(text, "```json") && strings.HasSuffix(text, "```") {
		text = strings.TrimPrefix(text, "```json")
		text = strings.TrimSuffix(text, "```")
		return strings.TrimSpace(text)
	}
	if strings.HasPrefix(text, "```") && strings.HasSuffix(text, "```") {
		text = strings.TrimPrefix(text, "```")
		text = strings.TrimSuffix(text, "```")
		return strings.TrimSpace(text)
	}
	return text
}
