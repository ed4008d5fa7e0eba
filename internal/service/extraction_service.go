package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"invoice-extractor/internal/domain"
	apperrors "invoice-extractor/pkg/errors"

	"cloud.google.com/go/vertexai/genai"
)

const extractionPrompt = `Extract the invoice data from the attached PDF.
Return the vendor (name, address, tax id) and the invoice details (number,
date as YYYY-MM-DD, currency, subtotal, tax percent, total, PO number, PO date,
and every line item with description, unit price, quantity and line total).
Use only values present in the document; omit optional fields you cannot find.`

// ExtractionService sends PDF bytes to Gemini on Vertex AI with a fixed
// output schema and validates the structured result. There is no retry and
// no caching of results; a failed extraction is re-initiated by the client.
type ExtractionService struct {
	genaiClient  *genai.Client
	logger       domain.Logger
	defaultModel string
}

// NewExtractionService creates the Vertex AI client. A missing project id is
// a configuration error: the process cannot serve extraction at all.
func NewExtractionService(config domain.Config, logger domain.Logger) (*ExtractionService, error) {
	projectID := config.GetGoogleProjectID()
	if projectID == "" {
		return nil, apperrors.NewConfigurationError("GOOGLE_CLOUD_PROJECT must be set for invoice extraction")
	}

	client, err := genai.NewClient(context.Background(), projectID, config.GetVertexLocation())
	if err != nil {
		return nil, apperrors.NewConfigurationError(fmt.Sprintf("failed to create vertex ai client: %v", err))
	}

	return &ExtractionService{
		genaiClient:  client,
		logger:       logger,
		defaultModel: config.GetGeminiModel(),
	}, nil
}

// Extract runs a single model call over the PDF bytes and returns the
// validated structured payload.
func (s *ExtractionService) Extract(ctx context.Context, data []byte, fileName, modelName string) (*domain.ExtractionResult, error) {
	if modelName == "" {
		modelName = s.defaultModel
	}

	model := s.genaiClient.GenerativeModel(modelName)
	model.SetTemperature(0)
	model.GenerationConfig.ResponseMIMEType = "application/json"
	model.GenerationConfig.ResponseSchema = extractionResponseSchema()

	resp, err := model.GenerateContent(ctx,
		genai.Blob{MIMEType: "application/pdf", Data: data},
		genai.Text(extractionPrompt),
	)
	if err != nil {
		s.logger.Error("Gemini call failed", err, "file_name", fileName, "model", modelName)
		return nil, apperrors.NewExtractionError("extraction failed", err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return nil, apperrors.NewExtractionError("model returned no output", nil)
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if t, ok := part.(genai.Text); ok {
			sb.WriteString(string(t))
		}
	}
	raw := strings.TrimSpace(sb.String())
	if raw == "" {
		return nil, apperrors.NewExtractionError("model returned no output", nil)
	}

	result, err := parseExtractionOutput([]byte(raw))
	if err != nil {
		s.logger.Warn("Model output failed validation", "file_name", fileName, "error", err)
		return nil, err
	}

	if resp.UsageMetadata != nil {
		s.logger.Info("Invoice extracted",
			"file_name", fileName,
			"model", modelName,
			"tokens", resp.UsageMetadata.TotalTokenCount,
		)
	}

	return result, nil
}

// parseExtractionOutput validates the raw model output against the same shape
// used for manual form submission and decodes it.
func parseExtractionOutput(raw []byte) (*domain.ExtractionResult, error) {
	if err := validateJSON(extractionOutputSchema, raw); err != nil {
		return nil, apperrors.NewExtractionError("model output failed validation", err)
	}

	var result domain.ExtractionResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, apperrors.NewExtractionError("model output failed validation", err)
	}
	if result.Invoice.LineItems == nil {
		result.Invoice.LineItems = make([]domain.LineItem, 0)
	}
	return &result, nil
}

// extractionResponseSchema mirrors the invoice shape as a Vertex AI response
// schema so the model is constrained to the contract, not just prompted.
func extractionResponseSchema() *genai.Schema {
	lineItem := &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"description": {Type: genai.TypeString},
			"unitPrice":   {Type: genai.TypeNumber},
			"quantity":    {Type: genai.TypeNumber},
			"total":       {Type: genai.TypeNumber},
		},
		Required: []string{"description", "unitPrice", "quantity", "total"},
	}

	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"vendor": {
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"name":    {Type: genai.TypeString},
					"address": {Type: genai.TypeString},
					"taxId":   {Type: genai.TypeString},
				},
				Required: []string{"name"},
			},
			"invoice": {
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"number":     {Type: genai.TypeString},
					"date":       {Type: genai.TypeString},
					"currency":   {Type: genai.TypeString},
					"subtotal":   {Type: genai.TypeNumber},
					"taxPercent": {Type: genai.TypeNumber},
					"total":      {Type: genai.TypeNumber},
					"poNumber":   {Type: genai.TypeString},
					"poDate":     {Type: genai.TypeString},
					"lineItems":  {Type: genai.TypeArray, Items: lineItem},
				},
				Required: []string{"number", "date", "lineItems"},
			},
		},
		Required: []string{"vendor", "invoice"},
	}
}
