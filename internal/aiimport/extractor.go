package aiimport

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/invopop/jsonschema"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/packages/param"
	"github.com/openai/openai-go/responses"
	"github.com/openai/openai-go/shared"
	"github.com/openai/openai-go/shared/constant"
)

// Extractor parses free-form BOM text into structured items.
type Extractor interface {
	Extract(ctx context.Context, text string, opts Options) (Extraction, error)
}

// Agent asks a language model for the extraction, constrained to the
// Extraction JSON schema so the answer always parses.
type Agent struct {
	client *openai.Client
}

func NewAgent(apiKey string) *Agent {
	client := openai.NewClient(option.WithAPIKey(apiKey))
	return &Agent{client: &client}
}

func (a *Agent) Extract(ctx context.Context, text string, opts Options) (Extraction, error) {
	categories := "Vision, Motion, Controls, Pneumatics, Fabrication, or Electrical"
	if len(opts.KnownCategories) > 0 {
		categories = strings.Join(opts.KnownCategories, ", ")
	}
	makeHint := ""
	if len(opts.KnownMakes) > 0 {
		makeHint = fmt.Sprintf("\n6. Known manufacturers for this project: %s.", strings.Join(opts.KnownMakes, ", "))
	}
	prompt := fmt.Sprintf(`You are a procurement assistant for an industrial automation integrator.
Extract every bill-of-materials line item from the text below.
Rules:
1. One entry per distinct part or service.
2. Quantity defaults to 1 when the text gives none.
3. Category should be a short grouping like %s.
4. Keep manufacturer names in the make field, part numbers in sku.
5. Do not invent items that are not in the text.%s

Text:
%s`, categories, makeHint, text)

	schemaStruct := generateSchema()
	schemaJSON, err := json.Marshal(schemaStruct)
	if err != nil {
		return Extraction{}, fmt.Errorf("failed to marshal schema: %w", err)
	}
	var schemaMap map[string]any
	if err := json.Unmarshal(schemaJSON, &schemaMap); err != nil {
		return Extraction{}, fmt.Errorf("failed to unmarshal schema to map: %w", err)
	}

	params := responses.ResponseNewParams{
		Model: shared.ResponsesModel(shared.ChatModelGPT4o),
		Input: responses.ResponseNewParamsInputUnion{
			OfString: param.NewOpt(prompt),
		},
		Text: responses.ResponseTextConfigParam{
			Format: responses.ResponseFormatTextConfigUnionParam{
				OfJSONSchema: &responses.ResponseFormatTextJSONSchemaConfigParam{
					Type:        constant.JSONSchema("json_schema"),
					Name:        "bom_extraction",
					Strict:      param.NewOpt(true),
					Schema:      schemaMap,
					Description: param.NewOpt("Bill-of-materials line items extracted from pasted text"),
				},
			},
		},
	}

	resp, err := a.client.Responses.New(ctx, params)
	if err != nil {
		return Extraction{}, fmt.Errorf("openai responses error: %w", err)
	}

	content := resp.OutputText()
	if content == "" {
		return Extraction{}, fmt.Errorf("empty response content")
	}

	var extraction Extraction
	if err := json.Unmarshal([]byte(content), &extraction); err != nil {
		return Extraction{}, fmt.Errorf("failed to parse completion: %w", err)
	}
	extraction.TotalItems = len(extraction.Items)
	return extraction, nil
}

func generateSchema() interface{} {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	var v Extraction
	return reflector.Reflect(v)
}
