package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/afeef2003/Resume-analyzer/services/analyzer/datatypes"
)

// ErrOutputParse marks a model response that did not conform to the
// requested schema. Callers treat this as an expected, recoverable
// condition and fall back to a degraded default; any other error from
// GenerateStructured is a hard provider failure.
var ErrOutputParse = errors.New("model output does not match the expected schema")

// FormatInstructions returns the schema clause appended to every
// structured-output prompt.
func FormatInstructions(example string) string {
	return fmt.Sprintf(
		"Respond with a single JSON object matching this shape, and nothing else:\n%s", example)
}

// GenerateStructured calls the model and decodes the response into out.
//
// Description:
//
//	Runs one completion, strips any surrounding code fence, unmarshals the
//	JSON payload into out and validates it against the datatypes rules.
//	Schema violations (malformed JSON, missing fields, invariant breaks
//	such as end_year < start_year) return an error wrapping ErrOutputParse.
//	Provider failures pass through unwrapped.
//
// Inputs:
//
//	ctx - Context bounding the model call.
//	client - The LLM backend. Must not be nil.
//	prompt - Full prompt text, including format instructions.
//	params - Sampling parameters forwarded to the backend.
//	out - Pointer to the schema struct to populate.
//
// Outputs:
//
//	error - nil, an ErrOutputParse wrap, or the provider error.
func GenerateStructured(ctx context.Context, client Client, prompt string, params GenerationParams, out any) error {
	raw, err := client.Generate(ctx, prompt, params)
	if err != nil {
		return err
	}

	payload := extractJSON(raw)
	if payload == "" {
		return fmt.Errorf("%w: no JSON object in response", ErrOutputParse)
	}

	if err := json.Unmarshal([]byte(payload), out); err != nil {
		return fmt.Errorf("%w: %v", ErrOutputParse, err)
	}
	if err := datatypes.Validate(out); err != nil {
		return fmt.Errorf("%w: %v", ErrOutputParse, err)
	}
	return nil
}

// extractJSON pulls the outermost JSON object out of a completion that may
// wrap it in prose or a ```json fence.
func extractJSON(raw string) string {
	s := strings.TrimSpace(raw)
	if i := strings.Index(s, "```"); i >= 0 {
		s = s[i+3:]
		s = strings.TrimPrefix(s, "json")
		if j := strings.Index(s, "```"); j >= 0 {
			s = s[:j]
		}
	}
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start < 0 || end <= start {
		return ""
	}
	return s[start : end+1]
}
