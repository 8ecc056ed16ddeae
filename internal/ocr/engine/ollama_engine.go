package engine

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/rotisserie/eris"

	"ocrclip/internal/logger"
	"ocrclip/internal/ocr"
)

// OllamaEngine asks a local vision model served by Ollama to transcribe an image
// line by line.
type OllamaEngine struct {
	baseURL string
	model   string
	client  *http.Client
}

type OllamaRequest struct {
	Model  string   `json:"model"`
	Prompt string   `json:"prompt"`
	Images []string `json:"images"`
	Stream bool     `json:"stream"`
}

type OllamaResponse struct {
	Response string `json:"response"`
	Done     bool   `json:"done"`
	Error    string `json:"error,omitempty"`
}

const (
	DefaultOllamaBaseURL = "http://localhost:11434"
	DefaultOllamaModel   = "llama3.2-vision"
)

const ollamaPrompt = `
You are an OCR engine.
Transcribe every line of text visible in the image, top to bottom, left to right.
The language hint for the text is: %s

Return **only** a JSON array with one object per line and this exact schema:

[
  {"text": "<the line exactly as written>", "confidence": <number between 0 and 1>}
]

* Do not merge, reorder, translate or correct lines.
* Do not add any other text, explanations, or formatting.
* If there is no text, return [].
`

func NewOllamaEngine(baseURL, model string) *OllamaEngine {
	if baseURL == "" {
		baseURL = DefaultOllamaBaseURL
	}
	if model == "" {
		model = DefaultOllamaModel
	}

	return &OllamaEngine{
		baseURL: baseURL,
		model:   model,
		client:  &http.Client{},
	}
}

func (o *OllamaEngine) Name() string { return TypeOllama }

func (o *OllamaEngine) Recognize(ctx context.Context, imagePath string, lang string) ([]ocr.Line, error) {
	imageData, err := os.ReadFile(imagePath)
	if err != nil {
		return nil, eris.Wrapf(ocr.ErrRecognitionFailed, "reading image %s: %v", imagePath, err)
	}

	request := OllamaRequest{
		Model:  o.model,
		Prompt: fmt.Sprintf(ollamaPrompt, lang),
		Images: []string{base64.StdEncoding.EncodeToString(imageData)},
		Stream: false,
	}

	jsonData, err := json.Marshal(request)
	if err != nil {
		return nil, eris.Wrapf(ocr.ErrRecognitionFailed, "marshaling request: %v", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.baseURL+"/api/generate", bytes.NewReader(jsonData))
	if err != nil {
		return nil, eris.Wrapf(ocr.ErrRecognitionFailed, "building request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")

	logger.DebugLog("[ollama]: sending %s (%d bytes) to %s model=%s", imagePath, len(imageData), o.baseURL, o.model)
	resp, err := o.client.Do(req)
	if err != nil {
		return nil, eris.Wrapf(ocr.ErrRecognitionFailed, "sending request: %v", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrapf(ocr.ErrRecognitionFailed, "reading response: %v", err)
	}

	var ollamaResp OllamaResponse
	if resp.StatusCode != http.StatusOK {
		detail := strings.TrimSpace(string(body))
		if err := json.Unmarshal(body, &ollamaResp); err == nil && ollamaResp.Error != "" {
			detail = ollamaResp.Error
		}
		return nil, eris.Wrapf(ocr.ErrRecognitionFailed, "ollama request failed with status %d: %s", resp.StatusCode, detail)
	}
	if err := json.Unmarshal(body, &ollamaResp); err != nil {
		return nil, eris.Wrapf(ocr.ErrRecognitionFailed, "unmarshaling response %q: %v", body, err)
	}

	lines, err := parseLines(ollamaResp.Response)
	if err != nil {
		return nil, eris.Wrapf(ocr.ErrRecognitionFailed, "parsing model output for %s: %v", imagePath, err)
	}
	return lines, nil
}

func (o *OllamaEngine) Close() error {
	return nil
}

// parseLines decodes the first JSON array in the model output. Entries may be
// objects with text and confidence, or bare strings.
func parseLines(output string) ([]ocr.Line, error) {
	raw, err := extractJSONArray(output)
	if err != nil {
		return nil, err
	}

	var lines []ocr.Line
	if err := json.Unmarshal(raw, &lines); err == nil {
		return lines, nil
	}

	var texts []string
	if err := json.Unmarshal(raw, &texts); err != nil {
		return nil, eris.Wrap(err, "array is neither lines nor strings")
	}
	lines = make([]ocr.Line, len(texts))
	for i, text := range texts {
		lines[i] = ocr.Line{Text: text}
	}
	return lines, nil
}

func extractJSONArray(text string) (json.RawMessage, error) {
	start := -1
	for i, char := range text {
		if char == '[' {
			start = i
			break
		}
	}

	if start == -1 {
		return nil, eris.New("no JSON array found in text")
	}

	// Track bracket depth outside string literals to find the matching close.
	depth := 0
	end := -1
	inString, escaped := false, false

matchingBracket:
	for i := start; i < len(text); i++ {
		c := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '[':
			depth++
		case ']':
			depth--
			if depth == 0 {
				end = i + 1
				break matchingBracket
			}
		}
	}

	if end == -1 {
		return nil, eris.New("no matching closing bracket found")
	}

	jsonStr := text[start:end]

	var temp any
	if err := json.Unmarshal([]byte(jsonStr), &temp); err != nil {
		return nil, eris.Wrap(err, "extracted text is not valid JSON")
	}

	return json.RawMessage(jsonStr), nil
}
