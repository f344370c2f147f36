// Package genai is a thin client for the Gemini generateContent REST API.
// It only knows how to move prompts and inline images across the wire;
// interpreting the model's output belongs to the callers and the decoders
// in parse.go.
package genai

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

const defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta/models"

// Image is an inline image payload, both as model input and output.
type Image struct {
	Data     []byte
	MimeType string
}

// Generator is the interface the services depend on; Client implements it
// and tests substitute fakes.
type Generator interface {
	GenerateText(ctx context.Context, model, prompt string, images []Image) (string, error)
	GenerateImage(ctx context.Context, model, prompt string, images []Image) (Image, error)
}

type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

func NewClient(apiKey string) *Client {
	return &Client{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		httpClient: &http.Client{
			Timeout: 120 * time.Second,
		},
	}
}

// WithBaseURL overrides the API endpoint, used by tests.
func (c *Client) WithBaseURL(baseURL string) *Client {
	c.baseURL = baseURL
	return c
}

var safetySettings = []map[string]string{
	{"category": "HARM_CATEGORY_HATE_SPEECH", "threshold": "BLOCK_MEDIUM_AND_ABOVE"},
	{"category": "HARM_CATEGORY_HARASSMENT", "threshold": "BLOCK_MEDIUM_AND_ABOVE"},
	{"category": "HARM_CATEGORY_SEXUALLY_EXPLICIT", "threshold": "BLOCK_MEDIUM_AND_ABOVE"},
	{"category": "HARM_CATEGORY_DANGEROUS_CONTENT", "threshold": "BLOCK_MEDIUM_AND_ABOVE"},
}

type inlineData struct {
	MimeType string `json:"mimeType,omitempty"`
	Data     string `json:"data,omitempty"`
}

type part struct {
	Text       string      `json:"text,omitempty"`
	InlineData *inlineData `json:"inlineData,omitempty"`
	// Some API versions reply in snake_case.
	InlineDataSnake *inlineData `json:"inline_data,omitempty"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type generateRequest struct {
	Contents         []content        `json:"contents"`
	SafetySettings   interface{}      `json:"safetySettings"`
	GenerationConfig generationConfig `json:"generationConfig"`
}

type generationConfig struct {
	Temperature        float64  `json:"temperature"`
	ResponseModalities []string `json:"responseModalities,omitempty"`
}

type generateResponse struct {
	Candidates []struct {
		Content      content `json:"content"`
		FinishReason string  `json:"finishReason"`
	} `json:"candidates"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (c *Client) GenerateText(ctx context.Context, model, prompt string, images []Image) (string, error) {
	resp, err := c.call(ctx, model, generateRequest{
		Contents:         []content{{Role: "user", Parts: buildParts(prompt, images)}},
		SafetySettings:   safetySettings,
		GenerationConfig: generationConfig{Temperature: 0.8},
	})
	if err != nil {
		return "", err
	}
	return resp.text(), nil
}

func (c *Client) GenerateImage(ctx context.Context, model, prompt string, images []Image) (Image, error) {
	resp, err := c.call(ctx, model, generateRequest{
		Contents:       []content{{Role: "user", Parts: buildParts(prompt, images)}},
		SafetySettings: safetySettings,
		GenerationConfig: generationConfig{
			Temperature:        0.7,
			ResponseModalities: []string{"IMAGE", "TEXT"},
		},
	})
	if err != nil {
		return Image{}, err
	}

	if img, ok := resp.image(); ok {
		return img, nil
	}

	detail := "response missing image data"
	if len(resp.Candidates) > 0 && resp.Candidates[0].FinishReason != "" {
		detail = fmt.Sprintf("%s, finishReason=%s", detail, resp.Candidates[0].FinishReason)
	}
	if text := resp.text(); text != "" {
		if len(text) > 200 {
			text = text[:200]
		}
		detail = fmt.Sprintf("%s, text=%s", detail, text)
	}
	return Image{}, fmt.Errorf("genai: %s", detail)
}

func buildParts(prompt string, images []Image) []part {
	parts := []part{{Text: prompt}}
	for _, img := range images {
		parts = append(parts, part{InlineData: &inlineData{
			MimeType: img.MimeType,
			Data:     encodeBase64(img.Data),
		}})
	}
	return parts
}

func (c *Client) call(ctx context.Context, model string, reqBody generateRequest) (*generateResponse, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("genai: missing API key")
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("genai: marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/%s:generateContent?key=%s", c.baseURL, model, c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	httpResp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("genai: request failed: %w", err)
	}
	defer httpResp.Body.Close()

	var resp generateResponse
	if err := json.NewDecoder(httpResp.Body).Decode(&resp); err != nil {
		return nil, fmt.Errorf("genai: decode response: %w", err)
	}

	if httpResp.StatusCode != http.StatusOK {
		msg := "Gemini API error"
		if resp.Error != nil && resp.Error.Message != "" {
			msg = resp.Error.Message
		}
		return nil, fmt.Errorf("genai: %s (status %d)", msg, httpResp.StatusCode)
	}

	return &resp, nil
}

func encodeBase64(data []byte) string {
	return base64.StdEncoding.EncodeToString(data)
}

func decodeBase64(s string) ([]byte, error) {
	return base64.StdEncoding.DecodeString(s)
}

func (r *generateResponse) text() string {
	if len(r.Candidates) == 0 {
		return ""
	}
	var buf bytes.Buffer
	for _, p := range r.Candidates[0].Content.Parts {
		buf.WriteString(p.Text)
	}
	return buf.String()
}

func (r *generateResponse) image() (Image, bool) {
	if len(r.Candidates) == 0 {
		return Image{}, false
	}
	for _, p := range r.Candidates[0].Content.Parts {
		inline := p.InlineData
		if inline == nil {
			inline = p.InlineDataSnake
		}
		if inline == nil || inline.Data == "" {
			continue
		}
		data, err := decodeBase64(inline.Data)
		if err != nil {
			continue
		}
		mime := inline.MimeType
		if mime == "" {
			mime = "image/png"
		}
		return Image{Data: data, MimeType: mime}, true
	}
	return Image{}, false
}
