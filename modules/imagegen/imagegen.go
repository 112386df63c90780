// Package imagegen exposes image generation and editing tools backed by the
// Gemini image API. Registration is delegate-driven: the manifest hands the
// host to RegisterImageTools, which declares both tools itself.
package imagegen

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/vk/toolgridgo/internal/ctxlog"
	"github.com/vk/toolgridgo/internal/handlers"
	"github.com/vk/toolgridgo/internal/tool"
	"github.com/zclconf/go-cty/cty"
)

// Pack implements the handlers.Pack interface for this package.
type Pack struct{}

const (
	defaultBaseURL = "https://generativelanguage.googleapis.com"
	defaultModel   = "gemini-2.5-flash-image-preview"
)

// GenerateInput defines the arguments of the 'generate_image' tool.
type GenerateInput struct {
	Prompt string `tool:"prompt"`
}

// EditInput defines the arguments of the 'edit_image' tool.
type EditInput struct {
	Prompt    string `tool:"prompt"`
	ImagePath string `tool:"image_path"`
}

// OnGenerateImage is the handler for the 'generate_image' tool.
func OnGenerateImage(ctx context.Context, input *GenerateInput) (map[string]any, error) {
	return invoke(ctx, input.Prompt, nil)
}

// OnEditImage is the handler for the 'edit_image' tool.
func OnEditImage(ctx context.Context, input *EditInput) (map[string]any, error) {
	source, err := os.ReadFile(input.ImagePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read source image: %w", err)
	}
	return invoke(ctx, input.Prompt, source)
}

// invoke sends one generateContent request, decodes the returned inline PNG,
// and writes it under the output directory.
func invoke(ctx context.Context, prompt string, source []byte) (map[string]any, error) {
	logger := ctxlog.FromContext(ctx)

	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY environment variable is not set")
	}

	parts := []map[string]any{{"text": prompt}}
	if source != nil {
		parts = append(parts, map[string]any{
			"inlineData": map[string]any{
				"mimeType": http.DetectContentType(source),
				"data":     base64.StdEncoding.EncodeToString(source),
			},
		})
	}
	payload := map[string]any{
		"contents": []map[string]any{{"parts": parts}},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode image request: %w", err)
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent", baseURL(), model())
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", apiKey)

	logger.Debug("Requesting image generation.", "model", model())
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("image request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read image response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("image API returned status %d: %s", resp.StatusCode, respBody)
	}

	data, err := extractImage(respBody)
	if err != nil {
		return nil, err
	}

	path, err := writeImage(data)
	if err != nil {
		return nil, err
	}
	logger.Info("Image written.", "path", path)
	return map[string]any{"filePath": path}, nil
}

// extractImage pulls the first inline image part out of a generateContent
// response.
func extractImage(respBody []byte) ([]byte, error) {
	var parsed struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					InlineData *struct {
						Data string `json:"data"`
					} `json:"inlineData"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
	}
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, fmt.Errorf("failed to decode image response: %w", err)
	}
	for _, c := range parsed.Candidates {
		for _, p := range c.Content.Parts {
			if p.InlineData != nil {
				data, err := base64.StdEncoding.DecodeString(p.InlineData.Data)
				if err != nil {
					return nil, fmt.Errorf("failed to decode image data: %w", err)
				}
				return data, nil
			}
		}
	}
	return nil, fmt.Errorf("image response contained no image data")
}

// writeImage stores the PNG under the output directory with a unique name.
func writeImage(data []byte) (string, error) {
	dir := os.Getenv("IMAGE_OUT_DIR")
	if dir == "" {
		dir = "images"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}
	path := filepath.Join(dir, uuid.NewString()+".png")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write image: %w", err)
	}
	return path, nil
}

func baseURL() string {
	if u := os.Getenv("GEMINI_BASE_URL"); u != "" {
		return u
	}
	return defaultBaseURL
}

func model() string {
	if m := os.Getenv("GEMINI_IMAGE_MODEL"); m != "" {
		return m
	}
	return defaultModel
}

// RegisterImageTools is the registration delegate named by the manifest. It
// declares both image tools directly against the host.
func RegisterImageTools(ctx context.Context, host tool.Host) error {
	generate := &tool.Spec{
		Func: &tool.Func{
			Name:     "OnGenerateImage",
			NewInput: func() any { return new(GenerateInput) },
			Fn:       OnGenerateImage,
			Params: []tool.Param{
				{Name: "prompt", Type: cty.String, Description: "What the image should depict."},
			},
		},
		Name:        "generate_image",
		Description: "Generate a PNG image from a text prompt and return its file path.",
	}
	if _, err := host.AddTool(ctx, generate); err != nil {
		return err
	}

	edit := &tool.Spec{
		Func: &tool.Func{
			Name:     "OnEditImage",
			NewInput: func() any { return new(EditInput) },
			Fn:       OnEditImage,
			Params: []tool.Param{
				{Name: "prompt", Type: cty.String, Description: "How to change the image."},
				{Name: "image_path", Type: cty.String, Description: "Path of the image to edit."},
			},
		},
		Name:        "edit_image",
		Description: "Edit an existing image with a text prompt and return the new file path.",
	}
	_, err := host.AddTool(ctx, edit)
	return err
}

// Register contributes the delegate to the table.
func (p *Pack) Register(t *handlers.Table) {
	t.RegisterDelegate("RegisterImageTools", RegisterImageTools)
}
