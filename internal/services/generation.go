package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strings"

	"resale-dashboard/internal/config"
	apperrors "resale-dashboard/internal/errors"
	"resale-dashboard/internal/models"
)

// Upload is an in-memory file attached to a generation request. Uploads are
// already size-capped at the HTTP boundary.
type Upload struct {
	Filename string
	Data     []byte
}

// Generator forwards multipart generation requests to the upstream AI
// service and validates the response shapes at the boundary. Requests are
// stateless: no retry, no resumability.
type Generator struct {
	baseURL string
	client  *http.Client
	logger  *slog.Logger
}

func NewGenerator(cfg config.AIConfig, logger *slog.Logger) *Generator {
	return &Generator{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		client:  &http.Client{Timeout: cfg.Timeout},
		logger:  logger,
	}
}

// GenerateDescription submits notes and an optional product photo, returning
// the generated listing title and description.
func (g *Generator) GenerateDescription(ctx context.Context, notes string, image *Upload) (models.GeneratedDescription, error) {
	fields := map[string]string{"notes": notes}

	body, err := g.post(ctx, "/generate-description", fields, image)
	if err != nil {
		return models.GeneratedDescription{}, err
	}

	var result models.GeneratedDescription
	if err := json.Unmarshal(body, &result); err != nil {
		return models.GeneratedDescription{}, apperrors.Wrap(err, apperrors.CodeDecode, "generation response is not valid JSON")
	}
	if result.Title == "" || result.Description == "" {
		return models.GeneratedDescription{}, apperrors.Decode("generation response missing title or description")
	}
	return result, nil
}

// GenerateImage submits a product photo and returns the URL of the generated
// model photo.
func (g *Generator) GenerateImage(ctx context.Context, image *Upload) (models.GeneratedImage, error) {
	body, err := g.post(ctx, "/generate-image", nil, image)
	if err != nil {
		return models.GeneratedImage{}, err
	}

	var result models.GeneratedImage
	if err := json.Unmarshal(body, &result); err != nil {
		return models.GeneratedImage{}, apperrors.Wrap(err, apperrors.CodeDecode, "generation response is not valid JSON")
	}
	if result.ImageURL == "" {
		return models.GeneratedImage{}, apperrors.Decode("generation response missing imageUrl")
	}
	return result, nil
}

func (g *Generator) post(ctx context.Context, path string, fields map[string]string, image *Upload) ([]byte, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	for name, value := range fields {
		if err := writer.WriteField(name, value); err != nil {
			return nil, apperrors.InternalWrap(err, "failed to build generation request")
		}
	}

	if image != nil {
		part, err := writer.CreateFormFile("image", image.Filename)
		if err != nil {
			return nil, apperrors.InternalWrap(err, "failed to build generation request")
		}
		if _, err := part.Write(image.Data); err != nil {
			return nil, apperrors.InternalWrap(err, "failed to build generation request")
		}
	}

	if err := writer.Close(); err != nil {
		return nil, apperrors.InternalWrap(err, "failed to build generation request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+path, &buf)
	if err != nil {
		return nil, apperrors.InternalWrap(err, "failed to build generation request")
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, apperrors.UpstreamWrap(err, "generation service unreachable")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperrors.UpstreamWrap(err, "failed to read generation response")
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		g.logger.Warn("generation upstream returned an error",
			"path", path,
			"status", resp.StatusCode,
		)
		return nil, apperrors.Upstream(fmt.Sprintf("generation service returned status %d", resp.StatusCode))
	}

	return body, nil
}
