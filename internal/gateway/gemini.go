package gateway

import (
	"adforge/internal/models"
	"adforge/internal/providers"
	"adforge/internal/structures"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	json "github.com/goccy/go-json"
	"github.com/google/uuid"
	"google.golang.org/genai"
)

const (
	MediaURLPrefix = "/media/"

	opResearch = "research"
	opScripts  = "scripts"
	opImage    = "image"
	opEdit     = "edit"
	opAnimate  = "animate"

	notFoundSignature = "Requested entity was not found"
)

// GeminiGateway talks to the Gemini API. The SDK client is built on first use
// and rebuilt whenever the key changes.
type GeminiGateway struct {
	conf    structures.GatewayConfig
	logger  providers.Logger
	metrics providers.MetricsProviderInterface
	http    *resty.Client

	mu     sync.Mutex
	key    string
	client *genai.Client
}

func NewGeminiGateway(conf *structures.Config, logger providers.Logger, metrics providers.MetricsProviderInterface) KeyedGateway {
	return &GeminiGateway{
		conf:    conf.Gateway,
		logger:  logger,
		metrics: metrics,
		key:     conf.Gateway.ApiKey,
		http: resty.New().
			SetTimeout(conf.Gateway.VideoTimeout).
			SetRetryCount(2).
			SetRetryWaitTime(time.Second),
	}
}

func (g *GeminiGateway) SetAPIKey(key string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if key != g.key {
		g.key = key
		g.client = nil
	}
}

func (g *GeminiGateway) sdk(ctx context.Context) (*genai.Client, string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.key == "" {
		return nil, "", fmt.Errorf("%w: no api key configured", ErrUnauthorized)
	}
	if g.client == nil {
		client, err := genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:      g.key,
			Backend:     genai.BackendGeminiAPI,
			HTTPOptions: genai.HTTPOptions{BaseURL: g.conf.BaseURL},
		})
		if err != nil {
			return nil, "", fmt.Errorf("failed to create gemini client: %w", err)
		}
		g.client = client
	}
	return g.client, g.key, nil
}

func (g *GeminiGateway) observe(op string, start time.Time, err error) {
	g.metrics.ObserveGatewayDuration(op, time.Since(start))
	g.metrics.IncGatewayCalls(op, err == nil)
	if err != nil {
		g.logger.Warnf(providers.TypeGateway, "%s failed after %s: %s", op, time.Since(start).Round(time.Millisecond), err)
		return
	}
	g.logger.Debugf(providers.TypeGateway, "%s done in %s", op, time.Since(start).Round(time.Millisecond))
}

func (g *GeminiGateway) Research(ctx context.Context, req ResearchRequest) (res Research, err error) {
	if !req.Enabled {
		return DisabledResearch(), nil
	}
	start := time.Now()
	defer func() { g.observe(opResearch, start, err) }()

	client, _, err := g.sdk(ctx)
	if err != nil {
		return Research{}, err
	}
	resp, err := client.Models.GenerateContent(ctx, g.conf.TextModel, genai.Text(researchPrompt(req)), &genai.GenerateContentConfig{
		Tools: []*genai.Tool{{GoogleSearch: &genai.GoogleSearch{}}},
	})
	if err != nil {
		return Research{}, err
	}

	res.Summary = resp.Text()
	if res.Summary == "" {
		res.Summary = "No research data available."
	}
	if len(resp.Candidates) > 0 && resp.Candidates[0].GroundingMetadata != nil {
		for _, chunk := range resp.Candidates[0].GroundingMetadata.GroundingChunks {
			if chunk == nil || chunk.Web == nil {
				continue
			}
			res.Sources = append(res.Sources, models.ResearchSource{
				Title: orDefault(chunk.Web.Title, "Source"),
				URI:   orDefault(chunk.Web.URI, "#"),
			})
		}
	}
	return res, nil
}

func (g *GeminiGateway) GenerateScripts(ctx context.Context, req ScriptRequest) (res ScriptResult, err error) {
	start := time.Now()
	defer func() { g.observe(opScripts, start, err) }()

	client, _, err := g.sdk(ctx)
	if err != nil {
		return ScriptResult{}, err
	}
	prompt := campaignPrompt(req)
	if req.Refinement != nil {
		prompt = refinementPrompt(req)
	}
	resp, err := client.Models.GenerateContent(ctx, g.conf.TextModel, genai.Text(prompt), &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(systemInstruction(req.Input.UseProMode), genai.RoleUser),
		ResponseMIMEType:  "application/json",
		ResponseSchema:    scriptSchema(),
	})
	if err != nil {
		return ScriptResult{}, err
	}
	return ParseScriptResult(resp.Text())
}

// ParseScriptResult decodes the structured text response.
func ParseScriptResult(text string) (ScriptResult, error) {
	if strings.TrimSpace(text) == "" {
		return ScriptResult{}, fmt.Errorf("%w: empty text response", ErrEmptyResponse)
	}
	var res ScriptResult
	if err := json.Unmarshal([]byte(text), &res); err != nil {
		return ScriptResult{}, fmt.Errorf("malformed script response: %w", err)
	}
	if len(res.Scripts) == 0 || res.ImagePrompt == "" {
		return ScriptResult{}, fmt.Errorf("%w: scripts or image prompt missing", ErrEmptyResponse)
	}
	if len(res.Scripts) != ScriptCount {
		return ScriptResult{}, fmt.Errorf("expected %d scripts, got %d", ScriptCount, len(res.Scripts))
	}
	return res, nil
}

// GenerateImage prefers Imagen and falls back to the flash image model. Each
// model call gets its own gateway.timeout.
func (g *GeminiGateway) GenerateImage(ctx context.Context, prompt string, format models.Format) (string, error) {
	return FirstSuccess(ctx,
		Attempt[string]{Name: g.conf.ImageModel, Timeout: g.conf.Timeout, Run: func(ctx context.Context) (string, error) {
			return g.imagen(ctx, prompt, format)
		}},
		Attempt[string]{Name: g.conf.FallbackImageModel, Timeout: g.conf.Timeout, Run: func(ctx context.Context) (string, error) {
			return g.flashImage(ctx, opImage, []*genai.Part{genai.NewPartFromText(prompt)})
		}},
	)
}

func (g *GeminiGateway) imagen(ctx context.Context, prompt string, format models.Format) (url string, err error) {
	start := time.Now()
	defer func() { g.observe(opImage, start, err) }()

	client, _, err := g.sdk(ctx)
	if err != nil {
		return "", err
	}
	resp, err := client.Models.GenerateImages(ctx, g.conf.ImageModel, prompt, &genai.GenerateImagesConfig{
		NumberOfImages: 1,
		OutputMIMEType: DefaultImageMIME,
		AspectRatio:    format.ImageAspectRatio(),
	})
	if err != nil {
		return "", err
	}
	if len(resp.GeneratedImages) == 0 || resp.GeneratedImages[0].Image == nil || len(resp.GeneratedImages[0].Image.ImageBytes) == 0 {
		return "", fmt.Errorf("%w: no image bytes", ErrEmptyResponse)
	}
	return ToDataURL(DefaultImageMIME, resp.GeneratedImages[0].Image.ImageBytes), nil
}

func (g *GeminiGateway) EditImage(ctx context.Context, req EditRequest) (string, error) {
	source, mime, err := DecodeImage(req.Source)
	if err != nil {
		return "", err
	}
	parts := []*genai.Part{genai.NewPartFromBytes(source, mime)}
	if req.Logo != "" {
		logo, logoMime, err := DecodeImage(req.Logo)
		if err != nil {
			return "", fmt.Errorf("logo: %w", err)
		}
		parts = append(parts, genai.NewPartFromBytes(logo, logoMime))
	}
	parts = append(parts, genai.NewPartFromText(editPrompt(req.Prompt, req.Format, req.Logo != "")))
	return g.flashImage(ctx, opEdit, parts)
}

func (g *GeminiGateway) flashImage(ctx context.Context, op string, parts []*genai.Part) (url string, err error) {
	start := time.Now()
	defer func() { g.observe(op, start, err) }()

	client, _, err := g.sdk(ctx)
	if err != nil {
		return "", err
	}
	contents := []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}
	resp, err := client.Models.GenerateContent(ctx, g.conf.FallbackImageModel, contents, &genai.GenerateContentConfig{
		ResponseModalities: []string{"IMAGE"},
	})
	if err != nil {
		return "", err
	}
	if len(resp.Candidates) > 0 && resp.Candidates[0].Content != nil {
		for _, part := range resp.Candidates[0].Content.Parts {
			if part != nil && part.InlineData != nil && len(part.InlineData.Data) > 0 {
				return ToDataURL(orDefault(part.InlineData.MIMEType, DefaultImageMIME), part.InlineData.Data), nil
			}
		}
	}
	return "", fmt.Errorf("%w: model returned no image", ErrEmptyResponse)
}

// AnimateImage starts a video job, polls it until done and stores the result
// in the media directory.
func (g *GeminiGateway) AnimateImage(ctx context.Context, image string, format models.Format) (path string, err error) {
	start := time.Now()
	defer func() { g.observe(opAnimate, start, err) }()

	data, mime, err := DecodeImage(image)
	if err != nil {
		return "", err
	}
	client, key, err := g.sdk(ctx)
	if err != nil {
		return "", err
	}

	op, err := client.Models.GenerateVideos(ctx, g.conf.VideoModel, "", &genai.Image{ImageBytes: data, MIMEType: mime}, &genai.GenerateVideosConfig{
		NumberOfVideos: 1,
		Resolution:     "720p",
		AspectRatio:    format.VideoAspectRatio(),
	})
	if err != nil {
		return "", classifyAuth(err)
	}

	ticker := time.NewTicker(g.conf.PollInterval)
	defer ticker.Stop()
	for !op.Done {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-ticker.C:
		}
		op, err = client.Operations.GetVideosOperation(ctx, op, nil)
		if err != nil {
			return "", classifyAuth(err)
		}
	}

	if op.Response == nil || len(op.Response.GeneratedVideos) == 0 || op.Response.GeneratedVideos[0].Video == nil || op.Response.GeneratedVideos[0].Video.URI == "" {
		return "", fmt.Errorf("%w: video generation failed", ErrEmptyResponse)
	}
	return g.download(ctx, op.Response.GeneratedVideos[0].Video.URI, key)
}

func (g *GeminiGateway) download(ctx context.Context, uri, key string) (string, error) {
	if err := os.MkdirAll(g.conf.MediaDir, 0755); err != nil {
		return "", err
	}
	name := uuid.NewString() + ".mp4"
	target := filepath.Join(g.conf.MediaDir, name)

	resp, err := g.http.R().
		SetContext(ctx).
		SetQueryParam("key", key).
		SetOutput(target).
		Get(uri)
	if err != nil {
		_ = os.Remove(target)
		return "", fmt.Errorf("video download failed: %w", err)
	}
	if resp.IsError() {
		_ = os.Remove(target)
		return "", classifyAuth(fmt.Errorf("video download failed: %s", resp.Status()))
	}
	return MediaURLPrefix + name, nil
}

// classifyAuth tags key and entitlement failures with ErrUnauthorized.
func classifyAuth(err error) error {
	if err == nil {
		return nil
	}
	var apiErr genai.APIError
	if errors.As(err, &apiErr) && (apiErr.Code == 404 || apiErr.Code == 401 || apiErr.Code == 403) {
		return fmt.Errorf("%w: %v", ErrUnauthorized, err)
	}
	if IsAuthFailure(err) {
		return fmt.Errorf("%w: %v", ErrUnauthorized, err)
	}
	return err
}

// IsAuthFailure recognizes the backend's "missing entitlement" signature.
func IsAuthFailure(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrUnauthorized) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, notFoundSignature) || strings.Contains(msg, "404")
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
