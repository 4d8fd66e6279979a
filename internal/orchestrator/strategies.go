package orchestrator

import (
	"adforge/internal/gateway"
	"adforge/internal/models"
	"context"
	"fmt"
	"time"
)

// ImageStrategy is one way of rendering an ad image.
type ImageStrategy = gateway.Attempt[string]

// ImageJob is what an image strategy list is built from. Timeout bounds each
// edit call; generation is bounded per model by the gateway itself.
type ImageJob struct {
	Prompt    string
	Format    models.Format
	Reference string
	Logo      string
	Timeout   time.Duration
}

// ImageStrategies is the preference order for a freshly generated ad:
// a reference photo is edited into the scene, a logo alone is placed into a
// generated scene, and plain generation is always the last resort.
func ImageStrategies(gw gateway.Gateway, job ImageJob) []ImageStrategy {
	var out []ImageStrategy
	switch {
	case job.Reference != "":
		out = append(out, editStrategy(gw, "edit-reference", job.Timeout, gateway.EditRequest{
			Source: job.Reference,
			Prompt: job.Prompt,
			Format: job.Format,
			Logo:   job.Logo,
		}))
	case job.Logo != "":
		out = append(out, editStrategy(gw, "edit-logo", job.Timeout, gateway.EditRequest{
			Source: job.Logo,
			Prompt: gateway.LogoScenePrompt(job.Prompt),
			Format: job.Format,
		}))
	}
	return append(out, generateStrategy(gw, job.Prompt, job.Format))
}

// ResizeStrategies re-renders at a new format, from the reference photo when
// the ad set has one.
func ResizeStrategies(gw gateway.Gateway, timeout time.Duration, prompt string, target models.Format, reference string) []ImageStrategy {
	return ImageStrategies(gw, ImageJob{Prompt: prompt, Format: target, Reference: reference, Timeout: timeout})
}

// VariationStrategies edits source and falls back to generation.
func VariationStrategies(gw gateway.Gateway, timeout time.Duration, prompt string, format models.Format, source string) []ImageStrategy {
	return []ImageStrategy{
		editStrategy(gw, "edit-variation", timeout, gateway.EditRequest{Source: source, Prompt: prompt, Format: format}),
		generateStrategy(gw, prompt, format),
	}
}

// EnhanceStrategies only ever edits the uploaded photo.
func EnhanceStrategies(gw gateway.Gateway, timeout time.Duration, prompt string, format models.Format, upload string) []ImageStrategy {
	return []ImageStrategy{
		editStrategy(gw, "edit-upload", timeout, gateway.EditRequest{Source: upload, Prompt: prompt, Format: format}),
	}
}

func editStrategy(gw gateway.Gateway, name string, timeout time.Duration, req gateway.EditRequest) ImageStrategy {
	return ImageStrategy{Name: name, Timeout: timeout, Run: func(ctx context.Context) (string, error) {
		return gw.EditImage(ctx, req)
	}}
}

func generateStrategy(gw gateway.Gateway, prompt string, format models.Format) ImageStrategy {
	return ImageStrategy{Name: "generate", Run: func(ctx context.Context) (string, error) {
		return gw.GenerateImage(ctx, prompt, format)
	}}
}

// renderImage runs strategies in order until one produces an image.
func renderImage(ctx context.Context, strategies []ImageStrategy) (string, error) {
	url, err := gateway.FirstSuccess(ctx, strategies...)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrAllStrategiesFailed, err)
	}
	return url, nil
}
