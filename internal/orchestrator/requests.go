package orchestrator

import (
	"adforge/internal/gateway"
	"adforge/internal/models"
	"fmt"
	"strings"

	"github.com/gookit/validate"
)

// AdRequest addresses one ad version. An empty AdID means the newest version.
type AdRequest struct {
	SessionID string `json:"sessionId" validate:"required"`
	AdSetID   string `json:"adSetId" validate:"required"`
	AdID      string `json:"adId,omitempty"`
}

type AdSetRequest struct {
	SessionID string               `json:"sessionId" validate:"required"`
	Input     models.CampaignInput `json:"input"`
}

type RefineRequest struct {
	SessionID   string `json:"sessionId" validate:"required"`
	AdSetID     string `json:"adSetId" validate:"required"`
	AdID        string `json:"adId,omitempty"`
	Instruction string `json:"instruction" validate:"required|maxLen:2000"`
}

type ResizeRequest struct {
	SessionID string        `json:"sessionId" validate:"required"`
	AdSetID   string        `json:"adSetId" validate:"required"`
	AdID      string        `json:"adId,omitempty"`
	Format    models.Format `json:"format"`
}

type EnhanceRequest struct {
	SessionID string `json:"sessionId" validate:"required"`
	AdSetID   string `json:"adSetId" validate:"required"`
	AdID      string `json:"adId,omitempty"`
	Image     string `json:"image" validate:"required"`
}

type RenameRequest struct {
	SessionID      string `json:"sessionId" validate:"required"`
	AdSetID        string `json:"adSetId" validate:"required"`
	Name           string `json:"name" validate:"required|maxLen:200"`
	TargetAudience string `json:"targetAudience" validate:"maxLen:200"`
}

// ValidationError is returned for requests rejected before any backend call.
type ValidationError struct {
	Err error
}

func (e *ValidationError) Error() string { return "invalid request: " + e.Err.Error() }
func (e *ValidationError) Unwrap() error { return e.Err }

func invalid(err error) error {
	if err == nil {
		return nil
	}
	return &ValidationError{Err: err}
}

func validateStruct(v interface{}) error {
	vd := validate.Struct(v)
	if !vd.Validate() {
		return invalid(vd.Errors)
	}
	return nil
}

// validateInput checks the brief and any attached image before a campaign or
// ad set is dispatched.
func validateInput(in models.CampaignInput) error {
	if err := in.Validate(); err != nil {
		return invalid(err)
	}
	if err := checkImage("reference image", in.ReferenceImage); err != nil {
		return err
	}
	return checkImage("logo", in.LogoImage)
}

func checkImage(what, payload string) error {
	if payload == "" {
		return nil
	}
	if _, _, err := gateway.DecodeImage(payload); err != nil {
		return invalid(fmt.Errorf("%s: %w", what, err))
	}
	return nil
}

func (r RefineRequest) instruction() string {
	return strings.TrimSpace(r.Instruction)
}
