package gateway

import (
	"adforge/internal/models"
	"context"
	"errors"
)

var (
	ErrUnauthorized  = errors.New("backend rejected the api key")
	ErrEmptyResponse = errors.New("backend returned no usable content")
	ErrInvalidImage  = errors.New("invalid image data")
)

// ScriptCount is how many scripts every generation returns.
const ScriptCount = 5

// ResearchDisabledSummary stands in for research the user switched off.
const ResearchDisabledSummary = "Research disabled by user. Relying on internal knowledge."

// Gateway produces copy, images and videos. Image payloads are data URLs,
// video payloads are paths under /media/.
type Gateway interface {
	Research(ctx context.Context, req ResearchRequest) (Research, error)
	GenerateScripts(ctx context.Context, req ScriptRequest) (ScriptResult, error)
	GenerateImage(ctx context.Context, prompt string, format models.Format) (string, error)
	EditImage(ctx context.Context, req EditRequest) (string, error)
	AnimateImage(ctx context.Context, image string, format models.Format) (string, error)
}

// KeyedGateway can swap its credential at runtime.
type KeyedGateway interface {
	Gateway
	SetAPIKey(key string)
}

type ResearchRequest struct {
	ProductName string
	Audience    string
	PainPoint   string
	Enabled     bool
}

type Research struct {
	Summary string
	Sources []models.ResearchSource
}

func DisabledResearch() Research {
	return Research{Summary: ResearchDisabledSummary}
}

// ScriptRequest carries the brief. Refinement is set when regenerating from a
// previous version.
type ScriptRequest struct {
	Input      models.CampaignInput
	Research   string
	Refinement *Refinement
}

type Refinement struct {
	PreviousImagePrompt string
	Instruction         string
}

type ScriptResult struct {
	Scripts     []models.Script `json:"scripts"`
	ImagePrompt string          `json:"imagePrompt"`
}

// EditRequest conditions generation on Source, keeping its subject and
// changing only the surroundings. Logo, when set, is composited on top.
type EditRequest struct {
	Source string
	Prompt string
	Format models.Format
	Logo   string
}
