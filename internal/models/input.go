package models

import (
	"errors"
	"fmt"

	"github.com/gookit/validate"
)

var ErrInvalidColors = errors.New("custom palette requires exactly 3 hex colors")

// CampaignInput is the brief submitted when creating a campaign or a new ad set.
type CampaignInput struct {
	ProductName    string    `json:"productName" validate:"required|maxLen:200"`
	PainPoint      string    `json:"painPoint" validate:"maxLen:1000"`
	TargetAudience string    `json:"targetAudience" validate:"required|maxLen:200"`
	Archetype      Archetype `json:"archetype"`
	Format         Format    `json:"format"`
	Tone           Tone      `json:"tone"`
	UseResearch    bool      `json:"useResearch"`
	UseProMode     bool      `json:"useProMode"`
	ColorPalette   string    `json:"colorPalette"`
	CustomColors   []string  `json:"customColors,omitempty"`
	ReferenceImage string    `json:"referenceImage,omitempty"`
	LogoImage      string    `json:"logoImage,omitempty"`
}

// DefaultInput mirrors the blank creation form.
func DefaultInput() CampaignInput {
	colors := make([]string, len(DefaultCustomColors))
	copy(colors, DefaultCustomColors)
	return CampaignInput{
		Archetype:    ArchetypeUsVsThem,
		Format:       FormatSquare,
		Tone:         ToneUrgent,
		UseResearch:  true,
		ColorPalette: DefaultPaletteID,
		CustomColors: colors,
	}
}

// InputForAdSet is the brief for a new ad set in an existing session: product
// info carried over, strategy fields reset.
func InputForAdSet(session Session) CampaignInput {
	in := DefaultInput()
	in.ProductName = session.ProductInfo.Name
	in.PainPoint = session.ProductInfo.PainPoint
	return in
}

// RefinementInput rebuilds the generation context from persisted data. Tone,
// research and pro mode are not stored, so they fall back to defaults.
func RefinementInput(session Session, adSet AdSet) CampaignInput {
	palette := DefaultPaletteID
	if len(adSet.CustomColors) > 0 {
		palette = CustomPaletteID
	}
	return CampaignInput{
		ProductName:    session.ProductInfo.Name,
		PainPoint:      session.ProductInfo.PainPoint,
		TargetAudience: adSet.TargetAudience,
		Archetype:      adSet.Archetype,
		Format:         adSet.Format,
		Tone:           ToneUrgent,
		ColorPalette:   palette,
		CustomColors:   adSet.CustomColors,
		ReferenceImage: adSet.ReferenceImage,
		LogoImage:      adSet.LogoImage,
	}
}

func (in CampaignInput) Validate() error {
	v := validate.Struct(&in)
	if !v.Validate() {
		return v.Errors
	}
	if in.ColorPalette == CustomPaletteID && !ValidCustomColors(in.CustomColors) {
		return fmt.Errorf("%v: %w", in.CustomColors, ErrInvalidColors)
	}
	return nil
}

// PersistedColors is what an ad set keeps: custom colors only when the custom
// palette was chosen.
func (in CampaignInput) PersistedColors() []string {
	if in.ColorPalette != CustomPaletteID || len(in.CustomColors) == 0 {
		return nil
	}
	out := make([]string, len(in.CustomColors))
	copy(out, in.CustomColors)
	return out
}

func (in CampaignInput) ColorDirective() string {
	return ColorDirective(in.ColorPalette, in.CustomColors)
}
