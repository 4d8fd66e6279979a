package models

import (
	"fmt"
	"strings"
)

// Session is one product-level campaign. Sessions, ad sets and ads are treated
// as immutable values: every change produces a replacement (see tree.go).
type Session struct {
	ID           string      `json:"id"`
	Title        string      `json:"title"`
	ProductInfo  ProductInfo `json:"productInfo"`
	AdSets       []AdSet     `json:"adSets"`
	LastModified int64       `json:"lastModified"`
}

type ProductInfo struct {
	Name      string `json:"name"`
	PainPoint string `json:"painPoint"`
}

// AdSet is one creative angle inside a session. Ads is append-only history,
// oldest first.
type AdSet struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	TargetAudience string    `json:"targetAudience"`
	Archetype      Archetype `json:"archetype"`
	Format         Format    `json:"format"`
	Ads            []Ad      `json:"ads"`
	CreatedAt      int64     `json:"createdAt"`
	CustomColors   []string  `json:"customColors,omitempty"`
	ReferenceImage string    `json:"referenceImage,omitempty"`
	LogoImage      string    `json:"logoImage,omitempty"`
}

// Ad is a single version in an ad set's history.
type Ad struct {
	ID              string           `json:"id"`
	Timestamp       int64            `json:"timestamp"`
	Scripts         []Script         `json:"scripts"`
	ImagePrompt     string           `json:"imagePrompt"`
	ImageURL        string           `json:"imageUrl"`
	VideoURL        string           `json:"videoUrl,omitempty"`
	UserRequest     string           `json:"userRequest,omitempty"`
	ResearchSources []ResearchSource `json:"researchSources,omitempty"`
}

type Script struct {
	Title  string          `json:"title"`
	Hook   string          `json:"hook"`
	Body   string          `json:"body"`
	CTA    string          `json:"cta"`
	Slides []CarouselSlide `json:"slides,omitempty"`
}

type CarouselSlide struct {
	SlideNumber       int    `json:"slideNumber"`
	VisualDescription string `json:"visualDescription"`
	Headline          string `json:"headline"`
	Body              string `json:"body"`
}

type ResearchSource struct {
	Title string `json:"title"`
	URI   string `json:"uri"`
}

// AdSetName derives the default ad set name from audience and archetype.
func AdSetName(audience string, archetype Archetype) string {
	return fmt.Sprintf("%s - %s", audience, archetype.ShortName())
}

// HasVideo reports whether the ad already carries an animation.
func (a Ad) HasVideo() bool { return a.VideoURL != "" }

// CopyText is the clipboard rendering of a script.
func (s Script) CopyText(format Format) string {
	if format == FormatCarousel && len(s.Slides) > 0 {
		parts := make([]string, 0, len(s.Slides))
		for _, sl := range s.Slides {
			parts = append(parts, fmt.Sprintf("Slide %d: %s\n%s", sl.SlideNumber, sl.Headline, sl.Body))
		}
		return strings.Join(parts, "\n\n") + "\n\nCaption: " + s.CTA
	}
	return strings.Join([]string{s.Title, s.Hook, s.Body, s.CTA}, "\n\n")
}

// Normalize drops empty optional collections so that absent and empty
// serialize identically.
func (a Ad) Normalize() Ad {
	if len(a.ResearchSources) == 0 {
		a.ResearchSources = nil
	}
	if len(a.Scripts) > 0 {
		scripts := make([]Script, len(a.Scripts))
		for i, s := range a.Scripts {
			if len(s.Slides) == 0 {
				s.Slides = nil
			}
			scripts[i] = s
		}
		a.Scripts = scripts
	}
	return a
}
