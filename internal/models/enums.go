package models

import (
	"errors"
	"fmt"
	"strings"
)

var ErrUnknownVariant = errors.New("unknown enum variant")

// variant describes one member of a closed enumeration. Key is what gets
// persisted, Value is what the generator sees, Label is what people see.
// Stored sessions written with the Value form still load, but the next save
// writes them back in Key form.
type variant struct {
	Key   string
	Value string
	Label string
}

func lookup(table []variant, s string) (int, bool) {
	for i, v := range table {
		if v.Key == s || v.Value == s {
			return i, true
		}
	}
	return 0, false
}

type Archetype int

const (
	ArchetypeUsVsThem Archetype = iota
	ArchetypeSkeptic
	ArchetypeAestheticASMR
	ArchetypeUglyAd
	ArchetypeFounderStory
)

var archetypes = []variant{
	{Key: "US_VS_THEM", Value: "Us vs. Them", Label: "Us vs. Them (Comparison)"},
	{Key: "THE_SKEPTIC", Value: "The Skeptic (UGC)", Label: "The Skeptic (UGC Testimonial)"},
	{Key: "AESTHETIC_ASMR", Value: "Aesthetic / ASMR", Label: "Aesthetic / ASMR (Visual)"},
	{Key: "THE_UGLY_AD", Value: "The Ugly Ad", Label: "The Ugly Ad (Brutalism/Offer)"},
	{Key: "FOUNDER_STORY", Value: "Founder Story", Label: "Founder Story (Narrative)"},
}

func Archetypes() []Archetype {
	out := make([]Archetype, len(archetypes))
	for i := range archetypes {
		out[i] = Archetype(i)
	}
	return out
}

func (a Archetype) valid() bool { return a >= 0 && int(a) < len(archetypes) }

func (a Archetype) Key() string {
	if !a.valid() {
		return ""
	}
	return archetypes[a].Key
}

// Value is the text handed to the generator.
func (a Archetype) Value() string {
	if !a.valid() {
		return ""
	}
	return archetypes[a].Value
}

func (a Archetype) Label() string {
	if !a.valid() {
		return ""
	}
	return archetypes[a].Label
}

// ShortName drops any parenthesised qualifier: "The Skeptic (UGC)" -> "The Skeptic".
func (a Archetype) ShortName() string {
	v := a.Value()
	if i := strings.Index(v, "("); i >= 0 {
		v = v[:i]
	}
	return strings.TrimSpace(v)
}

func (a Archetype) String() string { return a.Key() }

func (a Archetype) MarshalText() ([]byte, error) {
	if !a.valid() {
		return nil, fmt.Errorf("archetype %d: %w", int(a), ErrUnknownVariant)
	}
	return []byte(a.Key()), nil
}

func (a *Archetype) UnmarshalText(b []byte) error {
	i, ok := lookup(archetypes, string(b))
	if !ok {
		return fmt.Errorf("archetype %q: %w", string(b), ErrUnknownVariant)
	}
	*a = Archetype(i)
	return nil
}

func ParseArchetype(s string) (Archetype, error) {
	var a Archetype
	err := a.UnmarshalText([]byte(s))
	return a, err
}

type Format int

const (
	FormatSquare Format = iota
	FormatStory
	FormatLandscape
	FormatCarousel
)

var formats = []variant{
	{Key: "SQUARE", Value: "1:1 (Instagram/Facebook Feed)", Label: "Square (1:1)"},
	{Key: "STORY", Value: "9:16 (TikTok/Reels/Stories)", Label: "Vertical / Stories (9:16)"},
	{Key: "LANDSCAPE", Value: "16:9 (YouTube/Web)", Label: "Landscape (16:9)"},
	{Key: "CAROUSEL", Value: "Carousel (4+ slide sequence)", Label: "Carousel (4:5 / 1:1 multi-slide)"},
}

// image and video aspect ratios, indexed by Format
var (
	imageAspect = []string{"1:1", "9:16", "16:9", "16:9"}
	videoAspect = []string{"9:16", "9:16", "16:9", "16:9"}
	formatShape = []string{"Square (1:1)", "Vertical (9:16)", "Horizontal (16:9)", "Horizontal (16:9)"}
)

func Formats() []Format {
	out := make([]Format, len(formats))
	for i := range formats {
		out[i] = Format(i)
	}
	return out
}

func (f Format) valid() bool { return f >= 0 && int(f) < len(formats) }

func (f Format) Key() string {
	if !f.valid() {
		return ""
	}
	return formats[f].Key
}

func (f Format) Value() string {
	if !f.valid() {
		return ""
	}
	return formats[f].Value
}

func (f Format) Label() string {
	if !f.valid() {
		return ""
	}
	return formats[f].Label
}

// ImageAspectRatio is the ratio requested from the image generator. Carousels
// are rendered as one wide panorama and sliced afterwards.
func (f Format) ImageAspectRatio() string {
	if !f.valid() {
		return imageAspect[FormatSquare]
	}
	return imageAspect[f]
}

// VideoAspectRatio maps onto the two ratios the video model supports.
func (f Format) VideoAspectRatio() string {
	if !f.valid() {
		return videoAspect[FormatStory]
	}
	return videoAspect[f]
}

// Shape is the human description of the output canvas used in edit prompts.
func (f Format) Shape() string {
	if !f.valid() {
		return formatShape[FormatSquare]
	}
	return formatShape[f]
}

func (f Format) String() string { return f.Key() }

func (f Format) MarshalText() ([]byte, error) {
	if !f.valid() {
		return nil, fmt.Errorf("format %d: %w", int(f), ErrUnknownVariant)
	}
	return []byte(f.Key()), nil
}

func (f *Format) UnmarshalText(b []byte) error {
	i, ok := lookup(formats, string(b))
	if !ok {
		return fmt.Errorf("format %q: %w", string(b), ErrUnknownVariant)
	}
	*f = Format(i)
	return nil
}

func ParseFormat(s string) (Format, error) {
	var f Format
	err := f.UnmarshalText([]byte(s))
	return f, err
}

type Tone int

const (
	ToneUrgent Tone = iota
	ToneHumorous
	ToneEmotional
	ToneControversial
	ToneEducational
	ToneRelaxed
)

var tones = []variant{
	{Key: "URGENT", Value: "Urgent / Scarcity", Label: "🔥 Urgent"},
	{Key: "HUMOROUS", Value: "Humorous / Meme", Label: "😂 Humorous"},
	{Key: "EMOTIONAL", Value: "Emotional / Inspirational", Label: "❤️ Emotional"},
	{Key: "CONTROVERSIAL", Value: "Controversial / Polarizing", Label: "👀 Controversial"},
	{Key: "EDUCATIONAL", Value: "Educational / Authority", Label: "🧠 Educational"},
	{Key: "RELAXED", Value: "Relaxed / Chill", Label: "🧘 Relaxed"},
}

func Tones() []Tone {
	out := make([]Tone, len(tones))
	for i := range tones {
		out[i] = Tone(i)
	}
	return out
}

func (t Tone) valid() bool { return t >= 0 && int(t) < len(tones) }

func (t Tone) Key() string {
	if !t.valid() {
		return ""
	}
	return tones[t].Key
}

func (t Tone) Value() string {
	if !t.valid() {
		return ""
	}
	return tones[t].Value
}

func (t Tone) Label() string {
	if !t.valid() {
		return ""
	}
	return tones[t].Label
}

func (t Tone) String() string { return t.Key() }

func (t Tone) MarshalText() ([]byte, error) {
	if !t.valid() {
		return nil, fmt.Errorf("tone %d: %w", int(t), ErrUnknownVariant)
	}
	return []byte(t.Key()), nil
}

func (t *Tone) UnmarshalText(b []byte) error {
	i, ok := lookup(tones, string(b))
	if !ok {
		return fmt.Errorf("tone %q: %w", string(b), ErrUnknownVariant)
	}
	*t = Tone(i)
	return nil
}

func ParseTone(s string) (Tone, error) {
	var t Tone
	err := t.UnmarshalText([]byte(s))
	return t, err
}
