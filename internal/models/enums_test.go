package models

import (
	"errors"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArchetype_RoundTrip(t *testing.T) {
	for _, a := range Archetypes() {
		b, err := json.Marshal(a)
		require.NoError(t, err)

		var back Archetype
		require.NoError(t, json.Unmarshal(b, &back))
		assert.Equal(t, a, back)
	}
}

func TestFormat_RoundTrip(t *testing.T) {
	for _, f := range Formats() {
		b, err := json.Marshal(f)
		require.NoError(t, err)

		var back Format
		require.NoError(t, json.Unmarshal(b, &back))
		assert.Equal(t, f, back)
	}
}

func TestTone_RoundTrip(t *testing.T) {
	for _, v := range Tones() {
		b, err := json.Marshal(v)
		require.NoError(t, err)

		var back Tone
		require.NoError(t, json.Unmarshal(b, &back))
		assert.Equal(t, v, back)
	}
}

func TestEnums_AcceptPromptValue(t *testing.T) {
	a, err := ParseArchetype("The Skeptic (UGC)")
	require.NoError(t, err)
	assert.Equal(t, ArchetypeSkeptic, a)

	f, err := ParseFormat("16:9 (YouTube/Web)")
	require.NoError(t, err)
	assert.Equal(t, FormatLandscape, f)
}

func TestEnums_ValueFormIsRewrittenAsKey(t *testing.T) {
	var in struct {
		Archetype Archetype `json:"archetype"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"archetype":"Us vs. Them"}`), &in))

	out, err := json.Marshal(in)
	require.NoError(t, err)
	assert.JSONEq(t, `{"archetype":"US_VS_THEM"}`, string(out))
}

func TestEnums_RejectUnknown(t *testing.T) {
	_, err := ParseArchetype("Meme Lord")
	assert.True(t, errors.Is(err, ErrUnknownVariant))

	var f Format
	assert.Error(t, json.Unmarshal([]byte(`"POSTER"`), &f))

	_, err = json.Marshal(Tone(42))
	assert.Error(t, err)
}

func TestEnums_LabelsAreSeparateFromKeys(t *testing.T) {
	for _, a := range Archetypes() {
		assert.NotEqual(t, a.Key(), a.Label())
		assert.NotEmpty(t, a.Value())
	}
	assert.Equal(t, "US_VS_THEM", ArchetypeUsVsThem.String())
}

func TestFormat_AspectRatios(t *testing.T) {
	assert.Equal(t, "1:1", FormatSquare.ImageAspectRatio())
	assert.Equal(t, "9:16", FormatStory.ImageAspectRatio())
	assert.Equal(t, "16:9", FormatLandscape.ImageAspectRatio())
	assert.Equal(t, "16:9", FormatCarousel.ImageAspectRatio())

	assert.Equal(t, "9:16", FormatSquare.VideoAspectRatio())
	assert.Equal(t, "16:9", FormatCarousel.VideoAspectRatio())
}
