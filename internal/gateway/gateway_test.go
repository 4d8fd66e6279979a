package gateway

import (
	"adforge/internal/models"
	"adforge/internal/structures"
	"adforge/internal/testutil"
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/atomic"
	"google.golang.org/genai"
)

func pngBytes() []byte {
	return append([]byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}, bytes.Repeat([]byte{0x42}, 120)...)
}

func testGateway(t *testing.T, key string) *GeminiGateway {
	t.Helper()
	conf := &structures.Config{Gateway: structures.GatewayConfig{
		ApiKey:             key,
		TextModel:          "gemini-2.5-flash",
		ImageModel:         "imagen-4.0-generate-001",
		FallbackImageModel: "gemini-2.5-flash-image",
		VideoModel:         "veo-3.1-fast-generate-preview",
		Timeout:            time.Second,
		VideoTimeout:       5 * time.Second,
		PollInterval:       10 * time.Millisecond,
		MediaDir:           t.TempDir(),
	}}
	return NewGeminiGateway(conf, &testutil.MockLogger{}, &testutil.MockMetrics{}).(*GeminiGateway)
}

func TestDataURL_RoundTrip(t *testing.T) {
	url := ToDataURL("", pngBytes())
	assert.True(t, IsDataURL(url))
	assert.True(t, strings.HasPrefix(url, "data:image/png;base64,"))

	data, mime, err := DecodeImage(url)
	require.NoError(t, err)
	assert.Equal(t, "image/png", mime)
	assert.Equal(t, pngBytes(), data)
}

func TestDecodeImage_BareBase64AndMime(t *testing.T) {
	url := ToDataURL("image/jpeg", pngBytes())
	_, mime, err := DecodeImage(url)
	require.NoError(t, err)
	assert.Equal(t, "image/jpeg", mime)

	data, mime, err := DecodeImage(StripHeader(url))
	require.NoError(t, err)
	assert.Equal(t, DefaultImageMIME, mime)
	assert.Equal(t, pngBytes(), data)
}

func TestDecodeImage_RejectsShortPayload(t *testing.T) {
	_, _, err := DecodeImage("data:image/png;base64,AAAA")
	assert.ErrorIs(t, err, ErrInvalidImage)

	_, _, err = DecodeImage(strings.Repeat("!", 200))
	assert.ErrorIs(t, err, ErrInvalidImage)
}

func TestFirstSuccess_Order(t *testing.T) {
	var calls []string
	attempt := func(name string, err error) Attempt[string] {
		return Attempt[string]{Name: name, Run: func(context.Context) (string, error) {
			calls = append(calls, name)
			return name, err
		}}
	}

	res, err := FirstSuccess(context.Background(), attempt("edit", errors.New("boom")), attempt("generate", nil), attempt("never", nil))
	require.NoError(t, err)
	assert.Equal(t, "generate", res)
	assert.Equal(t, []string{"edit", "generate"}, calls)
}

func TestFirstSuccess_AllFail(t *testing.T) {
	errA, errB := errors.New("a failed"), errors.New("b failed")
	_, err := FirstSuccess(context.Background(),
		Attempt[int]{Name: "a", Run: func(context.Context) (int, error) { return 0, errA }},
		Attempt[int]{Name: "b", Run: func(context.Context) (int, error) { return 0, errB }},
	)
	assert.ErrorIs(t, err, errA)
	assert.ErrorIs(t, err, errB)
}

func TestFirstSuccess_CancelledContextStops(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	ran := false
	_, err := FirstSuccess(ctx, Attempt[int]{Name: "a", Run: func(context.Context) (int, error) {
		ran = true
		return 1, nil
	}})
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, ran)

	_, err = FirstSuccess[int](context.Background())
	assert.Error(t, err)
}

func TestFirstSuccess_TimeoutIsPerAttempt(t *testing.T) {
	stalled := Attempt[string]{Name: "stalled", Timeout: 20 * time.Millisecond, Run: func(ctx context.Context) (string, error) {
		<-ctx.Done()
		return "", ctx.Err()
	}}
	next := Attempt[string]{Name: "next", Timeout: 20 * time.Millisecond, Run: func(ctx context.Context) (string, error) {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		return "rendered", nil
	}}

	res, err := FirstSuccess(context.Background(), stalled, next)
	require.NoError(t, err)
	assert.Equal(t, "rendered", res)
}

func TestGemini_StalledImagenFallsBackToFlash(t *testing.T) {
	var flashCalls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasSuffix(r.URL.Path, ":predict"):
			<-r.Context().Done()
		case strings.HasSuffix(r.URL.Path, ":generateContent"):
			flashCalls.Inc()
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"candidates":[{"content":{"role":"model","parts":[{"inlineData":{"mimeType":"image/png","data":"` +
				StripHeader(ToDataURL("", pngBytes())) + `"}}]}}]}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	g := testGateway(t, "secret")
	g.conf.BaseURL = srv.URL
	g.conf.Timeout = 200 * time.Millisecond

	url, err := g.GenerateImage(context.Background(), "a gym at dawn", models.FormatSquare)
	require.NoError(t, err)
	assert.Equal(t, int32(1), flashCalls.Load())

	data, _, err := DecodeImage(url)
	require.NoError(t, err)
	assert.Equal(t, pngBytes(), data)
}

func scriptsJSON(n int) string {
	scripts := make([]string, n)
	for i := range scripts {
		scripts[i] = `{"title":"T","hook":"H","body":"B","cta":"C","slides":[{"slideNumber":1,"headline":"h","body":"b"}]}`
	}
	return `{"scripts":[` + strings.Join(scripts, ",") + `],"imagePrompt":"a cozy kitchen"}`
}

func TestParseScriptResult(t *testing.T) {
	res, err := ParseScriptResult(scriptsJSON(ScriptCount))
	require.NoError(t, err)
	require.Len(t, res.Scripts, ScriptCount)
	assert.Equal(t, "a cozy kitchen", res.ImagePrompt)
	assert.Len(t, res.Scripts[0].Slides, 1)

	_, err = ParseScriptResult(scriptsJSON(1))
	assert.ErrorContains(t, err, "expected 5 scripts, got 1")
	_, err = ParseScriptResult(scriptsJSON(6))
	assert.Error(t, err)

	_, err = ParseScriptResult("")
	assert.ErrorIs(t, err, ErrEmptyResponse)
	_, err = ParseScriptResult(`{"scripts":[],"imagePrompt":""}`)
	assert.ErrorIs(t, err, ErrEmptyResponse)
	_, err = ParseScriptResult(`{not json`)
	assert.Error(t, err)
}

func TestIsAuthFailure(t *testing.T) {
	assert.True(t, IsAuthFailure(errors.New("Requested entity was not found.")))
	assert.True(t, IsAuthFailure(errors.New("status 404")))
	assert.True(t, IsAuthFailure(ErrUnauthorized))
	assert.False(t, IsAuthFailure(errors.New("deadline exceeded")))
	assert.False(t, IsAuthFailure(nil))
}

func TestClassifyAuth(t *testing.T) {
	err := classifyAuth(genai.APIError{Code: 404, Message: "not found"})
	assert.ErrorIs(t, err, ErrUnauthorized)

	err = classifyAuth(genai.APIError{Code: 500, Message: "internal"})
	assert.NotErrorIs(t, err, ErrUnauthorized)

	assert.NoError(t, classifyAuth(nil))
}

func TestResearch_DisabledSkipsBackend(t *testing.T) {
	g := testGateway(t, "")
	res, err := g.Research(context.Background(), ResearchRequest{ProductName: "x", Enabled: false})
	require.NoError(t, err)
	assert.Equal(t, ResearchDisabledSummary, res.Summary)
	assert.Empty(t, res.Sources)
}

func TestGemini_MissingKeyIsUnauthorized(t *testing.T) {
	g := testGateway(t, "")
	_, err := g.GenerateScripts(context.Background(), ScriptRequest{Input: models.DefaultInput()})
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, err = g.AnimateImage(context.Background(), ToDataURL("", pngBytes()), models.FormatSquare)
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestGemini_EditRejectsBadSourceBeforeCalling(t *testing.T) {
	g := testGateway(t, "some-key")
	_, err := g.EditImage(context.Background(), EditRequest{Source: "data:image/png;base64,AAA", Prompt: "p"})
	assert.ErrorIs(t, err, ErrInvalidImage)
}

func TestGemini_SetAPIKeyResetsClient(t *testing.T) {
	g := testGateway(t, "old")
	g.client = &genai.Client{}
	g.SetAPIKey("old")
	assert.NotNil(t, g.client)
	g.SetAPIKey("new")
	assert.Nil(t, g.client)
	assert.Equal(t, "new", g.key)
}

func TestGemini_DownloadStoresVideo(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "secret", r.URL.Query().Get("key"))
		assert.Equal(t, "download", r.URL.Query().Get("alt"))
		_, _ = w.Write([]byte("fake-mp4"))
	}))
	defer srv.Close()

	g := testGateway(t, "secret")
	path, err := g.download(context.Background(), srv.URL+"/v1/files/abc?alt=download", "secret")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(path, MediaURLPrefix))
	assert.True(t, strings.HasSuffix(path, ".mp4"))

	data, err := os.ReadFile(filepath.Join(g.conf.MediaDir, strings.TrimPrefix(path, MediaURLPrefix)))
	require.NoError(t, err)
	assert.Equal(t, []byte("fake-mp4"), data)
}

func TestGemini_DownloadHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "Requested entity was not found", http.StatusNotFound)
	}))
	defer srv.Close()

	g := testGateway(t, "secret")
	g.http.SetRetryCount(0)
	_, err := g.download(context.Background(), srv.URL+"/v1/files/abc?alt=download", "secret")
	assert.ErrorIs(t, err, ErrUnauthorized)

	entries, err := os.ReadDir(g.conf.MediaDir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
