package orchestrator

import (
	"adforge/internal/gateway"
	"adforge/internal/models"
	"bytes"
	"context"
	"sync"
)

func image(tag string) string {
	return gateway.ToDataURL("image/png", append([]byte(tag+":"), bytes.Repeat([]byte{0x42}, 120)...))
}

type fakeGateway struct {
	mu    sync.Mutex
	calls []string

	researchErr error
	scriptsErr  error
	generateErr error
	editErr     error
	animateErr  error

	scripts  gateway.ScriptResult
	sources  []models.ResearchSource
	imageURL string
	video    string

	scriptGate  chan struct{}
	animateGate chan struct{}

	scriptRequests []gateway.ScriptRequest
	edits          []gateway.EditRequest
	generated      []models.Format
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{
		scripts: gateway.ScriptResult{
			Scripts: []models.Script{
				{Title: "T1", Hook: "H1", Body: "B1", CTA: "C1"},
				{Title: "T2", Hook: "H2", Body: "B2", CTA: "C2"},
			},
			ImagePrompt: "a dorm room at 7am",
		},
		sources: []models.ResearchSource{{Title: "Trends", URI: "https://example.org/trends"}},
		video:   "/media/video.mp4",
	}
}

func (f *fakeGateway) record(call string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
}

func (f *fakeGateway) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeGateway) Research(_ context.Context, req gateway.ResearchRequest) (gateway.Research, error) {
	f.record("research")
	if f.researchErr != nil {
		return gateway.Research{}, f.researchErr
	}
	if !req.Enabled {
		return gateway.DisabledResearch(), nil
	}
	return gateway.Research{Summary: "insights", Sources: f.sources}, nil
}

func (f *fakeGateway) GenerateScripts(ctx context.Context, req gateway.ScriptRequest) (gateway.ScriptResult, error) {
	f.record("scripts")
	f.mu.Lock()
	f.scriptRequests = append(f.scriptRequests, req)
	gate := f.scriptGate
	f.mu.Unlock()
	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return gateway.ScriptResult{}, ctx.Err()
		}
	}
	if f.scriptsErr != nil {
		return gateway.ScriptResult{}, f.scriptsErr
	}
	res := f.scripts
	if req.Refinement != nil {
		res.ImagePrompt = req.Refinement.PreviousImagePrompt + " / " + req.Refinement.Instruction
	}
	return res, nil
}

func (f *fakeGateway) GenerateImage(_ context.Context, prompt string, format models.Format) (string, error) {
	f.record("generate")
	f.mu.Lock()
	f.generated = append(f.generated, format)
	f.mu.Unlock()
	if f.generateErr != nil {
		return "", f.generateErr
	}
	if f.imageURL != "" {
		return f.imageURL, nil
	}
	return image("generated " + format.Key()), nil
}

func (f *fakeGateway) EditImage(_ context.Context, req gateway.EditRequest) (string, error) {
	f.record("edit")
	f.mu.Lock()
	f.edits = append(f.edits, req)
	f.mu.Unlock()
	if f.editErr != nil {
		return "", f.editErr
	}
	return image("edited " + req.Format.Key()), nil
}

func (f *fakeGateway) AnimateImage(ctx context.Context, _ string, _ models.Format) (string, error) {
	f.record("animate")
	f.mu.Lock()
	gate := f.animateGate
	f.mu.Unlock()
	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	if f.animateErr != nil {
		return "", f.animateErr
	}
	return f.video, nil
}

type fakeKeys struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (k *fakeKeys) Reselect(context.Context) error {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.calls++
	return k.err
}

func (k *fakeKeys) Calls() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.calls
}
