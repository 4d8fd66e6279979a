package orchestrator

import (
	"adforge/internal/gateway"
	"adforge/internal/models"
	"adforge/internal/navigation"
	"adforge/internal/providers"
	"adforge/internal/services"
	"adforge/internal/structures"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

const (
	initialRequest   = "Initial Generation"
	variationRequest = "Variante (Reversion)"
	enhanceRequest   = "Mejoras de Producto (Studio Mode)"

	outcomeSucceeded = "succeeded"
	outcomeFailed    = "failed"
	outcomeDiscarded = "discarded"
)

func resizeRequest(f models.Format) string {
	return "Redimensionado a " + f.Value()
}

type OrchestratorInterface interface {
	SubmitCampaign(in models.CampaignInput) (SlotKey, error)
	SubmitAdSet(req AdSetRequest) (SlotKey, error)
	Refine(req RefineRequest) (SlotKey, error)
	Resize(req ResizeRequest) (SlotKey, error)
	Variation(req AdRequest) (SlotKey, error)
	Enhance(req EnhanceRequest) (SlotKey, error)
	Animate(req AdRequest) (SlotKey, error)
	RenameAdSet(req RenameRequest) error
	DeleteSession(sessionID string) error
	Tasks() []TaskStatus
	Errors() map[Category]string
	Stop(ctx context.Context) error
}

// Orchestrator turns user actions into backend calls and folds every
// successful result into the session store. Failed actions never touch the
// store; they leave one message in their error category instead.
type Orchestrator struct {
	conf       structures.GatewayConfig
	gw         gateway.Gateway
	keys       KeySelector
	store      services.SessionStoreInterface
	nav        navigation.NavigatorInterface
	dispatcher *Dispatcher
	errs       *ErrorBoard
	logger     providers.Logger
	metrics    providers.MetricsProviderInterface

	newID func() string
	now   func() int64
}

func NewOrchestrator(
	conf *structures.Config,
	gw gateway.Gateway,
	keys KeySelector,
	store services.SessionStoreInterface,
	nav navigation.NavigatorInterface,
	logger providers.Logger,
	metrics providers.MetricsProviderInterface,
) *Orchestrator {
	return &Orchestrator{
		conf:       conf.Gateway,
		gw:         gw,
		keys:       keys,
		store:      store,
		nav:        nav,
		dispatcher: NewDispatcher(logger),
		errs:       NewErrorBoard(),
		logger:     logger,
		metrics:    metrics,
		newID:      uuid.NewString,
		now:        func() int64 { return time.Now().UnixMilli() },
	}
}

func (o *Orchestrator) Tasks() []TaskStatus         { return o.dispatcher.Status() }
func (o *Orchestrator) Errors() map[Category]string { return o.errs.Snapshot() }

// Wait blocks until all dispatched actions completed.
func (o *Orchestrator) Wait() { o.dispatcher.Wait() }

func (o *Orchestrator) Stop(ctx context.Context) error {
	return o.dispatcher.Stop(ctx)
}

// SubmitCampaign generates the first ad of a new session.
func (o *Orchestrator) SubmitCampaign(in models.CampaignInput) (SlotKey, error) {
	if err := validateInput(in); err != nil {
		return SlotKey{}, err
	}
	epoch := o.nav.Epoch()
	key := CampaignSlot()
	return key, o.dispatcher.Go(key, func(ctx context.Context) error {
		o.errs.Clear(CategoryGeneration)

		ad, err := o.generate(ctx, in)
		if err != nil {
			return o.fail("campaign", CategoryGeneration, MsgGeneration, err)
		}
		now := o.now()
		adSet := models.NewAdSet(o.newID(), in, ad, now)
		session := models.NewSession(o.newID(), models.ProductInfo{Name: in.ProductName, PainPoint: in.PainPoint}, adSet, now)
		o.store.Apply(func(sessions []models.Session) []models.Session {
			return models.CreateSession(sessions, session)
		})
		if !o.nav.CampaignCreated(epoch, session.ID, adSet.ID) {
			o.logger.Debugf(providers.TypeApp, "campaign %s created after navigation moved on", session.ID)
		}
		o.succeed("campaign")
		return nil
	})
}

// SubmitAdSet generates a new ad set inside an existing session.
func (o *Orchestrator) SubmitAdSet(req AdSetRequest) (SlotKey, error) {
	if err := validateStruct(&req); err != nil {
		return SlotKey{}, err
	}
	if err := validateInput(req.Input); err != nil {
		return SlotKey{}, err
	}
	if _, ok := models.FindSession(o.store.Snapshot(), req.SessionID); !ok {
		return SlotKey{}, fmt.Errorf("session %s: %w", req.SessionID, ErrNotFound)
	}
	epoch := o.nav.Epoch()
	key := AdSetSlot(req.SessionID)
	return key, o.dispatcher.Go(key, func(ctx context.Context) error {
		o.errs.Clear(CategoryAdSetCreation)

		ad, err := o.generate(ctx, req.Input)
		if err != nil {
			return o.fail("adSet", CategoryAdSetCreation, MsgAdSetCreation, err)
		}
		adSet := models.NewAdSet(o.newID(), req.Input, ad, o.now())
		if !o.commit("adSet", func(sessions []models.Session) []models.Session {
			return models.AppendAdSet(sessions, req.SessionID, adSet, o.now())
		}) {
			return ErrStaleTarget
		}
		o.nav.AdSetCreated(epoch, req.SessionID, adSet.ID)
		o.succeed("adSet")
		return nil
	})
}

// Refine regenerates copy and image from a previous version and a free-text
// instruction. Research is not repeated; its sources carry over.
func (o *Orchestrator) Refine(req RefineRequest) (SlotKey, error) {
	if err := validateStruct(&req); err != nil {
		return SlotKey{}, err
	}
	instruction := req.instruction()
	if instruction == "" {
		return SlotKey{}, invalid(errors.New("instruction is empty"))
	}
	session, adSet, prev, err := o.locate(req.SessionID, req.AdSetID, req.AdID)
	if err != nil {
		return SlotKey{}, err
	}

	key := RefineSlot(adSet.ID)
	return key, o.dispatcher.Go(key, func(ctx context.Context) error {
		o.errs.Clear(CategoryRefinement)

		in := models.RefinementInput(session, adSet)
		res, err := bounded(ctx, o.conf.Timeout, func(ctx context.Context) (gateway.ScriptResult, error) {
			return o.gw.GenerateScripts(ctx, gateway.ScriptRequest{
				Input:      in,
				Refinement: &gateway.Refinement{PreviousImagePrompt: prev.ImagePrompt, Instruction: instruction},
			})
		})
		if err != nil {
			return o.fail("refine", CategoryRefinement, MsgRefinement, err)
		}
		image, err := renderImage(ctx, ImageStrategies(o.gw, ImageJob{
			Prompt:    res.ImagePrompt,
			Format:    in.Format,
			Reference: adSet.ReferenceImage,
			Logo:      adSet.LogoImage,
			Timeout:   o.conf.Timeout,
		}))
		if err != nil {
			return o.fail("refine", CategoryRefinement, MsgRefinement, err)
		}

		ad := models.Ad{
			ID:              o.newID(),
			Timestamp:       o.now(),
			Scripts:         models.BackfillScripts(res.Scripts, in.Format),
			ImagePrompt:     res.ImagePrompt,
			ImageURL:        image,
			UserRequest:     instruction,
			ResearchSources: prev.ResearchSources,
		}
		return o.appendVersion("refine", req.SessionID, adSet.ID, ad)
	})
}

// Resize renders the version again at another format.
func (o *Orchestrator) Resize(req ResizeRequest) (SlotKey, error) {
	if err := validateStruct(&req); err != nil {
		return SlotKey{}, err
	}
	_, adSet, current, err := o.locate(req.SessionID, req.AdSetID, req.AdID)
	if err != nil {
		return SlotKey{}, err
	}
	strategies := ResizeStrategies(o.gw, o.conf.Timeout, current.ImagePrompt, req.Format, adSet.ReferenceImage)
	return o.imageOnly("resize", req.SessionID, adSet.ID, current, strategies, resizeRequest(req.Format), MsgResize)
}

// Variation re-renders from the ad set's reference photo, or from the current
// image when there is none.
func (o *Orchestrator) Variation(req AdRequest) (SlotKey, error) {
	if err := validateStruct(&req); err != nil {
		return SlotKey{}, err
	}
	_, adSet, current, err := o.locate(req.SessionID, req.AdSetID, req.AdID)
	if err != nil {
		return SlotKey{}, err
	}
	source := adSet.ReferenceImage
	if source == "" {
		source = current.ImageURL
	}
	if err := checkImage("variation source", source); err != nil {
		return SlotKey{}, err
	}
	strategies := VariationStrategies(o.gw, o.conf.Timeout, current.ImagePrompt, adSet.Format, source)
	return o.imageOnly("variation", req.SessionID, adSet.ID, current, strategies, variationRequest, MsgVariation)
}

// Enhance places an uploaded product photo into the current scene.
func (o *Orchestrator) Enhance(req EnhanceRequest) (SlotKey, error) {
	if err := validateStruct(&req); err != nil {
		return SlotKey{}, err
	}
	if err := checkImage("upload", req.Image); err != nil {
		return SlotKey{}, err
	}
	_, adSet, current, err := o.locate(req.SessionID, req.AdSetID, req.AdID)
	if err != nil {
		return SlotKey{}, err
	}
	strategies := EnhanceStrategies(o.gw, o.conf.Timeout, current.ImagePrompt, adSet.Format, req.Image)
	return o.imageOnly("enhance", req.SessionID, adSet.ID, current, strategies, enhanceRequest, MsgEnhance)
}

// imageOnly appends a clone of current carrying a new image.
func (o *Orchestrator) imageOnly(kind, sessionID, adSetID string, current models.Ad, strategies []ImageStrategy, request, msg string) (SlotKey, error) {
	key := ImageEditSlot(adSetID)
	return key, o.dispatcher.Go(key, func(ctx context.Context) error {
		o.errs.Clear(CategoryImageEdit)

		image, err := renderImage(ctx, strategies)
		if err == nil && !gateway.IsDataURL(image) {
			err = fmt.Errorf("%w: result is not an image", gateway.ErrInvalidImage)
		}
		if err != nil {
			return o.fail(kind, CategoryImageEdit, msg, err)
		}

		ad := current
		ad.ID = o.newID()
		ad.Timestamp = o.now()
		ad.ImageURL = image
		ad.UserRequest = request
		return o.appendVersion(kind, sessionID, adSetID, ad)
	})
}

// Animate attaches a video to an existing version in place. Ads that already
// have a video are refused, and so is a second animation in the same ad set.
func (o *Orchestrator) Animate(req AdRequest) (SlotKey, error) {
	if err := validateStruct(&req); err != nil {
		return SlotKey{}, err
	}
	_, adSet, ad, err := o.locate(req.SessionID, req.AdSetID, req.AdID)
	if err != nil {
		return SlotKey{}, err
	}
	if ad.HasVideo() {
		return SlotKey{}, fmt.Errorf("ad %s: %w", ad.ID, ErrAlreadyAnimated)
	}

	key := AnimateSlot(adSet.ID)
	return key, o.dispatcher.Go(key, func(ctx context.Context) error {
		o.errs.Clear(CategoryAnimation)

		video, err := bounded(ctx, o.conf.VideoTimeout, func(ctx context.Context) (string, error) {
			return o.gw.AnimateImage(ctx, ad.ImageURL, adSet.Format)
		})
		if err != nil {
			if gateway.IsAuthFailure(err) {
				if kerr := o.keys.Reselect(ctx); kerr != nil {
					err = errors.Join(err, kerr)
				}
				return o.fail("animate", CategoryAnimation, MsgAnimationAuth, err)
			}
			return o.fail("animate", CategoryAnimation, MsgAnimation, err)
		}

		if !o.commit("animate", func(sessions []models.Session) []models.Session {
			return models.UpdateAdVersionInPlace(sessions, req.SessionID, adSet.ID, ad.ID, models.AdPatch{VideoURL: &video}, o.now())
		}) {
			return ErrStaleTarget
		}
		o.succeed("animate")
		return nil
	})
}

func (o *Orchestrator) RenameAdSet(req RenameRequest) error {
	if err := validateStruct(&req); err != nil {
		return err
	}
	if _, _, ok := models.Locate(o.store.Snapshot(), req.SessionID, req.AdSetID); !ok {
		return fmt.Errorf("ad set %s: %w", req.AdSetID, ErrNotFound)
	}
	rename := models.AdSetRename{Name: req.Name, TargetAudience: req.TargetAudience}
	o.store.Apply(func(sessions []models.Session) []models.Session {
		return models.RenameAdSet(sessions, req.SessionID, req.AdSetID, rename, o.now())
	})
	return nil
}

// DeleteSession removes a session and, when it was selected, sends the user
// back to campaign creation.
func (o *Orchestrator) DeleteSession(sessionID string) error {
	applied := o.store.Apply(func(sessions []models.Session) []models.Session {
		return models.DeleteSession(sessions, sessionID)
	})
	if !applied {
		return fmt.Errorf("session %s: %w", sessionID, ErrNotFound)
	}
	o.nav.SessionDeleted(sessionID)
	o.logger.Infof(providers.TypeApp, "session %s deleted", sessionID)
	return nil
}

// generate runs research, copy and image generation for a brief.
func (o *Orchestrator) generate(ctx context.Context, in models.CampaignInput) (models.Ad, error) {
	research, err := bounded(ctx, o.conf.Timeout, func(ctx context.Context) (gateway.Research, error) {
		return o.gw.Research(ctx, gateway.ResearchRequest{
			ProductName: in.ProductName,
			Audience:    in.TargetAudience,
			PainPoint:   in.PainPoint,
			Enabled:     in.UseResearch,
		})
	})
	if err != nil {
		return models.Ad{}, fmt.Errorf("research: %w", err)
	}

	res, err := bounded(ctx, o.conf.Timeout, func(ctx context.Context) (gateway.ScriptResult, error) {
		return o.gw.GenerateScripts(ctx, gateway.ScriptRequest{Input: in, Research: research.Summary})
	})
	if err != nil {
		return models.Ad{}, fmt.Errorf("scripts: %w", err)
	}

	image, err := renderImage(ctx, ImageStrategies(o.gw, ImageJob{
		Prompt:    res.ImagePrompt,
		Format:    in.Format,
		Reference: in.ReferenceImage,
		Logo:      in.LogoImage,
		Timeout:   o.conf.Timeout,
	}))
	if err != nil {
		return models.Ad{}, err
	}

	return models.Ad{
		ID:              o.newID(),
		Timestamp:       o.now(),
		Scripts:         models.BackfillScripts(res.Scripts, in.Format),
		ImagePrompt:     res.ImagePrompt,
		ImageURL:        image,
		UserRequest:     initialRequest,
		ResearchSources: research.Sources,
	}, nil
}

func (o *Orchestrator) locate(sessionID, adSetID, adID string) (models.Session, models.AdSet, models.Ad, error) {
	session, adSet, ok := models.Locate(o.store.Snapshot(), sessionID, adSetID)
	if !ok {
		return models.Session{}, models.AdSet{}, models.Ad{}, fmt.Errorf("ad set %s/%s: %w", sessionID, adSetID, ErrNotFound)
	}
	var ad models.Ad
	if adID == "" {
		ad, ok = models.LatestAd(adSet)
	} else {
		ad, _, ok = models.FindAd(adSet, adID)
	}
	if !ok {
		return models.Session{}, models.AdSet{}, models.Ad{}, fmt.Errorf("ad %q in %s: %w", adID, adSetID, ErrNotFound)
	}
	return session, adSet, ad, nil
}

func (o *Orchestrator) appendVersion(kind, sessionID, adSetID string, ad models.Ad) error {
	if !o.commit(kind, func(sessions []models.Session) []models.Session {
		return models.AppendAdVersion(sessions, sessionID, adSetID, ad, o.now())
	}) {
		return ErrStaleTarget
	}
	o.succeed(kind)
	return nil
}

// commit applies op and reports whether its target still existed.
func (o *Orchestrator) commit(kind string, op services.Op) bool {
	if o.store.Apply(op) {
		return true
	}
	o.logger.Warnf(providers.TypeApp, "%s result discarded: target no longer exists", kind)
	o.metrics.IncActionsTotal(kind, outcomeDiscarded)
	return false
}

func (o *Orchestrator) fail(kind string, c Category, msg string, err error) error {
	o.errs.Set(c, msg)
	o.metrics.IncActionsTotal(kind, outcomeFailed)
	o.logger.Errorf(providers.TypeApp, "%s failed: %s", kind, err)
	return err
}

func (o *Orchestrator) succeed(kind string) {
	o.metrics.IncActionsTotal(kind, outcomeSucceeded)
	o.logger.Infof(providers.TypeApp, "%s completed", kind)
}

func bounded[T any](ctx context.Context, timeout time.Duration, fn func(context.Context) (T, error)) (T, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return fn(ctx)
}
