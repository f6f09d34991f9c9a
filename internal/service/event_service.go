package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/jhnmartin/join-gradient/internal/client"
	"github.com/jhnmartin/join-gradient/internal/domain"
	"github.com/jhnmartin/join-gradient/internal/mapper"
	"github.com/jhnmartin/join-gradient/internal/repository"
	"github.com/jhnmartin/join-gradient/internal/timeconv"
	"github.com/jhnmartin/join-gradient/pkg/logger"
	"github.com/jhnmartin/join-gradient/pkg/saga"
)

// defaultTimezoneLabel is attached to coworking events when the source
// supplies no explicit timezone; it matches the naive-conversion heuristic.
const defaultTimezoneLabel = "America/Chicago"

// SyncOutcome reports what an event sync accomplished. Notes carry
// best-effort step failures that did not fail the request.
type SyncOutcome struct {
	CmsItem     *domain.CmsItem
	CoworkingID string
	Notes       []string
}

// EventService keeps the CMS and the coworking platform convergent with the
// source platform's event lifecycle
type EventService interface {
	CreateEvent(ctx context.Context, src *domain.SourceEvent) (*SyncOutcome, error)
	UpdateEvent(ctx context.Context, src *domain.SourceEvent) (*SyncOutcome, error)
	DeleteEvent(ctx context.Context, sourceID string) (*SyncOutcome, error)
}

// EventServiceConfig holds the dependencies of the event sync workflows
type EventServiceConfig struct {
	Webflow   client.WebflowClient
	OfficeRnd client.OfficeRndClient
	// Correlations may be nil; the CMS back-reference field then carries all
	// correlation state
	Correlations repository.CorrelationRepository
	Mapper       *mapper.Mapper
	Policy       *timeconv.Policy
	OfficeID     string
	Logger       *logger.Logger
}

type eventService struct {
	webflow      client.WebflowClient
	officernd    client.OfficeRndClient
	correlations repository.CorrelationRepository
	mapper       *mapper.Mapper
	policy       *timeconv.Policy
	officeID     string
	log          *logger.Logger
}

// NewEventService creates a new EventService
func NewEventService(cfg *EventServiceConfig) EventService {
	policy := cfg.Policy
	if policy == nil {
		policy = timeconv.DefaultPolicy()
	}
	m := cfg.Mapper
	if m == nil {
		m = mapper.New(policy)
	}
	log := cfg.Logger
	if log == nil {
		log = logger.Get()
	}
	return &eventService{
		webflow:      cfg.Webflow,
		officernd:    cfg.OfficeRnd,
		correlations: cfg.Correlations,
		mapper:       m,
		policy:       policy,
		officeID:     cfg.OfficeID,
		log:          log,
	}
}

// CreateEvent creates the CMS item for a new source event, as draft when
// the source is still drafting, directly live otherwise. A live creation
// also creates the coworking counterpart; its failure is a note, not an
// error, and the CMS creation is never reverted.
//
// Create performs no pre-existence check: a replayed create webhook makes a
// second item. Dedup lives in the source platform's delivery semantics.
func (s *eventService) CreateEvent(ctx context.Context, src *domain.SourceEvent) (*SyncOutcome, error) {
	if src.Name == "" {
		return nil, ErrMissingName
	}

	fields := s.mapper.MapEventFields(src)
	live := !src.IsDraft()
	outcome := &SyncOutcome{}

	def := saga.NewDefinition("event-create", "Create CMS item and live counterparts for a new source event")

	def.AddStep(&saga.Step{
		Name:     "create-cms-item",
		Critical: true,
		Execute: func(ctx context.Context) error {
			item, err := s.webflow.CreateItem(ctx, fields, live)
			if err != nil {
				return err
			}
			outcome.CmsItem = item
			return nil
		},
	})

	if live {
		def.AddStep(&saga.Step{
			Name: "create-coworking-event",
			Execute: func(ctx context.Context) error {
				created, err := s.officernd.CreateEvent(ctx, s.buildCoworkingEvent(src, fields))
				if err != nil {
					return err
				}
				outcome.CoworkingID = created.ID
				return nil
			},
		})

		def.AddStep(&saga.Step{
			Name: "backfill-coworking-id",
			Execute: func(ctx context.Context) error {
				if outcome.CoworkingID == "" {
					return nil
				}
				backfilled := fields
				backfilled.OfficeRndID = outcome.CoworkingID
				_, err := s.webflow.PatchItem(ctx, outcome.CmsItem.ID, backfilled, false, true)
				return err
			},
		})
	}

	def.AddStep(&saga.Step{
		Name: "save-correlation",
		Execute: func(ctx context.Context) error {
			return s.saveCorrelation(ctx, src.ID, outcome)
		},
	})

	result := def.Run(ctx)
	outcome.Notes = result.Notes
	if result.Failed() {
		return nil, result.Err
	}

	s.log.InfoContext(ctx, "source event created downstream",
		zap.String("source_id", src.ID),
		zap.String("cms_item_id", outcome.CmsItem.ID),
		zap.Bool("live", live),
		zap.Strings("notes", outcome.Notes))
	return outcome, nil
}

// UpdateEvent locates the CMS item by correlation field and patches the
// representation matching the source lifecycle. A draft item whose source
// went live is published and gains its coworking counterpart; a live item
// gets a live patch and a narrow coworking update.
func (s *eventService) UpdateEvent(ctx context.Context, src *domain.SourceEvent) (*SyncOutcome, error) {
	if src.ID == "" {
		return nil, ErrMissingSourceID
	}

	item, err := s.webflow.FindBySourceID(ctx, src.ID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, ErrNotFound
	}

	fields := s.mapper.MapEventFields(src)
	// Patching must not wipe the recorded coworking id
	fields.OfficeRndID = item.CoworkingID()

	coworkingID := item.CoworkingID()
	if coworkingID == "" && s.correlations != nil {
		if rec, rerr := s.correlations.FindBySourceID(ctx, src.ID); rerr == nil && rec != nil {
			coworkingID = rec.CoworkingID
		}
	}

	targetState := saga.StateDraft
	if !item.IsDraft {
		targetState = saga.StateLive
	}
	sourceState := saga.StateFromStatus(src.Status)

	outcome := &SyncOutcome{CoworkingID: coworkingID}

	switch {
	case sourceState == saga.StateLive && targetState == saga.StateDraft:
		return s.publishTransition(ctx, src, item, fields, outcome)

	case sourceState == saga.StateLive && targetState == saga.StateLive:
		return s.updateLive(ctx, src, item, fields, outcome)

	default:
		// Draft source: patch the draft representation. A live item with a
		// source back in draft keeps its live copy untouched; the CMS has no
		// unpublish-single-item call worth modeling here.
		if !targetState.CanTransitionTo(sourceState) {
			outcome.Notes = append(outcome.Notes,
				fmt.Sprintf("source went %s while CMS item is %s; live copy left as is", sourceState, targetState))
		}
		updated, err := s.webflow.PatchItem(ctx, item.ID, fields, true, false)
		if err != nil {
			return nil, err
		}
		outcome.CmsItem = updated
		return outcome, nil
	}
}

// publishTransition handles draft target, live source: patch the draft as
// non-draft, publish, then give the event its coworking counterpart.
func (s *eventService) publishTransition(ctx context.Context, src *domain.SourceEvent, item *domain.CmsItem, fields domain.FieldBag, outcome *SyncOutcome) (*SyncOutcome, error) {
	def := saga.NewDefinition("event-publish", "Publish a drafted CMS item whose source event went live")

	def.AddStep(&saga.Step{
		Name:     "patch-draft-as-live",
		Critical: true,
		Execute: func(ctx context.Context) error {
			updated, err := s.webflow.PatchItem(ctx, item.ID, fields, false, false)
			if err != nil {
				return err
			}
			outcome.CmsItem = updated
			return nil
		},
	})

	def.AddStep(&saga.Step{
		Name:     "publish-item",
		Critical: true,
		Execute: func(ctx context.Context) error {
			return s.webflow.PublishItems(ctx, []string{item.ID})
		},
	})

	def.AddStep(&saga.Step{
		Name: "create-coworking-event",
		Execute: func(ctx context.Context) error {
			if outcome.CoworkingID != "" {
				return nil
			}
			created, err := s.officernd.CreateEvent(ctx, s.buildCoworkingEvent(src, fields))
			if err != nil {
				return err
			}
			outcome.CoworkingID = created.ID
			return nil
		},
	})

	def.AddStep(&saga.Step{
		Name: "backfill-coworking-id",
		Execute: func(ctx context.Context) error {
			if outcome.CoworkingID == "" || fields.OfficeRndID == outcome.CoworkingID {
				return nil
			}
			backfilled := fields
			backfilled.OfficeRndID = outcome.CoworkingID
			_, err := s.webflow.PatchItem(ctx, item.ID, backfilled, false, true)
			return err
		},
	})

	def.AddStep(&saga.Step{
		Name: "save-correlation",
		Execute: func(ctx context.Context) error {
			if outcome.CmsItem == nil {
				outcome.CmsItem = item
			}
			return s.saveCorrelation(ctx, src.ID, outcome)
		},
	})

	result := def.Run(ctx)
	outcome.Notes = append(outcome.Notes, result.Notes...)
	if result.Failed() {
		return nil, result.Err
	}

	s.log.InfoContext(ctx, "source event published downstream",
		zap.String("source_id", src.ID),
		zap.String("cms_item_id", item.ID),
		zap.String("coworking_id", outcome.CoworkingID),
		zap.Strings("notes", outcome.Notes))
	return outcome, nil
}

// updateLive handles live source, live target: patch the live endpoint and
// push the narrow update the coworking API accepts.
func (s *eventService) updateLive(ctx context.Context, src *domain.SourceEvent, item *domain.CmsItem, fields domain.FieldBag, outcome *SyncOutcome) (*SyncOutcome, error) {
	updated, err := s.webflow.PatchItem(ctx, item.ID, fields, false, true)
	if err != nil {
		return nil, err
	}
	outcome.CmsItem = updated

	if outcome.CoworkingID != "" {
		// The events API only accepts title and venue label on update
		if uerr := s.officernd.UpdateEvent(ctx, outcome.CoworkingID, fields.Name, fields.Location); uerr != nil {
			s.log.WarnContext(ctx, "coworking event update failed",
				zap.String("source_id", src.ID),
				zap.String("coworking_id", outcome.CoworkingID),
				zap.Error(uerr))
			outcome.Notes = append(outcome.Notes, fmt.Sprintf("update-coworking-event: %v", uerr))
		}
	}

	return outcome, nil
}

// DeleteEvent removes the downstream records for a deleted source event.
// The coworking event goes first so a later failure cannot orphan it; the
// CMS deletion is the authoritative step; the site publish that propagates
// it to static pages is best-effort.
func (s *eventService) DeleteEvent(ctx context.Context, sourceID string) (*SyncOutcome, error) {
	if sourceID == "" {
		return nil, ErrMissingSourceID
	}

	item, err := s.webflow.FindBySourceID(ctx, sourceID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, ErrNotFound
	}

	coworkingID := item.CoworkingID()
	if coworkingID == "" && s.correlations != nil {
		if rec, rerr := s.correlations.FindBySourceID(ctx, sourceID); rerr == nil && rec != nil {
			coworkingID = rec.CoworkingID
		}
	}

	outcome := &SyncOutcome{CmsItem: item, CoworkingID: coworkingID}

	def := saga.NewDefinition("event-delete", "Remove downstream records for a deleted source event")

	if coworkingID != "" {
		def.AddStep(&saga.Step{
			Name: "delete-coworking-event",
			Execute: func(ctx context.Context) error {
				return s.officernd.DeleteEvent(ctx, coworkingID)
			},
		})
	}

	def.AddStep(&saga.Step{
		Name:     "delete-cms-item",
		Critical: true,
		Execute: func(ctx context.Context) error {
			return s.webflow.DeleteItem(ctx, item.ID)
		},
	})

	def.AddStep(&saga.Step{
		Name: "publish-site",
		Execute: func(ctx context.Context) error {
			return s.webflow.PublishSite(ctx)
		},
	})

	def.AddStep(&saga.Step{
		Name: "delete-correlation",
		Execute: func(ctx context.Context) error {
			if s.correlations == nil {
				return nil
			}
			return s.correlations.Delete(ctx, sourceID)
		},
	})

	result := def.Run(ctx)
	outcome.Notes = result.Notes
	if result.Failed() {
		return nil, result.Err
	}

	s.log.InfoContext(ctx, "source event deleted downstream",
		zap.String("source_id", sourceID),
		zap.String("cms_item_id", item.ID),
		zap.Strings("notes", outcome.Notes))
	return outcome, nil
}

func (s *eventService) buildCoworkingEvent(src *domain.SourceEvent, fields domain.FieldBag) *domain.CoworkingEvent {
	start := s.policy.Normalize(src.StartDate, src.StartTime, src.Timezone)

	end := s.policy.Normalize(src.EndDate, src.EndTime, src.Timezone)
	if end == nil {
		end = s.policy.Normalize(src.CloseDate, src.CloseTime, src.Timezone)
	}
	if end == nil {
		end = s.policy.DefaultEnd(start)
	}

	tz := src.Timezone
	if tz == "" {
		tz = defaultTimezoneLabel
	}

	return &domain.CoworkingEvent{
		Title:       src.Name,
		OfficeID:    s.officeID,
		Start:       start,
		End:         end,
		Timezone:    tz,
		Where:       src.LocationName,
		Description: src.Description,
		Link:        fields.RsvpLink,
		ImageURL:    fields.Image,
	}
}

func (s *eventService) saveCorrelation(ctx context.Context, sourceID string, outcome *SyncOutcome) error {
	if s.correlations == nil {
		return nil
	}
	rec := &domain.CorrelationRecord{
		SourceID:    sourceID,
		CoworkingID: outcome.CoworkingID,
		CreatedAt:   time.Now().UTC(),
	}
	if outcome.CmsItem != nil {
		rec.CmsItemID = outcome.CmsItem.ID
	}
	return s.correlations.Save(ctx, rec)
}
