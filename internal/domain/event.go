package domain

import "time"

// SourceEvent is an event as delivered by the Swoogo webhook. The platform
// owns the record; this service only mediates transitions.
type SourceEvent struct {
	ID           string
	Name         string
	URL          string
	Domain       string
	StartDate    string
	StartTime    string
	EndDate      string
	EndTime      string
	CloseDate    string
	CloseTime    string
	LocationName string
	Pillar       string // categorical custom field label (Connect/Scale/Start)
	ImageURL     string // custom field, possibly protocol-relative
	Status       string // draft or live
	Description  string
	Timezone     string // optional explicit IANA timezone name
}

// IsDraft reports whether the source event is still in draft on Swoogo
func (e *SourceEvent) IsDraft() bool {
	return e.Status == "draft"
}

// CmsItem is the Webflow collection item mirroring a source event
type CmsItem struct {
	ID         string
	IsDraft    bool
	IsArchived bool
	FieldData  FieldBag
}

// SourceID returns the correlation value recorded on the item
func (i *CmsItem) SourceID() string {
	return i.FieldData.Swoogo
}

// CoworkingID returns the OfficeRnD event id recorded on the item, empty
// when no coworking counterpart exists yet
func (i *CmsItem) CoworkingID() string {
	return i.FieldData.OfficeRndID
}

// FieldBag is the Webflow field schema for the events collection. Field
// names follow the collection's slug-cased API identifiers.
type FieldBag struct {
	Name             string `json:"name"`
	Slug             string `json:"slug"`
	Pillar           string `json:"pillar"`
	IsFeaturedEvent  bool   `json:"is-featured-event"`
	TicketPrice      string `json:"ticket-price"`
	RsvpLink         string `json:"rsvp-link"`
	MeetingRoom      string `json:"meeting-room"`
	ShortDescription string `json:"shortdescription"`
	Location         string `json:"location"`
	StartDateTime    string `json:"start-date-time"`
	EndDateTime      string `json:"end-date-time"`
	Image            string `json:"image"`
	// Swoogo holds the source event id; unique per item so the collection
	// can be searched by source id
	Swoogo string `json:"swoogo"`
	// OfficeRndID holds the coworking event id once the live counterpart
	// has been created
	OfficeRndID string `json:"officernd-id,omitempty"`
}

// CoworkingEvent is the OfficeRnD calendar event mirroring a live source event
type CoworkingEvent struct {
	ID          string
	Title       string
	OfficeID    string
	Start       *time.Time
	End         *time.Time
	Timezone    string
	Where       string
	Description string
	Link        string
	ImageURL    string
}

// CorrelationRecord maps a source event id to the ids assigned downstream.
// Persisted only when the optional correlation store is enabled.
type CorrelationRecord struct {
	ID          string
	SourceID    string
	CmsItemID   string
	CoworkingID string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
