// Package mapper transforms inbound source event payloads into the CMS
// field schema. Mapping is deterministic: the same source event always
// yields the same field bag.
package mapper

import (
	"regexp"
	"strings"

	"github.com/jhnmartin/join-gradient/internal/domain"
	"github.com/jhnmartin/join-gradient/internal/timeconv"
)

// pillarIDs is the closed lookup table from Swoogo pillar labels to Webflow
// option item ids. An unknown or missing label maps to the empty string; it
// is never an error.
var pillarIDs = map[string]string{
	"Connect": "67ce5781f71b4b2d91c44df4",
	"Scale":   "67ce576fe8288f21bdeb494a",
	"Start":   "67ce5760f155bc0716caaecd",
}

var slugSanitizer = regexp.MustCompile(`[^a-zA-Z0-9-_]`)

// Mapper builds CMS field bags from source events
type Mapper struct {
	policy *timeconv.Policy
}

// New creates a Mapper with the given time normalization policy
func New(policy *timeconv.Policy) *Mapper {
	if policy == nil {
		policy = timeconv.DefaultPolicy()
	}
	return &Mapper{policy: policy}
}

// MapEventFields maps a source event onto the CMS collection schema. A
// source event without a start instant gets empty date fields rather than
// failing the whole mapping; a missing name is the caller's 400, not a
// mapper concern.
func (m *Mapper) MapEventFields(src *domain.SourceEvent) domain.FieldBag {
	start := m.policy.Normalize(src.StartDate, src.StartTime, src.Timezone)

	end := m.policy.Normalize(src.EndDate, src.EndTime, src.Timezone)
	if end == nil {
		end = m.policy.Normalize(src.CloseDate, src.CloseTime, src.Timezone)
	}
	if end == nil {
		end = m.policy.DefaultEnd(start)
	}

	return domain.FieldBag{
		Name:             src.Name,
		Slug:             Slug(src.URL),
		Pillar:           pillarIDs[src.Pillar],
		IsFeaturedEvent:  false,
		TicketPrice:      "",
		RsvpLink:         joinLink(src.Domain, src.URL),
		MeetingRoom:      "",
		ShortDescription: "",
		Location:         src.LocationName,
		StartDateTime:    timeconv.Format(start),
		EndDateTime:      timeconv.Format(end),
		Image:            normalizeImageURL(src.ImageURL),
		Swoogo:           src.ID,
	}
}

// Slug derives a CMS slug from the source URL path: leading slash stripped,
// everything outside [A-Za-z0-9-_] replaced by a dash
func Slug(urlPath string) string {
	s := strings.TrimPrefix(urlPath, "/")
	return slugSanitizer.ReplaceAllString(s, "-")
}

// joinLink concatenates domain and path with exactly one separating slash
func joinLink(domain, path string) string {
	return strings.TrimSuffix(domain, "/") + "/" + strings.TrimPrefix(path, "/")
}

// normalizeImageURL prefixes protocol-relative image URLs with https:
func normalizeImageURL(u string) string {
	if strings.HasPrefix(u, "//") {
		return "https:" + u
	}
	return u
}
