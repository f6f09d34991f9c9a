package dto

import (
	"encoding/json"

	"github.com/jhnmartin/join-gradient/internal/domain"
)

// SwoogoWebhook is the envelope Swoogo posts for event lifecycle webhooks
type SwoogoWebhook struct {
	Event SwoogoEvent `json:"event"`
}

// SwoogoEvent is the event object inside a Swoogo webhook. The id arrives as
// a number or a string depending on webhook revision; json.Number absorbs
// both. Custom fields keep their Swoogo field keys.
type SwoogoEvent struct {
	ID                json.Number        `json:"id"`
	Name              string             `json:"name"`
	URL               string             `json:"url"`
	Domain            string             `json:"domain"`
	StartDate         string             `json:"start_date"`
	StartTime         string             `json:"start_time"`
	EndDate           string             `json:"end_date"`
	EndTime           string             `json:"end_time"`
	CloseDate         string             `json:"close_date"`
	CloseTime         string             `json:"close_time"`
	EventLocationName string             `json:"event_location_name"`
	Status            string             `json:"status"`
	Description       string             `json:"description"`
	Timezone          string             `json:"timezone"`
	Pillar            *SwoogoCustomField `json:"c_95742"`
	Image             string             `json:"c_95697"`
}

// SwoogoCustomField is a Swoogo dropdown custom field value
type SwoogoCustomField struct {
	Value string `json:"value"`
}

// ToDomain converts the webhook event to the domain representation
func (e *SwoogoEvent) ToDomain() *domain.SourceEvent {
	src := &domain.SourceEvent{
		ID:           e.ID.String(),
		Name:         e.Name,
		URL:          e.URL,
		Domain:       e.Domain,
		StartDate:    e.StartDate,
		StartTime:    e.StartTime,
		EndDate:      e.EndDate,
		EndTime:      e.EndTime,
		CloseDate:    e.CloseDate,
		CloseTime:    e.CloseTime,
		LocationName: e.EventLocationName,
		ImageURL:     e.Image,
		Status:       e.Status,
		Description:  e.Description,
		Timezone:     e.Timezone,
	}
	if e.Pillar != nil {
		src.Pillar = e.Pillar.Value
	}
	return src
}

// OfficeRndWebhook is the envelope OfficeRnD posts for member webhooks
type OfficeRndWebhook struct {
	EventType string        `json:"eventType"`
	Data      OfficeRndData `json:"data"`
}

// OfficeRndData wraps the changed object
type OfficeRndData struct {
	Object OfficeRndMember `json:"object"`
}

// OfficeRndMember is the member object inside an OfficeRnD webhook
type OfficeRndMember struct {
	Email  string `json:"email"`
	Name   string `json:"name"`
	Status string `json:"status"`
}

// ToDomain converts the webhook member to the domain representation
func (m *OfficeRndMember) ToDomain() *domain.MemberProfile {
	return &domain.MemberProfile{
		Email:  m.Email,
		Name:   m.Name,
		Status: m.Status,
	}
}

// SyncResult is the response payload for event sync webhooks
type SyncResult struct {
	Message     string `json:"message"`
	SourceID    string `json:"source_id,omitempty"`
	CmsItemID   string `json:"cms_item_id,omitempty"`
	CoworkingID string `json:"coworking_id,omitempty"`
}
