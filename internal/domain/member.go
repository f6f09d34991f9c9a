package domain

// MemberProfile is the coworking platform's member as delivered by webhook.
// Marketing-list membership is derived from it: a profile belongs on the
// list iff the member's last known status was "active".
type MemberProfile struct {
	Email  string
	Name   string
	Status string
}

// MemberStatusActive is the only status that keeps a member on the
// marketing list
const MemberStatusActive = "active"

// ShouldRemoveFromList reports whether an update signals removal. A missing
// status is a no-op, not a removal.
func (m *MemberProfile) ShouldRemoveFromList() bool {
	return m.Status != "" && m.Status != MemberStatusActive
}
