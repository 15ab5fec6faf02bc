package player

import (
	"strings"
	"time"
)

// Designation is the injury-report status carried by the feed.
type Designation string

const (
	DesignationHealthy        Designation = "Healthy"
	DesignationQuestionable   Designation = "Questionable"
	DesignationDoubtful       Designation = "Doubtful"
	DesignationOut            Designation = "Out"
	DesignationInjuredReserve Designation = "Injured Reserve"
	DesignationUnknown        Designation = "Unknown"
)

func ParseDesignation(value string) Designation {
	switch strings.TrimSpace(value) {
	case "", string(DesignationHealthy):
		return DesignationHealthy
	case string(DesignationQuestionable):
		return DesignationQuestionable
	case string(DesignationDoubtful):
		return DesignationDoubtful
	case string(DesignationOut):
		return DesignationOut
	case string(DesignationInjuredReserve):
		return DesignationInjuredReserve
	default:
		return DesignationUnknown
	}
}

// ThreatensPicks reports whether the designation should warn pick owners.
func (d Designation) ThreatensPicks() bool {
	switch d {
	case DesignationDoubtful, DesignationOut, DesignationInjuredReserve:
		return true
	default:
		return false
	}
}

// RulesOut reports full unavailability, the trigger for removing picks near
// kickoff.
func (d Designation) RulesOut() bool {
	return d == DesignationOut || d == DesignationInjuredReserve
}

// Player is a selectable athlete in the touchdown pool.
type Player struct {
	ID           string
	Name         string
	TeamAbv      string
	TeamID       string
	Position     string
	IsFreeAgent  bool
	InjuryStatus Designation
	ByeWeek      *int
	HeadshotURL  string
	LastUpdated  time.Time
}

// FieldsEqual reports whether every feed-tracked field matches. LastUpdated
// is excluded so rerunning an unchanged feed leaves the stored row untouched.
func (p Player) FieldsEqual(other Player) bool {
	if p.ID != other.ID ||
		p.Name != other.Name ||
		p.TeamAbv != other.TeamAbv ||
		p.TeamID != other.TeamID ||
		p.Position != other.Position ||
		p.IsFreeAgent != other.IsFreeAgent ||
		p.InjuryStatus != other.InjuryStatus ||
		p.HeadshotURL != other.HeadshotURL {
		return false
	}

	if (p.ByeWeek == nil) != (other.ByeWeek == nil) {
		return false
	}
	if p.ByeWeek != nil && *p.ByeWeek != *other.ByeWeek {
		return false
	}

	return true
}
