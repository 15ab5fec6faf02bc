package player

import (
	"testing"
	"time"
)

func TestParseDesignation(t *testing.T) {
	t.Parallel()

	cases := map[string]Designation{
		"":                DesignationHealthy,
		"  ":              DesignationHealthy,
		"Questionable":    DesignationQuestionable,
		"Doubtful":        DesignationDoubtful,
		"Out":             DesignationOut,
		"Injured Reserve": DesignationInjuredReserve,
		"Day-To-Day":      DesignationUnknown,
	}

	for in, want := range cases {
		if got := ParseDesignation(in); got != want {
			t.Fatalf("ParseDesignation(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestDesignationGates(t *testing.T) {
	t.Parallel()

	threatening := map[Designation]bool{
		DesignationHealthy:        false,
		DesignationQuestionable:   false,
		DesignationDoubtful:       true,
		DesignationOut:            true,
		DesignationInjuredReserve: true,
		DesignationUnknown:        false,
	}
	for d, want := range threatening {
		if got := d.ThreatensPicks(); got != want {
			t.Fatalf("%q.ThreatensPicks() = %t, want %t", d, got, want)
		}
	}

	if DesignationDoubtful.RulesOut() {
		t.Fatal("Doubtful must not rule a player out")
	}
	if !DesignationOut.RulesOut() || !DesignationInjuredReserve.RulesOut() {
		t.Fatal("Out and Injured Reserve must rule a player out")
	}
}

func TestFieldsEqualIgnoresLastUpdated(t *testing.T) {
	t.Parallel()

	bye := 9
	a := Player{
		ID:           "p1",
		Name:         "Christian McCaffrey",
		TeamAbv:      "SF",
		InjuryStatus: DesignationHealthy,
		ByeWeek:      &bye,
		LastUpdated:  time.Now(),
	}
	b := a
	b.LastUpdated = a.LastUpdated.Add(time.Hour)

	if !a.FieldsEqual(b) {
		t.Fatal("rows differing only in LastUpdated must compare equal")
	}

	otherBye := 12
	b.ByeWeek = &otherBye
	if a.FieldsEqual(b) {
		t.Fatal("bye week change must be detected")
	}

	b.ByeWeek = nil
	if a.FieldsEqual(b) {
		t.Fatal("bye week cleared must be detected")
	}
}
