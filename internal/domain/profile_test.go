package domain

import (
	"reflect"
	"strings"
	"testing"
)

func TestParseXray(t *testing.T) {
	cases := []struct {
		in      string
		want    XrayFinding
		wantErr bool
	}{
		{"Normal", XrayNormal, false},
		{"abnormal", XrayAbnormal, false},
		{"  ABNORMAL ", XrayAbnormal, false},
		{"", "", true},
		{"cloudy", "", true},
	}
	for _, c := range cases {
		got, err := ParseXray(c.in)
		if c.wantErr {
			if err == nil {
				t.Errorf("ParseXray(%q): expected error", c.in)
			} else if !IsKind(err, KindInvalidInput) {
				t.Errorf("ParseXray(%q): expected KindInvalidInput, got %v", c.in, err)
			}
			continue
		}
		if err != nil || got != c.want {
			t.Errorf("ParseXray(%q) = %q, %v; want %q", c.in, got, err, c.want)
		}
	}
}

func TestNewKnowledgeBase_Validation(t *testing.T) {
	cases := []struct {
		name     string
		profiles []InfectionProfile
		field    string
	}{
		{
			name:     "missing name",
			profiles: []InfectionProfile{{Pathogens: []string{"P"}, ExpectedXray: XrayNormal}},
			field:    "profiles[0].name",
		},
		{
			name: "duplicate name",
			profiles: []InfectionProfile{
				{Name: "a", Pathogens: []string{"P"}, ExpectedXray: XrayNormal},
				{Name: "a", Pathogens: []string{"P"}, ExpectedXray: XrayNormal},
			},
			field: "profiles[1].name",
		},
		{
			name:     "no pathogens",
			profiles: []InfectionProfile{{Name: "a", ExpectedXray: XrayNormal}},
			field:    "profiles[0].pathogens",
		},
		{
			name:     "bad xray",
			profiles: []InfectionProfile{{Name: "a", Pathogens: []string{"P"}, ExpectedXray: "Cloudy"}},
			field:    "profiles[0].xray",
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := NewKnowledgeBase(c.profiles)
			if err == nil {
				t.Fatalf("expected error")
			}
			if !IsKind(err, KindInvalidConfig) {
				t.Fatalf("expected KindInvalidConfig, got %v", err)
			}
			if !strings.Contains(err.Error(), c.field) {
				t.Fatalf("expected %s in error, got %v", c.field, err)
			}
		})
	}
}

func TestKnowledgeBase_ProfilesAreCopies(t *testing.T) {
	kb := DefaultKnowledgeBase()

	ps := kb.Profiles()
	ps[0].Symptoms[0] = "mutated"
	ps[0].Name = "mutated"

	again := kb.Profiles()
	if again[0].Name != "clabsi" || again[0].Symptoms[0] != "fever" {
		t.Fatalf("knowledge base was mutated through Profiles(): %+v", again[0])
	}
}

func TestKnowledgeBase_Pathogens(t *testing.T) {
	kb := DefaultKnowledgeBase()

	want := []string{
		"Staphylococcus Aureus",
		"Escherichia Coli",
		"Klebsiella Pneumoniae",
		"Enterococcus Faecalis",
		"Pseudomonas Aeruginosa",
	}
	if got := kb.Pathogens(); !reflect.DeepEqual(got, want) {
		t.Fatalf("Pathogens() = %v, want %v", got, want)
	}
}

func TestKnowledgeBase_Lookup(t *testing.T) {
	kb := DefaultKnowledgeBase()

	p, ok := kb.Lookup("vap")
	if !ok {
		t.Fatalf("expected vap")
	}
	if p.ExpectedXray != XrayAbnormal {
		t.Fatalf("expected Abnormal for vap, got %s", p.ExpectedXray)
	}
	if _, ok := kb.Lookup("VAP"); ok {
		t.Fatalf("lookup must be exact")
	}
}

func TestKnowledgeBase_KnownSymptom(t *testing.T) {
	kb := DefaultKnowledgeBase()
	if !kb.KnownSymptom("purulent sputum") {
		t.Fatalf("expected purulent sputum to be known")
	}
	if kb.KnownSymptom("rash") {
		t.Fatalf("rash is not in any profile")
	}
}

func TestParseEngine(t *testing.T) {
	if e, err := ParseEngine(""); err != nil || e != EngineNative {
		t.Fatalf("empty engine: got %q, %v", e, err)
	}
	if e, err := ParseEngine("mangle"); err != nil || e != EngineMangle {
		t.Fatalf("mangle engine: got %q, %v", e, err)
	}
	if _, err := ParseEngine("prolog"); !IsKind(err, KindInvalidInput) {
		t.Fatalf("expected KindInvalidInput, got %v", err)
	}
}
