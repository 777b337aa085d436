package domain

import (
	"fmt"
	"strings"
)

// XrayFinding is the outcome of a chest X-ray.
type XrayFinding string

const (
	XrayNormal   XrayFinding = "Normal"
	XrayAbnormal XrayFinding = "Abnormal"
)

// XrayFindings lists the accepted findings in picker order.
func XrayFindings() []XrayFinding {
	return []XrayFinding{XrayNormal, XrayAbnormal}
}

// ParseXray accepts "Normal" or "Abnormal" in any letter case.
func ParseXray(s string) (XrayFinding, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "normal":
		return XrayNormal, nil
	case "abnormal":
		return XrayAbnormal, nil
	default:
		return "", invalidInput("domain.parse_xray", fmt.Sprintf("unknown x-ray result %q (expected Normal|Abnormal)", s))
	}
}

func (x XrayFinding) String() string { return string(x) }

// InfectionProfile is a named infection's defining symptom, pathogen and imaging criteria.
// Treat it as immutable once it is part of a KnowledgeBase.
type InfectionProfile struct {
	Name         string
	Symptoms     []string
	Pathogens    []string
	ExpectedXray XrayFinding
}

// HasSymptom reports whether s is one of the profile's symptoms (exact match).
func (p InfectionProfile) HasSymptom(s string) bool {
	return contains(p.Symptoms, s)
}

// HasPathogen reports whether pathogen is one of the profile's pathogens (exact match).
func (p InfectionProfile) HasPathogen(pathogen string) bool {
	return contains(p.Pathogens, pathogen)
}

func (p InfectionProfile) clone() InfectionProfile {
	out := p
	out.Symptoms = append([]string(nil), p.Symptoms...)
	out.Pathogens = append([]string(nil), p.Pathogens...)
	return out
}

// KnowledgeBase is an ordered set of profiles. Declaration order decides
// which profile wins when more than one matches a query.
type KnowledgeBase struct {
	profiles []InfectionProfile
}

// NewKnowledgeBase validates and copies profiles, keeping their order.
func NewKnowledgeBase(profiles []InfectionProfile) (*KnowledgeBase, error) {
	seen := make(map[string]bool, len(profiles))
	kb := &KnowledgeBase{profiles: make([]InfectionProfile, 0, len(profiles))}

	for i, p := range profiles {
		field := fmt.Sprintf("profiles[%d]", i)
		if strings.TrimSpace(p.Name) == "" {
			return nil, invalidProfile(field+".name", "name is required")
		}
		if seen[p.Name] {
			return nil, invalidProfile(field+".name", fmt.Sprintf("duplicate profile %q", p.Name))
		}
		seen[p.Name] = true

		if len(p.Pathogens) == 0 {
			return nil, invalidProfile(field+".pathogens", "at least one pathogen is required")
		}
		if p.ExpectedXray != XrayNormal && p.ExpectedXray != XrayAbnormal {
			return nil, invalidProfile(field+".xray", fmt.Sprintf("unknown x-ray finding %q", p.ExpectedXray))
		}

		kb.profiles = append(kb.profiles, p.clone())
	}

	return kb, nil
}

// Profiles returns a copy of the profiles in declaration order.
func (kb *KnowledgeBase) Profiles() []InfectionProfile {
	if kb == nil {
		return nil
	}
	out := make([]InfectionProfile, len(kb.profiles))
	for i, p := range kb.profiles {
		out[i] = p.clone()
	}
	return out
}

// Len returns the number of profiles.
func (kb *KnowledgeBase) Len() int {
	if kb == nil {
		return 0
	}
	return len(kb.profiles)
}

// Lookup finds a profile by exact name.
func (kb *KnowledgeBase) Lookup(name string) (InfectionProfile, bool) {
	if kb == nil {
		return InfectionProfile{}, false
	}
	for _, p := range kb.profiles {
		if p.Name == name {
			return p.clone(), true
		}
	}
	return InfectionProfile{}, false
}

// Pathogens returns every pathogen named by any profile, de-duplicated,
// in first-seen order. This is the option list offered to the user.
func (kb *KnowledgeBase) Pathogens() []string {
	if kb == nil {
		return nil
	}
	seen := map[string]bool{}
	var out []string
	for _, p := range kb.profiles {
		for _, pg := range p.Pathogens {
			if seen[pg] {
				continue
			}
			seen[pg] = true
			out = append(out, pg)
		}
	}
	return out
}

// KnownSymptom reports whether any profile lists s.
func (kb *KnowledgeBase) KnownSymptom(s string) bool {
	if kb == nil {
		return false
	}
	for _, p := range kb.profiles {
		if p.HasSymptom(s) {
			return true
		}
	}
	return false
}

// DefaultProfiles are the built-in hospital-acquired infection profiles.
func DefaultProfiles() []InfectionProfile {
	return []InfectionProfile{
		{
			Name:         "clabsi",
			Symptoms:     []string{"fever", "chills", "hypotension"},
			Pathogens:    []string{"Staphylococcus Aureus"},
			ExpectedXray: XrayNormal,
		},
		{
			Name:         "cauti",
			Symptoms:     []string{"urinary frequency", "dysuria", "cloudy urine"},
			Pathogens:    []string{"Escherichia Coli", "Klebsiella Pneumoniae", "Enterococcus Faecalis"},
			ExpectedXray: XrayNormal,
		},
		{
			Name:         "vap",
			Symptoms:     []string{"fever", "cough", "purulent sputum"},
			Pathogens:    []string{"Pseudomonas Aeruginosa", "Staphylococcus Aureus", "Klebsiella Pneumoniae"},
			ExpectedXray: XrayAbnormal,
		},
	}
}

// DefaultKnowledgeBase builds the knowledge base from DefaultProfiles.
func DefaultKnowledgeBase() *KnowledgeBase {
	kb, err := NewKnowledgeBase(DefaultProfiles())
	if err != nil {
		panic(err)
	}
	return kb
}

func invalidProfile(field, msg string) error {
	return &OpError{
		Op:   "domain.knowledge_base",
		Kind: KindInvalidConfig,
		Err:  fmt.Errorf("field %s: %s: %w", field, msg, ErrInvalidConfig),
	}
}

func contains(set []string, s string) bool {
	for _, v := range set {
		if v == s {
			return true
		}
	}
	return false
}
