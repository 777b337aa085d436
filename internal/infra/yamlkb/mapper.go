package yamlkb

import (
	"errors"
	"fmt"
	"strings"

	"github.com/aalvaropc/haidx/internal/domain"
)

func MapKnowledgeBase(path string, ykb YAMLKnowledgeBase) (*domain.KnowledgeBase, error) {
	if len(ykb.Profiles) == 0 {
		return nil, invalidField(path, "profiles", "at least one profile is required")
	}

	profiles := make([]domain.InfectionProfile, 0, len(ykb.Profiles))
	for i, p := range ykb.Profiles {
		fieldPrefix := fmt.Sprintf("profiles[%d]", i)

		pathogens := p.Pathogens
		if len(pathogens) == 0 {
			pathogens = p.Tests.Blood.Pathogen
		}
		xrayText := p.Xray
		if strings.TrimSpace(xrayText) == "" {
			xrayText = p.Tests.Imaging.Xray
		}
		if strings.TrimSpace(xrayText) == "" {
			return nil, invalidField(path, fieldPrefix+".xray", "xray is required")
		}

		xray, err := domain.ParseXray(xrayText)
		if err != nil {
			return nil, invalidField(path, fieldPrefix+".xray", fmt.Sprintf("unknown x-ray finding %q", xrayText))
		}

		profiles = append(profiles, domain.InfectionProfile{
			Name:         strings.TrimSpace(p.Name),
			Symptoms:     trimAll(p.Symptoms),
			Pathogens:    trimAll(pathogens),
			ExpectedXray: xray,
		})
	}

	kb, err := domain.NewKnowledgeBase(profiles)
	if err != nil {
		var oe *domain.OpError
		if errors.As(err, &oe) {
			oe.Path = path
		}
		return nil, err
	}
	return kb, nil
}

func trimAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if t := strings.TrimSpace(s); t != "" {
			out = append(out, t)
		}
	}
	return out
}

func invalidField(path, field, msg string) error {
	return &domain.OpError{
		Op:   "yamlkb.map",
		Kind: domain.KindInvalidConfig,
		Path: path,
		Err:  fmt.Errorf("field %s: %s: %w", field, msg, domain.ErrInvalidConfig),
	}
}
