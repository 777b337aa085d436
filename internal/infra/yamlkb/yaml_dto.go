package yamlkb

type YAMLKnowledgeBase struct {
	Profiles []YAMLProfile `yaml:"profiles"`
}

type YAMLProfile struct {
	Name      string   `yaml:"name"`
	Symptoms  []string `yaml:"symptoms"`
	Pathogens []string `yaml:"pathogens"`
	Xray      string   `yaml:"xray"`

	// Tests is the nested laboratory/imaging layout; flat fields win when both are set.
	Tests YAMLTests `yaml:"tests"`
}

type YAMLTests struct {
	Blood struct {
		Pathogen []string `yaml:"pathogen"`
	} `yaml:"blood"`
	Imaging struct {
		Xray string `yaml:"xray"`
	} `yaml:"imaging"`
}
