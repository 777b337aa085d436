package domain

// Engine names a reasoner implementation.
type Engine string

const (
	EngineNative Engine = "native"
	EngineMangle Engine = "mangle"
)

// Config represents the haidx configuration loaded from haidx.yaml.
type Config struct {
	Engine        Engine
	KnowledgeBase string // Optional: path relative to the workspace root; empty means built-in profiles.
	Masking       MaskingConfig
	Paths         PathsConfig
}

type MaskingConfig struct {
	Enabled bool
}

type PathsConfig struct {
	CasebooksDir string
	RunsDir      string
}

// DefaultConfig provides sane defaults if haidx.yaml is partially missing.
func DefaultConfig() Config {
	return Config{
		Engine:  EngineNative,
		Masking: MaskingConfig{Enabled: true},
		Paths: PathsConfig{
			CasebooksDir: "casebooks",
			RunsDir:      "runs",
		},
	}
}

// ParseEngine validates an engine name. Empty selects the native engine.
func ParseEngine(s string) (Engine, error) {
	switch Engine(s) {
	case "", EngineNative:
		return EngineNative, nil
	case EngineMangle:
		return EngineMangle, nil
	default:
		return "", invalidInput("domain.parse_engine", "unknown engine "+s+" (expected native|mangle)")
	}
}

// WorkspaceSpec describes where a workspace is scaffolded.
type WorkspaceSpec struct {
	Root string
}
