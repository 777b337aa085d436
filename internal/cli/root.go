package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aalvaropc/haidx/internal/domain"
	"github.com/aalvaropc/haidx/internal/infra/kbwatch"
	"github.com/aalvaropc/haidx/internal/infra/logger"
	"github.com/aalvaropc/haidx/internal/infra/reasoner"
	"github.com/aalvaropc/haidx/internal/infra/workspacefinder"
	"github.com/aalvaropc/haidx/internal/infra/yamlkb"
	"github.com/aalvaropc/haidx/internal/ports"
	"github.com/aalvaropc/haidx/internal/ui/tui"
	"github.com/aalvaropc/haidx/internal/usecase"
)

// app carries the persistent flags and the logger lifetime.
type app struct {
	workspace string
	engine    string
	kbPath    string
	debug     bool

	locator  ports.WorkspaceLocator
	closeLog func() error
}

func Execute() {
	a := &app{}
	cmd := newRootCmdFor(a)
	err := cmd.Execute()
	a.close()
	if err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	return newRootCmdFor(&app{})
}

func newRootCmdFor(a *app) *cobra.Command {
	var watch bool
	if a.locator == nil {
		a.locator = workspacefinder.NewFinder()
	}

	cmd := &cobra.Command{
		Use:          "haidx",
		Short:        "haidx: hospital-acquired infection diagnosis",
		SilenceUsage: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			a.setupLogger()
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := a.openSession(false)
			if err != nil {
				return err
			}

			deps := tui.Deps{
				Diagnose: s.diagnose,
				KBSource: s.kbSource,
				Rebuild:  rebuildDiagnose(s.cfg.Engine),
				Logger:   logger.Component("tui"),
				Debug:    a.debug,
			}

			if watch {
				if s.kbSource.BuiltIn {
					return errors.New("--watch needs a knowledge base file (set knowledge_base in haidx.yaml or pass --kb)")
				}
				w, err := kbwatch.New(s.kbSource.Path, yamlkb.NewLoader(), kbwatch.WithLogger(logger.Component("kbwatch")))
				if err != nil {
					return err
				}
				if err := w.Start(cmd.Context()); err != nil {
					w.Stop()
					return err
				}
				defer w.Stop()
				deps.Reloads = w.Updates()
			}

			return tui.Run(deps)
		},
	}

	pf := cmd.PersistentFlags()
	pf.BoolVar(&a.debug, "debug", false, "enable verbose logging to .haidx/logs/haidx.log")
	pf.StringVarP(&a.workspace, "workspace", "w", "", "Workspace root (optional; autodetected if omitted)")
	pf.StringVar(&a.engine, "engine", "", "Reasoner engine: native|mangle (overrides haidx.yaml)")
	pf.StringVar(&a.kbPath, "kb", "", "Knowledge base YAML file (overrides haidx.yaml)")

	cmd.Flags().BoolVar(&watch, "watch", false, "Reload the knowledge base when its file changes")

	cmd.AddCommand(
		diagnoseCmd(a),
		profilesCmd(a),
		pathogensCmd(a),
		checkCmd(a),
		validateCmd(a),
		initCmd(),
		versionCmd(),
	)
	return cmd
}

// rebuildDiagnose makes a diagnose use case for a reloaded knowledge base.
func rebuildDiagnose(engine domain.Engine) func(*domain.KnowledgeBase) (*usecase.Diagnose, error) {
	return func(kb *domain.KnowledgeBase) (*usecase.Diagnose, error) {
		r, err := reasoner.New(engine, kb)
		if err != nil {
			return nil, err
		}
		return usecase.NewDiagnose(r, kb, usecase.WithLogger(logger.Component("diagnose"))), nil
	}
}

// setupLogger logs into the workspace when there is one. Outside a
// workspace only --debug logs, to stderr.
func (a *app) setupLogger() {
	if a.closeLog != nil {
		return
	}

	cfg := logger.Config{Debug: a.debug}
	root, err := a.resolveWorkspaceRoot(false)
	switch {
	case err == nil && root != "":
		cfg.Root = root
	case a.debug:
		cfg.Writer = os.Stderr
	default:
		return
	}

	cleanup, err := logger.Setup(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "haidx: logging disabled: %v\n", err)
		return
	}
	a.closeLog = cleanup
}

func (a *app) close() {
	if a.closeLog != nil {
		_ = a.closeLog()
		a.closeLog = nil
	}
}
