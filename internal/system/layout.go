package system

import (
	"path/filepath"
	"time"

	coresys "github.com/capitalcove/harbor/internal/core/system"
	"github.com/capitalcove/harbor/internal/data"
	"go.uber.org/zap"
)

// LayoutSystem applies edits to the layout and placement files between
// ticks. The file watcher only signals; the reload happens here so the nav
// graph is never rebuilt mid-tick. Phase 0 (Input).
type LayoutSystem struct {
	events         <-chan string
	layoutPath     string
	placementsPath string
	people         *PersonSystem
	log            *zap.Logger
	reloads        int
}

func NewLayoutSystem(events <-chan string, layoutPath, placementsPath string, people *PersonSystem, log *zap.Logger) *LayoutSystem {
	return &LayoutSystem{
		events:         events,
		layoutPath:     layoutPath,
		placementsPath: placementsPath,
		people:         people,
		log:            log,
	}
}

func (s *LayoutSystem) Phase() coresys.Phase { return coresys.PhaseInput }

// Reloads is how many successful reloads have been applied.
func (s *LayoutSystem) Reloads() int { return s.reloads }

func (s *LayoutSystem) Update(_ time.Duration) {
	for {
		select {
		case name, ok := <-s.events:
			if !ok {
				s.events = nil
				return
			}
			s.Reload(name)
		default:
			return
		}
	}
}

// Reload re-reads the edited file. A file that fails to load is logged and
// the previous version stays in effect.
func (s *LayoutSystem) Reload(name string) {
	switch filepath.Base(name) {
	case filepath.Base(s.placementsPath):
		p, err := data.LoadPlacements(s.placementsPath)
		if err != nil {
			s.log.Warn("placements reload failed", zap.Error(err))
			return
		}
		s.people.SetLayout(nil, p)
		s.log.Info("placements reloaded", zap.Int("buildings", len(p)))
	case filepath.Base(s.layoutPath):
		l, err := data.LoadLayout(s.layoutPath)
		if err != nil {
			s.log.Warn("layout reload failed", zap.Error(err))
			return
		}
		s.people.SetLayout(l, nil)
		s.log.Info("layout reloaded", zap.Int("points", len(l.Points)))
	default:
		return
	}
	s.reloads++
}
