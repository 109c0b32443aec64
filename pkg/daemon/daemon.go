// Package daemon wires the transcript parsers, the backing store, the
// transcript archive and the mediator into one service: the concrete
// caller the excluded HTTP/CLI layer talks to.
package daemon

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/dipgate/judged/pkg/archive"
	"github.com/dipgate/judged/pkg/boltstore"
	"github.com/dipgate/judged/pkg/judge"
	"github.com/dipgate/judged/pkg/mediator"
	"github.com/dipgate/judged/pkg/transcript"
)

// Service is the assembled mediator daemon.
type Service struct {
	mu      sync.RWMutex
	cfg     *Config
	store   *boltstore.Store
	arch    *archive.Archive
	metrics *Metrics
}

// New assembles a Service from its collaborators. The archive and metrics
// are optional.
func New(cfg *Config, store *boltstore.Store, arch *archive.Archive, metrics *Metrics) *Service {
	return &Service{cfg: cfg, store: store, arch: arch, metrics: metrics}
}

// Reconfigure swaps in a freshly loaded config (hot reload).
func (s *Service) Reconfigure(cfg *Config) {
	s.mu.Lock()
	s.cfg = cfg
	s.mu.Unlock()
}

func (s *Service) config() *Config {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg
}

// IngestListing parses a game-listing transcript, archives the raw text,
// and overwrites the stored GameState for the game.
func (s *Service) IngestListing(ctx context.Context, gameName, text string) (*judge.GameState, error) {
	if !judge.ValidGameName(gameName) {
		return nil, fmt.Errorf("daemon: bad game name %q", gameName)
	}

	gs := transcript.ParseListing(gameName, text)
	if s.metrics != nil {
		s.metrics.transcriptsParsed.WithLabelValues(archive.KindListing).Inc()
		if gs.Status == judge.StatusUnknown {
			s.metrics.parseFallbacks.Inc()
		}
	}

	if s.arch != nil {
		if _, err := s.arch.Save(ctx, gameName, archive.KindListing, text); err != nil {
			log.Printf("daemon: archiving listing for %s: %v", gameName, err)
		} else if keep := s.config().ArchiveKeep; keep > 0 {
			if err := s.arch.Trim(ctx, gameName, keep); err != nil {
				log.Printf("daemon: %v", err)
			}
		}
	}

	if err := s.store.PutGame(gs); err != nil {
		return nil, fmt.Errorf("daemon: storing %q: %w", gameName, err)
	}
	s.updateGamesGauge()
	log.Printf("daemon: ingested listing for %s: status=%s phase=%s players=%d",
		gameName, gs.Status, gs.CurrentPhase, len(gs.Players))
	return gs, nil
}

// IngestHistory parses a turn-history transcript and archives the raw
// text. Histories are produced per query and not persisted.
func (s *Service) IngestHistory(ctx context.Context, gameName, text string) (*judge.GameHistory, error) {
	if !judge.ValidGameName(gameName) {
		return nil, fmt.Errorf("daemon: bad game name %q", gameName)
	}

	hist := transcript.ParseHistory(gameName, text)
	if s.metrics != nil {
		s.metrics.transcriptsParsed.WithLabelValues(archive.KindHistory).Inc()
	}
	if s.arch != nil {
		if _, err := s.arch.Save(ctx, gameName, archive.KindHistory, text); err != nil {
			log.Printf("daemon: archiving history for %s: %v", gameName, err)
		}
	}
	log.Printf("daemon: parsed history for %s: %d phases", gameName, len(hist.Phases))
	return hist, nil
}

// ResolveCommand resolves the authentication context for one raw command
// against the stored game state. When no password is supplied, the
// operator's stored per-game engine password is tried first.
func (s *Service) ResolveCommand(req mediator.Request) (*mediator.CommandContext, error) {
	if req.Password == "" && req.Game != "" && req.Identity != "" {
		if u, err := s.store.GetUser(req.Identity); err == nil && u != nil {
			req.Password = u.JudgePassword(req.Game)
		}
	}

	ctx, err := mediator.Resolve(req, s.store.Lookup)
	if s.metrics != nil {
		outcome := "ok"
		switch {
		case err == nil:
		case mediator.IsMissingContext(err):
			outcome = "missing_context"
		default:
			outcome = "error"
		}
		s.metrics.resolutions.WithLabelValues(outcome).Inc()
	}
	return ctx, err
}

// BuildEngineMessage resolves a command and wraps the finalized body in
// the mail-shaped block the engine consumes.
func (s *Service) BuildEngineMessage(req mediator.Request) (string, error) {
	ctx, err := s.ResolveCommand(req)
	if err != nil {
		return "", err
	}
	cfg := s.config()
	body := mediator.FinalizeBody(ctx, req.Command)
	msg := mediator.NewMessage(cfg.FromAddress, cfg.JudgeAddress, "", body)
	return msg.Render(), nil
}

// Recommend derives command suggestions for an identity in a stored game.
// An unknown game yields the generic join-oriented set.
func (s *Service) Recommend(gameName, identity string) (mediator.RecommendationSet, error) {
	var gs *judge.GameState
	if gameName != "" {
		if !judge.ValidGameName(gameName) {
			return mediator.RecommendationSet{}, fmt.Errorf("daemon: bad game name %q", gameName)
		}
		loaded, err := s.store.GetGame(gameName)
		if err != nil {
			return mediator.RecommendationSet{}, err
		}
		gs = loaded
	}
	if s.metrics != nil {
		s.metrics.recommendations.Inc()
	}
	return mediator.Recommend(gs, identity), nil
}

func (s *Service) updateGamesGauge() {
	if s.metrics == nil {
		return
	}
	games, err := s.store.ListGames()
	if err != nil {
		return
	}
	s.metrics.gamesStored.Set(float64(len(games)))
}
