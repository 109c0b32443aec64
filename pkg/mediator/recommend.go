package mediator

import (
	"sort"
	"strings"

	"github.com/dipgate/judged/pkg/judge"
)

// RecommendationSet holds categorized command suggestions for one identity
// and one game. Every list is deduplicated and lexicographically sorted;
// the register and signoff commands never appear anywhere.
type RecommendationSet struct {
	Recommended   []string
	PlayerActions []string
	Settings      []string
	GameInfo      []string
	Master        []string
	General       []string
}

// Recommend derives the currently sensible commands from a game's stored
// state and the caller's identity. Either may be absent. Pure function: no
// lookups, no writes, never fails.
func Recommend(gs *judge.GameState, identity string) RecommendationSet {
	var set RecommendationSet
	role := judge.ClassifyRole(gs, identity)

	set.General = append(set.General, generalCommands...)

	if gs == nil || identity == "" {
		set.Recommended = append(set.Recommended, joinCommands...)
		set.GameInfo = append(set.GameInfo, "list")
		return finish(set, role)
	}

	set.GameInfo = append(set.GameInfo, infoCommands...)

	switch gs.Status {
	case judge.StatusForming:
		if role.Kind == judge.RoleUninvolved {
			set.Recommended = append(set.Recommended, joinCommands...)
			set.Recommended = append(set.Recommended, prefCommands...)
		}
		if role.Kind == judge.RolePlayer {
			set.Settings = append(set.Settings, prefCommands...)
		}
		if role.Kind == judge.RoleMaster {
			set.Master = append(set.Master, masterForming...)
		}

	case judge.StatusActive:
		switch {
		case role.Active():
			if t := judge.PhaseType(gs.CurrentPhase); t == 'M' || t == 'R' || t == 'A' {
				set.Recommended = append(set.Recommended, orderCommands...)
				set.PlayerActions = append(set.PlayerActions, orderCommands...)
			}
			if gs.Settings.Press != "None" && !gs.Settings.Gunboat {
				set.PlayerActions = append(set.PlayerActions, pressCommands...)
			}
			set.PlayerActions = append(set.PlayerActions, playerToggles...)
			if gs.Settings.DIAS || gs.Settings.Concessions {
				set.Settings = append(set.Settings, drawCommands...)
			}
			if gs.Settings.Concessions {
				set.Settings = append(set.Settings, concedeCmds...)
			}
		case role.Kind == judge.RoleObserver:
			if gs.Settings.ObserverPress != "none" {
				set.PlayerActions = append(set.PlayerActions, pressCommands...)
			}
		case role.Kind == judge.RoleUninvolved:
			set.Recommended = append(set.Recommended, joinCommands...)
		}
		// Master suggestions are independent of the player branch above:
		// a master may also hold a seat.
		if role.Kind == judge.RoleMaster {
			set.Master = append(set.Master, masterActive...)
		}

	case judge.StatusPaused:
		if role.Kind == judge.RoleMaster {
			set.Master = append(set.Master, masterPaused...)
		}
		if role.Active() && gs.Settings.Press != "None" && !gs.Settings.Gunboat {
			set.PlayerActions = append(set.PlayerActions, pressCommands...)
		}

	case judge.StatusFinished, judge.StatusTerminated:
		set.Recommended = append(set.Recommended, infoCommands...)
		if role.Kind == judge.RoleMaster {
			set.Master = append(set.Master, masterFinished...)
		}

	default: // StatusUnknown
		if role.Kind == judge.RoleUninvolved {
			set.Recommended = append(set.Recommended, joinCommands...)
		}
	}

	return finish(set, role)
}

// finish applies the role pruning, the permanent exclusions, the
// guaranteed catch-all, and per-category dedupe + sort.
func finish(set RecommendationSet, role judge.Role) RecommendationSet {
	if role.Kind != judge.RoleMaster {
		set.Master = nil
	}
	switch role.Kind {
	case judge.RoleObserver:
		// Observers keep only the press subset of player actions.
		set.PlayerActions = intersect(set.PlayerActions, pressCommands)
		set.Settings = nil
	case judge.RoleUninvolved:
		set.PlayerActions = nil
		set.Settings = nil
	}

	set.General = append(set.General, catchAllCommand)

	set.Recommended = tidy(set.Recommended)
	set.PlayerActions = tidy(set.PlayerActions)
	set.Settings = tidy(set.Settings)
	set.GameInfo = tidy(set.GameInfo)
	set.Master = tidy(set.Master)
	set.General = tidy(set.General)
	return set
}

// tidy drops suppressed commands, deduplicates, and sorts.
func tidy(cmds []string) []string {
	seen := make(map[string]bool, len(cmds))
	out := cmds[:0]
	for _, c := range cmds {
		key := strings.ToLower(c)
		if suppressedCommands[key] || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

func intersect(have, allow []string) []string {
	allowed := make(map[string]bool, len(allow))
	for _, a := range allow {
		allowed[strings.ToLower(a)] = true
	}
	var out []string
	for _, h := range have {
		if allowed[strings.ToLower(h)] {
			out = append(out, h)
		}
	}
	return out
}
