package judge

import "strings"

// RoleKind classifies an identity relative to one game. The command
// resolver and the recommendation engine both branch on this, so the
// classification lives here rather than in either of them.
type RoleKind int

const (
	RoleUninvolved RoleKind = iota
	RoleMaster
	RolePlayer
	RoleObserver
)

func (k RoleKind) String() string {
	switch k {
	case RoleMaster:
		return "Master"
	case RolePlayer:
		return "Player"
	case RoleObserver:
		return "Observer"
	default:
		return "Uninvolved"
	}
}

// Role is the resolved classification. Power and PlayerStatus are set only
// for RolePlayer.
type Role struct {
	Kind         RoleKind
	Power        string
	PlayerStatus string
}

// inactiveStatuses are roster statuses under which a player no longer acts.
var inactiveStatuses = map[string]bool{
	"cd":         true,
	"resigned":   true,
	"abandoned":  true,
	"eliminated": true,
}

// InactivePlayerStatus reports whether a roster status means the seat is no
// longer actively played.
func InactivePlayerStatus(status string) bool {
	return inactiveStatuses[strings.ToLower(status)]
}

// Active reports whether the role is a player who can still act.
func (r Role) Active() bool {
	return r.Kind == RolePlayer && !InactivePlayerStatus(r.PlayerStatus)
}

// ClassifyRole determines the identity's role in the game. Master and
// player membership are checked before observer; observer applies only
// when the identity is neither. A nil state or empty identity is
// uninvolved. Exactly one classification applies.
func ClassifyRole(gs *GameState, identity string) Role {
	if gs == nil || identity == "" {
		return Role{Kind: RoleUninvolved}
	}
	if gs.IsMaster(identity) {
		return Role{Kind: RoleMaster}
	}
	if p, ok := gs.PlayerFor(identity); ok {
		return Role{Kind: RolePlayer, Power: p.Power, PlayerStatus: p.Status}
	}
	if gs.IsObserver(identity) {
		return Role{Kind: RoleObserver}
	}
	return Role{Kind: RoleUninvolved}
}
