// Package canonical contains version independent scoreboard, team and boss bar operations.
//
// A canonical packet only carries semantic fields. It is turned into a wire
// packet for a specific protocol version by the builder package and gated by
// the per-connection session state.
package canonical

import (
	"fmt"

	"go.minekube.com/tabgate/pkg/edition/java/proto/packet"
	"go.minekube.com/tabgate/pkg/edition/java/proto/packet/bossbar"
	"go.minekube.com/tabgate/pkg/util/uuid"
)

// Op is what a packet does with the resource it targets.
type Op int

const (
	// Register makes a resource known to the client.
	Register Op = iota
	// Unregister removes a registered resource.
	Unregister
	// Use changes or references a registered resource.
	Use
)

func (o Op) String() string {
	switch o {
	case Register:
		return "register"
	case Unregister:
		return "unregister"
	case Use:
		return "use"
	}
	return fmt.Sprintf("Op(%d)", int(o))
}

// Kind is the kind of a resource.
type Kind string

const (
	ObjectiveKind Kind = "objective"
	TeamKind      Kind = "team"
	BossBarKind   Kind = "bossbar"
)

// Resource identifies a named client-side resource.
type Resource struct {
	Kind Kind
	Name string
}

func (r Resource) String() string { return string(r.Kind) + " " + r.Name }

// Packet is a canonical packet request.
type Packet interface {
	// Resource returns the resource the packet targets.
	Resource() Resource
	// Op returns the operation performed on the resource.
	Op() Op

	canonical()
}

// ResetColor removes the team color.
const ResetColor = -1

// TeamInfo holds the properties of a team.
// Texts are legacy §-formatted strings.
type TeamInfo struct {
	DisplayName       string
	Prefix            string
	Suffix            string
	FriendlyFire      bool
	SeeInvisibles     bool
	NameTagVisibility string // "always" if empty
	CollisionRule     string // "always" if empty, ignored before 1.9
	Color             int    // chat color ordinal 0-15 or ResetColor
}

// BossBarChange selects the property a BossBarUpdate changes.
type BossBarChange int

const (
	BossBarProgress BossBarChange = iota
	BossBarTitle
	BossBarStyle
	BossBarFlags
)

type (
	// ObjectiveRegister registers an objective. Title is a legacy string.
	ObjectiveRegister struct {
		Name       string
		Title      string
		RenderType packet.RenderType
	}
	// ObjectiveUpdate changes title and render type of an objective.
	ObjectiveUpdate struct {
		Name       string
		Title      string
		RenderType packet.RenderType
	}
	// ObjectiveUnregister unregisters an objective.
	ObjectiveUnregister struct {
		Name string
	}
	// ObjectiveDisplay shows an objective in a display slot.
	ObjectiveDisplay struct {
		Name string
		Slot packet.DisplaySlot
	}

	// ScoreSet sets the score of a holder in an objective.
	ScoreSet struct {
		Objective string
		Holder    string
		Value     int
	}
	// ScoreRemove removes the score of a holder from an objective.
	ScoreRemove struct {
		Objective string
		Holder    string
	}

	// TeamRegister registers a team with initial players.
	TeamRegister struct {
		Name    string
		Info    TeamInfo
		Players []string
	}
	// TeamUpdate changes the properties of a team.
	TeamUpdate struct {
		Name string
		Info TeamInfo
	}
	// TeamUnregister unregisters a team.
	TeamUnregister struct {
		Name string
	}
	// TeamAddPlayers adds players to a team.
	TeamAddPlayers struct {
		Name    string
		Players []string
	}
	// TeamRemovePlayers removes players from a team.
	TeamRemovePlayers struct {
		Name    string
		Players []string
	}

	// BossBarCreate shows a new boss bar. Title is a legacy string.
	BossBarCreate struct {
		ID       uuid.UUID
		Title    string
		Progress float32 // 0-1
		Color    bossbar.Color
		Overlay  bossbar.Overlay
		Flags    []bossbar.Flag
	}
	// BossBarUpdate changes one property of a boss bar.
	// Only the fields belonging to Change are used.
	BossBarUpdate struct {
		ID       uuid.UUID
		Change   BossBarChange
		Title    string
		Progress float32
		Color    bossbar.Color
		Overlay  bossbar.Overlay
		Flags    []bossbar.Flag
	}
	// BossBarRemove hides a boss bar.
	BossBarRemove struct {
		ID uuid.UUID
	}
)

func objective(name string) Resource { return Resource{Kind: ObjectiveKind, Name: name} }
func team(name string) Resource      { return Resource{Kind: TeamKind, Name: name} }
func bossBar(id uuid.UUID) Resource  { return Resource{Kind: BossBarKind, Name: id.String()} }

func (p *ObjectiveRegister) Resource() Resource   { return objective(p.Name) }
func (p *ObjectiveUpdate) Resource() Resource     { return objective(p.Name) }
func (p *ObjectiveUnregister) Resource() Resource { return objective(p.Name) }
func (p *ObjectiveDisplay) Resource() Resource    { return objective(p.Name) }
func (p *ScoreSet) Resource() Resource            { return objective(p.Objective) }
func (p *ScoreRemove) Resource() Resource         { return objective(p.Objective) }
func (p *TeamRegister) Resource() Resource        { return team(p.Name) }
func (p *TeamUpdate) Resource() Resource          { return team(p.Name) }
func (p *TeamUnregister) Resource() Resource      { return team(p.Name) }
func (p *TeamAddPlayers) Resource() Resource      { return team(p.Name) }
func (p *TeamRemovePlayers) Resource() Resource   { return team(p.Name) }
func (p *BossBarCreate) Resource() Resource       { return bossBar(p.ID) }
func (p *BossBarUpdate) Resource() Resource       { return bossBar(p.ID) }
func (p *BossBarRemove) Resource() Resource       { return bossBar(p.ID) }

func (*ObjectiveRegister) Op() Op   { return Register }
func (*ObjectiveUpdate) Op() Op     { return Use }
func (*ObjectiveUnregister) Op() Op { return Unregister }
func (*ObjectiveDisplay) Op() Op    { return Use }
func (*ScoreSet) Op() Op            { return Use }
func (*ScoreRemove) Op() Op         { return Use }
func (*TeamRegister) Op() Op        { return Register }
func (*TeamUpdate) Op() Op          { return Use }
func (*TeamUnregister) Op() Op      { return Unregister }
func (*TeamAddPlayers) Op() Op      { return Use }
func (*TeamRemovePlayers) Op() Op   { return Use }
func (*BossBarCreate) Op() Op       { return Register }
func (*BossBarUpdate) Op() Op       { return Use }
func (*BossBarRemove) Op() Op       { return Unregister }

func (*ObjectiveRegister) canonical()   {}
func (*ObjectiveUpdate) canonical()     {}
func (*ObjectiveUnregister) canonical() {}
func (*ObjectiveDisplay) canonical()    {}
func (*ScoreSet) canonical()            {}
func (*ScoreRemove) canonical()         {}
func (*TeamRegister) canonical()        {}
func (*TeamUpdate) canonical()          {}
func (*TeamUnregister) canonical()      {}
func (*TeamAddPlayers) canonical()      {}
func (*TeamRemovePlayers) canonical()   {}
func (*BossBarCreate) canonical()       {}
func (*BossBarUpdate) canonical()       {}
func (*BossBarRemove) canonical()       {}
