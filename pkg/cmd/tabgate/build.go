package tabgate

import (
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/gookit/color"
	"github.com/urfave/cli/v2"
	"golang.org/x/exp/maps"
	"gopkg.in/yaml.v3"

	"go.minekube.com/tabgate/internal/util/console"
	"go.minekube.com/tabgate/pkg/edition/java/canonical"
	"go.minekube.com/tabgate/pkg/edition/java/player"
	"go.minekube.com/tabgate/pkg/edition/java/proto/packet"
	"go.minekube.com/tabgate/pkg/edition/java/proto/packet/bossbar"
	"go.minekube.com/tabgate/pkg/edition/java/proto/version"
	"go.minekube.com/tabgate/pkg/gate/proto"
	"go.minekube.com/tabgate/pkg/util/errs"
	"go.minekube.com/tabgate/pkg/util/sets"
	"go.minekube.com/tabgate/pkg/util/suggest"
	"go.minekube.com/tabgate/pkg/util/uuid"
)

func buildCommand() *cli.Command {
	return &cli.Command{
		Name:      "build",
		Usage:     "Build the packets of a scoreboard script for a protocol version",
		ArgsUsage: "<script.yml>",
		Description: `Runs the steps of a script through a fresh connection and dumps every
packet that would be sent to the client. Rejected steps are printed
with the reason, so a script can be checked against old clients:

	tabgate build --protocol 1.8 script.yml

A script is a list of steps:

	- op: objective.register
	  name: health
	  title: "§cHP"
	  renderType: hearts
	- op: objective.display
	  name: health
	  slot: belowName
	- op: score.set
	  objective: health
	  holder: Steve
	  value: 20`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "protocol",
				Aliases: []string{"p"},
				Usage:   "Version name (e.g. 1.12.2) or protocol number",
				Value:   version.MaximumVersion.FirstName(),
			},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return cli.Exit("expected exactly one script file", 1)
			}
			v, err := parseVersion(c.String("protocol"))
			if err != nil {
				return cli.Exit(err, 1)
			}
			f, err := os.Open(c.Args().First())
			if err != nil {
				return cli.Exit(err, 1)
			}
			defer f.Close()
			steps, err := parseScript(f)
			if err != nil {
				return cli.Exit(err, 1)
			}
			rejected, err := runScript(c, v, steps)
			if err != nil {
				return cli.Exit(err, 1)
			}
			if rejected != 0 {
				return cli.Exit(fmt.Sprintf("%d of %d steps rejected for %s", rejected, len(steps), v), 1)
			}
			return nil
		},
	}
}

// parseVersion accepts a version name or a protocol number.
func parseVersion(s string) (*proto.Version, error) {
	if v, ok := version.ByName(s); ok {
		return v, nil
	}
	if n, err := strconv.Atoi(s); err == nil && version.Protocol(n).Supported() {
		return version.Protocol(n).Version(), nil
	}
	return nil, fmt.Errorf("unsupported version %q%s (supported: %s)",
		s, suggest.DidYouMean(s, version.Names()), version.SupportedVersionsString)
}

// step is one operation of a build script.
type step struct {
	Op string `yaml:"op"`

	Name       string `yaml:"name"`
	Title      string `yaml:"title"`
	RenderType string `yaml:"renderType"`
	Slot       string `yaml:"slot"`

	Objective string `yaml:"objective"`
	Holder    string `yaml:"holder"`
	Value     int    `yaml:"value"`

	DisplayName       string   `yaml:"displayName"`
	Prefix            string   `yaml:"prefix"`
	Suffix            string   `yaml:"suffix"`
	FriendlyFire      bool     `yaml:"friendlyFire"`
	SeeInvisibles     bool     `yaml:"seeInvisibles"`
	NameTagVisibility string   `yaml:"nameTagVisibility"`
	CollisionRule     string   `yaml:"collisionRule"`
	Color             *int     `yaml:"color"`
	Players           []string `yaml:"players"`

	ID       uuid.UUID       `yaml:"id"`
	Progress float32         `yaml:"progress"`
	BarColor bossbar.Color   `yaml:"barColor"`
	Overlay  bossbar.Overlay `yaml:"overlay"`
	Flags    []bossbar.Flag  `yaml:"flags"`
	Change   string          `yaml:"change"`
}

var slots = map[string]packet.DisplaySlot{
	"list":      packet.ListSlot,
	"sidebar":   packet.SidebarSlot,
	"belowName": packet.BelowNameSlot,
}

var bossBarChanges = map[string]canonical.BossBarChange{
	"progress": canonical.BossBarProgress,
	"title":    canonical.BossBarTitle,
	"style":    canonical.BossBarStyle,
	"flags":    canonical.BossBarFlags,
}

var stepOps = map[string]func(s *step) (canonical.Packet, error){
	"objective.register": func(s *step) (canonical.Packet, error) {
		rt, err := s.renderType()
		return &canonical.ObjectiveRegister{Name: s.Name, Title: s.Title, RenderType: rt}, err
	},
	"objective.update": func(s *step) (canonical.Packet, error) {
		rt, err := s.renderType()
		return &canonical.ObjectiveUpdate{Name: s.Name, Title: s.Title, RenderType: rt}, err
	},
	"objective.unregister": func(s *step) (canonical.Packet, error) {
		return &canonical.ObjectiveUnregister{Name: s.Name}, nil
	},
	"objective.display": func(s *step) (canonical.Packet, error) {
		slot, ok := slots[s.Slot]
		if !ok {
			return nil, fmt.Errorf("unknown slot %q%s", s.Slot, suggest.DidYouMean(s.Slot, maps.Keys(slots)))
		}
		return &canonical.ObjectiveDisplay{Name: s.Name, Slot: slot}, nil
	},
	"score.set": func(s *step) (canonical.Packet, error) {
		return &canonical.ScoreSet{Objective: s.Objective, Holder: s.Holder, Value: s.Value}, nil
	},
	"score.remove": func(s *step) (canonical.Packet, error) {
		return &canonical.ScoreRemove{Objective: s.Objective, Holder: s.Holder}, nil
	},
	"team.register": func(s *step) (canonical.Packet, error) {
		return &canonical.TeamRegister{Name: s.Name, Info: s.teamInfo(), Players: s.Players}, nil
	},
	"team.update": func(s *step) (canonical.Packet, error) {
		return &canonical.TeamUpdate{Name: s.Name, Info: s.teamInfo()}, nil
	},
	"team.unregister": func(s *step) (canonical.Packet, error) {
		return &canonical.TeamUnregister{Name: s.Name}, nil
	},
	"team.addPlayers": func(s *step) (canonical.Packet, error) {
		return &canonical.TeamAddPlayers{Name: s.Name, Players: s.Players}, nil
	},
	"team.removePlayers": func(s *step) (canonical.Packet, error) {
		return &canonical.TeamRemovePlayers{Name: s.Name, Players: s.Players}, nil
	},
	"bossbar.create": func(s *step) (canonical.Packet, error) {
		id, err := s.bossBarID()
		return &canonical.BossBarCreate{
			ID: id, Title: s.Title, Progress: s.Progress,
			Color: s.BarColor, Overlay: s.Overlay, Flags: s.Flags,
		}, err
	},
	"bossbar.update": func(s *step) (canonical.Packet, error) {
		id, err := s.bossBarID()
		if err != nil {
			return nil, err
		}
		change, ok := bossBarChanges[s.Change]
		if !ok {
			return nil, fmt.Errorf("unknown boss bar change %q%s", s.Change, suggest.DidYouMean(s.Change, maps.Keys(bossBarChanges)))
		}
		return &canonical.BossBarUpdate{
			ID: id, Change: change, Title: s.Title, Progress: s.Progress,
			Color: s.BarColor, Overlay: s.Overlay, Flags: s.Flags,
		}, nil
	},
	"bossbar.remove": func(s *step) (canonical.Packet, error) {
		id, err := s.bossBarID()
		return &canonical.BossBarRemove{ID: id}, err
	},
}

var stepNames = sets.Sorted(sets.New(maps.Keys(stepOps)...))

func (s *step) bossBarID() (uuid.UUID, error) {
	if s.ID == uuid.Nil {
		return s.ID, errors.New("missing boss bar id")
	}
	return s.ID, nil
}

func (s *step) renderType() (packet.RenderType, error) {
	if s.RenderType == "" {
		return packet.IntegerRenderType, nil
	}
	for _, rt := range []packet.RenderType{packet.IntegerRenderType, packet.HeartsRenderType} {
		if rt.String() == s.RenderType {
			return rt, nil
		}
	}
	return 0, fmt.Errorf("unknown render type %q", s.RenderType)
}

func (s *step) teamInfo() canonical.TeamInfo {
	info := canonical.TeamInfo{
		DisplayName:       s.DisplayName,
		Prefix:            s.Prefix,
		Suffix:            s.Suffix,
		FriendlyFire:      s.FriendlyFire,
		SeeInvisibles:     s.SeeInvisibles,
		NameTagVisibility: s.NameTagVisibility,
		CollisionRule:     s.CollisionRule,
		Color:             canonical.ResetColor,
	}
	if s.Color != nil {
		info.Color = *s.Color
	}
	return info
}

// packet converts s into its canonical packet.
func (s *step) packet() (canonical.Packet, error) {
	fn, ok := stepOps[s.Op]
	if !ok {
		return nil, fmt.Errorf("unknown op %q%s", s.Op, suggest.DidYouMean(s.Op, stepNames))
	}
	return fn(s)
}

// parseScript decodes a script and converts every step.
func parseScript(r io.Reader) ([]canonical.Packet, error) {
	var steps []step
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&steps); err != nil {
		return nil, fmt.Errorf("error decoding script: %w", err)
	}
	packets := make([]canonical.Packet, len(steps))
	for i := range steps {
		p, err := steps[i].packet()
		if err != nil {
			return nil, fmt.Errorf("step %d: %w", i+1, err)
		}
		packets[i] = p
	}
	return packets, nil
}

// dumpWriter prints every packet as hex dump.
type dumpWriter struct {
	w io.Writer
	n int
}

func (d *dumpWriter) WritePacket(pc *proto.PacketContext) error {
	d.n++
	_, err := fmt.Fprintf(d.w, "%s %s %T (%d bytes)\n%s",
		color.Cyan.Sprintf("#%d", d.n), pc.PacketID, pc.Packet, len(pc.Payload), hex.Dump(pc.Payload))
	return err
}

func runScript(c *cli.Context, v *proto.Version, packets []canonical.Packet) (rejected int, err error) {
	out := c.App.Writer
	conn, err := player.New(c.Context, player.Options{
		Protocol:       v.Protocol,
		Writer:         &dumpWriter{w: out},
		ReportOverflow: true,
		Reporter: errs.ReporterFunc(func(resource string, err error) {
			_, _ = fmt.Fprintf(out, "%s %s: %v\n", color.Yellow.Sprint(errs.Kind(err)), resource, err)
		}),
	})
	if err != nil {
		return 0, err
	}
	_, _ = fmt.Fprintf(out, "Building %d steps for %s\n", len(packets), color.Green.Sprint(v))
	for i, p := range packets {
		if !conn.Send(c.Context, p) {
			rejected++
			_, _ = fmt.Fprintf(out, "%s step %d (%s %s)\n",
				color.Red.Sprint("rejected"), i+1, p.Op(), console.AnsiFromLegacy(p.Resource().String()))
		}
	}
	return rejected, nil
}
