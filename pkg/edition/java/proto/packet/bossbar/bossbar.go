// Package bossbar contains the boss bar packet available since 1.9.
package bossbar

import (
	"errors"
	"io"

	"go.minekube.com/tabgate/pkg/edition/java/proto/util"
	"go.minekube.com/tabgate/pkg/gate/proto"
	"go.minekube.com/tabgate/pkg/util/uuid"
)

type Action int

const (
	AddAction Action = iota
	RemoveAction
	UpdatePercentAction
	UpdateNameAction
	UpdateStyleAction
	UpdatePropertiesAction
)

type Color int

const (
	PinkColor Color = iota
	BlueColor
	RedColor
	GreenColor
	YellowColor
	PurpleColor
	WhiteColor
)

type Overlay int

const (
	ProgressOverlay Overlay = iota
	Notched6Overlay
	Notched10Overlay
	Notched12Overlay
	Notched20Overlay
)

type Flag int

const (
	DarkenScreenFlag   Flag = 0x01
	PlayBossMusicFlag  Flag = 0x02
	CreateWorldFogFlag Flag = 0x04
)

var (
	errNoName        = errors.New("boss bar needs to have a name specified")
	errInvalidAction = errors.New("unknown action for boss bar")
)

// BossBar adds, removes or updates a boss bar.
// Name is a json chat component.
type BossBar struct {
	ID      uuid.UUID
	Action  Action
	Name    string
	Percent float32
	Color   Color
	Overlay Overlay
	Flags   byte
}

func (bb *BossBar) Encode(_ *proto.PacketContext, wr io.Writer) error {
	err := util.WriteUUID(wr, bb.ID)
	if err != nil {
		return err
	}
	err = util.WriteVarInt(wr, int(bb.Action))
	if err != nil {
		return err
	}

	switch bb.Action {
	case AddAction:
		if bb.Name == "" {
			return errNoName
		}
		err = util.WriteString(wr, bb.Name)
		if err != nil {
			return err
		}
		err = util.WriteFloat32(wr, bb.Percent)
		if err != nil {
			return err
		}
		err = bb.writeStyle(wr)
		if err != nil {
			return err
		}
		return util.WriteByte(wr, bb.Flags)
	case RemoveAction:
	case UpdatePercentAction:
		return util.WriteFloat32(wr, bb.Percent)
	case UpdateNameAction:
		if bb.Name == "" {
			return errNoName
		}
		return util.WriteString(wr, bb.Name)
	case UpdateStyleAction:
		return bb.writeStyle(wr)
	case UpdatePropertiesAction:
		return util.WriteByte(wr, bb.Flags)
	default:
		return errInvalidAction
	}
	return nil
}

func (bb *BossBar) writeStyle(wr io.Writer) error {
	err := util.WriteVarInt(wr, int(bb.Color))
	if err != nil {
		return err
	}
	return util.WriteVarInt(wr, int(bb.Overlay))
}

func (bb *BossBar) readStyle(rd io.Reader) error {
	color, err := util.ReadVarInt(rd)
	if err != nil {
		return err
	}
	bb.Color = Color(color)
	overlay, err := util.ReadVarInt(rd)
	if err != nil {
		return err
	}
	bb.Overlay = Overlay(overlay)
	return nil
}

func (bb *BossBar) Decode(_ *proto.PacketContext, rd io.Reader) (err error) {
	bb.ID, err = util.ReadUUID(rd)
	if err != nil {
		return err
	}
	action, err := util.ReadVarInt(rd)
	if err != nil {
		return err
	}
	bb.Action = Action(action)

	switch bb.Action {
	case AddAction:
		bb.Name, err = util.ReadString(rd)
		if err != nil {
			return err
		}
		bb.Percent, err = util.ReadFloat32(rd)
		if err != nil {
			return err
		}
		if err = bb.readStyle(rd); err != nil {
			return err
		}
		bb.Flags, err = util.ReadByte(rd)
	case RemoveAction:
	case UpdatePercentAction:
		bb.Percent, err = util.ReadFloat32(rd)
	case UpdateNameAction:
		bb.Name, err = util.ReadString(rd)
	case UpdateStyleAction:
		err = bb.readStyle(rd)
	case UpdatePropertiesAction:
		bb.Flags, err = util.ReadByte(rd)
	default:
		return errInvalidAction
	}
	return err
}

// ConvertFlags converts the given flags to the byte representation.
func ConvertFlags(flags ...Flag) byte {
	var val byte
	for _, flag := range flags {
		val |= byte(flag)
	}
	return val
}
