package state

import (
	"fmt"
	"reflect"

	"go.minekube.com/tabgate/pkg/edition/java/proto/version"
	"go.minekube.com/tabgate/pkg/gate/proto"
)

// Registry stores server/client bound packets of a connection state.
type Registry struct {
	State
	ServerBound *PacketRegistry
	ClientBound *PacketRegistry
}

// NewRegistry returns an empty Registry for the state.
func NewRegistry(state State) *Registry {
	return &Registry{
		State:       state,
		ServerBound: NewPacketRegistry(proto.ServerBound),
		ClientBound: NewPacketRegistry(proto.ClientBound),
	}
}

// Direction returns the PacketRegistry of the direction.
func (r *Registry) Direction(d proto.Direction) *PacketRegistry {
	if d == proto.ServerBound {
		return r.ServerBound
	}
	return r.ClientBound
}

// PacketRegistry stores packets per protocol version sent to server or client.
type PacketRegistry struct {
	Direction proto.Direction                      // The direction the registered packets are send to.
	Protocols map[proto.Protocol]*ProtocolRegistry // The protocol versions.
}

// NewPacketRegistry returns a PacketRegistry with an empty
// ProtocolRegistry for every supported version.
func NewPacketRegistry(direction proto.Direction) *PacketRegistry {
	r := &PacketRegistry{
		Direction: direction,
		Protocols: map[proto.Protocol]*ProtocolRegistry{},
	}
	for _, ver := range version.SupportedVersions {
		r.Protocols[ver.Protocol] = &ProtocolRegistry{
			Protocol:    ver.Protocol,
			PacketIDs:   map[proto.PacketID]proto.PacketType{},
			PacketTypes: map[proto.PacketType]proto.PacketID{},
		}
	}
	return r
}

// ProtocolRegistry gets the ProtocolRegistry for a protocol or nil if
// the protocol is not supported.
func (p *PacketRegistry) ProtocolRegistry(protocol proto.Protocol) *ProtocolRegistry {
	return p.Protocols[protocol]
}

// ProtocolRegistry stores packets of a protocol version.
type ProtocolRegistry struct {
	Protocol    proto.Protocol                      // The protocol version of the registered packets.
	PacketIDs   map[proto.PacketID]proto.PacketType // Gets packet type by packet id.
	PacketTypes map[proto.PacketType]proto.PacketID // Gets packet id by packet type.
}

// PacketID gets the packet id by the registered packet type.
func (r *ProtocolRegistry) PacketID(of proto.Packet) (id proto.PacketID, found bool) {
	id, found = r.PacketTypes[proto.TypeOf(of)]
	return
}

// CreatePacket returns a new zero valued instance of the type
// of the mapped packet id or nil if not found.
func (r *ProtocolRegistry) CreatePacket(id proto.PacketID) proto.Packet {
	packetType, ok := r.PacketIDs[id]
	if !ok {
		return nil
	}
	p, _ := reflect.New(packetType).Interface().(proto.Packet)
	return p
}

// Register maps the packet type to packet ids starting at each
// mapping's version up to the next mapping or the mapping's last
// valid version.
func (p *PacketRegistry) Register(packetOf proto.Packet, mappings ...*PacketMapping) {
	packetType := proto.TypeOf(packetOf)
	for i, current := range mappings {
		from := current.Protocol
		to := version.MaximumVersion.Protocol
		inclusive := true
		if current.LastValid != nil {
			to = current.LastValid.Protocol
		} else if i < len(mappings)-1 {
			to = mappings[i+1].Protocol
			inclusive = false
		}
		if from > to || (from == to && !inclusive) {
			panic(fmt.Sprintf("next mapping version (%s) should be higher than current (%s)", to, from))
		}

		for _, ver := range version.SupportedVersions {
			if ver.Protocol < from || ver.Protocol > to || (ver.Protocol == to && !inclusive) {
				continue
			}
			registry := p.Protocols[ver.Protocol]
			if _, ok := registry.PacketIDs[current.ID]; ok {
				panic(fmt.Sprintf("can not register packet type %T with id %#x for "+
					"protocol %s because another packet is already registered", packetOf, current.ID, registry.Protocol))
			}
			if _, ok := registry.PacketTypes[packetType]; ok {
				panic(fmt.Sprintf("%T is already registered for protocol %s", packetOf, registry.Protocol))
			}
			registry.PacketIDs[current.ID] = packetType
			registry.PacketTypes[packetType] = current.ID
		}
	}
}

// PacketMapping is a packet id valid from a protocol version on.
type PacketMapping struct {
	ID        proto.PacketID
	Protocol  proto.Protocol
	LastValid *proto.Version // nil until the next mapping
}

func m(id proto.PacketID, version *proto.Version) *PacketMapping {
	return &PacketMapping{
		ID:       id,
		Protocol: version.Protocol,
	}
}

// ml is m with a last valid version for packets removed from the protocol.
func ml(id proto.PacketID, version, lastValid *proto.Version) *PacketMapping {
	return &PacketMapping{
		ID:        id,
		Protocol:  version.Protocol,
		LastValid: lastValid,
	}
}
