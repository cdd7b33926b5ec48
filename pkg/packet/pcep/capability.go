// Copyright (c) 2022 NTT Communications Corporation
//
// This software is released under the MIT License.
// see https://github.com/nttcom/pola/blob/main/LICENSE

package pcep

// CapabilityInterface is a TLV advertised in the OPEN object.
type CapabilityInterface interface {
	TLVInterface
	CapStrings() []string
}

const defaultMaximumSIDDepth uint8 = 16

// DefaultCapabilities is the capability set a stateful, PCECC and
// link-state aware PCE advertises.
func DefaultCapabilities() []CapabilityInterface {
	return []CapabilityInterface{
		&StatefulPCECapability{
			LSPUpdateCapability:        true,
			LSPInstantiationCapability: true,
		},
		NewSRPCECapability(false, false, defaultMaximumSIDDepth),
		NewPCECCCapability(PCECCCapabilityLabelBit),
		NewLSCapability(0),
	}
}

// NegotiateCapabilities keeps the local capabilities the peer also
// advertises, restricted to the flags both sides set. LSP-DB-VERSION is
// a synchronization value rather than a capability and is never kept.
func NegotiateCapabilities(local, peer []CapabilityInterface) []CapabilityInterface {
	peerCaps := make(map[TLVType]CapabilityInterface, len(peer))
	for _, c := range peer {
		peerCaps[c.Type()] = c
	}

	negotiated := []CapabilityInterface{}
	for _, l := range local {
		if l.Type() == TLVLSPDBVersion {
			continue
		}
		p, ok := peerCaps[l.Type()]
		if !ok {
			continue
		}
		switch l := l.(type) {
		case *StatefulPCECapability:
			if p, ok := p.(*StatefulPCECapability); ok {
				negotiated = append(negotiated, NewStatefulPCECapability(l.CapabilityBits()&p.CapabilityBits()))
			}
		case *SRPCECapability:
			if p, ok := p.(*SRPCECapability); ok {
				negotiated = append(negotiated, NewSRPCECapability(
					l.HasUnlimitedMaxSIDDepth && p.HasUnlimitedMaxSIDDepth,
					l.IsNAISupported && p.IsNAISupported,
					min(l.MaximumSidDepth, p.MaximumSidDepth),
				))
			}
		case *FlagsTLV:
			if p, ok := p.(*FlagsTLV); ok {
				negotiated = append(negotiated, &FlagsTLV{Typ: l.Typ, Flags: l.Flags & p.Flags})
			}
		default:
			negotiated = append(negotiated, l)
		}
	}
	return negotiated
}

// CapabilityStrings flattens the capability names for logging.
func CapabilityStrings(caps []CapabilityInterface) []string {
	var ret []string
	for _, c := range caps {
		ret = append(ret, c.CapStrings()...)
	}
	return ret
}

func capabilityTLVs(caps []CapabilityInterface) []TLVInterface {
	tlvs := make([]TLVInterface, 0, len(caps))
	for _, c := range caps {
		tlvs = append(tlvs, c)
	}
	return tlvs
}

// CapabilityBuilder accumulates the capability TLVs of an OPEN object.
type CapabilityBuilder struct {
	caps []CapabilityInterface
}

func NewCapabilityBuilder() *CapabilityBuilder {
	return &CapabilityBuilder{}
}

func (b *CapabilityBuilder) Stateful(flags uint32) *CapabilityBuilder {
	return b.Add(NewStatefulPCECapability(flags))
}

func (b *CapabilityBuilder) SegmentRouting(maximumSidDepth uint8) *CapabilityBuilder {
	return b.Add(NewSRPCECapability(false, false, maximumSidDepth))
}

func (b *CapabilityBuilder) PCECC(flags uint32) *CapabilityBuilder {
	return b.Add(NewPCECCCapability(flags))
}

func (b *CapabilityBuilder) LinkState(flags uint32) *CapabilityBuilder {
	return b.Add(NewLSCapability(flags))
}

func (b *CapabilityBuilder) GMPLS(flags uint32) *CapabilityBuilder {
	return b.Add(NewGMPLSCapability(flags))
}

// Add appends c, replacing an earlier capability of the same type.
func (b *CapabilityBuilder) Add(c CapabilityInterface) *CapabilityBuilder {
	for i, existing := range b.caps {
		if existing.Type() == c.Type() {
			b.caps[i] = c
			return b
		}
	}
	b.caps = append(b.caps, c)
	return b
}

// Build returns the accumulated capabilities. The builder may be reused.
func (b *CapabilityBuilder) Build() []CapabilityInterface {
	caps := make([]CapabilityInterface, len(b.caps))
	copy(caps, b.caps)
	return caps
}
