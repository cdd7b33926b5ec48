// Copyright (c) 2022 NTT Communications Corporation
//
// This software is released under the MIT License.
// see https://github.com/nttcom/pola/blob/main/LICENSE

package cspf

import (
	"net/netip"
	"testing"

	"github.com/nttcom/pcepio/internal/pkg/table"
	"github.com/nttcom/pcepio/pkg/packet/pcep"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testAsn = 65000

type testLink struct {
	local, remote     string
	localIP, remoteIP string
	igp, te           uint32
	bandwidth         float32
	adminGroup        uint32
	localID, remoteID uint32
}

// r1 -10- r2 -10- r3, r1 -30- r3 (TE 5), r3 -10- r4 over an unnumbered link.
func newTestTed() *table.LsTed {
	ted := table.NewLsTed(1)
	var elems []table.TedElem
	for i, id := range []string{"r1", "r2", "r3", "r4"} {
		n := table.NewLsNode(testAsn, id)
		n.RouterAddr = netip.AddrFrom4([4]byte{10, 255, 0, byte(i + 1)})
		elems = append(elems, n)
	}

	links := []testLink{
		{local: "r1", remote: "r2", localIP: "10.0.12.1", remoteIP: "10.0.12.2", igp: 10, te: 10, bandwidth: 1e9},
		{local: "r2", remote: "r1", localIP: "10.0.12.2", remoteIP: "10.0.12.1", igp: 10, te: 10, bandwidth: 1e9},
		{local: "r2", remote: "r3", localIP: "10.0.23.2", remoteIP: "10.0.23.3", igp: 10, te: 10, bandwidth: 1e9},
		{local: "r3", remote: "r2", localIP: "10.0.23.3", remoteIP: "10.0.23.2", igp: 10, te: 10, bandwidth: 1e9},
		{local: "r1", remote: "r3", localIP: "10.0.13.1", remoteIP: "10.0.13.3", igp: 30, te: 5, bandwidth: 1e6, adminGroup: 0x1},
		{local: "r3", remote: "r1", localIP: "10.0.13.3", remoteIP: "10.0.13.1", igp: 30, te: 5, bandwidth: 1e6, adminGroup: 0x1},
		{local: "r3", remote: "r4", igp: 10, te: 10, bandwidth: 1e9, localID: 7, remoteID: 8},
		{local: "r4", remote: "r3", igp: 10, te: 10, bandwidth: 1e9, localID: 8, remoteID: 7},
	}
	for _, l := range links {
		link := table.NewLsLink(table.NewLsNode(testAsn, l.local), table.NewLsNode(testAsn, l.remote))
		if l.localIP != "" {
			link.LocalIP = netip.MustParseAddr(l.localIP)
			link.RemoteIP = netip.MustParseAddr(l.remoteIP)
		}
		link.LocalID, link.RemoteID = l.localID, l.remoteID
		link.Metrics = []*table.Metric{table.NewMetric(table.IGP_METRIC, l.igp), table.NewMetric(table.TE_METRIC, l.te)}
		link.MaxBandwidth = l.bandwidth
		link.AdminGroup = l.adminGroup
		elems = append(elems, link)
	}
	ted.Update(elems)
	return ted
}

func TestCspf(t *testing.T) {
	tests := []struct {
		name        string
		src, dst    string
		metric      table.MetricType
		constraints Constraints
		hops        []string
		cost        uint32
		err         bool
	}{
		{
			name:   "IGP prefers two short hops",
			src:    "r1",
			dst:    "r3",
			metric: table.IGP_METRIC,
			hops:   []string{"10.0.12.2", "10.0.23.3"},
			cost:   20,
		},
		{
			name:   "TE prefers the direct link",
			src:    "r1",
			dst:    "r3",
			metric: table.TE_METRIC,
			hops:   []string{"10.0.13.3"},
			cost:   5,
		},
		{
			name:   "Hop count",
			src:    "r1",
			dst:    "r3",
			metric: table.HOPCOUNT_METRIC,
			hops:   []string{"10.0.13.3"},
			cost:   1,
		},
		{
			name:        "Bandwidth constraint prunes the direct link",
			src:         "r1",
			dst:         "r3",
			metric:      table.TE_METRIC,
			constraints: Constraints{MinBandwidth: 1e8},
			hops:        []string{"10.0.12.2", "10.0.23.3"},
			cost:        20,
		},
		{
			name:        "Admin group constraint prunes the direct link",
			src:         "r3",
			dst:         "r1",
			metric:      table.TE_METRIC,
			constraints: Constraints{ExcludeAny: 0x1},
			hops:        []string{"10.0.23.2", "10.0.12.1"},
			cost:        20,
		},
		{
			name:   "Source equals destination",
			src:    "r2",
			dst:    "r2",
			metric: table.IGP_METRIC,
			hops:   []string{},
		},
		{
			name:        "Unreachable under constraints",
			src:         "r1",
			dst:         "r3",
			metric:      table.IGP_METRIC,
			constraints: Constraints{MinBandwidth: 1e10},
			err:         true,
		},
		{
			name:   "Missing metric",
			src:    "r1",
			dst:    "r3",
			metric: table.DELAY_METRIC,
			err:    true,
		},
		{
			name:   "Unknown source",
			src:    "r9",
			dst:    "r3",
			metric: table.IGP_METRIC,
			err:    true,
		},
		{
			name:   "Unknown destination",
			src:    "r1",
			dst:    "r9",
			metric: table.IGP_METRIC,
			err:    true,
		},
	}

	ted := newTestTed()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path, err := Cspf(tt.src, tt.dst, testAsn, tt.metric, tt.constraints, ted)
			if tt.err {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)

			hops := []string{}
			for _, hop := range path.Hops() {
				hops = append(hops, hop.String())
			}
			assert.Equal(t, tt.hops, hops)
			assert.Equal(t, tt.cost, path.Cost)
		})
	}
}

func TestCspf_UnknownAS(t *testing.T) {
	_, err := Cspf("r1", "r3", 1, table.IGP_METRIC, Constraints{}, newTestTed())
	assert.EqualError(t, err, "AS 1 not found in TED")
}

func TestPath_ERO(t *testing.T) {
	path, err := Cspf("r2", "r4", testAsn, table.IGP_METRIC, Constraints{}, newTestTed())
	require.NoError(t, err)

	ero, err := path.ERO()
	require.NoError(t, err)
	assert.Equal(t, pcep.NewEROObject(
		pcep.NewIPv4PrefixSubobject(netip.MustParseAddr("10.0.23.3"), 32, false),
		pcep.NewUnnumberedSubobject(netip.MustParseAddr("10.255.0.4"), 8, false),
	), ero)
	assert.Equal(t, []netip.Addr{netip.MustParseAddr("10.255.0.4")}, ero.Hops()[1:])

	m := path.MetricObject()
	assert.Equal(t, pcep.MetricTypeIGP, m.MetricType)
	assert.Equal(t, uint32(20), m.MetricValue)
	assert.True(t, m.CFlag)
}

func TestPath_EROWithoutHopAddress(t *testing.T) {
	link := table.NewLsLink(table.NewLsNode(testAsn, "a"), table.NewLsNode(testAsn, "b"))
	path := &Path{Links: []*table.LsLink{link}}

	_, err := path.ERO()
	assert.Error(t, err)
}
