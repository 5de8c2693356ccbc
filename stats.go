package blobviz

import (
	"math"
	"slices"

	"deedles.dev/blobviz/layout"
	"gonum.org/v1/gonum/stat"
)

// ChannelStats summarizes the decoded values of one channel. NaN
// values are not counted.
type ChannelStats struct {
	Role    layout.Role
	Channel layout.Channel

	Count      int
	Min, Max   float64
	Mean       float64
	StdDev     float64
	Degenerate bool
}

// Stats summarizes each channel of the decode in layout order.
func (d *Decoded) Stats() []ChannelStats {
	stats := make([]ChannelStats, 0, d.layout.Len())
	for r, dec := range d.active() {
		role := layout.Role(r)
		c, _ := d.layout.Channel(role)

		s := ChannelStats{
			Role:       role,
			Channel:    c,
			Degenerate: dec.Degenerate(),
		}

		vals := slices.DeleteFunc(dec.Values(), math.IsNaN)
		s.Count = len(vals)
		if s.Count > 0 {
			s.Min, s.Max = dec.Range()
			s.Mean, s.StdDev = stat.MeanStdDev(vals, nil)
		}
		if s.Count < 2 {
			s.StdDev = 0
		}

		stats = append(stats, s)
	}
	return stats
}
