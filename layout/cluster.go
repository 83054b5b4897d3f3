package layout

import "sort"

// HeightCluster is a rounded line height with the sequence numbers of
// every line that has it
type HeightCluster struct {
	Height    float64
	Sequences []int
}

// HeightIndex groups lines by height. Clusters keep first-seen order.
type HeightIndex struct {
	clusters []HeightCluster
	index    map[float64]int
}

// NewHeightIndex creates an empty index
func NewHeightIndex() *HeightIndex {
	return &HeightIndex{index: make(map[float64]int)}
}

// Add records that the line with sequence number seq has the given height
func (h *HeightIndex) Add(height float64, seq int) {
	if i, ok := h.index[height]; ok {
		h.clusters[i].Sequences = append(h.clusters[i].Sequences, seq)
		return
	}
	h.index[height] = len(h.clusters)
	h.clusters = append(h.clusters, HeightCluster{Height: height, Sequences: []int{seq}})
}

// Len returns the number of distinct heights
func (h *HeightIndex) Len() int {
	if h == nil {
		return 0
	}
	return len(h.clusters)
}

// Clusters returns the clusters in first-seen order
func (h *HeightIndex) Clusters() []HeightCluster {
	if h == nil {
		return nil
	}
	return h.clusters
}

// Sequences returns the sequence numbers of lines with the given height
func (h *HeightIndex) Sequences(height float64) []int {
	if h == nil {
		return nil
	}
	if i, ok := h.index[height]; ok {
		return h.clusters[i].Sequences
	}
	return nil
}

// Tier pairs a header height with the body height below it
type Tier struct {
	Header float64
	Body   float64
}

// HeaderTiers derives header/body tiers from an index. Heights used by a
// single line are noise. The rest are sorted from tallest to shortest and
// each is paired with the next one; the shortest is left as body only.
func HeaderTiers(h *HeightIndex) []Tier {
	var heights []float64
	for _, c := range h.Clusters() {
		if len(c.Sequences) > 1 {
			heights = append(heights, c.Height)
		}
	}
	sort.Sort(sort.Reverse(sort.Float64Slice(heights)))

	var tiers []Tier
	for i := 0; i+1 < len(heights); i++ {
		tiers = append(tiers, Tier{Header: heights[i], Body: heights[i+1]})
	}
	return tiers
}

// TierMap returns tiers as a header-height to body-height map
func TierMap(tiers []Tier) map[float64]float64 {
	m := make(map[float64]float64, len(tiers))
	for _, t := range tiers {
		m[t.Header] = t.Body
	}
	return m
}
