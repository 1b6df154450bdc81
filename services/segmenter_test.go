package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"prizm-segmenter/models"
)

func customers() []*models.Customer {
	return []*models.Customer{
		{StoreID: 1, CustomerID: "C1", PostalCode: "90210", TotalVisits: 5},
		{StoreID: 1, CustomerID: "C2", PostalCode: "90210", TotalVisits: 3},
		{StoreID: 2, CustomerID: "C3", PostalCode: "10001", TotalVisits: 7},
	}
}

func ids(cs []*models.Customer) []string {
	out := make([]string, 0, len(cs))
	for _, c := range cs {
		out = append(out, c.CustomerID)
	}
	return out
}

func TestPartitionScenario(t *testing.T) {
	seg := NewSegmenter(newTestLogger()).Partition(customers(), models.SegmentMap{"90210": 15, "10001": 40})

	assert.Equal(t, []string{"C1", "C2"}, ids(seg.BandA.Customers))
	assert.Equal(t, 8, seg.BandA.TotalVisits)
	assert.Equal(t, []string{"C3"}, ids(seg.BandB.Customers))
	assert.Equal(t, 7, seg.BandB.TotalVisits)
	assert.Equal(t, 15, seg.BandA.Customers[0].SegmentCode)
	assert.Equal(t, 40, seg.BandB.Customers[0].SegmentCode)
	assert.Zero(t, seg.Dropped())

	assert.Equal(t, BandATitle, seg.BandA.Title)
	assert.Equal(t, BandBTitle, seg.BandB.Title)
}

func TestPartitionBoundaries(t *testing.T) {
	tests := []struct {
		code  int
		bandA bool
		bandB bool
	}{
		{-3, false, false},
		{0, false, false},
		{1, true, false},
		{30, true, false},
		{31, false, true},
		{67, false, true},
		{68, false, false},
		{99, false, false},
	}

	for _, tt := range tests {
		cs := []*models.Customer{{CustomerID: "X", PostalCode: "P", TotalVisits: 2}}
		seg := NewSegmenter(newTestLogger()).Partition(cs, models.SegmentMap{"P": tt.code})

		assert.Equal(t, tt.bandA, len(seg.BandA.Customers) == 1, "code %d band A", tt.code)
		assert.Equal(t, tt.bandB, len(seg.BandB.Customers) == 1, "code %d band B", tt.code)
		if !tt.bandA && !tt.bandB {
			assert.Zero(t, seg.BandA.TotalVisits+seg.BandB.TotalVisits, "code %d", tt.code)
			assert.Equal(t, 1, seg.DroppedOutOfBand)
		}
	}
}

func TestPartitionUnresolvedAndNonResidential(t *testing.T) {
	cs := []*models.Customer{
		{CustomerID: "C1", PostalCode: "H0H0H0", TotalVisits: 4},
		{CustomerID: "C2", PostalCode: "00000", TotalVisits: 9},
		{CustomerID: "C3", PostalCode: "90210", TotalVisits: 1},
	}
	seg := NewSegmenter(newTestLogger()).Partition(cs, models.SegmentMap{"H0H0H0": 0, "90210": 2})

	assert.Equal(t, []string{"C3"}, ids(seg.BandA.Customers))
	assert.Equal(t, 1, seg.BandA.TotalVisits)
	assert.Empty(t, seg.BandB.Customers)
	assert.Zero(t, seg.BandB.TotalVisits)
	assert.Equal(t, 1, seg.DroppedUnresolved)
	assert.Equal(t, 1, seg.DroppedOutOfBand)
	assert.Zero(t, cs[1].SegmentCode)
}

// Every customer lands in at most one band, each band keeps input order and
// each total equals the sum over its band.
func TestPartitionInvariants(t *testing.T) {
	var cs []*models.Customer
	segments := models.SegmentMap{}
	for i := 0; i < 200; i++ {
		pc := string(rune('A' + i%26))
		segments[pc] = (i*7)%80 - 5
		cs = append(cs, &models.Customer{CustomerID: string(rune('a'+i%26)) + pc, PostalCode: pc, TotalVisits: i})
	}
	delete(segments, "Q")

	seg := NewSegmenter(newTestLogger()).Partition(cs, segments)

	seen := make(map[*models.Customer]int)
	for _, b := range []*models.Band{seg.BandA, seg.BandB} {
		sum, last := 0, -1
		for _, c := range b.Customers {
			seen[c]++
			sum += c.TotalVisits
			require.True(t, b.Contains(c.SegmentCode))

			idx := indexOf(cs, c)
			require.Greater(t, idx, last, "band order must follow input order")
			last = idx
		}
		assert.Equal(t, sum, b.TotalVisits)
	}
	for c, n := range seen {
		assert.Equal(t, 1, n, "customer %s placed %d times", c.CustomerID, n)
	}
	assert.Equal(t, len(cs), len(seen)+seg.Dropped())
}

func indexOf(cs []*models.Customer, target *models.Customer) int {
	for i, c := range cs {
		if c == target {
			return i
		}
	}
	return -1
}
