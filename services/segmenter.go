package services

import (
	"prizm-segmenter/models"
	"prizm-segmenter/utils"
)

// Target band bounds, inclusive.
const (
	BandALow  = 1
	BandAHigh = 30
	BandBLow  = 31
	BandBHigh = 67
)

// Section titles as they appear in the report. The second title reads 30-67
// even though the band starts at 31; downstream consumers match on it.
const (
	BandATitle = "Segment Code: 1-30"
	BandBTitle = "Segment Code: 30-67"
)

// Segmenter assigns segment codes to customers and splits them into the two
// target bands.
type Segmenter struct {
	logger *utils.Logger
}

func NewSegmenter(logger *utils.Logger) *Segmenter {
	return &Segmenter{logger: logger}
}

// Partition sets each customer's SegmentCode from segments (0 when the postal
// code is missing) and places it in band A or band B, keeping input order.
// Customers whose code falls in neither band are left out of both bands and
// both totals.
func (s *Segmenter) Partition(customers []*models.Customer, segments models.SegmentMap) *models.Segmentation {
	seg := &models.Segmentation{
		BandA: &models.Band{Title: BandATitle, Low: BandALow, High: BandAHigh},
		BandB: &models.Band{Title: BandBTitle, Low: BandBLow, High: BandBHigh},
	}

	for _, c := range customers {
		code, known := segments[c.PostalCode]
		c.SegmentCode = code

		switch {
		case seg.BandA.Contains(code):
			seg.BandA.Add(c)
		case seg.BandB.Contains(code):
			seg.BandB.Add(c)
		case !known:
			seg.DroppedUnresolved++
			s.logger.Debug("[segmenter] Customer %s dropped: postal code %s unresolved", c.CustomerID, c.PostalCode)
		default:
			seg.DroppedOutOfBand++
			s.logger.Debug("[segmenter] Customer %s dropped: segment code %d outside both bands", c.CustomerID, code)
		}
	}

	s.logger.Info("[segmenter] Band A: %d customers, %d visits | Band B: %d customers, %d visits",
		len(seg.BandA.Customers), seg.BandA.TotalVisits, len(seg.BandB.Customers), seg.BandB.TotalVisits)
	if seg.Dropped() > 0 {
		s.logger.Warn("[segmenter] %d customers in neither band (%d unresolved postal code, %d out of band)",
			seg.Dropped(), seg.DroppedUnresolved, seg.DroppedOutOfBand)
	}
	return seg
}
