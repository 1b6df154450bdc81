package models

// Customer is one row of the source file. SegmentCode stays zero until the
// segmenter assigns it.
type Customer struct {
	StoreID     int
	CustomerID  string
	PostalCode  string
	TotalVisits int
	SegmentCode int
}

// SegmentMap maps a postal code to its resolved PRIZM segment code.
// A missing key means the lookup for that postal code failed.
type SegmentMap map[string]int

// Band is a contiguous, inclusive range of segment codes together with the
// customers that fell into it.
type Band struct {
	Title       string
	Low         int
	High        int
	Customers   []*Customer
	TotalVisits int
}

// Contains reports whether code lies within the band's range.
func (b *Band) Contains(code int) bool {
	return code >= b.Low && code <= b.High
}

// Add appends c to the band and accumulates its visits.
func (b *Band) Add(c *Customer) {
	b.Customers = append(b.Customers, c)
	b.TotalVisits += c.TotalVisits
}

// Segmentation is the outcome of partitioning customers into the two target
// bands. Customers outside both bands are only counted.
type Segmentation struct {
	BandA *Band
	BandB *Band

	// DroppedUnresolved counts customers whose postal code has no segment.
	DroppedUnresolved int
	// DroppedOutOfBand counts customers whose code is known but outside both bands.
	DroppedOutOfBand int
}

// Dropped returns the number of customers placed in neither band.
func (s *Segmentation) Dropped() int {
	return s.DroppedUnresolved + s.DroppedOutOfBand
}
