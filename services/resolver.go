package services

import (
	"context"
	"fmt"

	"prizm-segmenter/models"
	"prizm-segmenter/prizm"
	"prizm-segmenter/utils"
)

// SegmentLookup fetches the segment for a single postal code.
type SegmentLookup interface {
	GetSegment(ctx context.Context, postalCode string) (prizm.Response, error)
}

// Resolution is the result of resolving a batch of postal codes.
type Resolution struct {
	Segments models.SegmentMap
	// Failures holds the reason for every postal code left out of Segments.
	Failures map[string]error
	// NonResidential counts postal codes resolved to the non-residential code.
	NonResidential int
}

// Resolver builds the postal code to segment mapping, one lookup per code.
type Resolver struct {
	lookup SegmentLookup
	logger *utils.Logger

	maxConcurrency int
	rateLimitMs    int
}

// NewResolver creates a Resolver. maxConcurrency 1 issues lookups one at a time.
func NewResolver(lookup SegmentLookup, logger *utils.Logger, maxConcurrency, rateLimitMs int) *Resolver {
	return &Resolver{
		lookup:         lookup,
		logger:         logger,
		maxConcurrency: maxConcurrency,
		rateLimitMs:    rateLimitMs,
	}
}

type lookupResult struct {
	postalCode string
	resp       prizm.Response
	err        error
}

// Resolve looks up every postal code once. A failed lookup only drops its own
// postal code from the mapping. If ctx is canceled, codes not yet dispatched
// are recorded as failures.
func (r *Resolver) Resolve(ctx context.Context, postalCodes []string) *Resolution {
	r.logger.Info("[resolver] Resolving %d distinct postal codes (concurrency %d)",
		len(postalCodes), r.maxConcurrency)

	// each task owns one slot, so no locking is needed
	results := make([]lookupResult, len(postalCodes))
	pool := utils.NewWorkerPool(r.maxConcurrency, r.rateLimitMs)

	for i, pc := range postalCodes {
		i, pc := i, pc
		results[i].postalCode = pc
		ok := pool.Submit(ctx, func() {
			results[i].resp, results[i].err = r.lookup.GetSegment(ctx, pc)
		})
		if !ok {
			results[i].err = fmt.Errorf("lookup %q not attempted: %w", pc, ctx.Err())
		}
	}
	pool.Wait()

	res := &Resolution{
		Segments: make(models.SegmentMap, len(postalCodes)),
		Failures: make(map[string]error),
	}
	for _, lr := range results {
		if lr.err != nil {
			r.logger.Warn("[resolver] %v", lr.err)
			res.Failures[lr.postalCode] = lr.err
			continue
		}
		code, ok := lr.resp.Code()
		if !ok {
			err := fmt.Errorf("lookup %q: %s", lr.postalCode, lr.resp.Reason)
			r.logger.Warn("[resolver] %v", err)
			res.Failures[lr.postalCode] = err
			continue
		}
		if lr.resp.Kind == prizm.NonResidential {
			res.NonResidential++
		}
		r.logger.Debug("[resolver] %s -> %d (%s)", lr.postalCode, code, lr.resp.Kind)
		res.Segments[lr.postalCode] = code
	}

	r.logger.Info("[resolver] Resolved %d/%d postal codes (%d non-residential, %d unresolved)",
		len(res.Segments), len(postalCodes), res.NonResidential, len(res.Failures))
	return res
}
