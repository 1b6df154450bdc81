package services

import (
	"context"
	"fmt"
	"sort"

	"prizm-segmenter/config"
	"prizm-segmenter/models"
	"prizm-segmenter/prizm"
	"prizm-segmenter/storage"
	"prizm-segmenter/utils"
)

// Summary describes a completed run.
type Summary struct {
	Customers        int
	DistinctPostal   int
	UnresolvedPostal []string
	Segmentation     *models.Segmentation
	TargetPath       string
}

// Pipeline wires reader, resolver, segmenter and report writer together.
type Pipeline struct {
	cfg       *config.Config
	logger    *utils.Logger
	resolver  *Resolver
	segmenter *Segmenter
	writer    storage.SegmentationWriter
}

// NewPipeline builds a Pipeline backed by the PRIZM HTTP client.
func NewPipeline(cfg *config.Config, logger *utils.Logger) *Pipeline {
	client := prizm.NewClient(cfg.ServiceBaseURL, cfg.LookupTimeout)
	return NewPipelineWith(cfg, logger, client, storage.NewReportWriter(cfg.TargetPath))
}

// NewPipelineWith builds a Pipeline around the given lookup and writer.
func NewPipelineWith(cfg *config.Config, logger *utils.Logger, lookup SegmentLookup, w storage.SegmentationWriter) *Pipeline {
	return &Pipeline{
		cfg:       cfg,
		logger:    logger,
		resolver:  NewResolver(lookup, logger, cfg.MaxConcurrency, cfg.RateLimitMs),
		segmenter: NewSegmenter(logger),
		writer:    w,
	}
}

// Run reads the source file, resolves segments, partitions customers and
// writes the report. Parse and I/O errors abort the run before the report is
// written; lookup failures only reduce what the report covers.
func (p *Pipeline) Run(ctx context.Context) (*Summary, error) {
	data, err := storage.ReadCustomers(p.cfg.SourcePath)
	if err != nil {
		return nil, err
	}
	p.logger.Info("[pipeline] Read %d customers, %d distinct postal codes from %s",
		len(data.Customers), len(data.PostalCodes), p.cfg.SourcePath)

	res := p.resolver.Resolve(ctx, data.PostalCodes)
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("pipeline: resolve interrupted: %w", err)
	}

	seg := p.segmenter.Partition(data.Customers, res.Segments)

	if err := p.writer.Write(seg); err != nil {
		return nil, err
	}

	unresolved := make([]string, 0, len(res.Failures))
	for pc := range res.Failures {
		unresolved = append(unresolved, pc)
	}
	sort.Strings(unresolved)

	if len(unresolved) > 0 {
		p.logger.Warn("[pipeline] %d of %d postal codes unresolved: %v",
			len(unresolved), len(data.PostalCodes), unresolved)
	}

	return &Summary{
		Customers:        len(data.Customers),
		DistinctPostal:   len(data.PostalCodes),
		UnresolvedPostal: unresolved,
		Segmentation:     seg,
		TargetPath:       p.cfg.TargetPath,
	}, nil
}
