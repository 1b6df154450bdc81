package storage

import "prizm-segmenter/models"

// SegmentationWriter is the interface any report backend must satisfy.
type SegmentationWriter interface {
	Write(seg *models.Segmentation) error
}
