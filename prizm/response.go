package prizm

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Format values returned by the get_segment endpoint.
const (
	FormatUnique               = "unique"
	FormatMulti                = "multi"
	FormatNonResidentialZoning = "non_residential_zoning"
	NonResidentialCode         = 0
)

// Kind tags the shape of a get_segment response.
type Kind int

const (
	Unrecognized Kind = iota
	Unique
	Multi
	NonResidential
)

func (k Kind) String() string {
	switch k {
	case Unique:
		return "unique"
	case Multi:
		return "multi"
	case NonResidential:
		return "non-residential"
	default:
		return "unrecognized"
	}
}

// Response is a classified get_segment payload. SegmentCode is meaningful
// for Unique and Multi; Reason explains an Unrecognized payload.
type Response struct {
	Kind        Kind
	SegmentCode int
	Reason      string
}

// Code returns the segment code to record for the postal code, or false
// when the payload carries no usable segment.
func (r Response) Code() (int, bool) {
	switch r.Kind {
	case Unique, Multi:
		return r.SegmentCode, true
	case NonResidential:
		return NonResidentialCode, true
	default:
		return 0, false
	}
}

type envelope struct {
	Format string          `json:"format"`
	Data   json.RawMessage `json:"data"`
}

type candidate struct {
	PrizmID json.RawMessage `json:"prizm_id"`
}

// Classify decodes a get_segment body into a Response. It fails only when
// body is not a JSON object; any other unexpected shape yields Unrecognized.
func Classify(body []byte) (Response, error) {
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return Response{}, fmt.Errorf("decode response: %w", err)
	}

	switch env.Format {
	case FormatMulti:
		var list []candidate
		if err := json.Unmarshal(env.Data, &list); err != nil {
			return unrecognized("multi data is not a list: %v", err), nil
		}
		if len(list) == 0 {
			return unrecognized("multi data is empty"), nil
		}
		code, err := parseSegmentID(list[0].PrizmID)
		if err != nil {
			return unrecognized("multi prizm_id: %v", err), nil
		}
		return Response{Kind: Multi, SegmentCode: code}, nil

	case FormatUnique:
		code, err := parseSegmentID(env.Data)
		if err != nil {
			return unrecognized("unique data: %v", err), nil
		}
		return Response{Kind: Unique, SegmentCode: code}, nil

	case FormatNonResidentialZoning:
		return Response{Kind: NonResidential, SegmentCode: NonResidentialCode}, nil

	default:
		return unrecognized("unknown format %q", env.Format), nil
	}
}

func unrecognized(format string, args ...any) Response {
	return Response{Kind: Unrecognized, Reason: fmt.Sprintf(format, args...)}
}

// parseSegmentID accepts a JSON integer or a string holding one.
func parseSegmentID(raw json.RawMessage) (int, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return 0, fmt.Errorf("missing segment id")
	}

	var s string
	if raw[0] == '"' {
		if err := json.Unmarshal(raw, &s); err != nil {
			return 0, err
		}
	} else {
		s = string(raw)
	}

	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("segment id %s is not an integer", raw)
	}
	return n, nil
}
