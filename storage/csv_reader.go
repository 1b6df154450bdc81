package storage

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"prizm-segmenter/models"
	"prizm-segmenter/utils"
)

// headerToken marks the header line of a source file.
const headerToken = "StoreID"

const sourceFields = 4

const maxLineBytes = 1 << 20

// ParseError reports a source line that does not have the documented shape.
type ParseError struct {
	Path   string
	Line   int
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("csv: %s:%d: %s", e.Path, e.Line, e.Reason)
}

// SourceData is the parsed content of a source file.
type SourceData struct {
	Customers []*models.Customer
	// PostalCodes holds each distinct postal code once, in order of first appearance.
	PostalCodes []string
}

// ReadCustomers opens the source file at path and parses it.
func ReadCustomers(path string) (*SourceData, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("csv: open source: %w", err)
	}
	defer f.Close()

	return ParseCustomers(f, path)
}

// ParseCustomers reads store_id,customer_id,postal_code,total_visits rows
// from r. Fields are split on every comma; quotes carry no meaning and are
// kept as part of the value. Any line containing "StoreID" is a header and is
// skipped, as are blank lines. name is used in error messages only.
func ParseCustomers(r io.Reader, name string) (*SourceData, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	postal := utils.NewKeySet()
	data := &SourceData{Customers: make([]*models.Customer, 0)}

	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSuffix(sc.Text(), "\r")

		if strings.TrimSpace(text) == "" || strings.Contains(text, headerToken) {
			continue
		}

		rec := strings.Split(text, ",")
		if len(rec) != sourceFields {
			return nil, &ParseError{
				Path:   name,
				Line:   line,
				Reason: fmt.Sprintf("expected %d fields, got %d", sourceFields, len(rec)),
			}
		}

		storeID, err := strconv.Atoi(strings.TrimSpace(rec[0]))
		if err != nil {
			return nil, &ParseError{Path: name, Line: line, Reason: fmt.Sprintf("store id %q is not an integer", rec[0])}
		}
		visits, err := strconv.Atoi(strings.TrimSpace(rec[3]))
		if err != nil {
			return nil, &ParseError{Path: name, Line: line, Reason: fmt.Sprintf("total visits %q is not an integer", rec[3])}
		}

		c := &models.Customer{
			StoreID:     storeID,
			CustomerID:  rec[1],
			PostalCode:  rec[2],
			TotalVisits: visits,
		}
		data.Customers = append(data.Customers, c)
		postal.Add(c.PostalCode)
	}
	if err := sc.Err(); err != nil {
		if errors.Is(err, bufio.ErrTooLong) {
			return nil, &ParseError{Path: name, Line: line + 1, Reason: "line too long"}
		}
		return nil, fmt.Errorf("csv: read %s: %w", name, err)
	}

	data.PostalCodes = postal.Keys()
	return data, nil
}
