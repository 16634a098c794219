// Package importer loads DBLP-style XML dumps into the publication store.
//
// A dump is a sequence of <pub> records without a document root:
//
//	<pub>
//	  <ID>1</ID><title>...</title><year>1970</year>
//	  <booktitle>...</booktitle><pages>377-387</pages>
//	  <authors><author>E. F. Codd</author></authors>
//	</pub>
package importer

import (
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"publications-backend/internal/domains/publication/model"
	"publications-backend/pkg/logger"
)

// Record is one <pub> element as it appears in the dump.
type Record struct {
	ID        string   `xml:"ID"`
	Title     string   `xml:"title"`
	Year      string   `xml:"year"`
	BookTitle string   `xml:"booktitle"`
	Pages     string   `xml:"pages"`
	Authors   []string `xml:"authors>author"`
}

// ToRequest converts the record into an add request. BookTitle becomes the journal.
func (r Record) ToRequest() (model.AddPublicationRequest, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(r.ID), 10, 64)
	if err != nil {
		return model.AddPublicationRequest{}, fmt.Errorf("invalid ID %q: %w", r.ID, err)
	}

	req := model.AddPublicationRequest{
		ID:      model.Number(id),
		Title:   strings.TrimSpace(r.Title),
		Journal: strings.TrimSpace(r.BookTitle),
		Pages:   strings.TrimSpace(r.Pages),
	}

	if year := strings.TrimSpace(r.Year); year != "" {
		y, err := strconv.Atoi(year)
		if err != nil {
			return model.AddPublicationRequest{}, fmt.Errorf("publication %d: invalid year %q: %w", id, r.Year, err)
		}
		req.Year = model.Number(y)
	}

	for _, a := range r.Authors {
		if a = strings.TrimSpace(a); a != "" {
			req.Authors = append(req.Authors, a)
		}
	}

	return req, req.Validate()
}

// Decode streams <pub> records from r and calls fn for each one. A malformed record
// is passed to fn as a decode error and the scan continues.
func Decode(r io.Reader, fn func(Record, error) error) error {
	wrapped := io.MultiReader(strings.NewReader("<root>"), r, strings.NewReader("</root>"))

	dec := xml.NewDecoder(wrapped)
	dec.Strict = false
	dec.AutoClose = xml.HTMLAutoClose
	dec.Entity = xml.HTMLEntity

	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("read xml: %w", err)
		}

		start, ok := tok.(xml.StartElement)
		if !ok || start.Name.Local != "pub" {
			continue
		}

		var rec Record
		decodeErr := dec.DecodeElement(&rec, &start)
		if err := fn(rec, decodeErr); err != nil {
			return err
		}
	}
}

// Adder is the write path used for every imported record.
type Adder interface {
	Add(ctx context.Context, req model.AddPublicationRequest) (*model.AddResult, error)
}

type Options struct {
	// SkipExisting counts duplicate ids as skipped instead of stopping the import.
	SkipExisting bool
	// DryRun decodes and validates without writing.
	DryRun bool
}

// maxReportedFailures caps Report.Failures; Failed keeps counting past it.
const maxReportedFailures = 100

// Failure explains why one record was not loaded.
type Failure struct {
	ID     string `json:"id"`
	Reason string `json:"reason"`
}

type Report struct {
	Imported int       `json:"imported"`
	Skipped  int       `json:"skipped"`
	Failed   int       `json:"failed"`
	Failures []Failure `json:"failures,omitempty"`
}

func (r *Report) fail(id string, err error) {
	r.Failed++
	if len(r.Failures) < maxReportedFailures {
		r.Failures = append(r.Failures, Failure{ID: strings.TrimSpace(id), Reason: err.Error()})
	}
}

type Importer struct {
	adder Adder
	opts  Options
}

// New returns an importer. adder may be nil for dry runs.
func New(adder Adder, opts Options) *Importer {
	return &Importer{adder: adder, opts: opts}
}

// Run imports every record in r. Invalid records are counted as failed and skipped;
// storage errors and duplicates (without SkipExisting) stop the import.
func (im *Importer) Run(ctx context.Context, r io.Reader) (Report, error) {
	log := logger.Component("importer")

	if !im.opts.DryRun && im.adder == nil {
		return Report{}, errors.New("importer: no writer configured")
	}

	var report Report
	err := Decode(r, func(rec Record, decodeErr error) error {
		if err := ctx.Err(); err != nil {
			return err
		}

		if decodeErr != nil {
			report.fail(rec.ID, decodeErr)
			log.Warn().Err(decodeErr).Msg("Skipping malformed record")
			return nil
		}

		req, err := rec.ToRequest()
		if err != nil {
			report.fail(rec.ID, err)
			log.Warn().Err(err).Str("id", rec.ID).Msg("Skipping invalid record")
			return nil
		}

		if im.opts.DryRun {
			report.Imported++
			return nil
		}

		_, err = im.adder.Add(ctx, req)
		switch {
		case err == nil:
			report.Imported++
			return nil
		case errors.Is(err, model.ErrDuplicateID) && im.opts.SkipExisting:
			report.Skipped++
			log.Debug().Int64("pub_id", req.ID.Int64()).Msg("Publication exists, skipped")
			return nil
		default:
			return fmt.Errorf("import publication %d: %w", req.ID.Int64(), err)
		}
	})

	log.Info().
		Int("imported", report.Imported).
		Int("skipped", report.Skipped).
		Int("failed", report.Failed).
		Bool("dry_run", im.opts.DryRun).
		Msg("Import finished")

	return report, err
}
