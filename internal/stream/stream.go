package stream

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/olxcrawl/olxcrawl/internal/model"
)

// Stream format errors.
var (
	// ErrEmptyStream is returned by NewReader when the input has no
	// lines at all.
	ErrEmptyStream = errors.New("stream: empty input")

	// ErrMalformedHeader is returned by NewReader when the first line
	// is neither a URL nor a header of known field names.
	ErrMalformedHeader = errors.New("stream: first line is neither a field header nor an ad URL")
)

// Writer emits records as CSV. The header row is written before the
// first record; every record is flushed immediately.
type Writer struct {
	cw            *csv.Writer
	fields        []model.Field
	headerWritten bool
}

// NewWriter creates a Writer emitting the selected fields in canonical
// order.
func NewWriter(w io.Writer, selection model.Selection) *Writer {
	return &Writer{
		cw:     csv.NewWriter(w),
		fields: selection.Fields(),
	}
}

// Write emits one record. The header is emitted first when this is the
// first record.
func (w *Writer) Write(ad *model.Ad) error {
	if !w.headerWritten {
		if err := w.writeHeader(); err != nil {
			return err
		}
	}

	row := make([]string, len(w.fields))
	for i, f := range w.fields {
		row[i] = ad.Value(f)
	}
	if err := w.cw.Write(row); err != nil {
		return fmt.Errorf("write record: %w", err)
	}
	w.cw.Flush()
	return w.cw.Error()
}

// writeHeader emits the field-name header row.
func (w *Writer) writeHeader() error {
	header := make([]string, len(w.fields))
	for i, f := range w.fields {
		header[i] = string(f)
	}
	if err := w.cw.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	w.cw.Flush()
	w.headerWritten = true
	return w.cw.Error()
}

// Flush ensures the header exists even for a run that emitted no
// records, so a downstream command still sees a valid stream.
func (w *Writer) Flush() error {
	if !w.headerWritten {
		return w.writeHeader()
	}
	w.cw.Flush()
	return w.cw.Error()
}

// Reader yields seed records from a record stream or a bare URL list.
type Reader struct {
	csvReader *csv.Reader
	scanner   *bufio.Scanner
	fields    []model.Field
}

// NewReader creates a Reader over r, detecting the input shape from the
// first line: a header of known field names selects CSV mode, an
// http(s) URL selects URL mode. Anything else is ErrMalformedHeader.
func NewReader(r io.Reader) (*Reader, error) {
	br := bufio.NewReader(r)

	first, err := readLine(br)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrEmptyStream
		}
		return nil, fmt.Errorf("read stream: %w", err)
	}

	if isURLLine(first) {
		scanner := bufio.NewScanner(io.MultiReader(strings.NewReader(first+"\n"), br))
		return &Reader{scanner: scanner}, nil
	}

	fields, ok := parseHeader(first)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrMalformedHeader, first)
	}

	cr := csv.NewReader(br)
	cr.FieldsPerRecord = len(fields)
	return &Reader{csvReader: cr, fields: fields}, nil
}

// Fields returns the field selection carried by a CSV stream's header,
// or nil in URL mode.
func (r *Reader) Fields() []model.Field {
	return r.fields
}

// Selection returns the header fields as a Selection. In URL mode only
// the link is selected.
func (r *Reader) Selection() model.Selection {
	if r.fields == nil {
		return model.NewSelection(model.FieldLink)
	}
	return model.NewSelection(r.fields...)
}

// Read returns the next seed record, or io.EOF at the end of input.
// In URL mode, lines that are not http(s) URLs are skipped.
func (r *Reader) Read() (*model.Ad, error) {
	if r.scanner != nil {
		return r.readURL()
	}
	return r.readRow()
}

// readURL yields the next valid URL line.
func (r *Reader) readURL() (*model.Ad, error) {
	for r.scanner.Scan() {
		line := strings.TrimSpace(r.scanner.Text())
		if !isURLLine(line) {
			continue
		}
		return &model.Ad{Link: line}, nil
	}
	if err := r.scanner.Err(); err != nil {
		return nil, fmt.Errorf("read stream: %w", err)
	}
	return nil, io.EOF
}

// readRow yields the next CSV record.
func (r *Reader) readRow() (*model.Ad, error) {
	row, err := r.csvReader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, io.EOF
		}
		return nil, fmt.Errorf("read record: %w", err)
	}

	ad := &model.Ad{}
	for i, f := range r.fields {
		if err := ad.SetValue(f, row[i]); err != nil {
			return nil, fmt.Errorf("record field %q: %w", f, err)
		}
	}
	return ad, nil
}

// readLine reads one line without its trailing newline.
func readLine(br *bufio.Reader) (string, error) {
	line, err := br.ReadString('\n')
	if err != nil && (!errors.Is(err, io.EOF) || line == "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// isURLLine reports whether line looks like an ad URL.
func isURLLine(line string) bool {
	return strings.HasPrefix(line, "http://") || strings.HasPrefix(line, "https://")
}

// parseHeader parses a comma-separated header of field names. It
// reports false when any name is unknown.
func parseHeader(line string) ([]model.Field, bool) {
	names := strings.Split(line, ",")
	fields := make([]model.Field, 0, len(names))
	for _, name := range names {
		f, ok := model.ParseField(name)
		if !ok {
			return nil, false
		}
		fields = append(fields, f)
	}
	return fields, true
}
