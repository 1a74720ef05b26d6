// Package ingest reads squad statistics exports (CSV or HTML table) into a
// dataset snapshot.
package ingest

import (
	"bytes"
	"crypto/sha256"
	"encoding/csv"
	"encoding/hex"
	"io"
	"math"
	"strings"

	crerr "github.com/cockroachdb/errors"

	"github.com/scoutlens/scoutlens/internal/domain/record"
	"github.com/scoutlens/scoutlens/internal/platform/logging"
	"github.com/scoutlens/scoutlens/internal/platform/numparse"
)

// Format selects the export reader.
type Format string

const (
	FormatAuto Format = ""
	FormatCSV  Format = "csv"
	FormatHTML Format = "html"
)

// Loader parses export payloads into datasets.
type Loader struct {
	logger *logging.Logger
}

func NewLoader(logger *logging.Logger) *Loader {
	if logger == nil {
		logger = logging.Default()
	}
	return &Loader{logger: logger}
}

// Load parses the payload in the given format, sniffing it when the format
// is empty, and returns the dataset snapshot with its content hash.
func (l *Loader) Load(data []byte, format Format) (record.Dataset, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return record.Dataset{}, crerr.New("empty payload")
	}

	if format == FormatAuto {
		format = sniff(data)
	}

	var (
		players []record.Player
		columns []string
		err     error
	)
	switch format {
	case FormatCSV:
		players, columns, err = l.readCSV(bytes.NewReader(data))
	case FormatHTML:
		players, columns, err = l.readHTML(bytes.NewReader(data))
	default:
		return record.Dataset{}, crerr.Newf("unsupported format %q", format)
	}
	if err != nil {
		return record.Dataset{}, err
	}
	if len(players) == 0 {
		return record.Dataset{}, crerr.New("no player rows in payload")
	}

	sum := sha256.Sum256(data)
	ds := record.Dataset{
		Players: players,
		Columns: columns,
		Hash:    hex.EncodeToString(sum[:8]),
		Source:  string(format),
	}
	l.logger.Info("dataset loaded",
		"format", string(format),
		"players", len(players),
		"columns", len(columns),
		"hash", ds.Hash,
	)
	return ds, nil
}

func sniff(data []byte) Format {
	head := strings.ToLower(string(data[:min(len(data), 2048)]))
	if strings.Contains(head, "<table") || strings.Contains(head, "<html") || strings.Contains(head, "<!doctype") {
		return FormatHTML
	}
	return FormatCSV
}

func (l *Loader) readCSV(r io.Reader) ([]record.Player, []string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, nil, crerr.Wrap(err, "read csv header")
	}
	columns := canonicalColumns(header)

	var players []record.Player
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, crerr.Wrapf(err, "read csv row %d", len(players)+2)
		}
		raw := make(map[string]string, len(header))
		for i, h := range header {
			if i < len(row) {
				raw[h] = row[i]
			}
		}
		players = append(players, record.New(raw))
	}
	return players, columns, nil
}

func canonicalColumns(header []string) []string {
	out := make([]string, 0, len(header))
	seen := make(map[string]bool, len(header))
	for _, h := range header {
		c := record.CanonicalHeader(h)
		if c == "" || seen[c] {
			continue
		}
		seen[c] = true
		out = append(out, c)
	}
	return out
}

func numericish(s string) bool {
	return !math.IsNaN(numparse.Numerify(s))
}
