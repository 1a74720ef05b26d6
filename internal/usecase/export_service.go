package usecase

import (
	"context"
	"encoding/csv"
	"fmt"
	"strconv"

	"github.com/valyala/bytebufferpool"
)

// ExportCSV renders the ranked player listing for the scope as CSV. The
// scratch buffer is pooled; the returned slice is a copy the caller owns.
func (s *AnalysisService) ExportCSV(ctx context.Context, f Filter) ([]byte, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AnalysisService.ExportCSV")
	defer span.End()

	rows, err := s.Players(ctx, f)
	if err != nil {
		return nil, err
	}

	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	w := csv.NewWriter(buf)
	header := []string{"Name", "Club", "League", "Tier", "Position", "Age", "Minutes", "Best Role", "Best Score"}
	if err := w.Write(header); err != nil {
		return nil, fmt.Errorf("write csv header: %w", err)
	}
	for _, row := range rows {
		rec := []string{
			row.Name,
			row.Club,
			row.League,
			string(row.Tier),
			row.Position,
			strconv.FormatFloat(row.Age, 'f', -1, 64),
			strconv.FormatFloat(row.Minutes, 'f', -1, 64),
			row.BestRole,
			strconv.FormatFloat(row.BestScore, 'f', 1, 64),
		}
		if err := w.Write(rec); err != nil {
			return nil, fmt.Errorf("write csv row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}

	out := make([]byte, buf.Len())
	copy(out, buf.Bytes())

	return out, nil
}
