package ingest

import (
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	crerr "github.com/cockroachdb/errors"

	"github.com/scoutlens/scoutlens/internal/domain/record"
)

// readHTML extracts player rows from an HTML export. Exports often carry
// several tables (navigation, summaries), so each table is scored by how
// much tabular numeric data it holds and the best one wins.
func (l *Loader) readHTML(r io.Reader) ([]record.Player, []string, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, nil, crerr.Wrap(err, "parse html")
	}

	var (
		best      *goquery.Selection
		bestScore = -1.0
	)
	doc.Find("table").Each(func(_ int, tbl *goquery.Selection) {
		if s := tableScore(tbl); s > bestScore {
			bestScore = s
			best = tbl
		}
	})
	if best == nil {
		return nil, nil, crerr.New("no table element in html payload")
	}

	rows := best.Find("tr")
	if rows.Length() < 2 {
		return nil, nil, crerr.New("selected table has no data rows")
	}

	headerIdx := headerRowIndex(rows)
	header := cellTexts(rows.Eq(headerIdx))
	columns := canonicalColumns(header)

	var players []record.Player
	rows.Each(func(i int, row *goquery.Selection) {
		if i <= headerIdx {
			return
		}
		cells := cellTexts(row)
		if len(cells) == 0 {
			return
		}
		raw := make(map[string]string, len(header))
		for j, h := range header {
			if j < len(cells) {
				raw[h] = cells[j]
			}
		}
		players = append(players, record.New(raw))
	})
	return players, columns, nil
}

// tableScore favors wide tables dense with numeric cells and slightly
// penalizes sheer cell count so a huge layout table cannot outrank a
// compact stats table.
func tableScore(tbl *goquery.Selection) float64 {
	rows := tbl.Find("tr")
	if rows.Length() == 0 {
		return -1
	}
	cols := rows.Eq(0).Find("th, td").Length()
	cells := 0
	numeric := 0
	rows.Each(func(_ int, row *goquery.Selection) {
		row.Find("th, td").Each(func(_ int, cell *goquery.Selection) {
			cells++
			if numericish(strings.TrimSpace(cell.Text())) {
				numeric++
			}
		})
	})
	return float64(cols)*1000 + float64(numeric) - float64(cells)*0.05
}

// headerRowIndex returns the first row carrying th cells, or 0.
func headerRowIndex(rows *goquery.Selection) int {
	idx := 0
	found := false
	rows.EachWithBreak(func(i int, row *goquery.Selection) bool {
		if row.Find("th").Length() > 0 {
			idx = i
			found = true
			return false
		}
		return true
	})
	if !found {
		return 0
	}
	return idx
}

func cellTexts(row *goquery.Selection) []string {
	var out []string
	row.Find("th, td").Each(func(_ int, cell *goquery.Selection) {
		out = append(out, strings.TrimSpace(cell.Text()))
	})
	return out
}
