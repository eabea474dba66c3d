package utils

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"strconv"

	"github.com/wzlphp/asin-ai/models"
)

// WriteJSON writes one complete analysis to a file, indented for human
// inspection.
func WriteJSON(filename string, a *models.Analysis) error {
	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(a)
}

// WriteRankingsCSV writes keyword rankings as a flat CSV. An ASIN not
// found within the scan depth gets an empty position cell.
func WriteRankingsCSV(filename string, rankings []models.KeywordRanking) error {
	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write([]string{"keyword", "marketplace", "asin", "position", "sponsored", "scan_depth"}); err != nil {
		return err
	}
	for _, r := range rankings {
		position := ""
		if r.Position != nil {
			position = strconv.Itoa(*r.Position)
		}
		row := []string{
			r.Keyword,
			r.Marketplace,
			r.ASIN,
			position,
			strconv.FormatBool(r.Sponsored),
			strconv.Itoa(r.ScanDepth),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return w.Error()
}
