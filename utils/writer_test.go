package utils

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wzlphp/asin-ai/models"
)

func TestWriteJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "analysis.json")

	in := &models.Analysis{
		Target:    &models.Product{ASIN: "B0TARGET01", Marketplace: "us", Title: "Acme Kettle"},
		CreatedAt: time.Now().UTC(),
	}
	require.NoError(t, WriteJSON(path, in))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var out models.Analysis
	require.NoError(t, json.Unmarshal(data, &out))
	assert.Equal(t, "B0TARGET01", out.Target.ASIN)
	assert.Equal(t, "Acme Kettle", out.Target.Title)
}

func TestWriteRankingsCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rankings.csv")

	pos := 7
	rankings := []models.KeywordRanking{
		{Keyword: "electric kettle", Marketplace: "us", ASIN: "B0TARGET01", Position: &pos, Sponsored: true, ScanDepth: 3},
		{Keyword: "electric kettle", Marketplace: "us", ASIN: "B0PRODUCTA", Position: nil, ScanDepth: 3},
	}
	require.NoError(t, WriteRankingsCSV(path, rankings))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, []string{"keyword", "marketplace", "asin", "position", "sponsored", "scan_depth"}, rows[0])
	assert.Equal(t, []string{"electric kettle", "us", "B0TARGET01", "7", "true", "3"}, rows[1])
	// Not found within the scan depth: empty position cell.
	assert.Equal(t, []string{"electric kettle", "us", "B0PRODUCTA", "", "false", "3"}, rows[2])
}
