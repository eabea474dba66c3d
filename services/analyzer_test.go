package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wzlphp/asin-ai/config"
	"github.com/wzlphp/asin-ai/logging"
	"github.com/wzlphp/asin-ai/models"
)

// pagedSource serves canned search pages keyed by page number; page
// errors simulate the wall going up mid-scan.
type pagedSource struct {
	pages    map[int][]models.SearchResultRow
	pageErrs map[int]error
}

func (s *pagedSource) Product(context.Context, string) (*models.Product, error) {
	return nil, models.ErrNotFound
}

func (s *pagedSource) Search(_ context.Context, _ string, page int) ([]models.SearchResultRow, error) {
	if err := s.pageErrs[page]; err != nil {
		return nil, err
	}
	return s.pages[page], nil
}

func testAnalyzer(t *testing.T) *Analyzer {
	t.Helper()
	cfg := config.Default()
	return NewAnalyzer(cfg, nil, nil, nil, logging.Nop())
}

func TestScanKeywordsOffsetsAcrossPages(t *testing.T) {
	src := &pagedSource{pages: map[int][]models.SearchResultRow{
		1: {
			{Position: 1, ASIN: "B0PRODUCTA"},
			{Position: 2, ASIN: "B0PRODUCTB"},
		},
		2: {
			{Position: 1, ASIN: "B0TARGET01", Sponsored: true},
		},
	}}
	a := testAnalyzer(t)

	target := &models.Product{ASIN: "B0TARGET01", Marketplace: "us"}
	competitors := []models.CompetitorCandidate{{ASIN: "B0PRODUCTB", Marketplace: "us"}}

	rankings := a.scanKeywords(context.Background(), src, []string{"electric kettle"}, target, competitors)
	require.Len(t, rankings, 2)

	// The target sat first on page two: global rank three.
	require.NotNil(t, rankings[0].Position)
	assert.Equal(t, "B0TARGET01", rankings[0].ASIN)
	assert.Equal(t, 3, *rankings[0].Position)
	assert.True(t, rankings[0].Sponsored)

	require.NotNil(t, rankings[1].Position)
	assert.Equal(t, "B0PRODUCTB", rankings[1].ASIN)
	assert.Equal(t, 2, *rankings[1].Position)
}

func TestScanKeywordsAbsentASINGetsNilPosition(t *testing.T) {
	src := &pagedSource{pages: map[int][]models.SearchResultRow{
		1: {{Position: 1, ASIN: "B0PRODUCTA"}},
	}}
	a := testAnalyzer(t)

	target := &models.Product{ASIN: "B0TARGET01", Marketplace: "us"}
	rankings := a.scanKeywords(context.Background(), src, []string{"electric kettle"}, target, nil)

	require.Len(t, rankings, 1)
	assert.Nil(t, rankings[0].Position)
	assert.Equal(t, a.cfg.Keywords.ScanPages, rankings[0].ScanDepth)
}

func TestScanKeywordsSkipsFailedKeyword(t *testing.T) {
	src := &pagedSource{
		pageErrs: map[int]error{1: errors.New("challenge wall")},
	}
	a := testAnalyzer(t)

	target := &models.Product{ASIN: "B0TARGET01", Marketplace: "us"}
	rankings := a.scanKeywords(context.Background(), src, []string{"electric kettle"}, target, nil)
	assert.Empty(t, rankings)
}

func TestCollectSearchPagesKeepsEarlierPagesOnDeepFailure(t *testing.T) {
	src := &pagedSource{
		pages:    map[int][]models.SearchResultRow{1: {{Position: 1, ASIN: "B0PRODUCTA"}}},
		pageErrs: map[int]error{2: errors.New("timeout")},
	}
	a := testAnalyzer(t)

	rows, err := a.collectSearchPages(context.Background(), src, "electric kettle", 3)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "B0PRODUCTA", rows[0].ASIN)
}

func TestCollectSearchPagesStopsOnEmptyPage(t *testing.T) {
	src := &pagedSource{pages: map[int][]models.SearchResultRow{
		1: {{Position: 1, ASIN: "B0PRODUCTA"}},
		3: {{Position: 1, ASIN: "B0PRODUCTB"}},
	}}
	a := testAnalyzer(t)

	rows, err := a.collectSearchPages(context.Background(), src, "electric kettle", 3)
	require.NoError(t, err)
	// Page two was empty, so page three is never visited.
	require.Len(t, rows, 1)
}

func TestStatusError(t *testing.T) {
	assert.NoError(t, statusError(models.PageOK))
	assert.True(t, errors.Is(statusError(models.PageChallenge), models.ErrChallengeDetected))
	assert.True(t, errors.Is(statusError(models.PageNotFound), models.ErrNotFound))
}
