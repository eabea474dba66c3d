package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wzlphp/asin-ai/models"
)

const productPage = `
<html><body>
  <div id="wayfinding-breadcrumbs_container">
    <a>Home &amp; Kitchen</a>
    <a>Kitchen &amp; Dining</a>
    <a>Electric Kettles</a>
  </div>
  <span id="productTitle"> Acme Electric Kettle 1.7L Stainless Steel </span>
  <a id="bylineInfo">Visit the Acme Store</a>
  <div id="imgTagWrapperId">
    <img id="landingImage" data-old-hires="https://img.example/kettle-hires.jpg" src="https://img.example/kettle.jpg"/>
  </div>
  <span class="a-price"><span class="a-offscreen">$24.99</span></span>
  <span class="a-price" data-a-strike="true"><span class="a-offscreen">$34.99</span></span>
  <span id="acrPopover" title="4.6 out of 5 stars">4.6 out of 5 stars</span>
  <span id="acrCustomerReviewText">1,234 ratings</span>
  <div id="availability"><span> In Stock </span></div>
  <div id="variation_color_name">
    <div class="a-form-label">Color:</div>
    <ul><li>Black</li><li>White</li></ul>
  </div>
  <div id="feature-bullets">
    <ul>
      <li><span class="a-list-item">Boils a full litre in under three minutes</span></li>
      <li><span class="a-list-item">Auto shut-off with boil-dry protection</span></li>
    </ul>
  </div>
  <div class="offer-display-feature-label">Ships from</div>
  <div class="offer-display-feature-text"><span class="a-size-small">Amazon.com</span></div>
  <div id="merchant-info">Acme Appliances</div>
  <table>
    <tr>
      <th>Best Sellers Rank</th>
      <td>#2,345 in Kitchen &amp; Dining (See Top 100 in Kitchen &amp; Dining)</td>
    </tr>
  </table>
  <a href="/dp/B0RELATED1/ref=sspa_dk_1">Also viewed 1</a>
  <a href="/dp/B0RELATED2?th=1">Also viewed 2</a>
  <a href="/dp/B0RELATED1">Duplicate reference</a>
  <a href="/dp/B0TARGET01">Self reference</a>
</body></html>`

func TestParseProduct(t *testing.T) {
	p, err := ParseProduct(productPage, "b0target01", "us")
	require.NoError(t, err)

	assert.Equal(t, "B0TARGET01", p.ASIN)
	assert.Equal(t, "us", p.Marketplace)
	assert.Equal(t, "Acme Electric Kettle 1.7L Stainless Steel", p.Title)
	assert.Equal(t, "Acme", p.Brand)
	assert.Equal(t, "https://img.example/kettle-hires.jpg", p.ImageURL)

	assert.Equal(t, models.Price{Amount: 24.99, Currency: "USD", Known: true}, p.Price)
	assert.Equal(t, models.Price{Amount: 34.99, Currency: "USD", Known: true}, p.OriginalPrice)
	assert.Equal(t, models.Price{Amount: 24.99, Currency: "USD", Known: true}, p.PromoPrice)

	assert.Equal(t, 4.6, p.Rating)
	assert.Equal(t, 1234, p.ReviewCount)
	assert.Equal(t, 2345, p.BestSellerRank)
	assert.Equal(t, "Kitchen & Dining", p.RankCategory)
	assert.Equal(t, "Home & Kitchen > Kitchen & Dining > Electric Kettles", p.CategoryPath)

	assert.Equal(t, []string{
		"Boils a full litre in under three minutes",
		"Auto shut-off with boil-dry protection",
	}, p.BulletPoints)

	assert.Equal(t, 2, p.VariantCount)
	assert.Equal(t, "Color", p.VariantDimension)
	assert.Equal(t, "FBA", p.Fulfillment)
	assert.Equal(t, "in-stock", p.StockStatus)
	assert.Equal(t, "Acme Appliances", p.Seller)

	// Order preserved, duplicates and the product itself dropped.
	assert.Equal(t, []string{"B0RELATED1", "B0RELATED2"}, p.RelatedASINs)

	// The caller stamps the fetch time from the page it fetched.
	assert.True(t, p.FetchedAt.IsZero())
}

func TestParseProductIdempotent(t *testing.T) {
	first, err := ParseProduct(productPage, "B0TARGET01", "us")
	require.NoError(t, err)
	second, err := ParseProduct(productPage, "B0TARGET01", "us")
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestParseProductPartialPage(t *testing.T) {
	// A page where only the title strategy matches must still yield a
	// valid record with every other field at its unknown sentinel.
	p, err := ParseProduct(`<html><body><span id="productTitle">Bare Listing</span></body></html>`,
		"B0TARGET01", "us")
	require.NoError(t, err)

	assert.Equal(t, "Bare Listing", p.Title)
	assert.False(t, p.Price.Known)
	assert.False(t, p.OriginalPrice.Known)
	assert.Equal(t, models.RankUnknown, p.BestSellerRank)
	assert.Equal(t, models.RatingUnknown, p.Rating)
	assert.Zero(t, p.ReviewCount)
	assert.Empty(t, p.RelatedASINs)
	assert.Equal(t, "unknown", p.Fulfillment)
	assert.Equal(t, "unknown", p.StockStatus)
}

func TestParseProductForeignCurrency(t *testing.T) {
	// The serving infrastructure sometimes answers in a currency other
	// than the marketplace's own; the observed symbol wins.
	page := `<html><body>
		<span id="productTitle">Kettle</span>
		<span class="a-price"><span class="a-offscreen">£19.99</span></span>
	</body></html>`
	p, err := ParseProduct(page, "B0TARGET01", "us")
	require.NoError(t, err)
	assert.Equal(t, models.Price{Amount: 19.99, Currency: "GBP", Known: true}, p.Price)
}

func TestParseProductNoStrikePrice(t *testing.T) {
	page := `<html><body>
		<span id="productTitle">Kettle</span>
		<span class="a-price"><span class="a-offscreen">$24.99</span></span>
	</body></html>`
	p, err := ParseProduct(page, "B0TARGET01", "us")
	require.NoError(t, err)
	// Without a struck list price both mirror the live one.
	assert.Equal(t, p.Price, p.OriginalPrice)
	assert.Equal(t, p.Price, p.PromoPrice)
}

func TestParseProductDetailBulletsRank(t *testing.T) {
	page := `<html><body>
		<span id="productTitle">Kettle</span>
		<div id="detailBulletsWrapper_feature_div">
			<ul><li>Best Sellers Rank: #512 in Kitchen (See Top 100)</li></ul>
		</div>
	</body></html>`
	p, err := ParseProduct(page, "B0TARGET01", "us")
	require.NoError(t, err)
	assert.Equal(t, 512, p.BestSellerRank)
	assert.Equal(t, "Kitchen", p.RankCategory)
}

func TestExtractNumber(t *testing.T) {
	tests := []struct {
		in    string
		want  float64
		found bool
	}{
		{"4.5 out of 5 stars", 4.5, true},
		{"$1,299.99", 1299.99, true},
		{"£19.99", 19.99, true},
		{"no digits here", 0, false},
		{"", 0, false},
	}
	for _, tt := range tests {
		got, found := extractNumber(tt.in)
		assert.Equal(t, tt.found, found, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestExtractInt(t *testing.T) {
	assert.Equal(t, 12345, extractInt("12,345 ratings"))
	assert.Equal(t, 7, extractInt("7"))
	assert.Equal(t, 0, extractInt("none"))
}

func TestDetectCurrency(t *testing.T) {
	assert.Equal(t, "GBP", detectCurrency("£9.99", "USD"))
	assert.Equal(t, "JPY", detectCurrency("￥1,980", "JPY"))
	assert.Equal(t, "EUR", detectCurrency("€12,99", "EUR"))
	assert.Equal(t, "USD", detectCurrency("$5.00", "GBP"))
	assert.Equal(t, "USD", detectCurrency("19.99", "USD"))
}
