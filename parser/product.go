package parser

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/wzlphp/asin-ai/marketplace"
	"github.com/wzlphp/asin-ai/models"
)

var (
	titleStrategies = []fieldStrategy{
		text("product-title", "#productTitle"),
		text("title-span", "span#title"),
		text("h1-title", "h1#title span"),
	}

	brandStrategies = []fieldStrategy{
		text("byline", "#bylineInfo"),
		text("byline-link", "a#bylineInfo"),
		text("po-brand", "tr.po-brand td.a-span9 span"),
	}

	imageStrategies = []fieldStrategy{
		attrChain("landing-image", "#landingImage", "data-old-hires", "src"),
		attrChain("wrapper-image", "#imgTagWrapperId img", "data-old-hires", "src"),
		attrChain("main-image", "#main-image-container img", "src"),
		attrChain("image-block", "#imageBlock img", "src"),
	}

	// Ordered price sources; the non-struck buybox price first so a
	// strike-through list price never shadows the live one.
	priceStrategies = []fieldStrategy{
		text("offscreen-price", "span.a-price:not([data-a-strike]) span.a-offscreen"),
		text("our-price", "#priceblock_ourprice"),
		text("deal-price", "#priceblock_dealprice"),
		text("buybox-price", "#price_inside_buybox"),
		text("any-offscreen", "span.a-price span.a-offscreen"),
	}

	ratingStrategies = []fieldStrategy{
		text("rating-text", "span[data-hook='rating-out-of-text']"),
		text("rating-popover", "#acrPopover"),
		attrChain("rating-popover-title", "#acrPopover", "title"),
	}

	sellerStrategies = []fieldStrategy{
		text("merchant-info", "#merchant-info"),
		text("seller-profile", "#sellerProfileTriggerId"),
	}

	brandPrefixPattern = regexp.MustCompile(`^(Visit the |Brand:\s*)`)
	brandSuffixPattern = regexp.MustCompile(`\s*Store$`)
	bsrPattern         = regexp.MustCompile(`#([\d,]+)\s+in\s+([^(]+)`)
	dpLinkPattern      = regexp.MustCompile(`/dp/([A-Z0-9]{10})`)
)

const relatedASINCap = 20

// ParseProduct maps raw product-page markup into a Product snapshot.
// Every field tolerates markup drift independently: a field whose
// strategies all miss is set to its unknown sentinel and the rest of
// the parse proceeds. Identical input always yields an identical
// record; the caller stamps FetchedAt from the page it fetched.
func ParseProduct(raw, asin, marketplaceCode string) (*models.Product, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("parse product markup: %w", err)
	}

	expectedCurrency := ""
	if loc, lookupErr := marketplace.Lookup(marketplaceCode); lookupErr == nil {
		expectedCurrency = loc.Currency
	}

	p := &models.Product{
		ASIN:        strings.ToUpper(asin),
		Marketplace: marketplaceCode,
	}

	if title, ok := apply(doc, titleStrategies); ok {
		p.Title = title
	}

	if brand, ok := apply(doc, brandStrategies); ok {
		brand = brandPrefixPattern.ReplaceAllString(brand, "")
		brand = brandSuffixPattern.ReplaceAllString(brand, "")
		p.Brand = strings.TrimSpace(brand)
	}

	if image, ok := apply(doc, imageStrategies); ok {
		p.ImageURL = image
	}

	p.Price = parsePrice(doc, expectedCurrency)
	p.OriginalPrice, p.PromoPrice = parseStrikePrice(doc, p.Price, expectedCurrency)

	if ratingText, ok := apply(doc, ratingStrategies); ok {
		if rating, found := extractNumber(ratingText); found && rating <= 5 {
			p.Rating = rating
		}
	}

	p.ReviewCount = extractInt(doc.Find("#acrCustomerReviewText").First().Text())
	p.BestSellerRank, p.RankCategory = parseBestSellerRank(doc)
	p.CategoryPath = parseBreadcrumb(doc, p.RankCategory)
	p.BulletPoints = parseBullets(doc)
	p.VariantCount, p.VariantDimension = parseVariants(doc)
	p.Fulfillment = parseFulfillment(doc)
	p.StockStatus = parseStockStatus(doc)
	p.Coupon = strings.TrimSpace(doc.Find("#couponBadgeRegularVpc, #vpcButton").First().Text())

	if seller, ok := apply(doc, sellerStrategies); ok {
		p.Seller = seller
	}

	p.RelatedASINs = parseRelatedASINs(doc, p.ASIN)

	return p, nil
}

func parsePrice(doc *goquery.Document, expectedCurrency string) models.Price {
	priceText, ok := apply(doc, priceStrategies)
	if !ok {
		return models.Price{}
	}
	amount, found := extractNumber(priceText)
	if !found || amount <= 0 {
		return models.Price{}
	}
	return models.Price{
		Amount:   amount,
		Currency: detectCurrency(priceText, expectedCurrency),
		Known:    true,
	}
}

// parseStrikePrice splits a struck-through list price from the live
// one. Without a strike price both original and promo mirror the
// current price.
func parseStrikePrice(doc *goquery.Document, current models.Price, expectedCurrency string) (original, promo models.Price) {
	wasText := strings.TrimSpace(doc.Find("span.a-price[data-a-strike='true'] span.a-offscreen").First().Text())
	if wasText != "" && current.Known {
		if wasAmount, ok := extractNumber(wasText); ok && wasAmount > current.Amount {
			original = models.Price{
				Amount:   wasAmount,
				Currency: detectCurrency(wasText, expectedCurrency),
				Known:    true,
			}
			return original, current
		}
	}
	return current, current
}

func parseBestSellerRank(doc *goquery.Document) (int, string) {
	// Primary: the product-details table row labelled Best Sellers Rank.
	rank, category := 0, ""
	doc.Find("th").EachWithBreak(func(_ int, th *goquery.Selection) bool {
		if !strings.Contains(th.Text(), "Best Sellers Rank") {
			return true
		}
		if m := bsrPattern.FindStringSubmatch(th.Next().Text()); m != nil {
			rank = extractInt(m[1])
			category = strings.TrimSpace(m[2])
			return false
		}
		return true
	})
	if rank != 0 {
		return rank, category
	}

	// Fallback: the detail-bullets list layout.
	doc.Find("#detailBulletsWrapper_feature_div li, #SalesRank").EachWithBreak(func(_ int, li *goquery.Selection) bool {
		text := li.Text()
		if !strings.Contains(text, "Best Sellers Rank") {
			return true
		}
		if m := bsrPattern.FindStringSubmatch(text); m != nil {
			rank = extractInt(m[1])
			category = strings.TrimSpace(m[2])
			return false
		}
		return true
	})
	return rank, category
}

func parseBreadcrumb(doc *goquery.Document, fallback string) string {
	var crumbs []string
	doc.Find("#wayfinding-breadcrumbs_container a").Each(func(_ int, a *goquery.Selection) {
		if crumb := strings.TrimSpace(a.Text()); crumb != "" {
			crumbs = append(crumbs, crumb)
		}
	})
	if len(crumbs) == 0 {
		doc.Find(".a-breadcrumb a").Each(func(_ int, a *goquery.Selection) {
			if crumb := strings.TrimSpace(a.Text()); crumb != "" {
				crumbs = append(crumbs, crumb)
			}
		})
	}
	if len(crumbs) == 0 {
		return fallback
	}
	return strings.Join(crumbs, " > ")
}

func parseBullets(doc *goquery.Document) []string {
	var bullets []string
	doc.Find("#feature-bullets li span.a-list-item").Each(func(_ int, span *goquery.Selection) {
		if bullet := strings.TrimSpace(span.Text()); bullet != "" {
			bullets = append(bullets, bullet)
		}
	})
	return bullets
}

func parseVariants(doc *goquery.Document) (int, string) {
	options := doc.Find("#variation_size_name li, #variation_color_name li, #variation_style_name li")
	if options.Length() > 0 {
		label := strings.TrimSpace(doc.Find(
			"#variation_size_name .a-form-label, #variation_color_name .a-form-label, #variation_style_name .a-form-label",
		).First().Text())
		return options.Length(), strings.TrimSuffix(label, ":")
	}
	return doc.Find("#twister .a-button-text").Length(), ""
}

func parseFulfillment(doc *goquery.Document) string {
	shipsFrom := ""
	doc.Find("div.offer-display-feature-label").EachWithBreak(func(_ int, label *goquery.Selection) bool {
		if !strings.Contains(strings.ToLower(label.Text()), "ships from") {
			return true
		}
		value := label.NextFiltered("div.offer-display-feature-text")
		if first := value.Find("span.a-size-small").First(); first.Length() > 0 {
			shipsFrom = strings.TrimSpace(first.Text())
		} else {
			shipsFrom = strings.TrimSpace(value.Text())
		}
		return false
	})
	if shipsFrom == "" {
		shipsFrom = strings.TrimSpace(doc.Find("#fulfilledBy, #deliveryShortLine").First().Text())
	}
	if shipsFrom == "" {
		return "unknown"
	}
	if strings.Contains(strings.ToLower(shipsFrom), "amazon") {
		return "FBA"
	}
	return "FBM (" + shipsFrom + ")"
}

func parseStockStatus(doc *goquery.Document) string {
	availability := strings.TrimSpace(doc.Find("#availability span").First().Text())
	if availability == "" {
		return "unknown"
	}
	lower := strings.ToLower(availability)
	switch {
	case strings.Contains(lower, "in stock"):
		return "in-stock"
	case strings.Contains(lower, "only") && strings.Contains(lower, "left"):
		return "low-stock (" + availability + ")"
	case strings.Contains(lower, "unavailable") || strings.Contains(lower, "out of stock"):
		return "out-of-stock"
	}
	return availability
}

// parseRelatedASINs collects every distinct /dp/ reference on the page
// except the product's own, preserving the order the page surfaced
// them in. This is the primary competitor-discovery signal.
func parseRelatedASINs(doc *goquery.Document, selfASIN string) []string {
	seen := make(map[string]struct{})
	var related []string
	doc.Find("a[href*='/dp/']").EachWithBreak(func(_ int, a *goquery.Selection) bool {
		href, _ := a.Attr("href")
		m := dpLinkPattern.FindStringSubmatch(href)
		if m == nil || m[1] == selfASIN {
			return true
		}
		if _, dup := seen[m[1]]; dup {
			return true
		}
		seen[m[1]] = struct{}{}
		related = append(related, m[1])
		return len(related) < relatedASINCap
	})
	return related
}
