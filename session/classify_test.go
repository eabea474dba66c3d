package session

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/wzlphp/asin-ai/models"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		html string
		want models.PageStatus
	}{
		{
			name: "product content",
			html: `<html><body><span id="productTitle">Acme Electric Kettle</span></body></html>`,
			want: models.PageOK,
		},
		{
			name: "captcha interstitial",
			html: `<html><body><form action="/errors/validateCaptcha">Type the characters you see in this image</form></body></html>`,
			want: models.PageChallenge,
		},
		{
			name: "robot check",
			html: `<html><head><title>Robot Check</title></head><body></body></html>`,
			want: models.PageChallenge,
		},
		{
			name: "polite challenge wording",
			html: `<html><body>Sorry, we just need to make sure you're not a robot.</body></html>`,
			want: models.PageChallenge,
		},
		{
			name: "dead listing",
			html: `<html><body><h1>Looking for something?</h1>We couldn't find that page.</body></html>`,
			want: models.PageNotFound,
		},
		{
			name: "empty markup",
			html: "",
			want: models.PageOK,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.html))
		})
	}
}
