package workflow

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/Veraticus/savemoney/internal/model"
	"github.com/Veraticus/savemoney/internal/stt"
)

// FuzzProcess checks the guarantees Process makes for any input: a valid
// category, a description, a calendar date and a bounded confidence.
func FuzzProcess(f *testing.F) {
	for _, u := range stt.SampleUtterances {
		f.Add(u)
	}
	seeds := []string{
		"",
		"   ",
		"午饭花了２５元",
		"花了二百元",
		"咖啡18元面包12元",
		"元块元块",
		"花了.5元",
		"99999999999999999999999999元",
		strings.Repeat("吃饭", 500),
		"\xff\xfe\xfd",
		"吃饭\xe4\xb8花了25元",
		"\x00\t\n",
	}
	for _, s := range seeds {
		f.Add(s)
	}

	e, _, _ := newTestEngine(nil)

	f.Fuzz(func(t *testing.T, text string) {
		rec := e.Process(context.Background(), text)

		if rec.Confidence < 0 || rec.Confidence > 1 {
			t.Fatalf("confidence %v out of range for %q", rec.Confidence, text)
		}
		if !rec.Category.Valid() {
			t.Fatalf("invalid category %q for %q", rec.Category, text)
		}
		if strings.TrimSpace(rec.Description) == "" {
			t.Fatalf("empty description for %q", text)
		}
		if _, err := time.Parse(model.DateLayout, rec.Date); err != nil {
			t.Fatalf("invalid date %q for %q", rec.Date, text)
		}
		if rec.Amount.IsNegative() {
			t.Fatalf("negative amount %s for %q", rec.Amount, text)
		}
		if rec.RawText != text {
			t.Fatalf("raw text changed: %q != %q", rec.RawText, text)
		}
	})
}
