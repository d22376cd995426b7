package workflow

import (
	"context"
	"fmt"
	"math"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/Veraticus/savemoney/internal/llm"
	"github.com/Veraticus/savemoney/internal/model"
	"github.com/Veraticus/savemoney/internal/parser"
)

const enhancePrompt = `请帮助确认以下记账信息的分类是否准确：

原始文本："%s"
当前提取：%s

请评估分类准确性并提供改进建议。`

const (
	categoryBump = 0.2
	amountBump   = 0.1
)

var (
	amountMention   = regexp.MustCompile(`(\d+(?:\.\d+)?)[元块]`)
	amountTolerance = decimal.NewFromInt(5)
)

func (e *Engine) enhance(ctx context.Context, st *State) error {
	if e.client == nil || st.Draft.Confidence >= enhanceBelow {
		return nil
	}

	callCtx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	response, err := e.client.Complete(callCtx, llm.Request{
		Prompt:      fmt.Sprintf(enhancePrompt, st.RawText, summarize(st.Draft)),
		Temperature: 0.1,
		MaxTokens:   300,
	})
	if err != nil {
		e.recordFailure(ctx, st, StageEnhance, err)
		return nil
	}

	draft, revisions := applyEnhancement(st.Draft, response)
	st.Draft = draft
	st.Revisions = append(st.Revisions, revisions...)
	return nil
}

// applyEnhancement revises the draft from a free-text review. The category
// changes only when the review talks about categories and names exactly one
// label. The amount changes when the first quoted amount differs by more than 5.
func applyEnhancement(d model.ExpenseDraft, response string) (model.ExpenseDraft, []string) {
	var revisions []string

	if strings.Contains(response, "分类") || strings.Contains(strings.ToLower(response), "category") {
		var mentioned []model.Category
		for _, c := range model.Categories {
			if strings.Contains(response, string(c)) {
				mentioned = append(mentioned, c)
			}
		}
		if len(mentioned) == 1 {
			if mentioned[0] != d.Category {
				d.Category = mentioned[0]
				d.Subcategory = mentioned[0].DefaultSubcategory()
			}
			d.Confidence = bump(d.Confidence, categoryBump)
			revisions = append(revisions, "category")
		}
	}

	if m := amountMention.FindStringSubmatch(parser.Normalize(response)); m != nil {
		if suggested, err := decimal.NewFromString(m[1]); err == nil {
			if suggested.Sub(d.Amount).Abs().GreaterThan(amountTolerance) {
				d.Amount = suggested
				d.AmountEstimated = false
				d.Confidence = bump(d.Confidence, amountBump)
				revisions = append(revisions, "amount")
			}
		}
	}

	return d, revisions
}

func bump(confidence, delta float64) float64 {
	return math.Min(math.Round((confidence+delta)*100)/100, 1)
}

func summarize(d model.ExpenseDraft) string {
	return fmt.Sprintf("金额=%s, 分类=%s, 子分类=%s, 描述=%s, 支付方式=%s, 置信度=%.2f",
		d.Amount.String(), d.Category, d.Subcategory, d.Description, d.PaymentMethod, d.Confidence)
}
