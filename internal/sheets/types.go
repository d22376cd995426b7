package sheets

import (
	"fmt"
	"math/rand/v2"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Veraticus/savemoney/internal/common"
	"github.com/Veraticus/savemoney/internal/model"
)

// Headers are the ledger columns, in order.
var Headers = []any{"ID", "金额", "日期", "分类", "子分类", "描述", "是否日常", "支付方式", "是否为必须开支", "原始文本"}

// ExpenseRow is a single ledger row.
type ExpenseRow struct {
	Amount        decimal.Decimal     `json:"amount"`
	Date          string              `json:"date"`
	Category      model.Category      `json:"category"`
	Subcategory   string              `json:"subcategory"`
	Description   string              `json:"description"`
	IsDaily       model.Tristate      `json:"is_daily"`
	PaymentMethod model.PaymentMethod `json:"payment_method"`
	IsNecessary   model.Tristate      `json:"is_necessary"`
	RawText       string              `json:"raw_text"`
	ID            int64               `json:"id"`
}

// SaveResult reports the outcome of AppendExpense.
type SaveResult struct {
	Row       ExpenseRow `json:"row"`
	Simulated bool       `json:"simulated"`
}

// NewRecordID returns a millisecond timestamp plus a random 1000-9999 suffix.
func NewRecordID(now time.Time) int64 {
	return now.UnixMilli() + 1000 + rand.Int64N(9000)
}

// RowFromRecord builds the ledger row for rec. Undetermined flags are derived
// from the category.
func RowFromRecord(id int64, rec model.ExpenseRecord) ExpenseRow {
	return ExpenseRow{
		ID:            id,
		Amount:        rec.Amount,
		Date:          rec.Date,
		Category:      rec.Category,
		Subcategory:   rec.Subcategory,
		Description:   rec.Description,
		IsDaily:       DeriveIsDaily(rec.Category, rec.IsDaily),
		PaymentMethod: rec.PaymentMethod,
		IsNecessary:   DeriveIsNecessary(rec.Category, rec.IsNecessary),
		RawText:       rec.RawText,
	}
}

// DeriveIsDaily keeps an explicit answer and otherwise infers one from category.
func DeriveIsDaily(c model.Category, v model.Tristate) model.Tristate {
	if v == model.Yes || v == model.No {
		return v
	}
	switch c {
	case model.CategoryFood, model.CategoryTransport:
		return model.Yes
	case model.CategoryEntertainment, model.CategoryShopping:
		return model.No
	default:
		return model.Undetermined
	}
}

// DeriveIsNecessary keeps an explicit answer and otherwise infers one from category.
func DeriveIsNecessary(c model.Category, v model.Tristate) model.Tristate {
	if v == model.Yes || v == model.No {
		return v
	}
	switch c {
	case model.CategoryFood, model.CategoryTransport, model.CategoryMedical:
		return model.Yes
	case model.CategoryEntertainment, model.CategoryShopping:
		return model.No
	default:
		return model.Undetermined
	}
}

// ValidateRecord checks the fields a ledger row cannot do without.
func ValidateRecord(rec model.ExpenseRecord) error {
	var missing []string
	if rec.Amount.IsNegative() {
		return fmt.Errorf("amount must not be negative: %w", common.ErrMissingField)
	}
	if !rec.Category.Valid() {
		missing = append(missing, "category")
	}
	if strings.TrimSpace(rec.Description) == "" {
		missing = append(missing, "description")
	}
	if _, err := time.Parse(model.DateLayout, rec.Date); err != nil {
		missing = append(missing, "date")
	}
	if rec.Type != model.TypeExpense && rec.Type != model.TypeIncome {
		missing = append(missing, "type")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", common.ErrMissingField, strings.Join(missing, ", "))
	}
	return nil
}

// Values renders the row in Headers order.
func (r ExpenseRow) Values() []any {
	return []any{
		strconv.FormatInt(r.ID, 10),
		r.Amount.InexactFloat64(),
		r.Date,
		string(r.Category),
		r.Subcategory,
		r.Description,
		string(r.IsDaily),
		string(r.PaymentMethod),
		string(r.IsNecessary),
		r.RawText,
	}
}

// RowFromValues parses a row read back from the sheet. Short rows are padded.
func RowFromValues(values []any) (ExpenseRow, error) {
	cells := make([]string, len(Headers))
	for i := range cells {
		if i < len(values) {
			cells[i] = strings.TrimSpace(fmt.Sprint(values[i]))
		}
	}

	id, err := strconv.ParseInt(cells[0], 10, 64)
	if err != nil {
		return ExpenseRow{}, fmt.Errorf("invalid ID %q: %w", cells[0], err)
	}
	amount, err := decimal.NewFromString(cells[1])
	if err != nil {
		return ExpenseRow{}, fmt.Errorf("invalid amount %q: %w", cells[1], err)
	}

	return ExpenseRow{
		ID:            id,
		Amount:        amount,
		Date:          cells[2],
		Category:      model.Category(cells[3]),
		Subcategory:   cells[4],
		Description:   cells[5],
		IsDaily:       model.ParseTristate(cells[6]),
		PaymentMethod: model.PaymentMethod(cells[7]),
		IsNecessary:   model.ParseTristate(cells[8]),
		RawText:       cells[9],
	}, nil
}
