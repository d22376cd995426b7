// Package cli provides styled terminal output and interactive review prompts.
package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Veraticus/savemoney/internal/model"
	"github.com/Veraticus/savemoney/internal/sheets"
)

var (
	// PrimaryColor is the main theme color (jade).
	PrimaryColor = lipgloss.Color("#2EC4B6")
	// SuccessColor indicates successful operations.
	SuccessColor = lipgloss.Color("#4ECDC4")
	// WarningColor indicates warnings or caution messages.
	WarningColor = lipgloss.Color("#FFE66D")
	// ErrorColor indicates errors or failure messages.
	ErrorColor = lipgloss.Color("#FF6B6B")
	// InfoColor indicates informational messages.
	InfoColor = lipgloss.Color("#95E1D3")
	// SubtleColor indicates less prominent UI elements.
	SubtleColor = lipgloss.Color("#666666")

	// TitleStyle is used for section titles.
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(PrimaryColor).
			MarginBottom(1)

	// SuccessStyle formats success messages.
	SuccessStyle = lipgloss.NewStyle().Foreground(SuccessColor)

	// WarningStyle formats warning messages.
	WarningStyle = lipgloss.NewStyle().Foreground(WarningColor)

	// ErrorStyle formats error messages.
	ErrorStyle = lipgloss.NewStyle().Foreground(ErrorColor)

	// InfoStyle formats informational messages.
	InfoStyle = lipgloss.NewStyle().Foreground(InfoColor)

	// SubtleStyle formats less prominent text.
	SubtleStyle = lipgloss.NewStyle().Foreground(SubtleColor)

	// BoldStyle makes text bold.
	BoldStyle = lipgloss.NewStyle().Bold(true)

	// BoxStyle is used for bordered content boxes.
	BoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#333")).
			Padding(1, 2)

	// TableHeaderStyle is used for table headers.
	TableHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				BorderStyle(lipgloss.NormalBorder()).
				BorderBottom(true).
				BorderForeground(lipgloss.Color("#333"))

	// PromptStyle is used for user prompts.
	PromptStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(PrimaryColor)
)

// Icons.
const (
	SuccessIcon = "✓"
	ErrorIcon   = "✗"
	WarningIcon = "⚠️"
	InfoIcon    = "ℹ️"
	MoneyIcon   = "💰"
	RobotIcon   = "🤖"
	ChartIcon   = "📊"
	MicIcon     = "🎙️"
)

// FormatSuccess formats a success message with icon.
func FormatSuccess(message string) string {
	return SuccessStyle.Render(SuccessIcon + " " + message)
}

// FormatError formats an error message with icon.
func FormatError(message string) string {
	return ErrorStyle.Render(ErrorIcon + " " + message)
}

// FormatWarning formats a warning message with icon.
func FormatWarning(message string) string {
	return WarningStyle.Render(WarningIcon + " " + message)
}

// FormatInfo formats an info message with icon.
func FormatInfo(message string) string {
	return InfoStyle.Render(InfoIcon + " " + message)
}

// FormatTitle formats a title with the money icon.
func FormatTitle(title string) string {
	return TitleStyle.Render(MoneyIcon + " " + title)
}

// FormatPrompt formats a prompt message.
func FormatPrompt(prompt string) string {
	return PromptStyle.Render(prompt + " → ")
}

// RenderBox renders content in a styled box.
func RenderBox(title, content string) string {
	boxTitle := TitleStyle.UnsetMargins().Render(title)
	return BoxStyle.Render(lipgloss.JoinVertical(lipgloss.Left, boxTitle, content))
}

// RenderRecord renders the fields of a processed record.
func RenderRecord(rec model.ExpenseRecord) string {
	amount := "¥" + rec.Amount.StringFixed(2)
	if rec.AmountEstimated {
		amount += " " + WarningStyle.Render("(估算)")
	}
	kind := "支出"
	if rec.Type == model.TypeIncome {
		kind = "收入"
	}

	lines := []string{
		field("金额", amount),
		field("分类", fmt.Sprintf("%s / %s", rec.Category, rec.Subcategory)),
		field("描述", rec.Description),
		field("日期", rec.Date),
		field("类型", kind),
		field("支付方式", string(rec.PaymentMethod)),
		field("置信度", confidence(rec.Confidence)),
	}
	if rec.RawText != "" {
		lines = append(lines, field("原始文本", SubtleStyle.Render(rec.RawText)))
	}
	return strings.Join(lines, "\n")
}

// RenderSuggestions lists category suggestions, numbered from 1.
func RenderSuggestions(s model.CategorySuggestions) string {
	lines := make([]string, 0, len(s))
	for i, sg := range s {
		lines = append(lines, fmt.Sprintf("  [%d] %s %s  %s",
			i+1, BoldStyle.Render(string(sg.Category)), confidence(sg.Confidence), SubtleStyle.Render(sg.Reason)))
	}
	return strings.Join(lines, "\n")
}

var rowColumns = []struct {
	title string
	width int
	value func(sheets.ExpenseRow) string
}{
	{"日期", 12, func(r sheets.ExpenseRow) string { return r.Date }},
	{"金额", 10, func(r sheets.ExpenseRow) string { return r.Amount.StringFixed(2) }},
	{"分类", 8, func(r sheets.ExpenseRow) string { return string(r.Category) }},
	{"描述", 20, func(r sheets.ExpenseRow) string { return r.Description }},
	{"支付方式", 10, func(r sheets.ExpenseRow) string { return string(r.PaymentMethod) }},
}

// RenderRows renders ledger rows as a table.
func RenderRows(rows []sheets.ExpenseRow) string {
	if len(rows) == 0 {
		return SubtleStyle.Render("暂无记录")
	}

	cells := make([]string, len(rowColumns))
	for i, c := range rowColumns {
		cells[i] = lipgloss.NewStyle().Width(c.width).Render(c.title)
	}
	out := []string{TableHeaderStyle.Render(lipgloss.JoinHorizontal(lipgloss.Top, cells...))}

	for _, r := range rows {
		for i, c := range rowColumns {
			cells[i] = lipgloss.NewStyle().Width(c.width).MaxHeight(1).Render(c.value(r))
		}
		out = append(out, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}
	return strings.Join(out, "\n")
}

func field(label, value string) string {
	return SubtleStyle.Render(label+":") + " " + value
}

func confidence(c float64) string {
	style := SuccessStyle
	switch {
	case c < 0.6:
		style = ErrorStyle
	case c < 0.8:
		style = WarningStyle
	}
	return style.Render(fmt.Sprintf("%.0f%%", c*100))
}
