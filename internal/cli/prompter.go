package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/schollz/progressbar/v3"
	"github.com/shopspring/decimal"

	"github.com/Veraticus/savemoney/internal/model"
	"github.com/Veraticus/savemoney/internal/workflow"
)

// Prompter walks the user through reviewing a processed record before it is saved.
type Prompter struct {
	writer io.Writer
	reader *LineReader
}

// NewPrompter creates a prompter. Nil arguments fall back to stdin and stdout.
func NewPrompter(reader io.Reader, writer io.Writer) *Prompter {
	if reader == nil {
		reader = os.Stdin
	}
	if writer == nil {
		writer = os.Stdout
	}
	return &Prompter{reader: NewLineReader(reader), writer: writer}
}

// Review shows rec with its open questions and suggestions and lets the user
// correct it. The returned bool reports whether the user chose to save.
func (p *Prompter) Review(ctx context.Context, rec model.ExpenseRecord) (model.ExpenseRecord, bool, error) {
	for {
		if err := p.show(rec); err != nil {
			return rec, false, err
		}

		valid := []string{"y", "a", "c", "d", "e", "f", "n"}
		for i := range rec.Suggestions {
			valid = append(valid, strconv.Itoa(i+1))
		}

		choice, err := p.promptChoice(ctx, "选择", valid)
		if err != nil {
			return rec, false, err
		}

		switch choice {
		case "y":
			return rec, true, nil
		case "n":
			return rec, false, nil
		case "a":
			err = p.editAmount(ctx, &rec)
		case "c":
			err = p.editCategory(ctx, &rec)
		case "d":
			err = p.editDescription(ctx, &rec)
		case "e":
			rec.IsDaily, err = p.editFlag(ctx, "是否日常 (是/否)", rec.IsDaily)
		case "f":
			rec.IsNecessary, err = p.editFlag(ctx, "是否必须 (是/否)", rec.IsNecessary)
		default:
			n, _ := strconv.Atoi(choice)
			setCategory(&rec, rec.Suggestions[n-1].Category)
		}
		if err != nil {
			return rec, false, err
		}
	}
}

func (p *Prompter) show(rec model.ExpenseRecord) error {
	content := RenderRecord(rec)
	if len(rec.ConfirmationQuestions) > 0 {
		var qs []string
		for _, q := range rec.ConfirmationQuestions {
			qs = append(qs, WarningStyle.Render(WarningIcon+" "+q))
		}
		content += "\n\n" + strings.Join(qs, "\n")
	}
	if _, err := fmt.Fprintln(p.writer, RenderBox("记账确认", content)); err != nil {
		return fmt.Errorf("failed to write record box: %w", err)
	}

	if len(rec.Suggestions) > 0 {
		if _, err := fmt.Fprintln(p.writer, FormatPrompt("分类建议:")+"\n"+RenderSuggestions(rec.Suggestions)); err != nil {
			return fmt.Errorf("failed to write suggestions: %w", err)
		}
	}

	options := "  [Y] 保存  [A] 修改金额  [C] 修改分类  [D] 修改描述  [E] 是否日常  [F] 是否必须  [N] 放弃"
	if len(rec.Suggestions) > 0 {
		options += fmt.Sprintf("  [1-%d] 采用建议分类", len(rec.Suggestions))
	}
	if _, err := fmt.Fprintln(p.writer, options); err != nil {
		return fmt.Errorf("failed to write options: %w", err)
	}
	return nil
}

func (p *Prompter) editAmount(ctx context.Context, rec *model.ExpenseRecord) error {
	line, err := p.prompt(ctx, "金额")
	if err != nil {
		return err
	}
	amount, err := decimal.NewFromString(strings.TrimSuffix(strings.TrimSuffix(line, "元"), "块"))
	if err != nil || amount.IsNegative() {
		p.println(FormatError("无效的金额: " + line))
		return nil
	}
	rec.Amount = amount
	rec.AmountEstimated = false
	resolve(rec, workflow.QuestionAmount)
	return nil
}

func (p *Prompter) editCategory(ctx context.Context, rec *model.ExpenseRecord) error {
	line, err := p.prompt(ctx, "分类 (餐饮/交通/购物/娱乐/医疗/其他)")
	if err != nil {
		return err
	}
	category, ok := model.ParseCategory(line)
	if !ok {
		p.println(FormatError("无效的分类: " + line))
		return nil
	}
	setCategory(rec, category)
	return nil
}

func (p *Prompter) editDescription(ctx context.Context, rec *model.ExpenseRecord) error {
	line, err := p.prompt(ctx, "描述")
	if err != nil {
		return err
	}
	if line == "" {
		p.println(FormatError("描述不能为空"))
		return nil
	}
	rec.Description = line
	resolve(rec, workflow.QuestionDescription)
	return nil
}

// editFlag keeps the current value when the answer is not recognized.
func (p *Prompter) editFlag(ctx context.Context, label string, current model.Tristate) (model.Tristate, error) {
	line, err := p.prompt(ctx, label)
	if err != nil {
		return current, err
	}
	v := model.ParseTristate(line)
	if v == model.Undetermined {
		p.println(FormatError("请输入 是 或 否"))
		return current, nil
	}
	return v, nil
}

func setCategory(rec *model.ExpenseRecord, c model.Category) {
	if rec.Category != c {
		rec.Category = c
		rec.Subcategory = c.DefaultSubcategory()
	}
	resolve(rec, workflow.QuestionCategory)
}

// resolve drops an answered question.
func resolve(rec *model.ExpenseRecord, question string) {
	rec.ConfirmationQuestions = slices.DeleteFunc(rec.ConfirmationQuestions, func(q string) bool {
		return q == question
	})
	rec.NeedsConfirmation = len(rec.ConfirmationQuestions) > 0
}

func (p *Prompter) prompt(ctx context.Context, label string) (string, error) {
	if _, err := fmt.Fprint(p.writer, FormatPrompt(label)); err != nil {
		return "", fmt.Errorf("failed to write prompt: %w", err)
	}
	return p.reader.ReadLine(ctx)
}

func (p *Prompter) promptChoice(ctx context.Context, label string, valid []string) (string, error) {
	for {
		line, err := p.prompt(ctx, label)
		if err != nil {
			return "", err
		}
		choice := strings.ToLower(line)
		if slices.Contains(valid, choice) {
			return choice, nil
		}
		p.println(FormatError("无效的选择，请重试"))
	}
}

func (p *Prompter) println(s string) {
	if _, err := fmt.Fprintln(p.writer, s); err != nil {
		slog.Warn("Failed to write to terminal", "error", err)
	}
}

// NewProgressBar creates the progress bar used for batch processing.
func NewProgressBar(total int, w io.Writer, description string) *progressbar.ProgressBar {
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(w),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowCount(),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription("[cyan][bold]"+description+"[reset]"),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
		progressbar.OptionOnCompletion(func() {
			if _, err := fmt.Fprintln(w); err != nil {
				slog.Warn("Failed to write newline after progress bar", "error", err)
			}
		}),
	)
}
