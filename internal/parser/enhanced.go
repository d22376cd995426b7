package parser

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Veraticus/savemoney/internal/common"
	"github.com/Veraticus/savemoney/internal/llm"
	"github.com/Veraticus/savemoney/internal/model"
)

// DefaultTimeout bounds a single model call.
const DefaultTimeout = 15 * time.Second

const extractionSystemPrompt = `你是一个智能记账助手，专门从用户的口语化描述中提取支出信息。

今天是 %[1]s。

请从用户输入中提取以下信息：
- 金额 (amount): 数值，如25.3
- 分类 (category): 必须是"餐饮"、"交通"、"购物"、"娱乐"、"医疗"、"其他"之一
- 子分类 (subcategory): 更具体的分类，如"午餐"、"打车"、"超市购物"
- 描述 (description): 简短的描述
- 类型 (type): "expense" 或 "income"
- 支付方式 (payment_method): "微信支付"、"支付宝"、"现金"或"银行卡"
- 日期 (date): 如果用户提到相对时间（如"今天"、"昨天"、"前天"、"上周三"），请根据今天是 %[1]s 计算出具体日期，格式为YYYY-MM-DD；没有提到日期时使用今天。

请只返回一个JSON对象，包含字段 amount, category, subcategory, description, type, payment_method, date, confidence(0-1)。
如果信息不完整，请根据上下文合理推断。`

// EnhancedParser extracts an expense draft with a generative model.
type EnhancedParser struct {
	client  llm.Client
	clock   Clock
	logger  *slog.Logger
	timeout time.Duration
}

// NewEnhancedParser creates a model-backed parser. A nil clock selects time.Now
// and a non-positive timeout selects DefaultTimeout.
func NewEnhancedParser(client llm.Client, clock Clock, timeout time.Duration, logger *slog.Logger) *EnhancedParser {
	if clock == nil {
		clock = time.Now
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &EnhancedParser{client: client, clock: clock, timeout: timeout, logger: logger}
}

// Parse asks the model for a structured draft. Transport and availability
// failures are returned so the caller can fall back; unparseable responses are
// not errors and yield a 0.3-confidence draft.
func (p *EnhancedParser) Parse(ctx context.Context, text string) (model.ExpenseDraft, error) {
	if p == nil || p.client == nil {
		return model.ExpenseDraft{}, llm.ErrDisabled
	}

	today := p.clock()

	callCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	response, err := p.client.Complete(callCtx, llm.Request{
		System:      fmt.Sprintf(extractionSystemPrompt, today.Format(model.DateLayout)),
		Prompt:      text,
		Temperature: 0.1,
		MaxTokens:   500,
	})
	if err != nil {
		if errors.Is(err, common.ErrLLMUnavailable) {
			return model.ExpenseDraft{}, err
		}
		return model.ExpenseDraft{}, fmt.Errorf("%w: %w", common.ErrLLMUnavailable, err)
	}

	draft, cause := ParseExpenseResponse(response, text, today)
	if cause != nil {
		p.logger.Warn("model response could not be parsed, using fallback draft",
			"error", cause,
			"response_length", len(response))
	}

	return draft, nil
}
