package stt

import (
	"context"
	"math/rand/v2"

	"github.com/Veraticus/savemoney/internal/common"
)

// SampleUtterances are the canned results of the mock transcriber.
var SampleUtterances = []string{
	"今天中午吃饭花了二十五块钱",
	"买了一杯咖啡十八元",
	"打车回家花了三十八块五",
	"超市购物消费六十七元",
	"看电影花了四十五块钱",
	"充话费一百元",
	"买书花了三十六元",
	"理发消费三十五元",
	"买水果花了二十八块",
	"外卖点餐四十二元",
}

// MockTranscriber ignores the audio and returns a sample utterance.
type MockTranscriber struct {
	pick func(n int) int
}

// NewMockTranscriber creates a mock. pick chooses an index below n; nil picks at random.
func NewMockTranscriber(pick func(n int) int) *MockTranscriber {
	if pick == nil {
		pick = rand.IntN
	}
	return &MockTranscriber{pick: pick}
}

// Transcribe returns one of SampleUtterances.
func (m *MockTranscriber) Transcribe(ctx context.Context, audio []byte, _ string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if len(audio) == 0 {
		return "", common.ErrEmptyAudio
	}
	return SampleUtterances[m.pick(len(SampleUtterances))], nil
}
