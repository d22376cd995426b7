package parser

import "time"

var testToday = time.Date(2025, 3, 14, 12, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return testToday }

type fixedRand float64

func (f fixedRand) Float64() float64 { return float64(f) }

func newTestParser() *RuleParser {
	return NewRuleParser(nil, fixedClock, fixedRand(0.5))
}
