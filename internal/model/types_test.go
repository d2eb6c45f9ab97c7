package model

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestQuote_Mid(t *testing.T) {
	q := Quote{
		Timestamp: time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC),
		Strike:    42250,
		YesPrice:  decimal.NewFromFloat(0.62),
		NoPrice:   decimal.NewFromFloat(0.38),
	}

	if got := q.Mid(DirectionYes); !got.Equal(decimal.NewFromFloat(0.62)) {
		t.Errorf("Mid(YES) = %s, want 0.62", got)
	}
	if got := q.Mid(DirectionNo); !got.Equal(decimal.NewFromFloat(0.38)) {
		t.Errorf("Mid(NO) = %s, want 0.38", got)
	}
}

func TestPosition_Value(t *testing.T) {
	p := Position{
		Direction:     DirectionYes,
		Quantity:      150,
		AvgEntryPrice: decimal.NewFromFloat(0.55),
	}

	got := p.Value(decimal.NewFromFloat(0.60))
	if !got.Equal(decimal.NewFromFloat(90)) {
		t.Errorf("Value(0.60) = %s, want 90", got)
	}
}

func TestHold(t *testing.T) {
	intent := Hold()
	if intent.Direction != DirectionHold {
		t.Errorf("Direction = %q, want %q", intent.Direction, DirectionHold)
	}
	if intent.SizeFraction != 0 {
		t.Errorf("SizeFraction = %v, want 0", intent.SizeFraction)
	}
}

func TestInstrument_Comparable(t *testing.T) {
	hour := time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)
	a := Instrument{HourStart: hour, Strike: 42250}
	b := Instrument{HourStart: hour, Strike: 42250}

	m := map[Instrument]int{a: 1}
	if m[b] != 1 {
		t.Error("identical instruments should hash to the same map key")
	}
}
