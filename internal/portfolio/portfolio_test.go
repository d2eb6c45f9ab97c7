package portfolio

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rickgao/kalshi-backtest/internal/model"
)

var (
	testHour = time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)
	testInst = model.Instrument{HourStart: testHour, Strike: 42250}
)

func d(f float64) decimal.Decimal { return decimal.NewFromFloat(f) }

func testFill(dir model.Direction, qty int64, price float64) model.Fill {
	return model.Fill{
		Instrument:  testInst,
		Direction:   dir,
		FilledQty:   qty,
		FillPrice:   d(price),
		DecisionTS:  testHour.Add(4 * time.Minute),
		ExecutionTS: testHour.Add(5 * time.Minute),
	}
}

func TestApplyFill_DeductsCost(t *testing.T) {
	p := New(d(10000), decimal.Zero, nil)

	cost, ok := p.ApplyFill(testFill(model.DirectionYes, 100, 0.55))
	if !ok {
		t.Fatal("ApplyFill returned ok=false")
	}
	if !cost.Equal(d(55)) {
		t.Errorf("cost = %s, want 55", cost)
	}
	if !p.Cash().Equal(d(9945)) {
		t.Errorf("Cash = %s, want 9945", p.Cash())
	}

	positions := p.OpenPositions()
	if len(positions) != 1 {
		t.Fatalf("len(positions) = %d, want 1", len(positions))
	}
	if positions[0].Quantity != 100 || !positions[0].AvgEntryPrice.Equal(d(0.55)) {
		t.Errorf("position = %+v, want qty=100 entry=0.55", positions[0])
	}
}

func TestApplyFill_ChargesFees(t *testing.T) {
	p := New(d(10000), d(0.02), nil)

	cost, ok := p.ApplyFill(testFill(model.DirectionYes, 100, 0.55))
	if !ok {
		t.Fatal("ApplyFill returned ok=false")
	}
	// (0.55 + 0.02) * 100
	if !cost.Equal(d(57)) {
		t.Errorf("cost = %s, want 57", cost)
	}
}

func TestApplyFill_AggregatesVWAP(t *testing.T) {
	p := New(d(10000), decimal.Zero, nil)

	p.ApplyFill(testFill(model.DirectionYes, 100, 0.50))
	p.ApplyFill(testFill(model.DirectionYes, 50, 0.62))

	positions := p.OpenPositions()
	if len(positions) != 1 {
		t.Fatalf("len(positions) = %d, want 1 aggregated", len(positions))
	}
	if positions[0].Quantity != 150 {
		t.Errorf("Quantity = %d, want 150", positions[0].Quantity)
	}
	// (100*0.50 + 50*0.62) / 150 = 0.54
	if !positions[0].AvgEntryPrice.Equal(d(0.54)) {
		t.Errorf("AvgEntryPrice = %s, want 0.54", positions[0].AvgEntryPrice)
	}
}

func TestApplyFill_RejectsOppositeDirection(t *testing.T) {
	p := New(d(10000), decimal.Zero, nil)

	if _, ok := p.ApplyFill(testFill(model.DirectionYes, 100, 0.50)); !ok {
		t.Fatal("first fill should succeed")
	}

	cashBefore := p.Cash()
	if _, ok := p.ApplyFill(testFill(model.DirectionNo, 50, 0.50)); ok {
		t.Error("opposite-direction fill should be rejected as a no-op")
	}
	if !p.Cash().Equal(cashBefore) {
		t.Errorf("Cash changed on rejected fill: %s != %s", p.Cash(), cashBefore)
	}
	if !p.CanOpen(testInst, model.DirectionYes) {
		t.Error("CanOpen(YES) = false, want true while holding YES")
	}
	if p.CanOpen(testInst, model.DirectionNo) {
		t.Error("CanOpen(NO) = true, want false while holding YES")
	}
}

func TestApplyFill_RejectsOverdraft(t *testing.T) {
	p := New(d(10), decimal.Zero, nil)

	if _, ok := p.ApplyFill(testFill(model.DirectionYes, 100, 0.50)); ok {
		t.Error("fill costing 50 against 10 cash should be rejected")
	}
	if !p.Cash().Equal(d(10)) {
		t.Errorf("Cash = %s, want untouched 10", p.Cash())
	}
}

func TestResolve_YesWinsOnEquality(t *testing.T) {
	// Final price exactly at the strike resolves YES: payoff uses >=.
	p := New(d(10000), decimal.Zero, nil)
	p.ApplyFill(testFill(model.DirectionYes, 100, 0.55))

	res, ok := p.Resolve(testInst, 42250, testHour.Add(time.Hour))
	if !ok {
		t.Fatal("Resolve found no position")
	}
	if !res.Won {
		t.Error("YES at final == strike must win")
	}
	if !res.Payoff.Equal(d(1)) {
		t.Errorf("Payoff = %s, want 1.00", res.Payoff)
	}
	// 100 * (1.00 - 0.55) = 45
	if !res.PnL.Equal(d(45)) {
		t.Errorf("PnL = %s, want 45", res.PnL)
	}
	// 10000 - 55 + 100
	if !p.Cash().Equal(d(10045)) {
		t.Errorf("Cash = %s, want 10045", p.Cash())
	}
	if len(p.OpenPositions()) != 0 {
		t.Error("position should be closed after resolution")
	}
}

func TestResolve_NoLosesOnEquality(t *testing.T) {
	p := New(d(10000), decimal.Zero, nil)
	p.ApplyFill(testFill(model.DirectionNo, 100, 0.45))

	res, ok := p.Resolve(testInst, 42250, testHour.Add(time.Hour))
	if !ok {
		t.Fatal("Resolve found no position")
	}
	if res.Won {
		t.Error("NO at final == strike must lose")
	}
	if !res.Payoff.Equal(decimal.Zero) {
		t.Errorf("Payoff = %s, want 0.00", res.Payoff)
	}
	// 100 * (0.00 - 0.45) = -45
	if !res.PnL.Equal(d(-45)) {
		t.Errorf("PnL = %s, want -45", res.PnL)
	}
}

func TestResolve_NoWinsBelowStrike(t *testing.T) {
	p := New(d(10000), decimal.Zero, nil)
	p.ApplyFill(testFill(model.DirectionNo, 80, 0.40))

	res, ok := p.Resolve(testInst, 42249.99, testHour.Add(time.Hour))
	if !ok {
		t.Fatal("Resolve found no position")
	}
	if !res.Won {
		t.Error("NO below strike must win")
	}
	// 80 * (1.00 - 0.40) = 48
	if !res.PnL.Equal(d(48)) {
		t.Errorf("PnL = %s, want 48", res.PnL)
	}
}

func TestResolve_NoPosition(t *testing.T) {
	p := New(d(10000), decimal.Zero, nil)

	if _, ok := p.Resolve(testInst, 42250, testHour.Add(time.Hour)); ok {
		t.Error("Resolve with no open position should report false")
	}
}

func TestMaxAffordableQty(t *testing.T) {
	p := New(d(100), d(0.01), nil)

	// floor(100 / (0.49 + 0.01)) = 200
	if got := p.MaxAffordableQty(d(0.49)); got != 200 {
		t.Errorf("MaxAffordableQty(0.49) = %d, want 200", got)
	}
	if got := p.MaxAffordableQty(decimal.Zero.Sub(d(0.01))); got != 0 {
		t.Errorf("MaxAffordableQty(negative) = %d, want 0", got)
	}
}

func TestMarkEquity(t *testing.T) {
	p := New(d(1000), decimal.Zero, nil)
	p.ApplyFill(testFill(model.DirectionNo, 100, 0.40))

	marks := map[model.Instrument]model.Quote{
		testInst: {
			Timestamp: testHour.Add(5 * time.Minute),
			Strike:    testInst.Strike,
			YesPrice:  d(0.45),
			NoPrice:   d(0.55),
		},
	}
	p.MarkEquity(testHour.Add(5*time.Minute), marks)

	curve := p.Equity()
	if len(curve) != 1 {
		t.Fatalf("len(equity) = %d, want 1", len(curve))
	}
	// 1000 - 40 cash + 100 * 0.55 NO mark = 1015
	if !curve[0].Value.Equal(d(1015)) {
		t.Errorf("equity = %s, want 1015", curve[0].Value)
	}
}

func TestMarkEquity_FallsBackToEntryPrice(t *testing.T) {
	p := New(d(1000), decimal.Zero, nil)
	p.ApplyFill(testFill(model.DirectionYes, 100, 0.40))

	p.MarkEquity(testHour.Add(5*time.Minute), nil)

	curve := p.Equity()
	// 1000 - 40 cash + 100 * 0.40 entry mark = 1000
	if !curve[0].Value.Equal(d(1000)) {
		t.Errorf("equity = %s, want 1000", curve[0].Value)
	}
}

func TestTotalPnL(t *testing.T) {
	p := New(d(10000), decimal.Zero, nil)
	p.ApplyFill(testFill(model.DirectionYes, 100, 0.55))
	p.Resolve(testInst, 43000, testHour.Add(time.Hour))

	if !p.TotalPnL().Equal(d(45)) {
		t.Errorf("TotalPnL = %s, want 45", p.TotalPnL())
	}
}
