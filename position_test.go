package carteira

import (
	"errors"
	"testing"
)

func TestBuy_AveragePrice(t *testing.T) {
	testCases := []struct {
		name    string
		buys    []struct{ qty, price float64 }
		wantQty Quantity
		wantAvg Money
	}{
		{
			name:    "single buy",
			buys:    []struct{ qty, price float64 }{{100, 34.50}},
			wantQty: Q(100),
			wantAvg: M(34.50),
		},
		{
			name:    "two buys average",
			buys:    []struct{ qty, price float64 }{{100, 10.00}, {100, 20.00}},
			wantQty: Q(200),
			wantAvg: M(15.00),
		},
		{
			name:    "weighted average",
			buys:    []struct{ qty, price float64 }{{100, 18.43}, {100, 10.33}},
			wantQty: Q(200),
			wantAvg: M(14.38), // (100*18.43 + 100*10.33) / 200
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			p := NewPortfolio()
			day := ts("2024-01-02")
			for i, b := range tc.buys {
				if err := p.Buy("BBAS3", Stock, Q(b.qty), M(b.price), day.AddDate(0, 0, i)); err != nil {
					t.Fatalf("Buy() error = %v", err)
				}
			}
			pos := p.Position("BBAS3")
			if !pos.Quantity().Equal(tc.wantQty) {
				t.Errorf("Quantity() = %s, want %s", pos.Quantity(), tc.wantQty)
			}
			if !pos.AveragePrice().Equal(tc.wantAvg) {
				t.Errorf("AveragePrice() = %s, want %s", pos.AveragePrice(), tc.wantAvg)
			}
		})
	}
}

func TestSell_RealizesProfitAndKeepsAveragePrice(t *testing.T) {
	p := NewPortfolio()
	if err := p.Buy("BBAS3", Stock, Q(100), M(34.50), ts("2024-03-01")); err != nil {
		t.Fatalf("Buy() error = %v", err)
	}

	profit, err := p.Sell("BBAS3", Q(100), M(36.03), ts("2024-04-02"))
	if err != nil {
		t.Fatalf("Sell() error = %v", err)
	}
	if want := M(153.00); !profit.Equal(want) {
		t.Errorf("Sell() profit = %s, want %s", profit, want)
	}

	pos := p.Position("BBAS3")
	if !pos.Quantity().IsZero() {
		t.Errorf("Quantity() = %s, want 0", pos.Quantity())
	}
	// a sell never changes the average price of what remains
	if want := M(34.50); !pos.AveragePrice().Equal(want) {
		t.Errorf("AveragePrice() = %s, want %s", pos.AveragePrice(), want)
	}
}

func TestSell_PartialKeepsAveragePrice(t *testing.T) {
	p := NewPortfolio()
	if err := p.Buy("PETR4", Stock, Q(100), M(10.00), ts("2024-01-02")); err != nil {
		t.Fatalf("Buy() error = %v", err)
	}
	if err := p.Buy("PETR4", Stock, Q(100), M(20.00), ts("2024-01-03")); err != nil {
		t.Fatalf("Buy() error = %v", err)
	}

	profit, err := p.Sell("PETR4", Q(50), M(18.00), ts("2024-02-01"))
	if err != nil {
		t.Fatalf("Sell() error = %v", err)
	}
	if want := M(150.00); !profit.Equal(want) { // (18-15)*50
		t.Errorf("Sell() profit = %s, want %s", profit, want)
	}

	pos := p.Position("PETR4")
	if want := Q(150); !pos.Quantity().Equal(want) {
		t.Errorf("Quantity() = %s, want %s", pos.Quantity(), want)
	}
	if want := M(15.00); !pos.AveragePrice().Equal(want) {
		t.Errorf("AveragePrice() = %s, want %s", pos.AveragePrice(), want)
	}
}

func TestSell_InsufficientQuantity(t *testing.T) {
	p := NewPortfolio()
	if err := p.Buy("BBAS3", Stock, Q(100), M(34.50), ts("2024-03-01")); err != nil {
		t.Fatalf("Buy() error = %v", err)
	}

	_, err := p.Sell("BBAS3", Q(150), M(36.00), ts("2024-04-01"))
	var insufficient *InsufficientQuantityError
	if !errors.As(err, &insufficient) {
		t.Fatalf("Sell() error = %v, want InsufficientQuantityError", err)
	}
	if !insufficient.Held.Equal(Q(100)) || !insufficient.Requested.Equal(Q(150)) {
		t.Errorf("InsufficientQuantityError = %+v, want held 100 requested 150", insufficient)
	}

	// the rejected sell left no trace
	pos := p.Position("BBAS3")
	if !pos.Quantity().Equal(Q(100)) || pos.Trades() != 1 {
		t.Errorf("position changed by a rejected sell: quantity %s, %d trades", pos.Quantity(), pos.Trades())
	}
}

func TestSell_SoldOutPositionRejectsFurtherSells(t *testing.T) {
	p := NewPortfolio()
	if err := p.Buy("MGLU3", Stock, Q(10), M(3.00), ts("2024-01-02")); err != nil {
		t.Fatalf("Buy() error = %v", err)
	}
	if _, err := p.Sell("MGLU3", Q(10), M(4.00), ts("2024-01-03")); err != nil {
		t.Fatalf("Sell() error = %v", err)
	}

	// the position survives at quantity zero, but selling is over until a buy
	pos := p.Position("MGLU3")
	if pos == nil {
		t.Fatal("sold-out position was deleted")
	}
	if !pos.Quantity().IsZero() {
		t.Fatalf("Quantity() = %s, want 0", pos.Quantity())
	}

	var insufficient *InsufficientQuantityError
	if _, err := p.Sell("MGLU3", Q(1), M(4.00), ts("2024-01-04")); !errors.As(err, &insufficient) {
		t.Errorf("Sell() on empty position error = %v, want InsufficientQuantityError", err)
	}
}

func TestTrade_TimestampOrder(t *testing.T) {
	p := NewPortfolio()
	if err := p.Buy("BBAS3", Stock, Q(100), M(34.50), ts("2024-03-01 10:00:00")); err != nil {
		t.Fatalf("Buy() error = %v", err)
	}

	// a trade older than the last recorded one is rejected
	var order *TimestampOrderError
	err := p.Buy("BBAS3", Stock, Q(50), M(30.00), ts("2024-02-28 10:00:00"))
	if !errors.As(err, &order) {
		t.Fatalf("Buy() error = %v, want TimestampOrderError", err)
	}
	if _, err := p.Sell("BBAS3", Q(10), M(36.00), ts("2024-02-28 10:00:00")); !errors.As(err, &order) {
		t.Fatalf("Sell() error = %v, want TimestampOrderError", err)
	}

	pos := p.Position("BBAS3")
	if !pos.Quantity().Equal(Q(100)) || !pos.AveragePrice().Equal(M(34.50)) || pos.Trades() != 1 {
		t.Errorf("position changed by rejected trades: quantity %s, average %s, %d trades",
			pos.Quantity(), pos.AveragePrice(), pos.Trades())
	}

	// an equal timestamp is fine
	if err := p.Buy("BBAS3", Stock, Q(50), M(30.00), ts("2024-03-01 10:00:00")); err != nil {
		t.Errorf("Buy() with equal timestamp error = %v", err)
	}
}

func TestSplit(t *testing.T) {
	testCases := []struct {
		name    string
		qty     float64
		price   float64
		ratio   float64
		wantQty Quantity
		wantAvg Money
		wantErr bool
	}{
		{name: "forward split", qty: 100, price: 34.50, ratio: 2, wantQty: Q(200), wantAvg: M(17.25)},
		{name: "ten for one", qty: 10, price: 100.00, ratio: 10, wantQty: Q(100), wantAvg: M(10.00)},
		{name: "reverse split", qty: 100, price: 10.00, ratio: 0.5, wantQty: Q(50), wantAvg: M(20.00)},
		{name: "non integral result", qty: 25, price: 10.00, ratio: 0.5, wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			p := NewPortfolio()
			if err := p.Buy("MGLU3", Stock, Q(tc.qty), M(tc.price), ts("2024-01-02")); err != nil {
				t.Fatalf("Buy() error = %v", err)
			}
			before := p.Position("MGLU3").AveragePrice().Mul(p.Position("MGLU3").Quantity())

			err := p.Split("MGLU3", Q(tc.ratio), ts("2024-02-01"))
			if tc.wantErr {
				var nonIntegral *NonIntegralSplitError
				if !errors.As(err, &nonIntegral) {
					t.Fatalf("Split() error = %v, want NonIntegralSplitError", err)
				}
				pos := p.Position("MGLU3")
				if !pos.Quantity().Equal(Q(tc.qty)) || pos.Trades() != 1 {
					t.Errorf("position changed by a rejected split")
				}
				return
			}
			if err != nil {
				t.Fatalf("Split() error = %v", err)
			}

			pos := p.Position("MGLU3")
			if !pos.Quantity().Equal(tc.wantQty) {
				t.Errorf("Quantity() = %s, want %s", pos.Quantity(), tc.wantQty)
			}
			if !pos.AveragePrice().Equal(tc.wantAvg) {
				t.Errorf("AveragePrice() = %s, want %s", pos.AveragePrice(), tc.wantAvg)
			}
			// a split never changes the position's value
			after := pos.AveragePrice().Mul(pos.Quantity())
			if !after.Equal(before) {
				t.Errorf("position value changed by split: %s != %s", after, before)
			}
		})
	}
}

func TestSplit_OnUnknownTicker(t *testing.T) {
	p := NewPortfolio()
	var notFound *AssetNotFoundError
	if err := p.Split("BBAS3", Q(2), ts("2024-01-02")); !errors.As(err, &notFound) {
		t.Errorf("Split() error = %v, want AssetNotFoundError", err)
	}
}

func TestQuantityConservation(t *testing.T) {
	p := NewPortfolio()
	steps := []struct {
		op    string
		qty   float64
		price float64
		when  string
	}{
		{"buy", 100, 10.00, "2024-01-02"},
		{"buy", 50, 12.00, "2024-01-10"},
		{"sell", 30, 15.00, "2024-02-01"},
		{"split", 2, 0, "2024-03-01"}, // (100+50-30)*2 = 240
		{"sell", 40, 8.00, "2024-04-01"},
		{"buy", 10, 7.00, "2024-05-01"},
	}

	for _, s := range steps {
		var err error
		switch s.op {
		case "buy":
			err = p.Buy("VALE3", Stock, Q(s.qty), M(s.price), ts(s.when))
		case "sell":
			_, err = p.Sell("VALE3", Q(s.qty), M(s.price), ts(s.when))
		case "split":
			err = p.Split("VALE3", Q(s.qty), ts(s.when))
		}
		if err != nil {
			t.Fatalf("%s error = %v", s.op, err)
		}
	}

	if want := Q(210); !p.Position("VALE3").Quantity().Equal(want) {
		t.Errorf("Quantity() = %s, want %s", p.Position("VALE3").Quantity(), want)
	}
}

func TestQuantityAt(t *testing.T) {
	p := NewPortfolio()
	if err := p.Buy("BBAS3", Stock, Q(100), M(10.00), ts("2024-01-10")); err != nil {
		t.Fatal(err)
	}
	if _, err := p.Sell("BBAS3", Q(25), M(12.00), ts("2024-02-01")); err != nil {
		t.Fatal(err)
	}
	if err := p.Split("BBAS3", Q(2), ts("2024-03-01")); err != nil {
		t.Fatal(err)
	}

	testCases := []struct {
		date string
		want Quantity
	}{
		{"2024-01-09", Q(0)},
		{"2024-01-10", Q(100)},
		{"2024-01-31", Q(100)},
		{"2024-02-01", Q(75)},
		{"2024-02-28", Q(75)},
		{"2024-03-01", Q(150)},
		{"2024-12-31", Q(150)},
	}
	for _, tc := range testCases {
		if got := p.Position("BBAS3").QuantityAt(ts(tc.date)); !got.Equal(tc.want) {
			t.Errorf("QuantityAt(%s) = %s, want %s", tc.date, got, tc.want)
		}
	}
}

func TestBuy_InvalidInput(t *testing.T) {
	p := NewPortfolio()
	day := ts("2024-01-02")

	if err := p.Buy("bbas3", Stock, Q(100), M(10.00), day); err == nil {
		t.Error("Buy() accepted a lowercase ticker")
	}
	if err := p.Buy("BBAS3X", Stock, Q(100), M(10.00), day); err == nil {
		t.Error("Buy() accepted a malformed ticker")
	}
	if err := p.Buy("BBAS3", Stock, Q(0), M(10.00), day); err == nil {
		t.Error("Buy() accepted a zero quantity")
	}
	if err := p.Buy("BBAS3", Stock, Q(10.5), M(10.00), day); err == nil {
		t.Error("Buy() accepted a fractional quantity")
	}
	if err := p.Buy("BBAS3", Stock, Q(100), M(0), day); err == nil {
		t.Error("Buy() accepted a zero price")
	}
	if p.Len() != 0 {
		t.Errorf("rejected buys created %d positions", p.Len())
	}
}

func TestSell_OnUnknownTicker(t *testing.T) {
	p := NewPortfolio()
	var notFound *AssetNotFoundError
	if _, err := p.Sell("BBAS3", Q(10), M(10.00), ts("2024-01-02")); !errors.As(err, &notFound) {
		t.Fatalf("Sell() error = %v, want AssetNotFoundError", err)
	}
	if notFound.Ticker != "BBAS3" {
		t.Errorf("AssetNotFoundError.Ticker = %s, want BBAS3", notFound.Ticker)
	}
}
