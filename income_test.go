package wheel

import (
	"testing"
	"time"
)

func TestIncomeGrossPremium(t *testing.T) {
	ref := newTestReference(t)
	rates := newTestRates(t)

	trades := []Trade{
		NewPut("trading", "AAPL", day(10, time.February, 2024), day(15, time.March, 2024),
			M(45, "USD"), M(0.4, "USD"), M(1, "USD"), ""),
		NewCall("trading", "AAPL", day(12, time.February, 2024), day(15, time.March, 2024),
			M(55, "USD"), M(0.5, "USD"), M(1, "USD"), "B1").
			WithClose(day(1, time.March, 2024), M(50, "USD"), M(0.2, "USD"), M(1, "USD")),
	}

	r := NewIncomeReport(ref, trades, rates)
	if len(r.Faults) != 0 {
		t.Fatalf("unexpected faults: %v", r.Faults)
	}

	feb := Month{2024, time.February}
	// Gross cash received per trade is tradePrice x size + commission; the
	// closing leg never reduces it.
	checkMoney(t, "puts", r.Cell(feb, "trading", "USD", IncomePut), 41, "USD")
	checkMoney(t, "calls", r.Cell(feb, "trading", "USD", IncomeCall), 51, "USD")
	checkMoney(t, "total", r.Cell(feb, "trading", "USD", IncomeTotal), 92, "USD")

	// The All row aggregates across accounts, the BASE row converts.
	checkMoney(t, "All total", r.Cell(feb, AccountAll, "USD", IncomeTotal), 92, "USD")
	checkMoney(t, "BASE total", r.Cell(feb, "trading", BaseRow, IncomeTotal), 73.6, "GBP")
	if !r.Estimated[feb] {
		t.Error("current-rate conversion did not mark the month estimated")
	}
}

func TestIncomeAcrossAccounts(t *testing.T) {
	ref := newTestReference(t)
	rates := newTestRates(t)

	trades := []Trade{
		NewPut("trading", "SHEL", day(10, time.February, 2024), day(15, time.March, 2024),
			M(25, "GBP"), M(0.4, "GBP"), M(1, "GBP"), ""),
		NewPut("isa", "SHEL", day(11, time.February, 2024), day(15, time.March, 2024),
			M(25, "GBP"), M(0.6, "GBP"), M(1, "GBP"), ""),
	}

	r := NewIncomeReport(ref, trades, rates)
	feb := Month{2024, time.February}
	checkMoney(t, "trading puts", r.Cell(feb, "trading", "GBP", IncomePut), 41, "GBP")
	checkMoney(t, "isa puts", r.Cell(feb, "isa", "GBP", IncomePut), 61, "GBP")
	checkMoney(t, "All puts", r.Cell(feb, AccountAll, "GBP", IncomePut), 102, "GBP")

	accounts := r.Accounts()
	if len(accounts) != 3 || accounts[2] != AccountAll {
		t.Errorf("Accounts() = %v, want [isa trading All]", accounts)
	}
}

func TestIncomeQuarantine(t *testing.T) {
	ref := newTestReference(t)
	rates := newTestRates(t)

	trades := []Trade{
		NewPut("trading", "WAT", day(10, time.February, 2024), day(15, time.March, 2024),
			M(25, "GBP"), M(0.4, "GBP"), M(1, "GBP"), ""),
		NewPut("trading", "SHEL", day(11, time.February, 2024), day(15, time.March, 2024),
			M(25, "GBP"), M(0.6, "GBP"), M(1, "GBP"), ""),
	}

	r := NewIncomeReport(ref, trades, rates)
	if len(r.Faults) != 1 || r.Faults[0].Kind != FaultMissingInstrument {
		t.Fatalf("Faults = %v, want one missing instrument fault", r.Faults)
	}
	feb := Month{2024, time.February}
	// The healthy ticker still reports.
	checkMoney(t, "SHEL puts", r.Cell(feb, "trading", "GBP", IncomePut), 61, "GBP")
}
