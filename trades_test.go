package wheel

import (
	"testing"
	"time"
)

func TestNetPremium(t *testing.T) {
	put := NewPut("trading", "AAPL", day(10, time.February, 2024), day(15, time.March, 2024),
		M(45, "USD"), M(0.8, "USD"), M(1, "USD"), "")

	// Open: premium received minus the opening commission.
	checkMoney(t, "open net premium", put.NetPremium(Q(100)), 79, "USD")

	// Bought back: the closing leg's cost and commission come off.
	closed := put.WithClose(day(1, time.March, 2024), M(46, "USD"), M(0.3, "USD"), M(1, "USD"))
	checkMoney(t, "closed net premium", closed.NetPremium(Q(100)), 48, "USD")
}

func TestAssignedAndExercised(t *testing.T) {
	put := NewPut("trading", "AAPL", day(10, time.February, 2024), day(15, time.March, 2024),
		M(45, "USD"), M(0.8, "USD"), M(1, "USD"), "B1")
	if put.Assigned() {
		t.Error("open put reads as assigned")
	}
	if !put.WithClose(day(15, time.March, 2024), M(44, "USD"), M(0, "USD"), M(0, "USD")).Assigned() {
		t.Error("put settling below strike is not assigned")
	}
	if put.WithClose(day(15, time.March, 2024), M(45, "USD"), M(0, "USD"), M(0, "USD")).Assigned() {
		t.Error("put settling at strike reads as assigned")
	}

	call := NewCall("trading", "AAPL", day(10, time.February, 2024), day(15, time.March, 2024),
		M(55, "USD"), M(0.5, "USD"), M(1, "USD"), "B1")
	if call.Exercised() {
		t.Error("open call reads as exercised")
	}
	if !call.WithClose(day(15, time.March, 2024), M(56, "USD"), M(0, "USD"), M(0, "USD")).Exercised() {
		t.Error("call settling above strike is not exercised")
	}
	if call.WithClose(day(15, time.March, 2024), M(55, "USD"), M(0, "USD"), M(0, "USD")).Exercised() {
		t.Error("call settling at strike reads as exercised")
	}
}

func TestActiveAt(t *testing.T) {
	call := NewCall("trading", "AAPL", day(10, time.February, 2024), day(15, time.March, 2024),
		M(55, "USD"), M(0.5, "USD"), M(1, "USD"), "B1")

	if !call.ActiveAt(day(1, time.March, 2024)) {
		t.Error("unexpired open call is not active")
	}
	if !call.ActiveAt(day(15, time.March, 2024)) {
		t.Error("call is not active on its expiry day")
	}
	if call.ActiveAt(day(16, time.March, 2024)) {
		t.Error("expired call is still active")
	}
	closed := call.WithClose(day(1, time.March, 2024), M(50, "USD"), M(0.1, "USD"), M(1, "USD"))
	if closed.ActiveAt(day(2, time.March, 2024)) {
		t.Error("closed call is still active")
	}
}

func TestContractSize(t *testing.T) {
	if _, err := (Instrument{Ticker: "AAPL", Currency: "USD"}).ContractSize(); err == nil {
		t.Error("zero contract size did not fault")
	}
	size, err := (Instrument{Ticker: "AAPL", Currency: "USD", Size: 100}).ContractSize()
	if err != nil {
		t.Fatalf("ContractSize failed: %v", err)
	}
	checkQuantity(t, "size", size, 100)
}
