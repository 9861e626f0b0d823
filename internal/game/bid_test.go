package game

import (
	"testing"

	"github.com/cardtable/tablesvc/internal/cards"
)

// S1: minimum bid and immediate completion.
func TestBidding_MinimumBidImmediateCompletion(t *testing.T) {
	g := newTestGame(cards.Variant36, false)
	startBidding(g)

	if g.CurrentSeat != 0 {
		t.Fatalf("expected seat 0 to bid first, got %s", g.CurrentSeat)
	}

	if _, err := Bid(g, 0, 50, cards.Hearts); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := Pass(g, 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := Pass(g, 2); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := Pass(g, 3); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if g.Phase != PhasePlaying {
		t.Fatalf("expected phase=playing, got %s", g.Phase)
	}
	if g.TrumpSuit != cards.Hearts {
		t.Errorf("expected trump=hearts, got %s", g.TrumpSuit)
	}
	if g.ContractorTeam != Team1 {
		t.Errorf("expected contractorTeam=team1, got %d", g.ContractorTeam)
	}
	if g.CurrentSeat != 0 {
		t.Errorf("expected currentPlayer=seat0, got %s", g.CurrentSeat)
	}
	for _, s := range []SeatPosition{1, 2, 3} {
		if !g.Passed[s] {
			t.Errorf("expected seat %s to be recorded as passed", s)
		}
	}
}

// S2: all-pass redeal.
func TestBidding_AllPassRedeal(t *testing.T) {
	g := newTestGame(cards.Variant36, false)
	startBidding(g)

	for s := SeatPosition(0); s < 4; s++ {
		if _, err := Pass(g, s); err != nil {
			t.Fatalf("unexpected error on pass %s: %v", s, err)
		}
	}

	if g.RoundIndex != 1 {
		t.Errorf("expected round index 1, got %d", g.RoundIndex)
	}
	if g.DealerSeat != 1 {
		t.Errorf("expected dealer rotated to seat 1, got %s", g.DealerSeat)
	}
	if len(g.Passed) != 0 {
		t.Errorf("expected empty passed set, got %v", g.Passed)
	}
	if g.CurrentBid != nil {
		t.Errorf("expected nil current bid, got %+v", g.CurrentBid)
	}
	if g.BiddingPasses != 0 {
		t.Errorf("expected biddingPasses=0, got %d", g.BiddingPasses)
	}
	if g.Phase != PhaseBidding {
		t.Errorf("expected phase=bidding after redeal, got %s", g.Phase)
	}
}

// S3: a bid of 100 terminates bidding immediately.
func TestBidding_HundredTerminatesImmediately(t *testing.T) {
	g := newTestGame(cards.Variant36, false)
	startBidding(g)

	if _, err := Bid(g, 0, 50, cards.Spades); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := Bid(g, 1, 100, cards.Clubs); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if g.Phase != PhasePlaying {
		t.Fatalf("expected phase=playing, got %s", g.Phase)
	}
	if g.TrumpSuit != cards.Clubs {
		t.Errorf("expected trump=clubs, got %s", g.TrumpSuit)
	}
	if g.ContractorTeam != Team2 {
		t.Errorf("expected contractorTeam=team2, got %d", g.ContractorTeam)
	}
}

func TestBidding_RejectsOutOfTurn(t *testing.T) {
	g := newTestGame(cards.Variant36, false)
	startBidding(g)

	_, err := Bid(g, 1, 50, cards.Hearts)
	if err == nil || err.Kind != KindLegality || err.Code != CodeNotYourTurn {
		t.Fatalf("expected not-your-turn legality error, got %v", err)
	}
}

func TestBidding_RejectsNonIncreasingBid(t *testing.T) {
	g := newTestGame(cards.Variant36, false)
	startBidding(g)

	if _, err := Bid(g, 0, 55, cards.Hearts); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := Pass(g, 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_, err := Bid(g, 2, 55, cards.Clubs)
	if err == nil || err.Code != CodeBidTooLow {
		t.Fatalf("expected bid-too-low for a non-increasing bid, got %v", err)
	}
}

func TestBidding_RejectsNonMultipleOfFive(t *testing.T) {
	g := newTestGame(cards.Variant36, false)
	startBidding(g)

	_, err := Bid(g, 0, 52, cards.Hearts)
	if err == nil || err.Code != CodeBidNotMultiple {
		t.Fatalf("expected bid-not-multiple error, got %v", err)
	}
}

func TestBidding_OpposingTeamHighBidTracksOppositeTeam(t *testing.T) {
	g := newTestGame(cards.Variant36, false)
	startBidding(g)

	// seat 0 (team1) bids; seat 1 (team2) out-bids — that bid should
	// register against opposingTeamHighBid since team2 is now opposite
	// the team1 bid that was leading.
	if _, err := Bid(g, 0, 50, cards.Hearts); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := Bid(g, 1, 55, cards.Clubs); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if g.OpposingTeamHighBid != 55 {
		t.Errorf("expected opposingTeamHighBid=55, got %d", g.OpposingTeamHighBid)
	}
}
