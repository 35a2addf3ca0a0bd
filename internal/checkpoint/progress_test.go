package checkpoint

import (
	"context"
	"errors"
	"testing"
)

func setupStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(":memory:")
	if err != nil {
		t.Fatalf("Open(:memory:) failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })

	ctx := context.Background()
	if err := s.CreateAccount(ctx, Account{ID: "acct-1", DisplayName: "Player One", MiningUnlocked: true}, "tok-1"); err != nil {
		t.Fatalf("CreateAccount() failed: %v", err)
	}
	return s
}

func TestGetProgress_NotFound(t *testing.T) {
	s := setupStore(t)

	_, err := s.GetProgress(context.Background(), "acct-1")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("GetProgress() error = %v, want ErrNotFound", err)
	}
}

func TestPutProgress_RoundTrip(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	boost := int64(5000)
	in := Checkpoint{
		Balance: 51.25,
		Units: []OwnedUnit{
			{ID: "u-1", Type: "raptor", PurchasedAt: 1000},
			{ID: "u-2", Type: "triceratops", PurchasedAt: 2000},
		},
		LastUpdate: 9000,
		LastBoost:  &boost,
	}
	if err := s.PutProgress(ctx, "acct-1", in); err != nil {
		t.Fatalf("PutProgress() failed: %v", err)
	}

	out, err := s.GetProgress(ctx, "acct-1")
	if err != nil {
		t.Fatalf("GetProgress() failed: %v", err)
	}
	if out.Balance != in.Balance {
		t.Errorf("balance = %v, want %v", out.Balance, in.Balance)
	}
	if len(out.Units) != 2 || out.Units[0].Type != "raptor" {
		t.Errorf("units = %+v, want round-tripped units", out.Units)
	}
	if out.LastUpdate != 9000 {
		t.Errorf("lastUpdate = %d, want 9000", out.LastUpdate)
	}
	if out.LastBoost == nil || *out.LastBoost != 5000 {
		t.Errorf("lastBoost = %v, want 5000", out.LastBoost)
	}
}

func TestPutProgress_Upsert(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	if err := s.PutProgress(ctx, "acct-1", Checkpoint{Balance: 100, LastUpdate: 1}); err != nil {
		t.Fatalf("first PutProgress() failed: %v", err)
	}
	if err := s.PutProgress(ctx, "acct-1", Checkpoint{Balance: 200, LastUpdate: 2}); err != nil {
		t.Fatalf("second PutProgress() failed: %v", err)
	}

	cp, err := s.GetProgress(ctx, "acct-1")
	if err != nil {
		t.Fatalf("GetProgress() failed: %v", err)
	}
	if cp.Balance != 200 || cp.LastUpdate != 2 {
		t.Errorf("got balance=%v lastUpdate=%d, want the second write", cp.Balance, cp.LastUpdate)
	}

	// Only one row per account.
	var n int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM progress").Scan(&n); err != nil {
		t.Fatalf("count query failed: %v", err)
	}
	if n != 1 {
		t.Errorf("progress rows = %d, want 1", n)
	}
}

func TestPutProgress_RejectsMalformed(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	cases := []struct {
		name string
		cp   Checkpoint
	}{
		{"negative balance", Checkpoint{Balance: -1, LastUpdate: 1}},
		{"zero lastUpdate", Checkpoint{Balance: 0, LastUpdate: 0}},
		{"unit missing type", Checkpoint{Balance: 0, LastUpdate: 1, Units: []OwnedUnit{{ID: "u-1", PurchasedAt: 1}}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if err := s.PutProgress(ctx, "acct-1", tc.cp); err == nil {
				t.Error("expected validation error, got nil")
			}
		})
	}
}

func TestPutProgress_NilLastBoost(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	if err := s.PutProgress(ctx, "acct-1", Checkpoint{Balance: 0, LastUpdate: 1}); err != nil {
		t.Fatalf("PutProgress() failed: %v", err)
	}
	cp, err := s.GetProgress(ctx, "acct-1")
	if err != nil {
		t.Fatalf("GetProgress() failed: %v", err)
	}
	if cp.LastBoost != nil {
		t.Errorf("lastBoost = %v, want nil", *cp.LastBoost)
	}
}

func TestAccountByToken(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	acct, err := s.AccountByToken(ctx, "tok-1")
	if err != nil {
		t.Fatalf("AccountByToken() failed: %v", err)
	}
	if acct.ID != "acct-1" || !acct.MiningUnlocked {
		t.Errorf("account = %+v, want acct-1 with mining unlocked", acct)
	}

	_, err = s.AccountByToken(ctx, "bogus")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("AccountByToken(bogus) error = %v, want ErrNotFound", err)
	}
}

func TestSetMiningUnlocked(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	if err := s.SetMiningUnlocked(ctx, "acct-1", false); err != nil {
		t.Fatalf("SetMiningUnlocked() failed: %v", err)
	}
	acct, err := s.AccountByToken(ctx, "tok-1")
	if err != nil {
		t.Fatalf("AccountByToken() failed: %v", err)
	}
	if acct.MiningUnlocked {
		t.Error("mining still unlocked after SetMiningUnlocked(false)")
	}

	if err := s.SetMiningUnlocked(ctx, "no-such-acct", true); !errors.Is(err, ErrNotFound) {
		t.Errorf("SetMiningUnlocked(unknown) error = %v, want ErrNotFound", err)
	}
}
