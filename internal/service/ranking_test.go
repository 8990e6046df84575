package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/guttosm/kiwoompulse/internal/domain/models"
	"github.com/guttosm/kiwoompulse/internal/kiwoom"
)

type stubBroker struct {
	token     string
	tokenErr  error
	page      *kiwoom.RankingPage
	rankErr   error
	gotToken  string
	gotFilter kiwoom.Filters
}

func (s *stubBroker) AccessToken(context.Context) (string, error) { return s.token, s.tokenErr }
func (s *stubBroker) TopTradeValueSymbols(_ context.Context, token string, f kiwoom.Filters, _ kiwoom.Continuation) (*kiwoom.RankingPage, error) {
	s.gotToken = token
	s.gotFilter = f
	return s.page, s.rankErr
}

type stubRepo struct {
	snap *models.RankingSnapshot
	err  error
}

func (s *stubRepo) InsertSnapshot(*models.RankingSnapshot) error { return nil }
func (s *stubRepo) LatestSnapshot(string) (*models.RankingSnapshot, error) {
	return s.snap, s.err
}
func (s *stubRepo) HasSnapshotForDate(time.Time, string) (bool, error) { return false, nil }
func (s *stubRepo) ReplaceSnapshot(time.Time, string, *models.RankingSnapshot) error {
	return nil
}

func strp(s string) *string { return &s }

func TestRankingService_Live(t *testing.T) {
	cases := []struct {
		name    string
		broker  *stubBroker
		filters kiwoom.Filters
		want    kiwoom.Filters
		wantErr bool
	}{
		{
			name:    "defaults filled",
			broker:  &stubBroker{token: "tok", page: &kiwoom.RankingPage{}},
			filters: kiwoom.Filters{"mrkt_tp": "001"},
			want:    kiwoom.Filters{"mrkt_tp": "001", "stex_tp": "3", "mang_stk_incls": "1"},
		},
		{
			name:    "caller filters win",
			broker:  &stubBroker{token: "tok", page: &kiwoom.RankingPage{}},
			filters: kiwoom.Filters{"mrkt_tp": "101", "stex_tp": "1", "mang_stk_incls": "0"},
			want:    kiwoom.Filters{"mrkt_tp": "101", "stex_tp": "1", "mang_stk_incls": "0"},
		},
		{
			name:    "token error",
			broker:  &stubBroker{tokenErr: kiwoom.ErrMissingToken},
			wantErr: true,
		},
		{
			name:    "ranking error",
			broker:  &stubBroker{token: "tok", rankErr: errors.New("boom")},
			wantErr: true,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := NewRankingService(tc.broker, &stubRepo{}, Defaults{Exchange: "3", IncludeManaged: "1"})
			page, err := svc.Live(context.Background(), tc.filters)
			if tc.wantErr {
				if err == nil || page != nil {
					t.Fatalf("expected error, got page=%+v err=%v", page, err)
				}
				return
			}
			if err != nil || page == nil {
				t.Fatalf("unexpected page=%+v err=%v", page, err)
			}
			if tc.broker.gotToken != "tok" {
				t.Fatalf("token not forwarded: %q", tc.broker.gotToken)
			}
			if len(tc.broker.gotFilter) != len(tc.want) {
				t.Fatalf("filters=%v, want %v", tc.broker.gotFilter, tc.want)
			}
			for k, v := range tc.want {
				if tc.broker.gotFilter[k] != v {
					t.Fatalf("filters=%v, want %v", tc.broker.gotFilter, tc.want)
				}
			}
		})
	}
}

func TestRankingService_Live_DoesNotMutateCallerFilters(t *testing.T) {
	b := &stubBroker{token: "tok", page: &kiwoom.RankingPage{}}
	svc := NewRankingService(b, &stubRepo{}, Defaults{Exchange: "3"})
	in := kiwoom.Filters{"mrkt_tp": "000"}
	if _, err := svc.Live(context.Background(), in); err != nil {
		t.Fatalf("Live: %v", err)
	}
	if len(in) != 1 {
		t.Fatalf("caller filters mutated: %v", in)
	}
}

func TestRankingService_Collect(t *testing.T) {
	b := &stubBroker{token: "tok", page: &kiwoom.RankingPage{
		Rows: []kiwoom.MarketDataRow{
			{Rank: strp("1"), Code: strp("005930")},
			{Rank: strp("2"), Code: strp("000660"), ChangeSign: strp("5")},
		},
	}}
	svc := NewRankingService(b, &stubRepo{}, Defaults{}).(*rankingService)
	// 2026-10-16 23:30 UTC is already 2026-10-17 in Seoul.
	svc.now = func() time.Time { return time.Date(2026, 10, 16, 23, 30, 0, 0, time.UTC) }

	snap, err := svc.Collect(context.Background(), "101")
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	if snap.ID == "" || snap.Market != "101" || snap.APIID != "ka10032" || snap.ContYn != "N" {
		t.Fatalf("unexpected header %+v", snap)
	}
	if !snap.TradeDate.Equal(time.Date(2026, 10, 17, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("trade date=%v", snap.TradeDate)
	}
	if len(snap.Rows) != 2 || snap.Rows[1].Position != 2 || *snap.Rows[1].ChangeSign != "5" {
		t.Fatalf("unexpected rows %+v", snap.Rows)
	}
	if b.gotFilter["mrkt_tp"] != "101" {
		t.Fatalf("market not requested: %v", b.gotFilter)
	}
}

func TestRankingService_Latest(t *testing.T) {
	want := &models.RankingSnapshot{ID: "x", Market: "000"}
	svc := NewRankingService(&stubBroker{}, &stubRepo{snap: want}, Defaults{})
	got, err := svc.Latest(context.Background(), "000")
	if err != nil || got != want {
		t.Fatalf("got=%v err=%v", got, err)
	}
}
