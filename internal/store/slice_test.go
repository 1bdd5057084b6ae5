package store

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/j-veylop/referral-admin-tui/internal/api"
	"github.com/j-veylop/referral-admin-tui/internal/models"
	"github.com/j-veylop/referral-admin-tui/internal/services/balances"
)

func userSlice() *Slice[models.User, models.UserFilters] {
	return NewSlice(models.User.Key, models.UserFilters{PageSize: 3})
}

func pageOf(ids ...string) models.Paginated[models.User] {
	items := make([]models.User, len(ids))
	for i, id := range ids {
		items[i] = models.User{ID: models.ID(id), Email: id + "@example.com"}
	}
	return models.Paginated[models.User]{
		Items:      items,
		Pagination: models.NormalizePagination(&models.PaginationMeta{Count: 10, CurrentPage: 1, PageSize: 3}, len(items)),
	}
}

func TestNewSlice_StartsOnFirstPage(t *testing.T) {
	s := userSlice()
	snap := s.Snapshot()

	if snap.Filters.Page != 1 || snap.Pagination.CurrentPage != 1 {
		t.Errorf("Expected page 1, got filters %d pagination %d", snap.Filters.Page, snap.Pagination.CurrentPage)
	}
	if snap.Items == nil || snap.Loading || snap.Error != "" {
		t.Errorf("Unexpected initial snapshot: %+v", snap)
	}
}

func TestSetFilters_ResetsPage(t *testing.T) {
	s := userSlice()
	s.SetPage(4)
	if got := s.Filters().Page; got != 4 {
		t.Fatalf("SetPage(4) gave page %d", got)
	}

	f := s.Filters()
	f.Search = "ann"
	s.SetFilters(f)

	got := s.Filters()
	if got.Page != 1 || got.Search != "ann" || got.PageSize != 3 {
		t.Errorf("Expected page reset with search kept, got %+v", got)
	}

	s.SetPage(0)
	if s.Filters().Page != 1 {
		t.Error("SetPage(0) should clamp to 1")
	}
}

func TestRunList_Transitions(t *testing.T) {
	s := userSlice()
	release := make(chan struct{})
	done := make(chan error)

	go func() {
		done <- s.RunList(context.Background(), func(_ context.Context, f models.UserFilters) (models.Paginated[models.User], error) {
			<-release
			return pageOf("1", "2"), nil
		})
	}()

	deadline := time.Now().Add(time.Second)
	for !s.Snapshot().Loading {
		if time.Now().After(deadline) {
			t.Fatal("slice never entered loading")
		}
		time.Sleep(time.Millisecond)
	}
	close(release)
	if err := <-done; err != nil {
		t.Fatalf("RunList() failed: %v", err)
	}

	snap := s.Snapshot()
	if snap.Loading || snap.Error != "" || len(snap.Items) != 2 {
		t.Errorf("Unexpected fulfilled snapshot: %+v", snap)
	}
	if snap.Pagination.TotalPages != 4 {
		t.Errorf("Expected 4 pages, got %d", snap.Pagination.TotalPages)
	}
}

func TestRunList_RejectedKeepsData(t *testing.T) {
	s := userSlice()
	ctx := context.Background()
	_ = s.RunList(ctx, func(context.Context, models.UserFilters) (models.Paginated[models.User], error) {
		return pageOf("1"), nil
	})

	apiErr := &api.Error{StatusCode: 500, Message: "Database unavailable"}
	err := s.RunList(ctx, func(context.Context, models.UserFilters) (models.Paginated[models.User], error) {
		return models.Paginated[models.User]{}, apiErr
	})
	if !errors.Is(err, apiErr) {
		t.Fatalf("Expected the service error, got %v", err)
	}

	snap := s.Snapshot()
	if snap.Loading || snap.Error != "Database unavailable" || len(snap.Items) != 1 {
		t.Errorf("Unexpected rejected snapshot: %+v", snap)
	}

	// The next attempt clears the error when it starts.
	_ = s.RunList(ctx, func(context.Context, models.UserFilters) (models.Paginated[models.User], error) {
		if s.Snapshot().Error != "" {
			t.Error("Error not cleared on pending")
		}
		return pageOf("1"), nil
	})
	s.ClearError()
}

func TestRunList_UsesCurrentFilters(t *testing.T) {
	s := userSlice()
	active := true
	s.SetFilters(models.UserFilters{IsActive: &active, PageSize: 3})
	s.SetPage(2)

	var got models.UserFilters
	_ = s.RunList(context.Background(), func(_ context.Context, f models.UserFilters) (models.Paginated[models.User], error) {
		got = f
		return pageOf(), nil
	})

	if got.Page != 2 || got.IsActive == nil || !*got.IsActive {
		t.Errorf("Fetch received %+v", got)
	}
	if q := api.EncodeQuery(got); q != "is_active=true&page=2&page_size=3" {
		t.Errorf("Query = %q", q)
	}
}

func TestRunList_DiscardsStaleResult(t *testing.T) {
	s := userSlice()
	slow := make(chan struct{})
	slowDone := make(chan error)

	go func() {
		slowDone <- s.RunList(context.Background(), func(context.Context, models.UserFilters) (models.Paginated[models.User], error) {
			<-slow
			return pageOf("old"), nil
		})
	}()

	// Wait for the slow request to be pending before issuing the newer one.
	for !s.Snapshot().Loading {
		time.Sleep(time.Millisecond)
	}

	err := s.RunList(context.Background(), func(context.Context, models.UserFilters) (models.Paginated[models.User], error) {
		return pageOf("new"), nil
	})
	if err != nil {
		t.Fatalf("RunList() failed: %v", err)
	}

	close(slow)
	if err := <-slowDone; !errors.Is(err, ErrStale) {
		t.Errorf("Expected ErrStale for superseded result, got %v", err)
	}

	snap := s.Snapshot()
	if len(snap.Items) != 1 || snap.Items[0].ID != "new" {
		t.Errorf("Stale result overwrote newer state: %+v", snap.Items)
	}
	if snap.Loading {
		t.Error("Slice still loading after both settled")
	}
}

func TestRunDetail_AndClearDetail(t *testing.T) {
	s := userSlice()

	user, err := s.RunDetail(context.Background(), func(context.Context) (models.User, error) {
		return models.User{ID: "7", Email: "seven@example.com"}, nil
	})
	if err != nil || user.ID != "7" {
		t.Fatalf("RunDetail() = %+v, %v", user, err)
	}
	if d := s.Snapshot().Detail; d == nil || d.Email != "seven@example.com" {
		t.Errorf("Detail = %+v", d)
	}

	s.ClearDetail()
	if s.Snapshot().Detail != nil {
		t.Error("ClearDetail() left the detail")
	}
}

func TestRunUpdate_PatchesRowAndDetail(t *testing.T) {
	s := userSlice()
	ctx := context.Background()
	_ = s.RunList(ctx, func(context.Context, models.UserFilters) (models.Paginated[models.User], error) {
		return pageOf("1", "2", "3"), nil
	})
	_, _ = s.RunDetail(ctx, func(context.Context) (models.User, error) {
		return models.User{ID: "2", IsActive: true}, nil
	})

	_, err := s.RunUpdate(ctx, func(context.Context) (models.User, error) {
		return models.User{ID: "2", Email: "two@new.example", IsActive: false}, nil
	})
	if err != nil {
		t.Fatalf("RunUpdate() failed: %v", err)
	}

	snap := s.Snapshot()
	if snap.Items[1].Email != "two@new.example" || snap.Items[0].ID != "1" || snap.Items[2].ID != "3" {
		t.Errorf("Row not patched in place: %+v", snap.Items)
	}
	if snap.Detail == nil || snap.Detail.Email != "two@new.example" {
		t.Errorf("Detail not patched: %+v", snap.Detail)
	}
}

func TestRunUpdate_ConcurrentMutationsBothCommit(t *testing.T) {
	s := userSlice()
	ctx := context.Background()
	_ = s.RunList(ctx, func(context.Context, models.UserFilters) (models.Paginated[models.User], error) {
		return pageOf("1", "2"), nil
	})

	slow := make(chan struct{})
	done := make(chan error)
	go func() {
		_, err := s.RunUpdate(ctx, func(context.Context) (models.User, error) {
			<-slow
			return models.User{ID: "1", Email: "one@patched"}, nil
		})
		done <- err
	}()
	for !s.Snapshot().Loading {
		time.Sleep(time.Millisecond)
	}

	if _, err := s.RunUpdate(ctx, func(context.Context) (models.User, error) {
		return models.User{ID: "2", Email: "two@patched"}, nil
	}); err != nil {
		t.Fatalf("RunUpdate() failed: %v", err)
	}
	close(slow)
	if err := <-done; err != nil {
		t.Fatalf("Slow RunUpdate() failed: %v", err)
	}

	snap := s.Snapshot()
	if snap.Items[0].Email != "one@patched" || snap.Items[1].Email != "two@patched" {
		t.Errorf("Expected both patches, got %+v", snap.Items)
	}
}

func TestRunCreate_PrependsWithinPageSize(t *testing.T) {
	s := userSlice()
	ctx := context.Background()
	_ = s.RunList(ctx, func(context.Context, models.UserFilters) (models.Paginated[models.User], error) {
		return pageOf("1", "2", "3"), nil
	})

	if _, err := s.RunCreate(ctx, func(context.Context) (models.User, error) {
		return models.User{ID: "9"}, nil
	}); err != nil {
		t.Fatalf("RunCreate() failed: %v", err)
	}

	snap := s.Snapshot()
	if len(snap.Items) != 3 || snap.Items[0].ID != "9" || snap.Items[2].ID != "2" {
		t.Errorf("Unexpected items after create: %+v", snap.Items)
	}
	if snap.Pagination.Count != 11 {
		t.Errorf("Count = %d, want 11", snap.Pagination.Count)
	}
}

func TestRunDelete_RemovesRow(t *testing.T) {
	s := userSlice()
	ctx := context.Background()
	_ = s.RunList(ctx, func(context.Context, models.UserFilters) (models.Paginated[models.User], error) {
		return pageOf("1", "2"), nil
	})
	_, _ = s.RunDetail(ctx, func(context.Context) (models.User, error) { return models.User{ID: "2"}, nil })

	if err := s.RunDelete(ctx, "2", func(context.Context) error { return nil }); err != nil {
		t.Fatalf("RunDelete() failed: %v", err)
	}

	snap := s.Snapshot()
	if len(snap.Items) != 1 || snap.Items[0].ID != "1" || snap.Detail != nil || snap.Pagination.Count != 9 {
		t.Errorf("Unexpected state after delete: %+v", snap)
	}

	wantErr := errors.New("in use")
	if err := s.RunDelete(ctx, "1", func(context.Context) error { return wantErr }); !errors.Is(err, wantErr) {
		t.Errorf("Expected delete error, got %v", err)
	}
	if snap := s.Snapshot(); len(snap.Items) != 1 || snap.Error != "in use" {
		t.Errorf("Rejected delete changed data: %+v", snap)
	}
}

func TestRunBulk_PartialFailure(t *testing.T) {
	s := NewSlice(models.Balance.Key, models.BalanceFilters{})

	res, err := s.RunBulk(context.Background(), func(context.Context) (models.BulkResult, error) {
		return models.BulkResult{UpdatedCount: 8, FailedCount: 2}, nil
	})
	if err != nil {
		t.Fatalf("Partial failure must settle as fulfilled, got %v", err)
	}
	if res.UpdatedCount != 8 {
		t.Errorf("Result = %+v", res)
	}

	snap := s.Snapshot()
	if snap.Loading {
		t.Error("Loading not cleared")
	}
	for _, msg := range []string{snap.Warning, snap.Error} {
		if !strings.Contains(msg, "8") || !strings.Contains(msg, "2") {
			t.Errorf("Message %q should contain both counts", msg)
		}
	}

	_, _ = s.RunBulk(context.Background(), func(context.Context) (models.BulkResult, error) {
		return models.BulkResult{UpdatedCount: 3}, nil
	})
	if snap := s.Snapshot(); snap.Warning != "" || snap.Error != "" {
		t.Errorf("Full success left a message: %+v", snap)
	}
}

func TestRunUpdate_BalancePatchOverHTTP(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet:
			_, _ = w.Write([]byte(`{"message":"ok","data":[
				{"user_id":1,"email":"a@x","base_balance":"1.00","total_balance":"1.00"},
				{"user_id":2,"email":"b@x","base_balance":"2.00","total_balance":"2.00"}
			],"pagination":{"count":2,"current_page":1,"total_pages":1,"page_size":20}}`))
		case r.Method == http.MethodPatch && r.URL.Path == balances.BalancesPath+"2/":
			_, _ = w.Write([]byte(`{"message":"updated","data":{"user_id":2,"email":"b@x","base_balance":"7.00","total_balance":"7.00"}}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	client, err := api.New(api.Config{BaseURL: srv.URL}, &memSession{})
	if err != nil {
		t.Fatalf("api.New() failed: %v", err)
	}

	s := NewSlice(models.Balance.Key, models.BalanceFilters{})
	ctx := context.Background()
	if err := s.RunList(ctx, func(ctx context.Context, f models.BalanceFilters) (models.Paginated[models.Balance], error) {
		return balances.ListBalances(ctx, client, f)
	}); err != nil {
		t.Fatalf("RunList() failed: %v", err)
	}

	_, err = s.RunUpdate(ctx, func(ctx context.Context) (models.Balance, error) {
		return balances.UpdateBalance(ctx, client, "2", models.BalanceUpdate{Operation: models.BalanceSet, BaseBalance: "7.00"})
	})
	if err != nil {
		t.Fatalf("RunUpdate() failed: %v", err)
	}

	snap := s.Snapshot()
	if len(snap.Items) != 2 || snap.Items[1].TotalBalance != "7.00" || snap.Items[0].TotalBalance != "1.00" {
		t.Errorf("Balance row not patched in place: %+v", snap.Items)
	}
}

func TestKeyedSlice(t *testing.T) {
	k := NewKeyedSlice[models.Overview]()
	ctx := context.Background()

	if _, err := k.RunKeyed(ctx, "7d", func(context.Context) (models.Overview, error) {
		return models.Overview{TotalUsers: 10}, nil
	}); err != nil {
		t.Fatalf("RunKeyed() failed: %v", err)
	}
	_, _ = k.RunKeyed(ctx, "30d", func(context.Context) (models.Overview, error) {
		return models.Overview{}, errors.New("timeout")
	})

	week := k.Get("7d")
	if !week.Loaded || week.Loading || week.Data.TotalUsers != 10 {
		t.Errorf("7d entry = %+v", week)
	}
	month := k.Get("30d")
	if month.Loaded || month.Error != "timeout" {
		t.Errorf("30d entry = %+v", month)
	}

	// A failed reload keeps the previous data.
	_, _ = k.RunKeyed(ctx, "7d", func(context.Context) (models.Overview, error) {
		return models.Overview{}, errors.New("boom")
	})
	if week := k.Get("7d"); week.Data.TotalUsers != 10 || week.Error != "boom" {
		t.Errorf("7d after failure = %+v", week)
	}

	k.ClearError("7d")
	if k.Get("7d").Error != "" {
		t.Error("ClearError() left the error")
	}
	k.Clear()
	if k.Get("7d").Loaded {
		t.Error("Clear() left entries")
	}
}

func TestOpString(t *testing.T) {
	if OpBulk.String() != "bulk" || Op(99).String() != "unknown" {
		t.Error("unexpected Op names")
	}
}

func TestReset_DropsDataAndDiscardsInflight(t *testing.T) {
	s := userSlice()
	if err := s.RunList(context.Background(), func(context.Context, models.UserFilters) (models.Paginated[models.User], error) {
		return pageOf("1", "2"), nil
	}); err != nil {
		t.Fatal(err)
	}
	s.SetPage(3)

	release := make(chan struct{})
	done := make(chan error)
	go func() {
		done <- s.RunList(context.Background(), func(context.Context, models.UserFilters) (models.Paginated[models.User], error) {
			<-release
			return pageOf("9"), nil
		})
	}()
	for !s.Snapshot().Loading {
		time.Sleep(time.Millisecond)
	}

	s.Reset()
	close(release)
	if err := <-done; !errors.Is(err, ErrStale) {
		t.Errorf("in-flight list after Reset = %v, want ErrStale", err)
	}

	snap := s.Snapshot()
	if len(snap.Items) != 0 || snap.Filters.Page != 1 || snap.Filters.PageSize != 3 {
		t.Errorf("Unexpected snapshot after Reset: %+v", snap)
	}
}
