package requestarr

import (
	"context"
	"errors"
	"testing"

	"github.com/fletchd/arrdash/internal/api"
)

type fakeBackend struct {
	instances   *api.InstanceSet
	results     []api.MediaItem
	searchErr   error
	requestErr  error
	requestAns  *api.RequestResult
	lastSearch  [3]string
	lastRequest *api.RequestPayload
	searches    int
}

func (f *fakeBackend) RequestarrInstances(ctx context.Context) (*api.InstanceSet, error) {
	if f.instances == nil {
		return &api.InstanceSet{}, nil
	}
	return f.instances, nil
}

func (f *fakeBackend) SearchMedia(ctx context.Context, q, appType, instanceName string) ([]api.MediaItem, error) {
	f.searches++
	f.lastSearch = [3]string{q, appType, instanceName}
	return f.results, f.searchErr
}

func (f *fakeBackend) RequestMedia(ctx context.Context, payload api.RequestPayload) (*api.RequestResult, error) {
	f.lastRequest = &payload
	if f.requestErr != nil {
		return nil, f.requestErr
	}
	if f.requestAns != nil {
		return f.requestAns, nil
	}
	return &api.RequestResult{Success: true}, nil
}

func batmanResults() []api.MediaItem {
	return []api.MediaItem{
		{TMDBID: 268, MediaType: "movie", Title: "Batman", Year: 1989,
			Availability: api.Availability{Status: api.StatusAvailableToRequest}},
		{TMDBID: 272, MediaType: "movie", Title: "Batman Begins", Year: 2005,
			Availability: api.Availability{Status: api.StatusRequested}},
		{TMDBID: 414, MediaType: "movie", Title: "Batman Forever", Year: 1995,
			Availability: api.Availability{Status: api.StatusAvailable}},
		{TMDBID: 415, MediaType: "movie", Title: "Batman & Robin", Year: 1997,
			Availability: api.Availability{Status: "some_new_status"}},
	}
}

func TestButtonForStatuses(t *testing.T) {
	tests := []struct {
		status      string
		wantLabel   string
		wantEnabled bool
	}{
		{api.StatusAvailable, "Available", false},
		{api.StatusAvailableToRequestMissing, "Request Missing", true},
		{api.StatusRequested, "Already Requested", false},
		{api.StatusAvailableToRequest, "Request", true},
		{api.StatusError, "Unavailable", false},
		{"mystery", "mystery", false},
	}
	for _, tt := range tests {
		got := buttonFor(api.Availability{Status: tt.status})
		if got.Label != tt.wantLabel || got.Enabled != tt.wantEnabled {
			t.Errorf("buttonFor(%q) = %+v, want %q/%v", tt.status, got, tt.wantLabel, tt.wantEnabled)
		}
	}
}

func TestLoadInstancesSelectsFirst(t *testing.T) {
	backend := &fakeBackend{instances: &api.InstanceSet{
		Sonarr: []api.Instance{{Name: "tv-main"}},
	}}
	w := New(backend)

	if err := w.LoadInstances(context.Background()); err != nil {
		t.Fatalf("LoadInstances() error = %v", err)
	}
	app, name := w.Selected()
	if app != api.AppSonarr || name != "tv-main" {
		t.Errorf("Selected() = %q/%q, want sonarr/tv-main", app, name)
	}
}

func TestSearchBuildsCards(t *testing.T) {
	backend := &fakeBackend{results: batmanResults()}
	w := New(backend)
	w.SelectInstance(api.AppSonarr, "tv-main")

	if err := w.Search(context.Background(), "batman"); err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if backend.lastSearch != [3]string{"batman", "sonarr", "tv-main"} {
		t.Errorf("search args = %v", backend.lastSearch)
	}
	if len(w.Cards) != 4 {
		t.Fatalf("cards = %d, want 4", len(w.Cards))
	}

	requested := w.Cards[1]
	if requested.Button.Enabled || requested.Button.Label != "Already Requested" {
		t.Errorf("requested card button = %+v", requested.Button)
	}
	if w.Cards[0].Button.Label != "Request" || !w.Cards[0].Button.Enabled {
		t.Errorf("requestable card button = %+v", w.Cards[0].Button)
	}
}

func TestSearchWithoutInstance(t *testing.T) {
	w := New(&fakeBackend{})
	if err := w.Search(context.Background(), "batman"); err == nil {
		t.Error("Search() without an instance should fail")
	}
	if w.Status == "" {
		t.Error("expected inline status message")
	}
}

func TestSearchNoResults(t *testing.T) {
	w := New(&fakeBackend{})
	w.SelectInstance(api.AppRadarr, "movies")

	if err := w.Search(context.Background(), "zzzz"); err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if w.Status != "No results" {
		t.Errorf("Status = %q, want %q", w.Status, "No results")
	}
}

func TestRequestFlipsCardWithoutRefetch(t *testing.T) {
	backend := &fakeBackend{
		results:    batmanResults(),
		requestAns: &api.RequestResult{Success: true, Message: "Added to queue"},
	}
	w := New(backend)
	w.SelectInstance(api.AppRadarr, "movies")
	if err := w.Search(context.Background(), "batman"); err != nil {
		t.Fatal(err)
	}
	searchesBefore := backend.searches

	if err := w.Request(context.Background(), 0); err != nil {
		t.Fatalf("Request() error = %v", err)
	}

	card := w.Cards[0]
	if card.Button.Enabled || card.Button.Label != "Requested" {
		t.Errorf("card button = %+v, want disabled Requested", card.Button)
	}
	if card.Item.Availability.Status != api.StatusRequested {
		t.Errorf("availability = %+v, want requested", card.Item.Availability)
	}
	if card.StatusLine() != "Added to queue" {
		t.Errorf("StatusLine() = %q", card.StatusLine())
	}
	if backend.searches != searchesBefore {
		t.Error("Request() triggered a refetch")
	}

	if backend.lastRequest.TMDBID != 268 || backend.lastRequest.AppType != "radarr" ||
		backend.lastRequest.InstanceName != "movies" {
		t.Errorf("posted payload = %+v", backend.lastRequest)
	}
}

func TestRequestOnDisabledCardIsNoOp(t *testing.T) {
	backend := &fakeBackend{results: batmanResults()}
	w := New(backend)
	w.SelectInstance(api.AppRadarr, "movies")
	if err := w.Search(context.Background(), "batman"); err != nil {
		t.Fatal(err)
	}

	// Card 1 is already requested.
	if err := w.Request(context.Background(), 1); err != nil {
		t.Errorf("Request() on disabled card = %v, want nil", err)
	}
	if backend.lastRequest != nil {
		t.Error("disabled card still posted a request")
	}
}

func TestRequestFailureKeepsCard(t *testing.T) {
	backend := &fakeBackend{
		results:    batmanResults(),
		requestErr: errors.New("boom"),
	}
	w := New(backend)
	w.SelectInstance(api.AppRadarr, "movies")
	if err := w.Search(context.Background(), "batman"); err != nil {
		t.Fatal(err)
	}

	if err := w.Request(context.Background(), 0); err == nil {
		t.Fatal("Request() expected error")
	}
	if w.Cards[0].Button.Label != "Request" || !w.Cards[0].Button.Enabled {
		t.Errorf("failed request changed the card: %+v", w.Cards[0].Button)
	}
	if w.Status == "" {
		t.Error("expected inline error status")
	}
}

func TestRequestRejectedByBackend(t *testing.T) {
	backend := &fakeBackend{
		results:    batmanResults(),
		requestAns: &api.RequestResult{Success: false, Message: "quota exceeded"},
	}
	w := New(backend)
	w.SelectInstance(api.AppRadarr, "movies")
	if err := w.Search(context.Background(), "batman"); err != nil {
		t.Fatal(err)
	}

	if err := w.Request(context.Background(), 0); err == nil {
		t.Fatal("Request() expected error for rejected request")
	}
	if w.Status != "quota exceeded" {
		t.Errorf("Status = %q, want backend message", w.Status)
	}
}
