package webhook

import (
	"context"
	"strings"
	"sync"
	"testing"

	"madfam_site_backend/internal/events"
	leadrepo "madfam_site_backend/internal/leads/repository"
	"madfam_site_backend/platform/apperr"
	"madfam_site_backend/platform/logger"

	"github.com/google/uuid"
)

type fakeLeadDirectory struct {
	leads          map[string]leadrepo.Lead
	statusUpdates  map[uuid.UUID]string
	unsubscribed   []string
	findByEmailErr error
}

func newFakeLeadDirectory() *fakeLeadDirectory {
	return &fakeLeadDirectory{
		leads:         map[string]leadrepo.Lead{},
		statusUpdates: map[uuid.UUID]string{},
	}
}

func (f *fakeLeadDirectory) add(email, status string) leadrepo.Lead {
	l := leadrepo.Lead{ID: uuid.New(), Email: email, Status: status}
	f.leads[strings.ToLower(email)] = l
	return l
}

func (f *fakeLeadDirectory) FindByEmail(_ context.Context, email string) (leadrepo.Lead, error) {
	if f.findByEmailErr != nil {
		return leadrepo.Lead{}, f.findByEmailErr
	}
	l, ok := f.leads[strings.ToLower(email)]
	if !ok {
		return leadrepo.Lead{}, leadrepo.ErrLeadNotFound
	}
	return l, nil
}

func (f *fakeLeadDirectory) UpdateStatus(_ context.Context, id uuid.UUID, status string) error {
	f.statusUpdates[id] = status
	return nil
}

func (f *fakeLeadDirectory) MarkUnsubscribed(_ context.Context, email string) error {
	f.unsubscribed = append(f.unsubscribed, email)
	return nil
}

type fakeTouchpoints struct {
	inserted []Touchpoint
}

func (f *fakeTouchpoints) InsertTouchpoint(_ context.Context, tp Touchpoint) error {
	f.inserted = append(f.inserted, tp)
	return nil
}

type recordingBus struct {
	mu        sync.Mutex
	published []events.Event
}

func (b *recordingBus) Publish(_ context.Context, e events.Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.published = append(b.published, e)
}

func (b *recordingBus) PublishSync(ctx context.Context, e events.Event) error {
	b.Publish(ctx, e)
	return nil
}

func (b *recordingBus) Subscribe(string, events.Handler) {}

func (b *recordingBus) statusChanges() []events.LeadStatusChanged {
	b.mu.Lock()
	defer b.mu.Unlock()
	var out []events.LeadStatusChanged
	for _, e := range b.published {
		if sc, ok := e.(events.LeadStatusChanged); ok {
			out = append(out, sc)
		}
	}
	return out
}

func newTestService(dir *fakeLeadDirectory, tps *fakeTouchpoints) *Service {
	log := logger.New("development")
	return NewService(dir, tps, events.NewInMemoryBus(log), log)
}

func TestProcessLeadUpdated(t *testing.T) {
	dir := newFakeLeadDirectory()
	lead := dir.add("maria@empresa.mx", leadrepo.StatusNew)
	tps := &fakeTouchpoints{}
	svc := newTestService(dir, tps)

	result, err := svc.Process(context.Background(), MarketingEvent{
		Event:  EventLeadUpdated,
		Email:  "maria@empresa.mx",
		Status: leadrepo.StatusQualified,
	}, "mautic.example.com")
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}

	if !result.Handled {
		t.Error("Handled = false, want true")
	}
	if got := dir.statusUpdates[lead.ID]; got != leadrepo.StatusQualified {
		t.Errorf("status update = %q, want %q", got, leadrepo.StatusQualified)
	}
	if len(tps.inserted) != 1 {
		t.Fatalf("touchpoints = %d, want 1", len(tps.inserted))
	}
	if tps.inserted[0].SourceDomain != "mautic.example.com" {
		t.Errorf("SourceDomain = %q", tps.inserted[0].SourceDomain)
	}
}

func TestProcessLeadUpdatedUnknownStatus(t *testing.T) {
	dir := newFakeLeadDirectory()
	dir.add("maria@empresa.mx", leadrepo.StatusNew)
	svc := newTestService(dir, &fakeTouchpoints{})

	_, err := svc.Process(context.Background(), MarketingEvent{
		Event:  EventLeadUpdated,
		Email:  "maria@empresa.mx",
		Status: "vip",
	}, "")
	if !apperr.Is(err, apperr.KindValidation) {
		t.Errorf("error = %v, want validation error", err)
	}
}

func TestProcessLeadUpdatedUnknownContact(t *testing.T) {
	dir := newFakeLeadDirectory()
	tps := &fakeTouchpoints{}
	svc := newTestService(dir, tps)

	result, err := svc.Process(context.Background(), MarketingEvent{
		Event:  EventLeadUpdated,
		Email:  "stranger@example.com",
		Status: leadrepo.StatusEngaged,
	}, "")
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}

	// Accepted but not handled; still recorded.
	if result.Handled {
		t.Error("Handled = true for unknown contact, want false")
	}
	if len(tps.inserted) != 1 {
		t.Errorf("touchpoints = %d, want 1", len(tps.inserted))
	}
}

func TestProcessEngagementPromotesNewLeadOnce(t *testing.T) {
	dir := newFakeLeadDirectory()
	fresh := dir.add("fresh@empresa.mx", leadrepo.StatusNew)
	dir.add("known@empresa.mx", leadrepo.StatusQualified)
	svc := newTestService(dir, &fakeTouchpoints{})

	for _, event := range []string{EventEmailOpened, EventEmailClicked} {
		result, err := svc.Process(context.Background(), MarketingEvent{
			Event: event,
			Email: "fresh@empresa.mx",
		}, "")
		if err != nil {
			t.Fatalf("Process(%s) error = %v", event, err)
		}
		if !result.Handled {
			t.Errorf("Process(%s).Handled = false", event)
		}
	}
	if got := dir.statusUpdates[fresh.ID]; got != leadrepo.StatusEngaged {
		t.Errorf("fresh lead status = %q, want engaged", got)
	}

	// A qualified lead does not regress to engaged.
	result, err := svc.Process(context.Background(), MarketingEvent{
		Event: EventEmailOpened,
		Email: "known@empresa.mx",
	}, "")
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if !result.Handled {
		t.Error("Handled = false for known lead")
	}
	if len(dir.statusUpdates) != 1 {
		t.Errorf("statusUpdates = %v, want only the fresh lead", dir.statusUpdates)
	}
}

func TestProcessPublishesStatusChanges(t *testing.T) {
	dir := newFakeLeadDirectory()
	lead := dir.add("maria@empresa.mx", leadrepo.StatusNew)
	fresh := dir.add("fresh@empresa.mx", leadrepo.StatusNew)
	bus := &recordingBus{}
	log := logger.New("development")
	svc := NewService(dir, &fakeTouchpoints{}, bus, log)

	if _, err := svc.Process(context.Background(), MarketingEvent{
		Event:  EventLeadUpdated,
		Email:  "maria@empresa.mx",
		Status: leadrepo.StatusQualified,
	}, ""); err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if _, err := svc.Process(context.Background(), MarketingEvent{
		Event: EventEmailOpened,
		Email: "fresh@empresa.mx",
	}, ""); err != nil {
		t.Fatalf("Process() error = %v", err)
	}

	changes := bus.statusChanges()
	if len(changes) != 2 {
		t.Fatalf("status change events = %d, want 2", len(changes))
	}
	if changes[0].LeadID != lead.ID || changes[0].OldStatus != leadrepo.StatusNew ||
		changes[0].NewStatus != leadrepo.StatusQualified || changes[0].Source != EventLeadUpdated {
		t.Errorf("unexpected first transition: %+v", changes[0])
	}
	if changes[1].LeadID != fresh.ID || changes[1].NewStatus != leadrepo.StatusEngaged ||
		changes[1].Source != EventEmailOpened {
		t.Errorf("unexpected second transition: %+v", changes[1])
	}
}

func TestProcessSameStatusPublishesNoChange(t *testing.T) {
	dir := newFakeLeadDirectory()
	dir.add("maria@empresa.mx", leadrepo.StatusQualified)
	bus := &recordingBus{}
	svc := NewService(dir, &fakeTouchpoints{}, bus, logger.New("development"))

	if _, err := svc.Process(context.Background(), MarketingEvent{
		Event:  EventLeadUpdated,
		Email:  "maria@empresa.mx",
		Status: leadrepo.StatusQualified,
	}, ""); err != nil {
		t.Fatalf("Process() error = %v", err)
	}

	if got := bus.statusChanges(); len(got) != 0 {
		t.Errorf("status change events = %v, want none for a same-status update", got)
	}
}

func TestProcessUnsubscribe(t *testing.T) {
	dir := newFakeLeadDirectory()
	dir.add("done@empresa.mx", leadrepo.StatusEngaged)
	svc := newTestService(dir, &fakeTouchpoints{})

	result, err := svc.Process(context.Background(), MarketingEvent{
		Event: EventEmailUnsubscribed,
		Email: "done@empresa.mx",
	}, "")
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if !result.Handled {
		t.Error("Handled = false, want true")
	}
	if len(dir.unsubscribed) != 1 || dir.unsubscribed[0] != "done@empresa.mx" {
		t.Errorf("unsubscribed = %v", dir.unsubscribed)
	}
}

func TestProcessUnknownEventAcceptedUnhandled(t *testing.T) {
	dir := newFakeLeadDirectory()
	tps := &fakeTouchpoints{}
	svc := newTestService(dir, tps)

	result, err := svc.Process(context.Background(), MarketingEvent{
		Event: "sms.delivered",
		Email: "someone@example.com",
	}, "")
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if result.Handled {
		t.Error("Handled = true for unknown event, want false")
	}
	if len(tps.inserted) != 1 {
		t.Fatalf("touchpoints = %d, want 1", len(tps.inserted))
	}
	if tps.inserted[0].Handled {
		t.Error("touchpoint marked handled for unknown event")
	}
	if tps.inserted[0].EventType != "sms.delivered" {
		t.Errorf("EventType = %q", tps.inserted[0].EventType)
	}
}

func TestProcessEventsRequireEmail(t *testing.T) {
	svc := newTestService(newFakeLeadDirectory(), &fakeTouchpoints{})
	for _, event := range []string{EventLeadUpdated, EventEmailOpened, EventEmailClicked, EventEmailUnsubscribed} {
		_, err := svc.Process(context.Background(), MarketingEvent{Event: event}, "")
		if !apperr.Is(err, apperr.KindValidation) {
			t.Errorf("Process(%s) error = %v, want validation error", event, err)
		}
	}
}

func TestGenerateAPIKeyShape(t *testing.T) {
	plaintext, hash, prefix, err := GenerateAPIKey()
	if err != nil {
		t.Fatalf("GenerateAPIKey() error = %v", err)
	}
	if !strings.HasPrefix(plaintext, "whk_") {
		t.Errorf("plaintext %q missing whk_ prefix", plaintext)
	}
	if len(prefix) != 12 || !strings.HasPrefix(plaintext, prefix) {
		t.Errorf("prefix %q is not the first 12 chars of the key", prefix)
	}
	if HashKey(plaintext) != hash {
		t.Error("HashKey(plaintext) does not match returned hash")
	}
	if HashKey("other") == hash {
		t.Error("different inputs produced the same hash")
	}
}

func TestIsDomainAllowed(t *testing.T) {
	tests := []struct {
		name    string
		origin  string
		allowed []string
		want    bool
	}{
		{"exact match", "https://madfam.io", []string{"madfam.io"}, true},
		{"wildcard any", "https://anything.example", []string{"*"}, true},
		{"wildcard subdomain", "https://www.madfam.io", []string{"*.madfam.io"}, true},
		{"wildcard matches apex", "https://madfam.io", []string{"*.madfam.io"}, true},
		{"non-matching domain", "https://evil.example", []string{"madfam.io"}, false},
		{"empty origin", "", []string{"madfam.io"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isDomainAllowed(tt.origin, tt.allowed); got != tt.want {
				t.Errorf("isDomainAllowed(%q, %v) = %v, want %v", tt.origin, tt.allowed, got, tt.want)
			}
		})
	}
}

func TestTrackingURL(t *testing.T) {
	got, err := TrackingURL(Campaign{
		Slug:       "verano-2026",
		LandingURL: "https://madfam.io/promo",
		UTMSource:  "print",
		UTMMedium:  "qr",
	})
	if err != nil {
		t.Fatalf("TrackingURL() error = %v", err)
	}
	for _, want := range []string{"utm_campaign=verano-2026", "utm_source=print", "utm_medium=qr"} {
		if !strings.Contains(got, want) {
			t.Errorf("TrackingURL() = %q, missing %q", got, want)
		}
	}
}
