package notification

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"madfam_site_backend/internal/email"
	"madfam_site_backend/internal/notification/outbox"
	"madfam_site_backend/platform/logger"

	"github.com/google/uuid"
)

type testNotificationConfig struct {
	salesEmail string
	threshold  int
}

func (c testNotificationConfig) GetAppBaseURL() string       { return "https://madfam.io" }
func (c testNotificationConfig) GetSalesEmail() string       { return c.salesEmail }
func (c testNotificationConfig) GetLeadNotifyThreshold() int { return c.threshold }

type testSender struct {
	leadAlertCalls  int
	lastLeadAlertTo string
	lastLeadAlert   email.LeadAlertData

	assessmentCalls  int
	lastAssessmentTo string
	lastAssessment   email.AssessmentResultsData
}

func (s *testSender) SendLeadAlertEmail(_ context.Context, to string, data email.LeadAlertData) error {
	s.leadAlertCalls++
	s.lastLeadAlertTo = to
	s.lastLeadAlert = data
	return nil
}

func (s *testSender) SendAssessmentResultsEmail(_ context.Context, to string, data email.AssessmentResultsData) error {
	s.assessmentCalls++
	s.lastAssessmentTo = to
	s.lastAssessment = data
	return nil
}

func newTestModule(sender email.Sender, cfg testNotificationConfig) *Module {
	return New(sender, nil, nil, cfg, logger.New("development"))
}

func TestDeliverLeadAlert(t *testing.T) {
	sender := &testSender{}
	m := newTestModule(sender, testNotificationConfig{salesEmail: "sales@madfam.io", threshold: 60})

	payload, err := json.Marshal(leadAlertPayload{
		ToEmail: "sales@madfam.io",
		LeadAlertData: email.LeadAlertData{
			LeadName:  "Ana Torres",
			LeadEmail: "ana@empresa.mx",
			Score:     85,
			Tier:      "scale",
		},
	})
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}

	rec := outbox.Record{
		ID:       uuid.New(),
		Kind:     "email",
		Template: templateLeadAlert,
		Payload:  payload,
	}

	if err := m.deliver(context.Background(), rec); err != nil {
		t.Fatalf("deliver: %v", err)
	}
	if sender.leadAlertCalls != 1 {
		t.Fatalf("expected 1 lead alert send, got %d", sender.leadAlertCalls)
	}
	if sender.lastLeadAlertTo != "sales@madfam.io" {
		t.Errorf("unexpected recipient %q", sender.lastLeadAlertTo)
	}
	if sender.lastLeadAlert.LeadName != "Ana Torres" || sender.lastLeadAlert.Score != 85 {
		t.Errorf("payload not forwarded: %+v", sender.lastLeadAlert)
	}
}

func TestDeliverAssessmentResults(t *testing.T) {
	sender := &testSender{}
	m := newTestModule(sender, testNotificationConfig{})

	payload, err := json.Marshal(assessmentResultsPayload{
		ToEmail: "ana@empresa.mx",
		AssessmentResultsData: email.AssessmentResultsData{
			Name:   "Ana Torres",
			Score:  72,
			Locale: "es-MX",
		},
	})
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}

	rec := outbox.Record{
		ID:       uuid.New(),
		Kind:     "email",
		Template: templateAssessmentResults,
		Payload:  payload,
	}

	if err := m.deliver(context.Background(), rec); err != nil {
		t.Fatalf("deliver: %v", err)
	}
	if sender.assessmentCalls != 1 {
		t.Fatalf("expected 1 assessment send, got %d", sender.assessmentCalls)
	}
	if sender.lastAssessmentTo != "ana@empresa.mx" {
		t.Errorf("unexpected recipient %q", sender.lastAssessmentTo)
	}
}

func TestDeliverUnknownTemplate(t *testing.T) {
	sender := &testSender{}
	m := newTestModule(sender, testNotificationConfig{})

	rec := outbox.Record{
		ID:       uuid.New(),
		Kind:     "email",
		Template: "carrier_pigeon",
		Payload:  json.RawMessage(`{}`),
	}

	if err := m.deliver(context.Background(), rec); err == nil {
		t.Fatal("expected error for unknown template")
	}
	if sender.leadAlertCalls != 0 || sender.assessmentCalls != 0 {
		t.Error("no email should be sent for unknown template")
	}
}

func TestRetryDelayBackoff(t *testing.T) {
	cases := []struct {
		attempt int
		want    time.Duration
	}{
		{1, time.Minute},
		{2, 2 * time.Minute},
		{3, 4 * time.Minute},
		{4, 8 * time.Minute},
		{7, 60 * time.Minute},
		{20, 60 * time.Minute},
	}

	for _, tc := range cases {
		if got := retryDelay(tc.attempt); got != tc.want {
			t.Errorf("retryDelay(%d) = %v, want %v", tc.attempt, got, tc.want)
		}
	}
}

func TestLeadAdminURL(t *testing.T) {
	m := newTestModule(&testSender{}, testNotificationConfig{})
	id := uuid.MustParse("0f8fad5b-d9cb-469f-a165-70867728950e")

	got := m.leadAdminURL(id)
	want := "https://madfam.io/admin/leads/0f8fad5b-d9cb-469f-a165-70867728950e"
	if got != want {
		t.Errorf("leadAdminURL = %q, want %q", got, want)
	}
}
