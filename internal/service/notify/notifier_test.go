package notify

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/mamadbah2/buffalo/pkg/clients/whatsapp"
)

type sentText struct {
	to   string
	body string
}

type fakeSender struct {
	sent    []sentText
	failFor map[string]error
}

func (f *fakeSender) SendText(_ context.Context, to, body string) (string, error) {
	f.sent = append(f.sent, sentText{to: to, body: body})
	if err := f.failFor[to]; err != nil {
		return "", err
	}
	return "wamid." + to, nil
}

func TestSendReport(t *testing.T) {
	sender := &fakeSender{}
	n := NewWhatsAppNotifier(sender, []string{"911111111111", "922222222222"}, nil)

	require.NoError(t, n.SendReport(context.Background(), "Buffalo report"))

	require.Len(t, sender.sent, 2)
	assert.Equal(t, "911111111111", sender.sent[0].to)
	assert.Equal(t, "Buffalo report", sender.sent[1].body)
}

func TestSendReportSplitsLongReports(t *testing.T) {
	sender := &fakeSender{}
	n := NewWhatsAppNotifier(sender, []string{"911111111111"}, nil)

	report := strings.Repeat("Pending from: Asif 3266.67\n", 300)
	require.NoError(t, n.SendReport(context.Background(), report))

	assert.Len(t, sender.sent, len(whatsapp.Chunk(report, whatsapp.MaxTextLength)))
	assert.Greater(t, len(sender.sent), 1)
}

func TestSendReportContinuesAfterFailure(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	apiErr := errors.New("whatsapp api error: code=131026")
	sender := &fakeSender{failFor: map[string]error{"911111111111": apiErr}}
	n := NewWhatsAppNotifier(sender, []string{"911111111111", "922222222222"}, zap.New(core))

	err := n.SendReport(context.Background(), "Buffalo report")

	require.Error(t, err)
	assert.ErrorIs(t, err, apiErr)
	assert.Len(t, sender.sent, 2, "second recipient still receives the report")
	assert.Equal(t, 1, logs.FilterMessage("report delivery failed").Len())
	assert.Equal(t, 1, logs.FilterMessage("report delivered").Len())
}

func TestSendReportWithoutRecipients(t *testing.T) {
	n := NewWhatsAppNotifier(&fakeSender{}, nil, nil)
	assert.ErrorIs(t, n.SendReport(context.Background(), "x"), whatsapp.ErrNoRecipients)
}
