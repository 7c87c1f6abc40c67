package whatsapp

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/mamadbah2/buffalo/internal/config"
)

// MaxTextLength is the longest text body the Cloud API accepts.
const MaxTextLength = 4096

// ErrNoRecipients is returned when a report has nobody to go to.
var ErrNoRecipients = errors.New("no report recipients configured")

// Sender delivers one text message and returns its message id.
type Sender interface {
	SendText(ctx context.Context, to, body string) (string, error)
}

// APIClient talks to the Cloud API messages endpoint of one business number.
type APIClient struct {
	http          *resty.Client
	phoneNumberID string
}

// NewClient builds a Cloud API client from the report delivery settings.
func NewClient(cfg config.WhatsAppConfig) *APIClient {
	base := strings.TrimSuffix(cfg.BaseURL, "/")

	rc := resty.New().
		SetBaseURL(fmt.Sprintf("%s/%s", base, cfg.APIVersion)).
		SetAuthToken(cfg.AccessToken).
		SetHeader("Content-Type", "application/json").
		SetTimeout(15 * time.Second)

	return &APIClient{http: rc, phoneNumberID: cfg.PhoneNumberID}
}

type textMessage struct {
	MessagingProduct string   `json:"messaging_product"`
	To               string   `json:"to"`
	Type             string   `json:"type"`
	Text             textBody `json:"text"`
}

type textBody struct {
	Body       string `json:"body"`
	PreviewURL bool   `json:"preview_url"`
}

type sendResult struct {
	Messages []struct {
		ID string `json:"id"`
	} `json:"messages"`
}

type apiError struct {
	Error struct {
		Message   string `json:"message"`
		Code      int    `json:"code"`
		FBTraceID string `json:"fbtrace_id"`
	} `json:"error"`
}

// SendText posts one plain text message. The body must already fit in
// MaxTextLength runes; use Chunk for longer reports.
func (c *APIClient) SendText(ctx context.Context, to, body string) (string, error) {
	if to == "" {
		return "", errors.New("send whatsapp message: recipient must not be empty")
	}
	if n := len([]rune(body)); n == 0 || n > MaxTextLength {
		return "", fmt.Errorf("send whatsapp message: body length %d outside 1..%d", n, MaxTextLength)
	}

	result := new(sendResult)
	apiErr := new(apiError)

	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(textMessage{
			MessagingProduct: "whatsapp",
			To:               to,
			Type:             "text",
			Text:             textBody{Body: body},
		}).
		SetResult(result).
		SetError(apiErr).
		Post(c.phoneNumberID + "/messages")
	if err != nil {
		return "", fmt.Errorf("send whatsapp message: %w", err)
	}

	if resp.StatusCode() >= http.StatusBadRequest {
		code := resp.StatusCode()
		if apiErr.Error.Code != 0 {
			code = apiErr.Error.Code
		}
		return "", fmt.Errorf("whatsapp api error: code=%d, message=%s", code, apiErr.Error.Message)
	}

	if len(result.Messages) == 0 {
		return "", nil
	}
	return result.Messages[0].ID, nil
}

// Delivery is the outcome of sending a report to one recipient.
type Delivery struct {
	To         string
	MessageIDs []string
	Err        error
}

// SendReport splits text into message-sized chunks and sends them in order
// to every recipient. A failed chunk stops the rest for that recipient only.
func SendReport(ctx context.Context, sender Sender, recipients []string, text string) ([]Delivery, error) {
	if len(recipients) == 0 {
		return nil, ErrNoRecipients
	}
	chunks := Chunk(text, MaxTextLength)
	if len(chunks) == 0 {
		return nil, errors.New("report text is empty")
	}

	deliveries := make([]Delivery, 0, len(recipients))
	for _, to := range recipients {
		d := Delivery{To: to}
		for i, chunk := range chunks {
			id, err := sender.SendText(ctx, to, chunk)
			if err != nil {
				d.Err = fmt.Errorf("part %d/%d: %w", i+1, len(chunks), err)
				break
			}
			d.MessageIDs = append(d.MessageIDs, id)
		}
		deliveries = append(deliveries, d)
	}
	return deliveries, nil
}

// Chunk splits text into pieces of at most limit runes, breaking between
// lines where it can. Lines longer than limit are cut.
func Chunk(text string, limit int) []string {
	if limit <= 0 {
		limit = MaxTextLength
	}

	var (
		chunks  []string
		current []rune
	)
	flush := func() {
		if piece := strings.Trim(string(current), "\n"); piece != "" {
			chunks = append(chunks, piece)
		}
		current = nil
	}

	for _, line := range strings.SplitAfter(text, "\n") {
		runes := []rune(line)
		for len(runes) > limit {
			flush()
			current = runes[:limit]
			flush()
			runes = runes[limit:]
		}
		if len(current)+len(runes) > limit {
			flush()
		}
		current = append(current, runes...)
	}
	flush()
	return chunks
}
