package sms

import (
	"context"
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"github.com/twilio/twilio-go/client"
)

// Sender delivers a single message and returns the provider-assigned id.
type Sender interface {
	Send(ctx context.Context, msg Message) (string, error)
}

// Request is the JSON body accepted by the outbound send path.
type Request struct {
	To      string `json:"to"`
	Message string `json:"message"`
}

type Message struct {
	From string
	To   string
	Body string
}

const (
	KindProvider  = "provider"
	KindTransport = "transport"
)

// ProviderError is returned when the provider answered and rejected the message.
type ProviderError struct {
	Status   int
	Code     int
	Message  string
	MoreInfo string
}

func (e *ProviderError) Error() string {
	if e.Code == 0 {
		return fmt.Sprintf("status %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("status %d: code %d: %s", e.Status, e.Code, e.Message)
}

func providerError(err error) error {
	var restErr *client.TwilioRestError
	if !errors.As(err, &restErr) {
		return err
	}
	return &ProviderError{
		Status:   restErr.Status,
		Code:     restErr.Code,
		Message:  restErr.Message,
		MoreInfo: restErr.MoreInfo,
	}
}

// Classify separates provider rejections from every other failure
// (network, timeouts, undecodable responses).
func Classify(err error) string {
	var perr *ProviderError
	if errors.As(err, &perr) {
		return KindProvider
	}
	return KindTransport
}

// MaskNumber hides all but the last four characters of a phone number so it
// can be logged. Values without digits, such as "Unknown", are returned as is.
func MaskNumber(number string) string {
	if !strings.ContainsAny(number, "0123456789") {
		return number
	}
	if len(number) <= 4 {
		return strings.Repeat("*", len(number))
	}
	return strings.Repeat("*", len(number)-4) + number[len(number)-4:]
}
