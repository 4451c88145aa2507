package handler

import (
	"context"
	"encoding/base64"
	"net/http"
	"unicode/utf8"

	"github.com/pkg/errors"
	"github.com/twilio/twilio-go/twiml"
	"go.uber.org/zap"

	"github.com/stinkyfingers/smsbridge/sms"
)

const (
	unknownSender = "Unknown"
	replyPrefix   = "You said: "
)

// Inbound answers a Twilio incoming-message webhook with a TwiML reply echoing
// the message text. A body that cannot be decoded fails the invocation.
func (h *Handler) Inbound(ctx context.Context, req Request) (Response, error) {
	body, err := decodeBody(req)
	if err != nil {
		return Response{}, err
	}

	params := parseForm(body)
	from := formValue(params, "From", unknownSender)
	text := formValue(params, "Body", "")
	h.log.Info("sms received",
		zap.String("request_id", req.RequestContext.RequestID),
		zap.String("from", sms.MaskNumber(from)),
		zap.Int("length", len(text)),
	)

	reply, err := twiml.Messages([]twiml.Element{
		&twiml.MessagingMessage{Body: replyPrefix + text},
	})
	if err != nil {
		return Response{}, errors.Wrap(err, "build twiml reply")
	}

	return Response{
		StatusCode: http.StatusOK,
		Headers:    map[string]string{"Content-Type": "text/xml"},
		Body:       reply,
	}, nil
}

func decodeBody(req Request) (string, error) {
	if !req.IsBase64Encoded {
		return req.Body, nil
	}
	b, err := base64.StdEncoding.DecodeString(req.Body)
	if err != nil {
		return "", errors.Wrap(err, "decode base64 body")
	}
	if !utf8.Valid(b) {
		return "", errors.New("decode base64 body: invalid utf-8")
	}
	return string(b), nil
}
