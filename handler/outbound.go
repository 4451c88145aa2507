package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/stinkyfingers/smsbridge/metrics"
	"github.com/stinkyfingers/smsbridge/sms"
)

const (
	errInvalidJSON   = "Invalid JSON in request body"
	errNotConfigured = "Twilio credentials not configured"
	errMissingFields = "Missing required fields: to, message"
	sentSuccessfully = "SMS sent successfully"
)

type sendResponse struct {
	Message string `json:"message"`
	Sid     string `json:"sid"`
}

// Outbound sends {"to", "message"} through Twilio from the configured number.
// Every failure is reported in the response; the returned error is always nil.
func (h *Handler) Outbound(ctx context.Context, req Request) (Response, error) {
	log := h.log.With(zap.String("request_id", req.RequestContext.RequestID))

	var body sms.Request
	raw, err := decodeBody(req)
	if err == nil {
		err = json.Unmarshal([]byte(raw), &body)
	}
	if err != nil {
		log.Info("rejected send request", zap.Error(err))
		return jsonError(http.StatusBadRequest, errInvalidJSON), nil
	}

	if !h.twilio.Configured() {
		log.Error("twilio credentials not configured")
		return jsonError(http.StatusInternalServerError, errNotConfigured), nil
	}

	if body.To == "" || body.Message == "" {
		return jsonError(http.StatusBadRequest, errMissingFields), nil
	}

	sid, err := h.newSender(h.twilio).Send(ctx, sms.Message{
		From: h.twilio.PhoneNumber,
		To:   body.To,
		Body: body.Message,
	})
	if err != nil {
		kind := sms.Classify(err)
		metrics.ProviderErrors.WithLabelValues(kind).Inc()
		log.Error("sms send failed", zap.String("to", sms.MaskNumber(body.To)), zap.String("kind", kind), zap.Error(err))
		return jsonError(http.StatusInternalServerError, err.Error()), nil
	}

	log.Info("sms sent", zap.String("to", sms.MaskNumber(body.To)), zap.String("sid", sid))
	return jsonResponse(http.StatusOK, sendResponse{Message: sentSuccessfully, Sid: sid}), nil
}

func jsonResponse(code int, v interface{}) Response {
	j, err := json.Marshal(v)
	if err != nil {
		return jsonError(http.StatusInternalServerError, err.Error())
	}
	return Response{
		StatusCode: code,
		Headers:    map[string]string{"Content-Type": "application/json"},
		Body:       string(j),
	}
}

func jsonError(code int, errStr string) Response {
	j, _ := json.Marshal(map[string]string{"error": errStr})
	return Response{
		StatusCode: code,
		Headers:    map[string]string{"Content-Type": "application/json"},
		Body:       string(j),
	}
}
