// Package handler serves the single function endpoint. Twilio's inbound
// webhook (form-encoded) gets a TwiML reply; every other request is treated
// as a JSON send request and delivered through Twilio.
package handler

import (
	"context"
	"strconv"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	"go.uber.org/zap"

	"github.com/stinkyfingers/smsbridge/config"
	"github.com/stinkyfingers/smsbridge/metrics"
	"github.com/stinkyfingers/smsbridge/sms"
)

type (
	Request  = events.APIGatewayProxyRequest
	Response = events.APIGatewayProxyResponse
)

type Route string

const (
	RouteInbound  Route = "inbound"
	RouteOutbound Route = "outbound"

	formContentType = "application/x-www-form-urlencoded"
)

// SenderFactory builds a Sender for the configured account.
type SenderFactory func(cfg config.Twilio) sms.Sender

type Handler struct {
	twilio    config.Twilio
	newSender SenderFactory
	log       *zap.Logger
}

type Option func(*Handler)

func WithSenderFactory(f SenderFactory) Option {
	return func(h *Handler) { h.newSender = f }
}

func WithLogger(l *zap.Logger) Option {
	return func(h *Handler) { h.log = l }
}

func New(cfg config.Twilio, opts ...Option) *Handler {
	h := &Handler{
		twilio:    cfg,
		newSender: sms.NewTwilio,
		log:       zap.NewNop(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Handle is the function entry point. It runs exactly one of Inbound or
// Outbound and returns its result unchanged.
func (h *Handler) Handle(ctx context.Context, req Request) (Response, error) {
	route := RouteFor(req.Headers)
	log := h.log.With(
		zap.String("request_id", req.RequestContext.RequestID),
		zap.String("route", string(route)),
	)

	var (
		resp Response
		err  error
	)
	switch route {
	case RouteInbound:
		resp, err = h.Inbound(ctx, req)
	default:
		resp, err = h.Outbound(ctx, req)
	}
	if err != nil {
		metrics.Invocations.WithLabelValues(string(route), "error").Inc()
		log.Error("invocation failed", zap.Error(err))
		return resp, err
	}

	metrics.Invocations.WithLabelValues(string(route), strconv.Itoa(resp.StatusCode)).Inc()
	log.Info("invocation complete", zap.Int("status", resp.StatusCode))
	return resp, nil
}

// RouteFor picks the inbound webhook handler for form-encoded requests and the
// outbound send handler for everything else, including missing headers.
func RouteFor(headers map[string]string) Route {
	if strings.Contains(strings.ToLower(Header(headers, "Content-Type")), formContentType) {
		return RouteInbound
	}
	return RouteOutbound
}

// Header returns the value for name, ignoring case. Proxy integrations pass
// headers through with whatever casing the client used.
func Header(headers map[string]string, name string) string {
	if v, ok := headers[strings.ToLower(name)]; ok {
		return v
	}
	if v, ok := headers[name]; ok {
		return v
	}
	if name != "" {
		if v, ok := headers[strings.ToLower(name[:1])+name[1:]]; ok {
			return v
		}
	}

	// map order is random, so pick the smallest matching key
	match, found := "", false
	for k := range headers {
		if strings.EqualFold(k, name) && (!found || k < match) {
			match, found = k, true
		}
	}
	if !found {
		return ""
	}
	return headers[match]
}
