package server

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/aws/aws-lambda-go/events"
	"github.com/oklog/ulid/v2"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Invoker is the function handler the server fronts.
type Invoker interface {
	Handle(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error)
}

// Server runs the function behind a plain HTTP listener, shaping each request
// the way an API Gateway proxy integration would.
type Server struct {
	Invoker Invoker
	Origins []string
	Log     *zap.Logger
}

func NewServer(invoker Invoker, origins []string, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	return &Server{
		Invoker: invoker,
		Origins: origins,
		Log:     log,
	}
}

// NewMux returns the router
func NewMux(s *Server) (http.Handler, error) {
	mux := http.NewServeMux()
	mux.Handle("/", s.cors(s.HandleEvent))
	mux.Handle("/health", s.cors(status))
	mux.Handle("/metrics", promhttp.Handler())
	return mux, nil
}

func (s *Server) isPermittedOrigin(origin string) string {
	for _, permittedOrigin := range s.Origins {
		if permittedOrigin == origin {
			return origin
		}
	}
	return ""
}

func (s *Server) cors(handler func(w http.ResponseWriter, r *http.Request)) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		permittedOrigin := s.isPermittedOrigin(r.Header.Get("Origin"))
		w.Header().Set("Access-Control-Allow-Origin", permittedOrigin)
		w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Accept, Content-Type, Content-Length, Accept-Encoding")
		if r.Method == http.MethodOptions {
			return
		}
		next := http.HandlerFunc(handler)
		next.ServeHTTP(w, r)
	})
}

func status(w http.ResponseWriter, r *http.Request) {
	status := struct {
		Health string `json:"health"`
	}{
		"healthy",
	}
	j, err := json.Marshal(status)
	if err != nil {
		httpError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(j)
}

// HandleEvent converts the request into a proxy event, invokes the function
// and writes its response back.
func (s *Server) HandleEvent(w http.ResponseWriter, r *http.Request) {
	req, err := newEvent(r)
	if err != nil {
		s.Log.Warn("error reading request", zap.Error(err))
		httpError(w, err.Error(), http.StatusBadRequest)
		return
	}

	resp, err := s.Invoker.Handle(r.Context(), req)
	if err != nil {
		// API Gateway answers a failed invocation with a bare 502
		s.Log.Error("invocation error", zap.String("request_id", req.RequestContext.RequestID), zap.Error(err))
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte(`{"message": "Internal server error"}`))
		return
	}

	if err := writeResponse(w, resp); err != nil {
		s.Log.Error("error writing response", zap.Error(err))
	}
}

func newEvent(r *http.Request) (events.APIGatewayProxyRequest, error) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		return events.APIGatewayProxyRequest{}, err
	}

	req := events.APIGatewayProxyRequest{
		HTTPMethod:            r.Method,
		Path:                  r.URL.Path,
		Headers:               make(map[string]string, len(r.Header)),
		MultiValueHeaders:     make(map[string][]string, len(r.Header)),
		QueryStringParameters: make(map[string]string),
		RequestContext: events.APIGatewayProxyRequestContext{
			RequestID: requestID(),
		},
	}
	for k, v := range r.Header {
		req.Headers[k] = strings.Join(v, ",")
		req.MultiValueHeaders[k] = v
	}
	for k, v := range r.URL.Query() {
		req.QueryStringParameters[k] = v[0]
	}

	if utf8.Valid(body) {
		req.Body = string(body)
	} else {
		req.Body = base64.StdEncoding.EncodeToString(body)
		req.IsBase64Encoded = true
	}
	return req, nil
}

func writeResponse(w http.ResponseWriter, resp events.APIGatewayProxyResponse) error {
	body := []byte(resp.Body)
	if resp.IsBase64Encoded {
		b, err := base64.StdEncoding.DecodeString(resp.Body)
		if err != nil {
			httpError(w, err.Error(), http.StatusBadGateway)
			return err
		}
		body = b
	}

	for k, v := range resp.Headers {
		w.Header().Set(k, v)
	}
	for k, vs := range resp.MultiValueHeaders {
		for _, v := range vs {
			w.Header().Add(k, v)
		}
	}
	code := resp.StatusCode
	if code == 0 {
		code = http.StatusOK
	}
	w.WriteHeader(code)
	_, err := w.Write(body)
	return err
}

func requestID() string {
	entropy := ulid.Monotonic(rand.Reader, 0)
	return ulid.MustNew(ulid.Timestamp(time.Now()), entropy).String()
}

func httpError(w http.ResponseWriter, errStr string, code int) {
	j, err := json.Marshal(map[string]interface{}{
		"error": errStr,
		"code":  code,
	})
	if err != nil {
		http.Error(w, err.Error(), code)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(j)
}
