//
//  Copyright © EduShield Inc. All rights reserved.
//

// Package rest implements the HTTP/JSON decision point.
package rest

import (
	"context"
	"fmt"
	"net/http"

	"github.com/edushield/iccp/pkg/decisionpoint"
	"github.com/edushield/iccp/pkg/iccp/core"
	"github.com/edushield/iccp/pkg/iccp/core/options"
	"github.com/edushield/iccp/pkg/iccp/identity"
	"github.com/edushield/iccp/pkg/iccp/model"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// DecideRequest is the body of POST /v1/decide.
type DecideRequest struct {
	Principal          identity.Principal `json:"principal"`
	RequestedResources []string           `json:"requested_resources"`
}

// DecideResponse is the body returned by POST /v1/decide.
type DecideResponse struct {
	Packet        *model.ContextPacket `json:"packet"`
	AuditEnqueued bool                 `json:"audit_enqueued"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Server exposes the context engine over HTTP.
type Server struct {
	echo *echo.Echo
}

// CreateServer creates and starts a new REST decision point server on port.
//
// Routes:
//
//	POST /v1/decide          evaluate a request and return its context packet
//	GET  /v1/audit/:trace_id fetch one audit entry by trace id
//	GET  /v1/audit?limit=N   list recent audit entries, newest first
//	GET  /v1/packet/example  example packet for an Admin scope (probe mode)
//	GET  /metrics            prometheus metrics
func CreateServer(eng core.Engine, port int) (decisionpoint.Server, error) {
	e := newEcho(eng)

	// Start server in goroutine since e.Start() blocks
	go func() {
		if err := e.Start(fmt.Sprintf(":%d", port)); err != nil && err != http.ErrServerClosed {
			e.Logger.Fatal(err)
		}
	}()

	return &Server{
		echo: e,
	}, nil
}

// Stop gracefully stops the Server by shutting down the Echo HTTP server.
func (s *Server) Stop(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

// newEcho wires the routes onto a fresh echo instance.  Split out from
// CreateServer so tests can drive the handlers with httptest.
func newEcho(eng core.Engine) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	h := &handler{eng: eng}

	e.POST("/v1/decide", h.decide)
	e.GET("/v1/audit/:trace_id", h.auditByTrace)
	e.GET("/v1/audit", h.auditRecent)
	e.GET("/v1/packet/example", h.packetExample)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	return e
}

type handler struct {
	eng core.Engine
}

func (h *handler) decide(c echo.Context) error {
	var req DecideRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "malformed request body"})
	}

	pkt, enqueued, err := h.eng.Process(c.Request().Context(), req.Principal, req.RequestedResources)
	if err != nil {
		var invalid *identity.InvalidPrincipalError
		if errors.As(err, &invalid) {
			return c.JSON(http.StatusUnprocessableEntity, errorResponse{Error: err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, errorResponse{Error: err.Error()})
	}

	return c.JSON(http.StatusOK, DecideResponse{
		Packet:        pkt,
		AuditEnqueued: enqueued,
	})
}

func (h *handler) auditByTrace(c echo.Context) error {
	traceID := c.Param("trace_id")

	entry := h.eng.AuditLog().ByTrace(traceID)
	if entry == nil {
		return c.JSON(http.StatusNotFound, errorResponse{Error: fmt.Sprintf("no audit entry for trace id %q", traceID)})
	}
	return c.JSON(http.StatusOK, entry)
}

func (h *handler) auditRecent(c echo.Context) error {
	limit := 0
	if raw := c.QueryParam("limit"); raw != "" {
		if _, err := fmt.Sscanf(raw, "%d", &limit); err != nil || limit < 0 {
			return c.JSON(http.StatusBadRequest, errorResponse{Error: fmt.Sprintf("invalid limit %q", raw)})
		}
	}

	entries := h.eng.AuditLog().Recent(limit)
	if entries == nil {
		entries = []*model.AuditEntry{}
	}
	return c.JSON(http.StatusOK, entries)
}

// packetExample returns a representative packet without touching the audit
// trail, for integrators exploring the packet format.
func (h *handler) packetExample(c echo.Context) error {
	pkt, _, err := h.eng.Process(c.Request().Context(), identity.Principal{
		UserID: "admin-example",
		Role:   model.RoleAdmin.String(),
	}, h.eng.Catalog().Names(), options.SetProbeMode(true))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, errorResponse{Error: err.Error()})
	}
	return c.JSON(http.StatusOK, pkt)
}
