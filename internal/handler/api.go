// Package handler is the HTTP glue: it parses requests, hands them to the
// service layer, and writes the uniform response/error envelopes back out.
// No business rule lives here.
package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/tanvir/feedboard/internal/service"
)

// APIHandler exposes the single operation-invocation endpoint. The client
// names the operation and supplies its arguments as one JSON object; the
// identity comes from the Authorization header, verified by middleware
// before this handler runs.
type APIHandler struct {
	svc    *service.Service
	logger *slog.Logger
}

func NewAPIHandler(svc *service.Service, logger *slog.Logger) *APIHandler {
	return &APIHandler{svc: svc, logger: logger}
}

// invokeRequest is the wire shape of an operation call.
//
//	{"operation": "createPost", "args": {"title": "...", "content": "..."}}
type invokeRequest struct {
	Operation string          `json:"operation"`
	Args      json.RawMessage `json:"args"`
}

// invokeResponse wraps the operation result so the top-level response shape
// is stable whether the result is an object, a list, or a flag.
type invokeResponse struct {
	Data any `json:"data"`
}

// HandleInvoke runs one operation.
//
// HTTP: POST /api
func (h *APIHandler) HandleInvoke(w http.ResponseWriter, r *http.Request) {
	var req invokeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("invalid invoke body", slog.String("error", err.Error()))
		writeJSON(w, http.StatusBadRequest, ErrorEnvelope{
			Message: "request body must be JSON with an operation name",
			Code:    http.StatusBadRequest,
		})
		return
	}

	result, err := h.svc.Invoke(r.Context(), req.Operation, req.Args)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	status := http.StatusOK
	if req.Operation == "registerUser" || req.Operation == "createPost" {
		status = http.StatusCreated
	}
	writeJSON(w, status, invokeResponse{Data: result})
}
