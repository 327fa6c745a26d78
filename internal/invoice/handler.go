package invoice

import (
	"net/http"
	"strconv"

	"github.com/frahmantamala/legal-practice/internal/transport"
)

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(baseHandler *transport.BaseHandler, service ServiceAPI) *Handler {
	return &Handler{
		BaseHandler: baseHandler,
		Service:     service,
	}
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	limit, offset := h.Pagination(r)
	filter := ListFilter{
		Status: r.URL.Query().Get("status"),
		Limit:  limit,
		Offset: offset,
	}
	if v, err := strconv.ParseInt(r.URL.Query().Get("client_id"), 10, 64); err == nil {
		filter.ClientID = v
	}
	if v, err := strconv.ParseInt(r.URL.Query().Get("case_id"), 10, 64); err == nil {
		filter.CaseID = v
	}

	invoices, total, err := h.Service.List(r.Context(), filter)
	if err != nil {
		h.HandleError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, transport.ListResponse{
		Data:   invoices,
		Total:  total,
		Limit:  limit,
		Offset: offset,
	})
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, appErr := h.URLParamID(r, "id")
	if appErr != nil {
		h.WriteAppError(w, appErr)
		return
	}

	inv, err := h.Service.Get(r.Context(), id)
	if err != nil {
		h.HandleError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, inv)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var dto CreateInvoiceDTO
	if appErr := h.DecodeJSON(r, &dto); appErr != nil {
		h.WriteAppError(w, appErr)
		return
	}

	inv, err := h.Service.Create(r.Context(), dto)
	if err != nil {
		h.HandleError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusCreated, inv)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, appErr := h.URLParamID(r, "id")
	if appErr != nil {
		h.WriteAppError(w, appErr)
		return
	}

	var dto UpdateInvoiceDTO
	if appErr := h.DecodeJSON(r, &dto); appErr != nil {
		h.WriteAppError(w, appErr)
		return
	}

	inv, err := h.Service.Update(r.Context(), id, dto)
	if err != nil {
		h.HandleError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, inv)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, appErr := h.URLParamID(r, "id")
	if appErr != nil {
		h.WriteAppError(w, appErr)
		return
	}

	if err := h.Service.Delete(r.Context(), id); err != nil {
		h.HandleError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
