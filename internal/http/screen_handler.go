package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/example/booking-screen/internal/application"
	"github.com/example/booking-screen/internal/booking"
)

type screenService interface {
	Enter(ctx context.Context) (application.ScreenResult, error)
	View(ctx context.Context, id string) (application.ScreenResult, error)
	NextMonth(ctx context.Context, id string) (application.ScreenResult, error)
	PrevMonth(ctx context.Context, id string) (application.ScreenResult, error)
	SelectDate(ctx context.Context, id string, day int) (application.TransitionResult, error)
	SelectTime(ctx context.Context, id, slot string) (application.TransitionResult, error)
	Confirm(ctx context.Context, id string) (application.TransitionResult, error)
	Dismiss(ctx context.Context, id string) (application.TransitionResult, error)
	PressTab(ctx context.Context, id, tab string) (application.TransitionResult, error)
	Leave(ctx context.Context, id string) error
}

type ScreenHandler struct {
	service   screenService
	responder responder
	logger    *slog.Logger
}

func NewScreenHandler(service screenService, logger *slog.Logger) *ScreenHandler {
	base := defaultLogger(logger)
	return &ScreenHandler{service: service, responder: newResponder(base), logger: base}
}

func (h *ScreenHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "ScreenHandler", operation, attrs...)
}

// withScreenID resolves the {screenID} path parameter into the request context.
func withScreenID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(chi.URLParam(r, "screenID"))
		next.ServeHTTP(w, r.WithContext(ContextWithScreenID(r.Context(), id)))
	})
}

func (h *ScreenHandler) ready(w http.ResponseWriter) bool {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return false
	}
	return true
}

func (h *ScreenHandler) screenID(w http.ResponseWriter, r *http.Request, operation string) (string, bool) {
	id, ok := ScreenIDFromContext(r.Context())
	if !ok || id == "" {
		h.log(r.Context(), operation, "error_kind", "bad_request").ErrorContext(r.Context(), "missing screen id")
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidScreenID)
		return "", false
	}
	return id, true
}

func (h *ScreenHandler) Create(w http.ResponseWriter, r *http.Request) {
	if !h.ready(w) {
		return
	}

	logger := h.log(r.Context(), "Create")
	result, err := h.service.Enter(r.Context())
	if err != nil {
		logger.ErrorContext(r.Context(), "screen creation failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("screen_id", result.ID).InfoContext(r.Context(), "screen created")
	h.responder.writeJSON(r.Context(), w, http.StatusCreated, toScreenResponse(result))
}

func (h *ScreenHandler) Get(w http.ResponseWriter, r *http.Request) {
	h.serveScreen(w, r, "Get", screenService.View)
}

func (h *ScreenHandler) NextMonth(w http.ResponseWriter, r *http.Request) {
	h.serveScreen(w, r, "NextMonth", screenService.NextMonth)
}

func (h *ScreenHandler) PrevMonth(w http.ResponseWriter, r *http.Request) {
	h.serveScreen(w, r, "PrevMonth", screenService.PrevMonth)
}

func (h *ScreenHandler) serveScreen(w http.ResponseWriter, r *http.Request, operation string, call func(screenService, context.Context, string) (application.ScreenResult, error)) {
	if !h.ready(w) {
		return
	}
	id, ok := h.screenID(w, r, operation)
	if !ok {
		return
	}

	result, err := call(h.service, r.Context(), id)
	if err != nil {
		h.log(r.Context(), operation).
			ErrorContext(r.Context(), "screen request failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, toScreenResponse(result))
}

func (h *ScreenHandler) SelectDate(w http.ResponseWriter, r *http.Request) {
	if !h.ready(w) {
		return
	}
	id, ok := h.screenID(w, r, "SelectDate")
	if !ok {
		return
	}

	var req selectDateRequest
	if !h.decode(w, r, "SelectDate", &req) {
		return
	}
	if req.Day == nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errMissingDay)
		return
	}

	h.serveTransition(w, r, "SelectDate", id, func(ctx context.Context) (application.TransitionResult, error) {
		return h.service.SelectDate(ctx, id, *req.Day)
	})
}

func (h *ScreenHandler) SelectTime(w http.ResponseWriter, r *http.Request) {
	if !h.ready(w) {
		return
	}
	id, ok := h.screenID(w, r, "SelectTime")
	if !ok {
		return
	}

	var req selectTimeRequest
	if !h.decode(w, r, "SelectTime", &req) {
		return
	}
	if req.Slot == nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errMissingSlot)
		return
	}

	h.serveTransition(w, r, "SelectTime", id, func(ctx context.Context) (application.TransitionResult, error) {
		return h.service.SelectTime(ctx, id, *req.Slot)
	})
}

func (h *ScreenHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	if !h.ready(w) {
		return
	}
	id, ok := h.screenID(w, r, "Confirm")
	if !ok {
		return
	}
	h.serveTransition(w, r, "Confirm", id, func(ctx context.Context) (application.TransitionResult, error) {
		return h.service.Confirm(ctx, id)
	})
}

func (h *ScreenHandler) Acknowledge(w http.ResponseWriter, r *http.Request) {
	if !h.ready(w) {
		return
	}
	id, ok := h.screenID(w, r, "Acknowledge")
	if !ok {
		return
	}
	h.serveTransition(w, r, "Acknowledge", id, func(ctx context.Context) (application.TransitionResult, error) {
		return h.service.Dismiss(ctx, id)
	})
}

func (h *ScreenHandler) PressTab(w http.ResponseWriter, r *http.Request) {
	if !h.ready(w) {
		return
	}
	id, ok := h.screenID(w, r, "PressTab")
	if !ok {
		return
	}
	tab := chi.URLParam(r, "tab")
	h.serveTransition(w, r, "PressTab", id, func(ctx context.Context) (application.TransitionResult, error) {
		return h.service.PressTab(ctx, id, tab)
	})
}

func (h *ScreenHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if !h.ready(w) {
		return
	}
	id, ok := h.screenID(w, r, "Delete")
	if !ok {
		return
	}

	logger := h.log(r.Context(), "Delete")
	if err := h.service.Leave(r.Context(), id); err != nil {
		logger.ErrorContext(r.Context(), "screen deletion failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "screen deleted")
	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

func (h *ScreenHandler) serveTransition(w http.ResponseWriter, r *http.Request, operation, id string, call func(context.Context) (application.TransitionResult, error)) {
	logger := h.log(r.Context(), operation)

	result, err := call(r.Context())
	if err != nil {
		logger.ErrorContext(r.Context(), "screen action failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("applied", result.Applied, "navigate_to", string(result.NavigateTo)).
		DebugContext(r.Context(), "screen action handled")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, toTransitionResponse(result))
}

func (h *ScreenHandler) decode(w http.ResponseWriter, r *http.Request, operation string, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		h.log(r.Context(), operation, "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode screen request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return false
	}
	return true
}

type selectDateRequest struct {
	Day *int `json:"day"`
}

type selectTimeRequest struct {
	Slot *string `json:"slot"`
}

type screenResponse struct {
	ScreenID string  `json:"screen_id"`
	View     viewDTO `json:"view"`
}

type transitionResponse struct {
	ScreenID   string  `json:"screen_id"`
	Applied    bool    `json:"applied"`
	NavigateTo string  `json:"navigate_to,omitempty"`
	View       viewDTO `json:"view"`
}

type monthDTO struct {
	Year       int    `json:"year"`
	MonthIndex int    `json:"month_index"`
	Label      string `json:"label"`
}

type dayDTO struct {
	Day      int  `json:"day"`
	Empty    bool `json:"empty"`
	Past     bool `json:"past"`
	Selected bool `json:"selected"`
	Disabled bool `json:"disabled"`
}

type slotDTO struct {
	Slot     string `json:"slot"`
	Selected bool   `json:"selected"`
	Disabled bool   `json:"disabled"`
}

type summaryDTO struct {
	Date      string `json:"date"`
	LongDate  string `json:"long_date"`
	ShortDate string `json:"short_date"`
	Time      string `json:"time"`
}

type buttonDTO struct {
	Label     string `json:"label"`
	Enabled   bool   `json:"enabled"`
	Confirmed bool   `json:"confirmed"`
}

type acknowledgementDTO struct {
	Title   string `json:"title"`
	Message string `json:"message"`
	Action  string `json:"action"`
}

type viewDTO struct {
	Month           monthDTO            `json:"month"`
	Weekdays        []string            `json:"weekdays"`
	Weeks           [][]dayDTO          `json:"weeks"`
	Slots           []slotDTO           `json:"slots"`
	Summary         *summaryDTO         `json:"summary,omitempty"`
	Button          buttonDTO           `json:"button"`
	Acknowledgement *acknowledgementDTO `json:"acknowledgement,omitempty"`
	Phase           string              `json:"phase"`
	Stage           string              `json:"stage"`
	HelpText        string              `json:"help_text"`
}

func toScreenResponse(result application.ScreenResult) screenResponse {
	return screenResponse{ScreenID: result.ID, View: toViewDTO(result.View)}
}

func toTransitionResponse(result application.TransitionResult) transitionResponse {
	return transitionResponse{
		ScreenID:   result.ID,
		Applied:    result.Applied,
		NavigateTo: string(result.NavigateTo),
		View:       toViewDTO(result.View),
	}
}

func toViewDTO(view booking.View) viewDTO {
	dto := viewDTO{
		Month: monthDTO{
			Year:       view.Month.Year,
			MonthIndex: view.Month.Index,
			Label:      view.MonthLabel,
		},
		Weekdays: view.Weekdays[:],
		Weeks:    make([][]dayDTO, 0, len(view.Weeks)),
		Slots:    make([]slotDTO, 0, len(view.Slots)),
		Button: buttonDTO{
			Label:     view.Button.Label,
			Enabled:   view.Button.Enabled,
			Confirmed: view.Button.Confirmed,
		},
		Phase:    view.Phase.String(),
		Stage:    view.Stage.String(),
		HelpText: view.HelpText,
	}

	for _, week := range view.Weeks {
		days := make([]dayDTO, 0, len(week))
		for _, day := range week {
			days = append(days, dayDTO{
				Day:      day.Day,
				Empty:    day.Empty,
				Past:     day.Past,
				Selected: day.Selected,
				Disabled: day.Disabled,
			})
		}
		dto.Weeks = append(dto.Weeks, days)
	}

	for _, slot := range view.Slots {
		dto.Slots = append(dto.Slots, slotDTO{Slot: string(slot.Slot), Selected: slot.Selected, Disabled: slot.Disabled})
	}

	if view.Summary != nil {
		dto.Summary = &summaryDTO{
			Date:      view.Summary.Date.ISO(),
			LongDate:  view.Summary.LongDate,
			ShortDate: view.Summary.ShortDate,
			Time:      string(view.Summary.Time),
		}
	}
	if view.Acknowledgement != nil {
		dto.Acknowledgement = &acknowledgementDTO{
			Title:   view.Acknowledgement.Title,
			Message: view.Acknowledgement.Message,
			Action:  view.Acknowledgement.Action,
		}
	}
	return dto
}
