package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/dcic-turnos/turnos-web/internal/api/middleware"
	"github.com/dcic-turnos/turnos-web/internal/api/session"
	"github.com/dcic-turnos/turnos-web/internal/api/view"
	"github.com/dcic-turnos/turnos-web/internal/core/domain"
	"github.com/dcic-turnos/turnos-web/internal/core/ports"
	"github.com/dcic-turnos/turnos-web/internal/i18n"
)

// ShiftHandler serves the shift list, the shift forms and the card actions.
type ShiftHandler struct {
	responder
	shifts ports.ShiftService
	rooms  ports.RoomService
}

func NewShiftHandler(shifts ports.ShiftService, rooms ports.RoomService, codec *session.Codec, bundle *i18n.Bundle, log zerolog.Logger) *ShiftHandler {
	return &ShiftHandler{
		responder: responder{codec: codec, bundle: bundle, log: log},
		shifts:    shifts,
		rooms:     rooms,
	}
}

// List handles GET / and GET /turnos. Shifts and rooms load concurrently.
//
// @Summary      List visible shifts
// @Tags         shifts
// @Produce      json
// @Param        status  query     string  false  "pending, accepted or cancelled"
// @Success      200     {object}  shiftListResponse
// @Failure      401     {object}  ErrorResponse
// @Failure      503     {object}  ErrorResponse
// @Router       /turnos [get]
func (h *ShiftHandler) List(c echo.Context) error {
	var q listShiftsQuery
	if err := c.Bind(&q); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid query")
	}
	filter := ports.ListShiftsFilter{}
	if st, ok := domain.LookupShiftStatus(q.Status); ok {
		filter.Status = st
	}

	ctx := c.Request().Context()
	viewer := middleware.UserFrom(c)
	var (
		views []ports.ShiftView
		rooms []domain.Room
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		views, err = h.shifts.List(gctx, viewer, filter)
		return err
	})
	g.Go(func() error {
		var err error
		rooms, err = h.rooms.List(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return err
	}

	if middleware.WantsJSON(c) {
		resp := shiftListResponse{Shifts: make([]shiftResponse, 0, len(views)), Rooms: rooms}
		for _, v := range views {
			resp.Shifts = append(resp.Shifts, toShiftResponse(v))
		}
		return c.JSON(http.StatusOK, resp)
	}
	return h.page(c, http.StatusOK, "shifts", "shifts.title", view.ShiftList{Shifts: views, Rooms: rooms, Filter: filter.Status})
}

// Get handles GET /turnos/:id.
//
// @Summary      Get a shift
// @Tags         shifts
// @Produce      json
// @Param        id   path      int  true  "Shift id"
// @Success      200  {object}  shiftResponse
// @Failure      403  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /turnos/{id} [get]
func (h *ShiftHandler) Get(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	v, err := h.shifts.Get(c.Request().Context(), middleware.UserFrom(c), id)
	if err != nil {
		return err
	}
	if !middleware.WantsJSON(c) {
		return c.Redirect(http.StatusSeeOther, fmt.Sprintf("/turnos#turno-%d", id))
	}
	return c.JSON(http.StatusOK, toShiftResponse(*v))
}

// NewPage handles GET /turnos/new.
func (h *ShiftHandler) NewPage(c echo.Context) error {
	rooms, err := h.rooms.List(c.Request().Context())
	if err != nil {
		return err
	}
	return h.page(c, http.StatusOK, "shift_form", "shifts.new.title", view.ShiftForm{Rooms: rooms, Action: "/turnos"})
}

// EditPage handles GET /turnos/:id/edit.
func (h *ShiftHandler) EditPage(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	ctx := c.Request().Context()
	viewer := middleware.UserFrom(c)
	v, err := h.shifts.Get(ctx, viewer, id)
	if err != nil {
		return err
	}
	if !domain.Allows(v.Shift, viewer, domain.ActionEdit) {
		if v.Shift.Status == domain.ShiftCancelled {
			return domain.ErrShiftCancelled
		}
		return domain.ErrForbidden
	}
	rooms, err := h.rooms.List(ctx)
	if err != nil {
		return err
	}
	return h.page(c, http.StatusOK, "shift_form", "shifts.edit.title", view.ShiftForm{
		Shift:  &v.Shift,
		Rooms:  rooms,
		Action: fmt.Sprintf("/turnos/%d", id),
	})
}

// Create handles POST /turnos.
//
// @Summary      Book a room
// @Description  Creates the shift, then invites each distinct DNI one by one. Failed invitations are reported as skipped.
// @Tags         shifts
// @Accept       json
// @Produce      json
// @Param        body  body      shiftRequest  true  "Shift form"
// @Success      200   {object}  actionResponse{data=shiftOutcomeResponse}
// @Failure      422   {object}  actionResponse
// @Router       /turnos [post]
func (h *ShiftHandler) Create(c echo.Context) error {
	const back = "/turnos/new"
	var req shiftRequest
	if err := c.Bind(&req); err != nil {
		return h.failure(c, back, "shift_create", "shifts.create_failed", bindError(err), nil)
	}
	h.normalize(c, &req)
	if err := c.Validate(&req); err != nil {
		return h.failure(c, back, "shift_create", "shifts.create_failed", err, req.formValues())
	}

	out, err := h.shifts.Create(c.Request().Context(), middleware.UserFrom(c), shiftForm(req))
	if err != nil {
		return h.failure(c, back, "shift_create", "shifts.create_failed", err, req.formValues())
	}
	return h.success(c, "/turnos", shiftOutcome("shift_create", "shifts.created", out, middleware.UserFrom(c)))
}

// Update handles POST and PUT /turnos/:id.
//
// @Summary      Edit a shift
// @Description  Updates the shift fields and invites DNIs not invited yet. Existing invitations are kept.
// @Tags         shifts
// @Accept       json
// @Produce      json
// @Param        id    path      int           true  "Shift id"
// @Param        body  body      shiftRequest  true  "Shift form"
// @Success      200   {object}  actionResponse{data=shiftOutcomeResponse}
// @Failure      403   {object}  actionResponse
// @Failure      409   {object}  actionResponse
// @Failure      422   {object}  actionResponse
// @Router       /turnos/{id} [put]
func (h *ShiftHandler) Update(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	back := fmt.Sprintf("/turnos/%d/edit", id)
	var req shiftRequest
	if err := c.Bind(&req); err != nil {
		return h.failure(c, back, "shift_update", "shifts.update_failed", bindError(err), nil)
	}
	h.normalize(c, &req)
	if err := c.Validate(&req); err != nil {
		return h.failure(c, back, "shift_update", "shifts.update_failed", err, req.formValues())
	}

	out, err := h.shifts.Update(c.Request().Context(), middleware.UserFrom(c), id, shiftForm(req))
	if err != nil {
		if errors.Is(err, domain.ErrForbidden) || errors.Is(err, domain.ErrShiftCancelled) || errors.Is(err, domain.ErrShiftNotFound) {
			back = "/turnos"
		}
		return h.failure(c, back, "shift_update", "shifts.update_failed", err, req.formValues())
	}
	return h.success(c, "/turnos", shiftOutcome("shift_update", "shifts.updated", out, middleware.UserFrom(c)))
}

// ChangeStatus handles POST /turnos/:id/status (admins only).
//
// @Summary      Change a shift status
// @Tags         shifts
// @Accept       json
// @Produce      json
// @Param        id    path      int            true  "Shift id"
// @Param        body  body      statusRequest  true  "New status"
// @Success      200   {object}  actionResponse
// @Failure      403   {object}  actionResponse
// @Failure      409   {object}  actionResponse
// @Router       /turnos/{id}/status [post]
func (h *ShiftHandler) ChangeStatus(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var req statusRequest
	if err := c.Bind(&req); err != nil {
		return h.failure(c, "/turnos", "shift_status", "shifts.status_failed", bindError(err), nil)
	}
	back := returnTo(req.ReturnTo, "/turnos")
	if err := c.Validate(&req); err != nil {
		return h.failure(c, back, "shift_status", "shifts.status_failed", err, nil)
	}
	if err := h.shifts.ChangeStatus(c.Request().Context(), middleware.UserFrom(c), id, domain.ShiftStatus(req.Status)); err != nil {
		return h.failure(c, back, "shift_status", "shifts.status_failed", err, nil)
	}
	return h.success(c, back, outcome{action: "shift_status", key: "shifts.status_changed"})
}

// Cancel handles POST /turnos/:id/cancel.
//
// @Summary      Cancel a shift
// @Tags         shifts
// @Produce      json
// @Param        id   path      int  true  "Shift id"
// @Success      200  {object}  actionResponse
// @Failure      403  {object}  actionResponse
// @Router       /turnos/{id}/cancel [post]
func (h *ShiftHandler) Cancel(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	back := returnTo(c.FormValue("return_to"), "/turnos")
	if err := h.shifts.Cancel(c.Request().Context(), middleware.UserFrom(c), id); err != nil {
		return h.failure(c, back, "shift_cancel", "shifts.cancel_failed", err, nil)
	}
	return h.success(c, back, outcome{action: "shift_cancel", key: "shifts.cancelled_ok"})
}

// Accept handles POST /turnos/:id/accept.
//
// @Summary      Accept an invitation
// @Tags         shifts
// @Produce      json
// @Param        id   path      int  true  "Shift id"
// @Success      200  {object}  actionResponse
// @Failure      404  {object}  actionResponse
// @Router       /turnos/{id}/accept [post]
func (h *ShiftHandler) Accept(c echo.Context) error {
	return h.respond(c, true)
}

// Reject handles POST /turnos/:id/reject.
//
// @Summary      Reject an invitation
// @Tags         shifts
// @Produce      json
// @Param        id   path      int  true  "Shift id"
// @Success      200  {object}  actionResponse
// @Failure      404  {object}  actionResponse
// @Router       /turnos/{id}/reject [post]
func (h *ShiftHandler) Reject(c echo.Context) error {
	return h.respond(c, false)
}

func (h *ShiftHandler) respond(c echo.Context, accept bool) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	back := returnTo(c.FormValue("return_to"), "/turnos")
	if err := h.shifts.RespondInvitation(c.Request().Context(), middleware.UserFrom(c), id, accept); err != nil {
		return h.failure(c, back, "invitation_answer", "shifts.invitation_failed", err, nil)
	}
	key := "shifts.invitation_rejected"
	if accept {
		key = "shifts.invitation_accepted"
	}
	return h.success(c, back, outcome{action: "invitation_answer", key: key})
}

// normalize accepts dates and times typed in the display format of the
// request locale and rewrites them in ISO form.
func (h *ShiftHandler) normalize(c echo.Context, req *shiftRequest) {
	loc := h.locale(c)
	if v, err := loc.ParseDate(req.Date); err == nil {
		req.Date = v
	}
	if v, err := loc.ParseTime(req.StartTime); err == nil {
		req.StartTime = v
	}
	if v, err := loc.ParseTime(req.EndTime); err == nil {
		req.EndTime = v
	}
}

func shiftForm(req shiftRequest) ports.ShiftForm {
	return ports.ShiftForm{
		ShiftFields: ports.ShiftFields{
			Date:         req.Date,
			StartTime:    req.StartTime,
			EndTime:      req.EndTime,
			Theme:        req.Theme,
			Participants: req.Participants,
			Notes:        req.Notes,
			Area:         req.Area,
		},
		InviteeDNIs: req.dnis(),
	}
}

func shiftOutcome(action, key string, out *ports.ShiftOutcome, viewer domain.User) outcome {
	o := outcome{
		action: action,
		key:    key,
		args:   []any{len(out.Invited)},
		data: shiftOutcomeResponse{
			Shift:   toShiftResponse(ports.ShiftView{Shift: out.Shift, Actions: domain.CardActions(out.Shift, viewer)}),
			Invited: out.Invited,
			Skipped: out.Skipped,
		},
	}
	if len(out.Skipped) > 0 {
		o.details = append(o.details, message{key: "shifts.skipped", args: []any{strings.Join(out.Skipped, ", ")}})
	}
	return o
}

func toShiftResponse(v ports.ShiftView) shiftResponse {
	actions := v.Actions
	if actions == nil {
		actions = []domain.CardAction{}
	}
	return shiftResponse{Shift: v.Shift, Actions: actions, Invitation: v.Invitation}
}
