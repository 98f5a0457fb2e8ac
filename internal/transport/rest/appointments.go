package rest

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"dentalo/backend/internal/domain"
	"dentalo/backend/internal/service/appointments"
	"dentalo/backend/internal/store"
)

func (s *Server) createAppointment(c *gin.Context) {
	var req createAppointmentRequest
	if !s.bindAndValidate(c, &req) {
		return
	}

	appt, err := s.appts.Create(c.Request.Context(), appointments.CreateInput{
		CustomerID:    req.CustomerID,
		DentistID:     req.DentistID,
		StartTime:     req.StartTime,
		ProcedureType: req.ProcedureType,
		Notes:         req.Notes,
	})
	if err != nil {
		s.writeError(c, err)
		return
	}

	s.log.Info("appointment created",
		slog.Int64("appointment_id", appt.ID),
		slog.Int64("customer_id", appt.CustomerID),
		slog.Int64("dentist_id", appt.DentistID),
		slog.Time("start_time", appt.StartTime),
	)
	c.JSON(http.StatusCreated, toAppointmentResponse(appt))
}

func (s *Server) listAppointments(c *gin.Context) {
	var query struct {
		CustomerID int64  `form:"customer_id"`
		DentistID  int64  `form:"dentist_id"`
		From       string `form:"from"`
		To         string `form:"to"`
		Status     string `form:"status"`
		Page       int    `form:"page"`
		PageSize   int    `form:"page_size"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid query parameters"})
		return
	}

	filter := store.ListFilter{
		CustomerID: query.CustomerID,
		DentistID:  query.DentistID,
		Status:     domain.AppointmentStatus(query.Status),
		Page:       query.Page,
		PageSize:   query.PageSize,
	}

	var ok bool
	if filter.From, ok = parseTimeParam(c, query.From, "from"); !ok {
		return
	}
	if filter.To, ok = parseTimeParam(c, query.To, "to"); !ok {
		return
	}

	appts, err := s.appts.List(c.Request.Context(), filter)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toAppointmentResponses(appts))
}

func (s *Server) getAppointment(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	appt, err := s.appts.Get(c.Request.Context(), id)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toAppointmentResponse(appt))
}

func (s *Server) updateAppointment(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req updateAppointmentRequest
	if !s.bindAndValidate(c, &req) {
		return
	}

	appt, err := s.appts.Update(c.Request.Context(), id, appointments.UpdateInput{
		CustomerID:    req.CustomerID,
		DentistID:     req.DentistID,
		StartTime:     req.StartTime,
		ProcedureType: req.ProcedureType,
		Notes:         req.Notes,
	})
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toAppointmentResponse(appt))
}

func (s *Server) deleteAppointment(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := s.appts.Delete(c.Request.Context(), id); err != nil {
		s.writeError(c, err)
		return
	}

	s.log.Info("appointment deleted", slog.Int64("appointment_id", id))
	c.Status(http.StatusNoContent)
}

func (s *Server) updateAppointmentStatus(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req updateStatusRequest
	if !s.bindAndValidate(c, &req) {
		return
	}

	appt, err := s.appts.UpdateStatus(c.Request.Context(), id, domain.AppointmentStatus(req.Status), req.Reason)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toAppointmentResponse(appt))
}

func (s *Server) requestCancellation(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req requestCancellationRequest
	if !s.bindAndValidate(c, &req) {
		return
	}

	appt, err := s.appts.RequestCancellation(c.Request.Context(), id, req.CustomerID)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toAppointmentResponse(appt))
}

func (s *Server) cancelAppointment(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	appt, err := s.appts.Cancel(c.Request.Context(), id)
	if err != nil {
		s.writeError(c, err)
		return
	}

	s.log.Info("appointment cancelled", slog.Int64("appointment_id", id))
	c.JSON(http.StatusOK, toAppointmentResponse(appt))
}

func (s *Server) completeAppointment(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	appt, err := s.appts.Complete(c.Request.Context(), id)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toAppointmentResponse(appt))
}

// schedule is the clinic-wide view of booked appointments, defaulting to
// today.
func (s *Server) schedule(c *gin.Context) {
	from, ok := parseTimeParam(c, c.Query("from"), "from")
	if !ok {
		return
	}
	to, ok := parseTimeParam(c, c.Query("to"), "to")
	if !ok {
		return
	}
	if from.IsZero() {
		now := time.Now().UTC()
		from = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	}
	if to.IsZero() {
		to = from.AddDate(0, 0, 1)
	}

	appts, err := s.appts.Schedule(c.Request.Context(), from, to)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toAppointmentResponses(appts))
}

func (s *Server) availableSlots(c *gin.Context) {
	dentistID, err := parseInt64(c.Query("dentist_id"))
	if err != nil || dentistID <= 0 {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "dentist_id must be a positive integer"})
		return
	}
	s.slotsForDentist(c, dentistID)
}

func (s *Server) dentistSlots(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	s.slotsForDentist(c, id)
}

// slotsForDentist reads the from/to window from the query, defaulting to
// the next seven days.
func (s *Server) slotsForDentist(c *gin.Context, dentistID int64) {
	from, ok := parseTimeParam(c, c.Query("from"), "from")
	if !ok {
		return
	}
	to, ok := parseTimeParam(c, c.Query("to"), "to")
	if !ok {
		return
	}
	if from.IsZero() {
		from = time.Now().UTC()
	}
	if to.IsZero() {
		to = from.AddDate(0, 0, 7)
	}

	slots, err := s.appts.AvailableSlots(c.Request.Context(), dentistID, from, to)
	if err != nil {
		s.writeError(c, err)
		return
	}
	if slots == nil {
		slots = []time.Time{}
	}
	c.JSON(http.StatusOK, slotsResponse{DentistID: dentistID, Slots: slots})
}

func (s *Server) checkSlot(c *gin.Context) {
	dentistID, err := parseInt64(c.Query("dentist_id"))
	if err != nil || dentistID <= 0 {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "dentist_id must be a positive integer"})
		return
	}
	at, err := time.Parse(time.RFC3339, c.Query("at"))
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "at must be an RFC3339 timestamp"})
		return
	}

	available, err := s.appts.SlotAvailable(c.Request.Context(), dentistID, at)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"dentist_id": dentistID, "at": at, "available": available})
}

func parseTimeParam(c *gin.Context, raw, name string) (time.Time, bool) {
	if raw == "" {
		return time.Time{}, true
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		// Date-only values are accepted for convenience.
		t, err = time.Parse("2006-01-02", raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, errorResponse{Error: name + " must be an RFC3339 timestamp or YYYY-MM-DD date"})
			return time.Time{}, false
		}
	}
	return t, true
}
