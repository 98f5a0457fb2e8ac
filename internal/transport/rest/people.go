package rest

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"dentalo/backend/internal/service/registry"
)

func (s *Server) createCustomer(c *gin.Context) {
	var req personRequest
	if !s.bindAndValidate(c, &req) {
		return
	}

	cust, err := s.registry.CreateCustomer(c.Request.Context(), registry.CustomerInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Phone:     req.Phone,
	})
	if err != nil {
		s.writeError(c, err)
		return
	}

	s.log.Info("customer created", slog.Int64("customer_id", cust.ID))
	c.JSON(http.StatusCreated, toCustomerResponse(cust))
}

func (s *Server) listCustomers(c *gin.Context) {
	customers, err := s.registry.ListCustomers(c.Request.Context(), c.Query("active") == "true")
	if err != nil {
		s.writeError(c, err)
		return
	}

	out := make([]customerResponse, 0, len(customers))
	for _, cust := range customers {
		out = append(out, toCustomerResponse(cust))
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) getCustomer(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	cust, err := s.registry.GetCustomer(c.Request.Context(), id)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toCustomerResponse(cust))
}

func (s *Server) updateCustomer(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req personRequest
	if !s.bindAndValidate(c, &req) {
		return
	}

	cust, err := s.registry.UpdateCustomer(c.Request.Context(), id, registry.CustomerInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Phone:     req.Phone,
	})
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toCustomerResponse(cust))
}

func (s *Server) deactivateCustomer(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := s.registry.DeactivateCustomer(c.Request.Context(), id); err != nil {
		s.writeError(c, err)
		return
	}

	s.log.Info("customer deactivated", slog.Int64("customer_id", id))
	c.Status(http.StatusNoContent)
}

func (s *Server) customerAppointments(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	appts, err := s.appts.ListByCustomer(c.Request.Context(), id)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toAppointmentResponses(appts))
}

func (s *Server) createDentist(c *gin.Context) {
	var req personRequest
	if !s.bindAndValidate(c, &req) {
		return
	}

	dent, err := s.registry.CreateDentist(c.Request.Context(), registry.DentistInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Phone:     req.Phone,
		Specialty: req.Specialty,
	})
	if err != nil {
		s.writeError(c, err)
		return
	}

	s.log.Info("dentist created", slog.Int64("dentist_id", dent.ID))
	c.JSON(http.StatusCreated, toDentistResponse(dent))
}

func (s *Server) listDentists(c *gin.Context) {
	dentists, err := s.registry.ListDentists(c.Request.Context(), c.Query("active") == "true")
	if err != nil {
		s.writeError(c, err)
		return
	}

	out := make([]dentistResponse, 0, len(dentists))
	for _, d := range dentists {
		out = append(out, toDentistResponse(d))
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) getDentist(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	dent, err := s.registry.GetDentist(c.Request.Context(), id)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toDentistResponse(dent))
}

func (s *Server) updateDentist(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req personRequest
	if !s.bindAndValidate(c, &req) {
		return
	}

	dent, err := s.registry.UpdateDentist(c.Request.Context(), id, registry.DentistInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Phone:     req.Phone,
		Specialty: req.Specialty,
	})
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toDentistResponse(dent))
}

func (s *Server) deactivateDentist(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := s.registry.DeactivateDentist(c.Request.Context(), id); err != nil {
		s.writeError(c, err)
		return
	}

	s.log.Info("dentist deactivated", slog.Int64("dentist_id", id))
	c.Status(http.StatusNoContent)
}

func (s *Server) dentistAppointments(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	appts, err := s.appts.ListByDentist(c.Request.Context(), id)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toAppointmentResponses(appts))
}
