package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/courtside/booking-engine/internal/core/domain"
	"github.com/courtside/booking-engine/internal/core/services"
)

type BookingHandler struct {
	bookings     *services.BookingService
	availability *services.AvailabilityService
	lifecycle    *services.LifecycleService
	loc          *time.Location
}

func NewBookingHandler(
	bookings *services.BookingService,
	availability *services.AvailabilityService,
	lifecycle *services.LifecycleService,
	loc *time.Location,
) *BookingHandler {
	return &BookingHandler{
		bookings:     bookings,
		availability: availability,
		lifecycle:    lifecycle,
		loc:          loc,
	}
}

func (h *BookingHandler) Register(r *gin.Engine) {
	v1 := r.Group("/v1")
	{
		v1.GET("/facilities/:id/slots", h.Slots)

		v1.POST("/bookings", h.Create)
		v1.GET("/bookings", h.List)
		v1.GET("/bookings/:id", h.Get)
		v1.POST("/bookings/:id/cancel", h.Cancel)
		v1.POST("/bookings/:id/complete", h.Complete)
	}
}

// GET /v1/facilities/:id/slots?date=YYYY-MM-DD
func (h *BookingHandler) Slots(c *gin.Context) {
	facilityID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid facility id"})
		return
	}
	date, err := time.ParseInLocation("2006-01-02", c.Query("date"), h.loc)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date, want YYYY-MM-DD"})
		return
	}

	view, err := h.availability.Slots(c.Request.Context(), facilityID, date)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// POST /v1/bookings
func (h *BookingHandler) Create(c *gin.Context) {
	var req services.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resp, err := h.bookings.Create(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// GET /v1/bookings/:id
func (h *BookingHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid booking id"})
		return
	}

	b, err := h.bookings.Get(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, bookingJSON(b))
}

// GET /v1/bookings?user_id=&facility_id=&status=&date=&page=&page_size=
func (h *BookingHandler) List(c *gin.Context) {
	var f domain.BookingFilter

	if v := c.Query("user_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user_id"})
			return
		}
		f.UserID = &id
	}
	if v := c.Query("facility_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid facility_id"})
			return
		}
		f.FacilityID = &id
	}
	if v := c.Query("status"); v != "" {
		status := domain.BookingStatus(v)
		f.Status = &status
	}
	if v := c.Query("date"); v != "" {
		d, err := time.ParseInLocation("2006-01-02", v, h.loc)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date, want YYYY-MM-DD"})
			return
		}
		f.Date = &d
	}

	var paging struct {
		Page     int32 `form:"page"`
		PageSize int32 `form:"page_size"`
	}
	if err := c.ShouldBindQuery(&paging); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid paging"})
		return
	}
	f.Page = paging.Page
	f.PageSize = paging.PageSize

	items, total, err := h.bookings.List(c.Request.Context(), f)
	if err != nil {
		writeError(c, err)
		return
	}

	out := make([]gin.H, 0, len(items))
	for i := range items {
		out = append(out, bookingJSON(&items[i]))
	}
	c.JSON(http.StatusOK, gin.H{"total": total, "bookings": out})
}

// POST /v1/bookings/:id/cancel
func (h *BookingHandler) Cancel(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid booking id"})
		return
	}

	var in struct {
		ActorID string `json:"actor_id" binding:"required"`
		Admin   bool   `json:"admin"`
		Reason  string `json:"reason"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	actorID, err := uuid.Parse(in.ActorID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid actor_id"})
		return
	}

	b, err := h.lifecycle.Cancel(c.Request.Context(), id, domain.Actor{ID: actorID, Admin: in.Admin}, in.Reason)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, bookingJSON(b))
}

// POST /v1/bookings/:id/complete (administrative)
func (h *BookingHandler) Complete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid booking id"})
		return
	}

	b, err := h.lifecycle.Complete(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, bookingJSON(b))
}

func bookingJSON(b *domain.Booking) gin.H {
	out := gin.H{
		"id":                b.ID.String(),
		"code":              b.Code,
		"facility_id":       b.FacilityID.String(),
		"user_id":           b.UserID.String(),
		"date":              b.Date.Format("2006-01-02"),
		"start":             domain.FormatClock(b.StartMinute),
		"end":               domain.FormatClock(b.EndMinute),
		"duration_minutes":  b.DurationMinutes,
		"total_amount":      b.TotalAmount,
		"commission_amount": b.CommissionAmount,
		"status":            string(b.Status),
		"created_at":        b.CreatedAt,
	}
	if b.SpecialRequest != nil {
		out["special_request"] = *b.SpecialRequest
	}
	if b.CancelReason != nil {
		out["cancellation_reason"] = *b.CancelReason
	}
	if b.PaymentRef != nil {
		out["payment_ref"] = *b.PaymentRef
	}
	if b.ConfirmedAt != nil {
		out["confirmed_at"] = *b.ConfirmedAt
	}
	if b.CancelledAt != nil {
		out["cancelled_at"] = *b.CancelledAt
	}
	return out
}

// writeError maps error kinds to HTTP statuses; unknown errors are
// internal.
func writeError(c *gin.Context, err error) {
	var e *domain.Error
	if !errors.As(err, &e) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(statusForKind(e.Kind), gin.H{"error": e.Message, "code": e.Code})
}

func statusForKind(k domain.Kind) int {
	switch k {
	case domain.KindValidation:
		return http.StatusBadRequest
	case domain.KindNotFound:
		return http.StatusNotFound
	case domain.KindConflict:
		return http.StatusConflict
	case domain.KindPolicy:
		return http.StatusUnprocessableEntity
	case domain.KindState:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
