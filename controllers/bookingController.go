package controllers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/JioBaba369/Go2Culture-sub001/helpers"
	"github.com/JioBaba369/Go2Culture-sub001/models"
)

type createBookingRequest struct {
	HostID       string `json:"host_id" validate:"required"`
	ExperienceID string `json:"experience_id" validate:"required"`
	Details      string `json:"details"`
}

type rescheduleRequest struct {
	Note string `json:"note" validate:"required"`
}

type reviewRequest struct {
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
	Comment string `json:"comment"`
}

// BookingController carries the domain actions that feed the notification
// emitter. Every handler commits its booking write first; the notification is
// a detached best-effort side effect, so a feed problem can never fail a
// booking.
type BookingController struct {
	bookings *mongo.Collection
	users    *mongo.Collection
	notifier *helpers.Notifier
	alerts   *helpers.Alerts
}

func NewBookingController(db *mongo.Database, notifier *helpers.Notifier, alerts *helpers.Alerts) *BookingController {
	return &BookingController{
		bookings: db.Collection("bookings"),
		users:    db.Collection("users"),
		notifier: notifier,
		alerts:   alerts,
	}
}

// Create files a pending booking request with a host.
func (bc *BookingController) Create() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
		defer cancel()

		guestID := c.GetString("user_id")

		var req createBookingRequest
		if err := c.BindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if err := validate.Struct(req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		var host models.User
		err := bc.users.FindOne(ctx, bson.M{"user_id": req.HostID, "user_type": helpers.TypeHost}).Decode(&host)
		if errors.Is(err, mongo.ErrNoDocuments) {
			c.JSON(http.StatusNotFound, gin.H{"error": "this host is no longer available"})
			return
		}
		if err != nil {
			log.Println("❌ [Create] host lookup failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not complete"})
			return
		}

		now := time.Now().UTC()
		booking := models.Booking{
			ID:           primitive.NewObjectID(),
			GuestID:      guestID,
			HostID:       req.HostID,
			ExperienceID: req.ExperienceID,
			Details:      req.Details,
			Status:       models.BookingPending,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if _, err := bc.bookings.InsertOne(ctx, booking); err != nil {
			log.Println("❌ [Create] insert failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "booking could not be created"})
			return
		}

		bc.notifier.Notify(ctx, req.HostID, models.NotificationBookingRequested, booking.ID.Hex())
		c.JSON(http.StatusOK, gin.H{"message": "booking requested", "data": booking})
	}
}

// Confirm lets the booking's host confirm a pending request.
func (bc *BookingController) Confirm() gin.HandlerFunc {
	return func(c *gin.Context) {
		bc.transition(c, decideConfirm)
	}
}

// Cancel lets either party cancel; the counterparty is notified.
func (bc *BookingController) Cancel() gin.HandlerFunc {
	return func(c *gin.Context) {
		bc.transition(c, decideCancel)
	}
}

func decideConfirm(booking *models.Booking, callerID string) (string, string, models.NotificationType, error) {
	if booking.HostID != callerID {
		return "", "", "", errNotBookingParty
	}
	if booking.Status != models.BookingPending {
		return "", "", "", errBadBookingState
	}
	return models.BookingConfirmed, booking.GuestID, models.NotificationBookingConfirmed, nil
}

func decideCancel(booking *models.Booking, callerID string) (string, string, models.NotificationType, error) {
	counterparty, err := bookingCounterparty(booking, callerID)
	if err != nil {
		return "", "", "", err
	}
	if booking.Status == models.BookingCancelled {
		return "", "", "", errBadBookingState
	}
	return models.BookingCancelled, counterparty, models.NotificationBookingCancelled, nil
}

var (
	errNotBookingParty = errors.New("caller is not a party to this booking")
	errBadBookingState = errors.New("booking is not in a state that allows this action")
)

func bookingCounterparty(booking *models.Booking, callerID string) (string, error) {
	switch callerID {
	case booking.GuestID:
		return booking.HostID, nil
	case booking.HostID:
		return booking.GuestID, nil
	default:
		return "", errNotBookingParty
	}
}

// transition loads the booking, applies the decide callback, commits the
// status change and then emits the notification best-effort.
func (bc *BookingController) transition(c *gin.Context, decide func(*models.Booking, string) (status string, recipient string, notifType models.NotificationType, err error)) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	callerID := c.GetString("user_id")
	booking, ok := bc.loadBooking(c, ctx)
	if !ok {
		return
	}

	status, recipient, notifType, err := decide(booking, callerID)
	if errors.Is(err, errNotBookingParty) {
		bc.alerts.Report("permission violation: " + callerID + " tried to act on booking " + booking.ID.Hex())
		c.JSON(http.StatusForbidden, gin.H{"error": "could not complete"})
		return
	}
	if errors.Is(err, errBadBookingState) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "booking is not in a state that allows this action"})
		return
	}
	if err != nil {
		// No decide outcome may reach the store unchecked: an unclassified
		// error must not commit a half-decided status.
		log.Println("❌ [transition] decide failed:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not complete"})
		return
	}

	update := bson.M{"$set": bson.M{"status": status, "updated_at": time.Now().UTC()}}
	if _, err := bc.bookings.UpdateOne(ctx, bson.M{"_id": booking.ID}, update); err != nil {
		log.Println("❌ [transition] update failed:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not complete"})
		return
	}

	bc.notifier.Notify(ctx, recipient, notifType, booking.ID.Hex())
	c.JSON(http.StatusOK, gin.H{"message": "booking " + status})
}

// Reschedule records a reschedule note from one party and alerts the other.
func (bc *BookingController) Reschedule() gin.HandlerFunc {
	return bc.reschedule(models.NotificationRescheduleRequested)
}

// RescheduleRespond is the counterparty's answer to a reschedule request.
func (bc *BookingController) RescheduleRespond() gin.HandlerFunc {
	return bc.reschedule(models.NotificationRescheduleResponded)
}

func (bc *BookingController) reschedule(notifType models.NotificationType) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
		defer cancel()

		callerID := c.GetString("user_id")

		var req rescheduleRequest
		if err := c.BindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if err := validate.Struct(req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		booking, ok := bc.loadBooking(c, ctx)
		if !ok {
			return
		}
		counterparty, err := bookingCounterparty(booking, callerID)
		if err != nil {
			bc.alerts.Report("permission violation: " + callerID + " tried to reschedule booking " + booking.ID.Hex())
			c.JSON(http.StatusForbidden, gin.H{"error": "could not complete"})
			return
		}

		update := bson.M{"$set": bson.M{"reschedule_note": req.Note, "updated_at": time.Now().UTC()}}
		if _, err := bc.bookings.UpdateOne(ctx, bson.M{"_id": booking.ID}, update); err != nil {
			log.Println("❌ [reschedule] update failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not complete"})
			return
		}

		bc.notifier.Notify(ctx, counterparty, notifType, booking.ID.Hex())
		c.JSON(http.StatusOK, gin.H{"message": "reschedule recorded"})
	}
}

// Review lets the guest review a confirmed booking; the host is notified.
func (bc *BookingController) Review() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
		defer cancel()

		callerID := c.GetString("user_id")

		var req reviewRequest
		if err := c.BindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if err := validate.Struct(req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		booking, ok := bc.loadBooking(c, ctx)
		if !ok {
			return
		}
		if booking.GuestID != callerID {
			bc.alerts.Report("permission violation: " + callerID + " tried to review booking " + booking.ID.Hex())
			c.JSON(http.StatusForbidden, gin.H{"error": "could not complete"})
			return
		}
		if booking.Status != models.BookingConfirmed {
			c.JSON(http.StatusBadRequest, gin.H{"error": "only confirmed bookings can be reviewed"})
			return
		}

		review := models.BookingReview{Rating: req.Rating, Comment: req.Comment}
		update := bson.M{"$set": bson.M{"review": review, "updated_at": time.Now().UTC()}}
		if _, err := bc.bookings.UpdateOne(ctx, bson.M{"_id": booking.ID}, update); err != nil {
			log.Println("❌ [Review] update failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not complete"})
			return
		}

		bc.notifier.Notify(ctx, booking.HostID, models.NotificationReviewReceived, booking.ID.Hex())
		c.JSON(http.StatusOK, gin.H{"message": "review submitted"})
	}
}

func (bc *BookingController) loadBooking(c *gin.Context, ctx context.Context) (*models.Booking, bool) {
	bookingID, err := primitive.ObjectIDFromHex(c.Param("booking_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid booking_id"})
		return nil, false
	}

	var booking models.Booking
	err = bc.bookings.FindOne(ctx, bson.M{"_id": bookingID}).Decode(&booking)
	if errors.Is(err, mongo.ErrNoDocuments) {
		c.JSON(http.StatusNotFound, gin.H{"error": "this booking is no longer available"})
		return nil, false
	}
	if err != nil {
		log.Println("❌ [loadBooking] find failed:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not complete"})
		return nil, false
	}
	return &booking, true
}
