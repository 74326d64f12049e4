package controllers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"

	"github.com/JioBaba369/Go2Culture-sub001/helpers"
	"github.com/JioBaba369/Go2Culture-sub001/models"
)

var validate = validator.New()

// HashPassword hashes a plain password
func HashPassword(password string) (string, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), 14)
	if err != nil {
		return "", err
	}
	return string(hashedPassword), nil
}

// VerifyPassword compares hashed password with plain text
func VerifyPassword(userPassword string, providedPassword string) (bool, string) {
	err := bcrypt.CompareHashAndPassword([]byte(userPassword), []byte(providedPassword))
	if err != nil {
		return false, "email or password is incorrect"
	}
	return true, ""
}

// UserController is the identity boundary: accounts, tokens and the display
// info conversations snapshot.
type UserController struct {
	users    *mongo.Collection
	tokens   *helpers.TokenHelper
	uploader *helpers.Uploader
	notifier *helpers.Notifier
	alerts   *helpers.Alerts
}

func NewUserController(db *mongo.Database, tokens *helpers.TokenHelper, uploader *helpers.Uploader, notifier *helpers.Notifier, alerts *helpers.Alerts) *UserController {
	return &UserController{
		users:    db.Collection("users"),
		tokens:   tokens,
		uploader: uploader,
		notifier: notifier,
		alerts:   alerts,
	}
}

type signupRequest struct {
	models.User
	ReferralCode string `json:"referral_code"`
}

// Signup registers a guest or prospective host account.
func (uc *UserController) Signup() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
		defer cancel()

		var req signupRequest
		if err := c.BindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		user := req.User
		if validationErr := validate.Struct(user); validationErr != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": validationErr.Error()})
			return
		}
		// Accounts start as GUEST or HOST_PENDING; HOST is granted by admin
		// approval and ADMIN is never self-served.
		if *user.User_type != helpers.TypeGuest && *user.User_type != helpers.TypeHostPending {
			c.JSON(http.StatusBadRequest, gin.H{"error": "user_type must be GUEST or HOST_PENDING"})
			return
		}

		count, err := uc.users.CountDocuments(ctx, bson.M{"email": user.Email})
		if err != nil {
			log.Println("❌ [Signup] email check failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not complete"})
			return
		}
		if count > 0 {
			c.JSON(http.StatusConflict, gin.H{"error": "email already exists"})
			return
		}

		password, err := HashPassword(*user.Password)
		if err != nil {
			log.Println("❌ [Signup] password hashing failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not complete"})
			return
		}
		user.Password = &password

		now := time.Now().UTC()
		user.Created_at = &now
		user.Updated_at = &now
		user.ID = primitive.NewObjectID()
		user.User_id = user.ID.Hex()

		token, refreshToken, err := uc.tokens.GenerateAllTokens(
			*user.Email, *user.First_name, *user.Last_name, *user.User_type, user.User_id,
		)
		if err != nil {
			log.Println("❌ [Signup] token generation failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not complete"})
			return
		}
		user.Token = &token
		user.Refresh_token = &refreshToken

		if _, err := uc.users.InsertOne(ctx, user); err != nil {
			log.Println("❌ [Signup] insert failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "user not created"})
			return
		}

		// Account exists either way; the welcome feed entries are best-effort.
		uc.notifier.Notify(ctx, user.User_id, models.NotificationEmailVerifyPending, user.User_id)
		if req.ReferralCode != "" {
			uc.notifier.Notify(ctx, req.ReferralCode, models.NotificationNewReferral, user.User_id)
		}

		user.Password = nil
		c.JSON(http.StatusOK, gin.H{
			"msg":           "user created successfully",
			"token":         token,
			"refresh_token": refreshToken,
			"user":          user,
		})
	}
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Login exchanges credentials for fresh tokens.
func (uc *UserController) Login() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
		defer cancel()

		var req loginRequest
		if err := c.BindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if err := validate.Struct(req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		var user models.User
		err := uc.users.FindOne(ctx, bson.M{"email": req.Email}).Decode(&user)
		if errors.Is(err, mongo.ErrNoDocuments) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "email or password is incorrect"})
			return
		}
		if err != nil {
			log.Println("❌ [Login] lookup failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not complete"})
			return
		}

		valid, msg := VerifyPassword(*user.Password, req.Password)
		if !valid {
			c.JSON(http.StatusUnauthorized, gin.H{"error": msg})
			return
		}

		token, refreshToken, err := uc.tokens.GenerateAllTokens(
			*user.Email, *user.First_name, *user.Last_name, *user.User_type, user.User_id,
		)
		if err != nil {
			log.Println("❌ [Login] token generation failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not complete"})
			return
		}

		update := bson.M{"$set": bson.M{"token": token, "refresh_token": refreshToken, "updated_at": time.Now().UTC()}}
		if _, err := uc.users.UpdateOne(ctx, bson.M{"user_id": user.User_id}, update); err != nil {
			log.Println("❌ [Login] token update failed:", err)
		}

		user.Password = nil
		c.JSON(http.StatusOK, gin.H{"token": token, "refresh_token": refreshToken, "user": user})
	}
}

// GetUser returns one profile; callers may fetch themselves, admins anyone.
func (uc *UserController) GetUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
		defer cancel()

		userID := c.Param("user_id")
		if userID != c.GetString("user_id") && helpers.MatchUserType(c, helpers.TypeAdmin) != nil {
			uc.alerts.Report("permission violation: " + c.GetString("user_id") + " requested profile " + userID)
			c.JSON(http.StatusForbidden, gin.H{"error": "could not complete"})
			return
		}

		var user models.User
		err := uc.users.FindOne(ctx, bson.M{"user_id": userID}).Decode(&user)
		if errors.Is(err, mongo.ErrNoDocuments) {
			c.JSON(http.StatusNotFound, gin.H{"error": "this user is no longer available"})
			return
		}
		if err != nil {
			log.Println("❌ [GetUser] lookup failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not complete"})
			return
		}

		user.Password = nil
		user.Token = nil
		user.Refresh_token = nil
		c.JSON(http.StatusOK, user)
	}
}

// UploadPhoto stores a profile photo and records its URL.
func (uc *UserController) UploadPhoto() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 30*time.Second)
		defer cancel()

		userID := c.GetString("user_id")

		if uc.uploader == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "photo uploads are not configured"})
			return
		}

		file, fileHeader, err := c.Request.FormFile("photo")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "photo file is required"})
			return
		}
		defer file.Close()

		photoURL, err := uc.uploader.UploadPhoto(ctx, file, fileHeader, "profile_photos")
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to upload photo"})
			return
		}

		update := bson.M{"$set": bson.M{"photo_url": photoURL, "updated_at": time.Now().UTC()}}
		if _, err := uc.users.UpdateOne(ctx, bson.M{"user_id": userID}, update); err != nil {
			log.Println("❌ [UploadPhoto] update failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not complete"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"photo_url": photoURL})
	}
}

// ApproveHost flips a pending host to HOST and tells them. Admin only.
func (uc *UserController) ApproveHost() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
		defer cancel()

		if err := helpers.MatchUserType(c, helpers.TypeAdmin); err != nil {
			uc.alerts.Report("permission violation: non-admin " + c.GetString("user_id") + " tried a host approval")
			c.JSON(http.StatusForbidden, gin.H{"error": "could not complete"})
			return
		}

		userID := c.Param("user_id")
		update := bson.M{"$set": bson.M{"user_type": helpers.TypeHost, "updated_at": time.Now().UTC()}}
		result, err := uc.users.UpdateOne(ctx, bson.M{"user_id": userID, "user_type": helpers.TypeHostPending}, update)
		if err != nil {
			log.Println("❌ [ApproveHost] update failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not complete"})
			return
		}
		if result.MatchedCount == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "no pending host application for this user"})
			return
		}

		uc.notifier.Notify(ctx, userID, models.NotificationHostApproved, userID)
		c.JSON(http.StatusOK, gin.H{"message": "host approved"})
	}
}
