package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/unilink-app/unilink/backend/internal/friends"
	"github.com/unilink-app/unilink/backend/internal/models"
	"github.com/unilink-app/unilink/backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// FriendshipHandler handles HTTP requests related to friendships
type FriendshipHandler struct {
	friendService *friends.Service
}

// NewFriendshipHandler creates a new FriendshipHandler
func NewFriendshipHandler(friendService *friends.Service) *FriendshipHandler {
	return &FriendshipHandler{friendService: friendService}
}

// RegisterFriendshipRoutes registers friendship-related routes
func (h *FriendshipHandler) RegisterFriendshipRoutes(g *echo.Group) {
	g.POST("/send-friend-request", h.SendFriendRequest)
	g.POST("/accept-friend-request", h.AcceptFriendRequest)
	g.POST("/decline-friend-request", h.DeclineFriendRequest)
	g.DELETE("/remove-friend", h.RemoveFriend)
	g.GET("/friends", h.GetFriends)
	g.GET("/friend-requests/pending", h.GetPendingFriendRequests)
}

// SendFriendRequest creates a pending request to the named user. Two crossed
// requests collapse into an immediate friendship.
func (h *FriendshipHandler) SendFriendRequest(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	var req models.SendFriendRequestRequest
	if err := c.Bind(&req); err != nil {
		return errorJSON(c, http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return errorJSON(c, http.StatusBadRequest, err.Error())
	}

	receiver, mutual, err := h.friendService.SendRequest(c.Request().Context(), userID, req.Username)
	if err != nil {
		return friendshipError(c, err)
	}
	if mutual {
		return c.JSON(http.StatusOK, echo.Map{"message": "Friend request accepted", "friend": receiver})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Friend request sent", "friend": receiver})
}

// AcceptFriendRequest accepts a pending request addressed to the caller.
func (h *FriendshipHandler) AcceptFriendRequest(c echo.Context) error {
	userID, requestID, ok := h.bindResponse(c)
	if !ok {
		return nil
	}

	friend, err := h.friendService.Accept(c.Request().Context(), userID, requestID)
	if err != nil {
		return friendshipError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Friend request accepted", "friend": friend})
}

// DeclineFriendRequest declines a pending request addressed to the caller.
func (h *FriendshipHandler) DeclineFriendRequest(c echo.Context) error {
	userID, requestID, ok := h.bindResponse(c)
	if !ok {
		return nil
	}

	if err := h.friendService.Decline(c.Request().Context(), userID, requestID); err != nil {
		return friendshipError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Friend request declined"})
}

// RemoveFriend removes the friendship from both friend lists.
func (h *FriendshipHandler) RemoveFriend(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	var req models.RemoveFriendRequest
	if err := c.Bind(&req); err != nil {
		return errorJSON(c, http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return errorJSON(c, http.StatusBadRequest, err.Error())
	}
	friendID, err := primitive.ObjectIDFromHex(req.FriendID)
	if err != nil {
		return errorJSON(c, http.StatusBadRequest, "Invalid friend ID")
	}

	removed, err := h.friendService.Remove(c.Request().Context(), userID, friendID)
	if err != nil {
		return friendshipError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Friend removed", "user": removed})
}

// GetFriends lists the caller's friends.
func (h *FriendshipHandler) GetFriends(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	list, err := h.friendService.Friends(c.Request().Context(), userID)
	if err != nil {
		return friendshipError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"friends": list})
}

// GetPendingFriendRequests lists pending requests addressed to the caller.
func (h *FriendshipHandler) GetPendingFriendRequests(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	requests, err := h.friendService.PendingRequests(c.Request().Context(), userID)
	if err != nil {
		return friendshipError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"requests": requests})
}

// bindResponse extracts the caller and the targeted request id. On failure
// the response has already been written and ok is false.
func (h *FriendshipHandler) bindResponse(c echo.Context) (userID, requestID primitive.ObjectID, ok bool) {
	userID, err := currentUserID(c)
	if err != nil {
		_ = errorJSON(c, http.StatusUnauthorized, "Missing authentication context")
		return primitive.NilObjectID, primitive.NilObjectID, false
	}

	var req models.RespondFriendRequestRequest
	if err := c.Bind(&req); err != nil {
		_ = errorJSON(c, http.StatusBadRequest, "Invalid request payload")
		return primitive.NilObjectID, primitive.NilObjectID, false
	}
	if err := c.Validate(&req); err != nil {
		_ = errorJSON(c, http.StatusBadRequest, err.Error())
		return primitive.NilObjectID, primitive.NilObjectID, false
	}
	requestID, err = primitive.ObjectIDFromHex(req.RequestID)
	if err != nil {
		_ = errorJSON(c, http.StatusBadRequest, "Invalid request ID")
		return primitive.NilObjectID, primitive.NilObjectID, false
	}
	return userID, requestID, true
}

// friendshipError maps service errors onto the API's status codes.
func friendshipError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, friends.ErrSelfRequest),
		errors.Is(err, friends.ErrAlreadyFriends),
		errors.Is(err, friends.ErrDuplicatePending):
		return errorJSON(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, friends.ErrNotReceiver):
		return errorJSON(c, http.StatusForbidden, err.Error())
	case errors.Is(err, repositories.ErrUserNotFound):
		return errorJSON(c, http.StatusNotFound, "User not found")
	case errors.Is(err, repositories.ErrRequestNotFound):
		return errorJSON(c, http.StatusNotFound, "Friend request not found")
	default:
		return errorJSON(c, http.StatusInternalServerError, err.Error())
	}
}
