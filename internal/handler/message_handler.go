package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ticsite/internal/service"
)

type messageStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// ListContactMessages 返回后台收件箱
func (a *API) ListContactMessages(c *gin.Context) {
	result, err := a.messages.List(service.ContactMessageFilter{
		Status:  c.Query("status"),
		Search:  c.Query("search"),
		Page:    queryInt(c, "page"),
		PerPage: queryInt(c, "limit"),
	})
	if err != nil {
		a.respondInternal(c, "Failed to load messages", err)
		return
	}
	respondOK(c, http.StatusOK, gin.H{
		"data":        result.Messages,
		"pagination":  paginationPayload(result.Pagination),
		"unreadCount": result.UnreadCount,
	})
}

// UpdateContactMessageStatus marks a message new, read or archived.
func (a *API) UpdateContactMessageStatus(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid message id")
		return
	}

	var req messageStatusRequest
	if !bindJSON(c, &req, "Status is required") {
		return
	}

	message, err := a.messages.UpdateStatus(id, req.Status)
	if err != nil {
		a.respondMessageError(c, err, "Failed to update message")
		return
	}
	respondOK(c, http.StatusOK, gin.H{"data": message})
}

// DeleteContactMessage removes a message from the inbox.
func (a *API) DeleteContactMessage(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid message id")
		return
	}

	if err := a.messages.Delete(id); err != nil {
		a.respondMessageError(c, err, "Failed to delete message")
		return
	}
	respondOK(c, http.StatusOK, gin.H{"message": "Message deleted"})
}

func (a *API) respondMessageError(c *gin.Context, err error, message string) {
	switch {
	case errors.Is(err, service.ErrContactMessageNotFound):
		respondError(c, http.StatusNotFound, "Message not found")
	case errors.Is(err, service.ErrContactStatusInvalid):
		respondError(c, http.StatusBadRequest, err.Error())
	default:
		a.respondInternal(c, message, err)
	}
}
