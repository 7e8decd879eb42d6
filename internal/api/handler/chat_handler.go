package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/talentbridge/access-core/internal/core/domain"
	"github.com/talentbridge/access-core/internal/core/ports"
)

type ChatHandler struct {
	service ports.ChatService
}

func NewChatHandler(service ports.ChatService) *ChatHandler {
	return &ChatHandler{service: service}
}

// Open handles POST /v1/chats. An existing direct chat with the peer is returned as is.
//
// @Summary      Open a direct chat
// @Tags         chats
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      openChatRequest  true  "Peer account"
// @Success      200   {object}  domain.Chat
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /v1/chats [post]
func (h *ChatHandler) Open(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	var req openChatRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	chat, err := h.service.OpenDirect(c.Request().Context(), actor, req.PeerID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, chat)
}

// Get handles GET /v1/chats/:id.
//
// @Summary      Get a chat with its latest messages
// @Tags         chats
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Chat ID"
// @Success      200  {object}  chatResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/chats/{id} [get]
func (h *ChatHandler) Get(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}

	chat, msgs, err := h.service.Get(c.Request().Context(), actor, c.Param("id"))
	if err != nil {
		return err
	}
	if msgs == nil {
		msgs = []*domain.Message{}
	}
	return c.JSON(http.StatusOK, chatResponse{Chat: chat, Messages: msgs})
}

// Send handles POST /v1/chats/:id/messages.
//
// @Summary      Send a message
// @Tags         chats
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string              true  "Chat ID"
// @Param        body  body      sendMessageRequest  true  "Message"
// @Success      201   {object}  domain.Message
// @Failure      403   {object}  errorResponse
// @Router       /v1/chats/{id}/messages [post]
func (h *ChatHandler) Send(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	var req sendMessageRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	msg, err := h.service.Send(c.Request().Context(), actor, c.Param("id"), req.Body)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, msg)
}

// MarkRead handles POST /v1/messages/:id/read.
//
// @Summary      Mark a message as read
// @Tags         chats
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Message ID"
// @Success      200  {object}  domain.Message
// @Failure      403  {object}  errorResponse
// @Router       /v1/messages/{id}/read [post]
func (h *ChatHandler) MarkRead(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}

	msg, err := h.service.MarkRead(c.Request().Context(), actor, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, msg)
}
