package handlers

import (
	"net/http"

	"taskman/internal/dto"
	"taskman/internal/service"

	"github.com/gin-gonic/gin"
)

// UserAPI serves the JSON user endpoints. This surface is deliberately
// unauthenticated (kept from the reference behavior); role assignment is not
// exposed here, so every account it creates is a regular user.
type UserAPI struct {
	svc *service.UserService
}

// NewUserAPI returns a new UserAPI.
func NewUserAPI(svc *service.UserService) *UserAPI {
	return &UserAPI{svc: svc}
}

// List godoc
// @Summary      List users (password never included)
// @Tags         users
// @Produce      json
// @Success      200  {array}   dto.UserResponse
// @Failure      500  {object}  map[string]string
// @Router       /api/users [get]
func (h *UserAPI) List(c *gin.Context) {
	list, err := h.svc.List(c.Request.Context())
	if err != nil {
		respondError(c, err, "", "Unable to fetch users")
		return
	}
	c.JSON(http.StatusOK, usersToResponses(list))
}

// Get godoc
// @Summary      Get one user
// @Tags         users
// @Produce      json
// @Param        id   path      string  true  "User ID"
// @Success      200  {object}  dto.UserResponse
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /api/users/{id} [get]
func (h *UserAPI) Get(c *gin.Context) {
	id, ok := parseKey(c, "id", "Invalid user ID format")
	if !ok {
		return
	}
	u, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "User not found", "Unable to fetch user")
		return
	}
	c.JSON(http.StatusOK, userToResponse(u))
}

// Create godoc
// @Summary      Create a user
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        body  body      dto.CreateUserRequest  true  "User body"
// @Success      201   {object}  dto.UserResponse
// @Failure      400   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /api/users [post]
func (h *UserAPI) Create(c *gin.Context) {
	var req dto.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	u, err := h.svc.Create(c.Request.Context(), service.CreateUserInput{
		Username: req.Username,
		Password: req.Password,
		Email:    req.Email,
	})
	if err != nil {
		respondError(c, err, "", "Unable to create user")
		return
	}
	c.JSON(http.StatusCreated, userToResponse(u))
}

// Update godoc
// @Summary      Update a user (supplied fields only)
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        id    path      string  true  "User ID"
// @Param        body  body      dto.UpdateUserRequest  true  "Partial update"
// @Success      200   {object}  dto.UserResponse
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /api/users/{id} [put]
func (h *UserAPI) Update(c *gin.Context) {
	id, ok := parseKey(c, "id", "Invalid user ID format")
	if !ok {
		return
	}
	var req dto.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	u, err := h.svc.Update(c.Request.Context(), id, service.UpdateUserInput{
		Username: req.Username,
		Password: req.Password,
		Email:    req.Email,
	})
	if err != nil {
		respondError(c, err, "User not found", "Unable to update user")
		return
	}
	c.JSON(http.StatusOK, userToResponse(u))
}

// Delete godoc
// @Summary      Delete a user
// @Tags         users
// @Produce      json
// @Param        id   path      string  true  "User ID"
// @Success      200  {object}  map[string]string
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /api/users/{id} [delete]
func (h *UserAPI) Delete(c *gin.Context) {
	id, ok := parseKey(c, "id", "Invalid user ID format")
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err, "User not found", "Unable to delete user")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "User deleted successfully"})
}
