package controllers

import (
	"errors"
	"net/http"

	"github.com/shashiranjanraj/genosys/app/services"
	"github.com/shashiranjanraj/genosys/pkg/bind"
	"github.com/shashiranjanraj/genosys/pkg/response"
)

type AuthController struct {
	service *services.AuthService
}

func NewAuthController() *AuthController {
	return &AuthController{service: services.NewAuthService()}
}

// Register handles POST /api/auth/register.
func (c *AuthController) Register(w http.ResponseWriter, r *http.Request) {
	var in services.RegisterInput
	if errs, err := bind.JSON(r, &in); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	user, token, err := c.service.Register(r.Context(), in)
	if errors.Is(err, services.ErrEmailTaken) {
		response.Error(w, http.StatusConflict, err.Error())
		return
	}
	if err != nil {
		response.Error(w, http.StatusInternalServerError, "Registration failed")
		return
	}

	response.Created(w, map[string]interface{}{
		"user":  user,
		"token": token,
	})
}

// Login handles POST /api/auth/login.
func (c *AuthController) Login(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Email    string `json:"email"    validate:"required,email"`
		Password string `json:"password" validate:"required"`
	}
	if errs, err := bind.JSON(r, &in); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	user, token, err := c.service.Login(r.Context(), in.Email, in.Password)
	if errors.Is(err, services.ErrInvalidCredentials) {
		response.Error(w, http.StatusUnauthorized, err.Error())
		return
	}
	if err != nil {
		response.Error(w, http.StatusInternalServerError, "Login failed")
		return
	}

	response.Success(w, map[string]interface{}{
		"user":  user,
		"token": token,
	})
}
