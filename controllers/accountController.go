package controller

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/Kapeta-16/DevOpsPraktikum/helper"
	"github.com/Kapeta-16/DevOpsPraktikum/models"
	"github.com/Kapeta-16/DevOpsPraktikum/services"
)

type AccountController struct {
	service *services.AccountService
}

func NewAccountController(service *services.AccountService) *AccountController {
	return &AccountController{service: service}
}

func (c *AccountController) Signup(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	var req models.CredentialsRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		helper.RespondError(w, http.StatusBadRequest, services.ErrMissingData.Error())
		return
	}
	if err := validate.Struct(req); err != nil {
		helper.RespondError(w, http.StatusBadRequest, services.ErrMissingData.Error())
		return
	}

	if err := c.service.Signup(ctx, req.Username, req.Password); err != nil {
		writeServiceError(w, err)
		return
	}
	helper.RespondJSON(w, http.StatusOK, map[string]string{"message": "Registracija uspjesna"})
}

func (c *AccountController) Login(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	var req models.CredentialsRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		helper.RespondError(w, http.StatusBadRequest, services.ErrMissingData.Error())
		return
	}
	if err := validate.Struct(req); err != nil {
		helper.RespondError(w, http.StatusBadRequest, services.ErrMissingData.Error())
		return
	}

	user, err := c.service.Login(ctx, req.Username, req.Password)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	helper.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"message":  "Uspjesan login",
		"username": user.Username,
		"admin":    user.Admin,
	})
}
