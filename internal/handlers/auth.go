package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"coursecatalog/api/internal/apperr"
	"coursecatalog/api/internal/models"
	"coursecatalog/api/internal/service"
)

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	Token   string             `json:"token"`
	Student models.StudentView `json:"student"`
}

func (h HandlerSet) RegisterStudent(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.metrics.RecordAuth("register", string(apperr.KindValidation))
		h.invalidBody(c)
		return
	}

	result, err := h.auth.Register(c.Request.Context(), service.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		h.metrics.RecordAuth("register", string(apperr.KindOf(err)))
		h.writeError(c, err)
		return
	}

	h.metrics.RecordAuth("register", "success")
	c.JSON(http.StatusCreated, authResponse{Token: result.Token, Student: result.Student})
}

func (h HandlerSet) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.metrics.RecordAuth("login", string(apperr.KindValidation))
		h.invalidBody(c)
		return
	}

	result, err := h.auth.Login(c.Request.Context(), service.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		h.metrics.RecordAuth("login", string(apperr.KindOf(err)))
		h.writeError(c, err)
		return
	}

	h.metrics.RecordAuth("login", "success")
	c.JSON(http.StatusOK, authResponse{Token: result.Token, Student: result.Student})
}
