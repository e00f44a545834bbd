package controllers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"pledge-backend/models"
)

type IndividualController struct{ DB *gorm.DB }

func (c IndividualController) CreateOrList(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		var body struct {
			Name      string  `json:"name"`
			Phone     string  `json:"phone"`
			Email     string  `json:"email"`
			AccountID *string `json:"accountId"`
		}
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&body); err != nil {
			jsonError(w, http.StatusBadRequest, err.Error())
			return
		}
		if strings.TrimSpace(body.Name) == "" {
			jsonError(w, http.StatusBadRequest, "name is required")
			return
		}
		ind := models.Individual{
			ID:        uuid.NewString(),
			Name:      strings.TrimSpace(body.Name),
			Phone:     strings.TrimSpace(body.Phone),
			Email:     strings.TrimSpace(body.Email),
			AccountID: body.AccountID,
		}
		if err := c.DB.WithContext(r.Context()).Create(&ind).Error; err != nil {
			jsonError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeJSON(w, http.StatusCreated, ind)
	case http.MethodGet:
		q := c.DB.WithContext(r.Context()).Model(&models.Individual{})
		if v := r.URL.Query().Get("phone"); v != "" {
			q = q.Where("phone = ?", v)
		}
		if v := r.URL.Query().Get("accountId"); v != "" {
			q = q.Where("account_id = ?", v)
		}
		var list []models.Individual
		if err := q.Order("name").Limit(100).Find(&list).Error; err != nil {
			jsonError(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, list)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (c IndividualController) GetByID(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	id := strings.TrimPrefix(r.URL.Path, "/individuals/")
	if id == "" {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	var ind models.Individual
	err := c.DB.WithContext(r.Context()).First(&ind, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		jsonError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, ind)
}
