package controllers

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"pledge-backend/models"
)

type OutgoingController struct{ DB *gorm.DB }

func (c OutgoingController) CreateOrList(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		var body struct {
			PaidAt  string          `json:"paidAt"`
			Amount  decimal.Decimal `json:"amount"`
			Purpose string          `json:"purpose"`
			Notes   string          `json:"notes"`
		}
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&body); err != nil {
			jsonError(w, http.StatusBadRequest, err.Error())
			return
		}
		if strings.TrimSpace(body.Purpose) == "" {
			jsonError(w, http.StatusBadRequest, "purpose is required")
			return
		}
		if !body.Amount.IsPositive() {
			jsonError(w, http.StatusBadRequest, "amount must be positive")
			return
		}
		paidAt, err := time.Parse(time.RFC3339, body.PaidAt)
		if err != nil {
			paidAt, err = time.Parse("2006-01-02", body.PaidAt)
		}
		if err != nil {
			jsonError(w, http.StatusBadRequest, "paidAt must be RFC3339 or YYYY-MM-DD")
			return
		}
		out := models.Outgoing{
			ID:      uuid.NewString(),
			PaidAt:  paidAt,
			Amount:  body.Amount,
			Purpose: strings.TrimSpace(body.Purpose),
			Notes:   body.Notes,
		}
		if err := c.DB.WithContext(r.Context()).Create(&out).Error; err != nil {
			jsonError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeJSON(w, http.StatusCreated, out)
	case http.MethodGet:
		var list []models.Outgoing
		if err := c.DB.WithContext(r.Context()).Order("paid_at DESC").Limit(100).Find(&list).Error; err != nil {
			jsonError(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, list)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}
