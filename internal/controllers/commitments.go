package controllers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"pledge-backend/models"
)

type CommitmentController struct{ DB *gorm.DB }

// CreateOrListForPledge handles /pledges/:id/commitments.
func (c CommitmentController) CreateOrListForPledge(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/pledges/")
	id = strings.TrimSuffix(id, "/commitments")
	if id == "" {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	var pledge models.Pledge
	if err := c.DB.WithContext(r.Context()).First(&pledge, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			jsonError(w, http.StatusNotFound, "pledge not found")
			return
		}
		jsonError(w, http.StatusInternalServerError, err.Error())
		return
	}

	switch r.Method {
	case http.MethodPost:
		var body struct {
			Amount               decimal.Decimal `json:"amount"`
			BankName             string          `json:"bankName"`
			TransactionReference string          `json:"transactionReference"`
			ReceiptDocument      string          `json:"receiptDocument"`
		}
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&body); err != nil {
			jsonError(w, http.StatusBadRequest, err.Error())
			return
		}
		if !body.Amount.IsPositive() {
			jsonError(w, http.StatusBadRequest, "amount must be positive")
			return
		}
		if strings.TrimSpace(body.BankName) == "" || strings.TrimSpace(body.ReceiptDocument) == "" {
			jsonError(w, http.StatusBadRequest, "bankName and receiptDocument are required")
			return
		}
		cm := models.Commitment{
			ID:                   uuid.NewString(),
			PledgeID:             pledge.ID,
			Amount:               body.Amount,
			BankName:             strings.TrimSpace(body.BankName),
			TransactionReference: strings.TrimSpace(body.TransactionReference),
			ReceiptDocument:      strings.TrimSpace(body.ReceiptDocument),
			Status:               models.CommitmentPending,
		}
		if err := c.DB.WithContext(r.Context()).Create(&cm).Error; err != nil {
			jsonError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeJSON(w, http.StatusCreated, cm)
	case http.MethodGet:
		var list []models.Commitment
		if err := c.DB.WithContext(r.Context()).Where("pledge_id = ?", pledge.ID).Order("created_at DESC").Find(&list).Error; err != nil {
			jsonError(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, list)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// Review approves or rejects a pending commitment. Both outcomes are
// terminal.
func (c CommitmentController) Review(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	id := strings.TrimPrefix(r.URL.Path, "/commitments/")
	id = strings.TrimSuffix(id, "/review")
	if id == "" {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	var body struct {
		Action string `json:"action"`
	}
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&body); err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}
	var next string
	switch strings.ToLower(strings.TrimSpace(body.Action)) {
	case "approve":
		next = models.CommitmentApproved
	case "reject":
		next = models.CommitmentRejected
	default:
		jsonError(w, http.StatusBadRequest, "action must be approve or reject")
		return
	}

	var cm models.Commitment
	if err := c.DB.WithContext(r.Context()).First(&cm, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		jsonError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if err := cm.CanReview(); err != nil {
		jsonError(w, http.StatusConflict, err.Error())
		return
	}
	now := time.Now()
	cm.Status = next
	cm.ReviewedAt = &now
	if err := c.DB.WithContext(r.Context()).Model(&cm).Updates(map[string]any{"status": next, "reviewed_at": now}).Error; err != nil {
		jsonError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, cm)
}
