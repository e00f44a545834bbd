package controllers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"pledge-backend/models"
)

type PledgeController struct{ DB *gorm.DB }

type pledgePayload struct {
	IndividualID         string          `json:"individualId"`
	Name                 string          `json:"name"`
	Phone                string          `json:"phone"`
	Email                string          `json:"email"`
	MissionaryCount      int             `json:"missionaryCount"`
	SupportFrequency     string          `json:"supportFrequency"`
	SupportAmount        decimal.Decimal `json:"supportAmount"`
	SpecialSupportAmount decimal.Decimal `json:"specialSupportAmount"`
	SpecialFrequency     string          `json:"specialFrequency"`
	InKind               bool            `json:"inKind"`
	InKindDescription    string          `json:"inKindDescription"`
}

// Create records a pledge. The public flow submits only name+phone, so the
// Individual is looked up by phone and created on first submission.
func (c PledgeController) Create(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	var body pledgePayload
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&body); err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}

	pledge := models.Pledge{
		ID:                uuid.NewString(),
		MissionaryCount:   body.MissionaryCount,
		SupportFrequency:  strings.TrimSpace(body.SupportFrequency),
		SupportAmount:     body.SupportAmount,
		SpecialAmount:     body.SpecialSupportAmount,
		SpecialFrequency:  strings.TrimSpace(body.SpecialFrequency),
		InKind:            body.InKind,
		InKindDescription: body.InKindDescription,
	}
	if err := pledge.Validate(); err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}
	pledge.DeriveYearlyAmounts()

	err := c.DB.WithContext(r.Context()).Transaction(func(tx *gorm.DB) error {
		switch {
		case body.IndividualID != "":
			var ind models.Individual
			if err := tx.First(&ind, "id = ?", body.IndividualID).Error; err != nil {
				return errors.New("individual not found")
			}
			pledge.IndividualID = ind.ID
		default:
			if strings.TrimSpace(body.Name) == "" || strings.TrimSpace(body.Phone) == "" {
				return errors.New("individualId or name and phone are required")
			}
			var ind models.Individual
			err := tx.Where("phone = ?", strings.TrimSpace(body.Phone)).First(&ind).Error
			if errors.Is(err, gorm.ErrRecordNotFound) {
				ind = models.Individual{
					ID:    uuid.NewString(),
					Name:  strings.TrimSpace(body.Name),
					Phone: strings.TrimSpace(body.Phone),
					Email: strings.TrimSpace(body.Email),
				}
				err = tx.Create(&ind).Error
			}
			if err != nil {
				return err
			}
			pledge.IndividualID = ind.ID
		}
		return tx.Create(&pledge).Error
	})
	if err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, pledge)
}

func (c PledgeController) List(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	q := c.DB.WithContext(r.Context()).Model(&models.Pledge{})
	if v := r.URL.Query().Get("individualId"); v != "" {
		q = q.Where("individual_id = ?", v)
	}
	var list []models.Pledge
	if err := q.Limit(200).Find(&list).Error; err != nil {
		jsonError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (c PledgeController) GetByID(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	id := strings.TrimPrefix(r.URL.Path, "/pledges/")
	if id == "" {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	var pledge models.Pledge
	err := c.DB.WithContext(r.Context()).First(&pledge, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		jsonError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, pledge)
}

// Delete soft-deletes a pledge and clears the linkage on its transactions.
// Imported rows always survive.
func (c PledgeController) Delete(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	id := strings.TrimPrefix(r.URL.Path, "/pledges/")
	if id == "" {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	err := c.DB.WithContext(r.Context()).Transaction(func(tx *gorm.DB) error {
		res := tx.Delete(&models.Pledge{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return tx.Model(&models.BankTransaction{}).Where("pledge_id = ?", id).Update("pledge_id", nil).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		jsonError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "id": id})
}
