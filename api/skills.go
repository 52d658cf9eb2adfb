package api

import (
	"encoding/json"
	"net/http"

	"github.com/helpinghub/volunteer-backend/db"
	"github.com/helpinghub/volunteer-backend/errors"
)

// skillsHandler lists volunteer skills, optionally filtered by ?category=.
func (a *API) skillsHandler(w http.ResponseWriter, r *http.Request) {
	page, pageSize := paginationFromRequest(r)
	skills, total, err := a.db.Skills(r.URL.Query().Get("category"), page, pageSize)
	if err != nil {
		errors.ErrGenericInternalServerError.Write(w)
		return
	}
	httpWriteJSON(w, &SkillsResponse{Skills: skills, Total: total, Page: page})
}

// skillHandler returns a single skill by ID.
func (a *API) skillHandler(w http.ResponseWriter, r *http.Request) {
	skillID, ok := urlParamUint64(r, "skillID")
	if !ok {
		errors.ErrMalformedURLParam.With("skillID is required").Write(w)
		return
	}
	skill, err := a.db.Skill(skillID)
	if err != nil {
		if err == db.ErrNotFound {
			errors.ErrSkillNotFound.Write(w)
			return
		}
		errors.ErrGenericInternalServerError.Write(w)
		return
	}
	httpWriteJSON(w, skill)
}

// createSkillHandler creates a new skill. Admin only. Skill names are unique.
func (a *API) createSkillHandler(w http.ResponseWriter, r *http.Request) {
	if !a.requireAdmin(w, r) {
		return
	}
	skill := &db.Skill{}
	if err := json.NewDecoder(r.Body).Decode(skill); err != nil {
		errors.ErrMalformedBody.Write(w)
		return
	}
	if skill.Name == "" {
		errors.ErrInvalidData.With("name is required").Write(w)
		return
	}
	skill.ID = 0
	id, err := a.db.SetSkill(skill)
	if err != nil {
		if err == db.ErrInvalidData {
			errors.ErrDuplicateConflict.Withf("skill %q already exists", skill.Name).Write(w)
			return
		}
		errors.ErrGenericInternalServerError.Write(w)
		return
	}
	skill.ID = id
	httpWriteJSON(w, skill)
}

// updateSkillHandler updates an existing skill. Admin only.
func (a *API) updateSkillHandler(w http.ResponseWriter, r *http.Request) {
	if !a.requireAdmin(w, r) {
		return
	}
	skillID, ok := urlParamUint64(r, "skillID")
	if !ok {
		errors.ErrMalformedURLParam.With("skillID is required").Write(w)
		return
	}
	skill, err := a.db.Skill(skillID)
	if err != nil {
		if err == db.ErrNotFound {
			errors.ErrSkillNotFound.Write(w)
			return
		}
		errors.ErrGenericInternalServerError.Write(w)
		return
	}
	update := &db.Skill{}
	if err := json.NewDecoder(r.Body).Decode(update); err != nil {
		errors.ErrMalformedBody.Write(w)
		return
	}
	if update.Name != "" {
		skill.Name = update.Name
	}
	if update.Description != "" {
		skill.Description = update.Description
	}
	if update.Category != "" {
		skill.Category = update.Category
	}
	if _, err := a.db.SetSkill(skill); err != nil {
		if err == db.ErrInvalidData {
			errors.ErrDuplicateConflict.Withf("skill %q already exists", skill.Name).Write(w)
			return
		}
		errors.ErrGenericInternalServerError.Write(w)
		return
	}
	httpWriteJSON(w, skill)
}

// deleteSkillHandler removes a skill. Admin only.
func (a *API) deleteSkillHandler(w http.ResponseWriter, r *http.Request) {
	if !a.requireAdmin(w, r) {
		return
	}
	skillID, ok := urlParamUint64(r, "skillID")
	if !ok {
		errors.ErrMalformedURLParam.With("skillID is required").Write(w)
		return
	}
	if err := a.db.DelSkill(skillID); err != nil {
		if err == db.ErrNotFound {
			errors.ErrSkillNotFound.Write(w)
			return
		}
		errors.ErrGenericInternalServerError.Write(w)
		return
	}
	httpWriteOK(w)
}
