package api

import (
	"encoding/json"
	"net/http"

	"github.com/helpinghub/volunteer-backend/db"
	"github.com/helpinghub/volunteer-backend/errors"
)

// faqsHandler lists FAQs, optionally filtered by ?category=. Only published
// FAQs are returned unless ?all=true (admin content tools).
func (a *API) faqsHandler(w http.ResponseWriter, r *http.Request) {
	page, pageSize := paginationFromRequest(r)
	onlyPublished := r.URL.Query().Get("all") != "true"
	faqs, total, err := a.db.FAQs(r.URL.Query().Get("category"), onlyPublished, page, pageSize)
	if err != nil {
		errors.ErrGenericInternalServerError.Write(w)
		return
	}
	httpWriteJSON(w, &FAQsResponse{FAQs: faqs, Total: total, Page: page})
}

// faqHandler returns a single FAQ by ID.
func (a *API) faqHandler(w http.ResponseWriter, r *http.Request) {
	faqID, ok := urlParamUint64(r, "faqID")
	if !ok {
		errors.ErrMalformedURLParam.With("faqID is required").Write(w)
		return
	}
	faq, err := a.db.FAQ(faqID)
	if err != nil {
		if err == db.ErrNotFound {
			errors.ErrFAQNotFound.Write(w)
			return
		}
		errors.ErrGenericInternalServerError.Write(w)
		return
	}
	httpWriteJSON(w, faq)
}

// createFAQHandler creates a new FAQ. Admin only.
func (a *API) createFAQHandler(w http.ResponseWriter, r *http.Request) {
	if !a.requireAdmin(w, r) {
		return
	}
	faq := &db.FAQ{}
	if err := json.NewDecoder(r.Body).Decode(faq); err != nil {
		errors.ErrMalformedBody.Write(w)
		return
	}
	if faq.Question == "" || faq.Answer == "" {
		errors.ErrInvalidData.With("question and answer are required").Write(w)
		return
	}
	faq.ID = 0
	id, err := a.db.SetFAQ(faq)
	if err != nil {
		errors.ErrGenericInternalServerError.Write(w)
		return
	}
	faq.ID = id
	httpWriteJSON(w, faq)
}

// updateFAQHandler updates an existing FAQ. Admin only.
func (a *API) updateFAQHandler(w http.ResponseWriter, r *http.Request) {
	if !a.requireAdmin(w, r) {
		return
	}
	faqID, ok := urlParamUint64(r, "faqID")
	if !ok {
		errors.ErrMalformedURLParam.With("faqID is required").Write(w)
		return
	}
	faq, err := a.db.FAQ(faqID)
	if err != nil {
		if err == db.ErrNotFound {
			errors.ErrFAQNotFound.Write(w)
			return
		}
		errors.ErrGenericInternalServerError.Write(w)
		return
	}
	update := &db.FAQ{}
	if err := json.NewDecoder(r.Body).Decode(update); err != nil {
		errors.ErrMalformedBody.Write(w)
		return
	}
	if update.Question != "" {
		faq.Question = update.Question
	}
	if update.Answer != "" {
		faq.Answer = update.Answer
	}
	if update.Category != "" {
		faq.Category = update.Category
	}
	faq.Published = update.Published
	if _, err := a.db.SetFAQ(faq); err != nil {
		errors.ErrGenericInternalServerError.Write(w)
		return
	}
	httpWriteJSON(w, faq)
}

// deleteFAQHandler removes a FAQ. Admin only.
func (a *API) deleteFAQHandler(w http.ResponseWriter, r *http.Request) {
	if !a.requireAdmin(w, r) {
		return
	}
	faqID, ok := urlParamUint64(r, "faqID")
	if !ok {
		errors.ErrMalformedURLParam.With("faqID is required").Write(w)
		return
	}
	if err := a.db.DelFAQ(faqID); err != nil {
		if err == db.ErrNotFound {
			errors.ErrFAQNotFound.Write(w)
			return
		}
		errors.ErrGenericInternalServerError.Write(w)
		return
	}
	httpWriteOK(w)
}
