package api

import (
	"encoding/json"
	"net/http"

	"github.com/helpinghub/volunteer-backend/db"
	"github.com/helpinghub/volunteer-backend/errors"
)

// testimonialsHandler lists testimonials. Only published testimonials are
// returned unless ?all=true (admin content tools).
func (a *API) testimonialsHandler(w http.ResponseWriter, r *http.Request) {
	page, pageSize := paginationFromRequest(r)
	onlyPublished := r.URL.Query().Get("all") != "true"
	testimonials, total, err := a.db.Testimonials(onlyPublished, page, pageSize)
	if err != nil {
		errors.ErrGenericInternalServerError.Write(w)
		return
	}
	httpWriteJSON(w, &TestimonialsResponse{Testimonials: testimonials, Total: total, Page: page})
}

// testimonialHandler returns a single testimonial by ID.
func (a *API) testimonialHandler(w http.ResponseWriter, r *http.Request) {
	testimonialID, ok := urlParamUint64(r, "testimonialID")
	if !ok {
		errors.ErrMalformedURLParam.With("testimonialID is required").Write(w)
		return
	}
	testimonial, err := a.db.Testimonial(testimonialID)
	if err != nil {
		if err == db.ErrNotFound {
			errors.ErrTestimonialNotFound.Write(w)
			return
		}
		errors.ErrGenericInternalServerError.Write(w)
		return
	}
	httpWriteJSON(w, testimonial)
}

// createTestimonialHandler creates a new testimonial. Admin only.
func (a *API) createTestimonialHandler(w http.ResponseWriter, r *http.Request) {
	if !a.requireAdmin(w, r) {
		return
	}
	testimonial := &db.Testimonial{}
	if err := json.NewDecoder(r.Body).Decode(testimonial); err != nil {
		errors.ErrMalformedBody.Write(w)
		return
	}
	if testimonial.Author == "" || testimonial.Quote == "" {
		errors.ErrInvalidData.With("author and quote are required").Write(w)
		return
	}
	testimonial.ID = 0
	id, err := a.db.SetTestimonial(testimonial)
	if err != nil {
		errors.ErrGenericInternalServerError.Write(w)
		return
	}
	testimonial.ID = id
	httpWriteJSON(w, testimonial)
}

// updateTestimonialHandler updates an existing testimonial. Admin only.
func (a *API) updateTestimonialHandler(w http.ResponseWriter, r *http.Request) {
	if !a.requireAdmin(w, r) {
		return
	}
	testimonialID, ok := urlParamUint64(r, "testimonialID")
	if !ok {
		errors.ErrMalformedURLParam.With("testimonialID is required").Write(w)
		return
	}
	testimonial, err := a.db.Testimonial(testimonialID)
	if err != nil {
		if err == db.ErrNotFound {
			errors.ErrTestimonialNotFound.Write(w)
			return
		}
		errors.ErrGenericInternalServerError.Write(w)
		return
	}
	update := &db.Testimonial{}
	if err := json.NewDecoder(r.Body).Decode(update); err != nil {
		errors.ErrMalformedBody.Write(w)
		return
	}
	if update.Author != "" {
		testimonial.Author = update.Author
	}
	if update.Quote != "" {
		testimonial.Quote = update.Quote
	}
	if update.ImageURL != "" {
		testimonial.ImageURL = update.ImageURL
	}
	testimonial.Published = update.Published
	if _, err := a.db.SetTestimonial(testimonial); err != nil {
		errors.ErrGenericInternalServerError.Write(w)
		return
	}
	httpWriteJSON(w, testimonial)
}

// deleteTestimonialHandler removes a testimonial. Admin only.
func (a *API) deleteTestimonialHandler(w http.ResponseWriter, r *http.Request) {
	if !a.requireAdmin(w, r) {
		return
	}
	testimonialID, ok := urlParamUint64(r, "testimonialID")
	if !ok {
		errors.ErrMalformedURLParam.With("testimonialID is required").Write(w)
		return
	}
	if err := a.db.DelTestimonial(testimonialID); err != nil {
		if err == db.ErrNotFound {
			errors.ErrTestimonialNotFound.Write(w)
			return
		}
		errors.ErrGenericInternalServerError.Write(w)
		return
	}
	httpWriteOK(w)
}
