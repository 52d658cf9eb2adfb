// Package api provides the HTTP API for the HelpingHub volunteer backend:
// authentication, campaign and content management, donation checkout and the
// payment provider webhook.
package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/jwtauth/v5"

	"github.com/helpinghub/volunteer-backend/db"
	"github.com/helpinghub/volunteer-backend/notifications"
	"github.com/helpinghub/volunteer-backend/objectstorage"
	"github.com/helpinghub/volunteer-backend/stripe"
	"go.vocdoni.io/dvote/log"
)

const (
	jwtExpiration = 360 * time.Hour // 15 days
	passwordSalt  = "helpinghub365" // salt for password hashing
)

// Config holds the dependencies and settings of the API server.
type Config struct {
	Host          string
	Port          int
	Secret        string
	DB            *db.MongoStorage
	Stripe        *stripe.Service
	MailService   notifications.NotificationService
	SMSService    notifications.NotificationService
	ObjectStorage *objectstorage.Client
	// WebAppURL is the frontend base URL used in notification links.
	WebAppURL string
	// ServerURL is the public base URL of this API, used to build storage
	// download links.
	ServerURL string
}

// API type represents the API HTTP server with JWT authentication capabilities.
type API struct {
	db            *db.MongoStorage
	auth          *jwtauth.JWTAuth
	host          string
	port          int
	router        *chi.Mux
	stripe        *stripe.Service
	mail          notifications.NotificationService
	sms           notifications.NotificationService
	objectStorage *objectstorage.Client
	secret        string
	webAppURL     string
	serverURL     string
}

// New creates a new API HTTP server. It does not start the server. Use Start() for that.
func New(conf *Config) *API {
	if conf == nil {
		return nil
	}
	if conf.ObjectStorage != nil {
		conf.ObjectStorage.ServerURL = conf.ServerURL
	}
	return &API{
		db:            conf.DB,
		auth:          jwtauth.New("HS256", []byte(conf.Secret), nil),
		host:          conf.Host,
		port:          conf.Port,
		stripe:        conf.Stripe,
		mail:          conf.MailService,
		sms:           conf.SMSService,
		objectStorage: conf.ObjectStorage,
		secret:        conf.Secret,
		webAppURL:     conf.WebAppURL,
		serverURL:     conf.ServerURL,
	}
}

// Start starts the API HTTP server (non blocking).
func (a *API) Start() {
	go func() {
		if err := http.ListenAndServe(fmt.Sprintf("%s:%d", a.host, a.port), a.initRouter()); err != nil {
			log.Fatalf("failed to start the API server: %v", err)
		}
	}()
}

// Router returns the HTTP router, initializing it first if needed. Used by
// the tests to serve the API without binding a port.
func (a *API) Router() http.Handler {
	if a.router == nil {
		return a.initRouter()
	}
	return a.router
}

// initRouter creates the router with all the routes and middleware.
func (a *API) initRouter() http.Handler {
	r := chi.NewRouter()
	r.Use(cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		AllowCredentials: true,
		MaxAge:           300, // Maximum value not ignored by any of major browsers
	}).Handler)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Throttle(100))
	r.Use(middleware.Timeout(45 * time.Second))

	// protected routes
	r.Group(func(r chi.Router) {
		// seek, verify and validate JWT tokens
		r.Use(jwtauth.Verifier(a.auth))
		// handle valid JWT tokens
		r.Use(a.authenticator)
		// refresh the token
		log.Infow("new route", "method", "POST", "path", authRefreshTokenEndpoint)
		r.Post(authRefreshTokenEndpoint, a.refreshTokenHandler)
		// get and update the authenticated user
		log.Infow("new route", "method", "GET", "path", usersMeEndpoint)
		r.Get(usersMeEndpoint, a.userInfoHandler)
		log.Infow("new route", "method", "PUT", "path", usersMeEndpoint)
		r.Put(usersMeEndpoint, a.updateUserInfoHandler)
		// user management (admin)
		log.Infow("new route", "method", "GET", "path", usersEndpoint)
		r.Get(usersEndpoint, a.usersHandler)
		log.Infow("new route", "method", "GET", "path", userEndpoint)
		r.Get(userEndpoint, a.userHandler)
		log.Infow("new route", "method", "PUT", "path", userEndpoint)
		r.Put(userEndpoint, a.updateUserHandler)
		log.Infow("new route", "method", "DELETE", "path", userEndpoint)
		r.Delete(userEndpoint, a.deleteUserHandler)
		// campaign management (admin)
		log.Infow("new route", "method", "POST", "path", campaignsEndpoint)
		r.Post(campaignsEndpoint, a.createCampaignHandler)
		log.Infow("new route", "method", "PUT", "path", campaignEndpoint)
		r.Put(campaignEndpoint, a.updateCampaignHandler)
		log.Infow("new route", "method", "DELETE", "path", campaignEndpoint)
		r.Delete(campaignEndpoint, a.deleteCampaignHandler)
		// in-kind donations
		log.Infow("new route", "method", "POST", "path", donationsInKindEndpoint)
		r.Post(donationsInKindEndpoint, a.inKindDonationHandler)
		// content management (admin)
		log.Infow("new route", "method", "POST", "path", faqsEndpoint)
		r.Post(faqsEndpoint, a.createFAQHandler)
		log.Infow("new route", "method", "PUT", "path", faqEndpoint)
		r.Put(faqEndpoint, a.updateFAQHandler)
		log.Infow("new route", "method", "DELETE", "path", faqEndpoint)
		r.Delete(faqEndpoint, a.deleteFAQHandler)
		log.Infow("new route", "method", "POST", "path", skillsEndpoint)
		r.Post(skillsEndpoint, a.createSkillHandler)
		log.Infow("new route", "method", "PUT", "path", skillEndpoint)
		r.Put(skillEndpoint, a.updateSkillHandler)
		log.Infow("new route", "method", "DELETE", "path", skillEndpoint)
		r.Delete(skillEndpoint, a.deleteSkillHandler)
		log.Infow("new route", "method", "POST", "path", testimonialsEndpoint)
		r.Post(testimonialsEndpoint, a.createTestimonialHandler)
		log.Infow("new route", "method", "PUT", "path", testimonialEndpoint)
		r.Put(testimonialEndpoint, a.updateTestimonialHandler)
		log.Infow("new route", "method", "DELETE", "path", testimonialEndpoint)
		r.Delete(testimonialEndpoint, a.deleteTestimonialHandler)
		// upload an image to the object storage
		log.Infow("new route", "method", "POST", "path", storageUploadEndpoint)
		r.Post(storageUploadEndpoint, a.uploadImageHandler)
	})

	// routes with optional authentication: the JWT is parsed when present but
	// its absence does not reject the request (anonymous donations)
	r.Group(func(r chi.Router) {
		r.Use(jwtauth.Verifier(a.auth))
		// create a donation checkout session
		log.Infow("new route", "method", "POST", "path", paymentsSessionEndpoint)
		r.Post(paymentsSessionEndpoint, a.createDonationSessionHandler)
	})

	// public routes
	r.Group(func(r chi.Router) {
		r.Get("/ping", func(w http.ResponseWriter, _ *http.Request) {
			if _, err := w.Write([]byte(".")); err != nil {
				log.Warnw("failed to write ping response", "error", err)
			}
		})
		// login
		log.Infow("new route", "method", "POST", "path", authLoginEndpoint)
		r.Post(authLoginEndpoint, a.authLoginHandler)
		// register user
		log.Infow("new route", "method", "POST", "path", usersEndpoint)
		r.Post(usersEndpoint, a.registerHandler)
		// campaigns
		log.Infow("new route", "method", "GET", "path", campaignsEndpoint)
		r.Get(campaignsEndpoint, a.campaignsHandler)
		log.Infow("new route", "method", "GET", "path", campaignEndpoint)
		r.Get(campaignEndpoint, a.campaignHandler)
		log.Infow("new route", "method", "GET", "path", campaignDonationsEndpoint)
		r.Get(campaignDonationsEndpoint, a.campaignDonationsHandler)
		// content
		log.Infow("new route", "method", "GET", "path", faqsEndpoint)
		r.Get(faqsEndpoint, a.faqsHandler)
		log.Infow("new route", "method", "GET", "path", faqEndpoint)
		r.Get(faqEndpoint, a.faqHandler)
		log.Infow("new route", "method", "GET", "path", skillsEndpoint)
		r.Get(skillsEndpoint, a.skillsHandler)
		log.Infow("new route", "method", "GET", "path", skillEndpoint)
		r.Get(skillEndpoint, a.skillHandler)
		log.Infow("new route", "method", "GET", "path", testimonialsEndpoint)
		r.Get(testimonialsEndpoint, a.testimonialsHandler)
		log.Infow("new route", "method", "GET", "path", testimonialEndpoint)
		r.Get(testimonialEndpoint, a.testimonialHandler)
		// payment provider webhook and session status
		log.Infow("new route", "method", "POST", "path", paymentsWebhookEndpoint)
		r.Post(paymentsWebhookEndpoint, a.stripeWebhookHandler)
		log.Infow("new route", "method", "GET", "path", paymentsSessionStatusEndpoint)
		r.Get(paymentsSessionStatusEndpoint, a.checkoutSessionStatusHandler)
		// download an image from the object storage
		log.Infow("new route", "method", "GET", "path", storageDownloadEndpoint)
		r.Get(storageDownloadEndpoint, a.downloadImageHandler)
	})
	a.router = r
	return r
}
