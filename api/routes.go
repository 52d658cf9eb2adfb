package api

const (
	// auth routes

	// POST /auth/login to login and get a JWT token
	authLoginEndpoint = "/auth/login"
	// POST /auth/refresh to refresh the JWT token
	authRefreshTokenEndpoint = "/auth/refresh"

	// user routes

	// POST /users to register a new user, GET /users to list them (admin)
	usersEndpoint = "/users"
	// GET/PUT/DELETE /users/{userID} for a single user
	userEndpoint = "/users/{userID}"
	// GET/PUT /users/me for the authenticated user
	usersMeEndpoint = "/users/me"

	// campaign routes

	// GET /campaigns to list campaigns, POST to create one (admin)
	campaignsEndpoint = "/campaigns"
	// GET/PUT/DELETE /campaigns/{campaignID} for a single campaign
	campaignEndpoint = "/campaigns/{campaignID}"
	// GET /campaigns/{campaignID}/donations to list campaign donations
	campaignDonationsEndpoint = "/campaigns/{campaignID}/donations"

	// payment routes

	// POST /payments/stripe/session to create a donation checkout session
	paymentsSessionEndpoint = "/payments/stripe/session"
	// GET /payments/stripe/session/{sessionID} to get a session status
	paymentsSessionStatusEndpoint = "/payments/stripe/session/{sessionID}"
	// POST /payments/stripe/webhook to receive provider events
	paymentsWebhookEndpoint = "/payments/stripe/webhook"
	// POST /donations/inkind to record a non-monetary donation
	donationsInKindEndpoint = "/donations/inkind"

	// content routes

	// GET /faqs to list FAQs, POST to create one (admin)
	faqsEndpoint = "/faqs"
	// GET/PUT/DELETE /faqs/{faqID} for a single FAQ
	faqEndpoint = "/faqs/{faqID}"
	// GET /skills to list skills, POST to create one (admin)
	skillsEndpoint = "/skills"
	// GET/PUT/DELETE /skills/{skillID} for a single skill
	skillEndpoint = "/skills/{skillID}"
	// GET /testimonials to list testimonials, POST to create one (admin)
	testimonialsEndpoint = "/testimonials"
	// GET/PUT/DELETE /testimonials/{testimonialID} for a single testimonial
	testimonialEndpoint = "/testimonials/{testimonialID}"

	// storage routes

	// POST /storage to upload an image
	storageUploadEndpoint = "/storage"
	// GET /storage/{objectName} to download an image
	storageDownloadEndpoint = "/storage/{objectName}"
)
