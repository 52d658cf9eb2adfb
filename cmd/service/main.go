package main

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	flag "github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/helpinghub/volunteer-backend/api"
	"github.com/helpinghub/volunteer-backend/db"
	"github.com/helpinghub/volunteer-backend/notifications"
	"github.com/helpinghub/volunteer-backend/notifications/mailtemplates"
	"github.com/helpinghub/volunteer-backend/notifications/smtp"
	"github.com/helpinghub/volunteer-backend/notifications/twilio"
	"github.com/helpinghub/volunteer-backend/objectstorage"
	"github.com/helpinghub/volunteer-backend/stripe"
	"go.vocdoni.io/dvote/log"
)

func main() {
	log.Init("debug", "stdout", nil)
	// define flags
	flag.StringP("host", "h", "0.0.0.0", "listen address")
	flag.IntP("port", "p", 8080, "listen port")
	flag.StringP("secret", "s", "", "API JWT secret")
	flag.String("mongoURL", "", "The URL of the MongoDB server")
	flag.String("mongoDB", "helpinghub", "The name of the MongoDB database")
	flag.StringP("webURL", "w", "http://localhost:3000", "The frontend web application URL")
	flag.String("serverURL", "http://localhost:8080", "The public URL of this API server")
	flag.String("stripeApiSecret", "", "Stripe API secret key")
	flag.String("stripeWebhookSecret", "", "Stripe webhook signing secret")
	flag.String("currency", stripe.DefaultCurrency, "donation currency (ISO code)")
	flag.String("smtpServer", "", "SMTP server")
	flag.Int("smtpPort", 587, "SMTP port")
	flag.String("smtpUsername", "", "SMTP username")
	flag.String("smtpPassword", "", "SMTP password")
	flag.String("emailFromAddress", "", "Email service from address")
	flag.String("emailFromName", "HelpingHub", "Email service from name")
	flag.String("twilioAccountSid", "", "Twilio account SID")
	flag.String("twilioAuthToken", "", "Twilio auth token")
	flag.String("twilioFromNumber", "", "Twilio sender number")
	// parse flags
	flag.Parse()
	// initialize Viper
	viper.SetEnvPrefix("HELPINGHUB")
	if err := viper.BindPFlags(flag.CommandLine); err != nil {
		panic(err)
	}
	viper.AutomaticEnv()
	// read the configuration
	host := viper.GetString("host")
	port := viper.GetInt("port")
	secret := viper.GetString("secret")
	if secret == "" {
		log.Fatal("secret is required")
	}
	mongoURL := viper.GetString("mongoURL")
	mongoDB := viper.GetString("mongoDB")
	webURL := viper.GetString("webURL")
	serverURL := viper.GetString("serverURL")

	// initialize the MongoDB database
	database, err := db.New(mongoURL, mongoDB)
	if err != nil {
		log.Fatalf("could not create the MongoDB database: %v", err)
	}
	defer database.Close()

	// load the email templates
	if err := mailtemplates.Load(); err != nil {
		log.Fatalf("could not load email templates: %v", err)
	}

	// create email service if the configuration is provided
	var mailService notifications.NotificationService
	if smtpServer := viper.GetString("smtpServer"); smtpServer != "" {
		mailService = new(smtp.Email)
		if err := mailService.New(&smtp.Config{
			FromName:     viper.GetString("emailFromName"),
			FromAddress:  viper.GetString("emailFromAddress"),
			SMTPUsername: viper.GetString("smtpUsername"),
			SMTPPassword: viper.GetString("smtpPassword"),
			SMTPServer:   smtpServer,
			SMTPPort:     viper.GetInt("smtpPort"),
		}); err != nil {
			log.Fatalf("could not create the email service: %v", err)
		}
		log.Infow("email service created", "server", smtpServer)
	}

	// create SMS service if the configuration is provided
	var smsService notifications.NotificationService
	if accountSid := viper.GetString("twilioAccountSid"); accountSid != "" {
		smsService = new(twilio.SMS)
		if err := smsService.New(&twilio.Config{
			AccountSid: accountSid,
			AuthToken:  viper.GetString("twilioAuthToken"),
			FromNumber: viper.GetString("twilioFromNumber"),
		}); err != nil {
			log.Fatalf("could not create the SMS service: %v", err)
		}
		log.Infow("SMS service created")
	}

	// create the Stripe service if the configuration is provided
	var stripeService *stripe.Service
	if apiSecret := viper.GetString("stripeApiSecret"); apiSecret != "" {
		stripeConfig := &stripe.Config{
			APIKey:        apiSecret,
			WebhookSecret: viper.GetString("stripeWebhookSecret"),
			WebAppURL:     webURL,
			Currency:      viper.GetString("currency"),
			Tiers:         stripe.DefaultTiers(),
		}
		stripeService, err = stripe.NewService(stripeConfig, database,
			stripe.NewMemoryEventStore(24*time.Hour), mailService, smsService)
		if err != nil {
			log.Fatalf("could not create the Stripe service: %v", err)
		}
		log.Infow("stripe service created")
	} else {
		log.Warn("no Stripe API secret provided, payments are disabled")
	}

	// create the object storage client
	objectStorage, err := objectstorage.New(&objectstorage.Config{
		DB:        database,
		ServerURL: serverURL,
	})
	if err != nil {
		log.Fatalf("could not create the object storage client: %v", err)
	}

	// create and start the API server
	api.New(&api.Config{
		Host:          host,
		Port:          port,
		Secret:        secret,
		DB:            database,
		Stripe:        stripeService,
		MailService:   mailService,
		SMSService:    smsService,
		ObjectStorage: objectStorage,
		WebAppURL:     webURL,
		ServerURL:     serverURL,
	}).Start()
	log.Infow("server started", "host", host, "port", port)

	// wait forever, as the server is running in a goroutine
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	<-c
}
