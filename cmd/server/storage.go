package main

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/familyhub/internal/ai"
	"github.com/Nixie-Tech-LLC/familyhub/internal/config"
	"github.com/Nixie-Tech-LLC/familyhub/internal/db"
	"github.com/Nixie-Tech-LLC/familyhub/internal/http/api/learning/endpoints"
	"github.com/Nixie-Tech-LLC/familyhub/internal/mail"
	"github.com/Nixie-Tech-LLC/familyhub/internal/notify"
	"github.com/Nixie-Tech-LLC/familyhub/internal/redis"
	"github.com/Nixie-Tech-LLC/familyhub/internal/storage"
)

// Services bundles the backends the route modules are built from.
type Services struct {
	Store  db.Store
	Cache  *redis.Cache
	Files  storage.Storage
	Mailer *mail.Mailer
	Events notify.Publisher
	Tutor  endpoints.Tutor
	Budget endpoints.Budget
}

// InitStorage selects and returns the configured storage backend
func InitStorage(cfg *config.Config) storage.Storage {
	if cfg.UseSpaces {
		spaces, err := storage.NewSpacesStorage(
			cfg.SpacesEndpoint,
			cfg.SpacesRegion,
			cfg.SpacesBucket,
			cfg.SpacesCDNURL,
			cfg.SpacesAccessKey,
			cfg.SpacesSecretKey,
		)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to initialize Spaces storage")
		}
		log.Info().Str("cdn", cfg.SpacesCDNURL).Msg("using DigitalOcean Spaces storage")
		return spaces
	}

	log.Info().Str("dir", cfg.UploadDir).Msg("using local file storage")
	return storage.NewLocalStorage(cfg.UploadDir)
}

func InitMailer(cfg *config.Config) *mail.Mailer {
	var sender mail.Sender = mail.LogSender{}
	if cfg.SendGridAPIKey != "" {
		sender = mail.NewSendGridSender(cfg.SendGridAPIKey, cfg.MailFromName, cfg.MailFrom)
	} else {
		log.Warn().Msg("SENDGRID_API_KEY not set, emails will only be logged")
	}
	return mail.NewMailer(sender, cfg.FrontendURL)
}

// InitPublisher connects to the MQTT broker, or falls back to logging events.
func InitPublisher(cfg *config.Config) (notify.Publisher, func()) {
	if cfg.MQTTBrokerURL == "" {
		log.Info().Msg("MQTT_BROKER_URL not set, events will only be logged")
		return notify.LogPublisher{}, func() {}
	}
	p, err := notify.NewMQTTPublisher(cfg.MQTTBrokerURL, cfg.MQTTClientID)
	if err != nil {
		log.Error().Err(err).Str("broker", cfg.MQTTBrokerURL).Msg("mqtt connect failed, events will only be logged")
		return notify.LogPublisher{}, func() {}
	}
	return p, p.Close
}

// InitTutor returns nil dependencies when no Gemini key is configured.
func InitTutor(ctx context.Context, cfg *config.Config, store db.Store) (endpoints.Tutor, endpoints.Budget) {
	if cfg.GeminiAPIKey == "" {
		log.Warn().Msg("GEMINI_API_KEY not set, worksheet generation and grading disabled")
		return nil, nil
	}
	m, err := ai.NewGeminiModel(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
	if err != nil {
		log.Error().Err(err).Msg("gemini client unavailable, AI features disabled")
		return nil, nil
	}
	return ai.NewTutor(m), ai.NewBudget(store)
}
