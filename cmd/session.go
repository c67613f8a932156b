package cmd

import (
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"shopify.GO/config"
	"shopify.GO/core/admin"
	"shopify.GO/service/catalog"
)

// session is everything a command needs to talk to one store.
type session struct {
	store string
	app   *config.Config
	admin admin.Config
	log   *zap.Logger
}

// appConfig is the environment config with persistent flags applied.
func appConfig() *config.Config {
	config.LoadAppConfig()
	app := *config.AppConfig
	if apiVersionFlag != "" {
		app.APIVersion = apiVersionFlag
	}
	if endpointFlag != "" {
		app.Endpoint = endpointFlag
	}
	if logLevelFlag != "" {
		app.LogLevel = logLevelFlag
	}
	if logFormatFlag != "" {
		app.LogFormat = logFormatFlag
	}
	if pageSizeFlag > 0 {
		app.PageSize = pageSizeFlag
	}
	return &app
}

func newLogger(app *config.Config) (*zap.Logger, error) {
	log, err := config.NewLogger(app.LogLevel, app.LogFormat)
	if err != nil {
		return nil, err
	}
	for _, w := range app.Warnings {
		log.Warn("config value ignored", zap.String("detail", w))
	}
	return log, nil
}

func newSession(store, token string) (*session, error) {
	if store == "" || token == "" {
		return nil, fmt.Errorf("store name and access token are required")
	}
	app := appConfig()
	log, err := newLogger(app)
	if err != nil {
		return nil, err
	}
	endpoint := app.Endpoint
	if endpoint == "" {
		endpoint = config.GraphQLEndpoint(store, app.APIVersion)
	}
	log = log.With(zap.String("store", store))
	log.Debug("admin endpoint", zap.String("endpoint", endpoint), zap.String("version", app.APIVersion))

	return &session{
		store: store,
		app:   app,
		log:   log,
		admin: admin.Config{
			Endpoint:   endpoint,
			Credential: token,
			Tenant:     store,
			HTTPClient: &http.Client{Timeout: app.HTTPTimeout},
			Logger:     log,
		},
	}, nil
}

func (s *session) fetcher() *catalog.Fetcher {
	return catalog.NewFetcher(s.admin,
		catalog.WithPageSize(s.app.PageSize),
		catalog.WithLimits(catalog.Limits{
			Media:           s.app.MediaLimit,
			Variants:        s.app.VariantLimit,
			InventoryLevels: s.app.InventoryLevelLimit,
			Metafields:      s.app.MetafieldLimit,
		}),
		catalog.WithLogger(s.log),
	)
}

func (s *session) close() {
	_ = s.log.Sync()
}
