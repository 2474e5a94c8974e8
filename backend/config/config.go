package config

import (
	"github.com/ellavondegurechaff/foodgram/foodgram"
)

// WebAppConfig contains web-specific configuration
type WebAppConfig struct {
	Config      *foodgram.Config
	Debug       bool
	Environment string
}

func NewWebAppConfig(cfg *foodgram.Config, debug bool) *WebAppConfig {
	environment := "production"
	if debug {
		environment = "development"
	}

	return &WebAppConfig{
		Config:      cfg,
		Debug:       debug,
		Environment: environment,
	}
}

func (w *WebAppConfig) GetWebConfig() foodgram.WebConfig {
	return w.Config.Web
}

func (w *WebAppConfig) PageSize() int {
	return w.Config.Recipes.PageSize
}
