package orchestrator

import (
	"adforge/internal/gateway"
	"adforge/internal/providers"
	"adforge/internal/structures"
	"context"
)

// KeySelector obtains a fresh credential after the backend refused the
// current one.
type KeySelector interface {
	Reselect(ctx context.Context) error
}

// ConfigKeySelector re-reads the key from the config file and environment and
// hands it to the gateway.
type ConfigKeySelector struct {
	conf   *structures.Config
	gw     gateway.KeyedGateway
	logger providers.Logger
}

func NewConfigKeySelector(conf *structures.Config, gw gateway.KeyedGateway, logger providers.Logger) KeySelector {
	return &ConfigKeySelector{conf: conf, gw: gw, logger: logger}
}

func (s *ConfigKeySelector) Reselect(_ context.Context) error {
	key, err := providers.ReloadApiKey(s.conf)
	if err != nil {
		s.logger.Errorf(providers.TypeGateway, "API key reselection failed: %s", err)
		return err
	}
	s.gw.SetAPIKey(key)
	s.logger.Infof(providers.TypeGateway, "API key reloaded from %s", s.conf.Path)
	return nil
}
