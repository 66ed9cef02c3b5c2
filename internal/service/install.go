package service

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/staffhours/backend/internal/model"
	"github.com/staffhours/backend/internal/pkg/apperr"
	"github.com/staffhours/backend/internal/repo"
)

type Install struct {
	schemaRepo *repo.Schema
}

func NewInstall(schemaRepo *repo.Schema) *Install {
	return &Install{schemaRepo: schemaRepo}
}

// Run creates the store schema. An already installed store is left untouched and
// reported as ErrAlreadyInitialized.
func (s *Install) Run(ctx context.Context) (*model.SchemaVersion, error) {
	version, err := s.schemaRepo.Install(ctx)
	if err != nil {
		return nil, apperr.StoreIO(err, "failed to install schema")
	}

	log.Info().
		Int("version", version.Version).
		Time("installedAt", version.InstalledAt).
		Msg("store installed")

	return version, nil
}
