package bootstrap

import (
	"fmt"

	"bioez-be/internal/config"
	"bioez-be/internal/constant"
	"bioez-be/internal/pkg/logger"
	"bioez-be/pkg/bioapi/ensembl"
	"bioez-be/pkg/bioapi/ncbi"
	"bioez-be/pkg/bioapi/prediction"
	"bioez-be/pkg/bioapi/pubchem"
	"bioez-be/pkg/bioapi/rcsb"
	"bioez-be/pkg/bioapi/uniprot"
	"bioez-be/pkg/biosearch"
	"bioez-be/pkg/llm"
	"bioez-be/pkg/llm/factory"
	"bioez-be/pkg/llm/fixture"
)

// DataSources are the remote collaborators of the stores and the search
// pipeline. Fixture data is chosen here, once, and never outside development.
type DataSources struct {
	Predictor prediction.Predictor
	LLM       llm.LLMProvider
	Sources   []biosearch.Source

	// Entry lookups always go to the live services.
	UniProt *uniprot.Client
	RCSB    *rcsb.Client

	// Fallback is true when live calls are wrapped with fixture fallbacks.
	Fallback bool
	Fixture  bool
}

func NewDataSources(cfg *config.Config, log logger.ILogger) (*DataSources, error) {
	rcsbClient := rcsb.NewClient(cfg.Bio.RCSBSearchURL, cfg.Bio.RCSBDataURL, cfg.Bio.RCSBFilesURL, cfg.Bio.DatabaseTimeout)
	uniprotClient := uniprot.NewClient(cfg.Bio.UniProtURL, cfg.Bio.DatabaseTimeout)
	ds := &DataSources{UniProt: uniprotClient, RCSB: rcsbClient}

	switch cfg.App.DataSource {
	case config.DataSourceFixture:
		if !cfg.IsDevelopment() {
			return nil, fmt.Errorf("DATA_SOURCE=%s is only allowed in development, GO_ENV=%q", config.DataSourceFixture, cfg.App.Environment)
		}
		ds.Fixture = true
		ds.Predictor = prediction.NewFixtureClient()
		ds.LLM = fixture.NewProvider(constant.DevAssistantFallback)
		for _, db := range cfg.Search.Databases {
			ds.Sources = append(ds.Sources, biosearch.NewFixtureSource(db))
		}
		return ds, nil

	case config.DataSourceLive, "":
	default:
		return nil, fmt.Errorf("unsupported DATA_SOURCE: %s", cfg.App.DataSource)
	}

	ds.Predictor = prediction.NewClient(cfg.Bio.PredictionURL, cfg.Keys.Prediction, cfg.Bio.PredictionTimeout)

	provider, err := factory.NewLLMProvider(factory.Settings{
		Provider: cfg.Ai.LLMProvider,
		APIKey:   cfg.Keys.LLM,
		BaseURL:  llmBaseURL(cfg),
		Model:    cfg.Ai.LLMModel,
		Timeout:  cfg.Ai.LLMTimeout,
	})
	if err != nil {
		return nil, err
	}
	ds.LLM = provider

	for _, db := range cfg.Search.Databases {
		src, err := liveSource(db, cfg, rcsbClient, uniprotClient)
		if err != nil {
			return nil, err
		}
		ds.Sources = append(ds.Sources, src)
	}

	if cfg.IsDevelopment() && cfg.App.DevFixtureFallback {
		ds.Fallback = true
		ds.Predictor = prediction.NewFallbackClient(ds.Predictor, prediction.NewFixtureClient(), log)
		ds.LLM = fixture.NewFallback(ds.LLM, fixture.NewProvider(constant.DevAssistantFallback), func(err error) {
			log.Warn("LLM", "Chat completion failed, serving development fixture", map[string]interface{}{"error": err.Error()})
		})
		for i, src := range ds.Sources {
			ds.Sources[i] = biosearch.NewFallbackSource(src, biosearch.NewFixtureSource(src.Database()), func(database string, err error) {
				log.Warn("SEARCH", "Database search failed, serving development fixture", map[string]interface{}{
					"database": database,
					"error":    err.Error(),
				})
			})
		}
	}

	return ds, nil
}

func llmBaseURL(cfg *config.Config) string {
	if cfg.Ai.LLMProvider == factory.ProviderOllama {
		return cfg.Ai.OllamaBaseURL
	}
	return cfg.Ai.LLMBaseURL
}

func liveSource(database string, cfg *config.Config, rcsbClient *rcsb.Client, uniprotClient *uniprot.Client) (biosearch.Source, error) {
	switch database {
	case constant.DatabaseRCSB:
		return biosearch.NewRCSBSource(rcsbClient), nil
	case constant.DatabaseUniProt:
		return biosearch.NewUniProtSource(uniprotClient), nil
	case constant.DatabaseNCBI:
		return biosearch.NewNCBISource(ncbi.NewClient(cfg.Bio.NCBIURL, cfg.Bio.NCBIDatabase, cfg.Keys.NCBI, cfg.Bio.DatabaseTimeout)), nil
	case constant.DatabasePubChem:
		return biosearch.NewPubChemSource(pubchem.NewClient(cfg.Bio.PubChemURL, cfg.Bio.DatabaseTimeout)), nil
	case constant.DatabaseEnsembl:
		return biosearch.NewEnsemblSource(ensembl.NewClient(cfg.Bio.EnsemblURL, cfg.Bio.DatabaseTimeout)), nil
	default:
		return nil, fmt.Errorf("unsupported search database: %s", database)
	}
}
