package biosearch

import (
	"context"

	"bioez-be/internal/constant"
	"bioez-be/internal/entity"
)

var fixtureResults = map[string][]entity.SearchResult{
	constant.DatabaseRCSB: {
		{Id: "4HHB", Title: "PDB ID: 4HHB", Description: "The crystal structure of human deoxyhaemoglobin", Url: "https://www.rcsb.org/structure/4HHB"},
	},
	constant.DatabaseUniProt: {
		{Id: "P68871", Title: "Hemoglobin subunit beta", Description: "Accession: P68871 | Organism: Homo sapiens", Url: "https://www.uniprot.org/uniprotkb/P68871"},
	},
	constant.DatabaseNCBI: {
		{Id: "12345678", Title: "Structure and function of hemoglobin", Description: "Published: 2023", Url: "https://pubmed.ncbi.nlm.nih.gov/12345678/"},
	},
	constant.DatabasePubChem: {
		{Id: "26945", Title: "Heme B", Description: "Molecular formula: C34H32FeN4O4", Url: "https://pubchem.ncbi.nlm.nih.gov/compound/26945"},
	},
	constant.DatabaseEnsembl: {
		{Id: "ENSG00000244734", Title: "HBB", Description: "hemoglobin subunit beta", Url: "https://www.ensembl.org/Homo_sapiens/Gene/Summary?g=ENSG00000244734"},
	},
}

// FixtureSource serves canned results for one database in development.
type FixtureSource struct {
	database string
}

func NewFixtureSource(database string) *FixtureSource {
	return &FixtureSource{database: database}
}

func (s *FixtureSource) Database() string { return s.database }

func (s *FixtureSource) Search(ctx context.Context, query string, limit int) ([]entity.SearchResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return append([]entity.SearchResult{}, fixtureResults[s.database]...), nil
}

// FallbackSource serves the fixture whenever the live source fails.
type FallbackSource struct {
	primary   Source
	fixture   Source
	onFailure func(database string, err error)
}

func NewFallbackSource(primary, fixture Source, onFailure func(database string, err error)) *FallbackSource {
	return &FallbackSource{primary: primary, fixture: fixture, onFailure: onFailure}
}

func (s *FallbackSource) Database() string { return s.primary.Database() }

func (s *FallbackSource) Search(ctx context.Context, query string, limit int) ([]entity.SearchResult, error) {
	results, err := s.primary.Search(ctx, query, limit)
	if err == nil {
		return results, nil
	}
	if s.onFailure != nil {
		s.onFailure(s.primary.Database(), err)
	}
	return s.fixture.Search(ctx, query, limit)
}
