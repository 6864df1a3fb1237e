package biosearch

import (
	"context"
	"errors"
	"testing"
	"time"

	"bioez-be/internal/entity"
	"bioez-be/pkg/bioapi/ensembl"
	"bioez-be/pkg/bioapi/ncbi"
	"bioez-be/pkg/bioapi/pubchem"
	"bioez-be/pkg/bioapi/rcsb"
	"bioez-be/pkg/bioapi/uniprot"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type rcsbStub []rcsb.Hit

func (s rcsbStub) Search(context.Context, string, int) ([]rcsb.Hit, error) { return s, nil }

type uniprotStub []uniprot.Entry

func (s uniprotStub) Search(context.Context, string, int) ([]uniprot.Entry, error) { return s, nil }

type ncbiStub []ncbi.Article

func (s ncbiStub) Search(context.Context, string, int) ([]ncbi.Article, error) { return s, nil }

type pubchemStub []pubchem.Compound

func (s pubchemStub) Search(context.Context, string, string) ([]pubchem.Compound, error) {
	return s, nil
}

type ensemblStub struct{ gene *ensembl.Gene }

func (s ensemblStub) LookupSymbol(context.Context, string) (*ensembl.Gene, error) {
	return s.gene, nil
}

func TestRCSBMapping(t *testing.T) {
	res, err := NewRCSBSource(rcsbStub{{Identifier: "4HHB"}}).Search(context.Background(), "q", 10)

	require.NoError(t, err)
	assert.Equal(t, "PDB ID: 4HHB", res[0].Title)
	assert.Equal(t, "No description available", res[0].Description)
	assert.Equal(t, "https://www.rcsb.org/structure/4HHB", res[0].Url)
}

func TestUniProtMapping(t *testing.T) {
	var entry uniprot.Entry
	entry.PrimaryAccession = "P69905"

	res, err := NewUniProtSource(uniprotStub{entry}).Search(context.Background(), "q", 10)

	require.NoError(t, err)
	assert.Equal(t, "No name available", res[0].Title)
	assert.Equal(t, "Accession: P69905 | Organism: Unknown", res[0].Description)
	assert.Equal(t, "https://www.uniprot.org/uniprotkb/P69905", res[0].Url)
}

func TestNCBIMapping(t *testing.T) {
	res, err := NewNCBISource(ncbiStub{
		{Id: "1", Title: "A paper", PubDate: "2020", Found: true},
		{Id: "2"},
		{Id: "3", Title: "Undated", Found: true},
	}).Search(context.Background(), "q", 10)

	require.NoError(t, err)
	require.Len(t, res, 3)
	assert.Equal(t, "A paper", res[0].Title)
	assert.Equal(t, "Published: 2020", res[0].Description)
	assert.Equal(t, "PubMed ID: 2", res[1].Title)
	assert.Empty(t, res[1].Description)
	assert.Equal(t, "https://pubmed.ncbi.nlm.nih.gov/2/", res[1].Url)
	assert.Equal(t, "Undated", res[2].Title)
	assert.Equal(t, "No date available", res[2].Description)
}

func TestPubChemMapping(t *testing.T) {
	res, err := NewPubChemSource(pubchemStub{{Cid: 2244, MolecularFormula: "C9H8O4"}}).Search(context.Background(), "aspirin", 10)

	require.NoError(t, err)
	assert.Equal(t, "CID: 2244", res[0].Title)
	assert.Equal(t, "Molecular formula: C9H8O4", res[0].Description)
	assert.Equal(t, "https://pubchem.ncbi.nlm.nih.gov/compound/2244", res[0].Url)
}

func TestEnsemblMapping(t *testing.T) {
	res, err := NewEnsemblSource(ensemblStub{&ensembl.Gene{Id: "ENSG1", DisplayName: "HBB", Biotype: "protein_coding"}}).
		Search(context.Background(), "HBB", 10)
	require.NoError(t, err)
	assert.Equal(t, "HBB", res[0].Title)
	assert.Equal(t, "protein_coding", res[0].Description)

	res, err = NewEnsemblSource(ensemblStub{}).Search(context.Background(), "NOPE", 10)
	require.NoError(t, err)
	assert.Empty(t, res)
}

func TestCachedSourceCachesSuccessOnly(t *testing.T) {
	calls := 0
	src := &countingSource{calls: &calls}
	cached := NewCachedSource(src, NewResultCache(time.Minute))

	_, err := cached.Search(context.Background(), "Kinase", 10)
	require.NoError(t, err)
	_, err = cached.Search(context.Background(), " kinase ", 10)
	require.NoError(t, err)
	assert.Equal(t, 1, calls)

	src.err = errors.New("down")
	_, err = cached.Search(context.Background(), "other", 10)
	assert.Error(t, err)
	src.err = nil
	_, err = cached.Search(context.Background(), "other", 10)
	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestFallbackSource(t *testing.T) {
	var failed string
	src := NewFallbackSource(
		stubSource{name: "rcsb", err: errors.New("down")},
		NewFixtureSource("rcsb"),
		func(db string, err error) { failed = db },
	)

	res, err := src.Search(context.Background(), "hemoglobin", 10)

	require.NoError(t, err)
	assert.Equal(t, "4HHB", res[0].Id)
	assert.Equal(t, "rcsb", failed)
}

type countingSource struct {
	calls *int
	err   error
}

func (s *countingSource) Database() string { return "rcsb" }

func (s *countingSource) Search(ctx context.Context, query string, limit int) ([]entity.SearchResult, error) {
	*s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return []entity.SearchResult{{Id: "1"}}, nil
}
