// Package biosearch runs one free-text query against several biological
// databases and reports per-database progress.
package biosearch

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"bioez-be/internal/constant"
	"bioez-be/internal/entity"
	"bioez-be/pkg/bioapi/ensembl"
	"bioez-be/pkg/bioapi/ncbi"
	"bioez-be/pkg/bioapi/pubchem"
	"bioez-be/pkg/bioapi/rcsb"
	"bioez-be/pkg/bioapi/uniprot"
)

// Source searches a single database and maps its hits to display results.
type Source interface {
	Database() string
	Search(ctx context.Context, query string, limit int) ([]entity.SearchResult, error)
}

type RCSBSearcher interface {
	Search(ctx context.Context, term string, limit int) ([]rcsb.Hit, error)
}

type UniProtSearcher interface {
	Search(ctx context.Context, term string, limit int) ([]uniprot.Entry, error)
}

type NCBISearcher interface {
	Search(ctx context.Context, term string, limit int) ([]ncbi.Article, error)
}

type PubChemSearcher interface {
	Search(ctx context.Context, term, searchType string) ([]pubchem.Compound, error)
}

type EnsemblLookup interface {
	LookupSymbol(ctx context.Context, symbol string) (*ensembl.Gene, error)
}

type rcsbSource struct{ client RCSBSearcher }

func NewRCSBSource(c RCSBSearcher) Source { return &rcsbSource{client: c} }

func (s *rcsbSource) Database() string { return constant.DatabaseRCSB }

func (s *rcsbSource) Search(ctx context.Context, query string, limit int) ([]entity.SearchResult, error) {
	hits, err := s.client.Search(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	results := make([]entity.SearchResult, 0, len(hits))
	for _, h := range hits {
		desc := h.Title
		if desc == "" {
			desc = "No description available"
		}
		results = append(results, entity.SearchResult{
			Id:          h.Identifier,
			Title:       "PDB ID: " + h.Identifier,
			Description: desc,
			Url:         "https://www.rcsb.org/structure/" + h.Identifier,
		})
	}
	return results, nil
}

type uniprotSource struct{ client UniProtSearcher }

func NewUniProtSource(c UniProtSearcher) Source { return &uniprotSource{client: c} }

func (s *uniprotSource) Database() string { return constant.DatabaseUniProt }

func (s *uniprotSource) Search(ctx context.Context, query string, limit int) ([]entity.SearchResult, error) {
	entries, err := s.client.Search(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	results := make([]entity.SearchResult, 0, len(entries))
	for _, e := range entries {
		name := e.Name()
		if name == "" {
			name = "No name available"
		}
		organism := e.Organism.ScientificName
		if organism == "" {
			organism = "Unknown"
		}
		results = append(results, entity.SearchResult{
			Id:          e.PrimaryAccession,
			Title:       name,
			Description: fmt.Sprintf("Accession: %s | Organism: %s", e.PrimaryAccession, organism),
			Url:         "https://www.uniprot.org/uniprotkb/" + e.PrimaryAccession,
		})
	}
	return results, nil
}

type ncbiSource struct{ client NCBISearcher }

func NewNCBISource(c NCBISearcher) Source { return &ncbiSource{client: c} }

func (s *ncbiSource) Database() string { return constant.DatabaseNCBI }

func (s *ncbiSource) Search(ctx context.Context, query string, limit int) ([]entity.SearchResult, error) {
	articles, err := s.client.Search(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	results := make([]entity.SearchResult, 0, len(articles))
	for _, a := range articles {
		title := a.Title
		if title == "" {
			title = "PubMed ID: " + a.Id
		}
		r := entity.SearchResult{
			Id:    a.Id,
			Title: title,
			Url:   "https://pubmed.ncbi.nlm.nih.gov/" + a.Id + "/",
		}
		switch {
		case a.PubDate != "":
			r.Description = "Published: " + a.PubDate
		case a.Found:
			r.Description = "No date available"
		}
		results = append(results, r)
	}
	return results, nil
}

type pubchemSource struct{ client PubChemSearcher }

func NewPubChemSource(c PubChemSearcher) Source { return &pubchemSource{client: c} }

func (s *pubchemSource) Database() string { return constant.DatabasePubChem }

func (s *pubchemSource) Search(ctx context.Context, query string, limit int) ([]entity.SearchResult, error) {
	compounds, err := s.client.Search(ctx, query, "name")
	if err != nil {
		return nil, err
	}
	results := make([]entity.SearchResult, 0, len(compounds))
	for _, c := range compounds {
		cid := strconv.Itoa(c.Cid)
		title := c.IUPACName
		if title == "" {
			title = "CID: " + cid
		}
		r := entity.SearchResult{
			Id:    cid,
			Title: title,
			Url:   "https://pubchem.ncbi.nlm.nih.gov/compound/" + cid,
		}
		if c.MolecularFormula != "" {
			r.Description = "Molecular formula: " + c.MolecularFormula
		}
		results = append(results, r)
	}
	return results, nil
}

type ensemblSource struct{ client EnsemblLookup }

func NewEnsemblSource(c EnsemblLookup) Source { return &ensemblSource{client: c} }

func (s *ensemblSource) Database() string { return constant.DatabaseEnsembl }

func (s *ensemblSource) Search(ctx context.Context, query string, limit int) ([]entity.SearchResult, error) {
	gene, err := s.client.LookupSymbol(ctx, query)
	if err != nil {
		return nil, err
	}
	if gene == nil {
		return []entity.SearchResult{}, nil
	}
	desc := gene.Description
	if desc == "" {
		desc = gene.Biotype
	}
	title := gene.DisplayName
	if title == "" {
		title = gene.Id
	}
	return []entity.SearchResult{{
		Id:          gene.Id,
		Title:       title,
		Description: desc,
		Url:         "https://www.ensembl.org/Homo_sapiens/Gene/Summary?g=" + url.QueryEscape(gene.Id),
	}}, nil
}
