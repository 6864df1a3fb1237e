package service

import (
	"context"
	"encoding/json"
	"regexp"
	"strings"
	"time"

	"bioez-be/internal/pkg/apperror"

	"github.com/patrickmn/go-cache"
)

var (
	uniprotAccessionPattern = regexp.MustCompile(`^([OPQ][0-9][A-Z0-9]{3}[0-9]|[A-NR-Z][0-9]([A-Z][A-Z0-9]{2}[0-9]){1,2})$`)
	pdbIDPattern            = regexp.MustCompile(`^[0-9][A-Z0-9]{3}$`)
)

type UniProtFetcher interface {
	Fetch(ctx context.Context, accession string) (json.RawMessage, error)
}

type PDBFetcher interface {
	Entry(ctx context.Context, pdbID string) (json.RawMessage, error)
	StructureFile(ctx context.Context, pdbID string) (string, error)
}

type IDatabaseService interface {
	UniProtEntry(ctx context.Context, accession string) (json.RawMessage, error)
	PDBEntry(ctx context.Context, pdbID string) (json.RawMessage, error)
	PDBStructure(ctx context.Context, pdbID string) (string, error)
}

type databaseService struct {
	uniprot UniProtFetcher
	pdb     PDBFetcher
	files   *cache.Cache
}

// NewDatabaseService caches downloaded structure files for ttl.
func NewDatabaseService(uniprot UniProtFetcher, pdb PDBFetcher, ttl time.Duration) IDatabaseService {
	return &databaseService{uniprot: uniprot, pdb: pdb, files: cache.New(ttl, 2*ttl)}
}

func (s *databaseService) UniProtEntry(ctx context.Context, accession string) (json.RawMessage, error) {
	accession = strings.ToUpper(strings.TrimSpace(accession))
	if !uniprotAccessionPattern.MatchString(accession) {
		return nil, apperror.Validation("INVALID_ACCESSION", "Invalid UniProt accession").WithDetail("accession", accession)
	}
	raw, err := s.uniprot.Fetch(ctx, accession)
	return raw, notFoundOn404(err, "UniProt entry not found")
}

func (s *databaseService) PDBEntry(ctx context.Context, pdbID string) (json.RawMessage, error) {
	id, err := normalisePDBID(pdbID)
	if err != nil {
		return nil, err
	}
	raw, err := s.pdb.Entry(ctx, id)
	return raw, notFoundOn404(err, "PDB entry not found")
}

func (s *databaseService) PDBStructure(ctx context.Context, pdbID string) (string, error) {
	id, err := normalisePDBID(pdbID)
	if err != nil {
		return "", err
	}
	if x, ok := s.files.Get(id); ok {
		return x.(string), nil
	}
	text, err := s.pdb.StructureFile(ctx, id)
	if err != nil {
		return "", notFoundOn404(err, "PDB structure not found")
	}
	s.files.SetDefault(id, text)
	return text, nil
}

func normalisePDBID(id string) (string, error) {
	id = strings.ToUpper(strings.TrimSpace(id))
	if !pdbIDPattern.MatchString(id) {
		return "", apperror.Validation("INVALID_PDB_ID", "Invalid PDB id").WithDetail("id", id)
	}
	return id, nil
}

func notFoundOn404(err error, message string) error {
	if err == nil {
		return nil
	}
	if apperror.UpstreamStatus(err) == 404 {
		return apperror.NotFound("ENTRY_NOT_FOUND", message).WithCause(err)
	}
	return err
}
