package constant

import "time"

const (
	DatabaseRCSB    = "rcsb"
	DatabaseUniProt = "uniprot"
	DatabaseNCBI    = "ncbi"
	DatabasePubChem = "pubchem"
	DatabaseEnsembl = "ensembl"

	SearchResultLimit = 10
	SearchRateDelay   = 1 * time.Second
	SearchCacheTTL    = 10 * time.Minute

	DefaultRCSBSearchURL = "https://search.rcsb.org/rcsbsearch/v2/query"
	DefaultRCSBDataURL   = "https://data.rcsb.org/rest/v1/core"
	DefaultRCSBFilesURL  = "https://files.rcsb.org/download"
	DefaultUniProtURL    = "https://rest.uniprot.org/uniprotkb"
	DefaultNCBIURL       = "https://eutils.ncbi.nlm.nih.gov/entrez/eutils"
	DefaultPubChemURL    = "https://pubchem.ncbi.nlm.nih.gov/rest/pug"
	DefaultEnsemblURL    = "https://rest.ensembl.org"
)

var DefaultSearchDatabases = []string{DatabaseRCSB, DatabaseUniProt, DatabaseNCBI, DatabasePubChem}
