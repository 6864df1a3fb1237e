package pubchem

import (
	"context"
	"net/http"
	"time"

	"bioez-be/internal/pkg/apperror"
	"bioez-be/pkg/bioapi"
)

type Client struct {
	transport *bioapi.Transport
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{transport: bioapi.NewTransport("PubChem", baseURL, timeout)}
}

type Compound struct {
	Cid              int
	IUPACName        string
	MolecularFormula string
}

type pcCompound struct {
	Id struct {
		Id struct {
			Cid int `json:"cid"`
		} `json:"id"`
	} `json:"id"`
	Props []struct {
		Urn struct {
			Label string `json:"label"`
			Name  string `json:"name"`
		} `json:"urn"`
		Value struct {
			Sval string `json:"sval"`
		} `json:"value"`
	} `json:"props"`
}

type compoundResponse struct {
	PCCompounds []pcCompound `json:"PC_Compounds"`
}

// Search resolves term by searchType ("name", "smiles", "cid", ...). PubChem answers
// 404 when nothing matches, which is reported as no compounds.
func (c *Client) Search(ctx context.Context, term, searchType string) ([]Compound, error) {
	if searchType == "" {
		searchType = "name"
	}

	var resp compoundResponse
	_, err := c.transport.GetJSON(ctx, c.transport.URL(nil, "compound", searchType, term, "JSON"), &resp)
	if err != nil {
		if apperror.UpstreamStatus(err) == http.StatusNotFound {
			return nil, nil
		}
		return nil, err
	}

	compounds := make([]Compound, 0, len(resp.PCCompounds))
	for _, pc := range resp.PCCompounds {
		cmp := Compound{Cid: pc.Id.Id.Cid}
		for _, p := range pc.Props {
			switch {
			case p.Urn.Label == "IUPAC Name" && p.Urn.Name == "Preferred":
				cmp.IUPACName = p.Value.Sval
			case p.Urn.Label == "Molecular Formula":
				cmp.MolecularFormula = p.Value.Sval
			}
		}
		compounds = append(compounds, cmp)
	}
	return compounds, nil
}
