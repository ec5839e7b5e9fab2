package pubchem

import (
	"context"
	"net/http"
	"time"

	resty "github.com/go-resty/resty/v2"
	"github.com/scienceol/chemdb/pkg/common/code"
	"github.com/scienceol/chemdb/pkg/middleware/logger"
	"github.com/scienceol/chemdb/pkg/repo"
)

const properties = "Title,MolecularFormula,IUPACName,IsomericSMILES,CanonicalSMILES,SMILES"

type property struct {
	Title            string `json:"Title"`
	MolecularFormula string `json:"MolecularFormula"`
	IUPACName        string `json:"IUPACName"`
	IsomericSMILES   string `json:"IsomericSMILES"`
	CanonicalSMILES  string `json:"CanonicalSMILES"`
	SMILES           string `json:"SMILES"`
}

type propertyResponse struct {
	PropertyTable struct {
		Properties []property `json:"Properties"`
	} `json:"PropertyTable"`
}

type pubchemImpl struct {
	client *resty.Client
}

func NewPubChemRepo(baseURL string) repo.PubChemRepo {
	return &pubchemImpl{
		client: resty.New().
			SetTimeout(30*time.Second).
			SetBaseURL(baseURL).
			SetHeader("Accept", "application/json"),
	}
}

func (p *pubchemImpl) GetCompoundByName(ctx context.Context, name string) (*repo.CompoundInfo, error) {
	propResp := &propertyResponse{}
	res, err := p.client.R().
		SetContext(ctx).
		SetPathParams(map[string]string{
			"props": properties,
			"name":  name,
		}).
		SetResult(propResp).
		Get("/rest/pug/compound/name/{name}/property/{props}/JSON")
	if err != nil {
		logger.Errorf(ctx, "request pubchem properties err: %+v", err)
		return nil, code.RPCHttpErr.WithErr(err)
	}

	switch res.StatusCode() {
	case http.StatusOK:
	case http.StatusNotFound:
		return nil, code.PubChemNotFoundErr.WithMsgf("no PubChem record for %q", name)
	default:
		return nil, code.RPCHttpCodeErr.WithMsgf("pubchem property query failed: status %d", res.StatusCode())
	}

	if len(propResp.PropertyTable.Properties) == 0 {
		return nil, code.PubChemNotFoundErr.WithMsgf("no PubChem record for %q", name)
	}

	prop := propResp.PropertyTable.Properties[0]
	info := &repo.CompoundInfo{
		Name:             firstNonEmpty(prop.Title, prop.IUPACName, name),
		MolecularFormula: prop.MolecularFormula,
		SMILES:           firstNonEmpty(prop.IsomericSMILES, prop.CanonicalSMILES, prop.SMILES),
	}
	return info, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
