package postgres

import (
	"github.com/Masterminds/squirrel"

	"github.com/jhoicas/Taller-api/internal/domain/entity"
)

// payerValues el pagador se guarda en client_id o company_id según payer_type.
func payerValues(p entity.Payer) (payerType string, clientID, companyID *string) {
	id := p.ID
	if p.Type == entity.PayerCompany {
		return string(p.Type), nil, &id
	}
	return string(p.Type), &id, nil
}

func payerFromColumns(payerType string, clientID, companyID *string) entity.Payer {
	if entity.PayerType(payerType) == entity.PayerCompany {
		return entity.Payer{Type: entity.PayerCompany, ID: deref(companyID)}
	}
	return entity.Payer{Type: entity.PayerClient, ID: deref(clientID)}
}

func payerWhere(p entity.Payer) squirrel.Sqlizer {
	if p.Type == entity.PayerCompany {
		return squirrel.Eq{"payer_type": string(p.Type), "company_id": p.ID}
	}
	return squirrel.Eq{"payer_type": string(p.Type), "client_id": p.ID}
}
