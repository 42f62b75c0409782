package memory

import (
	"encoding/json"

	"github.com/jhoicas/Cotiza-api/internal/domain/entity"
)

func cloneProduct(p entity.Product) *entity.Product {
	if p.Specifications != nil {
		p.Specifications = append(json.RawMessage(nil), p.Specifications...)
	}
	return &p
}
