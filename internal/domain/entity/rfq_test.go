package entity_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/Cotiza-api/internal/domain/entity"
)

func TestCanTransition_SoloAristasDelFlujo(t *testing.T) {
	statuses := []entity.RFQStatus{entity.RFQStatusOpen, entity.RFQStatusQuoted, entity.RFQStatusClosed}
	allowed := map[[2]entity.RFQStatus]bool{
		{entity.RFQStatusOpen, entity.RFQStatusQuoted}:   true,
		{entity.RFQStatusQuoted, entity.RFQStatusClosed}: true,
	}
	for _, from := range statuses {
		for _, to := range statuses {
			assert.Equal(t, allowed[[2]entity.RFQStatus{from, to}], entity.CanTransition(from, to), "%s -> %s", from, to)
		}
	}
}

func TestRFQ_AcceptsQuotes(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	rfq := &entity.RFQ{Status: entity.RFQStatusOpen, CreatedAt: now, ExpiresAt: now.Add(time.Hour)}

	assert.True(t, rfq.AcceptsQuotes(now))
	assert.True(t, rfq.AcceptsQuotes(rfq.ExpiresAt), "en el instante exacto de expiración aún es válida")
	assert.False(t, rfq.AcceptsQuotes(rfq.ExpiresAt.Add(time.Nanosecond)), "vencida no admite cotizaciones")

	rfq.Status = entity.RFQStatusQuoted
	assert.False(t, rfq.AcceptsQuotes(now))
}

func TestQuoteTotal_Exacto(t *testing.T) {
	price := decimal.RequireFromString("10.00")
	assert.True(t, decimal.RequireFromString("500.00").Equal(entity.QuoteTotal(price, 50)))

	price = decimal.RequireFromString("0.10")
	assert.Equal(t, "0.3", entity.QuoteTotal(price, 3).String(), "sin deriva de coma flotante")
}
