package abc

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vsinha/salesdash/pkg/application/dto"
	testhelpers "github.com/vsinha/salesdash/pkg/application/services/testing"
	"github.com/vsinha/salesdash/pkg/domain/entities"
)

func TestService_Classify(t *testing.T) {
	repo := testhelpers.BuildSalesRepository(
		testhelpers.MustSale("2023-03-05", "S1", "First", "A1", 250, 1),
		testhelpers.MustSale("2024-03-01", "S1", "First", "A1", 500, 1),
		testhelpers.MustSale("2024-03-02", "S2", "Second", "B1", 300, 1),
		testhelpers.MustSale("2024-03-03", "S3", "Third", "C1", 200, 1),
		testhelpers.MustSale("2024-04-03", "S3", "Third", "C1", 5000, 1),
	)

	service := NewService(repo, nil)
	report, err := service.Classify(context.Background(), testhelpers.MustRange("2024-03-01", "2024-03-31"))
	require.NoError(t, err)

	assert.NotEmpty(t, report.RunID)
	assert.Equal(t, "2023-03-01..2023-03-31", report.PreviousPeriod.String())
	require.Len(t, report.Suppliers, 3)
	assertDecimal(t, "1000", report.TotalCurrent)
	assertDecimal(t, "250", report.TotalPrevious)
	assertDecimal(t, "100", report.Suppliers[0].GrowthPct)

	assert.Equal(t, []dto.ClassCount{
		{Class: entities.ClassA, Count: 1},
		{Class: entities.ClassB, Count: 1},
		{Class: entities.ClassC, Count: 1},
	}, report.Distribution)
}

func TestService_Classify_ValidatesBeforeReading(t *testing.T) {
	service := NewService(nil, nil)

	_, err := service.Classify(context.Background(), entities.DateRange{})
	assert.ErrorIs(t, err, entities.ErrMissingDate)
}
