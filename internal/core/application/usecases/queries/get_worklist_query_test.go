package queries_test

import (
	"testing"

	"labflow/internal/core/application/usecases/queries"
	"labflow/internal/core/domain/model/kernel"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWorklistQueryConstructors_Valid(t *testing.T) {
	facilityID := kernel.NewUUID()

	tests := []struct {
		name  string
		build func(*kernel.UUID) (queries.GetWorklistQuery, error)
		stage queries.WorklistStage
	}{
		{"awaiting collection", queries.NewAwaitingCollectionWorklistQuery, queries.WorklistAwaitingCollection},
		{"pending results", queries.NewPendingResultsWorklistQuery, queries.WorklistPendingResults},
		{"pending signature", queries.NewPendingSignatureWorklistQuery, queries.WorklistPendingSignature},
		{"ready for delivery", queries.NewReadyForDeliveryWorklistQuery, queries.WorklistReadyForDelivery},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			query, err := tt.build(&facilityID)

			require.NoError(t, err)
			require.NoError(t, query.Validate())
			require.NotNil(t, query.FacilityID())
			assert.Equal(t, facilityID, *query.FacilityID())
			assert.Equal(t, tt.stage, query.Stage())
		})
	}
}

func TestWorklistQueryConstructors_NilFacilityIsCrossFacility(t *testing.T) {
	query, err := queries.NewPendingSignatureWorklistQuery(nil)

	require.NoError(t, err)
	require.NoError(t, query.Validate())
	assert.Nil(t, query.FacilityID())
}

func TestWorklistQueryConstructors_InvalidFacilityID(t *testing.T) {
	_, err := queries.NewAwaitingCollectionWorklistQuery(&kernel.UUID{})

	require.Error(t, err)
	assert.ErrorIs(t, err, kernel.ErrUUIDIsNotConstructed)
}

func TestGetWorklistQuery_NotConstructedViaConstructor(t *testing.T) {
	query := queries.GetWorklistQuery{}

	err := query.Validate()

	require.Error(t, err)
	assert.ErrorIs(t, err, queries.ErrGetWorklistQueryIsNotConstructed)
}
