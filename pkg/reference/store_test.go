package reference

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ramsey-B/fern/pkg/models"
)

func TestStoreEmptySnapshot(t *testing.T) {
	store := NewStore()

	snapshot := store.Snapshot()
	assert.Empty(t, snapshot)
}

func TestStoreReplaceAndSnapshot(t *testing.T) {
	store := NewStore()

	store.Replace(models.ReferenceData{
		"kyc": {
			Type:   "aadhaar",
			Fields: models.ExtractedFieldSet{"name": "John Doe"},
		},
	})

	snapshot := store.Snapshot()
	require.Contains(t, snapshot, "kyc")
	assert.Equal(t, "John Doe", snapshot["kyc"].Fields["name"])
}

func TestStoreReplaceIsWholesale(t *testing.T) {
	store := NewStore()

	store.Replace(models.ReferenceData{
		"kyc":             {Fields: models.ExtractedFieldSet{"name": "John Doe"}},
		"sanction_letter": {Fields: models.ExtractedFieldSet{"loanAmount": "1500000"}},
	})
	store.Replace(models.ReferenceData{
		"kyc": {Fields: models.ExtractedFieldSet{"name": "Jane Smith"}},
	})

	snapshot := store.Snapshot()
	assert.Len(t, snapshot, 1)
	assert.Equal(t, "Jane Smith", snapshot["kyc"].Fields["name"])
}

func TestStoreSnapshotUnaffectedByLaterReplace(t *testing.T) {
	store := NewStore()

	store.Replace(models.ReferenceData{
		"kyc": {Fields: models.ExtractedFieldSet{"name": "John Doe"}},
	})
	before := store.Snapshot()

	store.Replace(models.ReferenceData{
		"kyc": {Fields: models.ExtractedFieldSet{"name": "Jane Smith"}},
	})

	assert.Equal(t, "John Doe", before["kyc"].Fields["name"])
	assert.Equal(t, "Jane Smith", store.Snapshot()["kyc"].Fields["name"])
}
