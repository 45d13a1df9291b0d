package journal

import (
	"bitkub-grid-bot-go/internal/models"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestBadgerJournalAppendAndList verifies records come back in insertion
// order across the full marshal/store/load path.
func TestBadgerJournalAppendAndList(t *testing.T) {
	j, err := NewBadgerJournal(t.TempDir())
	require.NoError(t, err)
	defer j.Close()

	first := &models.CycleRecord{
		Time:      time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
		Price:     "3.21",
		Action:    "placed",
		BuyPrice:  "3.18",
		SellPrice: "3.25",
		Quantity:  "62.89",
	}
	second := &models.CycleRecord{
		Time:         time.Date(2024, 5, 1, 12, 5, 0, 0, time.UTC),
		Price:        "3.19",
		Action:       "skipped",
		CancelledIDs: []string{"42"},
	}

	require.NoError(t, j.Append(first))
	require.NoError(t, j.Append(second))

	records, err := j.List()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "placed", records[0].Action)
	assert.Equal(t, "skipped", records[1].Action)
	assert.Equal(t, []string{"42"}, records[1].CancelledIDs)
	assert.True(t, first.Time.Equal(records[0].Time))
}

// TestBadgerJournalEmpty covers a freshly created database.
func TestBadgerJournalEmpty(t *testing.T) {
	j, err := NewBadgerJournal(t.TempDir())
	require.NoError(t, err)
	defer j.Close()

	records, err := j.List()
	require.NoError(t, err)
	assert.Empty(t, records)
}

// TestNopJournal ensures the no-op implementation is safe to use everywhere
// a real journal is.
func TestNopJournal(t *testing.T) {
	var j Journal = Nop{}
	assert.NoError(t, j.Append(&models.CycleRecord{Action: "placed"}))
	records, err := j.List()
	assert.NoError(t, err)
	assert.Empty(t, records)
	assert.NoError(t, j.Close())
}
