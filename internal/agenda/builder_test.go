package agenda

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuild(t *testing.T) {
	tests := []struct {
		name     string
		input    []Event
		expected []Event
	}{
		{
			name:     "empty input yields empty agenda",
			input:    []Event{},
			expected: []Event{},
		},
		{
			name:     "nil input yields empty agenda",
			input:    nil,
			expected: []Event{},
		},
		{
			name:  "single event gets END marker",
			input: []Event{NewEvent("Lunch", "12:00", "13:00")},
			expected: []Event{
				NewEvent("Lunch", "12:00", "13:00"),
				End("13:00"),
			},
		},
		{
			name: "back-to-back events get no BREAK",
			input: []Event{
				NewEvent("Standup", "09:00", "09:30"),
				NewEvent("Design", "09:30", "10:00"),
			},
			expected: []Event{
				NewEvent("Standup", "09:00", "09:30"),
				NewEvent("Design", "09:30", "10:00"),
				End("10:00"),
			},
		},
		{
			name: "gap between events gets BREAK",
			input: []Event{
				NewEvent("Standup", "09:00", "09:30"),
				NewEvent("Design", "10:00", "11:00"),
			},
			expected: []Event{
				NewEvent("Standup", "09:00", "09:30"),
				Break("09:30", "10:00"),
				NewEvent("Design", "10:00", "11:00"),
				End("11:00"),
			},
		},
		{
			name: "overlapping events still get BREAK",
			input: []Event{
				NewEvent("Workshop", "09:00", "11:00"),
				NewEvent("Call", "10:00", "10:30"),
			},
			expected: []Event{
				NewEvent("Workshop", "09:00", "11:00"),
				Break("11:00", "10:00"),
				NewEvent("Call", "10:00", "10:30"),
				End("10:30"),
			},
		},
		{
			name: "mixed gaps",
			input: []Event{
				NewEvent("A", "08:00", "09:00"),
				NewEvent("B", "09:00", "09:45"),
				NewEvent("C", "10:00", "10:15"),
				NewEvent("D", "10:15", "12:00"),
			},
			expected: []Event{
				NewEvent("A", "08:00", "09:00"),
				NewEvent("B", "09:00", "09:45"),
				Break("09:45", "10:00"),
				NewEvent("C", "10:00", "10:15"),
				NewEvent("D", "10:15", "12:00"),
				End("12:00"),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Build(tt.input))
		})
	}
}

func TestBuild_MarkerFields(t *testing.T) {
	got := Build([]Event{
		NewEvent("Standup", "09:00", "09:30"),
		NewEvent("Design", "10:00", "11:00"),
	})
	require.Len(t, got, 4)

	assert.Equal(t, "BREAK", got[1].Summary)
	assert.Equal(t, "09:30", got[1].Start)
	assert.Equal(t, "10:00", got[1].End)
	assert.Equal(t, KindBreak, got[1].Kind)

	assert.Equal(t, "END", got[3].Summary)
	assert.Equal(t, "11:00", got[3].Start)
	assert.Equal(t, "EOD", got[3].End)
	assert.Equal(t, KindEndOfDay, got[3].Kind)
}

func TestBuild_DoesNotModifyInput(t *testing.T) {
	input := []Event{
		NewEvent("Standup", "09:00", "09:30"),
		NewEvent("Design", "10:00", "11:00"),
	}
	snapshot := append([]Event(nil), input...)

	_ = Build(input)

	assert.Equal(t, snapshot, input)
}

func TestBuild_RebuildAddsOnlyTrailingEnd(t *testing.T) {
	input := []Event{
		NewEvent("Standup", "09:00", "09:30"),
		NewEvent("Review", "09:30", "10:00"),
		NewEvent("Design", "11:00", "12:00"),
		NewEvent("Sync", "11:30", "12:30"),
	}

	once := Build(input)
	twice := Build(once)

	// Markers line up with their neighbours, so the only new entry is an
	// END derived from the previous END's EOD end time.
	require.Len(t, twice, len(once)+1)
	assert.Equal(t, once, twice[:len(once)])
	assert.Equal(t, End(EOD), twice[len(twice)-1])
}

func TestBuild_Properties(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for run := 0; run < 200; run++ {
		n := rng.Intn(12)
		input := make([]Event, n)
		for i := range input {
			start := rng.Intn(24 * 4)
			end := start + rng.Intn(8)
			input[i] = NewEvent(
				fmt.Sprintf("event-%d", i),
				quarterHour(start),
				quarterHour(end),
			)
		}
		Sort(input)

		out := Build(input)

		if n == 0 {
			assert.Empty(t, out)
			continue
		}

		assert.GreaterOrEqual(t, len(out), n+1)
		assert.LessOrEqual(t, len(out), 2*n)

		// Original events survive in order, markers are the only additions.
		var scheduled []Event
		ends := 0
		for _, e := range out {
			switch e.Kind {
			case KindScheduled:
				scheduled = append(scheduled, e)
			case KindEndOfDay:
				ends++
			}
		}
		assert.Equal(t, input, scheduled)
		assert.Equal(t, 1, ends)
		assert.Equal(t, KindEndOfDay, out[len(out)-1].Kind)
	}
}

func quarterHour(q int) string {
	if q >= 24*4 {
		q = 24*4 - 1
	}
	return fmt.Sprintf("%02d:%02d", q/4, (q%4)*15)
}

func TestSort(t *testing.T) {
	events := []Event{
		NewEvent("Design", "10:00", "11:00"),
		NewEvent("Standup", "09:00", "09:30"),
		NewEvent("Lunch", "12:00", "13:00"),
		NewEvent("Coffee", "09:00", "09:15"),
	}

	Sort(events)

	var got []string
	for _, e := range events {
		got = append(got, e.Summary)
	}
	// Standup was fetched before Coffee and both start at 09:00.
	assert.Equal(t, []string{"Standup", "Coffee", "Design", "Lunch"}, got)
}

func TestSort_Empty(t *testing.T) {
	var events []Event
	Sort(events)
	assert.Empty(t, events)
}
