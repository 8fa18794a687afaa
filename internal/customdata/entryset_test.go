package customdata

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name         string
		raw          string
		expectedKeys []string
		expected     map[string]string
		expectError  bool
	}{
		{
			name:         "owner and phase",
			raw:          `{"Owner":"Alice","Phase":"Storage"}`,
			expectedKeys: []string{"Owner", "Phase", "Transport Type"},
			expected:     map[string]string{"Owner": "Alice", "Phase": "Transport"},
		},
		{
			name:         "empty object",
			raw:          `{}`,
			expectedKeys: []string{"Transport Type"},
			expected:     map[string]string{},
		},
		{
			name:         "existing transport type is reset in place",
			raw:          `{"Transport Type":"Rail","Color":"red"}`,
			expectedKeys: []string{"Transport Type", "Color"},
			expected:     map[string]string{"Color": "red"},
		},
		{
			name:         "document order is kept",
			raw:          `{"Zeta":"1","Alpha":"2","Mid":"3"}`,
			expectedKeys: []string{"Zeta", "Alpha", "Mid", "Transport Type"},
			expected:     map[string]string{"Zeta": "1", "Alpha": "2", "Mid": "3"},
		},
		{
			name:         "index keys come first in numeric order",
			raw:          `{"Owner":"Alice","10":"ten","2":"two","01":"zero one","0":"zero"}`,
			expectedKeys: []string{"0", "2", "10", "Owner", "01", "Transport Type"},
			expected:     map[string]string{"0": "zero", "2": "two", "10": "ten", "Owner": "Alice", "01": "zero one"},
		},
		{
			name:         "repeated key keeps first position and last value",
			raw:          `{"Owner":"Alice","Color":"red","Owner":"Bob"}`,
			expectedKeys: []string{"Owner", "Color", "Transport Type"},
			expected:     map[string]string{"Owner": "Bob", "Color": "red"},
		},
		{
			name:        "empty payload",
			raw:         "",
			expectError: true,
		},
		{
			name:        "not an object",
			raw:         `["Owner"]`,
			expectError: true,
		},
		{
			name:        "non string value",
			raw:         `{"Owner":"Alice","Weight":12}`,
			expectError: true,
		},
		{
			name:        "truncated",
			raw:         `{"Owner":"Alice"`,
			expectError: true,
		},
		{
			name:        "trailing data",
			raw:         `{"Owner":"Alice"} {}`,
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			set, err := Load(tt.raw)

			if tt.expectError {
				assert.ErrorIs(t, err, ErrMalformed)
				assert.Nil(t, set)
				return
			}

			require.NoError(t, err)
			var keys []string
			for _, slot := range set.Slots() {
				keys = append(keys, slot.Key)
			}
			assert.Equal(t, tt.expectedKeys, keys)
			assert.Equal(t, tt.expected, set.CleanMapping().Map())
		})
	}
}

func TestLoad_ExactlyOneTransportType(t *testing.T) {
	inputs := []string{
		`{}`,
		`{"Owner":"Alice"}`,
		`{"Transport Type":"Ship"}`,
		`{"Transport Type":"Ship","Transport Type":"Road"}`,
	}

	for _, raw := range inputs {
		set, err := Load(raw)
		require.NoError(t, err)

		count := 0
		for _, slot := range set.Slots() {
			if slot.Key == KeyTransportType {
				count++
				assert.Empty(t, slot.Value)
			}
		}
		assert.Equal(t, 1, count, raw)
	}
}

func TestLoad_SlotIdentifiers(t *testing.T) {
	set, err := Load(`{"Owner":"Alice","Phase":"Storage"}`)
	require.NoError(t, err)

	slots := set.Slots()
	require.Len(t, slots, 3)
	assert.Equal(t, SlotID("input-0"), slots[0].ID)
	assert.Equal(t, SlotID("input-1"), slots[1].ID)
	assert.Equal(t, SlotID("input-2"), slots[2].ID)

	assert.Equal(t, SlotID("input-3"), set.Append())
}

func TestEntrySet_AppendIsNeverSubmitted(t *testing.T) {
	set, err := Load(`{"Owner":"Alice"}`)
	require.NoError(t, err)
	before := set.CleanMapping().Map()

	id := set.Append()

	entry, ok := set.Get(id)
	require.True(t, ok)
	assert.Equal(t, Entry{}, entry)
	assert.Equal(t, 3, set.Len())
	assert.Equal(t, before, set.CleanMapping().Map())
}

func TestEntrySet_UpdateValue(t *testing.T) {
	set, err := Load(`{"Owner":"Alice"}`)
	require.NoError(t, err)

	t.Run("unknown slot is a no-op", func(t *testing.T) {
		ok := set.UpdateValue("input-99", "Bob")

		assert.False(t, ok)
		assert.Equal(t, 2, set.Len())
		assert.Equal(t, map[string]string{"Owner": "Alice"}, set.CleanMapping().Map())
	})

	t.Run("value is replaced and key kept", func(t *testing.T) {
		ok := set.UpdateValue("input-0", "Bob")

		assert.True(t, ok)
		entry, _ := set.Get("input-0")
		assert.Equal(t, Entry{Key: "Owner", Value: "Bob"}, entry)
	})

	t.Run("transport type becomes part of the mapping once set", func(t *testing.T) {
		ok := set.UpdateValue("input-1", "Road")

		assert.True(t, ok)
		assert.Equal(t, map[string]string{"Owner": "Bob", "Transport Type": "Road"}, set.CleanMapping().Map())
	})
}

func TestEntrySet_CleanMapping(t *testing.T) {
	set := NewEntrySet()
	add := func(key, value string) {
		id := set.Append()
		set.entries[id].Key = key
		set.entries[id].Value = value
	}

	add("Owner", " ")
	add(" ", "Alice")
	add("Color", "red")
	add("", "")
	add("Color", "blue")
	add("Weight", " 12 kg ")

	m := set.CleanMapping()

	assert.Equal(t, []string{"Color", "Weight"}, m.Keys())
	assert.Equal(t, map[string]string{"Color": "blue", "Weight": " 12 kg "}, m.Map())
}

func TestEntrySet_Visible(t *testing.T) {
	set, err := Load(`{"Owner":"Alice","Color":"red","Phase":"Storage"}`)
	require.NoError(t, err)
	set.Append()

	var keys []string
	for _, slot := range set.Visible() {
		keys = append(keys, slot.Key)
	}

	assert.Equal(t, []string{"Owner", "Phase", "Transport Type"}, keys)
	// hidden fields are still submitted
	assert.Equal(t, map[string]string{"Owner": "Alice", "Color": "red", "Phase": "Transport"}, set.CleanMapping().Map())
}

func TestMapping_MarshalJSON(t *testing.T) {
	m := NewMapping()
	m.Set("Phase", "Transport")
	m.Set("Owner", "A & B <co>")
	m.Set("Phase", "Transport")

	out, err := m.Encode()

	require.NoError(t, err)
	assert.Equal(t, `{"Phase":"Transport","Owner":"A & B <co>"}`, out)
}

func TestMapping_IndexKeysFirst(t *testing.T) {
	m := NewMapping()
	m.Set("Owner", "Alice")
	m.Set("4294967295", "not an index")
	m.Set("7", "seven")
	m.Set("-1", "negative")
	m.Set("3", "three")

	out, err := m.Encode()

	require.NoError(t, err)
	assert.Equal(t, []string{"3", "7", "Owner", "4294967295", "-1"}, m.Keys())
	assert.Equal(t, `{"3":"three","7":"seven","Owner":"Alice","4294967295":"not an index","-1":"negative"}`, out)
}

func TestValidTransportType(t *testing.T) {
	for _, v := range append([]string{""}, TransportTypes...) {
		assert.True(t, ValidTransportType(v), v)
	}
	assert.False(t, ValidTransportType("Bicycle"))
	assert.False(t, ValidTransportType("road"))
}
