package doc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildIndex(t *testing.T) {
	tests := []struct {
		name    string
		parts   []Part
		wantErr string
	}{
		{
			name: "valid parts",
			parts: []Part{
				{ID: "ch1", Title: "One", Length: 100},
				{ID: "ch2", Title: "Two", Length: 50},
			},
		},
		{
			name:    "no parts",
			parts:   nil,
			wantErr: "no sections",
		},
		{
			name: "duplicate ids",
			parts: []Part{
				{ID: "ch1", Length: 10},
				{ID: "ch1", Length: 20},
			},
			wantErr: `duplicate section id "ch1"`,
		},
		{
			name: "missing id",
			parts: []Part{
				{ID: "", Length: 10},
			},
			wantErr: "no identifier",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sections, err := BuildIndex(tt.parts)
			if tt.wantErr != "" {
				var malformed *MalformedDocumentError
				require.ErrorAs(t, err, &malformed)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			require.Len(t, sections, len(tt.parts))
			for i, s := range sections {
				assert.Equal(t, tt.parts[i].ID, s.ID)
				assert.Equal(t, i, s.Ordinal)
				assert.Equal(t, tt.parts[i].Length, s.Length)
			}
		})
	}
}

func TestBuildIndexPreservesOrder(t *testing.T) {
	parts := []Part{
		{ID: "epilogue", Length: 5},
		{ID: "prologue", Length: 7},
		{ID: "middle", Length: 3},
	}
	sections, err := BuildIndex(parts)
	require.NoError(t, err)

	ids := make([]string, len(sections))
	for i, s := range sections {
		ids[i] = s.ID
	}
	assert.Equal(t, []string{"epilogue", "prologue", "middle"}, ids)
}
